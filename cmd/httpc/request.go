package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nczempin/0004_std_lib_http_client/httpc/protocol"
)

type requestFlags struct {
	query     []string
	headers   []string
	userAgent string
	data      string
}

func newRequestCmd(root *rootFlags, name string) *cobra.Command {
	method, _ := protocol.ParseMethod(name)
	flags := &requestFlags{}

	cmd := &cobra.Command{
		Use:   fmt.Sprintf("%s URL...", name),
		Short: fmt.Sprintf("Send a %s request to each URL", method),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := root.loadClient(cmd)
			if err != nil {
				return err
			}
			configs, err := flags.requestConfigs(cmd, args)
			if err != nil {
				return err
			}

			responses := make([]*protocol.Response, len(configs))
			var g errgroup.Group
			for i, cfg := range configs {
				i, cfg := i, cfg
				g.Go(func() error {
					resp, err := c.Execute(method, cfg)
					if err != nil {
						return fmt.Errorf("%s %s: %w", method, cfg.URL, err)
					}
					responses[i] = resp
					return nil
				})
			}
			runErr := g.Wait()

			absent := 0
			out := newPrinter(cmd.OutOrStdout(), root.verbose, root.json)
			for i, resp := range responses {
				if resp == nil {
					continue
				}
				if err := out.print(configs[i].URL.String(), resp); err != nil {
					return err
				}
			}
			if runErr != nil {
				return runErr
			}
			for i, resp := range responses {
				if resp == nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "no response for %s: unsupported scheme %q\n", configs[i].URL, configs[i].URL.Scheme)
					absent++
				}
			}
			if absent > 0 {
				return fmt.Errorf("%d of %d requests produced no response", absent, len(responses))
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&flags.query, "query", "q", nil, "query parameter as key=value (repeatable)")
	cmd.Flags().StringArrayVarP(&flags.headers, "header", "H", nil, `request header as "Key: Value" (repeatable)`)
	cmd.Flags().StringVarP(&flags.userAgent, "user-agent", "A", "", "User-Agent header value")
	if method == protocol.MethodPost || method == protocol.MethodPut {
		cmd.Flags().StringVarP(&flags.data, "data", "d", "", "request body")
	}
	return cmd
}

func (f *requestFlags) requestConfigs(cmd *cobra.Command, urls []string) ([]protocol.RequestConfig, error) {
	query, err := parsePairs(f.query, "=")
	if err != nil {
		return nil, fmt.Errorf("--query: %w", err)
	}
	headers, err := parsePairs(f.headers, ":")
	if err != nil {
		return nil, fmt.Errorf("--header: %w", err)
	}

	var data []byte
	if cmd.Flags().Changed("data") {
		data = []byte(f.data)
	}

	configs := make([]protocol.RequestConfig, 0, len(urls))
	for _, u := range urls {
		cfg, err := protocol.NewRequestConfig(u, query, headers, f.userAgent, data)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// parsePairs splits each item at the first sep. Keys and values are
// trimmed; a later duplicate key wins. No items yields a nil map.
func parsePairs(items []string, sep string) (map[string]string, error) {
	if len(items) == 0 {
		return nil, nil
	}
	pairs := make(map[string]string, len(items))
	for _, item := range items {
		k, v, ok := strings.Cut(item, sep)
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed pair %q, want key%svalue", item, sep)
		}
		pairs[k] = strings.TrimSpace(v)
	}
	return pairs, nil
}
