package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nczempin/0004_std_lib_http_client/httpc/client"
	"github.com/nczempin/0004_std_lib_http_client/httpc/config"
	"github.com/nczempin/0004_std_lib_http_client/httpc/log"
)

type rootFlags struct {
	configFile string
	engine     string
	debug      bool
	verbose    bool
	json       bool
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "httpc",
		Short: "A small HTTP/1.1 client over raw sockets.",
		Long: `httpc sends one request per URL over a raw TCP, Unix or TLS connection,
reads the response until the server closes the connection and follows
301 redirects.

Settings are read from $HOME/.httpc/config.yaml unless --config is given.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flags.configFile, "config", "", fmt.Sprintf("config file (default is %s)", config.DefaultPath()))
	cmd.PersistentFlags().StringVar(&flags.engine, "engine", "", "transport engine: net, uring or uring-v2 (overrides config)")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "print the status line and a header table before the body")
	cmd.PersistentFlags().BoolVar(&flags.json, "json", false, "print each response as JSON")

	cmd.AddCommand(
		newRequestCmd(flags, "get"),
		newRequestCmd(flags, "post"),
		newRequestCmd(flags, "put"),
		newRequestCmd(flags, "delete"),
	)
	return cmd
}

// loadClient reads the config, applies flag overrides, sets up logging
// and returns a client built from the result.
func (f *rootFlags) loadClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}
	if f.engine != "" {
		cfg.Engine = f.engine
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logOpts := append(cfg.LogOptions(), log.WithWriter(cmd.ErrOrStderr()))
	if f.debug {
		logOpts = append(logOpts, log.WithLevel(log.DebugLevel))
	}
	log.Init(logOpts...)

	opts, err := cfg.ClientOptions()
	if err != nil {
		return nil, err
	}
	log.Debugf("engine=%s max_redirects=%d", cfg.Engine, cfg.MaxRedirects)
	return client.New(opts...), nil
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
