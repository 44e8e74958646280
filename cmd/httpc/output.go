package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/nczempin/0004_std_lib_http_client/httpc/protocol"
)

type printer struct {
	w       io.Writer
	verbose bool
	json    bool
}

func newPrinter(w io.Writer, verbose, asJSON bool) *printer {
	return &printer{w: w, verbose: verbose, json: asJSON}
}

type jsonResponse struct {
	URL string `json:"url"`
	*protocol.Response
}

func (p *printer) print(url string, resp *protocol.Response) error {
	if p.json {
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonResponse{URL: url, Response: resp})
	}

	if p.verbose {
		fmt.Fprintf(p.w, "%s %s %s\n", resp.Version, resp.StatusCode, resp.Reason)
		p.headerTable(resp.Headers)
		fmt.Fprintln(p.w)
	}
	_, err := io.WriteString(p.w, resp.Body)
	if err == nil && resp.Body != "" {
		_, err = io.WriteString(p.w, "\n")
	}
	return err
}

func (p *printer) headerTable(headers map[string]string) {
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tbl := table.NewWriter()
	tbl.SetStyle(table.Style{
		Box: table.BoxStyle{
			PaddingRight: "   ",
		},
	})
	tbl.SetOutputMirror(p.w)
	tbl.AppendHeader(table.Row{"HEADER", "VALUE"})
	for _, k := range keys {
		tbl.AppendRow(table.Row{k, headers[k]})
	}
	tbl.Render()
}
