package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/viper"

	"kontent-migrator/internal/diagnostic"
)

const cellLimit = 60

func jsonOutput() bool {
	return viper.GetBool("json")
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}

// debugDump writes v to stderr when --debug is set.
func debugDump(label string, v any) {
	if !viper.GetBool("debug") {
		return
	}

	fmt.Fprintf(os.Stderr, "--- %s ---\n", label)
	spew.Fdump(os.Stderr, v)
}

func newTable(out io.Writer, header table.Row) table.Writer {
	tw := table.NewWriter()
	tw.SetOutputMirror(out)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(header)

	return tw
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Local().Format("2006-01-02 15:04")
}

func printDiagnostics(out io.Writer, diags *diagnostic.Diagnostics) {
	all := diags.All()
	if len(all) == 0 {
		fmt.Fprintln(out, "No problems found.")
		return
	}

	tw := newTable(out, table.Row{"Severity", "Code", "Element", "Message", "Suggestions"})
	for _, d := range all {
		tw.AppendRow(table.Row{d.Severity, d.Code, d.Element, d.Message, strings.Join(d.Suggestions, ", ")})
	}

	tw.AppendFooter(table.Row{"", "", "", fmt.Sprintf("%d errors, %d warnings", len(diags.Errors), len(diags.Warnings))})
	tw.Render()
}
