package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/olekukonko/tablewriter"
	"github.com/tidwall/pretty"
)

// Output formats.
const (
	FormatMarkdown = "markdown"
	FormatPlain    = "plain"
	FormatJSON     = "json"
)

// EmptyMessage is printed instead of a table without rows.
const EmptyMessage = "No data returned."

type renderer func(w io.Writer, t Table) error

var renderers = map[string]renderer{
	FormatMarkdown: renderMarkdown,
	FormatPlain:    renderPlain,
	FormatJSON:     renderJSON,
}

// ValidFormat reports whether format names a renderer.
func ValidFormat(format string) bool {
	_, ok := renderers[strings.ToLower(format)]
	return ok
}

// Render writes t in the requested format. Unknown formats and renderer
// failures fall back to plain text.
func Render(w io.Writer, format string, t Table) error {
	if len(t.Rows) == 0 {
		_, err := fmt.Fprintln(w, EmptyMessage)
		return err
	}

	render, ok := renderers[strings.ToLower(format)]
	if !ok {
		slog.Warn("unknown output format, using plain", "format", format)
		render = renderPlain
	}
	var buf bytes.Buffer
	if err := render(&buf, t); err != nil {
		slog.Warn("render failed, using plain", "format", format, "error", err)
		buf.Reset()
		if err := renderPlain(&buf, t); err != nil {
			return err
		}
	}
	_, err := buf.WriteTo(w)
	return err
}

func renderMarkdown(w io.Writer, t Table) error {
	tw := tablewriter.NewWriter(w)
	tw.SetHeader(t.Headers)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	tw.SetBorders(tablewriter.Border{Left: true, Top: false, Right: true, Bottom: false})
	tw.SetCenterSeparator("|")
	tw.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	tw.SetAlignment(tablewriter.ALIGN_LEFT)
	tw.AppendBulk(t.Rows)
	tw.Render()
	return nil
}

func renderPlain(w io.Writer, t Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// renderJSON writes one object per row with keys in header order.
func renderJSON(w io.Writer, t Table) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range t.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, h := range t.Headers {
			if j > 0 {
				buf.WriteByte(',')
			}
			var cell string
			if j < len(row) {
				cell = row[j]
			}
			k, err := json.Marshal(h)
			if err != nil {
				return err
			}
			v, err := json.Marshal(cell)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	_, err := w.Write(pretty.Pretty(buf.Bytes()))
	return err
}
