// Package output renders query results for the command line.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/lgbarn/chessql-go/internal/query"
)

// Formats accepted by New.
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatCSV   = "csv"
)

// ResultWriter is the interface for writing query results.
// Different implementations handle different output formats.
type ResultWriter interface {
	WriteResponse(resp *query.Response) error
}

// New returns the writer for format.
func New(format string, w io.Writer) (ResultWriter, error) {
	switch strings.ToLower(format) {
	case FormatTable, "":
		return NewTableWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w), nil
	case FormatCSV:
		return NewCSVWriter(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q (want table, json or csv)", format)
}

// JSONWriter writes the whole response as one indented JSON document.
type JSONWriter struct {
	w io.Writer
}

func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

func (jw *JSONWriter) WriteResponse(resp *query.Response) error {
	enc := json.NewEncoder(jw.w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

// TableWriter writes aligned columns followed by a paging footer.
type TableWriter struct {
	w io.Writer
}

func NewTableWriter(w io.Writer) *TableWriter {
	return &TableWriter{w: w}
}

func (tw *TableWriter) WriteResponse(resp *query.Response) error {
	t := tabwriter.NewWriter(tw.w, 0, 0, 2, ' ', 0)
	if len(resp.Columns) > 0 {
		fmt.Fprintln(t, strings.Join(upper(resp.Columns), "\t"))
		for _, row := range resp.Results {
			fmt.Fprintln(t, strings.Join(cells(resp.Columns, row), "\t"))
		}
	}
	if err := t.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(tw.w, Footer(resp))
	return err
}

// CSVWriter writes a header row and one record per result.
type CSVWriter struct {
	w *csv.Writer
}

func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (cw *CSVWriter) WriteResponse(resp *query.Response) error {
	if err := cw.w.Write(resp.Columns); err != nil {
		return err
	}
	for _, row := range resp.Results {
		if err := cw.w.Write(cells(resp.Columns, row)); err != nil {
			return err
		}
	}
	cw.w.Flush()
	return cw.w.Error()
}

// Footer summarises a page, e.g. "rows 1-2 of 5 (page 1 of 3)".
func Footer(resp *query.Response) string {
	if resp.Count == 0 {
		return fmt.Sprintf("no rows (%d total)", resp.TotalCount)
	}
	return fmt.Sprintf("rows %d-%d of %d (page %d of %d)",
		resp.Offset+1, resp.Offset+resp.Count, resp.TotalCount, resp.PageNo, resp.TotalPages)
}

func upper(columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = strings.ToUpper(c)
	}
	return out
}

func cells(columns []string, row map[string]any) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = format(row[c])
	}
	return out
}

func format(v any) string {
	switch v := v.(type) {
	case nil:
		return "NULL"
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return fmt.Sprintf("%g", v)
	}
	return fmt.Sprint(v)
}
