package commands

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/kgforge-labs/kgforge/pkg/kg"
	"github.com/kgforge-labs/kgforge/pkg/sparql"
)

// resultRows flattens solutions into string cells, one per projected
// variable, with IRIs rendered as CURIEs and unbound variables empty.
func resultRows(res *sparql.Results, ns *kg.Namespaces) [][]string {
	rows := make([][]string, 0, len(res.Solutions))
	for _, sol := range res.Solutions {
		row := make([]string, len(res.Vars))
		for i, v := range res.Vars {
			if term, ok := sol[v]; ok {
				row[i] = ns.FormatTerm(term)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func renderResults(w io.Writer, res *sparql.Results, ns *kg.Namespaces, format string) error {
	rows := resultRows(res, ns)

	switch format {
	case "json":
		return renderJSON(w, res.Vars, rows)
	case "table":
		return renderTable(w, res.Vars, rows)
	case "md", "markdown":
		return renderMarkdown(w, res.Vars, rows)
	case "csv", "":
		return renderCSV(w, res.Vars, rows)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// renderCSV writes the header row followed by one row per solution.
// An empty result set still yields the header.
func renderCSV(w io.Writer, cols []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(cols); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func renderTable(w io.Writer, cols []string, rows [][]string) error {
	if len(rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(cols))
	for i, col := range cols {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, cell := range row {
			tr[i] = cell
		}
		t.AppendRow(tr)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(rows))
	return nil
}

func renderJSON(w io.Writer, cols []string, rows [][]string) error {
	results := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		m := make(map[string]string, len(cols))
		for i, col := range cols {
			m[col] = row[i]
		}
		results = append(results, m)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func renderMarkdown(w io.Writer, cols []string, rows [][]string) error {
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(cols, " | "))
	seps := make([]string, len(cols))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(row, " | "))
	}
	return nil
}
