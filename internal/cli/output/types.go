package output

import (
	"github.com/leapstack-labs/asmreport/internal/stats"
	"github.com/leapstack-labs/asmreport/internal/table"
)

// TableData is the JSON form of a report table.
type TableData struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// NewTableData converts a table for JSON output. Rows are never null.
func NewTableData(t *table.Table) TableData {
	rows := t.Rows
	if rows == nil {
		rows = [][]string{}
	}
	return TableData{Name: t.Name, Columns: t.Columns, Rows: rows}
}

// RenderSummary is the JSON output of the render command.
type RenderSummary struct {
	HTML     string `json:"html"`
	Markdown string `json:"markdown,omitempty"`
	Archive  string `json:"archive,omitempty"`
	RunID    string `json:"run_id,omitempty"`
	QCRows   int    `json:"qc_rows"`
	MLSTRows int    `json:"mlst_rows"`
	AMRRows  int    `json:"amr_rows"`
	Samples  int    `json:"samples"`
	Genes    int    `json:"genes"`
}

// PreviewOutput is the JSON output of the preview command.
type PreviewOutput struct {
	Title   string          `json:"title"`
	Tables  []TableData     `json:"tables"`
	QCStats []stats.Summary `json:"qc_stats"`
}
