package output

import (
	"fmt"
	"strconv"

	pretty "github.com/jedib0t/go-pretty/v6/table"

	"github.com/leapstack-labs/asmreport/internal/amr"
	"github.com/leapstack-labs/asmreport/internal/stats"
	"github.com/leapstack-labs/asmreport/internal/table"
)

// Table writes t as a text or markdown table.
func (r *Renderer) Table(t *table.Table) {
	r.writeTable(t.Columns, t.Rows, nil)
}

// CountTable writes the AMR count table. In text mode present genes are
// highlighted the same way the HTML report styles them.
func (r *Renderer) CountTable(w *amr.Wide) {
	t := w.Table()
	r.writeTable(t.Columns, t.Rows, func(col int, v string) string {
		if col == 0 || amr.CellStyle(atoi(v)) != amr.Present {
			return v
		}
		return r.styles.Present.Render(v)
	})
}

// Stats writes column summaries.
func (r *Renderer) Stats(summaries []stats.Summary) {
	header := []string{"column", "count", "mean", "std_dev", "min", "max"}
	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			s.Column,
			strconv.Itoa(s.Count),
			formatFloat(s.Mean),
			formatFloat(s.StdDev),
			formatFloat(s.Min),
			formatFloat(s.Max),
		}
	}
	r.writeTable(header, rows, nil)
}

func (r *Renderer) writeTable(header []string, rows [][]string, decorate func(col int, v string) string) {
	if len(rows) == 0 {
		r.Muted("(0 rows)")
		return
	}

	tw := pretty.NewWriter()
	tw.AppendHeader(toRow(header, nil))
	markdown := r.EffectiveMode() != ModeText
	for _, row := range rows {
		if markdown {
			tw.AppendRow(toRow(row, nil))
			continue
		}
		tw.AppendRow(toRow(row, decorate))
	}

	if markdown {
		r.Println(tw.RenderMarkdown())
		r.Println("")
		return
	}
	tw.SetStyle(pretty.StyleLight)
	r.Println(tw.Render())
	r.Muted(fmt.Sprintf("(%d rows)", len(rows)))
}

func toRow(values []string, decorate func(col int, v string) string) pretty.Row {
	row := make(pretty.Row, len(values))
	for i, v := range values {
		if decorate != nil {
			v = decorate(i, v)
		}
		row[i] = v
	}
	return row
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return n
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}
