package report

import (
	"html/template"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/leapstack-labs/asmreport/internal/amr"
	"github.com/leapstack-labs/asmreport/internal/table"
)

// tableClass is the class carried by every rendered table.
const tableClass = "dataframe"

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func cell(a atom.Atom, s string, attrs ...html.Attribute) *html.Node {
	n := element(a, attrs...)
	n.AppendChild(textNode(s))
	return n
}

// skeleton builds <table><thead><tr>...</tr></thead><tbody/></table> and
// returns the table and its body.
func skeleton(columns []string, attrs ...html.Attribute) (*html.Node, *html.Node) {
	tbl := element(atom.Table, attrs...)

	head := element(atom.Thead)
	tr := element(atom.Tr)
	for _, c := range columns {
		tr.AppendChild(cell(atom.Th, c))
	}
	head.AppendChild(tr)
	tbl.AppendChild(head)

	body := element(atom.Tbody)
	tbl.AppendChild(body)
	return tbl, body
}

// PlainTable renders t without an index column or per-cell styling.
func PlainTable(t *table.Table) *html.Node {
	tbl, body := skeleton(t.Columns, html.Attribute{Key: "class", Val: tableClass})
	for _, row := range t.Rows {
		tr := element(atom.Tr)
		for _, v := range row {
			tr.AppendChild(cell(atom.Td, v))
		}
		body.AppendChild(tr)
	}
	return tbl
}

// CountTable renders the wide AMR table. The sample column is never styled;
// each count cell carries the inline style chosen by amr.CellStyle.
func CountTable(w *amr.Wide) *html.Node {
	columns := append([]string{table.FileColumn}, w.Genes...)
	tbl, body := skeleton(columns,
		html.Attribute{Key: "id", Val: "amr-count"},
		html.Attribute{Key: "class", Val: tableClass},
	)
	for i, sample := range w.Samples {
		tr := element(atom.Tr)
		tr.AppendChild(cell(atom.Td, sample))
		for _, n := range w.Counts[i] {
			var attrs []html.Attribute
			if css := amr.CellStyle(n).CSS(); css != "" {
				attrs = append(attrs, html.Attribute{Key: "style", Val: css})
			}
			tr.AppendChild(cell(atom.Td, strconv.Itoa(n), attrs...))
		}
		body.AppendChild(tr)
	}
	return tbl
}

// Fragment serializes n for verbatim substitution into the page.
func Fragment(n *html.Node) (template.HTML, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", err
	}
	return template.HTML(sb.String()), nil //nolint:gosec // G203: produced by html.Render, text nodes are escaped
}
