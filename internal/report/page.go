package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	mdtable "github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

// Page holds the pre-rendered fragments substituted into the report page,
// in the order they appear.
type Page struct {
	Title         string
	QCTable       template.HTML
	MLSTTable     template.HTML
	AMRCountTable template.HTML
	AMRTable      template.HTML
}

// Render executes the page template.
func (p *Page) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "report.html.tmpl", p); err != nil {
		return nil, fmt.Errorf("failed to render report page: %w", err)
	}
	return buf.Bytes(), nil
}

// ToMarkdown converts a rendered page to GitHub-flavoured markdown tables.
func ToMarkdown(page []byte) (string, error) {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			mdtable.NewTablePlugin(),
		),
	)
	md, err := conv.ConvertString(string(page))
	if err != nil {
		return "", fmt.Errorf("failed to convert report to markdown: %w", err)
	}
	return md, nil
}
