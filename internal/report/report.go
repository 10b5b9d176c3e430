// Package report assembles the assembly pipeline summary: it loads the QC,
// MLST and AMR inputs, normalizes and pivots them, and renders the result
// as a single self-contained HTML page.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/leapstack-labs/asmreport/internal/amr"
	"github.com/leapstack-labs/asmreport/internal/table"
)

// DefaultTitle is the title of the report page.
const DefaultTitle = "Assembly Pipeline Summary"

// Inputs are the paths of the three pipeline results.
type Inputs struct {
	QC   string
	MLST string
	AMR  string
}

// Options controls normalization and presentation.
type Options struct {
	// QCDropColumns are removed from the QC table.
	QCDropColumns []string
	// StrictDrop makes a missing QC drop column a schema error.
	StrictDrop bool
	// MLST labels the header-less mlst table.
	MLST table.MLSTSchema
	// Patterns are removed from QC, MLST and raw AMR sample identifiers.
	Patterns []string
	// PivotPatterns are removed from the count table's sample identifiers.
	PivotPatterns []string
	// Title is the page title.
	Title string
}

// DefaultOptions returns the options matching the pipeline's output layout.
func DefaultOptions() Options {
	return Options{
		QCDropColumns: slices.Clone(table.DefaultQCDropColumns),
		StrictDrop:    true,
		MLST:          table.DefaultMLSTSchema(),
		Patterns:      slices.Clone(table.DefaultPatterns),
		PivotPatterns: slices.Clone(table.DefaultPivotPatterns),
		Title:         DefaultTitle,
	}
}

// Report holds the four tables of one summary.
type Report struct {
	Title       string
	QC          *table.Table
	MLST        *table.Table
	AMR         *table.Table
	Counts      *amr.Wide
	GeneratedAt time.Time
}

// Tables returns the report's tables in page order, the count table
// flattened to text.
func (r *Report) Tables() []*table.Table {
	return []*table.Table{r.QC, r.MLST, r.Counts.Table(), r.AMR}
}

// Builder loads and transforms the pipeline inputs.
type Builder struct {
	opts   Options
	logger *slog.Logger
}

// NewBuilder creates a builder. A nil logger discards.
func NewBuilder(opts Options, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	return &Builder{opts: opts, logger: logger}
}

// Build reads the three inputs and produces the report tables.
// Any load, schema or format failure aborts the build.
func (b *Builder) Build(ctx context.Context, in Inputs) (*Report, error) {
	cleaner := table.NewCleaner(b.opts.Patterns...)

	b.logger.Debug("loading qc table", "path", in.QC)
	qc, err := table.LoadWhitespace(in.QC)
	if err != nil {
		return nil, fmt.Errorf("failed to load qc table: %w", err)
	}
	qc.Name = "qc"
	qc.CleanColumn(table.FileColumn, cleaner)
	if err := qc.Drop(b.opts.QCDropColumns, b.opts.StrictDrop); err != nil {
		return nil, fmt.Errorf("failed to drop qc columns: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.logger.Debug("loading mlst table", "path", in.MLST)
	mlst, err := table.LoadTSV(in.MLST)
	if err != nil {
		return nil, fmt.Errorf("failed to load mlst table: %w", err)
	}
	mlst.Name = "mlst"
	if !table.ApplyMLSTSchema(mlst, b.opts.MLST) {
		b.logger.Debug("mlst columns left positional", "width", mlst.Width(), "expected", len(b.opts.MLST.ColumnNames))
	}
	mlst.CleanColumn(table.FileColumn, cleaner)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.logger.Debug("loading amr table", "path", in.AMR)
	raw, err := table.LoadCSV(in.AMR)
	if err != nil {
		return nil, fmt.Errorf("failed to load amr table: %w", err)
	}
	raw.Name = "amr"
	counts, err := amr.NewAggregator(table.NewCleaner(b.opts.PivotPatterns...), b.logger).Aggregate(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate amr table: %w", err)
	}
	raw.CleanColumn(table.AMRFileColumn, cleaner)

	b.logger.Info("report tables ready",
		"qc_rows", qc.Len(),
		"mlst_rows", mlst.Len(),
		"amr_rows", raw.Len(),
		"samples", len(counts.Samples),
		"genes", len(counts.Genes),
	)

	return &Report{
		Title:       b.opts.Title,
		QC:          qc,
		MLST:        mlst,
		AMR:         raw,
		Counts:      counts,
		GeneratedAt: time.Now().UTC(),
	}, nil
}

// Page renders the four table fragments into a Page.
func (r *Report) Page() (*Page, error) {
	p := &Page{Title: r.Title}
	var err error
	if p.QCTable, err = Fragment(PlainTable(r.QC)); err != nil {
		return nil, fmt.Errorf("failed to render qc table: %w", err)
	}
	if p.MLSTTable, err = Fragment(PlainTable(r.MLST)); err != nil {
		return nil, fmt.Errorf("failed to render mlst table: %w", err)
	}
	if p.AMRCountTable, err = Fragment(CountTable(r.Counts)); err != nil {
		return nil, fmt.Errorf("failed to render amr count table: %w", err)
	}
	if p.AMRTable, err = Fragment(PlainTable(r.AMR)); err != nil {
		return nil, fmt.Errorf("failed to render amr table: %w", err)
	}
	return p, nil
}

// HTML renders the full report page.
func (r *Report) HTML() ([]byte, error) {
	p, err := r.Page()
	if err != nil {
		return nil, err
	}
	return p.Render()
}

// Outputs are the destinations of Generate. Markdown is optional.
type Outputs struct {
	HTML     string
	Markdown string
}

// Generate builds the report and writes it. Nothing is written unless the
// whole report renders.
func (b *Builder) Generate(ctx context.Context, in Inputs, out Outputs) (*Report, error) {
	r, err := b.Build(ctx, in)
	if err != nil {
		return nil, err
	}

	page, err := r.HTML()
	if err != nil {
		return nil, err
	}
	var md string
	if out.Markdown != "" {
		if md, err = ToMarkdown(page); err != nil {
			return nil, err
		}
	}

	// Stage both files before either replaces its target.
	htmlFile, err := stageFile(out.HTML, page, 0o644)
	if err != nil {
		return nil, err
	}
	var mdFile *stagedFile
	if out.Markdown != "" {
		if mdFile, err = stageFile(out.Markdown, []byte(md), 0o644); err != nil {
			htmlFile.discard()
			return nil, err
		}
	}

	if err := htmlFile.commit(); err != nil {
		if mdFile != nil {
			mdFile.discard()
		}
		return nil, err
	}
	b.logger.Info("wrote report", "path", out.HTML, "bytes", len(page))

	if mdFile != nil {
		if err := mdFile.commit(); err != nil {
			return nil, err
		}
		b.logger.Info("wrote markdown report", "path", out.Markdown, "bytes", len(md))
	}
	return r, nil
}
