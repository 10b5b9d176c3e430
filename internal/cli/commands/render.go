package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/asmreport/internal/archive"
	"github.com/leapstack-labs/asmreport/internal/cli/output"
	"github.com/leapstack-labs/asmreport/internal/report"
)

// NewRenderCommand creates the render command.
func NewRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the assembly summary report",
		Long: `Render the QC, MLST and AMR results of an assembly run into a single
self-contained HTML page.

The QC table is whitespace-delimited with a header, the MLST table is
tab-separated without a header and the AMR table is comma-separated with a
header. Sample identifiers are cleaned and the AMR detections are pivoted
into a gene count table with present genes highlighted.

The report is only written once every input has loaded; a failed run
leaves no partial file behind.`,
		Example: `  # Render a report
  asmreport render --qc qc.tsv --mlst mlst.tsv --amr amr.csv --out report.html

  # Also write a markdown copy and keep the run in an archive
  asmreport render --qc qc.tsv --mlst mlst.tsv --amr amr.csv \
    --out report.html --markdown report.md --archive reports.db

  # Use paths from asmreport.yaml
  asmreport render`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd)
		},
	}

	addInputFlags(cmd)
	cmd.Flags().String("out", "", "HTML report path")
	cmd.Flags().String("markdown", "", "Also write the report as markdown to this path")
	cmd.Flags().String("archive", "", "SQLite archive to record the run in")
	addNormalizeFlags(cmd)

	return cmd
}

func runRender(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if err := cfg.ValidateInputs(); err != nil {
		return err
	}
	if err := cfg.ValidateOutputs(); err != nil {
		return err
	}

	ctx := cmd.Context()
	builder := report.NewBuilder(cfg.ReportOptions(), cmdCtx.Logger)
	rep, err := builder.Generate(ctx, cfg.Inputs(), cfg.Outputs())
	if err != nil {
		return err
	}

	summary := output.RenderSummary{
		HTML:     cfg.Out,
		Markdown: cfg.Markdown,
		QCRows:   rep.QC.Len(),
		MLSTRows: rep.MLST.Len(),
		AMRRows:  rep.AMR.Len(),
		Samples:  len(rep.Counts.Samples),
		Genes:    len(rep.Counts.Genes),
	}

	if cfg.Archive != "" {
		store, err := cmdCtx.openArchive(cmd, true)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		in := cfg.Inputs()
		id, err := store.Save(ctx, archive.Run{
			Title:       rep.Title,
			QCPath:      in.QC,
			MLSTPath:    in.MLST,
			AMRPath:     in.AMR,
			GeneratedAt: rep.GeneratedAt,
		}, rep.Tables()...)
		if err != nil {
			return fmt.Errorf("report written but not archived: %w", err)
		}
		summary.Archive = cfg.Archive
		summary.RunID = id
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(summary)
	}

	if summary.AMRRows == 0 {
		r.Warning("no AMR detections in " + cfg.Inputs().AMR + "; the count table is empty")
	}
	r.Success("Report written to " + summary.HTML)
	if summary.Markdown != "" {
		r.KeyValue("Markdown", summary.Markdown)
	}
	if summary.RunID != "" {
		r.KeyValue("Archive", fmt.Sprintf("%s (run %s)", summary.Archive, summary.RunID))
	}
	r.KeyValue("QC rows", strconv.Itoa(summary.QCRows))
	r.KeyValue("MLST rows", strconv.Itoa(summary.MLSTRows))
	r.KeyValue("AMR detections", strconv.Itoa(summary.AMRRows))
	r.KeyValue("Samples with AMR genes", strconv.Itoa(summary.Samples))
	r.KeyValue("Distinct genes", strconv.Itoa(summary.Genes))
	return nil
}
