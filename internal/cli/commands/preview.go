package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/asmreport/internal/cli/output"
	"github.com/leapstack-labs/asmreport/internal/report"
	"github.com/leapstack-labs/asmreport/internal/stats"
)

// NewPreviewCommand creates the preview command.
func NewPreviewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the report tables without writing a file",
		Long: `Load and transform the inputs exactly as render does, then print the
report tables and QC statistics instead of writing HTML.

Output adapts to environment:
  - Terminal: Styled tables with present AMR genes highlighted
  - Piped/Scripted: Markdown tables

Use --output to override: auto, text, markdown, json`,
		Example: `  # Preview in the terminal
  asmreport preview --qc qc.tsv --mlst mlst.tsv --amr amr.csv

  # Machine-readable tables
  asmreport preview --qc qc.tsv --mlst mlst.tsv --amr amr.csv -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPreview(cmd)
		},
	}

	addInputFlags(cmd)
	addNormalizeFlags(cmd)

	return cmd
}

func runPreview(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	cfg := cmdCtx.Cfg
	r := cmdCtx.Renderer

	if err := cfg.ValidateInputs(); err != nil {
		return err
	}

	rep, err := report.NewBuilder(cfg.ReportOptions(), cmdCtx.Logger).Build(cmd.Context(), cfg.Inputs())
	if err != nil {
		return err
	}
	qcStats := stats.Describe(rep.QC)

	if r.EffectiveMode() == output.ModeJSON {
		out := output.PreviewOutput{Title: rep.Title, QCStats: qcStats}
		for _, t := range rep.Tables() {
			out.Tables = append(out.Tables, output.NewTableData(t))
		}
		if out.QCStats == nil {
			out.QCStats = []stats.Summary{}
		}
		return r.JSON(out)
	}

	r.Header(1, rep.Title)
	r.Header(2, "Assembly QC")
	r.Table(rep.QC)
	r.Header(2, "QC Statistics")
	r.Stats(qcStats)
	r.Header(2, "MLST Results")
	r.Table(rep.MLST)
	r.Header(2, "Acquired AMR Gene Count Table")
	r.CountTable(rep.Counts)
	r.Header(2, "Acquired AMR Gene Raw Results")
	r.Table(rep.AMR)
	return nil
}
