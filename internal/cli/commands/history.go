package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/asmreport/internal/archive"
	"github.com/leapstack-labs/asmreport/internal/cli/output"
	"github.com/leapstack-labs/asmreport/internal/table"
)

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "List archived reports or show one",
		Long: `List the runs recorded by render --archive, newest first.

With a run id, print that run's tables as they were when the report was
rendered.`,
		Example: `  # List archived runs
  asmreport history --archive reports.db

  # Show one run as JSON
  asmreport history --archive reports.db 0f8c... -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return runHistoryShow(cmd, args[0])
			}
			return runHistoryList(cmd)
		},
	}

	cmd.Flags().String("archive", "", "SQLite archive to read")

	return cmd
}

func runHistoryList(cmd *cobra.Command) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	store, err := cmdCtx.openArchive(cmd, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	runs, err := store.Runs(cmd.Context())
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		if runs == nil {
			runs = []archive.Run{}
		}
		return r.JSON(runs)
	}

	r.Header(1, "Archived Reports")
	if len(runs) == 0 {
		r.Muted("No runs in " + cmdCtx.Cfg.Archive)
		return nil
	}
	t := table.New("runs", "id", "generated_at", "title", "qc", "mlst", "amr")
	for _, run := range runs {
		t.Rows = append(t.Rows, []string{
			run.ID,
			run.GeneratedAt.UTC().Format(time.RFC3339),
			run.Title,
			run.QCPath,
			run.MLSTPath,
			run.AMRPath,
		})
	}
	r.Table(t)
	return nil
}

func runHistoryShow(cmd *cobra.Command, id string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	r := cmdCtx.Renderer

	store, err := cmdCtx.openArchive(cmd, false)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return err
	}
	tables, err := store.Tables(ctx, id)
	if err != nil {
		return err
	}

	if r.EffectiveMode() == output.ModeJSON {
		data := make([]output.TableData, len(tables))
		for i, t := range tables {
			data[i] = output.NewTableData(t)
		}
		return r.JSON(struct {
			Run    *archive.Run       `json:"run"`
			Tables []output.TableData `json:"tables"`
		}{run, data})
	}

	r.Header(1, run.Title)
	r.KeyValue("Run", run.ID)
	r.KeyValue("Generated", run.GeneratedAt.UTC().Format(time.RFC3339))
	r.KeyValue("Inputs", run.QCPath+", "+run.MLSTPath+", "+run.AMRPath)
	r.Println("")
	for _, t := range tables {
		r.Header(2, t.Name)
		r.Table(t)
	}
	return nil
}
