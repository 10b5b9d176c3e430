package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/asmreport/internal/archive"
	"github.com/leapstack-labs/asmreport/internal/cli/config"
	"github.com/leapstack-labs/asmreport/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext collects the config, logger and renderer prepared by
// the root command. Run standalone, the command loads config from its own
// flags instead.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}

	r := output.FromContext(cmd.Context())
	if r == nil {
		r = output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: r,
	}, nil
}

// getConfig returns the config from the command context, loading it from
// the command's flags when none is set.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.FromContext(cmd.Context()); cfg != nil {
		return cfg, nil
	}
	cfg, err := config.Load("", cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openArchive opens the archive named by the config. Unless create is
// set, the archive file must already exist.
func (c *CommandContext) openArchive(cmd *cobra.Command, create bool) (*archive.Store, error) {
	path := c.Cfg.Archive
	if path == "" {
		return nil, fmt.Errorf("archive path is required\nHint: use --archive or set archive in %s", config.ConfigFileName)
	}
	if !create {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("archive not found: %w", err)
		}
	}
	return archive.Open(cmd.Context(), path, c.Logger)
}

// addInputFlags registers the three report input flags.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().String("qc", "", "QC table (whitespace-delimited, with header)")
	cmd.Flags().String("mlst", "", "MLST table (tab-separated, no header)")
	cmd.Flags().String("amr", "", "AMR detections (CSV, with header)")
}

// addNormalizeFlags registers the flags that control table cleanup.
func addNormalizeFlags(cmd *cobra.Command) {
	cmd.Flags().String("title", "", "Report page title")
	cmd.Flags().Bool("strict-drop", true, "Fail when a QC column to drop is missing")
	cmd.Flags().StringSlice("drop-columns", nil, "QC columns to leave out (default sum_gap,Q20(%),Q30(%),AvgQual,sum_n)")
	cmd.Flags().Bool("mlst-infer-header", true, "Label the MLST columns when the width matches --mlst-columns")
	cmd.Flags().StringSlice("mlst-columns", nil, "MLST column names (default file,scheme,ST,gene1..gene7)")
}
