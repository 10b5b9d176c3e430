package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/asmreport/internal/report"
	"github.com/leapstack-labs/asmreport/internal/table"
)

func testFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("qc", "", "")
	fs.String("mlst", "", "")
	fs.String("amr", "", "")
	fs.String("out", "", "")
	fs.String("title", "", "")
	fs.Bool("strict-drop", true, "")
	fs.Bool("mlst-infer-header", true, "")
	fs.StringSlice("drop-columns", nil, "")
	fs.StringP("output", "o", "", "")
	fs.String("log-format", "", "")
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "asmreport.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultLogFormat, cfg.LogFormat)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, report.DefaultTitle, cfg.Report.Title)
	assert.Equal(t, table.DefaultQCDropColumns, cfg.QCDrop.Columns)
	assert.True(t, cfg.QCDrop.Strict)
	assert.True(t, cfg.MLSTSchema.InferHeader)
	assert.Equal(t, table.DefaultMLSTColumns, cfg.MLSTSchema.ColumnNames)
	assert.Equal(t, table.DefaultPatterns, cfg.Identifier.Patterns)
	assert.Equal(t, table.DefaultPivotPatterns, cfg.Identifier.PivotPatterns)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, report.DefaultOptions(), cfg.ReportOptions())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
qc: results/qc/seqkit.tsv
mlst: results/mlst/mlst.tsv
amr: results/abricate/summary.csv
out: results/report.html
output: json
report:
  title: Run 42
qc_drop:
  strict: false
  columns: [sum_gap, sum_n]
mlst_schema:
  infer_header: false
identifier:
  patterns: [".fna", "assemblies/"]
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigFile)
	assert.Equal(t, report.Inputs{
		QC:   "results/qc/seqkit.tsv",
		MLST: "results/mlst/mlst.tsv",
		AMR:  "results/abricate/summary.csv",
	}, cfg.Inputs())
	assert.Equal(t, "results/report.html", cfg.Outputs().HTML)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, "Run 42", cfg.Report.Title)
	assert.False(t, cfg.QCDrop.Strict)
	assert.Equal(t, []string{"sum_gap", "sum_n"}, cfg.QCDrop.Columns)
	assert.False(t, cfg.MLSTSchema.InferHeader)
	assert.Equal(t, table.DefaultMLSTColumns, cfg.MLSTSchema.ColumnNames, "unset keys keep defaults")
	assert.Equal(t, []string{".fna", "assemblies/"}, cfg.Identifier.Patterns)

	opts := cfg.ReportOptions()
	assert.False(t, opts.StrictDrop)
	assert.False(t, opts.MLST.InferHeader)
	assert.Equal(t, "Run 42", opts.Title)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("ASMREPORT_QC", "/data/qc.tsv")
	t.Setenv("ASMREPORT_LOG_FORMAT", "json")
	t.Setenv("ASMREPORT_QC_DROP_STRICT", "false")
	t.Setenv("ASMREPORT_MLST_SCHEMA_COLUMN_NAMES", "file,scheme,ST")
	t.Setenv("ASMREPORT_REPORT_TITLE", "Nightly")

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "/data/qc.tsv", cfg.QC)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.False(t, cfg.QCDrop.Strict)
	assert.Equal(t, []string{"file", "scheme", "ST"}, cfg.MLSTSchema.ColumnNames)
	assert.Equal(t, "Nightly", cfg.Report.Title)
}

func TestLoad_FlagsOverrideEnvAndFile(t *testing.T) {
	path := writeConfig(t, "qc: from-file.tsv\nmlst: from-file.tsv\noutput: markdown\n")
	t.Setenv("ASMREPORT_QC", "from-env.tsv")

	fs := testFlags()
	require.NoError(t, fs.Parse([]string{
		"--qc", "from-flag.tsv",
		"--strict-drop=false",
		"--title", "Flagged",
		"--drop-columns", "sum_gap,AvgQual",
	}))

	cfg, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, "from-flag.tsv", cfg.QC)
	assert.Equal(t, "from-file.tsv", cfg.MLST, "unset flags do not override the file")
	assert.Equal(t, "markdown", cfg.OutputFormat, "unset flag defaults do not override the file")
	assert.False(t, cfg.QCDrop.Strict)
	assert.Equal(t, "Flagged", cfg.Report.Title)
	assert.Equal(t, []string{"sum_gap", "AvgQual"}, cfg.QCDrop.Columns)
}

func TestLoad_ExpandsPaths(t *testing.T) {
	t.Setenv("RUN_DIR", "/runs/7")
	path := writeConfig(t, "out: ${RUN_DIR}/summary.html\narchive: ${UNSET_RUN_VAR}/a.db\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/runs/7/summary.html", cfg.Out)
	assert.Equal(t, "${UNSET_RUN_VAR}/a.db", cfg.Archive)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"ASMREPORT_QC":                        "qc",
		"ASMREPORT_LOG_FORMAT":                "log_format",
		"ASMREPORT_QC_DROP_COLUMNS":           "qc_drop.columns",
		"ASMREPORT_MLST":                      "mlst",
		"ASMREPORT_MLST_SCHEMA_INFER_HEADER":  "mlst_schema.infer_header",
		"ASMREPORT_IDENTIFIER_PIVOT_PATTERNS": "identifier.pivot_patterns",
		"ASMREPORT_REPORT_TITLE":              "report.title",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("", nil)
		require.NoError(t, err)
		return cfg
	}

	cfg := base()
	cfg.OutputFormat = "yaml"
	assert.ErrorContains(t, cfg.Validate(), "invalid output format")

	cfg = base()
	cfg.LogFormat = "logfmt"
	assert.ErrorContains(t, cfg.Validate(), "invalid log format")

	cfg = base()
	cfg.MLSTSchema.ColumnNames = nil
	assert.ErrorContains(t, cfg.Validate(), "mlst_schema.column_names")

	cfg = base()
	err := cfg.ValidateInputs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qc input is required")
	assert.Contains(t, err.Error(), "mlst input is required")
	assert.Contains(t, err.Error(), "amr input is required")
	assert.ErrorContains(t, cfg.ValidateOutputs(), "output path is required")

	cfg.QC, cfg.MLST, cfg.AMR, cfg.Out = "a", "b", "c", "d"
	assert.NoError(t, cfg.ValidateInputs())
	assert.NoError(t, cfg.ValidateOutputs())
}

func TestLoggerContext(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "json", true)

	ctx := WithLogger(context.Background(), logger)
	GetLogger(ctx).Debug("hello", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	// Fallback discards.
	GetLogger(context.Background()).Error("dropped")

	buf.Reset()
	NewLogger(&buf, "text", false).Info("quiet")
	assert.Empty(t, buf.String(), "info is below the default level")
}

func TestConfigContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	cfg := &Config{QC: "qc.tsv"}
	ctx := WithConfig(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}
