// Package config provides configuration management for the asmreport CLI.
//
// Values are layered, highest precedence first: explicitly set flags,
// ASMREPORT_* environment variables, the YAML config file, then defaults.
package config

import (
	"slices"

	"github.com/leapstack-labs/asmreport/internal/report"
	"github.com/leapstack-labs/asmreport/internal/table"
)

// Config holds all CLI configuration options.
type Config struct {
	// Input and output paths.
	QC       string `koanf:"qc"`
	MLST     string `koanf:"mlst"`
	AMR      string `koanf:"amr"`
	Out      string `koanf:"out"`
	Markdown string `koanf:"markdown"`
	Archive  string `koanf:"archive"`

	Verbose      bool   `koanf:"verbose"`
	OutputFormat string `koanf:"output"`
	LogFormat    string `koanf:"log_format"`

	Report     ReportConfig     `koanf:"report"`
	QCDrop     QCDropConfig     `koanf:"qc_drop"`
	MLSTSchema MLSTSchemaConfig `koanf:"mlst_schema"`
	Identifier IdentifierConfig `koanf:"identifier"`

	// ConfigFile is the config file that was read, if any.
	ConfigFile string `koanf:"-"`
}

// ReportConfig holds page presentation settings.
type ReportConfig struct {
	Title string `koanf:"title"`
}

// QCDropConfig lists QC metrics left out of the report.
type QCDropConfig struct {
	Columns []string `koanf:"columns"`
	// Strict makes a listed column missing from the QC input an error.
	Strict bool `koanf:"strict"`
}

// MLSTSchemaConfig describes the header-less mlst layout.
type MLSTSchemaConfig struct {
	InferHeader bool     `koanf:"infer_header"`
	ColumnNames []string `koanf:"column_names"`
}

// IdentifierConfig lists the substrings removed from sample identifiers.
type IdentifierConfig struct {
	Patterns      []string `koanf:"patterns"`
	PivotPatterns []string `koanf:"pivot_patterns"`
}

// Default configuration values.
const (
	DefaultOutput    = "auto" // TTY=text, otherwise markdown
	DefaultLogFormat = "text"
)

// ConfigFileName is the name of the config file looked up in the working directory.
const ConfigFileName = "asmreport.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "asmreport.yml"

// defaults returns the default values keyed by config path.
func defaults() map[string]any {
	return map[string]any{
		"verbose":                   false,
		"output":                    DefaultOutput,
		"log_format":                DefaultLogFormat,
		"report.title":              report.DefaultTitle,
		"qc_drop.columns":           slices.Clone(table.DefaultQCDropColumns),
		"qc_drop.strict":            true,
		"mlst_schema.infer_header":  true,
		"mlst_schema.column_names":  slices.Clone(table.DefaultMLSTColumns),
		"identifier.patterns":       slices.Clone(table.DefaultPatterns),
		"identifier.pivot_patterns": slices.Clone(table.DefaultPivotPatterns),
	}
}

// ReportOptions converts the config into report build options.
func (c *Config) ReportOptions() report.Options {
	return report.Options{
		QCDropColumns: slices.Clone(c.QCDrop.Columns),
		StrictDrop:    c.QCDrop.Strict,
		MLST: table.MLSTSchema{
			InferHeader: c.MLSTSchema.InferHeader,
			ColumnNames: slices.Clone(c.MLSTSchema.ColumnNames),
		},
		Patterns:      slices.Clone(c.Identifier.Patterns),
		PivotPatterns: slices.Clone(c.Identifier.PivotPatterns),
		Title:         c.Report.Title,
	}
}

// Inputs returns the report input paths.
func (c *Config) Inputs() report.Inputs {
	return report.Inputs{QC: c.QC, MLST: c.MLST, AMR: c.AMR}
}

// Outputs returns the report output paths.
func (c *Config) Outputs() report.Outputs {
	return report.Outputs{HTML: c.Out, Markdown: c.Markdown}
}
