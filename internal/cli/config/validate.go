package config

import (
	"errors"
	"fmt"
	"slices"
)

// Valid values for enumerated settings.
var (
	OutputModes = []string{"auto", "text", "markdown", "json"}
	LogFormats  = []string{"text", "json"}
)

// Validate checks settings shared by every command.
func (c *Config) Validate() error {
	if !slices.Contains(OutputModes, c.OutputFormat) {
		return fmt.Errorf("invalid output format %q (expected one of %v)", c.OutputFormat, OutputModes)
	}
	if !slices.Contains(LogFormats, c.LogFormat) {
		return fmt.Errorf("invalid log format %q (expected one of %v)", c.LogFormat, LogFormats)
	}
	if c.MLSTSchema.InferHeader && len(c.MLSTSchema.ColumnNames) == 0 {
		return fmt.Errorf("mlst_schema.column_names is required when mlst_schema.infer_header is set")
	}
	return nil
}

// ValidateInputs checks that the three input paths are set.
func (c *Config) ValidateInputs() error {
	var errs []error
	if c.QC == "" {
		errs = append(errs, fmt.Errorf("qc input is required\nHint: use --qc or set qc in %s", ConfigFileName))
	}
	if c.MLST == "" {
		errs = append(errs, fmt.Errorf("mlst input is required\nHint: use --mlst or set mlst in %s", ConfigFileName))
	}
	if c.AMR == "" {
		errs = append(errs, fmt.Errorf("amr input is required\nHint: use --amr or set amr in %s", ConfigFileName))
	}
	return errors.Join(errs...)
}

// ValidateOutputs checks that a report destination is set.
func (c *Config) ValidateOutputs() error {
	if c.Out == "" {
		return fmt.Errorf("output path is required\nHint: use --out or set out in %s", ConfigFileName)
	}
	return nil
}
