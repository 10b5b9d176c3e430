package table

import (
	"slices"
	"strings"
)

// Identifier columns carried by the pipeline inputs.
const (
	FileColumn    = "file"
	AMRFileColumn = "#FILE"
)

// Default identifier cleanup patterns. ".fasta" comes first in both, so
// "_assembled.fasta" never matches and a sample keeps the same name in
// every table.
var (
	DefaultPatterns      = []string{".fasta", "results/assembly/"}
	DefaultPivotPatterns = []string{".fasta", "_assembled.fasta", "results/assembly/"}
)

// DefaultQCDropColumns are QC metrics not shown in the report.
var DefaultQCDropColumns = []string{"sum_gap", "Q20(%)", "Q30(%)", "AvgQual", "sum_n"}

// DefaultMLSTColumns is the schema of a ten-column mlst result.
var DefaultMLSTColumns = []string{
	"file", "scheme", "ST",
	"gene1", "gene2", "gene3", "gene4", "gene5", "gene6", "gene7",
}

// Cleaner removes literal substrings from sample identifiers.
type Cleaner struct {
	patterns []string
}

// NewCleaner creates a cleaner for the given literal patterns, applied in
// the order given. Empty and repeated patterns are ignored.
func NewCleaner(patterns ...string) *Cleaner {
	ps := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if p != "" && !slices.Contains(ps, p) {
			ps = append(ps, p)
		}
	}
	return &Cleaner{patterns: ps}
}

// Patterns returns the patterns in application order.
func (c *Cleaner) Patterns() []string { return slices.Clone(c.patterns) }

// Clean removes every occurrence of every pattern from s, repeating until
// nothing more matches. The result is a fixpoint: Clean(Clean(s)) == Clean(s).
func (c *Cleaner) Clean(s string) string {
	for {
		prev := s
		for _, p := range c.patterns {
			s = strings.ReplaceAll(s, p, "")
		}
		if s == prev {
			return s
		}
	}
}

// CleanColumn applies c to every value of col. A table without col is left
// untouched and CleanColumn reports false.
func (t *Table) CleanColumn(col string, c *Cleaner) bool {
	idx := t.ColumnIndex(col)
	if idx < 0 {
		return false
	}
	for _, row := range t.Rows {
		row[idx] = c.Clean(row[idx])
	}
	return true
}

// MLSTSchema describes how a header-less mlst table is labelled.
type MLSTSchema struct {
	// InferHeader enables renaming when the table width matches ColumnNames.
	InferHeader bool
	ColumnNames []string
}

// DefaultMLSTSchema returns the ten-column mlst schema with inference enabled.
func DefaultMLSTSchema() MLSTSchema {
	return MLSTSchema{InferHeader: true, ColumnNames: slices.Clone(DefaultMLSTColumns)}
}

// ApplyMLSTSchema renames the columns of t to s.ColumnNames if and only if
// inference is enabled and the widths are equal. It reports whether the
// table was renamed.
func ApplyMLSTSchema(t *Table, s MLSTSchema) bool {
	if !s.InferHeader || len(s.ColumnNames) == 0 {
		return false
	}
	return t.SetColumns(s.ColumnNames)
}
