// Package stats summarizes the numeric columns of a table.
package stats

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/leapstack-labs/asmreport/internal/table"
)

// Summary describes one numeric column.
type Summary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Numeric parses the non-empty values of a column. It reports false when
// any value is not a number or when every value is empty.
func Numeric(values []string) ([]float64, bool) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, false
		}
		out = append(out, f)
	}
	return out, len(out) > 0
}

// Describe returns a summary for every numeric column of t, in column order.
func Describe(t *table.Table) []Summary {
	var out []Summary
	for _, col := range t.Columns {
		xs, ok := Numeric(t.Column(col))
		if !ok {
			continue
		}
		out = append(out, Summarize(col, xs))
	}
	return out
}

// Summarize computes the summary of xs, which must not be empty.
// The standard deviation is the sample one; a single value has none.
func Summarize(column string, xs []float64) Summary {
	s := Summary{
		Column: column,
		Count:  len(xs),
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
	}
	if len(xs) == 1 {
		s.Mean = xs[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	return s
}
