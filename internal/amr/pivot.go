// Package amr turns long-format resistance-gene detections into a
// per-sample gene count matrix and decides how each count is presented.
package amr

import (
	"log/slog"
	"slices"
	"strconv"

	"github.com/leapstack-labs/asmreport/internal/table"
)

// Raw AMR input columns.
const (
	ColumnFile       = table.AMRFileColumn
	ColumnGene       = "GENE"
	ColumnResistance = "RESISTANCE"
)

// Detection is one row of the raw table after selection.
type Detection struct {
	File       string
	Gene       string
	Resistance string
}

// Wide is the pivoted count table: one row per sample, one column per gene.
type Wide struct {
	// Samples holds cleaned sample identifiers, one per row.
	Samples []string
	// Genes holds gene names in column order.
	Genes []string
	// Counts[i][j] is the number of detections of Genes[j] in Samples[i].
	Counts [][]int
}

// Aggregator builds Wide tables from raw detections.
type Aggregator struct {
	cleaner *table.Cleaner
	logger  *slog.Logger
}

// NewAggregator creates an aggregator that cleans row keys with cleaner.
// A nil cleaner uses the default pivot patterns; a nil logger discards.
func NewAggregator(cleaner *table.Cleaner, logger *slog.Logger) *Aggregator {
	if cleaner == nil {
		cleaner = table.NewCleaner(table.DefaultPivotPatterns...)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Aggregator{cleaner: cleaner, logger: logger}
}

// Detections selects the file, gene and resistance columns of raw.
func Detections(raw *table.Table) ([]Detection, error) {
	sel, err := raw.Select(ColumnFile, ColumnGene, ColumnResistance)
	if err != nil {
		return nil, err
	}
	out := make([]Detection, len(sel.Rows))
	for i, row := range sel.Rows {
		out[i] = Detection{File: row[0], Gene: row[1], Resistance: row[2]}
	}
	return out, nil
}

// Aggregate pivots raw into a Wide table.
//
// Rows are ordered by raw sample identifier and gene columns by gene name,
// both lexicographically. Row keys are cleaned after pivoting, so two raw
// identifiers that clean to the same name stay separate rows.
func (a *Aggregator) Aggregate(raw *table.Table) (*Wide, error) {
	dets, err := Detections(raw)
	if err != nil {
		return nil, err
	}
	w := a.Pivot(dets)
	a.logger.Debug("pivoted amr table", "detections", len(dets), "samples", len(w.Samples), "genes", len(w.Genes))
	return w, nil
}

// Pivot counts detections per (sample, gene) pair and reshapes them wide.
func (a *Aggregator) Pivot(dets []Detection) *Wide {
	type key struct{ file, gene string }
	counts := make(map[key]int, len(dets))
	var files, genes []string
	seenFile := make(map[string]bool)
	seenGene := make(map[string]bool)

	for _, d := range dets {
		counts[key{d.File, d.Gene}]++
		if !seenFile[d.File] {
			seenFile[d.File] = true
			files = append(files, d.File)
		}
		if !seenGene[d.Gene] {
			seenGene[d.Gene] = true
			genes = append(genes, d.Gene)
		}
	}
	slices.Sort(files)
	slices.Sort(genes)

	w := &Wide{
		Samples: make([]string, len(files)),
		Genes:   genes,
		Counts:  make([][]int, len(files)),
	}
	if w.Genes == nil {
		w.Genes = []string{}
	}
	for i, f := range files {
		w.Samples[i] = a.cleaner.Clean(f)
		row := make([]int, len(genes))
		for j, g := range genes {
			row[j] = counts[key{f, g}]
		}
		w.Counts[i] = row
	}
	return w
}

// Count returns the count of gene in the first row labelled sample.
func (w *Wide) Count(sample, gene string) (int, bool) {
	i := slices.Index(w.Samples, sample)
	j := slices.Index(w.Genes, gene)
	if i < 0 || j < 0 {
		return 0, false
	}
	return w.Counts[i][j], true
}

// Table returns the wide table as text cells with the sample identifier
// in a leading "file" column.
func (w *Wide) Table() *table.Table {
	t := table.New("amr_count", append([]string{table.FileColumn}, w.Genes...)...)
	t.Rows = make([][]string, len(w.Samples))
	for i, s := range w.Samples {
		row := make([]string, 0, len(w.Genes)+1)
		row = append(row, s)
		for _, n := range w.Counts[i] {
			row = append(row, strconv.Itoa(n))
		}
		t.Rows[i] = row
	}
	return t
}
