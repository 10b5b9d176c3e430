package amr

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/asmreport/internal/table"
	"github.com/leapstack-labs/asmreport/internal/testutil"
)

func rawTable(rows ...[]string) *table.Table {
	t := table.New("amr", "#FILE", "SEQUENCE", "GENE", "RESISTANCE")
	t.Rows = rows
	return t
}

func TestAggregate_Example(t *testing.T) {
	raw := rawTable(
		[]string{"results/assembly/A.fasta", "c1", "blaKPC", "beta-lactam"},
		[]string{"results/assembly/A.fasta", "c7", "blaKPC", "beta-lactam"},
		[]string{"results/assembly/B.fasta", "c2", "mecA", "methicillin"},
	)

	w, err := NewAggregator(nil, testutil.NewTestLogger(t)).Aggregate(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B"}, w.Samples)
	assert.Equal(t, []string{"blaKPC", "mecA"}, w.Genes)
	assert.Equal(t, [][]int{{2, 0}, {0, 1}}, w.Counts)

	n, ok := w.Count("B", "mecA")
	require.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = w.Count("C", "mecA")
	assert.False(t, ok)
}

func TestAggregate_Empty(t *testing.T) {
	w, err := NewAggregator(nil, nil).Aggregate(rawTable())
	require.NoError(t, err)

	assert.Empty(t, w.Samples)
	assert.Empty(t, w.Genes)
	assert.Empty(t, w.Counts)
	assert.Equal(t, []string{"file"}, w.Table().Columns)
	assert.Equal(t, 0, w.Table().Len())
}

func TestAggregate_MissingColumns(t *testing.T) {
	raw := table.New("amr", "#FILE", "GENE")
	_, err := NewAggregator(nil, nil).Aggregate(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, table.ErrSchemaMismatch)
	assert.Contains(t, err.Error(), "RESISTANCE")
}

func TestAggregate_AssembledSuffix(t *testing.T) {
	raw := rawTable(
		[]string{"results/assembly/S1_assembled.fasta", "c1", "tetM", "tetracycline"},
	)
	w, err := NewAggregator(nil, nil).Aggregate(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"S1_assembled"}, w.Samples)
}

func TestAggregate_Ordering(t *testing.T) {
	raw := rawTable(
		[]string{"zeta.fasta", "c", "tetM", "x"},
		[]string{"alpha.fasta", "c", "aac(6')-Ib", "x"},
		[]string{"Beta.fasta", "c", "blaOXA-48", "x"},
		[]string{"alpha.fasta", "c", "ant(3'')-Ia", "x"},
	)
	w, err := NewAggregator(nil, nil).Aggregate(raw)
	require.NoError(t, err)

	assert.Equal(t, []string{"Beta", "alpha", "zeta"}, w.Samples, "byte order puts upper case first")
	assert.Equal(t, []string{"aac(6')-Ib", "ant(3'')-Ia", "blaOXA-48", "tetM"}, w.Genes)
}

func TestAggregate_Table(t *testing.T) {
	raw := rawTable(
		[]string{"A.fasta", "c1", "blaKPC", "beta-lactam"},
		[]string{"B.fasta", "c2", "mecA", "methicillin"},
	)
	w, err := NewAggregator(nil, nil).Aggregate(raw)
	require.NoError(t, err)

	tbl := w.Table()
	assert.Equal(t, []string{"file", "blaKPC", "mecA"}, tbl.Columns)
	assert.Equal(t, [][]string{{"A", "1", "0"}, {"B", "0", "1"}}, tbl.Rows)
}

// TestPivot_CountsMatchRaw checks the pivot against a brute-force count over
// randomly generated detections.
func TestPivot_CountsMatchRaw(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := []string{"s1", "s2", "s3", "s4"}
	genes := []string{"blaKPC", "mecA", "tetM", "vanA", "sul1"}

	for iter := 0; iter < 25; iter++ {
		var dets []Detection
		n := rng.Intn(40)
		for i := 0; i < n; i++ {
			dets = append(dets, Detection{
				File:       "results/assembly/" + samples[rng.Intn(len(samples))] + ".fasta",
				Gene:       genes[rng.Intn(len(genes))],
				Resistance: "r",
			})
		}

		w := NewAggregator(nil, nil).Pivot(dets)

		distinctSamples := map[string]bool{}
		distinctGenes := map[string]bool{}
		for _, d := range dets {
			distinctSamples[table.NewCleaner(table.DefaultPivotPatterns...).Clean(d.File)] = true
			distinctGenes[d.Gene] = true
		}
		require.Len(t, w.Samples, len(distinctSamples), "iteration %d", iter)
		require.Len(t, w.Genes, len(distinctGenes), "iteration %d", iter)
		for _, s := range w.Samples {
			assert.True(t, distinctSamples[s])
		}
		for _, g := range w.Genes {
			assert.True(t, distinctGenes[g])
		}

		for i, s := range w.Samples {
			for j, g := range w.Genes {
				want := 0
				for _, d := range dets {
					if d.File == fmt.Sprintf("results/assembly/%s.fasta", s) && d.Gene == g {
						want++
					}
				}
				assert.Equal(t, want, w.Counts[i][j], "iteration %d: %s/%s", iter, s, g)
			}
		}
	}
}
