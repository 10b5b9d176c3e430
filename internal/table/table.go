// Package table provides the in-memory tabular model used by the report:
// loaders for the three pipeline inputs, identifier cleanup and the
// column-level reshaping applied before rendering.
package table

import (
	"slices"
	"strconv"
)

// Table is a named, ordered set of text columns.
// Cells are kept verbatim; nothing is converted until rendering.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string
}

// New creates an empty table with the given columns.
func New(name string, columns ...string) *Table {
	return &Table{Name: name, Columns: columns}
}

// Width returns the number of columns.
func (t *Table) Width() int { return len(t.Columns) }

// Len returns the number of data rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the position of col, or -1 if absent.
func (t *Table) ColumnIndex(col string) int {
	return slices.Index(t.Columns, col)
}

// HasColumn reports whether the table carries col.
func (t *Table) HasColumn(col string) bool {
	return t.ColumnIndex(col) >= 0
}

// Column returns a copy of every value in col, or nil if absent.
func (t *Table) Column(col string) []string {
	idx := t.ColumnIndex(col)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}

// Require returns a SchemaError listing every column in cols that the table lacks.
func (t *Table) Require(cols ...string) error {
	var missing []string
	for _, c := range cols {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Table: t.Name, Missing: missing}
	}
	return nil
}

// Select returns a new table holding only cols, in the given order.
func (t *Table) Select(cols ...string) (*Table, error) {
	if err := t.Require(cols...); err != nil {
		return nil, err
	}
	idx := make([]int, len(cols))
	for i, c := range cols {
		idx[i] = t.ColumnIndex(c)
	}
	out := &Table{Name: t.Name, Columns: slices.Clone(cols), Rows: make([][]string, len(t.Rows))}
	for r, row := range t.Rows {
		sel := make([]string, len(idx))
		for i, j := range idx {
			sel[i] = row[j]
		}
		out.Rows[r] = sel
	}
	return out, nil
}

// Rename replaces column names according to mapping. Unknown keys are ignored.
func (t *Table) Rename(mapping map[string]string) {
	for i, c := range t.Columns {
		if to, ok := mapping[c]; ok {
			t.Columns[i] = to
		}
	}
}

// SetColumns replaces every column label positionally.
// It returns false, leaving the table unchanged, when the widths differ.
func (t *Table) SetColumns(names []string) bool {
	if len(names) != len(t.Columns) {
		return false
	}
	t.Columns = slices.Clone(names)
	return true
}

// Drop removes cols from the table. With strict set, any column the table
// lacks is reported as a SchemaError and nothing is removed.
func (t *Table) Drop(cols []string, strict bool) error {
	if strict {
		if err := t.Require(cols...); err != nil {
			return err
		}
	}

	keep := make([]int, 0, len(t.Columns))
	for i, c := range t.Columns {
		if !slices.Contains(cols, c) {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(t.Columns) {
		return nil
	}

	columns := make([]string, len(keep))
	for i, j := range keep {
		columns[i] = t.Columns[j]
	}
	for r, row := range t.Rows {
		kept := make([]string, len(keep))
		for i, j := range keep {
			kept[i] = row[j]
		}
		t.Rows[r] = kept
	}
	t.Columns = columns
	return nil
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{Name: t.Name, Columns: slices.Clone(t.Columns), Rows: make([][]string, len(t.Rows))}
	for i, row := range t.Rows {
		out.Rows[i] = slices.Clone(row)
	}
	return out
}

// positionalLabels returns "0".."n-1", the labels of a header-less table.
func positionalLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}
