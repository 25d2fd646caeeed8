// Package frame holds raw, untyped tables as they come back from a data
// provider, before normalization.
package frame

import (
	"fmt"
	"slices"
)

// Table is a column-ordered set of untyped cells. Cells may hold nil,
// strings, numbers or time.Time values; interpretation is left to the
// consumer.
type Table struct {
	columns []string
	cells   map[string][]any
	n       int
}

// New creates an empty table with the given columns.
func New(columns ...string) *Table {
	t := &Table{cells: make(map[string][]any, len(columns))}
	for _, c := range columns {
		if _, ok := t.cells[c]; ok {
			continue
		}
		t.columns = append(t.columns, c)
		t.cells[c] = nil
	}
	return t
}

// FromRecords builds a table from row maps. Columns appear in the order they
// are first seen; a record missing a column gets nil in that cell.
func FromRecords(records []map[string]any) *Table {
	t := New()
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			if _, ok := t.cells[k]; !ok {
				keys = append(keys, k)
			}
		}
		// map order is random; keep new columns deterministic
		slices.Sort(keys)
		for _, k := range keys {
			t.addColumn(k)
		}
		row := make([]any, len(t.columns))
		for i, c := range t.columns {
			row[i] = rec[c]
		}
		t.appendRow(row)
	}
	return t
}

func (t *Table) addColumn(name string) {
	t.columns = append(t.columns, name)
	t.cells[name] = make([]any, t.n)
}

func (t *Table) appendRow(row []any) {
	for i, c := range t.columns {
		t.cells[c] = append(t.cells[c], row[i])
	}
	t.n++
}

// Append adds one row; values must line up with Columns.
func (t *Table) Append(values ...any) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("frame: row has %d values, table has %d columns", len(values), len(t.columns))
	}
	t.appendRow(values)
	return nil
}

func (t *Table) Len() int { return t.n }

func (t *Table) Columns() []string { return slices.Clone(t.columns) }

func (t *Table) Has(name string) bool {
	_, ok := t.cells[name]
	return ok
}

// Column returns a copy of the named column's cells, or nil if absent.
func (t *Table) Column(name string) []any {
	col, ok := t.cells[name]
	if !ok {
		return nil
	}
	return slices.Clone(col)
}
