package table

import (
	"fmt"
	"slices"
)

// ColumnError reports a reference to a column the table does not have.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// Table is an in-memory, row-oriented table with named columns.
// Values are whatever the producer stored (driver values, parsed CSV
// strings, parquet scalars); nil marks a missing value.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]any
}

// New creates an empty table with the given column names.
func New(columns ...string) *Table {
	t := &Table{
		columns: slices.Clone(columns),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		t.index[c] = i
	}
	return t
}

// Columns returns a copy of the column names in order.
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Has reports whether the table has a column with the given name.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// ColumnIndex returns the position of a column or a *ColumnError.
func (t *Table) ColumnIndex(column string) (int, error) {
	i, ok := t.index[column]
	if !ok {
		return -1, &ColumnError{Column: column}
	}
	return i, nil
}

// Append adds a row. The row must have one value per column.
func (t *Table) Append(values ...any) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("row has %d values, table has %d columns", len(values), len(t.columns))
	}
	t.rows = append(t.rows, slices.Clone(values))
	return nil
}

// Row returns the values of row i. The returned slice must not be modified.
func (t *Table) Row(i int) []any {
	return t.rows[i]
}

// Value returns the value at row i of the named column.
func (t *Table) Value(i int, column string) (any, error) {
	c, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	return t.rows[i][c], nil
}

// Column returns all values of the named column.
func (t *Table) Column(column string) ([]any, error) {
	c, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(t.rows))
	for i, row := range t.rows {
		out[i] = row[c]
	}
	return out, nil
}

// Filter returns a new table holding the rows for which keep returns true.
// keep receives the row's position in t.
func (t *Table) Filter(keep func(i int, row []any) bool) *Table {
	out := New(t.columns...)
	for i, row := range t.rows {
		if keep(i, row) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// WithColumns returns a copy of the table extended with new columns whose
// values are computed per row by fn. fn must return one value per name.
func (t *Table) WithColumns(names []string, fn func(row []any) ([]any, error)) (*Table, error) {
	for _, name := range names {
		if t.Has(name) {
			return nil, fmt.Errorf("column %q already exists", name)
		}
	}
	out := New(append(t.Columns(), names...)...)
	for i, row := range t.rows {
		extra, err := fn(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if len(extra) != len(names) {
			return nil, fmt.Errorf("row %d: got %d values for %d new columns", i, len(extra), len(names))
		}
		merged := make([]any, 0, len(row)+len(extra))
		merged = append(merged, row...)
		merged = append(merged, extra...)
		out.rows = append(out.rows, merged)
	}
	return out, nil
}
