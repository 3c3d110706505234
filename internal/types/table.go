package types

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/rxtech-lab/argo-bars/pkg/errors"
)

// ColumnKind describes the value type held by a column.
type ColumnKind int

const (
	ColumnNumber ColumnKind = iota
	ColumnText
)

// Column is a named series of values. Exactly one of Numbers or Texts is used,
// depending on Kind. NaN in a number column means "no value".
type Column struct {
	Name    string
	Kind    ColumnKind
	Numbers []float64
	Texts   []string
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Kind == ColumnText {
		return len(c.Texts)
	}

	return len(c.Numbers)
}

func (c *Column) clone() *Column {
	return &Column{
		Name:    c.Name,
		Kind:    c.Kind,
		Numbers: slices.Clone(c.Numbers),
		Texts:   slices.Clone(c.Texts),
	}
}

// Table is an ordered set of equal-length columns.
type Table struct {
	columns []*Column
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Len returns the row count.
func (t *Table) Len() int {
	if len(t.columns) == 0 {
		return 0
	}

	return t.columns[0].Len()
}

// Columns returns the columns in order. The slice must not be modified.
func (t *Table) Columns() []*Column {
	return t.columns
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}

	return names
}

// Column returns the column with exactly the given name.
func (t *Table) Column(name string) (*Column, bool) {
	for _, c := range t.columns {
		if c.Name == name {
			return c, true
		}
	}

	return nil, false
}

// Lookup returns the first column whose name matches case-insensitively.
func (t *Table) Lookup(name string) (*Column, bool) {
	if c, ok := t.Column(name); ok {
		return c, true
	}

	for _, c := range t.columns {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}

	return nil, false
}

// AddNumberColumn appends a numeric column. A column with the same name is
// replaced in place.
func (t *Table) AddNumberColumn(name string, values []float64) error {
	return t.add(&Column{Name: name, Kind: ColumnNumber, Numbers: values})
}

// AddTextColumn appends a text column. A column with the same name is
// replaced in place.
func (t *Table) AddTextColumn(name string, values []string) error {
	return t.add(&Column{Name: name, Kind: ColumnText, Texts: values})
}

func (t *Table) add(col *Column) error {
	if col.Name == "" {
		return errors.New(errors.ErrCodeInvalidParameter, "column name cannot be empty")
	}

	existing := -1

	for i, c := range t.columns {
		if c.Name == col.Name {
			existing = i

			break
		}
	}

	if len(t.columns) > 0 && col.Len() != t.Len() {
		return errors.Newf(errors.ErrCodeColumnLength, "column %s has %d rows, table has %d", col.Name, col.Len(), t.Len())
	}

	if existing >= 0 {
		t.columns[existing] = col

		return nil
	}

	t.columns = append(t.columns, col)

	return nil
}

// Rename changes a column name. Renaming onto an existing name is an error.
func (t *Table) Rename(from, to string) error {
	col, ok := t.Column(from)
	if !ok {
		return errors.Newf(errors.ErrCodeDataNotFound, "column %s not found", from)
	}

	if from == to {
		return nil
	}

	if _, exists := t.Column(to); exists {
		return errors.Newf(errors.ErrCodeInvalidParameter, "column %s already exists", to)
	}

	col.Name = to

	return nil
}

// Filter returns a new table holding the rows for which keep returns true.
func (t *Table) Filter(keep func(row int) bool) *Table {
	indexes := make([]int, 0, t.Len())

	for i := 0; i < t.Len(); i++ {
		if keep(i) {
			indexes = append(indexes, i)
		}
	}

	out := &Table{columns: make([]*Column, len(t.columns))}

	for ci, c := range t.columns {
		nc := &Column{Name: c.Name, Kind: c.Kind}

		if c.Kind == ColumnText {
			nc.Texts = make([]string, len(indexes))
			for j, idx := range indexes {
				nc.Texts[j] = c.Texts[idx]
			}
		} else {
			nc.Numbers = make([]float64, len(indexes))
			for j, idx := range indexes {
				nc.Numbers[j] = c.Numbers[idx]
			}
		}

		out.columns[ci] = nc
	}

	return out
}

// Reorder moves the named columns to the front in the given order. Names that
// do not exist are ignored. Remaining columns keep their relative order.
func (t *Table) Reorder(first []string) {
	ordered := make([]*Column, 0, len(t.columns))
	used := make(map[*Column]bool, len(t.columns))

	for _, name := range first {
		if c, ok := t.Column(name); ok && !used[c] {
			ordered = append(ordered, c)
			used[c] = true
		}
	}

	for _, c := range t.columns {
		if !used[c] {
			ordered = append(ordered, c)
		}
	}

	t.columns = ordered
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	out := &Table{columns: make([]*Column, len(t.columns))}
	for i, c := range t.columns {
		out.columns[i] = c.clone()
	}

	return out
}

// Equal reports whether two tables hold the same columns and values. NaN equals NaN.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}

	if len(t.columns) != len(other.columns) {
		return false
	}

	for i, c := range t.columns {
		o := other.columns[i]
		if c.Name != o.Name || c.Kind != o.Kind || c.Len() != o.Len() {
			return false
		}

		if c.Kind == ColumnText {
			if !slices.Equal(c.Texts, o.Texts) {
				return false
			}

			continue
		}

		for j, v := range c.Numbers {
			w := o.Numbers[j]
			if math.IsNaN(v) && math.IsNaN(w) {
				continue
			}

			if v != w {
				return false
			}
		}
	}

	return true
}

// String renders the table header and row count, mostly for test failures.
func (t *Table) String() string {
	return fmt.Sprintf("Table[%d rows](%s)", t.Len(), strings.Join(t.ColumnNames(), ","))
}
