package table

import (
	"fmt"
	"math"
)

type column struct {
	field Field
	nums  []float64
	valid []bool
	strs  []string
}

func newColumn(field Field, capacity int) *column {
	c := &column{field: field}
	if field.Type == Numeric {
		c.nums = make([]float64, 0, capacity)
		c.valid = make([]bool, 0, capacity)
	} else {
		c.strs = make([]string, 0, capacity)
	}
	return c
}

func (c *column) append(v Value) error {
	switch c.field.Type {
	case Numeric:
		if v.IsNull() {
			c.nums = append(c.nums, math.NaN())
			c.valid = append(c.valid, false)
			return nil
		}
		f, ok := v.Float()
		if !ok {
			return fmt.Errorf("%w: column %s expects numeric, got %s", ErrTypeMismatch, c.field.Name, v.Type())
		}
		c.nums = append(c.nums, f)
		c.valid = append(c.valid, true)
	default:
		s, ok := v.Text()
		if !ok {
			return fmt.Errorf("%w: column %s expects string, got %s", ErrTypeMismatch, c.field.Name, v.Type())
		}
		c.strs = append(c.strs, s)
	}
	return nil
}

func (c *column) value(i int) Value {
	if c.field.Type == Numeric {
		if !c.valid[i] {
			return Null()
		}
		return Num(c.nums[i])
	}
	return Str(c.strs[i])
}

// Table is an immutable relation over named, typed columns.
// Every operation returns a new Table and leaves the receiver untouched.
type Table struct {
	fields []Field
	index  map[string]int
	cols   []*column
	rows   int

	yearSplit    float64
	hasYearSplit bool
}

func indexFields(fields []Field) (map[string]int, error) {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		if err := f.Validate(); err != nil {
			return nil, err
		}
		if _, exists := index[f.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, f.Name)
		}
		index[f.Name] = i
	}
	return index, nil
}

// Builder accumulates rows for a new Table.
type Builder struct {
	fields []Field
	index  map[string]int
	cols   []*column
	rows   int
}

// NewBuilder constructs a Builder for the given fields.
func NewBuilder(fields []Field, capacity int) (*Builder, error) {
	index, err := indexFields(fields)
	if err != nil {
		return nil, err
	}
	if capacity < 0 {
		capacity = 0
	}
	cols := make([]*column, len(fields))
	for i, f := range fields {
		cols[i] = newColumn(f, capacity)
	}
	return &Builder{
		fields: append([]Field(nil), fields...),
		index:  index,
		cols:   cols,
	}, nil
}

// Append adds one row; values are given in field order.
func (b *Builder) Append(values ...Value) error {
	if len(values) != len(b.fields) {
		return fmt.Errorf("%w: got %d values for %d columns", ErrRowWidth, len(values), len(b.fields))
	}
	for i, c := range b.cols {
		if err := c.checkAppend(values[i]); err != nil {
			return err
		}
	}
	for i, c := range b.cols {
		_ = c.append(values[i])
	}
	b.rows++
	return nil
}

func (c *column) checkAppend(v Value) error {
	if c.field.Type == Numeric {
		if v.IsNull() || v.Type() == Numeric {
			return nil
		}
	} else if v.Type() == String {
		return nil
	}
	return fmt.Errorf("%w: column %s expects %s, got %s", ErrTypeMismatch, c.field.Name, c.field.Type, v.Type())
}

// Len returns the number of rows appended so far.
func (b *Builder) Len() int { return b.rows }

// Build returns the table. The builder must not be used afterwards.
func (b *Builder) Build() *Table {
	t := &Table{fields: b.fields, index: b.index, cols: b.cols, rows: b.rows}
	b.cols = nil
	return t
}

// FromRows builds a table from row-major values.
func FromRows(fields []Field, rows [][]Value) (*Table, error) {
	b, err := NewBuilder(fields, len(rows))
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if err := b.Append(row...); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return b.Build(), nil
}

// Empty returns a table with the given fields and no rows.
func Empty(fields []Field) (*Table, error) {
	return FromRows(fields, nil)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return t.rows
}

// Fields returns a copy of the column definitions in order.
func (t *Table) Fields() []Field {
	return append([]Field(nil), t.fields...)
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.fields))
	for i, f := range t.fields {
		names[i] = f.Name
	}
	return names
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Field returns the definition of a column.
func (t *Table) Field(name string) (Field, error) {
	c, err := t.column(name)
	if err != nil {
		return Field{}, err
	}
	return c.field, nil
}

func (t *Table) column(name string) (*column, error) {
	i, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
	}
	return t.cols[i], nil
}

// Value returns the cell at row i of the named column.
func (t *Table) Value(i int, name string) (Value, error) {
	c, err := t.column(name)
	if err != nil {
		return Value{}, err
	}
	if i < 0 || i >= t.rows {
		return Value{}, fmt.Errorf("table: row %d out of range [0,%d)", i, t.rows)
	}
	return c.value(i), nil
}

// Row returns a read-only accessor for row i.
func (t *Table) Row(i int) Row {
	return Row{t: t, i: i}
}

// Rows returns every row as values in field order.
func (t *Table) Rows() [][]Value {
	out := make([][]Value, t.rows)
	for i := range out {
		out[i] = t.Row(i).Values()
	}
	return out
}

// Floats returns a copy of a numeric column; nulls are NaN.
func (t *Table) Floats(name string) ([]float64, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if c.field.Type != Numeric {
		return nil, fmt.Errorf("%w: column %s is %s", ErrTypeMismatch, name, c.field.Type)
	}
	return append([]float64(nil), c.nums...), nil
}

// Strings returns a copy of a string column.
func (t *Table) Strings(name string) ([]string, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if c.field.Type != String {
		return nil, fmt.Errorf("%w: column %s is %s", ErrTypeMismatch, name, c.field.Type)
	}
	return append([]string(nil), c.strs...), nil
}

// Distinct returns the distinct non-null values of a column in first-seen order.
func (t *Table) Distinct(name string) ([]Value, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[Value]struct{})
	var out []Value
	for i := 0; i < t.rows; i++ {
		v := c.value(i)
		if v.IsNull() {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Sum returns the sum of the non-null values of a numeric column.
func (t *Table) Sum(name string) (float64, error) {
	c, err := t.column(name)
	if err != nil {
		return 0, err
	}
	if c.field.Type != Numeric {
		return 0, fmt.Errorf("%w: column %s is %s", ErrTypeMismatch, name, c.field.Type)
	}
	var total float64
	for i, v := range c.nums {
		if c.valid[i] {
			total += v
		}
	}
	return total, nil
}

// WithYearSplit returns a copy carrying the cached year split.
func (t *Table) WithYearSplit(split float64) *Table {
	out := *t
	out.yearSplit = split
	out.hasYearSplit = true
	return &out
}

// YearSplit returns the cached fraction of a year one timestep represents.
func (t *Table) YearSplit() (float64, error) {
	if t == nil || !t.hasYearSplit {
		return 0, fmt.Errorf("%w: year split was not computed", ErrMissingTimestepAxis)
	}
	return t.yearSplit, nil
}

// take builds a new table holding the given rows in the given order.
func (t *Table) take(indices []int) *Table {
	cols := make([]*column, len(t.cols))
	for ci, c := range t.cols {
		nc := newColumn(c.field, len(indices))
		for _, i := range indices {
			if c.field.Type == Numeric {
				nc.nums = append(nc.nums, c.nums[i])
				nc.valid = append(nc.valid, c.valid[i])
			} else {
				nc.strs = append(nc.strs, c.strs[i])
			}
		}
		cols[ci] = nc
	}
	return t.derive(t.fields, cols, len(indices))
}

// derive returns a table over new columns that keeps the receiver's metadata.
func (t *Table) derive(fields []Field, cols []*column, rows int) *Table {
	index := make(map[string]int, len(fields))
	for i, f := range fields {
		index[f.Name] = i
	}
	return &Table{
		fields:       fields,
		index:        index,
		cols:         cols,
		rows:         rows,
		yearSplit:    t.yearSplit,
		hasYearSplit: t.hasYearSplit,
	}
}

// Row is a read-only view of a single table row.
type Row struct {
	t *Table
	i int
}

// Index returns the row position within its table.
func (r Row) Index() int { return r.i }

// Get returns the cell of the named column, null when the column is unknown.
func (r Row) Get(name string) Value {
	c, err := r.t.column(name)
	if err != nil {
		return Null()
	}
	return c.value(r.i)
}

// Float returns a numeric cell, NaN for null or non-numeric cells.
func (r Row) Float(name string) float64 {
	if f, ok := r.Get(name).Float(); ok {
		return f
	}
	return math.NaN()
}

// Text returns a cell rendered as text.
func (r Row) Text(name string) string {
	return r.Get(name).String()
}

// Values returns the row cells in field order.
func (r Row) Values() []Value {
	out := make([]Value, len(r.t.cols))
	for ci, c := range r.t.cols {
		out[ci] = c.value(r.i)
	}
	return out
}
