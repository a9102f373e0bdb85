package table

import "fmt"

// Select keeps only the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	fields := make([]Field, 0, len(names))
	cols := make([]*column, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
		}
		seen[name] = struct{}{}
		c, err := t.column(name)
		if err != nil {
			return nil, err
		}
		fields = append(fields, c.field)
		cols = append(cols, c)
	}
	return t.derive(fields, cols, t.rows), nil
}

// Drop removes the named columns.
func (t *Table) Drop(names ...string) (*Table, error) {
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, name)
		}
		drop[name] = struct{}{}
	}
	keep := make([]string, 0, len(t.fields))
	for _, f := range t.fields {
		if _, ok := drop[f.Name]; !ok {
			keep = append(keep, f.Name)
		}
	}
	return t.Select(keep...)
}

// WithColumn computes a column from each row. An existing column of the same
// name is replaced in place; otherwise the column is appended.
func (t *Table) WithColumn(field Field, fn func(Row) Value) (*Table, error) {
	if err := field.Validate(); err != nil {
		return nil, err
	}
	nc := newColumn(field, t.rows)
	for i := 0; i < t.rows; i++ {
		v := fn(Row{t: t, i: i})
		if err := nc.checkAppend(v); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		_ = nc.append(v)
	}

	fields := t.Fields()
	cols := append([]*column(nil), t.cols...)
	if i, ok := t.index[field.Name]; ok {
		fields[i] = field
		cols[i] = nc
	} else {
		fields = append(fields, field)
		cols = append(cols, nc)
	}
	return t.derive(fields, cols, t.rows), nil
}

// Replace maps every cell of a column through fn, keeping the column type.
func (t *Table) Replace(name string, fn func(Value) Value) (*Table, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	return t.WithColumn(c.field, func(r Row) Value {
		return fn(c.value(r.i))
	})
}

// Scale multiplies a numeric column by factor; nulls stay null.
func (t *Table) Scale(name string, factor float64) (*Table, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if c.field.Type != Numeric {
		return nil, fmt.Errorf("%w: cannot scale %s column %s", ErrTypeMismatch, c.field.Type, name)
	}
	return t.Replace(name, func(v Value) Value {
		if f, ok := v.Float(); ok {
			return Num(f * factor)
		}
		return v
	})
}

// ForceNumeric strictly converts a column to numeric. A string column is
// parsed cell by cell; a numeric column is checked for null sentinels. Any
// non-numeric cell fails the whole conversion.
func (t *Table) ForceNumeric(name string) (*Table, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if c.field.Type == Numeric {
		for i, ok := range c.valid {
			if !ok {
				return nil, fmt.Errorf("%w: column %s row %d holds a non-numeric value", ErrCoercion, name, i)
			}
		}
		return t, nil
	}

	nc := newColumn(Field{Name: name, Type: Numeric}, t.rows)
	for i, s := range c.strs {
		f, err := ParseNumber(s)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", name, i, err)
		}
		nc.nums = append(nc.nums, f)
		nc.valid = append(nc.valid, true)
	}
	fields := t.Fields()
	cols := append([]*column(nil), t.cols...)
	idx := t.index[name]
	fields[idx] = nc.field
	cols[idx] = nc
	return t.derive(fields, cols, t.rows), nil
}
