package table

import (
	"fmt"
	"strings"
)

// FilterEquals keeps rows whose column equals value.
func (t *Table) FilterEquals(name string, value Value) (*Table, error) {
	return t.FilterInList(name, []Value{value})
}

// FilterInList keeps rows whose column value is a member of values.
func (t *Table) FilterInList(name string, values []Value) (*Table, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	set := make(map[Value]struct{}, len(values))
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		set[v] = struct{}{}
	}
	indices := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		v := c.value(i)
		if v.IsNull() {
			continue
		}
		if _, ok := set[v]; ok {
			indices = append(indices, i)
		}
	}
	return t.take(indices), nil
}

// FilterContains keeps rows whose string column contains substr.
func (t *Table) FilterContains(name, substr string) (*Table, error) {
	return t.FilterContainsAny(name, []string{substr})
}

// FilterContainsAny keeps rows whose string column contains at least one of substrs.
// An empty substrs list matches no row.
func (t *Table) FilterContainsAny(name string, substrs []string) (*Table, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if c.field.Type != String {
		return nil, fmt.Errorf("%w: substring filter on %s column %s", ErrTypeMismatch, c.field.Type, name)
	}
	indices := make([]int, 0, t.rows)
	for i, s := range c.strs {
		for _, sub := range substrs {
			if strings.Contains(s, sub) {
				indices = append(indices, i)
				break
			}
		}
	}
	return t.take(indices), nil
}

// Where keeps rows for which pred returns true.
func (t *Table) Where(pred func(Row) bool) *Table {
	indices := make([]int, 0, t.rows)
	for i := 0; i < t.rows; i++ {
		if pred(Row{t: t, i: i}) {
			indices = append(indices, i)
		}
	}
	return t.take(indices)
}

// DropNulls removes rows whose column holds the null sentinel.
func (t *Table) DropNulls(name string) (*Table, error) {
	c, err := t.column(name)
	if err != nil {
		return nil, err
	}
	if c.field.Type != Numeric {
		return t.take(allRows(t.rows)), nil
	}
	indices := make([]int, 0, t.rows)
	for i, ok := range c.valid {
		if ok {
			indices = append(indices, i)
		}
	}
	return t.take(indices), nil
}

func allRows(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}
