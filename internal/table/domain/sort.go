package table

import "sort"

// SortKey names a column and direction for SortBy.
type SortKey struct {
	Column     string
	Descending bool
}

// Asc sorts a column in ascending order.
func Asc(name string) SortKey { return SortKey{Column: name} }

// Desc sorts a column in descending order.
func Desc(name string) SortKey { return SortKey{Column: name, Descending: true} }

// SortBy returns the rows reordered by a stable multi-key sort.
// Nulls sort last regardless of direction.
func (t *Table) SortBy(keys ...SortKey) (*Table, error) {
	cols := make([]*column, len(keys))
	for k, key := range keys {
		c, err := t.column(key.Column)
		if err != nil {
			return nil, err
		}
		cols[k] = c
	}

	indices := allRows(t.rows)
	sort.SliceStable(indices, func(a, b int) bool {
		ia, ib := indices[a], indices[b]
		for k, c := range cols {
			va, vb := c.value(ia), c.value(ib)
			switch {
			case va.IsNull() && vb.IsNull():
				continue
			case va.IsNull():
				return false
			case vb.IsNull():
				return true
			}
			cmp := Compare(va, vb)
			if cmp == 0 {
				continue
			}
			if keys[k].Descending {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return t.take(indices), nil
}
