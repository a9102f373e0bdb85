package analytics

import (
	"fmt"
	"strings"

	table "solution-analytics/internal/table/domain"
)

// Method selects how AggregateOut folds the value column.
type Method string

const (
	Sum Method = "sum"
	Max Method = "max"
)

// ParseMethod parses a method label.
func ParseMethod(label string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(label))) {
	case Sum:
		return Sum, nil
	case Max:
		return Max, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMethod, label)
	}
}

// Remapping substitutes raw category labels with reporting labels.
type Remapping map[string]string

// SumGroupedBy sums valueCol over every combination of the other columns.
// Null values are skipped; a group holding only nulls sums to zero. The
// result is sorted ascending by the group columns and keeps column order.
func SumGroupedBy(t *table.Table, valueCol string) (*table.Table, error) {
	return groupBy(t, valueCol, Sum)
}

// MaxGroupedBy keeps the maximum of valueCol for every combination of the
// other columns. A group holding only nulls yields null.
func MaxGroupedBy(t *table.Table, valueCol string) (*table.Table, error) {
	return groupBy(t, valueCol, Max)
}

// RemapThenSum substitutes matching labels in every string column, then
// sums valueCol by the remaining columns.
func RemapThenSum(t *table.Table, valueCol string, mapping Remapping) (*table.Table, error) {
	remapped, err := ApplyRemapping(t, mapping)
	if err != nil {
		return nil, err
	}
	return SumGroupedBy(remapped, valueCol)
}

// ApplyRemapping substitutes exact label matches in every string column.
func ApplyRemapping(t *table.Table, mapping Remapping) (*table.Table, error) {
	out := t
	for _, f := range t.Fields() {
		if f.Type != table.String {
			continue
		}
		var err error
		out, err = out.Replace(f.Name, func(v table.Value) table.Value {
			s, ok := v.Text()
			if !ok {
				return v
			}
			if to, hit := mapping[s]; hit {
				return table.Str(to)
			}
			return v
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// CollapseAllToSingleCategory relabels every row of categoryCol to label and
// sums valueCol.
func CollapseAllToSingleCategory(t *table.Table, categoryCol, label, valueCol string) (*table.Table, error) {
	f, err := t.Field(categoryCol)
	if err != nil {
		return nil, err
	}
	if f.Type != table.String {
		return nil, fmt.Errorf("%w: category column %s is %s", table.ErrTypeMismatch, categoryCol, f.Type)
	}
	relabeled, err := t.Replace(categoryCol, func(table.Value) table.Value { return table.Str(label) })
	if err != nil {
		return nil, err
	}
	return SumGroupedBy(relabeled, valueCol)
}

// AggregateOut drops column and re-aggregates valueCol over what remains.
func AggregateOut(t *table.Table, column, valueCol string, method Method) (*table.Table, error) {
	if column == valueCol {
		return nil, fmt.Errorf("%w: cannot aggregate out the value column %s", table.ErrTypeMismatch, valueCol)
	}
	if method != Sum && method != Max {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}
	dropped, err := t.Drop(column)
	if err != nil {
		return nil, err
	}
	return groupBy(dropped, valueCol, method)
}

type group struct {
	key   []table.Value
	acc   float64
	valid bool
}

func groupBy(t *table.Table, valueCol string, method Method) (*table.Table, error) {
	vf, err := t.Field(valueCol)
	if err != nil {
		return nil, err
	}
	if vf.Type != table.Numeric {
		return nil, fmt.Errorf("%w: value column %s is %s", table.ErrTypeMismatch, valueCol, vf.Type)
	}

	fields := t.Fields()
	keyCols := make([]string, 0, len(fields)-1)
	for _, f := range fields {
		if f.Name != valueCol {
			keyCols = append(keyCols, f.Name)
		}
	}

	grouped := make(map[string]*group)
	order := make([]string, 0)
	var sb strings.Builder
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		key := make([]table.Value, len(keyCols))
		sb.Reset()
		for k, name := range keyCols {
			v := row.Get(name)
			key[k] = v
			sb.WriteString(encodeKey(v))
			sb.WriteByte(0x1f)
		}
		id := sb.String()
		g, ok := grouped[id]
		if !ok {
			g = &group{key: key}
			grouped[id] = g
			order = append(order, id)
		}

		v, ok := row.Get(valueCol).Float()
		if !ok {
			continue
		}
		switch {
		case !g.valid:
			g.acc = v
		case method == Max:
			if v > g.acc {
				g.acc = v
			}
		default:
			g.acc += v
		}
		g.valid = true
	}

	b, err := table.NewBuilder(fields, len(order))
	if err != nil {
		return nil, err
	}
	for _, id := range order {
		g := grouped[id]
		agg := table.Num(g.acc)
		if !g.valid && method == Max {
			agg = table.Null()
		}
		row := make([]table.Value, 0, len(fields))
		k := 0
		for _, f := range fields {
			if f.Name == valueCol {
				row = append(row, agg)
				continue
			}
			row = append(row, g.key[k])
			k++
		}
		if err := b.Append(row...); err != nil {
			return nil, err
		}
	}

	out := carryYearSplit(t, b.Build())
	if len(keyCols) == 0 {
		return out, nil
	}
	sortKeys := make([]table.SortKey, len(keyCols))
	for i, name := range keyCols {
		sortKeys[i] = table.Asc(name)
	}
	return out.SortBy(sortKeys...)
}

func encodeKey(v table.Value) string {
	switch v.Type() {
	case table.Numeric:
		return "n" + v.String()
	case table.String:
		return "s" + v.String()
	default:
		return "0"
	}
}

// carryYearSplit copies the cached year split of src onto dst.
func carryYearSplit(src, dst *table.Table) *table.Table {
	if split, err := src.YearSplit(); err == nil {
		return dst.WithYearSplit(split)
	}
	return dst
}
