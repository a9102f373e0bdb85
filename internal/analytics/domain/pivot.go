package analytics

import (
	"fmt"
	"sort"
	"strings"

	table "solution-analytics/internal/table/domain"
)

// ToWide pivots a long table into one row per distinct rowKey value and one
// numeric column per distinct colKey value. Row and column labels are sorted;
// pairs with no input row are null. A blank colKey label, or one equal to
// rowKey, fails with ErrInvalidPivotLabel.
func ToWide(t *table.Table, rowKey, colKey, valueCol string) (*table.Table, error) {
	rf, err := t.Field(rowKey)
	if err != nil {
		return nil, err
	}
	if _, err := t.Field(colKey); err != nil {
		return nil, err
	}
	vf, err := t.Field(valueCol)
	if err != nil {
		return nil, err
	}
	if vf.Type != table.Numeric {
		return nil, fmt.Errorf("%w: value column %s is %s", table.ErrTypeMismatch, valueCol, vf.Type)
	}

	rowLabels, err := sortedDistinct(t, rowKey)
	if err != nil {
		return nil, err
	}
	colLabels, err := sortedDistinct(t, colKey)
	if err != nil {
		return nil, err
	}

	rowPos := make(map[table.Value]int, len(rowLabels))
	for i, v := range rowLabels {
		rowPos[v] = i
	}
	colPos := make(map[table.Value]int, len(colLabels))
	fields := make([]table.Field, 0, len(colLabels)+1)
	fields = append(fields, rf)
	for j, v := range colLabels {
		name := v.String()
		switch {
		case strings.TrimSpace(name) == "":
			return nil, fmt.Errorf("%w: blank %s value", ErrInvalidPivotLabel, colKey)
		case name == rowKey:
			return nil, fmt.Errorf("%w: %s value %q collides with row key", ErrInvalidPivotLabel, colKey, name)
		}
		colPos[v] = j
		fields = append(fields, table.Field{Name: name, Type: table.Numeric})
	}

	cells := make([][]table.Value, len(rowLabels))
	filled := make([][]bool, len(rowLabels))
	for i := range cells {
		cells[i] = make([]table.Value, len(colLabels)+1)
		cells[i][0] = rowLabels[i]
		filled[i] = make([]bool, len(colLabels))
	}

	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		r, c := row.Get(rowKey), row.Get(colKey)
		if r.IsNull() || c.IsNull() {
			continue
		}
		ri, ci := rowPos[r], colPos[c]
		if filled[ri][ci] {
			return nil, fmt.Errorf("%w: %s=%s %s=%s", ErrDuplicateCell, rowKey, r, colKey, c)
		}
		filled[ri][ci] = true
		cells[ri][ci+1] = row.Get(valueCol)
	}

	out, err := table.FromRows(fields, cells)
	if err != nil {
		return nil, err
	}
	return carryYearSplit(t, out), nil
}

func sortedDistinct(t *table.Table, name string) ([]table.Value, error) {
	values, err := t.Distinct(name)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(values, func(a, b int) bool {
		return table.Compare(values[a], values[b]) < 0
	})
	return values, nil
}
