package analytics

import (
	"math"
	"testing"

	table "solution-analytics/internal/table/domain"
)

var (
	year   = table.Field{Name: "Year", Type: table.Numeric}
	tech   = table.Field{Name: "Technology", Type: table.String}
	region = table.Field{Name: "Region", Type: table.String}
	value  = table.Field{Name: "Value", Type: table.Numeric}
)

func mustTable(t *testing.T, fields []table.Field, rows ...[]table.Value) *table.Table {
	t.Helper()
	tbl, err := table.FromRows(fields, rows)
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	return tbl
}

func row(values ...any) []table.Value {
	out := make([]table.Value, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case nil:
			out[i] = table.Null()
		case string:
			out[i] = table.Str(x)
		case int:
			out[i] = table.Num(float64(x))
		case float64:
			out[i] = table.Num(x)
		}
	}
	return out
}

func capacities(t *testing.T) *table.Table {
	return mustTable(t, []table.Field{year, tech, region, value},
		row(2020, "PP1", "DE", 10.0),
		row(2020, "PP2", "DE", 5.0),
		row(2021, "PP1", "DE", 12.0),
	)
}

func floats(t *testing.T, tbl *table.Table, name string) []float64 {
	t.Helper()
	v, err := tbl.Floats(name)
	if err != nil {
		t.Fatalf("floats %s: %v", name, err)
	}
	return v
}

func strs(t *testing.T, tbl *table.Table, name string) []string {
	t.Helper()
	v, err := tbl.Strings(name)
	if err != nil {
		t.Fatalf("strings %s: %v", name, err)
	}
	return v
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
