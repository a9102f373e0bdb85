package table

import (
	"errors"
	"math"
	"testing"
)

var capacityFields = []Field{
	{Name: "Year", Type: Numeric},
	{Name: "Technology", Type: String},
	{Name: "Region", Type: String},
	{Name: "Value", Type: Numeric},
}

func capacityTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := FromRows(capacityFields, [][]Value{
		{Num(2020), Str("P_Coal"), Str("DE"), Num(10)},
		{Num(2020), Str("P_Gas"), Str("DE"), Num(5)},
		{Num(2021), Str("P_Coal"), Str("DE"), Num(12)},
		{Num(2021), Str("P_Gas"), Str("FR"), Num(7)},
		{Num(2020), Str("D_Battery"), Str("FR"), Num(3)},
	})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	return tbl
}

func TestBuilderRejectsWrongTypes(t *testing.T) {
	b, err := NewBuilder(capacityFields, 1)
	if err != nil {
		t.Fatalf("new builder: %v", err)
	}
	if err := b.Append(Str("2020"), Str("P"), Str("DE"), Num(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	if err := b.Append(Num(2020), Str("P")); !errors.Is(err, ErrRowWidth) {
		t.Fatalf("expected row width error, got %v", err)
	}
	if err := b.Append(Num(2020), Str("P"), Str("DE"), Null()); err != nil {
		t.Fatalf("null numeric should be accepted: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("expected 1 row, got %d", b.Len())
	}
}

func TestNewBuilderRejectsDuplicateColumns(t *testing.T) {
	_, err := NewBuilder([]Field{{Name: "A", Type: String}, {Name: "A", Type: Numeric}}, 0)
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("expected duplicate column, got %v", err)
	}
}

func TestFilterEqualsIsIdempotent(t *testing.T) {
	tbl := capacityTable(t)
	once, err := tbl.FilterEquals("Region", Str("DE"))
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	twice, err := once.FilterEquals("Region", Str("DE"))
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if once.Len() != 3 || twice.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d and %d", once.Len(), twice.Len())
	}
	if tbl.Len() != 5 {
		t.Fatalf("source table mutated: %d rows", tbl.Len())
	}
}

func TestFilterEqualsNumeric(t *testing.T) {
	tbl := capacityTable(t)
	got, err := tbl.FilterEquals("Year", Num(2021))
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", got.Len())
	}
	none, err := tbl.FilterEquals("Year", Str("2021"))
	if err != nil {
		t.Fatalf("filter: %v", err)
	}
	if none.Len() != 0 {
		t.Fatalf("string value should not match numeric column, got %d rows", none.Len())
	}
}

func TestFilterInListAndContains(t *testing.T) {
	tbl := capacityTable(t)

	inList, err := tbl.FilterInList("Technology", []Value{Str("P_Gas"), Str("D_Battery")})
	if err != nil {
		t.Fatalf("in list: %v", err)
	}
	if inList.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", inList.Len())
	}

	contains, err := tbl.FilterContains("Technology", "Coal")
	if err != nil {
		t.Fatalf("contains: %v", err)
	}
	if contains.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", contains.Len())
	}

	anyOf, err := tbl.FilterContainsAny("Technology", []string{"Coal", "Battery"})
	if err != nil {
		t.Fatalf("contains any: %v", err)
	}
	if anyOf.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", anyOf.Len())
	}

	empty, err := tbl.FilterContainsAny("Technology", nil)
	if err != nil {
		t.Fatalf("contains any empty: %v", err)
	}
	if empty.Len() != 0 {
		t.Fatalf("expected no rows, got %d", empty.Len())
	}

	if _, err := tbl.FilterContains("Year", "20"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected type mismatch, got %v", err)
	}
	if _, err := tbl.FilterContains("Missing", "x"); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected column not found, got %v", err)
	}
}

func TestSortByYearAscValueDesc(t *testing.T) {
	tbl := capacityTable(t)
	sorted, err := tbl.SortBy(Asc("Year"), Desc("Value"))
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	want := []float64{10, 5, 3, 12, 7}
	got, err := sorted.Floats("Value")
	if err != nil {
		t.Fatalf("floats: %v", err)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("row %d: expected %v, got %v (all %v)", i, want[i], got[i], got)
		}
	}
}

func TestSortByIsStableAndNullsLast(t *testing.T) {
	tbl, err := FromRows([]Field{{Name: "K", Type: String}, {Name: "V", Type: Numeric}}, [][]Value{
		{Str("a"), Null()},
		{Str("b"), Num(1)},
		{Str("c"), Num(1)},
		{Str("d"), Num(0)},
	})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	sorted, err := tbl.SortBy(Desc("V"))
	if err != nil {
		t.Fatalf("sort: %v", err)
	}
	keys, _ := sorted.Strings("K")
	want := []string{"b", "c", "d", "a"}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, keys)
		}
	}
}

func TestForceNumeric(t *testing.T) {
	tbl, err := FromRows([]Field{{Name: "TS", Type: String}, {Name: "Value", Type: Numeric}}, [][]Value{
		{Str("1"), Num(1)},
		{Str(" 2 "), Null()},
	})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}

	converted, err := tbl.ForceNumeric("TS")
	if err != nil {
		t.Fatalf("force numeric: %v", err)
	}
	field, _ := converted.Field("TS")
	if field.Type != Numeric {
		t.Fatalf("expected numeric TS, got %s", field.Type)
	}
	ts, _ := converted.Floats("TS")
	if ts[1] != 2 {
		t.Fatalf("expected 2, got %v", ts[1])
	}

	if _, err := tbl.ForceNumeric("Value"); !errors.Is(err, ErrCoercion) {
		t.Fatalf("null sentinel should fail strict coercion, got %v", err)
	}

	bad, _ := FromRows([]Field{{Name: "TS", Type: String}}, [][]Value{{Str("t01")}})
	if _, err := bad.ForceNumeric("TS"); !errors.Is(err, ErrCoercion) {
		t.Fatalf("expected coercion error, got %v", err)
	}
}

func TestSelectDropAndWithColumn(t *testing.T) {
	tbl := capacityTable(t)

	dropped, err := tbl.Drop("Technology")
	if err != nil {
		t.Fatalf("drop: %v", err)
	}
	if got := dropped.Columns(); len(got) != 3 || got[1] != "Region" {
		t.Fatalf("unexpected columns %v", got)
	}

	selected, err := tbl.Select("Value", "Year")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got := selected.Columns(); got[0] != "Value" || got[1] != "Year" {
		t.Fatalf("unexpected columns %v", got)
	}

	labelled, err := tbl.WithColumn(Field{Name: "Label", Type: String}, func(r Row) Value {
		return Str(r.Text("Technology") + "@" + r.Text("Region"))
	})
	if err != nil {
		t.Fatalf("with column: %v", err)
	}
	v, _ := labelled.Value(0, "Label")
	if v.String() != "P_Coal@DE" {
		t.Fatalf("unexpected label %q", v.String())
	}
	if tbl.HasColumn("Label") {
		t.Fatal("source table gained a column")
	}

	if _, err := tbl.Drop("Nope"); !errors.Is(err, ErrColumnNotFound) {
		t.Fatalf("expected column not found, got %v", err)
	}
}

func TestScaleKeepsNulls(t *testing.T) {
	tbl, _ := FromRows([]Field{{Name: "Value", Type: Numeric}}, [][]Value{{Num(2)}, {Null()}})
	scaled, err := tbl.Scale("Value", 0.5)
	if err != nil {
		t.Fatalf("scale: %v", err)
	}
	vals, _ := scaled.Floats("Value")
	if vals[0] != 1 || !math.IsNaN(vals[1]) {
		t.Fatalf("unexpected values %v", vals)
	}
}

func TestYearSplitCache(t *testing.T) {
	tbl := capacityTable(t)
	if _, err := tbl.YearSplit(); !errors.Is(err, ErrMissingTimestepAxis) {
		t.Fatalf("expected missing timestep axis, got %v", err)
	}
	withSplit := tbl.WithYearSplit(0.25)
	filtered, _ := withSplit.FilterEquals("Region", Str("DE"))
	split, err := filtered.YearSplit()
	if err != nil {
		t.Fatalf("year split: %v", err)
	}
	if split != 0.25 {
		t.Fatalf("expected 0.25, got %v", split)
	}
}

func TestDistinctAndSum(t *testing.T) {
	tbl := capacityTable(t)
	years, err := tbl.Distinct("Year")
	if err != nil {
		t.Fatalf("distinct: %v", err)
	}
	if len(years) != 2 {
		t.Fatalf("expected 2 years, got %v", years)
	}
	total, err := tbl.Sum("Value")
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total != 37 {
		t.Fatalf("expected 37, got %v", total)
	}
}

func TestParseType(t *testing.T) {
	cases := map[string]Type{"Numeric": Numeric, "string": String, " number ": Numeric}
	for label, want := range cases {
		got, err := ParseType(label)
		if err != nil {
			t.Fatalf("parse %q: %v", label, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", label, want, got)
		}
	}
	if _, err := ParseType("date"); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected invalid type, got %v", err)
	}
}
