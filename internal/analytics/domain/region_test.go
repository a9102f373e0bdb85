package analytics

import (
	"reflect"
	"testing"

	table "solution-analytics/internal/table/domain"
)

func TestStripRegionMarker(t *testing.T) {
	tbl := tradeTable(t, row("DEx", "xFR", 1.0))
	out, err := StripRegionMarker(tbl, "x")
	if err != nil {
		t.Fatalf("strip: %v", err)
	}
	if got := strs(t, out, "Region1"); !reflect.DeepEqual(got, []string{"DE"}) {
		t.Fatalf("unexpected Region1: %v", got)
	}
	if got := strs(t, out, "Region2"); !reflect.DeepEqual(got, []string{"FR"}) {
		t.Fatalf("unexpected Region2: %v", got)
	}
}

func TestRegionAggregate(t *testing.T) {
	cases := map[string]string{
		"DEN":       "DE",
		"OFFUKMid":  "UK",
		"OFFNOSor":  "NO",
		"N":         "N",
		"OFF":       "",
		"NO1":       "NO",
		"OFFGBScot": "GB",
	}
	for in, want := range cases {
		if got := RegionAggregate(in); got != want {
			t.Fatalf("%s: expected %q, got %q", in, want, got)
		}
	}
}

func TestAggregateRegions(t *testing.T) {
	tbl := mustTable(t, []table.Field{year, tech, region, value},
		row(2020, "P_Wind", "DE1", 1.0),
		row(2020, "P_Wind", "DE2", 2.0),
		row(2020, "P_Wind", "OFFGBMid", 5.0),
	)
	out, err := AggregateRegions(tbl, "Value")
	if err != nil {
		t.Fatalf("aggregate regions: %v", err)
	}
	if got := strs(t, out, "Region"); !reflect.DeepEqual(got, []string{"DE1", "DE2", "OFFUKMid"}) {
		t.Fatalf("unexpected regions: %v", got)
	}
	if got := strs(t, out, RegionAggregateColumn); !reflect.DeepEqual(got, []string{"DE", "DE", "UK"}) {
		t.Fatalf("unexpected aggregates: %v", got)
	}

	byCountry, err := AggregateOut(out, "Region", "Value", Sum)
	if err != nil {
		t.Fatalf("aggregate out: %v", err)
	}
	if got := floats(t, byCountry, "Value"); !reflect.DeepEqual(got, []float64{3, 5}) {
		t.Fatalf("unexpected country sums: %v", got)
	}
}

func TestDeduplicateSymmetric(t *testing.T) {
	tbl := tradeTable(t,
		row("DE", "FR", 1.0),
		row("FR", "DE", 1.0),
		row("NO", "DE", 2.0),
		row("DE", "DE", 4.0),
	)
	out, err := DeduplicateSymmetric(tbl, "Region1", "Region2")
	if err != nil {
		t.Fatalf("dedup: %v", err)
	}
	if got := strs(t, out, "Region1"); !reflect.DeepEqual(got, []string{"DE"}) {
		t.Fatalf("unexpected Region1: %v", got)
	}
	if got := strs(t, out, "Region2"); !reflect.DeepEqual(got, []string{"FR"}) {
		t.Fatalf("unexpected Region2: %v", got)
	}
}
