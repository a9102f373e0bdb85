package analytics

import (
	"fmt"
	"strings"

	table "solution-analytics/internal/table/domain"
)

const (
	regionPrefix = "Region"
	offshoreTag  = "OFF"
	// RegionAggregateColumn holds the country code derived from a region.
	RegionAggregateColumn = "Region_agg"
)

// OffshoreRenames aligns the offshore node names of Great Britain with the
// UK country code.
func OffshoreRenames() Remapping {
	return Remapping{
		"OFFGBMid":  "OFFUKMid",
		"OFFGBScot": "OFFUKScot",
		"OFFGBSor":  "OFFUKSor",
	}
}

// StripRegionMarker removes every occurrence of marker from the string
// columns whose name starts with Region.
func StripRegionMarker(t *table.Table, marker string) (*table.Table, error) {
	if marker == "" {
		return t, nil
	}
	out := t
	for _, f := range t.Fields() {
		if f.Type != table.String || !strings.HasPrefix(f.Name, regionPrefix) {
			continue
		}
		var err error
		out, err = out.Replace(f.Name, func(v table.Value) table.Value {
			s, ok := v.Text()
			if !ok {
				return v
			}
			return table.Str(strings.ReplaceAll(s, marker, ""))
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// RegionAggregate maps a node name to its country code: characters 3..5 for
// offshore nodes (OFFUKMid -> UK), the first two otherwise (DEN -> DE).
func RegionAggregate(region string) string {
	if strings.Contains(region, offshoreTag) {
		return clip(region, 3, 5)
	}
	return clip(region, 0, 2)
}

func clip(s string, from, to int) string {
	if from > len(s) {
		return ""
	}
	if to > len(s) {
		to = len(s)
	}
	return s[from:to]
}

// WithRegionAggregate appends column out holding RegionAggregate of col.
func WithRegionAggregate(t *table.Table, col, out string) (*table.Table, error) {
	f, err := t.Field(col)
	if err != nil {
		return nil, err
	}
	if f.Type != table.String {
		return nil, fmt.Errorf("%w: region column %s is %s", table.ErrTypeMismatch, col, f.Type)
	}
	return t.WithColumn(table.Field{Name: out, Type: table.String}, func(r table.Row) table.Value {
		v := r.Get(col)
		s, ok := v.Text()
		if !ok {
			return v
		}
		return table.Str(RegionAggregate(s))
	})
}

// AggregateRegions renames offshore nodes, derives Region_agg from Region and
// sums valueCol per country.
func AggregateRegions(t *table.Table, valueCol string) (*table.Table, error) {
	renamed, err := ApplyRemapping(t, OffshoreRenames())
	if err != nil {
		return nil, err
	}
	withAgg, err := WithRegionAggregate(renamed, regionPrefix, RegionAggregateColumn)
	if err != nil {
		return nil, err
	}
	return SumGroupedBy(withAgg, valueCol)
}

// DeduplicateSymmetric keeps rows where column a sorts strictly before b, so
// every undirected pair is reported once.
func DeduplicateSymmetric(t *table.Table, a, b string) (*table.Table, error) {
	fa, err := t.Field(a)
	if err != nil {
		return nil, err
	}
	fb, err := t.Field(b)
	if err != nil {
		return nil, err
	}
	if fa.Type != fb.Type {
		return nil, fmt.Errorf("%w: %s is %s, %s is %s", table.ErrTypeMismatch, a, fa.Type, b, fb.Type)
	}
	return t.Where(func(r table.Row) bool {
		va, vb := r.Get(a), r.Get(b)
		if va.IsNull() || vb.IsNull() {
			return false
		}
		return table.Compare(va, vb) < 0
	}), nil
}
