package pipeline

import (
	analytics "solution-analytics/internal/analytics/domain"
	reference "solution-analytics/internal/reference/domain"
	table "solution-analytics/internal/table/domain"
)

// FilterEquals keeps rows whose column equals value.
func FilterEquals(col string, value table.Value) Step {
	return func(t *table.Table) (*table.Table, error) { return t.FilterEquals(col, value) }
}

// FilterInList keeps rows whose column is one of values.
func FilterInList(col string, values ...table.Value) Step {
	return func(t *table.Table) (*table.Table, error) { return t.FilterInList(col, values) }
}

// FilterStrings keeps rows whose string column is one of labels.
func FilterStrings(col string, labels ...string) Step {
	values := make([]table.Value, len(labels))
	for i, l := range labels {
		values[i] = table.Str(l)
	}
	return FilterInList(col, values...)
}

// FilterContains keeps rows whose string column contains substr.
func FilterContains(col, substr string) Step {
	return func(t *table.Table) (*table.Table, error) { return t.FilterContains(col, substr) }
}

// FilterContainsAny keeps rows whose string column contains one of substrs.
func FilterContainsAny(col string, substrs ...string) Step {
	return func(t *table.Table) (*table.Table, error) { return t.FilterContainsAny(col, substrs) }
}

// Where keeps rows matching pred.
func Where(pred func(table.Row) bool) Step {
	return func(t *table.Table) (*table.Table, error) { return t.Where(pred), nil }
}

// Positive keeps rows whose numeric column is strictly greater than zero.
// Null cells never pass.
func Positive(col string) Step {
	return func(t *table.Table) (*table.Table, error) {
		if _, err := t.Field(col); err != nil {
			return nil, err
		}
		return t.Where(func(r table.Row) bool {
			v, ok := r.Get(col).Float()
			return ok && v > 0
		}), nil
	}
}

// DropNulls removes rows whose column is null.
func DropNulls(col string) Step {
	return func(t *table.Table) (*table.Table, error) { return t.DropNulls(col) }
}

// ForceNumeric strictly coerces a column to numeric.
func ForceNumeric(col string) Step {
	return func(t *table.Table) (*table.Table, error) { return t.ForceNumeric(col) }
}

// SortBy reorders rows with a stable multi-key sort.
func SortBy(keys ...table.SortKey) Step {
	return func(t *table.Table) (*table.Table, error) { return t.SortBy(keys...) }
}

// Select keeps the named columns.
func Select(cols ...string) Step {
	return func(t *table.Table) (*table.Table, error) { return t.Select(cols...) }
}

// Drop removes the named columns.
func Drop(cols ...string) Step {
	return func(t *table.Table) (*table.Table, error) { return t.Drop(cols...) }
}

// Scale multiplies a numeric column by factor.
func Scale(col string, factor float64) Step {
	return func(t *table.Table) (*table.Table, error) { return t.Scale(col, factor) }
}

// SumGroupedBy sums valueCol over every other column.
func SumGroupedBy(valueCol string) Step {
	return func(t *table.Table) (*table.Table, error) { return analytics.SumGroupedBy(t, valueCol) }
}

// MaxGroupedBy keeps the maximum of valueCol over every other column.
func MaxGroupedBy(valueCol string) Step {
	return func(t *table.Table) (*table.Table, error) { return analytics.MaxGroupedBy(t, valueCol) }
}

// RemapThenSum relabels string columns then sums valueCol.
func RemapThenSum(valueCol string, mapping analytics.Remapping) Step {
	return func(t *table.Table) (*table.Table, error) { return analytics.RemapThenSum(t, valueCol, mapping) }
}

// AggregateOut drops column and re-aggregates valueCol.
func AggregateOut(column, valueCol string, method analytics.Method) Step {
	return func(t *table.Table) (*table.Table, error) {
		return analytics.AggregateOut(t, column, valueCol, method)
	}
}

// CollapseToCategory relabels categoryCol to label and sums valueCol.
func CollapseToCategory(categoryCol, label, valueCol string) Step {
	return func(t *table.Table) (*table.Table, error) {
		return analytics.CollapseAllToSingleCategory(t, categoryCol, label, valueCol)
	}
}

// ToWide pivots rowKey x colKey.
func ToWide(rowKey, colKey, valueCol string) Step {
	return func(t *table.Table) (*table.Table, error) { return analytics.ToWide(t, rowKey, colKey, valueCol) }
}

// AttachYearSplit caches the year split from the table's own timesteps.
func AttachYearSplit() Step {
	return analytics.AttachYearSplit
}

// Annualize multiplies valueCol by the cached year split.
func Annualize(valueCol string) Step {
	return func(t *table.Table) (*table.Table, error) { return analytics.Annualize(t, valueCol) }
}

// StorageSplit turns storage technologies into charge and discharge series.
func StorageSplit(conv analytics.StorageConvention) Step {
	return func(t *table.Table) (*table.Table, error) {
		return analytics.ApplyStorageChargeDischargeSplit(t, conv)
	}
}

// StripRegionMarker removes marker from every Region column.
func StripRegionMarker(marker string) Step {
	return func(t *table.Table) (*table.Table, error) { return analytics.StripRegionMarker(t, marker) }
}

// AggregateRegions sums valueCol per country code.
func AggregateRegions(valueCol string) Step {
	return func(t *table.Table) (*table.Table, error) { return analytics.AggregateRegions(t, valueCol) }
}

// DeduplicateSymmetric keeps rows with a < b.
func DeduplicateSymmetric(a, b string) Step {
	return func(t *table.Table) (*table.Table, error) { return analytics.DeduplicateSymmetric(t, a, b) }
}

// FilterBySector keeps technologies of the given sectors.
func FilterBySector(lookup reference.SectorLookup, handler analytics.MissHandler, sectors ...string) Step {
	return func(t *table.Table) (*table.Table, error) {
		return analytics.FilterBySector(t, lookup, handler, sectors...)
	}
}
