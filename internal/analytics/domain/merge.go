package analytics

import (
	"fmt"

	table "solution-analytics/internal/table/domain"
)

// SourceColumn identifies the originating run of a merged row.
const SourceColumn = "Source"

// Labeled pairs a table with the label of the run it came from.
type Labeled struct {
	Label string
	Table *table.Table
}

// Concat stacks tables from several runs in the given order and tags each
// row with its source label. An existing Source column is overwritten. All
// inputs must share the same columns ignoring Source; rows are never
// deduplicated.
func Concat(sources ...Labeled) (*table.Table, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	base, err := withoutSource(sources[0].Table)
	if err != nil {
		return nil, err
	}
	fields := append(append([]table.Field(nil), base...), table.Field{Name: SourceColumn, Type: table.String})

	total := 0
	for _, src := range sources {
		total += src.Table.Len()
	}
	b, err := table.NewBuilder(fields, total)
	if err != nil {
		return nil, err
	}

	for n, src := range sources {
		got, err := withoutSource(src.Table)
		if err != nil {
			return nil, err
		}
		if !sameFields(base, got) {
			return nil, fmt.Errorf("%w: source %d (%s) has columns %v, expected %v", ErrSchemaMismatch, n, src.Label, names(got), names(base))
		}
		label := table.Str(src.Label)
		for i := 0; i < src.Table.Len(); i++ {
			row := src.Table.Row(i)
			values := make([]table.Value, 0, len(fields))
			for _, f := range base {
				values = append(values, row.Get(f.Name))
			}
			values = append(values, label)
			if err := b.Append(values...); err != nil {
				return nil, err
			}
		}
	}
	out := b.Build()
	if split, ok := sharedYearSplit(sources); ok {
		out = out.WithYearSplit(split)
	}
	return out, nil
}

// sharedYearSplit reports the year split when every source caches the same one.
func sharedYearSplit(sources []Labeled) (float64, bool) {
	var split float64
	for i, src := range sources {
		v, err := src.Table.YearSplit()
		if err != nil {
			return 0, false
		}
		if i > 0 && v != split {
			return 0, false
		}
		split = v
	}
	return split, true
}

func withoutSource(t *table.Table) ([]table.Field, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: nil table", ErrSchemaMismatch)
	}
	fields := t.Fields()
	out := fields[:0]
	for _, f := range fields {
		if f.Name != SourceColumn {
			out = append(out, f)
		}
	}
	return out, nil
}

func sameFields(a, b []table.Field) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func names(fields []table.Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}
