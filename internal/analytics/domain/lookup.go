package analytics

import (
	"errors"
	"fmt"

	reference "solution-analytics/internal/reference/domain"
	table "solution-analytics/internal/table/domain"
)

const (
	// TechnologyColumn names the technology dimension.
	TechnologyColumn = "Technology"
	// SectorColumn is the column attached by FilterBySector.
	SectorColumn = "Sector"
)

// Lookup resolves a label for a key, failing with reference.ErrNotFound for
// unknown keys. Method values such as SectorLookup.SectorOf fit.
type Lookup func(key string) (string, error)

// MissHandler decides what happens to a row whose key has no entry.
// It returns the label to attach and whether the row is kept.
type MissHandler func(key string) (string, bool)

// DropMissing removes rows without an entry.
func DropMissing() MissHandler {
	return func(string) (string, bool) { return "", false }
}

// SubstituteMissing keeps rows without an entry under label.
func SubstituteMissing(label string) MissHandler {
	return func(string) (string, bool) { return label, true }
}

// AttachLookup appends outCol holding lookup(keyCol) for every row. Misses
// go through handler; any other lookup error aborts.
func AttachLookup(t *table.Table, keyCol, outCol string, lookup Lookup, handler MissHandler) (*table.Table, error) {
	if lookup == nil {
		return nil, ErrNilLookup
	}
	if handler == nil {
		handler = DropMissing()
	}
	if _, err := t.Field(keyCol); err != nil {
		return nil, err
	}

	type resolved struct {
		label string
		keep  bool
	}
	labels := make([]string, t.Len())
	keep := make([]bool, t.Len())
	cache := make(map[string]resolved)
	for i := 0; i < t.Len(); i++ {
		v := t.Row(i).Get(keyCol)
		if v.IsNull() {
			continue
		}
		key := v.String()
		hit, ok := cache[key]
		if !ok {
			label, err := lookup(key)
			switch {
			case err == nil:
				hit = resolved{label: label, keep: true}
			case errors.Is(err, reference.ErrNotFound):
				hit.label, hit.keep = handler(key)
			default:
				return nil, fmt.Errorf("lookup %s=%s: %w", keyCol, key, err)
			}
			cache[key] = hit
		}
		labels[i], keep[i] = hit.label, hit.keep
	}

	joined, err := t.WithColumn(table.Field{Name: outCol, Type: table.String}, func(r table.Row) table.Value {
		return table.Str(labels[r.Index()])
	})
	if err != nil {
		return nil, err
	}
	return joined.Where(func(r table.Row) bool { return keep[r.Index()] }), nil
}

// FilterBySector keeps rows whose technology belongs to one of sectors.
func FilterBySector(t *table.Table, lookup reference.SectorLookup, handler MissHandler, sectors ...string) (*table.Table, error) {
	if lookup == nil {
		return nil, ErrNilLookup
	}
	tagged, err := AttachLookup(t, TechnologyColumn, SectorColumn, lookup.SectorOf, handler)
	if err != nil {
		return nil, err
	}
	wanted := make([]table.Value, len(sectors))
	for i, s := range sectors {
		wanted[i] = table.Str(s)
	}
	filtered, err := tagged.FilterInList(SectorColumn, wanted)
	if err != nil {
		return nil, err
	}
	if t.HasColumn(SectorColumn) {
		return filtered, nil
	}
	return filtered.Drop(SectorColumn)
}
