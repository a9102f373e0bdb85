package memory

import (
	"fmt"
	"sort"
	"sync"

	reference "solution-analytics/internal/reference/domain"
)

// SectorTable is an in-memory technology to sector lookup.
type SectorTable struct {
	mu     sync.RWMutex
	sector map[string]string
}

// NewSectorTable builds a lookup from sector -> technologies lists, the
// shape of the technology tagging dataset. A technology listed under several
// sectors belongs to the first one in sorted order.
func NewSectorTable(technologies map[string][]string) *SectorTable {
	sectors := make([]string, 0, len(technologies))
	for sector := range technologies {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	t := &SectorTable{sector: make(map[string]string)}
	for _, sector := range sectors {
		for _, tech := range technologies[sector] {
			if _, tagged := t.sector[tech]; tagged {
				continue
			}
			t.sector[tech] = sector
		}
	}
	return t
}

// Put tags a technology with a sector.
func (t *SectorTable) Put(technology, sector string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sector[technology] = sector
}

// SectorOf implements reference.SectorLookup.
func (t *SectorTable) SectorOf(technology string) (string, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	sector, ok := t.sector[technology]
	if !ok {
		return "", fmt.Errorf("%w: technology %s", reference.ErrNotFound, technology)
	}
	return sector, nil
}

// LocationTable is an in-memory region to geolocation lookup.
type LocationTable struct {
	mu        sync.RWMutex
	locations map[string]reference.GeoLocation
}

// NewLocationTable builds a lookup from a region keyed map.
func NewLocationTable(locations map[string]reference.GeoLocation) *LocationTable {
	t := &LocationTable{locations: make(map[string]reference.GeoLocation, len(locations))}
	for region, loc := range locations {
		t.locations[region] = loc
	}
	return t
}

// Put stores the location of a region.
func (t *LocationTable) Put(region string, loc reference.GeoLocation) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locations[region] = loc
}

// LocationOf implements reference.LocationLookup.
func (t *LocationTable) LocationOf(region string) (reference.GeoLocation, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	loc, ok := t.locations[region]
	if !ok {
		return reference.GeoLocation{}, fmt.Errorf("%w: region %s", reference.ErrNotFound, region)
	}
	return loc, nil
}
