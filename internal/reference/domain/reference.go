package reference

import "errors"

// ErrNotFound is returned when a lookup has no entry for a key.
var ErrNotFound = errors.New("reference: not found")

// GeoLocation places a model region on a map.
type GeoLocation struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// SectorLookup resolves the sector a technology belongs to.
type SectorLookup interface {
	SectorOf(technology string) (string, error)
}

// LocationLookup resolves the geolocation of a model region.
type LocationLookup interface {
	LocationOf(region string) (GeoLocation, error)
}
