package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	analytics "solution-analytics/internal/analytics/domain"
	reference "solution-analytics/internal/reference/domain"
)

// ErrInvalidFactor is returned when the configured conversion factor is negative.
var ErrInvalidFactor = errors.New("config: conversion factor must be positive")

// Storage mirrors analytics.StorageConvention in YAML. Zero fields keep the
// solver defaults.
type Storage struct {
	Prefix          string  `yaml:"prefix"`
	ChargeMode      float64 `yaml:"charge_mode"`
	DischargeMode   float64 `yaml:"discharge_mode"`
	ChargeSuffix    string  `yaml:"charge_suffix"`
	DischargeSuffix string  `yaml:"discharge_suffix"`
}

// Location is the YAML shape of a region geolocation.
type Location struct {
	Name      string  `yaml:"name"`
	Latitude  float64 `yaml:"lat"`
	Longitude float64 `yaml:"lon"`
}

// Config defines ingestion configuration.
type Config struct {
	CatalogPath      string                       `yaml:"catalog_path"`
	Strict           bool                         `yaml:"strict"`
	LenientValues    bool                         `yaml:"lenient_values"`
	ConversionFactor float64                      `yaml:"conversion_factor"`
	Concurrency      int                          `yaml:"concurrency"`
	Remaps           map[string]map[string]string `yaml:"remaps"`
	Storage          Storage                      `yaml:"storage"`
	Sectors          map[string][]string          `yaml:"sectors"`
	Locations        map[string]Location          `yaml:"locations"`
}

// Load loads config from defaults, an optional yaml file named by
// SOLUTION_CONFIG and env overrides, in that order. A zero ConversionFactor
// keeps the factor of the catalog.
func Load() (Config, error) {
	cfg := Config{Concurrency: 4}

	if path := os.Getenv("SOLUTION_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: decode %s: %w", path, err)
		}
	}

	cfg.CatalogPath = getenvDefault("SOLUTION_CATALOG", cfg.CatalogPath)
	cfg.Strict = getenvBool("SOLUTION_STRICT", cfg.Strict)
	cfg.LenientValues = getenvBool("SOLUTION_LENIENT_VALUES", cfg.LenientValues)
	cfg.ConversionFactor = getenvFloatDefault("SOLUTION_CONVERSION_FACTOR", cfg.ConversionFactor)
	cfg.Concurrency = getenvIntDefault("SOLUTION_CONCURRENCY", cfg.Concurrency)

	if cfg.ConversionFactor < 0 {
		return cfg, ErrInvalidFactor
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return cfg, nil
}

// Remap returns the named remapping table, or nil when it is not configured.
func (c Config) Remap(name string) analytics.Remapping {
	if c.Remaps == nil {
		return nil
	}
	m, ok := c.Remaps[name]
	if !ok {
		return nil
	}
	out := make(analytics.Remapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// StorageConvention returns the storage encoding with configured overrides
// applied on top of the solver defaults.
func (c Config) StorageConvention() analytics.StorageConvention {
	conv := analytics.DefaultStorageConvention()
	s := c.Storage
	if s.Prefix != "" {
		conv.Prefix = s.Prefix
	}
	if s.ChargeMode != 0 {
		conv.ChargeMode = s.ChargeMode
	}
	if s.DischargeMode != 0 {
		conv.DischargeMode = s.DischargeMode
	}
	if s.ChargeSuffix != "" {
		conv.ChargeSuffix = s.ChargeSuffix
	}
	if s.DischargeSuffix != "" {
		conv.DischargeSuffix = s.DischargeSuffix
	}
	return conv
}

// GeoLocations returns the configured region locations. A location without
// a name is named after its region.
func (c Config) GeoLocations() map[string]reference.GeoLocation {
	out := make(map[string]reference.GeoLocation, len(c.Locations))
	for region, loc := range c.Locations {
		name := loc.Name
		if name == "" {
			name = region
		}
		out[region] = reference.GeoLocation{Name: name, Latitude: loc.Latitude, Longitude: loc.Longitude}
	}
	return out
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvFloatDefault(key string, fallback float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
