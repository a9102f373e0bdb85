package catalog

import table "solution-analytics/internal/table/domain"

// Well-known solver variable keys.
const (
	KeyTotalCapacityAnnual           = "TotalCapacityAnnual"
	KeyRateOfActivity                = "RateOfActivity"
	KeyProductionByTechnologyAnnual  = "ProductionByTechnologyAnnual"
	KeyProductionByTechnology        = "ProductionByTechnology"
	KeyStorageLevelTSStart           = "StorageLevelTSStart"
	KeyNewStorageCapacity            = "NewStorageCapacity"
	KeyAccumulatedNewStorageCapacity = "AccumulatedNewStorageCapacity"
	KeyTotalTradeCapacity            = "TotalTradeCapacity"
	KeyUseAnnual                     = "UseAnnual"
	KeyExport                        = "Export"
)

func num(name string) table.Field { return table.Field{Name: name, Type: table.Numeric} }
func str(name string) table.Field { return table.Field{Name: name, Type: table.String} }

// DefaultSchemas returns the built-in variable definitions.
func DefaultSchemas() []VariableSchema {
	value := num(ValueColumn)
	return []VariableSchema{
		{
			Key:     KeyTotalCapacityAnnual,
			Columns: []table.Field{num("Year"), str("Technology"), str("Region"), value},
			Unit:    "GW",
		},
		{
			Key:     KeyRateOfActivity,
			Columns: []table.Field{num("Year"), num("TS"), str("Technology"), num("Mode"), str("Region"), value},
			Unit:    "TWh",
			Convert: true,
		},
		{
			Key:     KeyProductionByTechnologyAnnual,
			Columns: []table.Field{num("Year"), str("Technology"), str("Fuel"), str("Region"), value},
			Unit:    "TWh",
			Convert: true,
		},
		{
			Key:     KeyProductionByTechnology,
			Columns: []table.Field{num("Year"), num("TS"), str("Technology"), str("Fuel"), str("Region"), value},
			Unit:    "TWh",
			Convert: true,
		},
		{
			Key:     KeyStorageLevelTSStart,
			Columns: []table.Field{str("Storage"), num("Year"), num("TS"), str("Region"), value},
			Unit:    "TWh",
		},
		{
			Key:     KeyNewStorageCapacity,
			Columns: []table.Field{str("Storage"), num("Year"), str("Region"), value},
			Unit:    "TWh",
		},
		{
			Key:     KeyAccumulatedNewStorageCapacity,
			Columns: []table.Field{str("Storage"), num("Year"), str("Region"), value},
			Unit:    "TWh",
		},
		{
			Key:     KeyTotalTradeCapacity,
			Columns: []table.Field{num("Year"), str("Fuel"), str("Region1"), str("Region2"), value},
			Unit:    "GW",
		},
		{
			Key:     KeyUseAnnual,
			Columns: []table.Field{num("Year"), str("Fuel"), str("Region"), value},
			Unit:    "TWh",
			Convert: true,
		},
		{
			Key:     KeyExport,
			Columns: []table.Field{num("Year"), num("TS"), str("Fuel"), str("Region1"), str("Region2"), value},
			Unit:    "TWh",
			Convert: true,
		},
	}
}

// DefaultAliases maps dashboard names to solver keys.
func DefaultAliases() map[string]string {
	return map[string]string{
		"capacities": KeyTotalCapacityAnnual,
		"production": KeyProductionByTechnologyAnnual,
		"activity":   KeyRateOfActivity,
		"trade_map":  KeyTotalTradeCapacity,
		"use":        KeyUseAnnual,
	}
}

// Default returns the built-in catalog.
func Default() *Catalog {
	opts := make([]Option, 0, len(DefaultAliases()))
	for alias, key := range DefaultAliases() {
		opts = append(opts, WithAlias(alias, key))
	}
	c, err := NewCatalog(DefaultSchemas(), opts...)
	if err != nil {
		panic(err)
	}
	return c
}
