package analytics

import (
	"fmt"
	"strings"

	table "solution-analytics/internal/table/domain"
)

const (
	// TimestepColumn holds the within-year timestep of hourly variables.
	TimestepColumn = "TS"
	// ValueColumn is the measurement column of every variable.
	ValueColumn = "Value"
)

// ComputeYearSplit returns the fraction of a year one timestep represents,
// 1 over the number of distinct timesteps.
func ComputeYearSplit(t *table.Table) (float64, error) {
	if !t.HasColumn(TimestepColumn) {
		return 0, fmt.Errorf("%w: no %s column", table.ErrMissingTimestepAxis, TimestepColumn)
	}
	steps, err := t.Distinct(TimestepColumn)
	if err != nil {
		return 0, err
	}
	if len(steps) == 0 {
		return 0, fmt.Errorf("%w: %s column is empty", table.ErrMissingTimestepAxis, TimestepColumn)
	}
	return 1 / float64(len(steps)), nil
}

// AttachYearSplit caches the year split computed from the table itself.
func AttachYearSplit(t *table.Table) (*table.Table, error) {
	return AttachYearSplitFrom(t, t)
}

// AttachYearSplitFrom caches the year split computed from ref, used for
// variables without a timestep column.
func AttachYearSplitFrom(t, ref *table.Table) (*table.Table, error) {
	split, err := ComputeYearSplit(ref)
	if err != nil {
		return nil, err
	}
	return t.WithYearSplit(split), nil
}

// Annualize multiplies valueCol by the cached year split. Hourly rates are
// reported as if each timestep lasted a whole year.
func Annualize(t *table.Table, valueCol string) (*table.Table, error) {
	split, err := t.YearSplit()
	if err != nil {
		return nil, err
	}
	return t.Scale(valueCol, split)
}

// StorageConvention describes how storage technologies encode charging and
// discharging in the Mode column.
type StorageConvention struct {
	Prefix           string
	ChargeMode       float64
	DischargeMode    float64
	ChargeSuffix     string
	DischargeSuffix  string
	TechnologyColumn string
	ModeColumn       string
	ValueColumn      string
}

// DefaultStorageConvention returns the solver's storage encoding.
func DefaultStorageConvention() StorageConvention {
	return StorageConvention{
		Prefix:           "D_",
		ChargeMode:       1,
		DischargeMode:    2,
		ChargeSuffix:     "_Charge",
		DischargeSuffix:  "_Discharge",
		TechnologyColumn: "Technology",
		ModeColumn:       "Mode",
		ValueColumn:      ValueColumn,
	}
}

func (c StorageConvention) withDefaults() StorageConvention {
	d := DefaultStorageConvention()
	if c.Prefix == "" {
		c.Prefix = d.Prefix
	}
	if c.ChargeMode == 0 {
		c.ChargeMode = d.ChargeMode
	}
	if c.DischargeMode == 0 {
		c.DischargeMode = d.DischargeMode
	}
	if c.ChargeSuffix == "" {
		c.ChargeSuffix = d.ChargeSuffix
	}
	if c.DischargeSuffix == "" {
		c.DischargeSuffix = d.DischargeSuffix
	}
	if c.TechnologyColumn == "" {
		c.TechnologyColumn = d.TechnologyColumn
	}
	if c.ModeColumn == "" {
		c.ModeColumn = d.ModeColumn
	}
	if c.ValueColumn == "" {
		c.ValueColumn = d.ValueColumn
	}
	return c
}

// ApplyStorageChargeDischargeSplit turns every storage technology into a
// charge and a discharge series. Discharge rows are negated. Rows of other
// technologies or modes pass through unchanged.
func ApplyStorageChargeDischargeSplit(t *table.Table, conv StorageConvention) (*table.Table, error) {
	conv = conv.withDefaults()
	for _, name := range []string{conv.TechnologyColumn, conv.ModeColumn, conv.ValueColumn} {
		if _, err := t.Field(name); err != nil {
			return nil, err
		}
	}

	mode := func(r table.Row) (storage bool, m float64) {
		tech, ok := r.Get(conv.TechnologyColumn).Text()
		if !ok || !strings.HasPrefix(tech, conv.Prefix) {
			return false, 0
		}
		m, ok = r.Get(conv.ModeColumn).Float()
		return ok, m
	}

	valueField, _ := t.Field(conv.ValueColumn)
	out, err := t.WithColumn(valueField, func(r table.Row) table.Value {
		v := r.Get(conv.ValueColumn)
		if ok, m := mode(r); ok && m == conv.DischargeMode {
			if f, ok := v.Float(); ok {
				return table.Num(-f)
			}
		}
		return v
	})
	if err != nil {
		return nil, err
	}

	techField, _ := t.Field(conv.TechnologyColumn)
	return out.WithColumn(techField, func(r table.Row) table.Value {
		v := r.Get(conv.TechnologyColumn)
		ok, m := mode(r)
		switch {
		case ok && m == conv.ChargeMode:
			return table.Str(v.String() + conv.ChargeSuffix)
		case ok && m == conv.DischargeMode:
			return table.Str(v.String() + conv.DischargeSuffix)
		default:
			return v
		}
	})
}
