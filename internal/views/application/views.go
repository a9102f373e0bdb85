package application

import (
	"context"
	"errors"
	"fmt"
	"log"

	analytics "solution-analytics/internal/analytics/domain"
	catalog "solution-analytics/internal/catalog/domain"
	"solution-analytics/internal/pipeline"
	reference "solution-analytics/internal/reference/domain"
	ingest "solution-analytics/internal/solution/application"
	table "solution-analytics/internal/table/domain"
)

const (
	colYear       = "Year"
	colTS         = "TS"
	colTechnology = "Technology"
	colFuel       = "Fuel"
	colRegion     = "Region"
	colRegion1    = "Region1"
	colRegion2    = "Region2"
	colValue      = analytics.ValueColumn

	sectorPower    = "Power"
	sectorStorages = "Storages"
	regionMarker   = "x"
)

// ErrNilLoader is returned when the view service is built without a loader.
var ErrNilLoader = errors.New("views: nil loader")

// Loader reads variables from solution files.
type Loader interface {
	Load(ctx context.Context, path, key string, opts ...ingest.LoadOption) (*table.Table, error)
	LoadSources(ctx context.Context, key string, sources []ingest.Source, opts ...ingest.LoadOption) (*table.Table, error)
}

// Service prepares the tables behind the dashboard charts.
type Service struct {
	loader    Loader
	sectors   reference.SectorLookup
	locations reference.LocationLookup
	storage   analytics.StorageConvention
	logger    *log.Logger
}

// Option configures Service.
type Option func(*Service)

// WithSectorLookup sets the technology to sector lookup.
func WithSectorLookup(lookup reference.SectorLookup) Option {
	return func(s *Service) { s.sectors = lookup }
}

// WithLocationLookup sets the region geolocation lookup.
func WithLocationLookup(lookup reference.LocationLookup) Option {
	return func(s *Service) { s.locations = lookup }
}

// WithStorageConvention overrides the storage charge/discharge encoding.
func WithStorageConvention(conv analytics.StorageConvention) Option {
	return func(s *Service) { s.storage = conv }
}

// WithLogger sets the service logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs the view service.
func NewService(loader Loader, opts ...Option) (*Service, error) {
	if loader == nil {
		return nil, ErrNilLoader
	}
	s := &Service{
		loader:  loader,
		storage: analytics.DefaultStorageConvention(),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) source(path, key string, opts ...ingest.LoadOption) pipeline.Source {
	return func(ctx context.Context) (*table.Table, error) {
		return s.loader.Load(ctx, path, key, opts...)
	}
}

// StackedEvolutionPipeline yields positive values of key in region ordered
// for a stacked area chart: Year ascending, Value descending.
func (s *Service) StackedEvolutionPipeline(path, key, region string) pipeline.Pipeline {
	return pipeline.Pipeline{
		Name:   "stacked evolution",
		Source: s.source(path, key),
		Steps: []pipeline.Step{
			pipeline.ForceNumeric(colValue),
			pipeline.Positive(colValue),
			pipeline.FilterStrings(colRegion, region),
			pipeline.SortBy(table.Asc(colYear), table.Desc(colValue)),
		},
	}
}

// StackedEvolution runs StackedEvolutionPipeline.
func (s *Service) StackedEvolution(ctx context.Context, path, key, region string) (*table.Table, error) {
	return s.StackedEvolutionPipeline(path, key, region).Execute(ctx)
}

// ProductionByFuel yields annual production of the given fuels by technology.
func (s *Service) ProductionByFuel(ctx context.Context, path, region string, fuels []string) (*table.Table, error) {
	return s.StackedEvolutionPipeline(path, catalog.KeyProductionByTechnologyAnnual, region).
		Then(pipeline.FilterStrings(colFuel, fuels...)).
		Execute(ctx)
}

// AnnualUse yields annual fuel use in region.
func (s *Service) AnnualUse(ctx context.Context, path, region string) (*table.Table, error) {
	return s.StackedEvolutionPipeline(path, catalog.KeyUseAnnual, region).Execute(ctx)
}

// HourlyActivityRatePipeline yields the hourly rate of activity of every
// technology for one year and region, sorted by timestep.
func (s *Service) HourlyActivityRatePipeline(path string, year float64, region string) pipeline.Pipeline {
	return pipeline.Pipeline{
		Name:   "hourly activity rate",
		Source: s.source(path, catalog.KeyRateOfActivity, ingest.WithYearSplit()),
		Steps:  hourlyRateSteps(year, region),
	}
}

func hourlyRateSteps(year float64, region string) []pipeline.Step {
	return append([]pipeline.Step{
		pipeline.ForceNumeric(colTS),
		pipeline.ForceNumeric(colValue),
		pipeline.Annualize(colValue),
	}, hourlyFilterSteps(year, region)...)
}

func hourlyFilterSteps(year float64, region string) []pipeline.Step {
	return []pipeline.Step{
		pipeline.FilterStrings(colRegion, region),
		pipeline.FilterEquals(colYear, table.Num(year)),
		pipeline.SortBy(table.Asc(colTS)),
	}
}

// HourlyActivityRate runs HourlyActivityRatePipeline.
func (s *Service) HourlyActivityRate(ctx context.Context, path string, year float64, region string) (*table.Table, error) {
	return s.HourlyActivityRatePipeline(path, year, region).Execute(ctx)
}

// StorageDischargeHourlyRate is the hourly rate with storage technologies
// split into charge and discharge series.
func (s *Service) StorageDischargeHourlyRate(ctx context.Context, path string, year float64, region string) (*table.Table, error) {
	return s.HourlyActivityRatePipeline(path, year, region).
		Then(pipeline.StorageSplit(s.storage)).
		Execute(ctx)
}

// HourlyRateComparison compares the hourly rate of one technology across
// solver runs. Rows carry the run label in the Source column. Every run is
// annualized with its own year split before the merge.
func (s *Service) HourlyRateComparison(ctx context.Context, sources []ingest.Source, tech string, year float64, region string) (*table.Table, error) {
	steps := append([]pipeline.Step{
		pipeline.ForceNumeric(colTS),
		pipeline.ForceNumeric(colValue),
	}, hourlyFilterSteps(year, region)...)
	p := pipeline.Pipeline{
		Name: "hourly rate comparison",
		Source: func(ctx context.Context) (*table.Table, error) {
			return s.loader.LoadSources(ctx, catalog.KeyRateOfActivity, sources, ingest.WithAnnualized(colValue))
		},
		Steps: append(steps, pipeline.FilterStrings(colTechnology, tech)),
	}
	return p.Execute(ctx)
}

func tradeSteps(year float64) []pipeline.Step {
	return []pipeline.Step{
		pipeline.FilterEquals(colYear, table.Num(year)),
		pipeline.DropNulls(colValue),
		pipeline.Positive(colValue),
	}
}

// TradeMap is the data behind the trade capacity map.
type TradeMap struct {
	Capacities *table.Table
	Locations  map[string]reference.GeoLocation
}

// TradeCapacityMap yields one row per undirected region pair with positive
// trade capacity in year, and the locations of every region it mentions.
// Pairs touching a region without a known location are dropped.
func (s *Service) TradeCapacityMap(ctx context.Context, path string, year float64) (TradeMap, error) {
	if s.locations == nil {
		return TradeMap{}, fmt.Errorf("trade map: %w", analytics.ErrNilLookup)
	}
	p := pipeline.Pipeline{
		Name:   "trade capacity map",
		Source: s.source(path, catalog.KeyTotalTradeCapacity),
		Steps: append(tradeSteps(year),
			pipeline.DeduplicateSymmetric(colRegion1, colRegion2),
			pipeline.SumGroupedBy(colValue),
		),
	}
	caps, err := p.Execute(ctx)
	if err != nil {
		return TradeMap{}, err
	}

	locations := make(map[string]reference.GeoLocation)
	missing := make(map[string]bool)
	for _, col := range []string{colRegion1, colRegion2} {
		regions, err := caps.Strings(col)
		if err != nil {
			return TradeMap{}, err
		}
		for _, r := range regions {
			if _, ok := locations[r]; ok || missing[r] {
				continue
			}
			loc, err := s.locations.LocationOf(r)
			switch {
			case err == nil:
				locations[r] = loc
			case errors.Is(err, reference.ErrNotFound):
				missing[r] = true
				s.logger.Printf("trade map location missing: region=%s", r)
			default:
				return TradeMap{}, err
			}
		}
	}
	if len(missing) > 0 {
		caps = caps.Where(func(r table.Row) bool {
			return !missing[r.Text(colRegion1)] && !missing[r.Text(colRegion2)]
		})
	}
	return TradeMap{Capacities: caps, Locations: locations}, nil
}

// TradeCapacityMatrix pivots trade capacity in year into Region1 rows and
// Region2 columns, summing over fuels.
func (s *Service) TradeCapacityMatrix(ctx context.Context, path string, year float64) (*table.Table, error) {
	p := pipeline.Pipeline{
		Name:   "trade capacity matrix",
		Source: s.source(path, catalog.KeyTotalTradeCapacity),
		Steps: append(tradeSteps(year),
			pipeline.Select(colRegion1, colRegion2, colValue),
			pipeline.SumGroupedBy(colValue),
			pipeline.ToWide(colRegion1, colRegion2, colValue),
		),
	}
	return p.Execute(ctx)
}

// SectorsFor expands a dashboard sector into the sectors it shows. Power
// includes storage technologies.
func SectorsFor(sector string) []string {
	if sector == sectorPower {
		return []string{sectorPower, sectorStorages}
	}
	return []string{sector}
}

// SectorCapacity yields installed capacity of one sector with technologies
// relabeled through remap and summed.
func (s *Service) SectorCapacity(ctx context.Context, path, sector string, remap analytics.Remapping) (*table.Table, error) {
	if s.sectors == nil {
		return nil, fmt.Errorf("sector capacity: %w", analytics.ErrNilLookup)
	}
	p := pipeline.Pipeline{
		Name:   "sector capacity",
		Source: s.source(path, catalog.KeyTotalCapacityAnnual),
		Steps: []pipeline.Step{
			pipeline.StripRegionMarker(regionMarker),
			pipeline.FilterBySector(s.sectors, analytics.DropMissing(), SectorsFor(sector)...),
			pipeline.RemapThenSum(colValue, remap),
		},
	}
	return p.Execute(ctx)
}
