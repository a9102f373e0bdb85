package application

import (
	"context"
	"errors"
	"log"
	"time"

	analytics "solution-analytics/internal/analytics/domain"
	catalog "solution-analytics/internal/catalog/domain"
	"solution-analytics/internal/observability/metrics"
	"solution-analytics/internal/solution/parser"
	table "solution-analytics/internal/table/domain"

	"golang.org/x/sync/errgroup"
)

// LineSource loads the lines of a solution file.
type LineSource interface {
	ReadLines(ctx context.Context, path string) ([]string, error)
}

// ErrNilDependency is returned when the service is built without a reader or parser.
var ErrNilDependency = errors.New("ingest: nil dependency")

// Source names one solver run to merge.
type Source struct {
	Label string
	Path  string
}

// IngestService reads solution files and turns variables into tables.
type IngestService struct {
	reader LineSource
	parser *parser.Parser
	logger *log.Logger
	limit  int
}

// ServiceOption configures IngestService.
type ServiceOption func(*IngestService)

// WithLogger sets the service logger.
func WithLogger(logger *log.Logger) ServiceOption {
	return func(s *IngestService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithConcurrency bounds the number of sources read at once by LoadSources.
func WithConcurrency(limit int) ServiceOption {
	return func(s *IngestService) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// NewIngestService constructs the service.
func NewIngestService(reader LineSource, p *parser.Parser, opts ...ServiceOption) (*IngestService, error) {
	if reader == nil || p == nil {
		return nil, ErrNilDependency
	}
	s := &IngestService{
		reader: reader,
		parser: p,
		logger: log.Default(),
		limit:  4,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

type loadOptions struct {
	yearSplit bool
	annualize string
}

// LoadOption configures a single load.
type LoadOption func(*loadOptions)

// WithYearSplit caches the year split on the loaded table. Variables without
// a timestep column take it from RateOfActivity in the same file.
func WithYearSplit() LoadOption {
	return func(o *loadOptions) {
		o.yearSplit = true
	}
}

// WithAnnualized attaches the year split and scales valueCol by it. Each
// table is scaled with its own split, so LoadSources can merge runs with
// different timestep counts.
func WithAnnualized(valueCol string) LoadOption {
	return func(o *loadOptions) {
		o.yearSplit = true
		o.annualize = valueCol
	}
}

// Keys lists the variables present in a solution file.
func (s *IngestService) Keys(ctx context.Context, path string) ([]string, error) {
	lines, err := s.reader.ReadLines(ctx, path)
	if err != nil {
		return nil, err
	}
	return parser.ListKeys(lines), nil
}

// FindKeys lists the variables with at least one line containing substr.
func (s *IngestService) FindKeys(ctx context.Context, path, substr string) ([]string, error) {
	lines, err := s.reader.ReadLines(ctx, path)
	if err != nil {
		return nil, err
	}
	return parser.FindKeysContaining(lines, substr), nil
}

// Load reads path and parses the variable key.
func (s *IngestService) Load(ctx context.Context, path, key string, opts ...LoadOption) (*table.Table, error) {
	lines, err := s.reader.ReadLines(ctx, path)
	if err != nil {
		return nil, err
	}
	t, err := s.LoadLines(lines, key, opts...)
	if err != nil {
		s.logger.Printf("solution load failed: path=%s key=%s err=%v", path, key, err)
		return nil, err
	}
	return t, nil
}

// LoadLines parses the variable key from already read lines.
func (s *IngestService) LoadLines(lines []string, key string, opts ...LoadOption) (*table.Table, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	t, err := s.parse(lines, key)
	if err != nil {
		return nil, err
	}
	if !o.yearSplit {
		return t, nil
	}
	if t.HasColumn(analytics.TimestepColumn) {
		t, err = analytics.AttachYearSplit(t)
	} else {
		var ref *table.Table
		ref, err = s.parse(lines, catalog.KeyRateOfActivity)
		if err == nil {
			t, err = analytics.AttachYearSplitFrom(t, ref)
		}
	}
	if err != nil {
		return nil, err
	}
	if o.annualize == "" {
		return t, nil
	}
	return analytics.Annualize(t, o.annualize)
}

func (s *IngestService) parse(lines []string, key string) (*table.Table, error) {
	start := time.Now()
	t, stats, err := s.parser.ParseWithStats(lines, key)
	metrics.ObserveParse(stats.Key, metrics.Result(err), stats.Rows, time.Since(start))
	metrics.AddDroppedEntries(stats.Key, metrics.DropReasonMalformed, stats.Dropped)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("solution parsed: key=%s rows=%d dropped=%d", stats.Key, stats.Rows, stats.Dropped)
	return t, nil
}

// LoadSources loads key from every source concurrently and merges the
// results in source order, tagging rows with the source label.
func (s *IngestService) LoadSources(ctx context.Context, key string, sources []Source, opts ...LoadOption) (*table.Table, error) {
	if len(sources) == 0 {
		return nil, analytics.ErrNoSources
	}
	loaded := make([]analytics.Labeled, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			t, err := s.Load(gctx, src.Path, key, opts...)
			if err != nil {
				return err
			}
			loaded[i] = analytics.Labeled{Label: src.Label, Table: t}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged, err := analytics.Concat(loaded...)
	if err != nil {
		return nil, err
	}
	metrics.AddSourcesMerged(len(sources))
	s.logger.Printf("solution sources merged: key=%s sources=%d rows=%d", key, len(sources), merged.Len())
	return merged, nil
}
