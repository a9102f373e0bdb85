package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"

	catalog "solution-analytics/internal/catalog/domain"
	"solution-analytics/internal/catalog/infrastructure/yamlsource"
	"solution-analytics/internal/config"
	exportinterfaces "solution-analytics/internal/export/interfaces"
	"solution-analytics/internal/observability/metrics"
	"solution-analytics/internal/reference/infrastructure/memory"
	ingest "solution-analytics/internal/solution/application"
	"solution-analytics/internal/solution/infrastructure/file"
	linecache "solution-analytics/internal/solution/infrastructure/memory"
	"solution-analytics/internal/solution/parser"
	table "solution-analytics/internal/table/domain"
	viewapp "solution-analytics/internal/views/application"
)

type flags struct {
	path       string
	sources    string
	key        string
	find       string
	list       bool
	yearSplit  bool
	out        string
	title      string
	metricsOut string

	view   string
	region string
	year   float64
	fuels  string
	tech   string
	sector string
	remap  string
}

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)
	f := parseFlags()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	metrics.Init(logger)

	cat, err := buildCatalog(cfg)
	if err != nil {
		logger.Fatalf("catalog: %v", err)
	}

	var popts []parser.Option
	popts = append(popts, parser.WithLogger(logger))
	if cfg.Strict {
		popts = append(popts, parser.WithStrict())
	}
	if cfg.LenientValues {
		popts = append(popts, parser.WithLenientValues())
	}
	p, err := parser.New(cat, popts...)
	if err != nil {
		logger.Fatalf("parser: %v", err)
	}

	lines, err := linecache.NewLineCache(file.NewReader())
	if err != nil {
		logger.Fatalf("line cache: %v", err)
	}
	svc, err := ingest.NewIngestService(lines, p,
		ingest.WithLogger(logger),
		ingest.WithConcurrency(cfg.Concurrency),
	)
	if err != nil {
		logger.Fatalf("ingest service: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.view != "" {
		views, err := viewapp.NewService(svc,
			viewapp.WithSectorLookup(memory.NewSectorTable(cfg.Sectors)),
			viewapp.WithLocationLookup(memory.NewLocationTable(cfg.GeoLocations())),
			viewapp.WithStorageConvention(cfg.StorageConvention()),
			viewapp.WithLogger(logger),
		)
		if err != nil {
			logger.Fatalf("view service: %v", err)
		}
		if err := runView(ctx, views, cfg, f, logger); err != nil {
			logger.Fatalf("view %s: %v", f.view, err)
		}
	} else if err := run(ctx, svc, f, logger); err != nil {
		logger.Fatalf("%v", err)
	}

	if f.metricsOut != "" {
		if err := prometheus.WriteToTextfile(f.metricsOut, prometheus.DefaultGatherer); err != nil {
			logger.Fatalf("write metrics: %v", err)
		}
		logger.Printf("metrics written to %s", f.metricsOut)
	}
}

func parseFlags() flags {
	f := flags{}
	flag.StringVar(&f.path, "file", "", "solution file (.txt, .gz, .bz2, .xz, .zst)")
	flag.StringVar(&f.sources, "sources", "", "comma separated label=path list merged into one table")
	flag.StringVar(&f.key, "key", "", "variable key or alias to parse")
	flag.StringVar(&f.find, "find", "", "list keys of lines containing this text")
	flag.BoolVar(&f.list, "list", false, "list every key present in the file")
	flag.BoolVar(&f.yearSplit, "year-split", false, "attach the year split to the parsed table")
	flag.StringVar(&f.out, "out", "", "export path (.xlsx, .pdf or .arrow)")
	flag.StringVar(&f.title, "title", "", "export title")
	flag.StringVar(&f.metricsOut, "metrics-out", "", "write prometheus metrics to this file on exit")
	flag.StringVar(&f.view, "view", "", "view recipe: stacked, production, use, hourly, storage, comparison, trade-map, trade-matrix, sector")
	flag.StringVar(&f.region, "region", "", "region filter for views")
	flag.Float64Var(&f.year, "year", 0, "year filter for views")
	flag.StringVar(&f.fuels, "fuels", "", "comma separated fuels for the production view")
	flag.StringVar(&f.tech, "tech", "", "technology for the comparison view")
	flag.StringVar(&f.sector, "sector", "", "sector for the sector view")
	flag.StringVar(&f.remap, "remap", "", "named remapping from config for the sector view")
	flag.Parse()
	return f
}

func buildCatalog(cfg config.Config) (*catalog.Catalog, error) {
	cat := catalog.Default()
	if cfg.CatalogPath != "" {
		extended, err := yamlsource.ExtendFile(cat, cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		cat = extended
	}
	if cfg.ConversionFactor > 0 && cfg.ConversionFactor != cat.ConversionFactor() {
		return cat.Extend(nil, catalog.WithConversionFactor(cfg.ConversionFactor))
	}
	return cat, nil
}

func run(ctx context.Context, svc *ingest.IngestService, f flags, logger *log.Logger) error {
	switch {
	case f.list:
		keys, err := svc.Keys(ctx, f.path)
		if err != nil {
			return fmt.Errorf("list keys: %w", err)
		}
		printLines(keys)
		return nil
	case f.find != "":
		keys, err := svc.FindKeys(ctx, f.path, f.find)
		if err != nil {
			return fmt.Errorf("find keys: %w", err)
		}
		printLines(keys)
		return nil
	case f.key == "":
		return fmt.Errorf("one of -list, -find or -key is required")
	}

	var opts []ingest.LoadOption
	if f.yearSplit {
		opts = append(opts, ingest.WithYearSplit())
	}

	var (
		t   *table.Table
		err error
	)
	if f.sources != "" {
		sources, perr := parseSources(f.sources)
		if perr != nil {
			return perr
		}
		t, err = svc.LoadSources(ctx, f.key, sources, opts...)
	} else {
		t, err = svc.Load(ctx, f.path, f.key, opts...)
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", f.key, err)
	}

	if f.out == "" {
		return printTable(os.Stdout, t)
	}
	if err := export(f.out, f.title, t); err != nil {
		return fmt.Errorf("export %s: %w", f.out, err)
	}
	logger.Printf("table exported: key=%s rows=%d path=%s", f.key, t.Len(), f.out)
	return nil
}

func runView(ctx context.Context, views *viewapp.Service, cfg config.Config, f flags, logger *log.Logger) error {
	var (
		t   *table.Table
		err error
	)
	switch f.view {
	case "stacked":
		t, err = views.StackedEvolution(ctx, f.path, f.key, f.region)
	case "production":
		t, err = views.ProductionByFuel(ctx, f.path, f.region, splitCSV(f.fuels))
	case "use":
		t, err = views.AnnualUse(ctx, f.path, f.region)
	case "hourly":
		t, err = views.HourlyActivityRate(ctx, f.path, f.year, f.region)
	case "storage":
		t, err = views.StorageDischargeHourlyRate(ctx, f.path, f.year, f.region)
	case "comparison":
		sources, perr := parseSources(f.sources)
		if perr != nil {
			return perr
		}
		t, err = views.HourlyRateComparison(ctx, sources, f.tech, f.year, f.region)
	case "trade-map":
		m, merr := views.TradeCapacityMap(ctx, f.path, f.year)
		if merr != nil {
			return merr
		}
		logger.Printf("trade map: pairs=%d locations=%d", m.Capacities.Len(), len(m.Locations))
		t = m.Capacities
	case "trade-matrix":
		t, err = views.TradeCapacityMatrix(ctx, f.path, f.year)
	case "sector":
		t, err = views.SectorCapacity(ctx, f.path, f.sector, cfg.Remap(f.remap))
	default:
		return fmt.Errorf("unknown view %q", f.view)
	}
	if err != nil {
		return err
	}
	if f.out == "" {
		return printTable(os.Stdout, t)
	}
	if err := export(f.out, f.title, t); err != nil {
		return fmt.Errorf("export %s: %w", f.out, err)
	}
	logger.Printf("view exported: view=%s rows=%d path=%s", f.view, t.Len(), f.out)
	return nil
}

func splitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

func parseSources(value string) ([]ingest.Source, error) {
	var sources []ingest.Source
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		label, path, ok := strings.Cut(part, "=")
		if !ok || label == "" || path == "" {
			return nil, fmt.Errorf("invalid source %q, expected label=path", part)
		}
		sources = append(sources, ingest.Source{Label: label, Path: path})
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources given")
	}
	return sources, nil
}

func export(path, title string, t *table.Table) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		data, err := exportinterfaces.BuildTableXLSX(title, t)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	case ".pdf":
		data, err := exportinterfaces.BuildTablePDF(title, t)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0o644)
	case ".arrow":
		out, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := exportinterfaces.WriteArrowStream(out, t); err != nil {
			_ = out.Close()
			return err
		}
		return out.Close()
	default:
		return fmt.Errorf("unsupported export format %q", filepath.Ext(path))
	}
}

func printLines(lines []string) {
	for _, line := range lines {
		fmt.Println(line)
	}
}

func printTable(w io.Writer, t *table.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Columns(), "\t"))
	for _, row := range t.Rows() {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}
