package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"reflect"
	"testing"

	analytics "solution-analytics/internal/analytics/domain"
	catalog "solution-analytics/internal/catalog/domain"
	"solution-analytics/internal/solution/parser"
	table "solution-analytics/internal/table/domain"
)

type memorySource map[string][]string

func (m memorySource) ReadLines(ctx context.Context, path string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lines, ok := m[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return lines, nil
}

var files = memorySource{
	"base.sol": {
		"header",
		"TotalCapacityAnnual[2020,PP1,DE] 10",
		"TotalCapacityAnnual[2020,PP2,DE] 5",
		"RateOfActivity[2020,1,PP1,1,DE] 3.6",
		"RateOfActivity[2020,2,PP1,1,DE] 7.2",
		"RateOfActivity[2020,3,PP1,1,DE] 7.2",
		"RateOfActivity[2020,4,PP1,1,DE] 7.2",
	},
	"high.sol": {
		"header",
		"TotalCapacityAnnual[2020,PP1,DE] 20",
	},
	"coarse.sol": {
		"header",
		"RateOfActivity[2020,1,PP1,1,DE] 7.2",
	},
	"broken.sol": {
		"header",
		"TotalCapacityAnnual[20x0,PP1,DE] 20",
	},
}

func newService(t *testing.T) *IngestService {
	t.Helper()
	logger := log.New(io.Discard, "", 0)
	p, err := parser.New(catalog.Default(), parser.WithLogger(logger))
	if err != nil {
		t.Fatalf("parser: %v", err)
	}
	svc, err := NewIngestService(files, p, WithLogger(logger), WithConcurrency(2))
	if err != nil {
		t.Fatalf("service: %v", err)
	}
	return svc
}

func TestNewIngestServiceValidatesDependencies(t *testing.T) {
	if _, err := NewIngestService(nil, nil); !errors.Is(err, ErrNilDependency) {
		t.Fatalf("expected ErrNilDependency, got %v", err)
	}
}

func TestLoadWithYearSplitFromRateOfActivity(t *testing.T) {
	svc := newService(t)
	caps, err := svc.Load(context.Background(), "base.sol", "capacities", WithYearSplit())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if caps.Len() != 2 {
		t.Fatalf("expected 2 rows, got %d", caps.Len())
	}
	split, err := caps.YearSplit()
	if err != nil {
		t.Fatalf("year split: %v", err)
	}
	if split != 0.25 {
		t.Fatalf("expected 0.25, got %v", split)
	}

	rate, err := svc.Load(context.Background(), "base.sol", catalog.KeyRateOfActivity, WithYearSplit())
	if err != nil {
		t.Fatalf("load rate: %v", err)
	}
	if split, _ := rate.YearSplit(); split != 0.25 {
		t.Fatalf("expected 0.25 from own TS, got %v", split)
	}
	values, _ := rate.Floats("Value")
	if math.Abs(values[0]-1) > 1e-9 {
		t.Fatalf("expected converted value 1, got %v", values[0])
	}
}

func TestLoadWithoutYearSplit(t *testing.T) {
	caps, err := newService(t).Load(context.Background(), "high.sol", catalog.KeyTotalCapacityAnnual)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := caps.YearSplit(); !errors.Is(err, table.ErrMissingTimestepAxis) {
		t.Fatalf("expected ErrMissingTimestepAxis, got %v", err)
	}
}

func TestLoadYearSplitWithoutTimestepsFails(t *testing.T) {
	_, err := newService(t).Load(context.Background(), "high.sol", catalog.KeyTotalCapacityAnnual, WithYearSplit())
	if !errors.Is(err, table.ErrMissingTimestepAxis) {
		t.Fatalf("expected ErrMissingTimestepAxis, got %v", err)
	}
}

func TestLoadSourcesPreservesOrder(t *testing.T) {
	svc := newService(t)
	merged, err := svc.LoadSources(context.Background(), catalog.KeyTotalCapacityAnnual, []Source{
		{Label: "High", Path: "high.sol"},
		{Label: "Base", Path: "base.sol"},
	})
	if err != nil {
		t.Fatalf("load sources: %v", err)
	}
	labels, _ := merged.Strings(analytics.SourceColumn)
	if !reflect.DeepEqual(labels, []string{"High", "Base", "Base"}) {
		t.Fatalf("unexpected source order: %v", labels)
	}
	values, _ := merged.Floats("Value")
	if !reflect.DeepEqual(values, []float64{20, 10, 5}) {
		t.Fatalf("unexpected values: %v", values)
	}
}

func TestLoadSourcesPropagatesErrors(t *testing.T) {
	svc := newService(t)
	_, err := svc.LoadSources(context.Background(), catalog.KeyTotalCapacityAnnual, []Source{
		{Label: "Base", Path: "base.sol"},
		{Label: "Broken", Path: "broken.sol"},
	})
	if !errors.Is(err, parser.ErrNumericCoercion) {
		t.Fatalf("expected ErrNumericCoercion, got %v", err)
	}

	_, err = svc.LoadSources(context.Background(), catalog.KeyTotalCapacityAnnual, []Source{{Label: "Missing", Path: "missing.sol"}})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	if _, err := svc.LoadSources(context.Background(), catalog.KeyTotalCapacityAnnual, nil); !errors.Is(err, analytics.ErrNoSources) {
		t.Fatalf("expected ErrNoSources, got %v", err)
	}
}

func TestKeys(t *testing.T) {
	svc := newService(t)
	keys, err := svc.Keys(context.Background(), "base.sol")
	if err != nil {
		t.Fatalf("keys: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"RateOfActivity", "TotalCapacityAnnual"}) {
		t.Fatalf("unexpected keys: %v", keys)
	}
	found, err := svc.FindKeys(context.Background(), "base.sol", "PP2")
	if err != nil {
		t.Fatalf("find keys: %v", err)
	}
	if !reflect.DeepEqual(found, []string{"TotalCapacityAnnual"}) {
		t.Fatalf("unexpected keys: %v", found)
	}
}

func TestLoadSourcesAnnualizesEachSourceWithItsOwnSplit(t *testing.T) {
	svc := newService(t)
	out, err := svc.LoadSources(context.Background(), catalog.KeyRateOfActivity, []Source{
		{Label: "Base", Path: "base.sol"},
		{Label: "Coarse", Path: "coarse.sol"},
	}, WithAnnualized(analytics.ValueColumn))
	if err != nil {
		t.Fatalf("load sources: %v", err)
	}
	if _, err := out.YearSplit(); err == nil {
		t.Fatalf("merged runs with different splits must not carry one")
	}
	values, _ := out.Floats(analytics.ValueColumn)
	want := []float64{0.25, 0.5, 0.5, 0.5, 2}
	if len(values) != len(want) {
		t.Fatalf("expected %v, got %v", want, values)
	}
	for i := range want {
		if math.Abs(values[i]-want[i]) > 1e-9 {
			t.Fatalf("expected %v, got %v", want, values)
		}
	}
}
