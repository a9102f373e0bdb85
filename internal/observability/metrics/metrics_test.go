package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFunctionsAreNilSafeBeforeInit(t *testing.T) {
	if parseTotal != nil {
		t.Skip("metrics already initialised by another test")
	}
	ObserveParse("K", ResultSuccess, 3, time.Millisecond)
	AddDroppedEntries("K", DropReasonMalformed, 1)
	AddSourcesMerged(2)
	ObserveExport("xlsx", ResultSuccess, time.Millisecond)
}

func TestParseCounters(t *testing.T) {
	Init(nil)

	beforeRows := testutil.ToFloat64(rowsParsed.WithLabelValues("TotalCapacityAnnual"))
	ObserveParse("TotalCapacityAnnual", ResultSuccess, 3, 2*time.Millisecond)
	ObserveParse("TotalCapacityAnnual", Result(errors.New("boom")), 0, time.Millisecond)

	if got := testutil.ToFloat64(rowsParsed.WithLabelValues("TotalCapacityAnnual")) - beforeRows; got != 3 {
		t.Fatalf("expected 3 rows, got %v", got)
	}
	if got := testutil.ToFloat64(parseTotal.WithLabelValues("TotalCapacityAnnual", ResultError)); got < 1 {
		t.Fatalf("expected error result to be counted, got %v", got)
	}

	AddDroppedEntries("RateOfActivity", DropReasonMalformed, 2)
	AddDroppedEntries("RateOfActivity", DropReasonMalformed, 0)
	if got := testutil.ToFloat64(entriesDrop.WithLabelValues("RateOfActivity", DropReasonMalformed)); got != 2 {
		t.Fatalf("expected 2 dropped entries, got %v", got)
	}
}

func TestExportCounters(t *testing.T) {
	Init(nil)
	before := testutil.ToFloat64(exportTotal.WithLabelValues("pdf", ResultSuccess))
	ObserveExport("pdf", "", time.Millisecond)
	if got := testutil.ToFloat64(exportTotal.WithLabelValues("pdf", ResultSuccess)) - before; got != 1 {
		t.Fatalf("expected one export, got %v", got)
	}
}
