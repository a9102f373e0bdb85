package interfaces

import (
	"bytes"
	"errors"
	"testing"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
	"github.com/xuri/excelize/v2"

	table "solution-analytics/internal/table/domain"
)

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	fields := []table.Field{
		{Name: "Year", Type: table.Numeric},
		{Name: "Technology", Type: table.String},
		{Name: "Value", Type: table.Numeric},
	}
	tbl, err := table.FromRows(fields, [][]table.Value{
		{table.Num(2020), table.Str("P_Wind"), table.Num(1.5)},
		{table.Num(2021), table.Str("P_Solar"), table.Null()},
	})
	if err != nil {
		t.Fatalf("from rows: %v", err)
	}
	return tbl
}

func TestBuildTableXLSX(t *testing.T) {
	data, err := BuildTableXLSX("Capacities", sampleTable(t))
	if err != nil {
		t.Fatalf("build xlsx: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()

	cases := map[string]string{
		"A1": "Capacities",
		"A3": "Year",
		"C3": "Value",
		"B4": "P_Wind",
		"C4": "1.5",
		"A5": "2021",
		"C5": "",
	}
	for cell, want := range cases {
		got, err := f.GetCellValue(dataSheet, cell)
		if err != nil {
			t.Fatalf("get %s: %v", cell, err)
		}
		if got != want {
			t.Fatalf("%s: expected %q, got %q", cell, want, got)
		}
	}
}

func TestBuildTablePDF(t *testing.T) {
	data, err := BuildTablePDF("Capacities", sampleTable(t))
	if err != nil {
		t.Fatalf("build pdf: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("expected pdf header")
	}
}

func TestExportersRejectNilTable(t *testing.T) {
	if _, err := BuildTableXLSX("", nil); !errors.Is(err, ErrNilTable) {
		t.Fatalf("expected ErrNilTable, got %v", err)
	}
	if _, err := BuildTablePDF("", nil); !errors.Is(err, ErrNilTable) {
		t.Fatalf("expected ErrNilTable, got %v", err)
	}
	if _, err := ToArrowRecord(nil, nil); !errors.Is(err, ErrNilTable) {
		t.Fatalf("expected ErrNilTable, got %v", err)
	}
}

func TestToArrowRecord(t *testing.T) {
	mem := memory.NewCheckedAllocator(memory.NewGoAllocator())
	defer mem.AssertSize(t, 0)

	rec, err := ToArrowRecord(sampleTable(t).WithYearSplit(0.25), mem)
	if err != nil {
		t.Fatalf("to arrow: %v", err)
	}
	defer rec.Release()

	if rec.NumRows() != 2 || rec.NumCols() != 3 {
		t.Fatalf("unexpected shape: %d x %d", rec.NumRows(), rec.NumCols())
	}
	if rec.Schema().Field(1).Type.ID() != arrow.STRING {
		t.Fatalf("expected utf8 technology column")
	}
	values := rec.Column(2).(*array.Float64)
	if values.Value(0) != 1.5 || !values.IsNull(1) {
		t.Fatalf("unexpected values: %v", values)
	}
	techs := rec.Column(1).(*array.String)
	if techs.Value(1) != "P_Solar" {
		t.Fatalf("unexpected technology: %s", techs.Value(1))
	}
	meta := rec.Schema().Metadata()
	if i := meta.FindKey(yearSplitKey); i < 0 || meta.Values()[i] != "0.25" {
		t.Fatalf("expected year split metadata, got %v", meta)
	}
}

func TestWriteArrowStream(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteArrowStream(&buf, sampleTable(t)); err != nil {
		t.Fatalf("write stream: %v", err)
	}

	reader, err := ipc.NewReader(&buf)
	if err != nil {
		t.Fatalf("open stream: %v", err)
	}
	defer reader.Release()

	rows := 0
	for reader.Next() {
		rows += int(reader.Record().NumRows())
	}
	if err := reader.Err(); err != nil {
		t.Fatalf("read stream: %v", err)
	}
	if rows != 2 {
		t.Fatalf("expected 2 rows, got %d", rows)
	}
	if got := reader.Schema().Field(0).Name; got != "Year" {
		t.Fatalf("unexpected first field: %s", got)
	}
}
