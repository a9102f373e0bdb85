package interfaces

import (
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"solution-analytics/internal/observability/metrics"
	table "solution-analytics/internal/table/domain"
)

// yearSplitKey is the schema metadata key carrying a cached year split.
const yearSplitKey = "year_split"

// ArrowSchema maps table fields to an Arrow schema: numeric columns become
// nullable float64, string columns utf8.
func ArrowSchema(t *table.Table) *arrow.Schema {
	fields := t.Fields()
	out := make([]arrow.Field, len(fields))
	for i, f := range fields {
		if f.Type == table.Numeric {
			out[i] = arrow.Field{Name: f.Name, Type: arrow.PrimitiveTypes.Float64, Nullable: true}
			continue
		}
		out[i] = arrow.Field{Name: f.Name, Type: arrow.BinaryTypes.String}
	}
	var meta *arrow.Metadata
	if split, err := t.YearSplit(); err == nil {
		m := arrow.NewMetadata([]string{yearSplitKey}, []string{table.FormatNumber(split)})
		meta = &m
	}
	return arrow.NewSchema(out, meta)
}

// ToArrowRecord copies a table into an Arrow record for columnar consumers.
// The caller owns the record and must Release it. A nil allocator uses the
// Go allocator.
func ToArrowRecord(t *table.Table, mem memory.Allocator) (rec arrow.Record, err error) {
	start := time.Now()
	defer func() { metrics.ObserveExport(formatArrow, metrics.Result(err), time.Since(start)) }()
	if t == nil {
		return nil, ErrNilTable
	}
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	schema := ArrowSchema(t)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for c, f := range t.Fields() {
		switch fb := b.Field(c).(type) {
		case *array.Float64Builder:
			for i := 0; i < t.Len(); i++ {
				v, ok := t.Row(i).Get(f.Name).Float()
				if !ok {
					fb.AppendNull()
					continue
				}
				fb.Append(v)
			}
		case *array.StringBuilder:
			values, err := t.Strings(f.Name)
			if err != nil {
				return nil, err
			}
			fb.AppendValues(values, nil)
		default:
			return nil, fmt.Errorf("export: unsupported arrow builder %T for column %s", fb, f.Name)
		}
	}
	return b.NewRecord(), nil
}

// WriteArrowStream writes the table to w as a single-batch Arrow IPC stream.
func WriteArrowStream(w io.Writer, t *table.Table) error {
	mem := memory.NewGoAllocator()
	rec, err := ToArrowRecord(t, mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	writer := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := writer.Write(rec); err != nil {
		_ = writer.Close()
		return fmt.Errorf("export: arrow stream: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("export: arrow stream: %w", err)
	}
	return nil
}
