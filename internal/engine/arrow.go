package engine

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"

	"salaryboard/internal/models"
)

// ArrowContentType is the media type of an Arrow IPC stream.
const ArrowContentType = "application/vnd.apache.arrow.stream"

// SeriesSchema is the Arrow layout of a ranked series.
var SeriesSchema = arrow.NewSchema([]arrow.Field{
	{Name: "job_title", Type: arrow.BinaryTypes.String},
	{Name: "mean_salary_usd", Type: arrow.PrimitiveTypes.Float64},
	{Name: "count", Type: arrow.PrimitiveTypes.Int64},
}, nil)

// WriteArrow encodes s as a single-batch Arrow IPC stream.
// An empty series still produces a valid stream with the schema and zero rows.
func WriteArrow(w io.Writer, s models.Series) error {
	mem := memory.NewGoAllocator()

	b := array.NewRecordBuilder(mem, SeriesSchema)
	defer b.Release()

	titles := b.Field(0).(*array.StringBuilder)
	means := b.Field(1).(*array.Float64Builder)
	counts := b.Field(2).(*array.Int64Builder)

	titles.Reserve(len(s))
	means.Reserve(len(s))
	counts.Reserve(len(s))
	for _, p := range s {
		titles.Append(p.JobTitle)
		means.Append(p.MeanSalary)
		counts.Append(int64(p.Count))
	}

	rec := b.NewRecord()
	defer rec.Release()

	iw := ipc.NewWriter(w, ipc.WithSchema(SeriesSchema), ipc.WithAllocator(mem))
	if err := iw.Write(rec); err != nil {
		_ = iw.Close()
		return fmt.Errorf("write arrow batch: %w", err)
	}
	if err := iw.Close(); err != nil {
		return fmt.Errorf("close arrow stream: %w", err)
	}
	return nil
}

// ReadArrow decodes a stream written by WriteArrow.
func ReadArrow(r io.Reader) (models.Series, error) {
	mem := memory.NewGoAllocator()

	ir, err := ipc.NewReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, fmt.Errorf("open arrow stream: %w", err)
	}
	defer ir.Release()

	if !ir.Schema().Equal(SeriesSchema) {
		return nil, fmt.Errorf("unexpected arrow schema: %s", ir.Schema())
	}

	out := models.Series{}
	for ir.Next() {
		rec := ir.Record()
		titles := rec.Column(0).(*array.String)
		means := rec.Column(1).(*array.Float64)
		counts := rec.Column(2).(*array.Int64)
		for i := 0; i < int(rec.NumRows()); i++ {
			out = append(out, models.SeriesPoint{
				JobTitle:   titles.Value(i),
				MeanSalary: means.Value(i),
				Count:      int(counts.Value(i)),
			})
		}
	}
	if err := ir.Err(); err != nil {
		return nil, fmt.Errorf("read arrow stream: %w", err)
	}
	return out, nil
}
