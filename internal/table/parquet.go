package table

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
)

var timestampType = &arrow.TimestampType{Unit: arrow.Microsecond, TimeZone: "UTC"}

// Schema infers an Arrow schema from the table. Each column takes the type
// of its first non-nil value; all-nil and unrecognized columns are strings.
func Schema(t *Table) *arrow.Schema {
	fields := make([]arrow.Field, len(t.columns))
	for c, name := range t.columns {
		fields[c] = arrow.Field{Name: name, Type: arrow.BinaryTypes.String, Nullable: true}
		for _, row := range t.rows {
			if row[c] != nil {
				fields[c].Type = arrowType(row[c])
				break
			}
		}
	}
	return arrow.NewSchema(fields, nil)
}

func arrowType(v any) arrow.DataType {
	switch v.(type) {
	case int, int8, int16, int32, int64, uint8, uint16, uint32:
		return arrow.PrimitiveTypes.Int64
	case float32, float64:
		return arrow.PrimitiveTypes.Float64
	case bool:
		return arrow.FixedWidthTypes.Boolean
	case time.Time:
		return timestampType
	case []byte:
		return arrow.BinaryTypes.Binary
	default:
		return arrow.BinaryTypes.String
	}
}

// NewRecord builds a single Arrow record holding every row of the table.
// The caller must Release it.
func NewRecord(mem memory.Allocator, t *Table) (arrow.Record, error) {
	schema := Schema(t)
	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for c, field := range schema.Fields() {
		fb := b.Field(c)
		fb.Reserve(len(t.rows))
		for r, row := range t.rows {
			if err := appendValue(fb, row[c]); err != nil {
				return nil, fmt.Errorf("column %q row %d: %w", field.Name, r, err)
			}
		}
	}
	return b.NewRecord(), nil
}

func appendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch fb := b.(type) {
	case *array.StringBuilder:
		fb.Append(formatCell(v))
	case *array.Int64Builder:
		n, ok := toInt64(v)
		if !ok {
			return fmt.Errorf("cannot store %T as int64", v)
		}
		fb.Append(n)
	case *array.Float64Builder:
		switch x := v.(type) {
		case float64:
			fb.Append(x)
		case float32:
			fb.Append(float64(x))
		default:
			return fmt.Errorf("cannot store %T as float64", v)
		}
	case *array.BooleanBuilder:
		x, ok := v.(bool)
		if !ok {
			return fmt.Errorf("cannot store %T as bool", v)
		}
		fb.Append(x)
	case *array.TimestampBuilder:
		x, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("cannot store %T as timestamp", v)
		}
		fb.Append(arrow.Timestamp(x.UnixMicro()))
	case *array.BinaryBuilder:
		x, ok := v.([]byte)
		if !ok {
			return fmt.Errorf("cannot store %T as binary", v)
		}
		fb.Append(x)
	default:
		return fmt.Errorf("unsupported builder %T", b)
	}
	return nil
}

func toInt64(v any) (int64, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}

// WriteParquet writes the table as a snappy-compressed parquet file.
func WriteParquet(w io.Writer, t *Table) error {
	mem := memory.NewGoAllocator()

	rec, err := NewRecord(mem, t)
	if err != nil {
		return err
	}
	defer rec.Release()

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithAllocator(mem),
	)
	fw, err := pqarrow.NewFileWriter(rec.Schema(), w, props, pqarrow.DefaultWriterProps())
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		_ = fw.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

// ReadParquet loads a parquet file into a table. Timestamps come back as
// UTC time.Time values; types without a direct Go mapping are read as
// their string form.
func ReadParquet(ctx context.Context, r parquet.ReaderAtSeeker) (*Table, error) {
	mem := memory.NewGoAllocator()

	tbl, err := pqarrow.ReadTable(ctx, r, parquet.NewReaderProperties(mem), pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet: %w", err)
	}
	defer tbl.Release()

	schema := tbl.Schema()
	names := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		names[i] = f.Name
	}

	numRows := int(tbl.NumRows())
	columns := make([][]any, len(names))
	for c := range names {
		values := make([]any, 0, numRows)
		for _, chunk := range tbl.Column(c).Data().Chunks() {
			for i := 0; i < chunk.Len(); i++ {
				values = append(values, arrayValue(chunk, i))
			}
		}
		columns[c] = values
	}

	out := New(names...)
	for r := 0; r < numRows; r++ {
		row := make([]any, len(names))
		for c := range names {
			row[c] = columns[c][r]
		}
		out.rows = append(out.rows, row)
	}
	return out, nil
}

func arrayValue(arr arrow.Array, i int) any {
	if arr.IsNull(i) {
		return nil
	}
	switch a := arr.(type) {
	case *array.String:
		return a.Value(i)
	case *array.Int64:
		return a.Value(i)
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.Timestamp:
		unit := a.DataType().(*arrow.TimestampType).Unit
		return a.Value(i).ToTime(unit)
	case *array.Binary:
		return append([]byte(nil), a.Value(i)...)
	default:
		return arr.ValueStr(i)
	}
}
