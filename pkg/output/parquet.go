package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/memory"
	"github.com/apache/arrow/go/v14/parquet"
	"github.com/apache/arrow/go/v14/parquet/compress"
	"github.com/apache/arrow/go/v14/parquet/pqarrow"

	"github.com/airmerge/airmerge/pkg/table"
)

const toolVersion = "0.1.0"

// ParquetOptions configures the optional columnar output.
type ParquetOptions struct {
	// Compression codec name: none, snappy, gzip, zstd, lz4, brotli.
	Compression string

	// Metadata is stamped into the file footer under the airmerge.*
	// namespace for lineage.
	Metadata map[string]string
}

// WriteParquet writes the table to a Parquet file. The write is atomic:
// data goes to a temp file that is renamed into place only on success,
// so a failed write never leaves a truncated output behind.
func WriteParquet(t *table.Table, path string, opts ParquetOptions) error {
	schema := buildSchema(t, opts.Metadata)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tempPath := fmt.Sprintf("%s.tmp.%d", path, time.Now().UnixNano())
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	writerProps := parquet.NewWriterProperties(
		parquet.WithCompression(parseCompression(opts.Compression)),
		parquet.WithCreatedBy("airmerge "+toolVersion),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())

	w, err := pqarrow.NewFileWriter(schema, f, writerProps, arrowProps)
	if err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to create Parquet writer: %w", err)
	}

	rec := buildRecord(t, schema)
	writeErr := w.Write(rec)
	rec.Release()

	if err := w.Close(); err != nil && writeErr == nil {
		writeErr = err
	}
	if writeErr != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to write Parquet data: %w", writeErr)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to finalize Parquet output: %w", err)
	}
	return nil
}

// buildSchema derives an Arrow schema from the table's cell kinds:
// all-numeric columns map to float64, all-timestamp columns to a UTC
// microsecond timestamp, everything else (including mixed columns) to
// strings rendered the same way as the CSV output.
func buildSchema(t *table.Table, metadata map[string]string) *arrow.Schema {
	fields := make([]arrow.Field, t.NumCols())
	for i, name := range t.Columns {
		fields[i] = arrow.Field{Name: name, Type: columnType(t, i), Nullable: true}
	}

	keys := []string{"airmerge.version", "airmerge.created_at"}
	values := []string{toolVersion, time.Now().UTC().Format(time.RFC3339)}
	for k, v := range metadata {
		keys = append(keys, "airmerge."+k)
		values = append(values, v)
	}
	meta := arrow.NewMetadata(keys, values)
	return arrow.NewSchema(fields, &meta)
}

func columnType(t *table.Table, idx int) arrow.DataType {
	var sawNum, sawTime, sawStr bool
	for _, row := range t.Rows {
		switch row[idx].Kind {
		case table.KindNumber:
			sawNum = true
		case table.KindTime:
			sawTime = true
		case table.KindString:
			sawStr = true
		}
	}
	switch {
	case sawNum && !sawTime && !sawStr:
		return arrow.PrimitiveTypes.Float64
	case sawTime && !sawNum && !sawStr:
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

func buildRecord(t *table.Table, schema *arrow.Schema) arrow.Record {
	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	for i := range t.Columns {
		switch fb := builder.Field(i).(type) {
		case *array.Float64Builder:
			for _, row := range t.Rows {
				if v := row[i]; v.Kind == table.KindNumber {
					fb.Append(v.Num)
				} else {
					fb.AppendNull()
				}
			}
		case *array.TimestampBuilder:
			for _, row := range t.Rows {
				if v := row[i]; v.Kind == table.KindTime {
					fb.Append(arrow.Timestamp(v.Time.UnixMicro()))
				} else {
					fb.AppendNull()
				}
			}
		case *array.StringBuilder:
			for _, row := range t.Rows {
				if v := row[i]; v.IsMissing() {
					fb.AppendNull()
				} else {
					fb.Append(v.Render())
				}
			}
		}
	}
	return builder.NewRecord()
}

func parseCompression(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Codecs.Gzip
	case "zstd":
		return compress.Codecs.Zstd
	case "lz4":
		return compress.Codecs.Lz4
	case "brotli":
		return compress.Codecs.Brotli
	case "none", "uncompressed":
		return compress.Codecs.Uncompressed
	default:
		return compress.Codecs.Snappy
	}
}
