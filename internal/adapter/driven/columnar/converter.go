package columnar

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/diillson/cur2-parquet-sync/internal/domain/repository"
	"github.com/diillson/cur2-parquet-sync/internal/shared/types"
	"github.com/klauspost/compress/gzip"
)

// DefaultMemoryThresholdMiB é o tamanho de entrada a partir do qual a conversão usa disco.
const DefaultMemoryThresholdMiB = 200

const createdBy = "cur2-sync"

// ConversionError envolve qualquer falha da conversão de um arquivo.
type ConversionError struct {
	Stage string
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("conversion failed at %s: %v", e.Stage, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// Converter transforma CSV gzip do CUR em Parquet snappy.
type Converter struct {
	console        types.ConsoleInterface
	normalizer     *Normalizer
	thresholdBytes int64
	tempDir        string
	mem            memory.Allocator
}

// ConverterOption ajusta o Converter.
type ConverterOption func(*Converter)

// WithTempDir define o diretório base dos arquivos temporários da conversão em disco.
func WithTempDir(dir string) ConverterOption {
	return func(c *Converter) { c.tempDir = dir }
}

// WithAllocator substitui o alocador Arrow, usado em testes para checar vazamentos.
func WithAllocator(mem memory.Allocator) ConverterOption {
	return func(c *Converter) { c.mem = mem }
}

// NewConverter cria um FormatConverter com o limite de memória em MiB.
func NewConverter(console types.ConsoleInterface, thresholdMiB int, opts ...ConverterOption) repository.FormatConverter {
	return newConverter(console, thresholdMiB, opts...)
}

func newConverter(console types.ConsoleInterface, thresholdMiB int, opts ...ConverterOption) *Converter {
	if thresholdMiB <= 0 {
		thresholdMiB = DefaultMemoryThresholdMiB
	}
	c := &Converter{
		console:        console,
		normalizer:     NewNormalizer(console),
		thresholdBytes: int64(thresholdMiB) * 1024 * 1024,
		mem:            memory.NewGoAllocator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Convert converte o conteúdo gzip-CSV em bytes Parquet. Entradas menores que o
// limite são processadas em memória; as demais passam por um diretório temporário
// removido ao final em qualquer caso.
func (c *Converter) Convert(ctx context.Context, content []byte) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &ConversionError{Stage: "panic", Err: fmt.Errorf("%v", r)}
		}
	}()

	if err := ctx.Err(); err != nil {
		return nil, &ConversionError{Stage: "start", Err: err}
	}

	if int64(len(content)) < c.thresholdBytes {
		c.console.LogDebug("Converting %d bytes in memory", len(content))
		return c.convertInMemory(content)
	}
	c.console.LogDebug("Converting %d bytes through temporary files", len(content))
	return c.convertSpilled(content)
}

func (c *Converter) convertInMemory(content []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.convert(bytes.NewReader(content), &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c *Converter) convertSpilled(content []byte) ([]byte, error) {
	dir, err := os.MkdirTemp(c.tempDir, "cur2-convert-*")
	if err != nil {
		return nil, &ConversionError{Stage: "tempdir", Err: err}
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input.csv.gz")
	if err := os.WriteFile(inPath, content, 0o600); err != nil {
		return nil, &ConversionError{Stage: "spill", Err: err}
	}

	in, err := os.Open(inPath)
	if err != nil {
		return nil, &ConversionError{Stage: "spill", Err: err}
	}
	defer in.Close()

	outPath := filepath.Join(dir, "output.parquet")
	outFile, err := os.Create(outPath)
	if err != nil {
		return nil, &ConversionError{Stage: "spill", Err: err}
	}
	// o writer parquet fecha o arquivo; o Close abaixo cobre os caminhos de erro.
	defer outFile.Close()

	if err := c.convert(in, outFile); err != nil {
		return nil, err
	}

	b, err := os.ReadFile(outPath)
	if err != nil {
		return nil, &ConversionError{Stage: "spill", Err: err}
	}
	return b, nil
}

// convert é o núcleo comum às duas estratégias.
func (c *Converter) convert(r io.Reader, w io.Writer) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return &ConversionError{Stage: "decompress", Err: err}
	}
	defer gz.Close()

	table, err := ReadCSV(gz)
	if err != nil {
		return &ConversionError{Stage: "parse", Err: err}
	}

	cols := c.normalizer.Normalize(table)
	schema := BuildSchema(cols)

	rec, err := buildRecord(c.mem, schema, cols, table.Rows)
	if err != nil {
		return &ConversionError{Stage: "arrow", Err: err}
	}
	defer rec.Release()

	if err := writeParquet(schema, rec, w); err != nil {
		return &ConversionError{Stage: "write", Err: err}
	}
	return nil
}

func writerProperties() (*parquet.WriterProperties, pqarrow.ArrowWriterProperties) {
	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithStats(true),
		parquet.WithCreatedBy(createdBy),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithStoreSchema(),
		pqarrow.WithCoerceTimestamps(arrow.Millisecond),
		pqarrow.WithTruncatedTimestamps(true),
	)
	return props, arrowProps
}

func writeParquet(schema *arrow.Schema, rec arrow.Record, w io.Writer) error {
	props, arrowProps := writerProperties()
	writer, err := pqarrow.NewFileWriter(schema, w, props, arrowProps)
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	if err := writer.Write(rec); err != nil {
		writer.Close()
		return fmt.Errorf("failed to write parquet record: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func buildRecord(mem memory.Allocator, schema *arrow.Schema, cols []*NormalizedColumn, rows int) (arrow.Record, error) {
	arrays := make([]arrow.Array, 0, len(cols))
	defer func() {
		for _, a := range arrays {
			a.Release()
		}
	}()

	for _, col := range cols {
		arr, err := buildArray(mem, col, rows)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", col.Name, err)
		}
		arrays = append(arrays, arr)
	}

	return array.NewRecord(schema, arrays, int64(rows)), nil
}

func buildArray(mem memory.Allocator, col *NormalizedColumn, rows int) (arrow.Array, error) {
	if len(col.Valid) != rows {
		return nil, fmt.Errorf("expected %d values, got %d", rows, len(col.Valid))
	}

	switch col.Kind {
	case KindTimestamp:
		b := array.NewTimestampBuilder(mem, timestampMs)
		defer b.Release()
		for i := 0; i < rows; i++ {
			if col.Valid[i] {
				b.Append(arrow.Timestamp(col.Millis[i]))
			} else {
				b.AppendNull()
			}
		}
		return b.NewArray(), nil
	case KindInt64:
		b := array.NewInt64Builder(mem)
		defer b.Release()
		b.AppendValues(col.Ints, col.Valid)
		return b.NewArray(), nil
	case KindFloat64:
		b := array.NewFloat64Builder(mem)
		defer b.Release()
		b.AppendValues(col.Floats, col.Valid)
		return b.NewArray(), nil
	case KindBool:
		b := array.NewBooleanBuilder(mem)
		defer b.Release()
		b.AppendValues(col.Bools, col.Valid)
		return b.NewArray(), nil
	default:
		b := array.NewStringBuilder(mem)
		defer b.Release()
		b.AppendValues(col.Strings, col.Valid)
		return b.NewArray(), nil
	}
}
