// Package columnar provides a dense-matrix output sink, keyed
// (out_slot, sample_idx), for aggregation jobs, and an Arrow-backed
// writer for persisting remapped PL matrices using a builder-per-column,
// chunked IPC-write scheme.
package columnar

import (
	"fmt"
	"io"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/ipc"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// WriteSeeker is what the Arrow IPC file format needs: it seeks back to
// the start to patch in the footer length once all batches are written.
// *os.File satisfies this.
type WriteSeeker interface {
	io.Writer
	io.Seeker
}

// Int32Matrix is a dense (genotype slot x sample) matrix satisfying
// merge.Sink[int32] via PutAddress, used to accumulate FieldRemapper
// output across samples for one site. Its shape is fixed at
// construction.
type Int32Matrix struct {
	numSlots   int
	numSamples int
	data       [][]int32 // data[slot][sample]
}

// NewInt32Matrix allocates a matrix of the given shape.
func NewInt32Matrix(numSlots, numSamples int) *Int32Matrix {
	data := make([][]int32, numSlots)
	for i := range data {
		data[i] = make([]int32, numSamples)
	}
	return &Int32Matrix{numSlots: numSlots, numSamples: numSamples, data: data}
}

// PutAddress implements merge.Sink[int32].
func (m *Int32Matrix) PutAddress(sampleIdx, outSlot int) *int32 {
	return &m.data[outSlot][sampleIdx]
}

// Row returns the per-sample values for one genotype slot.
func (m *Int32Matrix) Row(slot int) []int32 {
	return m.data[slot]
}

// SampleColumn returns one sample's value at every genotype slot, in
// slot order, for handing to Writer.WriteSample.
func (m *Int32Matrix) SampleColumn(sampleIdx int) []int32 {
	col := make([]int32, m.numSlots)
	for slot := 0; slot < m.numSlots; slot++ {
		col[slot] = m.data[slot][sampleIdx]
	}
	return col
}

// NumSlots and NumSamples report the matrix shape.
func (m *Int32Matrix) NumSlots() int   { return m.numSlots }
func (m *Int32Matrix) NumSamples() int { return m.numSamples }

// Writer persists Int32Matrix sample columns as Arrow IPC record batches,
// one int32 column per genotype slot, one row per WriteSample call. Rows
// are buffered and flushed as one batch every chunkSize rows (and on
// Close), so a batch can span several sites.
type Writer struct {
	schema         *arrow.Schema
	ipcWriter      *ipc.FileWriter
	builders       []*array.Int32Builder
	pool           *memory.GoAllocator
	chunkSize      int
	numRowsInChunk int
}

// NewWriter opens an Arrow IPC writer over w with one column per
// genotype slot (named "gt0", "gt1", ...).
func NewWriter(w WriteSeeker, numSlots, chunkSize int) (*Writer, error) {
	pool := memory.NewGoAllocator()
	fields := make([]arrow.Field, numSlots)
	for i := range fields {
		fields[i] = arrow.Field{Name: fmt.Sprintf("gt%d", i), Type: arrow.PrimitiveTypes.Int32}
	}
	schema := arrow.NewSchema(fields, nil)

	ipcWriter, err := ipc.NewFileWriter(w, ipc.WithSchema(schema))
	if err != nil {
		return nil, fmt.Errorf("open arrow ipc writer: %w", err)
	}

	builders := make([]*array.Int32Builder, numSlots)
	for i := range builders {
		builders[i] = array.NewInt32Builder(pool)
	}

	return &Writer{schema: schema, ipcWriter: ipcWriter, builders: builders, pool: pool, chunkSize: chunkSize}, nil
}

// WriteSample appends one sample's column of genotype values (length
// must equal the writer's slot count) as a single row.
func (w *Writer) WriteSample(values []int32) error {
	if len(values) != len(w.builders) {
		return fmt.Errorf("columnar: expected %d genotype slots, got %d", len(w.builders), len(values))
	}
	for i, v := range values {
		w.builders[i].Append(v)
	}
	w.numRowsInChunk++
	if w.numRowsInChunk == w.chunkSize {
		return w.flush()
	}
	return nil
}

func (w *Writer) flush() error {
	cols := make([]arrow.Array, len(w.builders))
	for i, b := range w.builders {
		cols[i] = b.NewArray()
	}
	record := array.NewRecord(w.schema, cols, int64(w.numRowsInChunk))
	defer record.Release()

	if err := w.ipcWriter.Write(record); err != nil {
		return err
	}
	w.numRowsInChunk = 0
	return nil
}

// Close flushes any buffered rows and closes the underlying IPC writer.
func (w *Writer) Close() error {
	if w.numRowsInChunk > 0 {
		if err := w.flush(); err != nil {
			return err
		}
	}
	return w.ipcWriter.Close()
}
