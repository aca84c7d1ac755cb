package merge

import "github.com/varmerge/vargt-merge/internal/variant"

// Sink is the output abstraction field remapping writes through,
// rather than owning its output buffer directly. Two implementations
// exist: a dense matrix keyed (out_slot, sample_idx) for aggregation
// jobs (package columnar), and a direct view into a copy of the
// Variant for the rewrite-in-place use case (below). The capability is
// polymorphic over the field's element type via T.
type Sink[T any] interface {
	PutAddress(sampleIdx, outSlot int) *T
}

// bufferSink is the "direct view into a copy of the Variant" sink: it
// addresses slots inside one Call's own output Buffer, so sampleIdx is
// ignored (the buffer is already sample-specific).
type bufferSink[T any] struct {
	slice *[]T
}

func (s bufferSink[T]) PutAddress(_, outSlot int) *T {
	return &(*s.slice)[outSlot]
}

// CallSink builds the direct-view sink for one output buffer, keyed by
// element type.
func CallSink[T any](slice *[]T) Sink[T] {
	return bufferSink[T]{slice: slice}
}

// The per-type helpers below return a pointer to the matching backing
// slice field of a *variant.Buffer, so RemapField can build a CallSink
// in each case of its element-type switch.
func int32SlicePtr(b *variant.Buffer) *[]int32     { return &b.Int32s }
func int64SlicePtr(b *variant.Buffer) *[]int64     { return &b.Int64s }
func uint32SlicePtr(b *variant.Buffer) *[]uint32   { return &b.Uint32s }
func uint64SlicePtr(b *variant.Buffer) *[]uint64   { return &b.Uint64s }
func float32SlicePtr(b *variant.Buffer) *[]float32 { return &b.Float32s }
func float64SlicePtr(b *variant.Buffer) *[]float64 { return &b.Float64s }
func stringSlicePtr(b *variant.Buffer) *[]string   { return &b.Strings }
func charSlicePtr(b *variant.Buffer) *[]byte       { return &b.Chars }
