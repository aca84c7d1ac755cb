// Package variant defines the multi-sample input contract: a Variant
// exposing only its valid per-sample calls, and a Call exposing typed,
// optional field buffers by query-field index. Concrete producers
// (package gvcf) and concrete consumers (package merge) both depend
// only on these types.
package variant

import "github.com/varmerge/vargt-merge/internal/field"

// Buffer is a typed, resizable, optionally-present field value attached
// to one Call. The concrete element slice is selected by callers that
// already know the field's ElementType (set by querycfg.FieldInfo).
type Buffer struct {
	Type  field.ElementType
	valid bool

	Int32s   []int32
	Int64s   []int64
	Uint32s  []uint32
	Uint64s  []uint64
	Float32s []float32
	Float64s []float64
	Strings  []string
	Chars    []byte
}

// IsValid reports whether the field was present on the call.
func (b *Buffer) IsValid() bool {
	return b != nil && b.valid
}

// Len returns the number of elements currently held, regardless of type.
func (b *Buffer) Len() int {
	if b == nil {
		return 0
	}
	switch b.Type {
	case field.Int32:
		return len(b.Int32s)
	case field.Int64:
		return len(b.Int64s)
	case field.Uint32:
		return len(b.Uint32s)
	case field.Uint64:
		return len(b.Uint64s)
	case field.Float32:
		return len(b.Float32s)
	case field.Float64:
		return len(b.Float64s)
	case field.String:
		return len(b.Strings)
	case field.Char:
		return len(b.Chars)
	default:
		return 0
	}
}

// Resize grows or shrinks the backing slice of the buffer's element type
// to n, filling new slots with the type's missing sentinel.
func (b *Buffer) Resize(n int) {
	switch b.Type {
	case field.Int32:
		b.Int32s = resizeFill(b.Int32s, n, field.MissingInt32)
	case field.Int64:
		b.Int64s = resizeFill(b.Int64s, n, field.MissingInt64)
	case field.Uint32:
		b.Uint32s = resizeFill(b.Uint32s, n, field.MissingUint32)
	case field.Uint64:
		b.Uint64s = resizeFill(b.Uint64s, n, field.MissingUint64)
	case field.Float32:
		b.Float32s = resizeFill(b.Float32s, n, field.MissingFloat32)
	case field.Float64:
		b.Float64s = resizeFill(b.Float64s, n, field.MissingFloat64)
	case field.String:
		b.Strings = resizeFill(b.Strings, n, field.MissingString)
	case field.Char:
		b.Chars = resizeFill(b.Chars, n, field.MissingChar)
	}
	b.valid = true
}

func resizeFill[T any](s []T, n int, missing T) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = missing
	}
	copy(out, s)
	return out
}

// NewBuffer constructs an empty, invalid buffer of the given type.
func NewBuffer(t field.ElementType) *Buffer {
	return &Buffer{Type: t}
}

// Call is one sample's record at a site.
type Call struct {
	ColumnBegin int64
	Valid       bool

	// IsPlaceholderRef marks a REF whose content carries no prefix
	// guarantee because this call is mid-deletion relative to the
	// site's start. Set by the gvcf boundary.
	IsPlaceholderRef bool

	// Fields holds typed buffers keyed by query-field index. Index 0
	// is conventionally REF (a single-element String buffer), and
	// ALT is stored as a String buffer of alt allele literals
	// (including the NON_REF literal where present).
	Fields map[int]*Buffer
}

// NewCall returns a valid, empty call.
func NewCall() *Call {
	return &Call{Valid: true, Fields: make(map[int]*Buffer)}
}

// Field returns the buffer at the given query index, or nil if absent.
func (c *Call) Field(queryIdx int) *Buffer {
	return c.Fields[queryIdx]
}

// SetField installs a buffer at the given query index.
func (c *Call) SetField(queryIdx int, b *Buffer) {
	c.Fields[queryIdx] = b
}

// Variant is one site across all samples.
type Variant struct {
	ColumnBegin int64
	Calls       []*Call
}

// ValidCall pairs a call with its stable call-index-in-variant.
type ValidCall struct {
	Idx  int
	Call *Call
}

// ValidCalls returns valid calls in ascending call-index order, so
// merged-ALT discovery over a site is deterministic regardless of how
// calls were populated.
func (v *Variant) ValidCalls() []ValidCall {
	out := make([]ValidCall, 0, len(v.Calls))
	for i, c := range v.Calls {
		if c != nil && c.Valid {
			out = append(out, ValidCall{Idx: i, Call: c})
		}
	}
	return out
}

// NumCalls returns the total number of call slots (valid or not).
func (v *Variant) NumCalls() int {
	return len(v.Calls)
}

// Clone returns a shallow copy of v suitable as a merge operator's
// output scratch: the call slice is copied, each Call struct is
// copied, but field buffers are shared until the caller replaces them
// with fresh resized buffers. The original Variant is never mutated.
func (v *Variant) Clone() *Variant {
	out := &Variant{ColumnBegin: v.ColumnBegin, Calls: make([]*Call, len(v.Calls))}
	for i, c := range v.Calls {
		if c == nil {
			continue
		}
		cc := *c
		cc.Fields = make(map[int]*Buffer, len(c.Fields))
		for k, b := range c.Fields {
			cc.Fields[k] = b
		}
		out.Calls[i] = &cc
	}
	return out
}
