package merge

import (
	"github.com/varmerge/vargt-merge/internal/alleletable"
	"github.com/varmerge/vargt-merge/internal/field"
	"github.com/varmerge/vargt-merge/internal/querycfg"
	"github.com/varmerge/vargt-merge/internal/variant"
)

// lookupWithFallback looks up the sample's input allele index for
// merged allele index j; if missing and the sample declared a NON_REF
// allele, substitutes that allele's input index (NON_REF means "treat
// any unseen merged allele as my catch-all").
func lookupWithFallback(am *alleletable.AlleleMap, sample, mergedIdx, nonRefInputIdx int, hasNonRef bool) (int, bool) {
	if i, ok := am.InputOf(sample, mergedIdx); ok {
		return i, true
	}
	if hasNonRef {
		return nonRefInputIdx, true
	}
	return 0, false
}

// remapGeneric implements the shared remapping rule across all three
// length modes, for one sample's one field, writing through sink and
// incrementing numValid per written output slot.
func remapGeneric[T any](
	src []T, missing T,
	am *alleletable.AlleleMap, sample int,
	nonRefInputIdx int, hasNonRef bool,
	mode field.LengthMode, numMergedAlleles int,
	sink Sink[T], numValid []int,
) {
	readSrc := func(idx int) (T, bool) {
		if idx < 0 || idx >= len(src) {
			return missing, false
		}
		return src[idx], true
	}

	switch mode {
	case field.AlleleIndexed:
		for j := 0; j < numMergedAlleles; j++ {
			ij, ok := lookupWithFallback(am, sample, j, nonRefInputIdx, hasNonRef)
			slot := sink.PutAddress(sample, j)
			if !ok {
				*slot = missing
				continue
			}
			v, ok := readSrc(ij)
			if !ok {
				*slot = missing
				continue
			}
			*slot = v
			numValid[j]++
		}

	case field.AltOnly:
		numAlt := numMergedAlleles - 1
		for j := 0; j < numAlt; j++ {
			ij, ok := lookupWithFallback(am, sample, j+1, nonRefInputIdx, hasNonRef)
			slot := sink.PutAddress(sample, j)
			if !ok {
				*slot = missing
				continue
			}
			v, ok := readSrc(ij - 1)
			if !ok {
				*slot = missing
				continue
			}
			*slot = v
			numValid[j]++
		}

	case field.GenotypeIndexed:
		for k := 0; k < numMergedAlleles; k++ {
			for j := 0; j <= k; j++ {
				outIdx := field.GtIndex(j, k)
				slot := sink.PutAddress(sample, outIdx)

				ij, okj := lookupWithFallback(am, sample, j, nonRefInputIdx, hasNonRef)
				ik, okk := lookupWithFallback(am, sample, k, nonRefInputIdx, hasNonRef)
				if !okj || !okk {
					*slot = missing
					continue
				}
				lo, hi := ij, ik
				if lo > hi {
					lo, hi = hi, lo
				}
				v, ok := readSrc(field.GtIndex(lo, hi))
				if !ok {
					*slot = missing
					continue
				}
				*slot = v
				numValid[outIdx]++
			}
		}
	}
}

// RemapInt32ToSink remaps one sample's int32 field directly through an
// arbitrary Sink[int32] — e.g. a columnar.Int32Matrix accumulating
// across many samples for downstream aggregation, instead of a single
// call's output buffer.
func RemapInt32ToSink(fi querycfg.FieldInfo, src *variant.Buffer, am *alleletable.AlleleMap, sample, nonRefInputIdx int, hasNonRef bool, numMergedAlleles int, sink Sink[int32], numValid []int) {
	var vals []int32
	if src != nil && src.IsValid() {
		vals = src.Int32s
	}
	remapGeneric(vals, field.MissingInt32, am, sample, nonRefInputIdx, hasNonRef, fi.LengthMode, numMergedAlleles, sink, numValid)
}

// RemapField dispatches on fi.ElementType and remaps src into dst,
// which the caller must already have resized to
// fi.NumElements(numAltMerged). nonRefInputIdx/hasNonRef describe the
// sample's own NON_REF declaration, if any; numValid is incremented
// per written slot for downstream aggregation. columnBegin is only used
// to tag an UnsupportedElementTypeError with the offending site.
func RemapField(fi querycfg.FieldInfo, src, dst *variant.Buffer, am *alleletable.AlleleMap, sample, nonRefInputIdx int, hasNonRef bool, numMergedAlleles int, numValid []int, columnBegin int64) error {
	if src == nil || !src.IsValid() {
		// Nothing declared for this sample: every output slot is missing.
		fillMissing(dst)
		return nil
	}

	switch fi.ElementType {
	case field.Int32:
		remapGeneric(src.Int32s, field.MissingInt32, am, sample, nonRefInputIdx, hasNonRef, fi.LengthMode, numMergedAlleles, CallSink(int32SlicePtr(dst)), numValid)
	case field.Int64:
		remapGeneric(src.Int64s, field.MissingInt64, am, sample, nonRefInputIdx, hasNonRef, fi.LengthMode, numMergedAlleles, CallSink(int64SlicePtr(dst)), numValid)
	case field.Uint32:
		remapGeneric(src.Uint32s, field.MissingUint32, am, sample, nonRefInputIdx, hasNonRef, fi.LengthMode, numMergedAlleles, CallSink(uint32SlicePtr(dst)), numValid)
	case field.Uint64:
		remapGeneric(src.Uint64s, field.MissingUint64, am, sample, nonRefInputIdx, hasNonRef, fi.LengthMode, numMergedAlleles, CallSink(uint64SlicePtr(dst)), numValid)
	case field.Float32:
		remapGeneric(src.Float32s, field.MissingFloat32, am, sample, nonRefInputIdx, hasNonRef, fi.LengthMode, numMergedAlleles, CallSink(float32SlicePtr(dst)), numValid)
	case field.Float64:
		remapGeneric(src.Float64s, field.MissingFloat64, am, sample, nonRefInputIdx, hasNonRef, fi.LengthMode, numMergedAlleles, CallSink(float64SlicePtr(dst)), numValid)
	case field.String:
		remapGeneric(src.Strings, field.MissingString, am, sample, nonRefInputIdx, hasNonRef, fi.LengthMode, numMergedAlleles, CallSink(stringSlicePtr(dst)), numValid)
	case field.Char:
		remapGeneric(src.Chars, field.MissingChar, am, sample, nonRefInputIdx, hasNonRef, fi.LengthMode, numMergedAlleles, CallSink(charSlicePtr(dst)), numValid)
	default:
		return &UnsupportedElementTypeError{ColumnBegin: columnBegin, QueryIdx: fi.QueryIdx}
	}
	return nil
}

func fillMissing(dst *variant.Buffer) {
	switch dst.Type {
	case field.Int32:
		for i := range dst.Int32s {
			dst.Int32s[i] = field.MissingInt32
		}
	case field.Int64:
		for i := range dst.Int64s {
			dst.Int64s[i] = field.MissingInt64
		}
	case field.Uint32:
		for i := range dst.Uint32s {
			dst.Uint32s[i] = field.MissingUint32
		}
	case field.Uint64:
		for i := range dst.Uint64s {
			dst.Uint64s[i] = field.MissingUint64
		}
	case field.Float32:
		for i := range dst.Float32s {
			dst.Float32s[i] = field.MissingFloat32
		}
	case field.Float64:
		for i := range dst.Float64s {
			dst.Float64s[i] = field.MissingFloat64
		}
	case field.String:
		for i := range dst.Strings {
			dst.Strings[i] = field.MissingString
		}
	case field.Char:
		for i := range dst.Chars {
			dst.Chars[i] = field.MissingChar
		}
	}
}
