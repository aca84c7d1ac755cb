// Package merge implements the multi-sample variant merger: reference
// and ALT merging, per-sample field and genotype remapping into merged
// allele space, and the Operator that orchestrates them over one site.
package merge

import (
	"github.com/varmerge/vargt-merge/internal/alleletable"
	"github.com/varmerge/vargt-merge/internal/columnar"
	"github.com/varmerge/vargt-merge/internal/field"
	"github.com/varmerge/vargt-merge/internal/querycfg"
	"github.com/varmerge/vargt-merge/internal/variant"
)

// placeholderRef is the sequence every "middle of deletion" REF is
// normalized to before reference and ALT merging see it.
const placeholderRef = "N"

// Logger receives recoverable per-site diagnostics. MergeOperator never
// calls it except under Permissive mode; production callers pass a
// *zap.Logger wrapped to satisfy this interface (see cmd/vargt-merge).
type Logger interface {
	Warnf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...any) {}

// Operator merges one multi-sample site at a time. It owns scratch
// state (an AlleleMap) exclusively; two concurrent merges must use
// separate Operators — create one per worker goroutine, see
// RunSharded.
type Operator struct {
	Registry   *querycfg.Registry
	NonRef     string
	Permissive bool
	Log        Logger

	// ColumnarQueryIdx, when >= 0, names an int32 allele-length field
	// whose remap Operate additionally mirrors into Columnar, a dense
	// (genotype slot x sample) matrix, alongside the normal per-call
	// buffer. -1 disables this.
	ColumnarQueryIdx int

	// Columnar holds the matrix built by the most recent Operate call
	// when ColumnarQueryIdx >= 0. nil otherwise.
	Columnar *columnar.Int32Matrix

	am *alleletable.AlleleMap
}

// NewOperator returns an Operator over reg with the default NON_REF
// literal and columnar mirroring disabled. Callers needing a different
// token should set NonRef directly after construction.
func NewOperator(reg *querycfg.Registry) *Operator {
	return &Operator{
		Registry:         reg,
		NonRef:           "<NON_REF>",
		Log:              nopLogger{},
		ColumnarQueryIdx: -1,
		am:               alleletable.New(),
	}
}

// Operate merges one multi-sample site into a fresh Variant whose REF,
// ALT, and allele/genotype-length fields are rewritten into merged
// allele space. A site with no valid calls has nothing to merge and is
// skipped (nil, nil), the same signal Permissive mode uses to skip a
// reference-prefix violation after logging it.
func (op *Operator) Operate(site *variant.Variant) (*variant.Variant, error) {
	op.am.Reset()
	op.Columnar = nil

	if len(site.ValidCalls()) == 0 {
		return nil, nil
	}

	refIdx := op.Registry.QueryIdxFor(querycfg.REF)
	altIdx := op.Registry.QueryIdxFor(querycfg.ALT)
	gtIdx := op.Registry.QueryIdxFor(querycfg.GT)

	normalizePlaceholderRefs(site, refIdx)

	refMerged, err := MergeReference(site, refIdx)
	if err != nil {
		return op.handleInconsistent(site, err)
	}

	nSamples := site.NumCalls()
	op.am.EnsureCapacity(nSamples, 1)

	altMerged, nonRefPresent, nonRefInputBySample, err := MergeAlts(site, refIdx, altIdx, refMerged, op.NonRef, op.am)
	if err != nil {
		return op.handleInconsistent(site, err)
	}
	op.am.EnsureCapacity(nSamples, len(altMerged)+1)

	out := site.Clone()
	numMergedAlleles := len(altMerged) + 1

	for _, qIdx := range op.Registry.AlleleLengthFields() {
		fi, ferr := op.Registry.FieldInfoFor(qIdx)
		if ferr != nil {
			return nil, ferr
		}
		numValid := make([]int, fi.NumElements(len(altMerged)))

		columnarThisField := qIdx == op.ColumnarQueryIdx && fi.ElementType == field.Int32
		var columnarValid []int
		if columnarThisField {
			op.Columnar = columnar.NewInt32Matrix(fi.NumElements(len(altMerged)), nSamples)
			columnarValid = make([]int, fi.NumElements(len(altMerged)))
		}

		for _, vc := range site.ValidCalls() {
			sample := vc.Idx
			src := vc.Call.Field(qIdx)
			dstCall := out.Calls[sample]
			dst := variant.NewBuffer(fi.ElementType)
			dst.Resize(fi.NumElements(len(altMerged)))

			nonRefInput, hasNonRef := nonRefInputBySample[sample]

			if rerr := RemapField(fi, src, dst, op.am, sample, nonRefInput, hasNonRef, numMergedAlleles, numValid, site.ColumnBegin); rerr != nil {
				return nil, rerr
			}
			dstCall.SetField(qIdx, dst)

			if columnarThisField {
				RemapInt32ToSink(fi, src, op.am, sample, nonRefInput, hasNonRef, numMergedAlleles, op.Columnar, columnarValid)
			}
		}
	}

	if gtIdx >= 0 {
		for _, vc := range site.ValidCalls() {
			sample := vc.Idx
			srcBuf := vc.Call.Field(gtIdx)
			if srcBuf == nil || !srcBuf.IsValid() {
				continue
			}
			remapped, rerr := RemapGT(srcBuf.Int32s, op.am, sample, site.ColumnBegin)
			if rerr != nil {
				return nil, rerr
			}
			dstBuf := variant.NewBuffer(srcBuf.Type)
			dstBuf.Resize(len(remapped))
			dstBuf.Int32s = remapped
			out.Calls[sample].SetField(gtIdx, dstBuf)
		}
	}

	op.overwriteRefAlt(out, refIdx, altIdx, refMerged, altMerged)

	return out, nil
}

// handleInconsistent applies the Permissive-mode policy: log and skip
// rather than fail the whole run.
func (op *Operator) handleInconsistent(site *variant.Variant, err error) (*variant.Variant, error) {
	if !op.Permissive {
		return nil, err
	}
	if _, ok := err.(*InconsistentReferenceError); ok {
		op.Log.Warnf("skipping site at column %d: %v", site.ColumnBegin, err)
		return nil, nil
	}
	return nil, err
}

// overwriteRefAlt installs the merged REF/ALT onto every valid call of
// out, overwriting each call's own REF/ALT with the site-wide merged
// values.
func (op *Operator) overwriteRefAlt(out *variant.Variant, refIdx, altIdx int, refMerged string, altMerged []string) {
	for _, vc := range out.ValidCalls() {
		refBuf := variant.NewBuffer(field.String)
		refBuf.Resize(1)
		refBuf.Strings[0] = refMerged
		vc.Call.SetField(refIdx, refBuf)

		altBuf := variant.NewBuffer(field.String)
		altBuf.Resize(len(altMerged))
		copy(altBuf.Strings, altMerged)
		vc.Call.SetField(altIdx, altBuf)
	}
}

// normalizePlaceholderRefs rewrites every placeholder ("middle of
// deletion") REF to the single character "N" before reference or ALT
// merging run, so those steps need no placeholder-specific branching
// beyond the boolean flag already carried on the call.
func normalizePlaceholderRefs(site *variant.Variant, refIdx int) {
	for _, vc := range site.ValidCalls() {
		if !vc.Call.IsPlaceholderRef {
			continue
		}
		buf := vc.Call.Field(refIdx)
		if buf == nil || !buf.IsValid() || len(buf.Strings) == 0 {
			continue
		}
		buf.Strings[0] = placeholderRef
	}
}
