package merge

import (
	"slices"

	"github.com/varmerge/vargt-merge/internal/allele"
	"github.com/varmerge/vargt-merge/internal/alleletable"
	"github.com/varmerge/vargt-merge/internal/variant"
)

// MergeAlts folds every valid call's ALT vector into a deduplicated
// merged ALT list, padding alleles whose sample had a shorter REF,
// recording every index mapping into am, and handling the symbolic
// NON_REF allele as a catch-all appended last. The returned map gives,
// for every sample that declared NON_REF, its input allele index for
// NON_REF — callers need this for the field-remapping fallback rule.
func MergeAlts(site *variant.Variant, refIdx, altIdx int, refMerged, nonRefLiteral string, am *alleletable.AlleleMap) ([]string, bool, map[int]int, error) {
	seenAlleles := map[string]int{nonRefLiteral: -1}
	var mergedAlt []string
	nonRefPresent := false
	nonRefInputBySample := make(map[int]int)

	for _, vc := range site.ValidCalls() {
		sample := vc.Idx
		refBuf := vc.Call.Field(refIdx)
		if refBuf == nil || !refBuf.IsValid() || len(refBuf.Strings) == 0 {
			return nil, false, nil, &MissingRequiredFieldError{ColumnBegin: site.ColumnBegin, CallIdx: vc.Idx, Field: "REF"}
		}
		r := refBuf.Strings[0]

		am.Set(sample, 0, 0)

		suffix := ""
		if len(r) < len(refMerged) {
			suffix = refMerged[len(r):]
		}

		altBuf := vc.Call.Field(altIdx)
		var alts []string
		if altBuf != nil && altBuf.IsValid() {
			alts = altBuf.Strings
		}

		for k, raw := range alts {
			inputIdx := k + 1
			a := allele.FromLiteral(raw, nonRefLiteral)

			if a.IsNonRef() {
				nonRefInputBySample[sample] = inputIdx
				nonRefPresent = true
				continue
			}

			padded := a.Pad(suffix).String()
			if padded == refMerged {
				return nil, false, nil, &InconsistentReferenceError{
					ColumnBegin: site.ColumnBegin,
					Merged:      refMerged,
					Input:       padded,
				}
			}

			if mergedIdx, ok := seenAlleles[padded]; ok {
				am.Set(sample, inputIdx, mergedIdx)
				continue
			}

			mergedIdx := len(mergedAlt) + 1
			seenAlleles[padded] = mergedIdx
			mergedAlt = append(mergedAlt, padded)
			am.Set(sample, inputIdx, mergedIdx)
		}
	}

	if nonRefPresent {
		nonRefMergedIdx := len(mergedAlt) + 1
		mergedAlt = append(mergedAlt, nonRefLiteral)

		// Iterate samples in a fixed order rather than map order, so two
		// runs over the same site always build identical AlleleMap state.
		samples := make([]int, 0, len(nonRefInputBySample))
		for sample := range nonRefInputBySample {
			samples = append(samples, sample)
		}
		slices.Sort(samples)
		for _, sample := range samples {
			am.Set(sample, nonRefInputBySample[sample], nonRefMergedIdx)
		}
	}

	return mergedAlt, nonRefPresent, nonRefInputBySample, nil
}
