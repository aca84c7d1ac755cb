// Package genotyper implements a reference consumer of a merged,
// remapped PL matrix that reports, per genotype slot, a median across
// samples under a fixed rank convention: descending order, lower
// median for ties.
package genotyper

import (
	"sort"

	"github.com/varmerge/vargt-merge/internal/field"
	"github.com/varmerge/vargt-merge/internal/querycfg"
	"github.com/varmerge/vargt-merge/internal/variant"
)

// Medians computes, for each genotype slot of a merged site's PL field,
// the element at rank floor(numValid/2) under descending order (the
// lower median for even counts). Slots with no valid samples report the
// INT32 missing sentinel.
func Medians(site *variant.Variant, plQueryIdx int) []int32 {
	numGenotypes := 0
	for _, vc := range site.ValidCalls() {
		if buf := vc.Call.Field(plQueryIdx); buf != nil && buf.IsValid() {
			if n := len(buf.Int32s); n > numGenotypes {
				numGenotypes = n
			}
		}
	}

	medians := make([]int32, numGenotypes)
	vals := make([]int32, 0, len(site.Calls))

	for g := 0; g < numGenotypes; g++ {
		vals = vals[:0]
		for _, vc := range site.ValidCalls() {
			buf := vc.Call.Field(plQueryIdx)
			if buf == nil || !buf.IsValid() || g >= len(buf.Int32s) {
				continue
			}
			v := buf.Int32s[g]
			if v == field.MissingInt32 {
				continue
			}
			vals = append(vals, v)
		}

		if len(vals) == 0 {
			medians[g] = field.MissingInt32
			continue
		}

		sort.Sort(sort.Reverse(int32Slice(vals)))
		medians[g] = vals[len(vals)/2]
	}

	return medians
}

type int32Slice []int32

func (s int32Slice) Len() int           { return len(s) }
func (s int32Slice) Less(i, j int) bool { return s[i] < s[j] }
func (s int32Slice) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Reg bundles the REF, ALT and PL query indices a consumer of Medians
// needs, so callers don't have to look them up twice.
type Reg struct {
	RefIdx int
	AltIdx int
	PLIdx  int
}

// FromRegistry resolves REF/ALT/PL query indices from a querycfg
// registry.
func FromRegistry(reg *querycfg.Registry) Reg {
	return Reg{
		RefIdx: reg.QueryIdxFor(querycfg.REF),
		AltIdx: reg.QueryIdxFor(querycfg.ALT),
		PLIdx:  reg.QueryIdxFor(querycfg.PL),
	}
}
