package merge

import (
	"github.com/varmerge/vargt-merge/internal/alleletable"
)

// RemapGT rewrites each ploidy position of a sample's GT vector from
// input allele-space to merged allele-space. Unlike field remapping, a
// missing lookup here is always a contract violation: every GT allele
// must have already been among the sample's declared alleles, which
// MergeAlts guarantees by construction.
func RemapGT(inputGT []int32, am *alleletable.AlleleMap, sample int, columnBegin int64) ([]int32, error) {
	out := make([]int32, len(inputGT))
	for p, a := range inputGT {
		merged, ok := am.MergedOf(sample, int(a))
		if !ok {
			return nil, &UnmappedGTAlleleError{ColumnBegin: columnBegin, Sample: sample, InputAllele: int(a)}
		}
		out[p] = int32(merged)
	}
	return out, nil
}
