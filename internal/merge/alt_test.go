package merge

import (
	"testing"

	"github.com/varmerge/vargt-merge/internal/alleletable"
	"github.com/varmerge/vargt-merge/internal/field"
	"github.com/varmerge/vargt-merge/internal/variant"
)

const altQueryIdx = 1

func callWithRefAlt(ref string, alts []string) *variant.Call {
	c := refCall(ref, false)
	if alts != nil {
		buf := variant.NewBuffer(field.String)
		buf.Resize(len(alts))
		copy(buf.Strings, alts)
		c.SetField(altQueryIdx, buf)
	}
	return c
}

func TestMergeAlts_S1(t *testing.T) {
	// A: REF=T ALT=[G]; B: REF=TG ALT=[T]. Merged REF=TG (from MergeReference).
	site := &variant.Variant{Calls: []*variant.Call{
		callWithRefAlt("T", []string{"G"}),
		callWithRefAlt("TG", []string{"T"}),
	}}
	am := alleletable.New()
	am.EnsureCapacity(2, 1)

	mergedAlt, nonRefPresent, _, err := MergeAlts(site, refQueryIdx, altQueryIdx, "TG", "<NON_REF>", am)
	if err != nil {
		t.Fatalf("MergeAlts error: %v", err)
	}
	if nonRefPresent {
		t.Error("NON_REF must not be present in S1")
	}
	if len(mergedAlt) != 2 || mergedAlt[0] != "GG" || mergedAlt[1] != "T" {
		t.Fatalf("mergedAlt = %v, want [GG T]", mergedAlt)
	}

	am.EnsureCapacity(2, len(mergedAlt)+1)
	if got, ok := am.MergedOf(0, 1); !ok || got != 1 {
		t.Errorf("sample A allele 1 maps to %d, want 1", got)
	}
	if got, ok := am.MergedOf(1, 1); !ok || got != 2 {
		t.Errorf("sample B allele 1 maps to %d, want 2", got)
	}
}

func TestMergeAlts_S2_NonRefCatchAll(t *testing.T) {
	site := &variant.Variant{Calls: []*variant.Call{
		callWithRefAlt("T", []string{"G", "<NON_REF>"}),
		callWithRefAlt("T", []string{"C", "<NON_REF>"}),
	}}
	am := alleletable.New()
	am.EnsureCapacity(2, 1)

	mergedAlt, nonRefPresent, nonRefInputBySample, err := MergeAlts(site, refQueryIdx, altQueryIdx, "T", "<NON_REF>", am)
	if err != nil {
		t.Fatalf("MergeAlts error: %v", err)
	}
	if !nonRefPresent {
		t.Fatal("NON_REF must be present in S2")
	}
	if len(mergedAlt) != 3 || mergedAlt[0] != "G" || mergedAlt[1] != "C" || mergedAlt[2] != "<NON_REF>" {
		t.Fatalf("mergedAlt = %v, want [G C <NON_REF>]", mergedAlt)
	}
	if nonRefInputBySample[0] != 2 || nonRefInputBySample[1] != 2 {
		t.Errorf("nonRefInputBySample = %v, want {0:2,1:2}", nonRefInputBySample)
	}

	am.EnsureCapacity(2, len(mergedAlt)+1)
	// A never declared C (merged idx 2): lookup must fail so the caller
	// falls back to A's own NON_REF input index.
	if _, ok := am.InputOf(0, 2); ok {
		t.Error("sample A has no direct mapping for merged allele C; remap must use the NON_REF fallback")
	}
	if got, ok := am.InputOf(0, 3); !ok || got != 2 {
		t.Errorf("sample A's NON_REF merged index 3 should map back to input index 2, got (%d,%v)", got, ok)
	}
}

func TestMergeAlts_ContractViolationAltEqualsRef(t *testing.T) {
	// S4: sample B's ALT pads to equal the merged REF.
	site := &variant.Variant{Calls: []*variant.Call{
		callWithRefAlt("TG", []string{"G"}),
		callWithRefAlt("T", []string{"T"}),
	}}
	am := alleletable.New()
	am.EnsureCapacity(2, 1)

	_, _, _, err := MergeAlts(site, refQueryIdx, altQueryIdx, "TG", "<NON_REF>", am)
	if _, ok := err.(*InconsistentReferenceError); !ok {
		t.Fatalf("expected InconsistentReferenceError, got %v", err)
	}
}

func TestMergeAlts_DeduplicatesIdenticalPaddedAlleles(t *testing.T) {
	site := &variant.Variant{Calls: []*variant.Call{
		callWithRefAlt("T", []string{"G"}),
		callWithRefAlt("T", []string{"G"}),
	}}
	am := alleletable.New()
	am.EnsureCapacity(2, 1)

	mergedAlt, _, _, err := MergeAlts(site, refQueryIdx, altQueryIdx, "T", "<NON_REF>", am)
	if err != nil {
		t.Fatalf("MergeAlts error: %v", err)
	}
	if len(mergedAlt) != 1 || mergedAlt[0] != "G" {
		t.Fatalf("mergedAlt = %v, want [G] (deduplicated)", mergedAlt)
	}
	am.EnsureCapacity(2, len(mergedAlt)+1)
	a, _ := am.MergedOf(0, 1)
	b, _ := am.MergedOf(1, 1)
	if a != b {
		t.Errorf("both samples' identical alt should map to the same merged index, got %d and %d", a, b)
	}
}
