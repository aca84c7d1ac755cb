package merge

import (
	"testing"

	"github.com/varmerge/vargt-merge/internal/alleletable"
)

func TestRemapGT(t *testing.T) {
	am := alleletable.New()
	am.EnsureCapacity(1, 3)
	am.Set(0, 0, 0)
	am.Set(0, 1, 2)

	got, err := RemapGT([]int32{0, 1}, am, 0, 100)
	if err != nil {
		t.Fatalf("RemapGT error: %v", err)
	}
	if len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Errorf("RemapGT = %v, want [0 2]", got)
	}
}

func TestRemapGT_UnmappedAlleleErrors(t *testing.T) {
	am := alleletable.New()
	am.EnsureCapacity(1, 1)
	am.Set(0, 0, 0)

	_, err := RemapGT([]int32{0, 5}, am, 0, 100)
	if _, ok := err.(*UnmappedGTAlleleError); !ok {
		t.Fatalf("expected UnmappedGTAlleleError, got %v", err)
	}
}
