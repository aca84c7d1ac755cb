package field

import "testing"

func TestNumElements(t *testing.T) {
	cases := []struct {
		mode   LengthMode
		numAlt int
		want   int
	}{
		{AlleleIndexed, 0, 1},
		{AlleleIndexed, 2, 3},
		{AltOnly, 0, 0},
		{AltOnly, 2, 2},
		{GenotypeIndexed, 0, 1},  // 1 allele (REF only): G(1)=1
		{GenotypeIndexed, 1, 3},  // 2 alleles: G(2)=3
		{GenotypeIndexed, 2, 6},  // 3 alleles: G(3)=6
		{GenotypeIndexed, 3, 10}, // 4 alleles: G(4)=10
	}
	for _, c := range cases {
		if got := NumElements(c.mode, c.numAlt); got != c.want {
			t.Errorf("NumElements(%v, %d) = %d, want %d", c.mode, c.numAlt, got, c.want)
		}
	}
}

func TestGtIndex(t *testing.T) {
	// Canonical enumeration order for 3 alleles (0,1,2): (0,0) (0,1) (1,1)
	// (0,2) (1,2) (2,2) -> indices 0..5.
	cases := []struct {
		j, k, want int
	}{
		{0, 0, 0},
		{0, 1, 1},
		{1, 1, 2},
		{0, 2, 3},
		{1, 2, 4},
		{2, 2, 5},
	}
	for _, c := range cases {
		if got := GtIndex(c.j, c.k); got != c.want {
			t.Errorf("GtIndex(%d,%d) = %d, want %d", c.j, c.k, got, c.want)
		}
	}
}

func TestGtCount(t *testing.T) {
	for n, want := range map[int]int{1: 1, 2: 3, 3: 6, 4: 10} {
		if got := GtCount(n); got != want {
			t.Errorf("GtCount(%d) = %d, want %d", n, got, want)
		}
	}
}

func TestMissingFloatSentinels(t *testing.T) {
	if !IsMissingFloat32(MissingFloat32) {
		t.Error("MissingFloat32 should be detected as missing")
	}
	if !IsMissingFloat64(MissingFloat64) {
		t.Error("MissingFloat64 should be detected as missing")
	}
	if IsMissingFloat32(1.0) || IsMissingFloat64(1.0) {
		t.Error("ordinary values must not be reported as missing")
	}
}

func TestElementTypeString(t *testing.T) {
	if Int32.String() != "INT32" || String.String() != "STRING" {
		t.Error("ElementType.String() did not match expected names")
	}
}
