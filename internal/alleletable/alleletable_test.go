package alleletable

import "testing"

func TestSetAndLookupBothDirections(t *testing.T) {
	m := New()
	m.EnsureCapacity(2, 3)

	m.Set(0, 0, 0)
	m.Set(0, 1, 2)
	m.Set(1, 0, 0)
	m.Set(1, 2, 1)

	if got, ok := m.MergedOf(0, 1); !ok || got != 2 {
		t.Errorf("MergedOf(0,1) = (%d,%v), want (2,true)", got, ok)
	}
	if got, ok := m.InputOf(0, 2); !ok || got != 1 {
		t.Errorf("InputOf(0,2) = (%d,%v), want (1,true)", got, ok)
	}
	if got, ok := m.MergedOf(1, 2); !ok || got != 1 {
		t.Errorf("MergedOf(1,2) = (%d,%v), want (1,true)", got, ok)
	}
	if _, ok := m.MergedOf(1, 1); ok {
		t.Error("MergedOf(1,1) should report no mapping")
	}
}

func TestMissingLookupsOutOfRange(t *testing.T) {
	m := New()
	m.EnsureCapacity(1, 1)

	if _, ok := m.MergedOf(5, 0); ok {
		t.Error("out-of-range sample should report no mapping")
	}
	if _, ok := m.InputOf(0, 5); ok {
		t.Error("out-of-range merged index should report no mapping")
	}
}

func TestResetClearsState(t *testing.T) {
	m := New()
	m.EnsureCapacity(1, 1)
	m.Set(0, 0, 0)

	m.Reset()
	if m.NumSamples() != 0 {
		t.Errorf("NumSamples() after Reset() = %d, want 0", m.NumSamples())
	}

	m.EnsureCapacity(1, 1)
	if _, ok := m.MergedOf(0, 0); ok {
		t.Error("mapping from before Reset should not survive")
	}
}

func TestEnsureCapacityGrowsWithoutLosingEntries(t *testing.T) {
	m := New()
	m.EnsureCapacity(1, 1)
	m.Set(0, 0, 0)

	m.EnsureCapacity(3, 5)
	if got, ok := m.MergedOf(0, 0); !ok || got != 0 {
		t.Error("growing capacity must preserve earlier entries")
	}
	if m.NumSamples() != 3 {
		t.Errorf("NumSamples() = %d, want 3", m.NumSamples())
	}
}
