// Package querycfg implements the query-configuration contract: a
// read-only collaborator that tells the merger which query-field index
// corresponds to REF, ALT, GT, PL and so on, and how each field's
// element count depends on allele/genotype count.
package querycfg

import (
	"fmt"

	"github.com/varmerge/vargt-merge/internal/field"
)

// KnownField is the closed set of fields the core cares about by
// name; everything else is an opaque query index the caller can still
// remap via FieldInfo without the merger knowing its semantic meaning.
type KnownField int

const (
	Unknown KnownField = iota
	REF
	ALT
	GT
	PL
)

func (f KnownField) String() string {
	switch f {
	case REF:
		return "REF"
	case ALT:
		return "ALT"
	case GT:
		return "GT"
	case PL:
		return "PL"
	default:
		return "UNKNOWN"
	}
}

// FieldInfo describes one query field's shape.
type FieldInfo struct {
	QueryIdx       int
	Known          KnownField
	ElementType    field.ElementType
	LengthMode     field.LengthMode
	IsAlleleLength bool // set per field by Add, independent of LengthMode: true if the merger resizes and remaps it
}

// NumElements returns the number of elements this field holds for a
// site with numAlt ALT alleles (REF not counted in numAlt).
func (fi FieldInfo) NumElements(numAlt int) int {
	return field.NumElements(fi.LengthMode, numAlt)
}

// Registry is a concrete, in-memory implementation of the
// query-configuration contract. Real deployments would derive one from
// a VCF header; this registry is built directly by callers (the gvcf
// boundary, or tests).
type Registry struct {
	infos   []FieldInfo
	byKnown map[KnownField]int
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKnown: make(map[KnownField]int)}
}

// Add registers a field and returns its query index.
func (r *Registry) Add(known KnownField, et field.ElementType, mode field.LengthMode, isAlleleLength bool) int {
	idx := len(r.infos)
	r.infos = append(r.infos, FieldInfo{
		QueryIdx:       idx,
		Known:          known,
		ElementType:    et,
		LengthMode:     mode,
		IsAlleleLength: isAlleleLength,
	})
	if known != Unknown {
		r.byKnown[known] = idx
	}
	return idx
}

// NumQueriedAttributes returns the number of registered fields.
func (r *Registry) NumQueriedAttributes() int {
	return len(r.infos)
}

// IsKnownField reports whether idx names a recognized field.
func (r *Registry) IsKnownField(idx int) bool {
	return idx >= 0 && idx < len(r.infos) && r.infos[idx].Known != Unknown
}

// KnownFieldEnum returns the KnownField for idx.
func (r *Registry) KnownFieldEnum(idx int) KnownField {
	if idx < 0 || idx >= len(r.infos) {
		return Unknown
	}
	return r.infos[idx].Known
}

// QueryIdxFor returns the query index registered for a known field, or
// -1 if none was registered.
func (r *Registry) QueryIdxFor(k KnownField) int {
	if idx, ok := r.byKnown[k]; ok {
		return idx
	}
	return -1
}

// FieldInfoFor returns the FieldInfo for idx.
func (r *Registry) FieldInfoFor(idx int) (FieldInfo, error) {
	if idx < 0 || idx >= len(r.infos) {
		return FieldInfo{}, fmt.Errorf("querycfg: query index %d out of range", idx)
	}
	return r.infos[idx], nil
}

// AlleleLengthFields returns the query indices of every registered
// field whose length depends on allele or genotype count — the set a
// merge operator resizes and remaps once the merged allele count is
// known.
func (r *Registry) AlleleLengthFields() []int {
	var out []int
	for _, fi := range r.infos {
		if fi.IsAlleleLength {
			out = append(out, fi.QueryIdx)
		}
	}
	return out
}

// Standard builds the registry most callers want: REF (string,
// allele-indexed single slot), ALT (string, alt-only), GT (int32,
// genotype position vector — not allele-length dependent, handled by
// GenotypeRemapper instead), and PL (int32, genotype-indexed).
func Standard() *Registry {
	r := NewRegistry()
	r.Add(REF, field.String, field.AlleleIndexed, false)
	r.Add(ALT, field.String, field.AltOnly, false)
	r.Add(GT, field.Int32, field.AltOnly, false)
	r.Add(PL, field.Int32, field.GenotypeIndexed, true)
	return r
}
