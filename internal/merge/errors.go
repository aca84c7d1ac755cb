package merge

import "fmt"

// InconsistentReferenceError signals a prefix-invariant violation: a
// non-placeholder REF is neither a prefix of the merged REF nor has the
// merged REF as its own prefix.
type InconsistentReferenceError struct {
	ColumnBegin int64
	Merged      string
	Input       string
}

func (e *InconsistentReferenceError) Error() string {
	return fmt.Sprintf("inconsistent reference at column %d: merged=%q input=%q", e.ColumnBegin, e.Merged, e.Input)
}

// UnmappedGTAlleleError signals a contract violation: a GT allele
// index had no mapping in the AlleleMap, meaning MergeAlts never saw
// that allele for this sample.
type UnmappedGTAlleleError struct {
	ColumnBegin int64
	Sample      int
	InputAllele int
}

func (e *UnmappedGTAlleleError) Error() string {
	return fmt.Sprintf("unmapped GT allele at column %d, sample %d: input allele %d was never declared", e.ColumnBegin, e.Sample, e.InputAllele)
}

// UnsupportedElementTypeError signals the remapper's type dispatch
// falling through: a field advertised an ElementType it has no case
// for.
type UnsupportedElementTypeError struct {
	ColumnBegin int64
	QueryIdx    int
}

func (e *UnsupportedElementTypeError) Error() string {
	return fmt.Sprintf("unsupported element type at column %d for query field %d", e.ColumnBegin, e.QueryIdx)
}

// MissingRequiredFieldError signals REF absent on a call where required.
type MissingRequiredFieldError struct {
	ColumnBegin int64
	CallIdx     int
	Field       string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("missing required field %s at column %d, call %d", e.Field, e.ColumnBegin, e.CallIdx)
}
