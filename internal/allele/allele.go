// Package allele models a single genomic allele: an uppercase nucleotide
// string over {A,C,G,T,N}, or the symbolic NonRef token meaning "any
// allele not otherwise listed" (the gVCF <NON_REF> convention).
package allele

// Allele is a first-class value: either ordinary sequence, or the
// symbolic catch-all. Raw literals become Alleles through FromLiteral
// (package merge does this for each ALT entry); field buffers and the
// merged ALT list hold the literal strings.
type Allele struct {
	seq      string
	nonRef   bool
}

// NonRefLiteral is the default serialized form of the symbolic allele.
// Callers using a different token pass it to FromLiteral; this is the
// value used when none is supplied.
const NonRefLiteral = "<NON_REF>"

// Seq returns an ordinary sequence allele.
func Seq(s string) Allele {
	return Allele{seq: s}
}

// NonRef returns the symbolic "any unseen allele" token.
func NonRef() Allele {
	return Allele{nonRef: true}
}

// IsNonRef reports whether a is the symbolic catch-all allele.
func (a Allele) IsNonRef() bool {
	return a.nonRef
}

// String renders a for display or for merged-ALT-list storage. The
// symbolic allele renders as literal, which must match the configured
// NON_REF token at the serialization boundary.
func (a Allele) String() string {
	if a.nonRef {
		return NonRefLiteral
	}
	return a.seq
}

// Pad returns a new allele with suffix appended to its sequence. Padding
// the symbolic allele is a no-op: NON_REF has no sequence to extend.
func (a Allele) Pad(suffix string) Allele {
	if a.nonRef || suffix == "" {
		return a
	}
	return Seq(a.seq + suffix)
}

// Equal reports whether two alleles denote the same allele under exact
// string equality after padding; the symbolic allele only equals itself.
func (a Allele) Equal(b Allele) bool {
	if a.nonRef != b.nonRef {
		return false
	}
	if a.nonRef {
		return true
	}
	return a.seq == b.seq
}

// FromLiteral parses a raw allele string from the external boundary,
// recognizing the given NON_REF literal (empty string falls back to
// NonRefLiteral).
func FromLiteral(s, nonRefLiteral string) Allele {
	if nonRefLiteral == "" {
		nonRefLiteral = NonRefLiteral
	}
	if s == nonRefLiteral {
		return NonRef()
	}
	return Seq(s)
}
