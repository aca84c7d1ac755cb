package merge

import (
	"strings"

	"github.com/varmerge/vargt-merge/internal/variant"
)

// MergeReference folds every valid call's REF into a single longest
// merged REF, enforcing the prefix invariant except on placeholder
// ("middle of deletion") REFs, which never contribute content and
// never undergo the prefix check. A placeholder REF is returned only
// when no valid call carries a real REF.
func MergeReference(site *variant.Variant, refIdx int) (string, error) {
	var m string
	var mIsPlaceholder bool

	for _, vc := range site.ValidCalls() {
		buf := vc.Call.Field(refIdx)
		if buf == nil || !buf.IsValid() || len(buf.Strings) == 0 {
			return "", &MissingRequiredFieldError{ColumnBegin: site.ColumnBegin, CallIdx: vc.Idx, Field: "REF"}
		}
		r := buf.Strings[0]

		if vc.Call.IsPlaceholderRef {
			if m == "" {
				m = r
				mIsPlaceholder = true
			}
			continue
		}

		if mIsPlaceholder || len(r) > len(m) {
			if m != "" && !mIsPlaceholder && !strings.HasPrefix(r, m) {
				return "", &InconsistentReferenceError{ColumnBegin: site.ColumnBegin, Merged: m, Input: r}
			}
			m = r
			mIsPlaceholder = false
			continue
		}

		if !strings.HasPrefix(m, r) {
			return "", &InconsistentReferenceError{ColumnBegin: site.ColumnBegin, Merged: m, Input: r}
		}
	}

	return m, nil
}
