package merge

import (
	"testing"

	"github.com/varmerge/vargt-merge/internal/alleletable"
	"github.com/varmerge/vargt-merge/internal/field"
	"github.com/varmerge/vargt-merge/internal/querycfg"
	"github.com/varmerge/vargt-merge/internal/variant"
)

func TestRemapField_UnsupportedElementTypeReportsColumn(t *testing.T) {
	am := alleletable.New()
	am.EnsureCapacity(1, 2)
	am.Set(0, 0, 0)

	fi := querycfg.FieldInfo{
		QueryIdx:    7,
		ElementType: field.ElementType(99),
		LengthMode:  field.AlleleIndexed,
	}

	src := variant.NewBuffer(field.Int32)
	src.Resize(1)
	dst := variant.NewBuffer(field.ElementType(99))
	dst.Resize(1)

	err := RemapField(fi, src, dst, am, 0, 0, false, 1, make([]int, 1), 42)
	if err == nil {
		t.Fatal("expected an error for an unsupported element type")
	}
	uerr, ok := err.(*UnsupportedElementTypeError)
	if !ok {
		t.Fatalf("expected *UnsupportedElementTypeError, got %T", err)
	}
	if uerr.ColumnBegin != 42 {
		t.Errorf("ColumnBegin = %d, want 42", uerr.ColumnBegin)
	}
	if uerr.QueryIdx != 7 {
		t.Errorf("QueryIdx = %d, want 7", uerr.QueryIdx)
	}
}
