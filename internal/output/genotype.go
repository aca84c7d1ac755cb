// Package output writes the per-site median-PL result line format, one
// line per merged site.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/varmerge/vargt-merge/internal/field"
)

// GenotypeWriter writes one line per site:
// column_begin,REF,ALT1,...,ALTk,m0,m1,...
type GenotypeWriter struct {
	w *bufio.Writer
}

// NewGenotypeWriter wraps w in a buffered writer.
func NewGenotypeWriter(w io.Writer) *GenotypeWriter {
	return &GenotypeWriter{w: bufio.NewWriter(w)}
}

// WriteSite writes one merged site's median-PL line.
func (gw *GenotypeWriter) WriteSite(columnBegin int64, ref string, alt []string, medians []int32) error {
	var b strings.Builder
	b.Grow(64 + len(alt)*8 + len(medians)*8)

	b.WriteString(strconv.FormatInt(columnBegin, 10))
	b.WriteByte(',')
	b.WriteString(ref)
	for _, a := range alt {
		b.WriteByte(',')
		b.WriteString(a)
	}
	for _, m := range medians {
		b.WriteByte(',')
		if m == field.MissingInt32 {
			b.WriteString(strconv.FormatInt(int64(field.MissingInt32), 10))
		} else {
			b.WriteString(strconv.FormatInt(int64(m), 10))
		}
	}
	b.WriteByte('\n')

	_, err := gw.w.WriteString(b.String())
	return err
}

// Flush flushes the underlying buffered writer.
func (gw *GenotypeWriter) Flush() error {
	return gw.w.Flush()
}
