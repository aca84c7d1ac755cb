// Package gvcf provides a minimal multi-sample variant-call parser,
// using a line-oriented, bufio.Reader-backed style. Real VCF/gVCF
// header and columnar-backend parsing is a much larger grammar this
// package doesn't attempt; instead it reads a reduced per-site text
// format that still exercises every shape the merger cares about,
// including a call whose own column_begin precedes the site's (the
// placeholder-REF case).
//
// Format, one site per block, blank line terminated:
//
//	SITE	<column_begin>
//	<sample_column_begin>	<is_valid 0|1>	<REF>	<ALT,ALT,...>	<GT,GT,...>	<PL,PL,...>
//	...
//
// ALT entries use the literal NON_REF token for the symbolic allele.
// GT and PL are comma-separated integers; either may be empty ("-") to
// mean "field not present for this sample".
package gvcf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/varmerge/vargt-merge/internal/allele"
	"github.com/varmerge/vargt-merge/internal/field"
	"github.com/varmerge/vargt-merge/internal/querycfg"
	"github.com/varmerge/vargt-merge/internal/variant"
)

// ParseError reports a line-numbered parse failure, mirroring the
// teacher's vcf.ParseError.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("gvcf parse error at line %d: %s", e.Line, e.Message)
}

// Parser reads Variant sites from a reduced multi-sample text format.
type Parser struct {
	reader     *bufio.Reader
	lineNumber int
	reg        *querycfg.Registry
	nonRef     string
}

// NewParser wraps r. reg supplies the REF/ALT/GT/PL query indices the
// parser populates; nonRef is the literal token recognized as the
// symbolic allele (empty uses allele.NonRefLiteral).
func NewParser(r io.Reader, reg *querycfg.Registry, nonRef string) *Parser {
	if nonRef == "" {
		nonRef = allele.NonRefLiteral
	}
	return &Parser{reader: bufio.NewReader(r), reg: reg, nonRef: nonRef}
}

// Next reads the next site. Returns nil, nil at end of input.
func (p *Parser) Next() (*variant.Variant, error) {
	columnBegin, ok, err := p.readSiteHeader()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}

	site := &variant.Variant{ColumnBegin: columnBegin}

	for {
		line, eof, err := p.readLine()
		if err != nil {
			return nil, err
		}
		if eof || strings.TrimSpace(line) == "" {
			break
		}

		call, err := p.parseCallLine(line, columnBegin)
		if err != nil {
			return nil, err
		}
		site.Calls = append(site.Calls, call)
	}

	return site, nil
}

func (p *Parser) readSiteHeader() (int64, bool, error) {
	for {
		line, eof, err := p.readLine()
		if err != nil {
			return 0, false, err
		}
		if eof {
			return 0, false, nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 2 || fields[0] != "SITE" {
			return 0, false, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("expected SITE header, got %q", line)}
		}
		pos, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, false, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("invalid SITE column_begin: %s", fields[1])}
		}
		return pos, true, nil
	}
}

func (p *Parser) readLine() (string, bool, error) {
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if err == io.EOF && line == "" {
			return "", true, nil
		}
		if err != io.EOF {
			return "", false, fmt.Errorf("read line: %w", err)
		}
	}
	p.lineNumber++
	return strings.TrimRight(line, "\r\n"), false, nil
}

func (p *Parser) parseCallLine(line string, siteColumnBegin int64) (*variant.Call, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 6 {
		return nil, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("expected 6 tab-separated fields, found %d", len(fields))}
	}

	columnBegin, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("invalid call column_begin: %s", fields[0])}
	}

	c := variant.NewCall()
	c.ColumnBegin = columnBegin
	c.Valid = fields[1] == "1"
	c.IsPlaceholderRef = columnBegin < siteColumnBegin

	if !c.Valid {
		return c, nil
	}

	refIdx := p.reg.QueryIdxFor(querycfg.REF)
	altIdx := p.reg.QueryIdxFor(querycfg.ALT)
	gtIdx := p.reg.QueryIdxFor(querycfg.GT)
	plIdx := p.reg.QueryIdxFor(querycfg.PL)

	refBuf := variant.NewBuffer(field.String)
	refBuf.Resize(1)
	refBuf.Strings[0] = fields[2]
	c.SetField(refIdx, refBuf)

	if fields[3] != "-" && fields[3] != "" {
		alts := strings.Split(fields[3], ",")
		altBuf := variant.NewBuffer(field.String)
		altBuf.Resize(len(alts))
		copy(altBuf.Strings, alts)
		c.SetField(altIdx, altBuf)
	}

	if gtIdx >= 0 && fields[4] != "-" && fields[4] != "" {
		gtVals, err := parseInt32CSV(fields[4])
		if err != nil {
			return nil, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("invalid GT: %v", err)}
		}
		gtBuf := variant.NewBuffer(field.Int32)
		gtBuf.Resize(len(gtVals))
		copy(gtBuf.Int32s, gtVals)
		c.SetField(gtIdx, gtBuf)
	}

	if plIdx >= 0 && len(fields) > 5 && fields[5] != "-" && fields[5] != "" {
		plVals, err := parseInt32CSV(fields[5])
		if err != nil {
			return nil, &ParseError{Line: p.lineNumber, Message: fmt.Sprintf("invalid PL: %v", err)}
		}
		plBuf := variant.NewBuffer(field.Int32)
		plBuf.Resize(len(plVals))
		copy(plBuf.Int32s, plVals)
		c.SetField(plIdx, plBuf)
	}

	return c, nil
}

func parseInt32CSV(s string) ([]int32, error) {
	parts := strings.Split(s, ",")
	out := make([]int32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseInt(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, err
		}
		out[i] = int32(v)
	}
	return out, nil
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}
