// samnorm: normalizing SAM records for deterministic comparison.
// Copyright (c) 2026 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/samnorm/blob/master/LICENSE.txt>.

package sam

import (
	"sort"
	"strings"
	"unicode"
)

// CoreFieldCount is the number of mandatory fields of a SAM alignment
// line: QNAME, FLAG, RNAME, POS, MAPQ, CIGAR, RNEXT, PNEXT, TLEN, SEQ
// and QUAL.
const CoreFieldCount = 11

// IsHeader reports whether the given line is a SAM header line.
func IsHeader(line string) bool {
	return len(line) > 0 && line[0] == '@'
}

// isSpace reports Unicode white space, as well as the ASCII file,
// group, record and unit separators.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || ('\x1c' <= r && r <= '\x1f')
}

// TrimLine removes the line terminator and any other trailing white
// space from a line.
func TrimLine(line string) string {
	return strings.TrimRightFunc(line, isSpace)
}

// A Normalizer turns SAM lines into normalized SAM alignment lines. It
// reuses its field slice across calls, so a Normalizer must not be
// shared between goroutines. The zero Normalizer is ready to use.
type Normalizer struct {
	sc     StringScanner
	fields []string
}

type lineKind int

const (
	headerLine lineKind = iota
	shortLine
	alignmentLine
)

// Normalize appends the normalized form of the given line to out,
// without a line terminator. It returns false, and out unchanged, if
// the line is a header line or has fewer than CoreFieldCount fields.
//
// The normalized form consists of the core fields in their original
// order, followed by the optional fields sorted as whole strings in
// byte-wise lexicographic order, all separated by tabs.
func (n *Normalizer) Normalize(line string, out []byte) ([]byte, bool) {
	out, kind := n.normalize(line, out)
	return out, kind == alignmentLine
}

func (n *Normalizer) normalize(line string, out []byte) ([]byte, lineKind) {
	line = TrimLine(line)
	if IsHeader(line) {
		return out, headerLine
	}
	n.sc.Reset(line)
	n.fields = n.sc.AppendFields(n.fields[:0])
	if len(n.fields) < CoreFieldCount {
		return out, shortLine
	}
	sort.Strings(n.fields[CoreFieldCount:])
	for i, field := range n.fields {
		if i > 0 {
			out = append(out, '\t')
		}
		out = append(out, field...)
	}
	return out, alignmentLine
}

// NormalizeLine returns the normalized form of a single line, and
// whether the line is a SAM alignment line at all.
func NormalizeLine(line string) (string, bool) {
	var n Normalizer
	out, ok := n.Normalize(line, nil)
	return string(out), ok
}
