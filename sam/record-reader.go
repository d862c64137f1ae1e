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
	"bufio"
	"fmt"
	"io"
)

// Stats counts what a stream driver has seen so far.
type Stats struct {
	// Lines is the number of input lines, including headers.
	Lines int
	// Headers is the number of header lines that were skipped.
	Headers int
	// ShortLines is the number of lines with fewer than
	// CoreFieldCount fields that were skipped.
	ShortLines int
	// Records is the number of normalized alignment lines produced.
	Records int
}

func (stats *Stats) count(kind lineKind) {
	stats.Lines++
	switch kind {
	case headerLine:
		stats.Headers++
	case shortLine:
		stats.ShortLines++
	case alignmentLine:
		stats.Records++
	}
}

func (stats *Stats) add(other Stats) {
	stats.Lines += other.Lines
	stats.Headers += other.Headers
	stats.ShortLines += other.ShortLines
	stats.Records += other.Records
}

// readLine reads one line including its terminator into buf. Lines
// longer than the reader's buffer are assembled from several slices.
// At the end of the input, readLine returns io.EOF together with the
// last, unterminated line, which may be empty.
func readLine(reader *bufio.Reader, buf []byte) ([]byte, error) {
	buf = buf[:0]
	for {
		data, err := reader.ReadSlice('\n')
		buf = append(buf, data...)
		if err != bufio.ErrBufferFull {
			return buf, err
		}
	}
}

// A RecordReader reads SAM lines and returns the normalized alignment
// lines among them, one at a time, in input order.
type RecordReader struct {
	reader *bufio.Reader
	n      Normalizer
	line   []byte
	record []byte
	stats  Stats
	err    error
}

// NewRecordReader returns a RecordReader for the given input. If r is
// already a *bufio.Reader, it is used directly.
func NewRecordReader(r io.Reader) *RecordReader {
	reader, ok := r.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(r)
	}
	return &RecordReader{reader: reader}
}

// Next returns the next normalized alignment line, without line
// terminator. Header lines and lines that are too short are skipped.
// The returned slice is only valid until the next call of Next. At the
// end of the input, Next returns io.EOF.
func (r *RecordReader) Next() ([]byte, error) {
	for r.err == nil {
		var err error
		r.line, err = readLine(r.reader, r.line)
		if err != nil {
			if err != io.EOF {
				r.err = fmt.Errorf("%w, while reading a SAM line", err)
				return nil, r.err
			}
			r.err = io.EOF
			if len(r.line) == 0 {
				break
			}
		}
		var kind lineKind
		r.record, kind = r.n.normalize(string(r.line), r.record[:0])
		r.stats.count(kind)
		if kind == alignmentLine {
			return r.record, nil
		}
	}
	return nil, r.err
}

// Stats returns the counters for the lines read so far.
func (r *RecordReader) Stats() Stats {
	return r.stats
}
