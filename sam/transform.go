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

// Transform reads SAM lines from r and writes their normalized form to
// w, one line at a time and in input order. Header lines and lines
// with fewer than CoreFieldCount fields are dropped. Transform returns
// after the end of r has been reached and all output has been flushed.
func Transform(r io.Reader, w io.Writer) (Stats, error) {
	records := NewRecordReader(r)
	out := bufio.NewWriter(w)
	for {
		record, err := records.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return records.Stats(), err
		}
		if _, err := out.Write(record); err != nil {
			return records.Stats(), fmt.Errorf("%w, while writing a SAM alignment line", err)
		}
		if err := out.WriteByte('\n'); err != nil {
			return records.Stats(), fmt.Errorf("%w, while writing a SAM alignment line", err)
		}
	}
	if err := out.Flush(); err != nil {
		return records.Stats(), fmt.Errorf("%w, while flushing SAM output", err)
	}
	return records.Stats(), nil
}
