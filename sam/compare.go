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
	"bytes"
	"io"

	"github.com/bits-and-blooms/bitset"
)

type (
	// A Difference describes one record position at which two
	// normalized inputs disagree. A side that has no record at that
	// position has its Has field set to false.
	Difference struct {
		Record            int
		Left, Right       string
		HasLeft, HasRight bool
	}

	// A Comparison is the result of comparing two SAM inputs record by
	// record after normalization.
	Comparison struct {
		LeftStats, RightStats Stats
		// Differences holds the zero-based indexes of all record
		// positions at which the inputs disagree.
		Differences *bitset.BitSet
		// Reported holds details for the first differences, up to the
		// limit passed to Compare.
		Reported []Difference
	}
)

// Equal reports whether both inputs normalize to the same records.
func (c *Comparison) Equal() bool {
	return c.Differences.None()
}

// Count returns the number of record positions at which the inputs
// disagree.
func (c *Comparison) Count() int {
	return int(c.Differences.Count())
}

// Compare normalizes both inputs and compares them record by record.
// Header lines and short lines are ignored on both sides, so inputs
// that only differ in their headers or in the order of optional fields
// compare as equal. At most maxReported differences are recorded in
// detail.
func Compare(left, right io.Reader, maxReported int) (*Comparison, error) {
	lr, rr := NewRecordReader(left), NewRecordReader(right)
	c := &Comparison{Differences: bitset.New(0)}
	for index := 0; ; index++ {
		lrec, err := lr.Next()
		if err != nil && err != io.EOF {
			return nil, err
		}
		hasLeft := err == nil
		rrec, err := rr.Next()
		if err != nil && err != io.EOF {
			return nil, err
		}
		hasRight := err == nil
		if !hasLeft && !hasRight {
			break
		}
		if hasLeft && hasRight && bytes.Equal(lrec, rrec) {
			continue
		}
		c.Differences.Set(uint(index))
		if len(c.Reported) < maxReported {
			c.Reported = append(c.Reported, Difference{
				Record:   index,
				Left:     string(lrec),
				Right:    string(rrec),
				HasLeft:  hasLeft,
				HasRight: hasRight,
			})
		}
	}
	c.LeftStats, c.RightStats = lr.Stats(), rr.Stats()
	return c, nil
}
