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

package cmd

import (
	"bytes"
	"strings"
	"testing"
)

func TestNormalizeStream(t *testing.T) {
	tests := []struct {
		name, input, output string
	}{
		{"empty", "", ""},
		{"headers only", "@HD\tVN:1.6\n@SQ\tSN:chr1\tLN:10\n", ""},
		{"records", leftSam, "r1\t0\tchr1\t100\t60\t4M\t*\t0\t0\tACGT\t####\tAS:i:4\tNM:i:0\n" +
			"r2\t0\tchr1\t200\t60\t4M\t*\t0\t0\tACGT\t####\tNM:i:0\n"},
		{"gzip magic byte", "\x1fr1\t0\tchr1\t100\t60\t10M\t*\t0\t0\tACGT\t####\tNM:i:0\tAS:i:1\n",
			"\x1fr1\t0\tchr1\t100\t60\t10M\t*\t0\t0\tACGT\t####\tAS:i:1\tNM:i:0\n"},
		{"gzip magic bytes", "\x1f\x8b\x08\x04\t0\tchr1\t100\t60\t10M\t*\t0\t0\tACGT\t####\n",
			"\x1f\x8b\x08\x04\t0\tchr1\t100\t60\t10M\t*\t0\t0\tACGT\t####\n"},
	}
	for _, test := range tests {
		var out bytes.Buffer
		if err := normalizeStream(strings.NewReader(test.input), &out); err != nil {
			t.Errorf("normalizeStream %v failed: %v", test.name, err)
			continue
		}
		if out.String() != test.output {
			t.Errorf("normalizeStream %v produced %q, expected %q", test.name, out.String(), test.output)
		}
	}
}
