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
	"strings"
	"testing"
)

const (
	testCore = "r1\t0\tchr1\t100\t60\t10M\t*\t0\t0\tACGTACGTAC\t**********"
)

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		name, line, out string
		ok              bool
	}{
		{"header", "@HD\tVN:1.6\n", "", false},
		{"header without fields", "@CO", "", false},
		{"sorted aux", testCore + "\tNM:i:0\tAS:i:10\n", testCore + "\tAS:i:10\tNM:i:0", true},
		{"short line", "a\tb\tc\td\te\tf\tg\th\ti\n", "", false},
		{"ten fields", "a\tb\tc\td\te\tf\tg\th\ti\tj", "", false},
		{"no aux", testCore + "\n", testCore, true},
		{"empty line", "\n", "", false},
		{"empty string", "", "", false},
		{"crlf", testCore + "\tXS:i:1\tAS:i:2\r\n", testCore + "\tAS:i:2\tXS:i:1", true},
		{"trailing blanks", testCore + "\tNM:i:0  \t \n", testCore + "\tNM:i:0", true},
		{"trailing separators", testCore + "\tNM:i:0\x1f\x1c\x1d\x1e\n", testCore + "\tNM:i:0", true},
		{"unicode blanks", testCore + "\tNM:i:0\u00a0\u2028\u3000\n", testCore + "\tNM:i:0", true},
		{"bare carriage return kept", testCore + "\tXX:Z:a\rb\tAA:i:1", testCore + "\tAA:i:1\tXX:Z:a\rb", true},
		{"leading separator kept", "\x1f" + testCore, "\x1f" + testCore, true},
		{"whole string order", testCore + "\tNM:i:2\tNM:i:10\tAS:Z:b\tAS:Z:a", testCore + "\tAS:Z:a\tAS:Z:b\tNM:i:10\tNM:i:2", true},
		{"duplicates", testCore + "\tX0:A:a\tX0:A:a\tAA:A:b", testCore + "\tAA:A:b\tX0:A:a\tX0:A:a", true},
		{"empty core fields", "\t\t\t\t\t\t\t\t\t\t", "", false},
		{"empty aux field", testCore + "\t\tNM:i:0", testCore + "\t\tNM:i:0", true},
		{"case and blanks kept", "R 1\t0\tChr1\t100\t60\t10M\t*\t0\t0\tacgt\t*\tzz:Z:a b\tZZ:Z:c", "R 1\t0\tChr1\t100\t60\t10M\t*\t0\t0\tacgt\t*\tZZ:Z:c\tzz:Z:a b", true},
		{"at sign later", "r@1\t0\tchr1\t100\t60\t10M\t*\t0\t0\tA\t*", "r@1\t0\tchr1\t100\t60\t10M\t*\t0\t0\tA\t*", true},
	}
	for _, test := range tests {
		out, ok := NormalizeLine(test.line)
		if ok != test.ok || out != test.out {
			t.Errorf("NormalizeLine %v failed: got %q, %v, expected %q, %v", test.name, out, ok, test.out, test.ok)
		}
	}
}

func TestNormalizeLineEmptyCoreFields(t *testing.T) {
	line := strings.Repeat("\t", 10) + "x"
	out, ok := NormalizeLine(line)
	if !ok || out != line {
		t.Errorf("NormalizeLine failed on empty core fields: got %q, %v", out, ok)
	}
}

func TestNormalizerReuse(t *testing.T) {
	var n Normalizer
	out, ok := n.Normalize(testCore+"\tb:Z:1\ta:Z:1\tc:Z:1", nil)
	if !ok || string(out) != testCore+"\ta:Z:1\tb:Z:1\tc:Z:1" {
		t.Errorf("first Normalize failed: %q", out)
	}
	out, ok = n.Normalize(testCore, out[:0])
	if !ok || string(out) != testCore {
		t.Errorf("second Normalize failed: %q", out)
	}
	prefix := []byte("x")
	out, ok = n.Normalize("@SQ\tSN:chr1\tLN:10", prefix)
	if ok || string(out) != "x" {
		t.Errorf("Normalize of a header changed the output: %q", out)
	}
}

func TestNormalizeProperties(t *testing.T) {
	line := testCore + "\tZZ:i:1\tAA:i:1\tMD:Z:10\tMD:Z:1\tNM:i:0\tAS:i:10"
	out, ok := NormalizeLine(line)
	if !ok {
		t.Fatal("NormalizeLine rejected a valid record")
	}
	in := strings.Split(line, "\t")
	fields := strings.Split(out, "\t")
	if len(fields) != len(in) {
		t.Fatalf("NormalizeLine changed the number of fields: %v", len(fields))
	}
	for i := 0; i < CoreFieldCount; i++ {
		if fields[i] != in[i] {
			t.Errorf("core field %v changed from %q to %q", i, in[i], fields[i])
		}
	}
	aux := fields[CoreFieldCount:]
	for i := 1; i < len(aux); i++ {
		if aux[i-1] > aux[i] {
			t.Errorf("optional fields %q and %q out of order", aux[i-1], aux[i])
		}
	}
	counts := make(map[string]int)
	for _, field := range in[CoreFieldCount:] {
		counts[field]++
	}
	for _, field := range aux {
		counts[field]--
	}
	for field, count := range counts {
		if count != 0 {
			t.Errorf("optional field %q not preserved", field)
		}
	}
	again, ok := NormalizeLine(out)
	if !ok || again != out {
		t.Errorf("NormalizeLine is not idempotent: %q", again)
	}
}

func TestIsHeader(t *testing.T) {
	if !IsHeader("@") || !IsHeader("@RG\tID:x") {
		t.Error("IsHeader failed on header lines")
	}
	if IsHeader("") || IsHeader(" @HD") || IsHeader("r1\t@") {
		t.Error("IsHeader failed on non-header lines")
	}
}

func TestStringScanner(t *testing.T) {
	var sc StringScanner
	tests := []struct {
		s      string
		fields []string
	}{
		{"", []string{""}},
		{"a", []string{"a"}},
		{"a\tb", []string{"a", "b"}},
		{"\ta\t\tb\t", []string{"", "a", "", "b", ""}},
	}
	for _, test := range tests {
		sc.Reset(test.s)
		fields := sc.AppendFields(nil)
		if len(fields) != len(test.fields) {
			t.Errorf("AppendFields %q failed: %q", test.s, fields)
			continue
		}
		for i, field := range fields {
			if field != test.fields[i] {
				t.Errorf("AppendFields %q failed: %q", test.s, fields)
				break
			}
		}
		if sc.Len() != 0 {
			t.Errorf("StringScanner %q not exhausted", test.s)
		}
		if _, ok := sc.NextField(); ok {
			t.Errorf("NextField %q returned a field after the end", test.s)
		}
	}
}
