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
	"compress/flate"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, contents string, level int) {
	out, err := Create(name, level)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := out.WriteString(contents); err != nil {
		t.Fatal(err)
	}
	if err := out.Close(); err != nil {
		t.Fatal(err)
	}
}

func transformFile(t *testing.T, name string) (string, bool) {
	in, err := Open(name)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	if _, err := Transform(in.Reader, &out); err != nil {
		t.Fatal(err)
	}
	compressed := in.Compressed()
	if err := in.Close(); err != nil {
		t.Fatal(err)
	}
	return out.String(), compressed
}

func TestPlainFiles(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "test.sam")
	writeFile(t, name, testInput, flate.DefaultCompression)
	data, err := ioutil.ReadFile(name)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != testInput {
		t.Error("Create did not write plain text")
	}
	out, compressed := transformFile(t, name)
	if compressed {
		t.Error("Open reported plain text as compressed")
	}
	if out != testOutput {
		t.Errorf("normalizing a plain file failed:\n%v", out)
	}
}

func TestBGZFFiles(t *testing.T) {
	dir := t.TempDir()
	input := makeLargeInput(20000)
	var expected bytes.Buffer
	if _, err := Transform(strings.NewReader(input), &expected); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{GzExt, BgzExt} {
		name := filepath.Join(dir, "test.sam"+ext)
		writeFile(t, name, input, flate.BestSpeed)
		data, err := ioutil.ReadFile(name)
		if err != nil {
			t.Fatal(err)
		}
		if len(data) == 0 || data[0] != 0x1f {
			t.Fatalf("Create did not write BGZF for %v", ext)
		}
		out, compressed := transformFile(t, name)
		if !compressed {
			t.Errorf("Open did not detect BGZF for %v", ext)
		}
		if out != expected.String() {
			t.Errorf("normalizing a BGZF file failed for %v", ext)
		}
	}
}

func TestEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "empty.sam")
	if err := ioutil.WriteFile(name, nil, 0666); err != nil {
		t.Fatal(err)
	}
	if out, _ := transformFile(t, name); out != "" {
		t.Errorf("normalizing an empty file produced %q", out)
	}
	name = filepath.Join(dir, "empty.sam.gz")
	writeFile(t, name, "", flate.DefaultCompression)
	if out, compressed := transformFile(t, name); out != "" || !compressed {
		t.Errorf("normalizing an empty BGZF file produced %q, %v", out, compressed)
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.sam")); !os.IsNotExist(err) {
		t.Errorf("Open of a missing file returned %v", err)
	}
}

func TestCreateInvalidLevel(t *testing.T) {
	if _, err := Create(filepath.Join(t.TempDir(), "out.sam.gz"), 42); err == nil {
		t.Error("Create accepted an invalid compression level")
	}
}

func TestOpenControlCharacterText(t *testing.T) {
	name := filepath.Join(t.TempDir(), "control.sam")
	line := "\x1fr1\t0\tchr1\t100\t60\t10M\t*\t0\t0\tACGT\t####\tNM:i:0\tAS:i:1\n"
	if err := ioutil.WriteFile(name, []byte(line), 0666); err != nil {
		t.Fatal(err)
	}
	out, compressed := transformFile(t, name)
	if compressed {
		t.Error("Open reported plain text starting with 0x1f as compressed")
	}
	if out != "\x1fr1\t0\tchr1\t100\t60\t10M\t*\t0\t0\tACGT\t####\tAS:i:1\tNM:i:0\n" {
		t.Errorf("normalizing plain text starting with 0x1f produced %q", out)
	}
}
