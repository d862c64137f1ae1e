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
	"io"
	"os"
	"path/filepath"

	"github.com/exascience/samnorm/utils"
	"github.com/exascience/samnorm/utils/bgzf"
)

// File name extensions that select BGZF compression for output files.
const (
	GzExt  = ".gz"
	BgzExt = ".bgz"
)

type (
	// InputFile represents a SAM file for input, either plain text or
	// BGZF-compressed.
	InputFile struct {
		*bufio.Reader
		rc   io.ReadCloser
		bgzf *bgzf.Reader
	}

	// OutputFile represents a SAM file for output, either plain text
	// or BGZF-compressed.
	OutputFile struct {
		*bufio.Writer
		wc   io.WriteCloser
		bgzf *bgzf.Writer
	}
)

func isStdin(name string) bool {
	return name == "" || name == "-" || name == "/dev/stdin"
}

func isStdout(name string) bool {
	return name == "" || name == "-" || name == "/dev/stdout"
}

// Open opens a SAM file for input. The names "", "-" and "/dev/stdin"
// refer to standard input. BGZF-compressed input is detected by its
// first byte and decompressed transparently.
func Open(name string) (*InputFile, error) {
	var rc io.ReadCloser
	if isStdin(name) {
		rc = os.Stdin
	} else {
		file, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		rc = file
	}
	input := &InputFile{Reader: bufio.NewReader(rc), rc: rc}
	r, err := utils.HandleBGZF(input.Reader)
	if err != nil {
		_ = input.Close()
		return nil, err
	}
	if r != nil {
		input.bgzf = r
		input.Reader = bufio.NewReader(r)
	}
	return input, nil
}

// Close closes the SAM input file. Standard input is left open.
func (input *InputFile) Close() (err error) {
	if input.bgzf != nil {
		err = input.bgzf.Close()
	}
	if input.rc != os.Stdin {
		if nerr := input.rc.Close(); err == nil {
			err = nerr
		}
	}
	return err
}

// Compressed reports whether the input is BGZF-compressed.
func (input *InputFile) Compressed() bool {
	return input.bgzf != nil
}

// Create creates a SAM file for output. The names "", "-" and
// "/dev/stdout" refer to standard output. Names ending in .gz or .bgz
// produce BGZF-compressed output at the given compression level, which
// follows the levels of compress/flate.
func Create(name string, level int) (*OutputFile, error) {
	var wc io.WriteCloser
	if isStdout(name) {
		wc = os.Stdout
	} else {
		file, err := os.Create(name)
		if err != nil {
			return nil, err
		}
		wc = file
	}
	switch filepath.Ext(name) {
	case GzExt, BgzExt:
		w, err := bgzf.NewWriter(wc, level)
		if err != nil {
			if wc != os.Stdout {
				_ = wc.Close()
			}
			return nil, err
		}
		return &OutputFile{Writer: bufio.NewWriter(w), wc: wc, bgzf: w}, nil
	default:
		return &OutputFile{Writer: bufio.NewWriter(wc), wc: wc}, nil
	}
}

// Close flushes and closes the SAM output file. Standard output is
// flushed, but left open.
func (output *OutputFile) Close() error {
	err := output.Flush()
	if output.bgzf != nil {
		if nerr := output.bgzf.Close(); err == nil {
			err = nerr
		}
	}
	if output.wc != os.Stdout {
		if nerr := output.wc.Close(); err == nil {
			err = nerr
		}
	}
	return err
}

// Compressed reports whether the output is BGZF-compressed.
func (output *OutputFile) Compressed() bool {
	return output.bgzf != nil
}
