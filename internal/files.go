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

package internal

import (
	"os"
	"path/filepath"
)

// FullPathname returns an absolute version of the given filename. The
// standard stream names "", "-", "/dev/stdin" and "/dev/stdout" are
// returned unchanged.
func FullPathname(filename string) (string, error) {
	switch filename {
	case "", "-", "/dev/stdin", "/dev/stdout":
		return filename, nil
	}
	if filepath.IsAbs(filename) {
		return filename, nil
	}
	wd, err := os.Getwd()
	return filepath.Join(wd, filename), err
}

// Close closes the given file, and returns the first of the given
// error and the closing error. It is meant for deferred calls with a
// named error result.
func Close(file interface{ Close() error }, err *error) {
	if nerr := file.Close(); *err == nil {
		*err = nerr
	}
}
