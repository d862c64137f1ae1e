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

package utils

import (
	"bufio"
	"io"

	"github.com/exascience/samnorm/utils/bgzf"
)

// HandleBGZF checks if the given reader produces a BGZF file by peeking
// at its gzip header. It then either returns a bgzf.Reader, or nil if
// the input is not compressed, in which case the given reader can be
// used unchanged. Empty input is not compressed.
func HandleBGZF(buf *bufio.Reader) (*bgzf.Reader, error) {
	ok, err := bgzf.IsGzip(buf)
	if err == io.EOF {
		return nil, nil
	} else if err != nil || !ok {
		return nil, err
	}
	return bgzf.NewReader(buf)
}
