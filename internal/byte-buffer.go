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

import "sync"

// maxPooledCapacity bounds the capacity of byte buffers that are kept
// for reuse, so that a single very long batch does not pin its memory.
const maxPooledCapacity = 1 << 24

var bufPool = sync.Pool{New: func() interface{} {
	return []byte(nil)
}}

/*
ReserveByteBuffer uses a sync.Pool to either reuse or make a slice of
bytes of length 0, but of capacity potentially larger than 0.

Use ReleaseByteBuffer to return slices of bytes to the internal pool.
*/
func ReserveByteBuffer() []byte {
	return bufPool.Get().([]byte)[:0]
}

/*
ReleaseByteBuffer returns the given slice of bytes to the internal
sync.Pool from which ReserveByteBuffer can fetch it again. Slices with a
very large capacity are dropped instead.
*/
func ReleaseByteBuffer(buf []byte) {
	if cap(buf) > maxPooledCapacity {
		return
	}
	bufPool.Put(buf[:0])
}
