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

/*
A scanner to split ASCII strings representing lines in SAM files into
their tab-separated fields.

The zero StringScanner is valid and empty.
*/
type StringScanner struct {
	index int
	data  string
	done  bool
}

/*
Resets the scanner, and initializes it with the given string.
*/
func (sc *StringScanner) Reset(s string) {
	sc.index = 0
	sc.data = s
	sc.done = false
}

/*
Returns the number of ASCII characters that still need to be scanned.
*/
func (sc *StringScanner) Len() int {
	return len(sc.data) - sc.index
}

func (sc *StringScanner) readUntil(c byte) (s string, found bool) {
	start := sc.index
	for end := sc.index; end < len(sc.data); end++ {
		if sc.data[end] == c {
			sc.index = end + 1
			return sc.data[start:end], true
		}
	}
	sc.index = len(sc.data)
	return sc.data[start:], false
}

/*
Returns the next tab-separated field and true, or "" and false if all
fields have been returned. Empty fields between consecutive tabs, or
before a leading or after a trailing tab, are returned as empty strings,
so a string with n tabs always yields n+1 fields.
*/
func (sc *StringScanner) NextField() (field string, ok bool) {
	if sc.done {
		return "", false
	}
	field, found := sc.readUntil('\t')
	sc.done = !found
	return field, true
}

/*
Appends all remaining fields to the given slice and returns it.
*/
func (sc *StringScanner) AppendFields(fields []string) []string {
	for {
		field, ok := sc.NextField()
		if !ok {
			return fields
		}
		fields = append(fields, field)
	}
}
