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
	"context"
	"fmt"
	"io"

	"github.com/exascience/pargo/pipeline"

	"github.com/exascience/samnorm/internal"
)

const (
	minBatchSize = 1024
	maxBatchSize = 65536
)

// lineSource is a pargo pipeline.Source that fetches batches of raw
// SAM lines.
type lineSource struct {
	reader *bufio.Reader
	buf    []byte
	err    error
	data   interface{}
}

// Err implements the method of the pipeline.Source interface.
func (src *lineSource) Err() error {
	if src.err != io.EOF {
		return src.err
	}
	return nil
}

// Prepare implements the method of the pipeline.Source interface.
func (*lineSource) Prepare(_ context.Context) (size int) {
	return -1
}

// Fetch implements the method of the pipeline.Source interface.
func (src *lineSource) Fetch(size int) (fetched int) {
	if src.err != nil {
		src.data = nil
		return 0
	}
	lines := make([]string, 0, size)
	for fetched < size {
		var err error
		src.buf, err = readLine(src.reader, src.buf)
		if len(src.buf) > 0 {
			lines = append(lines, string(src.buf))
			fetched++
		}
		if err != nil {
			if err != io.EOF {
				err = fmt.Errorf("%w, while reading a SAM line", err)
			}
			src.err = err
			break
		}
	}
	src.data = lines
	return fetched
}

// Data implements the method of the pipeline.Source interface.
func (src *lineSource) Data() interface{} {
	return src.data
}

// normalizedBatch holds the output for one batch of lines, each
// normalized alignment line terminated by a newline.
type normalizedBatch struct {
	out   []byte
	stats Stats
}

// NormalizeLines returns a pargo pipeline.Filter that normalizes
// slices of raw SAM lines into normalized batches.
func NormalizeLines() pipeline.Filter {
	return func(_ *pipeline.Pipeline, _ pipeline.NodeKind, _ *int) (receiver pipeline.Receiver, _ pipeline.Finalizer) {
		receiver = func(_ int, data interface{}) interface{} {
			var n Normalizer
			var kind lineKind
			batch := &normalizedBatch{out: internal.ReserveByteBuffer()}
			for _, line := range data.([]string) {
				batch.out, kind = n.normalize(line, batch.out)
				batch.stats.count(kind)
				if kind == alignmentLine {
					batch.out = append(batch.out, '\n')
				}
			}
			return batch
		}
		return
	}
}

// ParallelTransform produces the same output as Transform, but
// normalizes batches of lines in parallel using a pargo pipeline. The
// batches are written to w strictly in input order.
func ParallelTransform(r io.Reader, w io.Writer) (stats Stats, err error) {
	reader, ok := r.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(r)
	}
	out := bufio.NewWriter(w)
	src := &lineSource{reader: reader}
	var p pipeline.Pipeline
	p.Source(src)
	p.SetVariableBatchSize(minBatchSize, maxBatchSize)
	p.Add(
		pipeline.LimitedPar(0, NormalizeLines()),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			batch := data.(*normalizedBatch)
			stats.add(batch.stats)
			if _, err := out.Write(batch.out); err != nil {
				p.SetErr(fmt.Errorf("%w, while writing SAM alignment lines", err))
			}
			internal.ReleaseByteBuffer(batch.out)
			return nil
		})),
	)
	p.Run()
	if err = p.Err(); err != nil {
		return stats, err
	}
	if err = src.Err(); err != nil {
		return stats, err
	}
	if err = out.Flush(); err != nil {
		return stats, fmt.Errorf("%w, while flushing SAM output", err)
	}
	return stats, nil
}
