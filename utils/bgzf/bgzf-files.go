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

package bgzf

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/gzip"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"sync"

	"github.com/exascience/pargo/pipeline"
)

// IsGzip determines if the given buffered reader produces a BGZF
// file. It peeks at the gzip magic bytes, the deflate method and the
// FEXTRA flag without consuming any input. Input shorter than a gzip
// header is not BGZF. Empty input is reported as io.EOF.
func IsGzip(r *bufio.Reader) (bool, error) {
	magic, err := r.Peek(4)
	if err != nil {
		if err == io.EOF && len(magic) > 0 {
			return false, nil
		}
		return false, err
	}
	return magic[0] == 0x1f && magic[1] == 0x8b && magic[2] == 0x08 && magic[3]&0x04 != 0, nil
}

const (
	// maxBlockSize is the maximum size of a BGZF block, both compressed
	// and uncompressed.
	maxBlockSize = 65536

	// maxInputSize is the number of uncompressed bytes the Writer puts
	// in one block, leaving room for incompressible data.
	maxInputSize = 0xff00

	headerSize  = 18
	trailerSize = 8
)

var (
	blockHeader = [headerSize]byte{
		0x1f, 0x8b, 0x08, 0x04, 0x00, 0x00,
		0x00, 0x00, 0x00, 0xff, 0x06, 0x00,
		0x42, 0x43, 0x02, 0x00, 0x00, 0x00,
	}

	eofBlock = []byte{
		0x1f, 0x8b, 0x08, 0x04, 0x00, 0x00,
		0x00, 0x00, 0x00, 0xff, 0x06, 0x00,
		0x42, 0x43, 0x02, 0x00, 0x1b, 0x00,
		0x03, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
	}
)

// block is one block of a BGZF file, either compressed or not.
type block struct {
	data  []byte
	crc32 uint32
	size  uint32
}

var blockPool = sync.Pool{New: func() interface{} {
	return &block{data: make([]byte, 0, maxBlockSize)}
}}

func getBlock() *block {
	b := blockPool.Get().(*block)
	b.data = b.data[:0]
	return b
}

func putBlock(b *block) {
	blockPool.Put(b)
}

var flateReaderPool sync.Pool

// inflate decompresses a compressed block and checks its CRC-32.
func inflate(compressed *block) (*block, error) {
	blockReader := bytes.NewReader(compressed.data)
	var flateReader io.ReadCloser
	if pooled := flateReaderPool.Get(); pooled == nil {
		flateReader = flate.NewReader(blockReader)
	} else {
		flateReader = pooled.(io.ReadCloser)
		if err := flateReader.(flate.Resetter).Reset(blockReader, nil); err != nil {
			flateReader = flate.NewReader(blockReader)
		}
	}
	defer flateReaderPool.Put(flateReader)
	if compressed.size > maxBlockSize {
		return nil, fmt.Errorf("invalid uncompressed BGZF block size %v", compressed.size)
	}
	uncompressed := getBlock()
	uncompressed.data = uncompressed.data[:int(compressed.size)]
	if _, err := io.ReadFull(flateReader, uncompressed.data); err == io.EOF {
		return uncompressed, io.ErrUnexpectedEOF
	} else if err != nil {
		return uncompressed, err
	}
	if crc32.ChecksumIEEE(uncompressed.data) != compressed.crc32 {
		return uncompressed, errors.New("invalid CRC-32 value for a data block in a BGZF file")
	}
	return uncompressed, flateReader.Close()
}

// deflate compresses a block of data into a complete BGZF block,
// including header and trailer. Compressors are taken from and returned
// to the given pool, which must only hold compressors for the given
// level.
func deflate(uncompressed []byte, level int, flateWriterPool *sync.Pool) (*block, error) {
	compressed := getBlock()
	buf := bytes.NewBuffer(compressed.data)
	buf.Write(blockHeader[:])
	var flateWriter *flate.Writer
	if pooled := flateWriterPool.Get(); pooled != nil {
		flateWriter = pooled.(*flate.Writer)
		flateWriter.Reset(buf)
	} else {
		var err error
		if flateWriter, err = flate.NewWriter(buf, level); err != nil {
			return compressed, err
		}
	}
	defer flateWriterPool.Put(flateWriter)
	if _, err := flateWriter.Write(uncompressed); err != nil {
		return compressed, err
	}
	if err := flateWriter.Close(); err != nil {
		return compressed, err
	}
	var trailer [trailerSize]byte
	binary.LittleEndian.PutUint32(trailer[0:4], crc32.ChecksumIEEE(uncompressed))
	binary.LittleEndian.PutUint32(trailer[4:8], uint32(len(uncompressed)))
	buf.Write(trailer[:])
	compressed.data = buf.Bytes()
	if len(compressed.data) > maxBlockSize {
		return compressed, fmt.Errorf("compressed BGZF block of %v bytes exceeds the maximum block size", len(compressed.data))
	}
	binary.LittleEndian.PutUint16(compressed.data[16:18], uint16(len(compressed.data)-1))
	return compressed, nil
}

type (
	// Reader reads in parallel from a BGZF file.
	Reader struct {
		err     error
		r       io.Reader
		gz      *gzip.Reader
		p       pipeline.Pipeline
		w       sync.WaitGroup
		channel chan *block
		ctx     context.Context
		cancel  func()
		data    interface{}
		index   int
		block   *block
	}

	// blockSource fetches the compressed blocks of a Reader.
	blockSource Reader
)

func (src *blockSource) readBlock() (b *block, err error) {
	extra := src.gz.Extra
	var slen int
	for i := 0; i+4 <= len(extra); i += 4 + slen {
		slen = int(binary.LittleEndian.Uint16(extra[i+2 : i+4]))
		if extra[i] != 'B' || extra[i+1] != 'C' || slen != 2 {
			continue
		}
		if i+6 > len(extra) {
			break
		}
		bsize := int(binary.LittleEndian.Uint16(extra[i+4 : i+6]))
		if size := bsize - len(extra) - 19; size < 0 || size > maxBlockSize {
			return nil, fmt.Errorf("invalid BGZF block size %v", bsize+1)
		}
		b = getBlock()
		b.data = b.data[:bsize-len(extra)-19]
		if _, err = io.ReadFull(src.r, b.data); err != nil {
			return
		}
		var trailer [trailerSize]byte
		if _, err = io.ReadFull(src.r, trailer[:]); err != nil {
			return
		}
		b.crc32 = binary.LittleEndian.Uint32(trailer[0:4])
		b.size = binary.LittleEndian.Uint32(trailer[4:8])
		err = src.gz.Reset(src.r)
		if err == io.EOF {
			if len(b.data) != 2 || b.data[0] != 3 || b.data[1] != 0 || b.crc32 != 0 || b.size != 0 {
				err = errors.New("invalid BGZF file: does not end in proper EOF marker")
			}
		} else if err != nil {
			err = fmt.Errorf("%w, while reading a BGZF block", err)
		}
		return
	}
	return nil, errors.New("missing BC extra subfield in BGZF header")
}

// Err implements the corresponding method of pipeline.Source
func (src *blockSource) Err() error {
	if src.err != io.EOF {
		return src.err
	}
	return nil
}

// Prepare implements the corresponding method of pipeline.Source
func (src *blockSource) Prepare(_ context.Context) (size int) {
	return -1
}

// Fetch implements the corresponding method of pipeline.Source
func (src *blockSource) Fetch(size int) (fetched int) {
	if src.err != nil {
		return 0
	}
	b, err := src.readBlock()
	if err != nil {
		src.err = err
		src.data = nil
		return 0
	}
	src.data = b
	return 1
}

// Data implements the corresponding method of pipeline.Source
func (src *blockSource) Data() interface{} {
	return src.data
}

// NewReader returns a Reader for the given flate.Reader. Blocks are
// decompressed in parallel, and delivered by Read in file order.
func NewReader(r flate.Reader) (*Reader, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w, while opening a BGZF file", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	bgzf := &Reader{
		r:       r,
		gz:      gz,
		channel: make(chan *block, 1),
		ctx:     ctx,
		cancel:  cancel,
	}
	bgzf.p.Source((*blockSource)(bgzf))
	bgzf.p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			compressed := data.(*block)
			uncompressed, err := inflate(compressed)
			putBlock(compressed)
			if err != nil {
				bgzf.p.SetErr(err)
				if uncompressed != nil {
					putBlock(uncompressed)
				}
				return (*block)(nil)
			}
			return uncompressed
		})),
		pipeline.StrictOrd(pipeline.ReceiveAndFinalize(func(_ int, data interface{}) interface{} {
			select {
			case <-bgzf.ctx.Done():
			case bgzf.channel <- data.(*block):
			}
			return nil
		}, func() {
			close(bgzf.channel)
		})),
	)
	bgzf.w.Add(1)
	go func() {
		defer bgzf.w.Done()
		bgzf.p.Run()
	}()
	return bgzf, nil
}

// Close implements the corresponding method of io.Closer
func (bgzf *Reader) Close() error {
	bgzf.cancel()
	bgzf.w.Wait()
	if err := bgzf.gz.Close(); err != nil {
		return err
	}
	return bgzf.p.Err()
}

func (bgzf *Reader) fetchBlock() error {
	select {
	case <-bgzf.ctx.Done():
		if bgzf.err != nil {
			return bgzf.err
		}
		return bgzf.ctx.Err()
	case b, ok := <-bgzf.channel:
		if !ok {
			if bgzf.err != nil && bgzf.err != io.EOF {
				return bgzf.err
			}
			if err := bgzf.p.Err(); err != nil {
				return err
			}
			return io.EOF
		}
		bgzf.index = 0
		bgzf.block = b
		return nil
	}
}

// Read implements the corresponding method of io.Reader
func (bgzf *Reader) Read(p []byte) (n int, err error) {
	for bgzf.block == nil || bgzf.index == len(bgzf.block.data) {
		if bgzf.block != nil {
			putBlock(bgzf.block)
			bgzf.block = nil
		}
		if err = bgzf.fetchBlock(); err != nil {
			return
		}
	}
	n = copy(p, bgzf.block.data[bgzf.index:])
	bgzf.index += n
	return
}

type (
	// Writer writes in parallel to a BGZF file.
	Writer struct {
		w       io.Writer
		level   int
		flaters sync.Pool
		p       pipeline.Pipeline
		wait    sync.WaitGroup
		block   *block
		channel chan *block
		data    interface{}
	}

	// writerSource fetches the uncompressed blocks of a Writer.
	writerSource Writer
)

func (*writerSource) Err() error {
	return nil
}

func (*writerSource) Prepare(_ context.Context) (size int) {
	return -1
}

func (src *writerSource) Fetch(size int) (fetched int) {
	if b, ok := <-src.channel; ok {
		src.data = b
		return 1
	}
	src.data = nil
	return 0
}

func (src *writerSource) Data() interface{} {
	return src.data
}

// NewWriter returns a Writer for the given io.Writer.
//
// Following zlib, levels range from 1 (BestSpeed) to 9 (BestCompression);
// higher levels typically run slower but compress more. Level 0
// (NoCompression) does not attempt any compression; it only adds the
// necessary DEFLATE framing.
// Level -1 (DefaultCompression) uses the default compression level.
// Level -2 (HuffmanOnly) will use Huffman compression only, giving
// a very fast compression for all types of input, but sacrificing considerable
// compression efficiency.
func NewWriter(w io.Writer, level int) (*Writer, error) {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return nil, fmt.Errorf("invalid BGZF compression level %v", level)
	}
	bgzf := &Writer{
		w:       w,
		level:   level,
		block:   getBlock(),
		channel: make(chan *block, 1),
	}
	bgzf.p.Source((*writerSource)(bgzf))
	bgzf.p.Add(
		pipeline.LimitedPar(0, pipeline.Receive(func(_ int, data interface{}) interface{} {
			uncompressed := data.(*block)
			compressed, err := deflate(uncompressed.data, level, &bgzf.flaters)
			if err != nil {
				bgzf.p.SetErr(err)
			}
			putBlock(uncompressed)
			return compressed
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			compressed := data.(*block)
			if _, err := w.Write(compressed.data); err != nil {
				bgzf.p.SetErr(err)
			}
			putBlock(compressed)
			return nil
		})),
	)
	bgzf.wait.Add(1)
	go func() {
		defer bgzf.wait.Done()
		bgzf.p.Run()
	}()
	return bgzf, nil
}

func (bgzf *Writer) sendBlock() (err error) {
	defer func() {
		if x := recover(); x != nil {
			err = errors.New(fmt.Sprint(x))
		}
	}()
	bgzf.channel <- bgzf.block
	return nil
}

// Close implements the corresponding method of io.Closer. It writes
// any pending data, followed by the BGZF end-of-file marker block.
func (bgzf *Writer) Close() error {
	if bgzf.block != nil && len(bgzf.block.data) > 0 {
		if err := bgzf.sendBlock(); err != nil {
			return err
		}
		bgzf.block = nil
	}
	close(bgzf.channel)
	bgzf.wait.Wait()
	if err := bgzf.p.Err(); err != nil {
		return err
	}
	_, err := bgzf.w.Write(eofBlock)
	return err
}

// Write implements the corresponding method of io.Writer.
func (bgzf *Writer) Write(p []byte) (n int, err error) {
	n = len(p)
	for {
		blockIndex := len(bgzf.block.data)
		newBlockLength := blockIndex + len(p)
		if newBlockLength < maxInputSize {
			bgzf.block.data = bgzf.block.data[:newBlockLength]
			copy(bgzf.block.data[blockIndex:], p)
			return
		}
		bgzf.block.data = bgzf.block.data[:maxInputSize]
		k := copy(bgzf.block.data[blockIndex:], p)
		p = p[k:]
		if err := bgzf.sendBlock(); err != nil {
			return n - len(p), err
		}
		bgzf.block = getBlock()
	}
}
