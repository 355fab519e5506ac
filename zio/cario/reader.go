// Package cario reads and writes CAR (content-addressed archive) files, the
// archive format whose blocks are converted to parquet.
package cario

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ipfs/go-cid"
	"github.com/ipld/go-car/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// DefaultMaxBlockSize is the default limit on the size of one archive
// section.
const DefaultMaxBlockSize = 8 << 20

type ReaderOpts struct {
	// MaxBlockSize limits the size of one archive section (header or
	// block).  Zero means DefaultMaxBlockSize.
	MaxBlockSize uint64
}

// A Block is one archive section: a content identifier and the raw bytes
// it identifies.
type Block struct {
	Cid  cid.Cid
	Data []byte
}

// Reader reads the blocks of a CARv1 or CARv2 archive in archive order.
// Archives compressed with gzip, zstd, or lz4 are decompressed
// transparently.
type Reader struct {
	br     *car.BlockReader
	closer io.Closer
	n      int
}

func NewReader(r io.Reader, opts ReaderOpts) (*Reader, error) {
	max := opts.MaxBlockSize
	if max == 0 {
		max = DefaultMaxBlockSize
	}
	dr, closer, err := decompress(r)
	if err != nil {
		return nil, err
	}
	br, err := car.NewBlockReader(dr, car.MaxAllowedSectionSize(max))
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, fmt.Errorf("car header: %w", err)
	}
	return &Reader{br: br, closer: closer}, nil
}

// Roots returns the root identifiers listed in the archive header.
func (r *Reader) Roots() []cid.Cid {
	return r.br.Roots
}

// Version returns the archive format version.
func (r *Reader) Version() uint64 {
	return r.br.Version
}

// Read returns the next block or nil at end of archive.
func (r *Reader) Read() (*Block, error) {
	blk, err := r.br.Next()
	if err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("car block %d: %w", r.n, err)
	}
	r.n++
	return &Block{Cid: blk.Cid(), Data: blk.RawData()}, nil
}

// Close releases the decompressor, if any.  It does not close the
// underlying reader.
func (r *Reader) Close() error {
	if r.closer != nil {
		return r.closer.Close()
	}
	return nil
}

var (
	magicGzip = []byte{0x1f, 0x8b}
	magicZstd = []byte{0x28, 0xb5, 0x2f, 0xfd}
	magicLZ4  = []byte{0x04, 0x22, 0x4d, 0x18}
)

func decompress(r io.Reader) (io.Reader, io.Closer, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, err
	}
	switch {
	case bytes.HasPrefix(magic, magicGzip):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return zr, zr, nil
	case bytes.HasPrefix(magic, magicZstd):
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, nil, err
		}
		return zr, zstdCloser{zr}, nil
	case bytes.HasPrefix(magic, magicLZ4):
		return lz4.NewReader(br), nil, nil
	}
	return br, nil, nil
}

type zstdCloser struct {
	*zstd.Decoder
}

func (z zstdCloser) Close() error {
	z.Decoder.Close()
	return nil
}
