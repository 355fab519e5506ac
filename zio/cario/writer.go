package cario

import (
	"bytes"
	"errors"
	"io"

	"github.com/brimdata/car2pq/dag"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-varint"
)

var ErrNoRoots = errors.New("car header must list at least one root")

// Writer writes a CARv1 archive.  The header is written by NewWriter and
// each Write appends one block section.
type Writer struct {
	w io.Writer
	n int
}

func NewWriter(w io.Writer, roots []cid.Cid) (*Writer, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}
	links := make(dag.List, 0, len(roots))
	for _, c := range roots {
		links = append(links, dag.Link{Cid: c})
	}
	header, err := dag.Encode(dag.NewMap("roots", links, "version", dag.Int(1)))
	if err != nil {
		return nil, err
	}
	writer := &Writer{w: w}
	if err := writer.section(header); err != nil {
		return nil, err
	}
	return writer, nil
}

func (w *Writer) Write(b *Block) error {
	if err := w.section(b.Cid.Bytes(), b.Data); err != nil {
		return err
	}
	w.n++
	return nil
}

// Blocks returns the number of blocks written.
func (w *Writer) Blocks() int {
	return w.n
}

func (w *Writer) section(parts ...[]byte) error {
	var size int
	for _, p := range parts {
		size += len(p)
	}
	var buf bytes.Buffer
	buf.Write(varint.ToUvarint(uint64(size)))
	for _, p := range parts {
		buf.Write(p)
	}
	_, err := w.w.Write(buf.Bytes())
	return err
}
