package cario

import (
	"bufio"
	"context"
	"encoding/base64"
	"io"
	"strings"

	"github.com/brimdata/car2pq/pqe"
	"github.com/ipfs/go-cid"
)

// ParseID parses an identifier given either as the base64 encoding of a
// binary CID or as a CID string.
func ParseID(s string) (cid.Cid, error) {
	if b, err := base64.StdEncoding.DecodeString(s); err == nil {
		if c, err := cid.Cast(b); err == nil {
			return c, nil
		}
	}
	c, err := cid.Decode(s)
	if err != nil {
		return cid.Undef, pqe.ErrInvalid("identifier %q is neither a base64 binary CID nor a CID string", s)
	}
	return c, nil
}

// ParseIDs reads one identifier per line.  Blank lines and lines starting
// with '#' are skipped.
func ParseIDs(r io.Reader) ([]cid.Cid, error) {
	var ids []cid.Cid
	scanner := bufio.NewScanner(r)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		c, err := ParseID(line)
		if err != nil {
			return nil, pqe.E(pqe.Invalid, "line %d: %w", lineno, err)
		}
		ids = append(ids, c)
	}
	return ids, scanner.Err()
}

// Select copies the blocks of r whose identifiers are in ids to a new
// archive on w, in archive order.  The new archive's roots are ids in the
// order given.  Select returns the number of blocks copied.
func Select(ctx context.Context, r *Reader, w io.Writer, ids []cid.Cid) (int, error) {
	set := make(map[cid.Cid]struct{}, len(ids))
	for _, c := range ids {
		set[c] = struct{}{}
	}
	cw, err := NewWriter(w, ids)
	if err != nil {
		return 0, err
	}
	for {
		if err := ctx.Err(); err != nil {
			return cw.Blocks(), err
		}
		blk, err := r.Read()
		if err != nil {
			return cw.Blocks(), err
		}
		if blk == nil {
			return cw.Blocks(), nil
		}
		if _, ok := set[blk.Cid]; !ok {
			continue
		}
		if err := cw.Write(blk); err != nil {
			return cw.Blocks(), err
		}
	}
}
