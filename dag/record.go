package dag

import (
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

// A Record is one archive block: its content identifier, its decoded
// value, and the raw bytes it was decoded from.
type Record struct {
	Cid   cid.Cid
	Value Value
	Raw   []byte
}

// NewRecord decodes raw into a Record identified by c.
func NewRecord(c cid.Cid, raw []byte) (Record, error) {
	val, err := Decode(raw)
	if err != nil {
		return Record{}, fmt.Errorf("block %s: %w", c, err)
	}
	return Record{Cid: c, Value: val, Raw: raw}, nil
}

// Sum returns the CIDv1 of a DAG-CBOR block with a SHA2-256 multihash.
func Sum(raw []byte) (cid.Cid, error) {
	return cid.V1Builder{Codec: cid.DagCBOR, MhType: multihash.SHA2_256}.Sum(raw)
}

// EncodeRecord encodes val and returns it as a Record identified by the
// CID of its encoding.
func EncodeRecord(val Value) (Record, error) {
	raw, err := Encode(val)
	if err != nil {
		return Record{}, err
	}
	c, err := Sum(raw)
	if err != nil {
		return Record{}, err
	}
	return Record{Cid: c, Value: val, Raw: raw}, nil
}
