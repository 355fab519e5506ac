package shape

import (
	"sort"

	"github.com/brimdata/car2pq/dag"
)

// A Bucket holds the records whose whole-record shape is Shape, in input
// order.
type Bucket struct {
	Shape   *Map
	Records []dag.Record
}

func (b *Bucket) Len() int {
	return len(b.Records)
}

// A Grouper partitions records into buckets by whole-record shape.
type Grouper struct {
	zctx     *Context
	rawbytes bool
	index    map[*Map]*Bucket
	buckets  []*Bucket
	n        int
}

// NewGrouper returns a Grouper whose whole-record shapes include the
// rawbytes field when rawbytes is true.
func NewGrouper(zctx *Context, rawbytes bool) *Grouper {
	return &Grouper{
		zctx:     zctx,
		rawbytes: rawbytes,
		index:    make(map[*Map]*Bucket),
	}
}

// Add appends rec to the bucket of its shape and returns that bucket.
func (g *Grouper) Add(rec dag.Record) *Bucket {
	s := g.zctx.Record(g.zctx.Infer(rec.Value), g.rawbytes)
	b, ok := g.index[s]
	if !ok {
		b = &Bucket{Shape: s}
		g.index[s] = b
		g.buckets = append(g.buckets, b)
	}
	b.Records = append(b.Records, rec)
	g.n++
	return b
}

// Len returns the number of records added.
func (g *Grouper) Len() int {
	return g.n
}

// Buckets returns the buckets ordered by descending population.  Buckets
// of equal population are ordered by the position of their first record.
func (g *Grouper) Buckets() []*Bucket {
	out := make([]*Bucket, len(g.buckets))
	copy(out, g.buckets)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Len() > out[j].Len()
	})
	return out
}

// Group partitions recs by whole-record shape.  See Grouper.Buckets for
// the order of the result.
func Group(zctx *Context, recs []dag.Record, rawbytes bool) []*Bucket {
	g := NewGrouper(zctx, rawbytes)
	for _, rec := range recs {
		g.Add(rec)
	}
	return g.Buckets()
}
