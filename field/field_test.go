package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath(t *testing.T) {
	p := Dotted("data.a.b")
	assert.Equal(t, "data.a.b", p.String())
	assert.Equal(t, "b", p.Leaf())
	assert.Equal(t, "data", p.Head())
	assert.Equal(t, Path{"a", "b"}, p.Tail())
	assert.True(t, p.Equal(Path{"data", "a", "b"}))
	assert.False(t, p.Equal(New("data")))
	assert.Equal(t, "this", NewRoot().String())
	assert.Equal(t, "", NewRoot().Head())
}

func TestAppendDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 4)
	base[0] = "data"
	a := base.Append("x")
	b := base.Append("y")
	assert.Equal(t, "data.x", a.String())
	assert.Equal(t, "data.y", b.String())
}
