package pqe

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	assert.Equal(t, "no error", (&Error{}).Error())
	assert.Equal(t, "bad type", E(BadType).Error())
	assert.Equal(t, "bad type: expecting integer", E(BadType, "expecting %s", "integer").Error())
	assert.Equal(t, "oops", E(errors.New("oops")).Error())
}

func TestIsKind(t *testing.T) {
	inner := E(Mismatch, "no field %q", "x")
	wrapped := fmt.Errorf("column data.x: %w", inner)
	assert.True(t, IsKind(wrapped, Mismatch))
	assert.False(t, IsKind(wrapped, BadType))
	assert.False(t, IsKind(errors.New("plain"), Mismatch))

	nested := E(Other, E(NotImplemented, "list of lists"))
	assert.True(t, IsKind(nested, NotImplemented))
	assert.ErrorIs(t, wrapped, inner)
}

func TestConstructors(t *testing.T) {
	assert.True(t, IsKind(ErrNotFound(), NotFound))
	assert.True(t, IsKind(ErrInvalid("bad flag %s", "-x"), Invalid))
	assert.EqualError(t, ErrNotImplemented("int96"), "not implemented: int96")
}
