package lifetime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLifetimeKinds(t *testing.T) {
	s := Static()
	l := LocalLifetime()
	a := NewVariable()
	b := NewVariable()

	assert.True(t, s.IsStatic())
	assert.False(t, s.IsLocal())
	assert.False(t, s.IsVariable())

	assert.True(t, l.IsLocal())
	assert.False(t, l.IsStatic())

	assert.True(t, a.IsVariable())
	assert.NotEqual(t, a, b, "two NewVariable calls must never compare equal")
	assert.Equal(t, a, a)
}

func TestLifetimeString(t *testing.T) {
	assert.Equal(t, "static", Static().String())
	assert.Equal(t, "local", LocalLifetime().String())
	assert.NotEqual(t, "", NewVariable().String())
}

func TestVariableWithIDRoundTrip(t *testing.T) {
	v := NewVariable()
	id, ok := v.VariableID()
	assert.True(t, ok)

	reconstructed := VariableWithID(id)
	assert.Equal(t, v, reconstructed)

	_, ok = Static().VariableID()
	assert.False(t, ok)
}
