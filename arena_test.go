package impulse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena(t *testing.T) {
	var a arena[string]

	h1 := a.insert("one")
	h2 := a.insert("two")
	assert.Equal(t, 2, a.len())
	assert.False(t, h1.IsNil())

	v, ok := a.get(h1)
	require.True(t, ok)
	assert.Equal(t, "one", v)

	_, ok = a.remove(h1)
	require.True(t, ok)
	_, ok = a.get(h1)
	assert.False(t, ok, "removed handle is stale")
	_, ok = a.remove(h1)
	assert.False(t, ok, "double remove is a no-op")

	// the freed slot is reused with a new generation
	h3 := a.insert("three")
	assert.NotEqual(t, h1, h3)
	_, ok = a.get(h1)
	assert.False(t, ok)
	v, _ = a.get(h3)
	assert.Equal(t, "three", v)

	assert.Equal(t, []string{"three", "two"}, a.values())

	a.clear()
	assert.Zero(t, a.len())
	_, ok = a.get(h2)
	assert.False(t, ok)

	h4 := a.insert("four")
	assert.NotEqual(t, h2, h4)
	assert.NotEqual(t, h3, h4)
}

func TestArenaNilHandle(t *testing.T) {
	var a arena[int]
	a.insert(1)

	_, ok := a.get(NilHandle)
	assert.False(t, ok)
	assert.Equal(t, "Handle(nil)", NilHandle.String())
}
