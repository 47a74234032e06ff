package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewportDirection(t *testing.T) {
	var v Viewport
	v.reset(100)

	assert.True(t, v.Signal(0))
	up, delta := v.take(60, true)
	assert.True(t, up)
	assert.Zero(t, delta)

	// The wheel's sign wins over the scroll difference.
	v.Signal(-3)
	up, delta = v.take(200, true)
	assert.True(t, up)
	assert.Equal(t, -3, delta)

	v.Signal(5)
	up, delta = v.take(197, false)
	assert.False(t, up)
	assert.Zero(t, delta, "compensation disabled")
	assert.False(t, v.Pending())
}
