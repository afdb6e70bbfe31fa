package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_TimeOrdered(t *testing.T) {
	a, b := New(), New()
	assert.Equal(t, 7, int(a.Version()))
	assert.NotEqual(t, a, b)
	assert.LessOrEqual(t, a.String()[:8], b.String()[:8])
}

func TestIsSet(t *testing.T) {
	v := New()
	zero := Nil()

	assert.True(t, IsSet(&v))
	assert.False(t, IsSet(&zero))
	assert.False(t, IsSet(nil))
}
