package entity

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributes_ScanKeepsPrecision(t *testing.T) {
	var a Attributes
	require.NoError(t, a.Scan([]byte(`{"discount":"5","limit":12345678901234567890.01}`)))

	assert.Equal(t, "5", a["discount"])
	assert.Equal(t, json.Number("12345678901234567890.01"), a["limit"])
}

func TestAttributes_Null(t *testing.T) {
	a := Attributes{"x": 1}
	require.NoError(t, a.Scan(nil))
	assert.Nil(t, a)

	v, err := a.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	assert.Error(t, a.Scan(42))
}
