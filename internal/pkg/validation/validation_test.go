package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePrice(t *testing.T) {
	p, err := ParsePrice(nil)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = ParsePrice(json.RawMessage("null"))
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = ParsePrice(json.RawMessage("25000"))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 25000.0, *p)

	p, err = ParsePrice(json.RawMessage(`" 24999.50 "`))
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, 24999.5, *p)

	p, err = ParsePrice(json.RawMessage("-1"))
	require.NoError(t, err)
	assert.Equal(t, -1.0, *p)

	_, err = ParsePrice(json.RawMessage(`"cheap"`))
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = ParsePrice(json.RawMessage(`{"amount": 1}`))
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestOptionalString(t *testing.T) {
	assert.Nil(t, OptionalString(nil))
	assert.Nil(t, OptionalString(json.RawMessage("null")))
	assert.Equal(t, "Low mileage", *OptionalString(json.RawMessage(`"Low mileage"`)))
	assert.Equal(t, "42", *OptionalString(json.RawMessage("42")))
}
