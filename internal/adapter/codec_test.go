package adapter_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lilianna-roll/issuance/internal/adapter"
)

func TestCanonicalJSON(t *testing.T) {
	jsonAdapter := adapter.NewJSON()
	jcsAdapter := adapter.NewJCS()

	a, err := adapter.CanonicalJSON(jsonAdapter, jcsAdapter, map[string]interface{}{"b": 1, "a": "x"})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"x","b":1}`, string(a))

	type payload struct {
		B int    `json:"b"`
		A string `json:"a"`
	}
	b, err := adapter.CanonicalJSON(jsonAdapter, jcsAdapter, payload{B: 1, A: "x"})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = adapter.CanonicalJSON(jsonAdapter, jcsAdapter, make(chan int))
	assert.Error(t, err)
}
