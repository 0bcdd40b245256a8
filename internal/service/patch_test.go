package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_TriState(t *testing.T) {
	var p struct {
		A Field[float64] `json:"a"`
		B Field[float64] `json:"b"`
		C Field[float64] `json:"c"`
		D Field[float64] `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 1.5, "b": null, "c": ""}`), &p))

	assert.True(t, p.A.HasValue())
	assert.Equal(t, 1.5, p.A.Value)
	assert.True(t, p.B.Cleared())
	assert.True(t, p.C.Cleared())
	assert.False(t, p.D.Set)
}

func TestField_RejectsWrongType(t *testing.T) {
	var p struct {
		A Field[float64] `json:"a"`
	}
	assert.Error(t, json.Unmarshal([]byte(`{"a": "heavy"}`), &p))
}
