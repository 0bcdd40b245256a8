package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)

	d, err := ParseDate("2024-07-01", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, loc), d)

	d, err = ParseDate("2024-07-01T10:00:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	_, err = ParseDate("01/07/2024", loc)
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestEndOfDay(t *testing.T) {
	end := EndOfDay(time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 7, 1, 23, 59, 59, 999000000, time.UTC), end)
}

func TestDateInputJSON(t *testing.T) {
	var v struct {
		Date DateInput `json:"date"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"date":"2024-06-01"}`), &v))
	assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), v.Date.Time)

	assert.Error(t, json.Unmarshal([]byte(`{"date":12}`), &v))
}

func TestRateRanges(t *testing.T) {
	r := Rate{StartingValue: 10, EndingValue: 20}
	assert.True(t, r.Contains(10))
	assert.False(t, r.Contains(20))
	assert.True(t, r.Overlaps(15, 30))
	assert.False(t, r.Overlaps(20, 30))
	assert.False(t, r.Overlaps(0, 10))
}
