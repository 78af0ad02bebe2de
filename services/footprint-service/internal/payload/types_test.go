package payload

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberAcceptsNumbersAndStrings(t *testing.T) {
	var req CreateActivityRequest
	err := json.Unmarshal([]byte(`{"amount": "12.5", "carbonCO2": 0}`), &req)
	require.NoError(t, err)

	require.NotNil(t, req.Amount)
	require.NotNil(t, req.CarbonCO2)
	assert.Equal(t, 12.5, *req.Amount.Float64())
	assert.Equal(t, 0.0, *req.CarbonCO2.Float64())
}

func TestNumberRejectsGarbage(t *testing.T) {
	for _, body := range []string{`{"amount": "abc"}`, `{"amount": "NaN"}`, `{"amount": "Inf"}`, `{"amount": ""}`, `{"amount": true}`} {
		var req CreateActivityRequest
		assert.Error(t, json.Unmarshal([]byte(body), &req), body)
	}
}

func TestNumberNullStaysNil(t *testing.T) {
	var req UpdateActivityRequest
	require.NoError(t, json.Unmarshal([]byte(`{"amount": null}`), &req))

	assert.Nil(t, req.Amount)
	assert.Nil(t, req.Amount.Float64())
}

func TestTimestampFormats(t *testing.T) {
	var req CreateActivityRequest
	require.NoError(t, json.Unmarshal([]byte(`{"date": "2024-03-15"}`), &req))
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *req.Date.Time())

	require.NoError(t, json.Unmarshal([]byte(`{"date": "2024-03-15T10:30:00+02:00"}`), &req))
	assert.Equal(t, time.Date(2024, 3, 15, 8, 30, 0, 0, time.UTC), *req.Date.Time())

	assert.Error(t, json.Unmarshal([]byte(`{"date": "15/03/2024"}`), &req))
	assert.Error(t, json.Unmarshal([]byte(`{"date": 1710460800}`), &req))
}

func TestParseTime(t *testing.T) {
	got, err := ParseTime(" 2024-01-02 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseTime("yesterday")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
