package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, time.March, 14)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2025-03-14"`, string(out))

	var back Date
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, d.Equal(back.Time))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-12-01")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-01", d.String())

	_, err = ParseDate("01.12.2024")
	assert.Error(t, err)
}

func TestDateScan(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-06-02", d.String())

	require.NoError(t, d.Scan([]byte("2025-06-03")))
	assert.Equal(t, "2025-06-03", d.String())

	assert.Error(t, d.Scan(42))
}
