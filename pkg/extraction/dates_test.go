package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2024-01-15", "2024-01-15"},
		{"15.01.2024", "2024-01-15"},
		{"15.01.24", "2024-01-15"},
		{"15/01/2024", "2024-01-15"},
		{"15/01/24", "2024-01-15"},
		{"2024/01/15", "2024-01-15"},
		{"15-01-2024", "2024-01-15"},
		{"15-01-24", "2024-01-15"},
		{"  2024-01-15  ", "2024-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseFlexibleDate(tt.input)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseFlexibleDateInvalid(t *testing.T) {
	assert.Nil(t, ParseFlexibleDate(""))
	assert.Nil(t, ParseFlexibleDate("   "))
	assert.Nil(t, ParseFlexibleDate("not a date"))
	assert.Nil(t, ParseFlexibleDate("January 15th"))
}
