package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeString(t *testing.T) {
	assert.Equal(t, "alice smith", NormalizeString("  Alice Smith "))
	assert.Equal(t, "", NormalizeString("   "))
	assert.Equal(t, "", NormalizeString(""))
}

func TestSimilarityRatio(t *testing.T) {
	t.Run("identical strings", func(t *testing.T) {
		assert.Equal(t, 1.0, SimilarityRatio("alice", "alice"))
	})

	t.Run("case and whitespace are ignored", func(t *testing.T) {
		assert.Equal(t, 1.0, SimilarityRatio("  Alice ", "alice"))
	})

	t.Run("empty input scores zero", func(t *testing.T) {
		assert.Equal(t, 0.0, SimilarityRatio("", "alice"))
		assert.Equal(t, 0.0, SimilarityRatio("alice", ""))
		assert.Equal(t, 0.0, SimilarityRatio("   ", "alice"))
		assert.Equal(t, 0.0, SimilarityRatio("", ""))
	})

	t.Run("completely different strings score zero", func(t *testing.T) {
		assert.Equal(t, 0.0, SimilarityRatio("abc", "xyz"))
	})

	t.Run("partial overlap", func(t *testing.T) {
		// 3 matched chars out of 7 total: 2*3/7
		assert.InDelta(t, 6.0/7.0, SimilarityRatio("jon", "john"), 1e-9)
		// "sm" and "th" match: 2*4/10
		assert.InDelta(t, 0.8, SimilarityRatio("smith", "smyth"), 1e-9)
	})

	t.Run("score is within bounds", func(t *testing.T) {
		pairs := [][2]string{
			{"Müller", "Mueller"},
			{"a", "aaaa"},
			{"thesis on graph algorithms", "graph algorithm thesis"},
		}
		for _, p := range pairs {
			score := SimilarityRatio(p[0], p[1])
			assert.GreaterOrEqual(t, score, 0.0)
			assert.LessOrEqual(t, score, 1.0)
		}
	})
}
