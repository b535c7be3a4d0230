package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, Similarity("alpha tech", "alpha tech"))
	assert.Equal(t, 1.0, Similarity("", ""))
	assert.Equal(t, 0.0, Similarity("abc", "xyz"))
	assert.InDelta(t, 8.0/9.0, Similarity("abcd", "abcde"), 1e-9)
}

func TestSimilaritySymmetry(t *testing.T) {
	a, b := "alpha tech", "alpha technologies"
	assert.InDelta(t, Similarity(a, b), Similarity(b, a), 1e-9)
}

func TestCheckNameConsistency(t *testing.T) {
	t.Run("single name trivially consistent", func(t *testing.T) {
		res := CheckNameConsistency([]string{"ABC Pvt Ltd"})
		assert.True(t, res.Consistent)
	})

	t.Run("suffix synonyms collapse", func(t *testing.T) {
		res := CheckNameConsistency([]string{"ABC Pvt Ltd", "ABC Private Limited"})
		require.True(t, res.Consistent)
		assert.GreaterOrEqual(t, res.Similarity, 0.75)
	})

	t.Run("different companies", func(t *testing.T) {
		res := CheckNameConsistency([]string{"Alpha Tech Pvt Ltd", "Beta Corp Ltd"})
		require.False(t, res.Consistent)
		assert.Less(t, res.Similarity, 0.75)
		assert.Contains(t, res.Error, "Name mismatch")
	})

	t.Run("case and punctuation ignored", func(t *testing.T) {
		res := CheckNameConsistency([]string{"acme industries pvt ltd", "ACME Industries Pvt. Ltd."})
		assert.True(t, res.Consistent)
	})
}
