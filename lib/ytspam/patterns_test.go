package ytspam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPatternSet(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		ps, err := NewPatternSet("", "")
		require.NoError(t, err)
		bl, wl := ps.Len()
		assert.Equal(t, 0, bl)
		assert.Equal(t, 0, wl)
	})

	t.Run("literal patterns", func(t *testing.T) {
		ps, err := NewPatternSet("free iphone\ncrypto giveaway\n", "book club\n")
		require.NoError(t, err)
		bl, wl := ps.Len()
		assert.Equal(t, 2, bl)
		assert.Equal(t, 1, wl)

		pattern, ok := ps.MatchBlacklist("win a free iphone today")
		assert.True(t, ok)
		assert.Equal(t, "free iphone", pattern)

		_, ok = ps.MatchBlacklist("win a free android today")
		assert.False(t, ok)

		pattern, ok = ps.MatchWhitelist("our book club meets weekly")
		assert.True(t, ok)
		assert.Equal(t, "book club", pattern)
	})

	t.Run("blank lines and comments skipped", func(t *testing.T) {
		ps, err := NewPatternSet("\n# not a pattern\n  \nspam phrase\n", "")
		require.NoError(t, err)
		bl, _ := ps.Len()
		assert.Equal(t, 1, bl)
	})

	t.Run("regex patterns", func(t *testing.T) {
		ps, err := NewPatternSet("re: gift\\s*card\\s*\\d+", "")
		require.NoError(t, err)
		_, ok := ps.MatchBlacklist("claim gift card 500 now")
		assert.True(t, ok)
	})

	t.Run("literal special chars quoted", func(t *testing.T) {
		ps, err := NewPatternSet("$$$ profit (really)", "")
		require.NoError(t, err)
		_, ok := ps.MatchBlacklist("$$$ profit (really) guaranteed")
		assert.True(t, ok)
	})

	t.Run("pattern text normalized at compile", func(t *testing.T) {
		// cyrillic "е" in the user's pattern still matches plain latin text
		ps, err := NewPatternSet("tеlеgram pump group", "")
		require.NoError(t, err)
		_, ok := ps.MatchBlacklist("join my telegram pump group")
		assert.True(t, ok)
	})

	t.Run("bad regex reported with line info", func(t *testing.T) {
		_, err := NewPatternSet("re:[unclosed\nvalid phrase\nre:(also[bad", "re:*nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "blacklist line 1")
		assert.Contains(t, err.Error(), "blacklist line 3")
		assert.Contains(t, err.Error(), "whitelist line 1")
	})

	t.Run("nil set never matches", func(t *testing.T) {
		var ps *PatternSet
		_, ok := ps.MatchBlacklist("anything")
		assert.False(t, ok)
		_, ok = ps.MatchWhitelist("anything")
		assert.False(t, ok)
		bl, wl := ps.Len()
		assert.Zero(t, bl)
		assert.Zero(t, wl)
	})
}
