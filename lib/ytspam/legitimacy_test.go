package ytspam

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vijaykumarpeta/yt-comments-extractor/lib/spamcheck"
)

func TestScoreLegitimacy(t *testing.T) {
	cfg := DefaultLegitimacy()

	signalsOf := func(matches []spamcheck.LegitimacyMatch) []string {
		var res []string // stays nil when nothing fired, matching the table zero value
		for _, m := range matches {
			res = append(res, m.Signal)
		}
		return res
	}

	tests := []struct {
		name        string
		comment     spamcheck.Comment
		wantSignals []string
		wantTotal   float64
	}{
		{
			name:    "no signals",
			comment: spamcheck.Comment{Text: "nice video"},
		},
		{
			name:        "timestamp reference",
			comment:     spamcheck.Comment{Text: "the part at 3:24 is great"},
			wantSignals: []string{"timestamp"},
			wantTotal:   0.25,
		},
		{
			name:        "hour long timestamp",
			comment:     spamcheck.Comment{Text: "see 1:02:45 for the answer"},
			wantSignals: []string{"timestamp"},
			wantTotal:   0.25,
		},
		{
			name:        "question with interrogative",
			comment:     spamcheck.Comment{Text: "how does this work?"},
			wantSignals: []string{"question", "discussion"}, // "how does" also matches discussion phrasing
			wantTotal:   0.35,
		},
		{
			name:    "question mark without interrogative",
			comment: spamcheck.Comment{Text: "seriously?"},
		},
		{
			name:        "reply to user",
			comment:     spamcheck.Comment{Text: "@techguy42 agreed on both counts"},
			wantSignals: []string{"reply"},
			wantTotal:   0.10,
		},
		{
			name:        "discussion phrasing",
			comment:     spamcheck.Comment{Text: "thanks for the clear walkthrough"},
			wantSignals: []string{"discussion"},
			wantTotal:   0.20,
		},
		{
			name:        "high engagement",
			comment:     spamcheck.Comment{Text: "nice video", LikeCount: 120},
			wantSignals: []string{"high-engagement"},
			wantTotal:   0.20,
		},
		{
			name:    "engagement below floor",
			comment: spamcheck.Comment{Text: "nice video", LikeCount: 49},
		},
		{
			name:        "long comment",
			comment:     spamcheck.Comment{Text: strings.Repeat("thoughts on the edit pacing ", 8)},
			wantSignals: []string{"long-comment"},
			wantTotal:   0.15,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			normalized := Normalize(tt.comment.Text)
			total, matches := scoreLegitimacy(cfg, tt.comment, normalized)
			assert.InDelta(t, tt.wantTotal, total, 0.0001)
			assert.Equal(t, tt.wantSignals, signalsOf(matches))
		})
	}
}

func TestScoreLegitimacy_Cap(t *testing.T) {
	cfg := DefaultLegitimacy()
	// all signals at once: timestamp, reply, question, discussion, length, engagement
	text := "@someone thanks for this, the part at 12:30 finally made sense to me. " +
		"how does the second method compare to the first one in practice? " +
		"i think the difference between them deserves its own video honestly."
	comment := spamcheck.Comment{Text: text, LikeCount: 500}

	total, matches := scoreLegitimacy(cfg, comment, Normalize(text))
	require.Len(t, matches, 6)

	sum := 0.0
	for _, m := range matches {
		sum += m.Weight
	}
	assert.Greater(t, sum, cfg.Cap, "uncapped sum must exceed the cap for this fixture")
	assert.InDelta(t, cfg.Cap, total, 0.0001, "total reduction is capped")
}

func TestLegitimacyConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LegitimacyConfig)
		wantErr string
	}{
		{"defaults valid", func(c *LegitimacyConfig) {}, ""},
		{"negative weight", func(c *LegitimacyConfig) { c.Timestamp = -0.1 }, "legitimacy weight timestamp"},
		{"weight above one", func(c *LegitimacyConfig) { c.Question = 1.5 }, "legitimacy weight question"},
		{"bad cap", func(c *LegitimacyConfig) { c.Cap = 1.2 }, "legitimacy cap"},
		{"negative likes floor", func(c *LegitimacyConfig) { c.MinLikes = -1 }, "min likes"},
		{"negative length floor", func(c *LegitimacyConfig) { c.MinLength = -10 }, "min length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultLegitimacy()
			tt.mutate(&cfg)
			err := cfg.validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
