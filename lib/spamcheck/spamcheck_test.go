package spamcheck

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComment_String(t *testing.T) {
	c := Comment{Text: "hello", Author: "user1", LikeCount: 5, ReplyCount: 2,
		PublishedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, `author:"user1", likes:5, replies:2, text:"hello"`, c.String())
}

func TestBreakdown_Reason(t *testing.T) {
	tests := []struct {
		name      string
		breakdown Breakdown
		want      string
	}{
		{
			name:      "no signals",
			breakdown: Breakdown{Verdict: VerdictKeep},
			want:      "no spam signals",
		},
		{
			name: "single match",
			breakdown: Breakdown{
				Verdict: VerdictSpam,
				Matches: []CategoryMatch{{Category: "contact-solicitation", Pattern: "dm me", Weight: 0.45}},
			},
			want: "contact-solicitation(0.45): dm me",
		},
		{
			name: "multiple matches joined",
			breakdown: Breakdown{
				Verdict: VerdictSpam,
				Matches: []CategoryMatch{
					{Category: "self-promotion", Pattern: "check my channel", Weight: 0.4},
					{Category: "contact-solicitation", Pattern: "dm me", Weight: 0.45},
				},
			},
			want: "self-promotion(0.40): check my channel; contact-solicitation(0.45): dm me",
		},
		{
			name:      "blacklist override",
			breakdown: Breakdown{Verdict: VerdictSpam, Override: OverrideBlacklist},
			want:      "matched blacklist pattern",
		},
		{
			name:      "whitelist override",
			breakdown: Breakdown{Verdict: VerdictKeep, Override: OverrideWhitelist},
			want:      "matched whitelist pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.breakdown.Reason())
		})
	}
}

func TestBreakdown_String(t *testing.T) {
	b := Breakdown{
		RawScore:            0.85,
		LegitimacyReduction: 0.15,
		FinalScore:          0.7,
		Verdict:             VerdictSpam,
		Matches:             []CategoryMatch{{Category: "crypto-financial", Pattern: "bitcoin", Weight: 0.5}},
	}
	assert.Equal(t, "spam: 0.700 (raw:0.850, legit:-0.150) [crypto-financial(0.50): bitcoin]", b.String())
}

func TestBreakdown_JSONRoundTrip(t *testing.T) {
	b := Breakdown{
		RawScore:   0.5,
		FinalScore: 0.5,
		Verdict:    VerdictSpam,
		Matches:    []CategoryMatch{{Category: "phishing-link", Pattern: "bit.ly", Weight: 0.4}},
		Legitimacy: []LegitimacyMatch{{Signal: "question", Weight: 0.15}},
	}
	data, err := json.Marshal(&b)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"override"`, "empty override omitted")

	var got Breakdown
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, b, got)
}
