package spamcheck

import (
	"fmt"
	"strings"
	"time"
)

// Comment is a single comment record to classify. The engine never mutates
// or retains it beyond a single classification call.
type Comment struct {
	Text          string    `json:"text"`            // comment text
	Author        string    `json:"author"`          // author display name
	PublishedAt   time.Time `json:"published_at"`    // publish timestamp
	LikeCount     int       `json:"like_count"`      // number of likes, non-negative
	ReplyCount    int       `json:"reply_count"`     // number of replies, non-negative
	IsFromCreator bool      `json:"is_from_creator"` // true if posted by the video creator
}

func (c *Comment) String() string {
	return fmt.Sprintf("author:%q, likes:%d, replies:%d, text:%q", c.Author, c.LikeCount, c.ReplyCount, c.Text)
}

// Verdict is the final classification outcome.
type Verdict string

// possible verdicts
const (
	VerdictKeep Verdict = "keep"
	VerdictSpam Verdict = "spam"
)

// Override marks which user-supplied pattern list, if any, short-circuited scoring.
type Override string

// possible overrides, empty means score-based decision
const (
	OverrideNone      Override = ""
	OverrideBlacklist Override = "blacklist"
	OverrideWhitelist Override = "whitelist"
)

// CategoryMatch records one spam category that fired, with the pattern (or
// structural check name) responsible for it.
type CategoryMatch struct {
	Category string  `json:"category"` // category id, e.g. "contact-solicitation"
	Pattern  string  `json:"pattern"`  // pattern or check that matched
	Weight   float64 `json:"weight"`   // category weight added to the raw score
}

func (m *CategoryMatch) String() string {
	return fmt.Sprintf("%s(%.2f): %s", m.Category, m.Weight, m.Pattern)
}

// LegitimacyMatch records one authenticity signal reducing the score.
type LegitimacyMatch struct {
	Signal string  `json:"signal"` // signal id, e.g. "timestamp"
	Weight float64 `json:"weight"` // reduction contributed before capping
}

func (m *LegitimacyMatch) String() string {
	return fmt.Sprintf("%s(-%.2f)", m.Signal, m.Weight)
}

// Breakdown is the full result of classifying a single comment.
type Breakdown struct {
	RawScore            float64           `json:"raw_score"`            // sum of matched category weights, unclamped
	LegitimacyReduction float64           `json:"legitimacy_reduction"` // capped sum of legitimacy weights
	FinalScore          float64           `json:"final_score"`          // clamped to [0,1]
	Matches             []CategoryMatch   `json:"matches,omitempty"`    // categories that fired, in table order
	Legitimacy          []LegitimacyMatch `json:"legitimacy,omitempty"` // legitimacy signals that fired
	Override            Override          `json:"override,omitempty"`   // blacklist/whitelist short-circuit, if any
	Verdict             Verdict           `json:"verdict"`              // keep or spam
	NormalizedText      string            `json:"normalized_text"`      // text after the normalization pipeline
}

// Reason returns a short human-readable explanation of the classification,
// suitable for the flagged-spam export.
func (b *Breakdown) Reason() string {
	if b.Override != OverrideNone {
		return fmt.Sprintf("matched %s pattern", b.Override)
	}
	if len(b.Matches) == 0 {
		return "no spam signals"
	}
	elems := make([]string, 0, len(b.Matches))
	for i := range b.Matches {
		elems = append(elems, b.Matches[i].String())
	}
	return strings.Join(elems, "; ")
}

func (b *Breakdown) String() string {
	return fmt.Sprintf("%s: %.3f (raw:%.3f, legit:-%.3f) [%s]",
		b.Verdict, b.FinalScore, b.RawScore, b.LegitimacyReduction, b.Reason())
}
