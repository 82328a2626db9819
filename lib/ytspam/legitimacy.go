package ytspam

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vijaykumarpeta/yt-comments-extractor/lib/spamcheck"
)

// LegitimacyConfig holds the weights of authenticity signals that reduce the
// spam score, plus their floors and the overall cap. The cap guarantees no
// combination of legitimacy signals can fully offset a very high raw score.
type LegitimacyConfig struct {
	Timestamp      float64 // reduction for a video timestamp reference, e.g. "at 3:24"
	Question       float64 // reduction for a question mark with an interrogative cue
	Reply          float64 // reduction for a reply addressed to a specific user
	Discussion     float64 // reduction for educational/discussion phrasing
	LongComment    float64 // reduction for text length at or above MinLength
	HighEngagement float64 // reduction for like count at or above MinLikes
	MinLikes       int     // high-engagement floor
	MinLength      int     // thoughtful-comment length floor, in runes
	Cap            float64 // maximum total reduction
}

// DefaultLegitimacy returns the tuned default legitimacy configuration.
func DefaultLegitimacy() LegitimacyConfig {
	return LegitimacyConfig{
		Timestamp:      0.25,
		Question:       0.15,
		Reply:          0.10,
		Discussion:     0.20,
		LongComment:    0.15,
		HighEngagement: 0.20,
		MinLikes:       50,
		MinLength:      160,
		Cap:            0.60,
	}
}

func (c LegitimacyConfig) validate() error {
	for name, w := range map[string]float64{
		"timestamp": c.Timestamp, "question": c.Question, "reply": c.Reply,
		"discussion": c.Discussion, "long-comment": c.LongComment, "high-engagement": c.HighEngagement,
	} {
		if w < 0 || w > 1 {
			return fmt.Errorf("legitimacy weight %s is %v, must be in [0,1]", name, w)
		}
	}
	if c.Cap < 0 || c.Cap > 1 {
		return fmt.Errorf("legitimacy cap is %v, must be in [0,1]", c.Cap)
	}
	if c.MinLikes < 0 {
		return fmt.Errorf("legitimacy min likes is %d, can't be negative", c.MinLikes)
	}
	if c.MinLength < 0 {
		return fmt.Errorf("legitimacy min length is %d, can't be negative", c.MinLength)
	}
	return nil
}

// legitimacy patterns, compiled once. Timestamp and reply shapes run against
// the raw text because normalization may rewrite digits inside mixed tokens.
var (
	timestampRe     = regexp.MustCompile(`\b\d{1,2}:\d{2}(:\d{2})?\b|\bat\s*\d{1,2}:\d{2}|(?i)timestamp|(?i)timecode`)
	replyRe         = regexp.MustCompile(`^@[a-zA-Z0-9_.]+\s`)
	interrogativeRe = regexp.MustCompile(`\b(how|what|why|when|where|who|which|whose|can|could|would|should|does|did|has|have|is|are|anyone)\b`)
	discussionRe    = regexp.MustCompile(`\b(i\s*think|in\s*my\s*opinion|imho|imo|i\s*(agree|disagree)|` +
		`great\s*(point|video|content|explanation|tutorial)|thanks?\s*(for|so\s*much)|thank\s*you|` +
		`this\s*(helped|explains|clarifies)|good\s*(job|work|explanation)|well\s*(explained|done|said)|` +
		`helpful|informative|insightful|what\s*is|how\s*(does|do|to)|explain|learn(ing)?\s*about|understand(ing)?|` +
		`tutorial|beginner|eli5|difference\s*between|compared\s*to|pros\s*and\s*cons|` +
		`i\s*(would\s*)?(suggest|recommend)|not\s*sure\s*(about|if)|on\s*the\s*other\s*hand)\b`)
)

// scoreLegitimacy scans the comment for authenticity markers and returns the
// capped total reduction with the signals that fired. Each signal contributes
// its weight independently before the cap is applied.
func scoreLegitimacy(cfg LegitimacyConfig, comment spamcheck.Comment, normalized string) (float64, []spamcheck.LegitimacyMatch) {
	var matches []spamcheck.LegitimacyMatch
	add := func(signal string, weight float64) {
		if weight > 0 {
			matches = append(matches, spamcheck.LegitimacyMatch{Signal: signal, Weight: weight})
		}
	}

	if timestampRe.MatchString(comment.Text) {
		add("timestamp", cfg.Timestamp)
	}
	if replyRe.MatchString(strings.TrimSpace(comment.Text)) {
		add("reply", cfg.Reply)
	}
	if strings.Contains(normalized, "?") && interrogativeRe.MatchString(normalized) {
		add("question", cfg.Question)
	}
	if discussionRe.MatchString(normalized) {
		add("discussion", cfg.Discussion)
	}
	if len([]rune(strings.TrimSpace(comment.Text))) >= cfg.MinLength && cfg.MinLength > 0 {
		add("long-comment", cfg.LongComment)
	}
	if comment.LikeCount >= cfg.MinLikes && cfg.MinLikes > 0 {
		add("high-engagement", cfg.HighEngagement)
	}

	total := 0.0
	for _, m := range matches {
		total += m.Weight
	}
	if total > cfg.Cap {
		total = cfg.Cap
	}
	return total, matches
}
