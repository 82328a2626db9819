package ytspam

import (
	"context"
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/forPelevin/gomoji"
	cache "github.com/go-pkgz/expirable-cache/v3"

	"github.com/vijaykumarpeta/yt-comments-extractor/lib/spamcheck"
)

// named sensitivity presets, mapped to score thresholds. Lower is stricter.
const (
	ThresholdLight      = 0.65
	ThresholdModerate   = 0.50
	ThresholdAggressive = 0.35
)

// PresetThreshold maps a sensitivity preset name to its threshold value.
func PresetThreshold(name string) (float64, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "light":
		return ThresholdLight, nil
	case "moderate":
		return ThresholdModerate, nil
	case "aggressive":
		return ThresholdAggressive, nil
	}
	return 0, fmt.Errorf("unknown sensitivity preset %q", name)
}

// Config is a set of parameters for Detector.
type Config struct {
	Threshold  float64            // spam score threshold, 0.0 - 1.0, comment is spam if final score >= threshold
	Weights    map[string]float64 // per-category weight overrides, nil keeps the defaults
	Legitimacy LegitimacyConfig   // legitimacy scorer parameters, zero value gets the defaults
	MaxEmoji   int                // emoji count treated as a bot signal, 0 for default, negative to disable
	CacheSize  int                // number of classification results to memoize, 0 disables the cache
	CacheTTL   time.Duration      // memoized result lifetime, 0 for no expiration pressure beyond LRU
}

// Detector is a spam classification engine, thread-safe. The compiled pattern
// registry is read-only during classification and rebuilt only on explicit
// configuration change. Classification itself is pure: same comment, config
// and pattern set always produce the identical breakdown.
type Detector struct {
	Config
	categories []category
	patterns   *PatternSet
	results    cache.Cache[string, spamcheck.Breakdown]
	lock       sync.RWMutex
}

// NewDetector makes a new Detector with the given config. All validation
// happens here; Classify itself never fails.
func NewDetector(cfg Config) (*Detector, error) {
	if cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("threshold is %v, must be in [0,1]", cfg.Threshold)
	}
	if cfg.Legitimacy == (LegitimacyConfig{}) {
		cfg.Legitimacy = DefaultLegitimacy()
	}
	if err := cfg.Legitimacy.validate(); err != nil {
		return nil, err
	}
	if cfg.MaxEmoji == 0 {
		cfg.MaxEmoji = 6
	}

	categories, err := compileCategories(cfg.Weights)
	if err != nil {
		return nil, err
	}

	res := &Detector{Config: cfg, categories: categories}
	if cfg.CacheSize > 0 {
		res.results = cache.NewCache[string, spamcheck.Breakdown]().WithMaxKeys(cfg.CacheSize).WithTTL(cfg.CacheTTL)
	}
	return res, nil
}

// UpdatePatterns swaps the user blacklist/whitelist pattern set. Meant to be
// called between batches, never concurrently with an in-flight one; the lock
// only guarantees memory safety, not batch-level consistency. Memoized
// results are dropped as they depend on the old set.
func (d *Detector) UpdatePatterns(ps *PatternSet) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.patterns = ps
	if d.results != nil {
		d.results = cache.NewCache[string, spamcheck.Breakdown]().WithMaxKeys(d.CacheSize).WithTTL(d.CacheTTL)
	}
}

// Classify runs the full pipeline on a single comment: normalization,
// override precedence, signal detection, legitimacy reduction, threshold.
func (d *Detector) Classify(comment spamcheck.Comment) spamcheck.Breakdown {
	d.lock.RLock()
	defer d.lock.RUnlock()

	if d.results == nil {
		return d.classify(comment)
	}

	key := resultKey(comment)
	if res, ok := d.results.Get(key); ok {
		return res
	}
	res := d.classify(comment)
	d.results.Set(key, res, d.CacheTTL)
	return res
}

// ClassifyBatch classifies comments concurrently with the given number of
// workers, preserving input order in the result. Comments are independent, so
// this is a pure throughput optimization. The context is checked between
// units of work; on cancellation the already classified prefix is returned
// along with the context error, remaining entries are zero breakdowns.
func (d *Detector) ClassifyBatch(ctx context.Context, comments []spamcheck.Comment, workers int) ([]spamcheck.Breakdown, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]spamcheck.Breakdown, len(comments))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = d.Classify(comments[i])
			}
		}()
	}

	var err error
feed:
	for i := range comments {
		select { // cancellation wins over a ready worker
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		default:
		}
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()
	return results, err
}

// classify implements the strict precedence order: whitelist keeps, blacklist
// flags, everything else is scored against the threshold.
func (d *Detector) classify(comment spamcheck.Comment) spamcheck.Breakdown {
	text := strings.TrimSpace(comment.Text)
	if text == "" {
		// empty text can't match any spam pattern, explicit edge case
		return spamcheck.Breakdown{Verdict: spamcheck.VerdictKeep}
	}

	normalized, ev := normalize(text)

	if _, ok := d.patterns.MatchWhitelist(normalized); ok {
		return spamcheck.Breakdown{
			Verdict:        spamcheck.VerdictKeep,
			Override:       spamcheck.OverrideWhitelist,
			NormalizedText: normalized,
		}
	}

	if pattern, ok := d.patterns.MatchBlacklist(normalized); ok {
		return spamcheck.Breakdown{
			RawScore:       1.0,
			FinalScore:     1.0,
			Verdict:        spamcheck.VerdictSpam,
			Override:       spamcheck.OverrideBlacklist,
			Matches:        []spamcheck.CategoryMatch{{Category: "blacklist", Pattern: pattern, Weight: 1.0}},
			NormalizedText: normalized,
		}
	}

	rawScore, matches := d.detectSignals(text, normalized, comment.Author, ev)
	reduction, legitimacy := scoreLegitimacy(d.Legitimacy, comment, normalized)
	finalScore := clamp(rawScore - reduction)

	verdict := spamcheck.VerdictKeep
	if finalScore >= d.Threshold {
		verdict = spamcheck.VerdictSpam
	}

	return spamcheck.Breakdown{
		RawScore:            rawScore,
		LegitimacyReduction: reduction,
		FinalScore:          finalScore,
		Matches:             matches,
		Legitimacy:          legitimacy,
		Verdict:             verdict,
		NormalizedText:      normalized,
	}
}

// detectSignals scans all categories; each contributes its weight at most
// once, no matter how many of its patterns match. The raw score is the
// unclamped sum of fired category weights.
func (d *Detector) detectSignals(raw, normalized, author string, ev obfuscation) (float64, []spamcheck.CategoryMatch) {
	var rawScore float64
	var matches []spamcheck.CategoryMatch

	for _, cat := range d.categories {
		matched := ""
		for _, re := range cat.patterns {
			if m := re.FindString(normalized); m != "" {
				matched = m
				break
			}
		}
		if matched == "" {
			matched = d.structuralMatch(cat.id, raw, author, ev)
		}
		if matched == "" {
			continue
		}
		rawScore += cat.weight
		matches = append(matches, spamcheck.CategoryMatch{Category: cat.id, Pattern: matched, Weight: cat.weight})
	}
	return rawScore, matches
}

// structuralMatch runs the non-regex checks attached to a category: phone and
// email shapes on the raw text, author-name impersonation shapes, emoji flood
// and pre-normalization obfuscation evidence. Returns the match description,
// empty if nothing fired.
func (d *Detector) structuralMatch(categoryID, raw, author string, ev obfuscation) string {
	switch categoryID {
	case CategoryContact:
		if phoneRe.MatchString(raw) {
			return "[phone number]"
		}
		if emailRe.MatchString(strings.ToLower(raw)) {
			return "[email address]"
		}
	case CategoryBotPattern:
		if d.MaxEmoji >= 0 {
			if count := len(gomoji.CollectAll(raw)); count > d.MaxEmoji {
				return fmt.Sprintf("%d emojis", count)
			}
		}
	case CategoryImpersonation:
		if author == "" {
			return ""
		}
		if strings.ContainsAny(author, fakeBadgeChars) {
			return "[badge in author name]"
		}
		if m := impersonationSuffixRe.FindString(author); m != "" {
			return "author suffix " + strings.TrimSpace(m)
		}
	case CategoryObfuscation:
		if ev.any() {
			return ev.String()
		}
	}
	return ""
}

// fakeBadgeChars imitate a verification badge in a display name.
const fakeBadgeChars = "✓✔✅☑🔵⚪🔘🔷💎⭐"

var (
	phoneRe = regexp.MustCompile(`\+\d{1,3}[-.\s]?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}` +
		`|\(\d{3}\)\s*\d{3}[-.\s]?\d{4}` +
		`|\b\d{3}[-.\s]?\d{3}[-.\s]?\d{4}\b` +
		`|\+\d{10,15}\b`)
	emailRe = regexp.MustCompile(`[a-z0-9._%+-]+\s*(@|\[at\]|\(at\))\s*[a-z0-9-]+\s*(\.|\[dot\]|\(dot\))\s*(com|org|net|io|co|info|biz|xyz)\b`)

	impersonationSuffixRe = regexp.MustCompile(`(?i)(official|giveaway|telegram|team|real|verified|gaming|live|support|admin|help|bot|promo|moderator|mod|staff|vip)\s*$`)
)

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// resultKey builds the memoization key from everything classification depends
// on: text, author and the metadata the legitimacy scorer reads.
func resultKey(comment spamcheck.Comment) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%d\x00%d", comment.Text, comment.Author, comment.LikeCount, comment.ReplyCount)
	return fmt.Sprintf("%x", h.Sum(nil))
}
