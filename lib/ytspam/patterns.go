package ytspam

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// regexPrefix marks a user pattern line as a raw regular expression instead
// of a literal phrase.
const regexPrefix = "re:"

// userPattern is one compiled blacklist or whitelist entry.
type userPattern struct {
	src string // original line, reported back on match
	re  *regexp.Regexp
}

// PatternSet holds the caller-supplied blacklist and whitelist, compiled once
// per configuration change and immutable afterwards. Matching is
// case-insensitive against the normalized comment text; pattern text itself
// goes through the same normalization so an obfuscated pattern still matches.
type PatternSet struct {
	blacklist []userPattern
	whitelist []userPattern
}

// NewPatternSet compiles newline-separated blacklist and whitelist phrases.
// Plain lines are literal substring matches; lines prefixed with "re:"
// compile as regular expressions. All compile failures are collected and
// returned together so the caller can report every faulty line at once.
func NewPatternSet(blacklist, whitelist string) (*PatternSet, error) {
	var merr *multierror.Error

	res := &PatternSet{}
	var err error
	if res.blacklist, err = compileUserPatterns(blacklist, "blacklist"); err != nil {
		merr = multierror.Append(merr, err)
	}
	if res.whitelist, err = compileUserPatterns(whitelist, "whitelist"); err != nil {
		merr = multierror.Append(merr, err)
	}
	if err := merr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return res, nil
}

func compileUserPatterns(text, kind string) ([]userPattern, error) {
	var merr *multierror.Error
	var res []userPattern

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var re *regexp.Regexp
		var err error
		if expr, isRegex := strings.CutPrefix(line, regexPrefix); isRegex {
			re, err = regexp.Compile("(?i)" + strings.TrimSpace(expr))
		} else {
			re, err = regexp.Compile("(?i)" + regexp.QuoteMeta(Normalize(line)))
		}
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s line %d (%q): %w", kind, i+1, line, err))
			continue
		}
		res = append(res, userPattern{src: line, re: re})
	}

	return res, merr.ErrorOrNil()
}

// MatchBlacklist reports the first blacklist pattern matching the normalized
// text. Nil-safe, an empty set never matches.
func (p *PatternSet) MatchBlacklist(normalized string) (pattern string, ok bool) {
	if p == nil {
		return "", false
	}
	return matchUserPatterns(p.blacklist, normalized)
}

// MatchWhitelist reports the first whitelist pattern matching the normalized text.
func (p *PatternSet) MatchWhitelist(normalized string) (pattern string, ok bool) {
	if p == nil {
		return "", false
	}
	return matchUserPatterns(p.whitelist, normalized)
}

// Len returns the number of compiled blacklist and whitelist patterns.
func (p *PatternSet) Len() (blacklist, whitelist int) {
	if p == nil {
		return 0, 0
	}
	return len(p.blacklist), len(p.whitelist)
}

func matchUserPatterns(patterns []userPattern, normalized string) (string, bool) {
	for _, p := range patterns {
		if p.re.MatchString(normalized) {
			return p.src, true
		}
	}
	return "", false
}
