package processor

import (
	"regexp"
	"strings"
)

// WordsFilter selects comments containing any of the configured words.
// Matching is whole-word and case-insensitive, words combine with OR.
// An empty filter passes everything through.
type WordsFilter struct {
	words []string
	res   []*regexp.Regexp
}

// NewWordsFilter parses a comma-separated word list into a filter. Blank
// entries are dropped.
func NewWordsFilter(list string) *WordsFilter {
	res := &WordsFilter{}
	for _, w := range strings.Split(list, ",") {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		res.words = append(res.words, w)
		res.res = append(res.res, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(w)+`\b`))
	}
	return res
}

// Matches reports whether text contains any of the filter words.
func (f *WordsFilter) Matches(text string) bool {
	if f == nil || len(f.res) == 0 {
		return true
	}
	for _, re := range f.res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Words returns the parsed word list.
func (f *WordsFilter) Words() []string {
	if f == nil {
		return nil
	}
	return f.words
}
