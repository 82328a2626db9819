package ytspam

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// homoglyphs maps Cyrillic and Greek code points to their Latin look-alikes.
// without this fold keyword matching is trivially bypassed, i.e. "сontact"
// with a Cyrillic "с" never matches "contact".
var homoglyphs = map[rune]rune{
	// cyrillic lowercase
	'а': 'a', 'с': 'c', 'е': 'e', 'о': 'o', 'р': 'p',
	'х': 'x', 'у': 'y', 'і': 'i', 'ј': 'j', 'ѕ': 's',
	'һ': 'h', 'ԁ': 'd', 'ԛ': 'q', 'ԝ': 'w', 'ᴦ': 'r',
	// cyrillic uppercase
	'А': 'A', 'В': 'B', 'С': 'C', 'Е': 'E', 'Н': 'H',
	'К': 'K', 'М': 'M', 'О': 'O', 'Р': 'P', 'Т': 'T',
	'Х': 'X', 'У': 'Y', 'І': 'I',
	// greek
	'α': 'a', 'ο': 'o', 'ρ': 'p', 'τ': 't', 'υ': 'u',
	'ν': 'v', 'ω': 'w', 'χ': 'x',
}

// leetSubs maps common character substitutions back to letters. Applied
// selectively, see foldLeet.
var leetSubs = map[rune]rune{
	'@': 'a', '4': 'a', '^': 'a',
	'8': 'b',
	'(': 'c', '<': 'c', '{': 'c',
	'3': 'e', '€': 'e',
	'6': 'g', '9': 'g',
	'#': 'h',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o', 'ø': 'o',
	'$': 's', '5': 's',
	'7': 't', '+': 't',
	'µ': 'u',
	'2': 'z',
}

// obfuscationPunct is the set of separators spammers insert between letters
// of a keyword, as in "t.e.l.e.g.r.a.m".
const obfuscationPunct = ".\"'-_`"

// nfkdFold decomposes compatibility characters (ligatures, stylized and
// mathematical letter variants) and drops combining marks, so "𝐟𝐫𝐞𝐞" and
// "frée" both end up as plain ASCII.
var nfkdFold = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// obfuscation records which evasion techniques were present in the original
// text. Their presence is a spam signal on its own.
type obfuscation struct {
	Homoglyph bool // cyrillic/greek look-alike characters
	Invisible bool // zero-width or other invisible characters
	Leet      bool // leetspeak substitutions folded inside words
}

func (o obfuscation) any() bool { return o.Homoglyph || o.Invisible || o.Leet }

func (o obfuscation) String() string {
	kinds := []string{}
	if o.Homoglyph {
		kinds = append(kinds, "homoglyphs")
	}
	if o.Invisible {
		kinds = append(kinds, "invisible chars")
	}
	if o.Leet {
		kinds = append(kinds, "leetspeak")
	}
	return strings.Join(kinds, ", ")
}

// Normalize canonicalizes comment text to defeat obfuscation before pattern
// matching. It is a total, deterministic and idempotent function; worst case
// it returns the input lower-cased with whitespace collapsed.
func Normalize(text string) string {
	res, _ := normalize(text)
	return res
}

// normalize runs the full pipeline and reports which obfuscation techniques
// were detected on the way. Stages, in order: invisible-char strip, homoglyph
// fold, NFKD compatibility decomposition, per-token punctuation collapse,
// selective leetspeak fold, lower-casing with whitespace collapse.
func normalize(text string) (string, obfuscation) {
	var ev obfuscation

	cleaned := stripInvisible(text, &ev)
	folded := foldHomoglyphs(cleaned, &ev)

	decomposed, _, err := transform.String(nfkdFold, folded)
	if err != nil {
		decomposed = folded // NFKD transform doesn't fail on valid utf-8, keep the input if it somehow does
	}

	words := strings.Fields(decomposed)
	for i, w := range words {
		w = collapseObfuscationPunct(w)
		w = foldLeet(w, &ev)
		words[i] = w
	}

	return strings.ToLower(strings.Join(words, " ")), ev
}

// stripInvisible removes format and other invisible characters used to split
// keywords, e.g. zero-width spaces inside "tele​gram".
func stripInvisible(text string, ev *obfuscation) string {
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if unicode.Is(unicode.Cf, r) || (r >= 0x200B && r <= 0x200F) || (r >= 0x2060 && r <= 0x2064) || r == 0x00AD {
			ev.Invisible = true
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

func foldHomoglyphs(text string, ev *obfuscation) string {
	var result strings.Builder
	result.Grow(len(text))
	for _, r := range text {
		if latin, ok := homoglyphs[r]; ok {
			ev.Homoglyph = true
			result.WriteRune(latin)
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

// collapseObfuscationPunct strips separator punctuation from a token when the
// token looks obfuscated, i.e. roughly half of it is separators. Legitimate
// punctuation ("don't", "well-known") stays below the ratio and is untouched.
func collapseObfuscationPunct(word string) string {
	rs := []rune(word)
	if len(rs) < 5 {
		return word
	}
	punct, alnum := 0, 0
	for _, r := range rs {
		switch {
		case strings.ContainsRune(obfuscationPunct, r):
			punct++
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			alnum++
		}
	}
	if punct < 2 || float64(punct) < 0.4*float64(alnum) {
		return word
	}
	var result strings.Builder
	result.Grow(len(word))
	for _, r := range rs {
		if strings.ContainsRune(obfuscationPunct, r) {
			continue
		}
		result.WriteRune(r)
	}
	return result.String()
}

// foldLeet replaces leetspeak substitutions inside a token, but only when the
// substituted character sits between two letters. This catches "inv3st" and
// "wh@ts@pp" while leaving prices ("$100"), years and trailing punctuation
// ("great video!") intact. URLs and @mentions are skipped entirely.
func foldLeet(word string, ev *obfuscation) string {
	if strings.Contains(word, "/") || strings.HasPrefix(word, "@") ||
		strings.HasPrefix(word, "http") || strings.HasPrefix(word, "www.") {
		return word
	}
	rs := []rune(word)
	for i, r := range rs {
		sub, ok := leetSubs[r]
		if !ok || i == 0 || i == len(rs)-1 {
			continue
		}
		if unicode.IsLetter(rs[i-1]) && unicode.IsLetter(rs[i+1]) {
			rs[i] = sub
			ev.Leet = true
		}
	}
	return string(rs)
}
