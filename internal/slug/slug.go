// Package slug turns entry titles into filesystem-safe base names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Separator joins the words of a slug.
const Separator = '-'

var validRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// symbols are spelled out in place of the character.
var symbols = map[rune]string{
	'&': "and",
	'%': "percent",
	'$': "dollar",
	'<': "less",
	'>': "greater",
	'|': "or",
	'¢': "cent",
	'¥': "yen",
	'€': "euro",
	'£': "pound",
}

// letters are transliterated in place; NFKD does not decompose them.
var letters = map[rune]string{
	'ß': "ss",
	'æ': "ae",
	'ø': "o",
	'đ': "d",
	'ł': "l",
}

// Make returns the slug of s: lower-case ASCII letters and digits, with
// each run of whitespace or hyphens turned into a single separator and
// every other character removed. There is no separator at either end.
// Make is idempotent.
func Make(s string) string {
	folded, _, err := transform.String(transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	pending := false
	emit := func(word string) {
		if pending && b.Len() > 0 {
			b.WriteRune(Separator)
		}
		pending = false
		b.WriteString(word)
	}

	for _, r := range folded {
		r = unicode.ToLower(r)
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			emit(string(r))
		case letters[r] != "":
			emit(letters[r])
		case symbols[r] != "":
			emit(symbols[r])
		case r == Separator || unicode.IsSpace(r):
			pending = true
		}
	}
	return b.String()
}

// Valid reports whether s is already a well-formed slug.
func Valid(s string) bool {
	return validRe.MatchString(s)
}
