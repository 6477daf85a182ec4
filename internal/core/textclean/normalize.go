// Package textclean reproduces the cleaning applied to résumé text before the
// TF-IDF vocabulary was fit. The rule set must not drift: any change silently
// shifts the token stream the frozen vectorizer sees.
package textclean

import (
	"regexp"
	"strings"
)

// punctuation is the ASCII punctuation set removed character by character.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// whitespace is the Unicode whitespace set, including \v and the \x1c-\x1f
// separators that a plain \s class in Go would miss.
const whitespace = `\t\n\v\f\r\x1c-\x1f \x{85}\x{a0}\x{1680}\x{2000}-\x{200a}\x{2028}\x{2029}\x{202f}\x{205f}\x{3000}`

var (
	noiseRE = regexp.MustCompile(strings.Join([]string{
		`http[^` + whitespace + `]+`,
		`RT`,
		`cc`,
		`#[^` + whitespace + `]+`,
		`@[^` + whitespace + `]+`,
		`[` + escapeClass(punctuation) + `]`,
		`[^\x00-\x7f]`,
		`[` + whitespace + `]+`,
	}, "|"))
	spacesRE = regexp.MustCompile(` {2,}`)
)

// Normalize replaces every noise match with a single space, collapses the
// resulting runs of spaces and trims the ends. RT and cc are matched anywhere,
// not only as whole words.
func Normalize(text string) string {
	cleaned := noiseRE.ReplaceAllString(text, " ")
	cleaned = spacesRE.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

func escapeClass(chars string) string {
	var b strings.Builder
	for _, r := range chars {
		b.WriteByte('\\')
		b.WriteRune(r)
	}
	return b.String()
}
