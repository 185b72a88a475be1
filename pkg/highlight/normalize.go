package highlight

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Literal backslash-u escape sequences that survive JSON decoding when a
	// source double-encodes its payload, e.g. `It\u2019s`.
	unicodeEscapeRe = regexp.MustCompile(`\\u([0-9a-fA-F]{4})`)

	// HTML numeric character references in decimal or hex form.
	numericEntityRe = regexp.MustCompile(`&#(x[0-9a-fA-F]+|[0-9]+);`)

	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	headingRe    = regexp.MustCompile(`(?m)^\s{0,3}#{1,6}\s+`)
	blockquoteRe = regexp.MustCompile(`(?m)^\s{0,3}(?:>\s?)+`)
	edgeScoreRe  = regexp.MustCompile(`(?:^|\s)_+|_+(?:\s|$)`)
)

// The named entities that show up in practice in captured highlight text.
// Anything rarer arrives as a numeric reference and is handled above.
var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&apos;", "'",
	"&lsquo;", "‘",
	"&rsquo;", "’",
	"&ldquo;", "“",
	"&rdquo;", "”",
	"&ndash;", "–",
	"&mdash;", "—",
	"&hellip;", "…",
	"&nbsp;", " ",
	"&amp;", "&",
)

// Normalize canonicalizes a chunk of captured or rendered text so the two
// become comparable. It repairs invalid UTF-8, decodes literal escape
// sequences and HTML character references, strips lightweight markup
// decoration while keeping the visible text, and applies Unicode NFC so
// composed and decomposed forms of the same character compare equal.
//
// Normalize is pure. It is applied independently to highlight text at
// pattern build time and to each body line at match time, and it never
// fails: undecodable bytes are replaced, not rejected.
func Normalize(s string) string {
	s = strings.ToValidUTF8(s, "�")
	s = DecodeEscapes(s)
	s = StripMarkup(s)
	return norm.NFC.String(s)
}

// DecodeEscapes resolves literal \uXXXX sequences and HTML character
// references to the characters they denote. Malformed sequences are left
// untouched rather than dropped.
func DecodeEscapes(s string) string {
	if strings.Contains(s, `\u`) {
		s = unicodeEscapeRe.ReplaceAllStringFunc(s, func(esc string) string {
			n, err := strconv.ParseUint(esc[2:], 16, 32)
			if err != nil {
				return esc
			}
			return string(rune(n))
		})
	}
	if strings.Contains(s, "&#") {
		s = numericEntityRe.ReplaceAllStringFunc(s, func(ref string) string {
			body := ref[2 : len(ref)-1]
			base := 10
			if body[0] == 'x' {
				body = body[1:]
				base = 16
			}
			n, err := strconv.ParseUint(body, base, 32)
			if err != nil {
				return ref
			}
			return string(rune(n))
		})
	}
	if strings.Contains(s, "&") {
		s = entityReplacer.Replace(s)
	}
	return s
}

// StripMarkup removes markdown decoration, keeping the text a reader sees.
// Images collapse to their alt text, links to their label. Emphasis
// markers and inline code fences are dropped; underscores are only
// stripped at word edges so identifiers like snake_case survive.
func StripMarkup(s string) string {
	s = imageRe.ReplaceAllString(s, "$1")
	s = linkRe.ReplaceAllString(s, "$1")
	s = headingRe.ReplaceAllString(s, "")
	s = blockquoteRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, "`", "")
	s = edgeScoreRe.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ReplaceAll(m, "_", "")
	})
	return s
}
