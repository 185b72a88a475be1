package highlight

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ttscoff/readwise-to-devonthink/pkg/errors"
)

var (
	// A parenthesized run without spaces is treated as a link target left
	// behind by markup stripping, e.g. the URL half of a markdown link that
	// was captured without its label brackets.
	linkTargetRe = regexp.MustCompile(`\([^()\s]+\)`)

	tokenRe = regexp.MustCompile(`[A-Za-z0-9]+`)
)

// Trailing sentence punctuation after the last token, plus one optional
// bracketed or parenthesized citation, belong to the matched span so the
// wrapped region covers the full rendered sentence.
const trailingAbsorb = `[[:punct:]]*(?:\s*[\[(][^\])]*[\])])?`

// Pattern is one compiled highlight. It matches a line when the
// alphanumeric skeleton of the captured text appears in order within the
// line, with any non-alphanumeric noise in between. Matching is
// case-insensitive and never crosses a line boundary.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// Compile builds a Pattern from captured highlight text.
//
// The text is normalized, parenthesized link targets are dropped, and the
// remaining alphanumeric tokens are joined with lazy wildcards. Text with
// no alphanumeric content compiles to nothing that could ever match, so
// Compile rejects it with a validation error instead of returning a
// pattern that wraps arbitrary lines.
func Compile(text string) (*Pattern, error) {
	skeleton := linkTargetRe.ReplaceAllString(Normalize(text), " ")
	tokens := tokenRe.FindAllString(skeleton, -1)
	if len(tokens) == 0 {
		return nil, &errors.ValidationError{
			Field:   "text",
			Value:   text,
			Message: "no alphanumeric content to match",
		}
	}

	var b strings.Builder
	b.WriteString("(?i)")
	for i, tok := range tokens {
		if i > 0 {
			b.WriteString(".*?")
		}
		b.WriteString(regexp.QuoteMeta(tok))
	}
	b.WriteString(trailingAbsorb)

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("failed to compile highlight pattern: %w", err)
	}
	return &Pattern{source: text, re: re}, nil
}

// MustCompile is like Compile but panics on error. It is intended for
// tests and fixed patterns.
func MustCompile(text string) *Pattern {
	p, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the captured text the pattern was compiled from.
func (p *Pattern) Source() string {
	return p.source
}

// String returns the compiled regular expression source, useful in logs.
func (p *Pattern) String() string {
	return p.re.String()
}

// Match reports whether the pattern matches anywhere in the line. The line
// is expected to be a single normalized line; Match does not normalize.
func (p *Pattern) Match(line string) bool {
	return p.re.MatchString(line)
}

// FindSpan locates the matched span on a raw line, returning byte offsets
// suitable for slicing. Because the earliest leftmost match is taken and
// the wildcards are lazy, the span is stable across repeated runs over the
// same line.
func (p *Pattern) FindSpan(line string) (start, end int, ok bool) {
	loc := p.re.FindStringIndex(line)
	if loc == nil {
		return 0, 0, false
	}
	return loc[0], loc[1], true
}
