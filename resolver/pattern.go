package resolver

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidTemplate is returned by Compile for a malformed or duplicated
// placeholder. It is a configuration-time error and should abort loading.
var ErrInvalidTemplate = errors.New("invalid prefix template")

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenYear
	tokenMonth
	tokenDay
)

// digits a placeholder must match, exactly.
var tokenWidth = map[tokenKind]int{
	tokenYear:  4,
	tokenMonth: 2,
	tokenDay:   2,
}

type token struct {
	kind tokenKind
	lit  string // literal text, only for tokenLiteral
}

// Capture holds the raw digit strings extracted by a Pattern match. Fields
// the pattern does not declare stay empty.
type Capture struct {
	Year  string
	Month string
	Day   string
}

// Pattern is the compiled form of one prefix template. It is immutable after
// Compile and safe for concurrent matching.
type Pattern struct {
	raw    string
	tokens []token
}

// Compile parses a prefix template into a Pattern. A template is literal text
// interleaved with the placeholders {{ year }}, {{ month }} and {{ day }}
// (whitespace inside the braces is insignificant). An empty template is valid
// and matches a zero-length prefix. Unknown or unterminated placeholders and
// duplicated fields fail with ErrInvalidTemplate.
func Compile(template string) (Pattern, error) {
	p := Pattern{raw: template}
	seen := map[tokenKind]bool{}
	rest := template

	for rest != "" {
		open := strings.Index(rest, "{{")
		if open == -1 {
			p.tokens = append(p.tokens, token{kind: tokenLiteral, lit: rest})
			break
		}
		if open > 0 {
			p.tokens = append(p.tokens, token{kind: tokenLiteral, lit: rest[:open]})
		}
		closing := strings.Index(rest[open:], "}}")
		if closing == -1 {
			return Pattern{}, fmt.Errorf("%w: unterminated placeholder in %q", ErrInvalidTemplate, template)
		}
		name := strings.TrimSpace(rest[open+2 : open+closing])
		var kind tokenKind
		switch name {
		case "year":
			kind = tokenYear
		case "month":
			kind = tokenMonth
		case "day":
			kind = tokenDay
		default:
			return Pattern{}, fmt.Errorf("%w: unknown placeholder %q in %q", ErrInvalidTemplate, name, template)
		}
		if seen[kind] {
			return Pattern{}, fmt.Errorf("%w: duplicate placeholder %q in %q", ErrInvalidTemplate, name, template)
		}
		seen[kind] = true
		p.tokens = append(p.tokens, token{kind: kind})
		rest = rest[open+closing+2:]
	}
	return p, nil
}

// MustCompile is like Compile but panics on error. For use with templates
// known good at compile time, typically in tests.
func MustCompile(template string) Pattern {
	p, err := Compile(template)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the template the pattern was compiled from.
func (p Pattern) String() string { return p.raw }

// IsEmpty reports whether the pattern matches a zero-length prefix.
func (p Pattern) IsEmpty() bool { return len(p.tokens) == 0 }

// HasDateFields reports whether the pattern captures any of year/month/day.
func (p Pattern) HasDateFields() bool {
	for _, t := range p.tokens {
		if t.kind != tokenLiteral {
			return true
		}
	}
	return false
}

// Match matches the pattern against the start of path. On success it returns
// the captured date fields and the remainder of the path after the prefix and
// its separating slash. An empty pattern matches every path and returns it
// unchanged. The remainder is never empty on a successful match: a path that
// consists of the prefix alone does not match.
func (p Pattern) Match(path string) (Capture, string, bool) {
	if len(p.tokens) == 0 {
		return Capture{}, path, path != ""
	}

	var capture Capture
	rest := path
	for _, t := range p.tokens {
		if t.kind == tokenLiteral {
			if !strings.HasPrefix(rest, t.lit) {
				return Capture{}, "", false
			}
			rest = rest[len(t.lit):]
			continue
		}
		n := tokenWidth[t.kind]
		if len(rest) < n || !allDigits(rest[:n]) {
			return Capture{}, "", false
		}
		switch t.kind {
		case tokenYear:
			capture.Year = rest[:n]
		case tokenMonth:
			capture.Month = rest[:n]
		case tokenDay:
			capture.Day = rest[:n]
		}
		rest = rest[n:]
	}

	// The prefix must be followed by a slash and at least one more character.
	if len(rest) < 2 || rest[0] != '/' {
		return Capture{}, "", false
	}
	return capture, rest[1:], true
}

// Expand substitutes the given publication date into the template, producing
// the concrete prefix for a piece of content. The inverse of Match.
func (p Pattern) Expand(t time.Time) string {
	var b strings.Builder
	for _, tok := range p.tokens {
		switch tok.kind {
		case tokenLiteral:
			b.WriteString(tok.lit)
		case tokenYear:
			b.WriteString(t.Format("2006"))
		case tokenMonth:
			b.WriteString(t.Format("01"))
		case tokenDay:
			b.WriteString(t.Format("02"))
		}
	}
	return b.String()
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
