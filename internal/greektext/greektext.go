// Package greektext provides locale-insensitive matching helpers for Greek
// text: accent-stripping uppercase normalization and whole-word keyword
// matching over a fixed pattern set.
package greektext

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const combiningAcute = '́'

// Upper uppercases s and strips acute accents: the text is decomposed to NFD,
// the combining acute mark is dropped, and every rune is uppercased.
// Idempotent: Upper(Upper(s)) == Upper(s).
func Upper(s string) string {
	return strings.Map(func(r rune) rune {
		if r == combiningAcute {
			return -1
		}
		return unicode.ToUpper(r)
	}, norm.NFD.String(s))
}

// KeywordSet matches any of a fixed list of keyword patterns as whole words,
// case-insensitively, on Unicode word boundaries.
//
// Patterns are plain words optionally using the wildcards "." (any one rune),
// ".*" (zero or more), and "?" (previous rune optional), e.g. "ΕΞΕΤΑΣ.*" or
// "ΕΞΑΜΗΝΟΥ?".
type KeywordSet struct {
	re *regexp.Regexp
}

// patternOK restricts patterns to letters/digits plus the allowed wildcard
// runes, so the joined alternation stays a predictable expression.
var patternOK = regexp.MustCompile(`^[\p{L}\p{N}.*+?]+$`)

func NewKeywordSet(patterns []string) (*KeywordSet, error) {
	var alts []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !patternOK.MatchString(p) {
			return nil, fmt.Errorf("invalid keyword pattern %q", p)
		}
		alts = append(alts, p)
	}
	if len(alts) == 0 {
		return &KeywordSet{}, nil
	}

	// Go's \b is ASCII-only, so Greek letters never form a word boundary
	// with it. Spell the boundary out instead: start/end of text or a
	// non-word rune on either side of the alternation.
	expr := `(?i)(?:\A|[^\p{L}\p{N}_])(?:` + strings.Join(alts, "|") + `)(?:\z|[^\p{L}\p{N}_])`
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("compile keyword pattern: %w", err)
	}
	return &KeywordSet{re: re}, nil
}

// Match reports whether any keyword pattern matches a whole word in s.
// An empty set never matches. Callers pass text already normalized with
// Upper, though matching is case-insensitive regardless.
func (k *KeywordSet) Match(s string) bool {
	if k == nil || k.re == nil {
		return false
	}
	return k.re.MatchString(s)
}

// Empty reports whether the set has no patterns at all.
func (k *KeywordSet) Empty() bool { return k == nil || k.re == nil }
