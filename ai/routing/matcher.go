package routing

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hrygo/careerbot/ai/knowledge"
)

// ErrInvalidPattern marks a rule whose pattern failed to compile.
var ErrInvalidPattern = errors.New("invalid pattern")

// PatternError reports which rule carried a malformed pattern.
type PatternError struct {
	Owner   string // "intent <name>" or "entity <type>"
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("%s: invalid pattern %q: %v", e.Owner, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() []error {
	return []error{ErrInvalidPattern, e.Err}
}

// Span is the byte range of one match.
type Span struct {
	Start, End int
}

// Matcher hides whether a trigger is a literal keyword or a regular
// expression. Matching is case-insensitive and ignores empty matches.
type Matcher interface {
	// Count returns the number of non-overlapping matches in text.
	Count(text string) int
	// FindAll returns the spans of all non-overlapping matches in text.
	FindAll(text string) []Span
	String() string
}

// keywordMatcher counts literal substring occurrences.
type keywordMatcher struct {
	keyword string // lowercased
}

func (m keywordMatcher) Count(text string) int {
	return strings.Count(strings.ToLower(text), m.keyword)
}

func (m keywordMatcher) FindAll(text string) []Span {
	lower := strings.ToLower(text)
	var spans []Span
	for offset := 0; ; {
		i := strings.Index(lower[offset:], m.keyword)
		if i < 0 {
			return spans
		}
		start := offset + i
		spans = append(spans, Span{Start: start, End: start + len(m.keyword)})
		offset = start + len(m.keyword)
	}
}

func (m keywordMatcher) String() string { return m.keyword }

// regexMatcher wraps a case-insensitive compiled expression.
type regexMatcher struct {
	re *regexp.Regexp
}

func (m regexMatcher) Count(text string) int {
	return len(m.FindAll(text))
}

func (m regexMatcher) FindAll(text string) []Span {
	locs := m.re.FindAllStringIndex(text, -1)
	spans := make([]Span, 0, len(locs))
	for _, loc := range locs {
		if loc[1] > loc[0] {
			spans = append(spans, Span{Start: loc[0], End: loc[1]})
		}
	}
	return spans
}

func (m regexMatcher) String() string { return m.re.String() }

// NewKeywordMatcher returns a literal, case-insensitive matcher.
func NewKeywordMatcher(keyword string) Matcher {
	return keywordMatcher{keyword: strings.ToLower(keyword)}
}

// NewRegexMatcher compiles pattern case-insensitively.
func NewRegexMatcher(pattern string) (Matcher, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, err
	}
	return regexMatcher{re: re}, nil
}

func compileTrigger(owner string, trig knowledge.Trigger) (Matcher, error) {
	if trig.IsKeyword() {
		return NewKeywordMatcher(trig.Pattern), nil
	}
	m, err := NewRegexMatcher(trig.Pattern)
	if err != nil {
		return nil, &PatternError{Owner: owner, Pattern: trig.Pattern, Err: err}
	}
	return m, nil
}
