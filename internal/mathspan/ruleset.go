package mathspan

import (
	"regexp"
	"strings"
)

// Verdict is the classification outcome for a single token.
type Verdict int

const (
	// VerdictNotMath leaves the token byte-for-byte unchanged.
	VerdictNotMath Verdict = iota
	// VerdictMath causes the token to be rewritten into delimited form.
	VerdictMath
)

// String returns the string representation of the verdict.
func (v Verdict) String() string {
	switch v {
	case VerdictMath:
		return "Math"
	case VerdictNotMath:
		return "NotMath"
	default:
		return "Unknown"
	}
}

const (
	// DefaultMarkerStart opens a review highlight.
	DefaultMarkerStart = "=="
	// DefaultMarkerEnd closes a review highlight.
	DefaultMarkerEnd = "=="
)

// defaultMathVars are single letters and Greek names strongly associated
// with math in technical prose.
var defaultMathVars = []string{
	"x", "y", "z", "u", "v", "w",
	"k", "i", "j", "t", "n", "m",
	"A", "B", "D", "F", "H", "P", "Q", "R", "K", "I", "S", "Z", "X", "Y",
	"L", "U", "N", "M", "E", "T", "C", "G",
	"theta", "mu", "sigma", "alpha", "beta", "gamma", "lambda", "delta",
	"phi", "omega",
}

// defaultStopwords are ordinary English words that override the
// allow-list. Checked only in the bare-symbol rule; an operator-shaped
// or structurally complex token is trusted regardless.
var defaultStopwords = []string{
	"I", "in", "is", "at", "to", "of", "on", "if", "or", "by", "we",
	"it", "so", "as", "be",
	"slam", "matrix", "vector", "filter", "model", "update", "predict",
	"estimate", "map",
}

// Structural shape: a letter/digit/backslash run immediately followed by
// a subscript, superscript or brace group, e.g. a_1 or x^{2}.
var complexMathRe = regexp.MustCompile(`[a-zA-Z0-9\\]+[_^{][a-zA-Z0-9_^{}\-+\\]+`)

// Operator shape: a binary relation like k=1 or x>0, or a restricted
// arithmetic form limited to common index letters, like k-1.
var operationRe = regexp.MustCompile(`\b[a-zA-Z0-9]+\s*[+=<>]\s*[a-zA-Z0-9]+\b|\b[kxyzmn]\s*-\s*[0-9a-z]\b`)

// Token alphabet inside plain spans: identifiers plus the operator and
// grouping characters the classifiers understand.
var tokenRe = regexp.MustCompile(`[a-zA-Z0-9_\\^{}\-+=<>]+`)

// Options configures a Ruleset. The zero value yields the defaults.
type Options struct {
	// MarkerStart and MarkerEnd bound a review highlight. Both must be
	// set to take effect; empty values fall back to the defaults.
	MarkerStart string
	MarkerEnd   string
	// ExtraMathVars are appended to the symbol allow-list.
	ExtraMathVars []string
	// ExtraStopwords are appended to the English deny-list.
	ExtraStopwords []string
}

// Ruleset holds the compiled patterns and configuration sets used by
// every transform. It is immutable after construction and safe to share.
type Ruleset struct {
	markerStart string
	markerEnd   string
	mathVars    map[string]struct{}
	stopwords   map[string]struct{}
	cleanRe     *regexp.Regexp
	undoRe      *regexp.Regexp
}

// NewRuleset builds a Ruleset from opts.
func NewRuleset(opts Options) *Ruleset {
	r := &Ruleset{
		markerStart: opts.MarkerStart,
		markerEnd:   opts.MarkerEnd,
		mathVars:    make(map[string]struct{}),
		stopwords:   make(map[string]struct{}),
	}
	if r.markerStart == "" || r.markerEnd == "" {
		r.markerStart = DefaultMarkerStart
		r.markerEnd = DefaultMarkerEnd
	}

	for _, w := range defaultMathVars {
		r.mathVars[w] = struct{}{}
	}
	for _, w := range opts.ExtraMathVars {
		if w != "" {
			r.mathVars[w] = struct{}{}
		}
	}
	for _, w := range defaultStopwords {
		r.stopwords[w] = struct{}{}
	}
	for _, w := range opts.ExtraStopwords {
		if w != "" {
			r.stopwords[w] = struct{}{}
		}
	}

	// Clean requires a well-formed single-dollar span strictly between
	// the markers. Undo is deliberately looser: any shortest run up to
	// the next dollar-then-end-marker, so it survives small manual
	// edits inside the span.
	start := regexp.QuoteMeta(r.markerStart)
	end := regexp.QuoteMeta(r.markerEnd)
	r.cleanRe = regexp.MustCompile(start + `(\$[^$]+\$)` + end)
	r.undoRe = regexp.MustCompile(start + `\$(.*?)\$` + end)

	return r
}

// DefaultRuleset returns a Ruleset with the built-in configuration.
func DefaultRuleset() *Ruleset {
	return NewRuleset(Options{})
}

// MarkerStart returns the highlight start marker.
func (r *Ruleset) MarkerStart() string { return r.markerStart }

// MarkerEnd returns the highlight end marker.
func (r *Ruleset) MarkerEnd() string { return r.markerEnd }

// Classify applies the layered heuristic to a single token. Rules run
// in fixed priority order and the first match wins:
//
//  1. structural shape (subscript/superscript/brace group)
//  2. operator shape (binary relation or restricted arithmetic)
//  3. bare-symbol membership (allow-list minus deny-list)
//
// A token that already contains a dollar sign or the highlight start
// marker is treated as processed and forced to NotMath.
func (r *Ruleset) Classify(token string) Verdict {
	if strings.Contains(token, "$") || strings.Contains(token, r.markerStart) {
		return VerdictNotMath
	}

	if complexMathRe.MatchString(token) {
		return VerdictMath
	}
	if operationRe.MatchString(token) {
		return VerdictMath
	}
	if _, ok := r.mathVars[token]; ok {
		if _, stop := r.stopwords[token]; !stop {
			return VerdictMath
		}
	}

	return VerdictNotMath
}
