// Package mathspan implements the protected-region scanning and
// classification engine behind md-math-fixer. It partitions a Markdown
// document into protected spans (code, existing math) and plain prose,
// classifies prose tokens as math-like or not, and rewrites matches into
// delimited, optionally highlighted form. All transforms are pure
// functions of their input text plus a read-only Ruleset.
package mathspan

import "regexp"

// SpanKind tags a region of the document.
type SpanKind int

const (
	// SpanPlain is ordinary prose, a candidate for rewriting.
	SpanPlain SpanKind = iota
	// SpanProtected is a code fence, inline code, display math or
	// inline math region. Its boundaries are never altered.
	SpanProtected
)

// String returns the string representation of the span kind.
func (k SpanKind) String() string {
	switch k {
	case SpanPlain:
		return "Plain"
	case SpanProtected:
		return "Protected"
	default:
		return "Unknown"
	}
}

// Span is a contiguous substring of the document with a kind tag.
// A Split result partitions the input exactly: concatenating the Text
// of all spans, in order, reconstructs the input byte for byte.
type Span struct {
	Kind SpanKind
	Text string
}

// protectRule is one entry of the ordered rule table used by Split.
// Rules are tried at every scan position; the rule whose next match
// starts earliest wins, and on a tie the rule listed first wins.
type protectRule struct {
	name string
	re   *regexp.Regexp
}

// Ordered rule table. Display math must come before inline math so a
// $$ block is never split into two empty inline matches, and fences
// before inline code for the same reason.
var protectRules = []protectRule{
	{name: "code_fence", re: regexp.MustCompile("```[\\s\\S]*?```")},
	{name: "inline_code", re: regexp.MustCompile("`[^`\n]+`")},
	{name: "display_math", re: regexp.MustCompile(`\$\$[\s\S]*?\$\$`)},
	{name: "inline_math", re: regexp.MustCompile(`\$[^$\n]+\$`)},
}

// Split partitions text into an alternating sequence of Plain and
// Protected spans covering the input exactly once, with no gaps or
// overlaps. Zero-length Plain gaps are omitted.
func Split(text string) []Span {
	return splitRules(text, protectRules)
}

// splitCode partitions text using only the code rules (fences and
// inline code). The cleaner and undoer use it so their marker
// substitutions can span dollar delimiters while code stays untouched.
func splitCode(text string) []Span {
	return splitRules(text, protectRules[:2])
}

func splitRules(text string, rules []protectRule) []Span {
	var spans []Span

	// Cached next-match window per rule, relative to the full text.
	// A nil entry means the rule is exhausted.
	next := make([][]int, len(rules))
	for i, rule := range rules {
		if loc := rule.re.FindStringIndex(text); loc != nil {
			next[i] = loc
		}
	}

	pos := 0
	for pos < len(text) {
		// Refresh any cached match that the cursor has passed.
		for i, rule := range rules {
			if next[i] != nil && next[i][0] < pos {
				loc := rule.re.FindStringIndex(text[pos:])
				if loc == nil {
					next[i] = nil
				} else {
					next[i] = []int{loc[0] + pos, loc[1] + pos}
				}
			}
		}

		// Pick the earliest match; ties go to the rule listed first.
		best := -1
		for i := range rules {
			if next[i] == nil {
				continue
			}
			if best == -1 || next[i][0] < next[best][0] {
				best = i
			}
		}

		if best == -1 {
			spans = append(spans, Span{Kind: SpanPlain, Text: text[pos:]})
			break
		}

		start, end := next[best][0], next[best][1]
		if start > pos {
			spans = append(spans, Span{Kind: SpanPlain, Text: text[pos:start]})
		}
		spans = append(spans, Span{Kind: SpanProtected, Text: text[start:end]})
		pos = end
	}

	return spans
}

// Join reassembles spans into a single string.
func Join(spans []Span) string {
	n := 0
	for _, s := range spans {
		n += len(s.Text)
	}
	buf := make([]byte, 0, n)
	for _, s := range spans {
		buf = append(buf, s.Text...)
	}
	return string(buf)
}
