package mathspan

import (
	"regexp"
	"strings"

	"github.com/Gongzihang6/md-math-fixer/internal/logger"
)

// NormalizeInlineMath strips interior whitespace adjacent to the
// delimiters of every inline math span, e.g. "$ x $" -> "$x$".
// MkDocs/MathJax require the compact form to render reliably.
// Code fences, inline code and display math pass through unchanged.
// Applying it twice yields the same result as applying it once.
func (r *Ruleset) NormalizeInlineMath(text string) string {
	spans := Split(text)

	for i, s := range spans {
		if s.Kind != SpanProtected {
			continue
		}
		// Only a span starting with a single dollar sign is genuine
		// inline math; "$$" is display math and backticks are code.
		if !strings.HasPrefix(s.Text, "$") || strings.HasPrefix(s.Text, "$$") {
			continue
		}
		content := strings.TrimSpace(s.Text[1 : len(s.Text)-1])
		spans[i].Text = "$" + content + "$"
	}

	return Join(spans)
}

// Highlight detects math-like tokens in plain prose and rewrites each
// one as markerStart + "$token$" + markerEnd for human review.
// Protected spans are never touched. The whole result gets a final
// NormalizeInlineMath pass: a rewritten span is itself a fresh inline
// math span, and pre-existing math elsewhere may carry stray spacing.
func (r *Ruleset) Highlight(text string) string {
	spans := Split(text)
	rewritten := 0

	for i, s := range spans {
		if s.Kind != SpanPlain {
			continue
		}
		spans[i].Text = tokenRe.ReplaceAllStringFunc(s.Text, func(token string) string {
			if r.Classify(token) != VerdictMath {
				return token
			}
			rewritten++
			// Trim guards against incidental whitespace in the match.
			return r.markerStart + "$" + strings.TrimSpace(token) + "$" + r.markerEnd
		})
	}

	result := r.NormalizeInlineMath(Join(spans))

	logger.Debug("highlight pass completed",
		logger.Int("spans", len(spans)),
		logger.Int("tokensRewritten", rewritten),
		logger.Int("inputLength", len(text)),
		logger.Int("outputLength", len(result)))

	return result
}

// Clean removes the highlight markers while keeping the math
// delimiters: markerStart + "$...$" + markerEnd becomes "$...$".
// Only exact marker/dollar adjacency is rewritten; malformed or
// partially edited highlights are left untouched rather than repaired.
// Finishes with a NormalizeInlineMath pass for interior-space hygiene.
func (r *Ruleset) Clean(text string) string {
	cleaned := r.replaceOutsideCode(text, r.cleanRe)
	result := r.NormalizeInlineMath(cleaned)

	logger.Debug("clean pass completed",
		logger.Int("inputLength", len(text)),
		logger.Int("outputLength", len(result)))

	return result
}

// replaceOutsideCode applies a marker substitution to every region of
// text that is not a code fence or inline code span. The marker
// scaffolding crosses the inline-math boundary, so the substitution
// runs over code-free segments rather than per fully partitioned span.
func (r *Ruleset) replaceOutsideCode(text string, re *regexp.Regexp) string {
	spans := splitCode(text)
	for i, s := range spans {
		if s.Kind != SpanPlain {
			continue
		}
		spans[i].Text = re.ReplaceAllString(s.Text, "$1")
	}
	return Join(spans)
}

// Undo reverses Highlight output, removing both the markers and the
// dollar delimiters and restoring the bare token text. The pattern is
// looser than Clean's so the scaffolding still matches after small
// manual edits inside the span. No normalize pass follows: the output
// is plain prose, not math.
func (r *Ruleset) Undo(text string) string {
	result := r.replaceOutsideCode(text, r.undoRe)

	logger.Debug("undo pass completed",
		logger.Int("inputLength", len(text)),
		logger.Int("outputLength", len(result)))

	return result
}
