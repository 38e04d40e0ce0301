// Package segmenter splits normalized contract text into an ordered,
// non-overlapping sequence of clauses.
package segmenter

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/rghosh/clausewise/internal/core/domain"
)

// Clause-start marker families, matched independently over the whole text
// and then merged. Order here does not matter; only start offsets do.
var markerPatterns = []*regexp.Regexp{
	// Numbered outline: "1.", "1.2", "2.3.4.1", followed by separator.
	regexp.MustCompile(`(?m)^[ \t]*\d+(\.\d+){0,3}[ \t]*[.)-][ \t]+`),
	// Single-letter outline: "a)", "b.".
	regexp.MustCompile(`(?m)^[ \t]*[a-zA-Z][ \t]*[.)-][ \t]+`),
	// Section headings alone on a line, optional trailing colon/dash.
	regexp.MustCompile(`(?m)^[ \t]*(TERM|TERMINATION|PAYMENT|CONFIDENTIALITY|LIABILITY|INDEMNITY|GOVERNING LAW|JURISDICTION|ARBITRATION)[ \t]*[:\-]?[ \t]*$`),
	// Devanagari heading vocabulary for pre-translation headings that
	// survive normalization.
	regexp.MustCompile(`(?m)^[ \t]*(अवधि|समाप्ति|भुगतान|गोपनीयता|दायित्व|क्षतिपूर्ति|शासन कानून|क्षेत्राधिकार|मध्यस्थता)[ \t]*[:\-]?[ \t]*$`),
}

var (
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
	crlfOrCR    = strings.NewReplacer("\r\n", "\n", "\r", "\n")
	paragraphPt = regexp.MustCompile(`\n\s*\n`)
)

// Normalize applies conservative cleanup only: aggressive rewriting can
// change legal meaning. Line endings are unified, space runs collapsed and
// blank-line runs reduced to one blank line.
func Normalize(text string) string {
	t := crlfOrCR.Replace(text)
	t = spaceRuns.ReplaceAllString(t, " ")
	t = blankRuns.ReplaceAllString(t, "\n\n")
	return strings.TrimSpace(t)
}

// Segment partitions text into clauses. Marker start offsets from all
// families are pooled, deduplicated and sorted; each offset opens a clause
// that runs to the next offset (the last runs to end of text). Text before
// the first marker becomes a leading clause so that no input is dropped.
// With no markers at all, paragraphs separated by blank lines are used.
// Spans that trim to nothing are discarded rather than emitted empty.
func Segment(text string) []domain.Clause {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	starts := markerStarts(text)
	if len(starts) == 0 {
		return byParagraph(text)
	}
	if starts[0] != 0 {
		starts = append([]int{0}, starts...)
	}

	clauses := make([]domain.Clause, 0, len(starts))
	for i, s := range starts {
		e := len(text)
		if i+1 < len(starts) {
			e = starts[i+1]
		}
		span := strings.TrimSpace(text[s:e])
		if span == "" {
			continue
		}
		clauses = append(clauses, domain.Clause{
			ID:   clauseID(len(clauses) + 1),
			Text: span,
		})
	}
	return clauses
}

func markerStarts(text string) []int {
	seen := make(map[int]struct{})
	starts := make([]int, 0, 32)
	for _, pat := range markerPatterns {
		for _, loc := range pat.FindAllStringIndex(text, -1) {
			if _, ok := seen[loc[0]]; ok {
				continue
			}
			seen[loc[0]] = struct{}{}
			starts = append(starts, loc[0])
		}
	}
	sort.Ints(starts)
	return starts
}

func byParagraph(text string) []domain.Clause {
	var clauses []domain.Clause
	for _, p := range paragraphPt.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		clauses = append(clauses, domain.Clause{
			ID:   clauseID(len(clauses) + 1),
			Text: p,
		})
	}
	return clauses
}

func clauseID(n int) string {
	return fmt.Sprintf("C%03d", n)
}
