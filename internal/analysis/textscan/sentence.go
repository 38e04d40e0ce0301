// Package textscan holds the pattern scanners that run over the full
// normalized contract text: ambiguity detection, deontic statement
// extraction and entity extraction. All scanners are pure functions of
// their input and safe to run concurrently.
package textscan

import (
	"regexp"
	"strings"
)

// Sentence-like units end at a period, semicolon, colon or newline that is
// followed by whitespace. The boundary character stays with its unit.
var unitBoundary = regexp.MustCompile(`[.;:\n]\s+`)

func splitUnits(text string) []string {
	units := make([]string, 0, 32)
	last := 0
	for _, loc := range unitBoundary.FindAllStringIndex(text, -1) {
		units = append(units, text[last:loc[0]+1])
		last = loc[1]
	}
	if last < len(text) {
		units = append(units, text[last:])
	}
	return units
}

var innerSpace = regexp.MustCompile(`\s+`)

func collapseSpace(s string) string {
	return innerSpace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// dedupeFold removes case-insensitive duplicates, keeping first-seen order.
func dedupeFold(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		key := strings.ToLower(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
