package ollama

import (
	"regexp"
	"strings"
)

var (
	openFenceJSON = regexp.MustCompile(`^\s*` + "```" + `json\s*`)
	openFence     = regexp.MustCompile(`^\s*` + "```" + `\s*`)
	closeFence    = regexp.MustCompile(`\s*` + "```" + `\s*$`)
)

// stripCodeFences removes a leading ```json / ``` fence and a trailing
// ``` fence. Models add these no matter how firmly the prompt forbids it.
func stripCodeFences(text string) string {
	t := strings.TrimSpace(text)
	t = openFenceJSON.ReplaceAllString(t, "")
	t = openFence.ReplaceAllString(t, "")
	t = closeFence.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}

// extractJSONObject returns the substring from the first '{' to the last
// '}', or "" when no such region exists. Robust against leading and
// trailing prose around the object.
func extractJSONObject(text string) string {
	t := strings.TrimSpace(text)
	start := strings.Index(t, "{")
	end := strings.LastIndex(t, "}")
	if start == -1 || end <= start {
		return ""
	}
	return strings.TrimSpace(t[start : end+1])
}

// firstNonEmpty returns the first non-empty candidate, used to fold model
// key variants (explanation/explain, risk_reason/"risk reason") into the
// canonical field.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if strings.TrimSpace(c) != "" {
			return c
		}
	}
	return ""
}
