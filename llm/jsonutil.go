package llm

import (
	"regexp"
	"strings"
)

// Patterns for pulling JSON out of model responses, which often wrap it in
// markdown fences or pad it with commentary.
var (
	fencedObjectPattern = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\{.*\\})\\s*```")
	bareObjectPattern   = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	fencedArrayPattern  = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(\\[.*\\])\\s*```")
	bareArrayPattern    = regexp.MustCompile(`(?s)\[[\s\S]*\]`)
	trailingCommaFixup  = regexp.MustCompile(`,\s*([}\]])`)
)

// ExtractJSONObject pulls a JSON object out of a model response, handling
// markdown code fences, line comments, and trailing commas. Returns "" when
// no object is present.
func ExtractJSONObject(content string) string {
	if m := fencedObjectPattern.FindStringSubmatch(content); len(m) > 1 {
		return cleanJSON(m[1])
	}
	if m := bareObjectPattern.FindString(content); m != "" {
		return cleanJSON(m)
	}
	return ""
}

// ExtractJSONArray pulls a JSON array out of a model response.
func ExtractJSONArray(content string) string {
	if m := fencedArrayPattern.FindStringSubmatch(content); len(m) > 1 {
		return cleanJSON(m[1])
	}
	if m := bareArrayPattern.FindString(content); m != "" {
		return cleanJSON(m)
	}
	return ""
}

// cleanJSON strips the invalid-JSON artifacts models commonly produce:
// JavaScript-style // comments (outside string values) and trailing commas.
func cleanJSON(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, stripLineComment(line))
	}
	result := strings.Join(cleaned, "\n")
	return trailingCommaFixup.ReplaceAllString(result, "$1")
}

// stripLineComment removes a // comment from a JSON line without touching
// occurrences inside string values (URLs in particular).
func stripLineComment(line string) string {
	if !strings.Contains(line, "//") {
		return line
	}

	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if !inString && ch == '/' && i+1 < len(line) && line[i+1] == '/' {
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}
