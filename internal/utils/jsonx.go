package utils

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseLLMJSON extracts and parses a JSON value out of text produced by a
// generation backend. The text may be pure JSON, JSON inside a fenced code
// block, or JSON surrounded by prose. Parsing is attempted in that order.
func ParseLLMJSON(input string, target any) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("empty input")
	}

	if err := json.Unmarshal([]byte(input), target); err == nil {
		return nil
	}

	if extracted := extractFenced(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if extracted := extractBraceSpan(input); extracted != "" {
		if err := json.Unmarshal([]byte(extracted), target); err == nil {
			return nil
		}
	}

	if cleaned := repairJSON(input); cleaned != "" {
		if err := json.Unmarshal([]byte(cleaned), target); err == nil {
			return nil
		}
	}

	return fmt.Errorf("no parseable JSON in input: %s", Truncate(input, 100))
}

// ParseLLMObject parses a JSON object with the same fallback chain.
func ParseLLMObject(input string) (map[string]any, error) {
	var result map[string]any
	if err := ParseLLMJSON(input, &result); err != nil {
		return nil, err
	}
	return result, nil
}

var (
	fencedJSON = regexp.MustCompile("(?s)```json\\s*(.+?)\\s*```")
	fencedAny  = regexp.MustCompile("(?s)```\\s*(.+?)\\s*```")
)

func extractFenced(input string) string {
	if m := fencedJSON.FindStringSubmatch(input); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	if m := fencedAny.FindStringSubmatch(input); len(m) > 1 {
		content := strings.TrimSpace(m[1])
		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			return content
		}
	}
	return ""
}

// extractBraceSpan finds the first balanced JSON object or array in text,
// ignoring braces inside string literals.
func extractBraceSpan(input string) string {
	if start := strings.IndexByte(input, '{'); start >= 0 {
		if span := balancedSpan(input[start:], '{', '}'); span != "" {
			return span
		}
	}
	if start := strings.IndexByte(input, '['); start >= 0 {
		if span := balancedSpan(input[start:], '[', ']'); span != "" {
			return span
		}
	}
	return ""
}

func balancedSpan(input string, open, close rune) string {
	depth := 0
	inString := false
	escape := false
	start := 0

	for i, ch := range input {
		if escape {
			escape = false
			continue
		}
		switch {
		case ch == '\\':
			escape = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			if depth == 0 {
				start = i
			}
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return input[start : i+1]
			}
		}
	}
	return ""
}

var (
	trailingComma = regexp.MustCompile(`,\s*([}\]])`)
	bareKey       = regexp.MustCompile(`([{,]\s*)(\w+)(\s*:)`)
	controlChars  = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// repairJSON fixes the malformations generation backends commonly produce:
// trailing commas, unquoted keys, stray control characters.
func repairJSON(input string) string {
	s := strings.TrimSpace(input)
	s = strings.TrimPrefix(s, "\ufeff")
	s = trailingComma.ReplaceAllString(s, "$1")
	s = bareKey.ReplaceAllString(s, `$1"$2"$3`)
	s = controlChars.ReplaceAllString(s, "")
	return s
}

// Truncate shortens a string to at most maxLen characters.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
