package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors for the generative-backend failure taxonomy. Both cause the
// caller to take its deterministic fallback path; neither ever escapes a
// pipeline component.
var (
	// ErrBackendUnavailable means no generative backend client was configured.
	ErrBackendUnavailable = errors.New("generative backend not configured")

	// ErrMalformedOutput means the backend responded, but the response could
	// not be turned into the required JSON shape even after repair.
	ErrMalformedOutput = errors.New("malformed model output")
)

var (
	trailingCommaObjRe = regexp.MustCompile(`,\s*}`)
	trailingCommaArrRe = regexp.MustCompile(`,\s*]`)
)

// decodeModelJSON parses a model response into target, repairing the common
// ways models mangle JSON: markdown code fences, prose around the object, and
// trailing commas. Attempts run in order: direct parse, brace-delimited block,
// trailing-comma repair. Failure wraps ErrMalformedOutput.
func decodeModelJSON(response string, target interface{}) error {
	text := stripMarkdownFences(response)

	if err := json.Unmarshal([]byte(text), target); err == nil {
		return nil
	}

	block := extractJSONBlock(text)
	if block == "" {
		return fmt.Errorf("%w: no JSON object found in response", ErrMalformedOutput)
	}

	if err := json.Unmarshal([]byte(block), target); err == nil {
		return nil
	}

	cleaned := trailingCommaObjRe.ReplaceAllString(block, "}")
	cleaned = trailingCommaArrRe.ReplaceAllString(cleaned, "]")
	if err := json.Unmarshal([]byte(cleaned), target); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	return nil
}

// stripMarkdownFences removes ```json ... ``` wrappers that models add even
// when told to return bare JSON.
func stripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// extractJSONBlock returns the first {...} span of text, or "" when none.
func extractJSONBlock(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}
