package interpret

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/cragerr"
	"github.com/Divyapahuja31/ASKMYNOTES/pkg/crag/prompt"
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "High"
	ConfidenceMedium Confidence = "Medium"
	ConfidenceLow    Confidence = "Low"
)

// Result is the tagged outcome of interpreting raw model output. NotFound is
// the tag: when true the remaining fields are zero and callers must not read
// them. Refusal is decided exactly once here; downstream code only checks
// the tag, never the sentinel string.
type Result struct {
	NotFound   bool
	Answer     string
	Confidence Confidence
	Evidence   []string
}

// Interpret parses raw model text against the strict output contract:
// either the canonical refusal sentinel for subjectName, or a JSON object
// with exactly the keys answer, confidence, evidence, found. Anything else
// is a GenerationParseFailure; no repair is attempted beyond locating the
// first balanced JSON object.
func Interpret(raw string, subjectName string) (*Result, error) {
	text := stripCodeFences(strings.TrimSpace(raw))

	if text == prompt.NotFoundSentinel(subjectName) {
		return &Result{NotFound: true}, nil
	}

	jsonText, err := ExtractFirstJSONObject(text)
	if err != nil {
		return nil, cragerr.GenerationParse(err.Error())
	}

	return validateContract(jsonText)
}

// stripCodeFences removes one enclosing markdown fence pair, with or without
// a language tag. Inner content is untouched.
func stripCodeFences(text string) string {
	if !strings.HasPrefix(text, "```") {
		return text
	}
	stripped := strings.TrimPrefix(text, "```")
	if idx := strings.Index(stripped, "\n"); idx >= 0 {
		// drop the language tag line ("json", "JSON", or empty)
		firstLine := strings.TrimSpace(stripped[:idx])
		if len(firstLine) <= 10 && !strings.ContainsAny(firstLine, "{}") {
			stripped = stripped[idx+1:]
		}
	}
	stripped = strings.TrimSuffix(strings.TrimSpace(stripped), "```")
	return strings.TrimSpace(stripped)
}

// ExtractFirstJSONObject scans for the first balanced JSON object substring.
// Braces inside string literals do not affect nesting depth, and escaped
// quotes do not terminate strings. A truncated object fails closed.
func ExtractFirstJSONObject(text string) (string, error) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in model output")
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in model output")
}

type contractPayload struct {
	Answer     string   `json:"answer"`
	Confidence string   `json:"confidence"`
	Evidence   []string `json:"evidence"`
	Found      bool     `json:"found"`
}

// validateContract enforces the exact four-key schema. Extra keys, missing
// keys, a non-enum confidence, or a malformed evidence list all fail.
func validateContract(jsonText string) (*Result, error) {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonText), &keys); err != nil {
		return nil, cragerr.GenerationParse(fmt.Sprintf("invalid JSON: %v", err))
	}

	required := []string{"answer", "confidence", "evidence", "found"}
	if len(keys) != len(required) {
		return nil, cragerr.GenerationParse(fmt.Sprintf("expected exactly 4 keys, got %d", len(keys)))
	}
	for _, k := range required {
		if _, ok := keys[k]; !ok {
			return nil, cragerr.GenerationParse(fmt.Sprintf("missing required key %q", k))
		}
	}

	var payload contractPayload
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return nil, cragerr.GenerationParse(fmt.Sprintf("contract fields malformed: %v", err))
	}

	switch Confidence(payload.Confidence) {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow:
	default:
		return nil, cragerr.GenerationParse(fmt.Sprintf("confidence %q is not one of High, Medium, Low", payload.Confidence))
	}

	if payload.Evidence == nil {
		return nil, cragerr.GenerationParse("evidence must be a string list")
	}

	if !payload.Found {
		return &Result{NotFound: true}, nil
	}

	return &Result{
		Answer:     payload.Answer,
		Confidence: Confidence(payload.Confidence),
		Evidence:   payload.Evidence,
	}, nil
}
