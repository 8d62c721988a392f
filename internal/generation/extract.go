package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	errNoJSON   = errors.New("no JSON object found in response")
	errBadJSON  = errors.New("malformed JSON object in response")
	sectionKeys = []string{"summary", "skills", "experience", "education"}
)

// ExtractJSON returns the first balanced {...} span in text decoded as an object.
// Braces inside JSON strings are ignored. When several objects appear, only the
// first balanced one is considered; if it does not decode, ok is false.
func ExtractJSON(text string) (map[string]any, bool) {
	obj, err := extractObject(text)
	if err != nil {
		return nil, false
	}
	return obj, true
}

func extractObject(text string) (map[string]any, error) {
	span, ok := firstBalancedObject(text)
	if !ok {
		return nil, errNoJSON
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(span), &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadJSON, err)
	}
	return obj, nil
}

func firstBalancedObject(text string) (string, bool) {
	start := strings.IndexByte(text, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}

// ParseSections turns raw model output into sections. Missing keys become "".
func ParseSections(text string) (GeneratedSections, error) {
	obj, err := extractObject(text)
	if err != nil {
		return GeneratedSections{}, err
	}
	return GeneratedSections{
		Summary:    stringField(obj, sectionKeys[0]),
		Skills:     stringField(obj, sectionKeys[1]),
		Experience: stringField(obj, sectionKeys[2]),
		Education:  stringField(obj, sectionKeys[3]),
	}, nil
}

// stringField reads a string value; lists of scalars are joined with ", ".
// Anything else counts as missing.
func stringField(obj map[string]any, key string) string {
	switch v := obj[key].(type) {
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			switch s := item.(type) {
			case string:
				parts = append(parts, s)
			case float64, bool:
				parts = append(parts, fmt.Sprint(s))
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}
