// Package extract recovers a JSON object from free-form model output.
//
// Model responses may be clean JSON, JSON wrapped in prose or markdown fences,
// or truncated. Extract tries a direct parse first and otherwise slices the
// first balanced {...} block out of the text.
//
// The brace walk is structural only: '{' and '}' inside string literals are
// counted like any other brace. A value such as {"copy": "use } wisely"} will
// therefore close early and surface as a JSONParseError. Swapping the walk for
// a tokenizer that tracks string state would remove that limitation.
package extract

import (
	"encoding/json"
	"strings"
)

// Extract returns the JSON value contained in text.
//
// Well-formed JSON of any kind is returned as parsed. Anything else is reduced
// to the first balanced object starting at the first '{'.
func Extract(text string) (value interface{}, err error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		err = &EmptyOutputError{}
		return value, err
	}

	// Fast path: the whole output is valid JSON.
	if json.Unmarshal([]byte(trimmed), &value) == nil {
		return value, err
	}
	value = nil

	var candidate string
	candidate, err = balancedObject(trimmed)
	if err != nil {
		return value, err
	}

	parseErr := json.Unmarshal([]byte(candidate), &value)
	if parseErr != nil {
		value = nil
		err = &JSONParseError{Candidate: candidate, Err: parseErr}
		return value, err
	}

	return value, err
}

// Object is Extract restricted to JSON objects, which is what every pipeline
// stage expects back from the model.
func Object(text string) (obj map[string]interface{}, err error) {
	var value interface{}
	value, err = Extract(text)
	if err != nil {
		return obj, err
	}

	var ok bool
	obj, ok = value.(map[string]interface{})
	if !ok {
		err = &NotObjectError{Text: strings.TrimSpace(text)}
		return obj, err
	}

	return obj, err
}

// balancedObject slices text from the first '{' to the brace that brings the
// depth back to zero, inclusive.
func balancedObject(text string) (candidate string, err error) {
	start := strings.IndexByte(text, '{')
	if start == -1 {
		err = &NoJSONStartError{Text: text}
		return candidate, err
	}

	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate = text[start : i+1]
				return candidate, err
			}
		}
	}

	err = &UnbalancedJSONError{Text: text}
	return candidate, err
}
