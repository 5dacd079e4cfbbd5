package jsonutil

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedResponse is matched by every failure of Normalize.
var ErrMalformedResponse = errors.New("jsonutil: malformed model response")

// MalformedResponseError records why a reply could not be parsed.
// Err is the failure of the last strategy that was tried.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	if e.Err == nil {
		return ErrMalformedResponse.Error()
	}
	return fmt.Sprintf("%s: %v", ErrMalformedResponse.Error(), e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

var errNotObject = errors.New("payload is not a JSON object")

// Normalize turns a model reply into a typed value:
// 1) ParseStrict on the reply as is
// 2) ParseFenced, which strips surrounding code fences first
// Values are not checked beyond their JSON structure.
func Normalize[T any](text string) (T, error) {
	if v, err := ParseStrict[T](text); err == nil {
		return v, nil
	}
	v, err := ParseFenced[T](text)
	if err != nil {
		var zero T
		return zero, &MalformedResponseError{Raw: text, Err: err}
	}
	return v, nil
}

// ParseStrict decodes text, which must hold a single JSON object.
func ParseStrict[T any](text string) (T, error) {
	var out T
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return out, errors.New("empty payload")
	}
	if trimmed[0] != '{' {
		return out, errNotObject
	}
	if err := json.Unmarshal([]byte(trimmed), &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// ParseFenced strips a leading and trailing code fence and decodes the rest.
func ParseFenced[T any](text string) (T, error) {
	return ParseStrict[T](StripCodeFence(text))
}

// StripCodeFence removes a leading fence with an optional language tag
// ("```json") and a trailing fence, plus surrounding whitespace.
// Text without fences is only trimmed.
func StripCodeFence(text string) string {
	const fence = "```"
	s := strings.TrimSpace(text)
	if strings.HasPrefix(s, fence) {
		s = s[len(fence):]
		// language tag runs up to the first newline or the first non-letter
		i := 0
		for i < len(s) && isTagByte(s[i]) {
			i++
		}
		s = s[i:]
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, fence)
	return strings.TrimSpace(s)
}

func isTagByte(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '-' || b == '_' || b == '+'
}
