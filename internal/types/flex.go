package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FlexString is a text field of a model reply. A JSON string decodes to its
// value; any other JSON value keeps its literal text (3 -> "3", true -> "true").
// null leaves the field unchanged.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return err
		}
		*s = FlexString(v)
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return err
	}
	*s = FlexString(buf.String())
	return nil
}

func (s FlexString) String() string { return string(s) }

// scalarText returns the text of a JSON scalar: the value of a string, the
// literal of anything else. It reports false for null or an absent field.
func scalarText(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false
	}
	if trimmed[0] == '"' {
		var v string
		if err := json.Unmarshal(trimmed, &v); err != nil {
			return string(trimmed), true
		}
		return v, true
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed), true
	}
	return buf.String(), true
}

// parseID reads an integer id. Integral floats ("2.0", 2e0) are accepted.
func parseID(text string) (int64, bool) {
	text = strings.TrimSpace(text)
	if n, err := strconv.ParseInt(text, 10, 64); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

func parseScore(text string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
