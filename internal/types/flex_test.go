package types

import (
	"encoding/json"
	"testing"

	"foodbridge/internal/tester"
)

func TestFlexString_Unmarshal(t *testing.T) {
	cases := map[string]FlexString{
		`"3 kg"`:       "3 kg",
		`3`:            "3",
		`2.5`:          "2.5",
		`true`:         "true",
		`{"a": 1}`:     `{"a":1}`,
		`[ 1, 2 ]`:     "[1,2]",
		`"with \"q\""`: `with "q"`,
	}
	for in, want := range cases {
		var got FlexString
		tester.NoErr(t, json.Unmarshal([]byte(in), &got), in)
		tester.Eq(t, got, want, in)
	}
}

func TestFlexString_NullKeepsValue(t *testing.T) {
	v := struct {
		S FlexString `json:"s"`
	}{S: "kept"}
	tester.NoErr(t, json.Unmarshal([]byte(`{"s":null}`), &v))
	tester.Eq(t, v.S, FlexString("kept"))
}

func TestMatch_MarshalWritesRawText(t *testing.T) {
	m := Match{RecipientID: "Kids Kitchen", Reasoning: "x", RawDonationID: "D-7", RawScore: "high"}
	b, err := json.Marshal(m)
	tester.NoErr(t, err)
	tester.Contains(t, string(b), `"donation_id":"D-7"`)
	tester.Contains(t, string(b), `"score":"high"`)
	tester.NotContains(t, string(b), "RawScore")

	var back Match
	tester.NoErr(t, json.Unmarshal(b, &back))
	tester.Eq(t, back, m)
}

func TestMatch_MarshalNumeric(t *testing.T) {
	b, err := json.Marshal(Match{DonationID: 4, RecipientID: "Downtown Shelter", Score: 92.5, Reasoning: "fresh"})
	tester.NoErr(t, err)
	tester.Eq(t, string(b), `{"recipient_id":"Downtown Shelter","reasoning":"fresh","donation_id":4,"score":92.5}`)
}

func TestParseID(t *testing.T) {
	for in, want := range map[string]int64{"1": 1, " 42 ": 42, "2.0": 2, "3e0": 3, "-5": -5} {
		got, ok := parseID(in)
		tester.True(t, ok, in)
		tester.Eq(t, got, want, in)
	}
	for _, in := range []string{"", "abc", "1.5", "D-7", "1e400"} {
		_, ok := parseID(in)
		tester.False(t, ok, in)
	}
}
