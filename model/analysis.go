package model

import (
	"bytes"
	"strconv"
)

// AnalysisPayload is the JSON block the model is instructed to append after
// the composited image. All fields are optional on the wire; pointers keep
// "absent" distinguishable from "empty" so the parser can merge field by
// field over the defaults.
type AnalysisPayload struct {
	Comfort       *string       `json:"comfort"`
	Weight        *string       `json:"weight"`
	Touch         *string       `json:"touch"`
	Breathability *string       `json:"breathability"`
	Scores        *ScorePayload `json:"scores"`
}

// ScorePayload carries the five 1-10 sensory scores.
type ScorePayload struct {
	Comfort       FlexInt `json:"comfort"`
	Heaviness     FlexInt `json:"heaviness"`
	Softness      FlexInt `json:"softness"`
	Breathability FlexInt `json:"breathability"`
	Elasticity    FlexInt `json:"elasticity"`
}

// FlexInt tolerates scores arriving as numbers, numeric strings or floats.
// Anything else leaves the value unset instead of failing the whole payload.
type FlexInt struct {
	Value int
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	if s == "" || s == "null" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		f.Value = n
		f.Valid = true
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		f.Value = int(fl)
		f.Valid = true
	}
	return nil
}
