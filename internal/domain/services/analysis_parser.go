package services

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/jianancybercoder/nextDoppl/internal/domain/entities"
	"github.com/jianancybercoder/nextDoppl/model"
)

// AnalysisParser turns the free-form text of a model reply into a fully
// populated AnalysisReport. Extraction is layered: a strict parse of an
// embedded JSON block first, then per-field heuristics over the raw text.
// Neither layer ever fails — fields that cannot be recovered keep their
// defaults, because a malformed analysis block must not sink an otherwise
// successful generation.
type AnalysisParser struct{}

func NewAnalysisParser() *AnalysisParser {
	return &AnalysisParser{}
}

var (
	taggedFencePattern   = regexp.MustCompile("(?si)```json\\s*(.*?)```")
	anyFencePattern      = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*(.*?)```")
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

func (p *AnalysisParser) Parse(rawText string) *entities.AnalysisReport {
	report := entities.NewAnalysisReport(rawText)

	if payload, ok := parseStructured(rawText); ok {
		mergePayload(report, payload)
		return report
	}

	if strings.TrimSpace(rawText) != "" {
		applyHeuristics(rawText, report)
	}

	return report
}

// parseStructured is the strict stage: find the most likely JSON region,
// repair trailing commas, unmarshal. A parse that succeeds is authoritative
// even when fields are missing.
func parseStructured(rawText string) (*model.AnalysisPayload, bool) {
	candidate, ok := structuredCandidate(rawText)
	if !ok {
		return nil, false
	}

	candidate = trailingCommaPattern.ReplaceAllString(candidate, "$1")

	var payload model.AnalysisPayload
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, false
	}
	return &payload, true
}

// structuredCandidate picks the JSON region to try: a ```json fence first,
// then any fence, then the first balanced brace region in the raw text.
func structuredCandidate(rawText string) (string, bool) {
	if m := taggedFencePattern.FindStringSubmatch(rawText); m != nil {
		return m[1], true
	}
	if m := anyFencePattern.FindStringSubmatch(rawText); m != nil {
		return m[1], true
	}
	return balancedBraceRegion(rawText)
}

// balancedBraceRegion returns the first top-level {...} region, tracking
// string literals so braces inside quoted text don't unbalance the scan.
func balancedBraceRegion(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			escaped = inString
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					return s[start : i+1], true
				}
			}
		}
	}
	return "", false
}

// mergePayload copies every field the payload actually carried over the
// defaults; absent fields keep placeholder text or score 5.
func mergePayload(report *entities.AnalysisReport, payload *model.AnalysisPayload) {
	if payload.Comfort != nil {
		report.SetComfort(*payload.Comfort)
	}
	if payload.Weight != nil {
		report.SetWeight(*payload.Weight)
	}
	if payload.Touch != nil {
		report.SetTouch(*payload.Touch)
	}
	if payload.Breathability != nil {
		report.SetBreathability(*payload.Breathability)
	}

	if payload.Scores == nil {
		return
	}

	scores := report.Scores()
	for _, field := range []struct {
		value model.FlexInt
		dst   *int
	}{
		{payload.Scores.Comfort, &scores.Comfort},
		{payload.Scores.Heaviness, &scores.Heaviness},
		{payload.Scores.Softness, &scores.Softness},
		{payload.Scores.Breathability, &scores.Breathability},
		{payload.Scores.Elasticity, &scores.Elasticity},
	} {
		if field.value.Valid {
			*field.dst = field.value.Value
		}
	}
	report.SetScores(scores)
}

var scoreHeuristics = []struct {
	pattern *regexp.Regexp
	set     func(*entities.AnalysisScores, int)
}{
	{scorePattern("comfort"), func(s *entities.AnalysisScores, v int) { s.Comfort = v }},
	{scorePattern("heaviness|weight"), func(s *entities.AnalysisScores, v int) { s.Heaviness = v }},
	{scorePattern("softness|touch"), func(s *entities.AnalysisScores, v int) { s.Softness = v }},
	{scorePattern("breathability"), func(s *entities.AnalysisScores, v int) { s.Breathability = v }},
	{scorePattern("elasticity"), func(s *entities.AnalysisScores, v int) { s.Elasticity = v }},
}

func scorePattern(keys string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)"?(?:` + keys + `)"?\s*:\s*"?(\d{1,2})"?`)
}

func narrativePattern(key string) *regexp.Regexp {
	// Require a letter in the value so a quoted number keeps reading as a
	// score, not as prose.
	return regexp.MustCompile(`(?i)"` + key + `"\s*:\s*"([^"]*[a-zA-Z][^"]*)"`)
}

var narrativeHeuristics = []struct {
	pattern *regexp.Regexp
	set     func(*entities.AnalysisReport, string)
}{
	{narrativePattern("comfort"), (*entities.AnalysisReport).SetComfort},
	{narrativePattern("weight"), (*entities.AnalysisReport).SetWeight},
	{narrativePattern("touch"), (*entities.AnalysisReport).SetTouch},
	{narrativePattern("breathability"), (*entities.AnalysisReport).SetBreathability},
}

// applyHeuristics is the fallback stage: regex over the raw text, first
// match per field, each hit overwriting only its own field.
func applyHeuristics(rawText string, report *entities.AnalysisReport) {
	scores := report.Scores()
	for _, h := range scoreHeuristics {
		if m := h.pattern.FindStringSubmatch(rawText); m != nil {
			if v, err := strconv.Atoi(m[1]); err == nil {
				h.set(&scores, v)
			}
		}
	}
	report.SetScores(scores)

	for _, h := range narrativeHeuristics {
		if m := h.pattern.FindStringSubmatch(rawText); m != nil {
			h.set(report, m[1])
		}
	}
}
