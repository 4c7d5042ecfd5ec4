// Package parser normalizes raw vision-model output into issue reports.
// It is deliberately lenient: models wrap JSON in markdown fences, misspell
// enum values, and sometimes answer in prose. Whatever comes in, Normalize
// produces a usable outcome and never fails.
package parser

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"issue-analyze-service/models"
	"issue-analyze-service/prompt"
	"issue-analyze-service/taxonomy"
)

// Outcome tags the three normalization results.
type Outcome int

const (
	// OutcomeReport is a well-formed report parsed from model JSON.
	OutcomeReport Outcome = iota
	// OutcomeFallback is a best-effort report synthesized from unparsable text.
	OutcomeFallback
	// OutcomeNoIssue means the model found no municipal issue in the image.
	OutcomeNoIssue
)

// Result is the normalized outcome of one model response.
type Result struct {
	Outcome Outcome
	// Report is set for OutcomeReport and OutcomeFallback.
	Report *models.IssueReport
	// Message is set for OutcomeNoIssue.
	Message string
}

const (
	fenceOpen  = "```json"
	fenceClose = "```"

	maxFallbackDescription = 200
)

// negativeSignals are phrases that indicate a "no issue" verdict delivered
// as prose instead of the sentinel token. Matched case-insensitively against
// the untouched raw text.
var negativeSignals = []string{
	"no municipal",
	"no civic",
	"not a municipal",
	"personal item",
	"non-civic",
}

// Normalize classifies raw model output as a no-issue verdict, a structured
// report, or a fallback report. It never returns an error: malformed output
// degrades into a fallback record by design.
func Normalize(raw string) *Result {
	trimmed := strings.TrimSpace(raw)

	// The model is asked for an exact token but is not perfectly reliable,
	// so containment is the tolerant check. Case-insensitive on both the
	// sentinel and the prose signals below.
	if strings.Contains(strings.ToUpper(trimmed), prompt.NonCivicSentinel) {
		return &Result{Outcome: OutcomeNoIssue, Message: models.NonIssueMessage}
	}

	candidate := stripCodeFence(trimmed)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		lower := strings.ToLower(raw)
		for _, signal := range negativeSignals {
			if strings.Contains(lower, signal) {
				return &Result{Outcome: OutcomeNoIssue, Message: models.NonIssueMessage}
			}
		}
		return &Result{Outcome: OutcomeFallback, Report: fallbackReport(raw)}
	}

	return &Result{Outcome: OutcomeReport, Report: buildReport(parsed)}
}

// stripCodeFence removes a leading ```json marker and a trailing ``` marker
// when present. Anything else is returned unchanged for the JSON parse to
// judge.
func stripCodeFence(s string) string {
	if strings.HasPrefix(s, fenceOpen) {
		s = s[len(fenceOpen):]
	}
	if strings.HasSuffix(s, fenceClose) {
		s = s[:len(s)-len(fenceClose)]
	}
	return strings.TrimSpace(s)
}

// buildReport validates a parsed object and constructs the final report.
// Required keys default to "UNKNOWN", enums are coerced into their closed
// sets, and timestamp/status are set here and only here. Unknown keys are
// carried through untouched.
func buildReport(parsed map[string]any) *models.IssueReport {
	report := &models.IssueReport{
		Timestamp: time.Now(),
		Status:    models.StatusPending,
	}

	report.Department, _ = taxonomy.ParseDepartment(stringField(parsed, "department", "UNKNOWN"))
	report.Priority, _ = taxonomy.ParsePriority(stringField(parsed, "priority", "UNKNOWN"))
	report.Description = stringField(parsed, "description", "UNKNOWN")
	report.LocationDetails = stringField(parsed, "location_details", "")
	report.RecommendedAction = stringField(parsed, "recommended_action", "")
	report.SafetyConcern = stringField(parsed, "safety_concern", models.SafetyUnknown)
	report.ConfidenceScore = numericField(parsed, "confidence_score", 0.5)

	known := map[string]bool{
		"department": true, "priority": true, "description": true,
		"location_details": true, "recommended_action": true,
		"safety_concern": true, "confidence_score": true,
		"timestamp": true, "status": true,
	}
	for k, v := range parsed {
		if known[k] {
			continue
		}
		if report.Extra == nil {
			report.Extra = make(map[string]any)
		}
		report.Extra[k] = v
	}

	return report
}

// fallbackReport synthesizes a best-effort record from unparsable output.
func fallbackReport(raw string) *models.IssueReport {
	return &models.IssueReport{
		Department:        taxonomy.DefaultDepartment,
		Priority:          taxonomy.DefaultPriority,
		Description:       truncate(raw, maxFallbackDescription),
		LocationDetails:   "Not specified",
		RecommendedAction: "Manual review required",
		SafetyConcern:     models.SafetyUnknown,
		ConfidenceScore:   0.5,
		Timestamp:         time.Now(),
		Status:            models.StatusPending,
		Note:              models.FallbackNote,
	}
}

func stringField(parsed map[string]any, key, fallback string) string {
	v, ok := parsed[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fallback
	}
	return string(b)
}

// numericField reads a float, tolerating models that quote numbers.
func numericField(parsed map[string]any, key string, fallback float64) float64 {
	v, ok := parsed[key]
	if !ok || v == nil {
		return fallback
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(t), 64); err == nil {
			return f
		}
	}
	return fallback
}

// truncate limits s to max characters, never splitting a multibyte rune.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
