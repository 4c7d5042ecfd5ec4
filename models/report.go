package models

import (
	"encoding/json"
	"time"

	"issue-analyze-service/taxonomy"
)

// StatusPending is the initial lifecycle value for every new report.
// Transitions (e.g. to RESOLVED) belong to the downstream routing system.
const StatusPending = "PENDING"

// Safety concern tri-state values as the model is asked to emit them.
const (
	SafetyYes     = "Yes"
	SafetyNo      = "No"
	SafetyUnknown = "Unknown"
)

// NonIssueMessage is the fixed explanation returned when the model decides
// the image shows no municipal issue.
const NonIssueMessage = "No Municipal Issue Detected - This appears to be a non-civic matter. " +
	"Please upload images of infrastructure problems, public safety concerns, or municipal service issues."

// FallbackNote marks reports synthesized from unparsable model output.
const FallbackNote = "Fallback response - manual review recommended"

// IssueReport is the normalized analysis record. It is constructed once by
// the parser and never mutated afterwards.
type IssueReport struct {
	Department        taxonomy.Department `json:"department"`
	Priority          taxonomy.Priority   `json:"priority"`
	Description       string              `json:"description"`
	LocationDetails   string              `json:"location_details"`
	RecommendedAction string              `json:"recommended_action"`
	SafetyConcern     string              `json:"safety_concern"`
	ConfidenceScore   float64             `json:"confidence_score"`
	Timestamp         time.Time           `json:"timestamp"`
	Status            string              `json:"status"`
	Note              string              `json:"note,omitempty"`

	// Extra carries model-supplied keys outside the known schema. They are
	// passed through unvalidated and flattened into the JSON object.
	Extra map[string]any `json:"-"`
}

// MarshalJSON flattens Extra into the top-level object. Known fields win
// over extras on key collision.
func (r IssueReport) MarshalJSON() ([]byte, error) {
	type alias IssueReport
	known, err := json.Marshal(alias(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return known, nil
	}

	merged := make(map[string]any, len(r.Extra)+10)
	for k, v := range r.Extra {
		merged[k] = v
	}
	var fields map[string]any
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for k, v := range fields {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// ErrorResponse is the uniform shape for unrecoverable analysis failures.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// MessageResponse is a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}
