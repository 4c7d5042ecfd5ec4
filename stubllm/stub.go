package stubllm

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Client is a deterministic, no-network LLM stub intended for CI and local
// end-to-end tests. It returns schema-valid JSON so normalization and the
// HTTP surface exercise the full pipeline.
type Client struct{}

func NewClient() *Client { return &Client{} }

func (c *Client) SourceName() string { return "Stub" }

func (c *Client) AnalyzeImage(promptText string, imageData []byte) (string, error) {
	// Deterministic per-input so the pipeline is stable in CI.
	sum := sha256.Sum256(imageData)
	short := hex.EncodeToString(sum[:8])

	out := map[string]any{
		"department":         "ROADS",
		"priority":           "MEDIUM",
		"description":        fmt.Sprintf("Stubbed pothole analysis (%s)", short),
		"location_details":   "Not specified",
		"recommended_action": "Dispatch road maintenance crew",
		"safety_concern":     "No",
		"confidence_score":   0.9,
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
