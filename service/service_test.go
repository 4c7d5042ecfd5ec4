package service

import (
	"errors"
	"image"
	"strings"
	"testing"

	"issue-analyze-service/models"
	"issue-analyze-service/prompt"
	"issue-analyze-service/taxonomy"
)

// scriptedClient returns a canned response or error for every call.
type scriptedClient struct {
	response string
	err      error

	gotPrompt string
	gotImage  []byte
}

func (c *scriptedClient) AnalyzeImage(promptText string, imageData []byte) (string, error) {
	c.gotPrompt = promptText
	c.gotImage = imageData
	return c.response, c.err
}

func (c *scriptedClient) SourceName() string { return "Scripted" }

func testBitmap() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 4, 4))
}

func TestAnalyzeImageReport(t *testing.T) {
	client := &scriptedClient{
		response: `{"department":"ROADS","priority":"HIGH","description":"pothole","confidence_score":0.9}`,
	}
	analyzer := NewAnalyzerWithClient(client, "test-key")

	result := analyzer.AnalyzeImage(testBitmap())
	if result.Kind != KindReport {
		t.Fatalf("kind = %v, want KindReport", result.Kind)
	}
	if result.Report.Department != taxonomy.Roads {
		t.Errorf("department = %q, want ROADS", result.Report.Department)
	}
	if result.Report.Status != models.StatusPending {
		t.Errorf("status = %q, want PENDING", result.Report.Status)
	}
	if client.gotPrompt != prompt.Text() {
		t.Error("provider was not given the analysis prompt")
	}
	if len(client.gotImage) == 0 {
		t.Error("provider was not given encoded image bytes")
	}
}

func TestAnalyzeImageNoIssue(t *testing.T) {
	client := &scriptedClient{response: prompt.NonCivicSentinel}
	analyzer := NewAnalyzerWithClient(client, "test-key")

	result := analyzer.AnalyzeImage(testBitmap())
	if result.Kind != KindNoIssue {
		t.Fatalf("kind = %v, want KindNoIssue", result.Kind)
	}
	if result.Message != models.NonIssueMessage {
		t.Errorf("message = %q, want the fixed non-issue message", result.Message)
	}
	if result.Report != nil {
		t.Errorf("report = %+v, want nil", result.Report)
	}
}

func TestAnalyzeImageFallback(t *testing.T) {
	client := &scriptedClient{response: "the model rambled instead of answering"}
	analyzer := NewAnalyzerWithClient(client, "test-key")

	result := analyzer.AnalyzeImage(testBitmap())
	if result.Kind != KindFallback {
		t.Fatalf("kind = %v, want KindFallback", result.Kind)
	}
	if result.Report.Note != models.FallbackNote {
		t.Errorf("note = %q, want fallback marker", result.Report.Note)
	}
}

func TestAnalyzeImageMissingAPIKey(t *testing.T) {
	client := &scriptedClient{response: "{}"}
	analyzer := NewAnalyzerWithClient(client, "")

	result := analyzer.AnalyzeImage(testBitmap())
	if result.Kind != KindError {
		t.Fatalf("kind = %v, want KindError", result.Kind)
	}
	if result.Err.Error != "config_error" {
		t.Errorf("error code = %q, want config_error", result.Err.Error)
	}
	if client.gotImage != nil {
		t.Error("provider must not be called when the API key is missing")
	}
}

func TestAnalyzeImageModelFailure(t *testing.T) {
	client := &scriptedClient{err: errors.New("quota exceeded")}
	analyzer := NewAnalyzerWithClient(client, "test-key")

	result := analyzer.AnalyzeImage(testBitmap())
	if result.Kind != KindError {
		t.Fatalf("kind = %v, want KindError", result.Kind)
	}
	if result.Err.Error != "model_invocation_error" {
		t.Errorf("error code = %q, want model_invocation_error", result.Err.Error)
	}
	if !strings.HasPrefix(result.Err.Message, "Failed to analyze the image.") {
		t.Errorf("message = %q, want the analysis failure preamble", result.Err.Message)
	}
}

func TestPublisherConnectedWithoutBroker(t *testing.T) {
	analyzer := NewAnalyzerWithClient(&scriptedClient{}, "test-key")
	if analyzer.PublisherConnected() {
		t.Error("PublisherConnected() = true without a broker connection")
	}
}

func TestAnalyzeSourceLoadFailure(t *testing.T) {
	client := &scriptedClient{response: "{}"}
	analyzer := NewAnalyzerWithClient(client, "test-key")

	result := analyzer.AnalyzeSource("/nonexistent/path/image.jpg")
	if result.Kind != KindError {
		t.Fatalf("kind = %v, want KindError", result.Kind)
	}
	if result.Err.Error != "image_load_error" {
		t.Errorf("error code = %q, want image_load_error", result.Err.Error)
	}
	if client.gotImage != nil {
		t.Error("provider must not be called when the image fails to load")
	}
}
