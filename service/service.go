// Package service orchestrates the analysis pipeline: image load, prompt,
// model invocation, and response normalization, with a single error
// boundary at the outside.
package service

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/apex/log"

	"issue-analyze-service/config"
	"issue-analyze-service/gemini"
	"issue-analyze-service/imageload"
	"issue-analyze-service/llm"
	"issue-analyze-service/metrics"
	"issue-analyze-service/models"
	"issue-analyze-service/openai"
	"issue-analyze-service/parser"
	"issue-analyze-service/prompt"
	"issue-analyze-service/rabbitmq"
)

// ErrConfiguration indicates a missing API credential, detected before any
// network call.
var ErrConfiguration = errors.New("configuration error")

// ErrModelInvocation wraps provider call failures (network, auth, quota).
// Terminal per call; retry policy belongs to the provider client.
var ErrModelInvocation = errors.New("model invocation failed")

// Kind tags the four analysis outcomes surfaced to callers.
type Kind int

const (
	KindReport Kind = iota
	KindFallback
	KindNoIssue
	KindError
)

// Result is the uniform analysis outcome. Exactly one of Report, Message,
// or Err is populated, selected by Kind (Report covers both KindReport and
// KindFallback).
type Result struct {
	Kind    Kind
	Report  *models.IssueReport
	Message string
	Err     *models.ErrorResponse
}

// AnalyzedIssue is the message published for downstream department routing.
type AnalyzedIssue struct {
	Source string              `json:"source"`
	Report *models.IssueReport `json:"report"`
}

// Analyzer runs the image-to-report pipeline. Safe for concurrent use.
type Analyzer struct {
	apiKey    string
	loader    *imageload.Loader
	client    llm.Client
	publisher *rabbitmq.Publisher
}

// NewAnalyzer selects the configured LLM provider and wires the pipeline.
// The RabbitMQ publisher is optional: when the broker is unreachable the
// analyzer still works, it just skips publishing.
func NewAnalyzer(cfg *config.Config) *Analyzer {
	var client llm.Client
	if cfg.LLMProvider == "openai" {
		client = openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		client = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}
	log.WithFields(log.Fields{
		"provider": client.SourceName(),
	}).Info("analyzer LLM provider selected")

	publisher, err := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AnalyzedRoutingKey)
	if err != nil {
		log.WithError(err).Warn("rabbitmq publisher unavailable, analyzed reports will not be published")
		publisher = nil
	}

	return &Analyzer{
		apiKey:    cfg.APIKey(),
		loader:    imageload.NewLoader(),
		client:    client,
		publisher: publisher,
	}
}

// NewAnalyzerWithClient builds an analyzer around an explicit provider,
// used by tests and the CLI harness.
func NewAnalyzerWithClient(client llm.Client, apiKey string) *Analyzer {
	return &Analyzer{
		apiKey: apiKey,
		loader: imageload.NewLoader(),
		client: client,
	}
}

// AnalyzeSource analyzes an image referenced by local path or http(s) URL.
func (a *Analyzer) AnalyzeSource(source string) *Result {
	started := time.Now()

	if a.apiKey == "" {
		return a.finish(started, configErrorResult())
	}

	img, err := a.loader.Load(source)
	if err != nil {
		log.WithError(err).WithField("source", source).Error("failed to load image")
		return a.finish(started, errorResult("image_load_error", err))
	}

	return a.finish(started, a.analyze(img))
}

// AnalyzeImage analyzes an already-decoded bitmap.
func (a *Analyzer) AnalyzeImage(img image.Image) *Result {
	started := time.Now()

	if a.apiKey == "" {
		return a.finish(started, configErrorResult())
	}

	return a.finish(started, a.analyze(a.loader.FromImage(img)))
}

func (a *Analyzer) analyze(img *image.RGBA) *Result {
	jpegData, err := imageload.EncodeJPEG(img)
	if err != nil {
		return errorResult("image_load_error", fmt.Errorf("%w: %v", imageload.ErrImageLoad, err))
	}

	modelStart := time.Now()
	raw, err := a.client.AnalyzeImage(prompt.Text(), jpegData)
	metrics.ModelCallDurationSeconds.Observe(time.Since(modelStart).Seconds())
	if err != nil {
		log.WithError(err).WithField("provider", a.client.SourceName()).Error("model invocation failed")
		return errorResult("model_invocation_error", fmt.Errorf("%w: %v", ErrModelInvocation, err))
	}

	normalized := parser.Normalize(raw)
	switch normalized.Outcome {
	case parser.OutcomeNoIssue:
		log.Info("no municipal issue detected in image")
		return &Result{Kind: KindNoIssue, Message: normalized.Message}
	case parser.OutcomeFallback:
		log.Warn("model output unparsable, produced fallback report")
		a.publish(normalized.Report)
		return &Result{Kind: KindFallback, Report: normalized.Report}
	default:
		log.WithFields(log.Fields{
			"department": string(normalized.Report.Department),
			"priority":   string(normalized.Report.Priority),
		}).Info("successfully analyzed image")
		a.publish(normalized.Report)
		return &Result{Kind: KindReport, Report: normalized.Report}
	}
}

func (a *Analyzer) publish(report *models.IssueReport) {
	if a.publisher == nil {
		return
	}
	msg := AnalyzedIssue{
		Source: a.client.SourceName(),
		Report: report,
	}
	if err := a.publisher.Publish(msg); err != nil {
		metrics.PublishErrorTotal.Inc()
		log.WithError(err).Error("failed to publish analyzed report")
	}
}

// PublisherConnected reports whether analyzed reports are currently being
// published to the broker.
func (a *Analyzer) PublisherConnected() bool {
	return a.publisher != nil && a.publisher.IsConnected()
}

// Close releases the publisher connection if one was established.
func (a *Analyzer) Close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			log.WithError(err).Error("failed to close publisher")
		}
	}
}

func (a *Analyzer) finish(started time.Time, res *Result) *Result {
	metrics.AnalyzeTotal.WithLabelValues(outcomeLabel(res)).Inc()
	metrics.AnalyzeDurationSeconds.WithLabelValues(outcomeLabel(res)).Observe(time.Since(started).Seconds())
	return res
}

func outcomeLabel(res *Result) string {
	switch res.Kind {
	case KindReport:
		return "report"
	case KindFallback:
		return "fallback"
	case KindNoIssue:
		return "no_issue"
	default:
		if res.Err != nil {
			return res.Err.Error
		}
		return "error"
	}
}

func configErrorResult() *Result {
	return &Result{
		Kind: KindError,
		Err: &models.ErrorResponse{
			Error:   "config_error",
			Message: fmt.Sprintf("%v: API key not found", ErrConfiguration),
		},
	}
}

func errorResult(code string, err error) *Result {
	return &Result{
		Kind: KindError,
		Err: &models.ErrorResponse{
			Error:   code,
			Message: "Failed to analyze the image. " + err.Error(),
		},
	}
}
