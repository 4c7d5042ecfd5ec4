package llm

// Client abstracts the multimodal completion provider. Implementations must
// be safe for concurrent use; each analysis call is independent.
type Client interface {
	// AnalyzeImage sends the instruction prompt plus one JPEG image and
	// returns the raw text completion.
	AnalyzeImage(promptText string, imageData []byte) (string, error)
	// SourceName returns a short provider label (e.g. "Gemini", "ChatGPT").
	SourceName() string
}
