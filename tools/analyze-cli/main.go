// Command analyze-cli runs the analysis pipeline once against a local image
// or URL and prints the result, for manual testing without the HTTP server.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"issue-analyze-service/config"
	"issue-analyze-service/gemini"
	"issue-analyze-service/llm"
	"issue-analyze-service/openai"
	"issue-analyze-service/service"
)

func main() {
	source := flag.String("image", "", "image file path or http(s) URL")
	flag.Parse()

	if *source == "" {
		fmt.Fprintln(os.Stderr, "usage: analyze-cli -image <path-or-url>")
		os.Exit(2)
	}

	cfg := config.Load()

	var client llm.Client
	if cfg.LLMProvider == "openai" {
		client = openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		client = gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	analyzer := service.NewAnalyzerWithClient(client, cfg.APIKey())

	fmt.Println("Analyzing image...")
	result := analyzer.AnalyzeSource(*source)

	switch result.Kind {
	case service.KindNoIssue:
		fmt.Println("Message:", result.Message)
	case service.KindError:
		fmt.Printf("Error: %s - %s\n", result.Err.Error, result.Err.Message)
		os.Exit(1)
	default:
		out, err := json.MarshalIndent(result.Report, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "failed to render report:", err)
			os.Exit(1)
		}
		fmt.Println("Result:")
		fmt.Println(string(out))
	}
}
