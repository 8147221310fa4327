package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/chazarkal/postpilot/pkg/gemini"
	"github.com/chazarkal/postpilot/pkg/models"
)

const decisionSchema = `{
	"type": "object",
	"properties": {
		"needsResearch":     {"type": "boolean"},
		"needsDeepResearch": {"type": "boolean"},
		"needsSynthesis":    {"type": "boolean"},
		"directToWriter":    {"type": "boolean"},
		"topicTitle":        {"type": "string"},
		"topicDescription":  {"type": "string"},
		"reasoning":         {"type": "string"},
		"promptTweaks": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	},
	"required": ["needsResearch", "needsDeepResearch", "needsSynthesis", "directToWriter"]
}`

const suggestionsSchema = `{
	"type": "array",
	"minItems": 1,
	"items": {
		"type": "object",
		"properties": {
			"title":       {"type": "string", "minLength": 1},
			"description": {"type": "string"},
			"angle":       {"type": "string"},
			"category":    {"type": "string"},
			"recency":     {"type": "string"}
		},
		"required": ["title"]
	}
}`

var (
	decisionSchemaLoader    = gojsonschema.NewStringLoader(decisionSchema)
	suggestionsSchemaLoader = gojsonschema.NewStringLoader(suggestionsSchema)
)

// DefaultDecision is what a malformed orchestrator answer degrades to: run
// the full pipeline with no prompt amendments.
func DefaultDecision() *models.OrchestratorDecision {
	return &models.OrchestratorDecision{
		NeedsResearch:     true,
		NeedsDeepResearch: true,
		NeedsSynthesis:    true,
		Reasoning:         "malformed orchestrator output, running the full pipeline",
	}
}

// DecodeDecision parses the orchestrator agent's JSON answer. Output that
// does not validate against the decision schema falls back to
// DefaultDecision; the caller never sees a decode error.
func DecodeDecision(raw string) *models.OrchestratorDecision {
	cleaned := gemini.StripCodeFences(raw)

	result, err := gojsonschema.Validate(decisionSchemaLoader, gojsonschema.NewStringLoader(cleaned))
	if err != nil || !result.Valid() {
		return DefaultDecision()
	}

	var decision models.OrchestratorDecision
	if err := json.Unmarshal([]byte(cleaned), &decision); err != nil {
		return DefaultDecision()
	}

	return &decision
}

// DecodeSuggestions parses the researcher agent's JSON answer into topic
// suggestions. Unlike the orchestrator decision there is no sensible
// fallback, so invalid output is an error and fails the research step.
func DecodeSuggestions(raw string) ([]models.TopicSuggestion, error) {
	cleaned := gemini.StripCodeFences(raw)

	result, err := gojsonschema.Validate(suggestionsSchemaLoader, gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("failed to validate topic suggestions: %w", err)
	}

	if !result.Valid() {
		return nil, fmt.Errorf("topic suggestions do not match the expected shape: %v", result.Errors())
	}

	var suggestions []models.TopicSuggestion
	if err := json.Unmarshal([]byte(cleaned), &suggestions); err != nil {
		return nil, fmt.Errorf("failed to decode topic suggestions: %w", err)
	}

	return suggestions, nil
}

type topicSelection struct {
	SelectedTopic struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Reason      string `json:"reason"`
	} `json:"selectedTopic"`
}

// decodeSelection parses the selector agent's answer. A malformed answer
// returns nil and the caller falls back to the first suggestion.
func decodeSelection(raw string) *topicSelection {
	var selection topicSelection
	if err := json.Unmarshal([]byte(gemini.StripCodeFences(raw)), &selection); err != nil {
		return nil
	}

	if selection.SelectedTopic.Title == "" {
		return nil
	}

	return &selection
}
