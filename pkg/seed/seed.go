// Package seed writes the default agents and settings on first use.
package seed

import (
	"context"
	"fmt"

	"github.com/chazarkal/postpilot/pkg/models"
	"github.com/chazarkal/postpilot/pkg/persistence"
)

// Defaults populates empty agent and settings collections. Collections that
// already hold data are left alone, so this is safe to call on every request.
func Defaults(ctx context.Context, store persistence.Persistence) error {
	agents, err := store.Agents().List(ctx)
	if err != nil {
		return fmt.Errorf("failed to check agents: %w", err)
	}

	if len(agents) == 0 {
		if err := store.Agents().ReplaceAll(ctx, DefaultAgents()); err != nil {
			return fmt.Errorf("failed to seed agents: %w", err)
		}
	}

	settings, err := store.Settings().Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to check settings: %w", err)
	}

	if settings == nil {
		if err := store.Settings().Put(ctx, DefaultSettings()); err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}
	}

	return nil
}

// DefaultSettings returns the initial settings singleton.
func DefaultSettings() *models.Settings {
	return &models.Settings{
		ID:                models.SettingsID,
		PostsPerWeek:      7,
		AutoPublish:       false,
		AutoApproveTopics: true,
		DefaultTone:       "professional but approachable",
		GlobalModel:       "gemini-2.0-flash",
		GlobalPrompt:      "",
		TopicPreferences: models.TopicPreferences{
			Recency:            "mixed",
			Categories:         []string{"tech", "ai", "innovation", "career"},
			CustomInstructions: "Favor subjects around AI, data and technological innovation.",
		},
		PublishSchedule: models.PublishSchedule{
			Days:      []int{0, 1, 2, 3, 4, 5, 6},
			TimeSlots: []string{"09:00"},
			Timezone:  "Europe/Paris",
		},
		CronWorkflowMode: string(models.WorkflowModeTechWow),
		MinPendingBuffer: 5,
	}
}

// DefaultAgents returns the built-in pipeline agents with their prompt modes.
func DefaultAgents() []*models.Agent {
	return []*models.Agent{
		{
			ID:          "agent-researcher",
			Name:        "Researcher",
			Role:        models.AgentRoleResearcher,
			Description: "Scans the web for fresh, relevant subjects",
			PromptModes: []models.PromptMode{
				{
					ID:   "researcher-default",
					Name: "Standard",
					Prompt: `You are a trend-watching agent specialized in finding LinkedIn subjects.

Your role is to propose 3 to 5 interesting, professional post ideas.

Search criteria:
- Subjects around tech, AI, innovation, management or personal growth
- Favor recent news and emerging trends
- Avoid subjects that are too generic or already everywhere
- Look for original, engaging angles

Answer with a JSON array only:
[
  {
    "title": "...",
    "description": "...",
    "angle": "...",
    "category": "tech|ai|innovation|management|career|other",
    "recency": "recent|trending|evergreen"
  }
]`,
				},
				{
					ID:   "researcher-breaking",
					Name: "Breaking News",
					Prompt: `You are a BREAKING NEWS watch agent for LinkedIn.

Find the 3-5 MOST RECENT stories (last 24-48h) in tech/AI.

Criteria:
- Only very recent news, nothing older than 48 hours
- Prioritize major announcements, launches, acquisitions, breakthroughs
- Hunt for items few people have shared yet

Answer with a JSON array only:
[
  {
    "title": "...",
    "description": "...",
    "angle": "...",
    "category": "tech|ai|innovation|management|career|other",
    "recency": "recent"
  }
]`,
				},
			},
			ActivePromptModeID: "researcher-default",
			Model:              "gemini-2.0-flash",
			Enabled:            true,
			Order:              1,
		},
		{
			ID:          "agent-topic-selector",
			Name:        "Topic Selector",
			Role:        models.AgentRoleTopicSelector,
			Description: "Picks the strongest subject among the proposals",
			PromptModes: []models.PromptMode{
				{
					ID:   "selector-default",
					Name: "Standard",
					Prompt: `You are a LinkedIn content curation agent.

You receive a list of proposed subjects and the history of subjects already published.

Your role:
- Select THE BEST subject among the proposals
- Avoid subjects too close to ones already published
- Favor thematic diversity
- Pick the subject with the strongest engagement potential

Answer in JSON:
{
  "selectedTopic": {
    "title": "...",
    "description": "...",
    "reason": "why this subject was chosen"
  }
}`,
				},
			},
			ActivePromptModeID: "selector-default",
			Model:              "gemini-2.0-flash",
			Enabled:            true,
			Order:              2,
		},
		{
			ID:          "agent-deep-researcher",
			Name:        "Deep Researcher",
			Role:        models.AgentRoleDeepResearcher,
			Description: "Builds a factual dossier on the chosen subject",
			PromptModes: []models.PromptMode{
				{
					ID:   "deep-default",
					Name: "Standard",
					Prompt: `You are a deep research agent.

You receive the subject chosen for a LinkedIn post. Your role:
1. Flesh the subject out with facts, figures and concrete examples
2. Find recent, relevant statistics
3. Surface interesting anecdotes or case studies
4. Collect quotable material where possible

Deliver a complete dossier with:
- Key facts
- Statistics, when available
- Concrete examples or anecdotes
- Differing perspectives on the subject
- A possible closing angle

Stay factual and precise. Every item must be checkable.`,
				},
			},
			ActivePromptModeID: "deep-default",
			Model:              "gemini-2.0-flash",
			Enabled:            true,
			Order:              3,
		},
		{
			ID:          "agent-synthesizer",
			Name:        "Synthesizer",
			Role:        models.AgentRoleSynthesizer,
			Description: "Condenses the research into a writing brief",
			PromptModes: []models.PromptMode{
				{
					ID:   "synth-default",
					Name: "Standard",
					Prompt: `You are a content synthesis and structuring agent.

You receive the chosen subject, the deep research and the desired tone.

Prepare a structured writing brief:
- Hook: 2-3 punchy opening options (the first sentence is everything on LinkedIn)
- Structure: a 3-5 point outline
- Core message: what the reader must retain
- Call to action: how to close for engagement
- Hashtags: 3-5 relevant ones

The brief must be clear and directly usable by the writer agent.`,
				},
			},
			ActivePromptModeID: "synth-default",
			Model:              "gemini-2.0-flash",
			Enabled:            true,
			Order:              4,
		},
		{
			ID:          "agent-writer",
			Name:        "Writer",
			Role:        models.AgentRoleWriter,
			Description: "Writes the final LinkedIn post in a selectable style",
			PromptModes: []models.PromptMode{
				{
					ID:   "writer-pro",
					Name: "Professional",
					Prompt: `You are an expert LinkedIn copywriter for professional posts.

Writing rules:
1. Hook: a punchy first sentence
2. Format: short sentences, line breaks, breathing room
3. Length: 800-1500 characters
4. Tone: {tone} - professional, credible, expert
5. Structure: hook, development, conclusion, question
6. Emojis: 2-5 maximum, always relevant
7. Hashtags: 3-5 at the end
8. No links in the body
9. First person where it fits

IMPORTANT: deliver ONLY the post text, ready to publish.`,
				},
				{
					ID:   "writer-storytelling",
					Name: "Storytelling",
					Prompt: `You are a LinkedIn writer specialized in storytelling.

Rules:
1. Open with a story: a personal anecdote, a lived situation, a relatable scene
2. Narrative arc: situation, problem, revelation, lesson
3. Emotion: make the reader feel something
4. Length: 1000-1800 characters
5. Tone: {tone} - authentic, human
6. Close with a question inviting shared experience
7. Emojis: few or none, the story carries itself
8. Hashtags: 3-4 at the end

IMPORTANT: deliver ONLY the post text, ready to publish.`,
				},
				{
					ID:   "writer-short",
					Name: "Short & Sharp",
					Prompt: `You are a LinkedIn writer who writes SHORT, punchy posts.

STRICT rules:
1. 400-600 characters maximum, not one more
2. One strong idea per post
3. Immediate hook: the first sentence must land
4. No filler, every word earns its place
5. Tone: {tone} - direct, cutting, memorable
6. Format: very short sentences, frequent line breaks
7. Close on a simple question or a sharp line
8. 1-2 emojis max, 2-3 hashtags max

The post must read in 10 seconds.

IMPORTANT: deliver ONLY the post text, ready to publish.`,
				},
			},
			ActivePromptModeID: "writer-pro",
			Model:              "gemini-2.0-flash",
			Enabled:            true,
			Order:              5,
		},
		{
			ID:          "agent-orchestrator",
			Name:        "Orchestrator",
			Role:        models.AgentRoleOrchestrator,
			Description: "Decides which pipeline steps a request needs",
			PromptModes: []models.PromptMode{
				{
					ID:   "orchestrator-default",
					Name: "Standard",
					Prompt: `You are the pipeline orchestrator for a LinkedIn post generator.

You receive a user instruction. Decide which steps the pipeline needs:
- research: find candidate subjects on the web
- deep research: build a factual dossier
- synthesis: condense research into a writing brief
The writer step always runs.

You may also add a one-line prompt amendment per downstream role.

Answer in JSON only:
{
  "needsResearch": true,
  "needsDeepResearch": true,
  "needsSynthesis": true,
  "directToWriter": false,
  "topicTitle": "",
  "topicDescription": "",
  "reasoning": "...",
  "promptTweaks": { "writer": "..." }
}`,
				},
			},
			ActivePromptModeID: "orchestrator-default",
			Model:              "gemini-2.0-flash",
			Enabled:            true,
			Order:              6,
		},
	}
}
