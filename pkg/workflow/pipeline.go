package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chazarkal/postpilot/pkg/events"
	"github.com/chazarkal/postpilot/pkg/gemini"
	"github.com/chazarkal/postpilot/pkg/models"
	"github.com/chazarkal/postpilot/pkg/persistence"
)

// runState carries intermediate artifacts between pipeline steps. Only the
// truncated copies end up on the run record.
type runState struct {
	run      *models.WorkflowRun
	settings *models.Settings
	req      RunRequest
	tweaks   map[string]string

	// noInlinePublish keeps finished posts at approved even when
	// AutoPublish is on: buffer and tech-wow runs stock the pool, they do
	// not publish.
	noInlinePublish bool

	suggestions []models.TopicSuggestion
	sources     []string
	topic       *models.Topic
	research    string
	brief       string
	content     string
}

func (s *runState) tone() string {
	if s.req.Tone != "" {
		return s.req.Tone
	}

	return s.settings.DefaultTone
}

// agentOptions builds the generation options for one step: the agent's
// active prompt (plus any orchestrator tweak and the global prompt) becomes
// the system instruction, the agent model falls back to the global model.
func (s *runState) agentOptions(agent *models.Agent, prompt string) gemini.Options {
	instruction := prompt
	if tweak := s.tweaks[string(agent.Role)]; tweak != "" {
		instruction += "\n\nAdditional instruction: " + tweak
	}
	if s.settings.GlobalPrompt != "" {
		instruction += "\n\n" + s.settings.GlobalPrompt
	}

	model := agent.Model
	if model == "" {
		model = s.settings.GlobalModel
	}

	return gemini.Options{Model: model, SystemInstruction: instruction}
}

// RunFull executes the deterministic pipeline: research, topic selection,
// deep research, synthesis, writing. A caller-provided topic id or custom
// topic short-circuits the first two steps. The returned run is non-nil as
// soon as one was created, including on failure.
func (o *Orchestrator) RunFull(ctx context.Context, req RunRequest) (*models.WorkflowRun, error) {
	settings, err := o.settings(ctx)
	if err != nil {
		return nil, err
	}

	mode := req.Mode
	if mode == "" {
		mode = models.WorkflowModeAuto
	}

	run, err := o.newRun(ctx, mode)
	if err != nil {
		return nil, err
	}

	state := &runState{run: run, settings: settings, req: req, noInlinePublish: req.bufferFill}

	if err := o.resolveTopic(ctx, state); err != nil {
		return run, o.failRun(ctx, run, err)
	}

	if run.Status == models.RunStatusWaitingTopicSelection {
		return run, nil
	}

	if err := o.deepResearchStep(ctx, state); err != nil {
		return run, o.failRun(ctx, run, err)
	}

	if err := o.synthesisStep(ctx, state); err != nil {
		return run, o.failRun(ctx, run, err)
	}

	if err := o.writeStep(ctx, state); err != nil {
		return run, o.failRun(ctx, run, err)
	}

	post, err := o.createPost(ctx, state)
	if err != nil {
		return run, o.failRun(ctx, run, err)
	}

	o.completeRun(ctx, run, post.ID)

	return run, nil
}

// resolveTopic fills state.topic, via the research and selection steps when
// the request names no topic. In interactive mode the run pauses after
// research so a human can pick.
func (o *Orchestrator) resolveTopic(ctx context.Context, state *runState) error {
	if state.req.TopicID != "" {
		topic, err := o.store.Topics().GetByID(ctx, state.req.TopicID)
		if err != nil {
			return fmt.Errorf("failed to load topic: %w", err)
		}
		if topic == nil {
			return fmt.Errorf("%w: %s", persistence.ErrTopicNotFound, state.req.TopicID)
		}

		state.topic = topic
		state.run.TopicID = &topic.ID

		return nil
	}

	if state.req.CustomTopic != "" {
		return o.saveTopic(ctx, state, models.TopicSuggestion{
			Title:   state.req.CustomTopic,
			Recency: string(models.TopicRecencyEvergreen),
		})
	}

	if err := o.researchStep(ctx, state); err != nil {
		return err
	}

	if state.req.Mode == models.WorkflowModeInteractive {
		o.persistSuggestions(ctx, state)
		state.run.Status = models.RunStatusWaitingTopicSelection
		o.saveRun(ctx, state.run)

		return nil
	}

	return o.selectStep(ctx, state)
}

// persistSuggestions saves each researcher proposal as a suggested topic
// before the run pauses, so the follow-up generate request can pick one by
// topic id.
func (o *Orchestrator) persistSuggestions(ctx context.Context, state *runState) {
	for i := range state.suggestions {
		topic := &models.Topic{
			ID:          o.generateID(),
			Title:       state.suggestions[i].Title,
			Description: state.suggestions[i].Description,
			Sources:     state.sources,
			Category:    state.suggestions[i].Category,
			Recency:     models.TopicRecency(state.suggestions[i].Recency),
			Status:      models.TopicStatusSuggested,
		}

		if err := o.store.Topics().Save(ctx, topic); err != nil {
			o.logger.WarnContext(ctx, "Failed to save suggested topic", "title", topic.Title, "error", err)
			continue
		}

		state.suggestions[i].TopicID = topic.ID
	}

	state.run.TopicSuggestions = state.suggestions
}

func (o *Orchestrator) researchStep(ctx context.Context, state *runState) error {
	agent, err := o.agent(ctx, models.AgentRoleResearcher)
	if err != nil {
		return err
	}

	input := o.researchInput(ctx, state)
	idx := o.startStep(ctx, state.run, agent, input)

	result, err := o.generator.CompleteWithSearch(ctx, input, state.agentOptions(agent, agent.PromptByModeID("")))
	if err != nil {
		o.finishStep(ctx, state.run, idx, "", err)
		return fmt.Errorf("research step failed: %w", err)
	}

	suggestions, err := DecodeSuggestions(result.Text)
	if err != nil {
		o.finishStep(ctx, state.run, idx, "", err)
		return fmt.Errorf("research step failed: %w", err)
	}

	state.suggestions = suggestions
	state.sources = result.Sources
	state.run.TopicSuggestions = suggestions
	o.finishStep(ctx, state.run, idx, result.Text, nil)

	return nil
}

func (o *Orchestrator) researchInput(ctx context.Context, state *runState) string {
	var sb strings.Builder

	prefs := state.settings.TopicPreferences
	if prefs.Recency != "" {
		fmt.Fprintf(&sb, "Recency preference: %s\n", prefs.Recency)
	}
	if len(prefs.Categories) > 0 {
		fmt.Fprintf(&sb, "Preferred categories: %s\n", strings.Join(prefs.Categories, ", "))
	}
	if prefs.CustomInstructions != "" {
		fmt.Fprintf(&sb, "%s\n", prefs.CustomInstructions)
	}

	if used := o.usedTopicTitles(ctx); len(used) > 0 {
		sb.WriteString("\nSubjects already covered, do not propose them again:\n")
		for _, title := range used {
			fmt.Fprintf(&sb, "- %s\n", title)
		}
	}

	return sb.String()
}

// usedTopicTitles lists the titles of topics already turned into posts.
// A listing error only weakens deduplication, so it is logged, not returned.
func (o *Orchestrator) usedTopicTitles(ctx context.Context) []string {
	topics, err := o.store.Topics().List(ctx)
	if err != nil {
		o.logger.WarnContext(ctx, "Failed to list topics for deduplication", "error", err)
		return nil
	}

	titles := make([]string, 0, len(topics))
	for _, topic := range topics {
		if topic.Status == models.TopicStatusUsed {
			titles = append(titles, topic.Title)
		}
	}

	return titles
}

func (o *Orchestrator) selectStep(ctx context.Context, state *runState) error {
	agent, err := o.agent(ctx, models.AgentRoleTopicSelector)
	if err != nil {
		return err
	}

	proposals, err := json.MarshalIndent(state.suggestions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode suggestions: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("Proposed subjects:\n")
	sb.Write(proposals)
	if used := o.usedTopicTitles(ctx); len(used) > 0 {
		sb.WriteString("\n\nAlready published:\n- ")
		sb.WriteString(strings.Join(used, "\n- "))
	}

	input := sb.String()
	idx := o.startStep(ctx, state.run, agent, input)

	raw, err := o.generator.Complete(ctx, input, state.agentOptions(agent, agent.PromptByModeID("")))
	if err != nil {
		o.finishStep(ctx, state.run, idx, "", err)
		return fmt.Errorf("topic selection failed: %w", err)
	}

	o.finishStep(ctx, state.run, idx, raw, nil)

	chosen := state.suggestions[0]
	if selection := decodeSelection(raw); selection != nil {
		chosen = models.TopicSuggestion{
			Title:       selection.SelectedTopic.Title,
			Description: selection.SelectedTopic.Description,
		}
		// keep the researcher's metadata when the selector picked one of
		// its proposals verbatim
		for _, suggestion := range state.suggestions {
			if suggestion.Title == selection.SelectedTopic.Title {
				chosen = suggestion
				break
			}
		}
	}

	return o.saveTopic(ctx, state, chosen)
}

func (o *Orchestrator) saveTopic(ctx context.Context, state *runState, suggestion models.TopicSuggestion) error {
	status := models.TopicStatusSuggested
	if state.settings.AutoApproveTopics {
		status = models.TopicStatusApproved
	}

	topic := &models.Topic{
		ID:          o.generateID(),
		Title:       suggestion.Title,
		Description: suggestion.Description,
		Sources:     state.sources,
		Category:    suggestion.Category,
		Recency:     models.TopicRecency(suggestion.Recency),
		Status:      status,
	}

	if err := o.store.Topics().Save(ctx, topic); err != nil {
		return fmt.Errorf("failed to save topic: %w", err)
	}

	state.topic = topic
	state.run.TopicID = &topic.ID
	o.saveRun(ctx, state.run)

	return nil
}

func (o *Orchestrator) deepResearchStep(ctx context.Context, state *runState) error {
	agent, err := o.agent(ctx, models.AgentRoleDeepResearcher)
	if err != nil {
		return err
	}

	input := fmt.Sprintf("Subject: %s\n%s", state.topic.Title, state.topic.Description)
	idx := o.startStep(ctx, state.run, agent, input)

	result, err := o.generator.CompleteWithSearch(ctx, input, state.agentOptions(agent, agent.PromptByModeID("")))
	if err != nil {
		o.finishStep(ctx, state.run, idx, "", err)
		return fmt.Errorf("deep research failed: %w", err)
	}

	state.research = result.Text
	state.sources = append(state.sources, result.Sources...)
	o.finishStep(ctx, state.run, idx, result.Text, nil)

	return nil
}

func (o *Orchestrator) synthesisStep(ctx context.Context, state *runState) error {
	agent, err := o.agent(ctx, models.AgentRoleSynthesizer)
	if err != nil {
		return err
	}

	input := fmt.Sprintf("Subject: %s\n%s\n\nResearch:\n%s\n\nDesired tone: %s",
		state.topic.Title, state.topic.Description, state.research, state.tone())
	idx := o.startStep(ctx, state.run, agent, input)

	brief, err := o.generator.Complete(ctx, input, state.agentOptions(agent, agent.PromptByModeID("")))
	if err != nil {
		o.finishStep(ctx, state.run, idx, "", err)
		return fmt.Errorf("synthesis failed: %w", err)
	}

	state.brief = brief
	o.finishStep(ctx, state.run, idx, brief, nil)

	return nil
}

func (o *Orchestrator) writeStep(ctx context.Context, state *runState) error {
	agent, err := o.agent(ctx, models.AgentRoleWriter)
	if err != nil {
		return err
	}

	prompt := strings.ReplaceAll(agent.PromptByModeID(state.req.WriterModeID), "{tone}", state.tone())

	input := state.brief
	if input == "" {
		input = fmt.Sprintf("Write a LinkedIn post on this subject.\n\nSubject: %s\n%s",
			state.topic.Title, state.topic.Description)
		if state.research != "" {
			input += "\n\nResearch:\n" + state.research
		}
	}

	idx := o.startStep(ctx, state.run, agent, input)

	content, err := o.generator.Complete(ctx, input, state.agentOptions(agent, prompt))
	if err != nil {
		o.finishStep(ctx, state.run, idx, "", err)
		return fmt.Errorf("writing failed: %w", err)
	}

	state.content = strings.TrimSpace(content)
	o.finishStep(ctx, state.run, idx, content, nil)

	return nil
}

// createPost persists the finished post, marks the topic used and, when
// auto-publish is on and the run is a direct one, attempts the publication
// inline. An inline publish failure is logged and leaves the post approved;
// the run still completes.
func (o *Orchestrator) createPost(ctx context.Context, state *runState) (*models.Post, error) {
	status := models.PostStatusPendingApproval
	if state.settings.AutoPublish {
		status = models.PostStatusApproved
	}

	post := &models.Post{
		ID:      o.generateID(),
		Content: state.content,
		Status:  status,
		Tone:    state.tone(),
	}

	if state.topic != nil {
		post.TopicID = &state.topic.ID
		post.ImageSuggestions = o.imageSuggestions(ctx, state)
	}

	for _, step := range state.run.Steps {
		if step.Status != models.StepStatusCompleted {
			continue
		}

		timestamp := time.Now().UTC()
		if step.CompletedAt != nil {
			timestamp = *step.CompletedAt
		}

		post.AgentLogs = append(post.AgentLogs, models.AgentLog{
			AgentID:   step.AgentID,
			AgentName: step.AgentName,
			Input:     step.Input,
			Output:    step.Output,
			Timestamp: timestamp,
		})
	}

	if err := o.store.Posts().Save(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to save post: %w", err)
	}

	if state.topic != nil {
		if _, err := o.store.Topics().Update(ctx, state.topic.ID, func(t *models.Topic) {
			t.Status = models.TopicStatusUsed
		}); err != nil {
			o.logger.WarnContext(ctx, "Failed to mark topic used", "topic_id", state.topic.ID, "error", err)
		}
	}

	if state.settings.AutoPublish && !state.noInlinePublish {
		o.autoPublish(ctx, post)
	}

	return post, nil
}

func (o *Orchestrator) imageSuggestions(ctx context.Context, state *runState) []string {
	urls, err := o.generator.FindImageSuggestions(ctx, state.topic.Title, state.settings.GlobalModel)
	if err != nil {
		o.logger.WarnContext(ctx, "Failed to find image suggestions", "error", err)
		return nil
	}

	return urls
}

func (o *Orchestrator) autoPublish(ctx context.Context, post *models.Post) {
	result := o.publisher.Publish(ctx, post.Content, post.ImageURL)
	if !result.Success {
		o.logger.WarnContext(ctx, "Auto-publish failed, post left approved",
			"post_id", post.ID, "error", result.Error)
		return
	}

	publishedAt := time.Now().UTC()
	updated, err := o.store.Posts().Update(ctx, post.ID, func(p *models.Post) {
		p.MarkPublished(result.ID, publishedAt)
	})
	if err != nil || updated == nil {
		o.logger.ErrorContext(ctx, "Failed to record publication", "post_id", post.ID, "error", err)
		return
	}

	*post = *updated

	o.publishEvent(ctx, post.ID, events.PostPublished{
		BaseEvent:      o.baseEvent(events.PostPublishedEvent, ""),
		PostID:         post.ID,
		LinkedInPostID: result.ID,
	})
}

// RunOrchestrated lets the orchestrator agent decide which steps the request
// needs. A malformed decision degrades to the full pipeline; the writer runs
// in every case.
func (o *Orchestrator) RunOrchestrated(ctx context.Context, req RunRequest) (*models.WorkflowRun, error) {
	settings, err := o.settings(ctx)
	if err != nil {
		return nil, err
	}

	run, err := o.newRun(ctx, models.WorkflowModeAuto)
	if err != nil {
		return nil, err
	}

	state := &runState{run: run, settings: settings, req: req, noInlinePublish: req.bufferFill}

	decision, err := o.decideSteps(ctx, state)
	if err != nil {
		return run, o.failRun(ctx, run, err)
	}

	run.OrchestratorDecision = decision
	state.tweaks = decision.PromptTweaks
	o.saveRun(ctx, run)

	if decision.DirectToWriter {
		o.skipRole(ctx, run, models.AgentRoleResearcher, "direct to writer")
		o.skipRole(ctx, run, models.AgentRoleDeepResearcher, "direct to writer")
		o.skipRole(ctx, run, models.AgentRoleSynthesizer, "direct to writer")

		if err := o.topicFromDecision(ctx, state, decision); err != nil {
			return run, o.failRun(ctx, run, err)
		}
	} else {
		if decision.NeedsResearch {
			if err := o.researchStep(ctx, state); err != nil {
				return run, o.failRun(ctx, run, err)
			}
			if err := o.selectStep(ctx, state); err != nil {
				return run, o.failRun(ctx, run, err)
			}
		} else {
			o.skipRole(ctx, run, models.AgentRoleResearcher, "orchestrator ruled research out")
			if err := o.topicFromDecision(ctx, state, decision); err != nil {
				return run, o.failRun(ctx, run, err)
			}
		}

		if decision.NeedsDeepResearch {
			if err := o.deepResearchStep(ctx, state); err != nil {
				return run, o.failRun(ctx, run, err)
			}
		} else {
			o.skipRole(ctx, run, models.AgentRoleDeepResearcher, "orchestrator ruled deep research out")
		}

		if decision.NeedsSynthesis {
			if err := o.synthesisStep(ctx, state); err != nil {
				return run, o.failRun(ctx, run, err)
			}
		} else {
			o.skipRole(ctx, run, models.AgentRoleSynthesizer, "orchestrator ruled synthesis out")
		}
	}

	if err := o.writeStep(ctx, state); err != nil {
		return run, o.failRun(ctx, run, err)
	}

	post, err := o.createPost(ctx, state)
	if err != nil {
		return run, o.failRun(ctx, run, err)
	}

	o.completeRun(ctx, run, post.ID)

	return run, nil
}

func (o *Orchestrator) decideSteps(ctx context.Context, state *runState) (*models.OrchestratorDecision, error) {
	agent, err := o.agent(ctx, models.AgentRoleOrchestrator)
	if err != nil {
		return nil, err
	}

	input := state.req.Instruction
	if input == "" {
		input = "Generate a LinkedIn post."
	}

	idx := o.startStep(ctx, state.run, agent, input)

	raw, err := o.generator.Complete(ctx, input, state.agentOptions(agent, agent.PromptByModeID("")))
	if err != nil {
		o.finishStep(ctx, state.run, idx, "", err)
		return nil, fmt.Errorf("orchestrator call failed: %w", err)
	}

	o.finishStep(ctx, state.run, idx, raw, nil)

	return DecodeDecision(raw), nil
}

// topicFromDecision builds the topic when research was skipped, from the
// decision's title or, failing that, the raw instruction.
func (o *Orchestrator) topicFromDecision(ctx context.Context, state *runState, decision *models.OrchestratorDecision) error {
	title := decision.TopicTitle
	if title == "" {
		title = state.req.Instruction
	}
	if title == "" {
		return fmt.Errorf("orchestrator skipped research without naming a subject")
	}

	return o.saveTopic(ctx, state, models.TopicSuggestion{
		Title:       title,
		Description: decision.TopicDescription,
	})
}

// skipRole records a skipped step for the role's agent when one exists.
func (o *Orchestrator) skipRole(ctx context.Context, run *models.WorkflowRun, role models.AgentRole, reason string) {
	agent, err := o.store.Agents().GetByRole(ctx, role)
	if err != nil || agent == nil {
		return
	}

	o.skipStep(ctx, run, agent, reason)
}
