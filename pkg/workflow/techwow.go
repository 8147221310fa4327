package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chazarkal/postpilot/pkg/gemini"
	"github.com/chazarkal/postpilot/pkg/models"
	"github.com/chazarkal/postpilot/pkg/persistence"
)

// RunTechWow executes the fixed three-call variant: find advanced technique
// candidates, pick the most impressive, then research and write in one pass.
// It uses its own prompts rather than the configurable agent pipeline, only
// borrowing the agents for the audit trail and model choice.
func (o *Orchestrator) RunTechWow(ctx context.Context, req RunRequest) (*models.WorkflowRun, error) {
	settings, err := o.settings(ctx)
	if err != nil {
		return nil, err
	}

	run, err := o.newRun(ctx, models.WorkflowModeTechWow)
	if err != nil {
		return nil, err
	}

	// tech-wow stocks the pool, it never publishes inline
	state := &runState{run: run, settings: settings, req: req, noInlinePublish: true}

	titles, err := o.findTechniques(ctx, state)
	if err != nil {
		return run, o.failRun(ctx, run, err)
	}

	selected, err := o.selectTechnique(ctx, state, titles)
	if err != nil {
		return run, o.failRun(ctx, run, err)
	}

	topic := &models.Topic{
		ID:       o.generateID(),
		Title:    selected,
		Category: "tech",
		Recency:  models.TopicRecencyEvergreen,
		Status:   models.TopicStatusApproved,
	}
	if err := o.store.Topics().Save(ctx, topic); err != nil {
		return run, o.failRun(ctx, run, fmt.Errorf("failed to save topic: %w", err))
	}

	state.topic = topic
	run.TopicID = &topic.ID
	o.saveRun(ctx, run)

	if err := o.writeTechWow(ctx, state); err != nil {
		return run, o.failRun(ctx, run, err)
	}

	post, err := o.createPost(ctx, state)
	if err != nil {
		return run, o.failRun(ctx, run, err)
	}

	o.completeRun(ctx, run, post.ID)

	return run, nil
}

func (o *Orchestrator) findTechniques(ctx context.Context, state *runState) ([]string, error) {
	agent, err := o.agent(ctx, models.AgentRoleResearcher)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(`Find 6 advanced, lesser-known software engineering or AI techniques
that would impress a technical LinkedIn audience. Favor techniques with a
concrete, demonstrable effect.

Answer with a JSON array of short titles only:
["technique 1", "technique 2"]`)

	if used := o.usedTopicTitles(ctx); len(used) > 0 {
		sb.WriteString("\n\nAlready covered, do not propose again:\n- ")
		sb.WriteString(strings.Join(used, "\n- "))
	}

	input := sb.String()
	idx := o.startStep(ctx, state.run, agent, input)

	result, err := o.generator.CompleteWithSearch(ctx, input, gemini.Options{Model: state.settings.GlobalModel})
	if err != nil {
		o.finishStep(ctx, state.run, idx, "", err)
		return nil, fmt.Errorf("technique search failed: %w", err)
	}

	state.sources = result.Sources
	o.finishStep(ctx, state.run, idx, result.Text, nil)

	titles := decodeTitleList(result.Text)
	if len(titles) == 0 {
		return nil, fmt.Errorf("technique search returned no usable titles")
	}

	return titles, nil
}

// decodeTitleList expects a JSON string array but tolerates a plain list,
// splitting lines and stripping bullet markers.
func decodeTitleList(raw string) []string {
	cleaned := gemini.StripCodeFences(raw)

	var titles []string
	if err := json.Unmarshal([]byte(cleaned), &titles); err == nil {
		return titles
	}

	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. ")
		line = strings.Trim(line, `"',`)
		if line == "" || strings.HasPrefix(line, "[") || strings.HasPrefix(line, "]") {
			continue
		}

		titles = append(titles, line)
		if len(titles) == 6 {
			break
		}
	}

	return titles
}

func (o *Orchestrator) selectTechnique(ctx context.Context, state *runState, titles []string) (string, error) {
	agent, err := o.agent(ctx, models.AgentRoleTopicSelector)
	if err != nil {
		return "", err
	}

	input := fmt.Sprintf(`Among these techniques, pick the ONE with the strongest wow effect
for a technical LinkedIn audience:

- %s

Answer in JSON only: {"title": "..."}`, strings.Join(titles, "\n- "))

	idx := o.startStep(ctx, state.run, agent, input)

	raw, err := o.generator.Complete(ctx, input, gemini.Options{Model: state.settings.GlobalModel})
	if err != nil {
		o.finishStep(ctx, state.run, idx, "", err)
		return "", fmt.Errorf("technique selection failed: %w", err)
	}

	o.finishStep(ctx, state.run, idx, raw, nil)

	var picked struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal([]byte(gemini.StripCodeFences(raw)), &picked); err != nil || picked.Title == "" {
		return titles[0], nil
	}

	return picked.Title, nil
}

func (o *Orchestrator) writeTechWow(ctx context.Context, state *runState) error {
	agent, err := o.agent(ctx, models.AgentRoleWriter)
	if err != nil {
		return err
	}

	prompt := strings.ReplaceAll(agent.PromptByModeID(state.req.WriterModeID), "{tone}", state.tone())

	input := fmt.Sprintf(`Research the following technique, then write a wow-effect LinkedIn
post about it: concrete, precise, with a striking example or figure.

Technique: %s`, state.topic.Title)

	idx := o.startStep(ctx, state.run, agent, input)

	result, err := o.generator.CompleteWithSearch(ctx, input, state.agentOptions(agent, prompt))
	if err != nil {
		o.finishStep(ctx, state.run, idx, "", err)
		return fmt.Errorf("tech-wow writing failed: %w", err)
	}

	state.content = strings.TrimSpace(result.Text)
	state.sources = append(state.sources, result.Sources...)
	o.finishStep(ctx, state.run, idx, result.Text, nil)

	return nil
}

// Revise re-runs the writer on an existing post with user feedback. The
// revised post drops back to pending approval.
func (o *Orchestrator) Revise(ctx context.Context, postID, feedback string) (*models.Post, error) {
	post, err := o.store.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to load post: %w", err)
	}
	if post == nil {
		return nil, fmt.Errorf("%w: %s", persistence.ErrPostNotFound, postID)
	}

	settings, err := o.settings(ctx)
	if err != nil {
		return nil, err
	}

	agent, err := o.agent(ctx, models.AgentRoleWriter)
	if err != nil {
		return nil, err
	}

	tone := post.Tone
	if tone == "" {
		tone = settings.DefaultTone
	}

	prompt := strings.ReplaceAll(agent.ActivePrompt(), "{tone}", tone)
	input := fmt.Sprintf(`Revise this LinkedIn post according to the feedback. Keep what works,
change what the feedback targets.

Current post:
%s

Feedback:
%s`, post.Content, feedback)

	content, err := o.generator.Complete(ctx, input, gemini.Options{
		Model:             agent.Model,
		SystemInstruction: prompt,
	})
	if err != nil {
		return nil, fmt.Errorf("revision failed: %w", err)
	}

	updated, err := o.store.Posts().Update(ctx, postID, func(p *models.Post) {
		p.Content = strings.TrimSpace(content)
		p.Status = models.PostStatusPendingApproval
		p.AgentLogs = append(p.AgentLogs, models.AgentLog{
			AgentID:   agent.ID,
			AgentName: agent.Name,
			Input:     truncate(input),
			Output:    truncate(content),
			Timestamp: time.Now().UTC(),
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save revision: %w", err)
	}

	return updated, nil
}

// EnsureBuffer tops the pending pool up to minBuffer posts (settings value
// when zero) by running the configured cron workflow mode. It stops at the
// first generation error and reports how many posts it created.
func (o *Orchestrator) EnsureBuffer(ctx context.Context, minBuffer int) (int, error) {
	settings, err := o.settings(ctx)
	if err != nil {
		return 0, err
	}

	if minBuffer <= 0 {
		minBuffer = settings.MinPendingBuffer
	}

	posts, err := o.store.Posts().List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list posts: %w", err)
	}

	pending := 0
	for _, post := range posts {
		if post.IsPending() {
			pending++
		}
	}

	generated := 0
	for pending+generated < minBuffer {
		if _, err := o.runCronMode(ctx, settings); err != nil {
			return generated, fmt.Errorf("buffer top-up stopped after %d posts: %w", generated, err)
		}

		generated++
	}

	if generated > 0 {
		o.logger.InfoContext(ctx, "Pending buffer topped up",
			"generated", generated, "target", minBuffer)
	}

	return generated, nil
}

func (o *Orchestrator) runCronMode(ctx context.Context, settings *models.Settings) (*models.WorkflowRun, error) {
	if models.WorkflowMode(settings.CronWorkflowMode) == models.WorkflowModeTechWow {
		return o.RunTechWow(ctx, RunRequest{})
	}

	return o.RunFull(ctx, RunRequest{bufferFill: true})
}
