package file

import (
	"context"
	"sync"
	"time"

	"github.com/chazarkal/postpilot/pkg/models"
)

// PostRepository handles the posts collection.
type PostRepository struct {
	c collection[models.Post]
}

// NewPostRepository creates a post repository sharing the store mutex.
func NewPostRepository(root string, mu *sync.Mutex) *PostRepository {
	return &PostRepository{c: collection[models.Post]{
		root: root,
		name: "posts",
		mu:   mu,
		idOf: func(p *models.Post) string { return p.ID },
		touch: func(p *models.Post, now time.Time, isNew bool) {
			if isNew && p.CreatedAt.IsZero() {
				p.CreatedAt = now
			}
			p.UpdatedAt = now
		},
	}}
}

func (r *PostRepository) List(_ context.Context) ([]*models.Post, error) {
	return r.c.read()
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*models.Post, error) {
	return r.c.getByID(id)
}

func (r *PostRepository) Save(_ context.Context, post *models.Post) error {
	return r.c.save(post)
}

func (r *PostRepository) Update(_ context.Context, id string, mutate func(*models.Post)) (*models.Post, error) {
	return r.c.update(id, mutate)
}

func (r *PostRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.c.delete(id)
}

// TopicRepository handles the topics collection.
type TopicRepository struct {
	c collection[models.Topic]
}

// NewTopicRepository creates a topic repository sharing the store mutex.
func NewTopicRepository(root string, mu *sync.Mutex) *TopicRepository {
	return &TopicRepository{c: collection[models.Topic]{
		root: root,
		name: "topics",
		mu:   mu,
		idOf: func(t *models.Topic) string { return t.ID },
		touch: func(t *models.Topic, now time.Time, isNew bool) {
			if isNew && t.CreatedAt.IsZero() {
				t.CreatedAt = now
			}
			t.UpdatedAt = now
		},
	}}
}

func (r *TopicRepository) List(_ context.Context) ([]*models.Topic, error) {
	return r.c.read()
}

func (r *TopicRepository) GetByID(_ context.Context, id string) (*models.Topic, error) {
	return r.c.getByID(id)
}

func (r *TopicRepository) Save(_ context.Context, topic *models.Topic) error {
	return r.c.save(topic)
}

func (r *TopicRepository) Update(_ context.Context, id string, mutate func(*models.Topic)) (*models.Topic, error) {
	return r.c.update(id, mutate)
}

func (r *TopicRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.c.delete(id)
}

// AgentRepository handles the agents collection.
type AgentRepository struct {
	c collection[models.Agent]
}

// NewAgentRepository creates an agent repository sharing the store mutex.
func NewAgentRepository(root string, mu *sync.Mutex) *AgentRepository {
	return &AgentRepository{c: collection[models.Agent]{
		root: root,
		name: "agents",
		mu:   mu,
		idOf: func(a *models.Agent) string { return a.ID },
		touch: func(a *models.Agent, now time.Time, isNew bool) {
			if isNew && a.CreatedAt.IsZero() {
				a.CreatedAt = now
			}
			a.UpdatedAt = now
		},
	}}
}

func (r *AgentRepository) List(_ context.Context) ([]*models.Agent, error) {
	return r.c.read()
}

func (r *AgentRepository) GetByID(_ context.Context, id string) (*models.Agent, error) {
	return r.c.getByID(id)
}

// GetByRole returns the first enabled agent with the given role, or nil.
func (r *AgentRepository) GetByRole(_ context.Context, role models.AgentRole) (*models.Agent, error) {
	agents, err := r.c.read()
	if err != nil {
		return nil, err
	}

	for _, agent := range agents {
		if agent.Role == role && agent.Enabled {
			return agent, nil
		}
	}

	return nil, nil
}

func (r *AgentRepository) Save(_ context.Context, agent *models.Agent) error {
	return r.c.save(agent)
}

func (r *AgentRepository) Update(_ context.Context, id string, mutate func(*models.Agent)) (*models.Agent, error) {
	return r.c.update(id, mutate)
}

func (r *AgentRepository) Delete(_ context.Context, id string) (bool, error) {
	return r.c.delete(id)
}

func (r *AgentRepository) ReplaceAll(_ context.Context, agents []*models.Agent) error {
	return r.c.replaceAll(agents)
}

// SettingsRepository handles the single-element settings collection.
type SettingsRepository struct {
	c collection[models.Settings]
}

// NewSettingsRepository creates the settings repository sharing the store mutex.
func NewSettingsRepository(root string, mu *sync.Mutex) *SettingsRepository {
	return &SettingsRepository{c: collection[models.Settings]{
		root:  root,
		name:  "settings",
		mu:    mu,
		idOf:  func(s *models.Settings) string { return s.ID },
		touch: func(_ *models.Settings, _ time.Time, _ bool) {},
	}}
}

// Get returns the settings singleton, or (nil, nil) before seeding.
func (r *SettingsRepository) Get(_ context.Context) (*models.Settings, error) {
	items, err := r.c.read()
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, nil
	}

	return items[0], nil
}

// Put replaces the settings singleton, forcing the fixed id.
func (r *SettingsRepository) Put(_ context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsID

	return r.c.replaceAll([]*models.Settings{settings})
}

// WorkflowRunRepository handles the workflow_runs collection.
type WorkflowRunRepository struct {
	c collection[models.WorkflowRun]
}

// NewWorkflowRunRepository creates a run repository sharing the store mutex.
func NewWorkflowRunRepository(root string, mu *sync.Mutex) *WorkflowRunRepository {
	return &WorkflowRunRepository{c: collection[models.WorkflowRun]{
		root:  root,
		name:  "workflow_runs",
		mu:    mu,
		idOf:  func(r *models.WorkflowRun) string { return r.ID },
		touch: func(_ *models.WorkflowRun, _ time.Time, _ bool) {},
	}}
}

func (r *WorkflowRunRepository) List(_ context.Context) ([]*models.WorkflowRun, error) {
	return r.c.read()
}

func (r *WorkflowRunRepository) GetByID(_ context.Context, id string) (*models.WorkflowRun, error) {
	return r.c.getByID(id)
}

func (r *WorkflowRunRepository) Save(_ context.Context, run *models.WorkflowRun) error {
	return r.c.save(run)
}
