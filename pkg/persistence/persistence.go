// Package persistence defines the repository contracts for all collections.
package persistence

import (
	"context"

	"github.com/chazarkal/postpilot/pkg/models"
)

// PostRepository stores posts. GetByID and Update return (nil, nil) for an
// unknown id; Delete returns (false, nil). Lookups never fail on absence.
type PostRepository interface {
	List(ctx context.Context) ([]*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	Save(ctx context.Context, post *models.Post) error
	Update(ctx context.Context, id string, mutate func(*models.Post)) (*models.Post, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// TopicRepository stores topics.
type TopicRepository interface {
	List(ctx context.Context) ([]*models.Topic, error)
	GetByID(ctx context.Context, id string) (*models.Topic, error)
	Save(ctx context.Context, topic *models.Topic) error
	Update(ctx context.Context, id string, mutate func(*models.Topic)) (*models.Topic, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// AgentRepository stores agent role definitions.
type AgentRepository interface {
	List(ctx context.Context) ([]*models.Agent, error)
	GetByID(ctx context.Context, id string) (*models.Agent, error)
	GetByRole(ctx context.Context, role models.AgentRole) (*models.Agent, error)
	Save(ctx context.Context, agent *models.Agent) error
	Update(ctx context.Context, id string, mutate func(*models.Agent)) (*models.Agent, error)
	Delete(ctx context.Context, id string) (bool, error)
	ReplaceAll(ctx context.Context, agents []*models.Agent) error
}

// SettingsRepository stores the settings singleton. Get returns (nil, nil)
// when nothing has been seeded yet.
type SettingsRepository interface {
	Get(ctx context.Context) (*models.Settings, error)
	Put(ctx context.Context, settings *models.Settings) error
}

// WorkflowRunRepository stores pipeline audit records.
type WorkflowRunRepository interface {
	List(ctx context.Context) ([]*models.WorkflowRun, error)
	GetByID(ctx context.Context, id string) (*models.WorkflowRun, error)
	Save(ctx context.Context, run *models.WorkflowRun) error
}

// Persistence aggregates all collection repositories behind one handle.
type Persistence interface {
	Posts() PostRepository
	Topics() TopicRepository
	Agents() AgentRepository
	Settings() SettingsRepository
	WorkflowRuns() WorkflowRunRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
