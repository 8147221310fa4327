// Package file provides flat-file JSON persistence, one array file per collection.
package file

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/chazarkal/postpilot/pkg/persistence"
)

// Persistence implements persistence.Persistence on top of a data directory
// holding one JSON array file per collection. Snapshots are whole-file:
// every mutation is a read-modify-write of the full array, last writer wins.
// A process-local mutex serializes mutations within this process; concurrent
// processes still race, which is the documented contract of this store.
type Persistence struct {
	root string

	posts    *PostRepository
	topics   *TopicRepository
	agents   *AgentRepository
	settings *SettingsRepository
	runs     *WorkflowRunRepository
}

// NewPersistence creates a file persistence rooted at the given directory.
// A "file://" prefix is accepted and stripped.
func NewPersistence(root string) *Persistence {
	cleanRoot := strings.TrimPrefix(root, "file://")
	mu := &sync.Mutex{}

	return &Persistence{
		root:     cleanRoot,
		posts:    NewPostRepository(cleanRoot, mu),
		topics:   NewTopicRepository(cleanRoot, mu),
		agents:   NewAgentRepository(cleanRoot, mu),
		settings: NewSettingsRepository(cleanRoot, mu),
		runs:     NewWorkflowRunRepository(cleanRoot, mu),
	}
}

// Close is a no-op for file persistence.
func (p *Persistence) Close(_ context.Context) error {
	return nil
}

// HealthCheck verifies the data directory exists, creating it on demand.
func (p *Persistence) HealthCheck(_ context.Context) error {
	return os.MkdirAll(p.root, 0750)
}

func (p *Persistence) Posts() persistence.PostRepository { return p.posts }

func (p *Persistence) Topics() persistence.TopicRepository { return p.topics }

func (p *Persistence) Agents() persistence.AgentRepository { return p.agents }

func (p *Persistence) Settings() persistence.SettingsRepository { return p.settings }

func (p *Persistence) WorkflowRuns() persistence.WorkflowRunRepository { return p.runs }
