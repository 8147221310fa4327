// Package mocks provides testify mocks for the repository, generation and
// publishing interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/chazarkal/postpilot/pkg/models"
	"github.com/chazarkal/postpilot/pkg/persistence"
)

// MockPersistence is a mock implementation of persistence.Persistence.
type MockPersistence struct {
	mock.Mock

	PostRepo     *MockPostRepository
	TopicRepo    *MockTopicRepository
	AgentRepo    *MockAgentRepository
	SettingsRepo *MockSettingsRepository
	RunRepo      *MockWorkflowRunRepository
}

func NewMockPersistence() *MockPersistence {
	return &MockPersistence{
		PostRepo:     &MockPostRepository{},
		TopicRepo:    &MockTopicRepository{},
		AgentRepo:    &MockAgentRepository{},
		SettingsRepo: &MockSettingsRepository{},
		RunRepo:      &MockWorkflowRunRepository{},
	}
}

func (m *MockPersistence) Posts() persistence.PostRepository         { return m.PostRepo }
func (m *MockPersistence) Topics() persistence.TopicRepository       { return m.TopicRepo }
func (m *MockPersistence) Agents() persistence.AgentRepository       { return m.AgentRepo }
func (m *MockPersistence) Settings() persistence.SettingsRepository  { return m.SettingsRepo }
func (m *MockPersistence) WorkflowRuns() persistence.WorkflowRunRepository {
	return m.RunRepo
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// MockPostRepository is a mock implementation of persistence.PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Post), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) Save(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)

	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, id string, mutate func(*models.Post)) (*models.Post, error) {
	args := m.Called(ctx, id, mutate)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	post := args.Get(0).(*models.Post)
	mutate(post)

	return post, args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)

	return args.Bool(0), args.Error(1)
}

// MockTopicRepository is a mock implementation of persistence.TopicRepository.
type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) List(ctx context.Context) ([]*models.Topic, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Topic), args.Error(1)
}

func (m *MockTopicRepository) GetByID(ctx context.Context, id string) (*models.Topic, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Topic), args.Error(1)
}

func (m *MockTopicRepository) Save(ctx context.Context, topic *models.Topic) error {
	args := m.Called(ctx, topic)

	return args.Error(0)
}

func (m *MockTopicRepository) Update(ctx context.Context, id string, mutate func(*models.Topic)) (*models.Topic, error) {
	args := m.Called(ctx, id, mutate)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	topic := args.Get(0).(*models.Topic)
	mutate(topic)

	return topic, args.Error(1)
}

func (m *MockTopicRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)

	return args.Bool(0), args.Error(1)
}

// MockAgentRepository is a mock implementation of persistence.AgentRepository.
type MockAgentRepository struct {
	mock.Mock
}

func (m *MockAgentRepository) List(ctx context.Context) ([]*models.Agent, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Agent), args.Error(1)
}

func (m *MockAgentRepository) GetByID(ctx context.Context, id string) (*models.Agent, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Agent), args.Error(1)
}

func (m *MockAgentRepository) GetByRole(ctx context.Context, role models.AgentRole) (*models.Agent, error) {
	args := m.Called(ctx, role)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Agent), args.Error(1)
}

func (m *MockAgentRepository) Save(ctx context.Context, agent *models.Agent) error {
	args := m.Called(ctx, agent)

	return args.Error(0)
}

func (m *MockAgentRepository) Update(ctx context.Context, id string, mutate func(*models.Agent)) (*models.Agent, error) {
	args := m.Called(ctx, id, mutate)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	agent := args.Get(0).(*models.Agent)
	mutate(agent)

	return agent, args.Error(1)
}

func (m *MockAgentRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)

	return args.Bool(0), args.Error(1)
}

func (m *MockAgentRepository) ReplaceAll(ctx context.Context, agents []*models.Agent) error {
	args := m.Called(ctx, agents)

	return args.Error(0)
}

// MockSettingsRepository is a mock implementation of persistence.SettingsRepository.
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) Get(ctx context.Context) (*models.Settings, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Settings), args.Error(1)
}

func (m *MockSettingsRepository) Put(ctx context.Context, settings *models.Settings) error {
	args := m.Called(ctx, settings)

	return args.Error(0)
}

// MockWorkflowRunRepository is a mock implementation of persistence.WorkflowRunRepository.
type MockWorkflowRunRepository struct {
	mock.Mock
}

func (m *MockWorkflowRunRepository) List(ctx context.Context) ([]*models.WorkflowRun, error) {
	args := m.Called(ctx)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.WorkflowRun), args.Error(1)
}

func (m *MockWorkflowRunRepository) GetByID(ctx context.Context, id string) (*models.WorkflowRun, error) {
	args := m.Called(ctx, id)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.WorkflowRun), args.Error(1)
}

func (m *MockWorkflowRunRepository) Save(ctx context.Context, run *models.WorkflowRun) error {
	args := m.Called(ctx, run)

	return args.Error(0)
}
