package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/chazarkal/postpilot/pkg/eventbus"
	"github.com/chazarkal/postpilot/pkg/events"
	"github.com/chazarkal/postpilot/pkg/gemini"
	"github.com/chazarkal/postpilot/pkg/linkedin"
)

// MockGenerator is a mock implementation of workflow.Generator.
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Complete(ctx context.Context, prompt string, opts gemini.Options) (string, error) {
	args := m.Called(ctx, prompt, opts)

	return args.String(0), args.Error(1)
}

func (m *MockGenerator) CompleteWithSearch(ctx context.Context, prompt string, opts gemini.Options) (gemini.Result, error) {
	args := m.Called(ctx, prompt, opts)

	return args.Get(0).(gemini.Result), args.Error(1)
}

func (m *MockGenerator) FindImageSuggestions(ctx context.Context, topic, model string) ([]string, error) {
	args := m.Called(ctx, topic, model)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}

// MockPublisher is a mock implementation of workflow.Publisher.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, text string, imageURL *string) linkedin.PublishResult {
	args := m.Called(ctx, text, imageURL)

	return args.Get(0).(linkedin.PublishResult)
}

func (m *MockPublisher) ValidateToken(ctx context.Context) bool {
	args := m.Called(ctx)

	return args.Bool(0)
}

// MockEventBus is a mock implementation of eventbus.EventBus.
type MockEventBus struct {
	mock.Mock
}

func (m *MockEventBus) Publish(ctx context.Context, key string, event eventbus.Event) error {
	args := m.Called(ctx, key, event)

	return args.Error(0)
}

func (m *MockEventBus) Handle(eventType events.EventType, handler eventbus.EventHandler) {
	m.Called(eventType, handler)
}

func (m *MockEventBus) Subscribe(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockEventBus) Close() error {
	args := m.Called()

	return args.Error(0)
}

func (m *MockEventBus) GenerateID() string {
	args := m.Called()

	return args.String(0)
}
