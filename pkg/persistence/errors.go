package persistence

import "errors"

var (
	// ErrPostNotFound is returned by callers that require a post to exist.
	// Repository lookups themselves return (nil, nil) on absence.
	ErrPostNotFound = errors.New("post not found")

	// ErrTopicNotFound is the topic counterpart of ErrPostNotFound.
	ErrTopicNotFound = errors.New("topic not found")

	// ErrAgentNotFound is returned when a pipeline step needs an agent that
	// is missing or disabled.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrSettingsNotSeeded is returned when the settings singleton has not
	// been written yet and a caller cannot proceed without it.
	ErrSettingsNotSeeded = errors.New("settings not seeded")
)

// IsPostNotFound checks whether err indicates a missing post.
func IsPostNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}

// IsTopicNotFound checks whether err indicates a missing topic.
func IsTopicNotFound(err error) bool {
	return errors.Is(err, ErrTopicNotFound)
}

// IsAgentNotFound checks whether err indicates a missing agent.
func IsAgentNotFound(err error) bool {
	return errors.Is(err, ErrAgentNotFound)
}
