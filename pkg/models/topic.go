package models

import "time"

// TopicRecency classifies how fresh a topic is, used to bias research queries.
type TopicRecency string

const (
	TopicRecencyRecent    TopicRecency = "recent"
	TopicRecencyTrending  TopicRecency = "trending"
	TopicRecencyEvergreen TopicRecency = "evergreen"
)

// TopicStatus represents the curation state of a topic.
type TopicStatus string

const (
	TopicStatusSuggested TopicStatus = "suggested"
	TopicStatusApproved  TopicStatus = "approved"
	TopicStatusRejected  TopicStatus = "rejected"
	TopicStatusUsed      TopicStatus = "used"
)

// Topic is a candidate or historical subject. Used topics feed the
// deduplication list handed to future research steps.
type Topic struct {
	ID          string       `json:"id"          validate:"required"`
	Title       string       `json:"title"       validate:"required"`
	Description string       `json:"description"`
	Sources     []string     `json:"sources"`
	Category    string       `json:"category"`
	Recency     TopicRecency `json:"recency"`
	Status      TopicStatus  `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// TopicSuggestion is one researcher proposal. TopicID is set once an
// interactive run pauses and the proposal is persisted as a suggested Topic,
// so the follow-up generate request can name it.
type TopicSuggestion struct {
	TopicID     string `json:"topicId,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Angle       string `json:"angle"`
	Category    string `json:"category"`
	Recency     string `json:"recency"`
}
