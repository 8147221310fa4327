package models

// SettingsID is the fixed id of the settings singleton.
const SettingsID = "settings"

// TopicPreferences biases what the research step looks for.
type TopicPreferences struct {
	Recency            string   `json:"recency"             validate:"omitempty,oneof=recent mixed evergreen"`
	Categories         []string `json:"categories"`
	CustomInstructions string   `json:"custom_instructions"`
}

// PublishSchedule describes when posts may go out. Days use time.Weekday
// numbering (0=Sunday).
type PublishSchedule struct {
	Days      []int    `json:"days"       validate:"dive,min=0,max=6"`
	TimeSlots []string `json:"time_slots"`
	Timezone  string   `json:"timezone"`
}

// LinkedInProfile identifies the social profile posts are published under.
type LinkedInProfile struct {
	Name  string `json:"name"`
	URN   string `json:"urn"`
	Email string `json:"email"`
}

// Settings is the process-wide singleton configuration, read before every
// pipeline run. Exactly one instance exists, stored under SettingsID.
type Settings struct {
	ID                string           `json:"id"                  validate:"required"`
	PostsPerWeek      int              `json:"posts_per_week"      validate:"min=0"`
	AutoPublish       bool             `json:"auto_publish"`
	AutoApproveTopics bool             `json:"auto_approve_topics"`
	DefaultTone       string           `json:"default_tone"`
	GlobalModel       string           `json:"global_model"`
	GlobalPrompt      string           `json:"global_prompt"`
	TopicPreferences  TopicPreferences `json:"topic_preferences"`
	PublishSchedule   PublishSchedule  `json:"publish_schedule"`
	LinkedInProfile   LinkedInProfile  `json:"linkedin_profile"`
	CronWorkflowMode  string           `json:"cron_workflow_mode"`
	MinPendingBuffer  int              `json:"min_pending_buffer"  validate:"min=0"`
}
