package domain

import "time"

// Frequency defines how often a schedule fires.
type Frequency string

const (
	FrequencyOnce    Frequency = "once"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// ScheduleStatus governs whether a schedule participates in firing.
// Transitions are one-directional except active<->paused; completed and
// failed are terminal.
type ScheduleStatus string

const (
	StatusActive    ScheduleStatus = "active"
	StatusPaused    ScheduleStatus = "paused"
	StatusCompleted ScheduleStatus = "completed"
	StatusFailed    ScheduleStatus = "failed"
)

// RecipientType selects which reference (contact or group) a schedule targets.
type RecipientType string

const (
	RecipientContact RecipientType = "contact"
	RecipientGroup   RecipientType = "group"
)

// MediaType is the kind of payload a message template carries.
type MediaType string

const (
	MediaText     MediaType = "text"
	MediaImage    MediaType = "image"
	MediaDocument MediaType = "document"
	MediaAudio    MediaType = "audio"
)

// LogStatus is the lifecycle of one send attempt. Entries are created
// pending and finalized exactly once to sent or failed; delivered/read are
// reserved for external delivery-receipt updates.
type LogStatus string

const (
	LogPending   LogStatus = "pending"
	LogSent      LogStatus = "sent"
	LogFailed    LogStatus = "failed"
	LogDelivered LogStatus = "delivered"
	LogRead      LogStatus = "read"
)

// Contact is an individual WhatsApp recipient.
type Contact struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PhoneNumber string    `json:"phone_number"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Group is a WhatsApp group recipient, addressed by its group JID.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	GroupID     string    `json:"group_id"`
	Description string    `json:"description,omitempty"`
	Enabled     bool      `json:"enabled"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MessageTemplate is the content a schedule sends.
type MessageTemplate struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	MediaType MediaType `json:"media_type"`
	MediaPath string    `json:"media_path,omitempty"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Schedule is the recurring entity: it binds a template to a recipient and
// carries the calendar state the recurrence calculator and dispatcher own.
type Schedule struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	TemplateID    string         `json:"template_id"`
	RecipientType RecipientType  `json:"recipient_type"`
	ContactID     string         `json:"contact_id,omitempty"`
	GroupID       string         `json:"group_id,omitempty"`
	Frequency     Frequency      `json:"frequency"`
	StartDate     time.Time      `json:"start_date"`
	EndDate       *time.Time     `json:"end_date,omitempty"`
	DayOfWeek     *int           `json:"day_of_week,omitempty"`  // 0=Monday .. 6=Sunday
	DayOfMonth    *int           `json:"day_of_month,omitempty"` // 1-31, clamped to month length
	Status        ScheduleStatus `json:"status"`
	LastSent      *time.Time     `json:"last_sent,omitempty"`
	NextExecution *time.Time     `json:"next_execution,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`

	// Resolved references, populated on load.
	Template *MessageTemplate `json:"template,omitempty"`
	Contact  *Contact         `json:"contact,omitempty"`
	Group    *Group           `json:"group,omitempty"`
}

// IsTerminal reports whether the schedule can never fire again.
func (s *Schedule) IsTerminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusFailed
}

// MessageLog records one send attempt to one recipient.
type MessageLog struct {
	ID               string     `json:"id"`
	ScheduleID       string     `json:"schedule_id"`
	Recipient        string     `json:"recipient"`
	Status           LogStatus  `json:"status"`
	SentAt           time.Time  `json:"sent_at"`
	DeliveredAt      *time.Time `json:"delivered_at,omitempty"`
	ErrorMessage     string     `json:"error_message,omitempty"`
	GatewayMessageID string     `json:"gateway_message_id,omitempty"`
}
