package repository

import (
	"time"

	"github.com/AzielCF/az-sched/scheduler/domain"
)

// --- Persistence Models ---

type contactModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"index:idx_contacts_name;not null"`
	PhoneNumber string `gorm:"uniqueIndex:idx_contacts_phone;not null"`
	Enabled     bool   `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (contactModel) TableName() string {
	return "contacts"
}

type groupModel struct {
	ID          string `gorm:"primaryKey"`
	Name        string `gorm:"index:idx_groups_name;not null"`
	GroupID     string `gorm:"uniqueIndex:idx_groups_group_id;not null"`
	Description string `gorm:"type:text"`
	Enabled     bool   `gorm:"default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (groupModel) TableName() string {
	return "groups"
}

type templateModel struct {
	ID        string `gorm:"primaryKey"`
	Title     string `gorm:"index:idx_templates_title;not null"`
	Content   string `gorm:"type:text;not null"`
	MediaType string `gorm:"default:'text'"`
	MediaPath string
	Enabled   bool `gorm:"default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (templateModel) TableName() string {
	return "message_templates"
}

type scheduleModel struct {
	ID            string `gorm:"primaryKey"`
	Title         string `gorm:"not null"`
	TemplateID    string `gorm:"index:idx_schedules_template;not null"`
	RecipientType string `gorm:"not null"`
	ContactID     *string
	GroupID       *string
	Frequency     string    `gorm:"not null"`
	StartDate     time.Time `gorm:"not null"`
	EndDate       *time.Time
	DayOfWeek     *int
	DayOfMonth    *int
	Status        string `gorm:"index:idx_schedules_status;default:'active'"`
	LastSent      *time.Time
	NextExecution *time.Time `gorm:"index:idx_schedules_next"`
	CreatedAt     time.Time  `gorm:"not null"`
	UpdatedAt     time.Time  `gorm:"not null"`
}

func (scheduleModel) TableName() string {
	return "schedules"
}

type messageLogModel struct {
	ID               string `gorm:"primaryKey"`
	ScheduleID       string `gorm:"index:idx_logs_schedule;not null"`
	Recipient        string `gorm:"not null"`
	Status           string `gorm:"index:idx_logs_status;default:'pending'"`
	SentAt           time.Time
	DeliveredAt      *time.Time
	ErrorMessage     string `gorm:"type:text"`
	GatewayMessageID string
}

func (messageLogModel) TableName() string {
	return "message_logs"
}

// --- Mapping ---

func toContactModel(c *domain.Contact) contactModel {
	return contactModel{
		ID:          c.ID,
		Name:        c.Name,
		PhoneNumber: c.PhoneNumber,
		Enabled:     c.Enabled,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func fromContactModel(m contactModel) *domain.Contact {
	return &domain.Contact{
		ID:          m.ID,
		Name:        m.Name,
		PhoneNumber: m.PhoneNumber,
		Enabled:     m.Enabled,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toGroupModel(g *domain.Group) groupModel {
	return groupModel{
		ID:          g.ID,
		Name:        g.Name,
		GroupID:     g.GroupID,
		Description: g.Description,
		Enabled:     g.Enabled,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func fromGroupModel(m groupModel) *domain.Group {
	return &domain.Group{
		ID:          m.ID,
		Name:        m.Name,
		GroupID:     m.GroupID,
		Description: m.Description,
		Enabled:     m.Enabled,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toTemplateModel(t *domain.MessageTemplate) templateModel {
	return templateModel{
		ID:        t.ID,
		Title:     t.Title,
		Content:   t.Content,
		MediaType: string(t.MediaType),
		MediaPath: t.MediaPath,
		Enabled:   t.Enabled,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func fromTemplateModel(m templateModel) *domain.MessageTemplate {
	return &domain.MessageTemplate{
		ID:        m.ID,
		Title:     m.Title,
		Content:   m.Content,
		MediaType: domain.MediaType(m.MediaType),
		MediaPath: m.MediaPath,
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toScheduleModel(s *domain.Schedule) scheduleModel {
	m := scheduleModel{
		ID:            s.ID,
		Title:         s.Title,
		TemplateID:    s.TemplateID,
		RecipientType: string(s.RecipientType),
		Frequency:     string(s.Frequency),
		StartDate:     s.StartDate,
		EndDate:       s.EndDate,
		DayOfWeek:     s.DayOfWeek,
		DayOfMonth:    s.DayOfMonth,
		Status:        string(s.Status),
		LastSent:      s.LastSent,
		NextExecution: s.NextExecution,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.ContactID != "" {
		id := s.ContactID
		m.ContactID = &id
	}
	if s.GroupID != "" {
		id := s.GroupID
		m.GroupID = &id
	}
	return m
}

func fromScheduleModel(m scheduleModel) *domain.Schedule {
	s := &domain.Schedule{
		ID:            m.ID,
		Title:         m.Title,
		TemplateID:    m.TemplateID,
		RecipientType: domain.RecipientType(m.RecipientType),
		Frequency:     domain.Frequency(m.Frequency),
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		DayOfWeek:     m.DayOfWeek,
		DayOfMonth:    m.DayOfMonth,
		Status:        domain.ScheduleStatus(m.Status),
		LastSent:      m.LastSent,
		NextExecution: m.NextExecution,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.ContactID != nil {
		s.ContactID = *m.ContactID
	}
	if m.GroupID != nil {
		s.GroupID = *m.GroupID
	}
	return s
}

func toLogModel(l *domain.MessageLog) messageLogModel {
	return messageLogModel{
		ID:               l.ID,
		ScheduleID:       l.ScheduleID,
		Recipient:        l.Recipient,
		Status:           string(l.Status),
		SentAt:           l.SentAt,
		DeliveredAt:      l.DeliveredAt,
		ErrorMessage:     l.ErrorMessage,
		GatewayMessageID: l.GatewayMessageID,
	}
}

func fromLogModel(m messageLogModel) *domain.MessageLog {
	return &domain.MessageLog{
		ID:               m.ID,
		ScheduleID:       m.ScheduleID,
		Recipient:        m.Recipient,
		Status:           domain.LogStatus(m.Status),
		SentAt:           m.SentAt,
		DeliveredAt:      m.DeliveredAt,
		ErrorMessage:     m.ErrorMessage,
		GatewayMessageID: m.GatewayMessageID,
	}
}
