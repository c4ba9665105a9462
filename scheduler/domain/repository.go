package domain

import (
	"context"
	"time"
)

// ScheduleFilter define los criterios de filtrado para listar agendamientos
type ScheduleFilter struct {
	Status      *ScheduleStatus
	NextFrom    *time.Time // next_execution >= NextFrom
	NextUntil   *time.Time // next_execution < NextUntil
	OrderByNext bool
	Limit       int
	Offset      int
}

// ExecutionState is the slice of a schedule the dispatcher writes back after
// one firing. It is applied as a single atomic update.
type ExecutionState struct {
	Status        ScheduleStatus
	LastSent      *time.Time
	NextExecution *time.Time
}

// ScheduleRepository define las operaciones de persistencia para agendamientos
type ScheduleRepository interface {
	Create(ctx context.Context, s *Schedule) error
	GetByID(ctx context.Context, id string) (*Schedule, error)
	Update(ctx context.Context, s *Schedule) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ScheduleFilter) ([]*Schedule, error)
	CountByStatus(ctx context.Context) (map[ScheduleStatus]int64, error)

	// Locked loads the schedule under a row-level write lock and runs fn
	// while the lock is held, so firings of the same schedule id are
	// mutually exclusive. A non-nil ExecutionState returned by fn is
	// persisted in the same transaction before the lock releases.
	Locked(ctx context.Context, id string, fn func(s *Schedule) (*ExecutionState, error)) error
}

// LogFilter define los criterios de filtrado para listar logs
type LogFilter struct {
	ScheduleID string
	Status     *LogStatus
	Limit      int
	Offset     int
}

// LogRepository define las operaciones de persistencia para logs de envío
type LogRepository interface {
	Create(ctx context.Context, log *MessageLog) error
	// Finalize moves a pending entry to sent or failed exactly once;
	// already-finalized entries are left untouched.
	Finalize(ctx context.Context, id string, status LogStatus, gatewayMessageID, errorMessage string, sentAt time.Time) error
	List(ctx context.Context, filter LogFilter) ([]*MessageLog, error)
	CountByStatus(ctx context.Context) (map[LogStatus]int64, error)
}

// ContactRepository define las operaciones de persistencia para contactos
type ContactRepository interface {
	Create(ctx context.Context, c *Contact) error
	GetByID(ctx context.Context, id string) (*Contact, error)
	Update(ctx context.Context, c *Contact) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Contact, error)
}

// GroupRepository define las operaciones de persistencia para grupos
type GroupRepository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id string) (*Group, error)
	Update(ctx context.Context, g *Group) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*Group, error)
}

// TemplateRepository define las operaciones de persistencia para templates
type TemplateRepository interface {
	Create(ctx context.Context, t *MessageTemplate) error
	GetByID(ctx context.Context, id string) (*MessageTemplate, error)
	Update(ctx context.Context, t *MessageTemplate) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*MessageTemplate, error)
}
