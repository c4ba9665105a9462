package repository

import (
	"context"
	"time"

	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogGormRepository persists message logs. Entries are append-only: they are
// created pending and finalized exactly once.
type LogGormRepository struct {
	db *gorm.DB
}

func NewLogGormRepository(db *gorm.DB) *LogGormRepository {
	return &LogGormRepository{db: db}
}

func (r *LogGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&messageLogModel{})
}

func (r *LogGormRepository) Create(ctx context.Context, log *domain.MessageLog) error {
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	if log.Status == "" {
		log.Status = domain.LogPending
	}
	if log.SentAt.IsZero() {
		log.SentAt = time.Now().UTC()
	}
	model := toLogModel(log)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Finalize transitions a pending entry to sent or failed. Rows already past
// pending are not touched, which keeps finalization idempotent.
func (r *LogGormRepository) Finalize(ctx context.Context, id string, status domain.LogStatus, gatewayMessageID, errorMessage string, sentAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&messageLogModel{}).
		Where("id = ? AND status = ?", id, string(domain.LogPending)).
		Updates(map[string]any{
			"status":             string(status),
			"gateway_message_id": gatewayMessageID,
			"error_message":      errorMessage,
			"sent_at":            sentAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var count int64
		r.db.WithContext(ctx).Model(&messageLogModel{}).Where("id = ?", id).Count(&count)
		if count == 0 {
			return domain.ErrLogNotFound
		}
	}
	return nil
}

func (r *LogGormRepository) List(ctx context.Context, filter domain.LogFilter) ([]*domain.MessageLog, error) {
	query := r.db.WithContext(ctx).Model(&messageLogModel{}).Order("sent_at desc")

	if filter.ScheduleID != "" {
		query = query.Where("schedule_id = ?", filter.ScheduleID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var models []messageLogModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	logs := make([]*domain.MessageLog, 0, len(models))
	for _, m := range models {
		logs = append(logs, fromLogModel(m))
	}
	return logs, nil
}

func (r *LogGormRepository) CountByStatus(ctx context.Context) (map[domain.LogStatus]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&messageLogModel{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.LogStatus]int64, len(rows))
	for _, rw := range rows {
		counts[domain.LogStatus(rw.Status)] = rw.Count
	}
	return counts, nil
}
