package repository

import (
	"context"
	"time"

	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScheduleGormRepository persists schedules and resolves their template and
// recipient references on load.
type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

func (r *ScheduleGormRepository) InitSchema(ctx context.Context) error {
	// GORM AutoMigrate handles creation and schema updates
	return r.db.WithContext(ctx).AutoMigrate(&scheduleModel{})
}

func (r *ScheduleGormRepository) Create(ctx context.Context, s *domain.Schedule) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	model := toScheduleModel(s)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r *ScheduleGormRepository) GetByID(ctx context.Context, id string) (*domain.Schedule, error) {
	var m scheduleModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrScheduleNotFound
		}
		return nil, err
	}
	s := fromScheduleModel(m)
	r.resolveRefs(ctx, r.db, s)
	return s, nil
}

func (r *ScheduleGormRepository) Update(ctx context.Context, s *domain.Schedule) error {
	s.UpdatedAt = time.Now().UTC()
	model := toScheduleModel(s)
	result := r.db.WithContext(ctx).Model(&scheduleModel{}).Where("id = ?", s.ID).Updates(map[string]any{
		"title":          model.Title,
		"template_id":    model.TemplateID,
		"recipient_type": model.RecipientType,
		"contact_id":     model.ContactID,
		"group_id":       model.GroupID,
		"frequency":      model.Frequency,
		"start_date":     model.StartDate,
		"end_date":       model.EndDate,
		"day_of_week":    model.DayOfWeek,
		"day_of_month":   model.DayOfMonth,
		"status":         model.Status,
		"last_sent":      model.LastSent,
		"next_execution": model.NextExecution,
		"updated_at":     model.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (r *ScheduleGormRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&scheduleModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrScheduleNotFound
	}
	return nil
}

func (r *ScheduleGormRepository) List(ctx context.Context, filter domain.ScheduleFilter) ([]*domain.Schedule, error) {
	query := r.db.WithContext(ctx).Model(&scheduleModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.NextFrom != nil {
		query = query.Where("next_execution >= ?", *filter.NextFrom)
	}
	if filter.NextUntil != nil {
		query = query.Where("next_execution < ?", *filter.NextUntil)
	}
	if filter.OrderByNext {
		query = query.Order("next_execution asc")
	} else {
		query = query.Order("created_at desc")
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var models []scheduleModel
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	schedules := make([]*domain.Schedule, 0, len(models))
	for _, m := range models {
		s := fromScheduleModel(m)
		r.resolveRefs(ctx, r.db, s)
		schedules = append(schedules, s)
	}
	return schedules, nil
}

func (r *ScheduleGormRepository) CountByStatus(ctx context.Context) (map[domain.ScheduleStatus]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&scheduleModel{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[domain.ScheduleStatus]int64, len(rows))
	for _, rw := range rows {
		counts[domain.ScheduleStatus(rw.Status)] = rw.Count
	}
	return counts, nil
}

// Locked loads the schedule row under SELECT ... FOR UPDATE and keeps the
// transaction open while fn runs, so concurrent firings of the same id
// serialize on the row. The ExecutionState fn returns (if any) is written in
// the same transaction.
func (r *ScheduleGormRepository) Locked(ctx context.Context, id string, fn func(s *domain.Schedule) (*domain.ExecutionState, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m scheduleModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return domain.ErrScheduleNotFound
			}
			return err
		}
		s := fromScheduleModel(m)
		r.resolveRefs(ctx, tx, s)

		state, err := fn(s)
		if err != nil {
			return err
		}
		if state == nil {
			return nil
		}
		return tx.Model(&scheduleModel{}).Where("id = ?", id).Updates(map[string]any{
			"status":         string(state.Status),
			"last_sent":      state.LastSent,
			"next_execution": state.NextExecution,
			"updated_at":     time.Now().UTC(),
		}).Error
	})
}

// resolveRefs populates the template and recipient references. A dangling
// reference is left nil; the dispatcher treats that as a configuration error.
func (r *ScheduleGormRepository) resolveRefs(ctx context.Context, db *gorm.DB, s *domain.Schedule) {
	if s.TemplateID != "" {
		var tm templateModel
		if err := db.WithContext(ctx).First(&tm, "id = ?", s.TemplateID).Error; err == nil {
			s.Template = fromTemplateModel(tm)
		}
	}
	if s.ContactID != "" {
		var cm contactModel
		if err := db.WithContext(ctx).First(&cm, "id = ?", s.ContactID).Error; err == nil {
			s.Contact = fromContactModel(cm)
		}
	}
	if s.GroupID != "" {
		var gm groupModel
		if err := db.WithContext(ctx).First(&gm, "id = ?", s.GroupID).Error; err == nil {
			s.Group = fromGroupModel(gm)
		}
	}
}
