package repository

import (
	"context"
	"strings"
	"time"

	"github.com/AzielCF/az-sched/scheduler/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DirectoryGormRepository persists the recipient directory: contacts, groups
// and message templates. It implements the three corresponding domain
// repository interfaces.
type DirectoryGormRepository struct {
	db *gorm.DB
}

func NewDirectoryGormRepository(db *gorm.DB) *DirectoryGormRepository {
	return &DirectoryGormRepository{db: db}
}

func (r *DirectoryGormRepository) InitSchema(ctx context.Context) error {
	return r.db.WithContext(ctx).AutoMigrate(&contactModel{}, &groupModel{}, &templateModel{})
}

func isDuplicateErr(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}

// --- Contacts ---

type contactRepo struct{ *DirectoryGormRepository }

// Contacts returns the contact-scoped view of the directory.
func (r *DirectoryGormRepository) Contacts() domain.ContactRepository { return contactRepo{r} }

func (r contactRepo) Create(ctx context.Context, c *domain.Contact) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	model := toContactModel(c)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isDuplicateErr(err) {
			return domain.ErrDuplicateContact
		}
		return err
	}
	return nil
}

func (r contactRepo) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	var m contactModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrContactNotFound
		}
		return nil, err
	}
	return fromContactModel(m), nil
}

func (r contactRepo) Update(ctx context.Context, c *domain.Contact) error {
	c.UpdatedAt = time.Now().UTC()
	model := toContactModel(c)
	result := r.db.WithContext(ctx).Model(&contactModel{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":         model.Name,
		"phone_number": model.PhoneNumber,
		"enabled":      model.Enabled,
		"updated_at":   model.UpdatedAt,
	})
	if result.Error != nil {
		if isDuplicateErr(result.Error) {
			return domain.ErrDuplicateContact
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r contactRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&contactModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrContactNotFound
	}
	return nil
}

func (r contactRepo) List(ctx context.Context) ([]*domain.Contact, error) {
	var models []contactModel
	if err := r.db.WithContext(ctx).Order("name asc").Find(&models).Error; err != nil {
		return nil, err
	}
	contacts := make([]*domain.Contact, 0, len(models))
	for _, m := range models {
		contacts = append(contacts, fromContactModel(m))
	}
	return contacts, nil
}

// --- Groups ---

type groupRepo struct{ *DirectoryGormRepository }

// Groups returns the group-scoped view of the directory.
func (r *DirectoryGormRepository) Groups() domain.GroupRepository { return groupRepo{r} }

func (r groupRepo) Create(ctx context.Context, g *domain.Group) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now

	model := toGroupModel(g)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isDuplicateErr(err) {
			return domain.ErrDuplicateGroup
		}
		return err
	}
	return nil
}

func (r groupRepo) GetByID(ctx context.Context, id string) (*domain.Group, error) {
	var m groupModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrGroupNotFound
		}
		return nil, err
	}
	return fromGroupModel(m), nil
}

func (r groupRepo) Update(ctx context.Context, g *domain.Group) error {
	g.UpdatedAt = time.Now().UTC()
	model := toGroupModel(g)
	result := r.db.WithContext(ctx).Model(&groupModel{}).Where("id = ?", g.ID).Updates(map[string]any{
		"name":        model.Name,
		"group_id":    model.GroupID,
		"description": model.Description,
		"enabled":     model.Enabled,
		"updated_at":  model.UpdatedAt,
	})
	if result.Error != nil {
		if isDuplicateErr(result.Error) {
			return domain.ErrDuplicateGroup
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r groupRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&groupModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrGroupNotFound
	}
	return nil
}

func (r groupRepo) List(ctx context.Context) ([]*domain.Group, error) {
	var models []groupModel
	if err := r.db.WithContext(ctx).Order("name asc").Find(&models).Error; err != nil {
		return nil, err
	}
	groups := make([]*domain.Group, 0, len(models))
	for _, m := range models {
		groups = append(groups, fromGroupModel(m))
	}
	return groups, nil
}

// --- Templates ---

type templateRepo struct{ *DirectoryGormRepository }

// Templates returns the template-scoped view of the directory.
func (r *DirectoryGormRepository) Templates() domain.TemplateRepository { return templateRepo{r} }

func (r templateRepo) Create(ctx context.Context, t *domain.MessageTemplate) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.MediaType == "" {
		t.MediaType = domain.MediaText
	}
	now := time.Now().UTC()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now

	model := toTemplateModel(t)
	return r.db.WithContext(ctx).Create(&model).Error
}

func (r templateRepo) GetByID(ctx context.Context, id string) (*domain.MessageTemplate, error) {
	var m templateModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}
	return fromTemplateModel(m), nil
}

func (r templateRepo) Update(ctx context.Context, t *domain.MessageTemplate) error {
	t.UpdatedAt = time.Now().UTC()
	model := toTemplateModel(t)
	result := r.db.WithContext(ctx).Model(&templateModel{}).Where("id = ?", t.ID).Updates(map[string]any{
		"title":      model.Title,
		"content":    model.Content,
		"media_type": model.MediaType,
		"media_path": model.MediaPath,
		"enabled":    model.Enabled,
		"updated_at": model.UpdatedAt,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r templateRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&templateModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrTemplateNotFound
	}
	return nil
}

func (r templateRepo) List(ctx context.Context) ([]*domain.MessageTemplate, error) {
	var models []templateModel
	if err := r.db.WithContext(ctx).Order("title asc").Find(&models).Error; err != nil {
		return nil, err
	}
	templates := make([]*domain.MessageTemplate, 0, len(models))
	for _, m := range models {
		templates = append(templates, fromTemplateModel(m))
	}
	return templates, nil
}
