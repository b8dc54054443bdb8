package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mcavalcanti/lexora-api/internal/models"
)

// DeadlineRepository defines the interface for deadline data access
type DeadlineRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Deadline, error)
	FindByCase(ctx context.Context, caseID uint) ([]models.Deadline, error)
	FindUpcoming(ctx context.Context, from time.Time, window time.Duration) ([]models.Deadline, error)
	Create(ctx context.Context, deadline *models.Deadline) error
	Update(ctx context.Context, deadline *models.Deadline) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.Deadline, int64, error)
	MarkReminderSent(ctx context.Context, ids []uint) error
}

type deadlineRepository struct {
	db *gorm.DB
}

// NewDeadlineRepository creates a new deadline repository
func NewDeadlineRepository(db *gorm.DB) DeadlineRepository {
	return &deadlineRepository{db: db}
}

func (r *deadlineRepository) FindByID(ctx context.Context, id uint) (*models.Deadline, error) {
	var deadline models.Deadline
	err := r.db.WithContext(ctx).Preload("Case").Preload("Client").First(&deadline, id).Error
	if err != nil {
		return nil, err
	}
	return &deadline, nil
}

func (r *deadlineRepository) FindByCase(ctx context.Context, caseID uint) ([]models.Deadline, error) {
	var deadlines []models.Deadline
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("due_at ASC").
		Find(&deadlines).Error
	return deadlines, err
}

// FindUpcoming retrieves open deadlines due inside the window that have not
// been reminded yet.
func (r *deadlineRepository) FindUpcoming(ctx context.Context, from time.Time, window time.Duration) ([]models.Deadline, error) {
	var deadlines []models.Deadline
	err := r.db.WithContext(ctx).
		Where("done = false AND due_at > ? AND due_at <= ? AND reminder_sent_at IS NULL", from, from.Add(window)).
		Preload("Case").Preload("Client").
		Order("due_at ASC").
		Find(&deadlines).Error
	return deadlines, err
}

func (r *deadlineRepository) Create(ctx context.Context, deadline *models.Deadline) error {
	return r.db.WithContext(ctx).Create(deadline).Error
}

func (r *deadlineRepository) Update(ctx context.Context, deadline *models.Deadline) error {
	return r.db.WithContext(ctx).Save(deadline).Error
}

func (r *deadlineRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Deadline{}, id).Error
}

func (r *deadlineRepository) List(ctx context.Context, query *ListQuery) ([]models.Deadline, int64, error) {
	var deadlines []models.Deadline
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Deadline{})

	if query.Search != "" {
		db = db.Where("title ILIKE ?", "%"+query.Search+"%")
	}
	if done := query.Filters["done"]; done != "" {
		db = db.Where("done = ?", done == "true")
	}
	if clientID := query.Filters["client_id"]; clientID != "" {
		db = db.Where("client_id = ?", clientID)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.PerPage
	err := db.Preload("Case").Preload("Client").
		Order("due_at ASC").
		Limit(query.PerPage).Offset(offset).
		Find(&deadlines).Error

	return deadlines, total, err
}

func (r *deadlineRepository) MarkReminderSent(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Deadline{}).
		Where("id IN ?", ids).
		Update("reminder_sent_at", time.Now()).Error
}
