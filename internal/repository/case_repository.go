package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mcavalcanti/lexora-api/internal/models"
)

// CaseRepository defines the interface for legal case data access
type CaseRepository interface {
	FindByID(ctx context.Context, id uint) (*models.LegalCase, error)
	FindByClient(ctx context.Context, clientID uint) ([]models.LegalCase, error)
	Create(ctx context.Context, legalCase *models.LegalCase) error
	Update(ctx context.Context, legalCase *models.LegalCase) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, query *ListQuery) ([]models.LegalCase, int64, error)
}

type caseRepository struct {
	db *gorm.DB
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *gorm.DB) CaseRepository {
	return &caseRepository{db: db}
}

func (r *caseRepository) FindByID(ctx context.Context, id uint) (*models.LegalCase, error) {
	var legalCase models.LegalCase
	err := r.db.WithContext(ctx).Preload("Client").First(&legalCase, id).Error
	if err != nil {
		return nil, err
	}
	return &legalCase, nil
}

func (r *caseRepository) FindByClient(ctx context.Context, clientID uint) ([]models.LegalCase, error) {
	var cases []models.LegalCase
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC").
		Find(&cases).Error
	return cases, err
}

func (r *caseRepository) Create(ctx context.Context, legalCase *models.LegalCase) error {
	return r.db.WithContext(ctx).Create(legalCase).Error
}

func (r *caseRepository) Update(ctx context.Context, legalCase *models.LegalCase) error {
	return r.db.WithContext(ctx).Save(legalCase).Error
}

func (r *caseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LegalCase{}, id).Error
}

func (r *caseRepository) List(ctx context.Context, query *ListQuery) ([]models.LegalCase, int64, error) {
	var cases []models.LegalCase
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LegalCase{})

	if query.Search != "" {
		db = db.Where("number ILIKE ? OR subject ILIKE ?", "%"+query.Search+"%", "%"+query.Search+"%")
	}
	if status := query.Filters["status"]; status != "" {
		db = db.Where("status = ?", status)
	}
	if area := query.Filters["area"]; area != "" {
		db = db.Where("area = ?", area)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.PerPage
	err := db.Preload("Client").
		Order("created_at DESC").
		Limit(query.PerPage).Offset(offset).
		Find(&cases).Error

	return cases, total, err
}
