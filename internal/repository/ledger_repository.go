package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mcavalcanti/lexora-api/internal/models"
)

// LedgerRepository defines the interface for ledger entry data access.
// Transaction runs a function against a repository view bound to a single
// database transaction; the synchronizer uses it so the delete-and-recreate
// cycle commits atomically.
type LedgerRepository interface {
	Create(ctx context.Context, entry *models.LedgerEntry) error
	CreateBatch(ctx context.Context, entries []models.LedgerEntry) ([]models.LedgerEntry, error)
	FindByID(ctx context.Context, id uint) (*models.LedgerEntry, error)
	FindByClient(ctx context.Context, clientID uint, caseID *uint) ([]models.LedgerEntry, error)
	FindByCase(ctx context.Context, caseID uint) ([]models.LedgerEntry, error)
	List(ctx context.Context, query *LedgerQuery) ([]models.LedgerEntry, int64, error)
	Update(ctx context.Context, entry *models.LedgerEntry) error
	Delete(ctx context.Context, id uint) error
	DeleteBatch(ctx context.Context, ids []uint) error
	FindOverduePending(ctx context.Context, asOf time.Time) ([]models.LedgerEntry, error)
	Transaction(ctx context.Context, fn func(LedgerRepository) error) error
}

// LedgerQuery filters the office-wide entry listing
type LedgerQuery struct {
	*ListQuery
	ClientID uint
	CaseID   uint
	Kind     string
	Status   string
	Origin   string
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) CreateBatch(ctx context.Context, entries []models.LedgerEntry) ([]models.LedgerEntry, error) {
	if len(entries) == 0 {
		return entries, nil
	}
	err := r.db.WithContext(ctx).Create(&entries).Error
	return entries, err
}

func (r *ledgerRepository) FindByID(ctx context.Context, id uint) (*models.LedgerEntry, error) {
	var entry models.LedgerEntry
	err := r.db.WithContext(ctx).First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByClient retrieves all entries for a client; when caseID is set the
// result is narrowed to that case.
func (r *ledgerRepository) FindByClient(ctx context.Context, clientID uint, caseID *uint) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	db := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	if caseID != nil {
		db = db.Where("case_id = ?", *caseID)
	}
	err := db.Order("due_date ASC, created_at ASC").Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) FindByCase(ctx context.Context, caseID uint) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("due_date ASC, created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) List(ctx context.Context, query *LedgerQuery) ([]models.LedgerEntry, int64, error) {
	var entries []models.LedgerEntry
	var total int64

	db := r.db.WithContext(ctx).Model(&models.LedgerEntry{})

	if query.ClientID > 0 {
		db = db.Where("client_id = ?", query.ClientID)
	}
	if query.CaseID > 0 {
		db = db.Where("case_id = ?", query.CaseID)
	}
	if query.Kind != "" {
		db = db.Where("kind = ?", query.Kind)
	}
	if query.Status != "" {
		db = db.Where("status = ?", query.Status)
	}
	if query.Origin != "" {
		db = db.Where("origin = ?", query.Origin)
	}
	if from := query.Filters["start_date"]; from != "" {
		db = db.Where("due_date >= ?", from)
	}
	if to := query.Filters["end_date"]; to != "" {
		db = db.Where("due_date <= ?", to)
	}
	if query.Search != "" {
		db = db.Where("category ILIKE ? OR notes ILIKE ?", "%"+query.Search+"%", "%"+query.Search+"%")
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (query.Page - 1) * query.PerPage
	err := db.Preload("Client").Preload("Case").
		Order("due_date DESC, created_at DESC").
		Limit(query.PerPage).Offset(offset).
		Find(&entries).Error

	return entries, total, err
}

func (r *ledgerRepository) Update(ctx context.Context, entry *models.LedgerEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *ledgerRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.LedgerEntry{}, id).Error
}

func (r *ledgerRepository) DeleteBatch(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Delete(&models.LedgerEntry{}, ids).Error
}

// FindOverduePending retrieves unpaid entries past their due date, for the
// nightly overdue sweep.
func (r *ledgerRepository) FindOverduePending(ctx context.Context, asOf time.Time) ([]models.LedgerEntry, error) {
	var entries []models.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date < ?", models.EntryStatusPending, asOf).
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) Transaction(ctx context.Context, fn func(LedgerRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&ledgerRepository{db: tx})
	})
}
