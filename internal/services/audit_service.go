package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/mcavalcanti/lexora-api/internal/models"
)

// AuditService appends audit entries for entity mutations
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// Log records an audit entry
func (s *AuditService) Log(ctx context.Context, action, entity string, entityID uint, details string) error {
	logEntry := &models.AuditLog{
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  details,
	}
	return s.db.WithContext(ctx).Create(logEntry).Error
}
