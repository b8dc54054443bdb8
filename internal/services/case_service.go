package services

import (
	"context"
	"fmt"

	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/pkg/logger"
)

// CaseService handles legal case CRUD
type CaseService struct {
	repo       repository.CaseRepository
	clientRepo repository.ClientRepository
	auditSvc   *AuditService
}

// NewCaseService creates a new case service
func NewCaseService(repo repository.CaseRepository, clientRepo repository.ClientRepository, auditSvc *AuditService) *CaseService {
	return &CaseService{repo: repo, clientRepo: clientRepo, auditSvc: auditSvc}
}

// FindByID retrieves a case
func (s *CaseService) FindByID(ctx context.Context, id uint) (*models.LegalCase, error) {
	legalCase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return legalCase, nil
}

// FindByClient retrieves every case of a client
func (s *CaseService) FindByClient(ctx context.Context, clientID uint) ([]models.LegalCase, error) {
	return s.repo.FindByClient(ctx, clientID)
}

// List retrieves cases with pagination and search
func (s *CaseService) List(ctx context.Context, query *repository.ListQuery) ([]models.LegalCase, int64, error) {
	return s.repo.List(ctx, query)
}

// Create registers a new case for an existing client
func (s *CaseService) Create(ctx context.Context, legalCase *models.LegalCase) error {
	if _, err := s.clientRepo.FindByID(ctx, legalCase.ClientID); err != nil {
		return ErrNotFound
	}
	if legalCase.Status == "" {
		legalCase.Status = models.CaseStatusActive
	}
	if err := s.repo.Create(ctx, legalCase); err != nil {
		return fmt.Errorf("falha ao cadastrar processo: %w", err)
	}
	s.audit(ctx, "CREATE", legalCase.ID, legalCase.Number)
	return nil
}

// Update saves case data
func (s *CaseService) Update(ctx context.Context, legalCase *models.LegalCase) error {
	if _, err := s.repo.FindByID(ctx, legalCase.ID); err != nil {
		return ErrNotFound
	}
	if err := s.repo.Update(ctx, legalCase); err != nil {
		return fmt.Errorf("falha ao atualizar processo: %w", err)
	}
	s.audit(ctx, "UPDATE", legalCase.ID, legalCase.Number)
	return nil
}

// Delete removes a case
func (s *CaseService) Delete(ctx context.Context, id uint) error {
	legalCase, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("falha ao excluir processo: %w", err)
	}
	s.audit(ctx, "DELETE", id, legalCase.Number)
	return nil
}

func (s *CaseService) audit(ctx context.Context, action string, id uint, details string) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.Log(ctx, action, "Case", id, details); err != nil {
		logger.Warn("Falha ao gravar auditoria", "error", err)
	}
}
