package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mcavalcanti/lexora-api/internal/finance"
	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/pkg/logger"
)

// ClientService handles client CRUD. Saving the financial profile runs a
// ledger sync so the installment plan always mirrors the stored profile.
type ClientService struct {
	repo     repository.ClientRepository
	syncSvc  *LedgerSyncService
	auditSvc *AuditService
}

// NewClientService creates a new client service
func NewClientService(repo repository.ClientRepository, syncSvc *LedgerSyncService, auditSvc *AuditService) *ClientService {
	return &ClientService{repo: repo, syncSvc: syncSvc, auditSvc: auditSvc}
}

// FindByID retrieves a client
func (s *ClientService) FindByID(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return client, nil
}

// FindByIDWithLedger retrieves a client with cases and ledger entries loaded
func (s *ClientService) FindByIDWithLedger(ctx context.Context, id uint) (*models.Client, error) {
	client, err := s.repo.FindByIDWithLedger(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return client, nil
}

// List retrieves clients with pagination and search
func (s *ClientService) List(ctx context.Context, query *repository.ListQuery) ([]models.Client, int64, error) {
	return s.repo.List(ctx, query)
}

// Create registers a new client and generates its initial plan when the
// profile already carries contracted values.
func (s *ClientService) Create(ctx context.Context, client *models.Client) (*SyncResult, error) {
	if client.Category == "" {
		client.Category = models.ClientCategoryParticular
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("falha ao cadastrar cliente: %w", err)
	}
	s.audit(ctx, "CREATE", client.ID, client.Name)

	result, err := s.syncSvc.Sync(ctx, client, nil, time.Now())
	if err != nil {
		// The client row exists either way; the caller decides how to
		// surface the failed plan generation.
		logger.Warn("Sincronização inicial falhou", "client_id", client.ID, "error", err)
		return nil, err
	}
	return result, nil
}

// Update saves client data without touching the ledger
func (s *ClientService) Update(ctx context.Context, client *models.Client) error {
	if _, err := s.repo.FindByID(ctx, client.ID); err != nil {
		return ErrNotFound
	}
	if err := s.repo.Update(ctx, client); err != nil {
		return fmt.Errorf("falha ao atualizar cliente: %w", err)
	}
	s.audit(ctx, "UPDATE", client.ID, client.Name)
	return nil
}

// SaveFinancialProfile persists the financial columns and reconciles the
// ledger in the same call, returning the sync outcome for the UI to render.
func (s *ClientService) SaveFinancialProfile(ctx context.Context, client *models.Client, now time.Time) (*SyncResult, error) {
	if _, err := s.repo.FindByID(ctx, client.ID); err != nil {
		return nil, ErrNotFound
	}
	// Reject a broken profile before anything is written; the sync would
	// refuse it anyway, but by then the row would already carry the bad
	// values.
	if err := finance.ProfileFromClient(client).Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("falha ao salvar perfil financeiro: %w", err)
	}

	result, err := s.syncSvc.Sync(ctx, client, nil, now)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, "UPDATE", client.ID, "perfil financeiro")
	return result, nil
}

// Delete removes a client
func (s *ClientService) Delete(ctx context.Context, id uint) error {
	client, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("falha ao excluir cliente: %w", err)
	}
	s.audit(ctx, "DELETE", id, client.Name)
	return nil
}

func (s *ClientService) audit(ctx context.Context, action string, id uint, details string) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.Log(ctx, action, "Client", id, details); err != nil {
		logger.Warn("Falha ao gravar auditoria", "error", err)
	}
}
