package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mcavalcanti/lexora-api/internal/finance"
	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/pkg/logger"
)

// LedgerSyncService reconciles the installment plan implied by a client's
// financial profile against the ledger store, without losing paid history or
// duplicating entries.
//
// Concurrency: at most one Sync may run per (client, case) key. Two edits to
// the same profile racing through the delete-then-insert cycle could
// otherwise duplicate installments, so the key is guarded by an in-process
// mutex for the whole cycle. A busy key fails fast with ErrSyncInProgress and
// the caller retries.
type LedgerSyncService struct {
	ledgerRepo repository.LedgerRepository
	auditSvc   *AuditService

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLedgerSyncService creates a new ledger synchronization service
func NewLedgerSyncService(ledgerRepo repository.LedgerRepository, auditSvc *AuditService) *LedgerSyncService {
	return &LedgerSyncService{
		ledgerRepo: ledgerRepo,
		auditSvc:   auditSvc,
		locks:      make(map[string]*sync.Mutex),
	}
}

// SyncResult summarizes one reconciliation cycle
type SyncResult struct {
	BatchID   string               `json:"batch_id"`
	Entries   []models.LedgerEntry `json:"entries"`
	Generated int                  `json:"generated"`
	Removed   int                  `json:"removed"`
	Preserved int                  `json:"preserved"`
}

// Sync regenerates the planned ledger entries for a client (optionally
// narrowed to one case) from its financial profile:
//
//  1. load every entry for the key,
//  2. partition into paid and pending,
//  3. delete pending entries that belong to a regenerable family (origin
//     tag, never category text — manual entries are never touched),
//  4. detect paid entries the calculator would otherwise re-emit (entry fee,
//     guia shares) so no duplicate is planned,
//  5. insert the freshly calculated plan,
//  6. return paid entries carried over untouched plus the new pending set.
//
// Steps 3 and 5 run inside one store transaction, so a failed sync leaves the
// previously visible ledger unchanged. Re-running Sync with the same profile
// is idempotent: the sweep always clears prior pending plan state first.
func (s *LedgerSyncService) Sync(ctx context.Context, client *models.Client, caseID *uint, now time.Time) (*SyncResult, error) {
	key := syncKey(client.ID, caseID)
	lock := s.keyLock(key)
	if !lock.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer lock.Unlock()

	profile := finance.ProfileFromClient(client)
	if err := profile.Validate(); err != nil {
		return nil, err
	}

	batchID := uuid.NewString()
	result := &SyncResult{BatchID: batchID}

	err := s.ledgerRepo.Transaction(ctx, func(repo repository.LedgerRepository) error {
		existing, err := repo.FindByClient(ctx, client.ID, caseID)
		if err != nil {
			return fmt.Errorf("falha ao carregar lançamentos: %w", err)
		}

		var kept []models.LedgerEntry
		var staleIDs []uint
		hasPaidEntryFee := false
		hasPaidGuiaPrincipal := false
		hasPaidGuiaRecurso := false

		for _, entry := range existing {
			if entry.IsPaid() {
				switch entry.Origin {
				case models.OriginEntryFee:
					hasPaidEntryFee = true
				case models.OriginGuideSplit:
					// Paid guias survive the sweep; the calculator must not
					// emit the same share again.
					switch entry.Category {
					case finance.CategoryGuiaPrincipal:
						hasPaidGuiaPrincipal = true
					case finance.CategoryGuiaRecurso:
						hasPaidGuiaRecurso = true
					}
				}
				kept = append(kept, entry)
				continue
			}
			if entry.IsGenerated() {
				staleIDs = append(staleIDs, entry.ID)
				continue
			}
			// Pending manual entry: outside the regenerable pool.
			kept = append(kept, entry)
		}

		plan, err := finance.BuildPlan(finance.PlanInput{
			ClientID:             client.ID,
			CaseID:               caseID,
			Defensoria:           client.IsDefensoria(),
			Profile:              profile,
			HasPaidEntryFee:      hasPaidEntryFee,
			HasPaidGuiaPrincipal: hasPaidGuiaPrincipal,
			HasPaidGuiaRecurso:   hasPaidGuiaRecurso,
			BaseDate:             finance.BillingBaseDate(now, profile.BillingDay),
			Now:                  now,
		})
		if err != nil {
			return err
		}

		if err := repo.DeleteBatch(ctx, staleIDs); err != nil {
			return fmt.Errorf("falha ao remover lançamentos pendentes: %w", err)
		}

		fresh := make([]models.LedgerEntry, 0, len(plan))
		for _, planned := range plan {
			entry := planned.ToLedgerEntry(client.ID, caseID)
			entry.SyncBatchID = &batchID
			fresh = append(fresh, entry)
		}
		fresh, err = repo.CreateBatch(ctx, fresh)
		if err != nil {
			return fmt.Errorf("falha ao gravar plano de parcelas: %w", err)
		}

		result.Entries = append(kept, fresh...)
		result.Generated = len(fresh)
		result.Removed = len(staleIDs)
		result.Preserved = len(kept)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Ledger sincronizado",
		"client_id", client.ID,
		"batch_id", batchID,
		"generated", result.Generated,
		"removed", result.Removed,
		"preserved", result.Preserved,
	)

	if s.auditSvc != nil {
		detail := fmt.Sprintf("batch=%s generated=%d removed=%d", batchID, result.Generated, result.Removed)
		if err := s.auditSvc.Log(ctx, "SYNC", "Client", client.ID, detail); err != nil {
			logger.Warn("Falha ao gravar auditoria da sincronização", "error", err)
		}
	}

	return result, nil
}

func (s *LedgerSyncService) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

func syncKey(clientID uint, caseID *uint) string {
	if caseID != nil {
		return fmt.Sprintf("%d/%d", clientID, *caseID)
	}
	return fmt.Sprintf("%d/-", clientID)
}
