package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcavalcanti/lexora-api/internal/finance"
	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/internal/statemachine"
	"github.com/mcavalcanti/lexora-api/pkg/logger"
)

// FinanceService is the read path over the ledger plus the manual entry
// operations: ad-hoc revenue/expense CRUD and the pago/pendente toggle.
type FinanceService struct {
	ledgerRepo repository.LedgerRepository
	clientRepo repository.ClientRepository
	auditSvc   *AuditService
	notifSvc   *NotificationService
}

// NewFinanceService creates a new finance service
func NewFinanceService(
	ledgerRepo repository.LedgerRepository,
	clientRepo repository.ClientRepository,
	auditSvc *AuditService,
	notifSvc *NotificationService,
) *FinanceService {
	return &FinanceService{
		ledgerRepo: ledgerRepo,
		clientRepo: clientRepo,
		auditSvc:   auditSvc,
		notifSvc:   notifSvc,
	}
}

// ClientSummary aggregates a client's ledger for the finance screens
type ClientSummary struct {
	ClientID         uint                 `json:"client_id"`
	ContractedTotal  decimal.Decimal      `json:"contracted_total"`
	TotalPaid        decimal.Decimal      `json:"total_paid"`
	TotalPending     decimal.Decimal      `json:"total_pending"`
	RemainingBalance decimal.Decimal      `json:"remaining_balance"`
	Balance          decimal.Decimal      `json:"balance"`
	Families         []finance.Family     `json:"families"`
	Entries          []models.LedgerEntry `json:"entries"`
}

// ClientSummary computes totals, remaining balance and display families for
// one client's ledger.
func (s *FinanceService) ClientSummary(ctx context.Context, clientID uint) (*ClientSummary, error) {
	client, err := s.clientRepo.FindByID(ctx, clientID)
	if err != nil {
		return nil, ErrNotFound
	}

	entries, err := s.ledgerRepo.FindByClient(ctx, clientID, nil)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar lançamentos: %w", err)
	}

	paid := finance.TotalPaid(entries, models.EntryKindRevenue)
	return &ClientSummary{
		ClientID:         clientID,
		ContractedTotal:  client.ContractedFees,
		TotalPaid:        paid,
		TotalPending:     finance.TotalPending(entries, models.EntryKindRevenue),
		RemainingBalance: finance.RemainingBalance(client.ContractedFees, paid),
		Balance:          finance.Balance(entries),
		Families:         finance.GroupByFamily(entries),
		Entries:          entries,
	}, nil
}

// OfficeSummary aggregates the whole ledger for the dashboard
type OfficeSummary struct {
	RevenuePaid    decimal.Decimal `json:"revenue_paid"`
	RevenuePending decimal.Decimal `json:"revenue_pending"`
	ExpensePaid    decimal.Decimal `json:"expense_paid"`
	ExpensePending decimal.Decimal `json:"expense_pending"`
	Balance        decimal.Decimal `json:"balance"`
}

// OfficeSummary computes office-wide totals over every ledger entry
func (s *FinanceService) OfficeSummary(ctx context.Context) (*OfficeSummary, error) {
	query := &repository.LedgerQuery{ListQuery: repository.NewListQuery()}
	query.PerPage = 10000

	entries, _, err := s.ledgerRepo.List(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("falha ao carregar lançamentos: %w", err)
	}

	return &OfficeSummary{
		RevenuePaid:    finance.TotalPaid(entries, models.EntryKindRevenue),
		RevenuePending: finance.TotalPending(entries, models.EntryKindRevenue),
		ExpensePaid:    finance.TotalPaid(entries, models.EntryKindExpense),
		ExpensePending: finance.TotalPending(entries, models.EntryKindExpense),
		Balance:        finance.Balance(entries),
	}, nil
}

// CaseLedger returns every entry tied to one case
func (s *FinanceService) CaseLedger(ctx context.Context, caseID uint) ([]models.LedgerEntry, error) {
	return s.ledgerRepo.FindByCase(ctx, caseID)
}

// List retrieves ledger entries with filters and pagination
func (s *FinanceService) List(ctx context.Context, query *repository.LedgerQuery) ([]models.LedgerEntry, int64, error) {
	return s.ledgerRepo.List(ctx, query)
}

// FindByID retrieves one ledger entry
func (s *FinanceService) FindByID(ctx context.Context, id uint) (*models.LedgerEntry, error) {
	return s.ledgerRepo.FindByID(ctx, id)
}

// CreateManualEntry records an ad-hoc revenue or expense. The entry is tagged
// manual so a later sync never sweeps it, whatever its category says.
func (s *FinanceService) CreateManualEntry(ctx context.Context, entry *models.LedgerEntry) error {
	if entry.Amount.IsNegative() {
		return finance.ErrInvalidProfile
	}
	if entry.Kind != models.EntryKindRevenue && entry.Kind != models.EntryKindExpense {
		return fmt.Errorf("tipo de lançamento inválido: %q", entry.Kind)
	}

	entry.Origin = models.OriginManual
	if entry.Status == "" {
		entry.Status = models.EntryStatusPending
	}
	if entry.Status == models.EntryStatusPaid && entry.PaidDate == nil {
		now := time.Now()
		entry.PaidDate = &now
	}

	if err := s.ledgerRepo.Create(ctx, entry); err != nil {
		return fmt.Errorf("falha ao gravar lançamento: %w", err)
	}

	s.audit(ctx, "CREATE", entry.ID, entry.Category)
	return nil
}

// UpdateManualEntry edits an ad-hoc entry. Generated entries are owned by the
// synchronizer; editing them by hand would be silently undone on the next
// profile save, so it is rejected outright.
func (s *FinanceService) UpdateManualEntry(ctx context.Context, entry *models.LedgerEntry) error {
	current, err := s.ledgerRepo.FindByID(ctx, entry.ID)
	if err != nil {
		return ErrNotFound
	}
	if current.IsGenerated() {
		return ErrGeneratedReadOnly
	}
	if entry.Amount.IsNegative() {
		return finance.ErrInvalidProfile
	}

	entry.Origin = current.Origin
	entry.CreatedAt = current.CreatedAt
	if err := s.ledgerRepo.Update(ctx, entry); err != nil {
		return fmt.Errorf("falha ao atualizar lançamento: %w", err)
	}

	s.audit(ctx, "UPDATE", entry.ID, entry.Category)
	return nil
}

// DeleteEntry removes an entry by id (manual delete, any origin)
func (s *FinanceService) DeleteEntry(ctx context.Context, id uint) error {
	entry, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return ErrNotFound
	}
	if err := s.ledgerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("falha ao excluir lançamento: %w", err)
	}

	s.audit(ctx, "DELETE", id, entry.Category)
	return nil
}

// ToggleStatus flips an entry between pago and pendente through the status
// machine. Reopening a paid entry puts it back into the regenerable pool.
func (s *FinanceService) ToggleStatus(ctx context.Context, id uint, now time.Time) (*models.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	efsm := statemachine.NewEntryFSM(entry)
	if entry.IsPaid() {
		err = efsm.Reopen(ctx)
	} else {
		err = efsm.Pay(ctx, now)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.ledgerRepo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("falha ao atualizar lançamento: %w", err)
	}

	s.audit(ctx, "TOGGLE", entry.ID, entry.Status)
	return entry, nil
}

// MarkOverdueEntries transitions every unpaid entry past its due date to
// atrasado and raises one dashboard notification per sweep. Runs from the
// hourly job.
func (s *FinanceService) MarkOverdueEntries(ctx context.Context, now time.Time) error {
	entries, err := s.ledgerRepo.FindOverduePending(ctx, now)
	if err != nil {
		return fmt.Errorf("falha ao buscar lançamentos vencidos: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}

	lapsed := 0
	for i := range entries {
		entry := &entries[i]
		efsm := statemachine.NewEntryFSM(entry)
		if err := efsm.Lapse(ctx); err != nil {
			logger.Warn("Lançamento não pôde ser marcado como atrasado", "entry_id", entry.ID, "error", err)
			continue
		}
		if err := s.ledgerRepo.Update(ctx, entry); err != nil {
			return fmt.Errorf("falha ao atualizar lançamento %d: %w", entry.ID, err)
		}
		lapsed++
	}

	if lapsed > 0 && s.notifSvc != nil {
		s.notifSvc.Notify(ctx,
			"Lançamentos em atraso",
			fmt.Sprintf("%d lançamento(s) venceram sem pagamento", lapsed),
			models.NotificationTypeEntryOverdue)
	}

	logger.Info("Varredura de atrasados concluída", "lapsed", lapsed)
	return nil
}

func (s *FinanceService) audit(ctx context.Context, action string, entryID uint, details string) {
	if s.auditSvc == nil {
		return
	}
	if err := s.auditSvc.Log(ctx, action, "LedgerEntry", entryID, details); err != nil {
		logger.Warn("Falha ao gravar auditoria", "error", err)
	}
}
