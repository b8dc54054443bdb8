package services

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcavalcanti/lexora-api/internal/models"
	"github.com/mcavalcanti/lexora-api/internal/repository"
	"github.com/mcavalcanti/lexora-api/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup("development")
	m.Run()
}

// In-memory LedgerRepository. Transaction snapshots the store and restores it
// when the callback fails, mimicking a rollback.
type memLedgerRepository struct {
	entries map[uint]models.LedgerEntry
	nextID  uint

	failCreateBatch error
	failDeleteBatch error
}

func newMemLedgerRepository() *memLedgerRepository {
	return &memLedgerRepository{entries: make(map[uint]models.LedgerEntry), nextID: 1}
}

func (m *memLedgerRepository) seed(entry models.LedgerEntry) models.LedgerEntry {
	entry.ID = m.nextID
	m.nextID++
	m.entries[entry.ID] = entry
	return entry
}

func (m *memLedgerRepository) Create(ctx context.Context, entry *models.LedgerEntry) error {
	entry.ID = m.nextID
	m.nextID++
	m.entries[entry.ID] = *entry
	return nil
}

func (m *memLedgerRepository) CreateBatch(ctx context.Context, entries []models.LedgerEntry) ([]models.LedgerEntry, error) {
	if m.failCreateBatch != nil {
		return nil, m.failCreateBatch
	}
	for i := range entries {
		entries[i].ID = m.nextID
		m.nextID++
		m.entries[entries[i].ID] = entries[i]
	}
	return entries, nil
}

func (m *memLedgerRepository) FindByID(ctx context.Context, id uint) (*models.LedgerEntry, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return &entry, nil
}

func (m *memLedgerRepository) FindByClient(ctx context.Context, clientID uint, caseID *uint) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for _, e := range m.entries {
		if e.ClientID == nil || *e.ClientID != clientID {
			continue
		}
		if caseID != nil && (e.CaseID == nil || *e.CaseID != *caseID) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueDate.Equal(out[j].DueDate) {
			return out[i].DueDate.Before(out[j].DueDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memLedgerRepository) FindByCase(ctx context.Context, caseID uint) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for _, e := range m.entries {
		if e.CaseID != nil && *e.CaseID == caseID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *memLedgerRepository) List(ctx context.Context, query *repository.LedgerQuery) ([]models.LedgerEntry, int64, error) {
	var out []models.LedgerEntry
	for _, e := range m.entries {
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (m *memLedgerRepository) Update(ctx context.Context, entry *models.LedgerEntry) error {
	if _, ok := m.entries[entry.ID]; !ok {
		return errors.New("record not found")
	}
	m.entries[entry.ID] = *entry
	return nil
}

func (m *memLedgerRepository) Delete(ctx context.Context, id uint) error {
	delete(m.entries, id)
	return nil
}

func (m *memLedgerRepository) DeleteBatch(ctx context.Context, ids []uint) error {
	if m.failDeleteBatch != nil {
		return m.failDeleteBatch
	}
	for _, id := range ids {
		delete(m.entries, id)
	}
	return nil
}

func (m *memLedgerRepository) FindOverduePending(ctx context.Context, asOf time.Time) ([]models.LedgerEntry, error) {
	var out []models.LedgerEntry
	for _, e := range m.entries {
		if e.Status == models.EntryStatusPending && e.DueDate.Before(asOf) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memLedgerRepository) Transaction(ctx context.Context, fn func(repository.LedgerRepository) error) error {
	snapshot := make(map[uint]models.LedgerEntry, len(m.entries))
	for id, e := range m.entries {
		snapshot[id] = e
	}
	snapshotNextID := m.nextID

	if err := fn(m); err != nil {
		m.entries = snapshot
		m.nextID = snapshotNextID
		return err
	}
	return nil
}

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func day(y int, mo time.Month, d int) time.Time {
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

func particularClient(id uint) *models.Client {
	return &models.Client{
		ID:               id,
		Name:             "Maria Souza",
		Category:         models.ClientCategoryParticular,
		PaymentMethod:    "pix",
		ContractedFees:   mustDec("6000.00"),
		InstallmentsLeft: 5,
		BillingDay:       10,
	}
}

func countByOrigin(entries map[uint]models.LedgerEntry, origin string) int {
	n := 0
	for _, e := range entries {
		if e.Origin == origin {
			n++
		}
	}
	return n
}

func TestSync_GeneratesPlanForParticularClient(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)
	client := particularClient(1)
	client.HasEntryFee = true
	client.EntryFeeAmount = mustDec("1000.00")
	feeDate := day(2025, time.January, 5)
	client.EntryFeeDate = &feeDate

	result, err := svc.Sync(context.Background(), client, nil, day(2025, time.January, 6))
	require.NoError(t, err)

	assert.Equal(t, 6, result.Generated)
	assert.Equal(t, 0, result.Removed)
	assert.Equal(t, 0, result.Preserved)
	assert.NotEmpty(t, result.BatchID)
	assert.Len(t, repo.entries, 6)

	for _, e := range repo.entries {
		require.NotNil(t, e.SyncBatchID)
		assert.Equal(t, result.BatchID, *e.SyncBatchID)
	}

	// First installment lands on the billing day
	stored, _ := repo.FindByClient(context.Background(), 1, nil)
	assert.Equal(t, day(2025, time.January, 5), stored[0].DueDate) // paid entry fee
	assert.Equal(t, day(2025, time.January, 10), stored[1].DueDate)
}

func TestSync_IsIdempotent(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)
	client := particularClient(1)
	now := day(2025, time.January, 6)

	first, err := svc.Sync(context.Background(), client, nil, now)
	require.NoError(t, err)

	second, err := svc.Sync(context.Background(), client, nil, now)
	require.NoError(t, err)

	// The second run sweeps exactly what the first generated and recreates an
	// equivalent plan.
	assert.Equal(t, first.Generated, second.Removed)
	assert.Equal(t, first.Generated, second.Generated)
	assert.Len(t, repo.entries, first.Generated)

	firstPlan := planSignature(first.Entries)
	secondPlan := planSignature(second.Entries)
	assert.Equal(t, firstPlan, secondPlan)
}

func planSignature(entries []models.LedgerEntry) []string {
	var sig []string
	for _, e := range entries {
		sig = append(sig, e.Category+"|"+e.Amount.String()+"|"+e.DueDate.Format("2006-01-02")+"|"+e.Status)
	}
	sort.Strings(sig)
	return sig
}

func TestSync_PreservesPaidEntries(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)
	client := particularClient(1)
	now := day(2025, time.February, 1)

	clientID := uint(1)
	paidDate := day(2025, time.January, 12)
	paid := repo.seed(models.LedgerEntry{
		ClientID: &clientID,
		Kind:     models.EntryKindRevenue,
		Category: "Parcela 1/5 - Honorários",
		Amount:   mustDec("1200.00"),
		DueDate:  day(2025, time.January, 10),
		Status:   models.EntryStatusPaid,
		PaidDate: &paidDate,
		Origin:   models.OriginInstallment,
	})
	stale := repo.seed(models.LedgerEntry{
		ClientID: &clientID,
		Kind:     models.EntryKindRevenue,
		Category: "Parcela 2/5 - Honorários",
		Amount:   mustDec("1200.00"),
		DueDate:  day(2025, time.February, 10),
		Status:   models.EntryStatusPending,
		Origin:   models.OriginInstallment,
	})

	// Profile now says 4 installments remain
	client.InstallmentsLeft = 4
	result, err := svc.Sync(context.Background(), client, nil, now)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Preserved)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 4, result.Generated)

	_, err = repo.FindByID(context.Background(), paid.ID)
	assert.NoError(t, err, "paid entry must survive the sweep")
	_, err = repo.FindByID(context.Background(), stale.ID)
	assert.Error(t, err, "stale pending generated entry must be swept")
}

func TestSync_DoesNotDuplicatePaidEntryFee(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)
	client := particularClient(1)
	client.HasEntryFee = true
	client.EntryFeeAmount = mustDec("1000.00")
	now := day(2025, time.February, 1)

	clientID := uint(1)
	paidDate := day(2025, time.January, 5)
	repo.seed(models.LedgerEntry{
		ClientID: &clientID,
		Kind:     models.EntryKindRevenue,
		Category: "Entrada de Honorários",
		Amount:   mustDec("1000.00"),
		DueDate:  paidDate,
		Status:   models.EntryStatusPaid,
		PaidDate: &paidDate,
		Origin:   models.OriginEntryFee,
	})

	// Sync twice; the paid fee must stay unique
	for i := 0; i < 2; i++ {
		_, err := svc.Sync(context.Background(), client, nil, now)
		require.NoError(t, err)
		assert.Equal(t, 1, countByOrigin(repo.entries, models.OriginEntryFee),
			"run %d duplicated the entry fee", i+1)
	}
}

func TestSync_LeavesManualEntriesAlone(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)
	client := particularClient(1)

	clientID := uint(1)
	manual := repo.seed(models.LedgerEntry{
		ClientID: &clientID,
		Kind:     models.EntryKindRevenue,
		Category: "Parcela 1/5 - Honorários", // same text a generated entry would carry
		Amount:   mustDec("500.00"),
		DueDate:  day(2025, time.March, 1),
		Status:   models.EntryStatusPending,
		Origin:   models.OriginManual,
	})

	result, err := svc.Sync(context.Background(), client, nil, day(2025, time.January, 6))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Preserved)
	got, err := repo.FindByID(context.Background(), manual.ID)
	require.NoError(t, err, "manual entry must never be swept, whatever its category says")
	assert.Equal(t, models.OriginManual, got.Origin)
}

func TestSync_DefensoriaGuiaSplit(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)

	principalDate := day(2025, time.March, 22)
	client := &models.Client{
		ID:                  2,
		Name:                "João Pereira",
		Category:            models.ClientCategoryDefensoria,
		GuiaPrincipalAmount: mustDec("700.00"),
		GuiaPrincipalDate:   &principalDate,
	}

	result, err := svc.Sync(context.Background(), client, nil, day(2025, time.March, 25))
	require.NoError(t, err)
	require.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, countByOrigin(repo.entries, models.OriginGuideSplit))

	// Filing the recurso later adds the 30% share without touching the rest
	recursoDate := day(2025, time.April, 3)
	client.HasRecurso = true
	client.GuiaRecursoAmount = mustDec("300.00")
	client.GuiaRecursoDate = &recursoDate

	result, err = svc.Sync(context.Background(), client, nil, day(2025, time.April, 5))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Generated)
	assert.Equal(t, 2, countByOrigin(repo.entries, models.OriginGuideSplit))
}

func TestSync_PaidByStateGuiaIsNotDuplicated(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)

	principalDate := day(2025, time.March, 22)
	client := &models.Client{
		ID:                  2,
		Name:                "João Pereira",
		Category:            models.ClientCategoryDefensoria,
		GuiaPrincipalAmount: mustDec("740.00"),
		GuiaPrincipalDate:   &principalDate,
		GuiaPrincipalStatus: "Pago pelo Estado",
	}

	first, err := svc.Sync(context.Background(), client, nil, day(2025, time.March, 25))
	require.NoError(t, err)
	require.Equal(t, 1, first.Generated)

	// The paid guia survives the sweep; a second run must not plan it again
	second, err := svc.Sync(context.Background(), client, nil, day(2025, time.April, 1))
	require.NoError(t, err)
	assert.Equal(t, 0, second.Generated)
	assert.Equal(t, 1, second.Preserved)
	assert.Equal(t, 1, countByOrigin(repo.entries, models.OriginGuideSplit))
}

func TestSync_PaidPrincipalStillPlansPendingRecurso(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)

	principalDate := day(2025, time.March, 22)
	recursoDate := day(2025, time.April, 3)
	client := &models.Client{
		ID:                  2,
		Name:                "João Pereira",
		Category:            models.ClientCategoryDefensoria,
		GuiaPrincipalAmount: mustDec("700.00"),
		GuiaPrincipalDate:   &principalDate,
		GuiaPrincipalStatus: "Pago pelo Estado",
		HasRecurso:          true,
		GuiaRecursoAmount:   mustDec("300.00"),
		GuiaRecursoDate:     &recursoDate,
	}

	_, err := svc.Sync(context.Background(), client, nil, day(2025, time.April, 5))
	require.NoError(t, err)

	result, err := svc.Sync(context.Background(), client, nil, day(2025, time.April, 6))
	require.NoError(t, err)

	// Pending recurso was swept and replanned; the settled principal was not
	assert.Equal(t, 1, result.Generated)
	assert.Equal(t, 1, result.Removed)
	assert.Equal(t, 1, result.Preserved)
	assert.Equal(t, 2, countByOrigin(repo.entries, models.OriginGuideSplit))
}

func TestSync_ScopedToCase(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)
	client := particularClient(1)

	clientID := uint(1)
	otherCase := uint(99)
	otherCaseEntry := repo.seed(models.LedgerEntry{
		ClientID: &clientID,
		CaseID:   &otherCase,
		Kind:     models.EntryKindRevenue,
		Category: "Parcela 1/3 - Honorários",
		Amount:   mustDec("400.00"),
		DueDate:  day(2025, time.February, 10),
		Status:   models.EntryStatusPending,
		Origin:   models.OriginInstallment,
	})

	caseID := uint(7)
	_, err := svc.Sync(context.Background(), client, &caseID, day(2025, time.January, 6))
	require.NoError(t, err)

	_, err = repo.FindByID(context.Background(), otherCaseEntry.ID)
	assert.NoError(t, err, "entries of other cases are out of scope")

	scoped, _ := repo.FindByClient(context.Background(), 1, &caseID)
	assert.Len(t, scoped, 5)
}

func TestSync_RejectsInvalidProfile(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)
	client := particularClient(1)
	client.ContractedFees = mustDec("-10.00")

	_, err := svc.Sync(context.Background(), client, nil, day(2025, time.January, 6))
	assert.Error(t, err)
	assert.Empty(t, repo.entries, "nothing may be written for an invalid profile")
}

func TestSync_BusyKeyFailsFast(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)
	client := particularClient(1)

	lock := svc.keyLock(syncKey(client.ID, nil))
	lock.Lock()
	defer lock.Unlock()

	_, err := svc.Sync(context.Background(), client, nil, day(2025, time.January, 6))
	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestSync_RollsBackOnPersistenceFailure(t *testing.T) {
	repo := newMemLedgerRepository()
	svc := NewLedgerSyncService(repo, nil)
	client := particularClient(1)
	now := day(2025, time.January, 6)

	_, err := svc.Sync(context.Background(), client, nil, now)
	require.NoError(t, err)
	before := planSignatureMap(repo.entries)

	repo.failCreateBatch = errors.New("disk full")
	_, err = svc.Sync(context.Background(), client, nil, now)
	require.Error(t, err)

	assert.Equal(t, before, planSignatureMap(repo.entries),
		"a failed sync must leave the previously visible ledger unchanged")
}

func planSignatureMap(entries map[uint]models.LedgerEntry) []string {
	var list []models.LedgerEntry
	for _, e := range entries {
		list = append(list, e)
	}
	return planSignature(list)
}
