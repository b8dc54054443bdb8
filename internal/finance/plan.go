package finance

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcavalcanti/lexora-api/internal/models"
)

// Ledger categories produced by the calculator
const (
	CategoryEntryFee      = "Entrada de Honorários"
	CategoryGuiaPrincipal = "Honorários (Guia 70%)"
	CategoryGuiaRecurso   = "Honorários (Recurso 30%)"
)

// InstallmentCategory formats the category label of installment i of n
func InstallmentCategory(i, n int) string {
	return fmt.Sprintf("Parcela %d/%d - Honorários", i, n)
}

// PlannedEntry is one ledger entry implied by a financial profile, before it
// has been persisted or assigned an id.
type PlannedEntry struct {
	Kind          string
	Category      string
	Amount        decimal.Decimal
	DueDate       time.Time
	Status        string
	PaidDate      *time.Time
	PaymentMethod string
	Origin        string
	Notes         string
}

// PlanInput carries everything the calculator needs. The current date is
// injected so the derivation stays deterministic under test.
type PlanInput struct {
	ClientID   uint
	CaseID     *uint
	Defensoria bool
	Profile    Profile

	// HasPaidEntryFee is supplied by the caller after inspecting the paid
	// partition of the existing ledger; when set, the entry fee is not
	// re-emitted (it was already settled once).
	HasPaidEntryFee bool

	// HasPaidGuiaPrincipal and HasPaidGuiaRecurso are the same guard for the
	// guia shares: a paid guia survives the sweep, so re-emitting it would
	// duplicate the amount on every run.
	HasPaidGuiaPrincipal bool
	HasPaidGuiaRecurso   bool

	// BaseDate is the due date of the first installment; subsequent
	// installments fall one calendar month apart.
	BaseDate time.Time

	Now time.Time
}

// BuildPlan derives the ordered set of ledger entries implied by a financial
// profile. Pure: no I/O, no clock reads.
//
// Defensoria clients yield at most two guia-split entries (70% principal,
// 30% recurso gated by HasRecurso). Particular clients yield an optional paid
// entry fee followed by N pending installments splitting the remaining
// contracted total, with the cent remainder absorbed by the last installment
// so the amounts always sum exactly.
func BuildPlan(in PlanInput) ([]PlannedEntry, error) {
	if err := in.Profile.Validate(); err != nil {
		return nil, err
	}

	if in.Defensoria {
		return buildGuiaPlan(in), nil
	}
	return buildParticularPlan(in), nil
}

func buildGuiaPlan(in PlanInput) []PlannedEntry {
	var plan []PlannedEntry

	if claim := in.Profile.GuiaPrincipal; claim != nil && claim.Amount.IsPositive() {
		if !in.HasPaidGuiaPrincipal {
			plan = append(plan, guiaEntry(CategoryGuiaPrincipal, *claim, in))
		}

		// The recurso share only exists when an appeal was actually filed,
		// regardless of any leftover recurso values on the profile.
		if in.Profile.HasRecurso && !in.HasPaidGuiaRecurso {
			if recurso := in.Profile.GuiaRecurso; recurso != nil && recurso.Amount.IsPositive() {
				plan = append(plan, guiaEntry(CategoryGuiaRecurso, *recurso, in))
			}
		}
	}

	return plan
}

func guiaEntry(category string, claim GuiaClaim, in PlanInput) PlannedEntry {
	entry := PlannedEntry{
		Kind:          models.EntryKindRevenue,
		Category:      category,
		Amount:        claim.Amount,
		DueDate:       GuiaDueDate(claim.Date),
		Status:        models.EntryStatusPending,
		PaymentMethod: in.Profile.PaymentMethod,
		Origin:        models.OriginGuideSplit,
	}
	if claim.Protocolo != "" {
		entry.Notes = fmt.Sprintf("Guia protocolo %s", claim.Protocolo)
	}
	if claim.Paid() {
		entry.Status = models.EntryStatusPaid
		paid := entry.DueDate
		entry.PaidDate = &paid
	}
	return entry
}

func buildParticularPlan(in PlanInput) []PlannedEntry {
	var plan []PlannedEntry
	profile := in.Profile

	entryFee := decimal.Zero
	if profile.HasEntryFee && profile.EntryFeeAmount.IsPositive() {
		entryFee = profile.EntryFeeAmount

		if !in.HasPaidEntryFee {
			feeDate := in.Now
			if profile.EntryFeeDate != nil {
				feeDate = *profile.EntryFeeDate
			}
			paid := feeDate
			plan = append(plan, PlannedEntry{
				Kind:          models.EntryKindRevenue,
				Category:      CategoryEntryFee,
				Amount:        entryFee,
				DueDate:       feeDate,
				Status:        models.EntryStatusPaid,
				PaidDate:      &paid,
				PaymentMethod: profile.PaymentMethod,
				Origin:        models.OriginEntryFee,
			})
		}
	}

	remaining := profile.ContractedTotal.Sub(entryFee)
	n := profile.InstallmentsLeft
	if !remaining.IsPositive() || n < 1 {
		return plan
	}

	// Even split truncated to cents; the last installment picks up the
	// remainder so the sum equals the remaining balance exactly.
	per := remaining.Div(decimal.NewFromInt(int64(n))).Truncate(2)
	last := remaining.Sub(per.Mul(decimal.NewFromInt(int64(n - 1))))

	for i := 1; i <= n; i++ {
		amount := per
		if i == n {
			amount = last
		}
		plan = append(plan, PlannedEntry{
			Kind:          models.EntryKindRevenue,
			Category:      InstallmentCategory(i, n),
			Amount:        amount,
			DueDate:       AddMonths(in.BaseDate, i-1),
			Status:        models.EntryStatusPending,
			PaymentMethod: profile.PaymentMethod,
			Origin:        models.OriginInstallment,
		})
	}

	return plan
}

// ToLedgerEntry materializes a planned entry for a client/case key
func (p PlannedEntry) ToLedgerEntry(clientID uint, caseID *uint) models.LedgerEntry {
	cid := clientID
	return models.LedgerEntry{
		ClientID:      &cid,
		CaseID:        caseID,
		Kind:          p.Kind,
		Category:      p.Category,
		Amount:        p.Amount,
		DueDate:       p.DueDate,
		Status:        p.Status,
		PaidDate:      p.PaidDate,
		PaymentMethod: p.PaymentMethod,
		Notes:         p.Notes,
		Origin:        p.Origin,
	}
}
