package finance

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mcavalcanti/lexora-api/internal/models"
)

// TotalPaid sums settled entries of the given kind
func TotalPaid(entries []models.LedgerEntry, kind string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Kind == kind && e.Status == models.EntryStatusPaid {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// TotalPending sums unsettled entries of the given kind. Overdue entries are
// still pending money, so anything not paid counts.
func TotalPending(entries []models.LedgerEntry, kind string) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Kind == kind && e.Status != models.EntryStatusPaid {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Balance returns settled revenue minus settled expenses
func Balance(entries []models.LedgerEntry) decimal.Decimal {
	return TotalPaid(entries, models.EntryKindRevenue).Sub(TotalPaid(entries, models.EntryKindExpense))
}

// RemainingBalance returns how much of the contracted total is still owed,
// clamped at zero so over-payment never reads as negative debt.
func RemainingBalance(contractedTotal, paidTotal decimal.Decimal) decimal.Decimal {
	remaining := contractedTotal.Sub(paidTotal)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Family groups ledger entries that share a common origin for display:
// all revenues of one client form a family, standalone expenses are
// singleton families.
type Family struct {
	Key            string
	Members        []models.LedgerEntry
	Representative models.LedgerEntry
}

// GroupByFamily partitions entries into display families, picks each family's
// representative and orders families by the representative's due date, newest
// first.
//
// The representative is the most recently settled member when any member is
// paid, otherwise the member that matures first.
func GroupByFamily(entries []models.LedgerEntry) []Family {
	grouped := make(map[string][]models.LedgerEntry)
	var order []string

	for _, e := range entries {
		key := familyKey(e)
		if _, seen := grouped[key]; !seen {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], e)
	}

	families := make([]Family, 0, len(order))
	for _, key := range order {
		members := grouped[key]
		families = append(families, Family{
			Key:            key,
			Members:        members,
			Representative: pickRepresentative(members),
		})
	}

	sort.SliceStable(families, func(i, j int) bool {
		return families[i].Representative.DueDate.After(families[j].Representative.DueDate)
	})

	return families
}

func familyKey(e models.LedgerEntry) string {
	if e.Kind == models.EntryKindRevenue && e.ClientID != nil {
		return fmt.Sprintf("client/%d", *e.ClientID)
	}
	return fmt.Sprintf("entry/%d", e.ID)
}

func pickRepresentative(members []models.LedgerEntry) models.LedgerEntry {
	var lastPaid *models.LedgerEntry
	for i := range members {
		m := &members[i]
		if m.Status != models.EntryStatusPaid {
			continue
		}
		if lastPaid == nil || paidAfter(m, lastPaid) {
			lastPaid = m
		}
	}
	if lastPaid != nil {
		return *lastPaid
	}

	earliest := members[0]
	for _, m := range members[1:] {
		if m.DueDate.Before(earliest.DueDate) {
			earliest = m
		}
	}
	return earliest
}

func paidAfter(a, b *models.LedgerEntry) bool {
	switch {
	case a.PaidDate != nil && b.PaidDate != nil:
		return a.PaidDate.After(*b.PaidDate)
	case a.PaidDate != nil:
		return true
	case b.PaidDate != nil:
		return false
	default:
		return a.DueDate.After(b.DueDate)
	}
}
