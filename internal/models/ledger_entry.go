package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry represents one financial obligation or receipt, optionally tied
// to a client and/or a case.
type LedgerEntry struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ClientID      *uint           `gorm:"index" json:"client_id,omitempty"`
	CaseID        *uint           `gorm:"index" json:"case_id,omitempty"`
	Kind          string          `gorm:"size:20;not null;index" json:"kind"`
	Category      string          `gorm:"size:120;not null" json:"category"`
	Amount        decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	DueDate       time.Time       `gorm:"type:date;not null;index" json:"due_date"`
	Status        string          `gorm:"size:20;default:pendente;not null;index" json:"status"`
	PaidDate      *time.Time      `gorm:"type:date" json:"paid_date,omitempty"`
	PaymentMethod string          `gorm:"size:60" json:"payment_method"`
	Notes         string          `gorm:"type:text" json:"notes"`
	Origin        string          `gorm:"size:40;default:manual;not null;index" json:"origin"`
	SyncBatchID   *string         `gorm:"size:36;index" json:"sync_batch_id,omitempty"`
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	// Associations
	Client *Client    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Case   *LegalCase `gorm:"foreignKey:CaseID" json:"case,omitempty"`
}

// TableName specifies the table name for LedgerEntry
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}

// Entry kind constants
const (
	EntryKindRevenue = "receita"
	EntryKindExpense = "despesa"
)

// Entry status constants
const (
	EntryStatusPending = "pendente"
	EntryStatusPaid    = "pago"
	EntryStatusOverdue = "atrasado"
)

// Entry origin constants. Generated entries are owned by the ledger
// synchronizer and may be swept and recreated while still unpaid; manual
// entries are never touched by a sync.
const (
	OriginManual      = "manual"
	OriginEntryFee    = "generated_entry_fee"
	OriginInstallment = "generated_installment"
	OriginGuideSplit  = "generated_guide_split"
)

// IsPaid returns true if the entry has been settled
func (e *LedgerEntry) IsPaid() bool {
	return e.Status == EntryStatusPaid
}

// IsGenerated returns true if the entry was produced by the plan calculator
// and therefore belongs to a regenerable family.
func (e *LedgerEntry) IsGenerated() bool {
	switch e.Origin {
	case OriginEntryFee, OriginInstallment, OriginGuideSplit:
		return true
	}
	return false
}

// IsOverdue returns true if the entry is unpaid and past its due date
func (e *LedgerEntry) IsOverdue(now time.Time) bool {
	return e.Status != EntryStatusPaid && now.After(e.DueDate)
}

// MayToggle returns true if the pago/pendente toggle applies to the entry
func (e *LedgerEntry) MayToggle() bool {
	return e.Status == EntryStatusPending || e.Status == EntryStatusOverdue || e.Status == EntryStatusPaid
}

// LedgerEntryResponse is the JSON response format for ledger entries
type LedgerEntryResponse struct {
	ID            uint            `json:"id"`
	ClientID      *uint           `json:"client_id,omitempty"`
	CaseID        *uint           `json:"case_id,omitempty"`
	Kind          string          `json:"kind"`
	Category      string          `json:"category"`
	Amount        decimal.Decimal `json:"amount"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	PaidDate      *time.Time      `json:"paid_date,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Origin        string          `json:"origin"`
	OverdueDays   int             `json:"overdue_days"`
	ClientName    string          `json:"client_name,omitempty"`
	CaseNumber    string          `json:"case_number,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// ToResponse converts LedgerEntry to LedgerEntryResponse
func (e *LedgerEntry) ToResponse(now time.Time) LedgerEntryResponse {
	resp := LedgerEntryResponse{
		ID:            e.ID,
		ClientID:      e.ClientID,
		CaseID:        e.CaseID,
		Kind:          e.Kind,
		Category:      e.Category,
		Amount:        e.Amount,
		DueDate:       e.DueDate,
		Status:        e.Status,
		PaidDate:      e.PaidDate,
		PaymentMethod: e.PaymentMethod,
		Notes:         e.Notes,
		Origin:        e.Origin,
		CreatedAt:     e.CreatedAt,
	}

	if e.IsOverdue(now) {
		resp.OverdueDays = int(now.Sub(e.DueDate).Hours() / 24)
	}
	if e.Client != nil {
		resp.ClientName = e.Client.Name
	}
	if e.Case != nil {
		resp.CaseNumber = e.Case.Number
	}

	return resp
}
