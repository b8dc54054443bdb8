package models

import (
	"time"
)

// LegalCase represents a lawsuit or administrative proceeding handled for a client
type LegalCase struct {
	ID          uint    `gorm:"primaryKey" json:"id"`
	ClientID    uint    `gorm:"not null;index" json:"client_id"`
	Number      string  `gorm:"size:60;index" json:"number"`
	Court       string  `gorm:"size:120" json:"court"`
	Subject     string  `gorm:"size:255" json:"subject"`
	Area        string  `gorm:"size:60" json:"area"`
	Status      string  `gorm:"size:20;default:ativo;not null;index" json:"status"`
	OpposingParty string `gorm:"size:150" json:"opposing_party"`
	Notes       *string `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Associations
	Client        *Client       `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Deadlines     []Deadline    `gorm:"foreignKey:CaseID" json:"deadlines,omitempty"`
	LedgerEntries []LedgerEntry `gorm:"foreignKey:CaseID" json:"ledger_entries,omitempty"`
}

// TableName specifies the table name for LegalCase
func (LegalCase) TableName() string {
	return "cases"
}

// Case status constants
const (
	CaseStatusActive   = "ativo"
	CaseStatusArchived = "arquivado"
	CaseStatusClosed   = "encerrado"
)
