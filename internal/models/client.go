package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Client represents a law-office client. The financial columns form the
// contracting profile that drives ledger synchronization: contracted fees,
// optional entry fee, remaining installments and, for public-defender
// clients, the 70/30 guia split.
type Client struct {
	ID       uint    `gorm:"primaryKey" json:"id"`
	Name     string  `gorm:"size:150;not null;index" json:"name"`
	CPF      string  `gorm:"size:20;index" json:"cpf"`
	Phone    string  `gorm:"size:30" json:"phone"`
	Email    string  `gorm:"size:120" json:"email"`
	Address  string  `gorm:"size:255" json:"address"`
	Category string  `gorm:"size:20;default:particular;not null;index" json:"category"`
	Notes    *string `gorm:"type:text" json:"notes,omitempty"`

	// Financial profile (particular clients)
	PaymentMethod      string          `gorm:"size:60" json:"payment_method"`
	ContractedFees     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"contracted_fees"`
	HasEntryFee        bool            `gorm:"default:false" json:"has_entry_fee"`
	EntryFeeAmount     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"entry_fee_amount"`
	EntryFeeDate       *time.Time      `gorm:"type:date" json:"entry_fee_date,omitempty"`
	InstallmentsLeft   int             `gorm:"default:0" json:"installments_left"`
	BillingDay         int             `gorm:"default:0" json:"billing_day"`

	// Guia split (defensoria clients)
	GuiaPrincipalAmount    decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"guia_principal_amount"`
	GuiaPrincipalDate      *time.Time      `gorm:"type:date" json:"guia_principal_date,omitempty"`
	GuiaPrincipalStatus    string          `gorm:"size:40" json:"guia_principal_status"`
	GuiaPrincipalProtocolo string          `gorm:"size:60" json:"guia_principal_protocolo"`
	HasRecurso             bool            `gorm:"default:false" json:"has_recurso"`
	GuiaRecursoAmount      decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"guia_recurso_amount"`
	GuiaRecursoDate        *time.Time      `gorm:"type:date" json:"guia_recurso_date,omitempty"`
	GuiaRecursoStatus      string          `gorm:"size:40" json:"guia_recurso_status"`
	GuiaRecursoProtocolo   string          `gorm:"size:60" json:"guia_recurso_protocolo"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Associations
	Cases         []LegalCase   `gorm:"foreignKey:ClientID" json:"cases,omitempty"`
	LedgerEntries []LedgerEntry `gorm:"foreignKey:ClientID" json:"ledger_entries,omitempty"`
}

// TableName specifies the table name for Client
func (Client) TableName() string {
	return "clients"
}

// Client category constants
const (
	ClientCategoryParticular = "particular"
	ClientCategoryDefensoria = "defensoria"
)

// IsDefensoria returns true for public-defender (guia) clients
func (c *Client) IsDefensoria() bool {
	return c.Category == ClientCategoryDefensoria
}
