package finance

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mcavalcanti/lexora-api/internal/models"
)

// ErrInvalidProfile is returned when a financial profile carries nonsensical
// contracted values. Calculation fails fast; nothing is written.
var ErrInvalidProfile = errors.New("perfil financeiro inválido")

// GuiaStatusPaidByState is the guia status that marks the claim as already
// reimbursed by the state.
const GuiaStatusPaidByState = "Pago pelo Estado"

// GuiaClaim is one fee-reimbursement claim of a public-defender client:
// either the principal (70%) or the appeal (30%) share.
type GuiaClaim struct {
	Amount    decimal.Decimal
	Date      time.Time
	Status    string
	Protocolo string
}

// Paid returns true when the state has already settled the claim
func (g GuiaClaim) Paid() bool {
	return g.Status == GuiaStatusPaidByState
}

// Profile is the contracting profile of a client, detached from persistence.
// The calculator consumes this value type only, never the gorm model.
type Profile struct {
	PaymentMethod    string
	ContractedTotal  decimal.Decimal
	HasEntryFee      bool
	EntryFeeAmount   decimal.Decimal
	EntryFeeDate     *time.Time
	InstallmentsLeft int
	BillingDay       int

	GuiaPrincipal *GuiaClaim
	HasRecurso    bool
	GuiaRecurso   *GuiaClaim
}

// Validate rejects negative contracted values
func (p Profile) Validate() error {
	if p.ContractedTotal.IsNegative() {
		return ErrInvalidProfile
	}
	if p.EntryFeeAmount.IsNegative() {
		return ErrInvalidProfile
	}
	if p.GuiaPrincipal != nil && p.GuiaPrincipal.Amount.IsNegative() {
		return ErrInvalidProfile
	}
	if p.GuiaRecurso != nil && p.GuiaRecurso.Amount.IsNegative() {
		return ErrInvalidProfile
	}
	return nil
}

// ProfileFromClient maps the financial columns of a client row into a Profile
func ProfileFromClient(c *models.Client) Profile {
	p := Profile{
		PaymentMethod:    c.PaymentMethod,
		ContractedTotal:  c.ContractedFees,
		HasEntryFee:      c.HasEntryFee,
		EntryFeeAmount:   c.EntryFeeAmount,
		EntryFeeDate:     c.EntryFeeDate,
		InstallmentsLeft: c.InstallmentsLeft,
		BillingDay:       c.BillingDay,
		HasRecurso:       c.HasRecurso,
	}

	if c.GuiaPrincipalAmount.IsPositive() && c.GuiaPrincipalDate != nil {
		p.GuiaPrincipal = &GuiaClaim{
			Amount:    c.GuiaPrincipalAmount,
			Date:      *c.GuiaPrincipalDate,
			Status:    c.GuiaPrincipalStatus,
			Protocolo: c.GuiaPrincipalProtocolo,
		}
	}
	if c.GuiaRecursoAmount.IsPositive() && c.GuiaRecursoDate != nil {
		p.GuiaRecurso = &GuiaClaim{
			Amount:    c.GuiaRecursoAmount,
			Date:      *c.GuiaRecursoDate,
			Status:    c.GuiaRecursoStatus,
			Protocolo: c.GuiaRecursoProtocolo,
		}
	}

	return p
}
