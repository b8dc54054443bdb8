package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcavalcanti/lexora-api/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestBuildPlan_ParticularWithEntryFee(t *testing.T) {
	// Contracted 6000, entry fee 1000, 5 installments of 1000 starting Jan 10
	feeDate := date(2025, time.January, 5)
	plan, err := BuildPlan(PlanInput{
		ClientID: 1,
		Profile: Profile{
			PaymentMethod:    "pix",
			ContractedTotal:  dec("6000.00"),
			HasEntryFee:      true,
			EntryFeeAmount:   dec("1000.00"),
			EntryFeeDate:     &feeDate,
			InstallmentsLeft: 5,
		},
		BaseDate: date(2025, time.January, 10),
		Now:      date(2025, time.January, 6),
	})
	require.NoError(t, err)
	require.Len(t, plan, 6)

	fee := plan[0]
	assert.Equal(t, CategoryEntryFee, fee.Category)
	assert.Equal(t, models.EntryStatusPaid, fee.Status)
	assert.Equal(t, models.OriginEntryFee, fee.Origin)
	require.NotNil(t, fee.PaidDate)
	assert.Equal(t, feeDate, *fee.PaidDate)
	assert.True(t, fee.Amount.Equal(dec("1000.00")))

	expectedDue := []time.Time{
		date(2025, time.January, 10),
		date(2025, time.February, 10),
		date(2025, time.March, 10),
		date(2025, time.April, 10),
		date(2025, time.May, 10),
	}
	for i, inst := range plan[1:] {
		assert.Equal(t, InstallmentCategory(i+1, 5), inst.Category)
		assert.Equal(t, models.EntryStatusPending, inst.Status)
		assert.Equal(t, models.OriginInstallment, inst.Origin)
		assert.True(t, inst.Amount.Equal(dec("1000.00")), "installment %d amount %s", i+1, inst.Amount)
		assert.Equal(t, expectedDue[i], inst.DueDate)
	}
}

func TestBuildPlan_RemainderGoesToLastInstallment(t *testing.T) {
	// 10000 over 3 installments: 3333.33, 3333.33, 3333.34
	plan, err := BuildPlan(PlanInput{
		ClientID: 1,
		Profile: Profile{
			ContractedTotal:  dec("10000.00"),
			InstallmentsLeft: 3,
		},
		BaseDate: date(2025, time.March, 1),
		Now:      date(2025, time.February, 20),
	})
	require.NoError(t, err)
	require.Len(t, plan, 3)

	assert.True(t, plan[0].Amount.Equal(dec("3333.33")))
	assert.True(t, plan[1].Amount.Equal(dec("3333.33")))
	assert.True(t, plan[2].Amount.Equal(dec("3333.34")))

	sum := decimal.Zero
	for _, p := range plan {
		sum = sum.Add(p.Amount)
	}
	assert.True(t, sum.Equal(dec("10000.00")), "installments must sum to the contracted total, got %s", sum)
}

func TestBuildPlan_EntryFeeSuppressedWhenAlreadyPaid(t *testing.T) {
	plan, err := BuildPlan(PlanInput{
		ClientID: 1,
		Profile: Profile{
			ContractedTotal:  dec("6000.00"),
			HasEntryFee:      true,
			EntryFeeAmount:   dec("1000.00"),
			InstallmentsLeft: 5,
		},
		HasPaidEntryFee: true,
		BaseDate:        date(2025, time.January, 10),
		Now:             date(2025, time.January, 6),
	})
	require.NoError(t, err)
	require.Len(t, plan, 5)

	for _, p := range plan {
		assert.NotEqual(t, CategoryEntryFee, p.Category)
	}
	// The fee amount is still deducted from what the installments split
	assert.True(t, plan[0].Amount.Equal(dec("1000.00")))
}

func TestBuildPlan_NoInstallmentsWhenNothingRemains(t *testing.T) {
	// Entry fee covers the whole contract
	plan, err := BuildPlan(PlanInput{
		ClientID: 1,
		Profile: Profile{
			ContractedTotal:  dec("1000.00"),
			HasEntryFee:      true,
			EntryFeeAmount:   dec("1000.00"),
			InstallmentsLeft: 4,
		},
		BaseDate: date(2025, time.January, 10),
		Now:      date(2025, time.January, 6),
	})
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, CategoryEntryFee, plan[0].Category)
}

func TestBuildPlan_ZeroInstallmentsYieldsNoInstallments(t *testing.T) {
	plan, err := BuildPlan(PlanInput{
		ClientID: 1,
		Profile: Profile{
			ContractedTotal:  dec("5000.00"),
			InstallmentsLeft: 0,
		},
		BaseDate: date(2025, time.January, 10),
		Now:      date(2025, time.January, 6),
	})
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestBuildPlan_SingleInstallmentTakesFullRemainder(t *testing.T) {
	plan, err := BuildPlan(PlanInput{
		ClientID: 1,
		Profile: Profile{
			ContractedTotal:  dec("4500.50"),
			InstallmentsLeft: 1,
		},
		BaseDate: date(2025, time.June, 15),
		Now:      date(2025, time.June, 1),
	})
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.True(t, plan[0].Amount.Equal(dec("4500.50")))
	assert.Equal(t, InstallmentCategory(1, 1), plan[0].Category)
}

func TestBuildPlan_DefensoriaGuiaSplit(t *testing.T) {
	principalDate := date(2025, time.March, 22)
	recursoDate := date(2025, time.April, 3)
	plan, err := BuildPlan(PlanInput{
		ClientID:   2,
		Defensoria: true,
		Profile: Profile{
			GuiaPrincipal: &GuiaClaim{
				Amount:    dec("700.00"),
				Date:      principalDate,
				Protocolo: "2025-0001",
			},
			HasRecurso: true,
			GuiaRecurso: &GuiaClaim{
				Amount: dec("300.00"),
				Date:   recursoDate,
			},
		},
		Now: date(2025, time.April, 10),
	})
	require.NoError(t, err)
	require.Len(t, plan, 2)

	principal := plan[0]
	assert.Equal(t, CategoryGuiaPrincipal, principal.Category)
	assert.Equal(t, models.OriginGuideSplit, principal.Origin)
	assert.Equal(t, models.EntryStatusPending, principal.Status)
	assert.Equal(t, date(2025, time.April, 10), principal.DueDate)
	assert.Contains(t, principal.Notes, "2025-0001")

	recurso := plan[1]
	assert.Equal(t, CategoryGuiaRecurso, recurso.Category)
	assert.Equal(t, date(2025, time.May, 10), recurso.DueDate)
}

func TestBuildPlan_RecursoGatedByHasRecurso(t *testing.T) {
	recursoDate := date(2025, time.April, 3)
	plan, err := BuildPlan(PlanInput{
		ClientID:   2,
		Defensoria: true,
		Profile: Profile{
			GuiaPrincipal: &GuiaClaim{
				Amount: dec("700.00"),
				Date:   date(2025, time.March, 22),
			},
			HasRecurso: false,
			GuiaRecurso: &GuiaClaim{
				Amount: dec("300.00"),
				Date:   recursoDate,
			},
		},
		Now: date(2025, time.April, 10),
	})
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, CategoryGuiaPrincipal, plan[0].Category)
}

func TestBuildPlan_GuiaPaidByState(t *testing.T) {
	plan, err := BuildPlan(PlanInput{
		ClientID:   2,
		Defensoria: true,
		Profile: Profile{
			GuiaPrincipal: &GuiaClaim{
				Amount: dec("700.00"),
				Date:   date(2025, time.March, 22),
				Status: GuiaStatusPaidByState,
			},
		},
		Now: date(2025, time.April, 10),
	})
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, models.EntryStatusPaid, plan[0].Status)
	require.NotNil(t, plan[0].PaidDate)
}

func TestBuildPlan_PaidGuiaSharesNotReEmitted(t *testing.T) {
	principalDate := date(2025, time.March, 22)
	recursoDate := date(2025, time.April, 3)
	in := PlanInput{
		ClientID:   2,
		Defensoria: true,
		Profile: Profile{
			GuiaPrincipal: &GuiaClaim{
				Amount: dec("700.00"),
				Date:   principalDate,
				Status: GuiaStatusPaidByState,
			},
			HasRecurso: true,
			GuiaRecurso: &GuiaClaim{
				Amount: dec("300.00"),
				Date:   recursoDate,
			},
		},
		HasPaidGuiaPrincipal: true,
		Now:                  date(2025, time.April, 10),
	}

	plan, err := BuildPlan(in)
	require.NoError(t, err)
	require.Len(t, plan, 1, "only the unpaid recurso share may be planned")
	assert.Equal(t, CategoryGuiaRecurso, plan[0].Category)

	in.HasPaidGuiaRecurso = true
	plan, err = BuildPlan(in)
	require.NoError(t, err)
	assert.Empty(t, plan, "both shares settled, nothing left to plan")
}

func TestBuildPlan_DefensoriaWithoutGuias(t *testing.T) {
	plan, err := BuildPlan(PlanInput{
		ClientID:   2,
		Defensoria: true,
		Profile:    Profile{},
		Now:        date(2025, time.April, 10),
	})
	require.NoError(t, err)
	assert.Empty(t, plan)
}

func TestBuildPlan_RejectsNegativeValues(t *testing.T) {
	_, err := BuildPlan(PlanInput{
		ClientID: 1,
		Profile: Profile{
			ContractedTotal:  dec("-100.00"),
			InstallmentsLeft: 3,
		},
		Now: date(2025, time.January, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidProfile)

	_, err = BuildPlan(PlanInput{
		ClientID: 1,
		Profile: Profile{
			ContractedTotal: dec("100.00"),
			EntryFeeAmount:  dec("-10.00"),
		},
		Now: date(2025, time.January, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidProfile)
}

func TestToLedgerEntry(t *testing.T) {
	caseID := uint(7)
	p := PlannedEntry{
		Kind:     models.EntryKindRevenue,
		Category: InstallmentCategory(2, 5),
		Amount:   dec("1000.00"),
		DueDate:  date(2025, time.February, 10),
		Status:   models.EntryStatusPending,
		Origin:   models.OriginInstallment,
	}
	entry := p.ToLedgerEntry(3, &caseID)

	require.NotNil(t, entry.ClientID)
	assert.Equal(t, uint(3), *entry.ClientID)
	require.NotNil(t, entry.CaseID)
	assert.Equal(t, uint(7), *entry.CaseID)
	assert.True(t, entry.IsGenerated())
}
