package statemachine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcavalcanti/lexora-api/internal/models"
)

func TestEntryFSM_PayFromPending(t *testing.T) {
	entry := &models.LedgerEntry{Status: models.EntryStatusPending}
	efsm := NewEntryFSM(entry)

	paidDate := time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, efsm.Pay(context.Background(), paidDate))

	assert.Equal(t, models.EntryStatusPaid, entry.Status)
	require.NotNil(t, entry.PaidDate)
	assert.Equal(t, paidDate, *entry.PaidDate)
}

func TestEntryFSM_PayFromOverdue(t *testing.T) {
	entry := &models.LedgerEntry{Status: models.EntryStatusOverdue}
	efsm := NewEntryFSM(entry)

	require.NoError(t, efsm.Pay(context.Background(), time.Now()))
	assert.Equal(t, models.EntryStatusPaid, entry.Status)
}

func TestEntryFSM_PayTwiceFails(t *testing.T) {
	entry := &models.LedgerEntry{Status: models.EntryStatusPaid}
	efsm := NewEntryFSM(entry)

	err := efsm.Pay(context.Background(), time.Now())
	assert.Error(t, err)
	assert.Equal(t, models.EntryStatusPaid, entry.Status)
}

func TestEntryFSM_ReopenClearsPaidDate(t *testing.T) {
	paidDate := time.Date(2025, time.January, 12, 0, 0, 0, 0, time.UTC)
	entry := &models.LedgerEntry{Status: models.EntryStatusPaid, PaidDate: &paidDate}
	efsm := NewEntryFSM(entry)

	require.NoError(t, efsm.Reopen(context.Background()))
	assert.Equal(t, models.EntryStatusPending, entry.Status)
	assert.Nil(t, entry.PaidDate)
}

func TestEntryFSM_ReopenRequiresPaid(t *testing.T) {
	entry := &models.LedgerEntry{Status: models.EntryStatusPending}
	efsm := NewEntryFSM(entry)

	assert.Error(t, efsm.Reopen(context.Background()))
}

func TestEntryFSM_LapseOnlyFromPending(t *testing.T) {
	entry := &models.LedgerEntry{Status: models.EntryStatusPending}
	efsm := NewEntryFSM(entry)

	require.NoError(t, efsm.Lapse(context.Background()))
	assert.Equal(t, models.EntryStatusOverdue, entry.Status)

	paid := &models.LedgerEntry{Status: models.EntryStatusPaid}
	assert.Error(t, NewEntryFSM(paid).Lapse(context.Background()))
}
