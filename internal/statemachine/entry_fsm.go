package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"

	"github.com/mcavalcanti/lexora-api/internal/models"
)

// EntryFSM wraps a ledger entry with its status machine. Marking an entry
// paid is terminal with respect to synchronization; the reopen event is the
// manual "re-open" toggle that puts the entry back into the regenerable pool.
type EntryFSM struct {
	entry *models.LedgerEntry
	fsm   *fsm.FSM
}

// NewEntryFSM creates the state machine for a ledger entry
func NewEntryFSM(entry *models.LedgerEntry) *EntryFSM {
	efsm := &EntryFSM{entry: entry}

	efsm.fsm = fsm.NewFSM(
		entry.Status,
		fsm.Events{
			// pendente/atrasado → pago (manual toggle)
			{Name: "pay", Src: []string{models.EntryStatusPending, models.EntryStatusOverdue}, Dst: models.EntryStatusPaid},

			// pago → pendente (manual re-open toggle)
			{Name: "reopen", Src: []string{models.EntryStatusPaid}, Dst: models.EntryStatusPending},

			// pendente → atrasado (nightly sweep past due date)
			{Name: "lapse", Src: []string{models.EntryStatusPending}, Dst: models.EntryStatusOverdue},
		},
		fsm.Callbacks{},
	)

	return efsm
}

// Pay transitions the entry to paid and stamps the paid date
func (e *EntryFSM) Pay(ctx context.Context, paidDate time.Time) error {
	if err := e.fsm.Event(ctx, "pay"); err != nil {
		return fmt.Errorf("lançamento não pode ser pago no estado atual %q: %w", e.entry.Status, err)
	}
	e.entry.Status = e.fsm.Current()
	e.entry.PaidDate = &paidDate
	return nil
}

// Reopen reverts a paid entry to pending and clears the paid date
func (e *EntryFSM) Reopen(ctx context.Context) error {
	if err := e.fsm.Event(ctx, "reopen"); err != nil {
		return fmt.Errorf("lançamento não pode ser reaberto no estado atual %q: %w", e.entry.Status, err)
	}
	e.entry.Status = e.fsm.Current()
	e.entry.PaidDate = nil
	return nil
}

// Lapse transitions an unpaid entry past its due date to overdue
func (e *EntryFSM) Lapse(ctx context.Context) error {
	if err := e.fsm.Event(ctx, "lapse"); err != nil {
		return fmt.Errorf("lançamento não pode ser marcado como atrasado no estado atual %q: %w", e.entry.Status, err)
	}
	e.entry.Status = e.fsm.Current()
	return nil
}

// Current returns the current state
func (e *EntryFSM) Current() string {
	return e.fsm.Current()
}

// Can checks if a transition is possible
func (e *EntryFSM) Can(event string) bool {
	return e.fsm.Can(event)
}
