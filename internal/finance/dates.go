package finance

import (
	"time"
)

// AddMonths advances a date by whole calendar months, clamping the day of
// month when the target month is shorter. Jan 31 + 1 month lands on the last
// day of February, never on March 2/3.
func AddMonths(t time.Time, months int) time.Time {
	firstOfTarget := time.Date(t.Year(), t.Month()+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()

	day := t.Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, t.Location())
}

// GuiaDueDate returns the maturity date for a guia reimbursement: day 10 of
// the month following the guia issue date. The state pays fee guias on a
// fixed monthly calendar, so the day-of-month of the guia itself is ignored.
func GuiaDueDate(guiaDate time.Time) time.Time {
	next := AddMonths(time.Date(guiaDate.Year(), guiaDate.Month(), 1, 0, 0, 0, 0, guiaDate.Location()), 1)
	return time.Date(next.Year(), next.Month(), 10, 0, 0, 0, 0, guiaDate.Location())
}

// BillingBaseDate resolves the first installment due date from a billing day
// preference. A zero billing day keeps the reference date unchanged; otherwise
// the day of month is replaced, clamped to the month length.
func BillingBaseDate(ref time.Time, billingDay int) time.Time {
	if billingDay <= 0 {
		return time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	}
	firstOfMonth := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	lastDay := firstOfMonth.AddDate(0, 1, -1).Day()
	if billingDay > lastDay {
		billingDay = lastDay
	}
	return time.Date(ref.Year(), ref.Month(), billingDay, 0, 0, 0, 0, ref.Location())
}
