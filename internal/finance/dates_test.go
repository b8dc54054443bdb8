package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddMonths_ClampsShortMonths(t *testing.T) {
	jan31 := date(2025, time.January, 31)

	assert.Equal(t, date(2025, time.February, 28), AddMonths(jan31, 1))
	assert.Equal(t, date(2025, time.March, 31), AddMonths(jan31, 2))
	assert.Equal(t, date(2025, time.April, 30), AddMonths(jan31, 3))
}

func TestAddMonths_LeapYear(t *testing.T) {
	jan31 := date(2024, time.January, 31)
	assert.Equal(t, date(2024, time.February, 29), AddMonths(jan31, 1))
}

func TestAddMonths_YearRollover(t *testing.T) {
	nov15 := date(2025, time.November, 15)
	assert.Equal(t, date(2026, time.January, 15), AddMonths(nov15, 2))
}

func TestAddMonths_ZeroIsIdentityAtMidnight(t *testing.T) {
	d := time.Date(2025, time.May, 9, 13, 45, 0, 0, time.UTC)
	assert.Equal(t, date(2025, time.May, 9), AddMonths(d, 0))
}

func TestGuiaDueDate(t *testing.T) {
	// Day 10 of the month after the guia, whatever day the guia carries
	assert.Equal(t, date(2025, time.April, 10), GuiaDueDate(date(2025, time.March, 1)))
	assert.Equal(t, date(2025, time.April, 10), GuiaDueDate(date(2025, time.March, 31)))
	assert.Equal(t, date(2026, time.January, 10), GuiaDueDate(date(2025, time.December, 20)))
}

func TestBillingBaseDate(t *testing.T) {
	ref := date(2025, time.March, 22)

	assert.Equal(t, date(2025, time.March, 5), BillingBaseDate(ref, 5))
	assert.Equal(t, date(2025, time.March, 22), BillingBaseDate(ref, 0))
	assert.Equal(t, date(2025, time.March, 22), BillingBaseDate(ref, -3))

	// Billing day past the end of the month clamps
	feb := date(2025, time.February, 10)
	assert.Equal(t, date(2025, time.February, 28), BillingBaseDate(feb, 31))
}
