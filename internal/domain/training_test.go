package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseTimeRange_ExplicitRange(t *testing.T) {
	base := day(2025, time.June, 2)

	start, end := ParseTimeRange(base, "18:00-20:30")
	require.Equal(t, base.Add(18*time.Hour), start)
	require.Equal(t, base.Add(20*time.Hour+30*time.Minute), end)
}

func TestParseTimeRange_StartOnlyImpliesOneHour(t *testing.T) {
	base := day(2025, time.June, 2)

	start, end := ParseTimeRange(base, "17:15")
	require.Equal(t, base.Add(17*time.Hour+15*time.Minute), start)
	require.Equal(t, base.Add(18*time.Hour+15*time.Minute), end)
}

func TestParseTimeRange_FullDayFallbacks(t *testing.T) {
	base := day(2025, time.June, 2)
	wantStart := base
	wantEnd := base.Add(24*time.Hour - time.Second)

	for _, raw := range []string{"", "personalizzato", "Personalizzato", "25:00-26:00", "9-11", "garbage"} {
		start, end := ParseTimeRange(base, raw)
		require.Equal(t, wantStart, start, "input %q", raw)
		require.Equal(t, wantEnd, end, "input %q", raw)
	}
}

func TestWeekdayFromName(t *testing.T) {
	d, ok := WeekdayFromName("Lunedì")
	require.True(t, ok)
	require.Equal(t, time.Monday, d)

	_, ok = WeekdayFromName("Monday")
	require.False(t, ok)
}

func TestUserAgeOn(t *testing.T) {
	born := day(2010, time.June, 15)
	u := User{DateOfBirth: &born}

	require.Equal(t, 14, u.AgeOn(day(2025, time.June, 14)))
	require.Equal(t, 15, u.AgeOn(day(2025, time.June, 15))) // birthday itself
	require.Equal(t, 15, u.AgeOn(day(2025, time.June, 16)))

	noDob := User{}
	require.Equal(t, 0, noDob.AgeOn(day(2025, time.June, 15)))
}

func TestCategoryContainsAndOverlaps(t *testing.T) {
	junior := Category{Name: "Junior", MinAge: 14, MaxAge: 18}

	require.False(t, junior.Contains(13))
	require.True(t, junior.Contains(14))
	require.True(t, junior.Contains(18))
	require.False(t, junior.Contains(19))

	require.True(t, junior.Overlaps(Category{MinAge: 17, MaxAge: 22}))
	require.True(t, junior.Overlaps(Category{MinAge: 10, MaxAge: 14}))
	require.False(t, junior.Overlaps(Category{MinAge: 19, MaxAge: 30}))
}

func TestShiftStartEnd(t *testing.T) {
	d := day(2025, time.June, 9)

	morning := Shift{Date: d, Slot: SlotMorning}
	start, end := morning.StartEnd()
	require.Equal(t, d.Add(8*time.Hour), start)
	require.Equal(t, d.Add(12*time.Hour), end)

	evening := Shift{Date: d, Slot: SlotEvening}
	start, end = evening.StartEnd()
	require.Equal(t, d.Add(17*time.Hour), start)
	require.Equal(t, d.Add(21*time.Hour), end)
}

func TestBoatStatusPriority(t *testing.T) {
	require.Equal(t, "in use", (&Boat{}).Status())
	require.Equal(t, "out of service", (&Boat{OutOfService: true, InMaintenance: true}).Status())
	require.Equal(t, "in maintenance", (&Boat{InMaintenance: true, OnLoan: true}).Status())
	require.Equal(t, "on loan", (&Boat{OnLoan: true, Away: true}).Status())
	require.Equal(t, "away", (&Boat{Away: true}).Status())
}
