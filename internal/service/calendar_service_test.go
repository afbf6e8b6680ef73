package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"sebino/rowing-app/internal/domain"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type calendarFixture struct {
	users      *fakeUserRepo
	categories *fakeCategoryRepo
	trainings  *fakeTrainingRepo
	shifts     *fakeShiftRepo
	svc        CalendarService
}

func newCalendarFixture() *calendarFixture {
	users := newFakeUserRepo()
	categories := newFakeCategoryRepo()
	trainings := newFakeTrainingRepo()
	attendances := newFakeAttendanceRepo()
	shifts := newFakeShiftRepo()
	roster := NewRosterService(users, categories, attendances)
	return &calendarFixture{
		users:      users,
		categories: categories,
		trainings:  trainings,
		shifts:     shifts,
		svc:        NewCalendarService(users, trainings, shifts, roster, time.UTC),
	}
}

func TestCommitmentsFor_AthleteCoachAndShift(t *testing.T) {
	f := newCalendarFixture()
	junior := f.categories.add(&domain.Category{Name: "Junior", MinAge: 14, MaxAge: 18})

	member := f.users.add(&domain.User{
		FirstName:   "Anna",
		LastName:    "Rossi",
		DateOfBirth: dob(2010, time.January, 1),
		Roles:       []domain.Role{domain.RoleAthlete, domain.RoleCoach},
	})

	// Rowed: Junior training with Anna in the bracket.
	f.trainings.add(&domain.Training{
		Type:        "Barca",
		Date:        date(2025, time.June, 2),
		TimeRange:   "18:00-20:00",
		CategoryIDs: []primitive.ObjectID{junior.ID},
	})
	// Coached: a Master session with Anna on the coach list.
	f.trainings.add(&domain.Training{
		Type:      "Remoergometro",
		Date:      date(2025, time.June, 3),
		TimeRange: "19:00-20:30",
		CoachIDs:  []primitive.ObjectID{member.ID},
	})
	// Covered: morning shift.
	f.shifts.add(&domain.Shift{Date: date(2025, time.June, 4), Slot: domain.SlotMorning, UserID: &member.ID})

	commitments, err := f.svc.CommitmentsFor(context.Background(), member.ID, date(2025, time.June, 1), date(2025, time.June, 8))
	require.NoError(t, err)
	require.Len(t, commitments, 3)

	require.Equal(t, "training", commitments[0].Kind)
	require.Equal(t, "coaching", commitments[1].Kind)
	require.Equal(t, "shift", commitments[2].Kind)
	require.True(t, commitments[0].Start.Before(commitments[1].Start))
	require.True(t, commitments[1].Start.Before(commitments[2].Start))
}

func TestCommitmentsFor_OutsideWindowExcluded(t *testing.T) {
	f := newCalendarFixture()
	member := f.users.add(&domain.User{
		FirstName: "Anna", LastName: "Rossi",
		Roles: []domain.Role{domain.RoleCoach},
	})
	f.trainings.add(&domain.Training{
		Type:      "Barca",
		Date:      date(2025, time.June, 20),
		TimeRange: "18:00-20:00",
		CoachIDs:  []primitive.ObjectID{member.ID},
	})

	commitments, err := f.svc.CommitmentsFor(context.Background(), member.ID, date(2025, time.June, 1), date(2025, time.June, 8))
	require.NoError(t, err)
	require.Empty(t, commitments)
}

func TestRenderICS(t *testing.T) {
	f := newCalendarFixture()

	ics := f.svc.RenderICS([]Commitment{
		{
			Kind:  "training",
			Title: "Barca; serata",
			Start: date(2025, time.June, 2).Add(18 * time.Hour),
			End:   date(2025, time.June, 2).Add(20 * time.Hour),
		},
	})

	require.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR"))
	require.Contains(t, ics, "BEGIN:VTIMEZONE")
	require.Contains(t, ics, "TZID:Europe/Rome")
	require.Contains(t, ics, "BEGIN:VEVENT")
	require.Contains(t, ics, "DTSTART;TZID=Europe/Rome:")
	// Semicolons in summaries must be escaped per RFC 5545.
	require.Contains(t, ics, "Barca\\; serata")
	require.Contains(t, ics, "END:VCALENDAR")
	// iCalendar lines end with CRLF.
	require.Contains(t, ics, "\r\n")
}

func TestCalendarToken_MintAndRotate(t *testing.T) {
	f := newCalendarFixture()
	member := f.users.add(&domain.User{FirstName: "Anna", LastName: "Rossi", Roles: []domain.Role{domain.RoleAthlete}})

	token, err := f.svc.CalendarToken(context.Background(), member.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Stable across calls until rotated.
	again, err := f.svc.CalendarToken(context.Background(), member.ID)
	require.NoError(t, err)
	require.Equal(t, token, again)

	resolved, err := f.svc.ResolveToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, member.ID, resolved.ID)

	rotated, err := f.svc.RotateCalendarToken(context.Background(), member.ID)
	require.NoError(t, err)
	require.NotEqual(t, token, rotated)

	_, err = f.svc.ResolveToken(context.Background(), token)
	require.ErrorIs(t, err, ErrCalendarTokenInvalid)

	resolved, err = f.svc.ResolveToken(context.Background(), rotated)
	require.NoError(t, err)
	require.Equal(t, member.ID, resolved.ID)
}
