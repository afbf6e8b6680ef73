package service

import (
	"context"
	"testing"
	"time"

	"sebino/rowing-app/internal/domain"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newScheduleFixture() (*fakeTrainingRepo, *fakeAttendanceRepo, *fakeShiftRepo, *fakeBoatRepo, ScheduleService) {
	trainings := newFakeTrainingRepo()
	attendances := newFakeAttendanceRepo()
	shifts := newFakeShiftRepo()
	boats := newFakeBoatRepo()
	svc := NewScheduleService(trainings, attendances, shifts, boats)
	return trainings, attendances, shifts, boats, svc
}

func TestCreateWeeklyTrainings_CountBound(t *testing.T) {
	_, _, _, _, svc := newScheduleFixture()

	// 2025-06-02 is a Monday.
	base := &domain.Training{
		Type:      "Barca",
		Date:      date(2025, time.June, 2),
		TimeRange: "18:00-20:00",
	}
	created, err := svc.CreateWeeklyTrainings(context.Background(), base, WeeklyPlan{
		Weekdays: []string{"Lunedì", "Mercoledì"},
		Count:    5,
	})
	require.NoError(t, err)
	require.Len(t, created, 5)

	// Mon 2, Wed 4, Mon 9, Wed 11, Mon 16.
	require.Equal(t, date(2025, time.June, 2), created[0].Date)
	require.Equal(t, date(2025, time.June, 4), created[1].Date)
	require.Equal(t, date(2025, time.June, 9), created[2].Date)
	require.Equal(t, date(2025, time.June, 11), created[3].Date)
	require.Equal(t, date(2025, time.June, 16), created[4].Date)

	// All rows share one group ID and are plain rows, not weekly rules.
	groupID := created[0].RecurrenceGroupID
	require.NotEmpty(t, groupID)
	for _, row := range created {
		require.Equal(t, groupID, row.RecurrenceGroupID)
		require.Equal(t, domain.RecurrenceNone, row.Recurrence)
		require.Nil(t, row.RepeatUntil)
		require.False(t, row.ID.IsZero())
	}
}

func TestCreateWeeklyTrainings_UntilBound(t *testing.T) {
	_, _, _, _, svc := newScheduleFixture()

	until := date(2025, time.June, 15)
	base := &domain.Training{
		Type:      "Barca",
		Date:      date(2025, time.June, 2), // Monday
		TimeRange: "18:00-20:00",
	}
	created, err := svc.CreateWeeklyTrainings(context.Background(), base, WeeklyPlan{
		Weekdays: []string{"Lunedì"},
		Until:    &until,
	})
	require.NoError(t, err)
	// Mon 2, Mon 9: Mon 16 is past the inclusive end date.
	require.Len(t, created, 2)
	require.Equal(t, date(2025, time.June, 9), created[1].Date)
}

func TestCreateWeeklyTrainings_Validation(t *testing.T) {
	_, _, _, _, svc := newScheduleFixture()
	base := &domain.Training{Type: "Barca", Date: date(2025, time.June, 2)}

	_, err := svc.CreateWeeklyTrainings(context.Background(), base, WeeklyPlan{Count: 3})
	require.ErrorIs(t, err, ErrNoRecurrenceDays)

	_, err = svc.CreateWeeklyTrainings(context.Background(), base, WeeklyPlan{Weekdays: []string{"Lunedì"}})
	require.ErrorIs(t, err, ErrRecurrenceHorizon)

	_, err = svc.CreateWeeklyTrainings(context.Background(), base, WeeklyPlan{Weekdays: []string{"Monday"}, Count: 3})
	require.ErrorIs(t, err, ErrUnknownWeekday)
}

func TestDeleteTraining_ThisAndFuture(t *testing.T) {
	trainings, attendances, _, _, svc := newScheduleFixture()

	base := &domain.Training{Type: "Barca", Date: date(2025, time.June, 2), TimeRange: "18:00-20:00"}
	created, err := svc.CreateWeeklyTrainings(context.Background(), base, WeeklyPlan{
		Weekdays: []string{"Lunedì"},
		Count:    4,
	})
	require.NoError(t, err)
	require.Len(t, created, 4)

	// Attendance on the third occurrence must be cascade-deleted.
	athleteID := primitive.NewObjectID()
	_, err = attendances.Create(context.Background(), &domain.Attendance{
		TrainingID: created[2].ID,
		AthleteID:  athleteID,
		Status:     domain.StatusPresent,
	})
	require.NoError(t, err)

	deleted, err := svc.DeleteTraining(context.Background(), created[2].ID, DeleteThisAndFuture)
	require.NoError(t, err)
	require.Equal(t, 2, deleted)

	// The first two occurrences survive.
	_, err = trainings.GetByID(context.Background(), created[0].ID)
	require.NoError(t, err)
	_, err = trainings.GetByID(context.Background(), created[1].ID)
	require.NoError(t, err)
	_, err = trainings.GetByID(context.Background(), created[3].ID)
	require.Error(t, err)

	_, err = attendances.GetByTrainingAndAthlete(context.Background(), created[2].ID, athleteID)
	require.Error(t, err)
}

func TestDeleteTraining_ThisAndFutureRequiresGroup(t *testing.T) {
	_, _, _, _, svc := newScheduleFixture()

	id, err := svc.CreateTraining(context.Background(), &domain.Training{
		Type:      "Barca",
		Date:      date(2025, time.June, 2),
		TimeRange: "18:00-20:00",
	})
	require.NoError(t, err)

	_, err = svc.DeleteTraining(context.Background(), id, DeleteThisAndFuture)
	require.ErrorIs(t, err, ErrNotRecurring)
}

func TestDeleteTraining_Single(t *testing.T) {
	trainings, _, _, _, svc := newScheduleFixture()

	id, err := svc.CreateTraining(context.Background(), &domain.Training{
		Type:      "Barca",
		Date:      date(2025, time.June, 2),
		TimeRange: "18:00-20:00",
	})
	require.NoError(t, err)

	deleted, err := svc.DeleteTraining(context.Background(), id, DeleteSingle)
	require.NoError(t, err)
	require.Equal(t, 1, deleted)

	_, err = trainings.GetByID(context.Background(), id)
	require.Error(t, err)
}

func TestCreateTraining_WeeklyMaster(t *testing.T) {
	trainings, _, _, _, svc := newScheduleFixture()

	until := time.Date(2025, time.June, 30, 14, 45, 0, 0, time.UTC)
	id, err := svc.CreateTraining(context.Background(), &domain.Training{
		Type:        "Barca",
		Date:        date(2025, time.June, 2),
		TimeRange:   "18:00-20:00",
		Recurrence:  domain.RecurrenceWeekly,
		RepeatUntil: &until,
	})
	require.NoError(t, err)

	stored, err := trainings.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, domain.RecurrenceWeekly, stored.Recurrence)
	require.NotNil(t, stored.RepeatUntil)
	require.Equal(t, date(2025, time.June, 30), *stored.RepeatUntil)

	// The stored master expands in memory for calendar views.
	occurrences := svc.Expand(stored, date(2025, time.June, 1), date(2025, time.July, 31))
	require.Len(t, occurrences, 5)
}

func TestUpdateTraining(t *testing.T) {
	trainings, _, _, _, svc := newScheduleFixture()

	id, err := svc.CreateTraining(context.Background(), &domain.Training{
		Type:      "Barca",
		Date:      date(2025, time.June, 2),
		TimeRange: "18:00-20:00",
	})
	require.NoError(t, err)

	updated := &domain.Training{
		ID:        id,
		Type:      "Palestra",
		Date:      time.Date(2025, time.June, 3, 15, 30, 0, 0, time.UTC),
		TimeRange: "19:00-21:00",
	}
	require.NoError(t, svc.UpdateTraining(context.Background(), updated))

	stored, err := trainings.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Palestra", stored.Type)
	// Dates are stored at midnight regardless of the submitted clock time.
	require.Equal(t, date(2025, time.June, 3), stored.Date)

	err = svc.UpdateTraining(context.Background(), &domain.Training{
		ID:   primitive.NewObjectID(),
		Type: "Barca",
		Date: date(2025, time.June, 3),
	})
	require.ErrorIs(t, err, ErrTrainingNotFound)
}

func TestExpand_WeeklyRuleBoundedByRepeatUntil(t *testing.T) {
	_, _, _, _, svc := newScheduleFixture()

	until := date(2025, time.June, 30)
	training := &domain.Training{
		ID:          primitive.NewObjectID(),
		Type:        "Remoergometro",
		Date:        date(2025, time.June, 2),
		TimeRange:   "19:00-20:30",
		Recurrence:  domain.RecurrenceWeekly,
		RepeatUntil: &until,
	}

	window := svc.Expand(training, date(2025, time.June, 1), date(2025, time.July, 31))
	// Jun 2, 9, 16, 23, 30: never past the repeat-until date.
	require.Len(t, window, 5)
	require.Equal(t, date(2025, time.June, 30), window[4].Date)

	// The parsed times ride along on every occurrence.
	require.Equal(t, date(2025, time.June, 9).Add(19*time.Hour), window[1].TimeStart)
	require.Equal(t, date(2025, time.June, 9).Add(20*time.Hour+30*time.Minute), window[1].TimeEnd)
}

func TestExpand_WindowClipsOccurrences(t *testing.T) {
	_, _, _, _, svc := newScheduleFixture()

	until := date(2025, time.June, 30)
	training := &domain.Training{
		ID:          primitive.NewObjectID(),
		Type:        "Barca",
		Date:        date(2025, time.June, 2),
		TimeRange:   "18:00-20:00",
		Recurrence:  domain.RecurrenceWeekly,
		RepeatUntil: &until,
	}

	// A one-week window in the middle of the rule sees one occurrence.
	window := svc.Expand(training, date(2025, time.June, 9), date(2025, time.June, 15))
	require.Len(t, window, 1)
	require.Equal(t, date(2025, time.June, 9), window[0].Date)
}

func TestExpand_NonRecurringEmitsMasterOnly(t *testing.T) {
	_, _, _, _, svc := newScheduleFixture()

	training := &domain.Training{
		ID:        primitive.NewObjectID(),
		Type:      "Pesi",
		Date:      date(2025, time.June, 4),
		TimeRange: "17:00",
	}

	inside := svc.Expand(training, date(2025, time.June, 1), date(2025, time.June, 7))
	require.Len(t, inside, 1)

	outside := svc.Expand(training, date(2025, time.June, 8), date(2025, time.June, 14))
	require.Empty(t, outside)
}

func TestWeekAgenda_MergesTrainingsAndShifts(t *testing.T) {
	_, _, _, _, svc := newScheduleFixture()

	// A weekly rule created the week before still projects into the
	// visible week.
	until := date(2025, time.June, 30)
	_, err := svc.CreateTraining(context.Background(), &domain.Training{
		Type:        "Barca",
		Date:        date(2025, time.June, 2),
		TimeRange:   "18:00-20:00",
		Recurrence:  domain.RecurrenceWeekly,
		RepeatUntil: &until,
	})
	require.NoError(t, err)

	shift, err := svc.EnsureShift(context.Background(), date(2025, time.June, 9), domain.SlotMorning)
	require.NoError(t, err)
	coachID := primitive.NewObjectID()
	_, err = svc.AssignShift(context.Background(), shift.ID, &coachID)
	require.NoError(t, err)

	entries, err := svc.WeekAgenda(context.Background(), date(2025, time.June, 9))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Morning shift first, evening training second.
	require.Equal(t, "shift", entries[0].Kind)
	require.Equal(t, date(2025, time.June, 9).Add(8*time.Hour), entries[0].Start)
	require.Equal(t, "training", entries[1].Kind)
	require.Equal(t, date(2025, time.June, 9).Add(18*time.Hour), entries[1].Start)
}

func TestEnsureShift_Lazy(t *testing.T) {
	_, _, _, _, svc := newScheduleFixture()

	day := date(2025, time.June, 9)
	first, err := svc.EnsureShift(context.Background(), day, domain.SlotEvening)
	require.NoError(t, err)
	require.False(t, first.ID.IsZero())

	again, err := svc.EnsureShift(context.Background(), day, domain.SlotEvening)
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
}

func TestAssignShift_ClearAssignment(t *testing.T) {
	_, _, _, _, svc := newScheduleFixture()

	shift, err := svc.EnsureShift(context.Background(), date(2025, time.June, 9), domain.SlotMorning)
	require.NoError(t, err)

	coachID := primitive.NewObjectID()
	assigned, err := svc.AssignShift(context.Background(), shift.ID, &coachID)
	require.NoError(t, err)
	require.NotNil(t, assigned.UserID)

	cleared, err := svc.AssignShift(context.Background(), shift.ID, nil)
	require.NoError(t, err)
	require.Nil(t, cleared.UserID)
}

func TestBoatInventory(t *testing.T) {
	_, _, _, _, svc := newScheduleFixture()

	id, err := svc.CreateBoat(context.Background(), &domain.Boat{Name: "Gemini", Type: "2x"})
	require.NoError(t, err)

	boats, err := svc.ListBoats(context.Background())
	require.NoError(t, err)
	require.Len(t, boats, 1)
	require.Equal(t, "in use", boats[0].Status())

	err = svc.UpdateBoat(context.Background(), &domain.Boat{ID: id, Name: "Gemini", Type: "2x", InMaintenance: true})
	require.NoError(t, err)

	boats, err = svc.ListBoats(context.Background())
	require.NoError(t, err)
	require.Equal(t, "in maintenance", boats[0].Status())

	err = svc.UpdateBoat(context.Background(), &domain.Boat{ID: primitive.NewObjectID(), Name: "Ghost", Type: "1x"})
	require.ErrorIs(t, err, ErrBoatNotFound)
}
