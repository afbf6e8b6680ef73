package service

import (
	"context"
	"testing"
	"time"

	"sebino/rowing-app/internal/domain"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestHasTimeConflict_AdjacentBlocksDoNotOverlap(t *testing.T) {
	f := newActivityFixture()
	instructor := f.addInstructor("Ada", "Bruni")
	day := date(2025, time.July, 10)

	// Morning shift 08:00-12:00.
	f.shifts.add(&domain.Shift{Date: day, Slot: domain.SlotMorning, UserID: &instructor.ID})

	// 12:00-14:00 starts exactly where the shift ends.
	conflict, err := f.availability.HasTimeConflict(context.Background(), instructor.ID, day.Add(12*time.Hour), day.Add(14*time.Hour))
	require.NoError(t, err)
	require.False(t, conflict)

	// 11:59-14:00 clips the last minute of the shift.
	conflict, err = f.availability.HasTimeConflict(context.Background(), instructor.ID, day.Add(11*time.Hour+59*time.Minute), day.Add(14*time.Hour))
	require.NoError(t, err)
	require.True(t, conflict)
}

func TestHasTimeConflict_CoachedTraining(t *testing.T) {
	f := newActivityFixture()
	coach := f.addInstructor("Ada", "Bruni")
	bystander := f.addInstructor("Carlo", "Dini")
	day := date(2025, time.July, 10)

	f.trainings.add(&domain.Training{
		Type:      "Barca",
		Date:      day,
		TimeRange: "18:00-20:00",
		CoachIDs:  []primitive.ObjectID{coach.ID},
	})

	conflict, err := f.availability.HasTimeConflict(context.Background(), coach.ID, day.Add(19*time.Hour), day.Add(21*time.Hour))
	require.NoError(t, err)
	require.True(t, conflict)

	// Only assigned coaches conflict with a training.
	conflict, err = f.availability.HasTimeConflict(context.Background(), bystander.ID, day.Add(19*time.Hour), day.Add(21*time.Hour))
	require.NoError(t, err)
	require.False(t, conflict)
}

func TestHasTimeConflict_ExistingAssignment(t *testing.T) {
	f := newActivityFixture()
	instructor := f.addInstructor("Ada", "Bruni")
	day := date(2025, time.July, 10)

	booked := f.addActivity(t, day, "10:00", "12:00")
	req := f.addRequirement(t, booked.ID, 1)
	_, err := f.svc.CreateAssignment(context.Background(), booked.ID, req.ID, instructor.ID, "")
	require.NoError(t, err)

	conflict, err := f.availability.HasTimeConflict(context.Background(), instructor.ID, day.Add(11*time.Hour), day.Add(13*time.Hour))
	require.NoError(t, err)
	require.True(t, conflict)

	// The booked activity's own window is exempt when excluded.
	conflict, err = f.availability.HasTimeConflictExcluding(context.Background(), instructor.ID, day.Add(11*time.Hour), day.Add(13*time.Hour), booked.ID)
	require.NoError(t, err)
	require.False(t, conflict)
}

func TestCanSelfAssign_FirstEligibleRequirement(t *testing.T) {
	f := newActivityFixture()
	activity := f.addActivity(t, date(2025, time.July, 10), "10:00", "12:00")

	// Two requirements in creation order: a sailing slot the user does
	// not qualify for, then a kayak slot they do.
	sailQual := f.qualTypes.add(&domain.QualificationType{Name: "Istruttore vela", Active: true})
	sailReq, err := f.svc.AddRequirement(context.Background(), activity.ID, sailQual.ID, 1)
	require.NoError(t, err)
	kayakReq := f.addRequirement(t, activity.ID, 1)

	instructor := f.addInstructor("Ada", "Bruni")

	result, err := f.availability.CanSelfAssign(context.Background(), instructor.ID, instructor.ID, activity.ID, nil)
	require.NoError(t, err)
	require.True(t, result.Allowed)
	require.Equal(t, kayakReq.ID, result.RequirementID)
	require.NotEqual(t, sailReq.ID, result.RequirementID)
}

func TestCanSelfAssign_NoEligibleRequirement(t *testing.T) {
	f := newActivityFixture()
	activity := f.addActivity(t, date(2025, time.July, 10), "10:00", "12:00")
	f.addRequirement(t, activity.ID, 1)

	unqualified := f.users.add(&domain.User{FirstName: "Ugo", LastName: "Neri", Roles: []domain.Role{domain.RoleInstructor}})

	result, err := f.availability.CanSelfAssign(context.Background(), unqualified.ID, unqualified.ID, activity.ID, nil)
	require.NoError(t, err)
	require.False(t, result.Allowed)
	require.NotEmpty(t, result.Message)
}

func TestCanSelfAssign_NamedRequirementAtCapacity(t *testing.T) {
	f := newActivityFixture()
	activity := f.addActivity(t, date(2025, time.July, 10), "10:00", "12:00")
	req := f.addRequirement(t, activity.ID, 1)

	holder := f.addInstructor("Ada", "Bruni")
	_, err := f.svc.CreateAssignment(context.Background(), activity.ID, req.ID, holder.ID, "")
	require.NoError(t, err)

	latecomer := f.addInstructor("Carlo", "Dini")
	result, err := f.availability.CanSelfAssign(context.Background(), latecomer.ID, latecomer.ID, activity.ID, &req.ID)
	require.NoError(t, err)
	require.False(t, result.Allowed)
	require.Contains(t, result.Message, "capacity")
}

func TestCanSelfAssign_OnlyStaffMayAssignOthers(t *testing.T) {
	f := newActivityFixture()
	activity := f.addActivity(t, date(2025, time.July, 10), "10:00", "12:00")
	f.addRequirement(t, activity.ID, 1)

	target := f.addInstructor("Ada", "Bruni")
	peer := f.addInstructor("Carlo", "Dini") // instructor, not staff
	admin := f.users.add(&domain.User{FirstName: "Dora", LastName: "Galli", Roles: []domain.Role{domain.RoleAdmin}})

	_, err := f.availability.CanSelfAssign(context.Background(), peer.ID, target.ID, activity.ID, nil)
	require.ErrorIs(t, err, ErrSelfAssignOnly)

	result, err := f.availability.CanSelfAssign(context.Background(), admin.ID, target.ID, activity.ID, nil)
	require.NoError(t, err)
	require.True(t, result.Allowed)
}

func TestAvailableUsersFor(t *testing.T) {
	f := newActivityFixture()
	day := date(2025, time.July, 10)
	activity := f.addActivity(t, day, "10:00", "12:00")
	req := f.addRequirement(t, activity.ID, 2)

	free := f.addInstructor("Ada", "Bruni")
	busy := f.addInstructor("Carlo", "Dini")
	suspended := f.addInstructor("Elsa", "Fontana")
	suspended.Suspended = true
	f.users.add(&domain.User{FirstName: "Ugo", LastName: "Neri", Roles: []domain.Role{domain.RoleInstructor}})

	// Carlo covers the overlapping morning shift.
	f.shifts.add(&domain.Shift{Date: day, Slot: domain.SlotMorning, UserID: &busy.ID})

	candidates, err := f.availability.AvailableUsersFor(context.Background(), activity.ID, req.ID)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	require.Equal(t, free.ID, candidates[0].ID)
}
