package service

import (
	"context"
	"errors"
	"time"

	"sebino/rowing-app/internal/domain"
	"sebino/rowing-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrActivityNotFound    = errors.New("activity not found")
	ErrRequirementNotFound = errors.New("requirement not found")
	ErrRequirementMismatch = errors.New("requirement does not belong to this activity")
	ErrSelfAssignOnly      = errors.New("only coaches or admins may assign other people")
)

// ClaimResult is the outcome of a self-assignment resolution. A
// successful resolution names the requirement to book; the actual
// assignment write is a separate call.
type ClaimResult struct {
	Allowed       bool               `json:"allowed"`
	Message       string             `json:"message,omitempty"`
	RequirementID primitive.ObjectID `json:"requirementId,omitempty"`
}

// --- Service Interface ---
type AvailabilityService interface {
	// HasTimeConflict reports whether the user has any commitment
	// (coached training, shift, activity assignment) overlapping the
	// window on the same calendar date.
	HasTimeConflict(ctx context.Context, userID primitive.ObjectID, windowStart, windowEnd time.Time) (bool, error)
	// HasTimeConflictExcluding is HasTimeConflict with one activity's
	// own assignments ignored, so booking checks against an activity
	// never collide with it. Pass NilObjectID to exclude nothing.
	HasTimeConflictExcluding(ctx context.Context, userID primitive.ObjectID, windowStart, windowEnd time.Time, excludeActivityID primitive.ObjectID) (bool, error)
	// CanSelfAssign resolves whether a user may claim a slot of the
	// activity, scanning requirements in creation order when none is
	// named. Resolution only; it writes nothing.
	CanSelfAssign(ctx context.Context, callerID, targetID, activityID primitive.ObjectID, requirementID *primitive.ObjectID) (*ClaimResult, error)
	// AvailableUsersFor lists qualified, unsuspended, conflict-free
	// candidates for a requirement.
	AvailableUsersFor(ctx context.Context, activityID, requirementID primitive.ObjectID) ([]domain.User, error)
}

// --- Service Implementation ---

// availabilityService implements the AvailabilityService interface.
type availabilityService struct {
	userRepo        repository.UserRepository
	trainingRepo    repository.TrainingRepository
	shiftRepo       repository.ShiftRepository
	activityRepo    repository.ActivityRepository
	requirementRepo repository.RequirementRepository
	assignmentRepo  repository.AssignmentRepository
}

// NewAvailabilityService creates a new instance of availabilityService.
func NewAvailabilityService(
	userRepo repository.UserRepository,
	trainingRepo repository.TrainingRepository,
	shiftRepo repository.ShiftRepository,
	activityRepo repository.ActivityRepository,
	requirementRepo repository.RequirementRepository,
	assignmentRepo repository.AssignmentRepository,
) AvailabilityService {
	return &availabilityService{
		userRepo:        userRepo,
		trainingRepo:    trainingRepo,
		shiftRepo:       shiftRepo,
		activityRepo:    activityRepo,
		requirementRepo: requirementRepo,
		assignmentRepo:  assignmentRepo,
	}
}

// === Conflict Detection ===

// overlaps is the half-open interval test shared by all three
// commitment sources: [a,b) and [c,d) conflict iff a < d && c < b.
// Adjacent ranges (b == c) do not conflict.
func overlaps(a, b, c, d time.Time) bool {
	return a.Before(d) && c.Before(b)
}

// HasTimeConflict checks the three commitment sources in order and
// short-circuits on the first overlap found.
func (s *availabilityService) HasTimeConflict(ctx context.Context, userID primitive.ObjectID, windowStart, windowEnd time.Time) (bool, error) {
	return s.HasTimeConflictExcluding(ctx, userID, windowStart, windowEnd, primitive.NilObjectID)
}

// HasTimeConflictExcluding is the underlying scan.
func (s *availabilityService) HasTimeConflictExcluding(ctx context.Context, userID primitive.ObjectID, windowStart, windowEnd time.Time, excludeActivityID primitive.ObjectID) (bool, error) {
	date := midnight(windowStart)

	// 1. Trainings where the user is an assigned coach
	trainings, err := s.trainingRepo.ListByCoachOnDate(ctx, userID, date)
	if err != nil {
		return false, err
	}
	for i := range trainings {
		start, end := trainings[i].StartEnd()
		if overlaps(windowStart, windowEnd, start, end) {
			return true, nil
		}
	}

	// 2. Shifts held by the user
	shifts, err := s.shiftRepo.ListByUserOnDate(ctx, userID, date)
	if err != nil {
		return false, err
	}
	for i := range shifts {
		start, end := shifts[i].StartEnd()
		if overlaps(windowStart, windowEnd, start, end) {
			return true, nil
		}
	}

	// 3. Other activity assignments of the user
	assignments, err := s.assignmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return false, err
	}
	seen := make(map[primitive.ObjectID]bool)
	activityIDs := make([]primitive.ObjectID, 0, len(assignments))
	for i := range assignments {
		activityID := assignments[i].ActivityID
		if activityID == excludeActivityID || seen[activityID] {
			continue
		}
		seen[activityID] = true
		activityIDs = append(activityIDs, activityID)
	}
	if len(activityIDs) == 0 {
		return false, nil
	}
	activities, err := s.activityRepo.ListByIDs(ctx, activityIDs)
	if err != nil {
		return false, err
	}
	for i := range activities {
		activity := &activities[i]
		if !midnight(activity.Date).Equal(date) {
			continue
		}
		start, end := activity.StartEnd()
		if overlaps(windowStart, windowEnd, start, end) {
			return true, nil
		}
	}
	return false, nil
}

// === Self-Assignment Resolution ===

// CanSelfAssign checks whether target may be booked onto the activity.
// Callers may only book themselves unless they hold an elevated role.
// With a named requirement the checks run in order (belongs,
// qualification, capacity, conflict) and the first failure is the
// answer; with no requirement the activity's requirements are scanned
// in creation order for the first fully eligible one.
func (s *availabilityService) CanSelfAssign(ctx context.Context, callerID, targetID, activityID primitive.ObjectID, requirementID *primitive.ObjectID) (*ClaimResult, error) {
	// 1. Caller may act for the target
	if callerID != targetID {
		caller, err := s.userRepo.GetByID(ctx, callerID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if !caller.IsStaff() {
			return nil, ErrSelfAssignOnly
		}
	}

	// 2. Resolve activity and target
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 3. Named requirement: ordered checks, first failure wins
	if requirementID != nil {
		requirement, err := s.requirementRepo.GetByID(ctx, *requirementID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrRequirementNotFound
			}
			return nil, err
		}
		if requirement.ActivityID != activityID {
			return nil, ErrRequirementMismatch
		}
		ok, message, err := s.checkEligibility(ctx, target, activity, requirement)
		if err != nil {
			return nil, err
		}
		return &ClaimResult{Allowed: ok, Message: message, RequirementID: requirement.ID}, nil
	}

	// 4. Unnamed: first eligible requirement in creation order
	requirements, err := s.requirementRepo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	for i := range requirements {
		ok, _, err := s.checkEligibility(ctx, target, activity, &requirements[i])
		if err != nil {
			return nil, err
		}
		if ok {
			return &ClaimResult{Allowed: true, RequirementID: requirements[i].ID}, nil
		}
	}
	return &ClaimResult{Allowed: false, Message: "no eligible requirement"}, nil
}

// checkEligibility runs the per-requirement checks in their fixed
// order: qualification, remaining capacity, time conflict.
func (s *availabilityService) checkEligibility(ctx context.Context, user *domain.User, activity *domain.Activity, requirement *domain.Requirement) (bool, string, error) {
	if !user.HasQualification(requirement.QualificationTypeID) {
		return false, "missing required qualification", nil
	}

	count, err := s.assignmentRepo.CountByRequirement(ctx, requirement.ID)
	if err != nil {
		return false, "", err
	}
	if count >= requirement.Quantity {
		return false, "requirement already at capacity", nil
	}

	start, end := activity.StartEnd()
	conflict, err := s.HasTimeConflictExcluding(ctx, user.ID, start, end, activity.ID)
	if err != nil {
		return false, "", err
	}
	if conflict {
		return false, "overlapping time commitment", nil
	}
	return true, "", nil
}

// AvailableUsersFor lists every unsuspended user who holds the
// requirement's qualification and is free during the activity's slot.
func (s *availabilityService) AvailableUsersFor(ctx context.Context, activityID, requirementID primitive.ObjectID) ([]domain.User, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	requirement, err := s.requirementRepo.GetByID(ctx, requirementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequirementNotFound
		}
		return nil, err
	}
	if requirement.ActivityID != activityID {
		return nil, ErrRequirementMismatch
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	start, end := activity.StartEnd()
	candidates := make([]domain.User, 0)
	for i := range users {
		user := &users[i]
		if user.Suspended || !user.HasQualification(requirement.QualificationTypeID) {
			continue
		}
		conflict, err := s.HasTimeConflictExcluding(ctx, user.ID, start, end, activity.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			continue
		}
		candidates = append(candidates, *user)
	}
	return candidates, nil
}
