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
	ErrActivityTimes          = errors.New("activity end time must be after start time")
	ErrActivityTypeNotFound   = errors.New("activity type not found")
	ErrQualTypeNotFound       = errors.New("qualification type not found")
	ErrNotQualified           = errors.New("user does not hold the required qualification")
	ErrRequirementFull        = errors.New("requirement already at capacity")
	ErrTimeConflict           = errors.New("user has an overlapping time commitment")
	ErrDuplicateAssignment    = errors.New("user is already assigned to this requirement")
	ErrAssignmentNotFound     = errors.New("assignment not found")
	ErrQuantityBelowAssigned  = errors.New("quantity cannot drop below the current assignment count")
	ErrRequirementHasBookings = errors.New("requirement has assignments and cannot be deleted")
	ErrInvalidQuantity        = errors.New("requirement quantity must be at least 1")
	ErrInvalidActivityState   = errors.New("unknown activity state")
	ErrInvalidPaymentState    = errors.New("unknown payment state")
	ErrQualificationHeld      = errors.New("user already holds this qualification")
	ErrQualificationNotHeld   = errors.New("user does not hold this qualification")
)

// Coverage summarizes how staffed an activity is.
type Coverage struct {
	Assigned int `json:"assigned"`
	Required int `json:"required"`
	Percent  int `json:"percent"`
}

// --- Service Interface ---
type ActivityService interface {
	// Activities
	CreateActivity(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error)
	GetActivity(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error)
	ListActivities(ctx context.Context, from, to *time.Time) ([]domain.Activity, error)
	UpdateActivity(ctx context.Context, activity *domain.Activity) error
	// DeleteActivity cascades to requirements and assignments.
	DeleteActivity(ctx context.Context, id primitive.ObjectID) error

	// Requirements
	AddRequirement(ctx context.Context, activityID, qualificationTypeID primitive.ObjectID, quantity int) (*domain.Requirement, error)
	ListRequirements(ctx context.Context, activityID primitive.ObjectID) ([]domain.Requirement, error)
	// UpdateRequirementQuantity rejects quantities below the current
	// assignment count.
	UpdateRequirementQuantity(ctx context.Context, requirementID primitive.ObjectID, quantity int) (*domain.Requirement, error)
	// DeleteRequirement rejects requirements that still have bookings.
	DeleteRequirement(ctx context.Context, requirementID primitive.ObjectID) error

	// Assignments
	CreateAssignment(ctx context.Context, activityID, requirementID, userID primitive.ObjectID, roleLabel string) (*domain.Assignment, error)
	ListAssignments(ctx context.Context, activityID primitive.ObjectID) ([]domain.Assignment, error)
	DeleteAssignment(ctx context.Context, assignmentID primitive.ObjectID) error
	CoverageFor(ctx context.Context, activityID primitive.ObjectID) (*Coverage, error)

	// Reference directories
	ListActivityTypes(ctx context.Context, activeOnly bool) ([]domain.ActivityType, error)
	CreateActivityType(ctx context.Context, activityType *domain.ActivityType) (primitive.ObjectID, error)
	ListQualificationTypes(ctx context.Context, activeOnly bool) ([]domain.QualificationType, error)
	CreateQualificationType(ctx context.Context, qualificationType *domain.QualificationType) (primitive.ObjectID, error)

	// User qualifications
	GrantQualification(ctx context.Context, userID, qualificationTypeID primitive.ObjectID, obtainedAt time.Time, expiresAt *time.Time) error
	RevokeQualification(ctx context.Context, userID, qualificationTypeID primitive.ObjectID) error
}

// --- Service Implementation ---

// activityService implements the ActivityService interface.
type activityService struct {
	activityRepo    repository.ActivityRepository
	requirementRepo repository.RequirementRepository
	assignmentRepo  repository.AssignmentRepository
	typeRepo        repository.ActivityTypeRepository
	qualTypeRepo    repository.QualificationTypeRepository
	userRepo        repository.UserRepository
	availability    AvailabilityService
}

// NewActivityService creates a new instance of activityService.
func NewActivityService(
	activityRepo repository.ActivityRepository,
	requirementRepo repository.RequirementRepository,
	assignmentRepo repository.AssignmentRepository,
	typeRepo repository.ActivityTypeRepository,
	qualTypeRepo repository.QualificationTypeRepository,
	userRepo repository.UserRepository,
	availability AvailabilityService,
) ActivityService {
	return &activityService{
		activityRepo:    activityRepo,
		requirementRepo: requirementRepo,
		assignmentRepo:  assignmentRepo,
		typeRepo:        typeRepo,
		qualTypeRepo:    qualTypeRepo,
		userRepo:        userRepo,
		availability:    availability,
	}
}

// === Activities ===

// CreateActivity validates and stores a new booking.
func (s *activityService) CreateActivity(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error) {
	if activity.Title == "" {
		return primitive.NilObjectID, errors.New("activity title is required")
	}
	if _, err := s.typeRepo.GetByID(ctx, activity.TypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, ErrActivityTypeNotFound
		}
		return primitive.NilObjectID, err
	}

	activity.Date = midnight(activity.Date)
	start, end := activity.StartEnd()
	if !end.After(start) {
		return primitive.NilObjectID, ErrActivityTimes
	}

	if activity.State == "" {
		activity.State = domain.ActivityDraft
	}
	if activity.PaymentState == "" {
		activity.PaymentState = domain.PaymentPending
	}
	if !activity.State.Valid() {
		return primitive.NilObjectID, ErrInvalidActivityState
	}
	if !activity.PaymentState.Valid() {
		return primitive.NilObjectID, ErrInvalidPaymentState
	}
	return s.activityRepo.Create(ctx, activity)
}

// GetActivity retrieves an activity by ID.
func (s *activityService) GetActivity(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return activity, nil
}

// ListActivities retrieves activities, optionally bounded by a date window.
func (s *activityService) ListActivities(ctx context.Context, from, to *time.Time) ([]domain.Activity, error) {
	if from != nil && to != nil {
		return s.activityRepo.ListByDateRange(ctx, midnight(*from), midnight(*to))
	}
	return s.activityRepo.List(ctx)
}

// UpdateActivity validates and replaces an activity's stored state.
func (s *activityService) UpdateActivity(ctx context.Context, activity *domain.Activity) error {
	if activity.Title == "" {
		return errors.New("activity title is required")
	}
	if _, err := s.typeRepo.GetByID(ctx, activity.TypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrActivityTypeNotFound
		}
		return err
	}

	activity.Date = midnight(activity.Date)
	start, end := activity.StartEnd()
	if !end.After(start) {
		return ErrActivityTimes
	}
	if !activity.State.Valid() {
		return ErrInvalidActivityState
	}
	if !activity.PaymentState.Valid() {
		return ErrInvalidPaymentState
	}

	err := s.activityRepo.Update(ctx, activity)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrActivityNotFound
	}
	return err
}

// DeleteActivity removes an activity with its requirements and assignments.
func (s *activityService) DeleteActivity(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.GetActivity(ctx, id); err != nil {
		return err
	}
	if err := s.assignmentRepo.DeleteByActivity(ctx, id); err != nil {
		return err
	}
	if err := s.requirementRepo.DeleteByActivity(ctx, id); err != nil {
		return err
	}
	return s.activityRepo.Delete(ctx, id)
}

// === Requirements ===

// AddRequirement attaches a staffing requirement to an activity.
func (s *activityService) AddRequirement(ctx context.Context, activityID, qualificationTypeID primitive.ObjectID, quantity int) (*domain.Requirement, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	if _, err := s.GetActivity(ctx, activityID); err != nil {
		return nil, err
	}
	if _, err := s.qualTypeRepo.GetByID(ctx, qualificationTypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrQualTypeNotFound
		}
		return nil, err
	}

	requirement := &domain.Requirement{
		ActivityID:          activityID,
		QualificationTypeID: qualificationTypeID,
		Quantity:            quantity,
	}
	id, err := s.requirementRepo.Create(ctx, requirement)
	if err != nil {
		return nil, err
	}
	requirement.ID = id
	return requirement, nil
}

// ListRequirements retrieves an activity's requirements in creation order.
func (s *activityService) ListRequirements(ctx context.Context, activityID primitive.ObjectID) ([]domain.Requirement, error) {
	return s.requirementRepo.ListByActivity(ctx, activityID)
}

// UpdateRequirementQuantity changes a requirement's quantity, floored
// at the number of assignments already booked against it.
func (s *activityService) UpdateRequirementQuantity(ctx context.Context, requirementID primitive.ObjectID, quantity int) (*domain.Requirement, error) {
	if quantity < 1 {
		return nil, ErrInvalidQuantity
	}
	requirement, err := s.requirementRepo.GetByID(ctx, requirementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRequirementNotFound
		}
		return nil, err
	}

	assigned, err := s.assignmentRepo.CountByRequirement(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if quantity < assigned {
		return nil, ErrQuantityBelowAssigned
	}

	requirement.Quantity = quantity
	if err := s.requirementRepo.Update(ctx, requirement); err != nil {
		return nil, err
	}
	return requirement, nil
}

// DeleteRequirement removes a requirement; bookings block deletion.
func (s *activityService) DeleteRequirement(ctx context.Context, requirementID primitive.ObjectID) error {
	if _, err := s.requirementRepo.GetByID(ctx, requirementID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRequirementNotFound
		}
		return err
	}
	assigned, err := s.assignmentRepo.CountByRequirement(ctx, requirementID)
	if err != nil {
		return err
	}
	if assigned > 0 {
		return ErrRequirementHasBookings
	}
	return s.requirementRepo.Delete(ctx, requirementID)
}

// === Assignments ===

// CreateAssignment books a user onto a requirement slot. Checks run in
// a fixed order and the first failure is reported: activity exists,
// requirement belongs to it, user exists, qualification held, capacity
// left, no time conflict, no duplicate booking.
func (s *activityService) CreateAssignment(ctx context.Context, activityID, requirementID, userID primitive.ObjectID, roleLabel string) (*domain.Assignment, error) {
	// 1. Activity exists
	activity, err := s.GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	// 2. Requirement exists and belongs to the activity
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

	// 3. Target user exists
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// 4. Qualification held
	if !user.HasQualification(requirement.QualificationTypeID) {
		return nil, ErrNotQualified
	}

	// 5. Capacity left. This is a read-then-write with no lock: two
	// concurrent claims for the last slot can both pass before either
	// insert lands. Accepted; the unique booking index does not cover
	// capacity.
	assigned, err := s.assignmentRepo.CountByRequirement(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	if assigned >= requirement.Quantity {
		return nil, ErrRequirementFull
	}

	// 6. No overlapping commitment elsewhere
	start, end := activity.StartEnd()
	conflict, err := s.availability.HasTimeConflictExcluding(ctx, userID, start, end, activityID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrTimeConflict
	}

	// 7. No duplicate tuple (also backed by the unique index)
	existing, err := s.assignmentRepo.ListByRequirement(ctx, requirementID)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].UserID == userID {
			return nil, ErrDuplicateAssignment
		}
	}

	assignment := &domain.Assignment{
		ActivityID:    activityID,
		RequirementID: requirementID,
		UserID:        userID,
		RoleLabel:     roleLabel,
	}
	id, err := s.assignmentRepo.Create(ctx, assignment)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAssignment
		}
		return nil, err
	}
	assignment.ID = id
	return assignment, nil
}

// ListAssignments retrieves an activity's assignments.
func (s *activityService) ListAssignments(ctx context.Context, activityID primitive.ObjectID) ([]domain.Assignment, error) {
	return s.assignmentRepo.ListByActivity(ctx, activityID)
}

// DeleteAssignment removes a booking.
func (s *activityService) DeleteAssignment(ctx context.Context, assignmentID primitive.ObjectID) error {
	err := s.assignmentRepo.Delete(ctx, assignmentID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAssignmentNotFound
	}
	return err
}

// CoverageFor computes the staffing ratio of an activity. An activity
// with no requirements is fully covered by definition.
func (s *activityService) CoverageFor(ctx context.Context, activityID primitive.ObjectID) (*Coverage, error) {
	if _, err := s.GetActivity(ctx, activityID); err != nil {
		return nil, err
	}

	requirements, err := s.requirementRepo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	required := 0
	for i := range requirements {
		required += requirements[i].Quantity
	}
	assignments, err := s.assignmentRepo.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	assigned := len(assignments)

	percent := 100
	if required > 0 {
		percent = assigned * 100 / required
		if percent > 100 {
			percent = 100
		}
	}
	return &Coverage{Assigned: assigned, Required: required, Percent: percent}, nil
}

// === Reference Directories ===

func (s *activityService) ListActivityTypes(ctx context.Context, activeOnly bool) ([]domain.ActivityType, error) {
	return s.typeRepo.List(ctx, activeOnly)
}

func (s *activityService) CreateActivityType(ctx context.Context, activityType *domain.ActivityType) (primitive.ObjectID, error) {
	return s.typeRepo.Create(ctx, activityType)
}

func (s *activityService) ListQualificationTypes(ctx context.Context, activeOnly bool) ([]domain.QualificationType, error) {
	return s.qualTypeRepo.List(ctx, activeOnly)
}

func (s *activityService) CreateQualificationType(ctx context.Context, qualificationType *domain.QualificationType) (primitive.ObjectID, error) {
	return s.qualTypeRepo.Create(ctx, qualificationType)
}

// === User Qualifications ===

// GrantQualification adds an active qualification to a user's profile.
func (s *activityService) GrantQualification(ctx context.Context, userID, qualificationTypeID primitive.ObjectID, obtainedAt time.Time, expiresAt *time.Time) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if _, err := s.qualTypeRepo.GetByID(ctx, qualificationTypeID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrQualTypeNotFound
		}
		return err
	}
	if user.HasQualification(qualificationTypeID) {
		return ErrQualificationHeld
	}

	user.Qualifications = append(user.Qualifications, domain.UserQualification{
		QualificationTypeID: qualificationTypeID,
		ObtainedAt:          obtainedAt,
		ExpiresAt:           expiresAt,
		Active:              true,
	})
	return s.userRepo.Update(ctx, user)
}

// RevokeQualification deactivates a user's qualification. The entry
// stays on the profile for history; matching ignores inactive ones.
func (s *activityService) RevokeQualification(ctx context.Context, userID, qualificationTypeID primitive.ObjectID) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	revoked := false
	for i := range user.Qualifications {
		if user.Qualifications[i].QualificationTypeID == qualificationTypeID && user.Qualifications[i].Active {
			user.Qualifications[i].Active = false
			revoked = true
		}
	}
	if !revoked {
		return ErrQualificationNotHeld
	}
	return s.userRepo.Update(ctx, user)
}
