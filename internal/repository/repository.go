package repository

import (
	"context"
	"time"

	"sebino/rowing-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByCalendarToken(ctx context.Context, token string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	// ListByRole returns all users carrying the role tag, ordered by
	// (lastName, firstName).
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// CategoryRepository defines the interface for interacting with the
// age-category directory.
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error)
	GetByName(ctx context.Context, name string) (*domain.Category, error)
	// List returns all categories ordered by sort order.
	List(ctx context.Context) ([]domain.Category, error)
}

// TrainingRepository defines the interface for interacting with
// training session data.
type TrainingRepository interface {
	Create(ctx context.Context, training *domain.Training) (primitive.ObjectID, error)
	// CreateMany inserts a batch of materialized recurrence occurrences.
	CreateMany(ctx context.Context, trainings []*domain.Training) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error)
	Update(ctx context.Context, training *domain.Training) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Training, error)
	ListByCoachOnDate(ctx context.Context, coachID primitive.ObjectID, date time.Time) ([]domain.Training, error)
	// ListByRecurrenceGroupFrom returns the materialized siblings of a
	// recurrence group dated on or after the pivot date.
	ListByRecurrenceGroupFrom(ctx context.Context, groupID string, from time.Time) ([]domain.Training, error)
}

// AttendanceRepository defines the interface for interacting with
// attendance rows and their audit log.
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *domain.Attendance) (primitive.ObjectID, error)
	Update(ctx context.Context, attendance *domain.Attendance) error
	GetByTrainingAndAthlete(ctx context.Context, trainingID, athleteID primitive.ObjectID) (*domain.Attendance, error)
	ListByTraining(ctx context.Context, trainingID primitive.ObjectID) ([]domain.Attendance, error)
	DeleteByTraining(ctx context.Context, trainingID primitive.ObjectID) error
	DeleteByTrainingAndAthletes(ctx context.Context, trainingID primitive.ObjectID, athleteIDs []primitive.ObjectID) error
	// AppendChange writes one append-only audit entry.
	AppendChange(ctx context.Context, change *domain.AttendanceChange) (primitive.ObjectID, error)
	ListChanges(ctx context.Context, attendanceID primitive.ObjectID) ([]domain.AttendanceChange, error)
}

// ActivityRepository defines the interface for interacting with paid
// activity bookings.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error)
	ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Activity, error)
	List(ctx context.Context) ([]domain.Activity, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Activity, error)
	Update(ctx context.Context, activity *domain.Activity) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RequirementRepository defines the interface for interacting with
// activity staffing requirements.
type RequirementRepository interface {
	Create(ctx context.Context, requirement *domain.Requirement) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Requirement, error)
	// ListByActivity returns requirements in creation order; the
	// self-assignment resolver relies on that ordering.
	ListByActivity(ctx context.Context, activityID primitive.ObjectID) ([]domain.Requirement, error)
	Update(ctx context.Context, requirement *domain.Requirement) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByActivity(ctx context.Context, activityID primitive.ObjectID) error
}

// AssignmentRepository defines the interface for interacting with
// activity staffing assignments.
type AssignmentRepository interface {
	Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error)
	ListByActivity(ctx context.Context, activityID primitive.ObjectID) ([]domain.Assignment, error)
	ListByRequirement(ctx context.Context, requirementID primitive.ObjectID) ([]domain.Assignment, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Assignment, error)
	CountByRequirement(ctx context.Context, requirementID primitive.ObjectID) (int, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByActivity(ctx context.Context, activityID primitive.ObjectID) error
}

// ActivityTypeRepository defines the interface for the activity type
// reference table.
type ActivityTypeRepository interface {
	Create(ctx context.Context, activityType *domain.ActivityType) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ActivityType, error)
	List(ctx context.Context, activeOnly bool) ([]domain.ActivityType, error)
}

// QualificationTypeRepository defines the interface for the
// qualification type reference table.
type QualificationTypeRepository interface {
	Create(ctx context.Context, qualificationType *domain.QualificationType) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.QualificationType, error)
	List(ctx context.Context, activeOnly bool) ([]domain.QualificationType, error)
}

// ShiftRepository defines the interface for interacting with
// club-opening shifts.
type ShiftRepository interface {
	Create(ctx context.Context, shift *domain.Shift) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Shift, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Shift, error)
	ListByUserOnDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.Shift, error)
	ListByUserInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.Shift, error)
	Update(ctx context.Context, shift *domain.Shift) error
}

// BoatRepository defines the interface for interacting with the boat
// inventory.
type BoatRepository interface {
	Create(ctx context.Context, boat *domain.Boat) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Boat, error)
	List(ctx context.Context) ([]domain.Boat, error)
	Update(ctx context.Context, boat *domain.Boat) error
}
