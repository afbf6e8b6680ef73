package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"sebino/rowing-app/internal/domain"
	"sebino/rowing-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryExists    = errors.New("a category with this name already exists")
	ErrCategoryAgeRange  = errors.New("category minimum age cannot exceed maximum age")
	ErrUserNotFound      = errors.New("user not found")
	ErrTrainingNotFound  = errors.New("training not found")
)

// --- Service Interface ---
type RosterService interface {
	// Category directory
	ListCategories(ctx context.Context) ([]domain.Category, error)
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)
	// CreateCategory returns a non-empty warning when the new age range
	// overlaps an existing category. Overlaps are legal (roster math is
	// a union) but usually unintended, so the admin gets told.
	CreateCategory(ctx context.Context, category *domain.Category) (primitive.ObjectID, string, error)

	// Roster computation
	RosterFor(ctx context.Context, training *domain.Training) ([]domain.User, error)
	ExtendedRosterFor(ctx context.Context, training *domain.Training) ([]domain.User, error)
	// CurrentCategory resolves the category a user belongs to on a
	// given date, honoring a valid ManualCategory override. Returns
	// nil (no error) when no category applies.
	CurrentCategory(ctx context.Context, user *domain.User, onDate time.Time) (*domain.Category, error)
}

// --- Service Implementation ---

// rosterService implements the RosterService interface.
type rosterService struct {
	userRepo       repository.UserRepository
	categoryRepo   repository.CategoryRepository
	attendanceRepo repository.AttendanceRepository
}

// NewRosterService creates a new instance of rosterService.
func NewRosterService(
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	attendanceRepo repository.AttendanceRepository,
) RosterService {
	return &rosterService{
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		attendanceRepo: attendanceRepo,
	}
}

// === Category Directory ===

// ListCategories returns all age categories ordered by sort order.
func (s *rosterService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// FindCategoryByName looks up a category by its unique name.
func (s *rosterService) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	category, err := s.categoryRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

// CreateCategory validates and stores a new age category.
func (s *rosterService) CreateCategory(ctx context.Context, category *domain.Category) (primitive.ObjectID, string, error) {
	// 1. Validate input
	if strings.TrimSpace(category.Name) == "" {
		return primitive.NilObjectID, "", errors.New("category name is required")
	}
	if category.MinAge > category.MaxAge {
		return primitive.NilObjectID, "", ErrCategoryAgeRange
	}

	// 2. Detect overlaps with existing brackets (warning only)
	existing, err := s.categoryRepo.List(ctx)
	if err != nil {
		return primitive.NilObjectID, "", err
	}
	warning := ""
	for _, other := range existing {
		if category.Overlaps(other) {
			warning = fmt.Sprintf("age range %d-%d overlaps existing category %q (%d-%d)",
				category.MinAge, category.MaxAge, other.Name, other.MinAge, other.MaxAge)
			break
		}
	}

	// 3. Insert (unique index rejects duplicate names)
	id, err := s.categoryRepo.Create(ctx, category)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return primitive.NilObjectID, "", ErrCategoryExists
		}
		return primitive.NilObjectID, "", err
	}
	return id, warning, nil
}

// === Roster Computation ===

// RosterFor computes the set of athletes eligible for a training: the
// union, across the training's assigned categories, of athletes whose
// age on the training's own date falls inside the bracket. A training
// with no assigned categories has an empty roster. Athletes without a
// date of birth are excluded. The result is ordered by (lastName,
// firstName) as delivered by the user repository.
func (s *rosterService) RosterFor(ctx context.Context, training *domain.Training) ([]domain.User, error) {
	if len(training.CategoryIDs) == 0 {
		return []domain.User{}, nil
	}

	// 1. Resolve the assigned categories
	categories := make([]domain.Category, 0, len(training.CategoryIDs))
	for _, id := range training.CategoryIDs {
		category, err := s.categoryRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// A stale category reference must not poison the roster.
				continue
			}
			return nil, err
		}
		categories = append(categories, *category)
	}
	if len(categories) == 0 {
		return []domain.User{}, nil
	}

	// 2. Age-filter the athlete population against the training's date
	athletes, err := s.userRepo.ListByRole(ctx, domain.RoleAthlete)
	if err != nil {
		return nil, err
	}

	roster := make([]domain.User, 0)
	for _, athlete := range athletes {
		if athlete.DateOfBirth == nil {
			continue
		}
		age := athlete.AgeOn(training.Date)
		for _, category := range categories {
			if category.Contains(age) {
				roster = append(roster, athlete)
				break
			}
		}
	}
	return roster, nil
}

// ExtendedRosterFor returns the computed roster plus any athlete who
// already has an attendance row for the training but fell out of the
// computed roster (e.g. the category set changed after the fact). The
// extended roster is for display and coach editing; self-toggle
// eligibility always uses the computed roster.
func (s *rosterService) ExtendedRosterFor(ctx context.Context, training *domain.Training) ([]domain.User, error) {
	roster, err := s.RosterFor(ctx, training)
	if err != nil {
		return nil, err
	}

	attendances, err := s.attendanceRepo.ListByTraining(ctx, training.ID)
	if err != nil {
		return nil, err
	}

	inRoster := make(map[primitive.ObjectID]bool, len(roster))
	for _, u := range roster {
		inRoster[u.ID] = true
	}

	for _, att := range attendances {
		if inRoster[att.AthleteID] {
			continue
		}
		user, err := s.userRepo.GetByID(ctx, att.AthleteID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		inRoster[user.ID] = true
		roster = append(roster, *user)
	}

	sortUsersByName(roster)
	return roster, nil
}

// CurrentCategory resolves a user's category on the given date. A
// ManualCategory naming an existing category wins over the age-derived
// one; otherwise the first bracket (in sort order) containing the
// user's age applies.
func (s *rosterService) CurrentCategory(ctx context.Context, user *domain.User, onDate time.Time) (*domain.Category, error) {
	if user.ManualCategory != "" {
		category, err := s.categoryRepo.GetByName(ctx, user.ManualCategory)
		if err == nil {
			return category, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		// Stale override name falls through to the age-derived lookup.
	}

	if user.DateOfBirth == nil {
		return nil, nil
	}
	age := user.AgeOn(onDate)

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range categories {
		if categories[i].Contains(age) {
			return &categories[i], nil
		}
	}
	return nil, nil
}

// === Shared Helpers ===

// sortUsersByName orders users by (lastName, firstName),
// case-insensitively.
func sortUsersByName(users []domain.User) {
	sort.SliceStable(users, func(i, j int) bool {
		li, lj := strings.ToLower(users[i].LastName), strings.ToLower(users[j].LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(users[i].FirstName) < strings.ToLower(users[j].FirstName)
	})
}
