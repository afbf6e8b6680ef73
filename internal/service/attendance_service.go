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
	ErrNotAnAthlete        = errors.New("user does not have the athlete role")
	ErrAttendanceLocked    = errors.New("attendance window closed (less than 3 hours to start)")
	ErrOutsideRoster       = errors.New("athlete is not in the training's roster")
	ErrInvalidStatus       = errors.New("status must be present or absent")
)

// selfToggleLead is how long before a training's start athletes may
// still change their own attendance.
const selfToggleLead = 3 * time.Hour

// AttendanceEntry is one row of the attendance list for a training:
// the athlete, their effective status (implicit "maybe" when no row
// exists), and the row's bookkeeping when present.
type AttendanceEntry struct {
	AthleteID   primitive.ObjectID      `json:"athleteId"`
	FirstName   string                  `json:"firstName"`
	LastName    string                  `json:"lastName"`
	Status      domain.AttendanceStatus `json:"status"`
	Source      domain.AttendanceSource `json:"source"`
	ChangeCount int                     `json:"changeCount"`
}

// BulkItem is one (athlete, status) pair of a bulk set.
type BulkItem struct {
	AthleteID primitive.ObjectID      `json:"athleteId"`
	Status    domain.AttendanceStatus `json:"status"`
}

// AttendanceStats aggregates an athlete's attendance history.
type AttendanceStats struct {
	Category string `json:"category,omitempty"` // athlete's category today
	Sessions int    `json:"sessions"`
	Present  int    `json:"present"`
	Absent   int    `json:"absent"`

	ByMonth map[string]int `json:"byMonth"` // "2025-06" -> sessions attended
	ByType  map[string]int `json:"byType"`  // training type -> sessions attended
}

// --- Service Interface ---
type AttendanceService interface {
	// SelfToggle lets an athlete declare present/absent for a training
	// they are eligible for, until 3 hours before start.
	SelfToggle(ctx context.Context, trainingID, athleteID primitive.ObjectID, status domain.AttendanceStatus) (*domain.Attendance, error)
	// SetStatus is the coach/admin override: no time lock, no roster
	// precondition, optional reason recorded in the audit log.
	SetStatus(ctx context.Context, trainingID, athleteID primitive.ObjectID, status domain.AttendanceStatus, changedBy *primitive.ObjectID, reason string) (*domain.Attendance, error)
	// BulkSet applies SetStatus semantics to every item; any invalid
	// item rejects the whole batch before anything is written.
	BulkSet(ctx context.Context, trainingID primitive.ObjectID, items []BulkItem, changedBy *primitive.ObjectID, reason string) ([]BulkItem, error)
	ListForTraining(ctx context.Context, trainingID primitive.ObjectID) ([]AttendanceEntry, error)
	// ToggleCategory adds or removes a category on a training. Removal
	// prunes attendance rows of athletes no longer in the recomputed
	// roster.
	ToggleCategory(ctx context.Context, trainingID primitive.ObjectID, categoryName string) (*domain.Training, error)
	ListChanges(ctx context.Context, trainingID, athleteID primitive.ObjectID) ([]domain.AttendanceChange, error)
	StatsForAthlete(ctx context.Context, athleteID primitive.ObjectID, from, to time.Time) (*AttendanceStats, error)
}

// --- Service Implementation ---

// attendanceService implements the AttendanceService interface.
type attendanceService struct {
	trainingRepo   repository.TrainingRepository
	attendanceRepo repository.AttendanceRepository
	userRepo       repository.UserRepository
	categoryRepo   repository.CategoryRepository
	roster         RosterService

	// now is injectable so the time-lock boundary is testable.
	now func() time.Time
}

// NewAttendanceService creates a new instance of attendanceService.
func NewAttendanceService(
	trainingRepo repository.TrainingRepository,
	attendanceRepo repository.AttendanceRepository,
	userRepo repository.UserRepository,
	categoryRepo repository.CategoryRepository,
	roster RosterService,
) AttendanceService {
	return &attendanceService{
		trainingRepo:   trainingRepo,
		attendanceRepo: attendanceRepo,
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		roster:         roster,
		now:            time.Now,
	}
}

// === State Machine Operations ===

// SelfToggle implements the athlete self-service flow.
func (s *attendanceService) SelfToggle(ctx context.Context, trainingID, athleteID primitive.ObjectID, status domain.AttendanceStatus) (*domain.Attendance, error) {
	// 1. Validate the requested status
	if status != domain.StatusPresent && status != domain.StatusAbsent {
		return nil, ErrInvalidStatus
	}

	// 2. The caller must carry the athlete role
	athlete, err := s.userRepo.GetByID(ctx, athleteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !athlete.IsAthlete() {
		return nil, ErrNotAnAthlete
	}

	// 3. The training must exist
	training, err := s.trainingRepo.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	// 4. Time lock: self-service closes 3 hours before the parsed start
	start, _ := training.StartEnd()
	if !s.now().Before(start.Add(-selfToggleLead)) {
		return nil, ErrAttendanceLocked
	}

	// 5. Eligibility uses the computed roster, not the extended one
	roster, err := s.roster.RosterFor(ctx, training)
	if err != nil {
		return nil, err
	}
	inRoster := false
	for i := range roster {
		if roster[i].ID == athleteID {
			inRoster = true
			break
		}
	}
	if !inRoster {
		return nil, ErrOutsideRoster
	}

	return s.applyStatus(ctx, trainingID, athleteID, status, domain.SourceAthlete, &athleteID, "")
}

// SetStatus implements the coach/admin single set.
func (s *attendanceService) SetStatus(ctx context.Context, trainingID, athleteID primitive.ObjectID, status domain.AttendanceStatus, changedBy *primitive.ObjectID, reason string) (*domain.Attendance, error) {
	if status != domain.StatusPresent && status != domain.StatusAbsent {
		return nil, ErrInvalidStatus
	}
	if _, err := s.userRepo.GetByID(ctx, athleteID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if _, err := s.trainingRepo.GetByID(ctx, trainingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	return s.applyStatus(ctx, trainingID, athleteID, status, domain.SourceCoach, changedBy, reason)
}

// BulkSet validates every item against the extended roster before a
// single write happens, then applies coach-set semantics per item.
func (s *attendanceService) BulkSet(ctx context.Context, trainingID primitive.ObjectID, items []BulkItem, changedBy *primitive.ObjectID, reason string) ([]BulkItem, error) {
	training, err := s.trainingRepo.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	// 1. Validate the whole batch up front (all-or-nothing)
	extended, err := s.roster.ExtendedRosterFor(ctx, training)
	if err != nil {
		return nil, err
	}
	allowed := make(map[primitive.ObjectID]bool, len(extended))
	for i := range extended {
		allowed[extended[i].ID] = true
	}
	for _, item := range items {
		if item.Status != domain.StatusPresent && item.Status != domain.StatusAbsent {
			return nil, ErrInvalidStatus
		}
		if !allowed[item.AthleteID] {
			return nil, ErrOutsideRoster
		}
	}

	// 2. Apply
	results := make([]BulkItem, 0, len(items))
	for _, item := range items {
		att, err := s.applyStatus(ctx, trainingID, item.AthleteID, item.Status, domain.SourceCoach, changedBy, reason)
		if err != nil {
			return nil, err
		}
		results = append(results, BulkItem{AthleteID: item.AthleteID, Status: att.Status})
	}
	return results, nil
}

// ListForTraining renders the attendance sheet: every extended-roster
// member with their effective status, ordered by (lastName, firstName)
// case-insensitively.
func (s *attendanceService) ListForTraining(ctx context.Context, trainingID primitive.ObjectID) ([]AttendanceEntry, error) {
	training, err := s.trainingRepo.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	extended, err := s.roster.ExtendedRosterFor(ctx, training)
	if err != nil {
		return nil, err
	}
	attendances, err := s.attendanceRepo.ListByTraining(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	byAthlete := make(map[primitive.ObjectID]*domain.Attendance, len(attendances))
	for i := range attendances {
		byAthlete[attendances[i].AthleteID] = &attendances[i]
	}

	entries := make([]AttendanceEntry, 0, len(extended))
	for i := range extended {
		member := &extended[i]
		entry := AttendanceEntry{
			AthleteID: member.ID,
			FirstName: member.FirstName,
			LastName:  member.LastName,
			Status:    domain.StatusMaybe,
			Source:    domain.SourceSystem,
		}
		if att, ok := byAthlete[member.ID]; ok {
			entry.Status = att.Status
			entry.Source = att.Source
			entry.ChangeCount = att.ChangeCount
		}
		entries = append(entries, entry)
	}
	// ExtendedRosterFor already sorts by name; entries inherit that order.
	return entries, nil
}

// ToggleCategory flips a category's membership on a training. Removing
// a category recomputes the roster and drops the attendance rows of
// athletes who are no longer eligible under the remaining categories.
// Adding one never creates attendance rows.
func (s *attendanceService) ToggleCategory(ctx context.Context, trainingID primitive.ObjectID, categoryName string) (*domain.Training, error) {
	training, err := s.trainingRepo.GetByID(ctx, trainingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}

	category, err := s.categoryRepo.GetByName(ctx, categoryName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if !training.HasCategory(category.ID) {
		training.CategoryIDs = append(training.CategoryIDs, category.ID)
		if err := s.trainingRepo.Update(ctx, training); err != nil {
			return nil, err
		}
		return training, nil
	}

	// Remove and prune.
	kept := make([]primitive.ObjectID, 0, len(training.CategoryIDs)-1)
	for _, id := range training.CategoryIDs {
		if id != category.ID {
			kept = append(kept, id)
		}
	}
	training.CategoryIDs = kept
	if err := s.trainingRepo.Update(ctx, training); err != nil {
		return nil, err
	}

	roster, err := s.roster.RosterFor(ctx, training)
	if err != nil {
		return nil, err
	}
	eligible := make(map[primitive.ObjectID]bool, len(roster))
	for i := range roster {
		eligible[roster[i].ID] = true
	}

	attendances, err := s.attendanceRepo.ListByTraining(ctx, trainingID)
	if err != nil {
		return nil, err
	}
	var stale []primitive.ObjectID
	for i := range attendances {
		if !eligible[attendances[i].AthleteID] {
			stale = append(stale, attendances[i].AthleteID)
		}
	}
	if err := s.attendanceRepo.DeleteByTrainingAndAthletes(ctx, trainingID, stale); err != nil {
		return nil, err
	}
	return training, nil
}

// ListChanges returns the audit trail of an athlete's attendance row.
func (s *attendanceService) ListChanges(ctx context.Context, trainingID, athleteID primitive.ObjectID) ([]domain.AttendanceChange, error) {
	attendance, err := s.attendanceRepo.GetByTrainingAndAthlete(ctx, trainingID, athleteID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.AttendanceChange{}, nil
		}
		return nil, err
	}
	return s.attendanceRepo.ListChanges(ctx, attendance.ID)
}

// StatsForAthlete aggregates attendance over a date window into simple
// KPIs for the athlete's profile page.
func (s *attendanceService) StatsForAthlete(ctx context.Context, athleteID primitive.ObjectID, from, to time.Time) (*AttendanceStats, error) {
	trainings, err := s.trainingRepo.ListByDateRange(ctx, midnight(from), midnight(to))
	if err != nil {
		return nil, err
	}

	stats := &AttendanceStats{
		ByMonth: make(map[string]int),
		ByType:  make(map[string]int),
	}
	if athlete, err := s.userRepo.GetByID(ctx, athleteID); err == nil {
		if category, err := s.roster.CurrentCategory(ctx, athlete, s.now()); err == nil && category != nil {
			stats.Category = category.Name
		}
	}
	for i := range trainings {
		t := &trainings[i]
		attendance, err := s.attendanceRepo.GetByTrainingAndAthlete(ctx, t.ID, athleteID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		stats.Sessions++
		switch attendance.Status {
		case domain.StatusPresent:
			stats.Present++
			stats.ByMonth[t.Date.Format("2006-01")]++
			stats.ByType[t.Type]++
		case domain.StatusAbsent:
			stats.Absent++
		}
	}
	return stats, nil
}

// === Shared Write Path ===

// applyStatus is the single write path behind operations A, B and C:
// create-or-update the attendance row and append an audit entry. A
// same-status write is an idempotent no-op with no log entry.
func (s *attendanceService) applyStatus(ctx context.Context, trainingID, athleteID primitive.ObjectID, status domain.AttendanceStatus, source domain.AttendanceSource, changedBy *primitive.ObjectID, reason string) (*domain.Attendance, error) {
	now := s.now()

	existing, err := s.attendanceRepo.GetByTrainingAndAthlete(ctx, trainingID, athleteID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if existing.Status == status {
			return existing, nil
		}
		oldStatus := existing.Status
		existing.Status = status
		existing.Source = source
		existing.ChangeCount++
		existing.LastChangedAt = &now
		if err := s.attendanceRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		if _, err := s.attendanceRepo.AppendChange(ctx, &domain.AttendanceChange{
			AttendanceID: existing.ID,
			ChangedByID:  changedBy,
			OldStatus:    oldStatus,
			NewStatus:    status,
			Source:       source,
			Reason:       reason,
			CreatedAt:    now,
		}); err != nil {
			return nil, err
		}
		return existing, nil
	}

	attendance := &domain.Attendance{
		TrainingID:    trainingID,
		AthleteID:     athleteID,
		Status:        status,
		Source:        source,
		ChangeCount:   1,
		LastChangedAt: &now,
	}
	id, err := s.attendanceRepo.Create(ctx, attendance)
	if err != nil {
		return nil, err
	}
	attendance.ID = id

	// A freshly created row transitions from the implicit "maybe".
	if _, err := s.attendanceRepo.AppendChange(ctx, &domain.AttendanceChange{
		AttendanceID: id,
		ChangedByID:  changedBy,
		OldStatus:    domain.StatusMaybe,
		NewStatus:    status,
		Source:       source,
		Reason:       reason,
		CreatedAt:    now,
	}); err != nil {
		return nil, err
	}
	return attendance, nil
}
