package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"sebino/rowing-app/internal/domain"
	"sebino/rowing-app/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrShiftNotFound      = errors.New("shift not found")
	ErrBoatNotFound       = errors.New("boat not found")
	ErrNoRecurrenceDays   = errors.New("at least one weekday must be selected for a recurring training")
	ErrUnknownWeekday     = errors.New("unknown weekday name")
	ErrRecurrenceHorizon  = errors.New("either an occurrence count or an end date is required")
	ErrNotRecurring       = errors.New("training does not belong to a recurrence group")
)

// DeleteMode selects how a recurring training occurrence is deleted.
type DeleteMode string

const (
	DeleteSingle        DeleteMode = "single"
	DeleteThisAndFuture DeleteMode = "this_and_future"
)

// WeeklyPlan describes a materialized weekly recurrence request: from
// the base training's date onward, one occurrence on every date whose
// weekday is selected, bounded by Count or Until (whichever is set).
type WeeklyPlan struct {
	Weekdays []string   // localized weekday names ("Lunedì", ...)
	Count    int        // number of occurrences to generate, 0 if Until drives
	Until    *time.Time // inclusive end date, nil if Count drives
}

// AgendaEntry is one row of the week agenda: a training occurrence or
// a shift, normalized for calendar rendering.
type AgendaEntry struct {
	Kind     string             `json:"kind"` // "training" or "shift"
	SourceID primitive.ObjectID `json:"sourceId"`
	Title    string             `json:"title"`
	Date     time.Time          `json:"date"`
	Start    time.Time          `json:"start"`
	End      time.Time          `json:"end"`
}

// --- Service Interface ---
type ScheduleService interface {
	// Training lifecycle
	CreateTraining(ctx context.Context, training *domain.Training) (primitive.ObjectID, error)
	// CreateWeeklyTrainings materializes one row per occurrence, all
	// sharing a fresh recurrence group ID, and returns the rows.
	CreateWeeklyTrainings(ctx context.Context, base *domain.Training, plan WeeklyPlan) ([]domain.Training, error)
	GetTraining(ctx context.Context, id primitive.ObjectID) (*domain.Training, error)
	UpdateTraining(ctx context.Context, training *domain.Training) error
	// ReplaceMemberships overwrites the category and coach sets of a
	// training in one explicit operation.
	ReplaceMemberships(ctx context.Context, trainingID primitive.ObjectID, categoryIDs, coachIDs []primitive.ObjectID) (*domain.Training, error)
	DeleteTraining(ctx context.Context, id primitive.ObjectID, mode DeleteMode) (int, error)

	// Calendar views
	Expand(training *domain.Training, windowStart, windowEnd time.Time) []domain.Occurrence
	WeekAgenda(ctx context.Context, weekStart time.Time) ([]AgendaEntry, error)

	// Shift board
	ShiftsForWeek(ctx context.Context, weekStart time.Time) ([]domain.Shift, error)
	EnsureShift(ctx context.Context, date time.Time, slot domain.ShiftSlot) (*domain.Shift, error)
	AssignShift(ctx context.Context, shiftID primitive.ObjectID, userID *primitive.ObjectID) (*domain.Shift, error)

	// Boat inventory
	ListBoats(ctx context.Context) ([]domain.Boat, error)
	CreateBoat(ctx context.Context, boat *domain.Boat) (primitive.ObjectID, error)
	UpdateBoat(ctx context.Context, boat *domain.Boat) error
}

// --- Service Implementation ---

// scheduleService implements the ScheduleService interface.
type scheduleService struct {
	trainingRepo   repository.TrainingRepository
	attendanceRepo repository.AttendanceRepository
	shiftRepo      repository.ShiftRepository
	boatRepo       repository.BoatRepository
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	trainingRepo repository.TrainingRepository,
	attendanceRepo repository.AttendanceRepository,
	shiftRepo repository.ShiftRepository,
	boatRepo repository.BoatRepository,
) ScheduleService {
	return &scheduleService{
		trainingRepo:   trainingRepo,
		attendanceRepo: attendanceRepo,
		shiftRepo:      shiftRepo,
		boatRepo:       boatRepo,
	}
}

// === Training Lifecycle ===

// CreateTraining stores a single (non-materialized) training session.
func (s *scheduleService) CreateTraining(ctx context.Context, training *domain.Training) (primitive.ObjectID, error) {
	if training.Type == "" {
		return primitive.NilObjectID, errors.New("training type is required")
	}
	training.Date = midnight(training.Date)
	if training.Recurrence == domain.RecurrenceWeekly && training.RepeatUntil != nil {
		normalized := midnight(*training.RepeatUntil)
		training.RepeatUntil = &normalized
	}
	return s.trainingRepo.Create(ctx, training)
}

// CreateWeeklyTrainings materializes a weekly plan into individual
// training rows. Starting from the base date, every subsequent date
// whose weekday is among the selected ones yields one row, until the
// requested count is reached or the end date is passed. Each row is a
// full copy of the base (type, time range, categories, coaches, boat)
// and all rows share one recurrence group ID, so occurrences stay
// individually editable afterwards.
func (s *scheduleService) CreateWeeklyTrainings(ctx context.Context, base *domain.Training, plan WeeklyPlan) ([]domain.Training, error) {
	// 1. Validate the plan
	if base.Type == "" {
		return nil, errors.New("training type is required")
	}
	if len(plan.Weekdays) == 0 {
		return nil, ErrNoRecurrenceDays
	}
	if plan.Count <= 0 && plan.Until == nil {
		return nil, ErrRecurrenceHorizon
	}

	selected := make(map[time.Weekday]bool, len(plan.Weekdays))
	for _, name := range plan.Weekdays {
		day, ok := domain.WeekdayFromName(name)
		if !ok {
			return nil, ErrUnknownWeekday
		}
		selected[day] = true
	}

	// 2. Generate the occurrence dates
	groupID := uuid.NewString()
	baseDate := midnight(base.Date)
	var until time.Time
	if plan.Until != nil {
		until = midnight(*plan.Until)
	}

	rows := make([]*domain.Training, 0)
	for d := baseDate; ; d = d.AddDate(0, 0, 1) {
		if plan.Until != nil && d.After(until) {
			break
		}
		if plan.Count > 0 && len(rows) >= plan.Count {
			break
		}
		if !selected[d.Weekday()] {
			continue
		}
		row := *base
		row.ID = primitive.NilObjectID
		row.Date = d
		row.Recurrence = domain.RecurrenceNone
		row.RepeatUntil = nil
		row.RecurrenceGroupID = groupID
		rows = append(rows, &row)
	}
	if len(rows) == 0 {
		return []domain.Training{}, nil
	}

	// 3. Insert the whole family in one batch
	if err := s.trainingRepo.CreateMany(ctx, rows); err != nil {
		return nil, err
	}

	created := make([]domain.Training, 0, len(rows))
	for _, r := range rows {
		created = append(created, *r)
	}
	return created, nil
}

// GetTraining retrieves a training by ID.
func (s *scheduleService) GetTraining(ctx context.Context, id primitive.ObjectID) (*domain.Training, error) {
	training, err := s.trainingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainingNotFound
		}
		return nil, err
	}
	return training, nil
}

// UpdateTraining replaces a training's stored state.
func (s *scheduleService) UpdateTraining(ctx context.Context, training *domain.Training) error {
	training.Date = midnight(training.Date)
	err := s.trainingRepo.Update(ctx, training)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrTrainingNotFound
	}
	return err
}

// ReplaceMemberships overwrites the category and coach ID sets of a
// training. The sets are replaced wholesale rather than patched, so
// the stored state always matches exactly what the caller submitted.
func (s *scheduleService) ReplaceMemberships(ctx context.Context, trainingID primitive.ObjectID, categoryIDs, coachIDs []primitive.ObjectID) (*domain.Training, error) {
	training, err := s.GetTraining(ctx, trainingID)
	if err != nil {
		return nil, err
	}

	training.CategoryIDs = dedupeIDs(categoryIDs)
	training.CoachIDs = dedupeIDs(coachIDs)

	if err := s.trainingRepo.Update(ctx, training); err != nil {
		return nil, err
	}
	return training, nil
}

// DeleteTraining removes a training occurrence. DeleteSingle removes
// just this row; DeleteThisAndFuture removes every row of the same
// recurrence group dated on or after this one. Attendance rows are
// deleted with their training. Returns the number of trainings removed.
func (s *scheduleService) DeleteTraining(ctx context.Context, id primitive.ObjectID, mode DeleteMode) (int, error) {
	training, err := s.GetTraining(ctx, id)
	if err != nil {
		return 0, err
	}

	if mode == DeleteThisAndFuture {
		if training.RecurrenceGroupID == "" {
			return 0, ErrNotRecurring
		}
		siblings, err := s.trainingRepo.ListByRecurrenceGroupFrom(ctx, training.RecurrenceGroupID, training.Date)
		if err != nil {
			return 0, err
		}
		deleted := 0
		for _, sibling := range siblings {
			if err := s.attendanceRepo.DeleteByTraining(ctx, sibling.ID); err != nil {
				return deleted, err
			}
			if err := s.trainingRepo.Delete(ctx, sibling.ID); err != nil {
				return deleted, err
			}
			deleted++
		}
		return deleted, nil
	}

	if err := s.attendanceRepo.DeleteByTraining(ctx, training.ID); err != nil {
		return 0, err
	}
	if err := s.trainingRepo.Delete(ctx, training.ID); err != nil {
		return 0, err
	}
	return 1, nil
}

// === Calendar Views ===

// Expand projects a training onto a date window without writing
// anything. The master date itself is emitted when it falls in the
// window; a weekly rule with a repeat-until bound then steps in 7-day
// increments, emitting every date inside both the bound and the
// window. Every occurrence carries the master's parsed times.
func (s *scheduleService) Expand(training *domain.Training, windowStart, windowEnd time.Time) []domain.Occurrence {
	occurrences := make([]domain.Occurrence, 0)

	emit := func(date time.Time) {
		start, end := domain.ParseTimeRange(date, training.TimeRange)
		occurrences = append(occurrences, domain.Occurrence{
			Date:      date,
			TimeStart: start,
			TimeEnd:   end,
			SourceID:  training.ID,
		})
	}

	base := midnight(training.Date)
	if !base.Before(windowStart) && !base.After(windowEnd) {
		emit(base)
	}

	if training.Recurrence != domain.RecurrenceWeekly || training.RepeatUntil == nil {
		return occurrences
	}

	until := midnight(*training.RepeatUntil)
	for d := base.AddDate(0, 0, 7); !d.After(until); d = d.AddDate(0, 0, 7) {
		if d.Before(windowStart) || d.After(windowEnd) {
			continue
		}
		emit(d)
	}
	return occurrences
}

// WeekAgenda merges trainings (expanded over the week) and shifts into
// one chronological list for the week starting at weekStart.
func (s *scheduleService) WeekAgenda(ctx context.Context, weekStart time.Time) ([]AgendaEntry, error) {
	weekStart = midnight(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)

	// Recurring masters dated before the window can still project
	// occurrences into it, so the fetch reaches back far enough to
	// catch any weekly rule that is still running.
	fetchFrom := weekStart.AddDate(-1, 0, 0)
	trainings, err := s.trainingRepo.ListByDateRange(ctx, fetchFrom, weekEnd)
	if err != nil {
		return nil, err
	}

	entries := make([]AgendaEntry, 0)
	for i := range trainings {
		t := &trainings[i]
		for _, occ := range s.Expand(t, weekStart, weekEnd) {
			entries = append(entries, AgendaEntry{
				Kind:     "training",
				SourceID: t.ID,
				Title:    t.Type,
				Date:     occ.Date,
				Start:    occ.TimeStart,
				End:      occ.TimeEnd,
			})
		}
	}

	shifts, err := s.shiftRepo.ListByDateRange(ctx, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}
	for i := range shifts {
		sh := &shifts[i]
		start, end := sh.StartEnd()
		entries = append(entries, AgendaEntry{
			Kind:     "shift",
			SourceID: sh.ID,
			Title:    "Apertura " + string(sh.Slot),
			Date:     midnight(sh.Date),
			Start:    start,
			End:      end,
		})
	}

	sortAgenda(entries)
	return entries, nil
}

// === Shift Board ===

// ShiftsForWeek returns the shifts of the week starting at weekStart.
func (s *scheduleService) ShiftsForWeek(ctx context.Context, weekStart time.Time) ([]domain.Shift, error) {
	weekStart = midnight(weekStart)
	return s.shiftRepo.ListByDateRange(ctx, weekStart, weekStart.AddDate(0, 0, 6))
}

// EnsureShift returns the shift slot for (date, slot), creating the
// row on first access. The board is lazily materialized: slots exist
// only once someone looks at or books them.
func (s *scheduleService) EnsureShift(ctx context.Context, date time.Time, slot domain.ShiftSlot) (*domain.Shift, error) {
	date = midnight(date)
	existing, err := s.shiftRepo.ListByDateRange(ctx, date, date)
	if err != nil {
		return nil, err
	}
	for i := range existing {
		if existing[i].Slot == slot {
			return &existing[i], nil
		}
	}

	shift := &domain.Shift{Date: date, Slot: slot}
	id, err := s.shiftRepo.Create(ctx, shift)
	if err != nil {
		return nil, err
	}
	shift.ID = id
	return shift, nil
}

// AssignShift sets (or clears, with nil) the user covering a shift.
func (s *scheduleService) AssignShift(ctx context.Context, shiftID primitive.ObjectID, userID *primitive.ObjectID) (*domain.Shift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}

	shift.UserID = userID
	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// === Boat Inventory ===

func (s *scheduleService) ListBoats(ctx context.Context) ([]domain.Boat, error) {
	return s.boatRepo.List(ctx)
}

func (s *scheduleService) CreateBoat(ctx context.Context, boat *domain.Boat) (primitive.ObjectID, error) {
	return s.boatRepo.Create(ctx, boat)
}

func (s *scheduleService) UpdateBoat(ctx context.Context, boat *domain.Boat) error {
	existing, err := s.boatRepo.GetByID(ctx, boat.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBoatNotFound
		}
		return err
	}
	if boat.Name == "" {
		boat.Name = existing.Name
	}
	if boat.Type == "" {
		boat.Type = existing.Type
	}
	return s.boatRepo.Update(ctx, boat)
}

// === Shared Helpers ===

// midnight normalizes a timestamp to 00:00 of its calendar day.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// dedupeIDs removes duplicate ObjectIDs preserving order.
func dedupeIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// sortAgenda orders agenda entries chronologically, trainings before
// shifts at the same instant.
func sortAgenda(entries []AgendaEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Start.Equal(entries[j].Start) {
			return entries[i].Start.Before(entries[j].Start)
		}
		return entries[i].Kind < entries[j].Kind
	})
}
