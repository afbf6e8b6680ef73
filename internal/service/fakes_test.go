package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"sebino/rowing-app/internal/domain"
	"sebino/rowing-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes backing the service tests. They mirror
// the MongoDB implementations' observable behavior (sentinel errors,
// ordering guarantees) without a database.

// --- Users ---

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) add(u *domain.User) *domain.User {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.users[u.ID] = u
	return u
}

// Create stores a copy, like a real insert: callers mutating the
// passed struct afterwards (clearing a password hash) must not touch
// the stored record. Getters return copies for the same reason.
func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	for _, u := range r.users {
		if u.Username == user.Username {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	stored := *user
	r.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByCalendarToken(ctx context.Context, token string) (*domain.User, error) {
	for _, u := range r.users {
		if u.CalendarToken != "" && u.CalendarToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) List(ctx context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	sortFakeUsers(out)
	return out, nil
}

func (r *fakeUserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	out := []domain.User{}
	for _, u := range r.users {
		if u.HasRole(role) {
			out = append(out, *u)
		}
	}
	sortFakeUsers(out)
	return out, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func sortFakeUsers(users []domain.User) {
	sort.SliceStable(users, func(i, j int) bool {
		li, lj := strings.ToLower(users[i].LastName), strings.ToLower(users[j].LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(users[i].FirstName) < strings.ToLower(users[j].FirstName)
	})
}

// --- Categories ---

type fakeCategoryRepo struct {
	categories map[primitive.ObjectID]*domain.Category
}

func newFakeCategoryRepo() *fakeCategoryRepo {
	return &fakeCategoryRepo{categories: make(map[primitive.ObjectID]*domain.Category)}
}

func (r *fakeCategoryRepo) add(c *domain.Category) *domain.Category {
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	r.categories[c.ID] = c
	return c
}

func (r *fakeCategoryRepo) Create(ctx context.Context, category *domain.Category) (primitive.ObjectID, error) {
	for _, c := range r.categories {
		if c.Name == category.Name {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	r.add(category)
	return category.ID, nil
}

func (r *fakeCategoryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (r *fakeCategoryRepo) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	for _, c := range r.categories {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeCategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, *c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SortOrder < out[j].SortOrder })
	return out, nil
}

// --- Trainings ---

type fakeTrainingRepo struct {
	trainings map[primitive.ObjectID]*domain.Training
}

func newFakeTrainingRepo() *fakeTrainingRepo {
	return &fakeTrainingRepo{trainings: make(map[primitive.ObjectID]*domain.Training)}
}

func (r *fakeTrainingRepo) add(t *domain.Training) *domain.Training {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	r.trainings[t.ID] = t
	return t
}

func (r *fakeTrainingRepo) Create(ctx context.Context, training *domain.Training) (primitive.ObjectID, error) {
	r.add(training)
	return training.ID, nil
}

func (r *fakeTrainingRepo) CreateMany(ctx context.Context, trainings []*domain.Training) error {
	for _, t := range trainings {
		r.add(t)
	}
	return nil
}

func (r *fakeTrainingRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error) {
	t, ok := r.trainings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (r *fakeTrainingRepo) Update(ctx context.Context, training *domain.Training) error {
	if _, ok := r.trainings[training.ID]; !ok {
		return repository.ErrNotFound
	}
	r.trainings[training.ID] = training
	return nil
}

func (r *fakeTrainingRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.trainings[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.trainings, id)
	return nil
}

func (r *fakeTrainingRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Training, error) {
	out := []domain.Training{}
	for _, t := range r.trainings {
		if !t.Date.Before(from) && !t.Date.After(to) {
			out = append(out, *t)
		}
	}
	sortFakeTrainings(out)
	return out, nil
}

func (r *fakeTrainingRepo) ListByCoachOnDate(ctx context.Context, coachID primitive.ObjectID, date time.Time) ([]domain.Training, error) {
	out := []domain.Training{}
	for _, t := range r.trainings {
		if t.Date.Equal(date) && t.HasCoach(coachID) {
			out = append(out, *t)
		}
	}
	sortFakeTrainings(out)
	return out, nil
}

func (r *fakeTrainingRepo) ListByRecurrenceGroupFrom(ctx context.Context, groupID string, from time.Time) ([]domain.Training, error) {
	out := []domain.Training{}
	for _, t := range r.trainings {
		if t.RecurrenceGroupID == groupID && !t.Date.Before(from) {
			out = append(out, *t)
		}
	}
	sortFakeTrainings(out)
	return out, nil
}

func sortFakeTrainings(trainings []domain.Training) {
	sort.SliceStable(trainings, func(i, j int) bool {
		if !trainings[i].Date.Equal(trainings[j].Date) {
			return trainings[i].Date.Before(trainings[j].Date)
		}
		return trainings[i].TimeRange < trainings[j].TimeRange
	})
}

// --- Attendance ---

type fakeAttendanceRepo struct {
	rows    map[primitive.ObjectID]*domain.Attendance
	changes []domain.AttendanceChange
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{rows: make(map[primitive.ObjectID]*domain.Attendance)}
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, attendance *domain.Attendance) (primitive.ObjectID, error) {
	for _, a := range r.rows {
		if a.TrainingID == attendance.TrainingID && a.AthleteID == attendance.AthleteID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	if attendance.ID.IsZero() {
		attendance.ID = primitive.NewObjectID()
	}
	r.rows[attendance.ID] = attendance
	return attendance.ID, nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, attendance *domain.Attendance) error {
	if _, ok := r.rows[attendance.ID]; !ok {
		return repository.ErrNotFound
	}
	r.rows[attendance.ID] = attendance
	return nil
}

func (r *fakeAttendanceRepo) GetByTrainingAndAthlete(ctx context.Context, trainingID, athleteID primitive.ObjectID) (*domain.Attendance, error) {
	for _, a := range r.rows {
		if a.TrainingID == trainingID && a.AthleteID == athleteID {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAttendanceRepo) ListByTraining(ctx context.Context, trainingID primitive.ObjectID) ([]domain.Attendance, error) {
	out := []domain.Attendance{}
	for _, a := range r.rows {
		if a.TrainingID == trainingID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAttendanceRepo) DeleteByTraining(ctx context.Context, trainingID primitive.ObjectID) error {
	for id, a := range r.rows {
		if a.TrainingID == trainingID {
			delete(r.rows, id)
		}
	}
	return nil
}

func (r *fakeAttendanceRepo) DeleteByTrainingAndAthletes(ctx context.Context, trainingID primitive.ObjectID, athleteIDs []primitive.ObjectID) error {
	for id, a := range r.rows {
		if a.TrainingID != trainingID {
			continue
		}
		for _, athleteID := range athleteIDs {
			if a.AthleteID == athleteID {
				delete(r.rows, id)
				break
			}
		}
	}
	return nil
}

func (r *fakeAttendanceRepo) AppendChange(ctx context.Context, change *domain.AttendanceChange) (primitive.ObjectID, error) {
	if change.ID.IsZero() {
		change.ID = primitive.NewObjectID()
	}
	r.changes = append(r.changes, *change)
	return change.ID, nil
}

func (r *fakeAttendanceRepo) ListChanges(ctx context.Context, attendanceID primitive.ObjectID) ([]domain.AttendanceChange, error) {
	out := []domain.AttendanceChange{}
	for _, c := range r.changes {
		if c.AttendanceID == attendanceID {
			out = append(out, c)
		}
	}
	return out, nil
}

// --- Activities ---

type fakeActivityRepo struct {
	activities map[primitive.ObjectID]*domain.Activity
}

func newFakeActivityRepo() *fakeActivityRepo {
	return &fakeActivityRepo{activities: make(map[primitive.ObjectID]*domain.Activity)}
}

func (r *fakeActivityRepo) add(a *domain.Activity) *domain.Activity {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	r.activities[a.ID] = a
	return a
}

func (r *fakeActivityRepo) Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error) {
	r.add(activity)
	return activity.ID, nil
}

func (r *fakeActivityRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error) {
	a, ok := r.activities[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return a, nil
}

func (r *fakeActivityRepo) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Activity, error) {
	out := []domain.Activity{}
	for _, id := range ids {
		if a, ok := r.activities[id]; ok {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) List(ctx context.Context) ([]domain.Activity, error) {
	out := make([]domain.Activity, 0, len(r.activities))
	for _, a := range r.activities {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeActivityRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Activity, error) {
	out := []domain.Activity{}
	for _, a := range r.activities {
		if !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeActivityRepo) Update(ctx context.Context, activity *domain.Activity) error {
	if _, ok := r.activities[activity.ID]; !ok {
		return repository.ErrNotFound
	}
	r.activities[activity.ID] = activity
	return nil
}

func (r *fakeActivityRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, ok := r.activities[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.activities, id)
	return nil
}

// --- Requirements ---

// fakeRequirementRepo keeps insertion order because the
// self-assignment resolver scans requirements in creation order.
type fakeRequirementRepo struct {
	requirements []*domain.Requirement
}

func newFakeRequirementRepo() *fakeRequirementRepo {
	return &fakeRequirementRepo{}
}

func (r *fakeRequirementRepo) Create(ctx context.Context, requirement *domain.Requirement) (primitive.ObjectID, error) {
	if requirement.ID.IsZero() {
		requirement.ID = primitive.NewObjectID()
	}
	r.requirements = append(r.requirements, requirement)
	return requirement.ID, nil
}

func (r *fakeRequirementRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Requirement, error) {
	for _, req := range r.requirements {
		if req.ID == id {
			return req, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeRequirementRepo) ListByActivity(ctx context.Context, activityID primitive.ObjectID) ([]domain.Requirement, error) {
	out := []domain.Requirement{}
	for _, req := range r.requirements {
		if req.ActivityID == activityID {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *fakeRequirementRepo) Update(ctx context.Context, requirement *domain.Requirement) error {
	for i, req := range r.requirements {
		if req.ID == requirement.ID {
			r.requirements[i] = requirement
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeRequirementRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, req := range r.requirements {
		if req.ID == id {
			r.requirements = append(r.requirements[:i], r.requirements[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeRequirementRepo) DeleteByActivity(ctx context.Context, activityID primitive.ObjectID) error {
	kept := r.requirements[:0]
	for _, req := range r.requirements {
		if req.ActivityID != activityID {
			kept = append(kept, req)
		}
	}
	r.requirements = kept
	return nil
}

// --- Assignments ---

type fakeAssignmentRepo struct {
	assignments []*domain.Assignment
}

func newFakeAssignmentRepo() *fakeAssignmentRepo {
	return &fakeAssignmentRepo{}
}

func (r *fakeAssignmentRepo) Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	for _, a := range r.assignments {
		if a.ActivityID == assignment.ActivityID && a.RequirementID == assignment.RequirementID && a.UserID == assignment.UserID {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
	}
	if assignment.ID.IsZero() {
		assignment.ID = primitive.NewObjectID()
	}
	r.assignments = append(r.assignments, assignment)
	return assignment.ID, nil
}

func (r *fakeAssignmentRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	for _, a := range r.assignments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAssignmentRepo) ListByActivity(ctx context.Context, activityID primitive.ObjectID) ([]domain.Assignment, error) {
	out := []domain.Assignment{}
	for _, a := range r.assignments {
		if a.ActivityID == activityID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) ListByRequirement(ctx context.Context, requirementID primitive.ObjectID) ([]domain.Assignment, error) {
	out := []domain.Assignment{}
	for _, a := range r.assignments {
		if a.RequirementID == requirementID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Assignment, error) {
	out := []domain.Assignment{}
	for _, a := range r.assignments {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAssignmentRepo) CountByRequirement(ctx context.Context, requirementID primitive.ObjectID) (int, error) {
	count := 0
	for _, a := range r.assignments {
		if a.RequirementID == requirementID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAssignmentRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, a := range r.assignments {
		if a.ID == id {
			r.assignments = append(r.assignments[:i], r.assignments[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *fakeAssignmentRepo) DeleteByActivity(ctx context.Context, activityID primitive.ObjectID) error {
	kept := r.assignments[:0]
	for _, a := range r.assignments {
		if a.ActivityID != activityID {
			kept = append(kept, a)
		}
	}
	r.assignments = kept
	return nil
}

// --- Reference Tables ---

type fakeActivityTypeRepo struct {
	types map[primitive.ObjectID]*domain.ActivityType
}

func newFakeActivityTypeRepo() *fakeActivityTypeRepo {
	return &fakeActivityTypeRepo{types: make(map[primitive.ObjectID]*domain.ActivityType)}
}

func (r *fakeActivityTypeRepo) add(t *domain.ActivityType) *domain.ActivityType {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	r.types[t.ID] = t
	return t
}

func (r *fakeActivityTypeRepo) Create(ctx context.Context, activityType *domain.ActivityType) (primitive.ObjectID, error) {
	r.add(activityType)
	return activityType.ID, nil
}

func (r *fakeActivityTypeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ActivityType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (r *fakeActivityTypeRepo) List(ctx context.Context, activeOnly bool) ([]domain.ActivityType, error) {
	out := []domain.ActivityType{}
	for _, t := range r.types {
		if activeOnly && !t.Active {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

type fakeQualificationTypeRepo struct {
	types map[primitive.ObjectID]*domain.QualificationType
}

func newFakeQualificationTypeRepo() *fakeQualificationTypeRepo {
	return &fakeQualificationTypeRepo{types: make(map[primitive.ObjectID]*domain.QualificationType)}
}

func (r *fakeQualificationTypeRepo) add(t *domain.QualificationType) *domain.QualificationType {
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	r.types[t.ID] = t
	return t
}

func (r *fakeQualificationTypeRepo) Create(ctx context.Context, qualificationType *domain.QualificationType) (primitive.ObjectID, error) {
	r.add(qualificationType)
	return qualificationType.ID, nil
}

func (r *fakeQualificationTypeRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.QualificationType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return t, nil
}

func (r *fakeQualificationTypeRepo) List(ctx context.Context, activeOnly bool) ([]domain.QualificationType, error) {
	out := []domain.QualificationType{}
	for _, t := range r.types {
		if activeOnly && !t.Active {
			continue
		}
		out = append(out, *t)
	}
	return out, nil
}

// --- Shifts ---

type fakeShiftRepo struct {
	shifts map[primitive.ObjectID]*domain.Shift
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{shifts: make(map[primitive.ObjectID]*domain.Shift)}
}

func (r *fakeShiftRepo) add(s *domain.Shift) *domain.Shift {
	if s.ID.IsZero() {
		s.ID = primitive.NewObjectID()
	}
	r.shifts[s.ID] = s
	return s
}

func (r *fakeShiftRepo) Create(ctx context.Context, shift *domain.Shift) (primitive.ObjectID, error) {
	r.add(shift)
	return shift.ID, nil
}

func (r *fakeShiftRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Shift, error) {
	s, ok := r.shifts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return s, nil
}

func (r *fakeShiftRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Shift, error) {
	out := []domain.Shift{}
	for _, s := range r.shifts {
		if !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, *s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Slot < out[j].Slot
	})
	return out, nil
}

func (r *fakeShiftRepo) ListByUserOnDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.Shift, error) {
	out := []domain.Shift{}
	for _, s := range r.shifts {
		if s.UserID != nil && *s.UserID == userID && s.Date.Equal(date) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeShiftRepo) ListByUserInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.Shift, error) {
	out := []domain.Shift{}
	for _, s := range r.shifts {
		if s.UserID != nil && *s.UserID == userID && !s.Date.Before(from) && !s.Date.After(to) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeShiftRepo) Update(ctx context.Context, shift *domain.Shift) error {
	if _, ok := r.shifts[shift.ID]; !ok {
		return repository.ErrNotFound
	}
	r.shifts[shift.ID] = shift
	return nil
}

// --- Boats ---

type fakeBoatRepo struct {
	boats map[primitive.ObjectID]*domain.Boat
}

func newFakeBoatRepo() *fakeBoatRepo {
	return &fakeBoatRepo{boats: make(map[primitive.ObjectID]*domain.Boat)}
}

func (r *fakeBoatRepo) Create(ctx context.Context, boat *domain.Boat) (primitive.ObjectID, error) {
	if boat.ID.IsZero() {
		boat.ID = primitive.NewObjectID()
	}
	r.boats[boat.ID] = boat
	return boat.ID, nil
}

func (r *fakeBoatRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Boat, error) {
	b, ok := r.boats[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return b, nil
}

func (r *fakeBoatRepo) List(ctx context.Context) ([]domain.Boat, error) {
	out := make([]domain.Boat, 0, len(r.boats))
	for _, b := range r.boats {
		out = append(out, *b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeBoatRepo) Update(ctx context.Context, boat *domain.Boat) error {
	if _, ok := r.boats[boat.ID]; !ok {
		return repository.ErrNotFound
	}
	r.boats[boat.ID] = boat
	return nil
}

// --- Shared Fixture Helpers ---

// date builds a midnight UTC timestamp for test fixtures.
func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// dob returns a pointer to a birth date.
func dob(year int, month time.Month, day int) *time.Time {
	d := date(year, month, day)
	return &d
}
