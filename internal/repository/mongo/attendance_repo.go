package mongo

import (
	"context"
	"errors"
	"time"

	"sebino/rowing-app/internal/domain"
	"sebino/rowing-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	attendanceCollectionName       = "attendances"
	attendanceChangeCollectionName = "attendance_changes"
)

// mongoAttendanceRepository implements repository.AttendanceRepository using
// MongoDB. Attendance rows and their change log live in two collections.
type mongoAttendanceRepository struct {
	collection *mongo.Collection
	changes    *mongo.Collection
}

// NewMongoAttendanceRepository creates a new Attendance repository backed by MongoDB.
func NewMongoAttendanceRepository(db *mongo.Database) repository.AttendanceRepository {
	return &mongoAttendanceRepository{
		collection: db.Collection(attendanceCollectionName),
		changes:    db.Collection(attendanceChangeCollectionName),
	}
}

// Create inserts a new attendance row.
func (r *mongoAttendanceRepository) Create(ctx context.Context, attendance *domain.Attendance) (primitive.ObjectID, error) {
	if attendance.TrainingID.IsZero() || attendance.AthleteID.IsZero() {
		return primitive.NilObjectID, errors.New("attendance requires training and athlete IDs")
	}

	attendance.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, attendance)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted attendance ID")
	}
	return insertedID, nil
}

// Update replaces an existing attendance row.
func (r *mongoAttendanceRepository) Update(ctx context.Context, attendance *domain.Attendance) error {
	if attendance.ID.IsZero() {
		return errors.New("attendance ID cannot be zero for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": attendance.ID}, attendance)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// GetByTrainingAndAthlete retrieves the unique attendance row of an athlete
// for a training, if one exists.
func (r *mongoAttendanceRepository) GetByTrainingAndAthlete(ctx context.Context, trainingID, athleteID primitive.ObjectID) (*domain.Attendance, error) {
	var attendance domain.Attendance
	filter := bson.M{"trainingId": trainingID, "athleteId": athleteID}
	err := r.collection.FindOne(ctx, filter).Decode(&attendance)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &attendance, nil
}

// ListByTraining retrieves all attendance rows recorded for a training.
func (r *mongoAttendanceRepository) ListByTraining(ctx context.Context, trainingID primitive.ObjectID) ([]domain.Attendance, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"trainingId": trainingID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var attendances []domain.Attendance
	if err = cursor.All(ctx, &attendances); err != nil {
		return nil, err
	}
	if attendances == nil {
		attendances = []domain.Attendance{}
	}
	return attendances, nil
}

// DeleteByTraining removes every attendance row of a training. Used when a
// training is deleted.
func (r *mongoAttendanceRepository) DeleteByTraining(ctx context.Context, trainingID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"trainingId": trainingID})
	return err
}

// DeleteByTrainingAndAthletes removes the attendance rows of the given
// athletes for a training. Used when a roster shrinks after a category is
// detached from the training.
func (r *mongoAttendanceRepository) DeleteByTrainingAndAthletes(ctx context.Context, trainingID primitive.ObjectID, athleteIDs []primitive.ObjectID) error {
	if len(athleteIDs) == 0 {
		return nil
	}
	filter := bson.M{
		"trainingId": trainingID,
		"athleteId":  bson.M{"$in": athleteIDs},
	}
	_, err := r.collection.DeleteMany(ctx, filter)
	return err
}

// AppendChange records one entry in the attendance change log.
func (r *mongoAttendanceRepository) AppendChange(ctx context.Context, change *domain.AttendanceChange) (primitive.ObjectID, error) {
	if change.AttendanceID.IsZero() {
		return primitive.NilObjectID, errors.New("attendance change requires an attendance ID")
	}
	change.ID = primitive.NewObjectID()
	if change.CreatedAt.IsZero() {
		change.CreatedAt = time.Now().UTC()
	}
	result, err := r.changes.InsertOne(ctx, change)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted change ID")
	}
	return insertedID, nil
}

// ListChanges retrieves the change log of an attendance row in chronological order.
func (r *mongoAttendanceRepository) ListChanges(ctx context.Context, attendanceID primitive.ObjectID) ([]domain.AttendanceChange, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.changes.Find(ctx, bson.M{"attendanceId": attendanceID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var changes []domain.AttendanceChange
	if err = cursor.All(ctx, &changes); err != nil {
		return nil, err
	}
	if changes == nil {
		changes = []domain.AttendanceChange{}
	}
	return changes, nil
}
