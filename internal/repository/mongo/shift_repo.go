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

const shiftCollectionName = "shifts"

// mongoShiftRepository implements repository.ShiftRepository using MongoDB.
type mongoShiftRepository struct {
	collection *mongo.Collection
}

// NewMongoShiftRepository creates a new Shift repository backed by MongoDB.
func NewMongoShiftRepository(db *mongo.Database) repository.ShiftRepository {
	return &mongoShiftRepository{
		collection: db.Collection(shiftCollectionName),
	}
}

// Create inserts a new gate duty shift slot.
func (r *mongoShiftRepository) Create(ctx context.Context, shift *domain.Shift) (primitive.ObjectID, error) {
	if shift.Slot != domain.SlotMorning && shift.Slot != domain.SlotEvening {
		return primitive.NilObjectID, errors.New("invalid shift slot")
	}

	shift.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, shift)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted shift ID")
	}
	return insertedID, nil
}

// GetByID retrieves a shift by its ID.
func (r *mongoShiftRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Shift, error) {
	var shift domain.Shift
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&shift)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &shift, nil
}

// ListByDateRange retrieves shifts in [from, to] inclusive, ordered by date then slot.
func (r *mongoShiftRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Shift, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "slot", Value: 1},
	})
	return r.find(ctx, filter, findOptions)
}

// ListByUserOnDate retrieves the shifts held by a user on a given date.
func (r *mongoShiftRepository) ListByUserOnDate(ctx context.Context, userID primitive.ObjectID, date time.Time) ([]domain.Shift, error) {
	filter := bson.M{"userId": userID, "date": date}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "slot", Value: 1}}))
}

// ListByUserInRange retrieves the shifts held by a user in [from, to] inclusive.
func (r *mongoShiftRepository) ListByUserInRange(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.Shift, error) {
	filter := bson.M{
		"userId": userID,
		"date":   bson.M{"$gte": from, "$lte": to},
	}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "slot", Value: 1},
	})
	return r.find(ctx, filter, findOptions)
}

// Update replaces an existing shift document.
func (r *mongoShiftRepository) Update(ctx context.Context, shift *domain.Shift) error {
	if shift.ID.IsZero() {
		return errors.New("shift ID cannot be zero for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": shift.ID}, shift)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoShiftRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.Shift, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var shifts []domain.Shift
	if err = cursor.All(ctx, &shifts); err != nil {
		return nil, err
	}
	if shifts == nil {
		shifts = []domain.Shift{}
	}
	return shifts, nil
}
