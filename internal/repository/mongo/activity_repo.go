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

const activityCollectionName = "activities"

// mongoActivityRepository implements repository.ActivityRepository using MongoDB.
type mongoActivityRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityRepository creates a new Activity repository backed by MongoDB.
func NewMongoActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &mongoActivityRepository{
		collection: db.Collection(activityCollectionName),
	}
}

// Create inserts a new activity.
func (r *mongoActivityRepository) Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error) {
	if activity.Title == "" {
		return primitive.NilObjectID, errors.New("activity title is required")
	}

	activity.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted activity ID")
	}
	return insertedID, nil
}

// GetByID retrieves an activity by its ID.
func (r *mongoActivityRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error) {
	var activity domain.Activity
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// ListByIDs retrieves the activities with the given IDs, ordered by date.
func (r *mongoActivityRepository) ListByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Activity, error) {
	if len(ids) == 0 {
		return []domain.Activity{}, nil
	}
	filter := bson.M{"_id": bson.M{"$in": ids}}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

// List retrieves all activities ordered by date then start time.
func (r *mongoActivityRepository) List(ctx context.Context) ([]domain.Activity, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "startTime", Value: 1},
	})
	return r.find(ctx, bson.M{}, findOptions)
}

// ListByDateRange retrieves activities whose date falls in [from, to] inclusive.
func (r *mongoActivityRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Activity, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "startTime", Value: 1},
	})
	return r.find(ctx, filter, findOptions)
}

// Update replaces an existing activity document.
func (r *mongoActivityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	if activity.ID.IsZero() {
		return errors.New("activity ID cannot be zero for update")
	}
	activity.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": activity.ID}, activity)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an activity by ID.
func (r *mongoActivityRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *mongoActivityRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.Activity, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var activities []domain.Activity
	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities, nil
}
