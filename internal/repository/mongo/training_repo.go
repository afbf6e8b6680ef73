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

const trainingCollectionName = "trainings"

// mongoTrainingRepository implements repository.TrainingRepository using MongoDB.
type mongoTrainingRepository struct {
	collection *mongo.Collection
}

// NewMongoTrainingRepository creates a new Training repository backed by MongoDB.
func NewMongoTrainingRepository(db *mongo.Database) repository.TrainingRepository {
	return &mongoTrainingRepository{
		collection: db.Collection(trainingCollectionName),
	}
}

// Create inserts a single training session.
func (r *mongoTrainingRepository) Create(ctx context.Context, training *domain.Training) (primitive.ObjectID, error) {
	training.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	training.CreatedAt = now
	training.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, training)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted training ID")
	}
	return insertedID, nil
}

// CreateMany inserts a batch of trainings in one call. Used when a weekly
// plan is materialized into individual rows sharing a recurrence group ID.
func (r *mongoTrainingRepository) CreateMany(ctx context.Context, trainings []*domain.Training) error {
	if len(trainings) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(trainings))
	for _, t := range trainings {
		t.ID = primitive.NewObjectID()
		t.CreatedAt = now
		t.UpdatedAt = now
		docs = append(docs, t)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// GetByID retrieves a training by its ID.
func (r *mongoTrainingRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Training, error) {
	var training domain.Training
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&training)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &training, nil
}

// Update replaces an existing training document.
func (r *mongoTrainingRepository) Update(ctx context.Context, training *domain.Training) error {
	if training.ID.IsZero() {
		return errors.New("training ID cannot be zero for update")
	}
	training.UpdatedAt = time.Now().UTC()

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": training.ID}, training)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a training by ID.
func (r *mongoTrainingRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListByDateRange retrieves trainings whose date falls in [from, to] inclusive,
// ordered by date then time range.
func (r *mongoTrainingRepository) ListByDateRange(ctx context.Context, from, to time.Time) ([]domain.Training, error) {
	filter := bson.M{"date": bson.M{"$gte": from, "$lte": to}}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "date", Value: 1},
		{Key: "timeRange", Value: 1},
	})
	return r.find(ctx, filter, findOptions)
}

// ListByCoachOnDate retrieves trainings on a given date that include the coach.
func (r *mongoTrainingRepository) ListByCoachOnDate(ctx context.Context, coachID primitive.ObjectID, date time.Time) ([]domain.Training, error) {
	filter := bson.M{
		"coachIds": coachID,
		"date":     date,
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "timeRange", Value: 1}}))
}

// ListByRecurrenceGroupFrom retrieves all trainings of a recurrence group
// whose date is on or after the pivot date, ordered by date.
func (r *mongoTrainingRepository) ListByRecurrenceGroupFrom(ctx context.Context, groupID string, pivot time.Time) ([]domain.Training, error) {
	filter := bson.M{
		"recurrenceGroupId": groupID,
		"date":              bson.M{"$gte": pivot},
	}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "date", Value: 1}}))
}

func (r *mongoTrainingRepository) find(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.Training, error) {
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var trainings []domain.Training
	if err = cursor.All(ctx, &trainings); err != nil {
		return nil, err
	}
	if trainings == nil {
		trainings = []domain.Training{}
	}
	return trainings, nil
}
