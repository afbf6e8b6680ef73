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

const requirementCollectionName = "activity_requirements"

// mongoRequirementRepository implements repository.RequirementRepository using MongoDB.
type mongoRequirementRepository struct {
	collection *mongo.Collection
}

// NewMongoRequirementRepository creates a new Requirement repository backed by MongoDB.
func NewMongoRequirementRepository(db *mongo.Database) repository.RequirementRepository {
	return &mongoRequirementRepository{
		collection: db.Collection(requirementCollectionName),
	}
}

// Create inserts a new staffing requirement for an activity.
func (r *mongoRequirementRepository) Create(ctx context.Context, requirement *domain.Requirement) (primitive.ObjectID, error) {
	if requirement.ActivityID.IsZero() {
		return primitive.NilObjectID, errors.New("requirement requires an activity ID")
	}
	if requirement.Quantity < 1 {
		return primitive.NilObjectID, errors.New("requirement quantity must be at least 1")
	}

	requirement.ID = primitive.NewObjectID()
	requirement.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, requirement)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted requirement ID")
	}
	return insertedID, nil
}

// GetByID retrieves a requirement by its ID.
func (r *mongoRequirementRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Requirement, error) {
	var requirement domain.Requirement
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&requirement)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &requirement, nil
}

// ListByActivity retrieves the requirements of an activity in creation order.
func (r *mongoRequirementRepository) ListByActivity(ctx context.Context, activityID primitive.ObjectID) ([]domain.Requirement, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"activityId": activityID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var requirements []domain.Requirement
	if err = cursor.All(ctx, &requirements); err != nil {
		return nil, err
	}
	if requirements == nil {
		requirements = []domain.Requirement{}
	}
	return requirements, nil
}

// Update replaces an existing requirement document.
func (r *mongoRequirementRepository) Update(ctx context.Context, requirement *domain.Requirement) error {
	if requirement.ID.IsZero() {
		return errors.New("requirement ID cannot be zero for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": requirement.ID}, requirement)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a requirement by ID.
func (r *mongoRequirementRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByActivity removes every requirement of an activity. Used when the
// activity itself is deleted.
func (r *mongoRequirementRepository) DeleteByActivity(ctx context.Context, activityID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"activityId": activityID})
	return err
}
