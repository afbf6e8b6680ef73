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

const assignmentCollectionName = "activity_assignments"

// mongoAssignmentRepository implements repository.AssignmentRepository using MongoDB.
type mongoAssignmentRepository struct {
	collection *mongo.Collection
}

// NewMongoAssignmentRepository creates a new Assignment repository backed by MongoDB.
func NewMongoAssignmentRepository(db *mongo.Database) repository.AssignmentRepository {
	return &mongoAssignmentRepository{
		collection: db.Collection(assignmentCollectionName),
	}
}

// Create inserts a new staffing assignment. The unique index on
// (activityId, requirementId, userId) rejects duplicate assignments.
func (r *mongoAssignmentRepository) Create(ctx context.Context, assignment *domain.Assignment) (primitive.ObjectID, error) {
	if assignment.ActivityID.IsZero() || assignment.RequirementID.IsZero() || assignment.UserID.IsZero() {
		return primitive.NilObjectID, errors.New("assignment requires activity, requirement and user IDs")
	}

	assignment.ID = primitive.NewObjectID()
	assignment.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted assignment ID")
	}
	return insertedID, nil
}

// GetByID retrieves an assignment by its ID.
func (r *mongoAssignmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Assignment, error) {
	var assignment domain.Assignment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// ListByActivity retrieves all assignments of an activity in creation order.
func (r *mongoAssignmentRepository) ListByActivity(ctx context.Context, activityID primitive.ObjectID) ([]domain.Assignment, error) {
	return r.find(ctx, bson.M{"activityId": activityID})
}

// ListByRequirement retrieves all assignments booked against a requirement.
func (r *mongoAssignmentRepository) ListByRequirement(ctx context.Context, requirementID primitive.ObjectID) ([]domain.Assignment, error) {
	return r.find(ctx, bson.M{"requirementId": requirementID})
}

// ListByUser retrieves all assignments of a user across activities.
func (r *mongoAssignmentRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.Assignment, error) {
	return r.find(ctx, bson.M{"userId": userID})
}

// CountByRequirement returns how many assignments a requirement currently has.
func (r *mongoAssignmentRepository) CountByRequirement(ctx context.Context, requirementID primitive.ObjectID) (int, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"requirementId": requirementID})
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

// Delete removes an assignment by ID.
func (r *mongoAssignmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteByActivity removes every assignment of an activity.
func (r *mongoAssignmentRepository) DeleteByActivity(ctx context.Context, activityID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"activityId": activityID})
	return err
}

func (r *mongoAssignmentRepository) find(ctx context.Context, filter bson.M) ([]domain.Assignment, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var assignments []domain.Assignment
	if err = cursor.All(ctx, &assignments); err != nil {
		return nil, err
	}
	if assignments == nil {
		assignments = []domain.Assignment{}
	}
	return assignments, nil
}
