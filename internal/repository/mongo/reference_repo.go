package mongo

import (
	"context"
	"errors"

	"sebino/rowing-app/internal/domain"
	"sebino/rowing-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	activityTypeCollectionName      = "activity_types"
	qualificationTypeCollectionName = "qualification_types"
)

// mongoActivityTypeRepository implements repository.ActivityTypeRepository using MongoDB.
type mongoActivityTypeRepository struct {
	collection *mongo.Collection
}

// NewMongoActivityTypeRepository creates a new ActivityType repository backed by MongoDB.
func NewMongoActivityTypeRepository(db *mongo.Database) repository.ActivityTypeRepository {
	return &mongoActivityTypeRepository{
		collection: db.Collection(activityTypeCollectionName),
	}
}

func (r *mongoActivityTypeRepository) Create(ctx context.Context, activityType *domain.ActivityType) (primitive.ObjectID, error) {
	if activityType.Name == "" {
		return primitive.NilObjectID, errors.New("activity type name is required")
	}

	activityType.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, activityType)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted activity type ID")
	}
	return insertedID, nil
}

func (r *mongoActivityTypeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ActivityType, error) {
	var activityType domain.ActivityType
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&activityType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &activityType, nil
}

func (r *mongoActivityTypeRepository) List(ctx context.Context, activeOnly bool) ([]domain.ActivityType, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var types []domain.ActivityType
	if err = cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	if types == nil {
		types = []domain.ActivityType{}
	}
	return types, nil
}

// mongoQualificationTypeRepository implements repository.QualificationTypeRepository using MongoDB.
type mongoQualificationTypeRepository struct {
	collection *mongo.Collection
}

// NewMongoQualificationTypeRepository creates a new QualificationType repository backed by MongoDB.
func NewMongoQualificationTypeRepository(db *mongo.Database) repository.QualificationTypeRepository {
	return &mongoQualificationTypeRepository{
		collection: db.Collection(qualificationTypeCollectionName),
	}
}

func (r *mongoQualificationTypeRepository) Create(ctx context.Context, qualificationType *domain.QualificationType) (primitive.ObjectID, error) {
	if qualificationType.Name == "" {
		return primitive.NilObjectID, errors.New("qualification type name is required")
	}

	qualificationType.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, qualificationType)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted qualification type ID")
	}
	return insertedID, nil
}

func (r *mongoQualificationTypeRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.QualificationType, error) {
	var qualificationType domain.QualificationType
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&qualificationType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &qualificationType, nil
}

func (r *mongoQualificationTypeRepository) List(ctx context.Context, activeOnly bool) ([]domain.QualificationType, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var types []domain.QualificationType
	if err = cursor.All(ctx, &types); err != nil {
		return nil, err
	}
	if types == nil {
		types = []domain.QualificationType{}
	}
	return types, nil
}
