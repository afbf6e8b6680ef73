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

const categoryCollectionName = "categories"

// mongoCategoryRepository implements repository.CategoryRepository using MongoDB.
type mongoCategoryRepository struct {
	collection *mongo.Collection
}

// NewMongoCategoryRepository creates a new Category repository backed by MongoDB.
func NewMongoCategoryRepository(db *mongo.Database) repository.CategoryRepository {
	return &mongoCategoryRepository{
		collection: db.Collection(categoryCollectionName),
	}
}

// Create inserts a new age category.
func (r *mongoCategoryRepository) Create(ctx context.Context, category *domain.Category) (primitive.ObjectID, error) {
	if category.Name == "" {
		return primitive.NilObjectID, errors.New("category name is required")
	}

	category.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted category ID")
	}
	return insertedID, nil
}

// GetByID retrieves a category by its ID.
func (r *mongoCategoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Category, error) {
	var category domain.Category
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// GetByName retrieves a category by its unique name.
func (r *mongoCategoryRepository) GetByName(ctx context.Context, name string) (*domain.Category, error) {
	var category domain.Category
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// List retrieves all categories ordered by their configured sort order.
func (r *mongoCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []domain.Category
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}
