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

const boatCollectionName = "boats"

// mongoBoatRepository implements repository.BoatRepository using MongoDB.
type mongoBoatRepository struct {
	collection *mongo.Collection
}

// NewMongoBoatRepository creates a new Boat repository backed by MongoDB.
func NewMongoBoatRepository(db *mongo.Database) repository.BoatRepository {
	return &mongoBoatRepository{
		collection: db.Collection(boatCollectionName),
	}
}

// Create inserts a new boat.
func (r *mongoBoatRepository) Create(ctx context.Context, boat *domain.Boat) (primitive.ObjectID, error) {
	if boat.Name == "" {
		return primitive.NilObjectID, errors.New("boat name is required")
	}

	boat.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, boat)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted boat ID")
	}
	return insertedID, nil
}

// GetByID retrieves a boat by its ID.
func (r *mongoBoatRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Boat, error) {
	var boat domain.Boat
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&boat)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &boat, nil
}

// List retrieves all boats ordered by name.
func (r *mongoBoatRepository) List(ctx context.Context) ([]domain.Boat, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var boats []domain.Boat
	if err = cursor.All(ctx, &boats); err != nil {
		return nil, err
	}
	if boats == nil {
		boats = []domain.Boat{}
	}
	return boats, nil
}

// Update replaces an existing boat document.
func (r *mongoBoatRepository) Update(ctx context.Context, boat *domain.Boat) error {
	if boat.ID.IsZero() {
		return errors.New("boat ID cannot be zero for update")
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": boat.ID}, boat)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
