package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	// Ping the primary node to verify the connection actually works,
	// not just that the driver accepted the URI.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// --- Index bootstrap ---
// Called once at startup (from main) per collection.

// EnsureUserIndexes creates the unique username index and the lookup
// indexes the roster queries rely on.
func EnsureUserIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "roles", Value: 1}}},
		{Keys: bson.D{{Key: "calendarToken", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

// EnsureCategoryIndexes creates the unique category name index.
func EnsureCategoryIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "sortOrder", Value: 1}}},
	})
	return err
}

// EnsureTrainingIndexes creates the calendar and recurrence lookups.
func EnsureTrainingIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "coachIds", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "recurrenceGroupId", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

// EnsureAttendanceIndexes creates the unique (training, athlete) pair
// index that backs the one-row-per-pair invariant.
func EnsureAttendanceIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "trainingId", Value: 1}, {Key: "athleteId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "athleteId", Value: 1}}},
	})
	return err
}

// EnsureAttendanceChangeIndexes creates the audit trail lookup.
func EnsureAttendanceChangeIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "attendanceId", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
	return err
}

// EnsureActivityIndexes creates the date/state lookups used by the
// booking board.
func EnsureActivityIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "state", Value: 1}, {Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "typeId", Value: 1}, {Key: "date", Value: 1}}},
	})
	return err
}

// EnsureRequirementIndexes creates the per-activity lookup.
func EnsureRequirementIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "activityId", Value: 1}, {Key: "createdAt", Value: 1}}},
	})
	return err
}

// EnsureAssignmentIndexes creates the unique assignment tuple index and
// the conflict-detection lookups.
func EnsureAssignmentIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "activityId", Value: 1}, {Key: "requirementId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "requirementId", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}}},
	})
	return err
}

// EnsureShiftIndexes creates the week-board and conflict lookups.
func EnsureShiftIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "slot", Value: 1}}},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "date", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}
