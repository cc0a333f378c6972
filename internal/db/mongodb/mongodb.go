package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ukane-philemon/grades/api"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	// Collections
	gradesCollection = "grades"

	// Keys
	dbIDKey      = "_id"
	learnerIDKey = "learner_id"
	classIDKey   = "class_id"
	scoresKey    = "scores"

	// Actions
	actionSet  = "$set"
	actionPush = "$push"
	actionPull = "$pull"
)

// Check that *MongoDB implements api.GradeDatabase.
var _ api.GradeDatabase = (*MongoDB)(nil)

// MongoDB implements api.GradeDatabase.
type MongoDB struct {
	db               *mongo.Database
	gradesCollection *mongo.Collection
}

// New connects to a mongo database and returns a new instance of *MongoDB.
func New(ctx context.Context, dbName string, connectionURL string) (*MongoDB, error) {
	if connectionURL == "" {
		return nil, errors.New("missing mongodb database connection URL")
	}

	if dbName == "" {
		return nil, errors.New("database name is required")
	}

	// Set server API version for the client.
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(connectionURL).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo.Connect error: %w", err)
	}

	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		return nil, fmt.Errorf("client.Ping error: %w", err)
	}

	log.Println("Database has been connected and pinged successfully...")

	db := client.Database(dbName)

	// The learner and class routes filter on these keys.
	gradesCollection := db.Collection(gradesCollection)
	_, err = gradesCollection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: learnerIDKey, Value: 1}, {Key: classIDKey, Value: 1}}},
		{Keys: bson.D{{Key: classIDKey, Value: 1}}},
	})
	if err != nil {
		return nil, fmt.Errorf("gradesCollection.Indexes().CreateMany error: %w", err)
	}

	return newMongoDB(db, gradesCollection), nil
}

func newMongoDB(db *mongo.Database, gradesCollection *mongo.Collection) *MongoDB {
	return &MongoDB{
		db:               db,
		gradesCollection: gradesCollection,
	}
}

// Shutdown attempts to shutdown the database.
func (mdb *MongoDB) Shutdown(ctx context.Context) error {
	client := mdb.db.Client()
	err := client.Disconnect(ctx)
	if err != nil {
		return fmt.Errorf("client.Disconnect error: %w", err)
	}

	log.Println("Database has been shutdown successfully...")

	return nil
}
