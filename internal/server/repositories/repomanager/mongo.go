package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/orgbook/internal/server/repositories/companies"
	"github.com/dmitrijs2005/orgbook/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepositoryManager vends MongoDB-backed repositories. WithTx does not
// open a session: fn runs against the plain collections.
type MongoRepositoryManager struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewMongoRepositoryManager(client *mongo.Client, database string) *MongoRepositoryManager {
	return &MongoRepositoryManager{client: client, db: client.Database(database)}
}

// OpenMongo connects to uri and verifies the deployment answers.
func OpenMongo(ctx context.Context, uri, database string) (*MongoRepositoryManager, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return NewMongoRepositoryManager(client, database), nil
}

func (m *MongoRepositoryManager) Companies() companies.Repository {
	return companies.NewMongoRepository(m.db.Collection(companies.CollectionName))
}

func (m *MongoRepositoryManager) Users() users.Repository {
	return users.NewMongoRepository(m.db.Collection(users.CollectionName))
}

func (m *MongoRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return fn(ctx, m)
}

// indexModels are created by RunMigrations.
var indexModels = map[string][]mongo.IndexModel{
	users.CollectionName: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "name", Value: 1}}},
	},
	companies.CollectionName: {
		{Keys: bson.D{{Key: "name", Value: 1}}},
	},
}

// createIndexes is a seam for testing index creation.
var createIndexes = func(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	_, err := coll.Indexes().CreateMany(ctx, models)
	return err
}

func (m *MongoRepositoryManager) RunMigrations(ctx context.Context) error {
	for name, models := range indexModels {
		if err := createIndexes(ctx, m.db.Collection(name), models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

func (m *MongoRepositoryManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
