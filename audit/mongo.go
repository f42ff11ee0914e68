package audit

import (
	"context"
	"fmt"
	"time"

	"restaurant-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoLog stores each action as its own document.
type MongoLog struct {
	client     *mongo.Client
	collection *mongo.Collection
	ids        idSeq
}

func ConnectMongo(ctx context.Context, uri, database, collection string) (*MongoLog, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(10 * time.Second).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	return &MongoLog{client: client, collection: client.Database(database).Collection(collection)}, nil
}

func (m *MongoLog) Record(ctx context.Context, a models.AdminAction) (models.AdminAction, error) {
	now := time.Now()
	a.ID = m.ids.next(now, 0)
	a.CreatedAt = now
	if _, err := m.collection.InsertOne(ctx, a); err != nil {
		return models.AdminAction{}, fmt.Errorf("insert admin action: %w", err)
	}
	return a, nil
}

func (m *MongoLog) Actions(ctx context.Context, limit int) ([]models.AdminAction, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := m.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find admin actions: %w", err)
	}
	defer cursor.Close(ctx)

	actions := []models.AdminAction{}
	if err := cursor.All(ctx, &actions); err != nil {
		return nil, fmt.Errorf("decode admin actions: %w", err)
	}
	return actions, nil
}

func (m *MongoLog) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
