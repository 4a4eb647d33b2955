package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"fitlife-bot/config"
)

const stateCollection = "user_state"

type stateDocument struct {
	UserID    int64     `bson:"userId"`
	Namespace string    `bson:"namespace"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoBackend stores one document per (user, namespace).
type MongoBackend struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewMongoBackend(ctx context.Context, cfg config.MongoConfig) (*MongoBackend, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	collection := client.Database(cfg.Database).Collection(stateCollection)
	_, err = collection.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "namespace", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create state index: %w", err)
	}

	return &MongoBackend{client: client, collection: collection}, nil
}

func (m *MongoBackend) Get(ctx context.Context, userID int64, ns Namespace) ([]byte, error) {
	var doc stateDocument
	err := m.collection.FindOne(ctx, bson.M{"userId": userID, "namespace": string(ns)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s for user %d: %w", ns, userID, err)
	}
	return []byte(doc.Payload), nil
}

func (m *MongoBackend) Put(ctx context.Context, userID int64, ns Namespace, data []byte) error {
	filter := bson.M{"userId": userID, "namespace": string(ns)}
	update := bson.M{"$set": bson.M{"payload": string(data), "updatedAt": time.Now().UTC()}}

	_, err := m.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save %s for user %d: %w", ns, userID, err)
	}
	return nil
}

func (m *MongoBackend) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
