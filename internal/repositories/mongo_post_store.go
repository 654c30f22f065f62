package repositories

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/anonto42/lemmy-blog/backend/internal/models"
)

// postDocument is the MongoDB shape of a stored post. The payload is the
// same JSON every other backend stores.
type postDocument struct {
	Key       string    `bson:"_id"`
	Payload   string    `bson:"payload"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// MongoPostStore implements PostStore for MongoDB
type MongoPostStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoPostStore creates a new MongoPostStore over db's "posts" collection
func NewMongoPostStore(client *mongo.Client, db *mongo.Database) *MongoPostStore {
	return &MongoPostStore{client: client, collection: db.Collection("posts")}
}

func (s *MongoPostStore) Get(ctx context.Context, key string) (*models.Post, error) {
	var doc postDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("find post %q: %w", key, err)
	}
	return decodePost(key, []byte(doc.Payload))
}

func (s *MongoPostStore) Set(ctx context.Context, key string, post *models.Post) error {
	data, err := encodePost(post)
	if err != nil {
		return err
	}
	doc := postDocument{Key: key, Payload: string(data), UpdatedAt: time.Now().UTC()}
	_, err = s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert post %q: %w", key, err)
	}
	return nil
}

func (s *MongoPostStore) Delete(ctx context.Context, key string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("delete post %q: %w", key, err)
	}
	return nil
}

func (s *MongoPostStore) List(ctx context.Context) ([]string, error) {
	findOptions := options.Find().SetProjection(bson.M{"_id": 1}).SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.collection.Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer cursor.Close(ctx)

	var keys []string
	for cursor.Next(ctx) {
		var doc struct {
			Key string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("list posts: %w", err)
		}
		keys = append(keys, doc.Key)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return keys, nil
}

func (s *MongoPostStore) Name() string {
	return "mongodb_persistent"
}

// Close disconnects the client the store was created with.
func (s *MongoPostStore) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
