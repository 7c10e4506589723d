package repository

import (
	"cancer-support-bot/internal/domain/interfaces/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoRepository[T any] struct {
	mongo *mongo.Database
}

func NewMongoRepository[T any](mongo *mongo.Database) *MongoRepository[T] {
	return &MongoRepository[T]{mongo: mongo}
}

func (r *MongoRepository[T]) Create(ctx context.Context, collectionName string, entity T) (T, error) {
	collection := r.mongo.Collection(collectionName)
	_, err := collection.InsertOne(ctx, entity)
	if mongo.IsDuplicateKeyError(err) {
		return entity, fmt.Errorf("%w: %v", repository.ErrDuplicateKey, err)
	}
	return entity, err
}

func (r *MongoRepository[T]) FindOne(ctx context.Context, collectionName string, field string, value string) (T, error) {
	var entity T
	collection := r.mongo.Collection(collectionName)
	err := collection.FindOne(ctx, bson.M{field: value}).Decode(&entity)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return entity, repository.ErrNotFound
	}
	return entity, err
}

// Update replaces the fields of the document matching field=value with
// entity. Unlike Create it never inserts; no match yields ErrNotFound.
func (r *MongoRepository[T]) Update(ctx context.Context, collectionName string, field string, value string, entity T) (T, error) {
	collection := r.mongo.Collection(collectionName)
	filter := bson.M{field: value}
	update := bson.M{"$set": entity}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return entity, fmt.Errorf("%w: %v", repository.ErrDuplicateKey, err)
		}
		return entity, err
	}
	if result.MatchedCount == 0 {
		return entity, repository.ErrNotFound
	}
	return entity, nil
}

// EnsureUniqueIndex creates a unique ascending index on field. Creating an
// index that already exists is a no-op on the server.
func (r *MongoRepository[T]) EnsureUniqueIndex(ctx context.Context, collectionName string, field string) error {
	collection := r.mongo.Collection(collectionName)
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetUnique(true).SetName(field + "_unique"),
	})
	return err
}
