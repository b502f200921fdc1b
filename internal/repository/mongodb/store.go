package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/query"
)

// Store is the record store of a single entity collection.
type Store[T any] struct {
	coll *mongo.Collection
}

// NewStore wraps a collection holding documents of type T.
func NewStore[T any](coll *mongo.Collection) *Store[T] {
	return &Store[T]{coll: coll}
}

// Find returns every document matching the filter in insertion order.
func (s *Store[T]) Find(ctx context.Context, filter query.Filter) ([]T, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.coll.Find(ctx, filter.BSON(), opts)
	if err != nil {
		return nil, fmt.Errorf("find in %s: %w", s.coll.Name(), err)
	}

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.coll.Name(), err)
	}
	return out, nil
}

// Get loads a document by id.
func (s *Store[T]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	var doc T
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if err != nil {
		return doc, fmt.Errorf("get %s %s: %w", s.coll.Name(), id.Hex(), notFound(err))
	}
	return doc, nil
}

// Insert stores doc and returns the id assigned by the database.
func (s *Store[T]) Insert(ctx context.Context, doc T) (primitive.ObjectID, error) {
	res, err := s.coll.InsertOne(ctx, doc)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: %w", s.coll.Name(), err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("insert into %s: unexpected id type %T", s.coll.Name(), res.InsertedID)
	}
	return id, nil
}

// Replace overwrites the document with the given id and returns the stored result.
// doc must carry either a zero id or the same id.
func (s *Store[T]) Replace(ctx context.Context, id primitive.ObjectID, doc T) (T, error) {
	var out T
	opts := options.FindOneAndReplace().SetReturnDocument(options.After)
	err := s.coll.FindOneAndReplace(ctx, bson.D{{Key: "_id", Value: id}}, doc, opts).Decode(&out)
	if err != nil {
		return out, fmt.Errorf("replace %s %s: %w", s.coll.Name(), id.Hex(), notFound(err))
	}
	return out, nil
}

// Delete removes the document with the given id.
func (s *Store[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", s.coll.Name(), id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete %s %s: %w", s.coll.Name(), id.Hex(), models.ErrNotFound)
	}
	return nil
}
