// Package records implements add/edit/delete/filter workflows for every resource.
package records

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/station/internal/domain/models"
	"github.com/mamadbah2/station/internal/query"
)

// Store is the persistence surface of a single resource collection.
type Store[T any] interface {
	Find(ctx context.Context, filter query.Filter) ([]T, error)
	Get(ctx context.Context, id primitive.ObjectID) (T, error)
	Insert(ctx context.Context, doc T) (primitive.ObjectID, error)
	Replace(ctx context.Context, id primitive.ObjectID, doc T) (T, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// hooks carries the per-resource rules applied around the generic workflow.
// normalize runs first (existing is nil on create), validate next, and prepare
// only once the record is known to be valid. dates lists the calendar date
// fields, which are anchored to the service timezone on write and expressed in
// it on read.
type hooks[T any] struct {
	dates     func(doc *T) []*models.Date
	normalize func(existing *T, doc *T)
	validate  func(T) error
	prepare   func(ctx context.Context, doc *T) error
	decorate  func(doc *T)
	setID     func(doc *T, id primitive.ObjectID)
}

// Service runs the CRUD workflow of one resource.
type Service[T any] struct {
	schema models.Schema
	store  Store[T]
	hooks  hooks[T]
	loc    *time.Location
	logger *zap.Logger
}

func newService[T any](resource models.Resource, store Store[T], h hooks[T], loc *time.Location, logger *zap.Logger) *Service[T] {
	schema, ok := models.SchemaFor(resource)
	if !ok {
		panic(fmt.Sprintf("records: no schema for resource %q", resource))
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service[T]{schema: schema, store: store, hooks: h, loc: loc, logger: logger}
}

// Resource names the collection this service manages.
func (s *Service[T]) Resource() models.Resource {
	return s.schema.Resource
}

// Schema returns the field descriptors of the resource.
func (s *Service[T]) Schema() models.Schema {
	return s.schema
}

// List returns the records matching the filter parameters.
func (s *Service[T]) List(ctx context.Context, params map[string]string) ([]T, error) {
	filter, err := query.Build(s.schema, params, s.loc)
	if err != nil {
		return nil, err
	}

	docs, err := s.store.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		s.decorate(&docs[i])
	}
	return docs, nil
}

// Create validates and stores a new record, returning it with its assigned id.
func (s *Service[T]) Create(ctx context.Context, doc T) (T, error) {
	var zero T
	if err := s.check(ctx, nil, &doc); err != nil {
		return zero, err
	}

	id, err := s.store.Insert(ctx, doc)
	if err != nil {
		return zero, err
	}
	s.hooks.setID(&doc, id)
	s.decorate(&doc)

	s.logger.Info("record created", zap.String("resource", string(s.schema.Resource)), zap.String("id", id.Hex()))
	return doc, nil
}

// Update replaces the mutable fields of an existing record.
func (s *Service[T]) Update(ctx context.Context, rawID string, doc T) (T, error) {
	var zero T
	id, err := parseID(rawID)
	if err != nil {
		return zero, err
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	s.hooks.setID(&doc, id)
	if err := s.check(ctx, &existing, &doc); err != nil {
		return zero, err
	}

	updated, err := s.store.Replace(ctx, id, doc)
	if err != nil {
		return zero, err
	}
	s.decorate(&updated)

	s.logger.Info("record updated", zap.String("resource", string(s.schema.Resource)), zap.String("id", id.Hex()))
	return updated, nil
}

// Delete removes a record.
func (s *Service[T]) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("record deleted", zap.String("resource", string(s.schema.Resource)), zap.String("id", id.Hex()))
	return nil
}

func (s *Service[T]) check(ctx context.Context, existing *T, doc *T) error {
	if s.hooks.normalize != nil {
		s.hooks.normalize(existing, doc)
	}
	if s.hooks.dates != nil {
		for _, d := range s.hooks.dates(doc) {
			*d = d.Anchor(s.loc)
		}
	}
	if s.hooks.validate != nil {
		if err := s.hooks.validate(*doc); err != nil {
			return fmt.Errorf("%s: %v: %w", s.schema.Resource, err, models.ErrValidation)
		}
	}
	if s.hooks.prepare != nil {
		return s.hooks.prepare(ctx, doc)
	}
	return nil
}

func (s *Service[T]) decorate(doc *T) {
	if s.hooks.dates != nil {
		for _, d := range s.hooks.dates(doc) {
			*d = d.InLocation(s.loc)
		}
	}
	if s.hooks.decorate != nil {
		s.hooks.decorate(doc)
	}
}

func parseID(raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", raw, models.ErrValidation)
	}
	return id, nil
}
