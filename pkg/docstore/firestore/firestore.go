// Package firestore implements docstore.Store on Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	firestorepb "cloud.google.com/go/firestore/apiv1/firestorepb"

	"resale-inventory/pkg/docstore"
)

// Store is a docstore.Store backed by a Firestore database.
type Store struct {
	client *firestore.Client
}

var _ docstore.Store = (*Store)(nil)

// New creates a client for projectID/databaseID. An empty databaseID selects "(default)".
func New(ctx context.Context, projectID, databaseID string, opts ...option.ClientOption) (*Store, error) {
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID, opts...)
	if err != nil {
		return nil, fmt.Errorf("firestore.NewClientWithDatabase: %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, toData(fields))
	if err != nil {
		return "", &docstore.WriteError{Op: "create", Collection: collection, Err: err}
	}
	return ref.ID, nil
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	if !validID(id) {
		return docstore.Document{}, &docstore.NotFoundError{Collection: collection, ID: id}
	}

	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return docstore.Document{}, &docstore.NotFoundError{Collection: collection, ID: id}
	}
	if err != nil {
		return docstore.Document{}, &docstore.ReadError{Op: "get", Collection: collection, ID: id, Err: err}
	}
	return docstore.Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields docstore.Fields) error {
	notFound := &docstore.WriteError{
		Op: "update", Collection: collection, ID: id,
		Err: &docstore.NotFoundError{Collection: collection, ID: id},
	}
	if !validID(id) {
		return notFound
	}

	updates := make([]firestore.Update, 0, len(fields))
	for k, v := range toData(fields) {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}

	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return notFound
	}
	if err != nil {
		return &docstore.WriteError{Op: "update", Collection: collection, ID: id, Err: err}
	}
	return nil
}

// Delete succeeds for ids that do not exist.
func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if !validID(id) {
		return nil
	}
	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return &docstore.WriteError{Op: "delete", Collection: collection, ID: id, Err: err}
	}
	return nil
}

// Count runs a server-side count aggregation.
func (s *Store) Count(ctx context.Context, collection string, filters ...docstore.Filter) (int64, error) {
	q := applyFilters(s.client.Collection(collection).Query, filters)

	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, &docstore.ReadError{Op: "count", Collection: collection, Err: err}
	}

	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, &docstore.ReadError{Op: "count", Collection: collection, Err: fmt.Errorf("unexpected aggregation result %T", res["all"])}
	}
	return v.GetIntegerValue(), nil
}

// List with a filter and an order needs a composite index, see firestore.indexes.json.
func (s *Store) List(ctx context.Context, collection string, opt docstore.ListOptions) ([]docstore.Document, error) {
	q := applyFilters(s.client.Collection(collection).Query, opt.Filters)
	if opt.OrderBy != "" {
		dir := firestore.Asc
		if opt.Desc {
			dir = firestore.Desc
		}
		q = q.OrderBy(opt.OrderBy, dir)
	}
	if opt.Offset > 0 {
		q = q.Offset(opt.Offset)
	}
	if opt.Limit > 0 {
		q = q.Limit(opt.Limit)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	var docs []docstore.Document
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, &docstore.ReadError{Op: "list", Collection: collection, Err: err}
		}
		docs = append(docs, docstore.Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}

func applyFilters(q firestore.Query, filters []docstore.Filter) firestore.Query {
	for _, f := range filters {
		q = q.Where(f.Field, "==", value(f.Value))
	}
	return q
}

func toData(fields docstore.Fields) map[string]any {
	data := make(map[string]any, len(fields))
	for k, v := range fields {
		data[k] = value(v)
	}
	return data
}

func value(v any) any {
	if v == docstore.ServerTimestamp {
		return firestore.ServerTimestamp
	}
	return v
}

func validID(id string) bool {
	return id != "" && !strings.Contains(id, "/")
}
