// Package mongo implements docstore.Store on a MongoDB database, one collection per docstore collection.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"resale-inventory/pkg/docstore"
	"resale-inventory/pkg/retry"
)

// Store is a docstore.Store backed by MongoDB. Document ids are ObjectID hex strings.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	now    func() time.Time
}

var _ docstore.Store = (*Store)(nil)

// Connect dials uri and verifies the connection with a ping.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(2).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	return &Store{client: client, db: client.Database(database), now: time.Now}, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	doc := bson.M{}
	for k, v := range fields.Clone(s.now().UTC()) {
		doc[k] = v
	}
	oid := primitive.NewObjectID()
	doc["_id"] = oid

	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", &docstore.WriteError{Op: "create", Collection: collection, Err: classify(err)}
	}
	return oid.Hex(), nil
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return docstore.Document{}, &docstore.NotFoundError{Collection: collection, ID: id}
	}

	var raw bson.M
	err = s.db.Collection(collection).FindOne(ctx, bson.M{"_id": oid}).Decode(&raw)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return docstore.Document{}, &docstore.NotFoundError{Collection: collection, ID: id}
	}
	if err != nil {
		return docstore.Document{}, &docstore.ReadError{Op: "get", Collection: collection, ID: id, Err: classify(err)}
	}
	return toDocument(raw), nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields docstore.Fields) error {
	notFound := &docstore.WriteError{
		Op: "update", Collection: collection, ID: id,
		Err: &docstore.NotFoundError{Collection: collection, ID: id},
	}

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return notFound
	}

	set := bson.M{}
	for k, v := range fields.Clone(s.now().UTC()) {
		set[k] = v
	}

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return &docstore.WriteError{Op: "update", Collection: collection, ID: id, Err: classify(err)}
	}
	if res.MatchedCount == 0 {
		return notFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return &docstore.WriteError{Op: "delete", Collection: collection, ID: id, Err: classify(err)}
	}
	return nil
}

func (s *Store) Count(ctx context.Context, collection string, filters ...docstore.Filter) (int64, error) {
	n, err := s.db.Collection(collection).CountDocuments(ctx, toFilter(filters))
	if err != nil {
		return 0, &docstore.ReadError{Op: "count", Collection: collection, Err: classify(err)}
	}
	return n, nil
}

func (s *Store) List(ctx context.Context, collection string, opt docstore.ListOptions) ([]docstore.Document, error) {
	sort := bson.D{}
	if opt.OrderBy != "" {
		dir := 1
		if opt.Desc {
			dir = -1
		}
		sort = append(sort, bson.E{Key: opt.OrderBy, Value: dir})
	}
	sort = append(sort, bson.E{Key: "_id", Value: 1})

	findOpts := options.Find().SetSort(sort)
	if opt.Offset > 0 {
		findOpts.SetSkip(int64(opt.Offset))
	}
	if opt.Limit > 0 {
		findOpts.SetLimit(int64(opt.Limit))
	}

	cur, err := s.db.Collection(collection).Find(ctx, toFilter(opt.Filters), findOpts)
	if err != nil {
		return nil, &docstore.ReadError{Op: "list", Collection: collection, Err: classify(err)}
	}
	defer cur.Close(ctx)

	var docs []docstore.Document
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, &docstore.ReadError{Op: "list", Collection: collection, Err: err}
		}
		docs = append(docs, toDocument(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, &docstore.ReadError{Op: "list", Collection: collection, Err: classify(err)}
	}
	return docs, nil
}

// Close disconnects the client.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Drop removes the whole database. Tests use it for cleanup.
func (s *Store) Drop(ctx context.Context) error {
	return s.db.Drop(ctx)
}

func toFilter(filters []docstore.Filter) bson.M {
	f := bson.M{}
	for _, flt := range filters {
		f[flt.Field] = flt.Value
	}
	return f
}

func toDocument(raw bson.M) docstore.Document {
	doc := docstore.Document{Fields: docstore.Fields{}}
	for k, v := range raw {
		if k == "_id" {
			if oid, ok := v.(primitive.ObjectID); ok {
				doc.ID = oid.Hex()
			}
			continue
		}
		doc.Fields[k] = normalize(v)
	}
	return doc
}

// normalize converts driver types into the plain values docstore.Fields accessors expect.
func normalize(v any) any {
	switch vv := v.(type) {
	case primitive.DateTime:
		return vv.Time().UTC()
	case primitive.A:
		out := make([]any, len(vv))
		for i, e := range vv {
			out[i] = normalize(e)
		}
		return out
	case primitive.M:
		out := make(map[string]any, len(vv))
		for k, e := range vv {
			out[k] = normalize(e)
		}
		return out
	}
	return v
}

func classify(err error) error {
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return retry.MarkTransient(err)
	}
	return err
}
