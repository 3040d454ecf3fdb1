package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"resale-inventory/pkg/docstore"
)

// Op names a Store method for fault injection.
type Op string

const (
	OpCreate Op = "create"
	OpGet    Op = "get"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpCount  Op = "count"
	OpList   Op = "list"
)

type fault struct {
	op  Op
	id  string
	err error
}

type record struct {
	fields docstore.Fields
	seq    int64
}

// Store is an in-process docstore.Store. Use it for development and tests.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]record
	seq         int64
	faults      []fault
	now         func() time.Time
}

var _ docstore.Store = (*Store)(nil)

// New creates an empty Store.
func New() *Store {
	return &Store{
		collections: make(map[string]map[string]record),
		now:         time.Now,
	}
}

// FailOn makes subsequent calls of op on id fail with err. An empty id matches every id.
func (s *Store) FailOn(op Op, id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, fault{op: op, id: id, err: err})
}

// ClearFaults removes every injected fault.
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = nil
}

func (s *Store) injected(op Op, id string) error {
	for _, f := range s.faults {
		if f.op == op && (f.id == "" || f.id == id) {
			return f.err
		}
	}
	return nil
}

func (s *Store) Create(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &docstore.WriteError{Op: "create", Collection: collection, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected(OpCreate, ""); err != nil {
		return "", &docstore.WriteError{Op: "create", Collection: collection, Err: err}
	}

	id := uuid.NewString()
	s.seq++
	s.coll(collection)[id] = record{fields: copyFields(fields.Clone(s.now().UTC())), seq: s.seq}
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return docstore.Document{}, &docstore.ReadError{Op: "get", Collection: collection, ID: id, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.injected(OpGet, id); err != nil {
		return docstore.Document{}, &docstore.ReadError{Op: "get", Collection: collection, ID: id, Err: err}
	}

	rec, ok := s.collections[collection][id]
	if !ok {
		return docstore.Document{}, &docstore.NotFoundError{Collection: collection, ID: id}
	}
	return docstore.Document{ID: id, Fields: copyFields(rec.fields)}, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields docstore.Fields) error {
	if err := ctx.Err(); err != nil {
		return &docstore.WriteError{Op: "update", Collection: collection, ID: id, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected(OpUpdate, id); err != nil {
		return &docstore.WriteError{Op: "update", Collection: collection, ID: id, Err: err}
	}

	rec, ok := s.collections[collection][id]
	if !ok {
		return &docstore.WriteError{
			Op: "update", Collection: collection, ID: id,
			Err: &docstore.NotFoundError{Collection: collection, ID: id},
		}
	}
	for k, v := range copyFields(fields.Clone(s.now().UTC())) {
		rec.fields[k] = v
	}
	s.collections[collection][id] = rec
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return &docstore.WriteError{Op: "delete", Collection: collection, ID: id, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.injected(OpDelete, id); err != nil {
		return &docstore.WriteError{Op: "delete", Collection: collection, ID: id, Err: err}
	}

	delete(s.collections[collection], id)
	return nil
}

func (s *Store) Count(ctx context.Context, collection string, filters ...docstore.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, &docstore.ReadError{Op: "count", Collection: collection, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.injected(OpCount, ""); err != nil {
		return 0, &docstore.ReadError{Op: "count", Collection: collection, Err: err}
	}

	var n int64
	for _, rec := range s.collections[collection] {
		if matches(rec.fields, filters) {
			n++
		}
	}
	return n, nil
}

func (s *Store) List(ctx context.Context, collection string, opt docstore.ListOptions) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, &docstore.ReadError{Op: "list", Collection: collection, Err: err}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.injected(OpList, ""); err != nil {
		return nil, &docstore.ReadError{Op: "list", Collection: collection, Err: err}
	}

	type entry struct {
		id  string
		rec record
	}
	entries := make([]entry, 0, len(s.collections[collection]))
	for id, rec := range s.collections[collection] {
		if matches(rec.fields, opt.Filters) {
			entries = append(entries, entry{id: id, rec: rec})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if opt.OrderBy != "" {
			c := compare(entries[i].rec.fields[opt.OrderBy], entries[j].rec.fields[opt.OrderBy])
			if c != 0 {
				if opt.Desc {
					return c > 0
				}
				return c < 0
			}
		}
		return entries[i].rec.seq < entries[j].rec.seq
	})

	if opt.Offset > 0 {
		if opt.Offset >= len(entries) {
			entries = nil
		} else {
			entries = entries[opt.Offset:]
		}
	}
	if opt.Limit > 0 && len(entries) > opt.Limit {
		entries = entries[:opt.Limit]
	}

	docs := make([]docstore.Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, docstore.Document{ID: e.id, Fields: copyFields(e.rec.fields)})
	}
	return docs, nil
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

func (s *Store) coll(name string) map[string]record {
	c, ok := s.collections[name]
	if !ok {
		c = make(map[string]record)
		s.collections[name] = c
	}
	return c
}

func matches(fields docstore.Fields, filters []docstore.Filter) bool {
	for _, f := range filters {
		if compare(fields[f.Field], f.Value) != 0 {
			return false
		}
	}
	return true
}

// compare orders numbers numerically, times chronologically and everything else by text.
func compare(a, b any) int {
	if ta, ok := a.(time.Time); ok {
		if tb, ok := b.(time.Time); ok {
			return ta.Compare(tb)
		}
	}
	fa, aNum := docstore.Fields{"v": a}.Float("v")
	fb, bNum := docstore.Fields{"v": b}.Float("v")
	if aNum && bNum {
		switch {
		case fa < fb:
			return -1
		case fa > fb:
			return 1
		}
		return 0
	}
	if a == nil && b == nil {
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func copyFields(in docstore.Fields) docstore.Fields {
	out := make(docstore.Fields, len(in))
	for k, v := range in {
		switch vv := v.(type) {
		case []string:
			out[k] = append([]string(nil), vv...)
		case []any:
			out[k] = append([]any(nil), vv...)
		default:
			out[k] = v
		}
	}
	return out
}
