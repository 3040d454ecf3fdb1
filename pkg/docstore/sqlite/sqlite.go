// Package sqlite stores documents as JSON rows in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"resale-inventory/pkg/docstore"
	"resale-inventory/pkg/retry"
)

// timeLayout is fixed width so stored timestamps sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const schema = `CREATE TABLE IF NOT EXISTS documents (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	UNIQUE (collection, id)
)`

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Store is a docstore.Store backed by database/sql and the modernc SQLite driver.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ docstore.Store = (*Store)(nil)

// Open opens the database at path, configures pragmas and ensures the schema.
// Use ":memory:" for a throwaway database.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// An in-memory database is per connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("setting pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Create(ctx context.Context, collection string, fields docstore.Fields) (string, error) {
	data, err := encode(fields.Clone(s.now()))
	if err != nil {
		return "", &docstore.WriteError{Op: "create", Collection: collection, Err: err}
	}

	id := uuid.NewString()
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		collection, id, data,
	); err != nil {
		return "", &docstore.WriteError{Op: "create", Collection: collection, Err: classify(err)}
	}
	return id, nil
}

func (s *Store) GetByID(ctx context.Context, collection, id string) (docstore.Document, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return docstore.Document{}, &docstore.NotFoundError{Collection: collection, ID: id}
	}
	if err != nil {
		return docstore.Document{}, &docstore.ReadError{Op: "get", Collection: collection, ID: id, Err: classify(err)}
	}

	fields, err := decode(data)
	if err != nil {
		return docstore.Document{}, &docstore.ReadError{Op: "get", Collection: collection, ID: id, Err: err}
	}
	return docstore.Document{ID: id, Fields: fields}, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields docstore.Fields) error {
	wrap := func(err error) error {
		return &docstore.WriteError{Op: "update", Collection: collection, ID: id, Err: err}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap(classify(err))
	}
	defer tx.Rollback()

	var data string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`, collection, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return wrap(&docstore.NotFoundError{Collection: collection, ID: id})
	}
	if err != nil {
		return wrap(classify(err))
	}

	current, err := decode(data)
	if err != nil {
		return wrap(err)
	}
	for k, v := range fields.Clone(s.now()) {
		current[k] = v
	}
	merged, err := encode(current)
	if err != nil {
		return wrap(err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data = ? WHERE collection = ? AND id = ?`, merged, collection, id,
	); err != nil {
		return wrap(classify(err))
	}
	if err := tx.Commit(); err != nil {
		return wrap(classify(err))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`, collection, id,
	); err != nil {
		return &docstore.WriteError{Op: "delete", Collection: collection, ID: id, Err: classify(err)}
	}
	return nil
}

func (s *Store) Count(ctx context.Context, collection string, filters ...docstore.Filter) (int64, error) {
	where, args, err := whereClause(collection, filters)
	if err != nil {
		return 0, &docstore.ReadError{Op: "count", Collection: collection, Err: err}
	}

	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents `+where, args...).Scan(&n); err != nil {
		return 0, &docstore.ReadError{Op: "count", Collection: collection, Err: classify(err)}
	}
	return n, nil
}

func (s *Store) List(ctx context.Context, collection string, opt docstore.ListOptions) ([]docstore.Document, error) {
	wrap := func(err error) error {
		return &docstore.ReadError{Op: "list", Collection: collection, Err: err}
	}

	where, args, err := whereClause(collection, opt.Filters)
	if err != nil {
		return nil, wrap(err)
	}

	var q strings.Builder
	q.WriteString(`SELECT id, data FROM documents `)
	q.WriteString(where)
	q.WriteString(` ORDER BY `)
	if opt.OrderBy != "" {
		if !fieldName.MatchString(opt.OrderBy) {
			return nil, wrap(fmt.Errorf("invalid order field %q", opt.OrderBy))
		}
		q.WriteString(`json_extract(data, ?)`)
		args = append(args, "$."+opt.OrderBy)
		if opt.Desc {
			q.WriteString(` DESC`)
		}
		q.WriteString(`, `)
	}
	q.WriteString(`seq`)

	if opt.Limit > 0 || opt.Offset > 0 {
		limit := opt.Limit
		if limit <= 0 {
			limit = -1
		}
		q.WriteString(` LIMIT ? OFFSET ?`)
		args = append(args, limit, opt.Offset)
	}

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, wrap(classify(err))
	}
	defer rows.Close()

	var docs []docstore.Document
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, wrap(err)
		}
		fields, err := decode(data)
		if err != nil {
			return nil, wrap(err)
		}
		docs = append(docs, docstore.Document{ID: id, Fields: fields})
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(classify(err))
	}
	return docs, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func whereClause(collection string, filters []docstore.Filter) (string, []any, error) {
	var b strings.Builder
	args := []any{collection}
	b.WriteString(`WHERE collection = ?`)
	for _, f := range filters {
		if !fieldName.MatchString(f.Field) {
			return "", nil, fmt.Errorf("invalid filter field %q", f.Field)
		}
		b.WriteString(` AND json_extract(data, ?) = ?`)
		args = append(args, "$."+f.Field, sqlValue(f.Value))
	}
	return b.String(), args, nil
}

func sqlValue(v any) any {
	switch vv := v.(type) {
	case time.Time:
		return vv.UTC().Format(timeLayout)
	case bool:
		if vv {
			return 1
		}
		return 0
	case fmt.Stringer:
		return vv.String()
	}
	return v
}

func encode(fields docstore.Fields) (string, error) {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if t, ok := v.(time.Time); ok {
			out[k] = t.UTC().Format(timeLayout)
			continue
		}
		out[k] = v
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}
	return string(b), nil
}

func decode(data string) (docstore.Fields, error) {
	var fields docstore.Fields
	if err := json.Unmarshal([]byte(data), &fields); err != nil {
		return nil, fmt.Errorf("decoding document: %w", err)
	}
	if fields == nil {
		fields = docstore.Fields{}
	}
	return fields, nil
}

// classify marks lock contention as retryable.
func classify(err error) error {
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return retry.MarkTransient(err)
		}
	}
	return err
}
