package usecase_test

import (
	"context"
	"sync/atomic"
	"testing"

	"resale-inventory/internal/item"
	"resale-inventory/internal/item/repository/document"
	"resale-inventory/internal/item/usecase"
	"resale-inventory/pkg/blobstore"
	bsmemory "resale-inventory/pkg/blobstore/memory"
	dsmemory "resale-inventory/pkg/docstore/memory"
)

// mockLogger counts DPanic calls, which flag impossible create-state transitions.
type mockLogger struct {
	dpanics atomic.Int32
}

func (m *mockLogger) Debug(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Debugf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Info(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Infof(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Warn(ctx context.Context, args ...any)                   {}
func (m *mockLogger) Warnf(ctx context.Context, format string, args ...any)   {}
func (m *mockLogger) Error(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Errorf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) DPanic(ctx context.Context, args ...any)                 { m.dpanics.Add(1) }
func (m *mockLogger) DPanicf(ctx context.Context, format string, args ...any) { m.dpanics.Add(1) }
func (m *mockLogger) Panic(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Panicf(ctx context.Context, format string, args ...any)  {}
func (m *mockLogger) Fatal(ctx context.Context, args ...any)                  {}
func (m *mockLogger) Fatalf(ctx context.Context, format string, args ...any)  {}

const testBucket = "test-bucket"

type fixture struct {
	uc    item.UseCase
	docs  *dsmemory.Store
	blobs *bsmemory.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	return newFixtureWithBlobs(t, nil)
}

// newFixtureWithBlobs lets a test wrap the memory blob store.
func newFixtureWithBlobs(t *testing.T, wrap func(blobstore.Store) blobstore.Store) fixture {
	t.Helper()

	l := &mockLogger{}
	docs := dsmemory.New()
	blobs := bsmemory.New(testBucket)

	var bs blobstore.Store = blobs
	if wrap != nil {
		bs = wrap(blobs)
	}

	uc := usecase.New(document.New(docs, "", l), bs, l, usecase.Options{BulkConcurrency: 2})

	t.Cleanup(func() {
		if n := l.dpanics.Load(); n > 0 {
			t.Errorf("logged %d invalid state transitions", n)
		}
	})
	return fixture{uc: uc, docs: docs, blobs: blobs}
}

func catan() item.CreateItemInput {
	complete := true
	return item.CreateItemInput{
		Name:       "Catan",
		Cost:       40,
		Category:   item.CategoryBoardGame,
		Condition:  9,
		Status:     item.StatusNotListed,
		IsComplete: &complete,
	}
}

func tenBytes() item.Photo {
	return item.Photo{Data: []byte("0123456789")}
}

func mustCreate(t *testing.T, f fixture, in item.CreateItemInput) string {
	t.Helper()
	id, err := f.uc.CreateWithPhoto(context.Background(), in, tenBytes())
	if err != nil {
		t.Fatalf("CreateWithPhoto: %v", err)
	}
	return id
}
