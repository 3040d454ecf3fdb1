package docstore

import (
	"context"

	"resale-inventory/pkg/log"
	"resale-inventory/pkg/retry"
)

type resilientStore struct {
	next   Store
	policy retry.Policy
	l      log.Logger
}

// WithResilience wraps next so every call runs under the policy's per-attempt timeout and
// transient failures are retried. Create is attempted once: a retried insert may duplicate.
func WithResilience(next Store, policy retry.Policy, l log.Logger) Store {
	return &resilientStore{next: next, policy: policy, l: l}
}

func (s *resilientStore) Create(ctx context.Context, collection string, fields Fields) (string, error) {
	var id string
	err := retry.Do(ctx, s.policy.Once(), func(ctx context.Context) error {
		var err error
		id, err = s.next.Create(ctx, collection, fields)
		return err
	})
	return id, err
}

func (s *resilientStore) GetByID(ctx context.Context, collection, id string) (Document, error) {
	var doc Document
	err := s.do(ctx, "GetByID", func(ctx context.Context) error {
		var err error
		doc, err = s.next.GetByID(ctx, collection, id)
		return err
	})
	return doc, err
}

func (s *resilientStore) Update(ctx context.Context, collection, id string, fields Fields) error {
	return s.do(ctx, "Update", func(ctx context.Context) error {
		return s.next.Update(ctx, collection, id, fields)
	})
}

func (s *resilientStore) Delete(ctx context.Context, collection, id string) error {
	return s.do(ctx, "Delete", func(ctx context.Context) error {
		return s.next.Delete(ctx, collection, id)
	})
}

func (s *resilientStore) Count(ctx context.Context, collection string, filters ...Filter) (int64, error) {
	var n int64
	err := s.do(ctx, "Count", func(ctx context.Context) error {
		var err error
		n, err = s.next.Count(ctx, collection, filters...)
		return err
	})
	return n, err
}

func (s *resilientStore) List(ctx context.Context, collection string, opt ListOptions) ([]Document, error) {
	var docs []Document
	err := s.do(ctx, "List", func(ctx context.Context) error {
		var err error
		docs, err = s.next.List(ctx, collection, opt)
		return err
	})
	return docs, err
}

func (s *resilientStore) Close() error {
	return s.next.Close()
}

func (s *resilientStore) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempt := 0
	return retry.Do(ctx, s.policy, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			s.l.Warnf(ctx, "docstore.%s: retrying, attempt %d", op, attempt)
		}
		return fn(ctx)
	})
}
