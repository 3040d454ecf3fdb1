package blobstore

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
// transient failures are retried. Uploads overwrite, so they are retried too.
func WithResilience(next Store, policy retry.Policy, l log.Logger) Store {
	return &resilientStore{next: next, policy: policy, l: l}
}

func (s *resilientStore) Upload(ctx context.Context, path string, data []byte, contentType string) (Handle, error) {
	var h Handle
	err := s.do(ctx, "Upload", func(ctx context.Context) error {
		var err error
		h, err = s.next.Upload(ctx, path, data, contentType)
		return err
	})
	return h, err
}

func (s *resilientStore) DownloadURL(ctx context.Context, h Handle) (string, error) {
	var url string
	err := s.do(ctx, "DownloadURL", func(ctx context.Context) error {
		var err error
		url, err = s.next.DownloadURL(ctx, h)
		return err
	})
	return url, err
}

func (s *resilientStore) List(ctx context.Context, prefix string) ([]Handle, error) {
	var hs []Handle
	err := s.do(ctx, "List", func(ctx context.Context) error {
		var err error
		hs, err = s.next.List(ctx, prefix)
		return err
	})
	return hs, err
}

func (s *resilientStore) Delete(ctx context.Context, h Handle) error {
	return s.do(ctx, "Delete", func(ctx context.Context) error {
		return s.next.Delete(ctx, h)
	})
}

func (s *resilientStore) Close() error {
	return s.next.Close()
}

func (s *resilientStore) do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	attempt := 0
	return retry.Do(ctx, s.policy, func(ctx context.Context) error {
		attempt++
		if attempt > 1 {
			s.l.Warnf(ctx, "blobstore.%s: retrying, attempt %d", op, attempt)
		}
		return fn(ctx)
	})
}
