package usecase

import (
	"time"

	"resale-inventory/internal/item/repository"
	"resale-inventory/pkg/blobstore"
	"resale-inventory/pkg/log"
)

const (
	DefaultAssetPrefix         = "items"
	DefaultBulkConcurrency     = 8
	DefaultCompensationTimeout = 10 * time.Second
)

// Options tune the use case. Zero values select the defaults.
type Options struct {
	// AssetPrefix is the top-level blob folder; assets live under {prefix}/{id}/.
	AssetPrefix string
	// BulkConcurrency bounds concurrent deletions in BulkDelete and DeleteWithAssets.
	BulkConcurrency int
	// CompensationTimeout bounds the rollback of a failed create. It is not tied to
	// the caller's context, so a cancelled request still cleans up.
	CompensationTimeout time.Duration
}

// implUseCase is the private implementation of item.UseCase.
type implUseCase struct {
	repo  repository.Repository
	blobs blobstore.Store
	l     log.Logger
	opt   Options
}

// New creates a new item UseCase implementation.
func New(repo repository.Repository, blobs blobstore.Store, l log.Logger, opt Options) *implUseCase {
	if opt.AssetPrefix == "" {
		opt.AssetPrefix = DefaultAssetPrefix
	}
	if opt.BulkConcurrency <= 0 {
		opt.BulkConcurrency = DefaultBulkConcurrency
	}
	if opt.CompensationTimeout <= 0 {
		opt.CompensationTimeout = DefaultCompensationTimeout
	}
	return &implUseCase{
		repo:  repo,
		blobs: blobs,
		l:     l,
		opt:   opt,
	}
}
