package main

import (
	"context"
	"fmt"
	"io"

	"resale-inventory/config"
	"resale-inventory/pkg/blobstore"
	"resale-inventory/pkg/blobstore/gcs"
	"resale-inventory/pkg/blobstore/local"
	bsmemory "resale-inventory/pkg/blobstore/memory"
	"resale-inventory/pkg/docstore"
	"resale-inventory/pkg/docstore/firestore"
	dsmemory "resale-inventory/pkg/docstore/memory"
	"resale-inventory/pkg/docstore/mongo"
	"resale-inventory/pkg/docstore/sqlite"
	"resale-inventory/pkg/gcp"
	"resale-inventory/pkg/log"
	"resale-inventory/pkg/retry"
)

func retryPolicy(cfg *config.Config) retry.Policy {
	return retry.Policy{
		Attempts: cfg.Store.RetryAttempts,
		Delay:    cfg.Store.RetryDelay,
		Timeout:  cfg.Store.CallTimeout,
	}
}

// openDocstore connects the configured backend and wraps it with retries and call timeouts.
func openDocstore(ctx context.Context, cfg *config.Config, l log.Logger) (docstore.Store, error) {
	var (
		store docstore.Store
		err   error
	)

	switch c := cfg.Docstore; c.Backend {
	case config.DocstoreFirestore:
		opts, optErr := gcp.ClientOptions(ctx, gcp.Settings{
			CredentialsPath: c.Firestore.CredentialsPath,
			EmulatorHost:    c.Firestore.EmulatorHost,
			EmulatorEnv:     gcp.FirestoreEmulatorEnv,
		}, gcp.ScopeDatastore)
		if optErr != nil {
			return nil, optErr
		}
		store, err = firestore.New(ctx, c.Firestore.ProjectID, c.Firestore.DatabaseID, opts...)
	case config.DocstoreMongo:
		store, err = mongo.Connect(ctx, c.Mongo.URI, c.Mongo.Database)
	case config.DocstoreSQLite:
		store, err = sqlite.Open(c.SQLite.Path)
	case config.DocstoreMemory:
		l.Warn(ctx, "Using in-memory document store, data is lost on exit")
		store = dsmemory.New()
	default:
		return nil, fmt.Errorf("unknown docstore backend %q", c.Backend)
	}
	if err != nil {
		return nil, err
	}

	return docstore.WithResilience(store, retryPolicy(cfg), l), nil
}

// openBlobstore connects the configured backend and wraps it with retries and call timeouts.
func openBlobstore(ctx context.Context, cfg *config.Config, l log.Logger) (blobstore.Store, error) {
	var store blobstore.Store

	switch c := cfg.Blobstore; c.Backend {
	case config.BlobstoreGCS:
		opts, err := gcp.ClientOptions(ctx, gcp.Settings{
			CredentialsPath: c.GCS.CredentialsPath,
			EmulatorHost:    c.GCS.EmulatorHost,
			EmulatorEnv:     gcp.StorageEmulatorEnv,
		}, gcp.ScopeStorageWrite)
		if err != nil {
			return nil, err
		}

		opt := gcs.Options{
			Bucket:          c.Bucket,
			URLMode:         gcs.URLMode(c.GCS.URLMode),
			DownloadBaseURL: c.GCS.DownloadBaseURL,
			SignedURLTTL:    c.GCS.SignedURLTTL,
		}
		if opt.URLMode == gcs.URLModeSigned && c.GCS.CredentialsPath != "" {
			data, err := gcp.ReadCredentials(c.GCS.CredentialsPath)
			if err != nil {
				return nil, err
			}
			if opt.Signer, err = gcp.SignerFromJSON(data); err != nil {
				return nil, err
			}
		}

		gs, err := gcs.New(ctx, opt, opts...)
		if err != nil {
			return nil, err
		}
		store = gs
	case config.BlobstoreLocal:
		ls, err := local.New(local.Options{Root: c.Local.Root, BaseURL: c.Local.BaseURL, Bucket: c.Bucket})
		if err != nil {
			return nil, err
		}
		store = ls
	case config.BlobstoreMemory:
		l.Warn(ctx, "Using in-memory blob store, photos are lost on exit")
		store = bsmemory.New(c.Bucket)
	default:
		return nil, fmt.Errorf("unknown blobstore backend %q", c.Backend)
	}

	return blobstore.WithResilience(store, retryPolicy(cfg), l), nil
}

func closeQuietly(ctx context.Context, l log.Logger, name string, c io.Closer) {
	if err := c.Close(); err != nil {
		l.Warnf(ctx, "Failed to close %s: %v", name, err)
	}
}
