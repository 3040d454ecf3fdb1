package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPServer.Port)
	assert.Equal(t, DocstoreSQLite, cfg.Docstore.Backend)
	assert.Equal(t, "items", cfg.Docstore.Collection)
	assert.Equal(t, BlobstoreLocal, cfg.Blobstore.Backend)
	assert.Equal(t, "data/blobs", cfg.Blobstore.Local.Root)
	assert.Equal(t, "http://localhost:8080/files", cfg.Blobstore.Local.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.Store.CallTimeout)
	assert.Equal(t, 200*time.Millisecond, cfg.Store.RetryDelay)
	assert.Equal(t, 8, cfg.Item.BulkConcurrency)
	assert.EqualValues(t, 10<<20, cfg.Upload.MaxBytes)
	assert.Equal(t, 168*time.Hour, cfg.Blobstore.GCS.SignedURLTTL)
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	t.Chdir(t.TempDir())
	t.Setenv("DOCSTORE_BACKEND", "mongo")
	t.Setenv("DOCSTORE_MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "/secrets/sa.json")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DocstoreMongo, cfg.Docstore.Backend)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Docstore.Mongo.URI)
	assert.Equal(t, "/secrets/sa.json", cfg.Blobstore.GCS.CredentialsPath)
	assert.Equal(t, "/secrets/sa.json", cfg.Docstore.Firestore.CredentialsPath)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			HTTPServer: HTTPServerConfig{Port: 8080},
			Docstore:   DocstoreConfig{Backend: DocstoreMemory},
			Blobstore:  BlobstoreConfig{Backend: BlobstoreMemory, Bucket: "b"},
			Store:      StoreConfig{RetryAttempts: 1},
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown docstore", func(c *Config) { c.Docstore.Backend = "postgres" }, "docstore.backend"},
		{"firestore without project", func(c *Config) { c.Docstore.Backend = DocstoreFirestore }, "project_id"},
		{"mongo without uri", func(c *Config) { c.Docstore.Backend = DocstoreMongo }, "mongo.uri"},
		{"sqlite without path", func(c *Config) { c.Docstore.Backend = DocstoreSQLite }, "sqlite.path"},
		{"unknown blobstore", func(c *Config) { c.Blobstore.Backend = "s3" }, "blobstore.backend"},
		{"missing bucket", func(c *Config) { c.Blobstore.Bucket = "" }, "bucket"},
		{"durable records with memory photos", func(c *Config) {
			c.Docstore.Backend = DocstoreSQLite
			c.Docstore.SQLite.Path = "inventory.db"
		}, "requires docstore.backend memory"},
		{"local without root", func(c *Config) {
			c.Blobstore.Backend = BlobstoreLocal
			c.Blobstore.Local.BaseURL = "http://localhost:8080/files"
		}, "local.root"},
		{"local without base url", func(c *Config) {
			c.Blobstore.Backend = BlobstoreLocal
			c.Blobstore.Local.Root = "data/blobs"
		}, "local.base_url"},
		{"sqlite with local", func(c *Config) {
			c.Docstore.Backend = DocstoreSQLite
			c.Docstore.SQLite.Path = "inventory.db"
			c.Blobstore.Backend = BlobstoreLocal
			c.Blobstore.Local = LocalConfig{Root: "data/blobs", BaseURL: "http://localhost:8080/files"}
		}, ""},
		{"no attempts", func(c *Config) { c.Store.RetryAttempts = 0 }, "retry_attempts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
