package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DocstoreFirestore = "firestore"
	DocstoreMongo     = "mongo"
	DocstoreSQLite    = "sqlite"
	DocstoreMemory    = "memory"

	BlobstoreGCS    = "gcs"
	BlobstoreLocal  = "local"
	BlobstoreMemory = "memory"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Storage
	Docstore  DocstoreConfig
	Blobstore BlobstoreConfig
	Store     StoreConfig

	// Item domain
	Item      ItemConfig
	Upload    UploadConfig
	RateLimit RateLimitConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port            int
	Mode            string
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type DocstoreConfig struct {
	Backend    string
	Collection string
	Firestore  FirestoreConfig
	Mongo      MongoConfig
	SQLite     SQLiteConfig
}

type FirestoreConfig struct {
	ProjectID       string
	DatabaseID      string
	CredentialsPath string
	EmulatorHost    string
}

type MongoConfig struct {
	URI      string
	Database string
}

type SQLiteConfig struct {
	Path string
}

type BlobstoreConfig struct {
	Backend string
	Bucket  string
	GCS     GCSConfig
	Local   LocalConfig
}

// LocalConfig places photos on disk. The HTTP server serves Root at BaseURL.
type LocalConfig struct {
	Root    string
	BaseURL string
}

type GCSConfig struct {
	CredentialsPath string
	EmulatorHost    string
	URLMode         string
	DownloadBaseURL string
	SignedURLTTL    time.Duration
}

// StoreConfig bounds every adapter call.
type StoreConfig struct {
	CallTimeout   time.Duration
	RetryAttempts int
	RetryDelay    time.Duration
}

type ItemConfig struct {
	AssetPrefix         string
	BulkConcurrency     int
	CompensationTimeout time.Duration
}

type UploadConfig struct {
	MaxBytes     int64
	MaxDimension int
}

type RateLimitConfig struct {
	PerMin int
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, ., /etc/app/
// A .env file in the working directory is loaded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/app/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.HTTPServer.ShutdownTimeout = viper.GetDuration("http_server.shutdown_timeout")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Document store
	cfg.Docstore.Backend = viper.GetString("docstore.backend")
	cfg.Docstore.Collection = viper.GetString("docstore.collection")
	cfg.Docstore.Firestore.ProjectID = viper.GetString("docstore.firestore.project_id")
	cfg.Docstore.Firestore.DatabaseID = viper.GetString("docstore.firestore.database_id")
	cfg.Docstore.Firestore.CredentialsPath = viper.GetString("docstore.firestore.credentials_path")
	cfg.Docstore.Firestore.EmulatorHost = viper.GetString("docstore.firestore.emulator_host")
	cfg.Docstore.Mongo.URI = viper.GetString("docstore.mongo.uri")
	cfg.Docstore.Mongo.Database = viper.GetString("docstore.mongo.database")
	cfg.Docstore.SQLite.Path = viper.GetString("docstore.sqlite.path")

	// Blob store
	cfg.Blobstore.Backend = viper.GetString("blobstore.backend")
	cfg.Blobstore.Bucket = viper.GetString("blobstore.bucket")
	cfg.Blobstore.GCS.CredentialsPath = viper.GetString("blobstore.gcs.credentials_path")
	cfg.Blobstore.GCS.EmulatorHost = viper.GetString("blobstore.gcs.emulator_host")
	cfg.Blobstore.GCS.URLMode = viper.GetString("blobstore.gcs.url_mode")
	cfg.Blobstore.GCS.DownloadBaseURL = viper.GetString("blobstore.gcs.download_base_url")
	cfg.Blobstore.GCS.SignedURLTTL = viper.GetDuration("blobstore.gcs.signed_url_ttl")
	cfg.Blobstore.Local.Root = viper.GetString("blobstore.local.root")
	cfg.Blobstore.Local.BaseURL = viper.GetString("blobstore.local.base_url")

	// Google credentials shared by both stores when not set per store
	if creds := viper.GetString("google_application_credentials"); creds != "" {
		if cfg.Docstore.Firestore.CredentialsPath == "" {
			cfg.Docstore.Firestore.CredentialsPath = creds
		}
		if cfg.Blobstore.GCS.CredentialsPath == "" {
			cfg.Blobstore.GCS.CredentialsPath = creds
		}
	}

	cfg.Store.CallTimeout = viper.GetDuration("store.call_timeout")
	cfg.Store.RetryAttempts = viper.GetInt("store.retry_attempts")
	cfg.Store.RetryDelay = viper.GetDuration("store.retry_delay")

	// Item domain
	cfg.Item.AssetPrefix = viper.GetString("item.asset_prefix")
	cfg.Item.BulkConcurrency = viper.GetInt("item.bulk_concurrency")
	cfg.Item.CompensationTimeout = viper.GetDuration("item.compensation_timeout")
	cfg.Upload.MaxBytes = viper.GetInt64("upload.max_bytes")
	cfg.Upload.MaxDimension = viper.GetInt("upload.max_dimension")
	cfg.RateLimit.PerMin = viper.GetInt("rate_limit.per_min")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("http_server.shutdown_timeout", "10s")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("docstore.backend", DocstoreSQLite)
	viper.SetDefault("docstore.collection", "items")
	viper.SetDefault("docstore.firestore.database_id", "(default)")
	viper.SetDefault("docstore.mongo.database", "inventory")
	viper.SetDefault("docstore.sqlite.path", "inventory.db")

	viper.SetDefault("blobstore.backend", BlobstoreLocal)
	viper.SetDefault("blobstore.bucket", "inventory")
	viper.SetDefault("blobstore.gcs.url_mode", "token")
	viper.SetDefault("blobstore.gcs.signed_url_ttl", "168h")
	viper.SetDefault("blobstore.local.root", "data/blobs")
	viper.SetDefault("blobstore.local.base_url", "http://localhost:8080/files")

	viper.SetDefault("store.call_timeout", "10s")
	viper.SetDefault("store.retry_attempts", 3)
	viper.SetDefault("store.retry_delay", "200ms")

	viper.SetDefault("item.asset_prefix", "items")
	viper.SetDefault("item.bulk_concurrency", 8)
	viper.SetDefault("item.compensation_timeout", "10s")
	viper.SetDefault("upload.max_bytes", 10<<20)
	viper.SetDefault("upload.max_dimension", 1024)
	viper.SetDefault("rate_limit.per_min", 120)
}

// Validate checks backend names and the settings each selected backend requires.
func (c *Config) Validate() error {
	var errs []error

	switch c.Docstore.Backend {
	case DocstoreFirestore:
		if c.Docstore.Firestore.ProjectID == "" {
			errs = append(errs, errors.New("docstore.firestore.project_id is required"))
		}
	case DocstoreMongo:
		if c.Docstore.Mongo.URI == "" {
			errs = append(errs, errors.New("docstore.mongo.uri is required"))
		}
	case DocstoreSQLite:
		if c.Docstore.SQLite.Path == "" {
			errs = append(errs, errors.New("docstore.sqlite.path is required"))
		}
	case DocstoreMemory:
	default:
		errs = append(errs, fmt.Errorf("docstore.backend: unknown value %q", c.Docstore.Backend))
	}

	switch c.Blobstore.Backend {
	case BlobstoreGCS:
	case BlobstoreLocal:
		if c.Blobstore.Local.Root == "" {
			errs = append(errs, errors.New("blobstore.local.root is required"))
		}
		if c.Blobstore.Local.BaseURL == "" {
			errs = append(errs, errors.New("blobstore.local.base_url is required"))
		}
	case BlobstoreMemory:
		// Photos would vanish on restart while records pointing at them survive.
		if c.Docstore.Backend != DocstoreMemory {
			errs = append(errs, fmt.Errorf("blobstore.backend memory requires docstore.backend memory, got %q", c.Docstore.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("blobstore.backend: unknown value %q", c.Blobstore.Backend))
	}
	if c.Blobstore.Bucket == "" {
		errs = append(errs, errors.New("blobstore.bucket is required"))
	}

	if c.HTTPServer.Port <= 0 {
		errs = append(errs, errors.New("http_server.port must be positive"))
	}
	if c.Store.RetryAttempts < 1 {
		errs = append(errs, errors.New("store.retry_attempts must be at least 1"))
	}

	return errors.Join(errs...)
}
