package httpserver

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	itemHTTP "resale-inventory/internal/item/delivery/http"
	itemUC "resale-inventory/internal/item/usecase"
	"resale-inventory/pkg/blobstore"
	"resale-inventory/pkg/docstore"
	"resale-inventory/pkg/log"
)

const (
	EnvironmentProduction  = "production"
	defaultShutdownTimeout = 10 * time.Second
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin             *gin.Engine
	l               log.Logger
	port            int
	mode            string
	environment     string
	shutdownTimeout time.Duration
	rateLimitPerMin int

	// Storage
	docs       docstore.Store
	blobs      blobstore.Store
	collection string
	filesRoot  string

	// Item domain
	itemOpt   itemUC.Options
	uploadOpt itemHTTP.Options
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger          log.Logger
	Port            int
	Mode            string
	Environment     string
	ShutdownTimeout time.Duration
	RateLimitPerMin int

	// Storage
	Docstore   docstore.Store
	Blobstore  blobstore.Store
	Collection string
	// FilesRoot, when set, is served read-only at local.Route.
	FilesRoot string

	// Item domain
	Item   itemUC.Options
	Upload itemHTTP.Options
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		shutdownTimeout: cfg.ShutdownTimeout,
		rateLimitPerMin: cfg.RateLimitPerMin,
		docs:            cfg.Docstore,
		blobs:           cfg.Blobstore,
		collection:      cfg.Collection,
		filesRoot:       cfg.FilesRoot,
		itemOpt:         cfg.Item,
		uploadOpt:       cfg.Upload,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.docs == nil {
		return errors.New("docstore is required")
	}
	if srv.blobs == nil {
		return errors.New("blobstore is required")
	}
	return nil
}

// Handler exposes the engine, mainly for tests.
func (srv *HTTPServer) Handler() *gin.Engine {
	return srv.gin
}
