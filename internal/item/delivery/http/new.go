package http

import (
	"github.com/gin-gonic/gin"

	"resale-inventory/internal/item"
	"resale-inventory/pkg/imaging"
	"resale-inventory/pkg/log"
)

const (
	DefaultMaxUploadBytes = 10 << 20
	DefaultListLimit      = 20
	MaxListLimit          = 100
)

// Handler is the public interface for the item HTTP delivery layer.
type Handler interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	Detail(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	BulkDelete(c *gin.Context)
	Stats(c *gin.Context)
	Count(c *gin.Context)
}

// Options bound photo uploads. Zero values select the defaults.
type Options struct {
	MaxUploadBytes int64
	MaxDimension   int
}

type handler struct {
	l      log.Logger
	uc     item.UseCase
	maxLen int64
	imgOpt imaging.Options
}

// New creates a new HTTP handler for the item domain.
func New(l log.Logger, uc item.UseCase, opt Options) Handler {
	if opt.MaxUploadBytes <= 0 {
		opt.MaxUploadBytes = DefaultMaxUploadBytes
	}
	return &handler{
		l:      l,
		uc:     uc,
		maxLen: opt.MaxUploadBytes,
		imgOpt: imaging.Options{MaxDimension: opt.MaxDimension},
	}
}
