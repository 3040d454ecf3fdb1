package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resale-inventory/internal/item/repository/document"
	pkgErrors "resale-inventory/pkg/errors"
	"resale-inventory/pkg/response"
)

// Health response constants (single source for version and service identity).
const (
	HealthMessage = "Resale inventory API"
	HealthVersion = "1.0.0"
	ServiceName   = "resale-inventory"
)

// healthCheck handles health check requests
// @Summary Health Check
// @Description Check if the API is healthy
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is healthy"
// @Router /health [get]
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "healthy",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

// readyCheck reports ready once the document store answers a count.
// @Summary Readiness Check
// @Description Check if the API can reach its document store
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is ready"
// @Failure 503 {object} response.Resp "Document store unreachable"
// @Router /ready [get]
func (srv HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()

	collection := srv.collection
	if collection == "" {
		collection = document.DefaultCollection
	}
	if _, err := srv.docs.Count(ctx, collection); err != nil {
		srv.l.Errorf(ctx, "httpserver.readyCheck: %v", err)
		response.Error(c, errNotReady, nil)
		return
	}

	response.OK(c, gin.H{
		"status":  "ready",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}

var errNotReady = pkgErrors.NewHTTPError(http.StatusServiceUnavailable, "document store unreachable")

// liveCheck handles liveness check requests
// @Summary Liveness Check
// @Description Check if the API is alive
// @Tags Health
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "API is alive"
// @Router /live [get]
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"message": HealthMessage,
		"version": HealthVersion,
		"service": ServiceName,
	})
}
