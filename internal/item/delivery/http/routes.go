package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes maps HTTP verbs and paths to Handler methods.
// Static paths are registered alongside /:id; gin prefers them on conflict.
func RegisterRoutes(rg *gin.RouterGroup, h Handler, mw ...gin.HandlerFunc) {
	items := rg.Group("/items", mw...)
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.GET("/stats", h.Stats)
		items.GET("/count", h.Count)
		items.POST("/bulk-delete", h.BulkDelete)
		items.GET("/:id", h.Detail)
		items.PUT("/:id", h.Update)
		items.DELETE("/:id", h.Delete)
	}
}
