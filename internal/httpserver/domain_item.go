package httpserver

import (
	"context"

	"github.com/gin-gonic/gin"

	itemHTTP "resale-inventory/internal/item/delivery/http"
	itemRepo "resale-inventory/internal/item/repository/document"
	itemUC "resale-inventory/internal/item/usecase"
)

// setupItemDomain initializes the item domain and registers its routes.
func (srv HTTPServer) setupItemDomain(ctx context.Context, api *gin.RouterGroup) error {
	// 1. Repository
	repo := itemRepo.New(srv.docs, srv.collection, srv.l)

	// 2. UseCase
	uc := itemUC.New(repo, srv.blobs, srv.l, srv.itemOpt)

	// 3. HTTP Handler
	h := itemHTTP.New(srv.l, uc, srv.uploadOpt)

	// 4. Routes: registers /api/v1/items
	itemHTTP.RegisterRoutes(api, h)

	srv.l.Infof(ctx, "Item domain registered")
	return nil
}
