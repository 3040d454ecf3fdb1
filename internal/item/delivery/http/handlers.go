package http

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"resale-inventory/internal/item"
	"resale-inventory/pkg/response"
)

// Create godoc
// @Summary     Create an item with its photo
// @Description Stores the item, uploads its photo and records the photo URL. A failed upload removes the item again.
// @Tags        Items
// @Accept      multipart/form-data
// @Produce     json
// @Param       data  formData string true "Item as JSON"
// @Param       photo formData file   true "Primary photo"
// @Success     200 {object} response.Resp{data=createResp}
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     413 {object} response.Resp "Photo too large"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/items [POST]
func (h *handler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processCreateReq(c)
	if err != nil {
		h.l.Warnf(ctx, "item.delivery.http.Create: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	id, err := h.uc.CreateWithPhoto(ctx, req.Item.toCreateInput(), req.Photo)
	if err != nil {
		h.l.Errorf(ctx, "item.delivery.http.Create: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, createResp{ID: id})
}

// List godoc
// @Summary     List items
// @Description Returns a page of items, newest first, optionally filtered by status and name.
// @Tags        Items
// @Produce     json
// @Param       status query string false "SOLD, LISTED or NOT_LISTED"
// @Param       name   query string false "Case-insensitive name substring"
// @Param       limit  query int    false "Page size (default: 20)"
// @Param       offset query int    false "Page offset (default: 0)"
// @Success     200 {object} response.Resp{data=listResp}
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/items [GET]
func (h *handler) List(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processListReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out, err := h.uc.List(ctx, req.toInput())
	if err != nil {
		h.l.Errorf(ctx, "item.delivery.http.List: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newListResp(out))
}

// Detail godoc
// @Summary     Get an item
// @Tags        Items
// @Produce     json
// @Param       id path string true "Item ID"
// @Success     200 {object} response.Resp{data=detailResp}
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/items/{id} [GET]
func (h *handler) Detail(c *gin.Context) {
	ctx := c.Request.Context()

	it, err := h.uc.Detail(ctx, c.Param("id"))
	if err != nil {
		h.l.Warnf(ctx, "item.delivery.http.Detail: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newDetailResp(it))
}

// Update godoc
// @Summary     Replace an item
// @Description Overwrites every mutable field. The stored picture is kept when picture is omitted.
// @Tags        Items
// @Accept      json
// @Produce     json
// @Param       id   path string    true "Item ID"
// @Param       body body updateReq true "Full item"
// @Success     200 {object} response.Resp{data=detailResp}
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     404 {object} response.Resp "Not Found"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/items/{id} [PUT]
func (h *handler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processUpdateReq(c)
	if err != nil {
		response.Error(c, h.mapError(err), nil)
		return
	}

	current, err := h.uc.Detail(ctx, req.ID)
	if err != nil {
		h.l.Warnf(ctx, "item.delivery.http.Update: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	it := req.toItem(current)
	if err := h.uc.UpdateEntire(ctx, req.ID, it); err != nil {
		h.l.Errorf(ctx, "item.delivery.http.Update: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newDetailResp(it))
}

// Delete godoc
// @Summary     Delete an item and its files
// @Tags        Items
// @Produce     json
// @Param       id path string true "Item ID"
// @Success     200 {object} response.Resp "OK"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/items/{id} [DELETE]
func (h *handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.uc.DeleteWithAssets(ctx, c.Param("id")); err != nil {
		h.l.Errorf(ctx, "item.delivery.http.Delete: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, nil)
}

// BulkDelete godoc
// @Summary     Delete several items
// @Description Deletes every id independently. error_code is 1 when any deletion failed.
// @Tags        Items
// @Accept      json
// @Produce     json
// @Param       body body bulkDeleteReq true "Item IDs"
// @Success     200 {object} response.Resp{data=bulkDeleteResp}
// @Failure     400 {object} response.Resp "Bad Request"
// @Router      /api/v1/items/bulk-delete [POST]
func (h *handler) BulkDelete(c *gin.Context) {
	ctx := c.Request.Context()

	req, err := h.processBulkDeleteReq(c)
	if err != nil {
		response.Error(c, err, nil)
		return
	}

	out := h.uc.BulkDelete(ctx, req.IDs)
	resp := h.newBulkDeleteResp(out)
	if resp.Failed > 0 {
		h.l.Errorf(ctx, "item.delivery.http.BulkDelete: %v", out.Err())
		response.Partial(c, fmt.Sprintf("%d of %d deletions failed", resp.Failed, len(resp.Results)), resp)
		return
	}

	response.OK(c, resp)
}

// Stats godoc
// @Summary     Dashboard counters
// @Tags        Items
// @Produce     json
// @Success     200 {object} response.Resp{data=statsResp}
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/items/stats [GET]
func (h *handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	s, err := h.uc.Stats(ctx)
	if err != nil {
		h.l.Errorf(ctx, "item.delivery.http.Stats: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, h.newStatsResp(s))
}

// Count godoc
// @Summary     Count items
// @Description Counts every item, or only those with status.
// @Tags        Items
// @Produce     json
// @Param       status query string false "SOLD, LISTED or NOT_LISTED"
// @Success     200 {object} response.Resp{data=countResp}
// @Failure     400 {object} response.Resp "Bad Request"
// @Failure     500 {object} response.Resp "Internal Server Error"
// @Router      /api/v1/items/count [GET]
func (h *handler) Count(c *gin.Context) {
	ctx := c.Request.Context()
	status := c.Query("status")

	var (
		n   int64
		err error
	)
	if status == "" {
		n, err = h.uc.CountAll(ctx)
	} else {
		n, err = h.uc.CountByStatus(ctx, item.Status(status))
	}
	if err != nil {
		h.l.Errorf(ctx, "item.delivery.http.Count: %v", err)
		response.Error(c, h.mapError(err), nil)
		return
	}

	response.OK(c, countResp{Status: status, Count: n})
}
