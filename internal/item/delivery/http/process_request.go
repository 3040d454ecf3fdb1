package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resale-inventory/internal/item"
	"resale-inventory/pkg/imaging"
)

const (
	formFieldData  = "data"
	formFieldPhoto = "photo"
)

type createReq struct {
	Item  itemReq
	Photo item.Photo
}

// processCreateReq reads the multipart form: the item as JSON in "data" and its photo in "photo".
// JPEG and PNG photos are downscaled before they reach the use case.
func (h *handler) processCreateReq(c *gin.Context) (createReq, error) {
	var req createReq

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxLen+1<<20)

	if _, err := c.MultipartForm(); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return req, errPhotoTooLarge
		}
		return req, fmt.Errorf("%w: %v", item.ErrInvalidItem, err)
	}

	raw := c.PostForm(formFieldData)
	if raw == "" {
		return req, fmt.Errorf("%w: %s form field is required", item.ErrInvalidItem, formFieldData)
	}
	if err := json.Unmarshal([]byte(raw), &req.Item); err != nil {
		return req, fmt.Errorf("%w: %v", item.ErrInvalidItem, err)
	}
	if err := req.Item.validate(); err != nil {
		return req, err
	}

	data, err := h.readPhoto(c)
	if err != nil {
		return req, err
	}

	photo, err := imaging.Normalize(data, h.imgOpt)
	if err != nil {
		return req, err
	}
	req.Photo = item.Photo{Data: photo.Data, ContentType: photo.ContentType}
	return req, nil
}

func (h *handler) readPhoto(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile(formFieldPhoto)
	if err != nil {
		return nil, errPhotoRequired
	}
	if fh.Size > h.maxLen {
		return nil, errPhotoTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, h.maxLen+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.maxLen {
		return nil, errPhotoTooLarge
	}
	return data, nil
}

func (h *handler) processListReq(c *gin.Context) (listReq, error) {
	var req listReq
	if err := c.ShouldBindQuery(&req); err != nil {
		return req, err
	}
	return req, nil
}

// processUpdateReq binds the full item body and the URI id.
func (h *handler) processUpdateReq(c *gin.Context) (updateReq, error) {
	var req updateReq
	req.ID = c.Param("id")
	if req.ID == "" {
		return req, errIDRequired
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, fmt.Errorf("%w: %v", item.ErrInvalidItem, err)
	}
	return req, req.validate()
}

func (h *handler) processBulkDeleteReq(c *gin.Context) (bulkDeleteReq, error) {
	var req bulkDeleteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		return req, err
	}
	return req, nil
}
