package http

import (
	"errors"
	"net/http"

	"resale-inventory/internal/item"
	"resale-inventory/pkg/docstore"
	pkgErrors "resale-inventory/pkg/errors"
	"resale-inventory/pkg/imaging"
)

var (
	errIDRequired      = pkgErrors.NewHTTPError(http.StatusBadRequest, "id is required")
	errPhotoRequired   = pkgErrors.NewHTTPError(http.StatusBadRequest, "photo is required")
	errPhotoTooLarge   = pkgErrors.NewHTTPError(http.StatusRequestEntityTooLarge, "photo is too large")
	errInconsistent    = pkgErrors.NewHTTPError(http.StatusInternalServerError, "item was saved without its photo and could not be removed")
	errPhotoNotSaved   = pkgErrors.NewHTTPError(http.StatusInternalServerError, "photo upload failed, item was not saved")
	errLookupFailed    = pkgErrors.NewHTTPError(http.StatusInternalServerError, "item lookup failed")
	errAssetsRemaining = pkgErrors.NewHTTPError(http.StatusInternalServerError, "item deleted but some of its files remain")
)

// mapError translates use-case errors into HTTP errors from pkg/errors.
func (h *handler) mapError(err error) error {
	var (
		uploadErr *item.PhotoUploadFailedError
		assetErr  *item.AssetDeleteError
	)

	if httpErr, ok := pkgErrors.AsHTTPError(err); ok {
		return httpErr
	}

	switch {
	case errors.Is(err, item.ErrItemNotFound):
		if errors.Is(err, docstore.ErrNotFound) {
			return pkgErrors.NewHTTPError(http.StatusNotFound, "item not found")
		}
		return errLookupFailed
	case errors.Is(err, item.ErrInvalidItem):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, item.ErrEmptyPhoto):
		return errPhotoRequired
	case errors.Is(err, imaging.ErrImageTooLarge):
		return pkgErrors.NewHTTPError(http.StatusRequestEntityTooLarge, "photo dimensions are too large")
	case errors.Is(err, imaging.ErrCorruptImage):
		return pkgErrors.NewHTTPError(http.StatusBadRequest, "photo could not be decoded")
	case errors.Is(err, item.ErrInconsistentState):
		return errInconsistent
	case errors.As(err, &uploadErr):
		return errPhotoNotSaved
	case errors.As(err, &assetErr):
		return errAssetsRemaining
	default:
		return pkgErrors.ErrInternalServerError
	}
}
