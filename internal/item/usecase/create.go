package usecase

import (
	"context"
	"errors"

	"resale-inventory/internal/item"
	repo "resale-inventory/internal/item/repository"
	"resale-inventory/pkg/blobstore"
	"resale-inventory/pkg/imaging"
)

// CreateWithPhoto stores the record, then uploads the photo and links its URL. When the
// photo phase fails the record is deleted again before the error is returned, so a
// caller only ever sees a complete item or none, unless the rollback itself fails.
func (uc *implUseCase) CreateWithPhoto(ctx context.Context, input item.CreateItemInput, photo item.Photo) (string, error) {
	it := input.Item()
	if err := it.Validate(); err != nil {
		return "", err
	}
	if len(photo.Data) == 0 {
		return "", item.ErrEmptyPhoto
	}
	if !it.PlatformOfSaleConsistent() {
		uc.l.Warnf(ctx, "uc.CreateWithPhoto: platformOfSale %s not among listed platforms", *it.PlatformOfSale)
	}

	// Phase A: the record, without a picture.
	state := item.StateUncreated
	id, err := uc.repo.CreateItem(ctx, repo.CreateItemOptions{Item: it})
	if err != nil {
		uc.l.Errorf(ctx, "uc.CreateWithPhoto CreateItem: %v", err)
		return "", &item.StoreWriteError{Op: "create", Err: err}
	}
	state = uc.transition(ctx, id, state, item.StateRecordOnly)

	// Phase B: the photo.
	uploaded, step, err := uc.attachPhoto(ctx, id, it.Name, photo)
	if err == nil {
		uc.transition(ctx, id, state, item.StateComplete)
		return id, nil
	}

	uc.l.Warnf(ctx, "uc.CreateWithPhoto %s: photo %s failed, rolling back: %v", id, step, err)
	return "", uc.rollback(ctx, id, state, step, err, uploaded)
}

// attachPhoto uploads the photo and writes its URL into the record. The returned handle is
// non-nil once the upload succeeded, even if a later step failed.
func (uc *implUseCase) attachPhoto(ctx context.Context, id, name string, photo item.Photo) (*blobstore.Handle, item.PhotoStep, error) {
	contentType := photo.ContentType
	if contentType == "" {
		contentType = imaging.Sniff(photo.Data)
	}

	h, err := uc.blobs.Upload(ctx, uc.photoPath(id, name), photo.Data, contentType)
	if err != nil {
		return nil, item.StepUpload, err
	}

	url, err := uc.blobs.DownloadURL(ctx, h)
	if err != nil {
		return &h, item.StepResolveURL, err
	}

	if err := uc.repo.SetPicture(ctx, id, url); err != nil {
		return &h, item.StepSetPicture, err
	}
	return &h, "", nil
}

// rollback deletes the record created in phase A, and the uploaded photo if there is one.
func (uc *implUseCase) rollback(ctx context.Context, id string, state item.CreateState, step item.PhotoStep, cause error, uploaded *blobstore.Handle) error {
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.opt.CompensationTimeout)
	defer cancel()

	if uploaded != nil {
		if err := uc.blobs.Delete(cctx, *uploaded); err != nil {
			uc.l.Warnf(ctx, "uc.CreateWithPhoto %s: photo cleanup failed, %s orphaned: %v", id, uploaded.Path, err)
		}
	}

	failure := &item.PhotoUploadFailedError{ID: id, Step: step, Cause: cause}

	if err := uc.repo.DeleteItem(cctx, id); err != nil {
		failure.RollbackErr = err
		failure.State = uc.transition(ctx, id, state, item.StateInconsistent)
		uc.l.Errorf(ctx, "uc.CreateWithPhoto %s: rollback failed, manual cleanup required: %v", id, errors.Join(cause, err))
		return failure
	}

	failure.State = uc.transition(ctx, id, state, item.StateRolledBack)
	return failure
}
