package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resale-inventory/internal/item"
	"resale-inventory/pkg/blobstore"
	bsmemory "resale-inventory/pkg/blobstore/memory"
	"resale-inventory/pkg/docstore"
	dsmemory "resale-inventory/pkg/docstore/memory"
)

func TestCreateWithPhoto_Success(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.uc.CreateWithPhoto(ctx, catan(), tenBytes())
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := f.uc.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "memory://"+testBucket+"/items/"+id+"/Catan", got.Picture)
	assert.False(t, got.CreatedAt.IsZero())

	obj, ok := f.blobs.Object("items/" + id + "/Catan")
	require.True(t, ok)
	assert.Equal(t, []byte("0123456789"), obj.Data)
	assert.Equal(t, "text/plain; charset=utf-8", obj.ContentType)
}

func TestCreateWithPhoto_KeepsGivenContentType(t *testing.T) {
	f := newFixture(t)

	id, err := f.uc.CreateWithPhoto(context.Background(), catan(), item.Photo{Data: []byte("x"), ContentType: "image/webp"})
	require.NoError(t, err)

	obj, ok := f.blobs.Object("items/" + id + "/Catan")
	require.True(t, ok)
	assert.Equal(t, "image/webp", obj.ContentType)
}

func TestCreateWithPhoto_NameWithSlash(t *testing.T) {
	f := newFixture(t)
	in := catan()
	in.Name = "Catan 5/6 Player"

	id, err := f.uc.CreateWithPhoto(context.Background(), in, tenBytes())
	require.NoError(t, err)

	_, ok := f.blobs.Object("items/" + id + "/Catan 5_6 Player")
	assert.True(t, ok)
}

func TestCreateWithPhoto_Scenario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	id, err := f.uc.CreateWithPhoto(ctx, catan(), tenBytes())
	require.NoError(t, err)

	got, err := f.uc.Detail(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, got.Picture, "items/"+id+"/Catan")

	got.Status = item.StatusListed
	got.ListedPlatforms = []item.Platform{item.PlatformEbay}
	require.NoError(t, f.uc.UpdateEntire(ctx, id, got))

	after, err := f.uc.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, item.StatusListed, after.Status)
	assert.Equal(t, []item.Platform{item.PlatformEbay}, after.ListedPlatforms)
	assert.True(t, got.CreatedAt.Equal(after.CreatedAt))
	assert.Equal(t, got.Picture, after.Picture)
}

func TestCreateWithPhoto_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	bad := catan()
	bad.Condition = 11
	_, err := f.uc.CreateWithPhoto(ctx, bad, tenBytes())
	assert.ErrorIs(t, err, item.ErrInvalidItem)

	_, err = f.uc.CreateWithPhoto(ctx, catan(), item.Photo{})
	assert.ErrorIs(t, err, item.ErrEmptyPhoto)

	n, err := f.uc.CountAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, f.blobs.Len())
}

func TestCreateWithPhoto_RecordFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("permission denied")
	f.docs.FailOn(dsmemory.OpCreate, "", boom)

	_, err := f.uc.CreateWithPhoto(context.Background(), catan(), tenBytes())

	var writeErr *item.StoreWriteError
	require.ErrorAs(t, err, &writeErr)
	assert.ErrorIs(t, err, boom)

	var photoErr *item.PhotoUploadFailedError
	assert.False(t, errors.As(err, &photoErr))
	assert.Zero(t, f.blobs.Len())
}

func TestCreateWithPhoto_UploadFailureRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	boom := errors.New("quota exceeded")
	f.blobs.FailOn(bsmemory.OpUpload, "", boom)

	_, err := f.uc.CreateWithPhoto(ctx, catan(), tenBytes())

	var photoErr *item.PhotoUploadFailedError
	require.ErrorAs(t, err, &photoErr)
	assert.Equal(t, item.StepUpload, photoErr.Step)
	assert.Equal(t, item.StateRolledBack, photoErr.State)
	assert.False(t, photoErr.Inconsistent())
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, item.ErrInconsistentState)

	var blobErr *blobstore.WriteError
	assert.ErrorAs(t, err, &blobErr)

	_, err = f.uc.Detail(ctx, photoErr.ID)
	assert.ErrorIs(t, err, item.ErrItemNotFound)

	n, err := f.uc.CountAll(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateWithPhoto_LaterStepFailureRemovesPhoto(t *testing.T) {
	tests := []struct {
		name string
		fail func(f fixture, err error)
		step item.PhotoStep
	}{
		{
			name: "resolve url",
			fail: func(f fixture, err error) { f.blobs.FailOn(bsmemory.OpDownloadURL, "", err) },
			step: item.StepResolveURL,
		},
		{
			name: "set picture",
			fail: func(f fixture, err error) { f.docs.FailOn(dsmemory.OpUpdate, "", err) },
			step: item.StepSetPicture,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			boom := errors.New("unavailable")
			tc.fail(f, boom)

			_, err := f.uc.CreateWithPhoto(ctx, catan(), tenBytes())

			var photoErr *item.PhotoUploadFailedError
			require.ErrorAs(t, err, &photoErr)
			assert.Equal(t, tc.step, photoErr.Step)
			assert.Equal(t, item.StateRolledBack, photoErr.State)

			_, err = f.uc.Detail(ctx, photoErr.ID)
			assert.ErrorIs(t, err, item.ErrItemNotFound)
			assert.Zero(t, f.blobs.Len(), "uploaded photo should be cleaned up")
		})
	}
}

func TestCreateWithPhoto_PhotoCleanupFailureStillRollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	updateErr := errors.New("deadline exceeded")
	f.docs.FailOn(dsmemory.OpUpdate, "", updateErr)
	f.blobs.FailOn(bsmemory.OpDelete, "", errors.New("permission denied"))

	_, err := f.uc.CreateWithPhoto(ctx, catan(), tenBytes())

	var photoErr *item.PhotoUploadFailedError
	require.ErrorAs(t, err, &photoErr)
	assert.Equal(t, item.StepSetPicture, photoErr.Step)
	assert.Equal(t, item.StateRolledBack, photoErr.State)
	assert.False(t, photoErr.Inconsistent())
	assert.ErrorIs(t, err, updateErr)
	assert.NotErrorIs(t, err, item.ErrInconsistentState)

	_, err = f.uc.Detail(ctx, photoErr.ID)
	assert.ErrorIs(t, err, item.ErrItemNotFound)

	// The record is gone, the photo is left behind under the item's folder.
	_, ok := f.blobs.Object("items/" + photoErr.ID + "/Catan")
	assert.True(t, ok)
}

func TestCreateWithPhoto_RollbackFailureIsInconsistent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uploadErr := errors.New("quota exceeded")
	deleteErr := errors.New("connection reset")
	f.blobs.FailOn(bsmemory.OpUpload, "", uploadErr)
	f.docs.FailOn(dsmemory.OpDelete, "", deleteErr)

	_, err := f.uc.CreateWithPhoto(ctx, catan(), tenBytes())

	var photoErr *item.PhotoUploadFailedError
	require.ErrorAs(t, err, &photoErr)
	assert.True(t, photoErr.Inconsistent())
	assert.Equal(t, item.StateInconsistent, photoErr.State)
	assert.ErrorIs(t, err, item.ErrInconsistentState)
	assert.ErrorIs(t, err, uploadErr)
	assert.ErrorIs(t, err, deleteErr)
	assert.True(t, strings.Contains(err.Error(), "quota exceeded") && strings.Contains(err.Error(), "connection reset"))

	// The orphan is still there for manual cleanup.
	got, err := f.uc.Detail(ctx, photoErr.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Picture)
}

// cancelOnUpload cancels the caller's context while the upload is in flight.
type cancelOnUpload struct {
	blobstore.Store
	cancel context.CancelFunc
}

func (c cancelOnUpload) Upload(ctx context.Context, path string, data []byte, contentType string) (blobstore.Handle, error) {
	c.cancel()
	return blobstore.Handle{}, &blobstore.WriteError{Op: "upload", Path: path, Err: ctx.Err()}
}

func TestCreateWithPhoto_RollbackSurvivesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := newFixtureWithBlobs(t, func(s blobstore.Store) blobstore.Store {
		return cancelOnUpload{Store: s, cancel: cancel}
	})

	_, err := f.uc.CreateWithPhoto(ctx, catan(), tenBytes())

	var photoErr *item.PhotoUploadFailedError
	require.ErrorAs(t, err, &photoErr)
	assert.Equal(t, item.StateRolledBack, photoErr.State)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = f.docs.GetByID(context.Background(), "items", photoErr.ID)
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}
