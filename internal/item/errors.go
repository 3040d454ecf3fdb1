package item

import (
	"errors"
	"fmt"
)

var (
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidItem       = errors.New("invalid item")
	ErrEmptyPhoto        = errors.New("photo is empty")
	ErrInconsistentState = errors.New("item left in inconsistent state")
	ErrBulkDeleteFailed  = errors.New("bulk delete failed")
)

// ItemNotFoundError is returned when a lookup produced no item. Cause keeps the underlying
// error so a missing record and a transport failure can still be told apart.
type ItemNotFoundError struct {
	ID    string
	Cause error
}

func (e *ItemNotFoundError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("item %s not found", e.ID)
	}
	return fmt.Sprintf("item %s not found: %v", e.ID, e.Cause)
}

func (e *ItemNotFoundError) Is(target error) bool { return target == ErrItemNotFound }
func (e *ItemNotFoundError) Unwrap() error        { return e.Cause }

// StoreWriteError is a failed write of the item record.
type StoreWriteError struct {
	Op  string
	ID  string
	Err error
}

func (e *StoreWriteError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("item %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("item %s %s failed: %v", e.Op, e.ID, e.Err)
}

func (e *StoreWriteError) Unwrap() error { return e.Err }

// PhotoStep names the part of the photo phase that failed.
type PhotoStep string

const (
	StepUpload     PhotoStep = "upload"
	StepResolveURL PhotoStep = "resolve_url"
	StepSetPicture PhotoStep = "set_picture"
)

// PhotoUploadFailedError reports a failed photo phase of CreateWithPhoto. When RollbackErr is
// set the record could not be removed and State is StateInconsistent.
type PhotoUploadFailedError struct {
	ID          string
	Step        PhotoStep
	Cause       error
	RollbackErr error
	State       CreateState
}

func (e *PhotoUploadFailedError) Error() string {
	if e.RollbackErr != nil {
		return fmt.Sprintf("photo %s for item %s failed: %v; rollback failed, record remains: %v",
			e.Step, e.ID, e.Cause, e.RollbackErr)
	}
	return fmt.Sprintf("photo %s for item %s failed, record rolled back: %v", e.Step, e.ID, e.Cause)
}

// Inconsistent reports whether the orphaned record is still stored.
func (e *PhotoUploadFailedError) Inconsistent() bool {
	return e.RollbackErr != nil
}

func (e *PhotoUploadFailedError) Is(target error) bool {
	return target == ErrInconsistentState && e.Inconsistent()
}

func (e *PhotoUploadFailedError) Unwrap() []error {
	if e.RollbackErr != nil {
		return []error{e.Cause, e.RollbackErr}
	}
	return []error{e.Cause}
}

// AssetDeleteError is returned after the record was deleted but some of its assets were not.
type AssetDeleteError struct {
	ID  string
	Err error
}

func (e *AssetDeleteError) Error() string {
	return fmt.Sprintf("item %s deleted but assets remain: %v", e.ID, e.Err)
}

func (e *AssetDeleteError) Unwrap() error { return e.Err }
