package tides

import "errors"

// Failure kinds surfaced to callers. Wrap with fmt.Errorf("...: %w")
// and test with errors.Is.
var (
	// ErrValidation means the input was malformed; nothing touched disk.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound means the referenced tide id does not exist.
	ErrNotFound = errors.New("tide not found")
	// ErrInvalidState means the transition is not allowed from the current status.
	ErrInvalidState = errors.New("invalid state transition")

	// ErrCorruptStore means an existing store file could not be parsed.
	ErrCorruptStore = errors.New("store file is corrupt")
	// ErrStoreWrite means the atomic replace failed; the old file is intact.
	ErrStoreWrite = errors.New("store write failed")
	// ErrStoreBusy means the store lock was not acquired in time.
	ErrStoreBusy = errors.New("store is busy")
	// ErrStoreUnavailable means the configured location is not usable.
	ErrStoreUnavailable = errors.New("store location unavailable")

	// ErrInvalidDocument means an encoded collection failed schema validation.
	ErrInvalidDocument = errors.New("invalid store document")
)
