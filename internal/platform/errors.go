package platform

import "errors"

var (
	// ErrForbidden indicates the platform rejected an operation for missing
	// bot permissions.
	ErrForbidden = errors.New("platform: forbidden")

	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("platform: not found")
)
