package profiles

import "errors"

var (
	ErrNotFound        = errors.New("profile not found")
	ErrVersionConflict = errors.New("profile was modified by another request")
)
