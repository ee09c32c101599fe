package billing

import "errors"

var (
	ErrNotFound         = errors.New("subscription not found")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)
