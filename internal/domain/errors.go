package domain

import "errors"

var (
	ErrAuthorNotFound         = errors.New("author not found")
	ErrTenantUnavailable      = errors.New("tenant unavailable")
	ErrContentNotFound        = errors.New("content not found")
	ErrTemporarilyUnavailable = errors.New("temporarily unavailable")
)
