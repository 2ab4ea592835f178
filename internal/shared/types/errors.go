package types

import "errors"

var (
	ErrInvalidRangeKey   = errors.New("invalid range key")
	ErrSourceUnavailable = errors.New("report source unavailable")
	ErrMalformedReport   = errors.New("malformed report export")
	ErrStoreRead         = errors.New("tabular store read failed")
	ErrStoreWrite        = errors.New("tabular store write failed")
	ErrConfig            = errors.New("invalid configuration")
)
