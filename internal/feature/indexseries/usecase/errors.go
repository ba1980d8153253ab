// Package usecase implements the cached index series store.
package usecase

import "errors"

var (
	// ErrMalformedDocument is returned by sources when the document lacks the series mapping.
	ErrMalformedDocument = errors.New("index document is malformed")

	// ErrSourceUnavailable is returned by sources when the backing document cannot be read.
	ErrSourceUnavailable = errors.New("index source unavailable")
)
