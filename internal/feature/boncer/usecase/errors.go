// Package usecase implements the boncer valuation flow.
package usecase

import "errors"

var (
	// ErrSourceUnavailable is returned when the cashflow table cannot be read.
	ErrSourceUnavailable = errors.New("cashflow source unavailable")

	// ErrStructural marks a cashflow table missing a required column.
	ErrStructural = errors.New("cashflow table is missing required columns")

	// ErrNoValidQuotes is returned when a price push has no usable item.
	ErrNoValidQuotes = errors.New("no valid quote in payload")

	// ErrQuoteStoreUnavailable is returned when pushed prices cannot be stored.
	ErrQuoteStoreUnavailable = errors.New("quote store unavailable")
)
