package domain

import "github.com/pkg/errors"

var (
	// ErrInvalidTransaction marks a transaction rejected by validation:
	// malformed amount/price or a sell exceeding the held amount.
	// Rejected transactions never reach the log.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrPriceUnavailable marks a held asset with no usable price snapshot.
	ErrPriceUnavailable = errors.New("price unavailable")
)
