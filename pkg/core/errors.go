package core

import (
	"errors"
)

// Operation rejection errors. Every failed operation aborts with zero
// observable state or balance change; callers classify with errors.Is.
var (
	ErrInvalidAmount = errors.New("escrow: amount must be positive")
	ErrNotFound      = errors.New("escrow: contract not found")
	ErrInvalidState  = errors.New("escrow: operation not allowed in current status")
	ErrUnauthorized  = errors.New("escrow: caller may not perform this operation")
	ErrInvalidShare  = errors.New("escrow: client share outside 0-10000 basis points")
	ErrFeeExceedsMax = errors.New("escrow: fee exceeds 1000 basis points")

	// ErrInsufficientCustody signals a core invariant breach: a transfer
	// tried to debit more than the custodied balance. It never triggers
	// under correct engine use.
	ErrInsufficientCustody = errors.New("escrow: transfer exceeds custodied balance")
)
