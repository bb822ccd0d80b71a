/*
errors.go - Error taxonomy for the accounting core

PURPOSE:
  All accounting errors in one place. Sentinels for errors.Is checks,
  structured types for callers that need data to decide a partial
  fulfilment or abort strategy.

CATEGORIES:
  1. Caller bugs      - ErrInvalidAmount, ErrMissingAccount. Never retried.
  2. Domain outcomes  - ErrNotEnoughGoods. Recoverable: an agent can catch
     it and skip a trade this tick.
  3. Invariant breaks - the liquidity precondition in PayLiability. Not an
     error value at all: it panics, because it means the caller's
     liquidity-raising logic is broken upstream.

SEE ALSO:
  - inventory.go: raises NotEnoughGoodsError
  - ledger.go: raises MissingAccountError
*/
package accounting

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAmount is returned when a negative quantity is passed to
	// Create or Destroy. Always a caller bug.
	ErrInvalidAmount = errors.New("invalid amount: negative quantity")

	// ErrNotEnoughGoods is returned when a Destroy cannot be satisfied by
	// the available stock. Recoverable by the caller.
	ErrNotEnoughGoods = errors.New("not enough goods")

	// ErrMissingAccount is returned when an operation references a
	// contract type that was never registered with the ledger.
	ErrMissingAccount = errors.New("no account for contract type")

	// ErrInvalidLeadTime is returned when an obligation would come due
	// before it can be opened.
	ErrInvalidLeadTime = errors.New("invalid lead time: due before open")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// NotEnoughGoodsError reports an unsatisfiable Destroy. It carries enough
// data for the caller to compute a shortfall and choose partial
// fulfilment or abort.
type NotEnoughGoodsError struct {
	Name      string
	Available float64
	Required  float64
}

func (e *NotEnoughGoodsError) Error() string {
	return fmt.Sprintf("%s available %f but required %f", e.Name, e.Available, e.Required)
}

func (e *NotEnoughGoodsError) Unwrap() error { return ErrNotEnoughGoods }

// Difference returns the shortfall (required - available).
func (e *NotEnoughGoodsError) Difference() float64 { return e.Required - e.Available }

// MissingAccountError reports a revaluation against a contract type that
// was never added to the ledger.
type MissingAccountError struct {
	Kind         AccountKind
	ContractType string
}

func (e *MissingAccountError) Error() string {
	return fmt.Sprintf("%s account not found for contract type %q", e.Kind, e.ContractType)
}

func (e *MissingAccountError) Unwrap() error { return ErrMissingAccount }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRecoverable returns true if an agent may reasonably catch the error
// and continue the tick (as opposed to a programming error).
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrNotEnoughGoods)
}

// IsCallerBug returns true for errors that indicate broken model code
// rather than a domain outcome.
func IsCallerBug(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrMissingAccount) ||
		errors.Is(err, ErrInvalidLeadTime)
}
