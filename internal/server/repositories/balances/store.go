// Package balances keeps transport balances keyed by owner. Absent owners
// have a zero balance; balances only change through Increment, which is
// atomic per owner in every implementation.
package balances

import "context"

type Store interface {
	Get(ctx context.Context, ownerID int64) (float64, error)
	// Increment adds amount to the owner's balance and returns the result.
	// Callers validate amount; stores do not.
	Increment(ctx context.Context, ownerID int64, amount float64) (float64, error)
}
