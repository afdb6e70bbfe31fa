// Package tx is the transaction contract domain services depend on.
package tx

import "context"

// Manager runs fn in a transaction carried by ctx. A non-nil error from fn
// rolls back; nested calls join the outer transaction.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
