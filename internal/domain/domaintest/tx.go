package domaintest

import (
	"context"
	"sync/atomic"

	"saletype/internal/core/tx"
)

// TxManager runs fn directly and counts calls.
type TxManager struct {
	calls atomic.Int64
}

var _ tx.Manager = (*TxManager)(nil)

// RunInTransaction implements tx.Manager.
func (m *TxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls.Add(1)
	return fn(ctx)
}

// Calls returns how many transactions were started.
func (m *TxManager) Calls() int64 {
	return m.calls.Load()
}
