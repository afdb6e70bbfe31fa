// Package numerator stores numbering counters in the sys_sequences table.
package numerator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	corenumerator "saletype/internal/core/numerator"
)

// Querier is satisfied by *pgxpool.Pool. Numbers are drawn outside
// business transactions, so a rolled back document still consumes its
// number.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// bumpSQL adds $2 to the counter and returns the new value.
const bumpSQL = `
	INSERT INTO sys_sequences (key, current_val)
	VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE SET current_val = sys_sequences.current_val + EXCLUDED.current_val
	RETURNING current_val`

// block is a reserved range (next-1, last].
type block struct {
	next int64
	last int64
}

// Service implements corenumerator.Generator on PostgreSQL.
type Service struct {
	querier Querier

	mu     sync.Mutex
	blocks map[string]*block
}

var _ corenumerator.Generator = (*Service)(nil)

// New creates a numerator drawing from querier.
func New(querier Querier) *Service {
	return &Service{
		querier: querier,
		blocks:  make(map[string]*block),
	}
}

// GetNextNumber implements corenumerator.Generator.
func (s *Service) GetNextNumber(ctx context.Context, cfg corenumerator.Config, opts *corenumerator.Options, period time.Time) (string, error) {
	if s == nil || s.querier == nil {
		return "", errors.New("numerator service is not initialized")
	}
	if cfg.Prefix == "" {
		return "", errors.New("numerator prefix is empty")
	}

	key := cfg.Key(period)

	var (
		n   int64
		err error
	)
	if opts != nil && opts.Strategy == corenumerator.StrategyCached {
		n, err = s.nextCached(ctx, key, opts.RangeSize)
	} else {
		n, err = s.bump(ctx, key, 1)
		if err != nil {
			err = fmt.Errorf("strict next: %w", err)
		}
	}
	if err != nil {
		return "", err
	}
	return cfg.Format(period, n), nil
}

func (s *Service) bump(ctx context.Context, key string, by int64) (int64, error) {
	var n int64
	if err := s.querier.QueryRow(ctx, bumpSQL, key, by).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (s *Service) nextCached(ctx context.Context, key string, size int64) (int64, error) {
	if size <= 0 {
		size = corenumerator.DefaultRangeSize
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.blocks[key]
	if b == nil || b.next > b.last {
		last, err := s.bump(ctx, key, size)
		if err != nil {
			return 0, fmt.Errorf("reserve range: %w", err)
		}
		b = &block{next: last - size + 1, last: last}
		s.blocks[key] = b
	}

	n := b.next
	b.next++
	return n, nil
}

// SetNextNumber implements corenumerator.Generator. Reserved ranges of the
// key are dropped.
func (s *Service) SetNextNumber(ctx context.Context, cfg corenumerator.Config, period time.Time, value int64) error {
	key := cfg.Key(period)

	s.mu.Lock()
	delete(s.blocks, key)
	s.mu.Unlock()

	var stored int64
	err := s.querier.QueryRow(ctx, `
		INSERT INTO sys_sequences (key, current_val)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET current_val = EXCLUDED.current_val
		RETURNING current_val`, key, value).Scan(&stored)
	if err != nil {
		return fmt.Errorf("set next number: %w", err)
	}
	return nil
}

// ParseNumber returns the counter part of a formatted number, or -1.
func ParseNumber(formatted string) int64 {
	i := strings.LastIndexByte(formatted, '-')
	if i < 0 {
		return -1
	}
	n, err := strconv.ParseInt(formatted[i+1:], 10, 64)
	if err != nil {
		return -1
	}
	return n
}
