package numerator

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	corenumerator "saletype/internal/core/numerator"
)

type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

// mockQuerier simulates sys_sequences for a single key.
// Strict calls pass (key); cached calls pass (key, increment).
type mockQuerier struct {
	mu           sync.Mutex
	currentValue int64
	keys         []string
	err          error
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return &mockRow{err: m.err}
	}

	m.keys = append(m.keys, args[0].(string))

	var increment int64 = 1
	if len(args) == 2 {
		if val, ok := args[1].(int64); ok {
			increment = val
		}
	}
	m.currentValue += increment

	return &mockRow{val: m.currentValue}
}

var period = time.Date(2026, time.March, 14, 10, 0, 0, 0, time.UTC)

func TestGetNextNumber_Strict(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("SO")

	num, err := svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "SO-2026-00001", num)

	num, err = svc.GetNextNumber(ctx, cfg, nil, period)
	require.NoError(t, err)
	assert.Equal(t, "SO-2026-00002", num)

	assert.Equal(t, []string{"SO_2026", "SO_2026"}, q.keys)
}

func TestGetNextNumber_Cached(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()
	cfg := corenumerator.DefaultConfig("ORD")
	opts := &corenumerator.Options{Strategy: corenumerator.StrategyCached, RangeSize: 10}

	// First call reserves 1..10.
	num, err := svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00001", num)
	assert.Equal(t, int64(10), q.currentValue)

	// Served from memory.
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00002", num)
	assert.Equal(t, int64(10), q.currentValue)

	for i := 0; i < 8; i++ {
		_, err = svc.GetNextNumber(ctx, cfg, opts, period)
		require.NoError(t, err)
	}

	// Range exhausted: reserve 11..20.
	num, err = svc.GetNextNumber(ctx, cfg, opts, period)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-00011", num)
	assert.Equal(t, int64(20), q.currentValue)
}

func TestGetNextNumber_Format(t *testing.T) {
	tests := []struct {
		name string
		cfg  corenumerator.Config
		want string
	}{
		{
			name: "year included",
			cfg:  corenumerator.DefaultConfig("INV"),
			want: "INV-2026-00001",
		},
		{
			name: "no year custom padding",
			cfg:  corenumerator.Config{Prefix: "EXP", PadWidth: 3, ResetPeriod: "never"},
			want: "EXP-001",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(&mockQuerier{})
			num, err := svc.GetNextNumber(context.Background(), tt.cfg, nil, period)
			require.NoError(t, err)
			assert.Equal(t, tt.want, num)
		})
	}
}

func TestGetNextNumber_Errors(t *testing.T) {
	svc := New(&mockQuerier{err: errors.New("connection refused")})

	_, err := svc.GetNextNumber(context.Background(), corenumerator.DefaultConfig("SO"), nil, period)
	assert.ErrorContains(t, err, "strict next")

	_, err = svc.GetNextNumber(context.Background(), corenumerator.Config{}, nil, period)
	assert.ErrorContains(t, err, "prefix is empty")
}

func TestGetNextNumber_KeyFollowsResetPeriod(t *testing.T) {
	q := &mockQuerier{}
	svc := New(q)
	ctx := context.Background()

	for _, reset := range []corenumerator.ResetPeriod{corenumerator.ResetMonth, corenumerator.ResetYear, corenumerator.ResetNever} {
		_, err := svc.GetNextNumber(ctx, corenumerator.Config{Prefix: "SO", ResetPeriod: reset}, nil, period)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"SO_2026_03", "SO_2026", "SO"}, q.keys)
}

func TestParseNumber(t *testing.T) {
	assert.Equal(t, int64(12), ParseNumber("SO-2026-00012"))
	assert.Equal(t, int64(7), ParseNumber("EXP-007"))
	assert.Equal(t, int64(-1), ParseNumber("garbage"))
	assert.Equal(t, int64(-1), ParseNumber("SO-"))
}
