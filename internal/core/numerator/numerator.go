// Package numerator defines how documents and catalog codes are numbered.
// The storage of sequence counters lives in infrastructure/numerator.
package numerator

import (
	"context"
	"fmt"
	"time"
)

// Generator hands out formatted numbers, e.g. SO-2026-00001.
type Generator interface {
	GetNextNumber(ctx context.Context, cfg Config, opts *Options, period time.Time) (string, error)

	// SetNextNumber moves the counter so the next number is value+1.
	SetNextNumber(ctx context.Context, cfg Config, period time.Time, value int64) error
}

// Strategy selects how counters are drawn from the database.
type Strategy int

const (
	// StrategyStrict increments the counter once per number. No gaps.
	StrategyStrict Strategy = iota

	// StrategyCached reserves a range of numbers in memory. A restart
	// leaves a gap of at most RangeSize numbers.
	StrategyCached
)

// DefaultRangeSize is reserved at once by StrategyCached.
const DefaultRangeSize int64 = 50

// Options tune a single GetNextNumber call. A nil *Options means strict.
type Options struct {
	Strategy  Strategy
	RangeSize int64
}

// ResetPeriod is how often a counter restarts at 1.
type ResetPeriod string

const (
	ResetNever ResetPeriod = "never"
	ResetYear  ResetPeriod = "year"
	ResetMonth ResetPeriod = "month"
)

// Valid reports whether p is a known period. Empty means ResetNever.
func (p ResetPeriod) Valid() bool {
	switch p {
	case "", ResetNever, ResetYear, ResetMonth:
		return true
	}
	return false
}

// DefaultPadWidth is used when Config.PadWidth is zero.
const DefaultPadWidth = 5

// Config describes one numbering sequence.
type Config struct {
	Prefix      string
	IncludeYear bool
	PadWidth    int
	ResetPeriod ResetPeriod
}

// DefaultConfig is a yearly sequence: PREFIX-YYYY-NNNNN.
func DefaultConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		IncludeYear: true,
		PadWidth:    DefaultPadWidth,
		ResetPeriod: ResetYear,
	}
}

// Key identifies the counter that serves period.
func (c Config) Key(period time.Time) string {
	switch c.ResetPeriod {
	case ResetMonth:
		return c.Prefix + "_" + period.Format("2006_01")
	case ResetYear:
		return c.Prefix + "_" + period.Format("2006")
	default:
		return c.Prefix
	}
}

// Format renders counter value n.
func (c Config) Format(period time.Time, n int64) string {
	width := c.PadWidth
	if width <= 0 {
		width = DefaultPadWidth
	}
	if c.IncludeYear {
		return fmt.Sprintf("%s-%s-%0*d", c.Prefix, period.Format("2006"), width, n)
	}
	return fmt.Sprintf("%s-%0*d", c.Prefix, width, n)
}
