// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"fmt"
	"time"
)

// DefaultGranularity is the discretization step used by New.
const DefaultGranularity = time.Hour

// TradingCalendar is a discretized, queryable timeline of trading and
// non-trading timestamps within a date range, plus a cursor for stepping
// through it. Used by simulation and backtest loops.
//
// A TradingCalendar is not safe for concurrent use; Reset, Step and the
// query operations share internal state without locking.
type TradingCalendar struct {
	exchange    *Exchange
	granularity time.Duration
	index       *index
	step        int
}

// New creates a calendar for the exchange covering [start, end] at the
// default hourly granularity.
func New(ex *Exchange, start, end time.Time) (*TradingCalendar, error) {
	return NewWithGranularity(ex, start, end, DefaultGranularity)
}

// NewWithGranularity creates a calendar with a custom discretization step.
// A zero granularity selects the default.
func NewWithGranularity(ex *Exchange, start, end time.Time, granularity time.Duration) (*TradingCalendar, error) {
	if granularity == 0 {
		granularity = DefaultGranularity
	}
	if granularity < 0 {
		return nil, newConfigError("granularity", "must be positive, got %s", granularity)
	}
	return &TradingCalendar{
		exchange:    ex,
		granularity: granularity,
		index:       buildIndex(ex, start, end, granularity),
	}, nil
}

// IsTradingTime checks whether the exchange is open at t. The timestamp must
// be exactly aligned to the discretization grid within the built range,
// otherwise ErrOffGrid is returned.
func (c *TradingCalendar) IsTradingTime(t time.Time) (bool, error) {
	i, ok := c.index.search(t.In(c.exchange.Timezone()))
	if !ok {
		return false, fmt.Errorf("%s: %w", t, ErrOffGrid)
	}
	return c.index.entries[i].trading, nil
}

// NextTradingTime returns the first trading timestamp at or after t.
// Returns ErrNoTradingTime if no trading time exists within the built range;
// callers needing a later time must Reset with a larger range.
func (c *TradingCalendar) NextTradingTime(t time.Time) (time.Time, error) {
	for i := c.index.searchFrom(t.In(c.exchange.Timezone())); i < len(c.index.entries); i++ {
		if c.index.entries[i].trading {
			return c.index.entries[i].time, nil
		}
	}
	return time.Time{}, fmt.Errorf("after %s: %w", t, ErrNoTradingTime)
}

// TradingTimes returns the trading timestamps between start and end,
// both inclusive.
func (c *TradingCalendar) TradingTimes(start, end time.Time) []time.Time {
	loc := c.exchange.Timezone()
	last := end.In(loc)
	times := make([]time.Time, 0)
	for i := c.index.searchFrom(start.In(loc)); i < len(c.index.entries); i++ {
		if c.index.entries[i].time.After(last) {
			break
		}
		if c.index.entries[i].trading {
			times = append(times, c.index.entries[i].time)
		}
	}
	return times
}

// Reset replaces the range bounds and rewinds the cursor to the beginning.
// A zero start or end keeps the current bound. The timeline is fully rebuilt
// if either bound changed.
func (c *TradingCalendar) Reset(start, end time.Time) {
	changed := false
	if !start.IsZero() && !start.Equal(c.index.start) {
		c.index.start = start.In(c.exchange.Timezone())
		changed = true
	}
	if !end.IsZero() && !end.Equal(c.index.end) {
		c.index.end = end.In(c.exchange.Timezone())
		changed = true
	}
	if changed {
		c.index = buildIndex(c.exchange, c.index.start, c.index.end, c.granularity)
	}
	c.step = 0
}

// Step advances the cursor by one timestamp.
// Returns ErrCalendarFinished once the end of the timeline is reached.
func (c *TradingCalendar) Step() error {
	if c.IsFinished() {
		return fmt.Errorf("step %d: %w", c.step, ErrCalendarFinished)
	}
	c.step++
	return nil
}

// CurrentTime returns the timestamp at the cursor position.
func (c *TradingCalendar) CurrentTime() (time.Time, error) {
	if c.IsFinished() {
		return time.Time{}, fmt.Errorf("step %d: %w", c.step, ErrCalendarFinished)
	}
	return c.index.entries[c.step].time, nil
}

// IsFinished checks whether the cursor has stepped past the last timestamp.
// An empty timeline starts finished.
func (c *TradingCalendar) IsFinished() bool {
	return c.step >= len(c.index.entries)
}

// ExchangeTradingHours returns the session hours of the exchange on the
// date of t, honoring special sessions.
func (c *TradingCalendar) ExchangeTradingHours(t time.Time) TradingHours {
	return c.exchange.SessionHours(t)
}

func (c *TradingCalendar) ExchangeTimezone() *time.Location {
	return c.exchange.Timezone()
}

func (c *TradingCalendar) String() string {
	return fmt.Sprintf("TradingCalendar(%s, %s~%s, Step: [%d/%d])",
		c.exchange.Name(),
		c.index.start.Format("2006-01-02"),
		c.index.end.Format("2006-01-02"),
		c.step, len(c.index.entries))
}
