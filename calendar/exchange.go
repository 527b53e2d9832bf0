// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"time"
)

// SpecialSession overrides the weekly session hours on a single date.
type SpecialSession struct {
	Date  time.Time
	Open  ClockTime
	Close ClockTime
}

// ExchangeSettings holds the validated trading rules of a single exchange.
// It is consumed once by NewExchange; the resulting Exchange never changes.
type ExchangeSettings struct {
	Name            string
	Timezone        string
	WeeklyOpen      ClockTime
	WeeklyClose     ClockTime
	TradingDays     []time.Weekday
	Holidays        []time.Time
	SpecialSessions []SpecialSession
	// Provider optionally reports additional holidays, e.g. from a
	// business calendar. May be nil.
	Provider HolidayProvider
}

type dateKey struct {
	year  int
	month time.Month
	day   int
}

func dateKeyOf(t time.Time) dateKey {
	y, m, d := t.Date()
	return dateKey{year: y, month: m, day: d}
}

type sessionHours struct {
	open  ClockTime
	close ClockTime
}

// Exchange describes the trading schedule of a single venue.
// All methods are pure functions over the construction-time state.
type Exchange struct {
	name        string
	loc         *time.Location
	weeklyOpen  ClockTime
	weeklyClose ClockTime
	tradingDays map[time.Weekday]bool
	holidays    map[dateKey]bool
	special     map[dateKey]sessionHours
	provider    HolidayProvider
}

// NewExchange validates the settings and creates an immutable Exchange.
// All validation failures are reported as *ConfigError.
func NewExchange(s ExchangeSettings) (*Exchange, error) {
	if s.Name == "" {
		return nil, newConfigError("name", "must not be empty")
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, newConfigError("timezone", "unknown timezone %q", s.Timezone)
	}
	if !s.WeeklyOpen.Before(s.WeeklyClose) {
		return nil, newConfigError("open_time", "open time %s must be before close time %s", s.WeeklyOpen, s.WeeklyClose)
	}
	if len(s.TradingDays) == 0 {
		return nil, newConfigError("trading_days", "must not be empty")
	}
	tradingDays := make(map[time.Weekday]bool, len(s.TradingDays))
	for _, day := range s.TradingDays {
		if day < time.Sunday || day > time.Saturday {
			return nil, newConfigError("trading_days", "invalid weekday %d", day)
		}
		tradingDays[day] = true
	}
	// Holiday and special session values carry calendar dates; use their
	// own wall date instead of converting the instant between timezones.
	holidays := make(map[dateKey]bool, len(s.Holidays))
	for _, h := range s.Holidays {
		holidays[dateKeyOf(h)] = true
	}
	special := make(map[dateKey]sessionHours, len(s.SpecialSessions))
	for _, sp := range s.SpecialSessions {
		if !sp.Open.Before(sp.Close) {
			return nil, newConfigError("special_trading_days",
				"open time %s must be before close time %s", sp.Open, sp.Close)
		}
		key := dateKeyOf(sp.Date)
		if _, exists := special[key]; exists {
			return nil, newConfigError("special_trading_days",
				"duplicate date %04d-%02d-%02d", key.year, key.month, key.day)
		}
		special[key] = sessionHours{open: sp.Open, close: sp.Close}
	}
	return &Exchange{
		name:        s.Name,
		loc:         loc,
		weeklyOpen:  s.WeeklyOpen,
		weeklyClose: s.WeeklyClose,
		tradingDays: tradingDays,
		holidays:    holidays,
		special:     special,
		provider:    s.Provider,
	}, nil
}

func (e *Exchange) Name() string {
	return e.name
}

func (e *Exchange) Timezone() *time.Location {
	return e.loc
}

// IsHoliday checks whether the date of t is an exchange holiday, either from
// the configured holiday list or reported by the holiday provider.
// Both checks operate on calendar dates, not instants.
func (e *Exchange) IsHoliday(t time.Time) bool {
	local := t.In(e.loc)
	key := dateKeyOf(local)
	if e.holidays[key] {
		return true
	}
	if e.provider == nil {
		return false
	}
	day := time.Date(key.year, key.month, key.day, 0, 0, 0, 0, e.loc)
	for _, h := range e.provider.Holidays(day, day) {
		if dateKeyOf(h) == key {
			return true
		}
	}
	return false
}

// IsTradingDay checks whether the date of t is a scheduled trading day.
func (e *Exchange) IsTradingDay(t time.Time) bool {
	local := t.In(e.loc)
	return e.tradingDays[local.Weekday()] && !e.IsHoliday(local)
}

// TradingHours returns the session hours applying on the date of t.
// A special session overrides the weekly hours on its date.
func (e *Exchange) TradingHours(t time.Time) (open, close ClockTime) {
	if hours, ok := e.special[dateKeyOf(t.In(e.loc))]; ok {
		return hours.open, hours.close
	}
	return e.weeklyOpen, e.weeklyClose
}

// SessionHours returns concrete open and close times on the date of t.
func (e *Exchange) SessionHours(t time.Time) TradingHours {
	local := t.In(e.loc)
	open, close := e.TradingHours(local)
	y, m, d := local.Date()
	return TradingHours{
		Open:  time.Date(y, m, d, open.Hour, open.Minute, 0, 0, e.loc),
		Close: time.Date(y, m, d, close.Hour, close.Minute, 0, 0, e.loc),
	}
}

// IsOpen checks whether the exchange is open for trading at instant t.
// Weekday and holiday eligibility gate before session hours: a special
// session on a non-trading weekday does not force trading.
func (e *Exchange) IsOpen(t time.Time) bool {
	local := t.In(e.loc)
	if !e.IsTradingDay(local) {
		return false
	}
	return e.SessionHours(local).Contains(local)
}
