// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package mock

import (
	"testing"
	"time"
	"tradingcal/calendar"

	"github.com/stretchr/testify/assert"
)

// NewADXExchange creates the Abu Dhabi exchange used as a fixture across
// test suites: Sun-Thu 10:00-14:00, New Year holiday, one special session.
func NewADXExchange(t *testing.T) *calendar.Exchange {
	ex, err := calendar.NewExchange(calendar.ExchangeSettings{
		Name:        "ADX",
		Timezone:    "Asia/Dubai",
		WeeklyOpen:  calendar.ClockTime{Hour: 10},
		WeeklyClose: calendar.ClockTime{Hour: 14},
		TradingDays: []time.Weekday{
			time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		},
		Holidays: []time.Time{
			time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		SpecialSessions: []calendar.SpecialSession{
			{
				Date:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
				Open:  calendar.ClockTime{Hour: 10, Minute: 30},
				Close: calendar.ClockTime{Hour: 13, Minute: 30},
			},
		},
	})
	assert.NoError(t, err)
	return ex
}

// NewADXCalendar creates an hourly calendar over January 2024 for the
// fixture exchange.
func NewADXCalendar(t *testing.T) *calendar.TradingCalendar {
	ex := NewADXExchange(t)
	loc := ex.Timezone()
	c, err := calendar.New(ex,
		time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
		time.Date(2024, 1, 31, 0, 0, 0, 0, loc))
	assert.NoError(t, err)
	return c
}
