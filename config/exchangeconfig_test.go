// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	"tradingcal/calendar"

	"github.com/stretchr/testify/assert"
)

const testExchangeYaml = `name: ADX
timezone: Asia/Dubai
open_time: "10:00"
close_time: "14:00"
trading_days: [0, 1, 2, 3, 6]
holidays:
  - "2024-01-01"
special_trading_days:
  - date: "2024-07-01"
    open_time: "10:30"
    close_time: "13:30"
`

func writeTestExchange(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "ADX.yaml")
	err := os.WriteFile(path, []byte(content), 0600)
	assert.NoError(t, err)
	return path
}

func TestLoadExchange(t *testing.T) {
	c, err := LoadExchange(writeTestExchange(t, testExchangeYaml))
	assert.NoError(t, err)
	assert.Equal(t, "ADX", c.Name)
	assert.Equal(t, "Asia/Dubai", c.Timezone)
	assert.Equal(t, "10:00", c.OpenTime)
	assert.Equal(t, "14:00", c.CloseTime)
	assert.Equal(t, []int{0, 1, 2, 3, 6}, c.TradingDays)
	assert.Equal(t, []string{"2024-01-01"}, c.Holidays)
	assert.Equal(t, 1, len(c.SpecialTradingDays))
}

func TestLoadExchangeMissingFields(t *testing.T) {
	var configErr *calendar.ConfigError
	_, err := LoadExchange(writeTestExchange(t, "name: ADX\ntimezone: Asia/Dubai\n"))
	assert.True(t, errors.As(err, &configErr))
	assert.Equal(t, "open_time", configErr.Field)

	_, err = LoadExchange(writeTestExchange(t, "timezone: Asia/Dubai\n"))
	assert.True(t, errors.As(err, &configErr))
	assert.Equal(t, "name", configErr.Field)
}

func TestValidateRequiredFields(t *testing.T) {
	var configErr *calendar.ConfigError
	fields := []struct {
		name  string
		strip func(*ExchangeConfig)
	}{
		{"name", func(c *ExchangeConfig) { c.Name = "" }},
		{"timezone", func(c *ExchangeConfig) { c.Timezone = "" }},
		{"open_time", func(c *ExchangeConfig) { c.OpenTime = "" }},
		{"close_time", func(c *ExchangeConfig) { c.CloseTime = "" }},
		{"trading_days", func(c *ExchangeConfig) { c.TradingDays = nil }},
		{"holidays", func(c *ExchangeConfig) { c.Holidays = nil }},
	}
	for _, f := range fields {
		c := NewTestExchangeConfig()
		f.strip(&c)
		err := c.Validate()
		assert.True(t, errors.As(err, &configErr), f.name)
		assert.Equal(t, f.name, configErr.Field)
	}
	// An empty holiday list is valid, only a missing one is not.
	c := NewTestExchangeConfig()
	c.Holidays = []string{}
	assert.NoError(t, c.Validate())
}

func TestBuildExchange(t *testing.T) {
	c := NewTestExchangeConfig()
	ex, err := c.Build(calendar.NewDefaultRegistry())
	assert.NoError(t, err)
	assert.Equal(t, "ADX", ex.Name())
	assert.Equal(t, "Asia/Dubai", ex.Timezone().String())

	loc := ex.Timezone()
	assert.False(t, ex.IsTradingDay(time.Date(2024, 1, 1, 0, 0, 0, 0, loc)))
	assert.True(t, ex.IsTradingDay(time.Date(2024, 1, 2, 0, 0, 0, 0, loc)))
	// Sunday is a trading day, Friday is not.
	assert.True(t, ex.IsTradingDay(time.Date(2024, 1, 7, 0, 0, 0, 0, loc)))
	assert.False(t, ex.IsTradingDay(time.Date(2024, 1, 12, 0, 0, 0, 0, loc)))

	open, close := ex.TradingHours(time.Date(2024, 7, 1, 0, 0, 0, 0, loc))
	assert.Equal(t, calendar.ClockTime{Hour: 10, Minute: 30}, open)
	assert.Equal(t, calendar.ClockTime{Hour: 13, Minute: 30}, close)
}

func TestBuildExchangeErrors(t *testing.T) {
	var configErr *calendar.ConfigError

	c := NewTestExchangeConfig()
	c.OpenTime = "25:00"
	_, err := c.Build(nil)
	assert.True(t, errors.As(err, &configErr))
	assert.Equal(t, "open_time", configErr.Field)

	c = NewTestExchangeConfig()
	c.OpenTime = "14:00"
	c.CloseTime = "10:00"
	_, err = c.Build(nil)
	assert.True(t, errors.As(err, &configErr))
	assert.Equal(t, "open_time", configErr.Field)

	c = NewTestExchangeConfig()
	c.TradingDays = []int{0, 7}
	_, err = c.Build(nil)
	assert.True(t, errors.As(err, &configErr))
	assert.Equal(t, "trading_days", configErr.Field)

	c = NewTestExchangeConfig()
	c.Holidays = []string{"01.01.2024"}
	_, err = c.Build(nil)
	assert.True(t, errors.As(err, &configErr))
	assert.Equal(t, "holidays", configErr.Field)

	c = NewTestExchangeConfig()
	c.SpecialTradingDays = append(c.SpecialTradingDays,
		SpecialDayConfig{Date: "2024-07-01", OpenTime: "09:00", CloseTime: "12:00"})
	_, err = c.Build(nil)
	assert.True(t, errors.As(err, &configErr))
	assert.Equal(t, "special_trading_days", configErr.Field)

	c = NewTestExchangeConfig()
	c.HolidayCalendar = "Unknown"
	_, err = c.Build(calendar.NewDefaultRegistry())
	assert.True(t, errors.As(err, &configErr))
	assert.Equal(t, "holiday_calendar", configErr.Field)

	c = NewTestExchangeConfig()
	c.HolidayCalendar = "USFederal"
	_, err = c.Build(nil)
	assert.True(t, errors.As(err, &configErr))
	assert.Equal(t, "holiday_calendar", configErr.Field)
}

func TestBuildExchangeWithProvider(t *testing.T) {
	c := NewTestExchangeConfig()
	c.Timezone = "America/New_York"
	c.TradingDays = []int{0, 1, 2, 3, 4}
	c.HolidayCalendar = "USFederal"
	ex, err := c.Build(calendar.NewDefaultRegistry())
	assert.NoError(t, err)
	loc := ex.Timezone()
	// Independence Day 2024 comes from the provider, not the holiday list.
	assert.True(t, ex.IsHoliday(time.Date(2024, 7, 4, 0, 0, 0, 0, loc)))
	assert.False(t, ex.IsTradingDay(time.Date(2024, 7, 4, 0, 0, 0, 0, loc)))
	assert.True(t, ex.IsTradingDay(time.Date(2024, 7, 3, 0, 0, 0, 0, loc)))
}

func TestGranularityDuration(t *testing.T) {
	c := NewTestExchangeConfig()
	d, err := c.GranularityDuration()
	assert.NoError(t, err)
	assert.Equal(t, calendar.DefaultGranularity, d)

	c.Granularity = "30m"
	d, err = c.GranularityDuration()
	assert.NoError(t, err)
	assert.Equal(t, 30*time.Minute, d)

	var configErr *calendar.ConfigError
	c.Granularity = "sometimes"
	_, err = c.GranularityDuration()
	assert.True(t, errors.As(err, &configErr))

	c.Granularity = "-1h"
	_, err = c.GranularityDuration()
	assert.True(t, errors.As(err, &configErr))
}
