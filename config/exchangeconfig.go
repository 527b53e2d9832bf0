// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

import (
	"fmt"
	"os"
	"time"
	"tradingcal/calendar"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"
const clockLayout = "15:04"

// SpecialDayConfig describes a date-specific override of the session hours.
type SpecialDayConfig struct {
	Date      string `yaml:"date"`
	OpenTime  string `yaml:"open_time"`
	CloseTime string `yaml:"close_time"`
}

// ExchangeConfig is the serialized descriptor of a single exchange.
// Weekday codes follow the descriptor convention Mon=0..Sun=6.
type ExchangeConfig struct {
	Name               string             `yaml:"name"`
	Timezone           string             `yaml:"timezone"`
	OpenTime           string             `yaml:"open_time"`
	CloseTime          string             `yaml:"close_time"`
	TradingDays        []int              `yaml:"trading_days"`
	Holidays           []string           `yaml:"holidays"`
	SpecialTradingDays []SpecialDayConfig `yaml:"special_trading_days,omitempty"`
	HolidayCalendar    string             `yaml:"holiday_calendar,omitempty"`
	Granularity        string             `yaml:"granularity,omitempty"`
}

// LoadExchange reads and validates an exchange descriptor file.
func LoadExchange(path string) (*ExchangeConfig, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read exchange configuration: %v", err)
	}
	var c ExchangeConfig
	err = yaml.Unmarshal(file, &c)
	if err != nil {
		return nil, fmt.Errorf("failed to parse exchange configuration: %v", err)
	}
	err = c.Validate()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func marshalExchange(c *ExchangeConfig) ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("error generating exchange configuration: %v", err)
	}
	return data, nil
}

// Validate checks that all required descriptor fields are present.
// Value-level validation happens when the exchange is built.
func (c *ExchangeConfig) Validate() error {
	if c.Name == "" {
		return missingField("name")
	}
	if c.Timezone == "" {
		return missingField("timezone")
	}
	if c.OpenTime == "" {
		return missingField("open_time")
	}
	if c.CloseTime == "" {
		return missingField("close_time")
	}
	if c.TradingDays == nil {
		return missingField("trading_days")
	}
	if c.Holidays == nil {
		return missingField("holidays")
	}
	return nil
}

func missingField(field string) error {
	return &calendar.ConfigError{Field: field, Reason: "missing required field"}
}

// Build converts the descriptor into an immutable exchange. The holiday
// calendar name, if set, is resolved against the given registry.
func (c *ExchangeConfig) Build(registry *calendar.ProviderRegistry) (*calendar.Exchange, error) {
	err := c.Validate()
	if err != nil {
		return nil, err
	}
	open, err := parseClock("open_time", c.OpenTime)
	if err != nil {
		return nil, err
	}
	close, err := parseClock("close_time", c.CloseTime)
	if err != nil {
		return nil, err
	}
	days := make([]time.Weekday, 0, len(c.TradingDays))
	for _, code := range c.TradingDays {
		day, err := weekdayFromCode(code)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	holidays := make([]time.Time, 0, len(c.Holidays))
	for _, date := range c.Holidays {
		d, err := parseDate("holidays", date)
		if err != nil {
			return nil, err
		}
		holidays = append(holidays, d)
	}
	special := make([]calendar.SpecialSession, 0, len(c.SpecialTradingDays))
	for _, s := range c.SpecialTradingDays {
		d, err := parseDate("special_trading_days", s.Date)
		if err != nil {
			return nil, err
		}
		o, err := parseClock("special_trading_days", s.OpenTime)
		if err != nil {
			return nil, err
		}
		cl, err := parseClock("special_trading_days", s.CloseTime)
		if err != nil {
			return nil, err
		}
		special = append(special, calendar.SpecialSession{Date: d, Open: o, Close: cl})
	}
	var provider calendar.HolidayProvider
	if c.HolidayCalendar != "" {
		if registry == nil {
			return nil, &calendar.ConfigError{
				Field:  "holiday_calendar",
				Reason: "no provider registry available",
			}
		}
		p, ok := registry.Lookup(c.HolidayCalendar)
		if !ok {
			return nil, &calendar.ConfigError{
				Field:  "holiday_calendar",
				Reason: fmt.Sprintf("unknown holiday calendar %q", c.HolidayCalendar),
			}
		}
		provider = p
	}
	return calendar.NewExchange(calendar.ExchangeSettings{
		Name:            c.Name,
		Timezone:        c.Timezone,
		WeeklyOpen:      open,
		WeeklyClose:     close,
		TradingDays:     days,
		Holidays:        holidays,
		SpecialSessions: special,
		Provider:        provider,
	})
}

// GranularityDuration parses the optional granularity field,
// falling back to the calendar default.
func (c *ExchangeConfig) GranularityDuration() (time.Duration, error) {
	if c.Granularity == "" {
		return calendar.DefaultGranularity, nil
	}
	d, err := time.ParseDuration(c.Granularity)
	if err != nil || d <= 0 {
		return 0, &calendar.ConfigError{
			Field:  "granularity",
			Reason: fmt.Sprintf("invalid duration %q", c.Granularity),
		}
	}
	return d, nil
}

func parseClock(field, value string) (calendar.ClockTime, error) {
	t, err := time.Parse(clockLayout, value)
	if err != nil {
		return calendar.ClockTime{}, &calendar.ConfigError{
			Field:  field,
			Reason: fmt.Sprintf("invalid time %q, expected HH:MM", value),
		}
	}
	return calendar.ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func parseDate(field, value string) (time.Time, error) {
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &calendar.ConfigError{
			Field:  field,
			Reason: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", value),
		}
	}
	return d, nil
}

// weekdayFromCode maps descriptor weekday codes (Mon=0..Sun=6)
// to time.Weekday.
func weekdayFromCode(code int) (time.Weekday, error) {
	if code < 0 || code > 6 {
		return 0, &calendar.ConfigError{
			Field:  "trading_days",
			Reason: fmt.Sprintf("invalid weekday code %d", code),
		}
	}
	return time.Weekday((code + 1) % 7), nil
}
