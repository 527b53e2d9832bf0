// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"errors"
	"fmt"
)

var (
	// ErrOffGrid is returned when a queried timestamp is not aligned to the
	// discretization grid of the calendar.
	ErrOffGrid = errors.New("timestamp is not aligned to the calendar grid")
	// ErrNoTradingTime is returned when no trading time exists at or after a
	// queried timestamp within the built range.
	ErrNoTradingTime = errors.New("no trading time within the calendar range")
	// ErrCalendarFinished is returned when stepping or reading a finished
	// calendar cursor.
	ErrCalendarFinished = errors.New("the calendar is finished, reset it to continue")
)

// ConfigError indicates an invalid exchange configuration.
// It is always a construction-time failure, never a transient condition.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid exchange configuration: %s: %s", e.Field, e.Reason)
}

func newConfigError(field string, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
