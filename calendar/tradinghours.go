// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"fmt"
	"time"
)

// ClockTime is a local time of day with minute precision.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) Before(other ClockTime) bool {
	return c.Hour*60+c.Minute < other.Hour*60+other.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// TradingHours holds the concrete session bounds of a single trading day.
type TradingHours struct {
	Open  time.Time
	Close time.Time
}

// Contains reports whether t is within the session, open inclusive,
// close exclusive.
func (h TradingHours) Contains(t time.Time) bool {
	return !t.Before(h.Open) && t.Before(h.Close)
}
