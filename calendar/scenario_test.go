// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar_test

import (
	"testing"
	"time"
	"tradingcal/mock"

	"github.com/stretchr/testify/assert"
)

// Black box walk over the public API, mirroring a typical backtest loop.
func TestBacktestWalk(t *testing.T) {
	c := mock.NewADXCalendar(t)
	loc := c.ExchangeTimezone()
	assert.Equal(t, "Asia/Dubai", loc.String())

	tradingSteps := 0
	totalSteps := 0
	for !c.IsFinished() {
		current, err := c.CurrentTime()
		assert.NoError(t, err)
		trading, err := c.IsTradingTime(current)
		assert.NoError(t, err)
		if trading {
			tradingSteps++
		}
		assert.NoError(t, c.Step())
		totalSteps++
	}
	// 30 full days plus the inclusive end bound.
	assert.Equal(t, 30*24+1, totalSteps)
	// 21 trading days in January 2024 (Sun-Thu minus New Year), 4 hours each.
	assert.Equal(t, 21*4, tradingSteps)

	// The walk can be restarted over a different range.
	c.Reset(time.Date(2024, 2, 1, 0, 0, 0, 0, loc), time.Date(2024, 2, 2, 0, 0, 0, 0, loc))
	assert.False(t, c.IsFinished())
	current, err := c.CurrentTime()
	assert.NoError(t, err)
	assert.True(t, current.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, loc)))
}
