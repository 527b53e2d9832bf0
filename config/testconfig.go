// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package config

// Test descriptors are not stored on disk.
// Intended only for use in unit tests.
func NewTestExchangeConfig() ExchangeConfig {
	return ExchangeConfig{
		Name:        "ADX",
		Timezone:    "Asia/Dubai",
		OpenTime:    "10:00",
		CloseTime:   "14:00",
		TradingDays: []int{0, 1, 2, 3, 6},
		Holidays:    []string{"2024-01-01"},
		SpecialTradingDays: []SpecialDayConfig{
			{Date: "2024-07-01", OpenTime: "10:30", CloseTime: "13:30"},
		},
	}
}
