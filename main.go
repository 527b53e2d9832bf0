// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package main

import (
	"flag"
	"log"
	"time"
	"tradingcal/calendar"
	"tradingcal/config"
)

func main() {
	configPath := flag.String("config", "exchanges/ADX.yaml", "exchange descriptor file")
	start := flag.String("start", "2024-01-01", "start date (YYYY-MM-DD)")
	end := flag.String("end", "2024-01-31", "end date (YYYY-MM-DD)")
	flag.Parse()

	exchangeConfig, err := config.LoadExchange(*configPath)
	if err != nil {
		log.Fatalf("error loading exchange configuration: %v", err)
	}
	ex, err := exchangeConfig.Build(calendar.NewDefaultRegistry())
	if err != nil {
		log.Fatalf("error building exchange: %v", err)
	}
	granularity, err := exchangeConfig.GranularityDuration()
	if err != nil {
		log.Fatalf("error reading granularity: %v", err)
	}

	loc := ex.Timezone()
	startDate, err := time.ParseInLocation("2006-01-02", *start, loc)
	if err != nil {
		log.Fatalf("invalid start date: %v", err)
	}
	endDate, err := time.ParseInLocation("2006-01-02", *end, loc)
	if err != nil {
		log.Fatalf("invalid end date: %v", err)
	}

	c, err := calendar.NewWithGranularity(ex, startDate, endDate, granularity)
	if err != nil {
		log.Fatalf("error creating calendar: %v", err)
	}
	log.Printf("created %s", c)

	next, err := c.NextTradingTime(startDate)
	if err != nil {
		log.Fatalf("no trading time in range: %v", err)
	}
	log.Printf("first trading time: %s", next)
	hours := c.ExchangeTradingHours(next)
	log.Printf("session hours on %s: %s - %s",
		next.Format("2006-01-02"),
		hours.Open.Format("15:04"),
		hours.Close.Format("15:04"))

	tradingSteps := 0
	for !c.IsFinished() {
		current, err := c.CurrentTime()
		if err != nil {
			log.Fatalf("error reading calendar: %v", err)
		}
		trading, err := c.IsTradingTime(current)
		if err != nil {
			log.Fatalf("error querying calendar: %v", err)
		}
		if trading {
			tradingSteps++
		}
		if err := c.Step(); err != nil {
			log.Fatalf("error stepping calendar: %v", err)
		}
	}
	log.Printf("walked %s: %d trading steps", c, tradingSteps)
}
