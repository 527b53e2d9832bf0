// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/lotodore/localcache"
)

const cacheDateLayout = "2006-01-02"

// CachedProvider wraps a HolidayProvider and caches holiday dates per year
// in a local file cache. Useful for providers which are expensive to query,
// e.g. remote holiday calendars.
type CachedProvider struct {
	name     string
	inner    HolidayProvider
	data     *localcache.Cache
	maxAge   time.Duration
	initLock sync.Mutex
}

func NewCachedProvider(name string, inner HolidayProvider, maxAge time.Duration) (*CachedProvider, error) {
	data, err := localcache.New(name)
	if err != nil {
		return nil, fmt.Errorf("error initializing holiday cache: %v", err)
	}
	return &CachedProvider{
		name:   name,
		inner:  inner,
		data:   data,
		maxAge: maxAge,
	}, nil
}

func (p *CachedProvider) Holidays(start, end time.Time) []time.Time {
	var holidays []time.Time
	loc := start.Location()
	for year := start.Year(); year <= end.Year(); year++ {
		for _, h := range p.yearHolidays(year, loc) {
			if !h.Before(startOfDay(start)) && !h.After(startOfDay(end)) {
				holidays = append(holidays, h)
			}
		}
	}
	return holidays
}

func (p *CachedProvider) yearHolidays(year int, loc *time.Location) []time.Time {
	key := fmt.Sprintf("holidays-%d", year)
	err := p.data.PurgeKey(key, p.maxAge)
	if err != nil {
		log.Printf("error purging cache %s, holiday data may be outdated", key)
	}
	dates := p.readDatesFromCache(key)
	if dates == nil {
		dates, err = p.initYearCache(key, year, loc)
		if err != nil {
			log.Printf("error caching %s holidays: %v", p.name, err)
		}
	}
	holidays := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		h, err := time.ParseInLocation(cacheDateLayout, d, loc)
		if err != nil {
			log.Printf("%s holiday cache contains invalid date %q", p.name, d)
			continue
		}
		holidays = append(holidays, h)
	}
	return holidays
}

func (p *CachedProvider) readDatesFromCache(key string) []string {
	raw, err := p.data.ReadFile(key)
	if err == nil {
		var dates []string
		err := json.Unmarshal(raw, &dates)
		if err == nil {
			return dates
		}
		log.Printf("%s holiday cache contains invalid data", p.name)
		err = p.data.Remove(key)
		if err != nil {
			log.Printf("error deleting cache %s, holiday data may be invalid", key)
		}
	}
	return nil
}

func (p *CachedProvider) initYearCache(key string, year int, loc *time.Location) ([]string, error) {
	p.initLock.Lock()
	defer p.initLock.Unlock()
	// retry reading cache within lock, to avoid querying the provider twice.
	cachedDates := p.readDatesFromCache(key)
	if cachedDates != nil {
		return cachedDates, nil
	}
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
	holidays := p.inner.Holidays(start, end)
	dates := make([]string, 0, len(holidays))
	for _, h := range holidays {
		dates = append(dates, h.Format(cacheDateLayout))
	}
	text, err := json.Marshal(&dates)
	if err != nil {
		return nil, err
	}
	err = p.data.WriteFile(key, text)
	if err != nil {
		return nil, err
	}
	return dates, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
