// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"sort"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
	"golang.org/x/exp/maps"
)

// HolidayProvider reports holiday dates within a range.
// Returned dates are midnight times in the location of start; both bounds
// are inclusive and compared at calendar-date granularity.
type HolidayProvider interface {
	Holidays(start, end time.Time) []time.Time
}

// BusinessCalendarProvider adapts a business calendar to the
// HolidayProvider interface. Observed holidays count as holidays.
type BusinessCalendarProvider struct {
	calendar *cal.BusinessCalendar
}

func NewBusinessCalendarProvider(c *cal.BusinessCalendar) *BusinessCalendarProvider {
	return &BusinessCalendarProvider{calendar: c}
}

func (p *BusinessCalendarProvider) Holidays(start, end time.Time) []time.Time {
	var holidays []time.Time
	y, m, d := start.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, start.Location())
	y, m, d = end.Date()
	last := time.Date(y, m, d, 0, 0, 0, 0, start.Location())
	for ; !day.After(last); day = day.AddDate(0, 0, 1) {
		actual, observed, _ := p.calendar.IsHoliday(day)
		if actual || observed {
			holidays = append(holidays, day)
		}
	}
	return holidays
}

// NewUSFederalProvider creates a provider for US federal bank holidays.
// Source for bank holidays: https://www.federalreserve.gov/aboutthefed/k8.htm
func NewUSFederalProvider() *BusinessCalendarProvider {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(
		us.NewYear,
		us.MlkDay,
		us.PresidentsDay,
		us.MemorialDay,
		us.Juneteenth,
		us.IndependenceDay,
		us.LaborDay,
		us.ColumbusDay,
		us.VeteransDay,
		us.ThanksgivingDay,
		us.ChristmasDay,
	)
	c.Cacheable = true
	return NewBusinessCalendarProvider(c)
}

// ProviderRegistry maps holiday calendar names to providers. It is injected
// where exchange configurations are built, so that configurations can refer
// to a provider by name without any global lookup.
type ProviderRegistry struct {
	providers map[string]HolidayProvider
}

func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{providers: make(map[string]HolidayProvider)}
}

// NewDefaultRegistry creates a registry with the built-in providers.
func NewDefaultRegistry() *ProviderRegistry {
	r := NewProviderRegistry()
	r.providers["USFederal"] = NewUSFederalProvider()
	return r
}

func (r *ProviderRegistry) Register(name string, p HolidayProvider) error {
	if name == "" {
		return newConfigError("holiday_calendar", "provider name must not be empty")
	}
	if _, exists := r.providers[name]; exists {
		return newConfigError("holiday_calendar", "provider %q is already registered", name)
	}
	r.providers[name] = p
	return nil
}

func (r *ProviderRegistry) Lookup(name string) (HolidayProvider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

func (r *ProviderRegistry) Names() []string {
	names := maps.Keys(r.providers)
	sort.Strings(names)
	return names
}
