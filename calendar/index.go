// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) Lothar May

package calendar

import (
	"sort"
	"time"
)

type entry struct {
	time    time.Time
	trading bool
}

// index is a materialized timeline of discretized timestamps within a range,
// each tagged with a trading flag. Entries are strictly increasing, all in
// the exchange timezone.
type index struct {
	start       time.Time
	end         time.Time
	granularity time.Duration
	entries     []entry
}

// buildIndex generates timestamps at fixed granularity steps on the local
// wall clock from start to end, both inclusive. The flag of each timestamp is
// evaluated against the exchange schedule at build time.
//
// DST transitions follow a fixed policy: wall times which do not exist
// (spring-forward gap) are skipped, ambiguous wall times (fall-back overlap)
// resolve to the earlier UTC instant.
func buildIndex(ex *Exchange, start, end time.Time, granularity time.Duration) *index {
	loc := ex.Timezone()
	ix := &index{
		start:       start.In(loc),
		end:         end.In(loc),
		granularity: granularity,
	}
	if ix.start.After(ix.end) {
		return ix
	}
	// Step on a virtual wall clock without DST, materializing each reading
	// into the exchange timezone separately.
	wall := wallImage(ix.start)
	wallEnd := wallImage(ix.end)
	for w := wall; !w.After(wallEnd); w = w.Add(granularity) {
		t, ok := materializeWall(w, loc)
		if !ok {
			continue
		}
		ix.entries = append(ix.entries, entry{time: t, trading: ex.IsOpen(t)})
	}
	return ix
}

// wallImage maps the wall clock reading of t into UTC, where adding
// durations never crosses DST transitions.
func wallImage(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
}

// materializeWall converts a wall clock reading into an instant in loc.
// Returns false for wall times skipped by a spring-forward transition.
func materializeWall(w time.Time, loc *time.Location) (time.Time, bool) {
	t := time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), 0, loc)
	if t.Hour() != w.Hour() || t.Minute() != w.Minute() || t.Second() != w.Second() {
		// Normalized away, the wall time does not exist in loc.
		return time.Time{}, false
	}
	// A fall-back overlap maps the same wall time to two instants.
	// Prefer the earlier one.
	for _, offset := range []time.Duration{time.Hour, 30 * time.Minute} {
		alt := t.Add(-offset)
		if sameWall(alt, t) {
			return alt, true
		}
	}
	return t, true
}

func sameWall(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd &&
		a.Hour() == b.Hour() && a.Minute() == b.Minute() && a.Second() == b.Second()
}

// search returns the position of the entry exactly at t.
func (ix *index) search(t time.Time) (int, bool) {
	i := ix.searchFrom(t)
	if i < len(ix.entries) && ix.entries[i].time.Equal(t) {
		return i, true
	}
	return 0, false
}

// searchFrom returns the position of the first entry at or after t.
func (ix *index) searchFrom(t time.Time) int {
	return sort.Search(len(ix.entries), func(i int) bool {
		return !ix.entries[i].time.Before(t)
	})
}
