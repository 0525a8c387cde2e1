// Package aggregate derives daily summaries from completed entries.
// Everything here is a pure function of (entries, reference instant):
// no side effects, no mutation, fully re-derivable.
package aggregate

import (
	"sort"
	"time"

	"github.com/alexanderramin/stint/internal/domain"
)

// JobTotal is the summed duration for one job on a given day.
type JobTotal struct {
	JobNumber string
	Seconds   int
}

// DaySummary is the derived view of one calendar day.
type DaySummary struct {
	// Entries whose start falls on the reference day, in the same
	// relative order they were given.
	Entries []domain.Entry
	// TotalSeconds is the sum of DurationSeconds over Entries.
	TotalSeconds int
	// JobTotals groups TotalSeconds by job number, sorted by job number
	// ascending.
	JobTotals []JobTotal
}

// Summarize computes the summary for the calendar day (local time)
// containing ref. Membership is decided by the entry's start timestamp
// only; an entry that runs past midnight still counts for the day it
// started.
func Summarize(entries []domain.Entry, ref time.Time) DaySummary {
	var summary DaySummary
	totals := make(map[string]int)

	for _, e := range entries {
		if !SameDay(e.StartedAt, ref) {
			continue
		}
		summary.Entries = append(summary.Entries, e)
		summary.TotalSeconds += e.DurationSeconds
		totals[e.JobNumber] += e.DurationSeconds
	}

	summary.JobTotals = make([]JobTotal, 0, len(totals))
	for job, seconds := range totals {
		summary.JobTotals = append(summary.JobTotals, JobTotal{JobNumber: job, Seconds: seconds})
	}
	sort.Slice(summary.JobTotals, func(i, j int) bool {
		return summary.JobTotals[i].JobNumber < summary.JobTotals[j].JobNumber
	})

	return summary
}

// SameDay reports whether a and b fall on the same calendar day in
// local time.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}
