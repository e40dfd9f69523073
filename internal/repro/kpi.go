// Package repro computes reproductive KPIs, traffic-light alerts and herd
// rollups from an animal's event log. Everything here is pure: callers load
// events and decisions, pass them in, and serialize the results.
package repro

import (
	"math"
	"sort"
	"time"

	"github.com/rebanho/rebanho-backend/internal/domain"
)

// Window bounds the events that count toward seasonal KPIs (inclusive dates)
type Window struct {
	Start time.Time
	End   time.Time
}

// WindowOf returns the window of a breeding season, or nil for continuous mode
func WindowOf(s *domain.BreedingSeason) *Window {
	if s == nil {
		return nil
	}
	return &Window{Start: domain.DateOf(s.StartDate), End: domain.DateOf(s.EndDate)}
}

func (w *Window) contains(d time.Time) bool {
	return w == nil || (!d.Before(w.Start) && !d.After(w.End))
}

// PregCheck most recent pregnancy diagnosis
type PregCheck struct {
	Date   time.Time              `json:"date"`
	Status domain.DiagnosisStatus `json:"status"`
}

// EmptyAlerts flags derived from the latest diagnoses. IsRepeatEmpty implies IsEmpty.
type EmptyAlerts struct {
	IsEmpty       bool `json:"isEmpty"`
	IsRepeatEmpty bool `json:"isRepeatEmpty"`
}

// Kpis per-animal reproductive metrics. Nil means insufficient data, not zero.
type Kpis struct {
	LastCalvingDate *time.Time  `json:"lastCalvingDate"`
	LastPregCheck   *PregCheck  `json:"lastPregCheck"`
	OpenDays        *int        `json:"openDays"`
	IepDays         *int        `json:"iepDays"`
	PregRate        *float64    `json:"pregRate"`
	DiagnosisCount  int         `json:"diagnosisCount"`
	PregnantCount   int         `json:"pregnantCount"`
	EmptyAlerts     EmptyAlerts `json:"emptyAlerts"`
}

type diagnosis struct {
	date   time.Time
	status domain.DiagnosisStatus
}

// anchors is everything Calculate needs, extracted in one pass over the log
type anchors struct {
	lastCalving *time.Time
	prevCalving *time.Time
	diagnoses   []diagnosis // in scope, chronological
}

// SortEvents orders events by date, then by id so same-day events keep insertion order.
// Sorting is stable, so rows without ids keep the caller's order.
func SortEvents(events []domain.ReproEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		di, dj := domain.DateOf(events[i].EventDate), domain.DateOf(events[j].EventDate)
		if !di.Equal(dj) {
			return di.Before(dj)
		}
		return events[i].ID < events[j].ID
	})
}

func scan(events []domain.ReproEvent, window *Window) anchors {
	sorted := make([]domain.ReproEvent, 0, len(events))
	for _, e := range events {
		// a zero date is unusable; skip rather than fail the whole animal
		if e.EventDate.IsZero() {
			continue
		}
		sorted = append(sorted, e)
	}
	SortEvents(sorted)

	var a anchors
	for i := range sorted {
		e := &sorted[i]
		d := domain.DateOf(e.EventDate)
		switch e.Type {
		case domain.EventCalving:
			// calving anchors always come from full history
			a.prevCalving = a.lastCalving
			a.lastCalving = &d
		case domain.EventPregnancyDiagnosis:
			if !window.contains(d) {
				continue
			}
			status, ok := e.DiagnosisStatus()
			if !ok {
				continue
			}
			a.diagnoses = append(a.diagnoses, diagnosis{date: d, status: status})
		}
	}
	return a
}

// Calculate derives Kpis from an animal's events. window is nil in
// continuous mode. now is truncated to its calendar date.
func Calculate(events []domain.ReproEvent, now time.Time, window *Window) Kpis {
	a := scan(events, window)
	today := domain.DateOf(now)

	var k Kpis
	k.LastCalvingDate = a.lastCalving
	if a.lastCalving != nil && a.prevCalving != nil {
		iep := daysBetween(*a.prevCalving, *a.lastCalving)
		k.IepDays = &iep
	}

	if n := len(a.diagnoses); n > 0 {
		last := a.diagnoses[n-1]
		k.LastPregCheck = &PregCheck{Date: last.date, Status: last.status}
		k.EmptyAlerts.IsEmpty = last.status == domain.DiagnosisEmpty
		k.EmptyAlerts.IsRepeatEmpty = k.EmptyAlerts.IsEmpty && n >= 2 &&
			a.diagnoses[n-2].status == domain.DiagnosisEmpty

		k.DiagnosisCount = n
		for _, d := range a.diagnoses {
			if d.status == domain.DiagnosisPregnant {
				k.PregnantCount++
			}
		}
		rate := float64(k.PregnantCount) / float64(k.DiagnosisCount)
		k.PregRate = &rate
	}

	if anchor := openDaysAnchor(a.lastCalving, window); anchor != nil {
		end := today
		for _, d := range a.diagnoses {
			if d.status == domain.DiagnosisPregnant && !d.date.Before(*anchor) {
				end = d.date
				break
			}
		}
		open := daysBetween(*anchor, end)
		if open < 0 {
			open = 0
		}
		k.OpenDays = &open
	}

	return k
}

// openDaysAnchor is the later of the last calving and the start of breeding exposure
func openDaysAnchor(lastCalving *time.Time, window *Window) *time.Time {
	var anchor *time.Time
	if lastCalving != nil {
		anchor = lastCalving
	}
	if window != nil && (anchor == nil || window.Start.After(*anchor)) {
		start := window.Start
		anchor = &start
	}
	return anchor
}

func daysBetween(from, to time.Time) int {
	return int(math.Round(domain.DateOf(to).Sub(domain.DateOf(from)).Hours() / 24))
}
