package repro

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rebanho/rebanho-backend/internal/domain"
)

// AnimalRef identifies an animal in summary responses
type AnimalRef struct {
	ID       uint64          `json:"id"`
	Tag      string          `json:"tag"`
	Registry string          `json:"registry,omitempty"`
	Name     string          `json:"name,omitempty"`
	HerdType domain.HerdType `json:"herdType"`
}

// RefOf builds an AnimalRef from an animal row
func RefOf(a *domain.Animal) AnimalRef {
	return AnimalRef{ID: a.ID, Tag: a.Tag, Registry: a.Registry, Name: a.Name, HerdType: a.HerdType}
}

// AnimalRow is one animal's KPIs, classification and curator decision.
// Badge is the decision when one exists, otherwise the traffic light.
type AnimalRow struct {
	Animal       AnimalRef                 `json:"animal"`
	Kpis         Kpis                      `json:"kpis"`
	TrafficLight TrafficLight              `json:"trafficLight"`
	Reasons      []string                  `json:"reasons"`
	Decision     *domain.SelectionDecision `json:"decision"`
	Badge        string                    `json:"badge"`
}

// Evaluate runs the calculator and classifier for one animal and attaches its decision
func Evaluate(animal *domain.Animal, events []domain.ReproEvent, decision *domain.SelectionDecision, now time.Time, window *Window, th Thresholds) AnimalRow {
	kpis := Calculate(events, now, window)
	class := Classify(kpis, th)

	row := AnimalRow{
		Animal:       RefOf(animal),
		Kpis:         kpis,
		TrafficLight: class.TrafficLight,
		Reasons:      class.Reasons,
		Decision:     decision,
		Badge:        string(class.TrafficLight),
	}
	if decision != nil {
		row.Badge = string(decision.Decision)
	}
	return row
}

// Summary farm-level rollup. Averages skip animals with a nil value and
// report how many animals they were computed over.
type Summary struct {
	TotalAnimals int `json:"totalAnimals"`
	RedCount     int `json:"redCount"`
	YellowCount  int `json:"yellowCount"`
	GreenCount   int `json:"greenCount"`

	KeepCount    int `json:"keepCount"`
	WatchCount   int `json:"watchCount"`
	DiscardCount int `json:"discardCount"`

	AvgOpenDays   *float64 `json:"avgOpenDays"`
	OpenDaysCount int      `json:"openDaysCount"`
	AvgIepDays    *float64 `json:"avgIepDays"`
	IepDaysCount  int      `json:"iepDaysCount"`

	PregRate       *float64 `json:"pregRate"`
	PregnantCount  int      `json:"pregnantCount"`
	DiagnosisCount int      `json:"diagnosisCount"`

	OpenOverCriticalCount int      `json:"openOverCriticalCount"`
	PctOpenOverCritical   *float64 `json:"pctOpenOverCritical"`

	Thresholds Thresholds `json:"thresholds"`
}

// Summarize rolls rows up into farm statistics. An empty population yields
// zero counts and nil rates.
func Summarize(rows []AnimalRow, th Thresholds) Summary {
	s := Summary{TotalAnimals: len(rows), Thresholds: th}

	var openSum, iepSum int
	for i := range rows {
		r := &rows[i]
		switch r.TrafficLight {
		case Red:
			s.RedCount++
		case Yellow:
			s.YellowCount++
		default:
			s.GreenCount++
		}

		if r.Decision != nil {
			switch r.Decision.Decision {
			case domain.DecisionKeep:
				s.KeepCount++
			case domain.DecisionWatch:
				s.WatchCount++
			case domain.DecisionDiscard:
				s.DiscardCount++
			}
		}

		if r.Kpis.OpenDays != nil {
			openSum += *r.Kpis.OpenDays
			s.OpenDaysCount++
			if *r.Kpis.OpenDays > th.CriticalOpenDays {
				s.OpenOverCriticalCount++
			}
		}
		if r.Kpis.IepDays != nil {
			iepSum += *r.Kpis.IepDays
			s.IepDaysCount++
		}
		s.PregnantCount += r.Kpis.PregnantCount
		s.DiagnosisCount += r.Kpis.DiagnosisCount
	}

	s.AvgOpenDays = ratio(openSum, s.OpenDaysCount)
	s.AvgIepDays = ratio(iepSum, s.IepDaysCount)
	s.PregRate = ratio(s.PregnantCount, s.DiagnosisCount)
	s.PctOpenOverCritical = ratio(s.OpenOverCriticalCount*100, s.TotalAnimals)
	return s
}

func ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	v := math.Round(float64(num)/float64(den)*10000) / 10000
	return &v
}

// Rank sorts rows in place: severity first, longer open days next (nil
// last), then tag so the order is deterministic.
func Rank(rows []AnimalRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		si, sj := rows[i].TrafficLight.Severity(), rows[j].TrafficLight.Severity()
		if si != sj {
			return si > sj
		}
		oi, oj := rows[i].Kpis.OpenDays, rows[j].Kpis.OpenDays
		switch {
		case oi != nil && oj == nil:
			return true
		case oi == nil && oj != nil:
			return false
		case oi != nil && oj != nil && *oi != *oj:
			return *oi > *oj
		}
		return rows[i].Animal.Tag < rows[j].Animal.Tag
	})
}

// TopAlerts returns a ranked copy truncated to limit (limit <= 0 keeps all)
func TopAlerts(rows []AnimalRow, limit int) []AnimalRow {
	out := make([]AnimalRow, len(rows))
	copy(out, rows)
	Rank(out)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Filter narrows the selection view
type Filter struct {
	Query       string // case-insensitive substring of tag, registry or name
	OnlyAlerted bool   // drop GREEN rows
}

// Apply returns the rows that match f, preserving order
func (f Filter) Apply(rows []AnimalRow) []AnimalRow {
	q := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]AnimalRow, 0, len(rows))
	for _, r := range rows {
		if f.OnlyAlerted && r.TrafficLight == Green {
			continue
		}
		if q != "" && !matches(r.Animal, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(a AnimalRef, q string) bool {
	return strings.Contains(strings.ToLower(a.Tag), q) ||
		strings.Contains(strings.ToLower(a.Registry), q) ||
		strings.Contains(strings.ToLower(a.Name), q)
}

// Page slices rows by offset/limit, clamping out-of-range values
func Page(rows []AnimalRow, offset, limit int) []AnimalRow {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(rows) {
		return []AnimalRow{}
	}
	end := len(rows)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return rows[offset:end]
}
