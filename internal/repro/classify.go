package repro

import (
	"fmt"

	"github.com/rebanho/rebanho-backend/internal/common"
)

// TrafficLight three-level reproductive alert
type TrafficLight string

const (
	Green  TrafficLight = "GREEN"
	Yellow TrafficLight = "YELLOW"
	Red    TrafficLight = "RED"
)

// Severity orders lights for ranking: RED > YELLOW > GREEN
func (t TrafficLight) Severity() int {
	switch t {
	case Red:
		return 2
	case Yellow:
		return 1
	}
	return 0
}

// Thresholds open-days limits. An animal is flagged when openDays is
// strictly greater than the threshold.
type Thresholds struct {
	WarningOpenDays  int `json:"warningOpenDays"`
	CriticalOpenDays int `json:"criticalOpenDays"`
}

// DefaultThresholds matches the 180-day policy shown to curators
func DefaultThresholds() Thresholds {
	return Thresholds{WarningOpenDays: 120, CriticalOpenDays: 180}
}

// Validate requires 0 < warning < critical
func (t Thresholds) Validate() error {
	if t.WarningOpenDays <= 0 {
		return common.NewValidationError("warningOpenDays", "limite de alerta deve ser positivo")
	}
	if t.CriticalOpenDays <= t.WarningOpenDays {
		return common.NewValidationError("criticalOpenDays", "limite crítico deve ser maior que o limite de alerta")
	}
	return nil
}

// Reason strings shown to curators
const (
	ReasonRepeatEmpty = "Vazia em 2 diagnósticos consecutivos"
	ReasonEmpty       = "Último diagnóstico vazia"
)

// OpenDaysReason formats the open-days reason for the crossed threshold
func OpenDaysReason(threshold int) string {
	return fmt.Sprintf("Mais de %d dias em aberto", threshold)
}

// Classification traffic light plus one reason per triggered rule
type Classification struct {
	TrafficLight TrafficLight `json:"trafficLight"`
	Reasons      []string     `json:"reasons"`
}

// Classify maps KPIs to a traffic light. Every triggered rule contributes a
// reason; the light is the most severe one. Reasons are ordered empty
// diagnosis first, then open days.
func Classify(k Kpis, th Thresholds) Classification {
	c := Classification{TrafficLight: Green, Reasons: []string{}}

	raise := func(level TrafficLight, reason string) {
		if level.Severity() > c.TrafficLight.Severity() {
			c.TrafficLight = level
		}
		c.Reasons = append(c.Reasons, reason)
	}

	switch {
	case k.EmptyAlerts.IsRepeatEmpty:
		raise(Red, ReasonRepeatEmpty)
	case k.EmptyAlerts.IsEmpty:
		raise(Yellow, ReasonEmpty)
	}

	if k.OpenDays != nil {
		switch open := *k.OpenDays; {
		case open > th.CriticalOpenDays:
			raise(Red, OpenDaysReason(th.CriticalOpenDays))
		case open > th.WarningOpenDays:
			raise(Yellow, OpenDaysReason(th.WarningOpenDays))
		}
	}

	return c
}
