package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rebanho/rebanho-backend/internal/common"
	"gorm.io/datatypes"
)

// EventType reproductive event kind
type EventType string

const (
	EventCovering           EventType = "COBERTURA"           // natural service
	EventTimedAI            EventType = "IATF"                // timed artificial insemination
	EventPregnancyDiagnosis EventType = "DIAGNOSTICO_PRENHEZ" // pregnancy check
	EventCalving            EventType = "PARTO"
	EventWeaning            EventType = "DESMAME"
)

// ParseEventType normalizes and validates an event type string
func ParseEventType(s string) (EventType, error) {
	t := EventType(strings.ToUpper(strings.TrimSpace(s)))
	switch t {
	case EventCovering, EventTimedAI, EventPregnancyDiagnosis, EventCalving, EventWeaning:
		return t, nil
	}
	return "", common.NewValidationError("type", "tipo de evento desconhecido: "+s)
}

// ReproEvent is one row of the append-only reproductive event log.
// Rows are never updated or deleted.
type ReproEvent struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FarmID    uint64         `gorm:"column:farm_id;not null;index:idx_repro_events_animal,priority:1" json:"farmId"`
	AnimalID  uint64         `gorm:"column:animal_id;not null;index:idx_repro_events_animal,priority:2" json:"animalId"`
	SeasonID  *uint64        `gorm:"column:season_id;index" json:"seasonId,omitempty"`
	Type      EventType      `gorm:"column:event_type;size:30;not null" json:"type"`
	EventDate time.Time      `gorm:"column:event_date;type:date;not null" json:"date"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`
	Notes     string         `gorm:"column:notes;type:text" json:"notes,omitempty"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (ReproEvent) TableName() string { return "repro_events" }

// DecodedPayload returns the typed payload variant for this event's type
func (e *ReproEvent) DecodedPayload() (EventPayload, error) {
	return DecodePayload(e.Type, e.Payload)
}

// DiagnosisStatus returns the pregnancy check result. ok is false for any
// other event type or when the stored payload cannot be decoded.
func (e *ReproEvent) DiagnosisStatus() (status DiagnosisStatus, ok bool) {
	if e.Type != EventPregnancyDiagnosis {
		return "", false
	}
	p, err := e.DecodedPayload()
	if err != nil {
		return "", false
	}
	check, isCheck := p.(*PregnancyCheckPayload)
	if !isCheck {
		return "", false
	}
	return check.Status, true
}

// CreateEventRequest appends an event to an animal's log
type CreateEventRequest struct {
	Type     string          `json:"type" validate:"required"`
	Date     string          `json:"date" validate:"required"`
	SeasonID *uint64         `json:"seasonId" validate:"omitempty,gt=0"`
	Payload  json.RawMessage `json:"payload"`
	Notes    string          `json:"notes" validate:"max=2000"`
}

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, common.NewValidationError("date", "data inválida: "+s)
	}
	// keep the calendar day as written by the client, not its UTC shift
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// DateOf truncates t to its UTC calendar date
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
