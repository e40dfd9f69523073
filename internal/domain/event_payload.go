package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/rebanho/rebanho-backend/internal/common"
)

// DiagnosisStatus result of a pregnancy check
type DiagnosisStatus string

const (
	DiagnosisPregnant DiagnosisStatus = "PRENHE"
	DiagnosisEmpty    DiagnosisStatus = "VAZIA"
)

// ParseDiagnosisStatus accepts PRENHE and VAZIA (plus the legacy VACIA spelling).
func ParseDiagnosisStatus(s string) (DiagnosisStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PRENHE":
		return DiagnosisPregnant, nil
	case "VAZIA", "VACIA":
		return DiagnosisEmpty, nil
	case "":
		return "", common.NewValidationError("payload.status", "diagnóstico de prenhez exige status")
	}
	return "", common.NewValidationError("payload.status", "status de diagnóstico inválido: "+s)
}

// EventPayload is the type-specific body of a ReproEvent. The concrete type is
// selected by the event type tag, see DecodePayload.
type EventPayload interface {
	EventType() EventType
	normalize() error
}

// CoveringPayload natural service (COBERTURA)
type CoveringPayload struct {
	BullID   *uint64 `json:"bullId,omitempty"`
	BullName string  `json:"bullName,omitempty"`
}

func (*CoveringPayload) EventType() EventType { return EventCovering }
func (*CoveringPayload) normalize() error     { return nil }

// AIPayload timed artificial insemination (IATF)
type AIPayload struct {
	BullName   string `json:"bullName,omitempty"`
	SemenBatch string `json:"semenBatch,omitempty"`
	Protocol   string `json:"protocol,omitempty"`
	Technician string `json:"technician,omitempty"`
}

func (*AIPayload) EventType() EventType { return EventTimedAI }
func (*AIPayload) normalize() error     { return nil }

// PregnancyCheckPayload pregnancy diagnosis (DIAGNOSTICO_PRENHEZ). Status is required.
type PregnancyCheckPayload struct {
	Status        DiagnosisStatus `json:"status"`
	Method        string          `json:"method,omitempty"` // ultrasound, palpation
	GestationDays *int            `json:"gestationDays,omitempty"`
}

func (*PregnancyCheckPayload) EventType() EventType { return EventPregnancyDiagnosis }

func (p *PregnancyCheckPayload) normalize() error {
	status, err := ParseDiagnosisStatus(string(p.Status))
	if err != nil {
		return err
	}
	p.Status = status
	if p.GestationDays != nil && *p.GestationDays < 0 {
		return common.NewValidationError("payload.gestationDays", "dias de gestação não pode ser negativo")
	}
	return nil
}

// CalvingPayload calving (PARTO)
type CalvingPayload struct {
	CalfTag    string `json:"calfTag,omitempty"`
	CalfSex    Sex    `json:"calfSex,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

func (*CalvingPayload) EventType() EventType { return EventCalving }

func (p *CalvingPayload) normalize() error {
	p.CalfSex = Sex(strings.ToUpper(string(p.CalfSex)))
	if p.CalfSex != "" && p.CalfSex != SexMale && p.CalfSex != SexFemale {
		return common.NewValidationError("payload.calfSex", "sexo do bezerro deve ser M ou F")
	}
	return nil
}

// WeaningPayload weaning (DESMAME)
type WeaningPayload struct {
	CalfTag  string   `json:"calfTag,omitempty"`
	WeightKg *float64 `json:"weightKg,omitempty"`
}

func (*WeaningPayload) EventType() EventType { return EventWeaning }

func (p *WeaningPayload) normalize() error {
	if p.WeightKg != nil && *p.WeightKg <= 0 {
		return common.NewValidationError("payload.weightKg", "peso deve ser positivo")
	}
	return nil
}

func newPayload(t EventType) (EventPayload, error) {
	switch t {
	case EventCovering:
		return &CoveringPayload{}, nil
	case EventTimedAI:
		return &AIPayload{}, nil
	case EventPregnancyDiagnosis:
		return &PregnancyCheckPayload{}, nil
	case EventCalving:
		return &CalvingPayload{}, nil
	case EventWeaning:
		return &WeaningPayload{}, nil
	}
	return nil, common.NewValidationError("type", "tipo de evento desconhecido: "+string(t))
}

// DecodePayload decodes raw JSON into the payload variant for t and
// normalizes it. An empty body is valid for every type except
// DIAGNOSTICO_PRENHEZ, whose status is mandatory.
func DecodePayload(t EventType, raw []byte) (EventPayload, error) {
	p, err := newPayload(t)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := json.Unmarshal(trimmed, p); err != nil {
			return nil, common.NewValidationError("payload", "payload inválido: "+err.Error())
		}
	}
	if err := p.normalize(); err != nil {
		return nil, err
	}
	return p, nil
}

// EncodePayload serializes a payload for storage
func EncodePayload(p EventPayload) ([]byte, error) {
	return json.Marshal(p)
}
