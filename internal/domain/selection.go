package domain

import (
	"strings"
	"time"

	"github.com/rebanho/rebanho-backend/internal/common"
)

// Decision is the curator's keep/watch/discard call for an animal
type Decision string

const (
	DecisionKeep    Decision = "KEEP"
	DecisionWatch   Decision = "WATCH"
	DecisionDiscard Decision = "DISCARD"
)

// ParseDecision normalizes and validates a decision string
func ParseDecision(s string) (Decision, error) {
	d := Decision(strings.ToUpper(strings.TrimSpace(s)))
	switch d {
	case DecisionKeep, DecisionWatch, DecisionDiscard:
		return d, nil
	}
	return "", common.NewValidationError("decision", "decisão deve ser KEEP, WATCH ou DISCARD")
}

// SelectionDecision at most one per (farm, animal). It overrides the
// traffic-light badge for display but never feeds back into KPI computation.
type SelectionDecision struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FarmID    uint64    `gorm:"column:farm_id;not null;uniqueIndex:uk_selection_farm_animal,priority:1" json:"farmId"`
	AnimalID  uint64    `gorm:"column:animal_id;not null;uniqueIndex:uk_selection_farm_animal,priority:2" json:"animalId"`
	Decision  Decision  `gorm:"column:decision;size:10;not null" json:"decision"`
	Reason    *string   `gorm:"column:reason;size:500" json:"reason"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;index" json:"updatedAt"`
}

func (SelectionDecision) TableName() string { return "selection_decisions" }

// SetDecisionRequest body of PUT .../decision
type SetDecisionRequest struct {
	Decision string `json:"decision" validate:"required"`
	Reason   string `json:"reason" validate:"max=500"`
}
