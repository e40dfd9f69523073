package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/internal/repository"
	"github.com/rebanho/rebanho-backend/pkg/cache"
	"github.com/rebanho/rebanho-backend/pkg/logger"
	"gorm.io/gorm"
)

// SelectionService curator keep/watch/discard decisions.
// Decisions only change the displayed badge, never the KPIs.
type SelectionService interface {
	SetDecision(ctx context.Context, farmID, animalID uint64, req *domain.SetDecisionRequest) (*domain.SelectionDecision, error)
	ClearDecision(ctx context.Context, farmID, animalID uint64) error
	GetDecision(ctx context.Context, farmID, animalID uint64) (*domain.SelectionDecision, error)
	RecentDecisions(ctx context.Context, farmID uint64, limit int) ([]domain.SelectionDecision, error)
}

type selectionService struct {
	decisions repository.SelectionRepository
	animals   repository.AnimalRepository
	cache     cache.Service
}

// NewSelectionService creates a new SelectionService
func NewSelectionService(decisions repository.SelectionRepository, animals repository.AnimalRepository, cacheSvc cache.Service) SelectionService {
	return &selectionService{decisions: decisions, animals: animals, cache: cacheSvc}
}

// SetDecision creates or replaces the animal's decision. DISCARD needs a reason.
func (s *selectionService) SetDecision(ctx context.Context, farmID, animalID uint64, req *domain.SetDecisionRequest) (*domain.SelectionDecision, error) {
	decision, err := domain.ParseDecision(req.Decision)
	if err != nil {
		return nil, err
	}
	var reason *string
	if r := strings.TrimSpace(req.Reason); r != "" {
		reason = &r
	}
	if decision == domain.DecisionDiscard && reason == nil {
		return nil, common.NewValidationError("reason", "motivo é obrigatório para descarte")
	}

	if _, err := findAnimal(ctx, s.animals, farmID, animalID); err != nil {
		return nil, err
	}

	d := &domain.SelectionDecision{
		FarmID:   farmID,
		AnimalID: animalID,
		Decision: decision,
		Reason:   reason,
	}
	if err := s.decisions.Upsert(ctx, d); err != nil {
		return nil, err
	}

	selectionDecisionsSet.WithLabelValues(string(decision)).Inc()
	l := logger.WithFarmID(farmID)
	l.Info().Uint64("animal_id", animalID).Str("decision", string(decision)).Msg("selection decision set")

	invalidate(ctx, s.cache, farmID)
	return d, nil
}

// ClearDecision removes the decision; clearing an absent decision is a no-op
func (s *selectionService) ClearDecision(ctx context.Context, farmID, animalID uint64) error {
	if _, err := findAnimal(ctx, s.animals, farmID, animalID); err != nil {
		return err
	}
	deleted, err := s.decisions.Delete(ctx, farmID, animalID)
	if err != nil {
		return err
	}
	if deleted {
		invalidate(ctx, s.cache, farmID)
	}
	return nil
}

// GetDecision returns nil without error when the animal has no decision
func (s *selectionService) GetDecision(ctx context.Context, farmID, animalID uint64) (*domain.SelectionDecision, error) {
	if _, err := findAnimal(ctx, s.animals, farmID, animalID); err != nil {
		return nil, err
	}
	d, err := s.decisions.Find(ctx, farmID, animalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return d, nil
}

func (s *selectionService) RecentDecisions(ctx context.Context, farmID uint64, limit int) ([]domain.SelectionDecision, error) {
	return s.decisions.Recent(ctx, farmID, limit)
}
