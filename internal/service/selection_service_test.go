package service

import (
	"context"
	"testing"

	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSetDecision(t *testing.T) {
	ctx := context.Background()

	t.Run("descarte exige motivo", func(t *testing.T) {
		decisions, animals := new(mockSelectionRepo), new(mockAnimalRepo)
		svc := NewSelectionService(decisions, animals, cache.NewService(nil))

		_, err := svc.SetDecision(ctx, 1, 10, &domain.SetDecisionRequest{Decision: "DISCARD", Reason: "   "})

		var vErr *common.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "reason", vErr.Field)
		decisions.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("decisão inválida", func(t *testing.T) {
		decisions, animals := new(mockSelectionRepo), new(mockAnimalRepo)
		svc := NewSelectionService(decisions, animals, cache.NewService(nil))

		_, err := svc.SetDecision(ctx, 1, 10, &domain.SetDecisionRequest{Decision: "SELL"})
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("animal inexistente", func(t *testing.T) {
		decisions, animals := new(mockSelectionRepo), new(mockAnimalRepo)
		animals.On("FindInFarm", ctx, uint64(1), uint64(10)).Return(nil, gorm.ErrRecordNotFound)
		svc := NewSelectionService(decisions, animals, cache.NewService(nil))

		_, err := svc.SetDecision(ctx, 1, 10, &domain.SetDecisionRequest{Decision: "KEEP"})
		assert.ErrorIs(t, err, common.ErrAnimalNotFound)
	})

	t.Run("upsert com motivo aparado", func(t *testing.T) {
		decisions, animals := new(mockSelectionRepo), new(mockAnimalRepo)
		animals.On("FindInFarm", ctx, uint64(1), uint64(10)).Return(cow(10), nil)
		decisions.On("Upsert", ctx, mock.MatchedBy(func(d *domain.SelectionDecision) bool {
			return d.FarmID == 1 && d.AnimalID == 10 &&
				d.Decision == domain.DecisionDiscard &&
				d.Reason != nil && *d.Reason == "duas vazias"
		})).Return(nil)
		svc := NewSelectionService(decisions, animals, cache.NewService(nil))

		d, err := svc.SetDecision(ctx, 1, 10, &domain.SetDecisionRequest{Decision: "discard", Reason: " duas vazias "})
		require.NoError(t, err)
		assert.Equal(t, domain.DecisionDiscard, d.Decision)
		decisions.AssertExpectations(t)
	})

	t.Run("keep sem motivo guarda nulo", func(t *testing.T) {
		decisions, animals := new(mockSelectionRepo), new(mockAnimalRepo)
		animals.On("FindInFarm", ctx, uint64(1), uint64(10)).Return(cow(10), nil)
		decisions.On("Upsert", ctx, mock.MatchedBy(func(d *domain.SelectionDecision) bool {
			return d.Reason == nil
		})).Return(nil)
		svc := NewSelectionService(decisions, animals, cache.NewService(nil))

		_, err := svc.SetDecision(ctx, 1, 10, &domain.SetDecisionRequest{Decision: "KEEP"})
		require.NoError(t, err)
	})
}

func TestClearAndGetDecision(t *testing.T) {
	ctx := context.Background()
	decisions, animals := new(mockSelectionRepo), new(mockAnimalRepo)
	animals.On("FindInFarm", ctx, uint64(1), uint64(10)).Return(cow(10), nil)
	decisions.On("Delete", ctx, uint64(1), uint64(10)).Return(false, nil)
	decisions.On("Find", ctx, uint64(1), uint64(10)).Return(nil, gorm.ErrRecordNotFound)
	svc := NewSelectionService(decisions, animals, cache.NewService(nil))

	// clearing an absent decision is a no-op
	assert.NoError(t, svc.ClearDecision(ctx, 1, 10))

	d, err := svc.GetDecision(ctx, 1, 10)
	assert.NoError(t, err)
	assert.Nil(t, d)
}
