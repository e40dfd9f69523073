package service

import (
	"context"
	"testing"

	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/internal/repro"
	"github.com/rebanho/rebanho-backend/pkg/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func intRef(v int) *int { return &v }

func TestResolveThresholds(t *testing.T) {
	svc := NewSettingsService(new(mockFarmRepo), nil, repro.DefaultThresholds())

	assert.Equal(t, repro.DefaultThresholds(), svc.ResolveThresholds(nil))
	assert.Equal(t, repro.DefaultThresholds(), svc.ResolveThresholds(&domain.Farm{}))

	custom := &domain.Farm{WarningOpenDays: intRef(90), CriticalOpenDays: intRef(150)}
	assert.Equal(t, repro.Thresholds{WarningOpenDays: 90, CriticalOpenDays: 150}, svc.ResolveThresholds(custom))

	// warning above the default critical cannot stand on its own
	inverted := &domain.Farm{WarningOpenDays: intRef(200)}
	assert.Equal(t, repro.DefaultThresholds(), svc.ResolveThresholds(inverted))
}

func TestUpdateSettings(t *testing.T) {
	ctx := context.Background()

	t.Run("sobrescreve limites", func(t *testing.T) {
		farms := new(mockFarmRepo)
		farms.On("FindByID", ctx, uint64(1)).Return(&domain.Farm{ID: 1, BreedingMode: domain.BreedingModeContinuous}, nil)
		farms.On("UpdateReproSettings", ctx, mock.MatchedBy(func(f *domain.Farm) bool {
			return f.BreedingMode == domain.BreedingModeSeasonal &&
				*f.WarningOpenDays == 100 && *f.CriticalOpenDays == 180
		})).Return(nil)
		svc := NewSettingsService(farms, cache.NewService(nil), repro.DefaultThresholds())

		resp, err := svc.UpdateSettings(ctx, 1, &domain.ReproSettingsRequest{BreedingMode: "estacao", WarningOpenDays: intRef(100)})
		require.NoError(t, err)
		assert.True(t, resp.Overridden)
		assert.Equal(t, 100, resp.WarningOpenDays)
		assert.Equal(t, 180, resp.CriticalOpenDays)
		farms.AssertExpectations(t)
	})

	t.Run("limites invertidos", func(t *testing.T) {
		farms := new(mockFarmRepo)
		farms.On("FindByID", ctx, uint64(1)).Return(&domain.Farm{ID: 1, BreedingMode: domain.BreedingModeContinuous}, nil)
		svc := NewSettingsService(farms, nil, repro.DefaultThresholds())

		_, err := svc.UpdateSettings(ctx, 1, &domain.ReproSettingsRequest{
			BreedingMode: "CONTINUO", WarningOpenDays: intRef(150), CriticalOpenDays: intRef(120),
		})
		assert.ErrorIs(t, err, common.ErrInvalidInput)
		farms.AssertNotCalled(t, "UpdateReproSettings", mock.Anything, mock.Anything)
	})

	t.Run("modo inválido", func(t *testing.T) {
		svc := NewSettingsService(new(mockFarmRepo), nil, repro.DefaultThresholds())
		_, err := svc.UpdateSettings(ctx, 1, &domain.ReproSettingsRequest{BreedingMode: "ANUAL"})
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("fazenda inexistente", func(t *testing.T) {
		farms := new(mockFarmRepo)
		farms.On("FindByID", ctx, uint64(9)).Return(nil, gorm.ErrRecordNotFound)
		svc := NewSettingsService(farms, nil, repro.DefaultThresholds())

		_, err := svc.GetSettings(ctx, 9)
		assert.ErrorIs(t, err, common.ErrFarmNotFound)
	})
}
