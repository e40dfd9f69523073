package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/internal/repository"
	"github.com/rebanho/rebanho-backend/internal/repro"
	"github.com/rebanho/rebanho-backend/pkg/cache"
	"github.com/rebanho/rebanho-backend/pkg/logger"
	"gorm.io/gorm"
)

// Clock returns the current time. Services take one so tests can pin "today".
type Clock func() time.Time

func (c Clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}

// SettingsService reads and writes a farm's reproduction settings
type SettingsService interface {
	GetSettings(ctx context.Context, farmID uint64) (*domain.ReproSettingsResponse, error)
	UpdateSettings(ctx context.Context, farmID uint64, req *domain.ReproSettingsRequest) (*domain.ReproSettingsResponse, error)
	ResolveThresholds(farm *domain.Farm) repro.Thresholds
}

type settingsService struct {
	farmRepo repository.FarmRepository
	cache    cache.Service
	defaults repro.Thresholds
}

// NewSettingsService creates a new SettingsService. defaults apply to
// farms without their own threshold override.
func NewSettingsService(farmRepo repository.FarmRepository, cacheSvc cache.Service, defaults repro.Thresholds) SettingsService {
	return &settingsService{farmRepo: farmRepo, cache: cacheSvc, defaults: defaults}
}

func (s *settingsService) GetSettings(ctx context.Context, farmID uint64) (*domain.ReproSettingsResponse, error) {
	farm, err := findFarm(ctx, s.farmRepo, farmID)
	if err != nil {
		return nil, err
	}
	return s.toResponse(farm), nil
}

// UpdateSettings replaces mode and thresholds. Omitting both thresholds
// clears the override; supplying only one merges it with the current value.
func (s *settingsService) UpdateSettings(ctx context.Context, farmID uint64, req *domain.ReproSettingsRequest) (*domain.ReproSettingsResponse, error) {
	mode := domain.BreedingMode(strings.ToUpper(strings.TrimSpace(req.BreedingMode)))
	if !mode.Valid() {
		return nil, common.NewValidationError("breedingMode", "modo deve ser CONTINUO ou ESTACAO")
	}

	farm, err := findFarm(ctx, s.farmRepo, farmID)
	if err != nil {
		return nil, err
	}

	farm.BreedingMode = mode
	if req.WarningOpenDays == nil && req.CriticalOpenDays == nil {
		farm.WarningOpenDays, farm.CriticalOpenDays = nil, nil
	} else {
		effective := s.ResolveThresholds(farm)
		if req.WarningOpenDays != nil {
			effective.WarningOpenDays = *req.WarningOpenDays
		}
		if req.CriticalOpenDays != nil {
			effective.CriticalOpenDays = *req.CriticalOpenDays
		}
		if err := effective.Validate(); err != nil {
			return nil, err
		}
		farm.WarningOpenDays = &effective.WarningOpenDays
		farm.CriticalOpenDays = &effective.CriticalOpenDays
	}

	if err := s.farmRepo.UpdateReproSettings(ctx, farm); err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, farmID)

	return s.toResponse(farm), nil
}

// ResolveThresholds returns the farm override when set, the defaults otherwise
func (s *settingsService) ResolveThresholds(farm *domain.Farm) repro.Thresholds {
	th := s.defaults
	if farm == nil {
		return th
	}
	if farm.WarningOpenDays != nil {
		th.WarningOpenDays = *farm.WarningOpenDays
	}
	if farm.CriticalOpenDays != nil {
		th.CriticalOpenDays = *farm.CriticalOpenDays
	}
	if th.Validate() != nil {
		// inconsistent override: fall back to the defaults as a pair
		return s.defaults
	}
	return th
}

func (s *settingsService) toResponse(farm *domain.Farm) *domain.ReproSettingsResponse {
	th := s.ResolveThresholds(farm)
	return &domain.ReproSettingsResponse{
		FarmID:           farm.ID,
		BreedingMode:     farm.BreedingMode,
		WarningOpenDays:  th.WarningOpenDays,
		CriticalOpenDays: th.CriticalOpenDays,
		Overridden:       farm.WarningOpenDays != nil || farm.CriticalOpenDays != nil,
	}
}

func findFarm(ctx context.Context, repo repository.FarmRepository, farmID uint64) (*domain.Farm, error) {
	farm, err := repo.FindByID(ctx, farmID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrFarmNotFound
		}
		return nil, err
	}
	return farm, nil
}

func findAnimal(ctx context.Context, repo repository.AnimalRepository, farmID, animalID uint64) (*domain.Animal, error) {
	animal, err := repo.FindInFarm(ctx, farmID, animalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrAnimalNotFound
		}
		return nil, err
	}
	return animal, nil
}

func findSeason(ctx context.Context, repo repository.SeasonRepository, farmID, seasonID uint64) (*domain.BreedingSeason, error) {
	season, err := repo.FindByID(ctx, farmID, seasonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrSeasonNotFound
		}
		return nil, err
	}
	return season, nil
}

// invalidate drops cached summaries after a write. Errors are logged only.
func invalidate(ctx context.Context, c cache.Service, farmID uint64) {
	if c == nil {
		return
	}
	if err := c.InvalidateFarm(ctx, farmID); err != nil {
		l := logger.WithFarmID(farmID)
		l.Warn().Err(err).Msg("summary cache invalidation failed")
	}
}
