package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rebanho/rebanho-backend/internal/common"
	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/internal/repository"
	"github.com/rebanho/rebanho-backend/pkg/cache"
)

// SeasonService manages breeding seasons and their exposed animals
type SeasonService interface {
	CreateSeason(ctx context.Context, farmID uint64, req *domain.CreateSeasonRequest) (*domain.BreedingSeason, error)
	ListSeasons(ctx context.Context, farmID uint64) ([]domain.BreedingSeason, error)
	GetSeason(ctx context.Context, farmID, seasonID uint64) (*domain.BreedingSeason, error)
	AddExposures(ctx context.Context, farmID, seasonID uint64, animalIDs []uint64) (*ExposureResult, error)
	RemoveExposure(ctx context.Context, farmID, seasonID, animalID uint64) error
	ListExposures(ctx context.Context, farmID, seasonID uint64) ([]domain.Animal, error)
}

// ExposureResult outcome of adding animals to a season
type ExposureResult struct {
	SeasonID uint64 `json:"seasonId"`
	Added    int64  `json:"added"`
	Total    int    `json:"total"`
}

type seasonService struct {
	farms     repository.FarmRepository
	seasons   repository.SeasonRepository
	exposures repository.ExposureRepository
	animals   repository.AnimalRepository
	cache     cache.Service
}

// NewSeasonService creates a new SeasonService
func NewSeasonService(
	farms repository.FarmRepository,
	seasons repository.SeasonRepository,
	exposures repository.ExposureRepository,
	animals repository.AnimalRepository,
	cacheSvc cache.Service,
) SeasonService {
	return &seasonService{farms: farms, seasons: seasons, exposures: exposures, animals: animals, cache: cacheSvc}
}

func (s *seasonService) CreateSeason(ctx context.Context, farmID uint64, req *domain.CreateSeasonRequest) (*domain.BreedingSeason, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, common.NewValidationError("name", "nome é obrigatório")
	}
	start, err := domain.ParseDate(req.StartDate)
	if err != nil {
		return nil, common.NewValidationError("startDate", "data inválida: "+req.StartDate)
	}
	end, err := domain.ParseDate(req.EndDate)
	if err != nil {
		return nil, common.NewValidationError("endDate", "data inválida: "+req.EndDate)
	}
	if end.Before(start) {
		return nil, common.NewValidationError("endDate", "fim da estação anterior ao início")
	}

	if _, err := findFarm(ctx, s.farms, farmID); err != nil {
		return nil, err
	}

	season := &domain.BreedingSeason{FarmID: farmID, Name: name, StartDate: start, EndDate: end}
	if err := s.seasons.Create(ctx, season); err != nil {
		return nil, err
	}
	// a new season can become the farm's latest, which changes the default scope
	invalidate(ctx, s.cache, farmID)
	return season, nil
}

func (s *seasonService) ListSeasons(ctx context.Context, farmID uint64) ([]domain.BreedingSeason, error) {
	if _, err := findFarm(ctx, s.farms, farmID); err != nil {
		return nil, err
	}
	return s.seasons.List(ctx, farmID)
}

func (s *seasonService) GetSeason(ctx context.Context, farmID, seasonID uint64) (*domain.BreedingSeason, error) {
	return findSeason(ctx, s.seasons, farmID, seasonID)
}

// AddExposures adds active females of the farm to the season. Animals
// already exposed are skipped; unknown or ineligible ids reject the whole batch.
func (s *seasonService) AddExposures(ctx context.Context, farmID, seasonID uint64, animalIDs []uint64) (*ExposureResult, error) {
	ids := uniqueIDs(animalIDs)
	if len(ids) == 0 {
		return nil, common.NewValidationError("animalIds", "informe ao menos um animal")
	}
	if _, err := findSeason(ctx, s.seasons, farmID, seasonID); err != nil {
		return nil, err
	}

	eligible, err := s.animals.ListActiveFemalesByIDs(ctx, farmID, ids)
	if err != nil {
		return nil, err
	}
	if len(eligible) != len(ids) {
		found := make(map[uint64]bool, len(eligible))
		for _, a := range eligible {
			found[a.ID] = true
		}
		var missing []uint64
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, common.NewValidationError("animalIds", fmt.Sprintf("animais inexistentes ou não aptos: %v", missing))
	}

	added, err := s.exposures.AddMany(ctx, farmID, seasonID, ids)
	if err != nil {
		return nil, err
	}
	exposed, err := s.exposures.ListAnimalIDs(ctx, farmID, seasonID)
	if err != nil {
		return nil, err
	}
	if added > 0 {
		invalidate(ctx, s.cache, farmID)
	}
	return &ExposureResult{SeasonID: seasonID, Added: added, Total: len(exposed)}, nil
}

// RemoveExposure takes the animal out of the season; absent membership is a no-op
func (s *seasonService) RemoveExposure(ctx context.Context, farmID, seasonID, animalID uint64) error {
	if _, err := findSeason(ctx, s.seasons, farmID, seasonID); err != nil {
		return err
	}
	removed, err := s.exposures.Remove(ctx, farmID, seasonID, animalID)
	if err != nil {
		return err
	}
	if removed {
		invalidate(ctx, s.cache, farmID)
	}
	return nil
}

// ListExposures returns the exposed animals that are still active females, ordered by tag
func (s *seasonService) ListExposures(ctx context.Context, farmID, seasonID uint64) ([]domain.Animal, error) {
	if _, err := findSeason(ctx, s.seasons, farmID, seasonID); err != nil {
		return nil, err
	}
	ids, err := s.exposures.ListAnimalIDs(ctx, farmID, seasonID)
	if err != nil {
		return nil, err
	}
	return s.animals.ListActiveFemalesByIDs(ctx, farmID, ids)
}

func uniqueIDs(ids []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(ids))
	out := make([]uint64, 0, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
