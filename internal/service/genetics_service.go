package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/rebanho/rebanho-backend/internal/domain"
	"github.com/rebanho/rebanho-backend/internal/repository"
	"github.com/rebanho/rebanho-backend/internal/repro"
	"github.com/rebanho/rebanho-backend/pkg/cache"
	"github.com/rebanho/rebanho-backend/pkg/logger"
	"gorm.io/gorm"
)

const (
	maxTopAlerts       = 100
	recentDecisionsCap = 20
)

// GeneticsConfig tunes the summary endpoints
type GeneticsConfig struct {
	TopAlertsLimit int
	CacheTTL       time.Duration
}

// SummaryResponse body of the genetics summary endpoint
type SummaryResponse struct {
	Summary   repro.Summary              `json:"summary"`
	Season    *domain.BreedingSeason     `json:"season"`
	TopAlerts []repro.AnimalRow          `json:"topAlerts"`
	Decisions []domain.SelectionDecision `json:"decisions"`
}

// SelectionQuery filters and pages the selection view
type SelectionQuery struct {
	SeasonID    *uint64
	Query       string
	OnlyAlerted bool
	Page        int
	PerPage     int
}

// SelectionPage one page of ranked selection rows
type SelectionPage struct {
	Rows   []repro.AnimalRow      `json:"rows"`
	Season *domain.BreedingSeason `json:"season"`
	Total  int64                  `json:"-"`
}

// GeneticsService computes KPIs, classification and farm summaries from the event log
type GeneticsService interface {
	AnimalKpis(ctx context.Context, farmID, animalID uint64, seasonID *uint64) (*repro.AnimalRow, error)
	Summary(ctx context.Context, farmID uint64, seasonID *uint64, limit int) (*SummaryResponse, error)
	Selection(ctx context.Context, farmID uint64, q SelectionQuery) (*SelectionPage, error)
}

type geneticsService struct {
	farms     repository.FarmRepository
	animals   repository.AnimalRepository
	events    repository.ReproEventRepository
	seasons   repository.SeasonRepository
	exposures repository.ExposureRepository
	decisions repository.SelectionRepository
	settings  SettingsService
	cache     cache.Service
	cfg       GeneticsConfig
	clock     Clock
}

// NewGeneticsService creates a new GeneticsService
func NewGeneticsService(
	farms repository.FarmRepository,
	animals repository.AnimalRepository,
	events repository.ReproEventRepository,
	seasons repository.SeasonRepository,
	exposures repository.ExposureRepository,
	decisions repository.SelectionRepository,
	settings SettingsService,
	cacheSvc cache.Service,
	cfg GeneticsConfig,
	clock Clock,
) GeneticsService {
	if cfg.TopAlertsLimit <= 0 {
		cfg.TopAlertsLimit = 10
	}
	return &geneticsService{
		farms:     farms,
		animals:   animals,
		events:    events,
		seasons:   seasons,
		exposures: exposures,
		decisions: decisions,
		settings:  settings,
		cache:     cacheSvc,
		cfg:       cfg,
		clock:     clock,
	}
}

// AnimalKpis evaluates a single animal in the requested (or default) scope
func (s *geneticsService) AnimalKpis(ctx context.Context, farmID, animalID uint64, seasonID *uint64) (*repro.AnimalRow, error) {
	farm, err := findFarm(ctx, s.farms, farmID)
	if err != nil {
		return nil, err
	}
	animal, err := findAnimal(ctx, s.animals, farmID, animalID)
	if err != nil {
		return nil, err
	}
	season, err := s.resolveSeason(ctx, farm, seasonID)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListByAnimal(ctx, farmID, animalID)
	if err != nil {
		return nil, err
	}
	decision, err := s.decisions.Find(ctx, farmID, animalID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		decision = nil
	}

	row := repro.Evaluate(animal, events, decision, s.clock.now(), repro.WindowOf(season), s.settings.ResolveThresholds(farm))
	return &row, nil
}

// Summary returns farm statistics, top alerts and the latest decisions.
// Results are cached per farm, scope and limit until a write invalidates them.
func (s *geneticsService) Summary(ctx context.Context, farmID uint64, seasonID *uint64, limit int) (*SummaryResponse, error) {
	if limit <= 0 {
		limit = s.cfg.TopAlertsLimit
	}
	if limit > maxTopAlerts {
		limit = maxTopAlerts
	}

	scopeKey := "auto"
	if seasonID != nil {
		scopeKey = strconv.FormatUint(*seasonID, 10)
	}
	var cached SummaryResponse
	if s.cache != nil && s.cache.IsAvailable() {
		if err := s.cache.GetSummary(ctx, farmID, scopeKey, limit, &cached); err == nil {
			summaryCacheLookups.WithLabelValues("hit").Inc()
			return &cached, nil
		}
		summaryCacheLookups.WithLabelValues("miss").Inc()
	}

	farm, err := findFarm(ctx, s.farms, farmID)
	if err != nil {
		return nil, err
	}
	season, err := s.resolveSeason(ctx, farm, seasonID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	th := s.settings.ResolveThresholds(farm)
	rows, err := s.evaluatePopulation(ctx, farm, season, "", th)
	if err != nil {
		return nil, err
	}
	decisions, err := s.decisions.Recent(ctx, farmID, recentDecisionsCap)
	if err != nil {
		return nil, err
	}
	resp := &SummaryResponse{
		Summary:   repro.Summarize(rows, th),
		Season:    season,
		TopAlerts: repro.TopAlerts(rows, limit),
		Decisions: decisions,
	}
	if resp.Decisions == nil {
		resp.Decisions = []domain.SelectionDecision{}
	}
	summaryBuildDuration.Observe(time.Since(start).Seconds())

	if s.cache != nil {
		if err := s.cache.SetSummary(ctx, farmID, scopeKey, limit, resp, s.cfg.CacheTTL); err != nil {
			l := logger.WithFarmID(farmID)
			l.Warn().Err(err).Msg("summary cache write failed")
		}
	}
	return resp, nil
}

// Selection returns ranked rows after search and alert filtering, one page at a time
func (s *geneticsService) Selection(ctx context.Context, farmID uint64, q SelectionQuery) (*SelectionPage, error) {
	farm, err := findFarm(ctx, s.farms, farmID)
	if err != nil {
		return nil, err
	}
	season, err := s.resolveSeason(ctx, farm, q.SeasonID)
	if err != nil {
		return nil, err
	}

	rows, err := s.evaluatePopulation(ctx, farm, season, q.Query, s.settings.ResolveThresholds(farm))
	if err != nil {
		return nil, err
	}
	rows = repro.Filter{Query: q.Query, OnlyAlerted: q.OnlyAlerted}.Apply(rows)
	repro.Rank(rows)

	page, perPage := q.Page, q.PerPage
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	return &SelectionPage{
		Rows:   repro.Page(rows, (page-1)*perPage, perPage),
		Season: season,
		Total:  int64(len(rows)),
	}, nil
}

// resolveSeason picks the KPI scope. An explicit season always wins; a
// seasonal farm defaults to its most recent season; otherwise nil (continuous).
func (s *geneticsService) resolveSeason(ctx context.Context, farm *domain.Farm, seasonID *uint64) (*domain.BreedingSeason, error) {
	if seasonID != nil {
		return findSeason(ctx, s.seasons, farm.ID, *seasonID)
	}
	if farm.BreedingMode != domain.BreedingModeSeasonal {
		return nil, nil
	}
	season, err := s.seasons.Latest(ctx, farm.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return season, nil
}

// evaluatePopulation loads the in-scope females with their histories and
// decisions in three queries and evaluates each one.
func (s *geneticsService) evaluatePopulation(ctx context.Context, farm *domain.Farm, season *domain.BreedingSeason, query string, th repro.Thresholds) ([]repro.AnimalRow, error) {
	var animals []domain.Animal
	var err error
	if season != nil {
		ids, idErr := s.exposures.ListAnimalIDs(ctx, farm.ID, season.ID)
		if idErr != nil {
			return nil, idErr
		}
		animals, err = s.animals.ListActiveFemalesByIDs(ctx, farm.ID, ids)
	} else {
		animals, err = s.animals.ListActiveFemales(ctx, farm.ID, query)
	}
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, len(animals))
	for i := range animals {
		ids[i] = animals[i].ID
	}
	histories, err := s.events.ListByAnimals(ctx, farm.ID, ids)
	if err != nil {
		return nil, err
	}
	decisions, err := s.decisions.ListByAnimals(ctx, farm.ID, ids)
	if err != nil {
		return nil, err
	}

	now := s.clock.now()
	window := repro.WindowOf(season)
	rows := make([]repro.AnimalRow, 0, len(animals))
	for i := range animals {
		a := &animals[i]
		rows = append(rows, repro.Evaluate(a, histories[a.ID], decisions[a.ID], now, window, th))
	}
	return rows, nil
}
