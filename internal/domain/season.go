package domain

import "time"

// BreedingSeason estação de monta: a bounded window in which a set of
// females is exposed to breeding.
type BreedingSeason struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FarmID    uint64    `gorm:"column:farm_id;not null;index" json:"farmId"`
	Name      string    `gorm:"column:name;size:100;not null" json:"name"`
	StartDate time.Time `gorm:"column:start_date;type:date;not null" json:"startDate"`
	EndDate   time.Time `gorm:"column:end_date;type:date;not null" json:"endDate"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (BreedingSeason) TableName() string { return "breeding_seasons" }

// Contains reports whether the calendar date of t falls inside the season (inclusive)
func (s *BreedingSeason) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(s.StartDate)) && !d.After(DateOf(s.EndDate))
}

// SeasonExposure records that an animal was exposed to breeding during a season
type SeasonExposure struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FarmID    uint64    `gorm:"column:farm_id;not null;index" json:"farmId"`
	SeasonID  uint64    `gorm:"column:season_id;not null;uniqueIndex:uk_season_exposure,priority:1" json:"seasonId"`
	AnimalID  uint64    `gorm:"column:animal_id;not null;uniqueIndex:uk_season_exposure,priority:2" json:"animalId"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (SeasonExposure) TableName() string { return "season_exposures" }

// CreateSeasonRequest creates a breeding season
type CreateSeasonRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
}

// AddExposuresRequest adds animals to a season
type AddExposuresRequest struct {
	AnimalIDs []uint64 `json:"animalIds" validate:"required,min=1,max=1000,dive,gt=0"`
}
