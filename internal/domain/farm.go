package domain

import "time"

// BreedingMode selects which window of events counts toward seasonal KPIs
type BreedingMode string

const (
	BreedingModeContinuous BreedingMode = "CONTINUO" // year-round breeding
	BreedingModeSeasonal   BreedingMode = "ESTACAO"  // estação de monta
)

// Valid reports whether m is a known breeding mode
func (m BreedingMode) Valid() bool {
	return m == BreedingModeContinuous || m == BreedingModeSeasonal
}

// Farm is the tenant boundary. Full CRUD lives in the farm management service;
// this service only reads it and owns the reproduction settings columns.
type Farm struct {
	ID               uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name             string       `gorm:"column:name;size:150;not null" json:"name"`
	BreedingMode     BreedingMode `gorm:"column:breeding_mode;size:10;not null;default:'CONTINUO'" json:"breedingMode"`
	WarningOpenDays  *int         `gorm:"column:warning_open_days" json:"warningOpenDays,omitempty"`
	CriticalOpenDays *int         `gorm:"column:critical_open_days" json:"criticalOpenDays,omitempty"`
	CreatedAt        time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Farm) TableName() string { return "farms" }

// Sex of an animal
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// HerdType distinguishes commercial from pedigree (P.O.) herds
type HerdType string

const (
	HerdTypeCommercial HerdType = "COMERCIAL"
	HerdTypePedigree   HerdType = "PO" // Puro de Origem
)

// AnimalStatus lifecycle of an animal in the herd
type AnimalStatus string

const (
	AnimalStatusActive AnimalStatus = "ATIVO"
	AnimalStatusSold   AnimalStatus = "VENDIDO"
	AnimalStatusDead   AnimalStatus = "MORTO"
)

// Animal is read-only here; herd CRUD is owned elsewhere.
type Animal struct {
	ID        uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FarmID    uint64       `gorm:"column:farm_id;not null;index" json:"farmId"`
	Tag       string       `gorm:"column:tag;size:50;not null" json:"tag"`          // brinco
	Registry  string       `gorm:"column:registry;size:50" json:"registry,omitempty"` // RGD / RGN for P.O.
	Name      string       `gorm:"column:name;size:100" json:"name,omitempty"`
	Sex       Sex          `gorm:"column:sex;size:1;not null" json:"sex"`
	HerdType  HerdType     `gorm:"column:herd_type;size:10;not null;default:'COMERCIAL'" json:"herdType"`
	Breed     string       `gorm:"column:breed;size:50" json:"breed,omitempty"`
	BirthDate *time.Time   `gorm:"column:birth_date;type:date" json:"birthDate,omitempty"`
	Status    AnimalStatus `gorm:"column:status;size:10;not null;default:'ATIVO'" json:"status"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Animal) TableName() string { return "animals" }

// IsFemale reports whether the animal can carry reproductive events
func (a *Animal) IsFemale() bool { return a.Sex == SexFemale }

// ReproSettingsRequest updates the farm's reproduction settings.
// Nil thresholds clear the farm override and fall back to the service defaults.
type ReproSettingsRequest struct {
	BreedingMode     string `json:"breedingMode" validate:"required"`
	WarningOpenDays  *int   `json:"warningOpenDays" validate:"omitempty,gt=0,lte=1000"`
	CriticalOpenDays *int   `json:"criticalOpenDays" validate:"omitempty,gt=0,lte=1000"`
}

// ReproSettingsResponse is the effective configuration for a farm
type ReproSettingsResponse struct {
	FarmID           uint64       `json:"farmId"`
	BreedingMode     BreedingMode `json:"breedingMode"`
	WarningOpenDays  int          `json:"warningOpenDays"`
	CriticalOpenDays int          `json:"criticalOpenDays"`
	Overridden       bool         `json:"overridden"`
}
