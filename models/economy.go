package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	StartingMoney      = 1000
	StartingMaterials  = 500
	StartingPopulation = 1000
	StartingHappiness  = 70
)

// PlayerResources は1プレイヤーにつき1行
type PlayerResources struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	PlayerID   uint      `gorm:"not null;uniqueIndex" json:"player_id"`
	Money      int64     `gorm:"not null" json:"money"`
	Materials  int64     `gorm:"not null" json:"materials"`
	Population int64     `gorm:"not null" json:"population"`
	Happiness  int       `gorm:"not null" json:"happiness"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (PlayerResources) TableName() string { return "player_resources" }

// NewPlayerResources returns the fixed starting balance of a freshly joined player.
func NewPlayerResources(playerID uint) PlayerResources {
	return PlayerResources{
		PlayerID:   playerID,
		Money:      StartingMoney,
		Materials:  StartingMaterials,
		Population: StartingPopulation,
		Happiness:  StartingHappiness,
	}
}

// BuildingEffects is the JSON effect bundle attached to a building type.
type BuildingEffects struct {
	MoneyPerHour     float64 `json:"money_per_hour,omitempty"`
	MaterialsPerHour float64 `json:"materials_per_hour,omitempty"`
	HappinessBonus   int     `json:"happiness_bonus,omitempty"`
	PopulationGrowth int64   `json:"population_growth,omitempty"`
}

// BuildingType 建物カタログ
type BuildingType struct {
	ID            uint                                `gorm:"primaryKey" json:"id"`
	Code          string                              `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name          string                              `gorm:"size:100;not null" json:"name"`
	Description   string                              `json:"description"`
	Category      string                              `gorm:"size:30;not null" json:"category"`
	CostMoney     int64                               `gorm:"not null" json:"cost_money"`
	CostMaterials int64                               `gorm:"not null" json:"cost_materials"`
	Effects       datatypes.JSONType[BuildingEffects] `json:"effects"`
}

func (BuildingType) TableName() string { return "building_types" }

// PlayerBuilding レベルは1から5まで。削除されることはない
type PlayerBuilding struct {
	ID             uint         `gorm:"primaryKey" json:"id"`
	PlayerID       uint         `gorm:"not null;index" json:"player_id"`
	BuildingTypeID uint         `gorm:"not null" json:"building_type_id"`
	Level          int          `gorm:"not null" json:"level"`
	BuildingType   BuildingType `gorm:"foreignKey:BuildingTypeID" json:"-"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (PlayerBuilding) TableName() string { return "player_buildings" }

// Technology 技術カタログ。Prerequisitesは前提となる技術IDの配列
type Technology struct {
	ID                uint                      `gorm:"primaryKey" json:"id"`
	Code              string                    `gorm:"size:50;uniqueIndex;not null" json:"code"`
	Name              string                    `gorm:"size:100;not null" json:"name"`
	Description       string                    `json:"description"`
	Category          string                    `gorm:"size:30;not null" json:"category"`
	Tier              int                       `gorm:"not null;default:1" json:"tier"`
	ResearchCost      int64                     `gorm:"not null" json:"research_cost"`
	ResearchTimeHours int                       `gorm:"not null" json:"research_time_hours"`
	Prerequisites     datatypes.JSONSlice[uint] `json:"prerequisites"`
}

func (Technology) TableName() string { return "technologies" }

const (
	ResearchStatusAvailable   = "available"
	ResearchStatusResearching = "researching"
	ResearchStatusCompleted   = "completed"
)

// PlayerResearch 進捗は保存せず、読み取り時に経過時間から算出する
type PlayerResearch struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	PlayerID     uint       `gorm:"not null;uniqueIndex:idx_player_research_player_tech" json:"player_id"`
	TechnologyID uint       `gorm:"not null;uniqueIndex:idx_player_research_player_tech" json:"technology_id"`
	Status       string     `gorm:"size:20;not null;index" json:"status"`
	Progress     int        `gorm:"not null;default:0" json:"progress"`
	StartedAt    time.Time  `gorm:"not null" json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at"`
}

func (PlayerResearch) TableName() string { return "player_research" }
