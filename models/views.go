package models

import (
	"time"
)

// ResourcesView is the stored balance plus the derived per-turn income.
type ResourcesView struct {
	PlayerResources
	MoneyPerTurn      int64     `json:"money_per_turn"`
	MaterialsPerTurn  int64     `json:"materials_per_turn"`
	PopulationGrowth  int64     `json:"population_growth"`
	TurnDurationHours int       `json:"turn_duration_hours"`
	LastUpdated       time.Time `json:"last_updated"`
}

// BuildingView 建物一覧・建設・アップグレードのレスポンス
type BuildingView struct {
	ID                   uint   `json:"id"`
	BuildingTypeID       uint   `json:"building_type_id"`
	Name                 string `json:"name"`
	Description          string `json:"description"`
	Category             string `json:"category"`
	Icon                 string `json:"icon"`
	Level                int    `json:"level"`
	MaxLevel             int    `json:"max_level"`
	MoneyPerTurn         int64  `json:"money_per_turn"`
	MaterialsPerTurn     int64  `json:"materials_per_turn"`
	PopulationBonus      int64  `json:"population_bonus"`
	HappinessBonus       int    `json:"happiness_bonus"`
	CostMoney            int64  `json:"cost_money"`
	CostMaterials        int64  `json:"cost_materials"`
	UpgradeCostMoney     int64  `json:"upgrade_cost_money"`
	UpgradeCostMaterials int64  `json:"upgrade_cost_materials"`
}

// TechnologyView 技術ツリー上の1項目とプレイヤーの研究状況
type TechnologyView struct {
	ID                string `json:"id"`
	TechnologyID      string `json:"technology_id"`
	Code              string `json:"code"`
	Name              string `json:"name"`
	Description       string `json:"description"`
	Category          string `json:"category"`
	Tier              int    `json:"tier"`
	ResearchCost      int64  `json:"research_cost"`
	ResearchTimeHours int    `json:"research_time_hours"`
	Prerequisites     []uint `json:"prerequisites"`
	Status            string `json:"status"`
	Progress          int    `json:"progress"`
	TurnsRemaining    *int   `json:"turns_remaining"`
}
