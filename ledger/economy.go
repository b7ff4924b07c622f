package ledger

import (
	"math"
	"time"

	"worldstage/models"
)

const (
	BaseMoneyPerTurn     = 100
	BaseMaterialsPerTurn = 50
	BasePopulationGrowth = 25

	MaxBuildingLevel  = 5
	upgradeCostFactor = 0.8

	MinHappiness = 0
	MaxHappiness = 100
)

// カテゴリごとのアイコン（未知のカテゴリは汎用の建物）
var categoryIcons = map[string]string{
	"economic": "🏭",
	"military": "⚔️",
	"research": "🔬",
	"cultural": "🎭",
	"social":   "🏥",
}

const defaultIcon = "🏢"

// PerTurn converts an hourly rate into a per-turn amount for a building level.
func PerTurn(ratePerHour float64, turnHours, level int) int64 {
	return int64(math.Floor(ratePerHour * float64(turnHours) * float64(level)))
}

// UpgradeCost は現在レベルから次のレベルへのコスト: floor(base × (level+1) × 0.8)
func UpgradeCost(baseCost int64, currentLevel int) int64 {
	return int64(math.Floor(float64(baseCost) * float64(currentLevel+1) * upgradeCostFactor))
}

func ClampHappiness(h int) int {
	if h < MinHappiness {
		return MinHappiness
	}
	if h > MaxHappiness {
		return MaxHappiness
	}
	return h
}

// ApplyBonus adds one full increment of the building's population and
// happiness bonuses. Construct and every upgrade call it once.
func ApplyBonus(res *models.PlayerResources, effects models.BuildingEffects) {
	res.Population += effects.PopulationGrowth
	res.Happiness = ClampHappiness(res.Happiness + effects.HappinessBonus)
}

func CanAfford(res models.PlayerResources, money, materials int64) bool {
	return res.Money >= money && res.Materials >= materials
}

// Income は保有建物の効果を合算した1ターンあたりの収入
type Income struct {
	Money            int64
	Materials        int64
	PopulationGrowth int64
}

// TurnIncome sums the base rates and every owned building's contribution.
func TurnIncome(buildings []models.PlayerBuilding, turnHours int) Income {
	income := Income{
		Money:            BaseMoneyPerTurn,
		Materials:        BaseMaterialsPerTurn,
		PopulationGrowth: BasePopulationGrowth,
	}
	for _, b := range buildings {
		effects := b.BuildingType.Effects.Data()
		income.Money += PerTurn(effects.MoneyPerHour, turnHours, b.Level)
		income.Materials += PerTurn(effects.MaterialsPerHour, turnHours, b.Level)
		income.PopulationGrowth += effects.PopulationGrowth * int64(b.Level)
	}
	return income
}

// ResearchTurns is the number of turns a research of the given length spans.
func ResearchTurns(researchHours float64, turnHours int) int {
	if turnHours <= 0 {
		turnHours = models.DefaultTurnDurationHours
	}
	if researchHours <= 0 {
		return 0
	}
	return int(math.Ceil(researchHours / float64(turnHours)))
}

// TurnsRemaining は開始時刻からの経過時間をもとに残りターン数を求める
func TurnsRemaining(researchHours int, startedAt, now time.Time, turnHours int) int {
	elapsed := now.Sub(startedAt).Hours()
	left := float64(researchHours) - elapsed
	if left < 0 {
		left = 0
	}
	return ResearchTurns(left, turnHours)
}

// ResearchProgress returns the elapsed share of the research time in percent.
func ResearchProgress(researchHours int, startedAt, now time.Time) int {
	if researchHours <= 0 {
		return 100
	}
	pct := int(math.Floor(now.Sub(startedAt).Hours() / float64(researchHours) * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func ResearchDue(researchHours int, startedAt, now time.Time) bool {
	return !now.Before(startedAt.Add(time.Duration(researchHours) * time.Hour))
}

// BuildingView renders an owned building with its level-scaled figures.
func BuildingView(b models.PlayerBuilding, turnHours int) models.BuildingView {
	bt := b.BuildingType
	effects := bt.Effects.Data()
	icon, ok := categoryIcons[bt.Category]
	if !ok {
		icon = defaultIcon
	}
	view := models.BuildingView{
		ID:               b.ID,
		BuildingTypeID:   b.BuildingTypeID,
		Name:             bt.Name,
		Description:      bt.Description,
		Category:         bt.Category,
		Icon:             icon,
		Level:            b.Level,
		MaxLevel:         MaxBuildingLevel,
		MoneyPerTurn:     PerTurn(effects.MoneyPerHour, turnHours, b.Level),
		MaterialsPerTurn: PerTurn(effects.MaterialsPerHour, turnHours, b.Level),
		PopulationBonus:  effects.PopulationGrowth * int64(b.Level),
		HappinessBonus:   effects.HappinessBonus * b.Level,
		CostMoney:        bt.CostMoney,
		CostMaterials:    bt.CostMaterials,
	}
	if b.Level < MaxBuildingLevel {
		view.UpgradeCostMoney = UpgradeCost(bt.CostMoney, b.Level)
		view.UpgradeCostMaterials = UpgradeCost(bt.CostMaterials, b.Level)
	}
	return view
}
