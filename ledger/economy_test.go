package ledger

import (
	"testing"
	"time"

	"worldstage/models"

	"gorm.io/datatypes"
)

func factoryType() models.BuildingType {
	return models.BuildingType{
		ID: 1, Name: "Factory", Category: "economic", CostMoney: 1000, CostMaterials: 500,
		Effects: datatypes.NewJSONType(models.BuildingEffects{
			MoneyPerHour: 200.0 / 24, MaterialsPerHour: 100.0 / 24, PopulationGrowth: 50, HappinessBonus: -5,
		}),
	}
}

func TestUpgradeCost(t *testing.T) {
	cases := []struct {
		base  int64
		level int
		want  int64
	}{
		{1000, 1, 1600},
		{1000, 4, 4000},
		{500, 2, 1200},
		{333, 1, 532},
	}
	for _, tc := range cases {
		if got := UpgradeCost(tc.base, tc.level); got != tc.want {
			t.Fatalf("UpgradeCost(%d, %d): expected %d, got %d", tc.base, tc.level, tc.want, got)
		}
	}
}

func TestClampHappiness(t *testing.T) {
	for in, want := range map[int]int{-20: 0, 0: 0, 55: 55, 100: 100, 135: 100} {
		if got := ClampHappiness(in); got != want {
			t.Fatalf("ClampHappiness(%d): expected %d, got %d", in, want, got)
		}
	}
}

func TestApplyBonusKeepsHappinessInRange(t *testing.T) {
	res := models.PlayerResources{Population: 1000, Happiness: 3}
	ApplyBonus(&res, models.BuildingEffects{HappinessBonus: -5, PopulationGrowth: 50})
	if res.Happiness != 0 || res.Population != 1050 {
		t.Fatalf("unexpected resources after negative bonus: %+v", res)
	}
	res.Happiness = 90
	ApplyBonus(&res, models.BuildingEffects{HappinessBonus: 25})
	if res.Happiness != 100 {
		t.Fatalf("expected happiness capped at 100, got %d", res.Happiness)
	}
}

func TestTurnIncomeUsesGameTurnLength(t *testing.T) {
	buildings := []models.PlayerBuilding{{Level: 2, BuildingType: factoryType()}}

	daily := TurnIncome(buildings, 24)
	if daily.Money != 100+400 || daily.Materials != 50+200 || daily.PopulationGrowth != 25+100 {
		t.Fatalf("unexpected 24h income %+v", daily)
	}

	halfDay := TurnIncome(buildings, 12)
	if halfDay.Money != 100+200 || halfDay.Materials != 50+100 {
		t.Fatalf("unexpected 12h income %+v", halfDay)
	}
	if halfDay.PopulationGrowth != daily.PopulationGrowth {
		t.Fatalf("population growth is per turn and must not scale with turn length")
	}

	if base := TurnIncome(nil, 24); base.Money != 100 || base.Materials != 50 || base.PopulationGrowth != 25 {
		t.Fatalf("unexpected base income %+v", base)
	}
}

func TestResearchTurns(t *testing.T) {
	if got := ResearchTurns(72, 24); got != 3 {
		t.Fatalf("expected 3 turns, got %d", got)
	}
	if got := ResearchTurns(72, 48); got != 2 {
		t.Fatalf("expected 2 turns, got %d", got)
	}
	if got := ResearchTurns(0, 24); got != 0 {
		t.Fatalf("expected 0 turns, got %d", got)
	}
}

func TestTurnsRemainingAndProgress(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if got := TurnsRemaining(72, start, start, 24); got != 3 {
		t.Fatalf("expected 3 turns at start, got %d", got)
	}
	if got := TurnsRemaining(72, start, start.Add(25*time.Hour), 24); got != 2 {
		t.Fatalf("expected 2 turns after 25h, got %d", got)
	}
	if got := TurnsRemaining(72, start, start.Add(100*time.Hour), 24); got != 0 {
		t.Fatalf("expected 0 turns once elapsed, got %d", got)
	}

	if got := ResearchProgress(72, start, start.Add(36*time.Hour)); got != 50 {
		t.Fatalf("expected 50%% progress, got %d", got)
	}
	if got := ResearchProgress(72, start, start.Add(200*time.Hour)); got != 100 {
		t.Fatalf("expected progress capped at 100, got %d", got)
	}
	if !ResearchDue(72, start, start.Add(72*time.Hour)) || ResearchDue(72, start, start.Add(71*time.Hour)) {
		t.Fatalf("research due boundary is wrong")
	}
}

func TestBuildingViewAtMaxLevelHasNoUpgradeCost(t *testing.T) {
	view := BuildingView(models.PlayerBuilding{ID: 9, Level: MaxBuildingLevel, BuildingType: factoryType()}, 24)
	if view.UpgradeCostMoney != 0 || view.UpgradeCostMaterials != 0 {
		t.Fatalf("expected no upgrade cost at max level, got %+v", view)
	}
	if view.Icon != "🏭" || view.MaxLevel != 5 || view.MoneyPerTurn != 1000 || view.HappinessBonus != -25 {
		t.Fatalf("unexpected view %+v", view)
	}

	view = BuildingView(models.PlayerBuilding{ID: 9, Level: 1, BuildingType: factoryType()}, 24)
	if view.UpgradeCostMoney != 1600 || view.UpgradeCostMaterials != 800 {
		t.Fatalf("unexpected upgrade preview %+v", view)
	}
}
