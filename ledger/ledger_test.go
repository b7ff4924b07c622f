package ledger

import (
	"context"
	"sync"
	"testing"
	"time"

	"worldstage/apperror"
	"worldstage/internal/testdb"
	"worldstage/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type recordedNotification struct {
	userID uint
	data   map[string]any
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []recordedNotification
}

func (f *fakeNotifier) SendNotificationToUser(userID uint, data map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, recordedNotification{userID: userID, data: data})
}

type fixture struct {
	db       *gorm.DB
	svc      *Service
	notifier *fakeNotifier
	clock    time.Time
	user     models.User
	game     models.Game
	player   models.Player
}

func newFixture(t *testing.T, turnHours int) *fixture {
	t.Helper()
	db := testdb.Open(t)
	f := &fixture{
		db:       db,
		notifier: &fakeNotifier{},
		clock:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(db, zap.NewNop(), f.notifier)
	f.svc.now = func() time.Time { return f.clock }
	f.user = testdb.CreateUser(t, db, "alice")
	f.game = testdb.CreateGame(t, db, f.user, 4, turnHours)
	f.player = testdb.AddPlayer(t, db, f.user, f.game)
	return f
}

func expectKind(t *testing.T, err error, kind apperror.Kind, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %q, got nil error", message)
	}
	if apperror.KindOf(err) != kind || err.Error() != message {
		t.Fatalf("expected %q (kind %d), got %q (kind %d)", message, kind, err.Error(), apperror.KindOf(err))
	}
}

func countBuildings(t *testing.T, db *gorm.DB, playerID uint) int64 {
	t.Helper()
	var n int64
	if err := db.Model(&models.PlayerBuilding{}).Where("player_id = ?", playerID).Count(&n).Error; err != nil {
		t.Fatalf("count buildings: %v", err)
	}
	return n
}

func TestConstructWithExactFundsLeavesZeroBalance(t *testing.T) {
	f := newFixture(t, 24)
	ctx := context.Background()

	view, err := f.svc.Construct(ctx, f.player.ID, f.user.ID, testdb.BuildingTypeID(t, f.db, "factory"))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}
	if view.Level != 1 || view.MoneyPerTurn != 200 || view.MaterialsPerTurn != 100 {
		t.Fatalf("unexpected building view %+v", view)
	}

	res := testdb.Resources(t, f.db, f.player.ID)
	if res.Money != 0 || res.Materials != 0 {
		t.Fatalf("expected empty balance, got money=%d materials=%d", res.Money, res.Materials)
	}
	if res.Population != models.StartingPopulation+50 || res.Happiness != models.StartingHappiness-5 {
		t.Fatalf("bonus not applied: %+v", res)
	}
	if n := countBuildings(t, f.db, f.player.ID); n != 1 {
		t.Fatalf("expected one building, got %d", n)
	}
}

func TestConstructInsufficientFundsChangesNothing(t *testing.T) {
	f := newFixture(t, 24)
	testdb.SetBalance(t, f.db, f.player.ID, 999, 500, 70)

	_, err := f.svc.Construct(context.Background(), f.player.ID, f.user.ID, testdb.BuildingTypeID(t, f.db, "factory"))
	expectKind(t, err, apperror.KindInsufficientResources, "Insufficient resources")

	res := testdb.Resources(t, f.db, f.player.ID)
	if res.Money != 999 || res.Materials != 500 || res.Population != models.StartingPopulation {
		t.Fatalf("balance changed after rejected construct: %+v", res)
	}
	if n := countBuildings(t, f.db, f.player.ID); n != 0 {
		t.Fatalf("expected no building, got %d", n)
	}
}

func TestConstructClampsHappiness(t *testing.T) {
	f := newFixture(t, 24)
	ctx := context.Background()

	testdb.SetBalance(t, f.db, f.player.ID, 5000, 5000, 95)
	if _, err := f.svc.Construct(ctx, f.player.ID, f.user.ID, testdb.BuildingTypeID(t, f.db, "cultural_center")); err != nil {
		t.Fatalf("construct cultural center: %v", err)
	}
	if h := testdb.Resources(t, f.db, f.player.ID).Happiness; h != 100 {
		t.Fatalf("expected happiness capped at 100, got %d", h)
	}

	testdb.SetBalance(t, f.db, f.player.ID, 5000, 5000, 3)
	if _, err := f.svc.Construct(ctx, f.player.ID, f.user.ID, testdb.BuildingTypeID(t, f.db, "factory")); err != nil {
		t.Fatalf("construct factory: %v", err)
	}
	if h := testdb.Resources(t, f.db, f.player.ID).Happiness; h != 0 {
		t.Fatalf("expected happiness floored at 0, got %d", h)
	}
}

func TestConstructRejections(t *testing.T) {
	f := newFixture(t, 24)
	ctx := context.Background()
	mallory := testdb.CreateUser(t, f.db, "mallory")

	_, err := f.svc.Construct(ctx, f.player.ID, mallory.ID, testdb.BuildingTypeID(t, f.db, "factory"))
	expectKind(t, err, apperror.KindNotFound, "Player not found or access denied")

	_, err = f.svc.Construct(ctx, f.player.ID, f.user.ID, 9999)
	expectKind(t, err, apperror.KindNotFound, "Building type not found")

	if err := f.db.Where("player_id = ?", f.player.ID).Delete(&models.PlayerResources{}).Error; err != nil {
		t.Fatalf("delete resources: %v", err)
	}
	_, err = f.svc.Construct(ctx, f.player.ID, f.user.ID, testdb.BuildingTypeID(t, f.db, "factory"))
	expectKind(t, err, apperror.KindValidation, "Player resources not found")
}

func TestUpgradeUpToMaxLevel(t *testing.T) {
	f := newFixture(t, 24)
	ctx := context.Background()
	testdb.SetBalance(t, f.db, f.player.ID, 100000, 100000, 70)

	built, err := f.svc.Construct(ctx, f.player.ID, f.user.ID, testdb.BuildingTypeID(t, f.db, "factory"))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}

	wantMoney := int64(100000 - 1000)
	for level := 1; level < MaxBuildingLevel; level++ {
		wantMoney -= UpgradeCost(1000, level)
		view, err := f.svc.Upgrade(ctx, built.ID, f.user.ID)
		if err != nil {
			t.Fatalf("upgrade from level %d: %v", level, err)
		}
		if view.Level != level+1 {
			t.Fatalf("expected level %d, got %d", level+1, view.Level)
		}
	}

	res := testdb.Resources(t, f.db, f.player.ID)
	if res.Money != wantMoney {
		t.Fatalf("expected money %d, got %d", wantMoney, res.Money)
	}
	// 建設1回とアップグレード4回でボーナスは5回分
	if res.Population != models.StartingPopulation+5*50 || res.Happiness != 70-5*5 {
		t.Fatalf("unexpected bonus accumulation: %+v", res)
	}

	_, err = f.svc.Upgrade(ctx, built.ID, f.user.ID)
	expectKind(t, err, apperror.KindInvalidState, "Building is already at maximum level")
	if after := testdb.Resources(t, f.db, f.player.ID); after.Money != res.Money || after.Materials != res.Materials {
		t.Fatalf("balance changed after rejected upgrade: %+v", after)
	}
}

func TestUpgradeRejections(t *testing.T) {
	f := newFixture(t, 24)
	ctx := context.Background()

	built, err := f.svc.Construct(ctx, f.player.ID, f.user.ID, testdb.BuildingTypeID(t, f.db, "factory"))
	if err != nil {
		t.Fatalf("construct: %v", err)
	}

	_, err = f.svc.Upgrade(ctx, 9999, f.user.ID)
	expectKind(t, err, apperror.KindNotFound, "Building not found")

	mallory := testdb.CreateUser(t, f.db, "mallory")
	_, err = f.svc.Upgrade(ctx, built.ID, mallory.ID)
	expectKind(t, err, apperror.KindForbidden, "Access denied")

	// 建設後の残高は0なのでアップグレードできない
	_, err = f.svc.Upgrade(ctx, built.ID, f.user.ID)
	expectKind(t, err, apperror.KindInsufficientResources, "Insufficient resources for upgrade")

	var b models.PlayerBuilding
	if err := f.db.First(&b, built.ID).Error; err != nil {
		t.Fatalf("reload building: %v", err)
	}
	if b.Level != 1 {
		t.Fatalf("expected level to stay at 1, got %d", b.Level)
	}
}

func TestResourcesCreatesDefaultRowAndUsesTurnLength(t *testing.T) {
	f := newFixture(t, 12)
	ctx := context.Background()

	if err := f.db.Where("player_id = ?", f.player.ID).Delete(&models.PlayerResources{}).Error; err != nil {
		t.Fatalf("delete resources: %v", err)
	}
	view, err := f.svc.Resources(ctx, f.player.ID, f.user.ID)
	if err != nil {
		t.Fatalf("resources: %v", err)
	}
	if view.Money != models.StartingMoney || view.Materials != models.StartingMaterials ||
		view.Population != models.StartingPopulation || view.Happiness != models.StartingHappiness {
		t.Fatalf("expected default row, got %+v", view.PlayerResources)
	}
	if view.MoneyPerTurn != BaseMoneyPerTurn || view.MaterialsPerTurn != BaseMaterialsPerTurn ||
		view.PopulationGrowth != BasePopulationGrowth || view.TurnDurationHours != 12 {
		t.Fatalf("unexpected base income %+v", view)
	}

	if _, err := f.svc.Construct(ctx, f.player.ID, f.user.ID, testdb.BuildingTypeID(t, f.db, "factory")); err != nil {
		t.Fatalf("construct: %v", err)
	}
	view, err = f.svc.Resources(ctx, f.player.ID, f.user.ID)
	if err != nil {
		t.Fatalf("resources: %v", err)
	}
	if view.MoneyPerTurn != BaseMoneyPerTurn+100 || view.MaterialsPerTurn != BaseMaterialsPerTurn+50 {
		t.Fatalf("expected 12h turn income, got money=%d materials=%d", view.MoneyPerTurn, view.MaterialsPerTurn)
	}

	mallory := testdb.CreateUser(t, f.db, "mallory")
	_, err = f.svc.Resources(ctx, f.player.ID, mallory.ID)
	expectKind(t, err, apperror.KindNotFound, "Player not found or access denied")
}

func TestBuildingsListsOwnedBuildings(t *testing.T) {
	f := newFixture(t, 24)
	ctx := context.Background()
	testdb.SetBalance(t, f.db, f.player.ID, 10000, 10000, 70)

	for _, code := range []string{"factory", "university"} {
		if _, err := f.svc.Construct(ctx, f.player.ID, f.user.ID, testdb.BuildingTypeID(t, f.db, code)); err != nil {
			t.Fatalf("construct %s: %v", code, err)
		}
	}
	views, err := f.svc.Buildings(ctx, f.player.ID, f.user.ID)
	if err != nil {
		t.Fatalf("buildings: %v", err)
	}
	if len(views) != 2 || views[0].Name != "Factory" || views[1].Icon != "🔬" {
		t.Fatalf("unexpected buildings %+v", views)
	}
	if views[1].UpgradeCostMoney != UpgradeCost(1200, 1) {
		t.Fatalf("expected upgrade preview, got %d", views[1].UpgradeCostMoney)
	}
}

func TestStartResearchRequiresCompletedPrerequisites(t *testing.T) {
	f := newFixture(t, 24)
	ctx := context.Background()
	testdb.SetBalance(t, f.db, f.player.ID, 10000, 0, 70)

	economics := testdb.TechnologyID(t, f.db, "advanced_economics")
	automation := testdb.TechnologyID(t, f.db, "industrial_automation")

	_, err := f.svc.StartResearch(ctx, f.player.ID, f.user.ID, automation)
	expectKind(t, err, apperror.KindValidation, "Prerequisites not met")

	view, err := f.svc.StartResearch(ctx, f.player.ID, f.user.ID, economics)
	if err != nil {
		t.Fatalf("start research: %v", err)
	}
	if view.Status != models.ResearchStatusResearching || view.TurnsRemaining == nil || *view.TurnsRemaining != 3 {
		t.Fatalf("unexpected research view %+v", view)
	}
	if money := testdb.Resources(t, f.db, f.player.ID).Money; money != 10000-1500 {
		t.Fatalf("expected research cost debited, got %d", money)
	}

	_, err = f.svc.StartResearch(ctx, f.player.ID, f.user.ID, economics)
	expectKind(t, err, apperror.KindInvalidState, "Technology already researched or in progress")

	// 研究中のままでは前提を満たさない
	_, err = f.svc.StartResearch(ctx, f.player.ID, f.user.ID, automation)
	expectKind(t, err, apperror.KindValidation, "Prerequisites not met")

	f.clock = f.clock.Add(73 * time.Hour)
	if _, err := f.svc.StartResearch(ctx, f.player.ID, f.user.ID, automation); err != nil {
		t.Fatalf("start research after prerequisite finished: %v", err)
	}
	if len(f.notifier.sent) != 1 || f.notifier.sent[0].userID != f.user.ID ||
		f.notifier.sent[0].data["type"] != "research_completed" {
		t.Fatalf("expected one completion notification, got %+v", f.notifier.sent)
	}
}

func TestStartResearchRejections(t *testing.T) {
	f := newFixture(t, 24)
	ctx := context.Background()

	_, err := f.svc.StartResearch(ctx, f.player.ID, f.user.ID, 9999)
	expectKind(t, err, apperror.KindNotFound, "Technology not found")

	_, err = f.svc.StartResearch(ctx, f.player.ID, f.user.ID, testdb.TechnologyID(t, f.db, "advanced_economics"))
	expectKind(t, err, apperror.KindInsufficientResources, "Insufficient money for research")
	if money := testdb.Resources(t, f.db, f.player.ID).Money; money != models.StartingMoney {
		t.Fatalf("money changed after rejected research: %d", money)
	}
}

func TestTechnologiesDerivesProgressFromElapsedTime(t *testing.T) {
	f := newFixture(t, 24)
	ctx := context.Background()
	media := testdb.TechnologyID(t, f.db, "mass_media")

	if _, err := f.svc.StartResearch(ctx, f.player.ID, f.user.ID, media); err != nil {
		t.Fatalf("start research: %v", err)
	}
	f.clock = f.clock.Add(12 * time.Hour)

	views, err := f.svc.Technologies(ctx, f.player.ID, f.user.ID)
	if err != nil {
		t.Fatalf("technologies: %v", err)
	}
	if len(views) != 8 {
		t.Fatalf("expected the whole tree, got %d", len(views))
	}
	for _, v := range views {
		if v.Code == "mass_media" {
			if v.Status != models.ResearchStatusResearching || v.Progress != 25 || v.TurnsRemaining == nil || *v.TurnsRemaining != 2 {
				t.Fatalf("unexpected mass media view %+v", v)
			}
			continue
		}
		if v.Status != models.ResearchStatusAvailable || v.TurnsRemaining != nil {
			t.Fatalf("expected %s to be available, got %+v", v.Code, v)
		}
		if v.Tier == 2 && len(v.Prerequisites) != 1 {
			t.Fatalf("expected %s to list its prerequisite, got %v", v.Code, v.Prerequisites)
		}
	}
}

func TestCompleteDueResearchNotifiesOnce(t *testing.T) {
	f := newFixture(t, 24)
	ctx := context.Background()
	media := testdb.TechnologyID(t, f.db, "mass_media")

	if _, err := f.svc.StartResearch(ctx, f.player.ID, f.user.ID, media); err != nil {
		t.Fatalf("start research: %v", err)
	}

	finished, err := f.svc.CompleteDueResearch(ctx)
	if err != nil || len(finished) != 0 {
		t.Fatalf("expected nothing due yet, got %v %v", finished, err)
	}

	f.clock = f.clock.Add(48 * time.Hour)
	finished, err = f.svc.CompleteDueResearch(ctx)
	if err != nil {
		t.Fatalf("complete due research: %v", err)
	}
	if len(finished) != 1 || finished[0].TechnologyID != media || finished[0].Name != "Mass Media" {
		t.Fatalf("unexpected completion %+v", finished)
	}

	finished, err = f.svc.CompleteDueResearch(ctx)
	if err != nil || len(finished) != 0 {
		t.Fatalf("expected a second sweep to find nothing, got %v %v", finished, err)
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(f.notifier.sent))
	}

	var record models.PlayerResearch
	if err := f.db.Where("player_id = ? AND technology_id = ?", f.player.ID, media).First(&record).Error; err != nil {
		t.Fatalf("reload research: %v", err)
	}
	if record.Status != models.ResearchStatusCompleted || record.Progress != 100 || record.CompletedAt == nil {
		t.Fatalf("research not completed: %+v", record)
	}
}

func TestToggleReady(t *testing.T) {
	f := newFixture(t, 24)
	ctx := context.Background()

	player, err := f.svc.ToggleReady(ctx, f.player.ID, f.user.ID)
	if err != nil || !player.IsReady {
		t.Fatalf("expected ready, got %+v %v", player, err)
	}
	player, err = f.svc.ToggleReady(ctx, f.player.ID, f.user.ID)
	if err != nil || player.IsReady {
		t.Fatalf("expected not ready, got %+v %v", player, err)
	}

	mallory := testdb.CreateUser(t, f.db, "mallory")
	_, err = f.svc.ToggleReady(ctx, f.player.ID, mallory.ID)
	expectKind(t, err, apperror.KindNotFound, "Player not found or access denied")
}
