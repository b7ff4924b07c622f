// Package ledger は所有者チェック付きでプレイヤーの経済状態（資源・建物・研究）を扱う。
// 変更系の操作はすべて1トランザクション内で player_resources 行をロックしてから
// 支払い可能判定・引き落とし・書き込みを行う。
package ledger

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"worldstage/apperror"
	"worldstage/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Notifier delivers per-user realtime notifications.
type Notifier interface {
	SendNotificationToUser(userID uint, data map[string]any)
}

type Service struct {
	db       *gorm.DB
	logger   *zap.Logger
	notifier Notifier
	now      func() time.Time
}

func NewService(db *gorm.DB, logger *zap.Logger, notifier Notifier) *Service {
	return &Service{db: db, logger: logger, notifier: notifier, now: time.Now}
}

// CompletedResearch is a research that reached its finish time.
type CompletedResearch struct {
	ID           uint
	PlayerID     uint
	UserID       uint
	TechnologyID uint
	Name         string
}

var forUpdate = clause.Locking{Strength: "UPDATE"}

// ownedPlayer は requester が所有するプレイヤーとそのゲームを返す
func ownedPlayer(tx *gorm.DB, playerID, userID uint) (models.Player, models.Game, error) {
	var player models.Player
	err := tx.Where("id = ? AND user_id = ?", playerID, userID).First(&player).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return player, models.Game{}, apperror.NotFound("Player not found or access denied")
	}
	if err != nil {
		return player, models.Game{}, fmt.Errorf("load player %d: %w", playerID, err)
	}
	var game models.Game
	if err := tx.First(&game, player.GameID).Error; err != nil {
		return player, game, fmt.Errorf("load game %d: %w", player.GameID, err)
	}
	return player, game, nil
}

func lockResources(tx *gorm.DB, playerID uint) (models.PlayerResources, error) {
	var res models.PlayerResources
	err := tx.Clauses(forUpdate).Where("player_id = ?", playerID).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return res, apperror.Validation("Player resources not found")
	}
	if err != nil {
		return res, fmt.Errorf("lock resources of player %d: %w", playerID, err)
	}
	return res, nil
}

func saveBalance(tx *gorm.DB, res *models.PlayerResources) error {
	return tx.Model(&models.PlayerResources{}).Where("id = ?", res.ID).Updates(map[string]any{
		"money":      res.Money,
		"materials":  res.Materials,
		"population": res.Population,
		"happiness":  res.Happiness,
		"updated_at": res.UpdatedAt,
	}).Error
}

func ownedBuildings(tx *gorm.DB, playerID uint) ([]models.PlayerBuilding, error) {
	var buildings []models.PlayerBuilding
	err := tx.Preload("BuildingType").Where("player_id = ?", playerID).Order("id").Find(&buildings).Error
	return buildings, err
}

// Resources returns the balance and the derived per-turn income. A player
// without a resources row gets the default starting row created on read.
func (s *Service) Resources(ctx context.Context, playerID, userID uint) (models.ResourcesView, error) {
	var view models.ResourcesView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, game, err := ownedPlayer(tx, playerID, userID)
		if err != nil {
			return err
		}

		var res models.PlayerResources
		err = tx.Where("player_id = ?", playerID).First(&res).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			def := models.NewPlayerResources(playerID)
			if err := tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "player_id"}}, DoNothing: true}).
				Create(&def).Error; err != nil {
				return fmt.Errorf("create default resources: %w", err)
			}
			err = tx.Where("player_id = ?", playerID).First(&res).Error
		}
		if err != nil {
			return fmt.Errorf("load resources: %w", err)
		}

		buildings, err := ownedBuildings(tx, playerID)
		if err != nil {
			return fmt.Errorf("load buildings: %w", err)
		}
		income := TurnIncome(buildings, game.TurnHours())
		view = models.ResourcesView{
			PlayerResources:   res,
			MoneyPerTurn:      income.Money,
			MaterialsPerTurn:  income.Materials,
			PopulationGrowth:  income.PopulationGrowth,
			TurnDurationHours: game.TurnHours(),
			LastUpdated:       res.UpdatedAt,
		}
		return nil
	})
	return view, err
}

func (s *Service) Buildings(ctx context.Context, playerID, userID uint) ([]models.BuildingView, error) {
	db := s.db.WithContext(ctx)
	_, game, err := ownedPlayer(db, playerID, userID)
	if err != nil {
		return nil, err
	}
	buildings, err := ownedBuildings(db, playerID)
	if err != nil {
		return nil, fmt.Errorf("load buildings: %w", err)
	}
	views := make([]models.BuildingView, 0, len(buildings))
	for _, b := range buildings {
		views = append(views, BuildingView(b, game.TurnHours()))
	}
	return views, nil
}

// BuildingTypes は建設メニュー用のカタログ
func (s *Service) BuildingTypes(ctx context.Context) ([]models.BuildingType, error) {
	var types []models.BuildingType
	if err := s.db.WithContext(ctx).Order("category, name").Find(&types).Error; err != nil {
		return nil, fmt.Errorf("load building types: %w", err)
	}
	return types, nil
}

// Construct debits the building type's cost and inserts the building at level 1.
func (s *Service) Construct(ctx context.Context, playerID, userID, buildingTypeID uint) (models.BuildingView, error) {
	var view models.BuildingView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, game, err := ownedPlayer(tx, playerID, userID)
		if err != nil {
			return err
		}

		var bt models.BuildingType
		err = tx.First(&bt, buildingTypeID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Building type not found")
		}
		if err != nil {
			return fmt.Errorf("load building type %d: %w", buildingTypeID, err)
		}

		res, err := lockResources(tx, playerID)
		if err != nil {
			return err
		}
		if !CanAfford(res, bt.CostMoney, bt.CostMaterials) {
			return apperror.Insufficient("Insufficient resources")
		}

		res.Money -= bt.CostMoney
		res.Materials -= bt.CostMaterials
		ApplyBonus(&res, bt.Effects.Data())
		res.UpdatedAt = s.now()
		if err := saveBalance(tx, &res); err != nil {
			return fmt.Errorf("debit resources: %w", err)
		}

		building := models.PlayerBuilding{PlayerID: playerID, BuildingTypeID: bt.ID, Level: 1}
		if err := tx.Omit(clause.Associations).Create(&building).Error; err != nil {
			return fmt.Errorf("insert building: %w", err)
		}
		building.BuildingType = bt
		view = BuildingView(building, game.TurnHours())
		return nil
	})
	return view, err
}

// Upgrade raises an owned building by one level and reapplies its bonuses.
func (s *Service) Upgrade(ctx context.Context, buildingID, userID uint) (models.BuildingView, error) {
	var view models.BuildingView
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var building models.PlayerBuilding
		err := tx.Clauses(forUpdate).First(&building, buildingID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Building not found")
		}
		if err != nil {
			return fmt.Errorf("lock building %d: %w", buildingID, err)
		}

		var player models.Player
		if err := tx.First(&player, building.PlayerID).Error; err != nil {
			return fmt.Errorf("load owner of building %d: %w", buildingID, err)
		}
		if player.UserID != userID {
			return apperror.Forbidden("Access denied")
		}
		if building.Level >= MaxBuildingLevel {
			return apperror.InvalidState("Building is already at maximum level")
		}

		var bt models.BuildingType
		if err := tx.First(&bt, building.BuildingTypeID).Error; err != nil {
			return fmt.Errorf("load building type %d: %w", building.BuildingTypeID, err)
		}
		var game models.Game
		if err := tx.First(&game, player.GameID).Error; err != nil {
			return fmt.Errorf("load game %d: %w", player.GameID, err)
		}

		costMoney := UpgradeCost(bt.CostMoney, building.Level)
		costMaterials := UpgradeCost(bt.CostMaterials, building.Level)

		res, err := lockResources(tx, player.ID)
		if err != nil {
			return err
		}
		if !CanAfford(res, costMoney, costMaterials) {
			return apperror.Insufficient("Insufficient resources for upgrade")
		}

		now := s.now()
		res.Money -= costMoney
		res.Materials -= costMaterials
		ApplyBonus(&res, bt.Effects.Data())
		res.UpdatedAt = now
		if err := saveBalance(tx, &res); err != nil {
			return fmt.Errorf("debit resources: %w", err)
		}

		building.Level++
		building.UpdatedAt = now
		if err := tx.Model(&models.PlayerBuilding{}).Where("id = ?", building.ID).
			Updates(map[string]any{"level": building.Level, "updated_at": now}).Error; err != nil {
			return fmt.Errorf("raise building level: %w", err)
		}
		building.BuildingType = bt
		view = BuildingView(building, game.TurnHours())
		return nil
	})
	return view, err
}

func technologyView(t models.Technology) models.TechnologyView {
	id := strconv.FormatUint(uint64(t.ID), 10)
	prereqs := []uint(t.Prerequisites)
	if prereqs == nil {
		prereqs = []uint{}
	}
	return models.TechnologyView{
		ID:                id,
		TechnologyID:      id,
		Code:              t.Code,
		Name:              t.Name,
		Description:       t.Description,
		Category:          t.Category,
		Tier:              t.Tier,
		ResearchCost:      t.ResearchCost,
		ResearchTimeHours: t.ResearchTimeHours,
		Prerequisites:     prereqs,
		Status:            models.ResearchStatusAvailable,
	}
}

// Technologies lists the whole tree with this player's research state.
// progress と turns_remaining は開始時刻からの経過時間で算出する
func (s *Service) Technologies(ctx context.Context, playerID, userID uint) ([]models.TechnologyView, error) {
	db := s.db.WithContext(ctx)
	_, game, err := ownedPlayer(db, playerID, userID)
	if err != nil {
		return nil, err
	}

	var techs []models.Technology
	if err := db.Order("tier, category, name").Find(&techs).Error; err != nil {
		return nil, fmt.Errorf("load technologies: %w", err)
	}
	var research []models.PlayerResearch
	if err := db.Where("player_id = ?", playerID).Find(&research).Error; err != nil {
		return nil, fmt.Errorf("load research: %w", err)
	}
	byTech := make(map[uint]models.PlayerResearch, len(research))
	for _, r := range research {
		byTech[r.TechnologyID] = r
	}

	now := s.now()
	views := make([]models.TechnologyView, 0, len(techs))
	for _, t := range techs {
		view := technologyView(t)
		if r, ok := byTech[t.ID]; ok {
			view.Status = r.Status
			switch r.Status {
			case models.ResearchStatusResearching:
				view.Progress = ResearchProgress(t.ResearchTimeHours, r.StartedAt, now)
				turns := TurnsRemaining(t.ResearchTimeHours, r.StartedAt, now, game.TurnHours())
				view.TurnsRemaining = &turns
			case models.ResearchStatusCompleted:
				view.Progress = 100
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// StartResearch debits the research cost (money only) and records the research.
func (s *Service) StartResearch(ctx context.Context, playerID, userID, technologyID uint) (models.TechnologyView, error) {
	var (
		view     models.TechnologyView
		finished []CompletedResearch
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, game, err := ownedPlayer(tx, playerID, userID)
		if err != nil {
			return err
		}

		var tech models.Technology
		err = tx.First(&tech, technologyID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Technology not found")
		}
		if err != nil {
			return fmt.Errorf("load technology %d: %w", technologyID, err)
		}

		res, err := lockResources(tx, playerID)
		if err != nil {
			return err
		}
		if res.Money < tech.ResearchCost {
			return apperror.Insufficient("Insufficient money for research")
		}

		now := s.now()
		// 期限を過ぎた研究は前提条件の判定前に完了扱いにする
		finished, err = completeDue(tx, now, &playerID)
		if err != nil {
			return err
		}

		if len(tech.Prerequisites) > 0 {
			var done int64
			if err := tx.Model(&models.PlayerResearch{}).
				Where("player_id = ? AND technology_id IN ? AND status = ?", playerID, []uint(tech.Prerequisites), models.ResearchStatusCompleted).
				Count(&done).Error; err != nil {
				return fmt.Errorf("count prerequisites: %w", err)
			}
			if int(done) < len(tech.Prerequisites) {
				return apperror.Validation("Prerequisites not met")
			}
		}

		var existing int64
		if err := tx.Model(&models.PlayerResearch{}).
			Where("player_id = ? AND technology_id = ?", playerID, technologyID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check existing research: %w", err)
		}
		if existing > 0 {
			return apperror.InvalidState("Technology already researched or in progress")
		}

		res.Money -= tech.ResearchCost
		res.UpdatedAt = now
		if err := saveBalance(tx, &res); err != nil {
			return fmt.Errorf("debit research cost: %w", err)
		}

		record := models.PlayerResearch{
			PlayerID:     playerID,
			TechnologyID: technologyID,
			Status:       models.ResearchStatusResearching,
			StartedAt:    now,
		}
		if err := tx.Create(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.InvalidState("Technology already researched or in progress")
			}
			return fmt.Errorf("insert research: %w", err)
		}

		view = technologyView(tech)
		view.Status = models.ResearchStatusResearching
		turns := ResearchTurns(float64(tech.ResearchTimeHours), game.TurnHours())
		view.TurnsRemaining = &turns
		return nil
	})
	if err != nil {
		return view, err
	}
	s.announce(finished)
	return view, nil
}

// ToggleReady flips the ready flag of an owned player.
func (s *Service) ToggleReady(ctx context.Context, playerID, userID uint) (models.Player, error) {
	var player models.Player
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(forUpdate).Where("id = ? AND user_id = ?", playerID, userID).First(&player).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Player not found or access denied")
		}
		if err != nil {
			return fmt.Errorf("lock player %d: %w", playerID, err)
		}
		player.IsReady = !player.IsReady
		player.UpdatedAt = s.now()
		return tx.Model(&models.Player{}).Where("id = ?", player.ID).
			Updates(map[string]any{"is_ready": player.IsReady, "updated_at": player.UpdatedAt}).Error
	})
	return player, err
}

// CompleteDueResearch marks every research whose time has elapsed as completed
// and notifies the owners. cronから定期的に呼ばれる
func (s *Service) CompleteDueResearch(ctx context.Context) ([]CompletedResearch, error) {
	var finished []CompletedResearch
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		finished, err = completeDue(tx, s.now(), nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.announce(finished)
	return finished, nil
}

type researchingRow struct {
	ID                uint
	PlayerID          uint
	UserID            uint
	TechnologyID      uint
	Name              string
	ResearchTimeHours int
	StartedAt         time.Time
}

// completeDue は playerID が nil なら全プレイヤーを対象にする
func completeDue(tx *gorm.DB, now time.Time, playerID *uint) ([]CompletedResearch, error) {
	q := tx.Table("player_research AS pr").
		Select("pr.id, pr.player_id, p.user_id, pr.technology_id, t.name, t.research_time_hours, pr.started_at").
		Joins("JOIN players p ON p.id = pr.player_id").
		Joins("JOIN technologies t ON t.id = pr.technology_id").
		Where("pr.status = ?", models.ResearchStatusResearching)
	if playerID != nil {
		q = q.Where("pr.player_id = ?", *playerID)
	}
	var rows []researchingRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load running research: %w", err)
	}

	var finished []CompletedResearch
	for _, r := range rows {
		if !ResearchDue(r.ResearchTimeHours, r.StartedAt, now) {
			continue
		}
		result := tx.Model(&models.PlayerResearch{}).
			Where("id = ? AND status = ?", r.ID, models.ResearchStatusResearching).
			Updates(map[string]any{
				"status":       models.ResearchStatusCompleted,
				"progress":     100,
				"completed_at": now,
			})
		if result.Error != nil {
			return nil, fmt.Errorf("complete research %d: %w", r.ID, result.Error)
		}
		// 他のインスタンスが先に完了させた行は通知しない
		if result.RowsAffected == 0 {
			continue
		}
		finished = append(finished, CompletedResearch{
			ID:           r.ID,
			PlayerID:     r.PlayerID,
			UserID:       r.UserID,
			TechnologyID: r.TechnologyID,
			Name:         r.Name,
		})
	}
	return finished, nil
}

func (s *Service) announce(finished []CompletedResearch) {
	for _, f := range finished {
		s.logger.Info("research completed",
			zap.Uint("playerID", f.PlayerID),
			zap.Uint("technologyID", f.TechnologyID),
		)
		if s.notifier == nil {
			continue
		}
		s.notifier.SendNotificationToUser(f.UserID, map[string]any{
			"type":         "research_completed",
			"playerId":     f.PlayerID,
			"technologyId": f.TechnologyID,
			"name":         f.Name,
		})
	}
}
