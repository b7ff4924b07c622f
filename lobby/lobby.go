// Package lobby はゲームの一覧・作成・参加・開始を扱う。
// 参加と開始はゲーム行をロックした1トランザクションで行うため、
// 定員超過や二重開始は起こらない。
package lobby

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"worldstage/apperror"
	"worldstage/models"
	"worldstage/utils"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 一覧に表示するステータス
var listedStatuses = []string{models.GameStatusWaiting, models.GameStatusActive}

type Service struct {
	db              *gorm.DB
	logger          *zap.Logger
	requireAllReady bool
	now             func() time.Time
}

// NewService builds the registry. requireAllReady enables the readiness gate on start.
func NewService(db *gorm.DB, logger *zap.Logger, requireAllReady bool) *Service {
	return &Service{db: db, logger: logger, requireAllReady: requireAllReady, now: time.Now}
}

func summaries(db *gorm.DB) *gorm.DB {
	return db.Table("games AS g").
		Select("g.*, u.username AS creator_username").
		Joins("JOIN users u ON u.id = g.creator_id")
}

// List returns the waiting and active games, newest first.
func (s *Service) List(ctx context.Context) ([]models.GameSummary, error) {
	games := []models.GameSummary{}
	err := summaries(s.db.WithContext(ctx)).
		Where("g.status IN ?", listedStatuses).
		Order("g.created_at DESC, g.id DESC").
		Scan(&games).Error
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return games, nil
}

// Create は作成者を creator として pending 状態のゲームを作る
func (s *Service) Create(ctx context.Context, creatorID uint, req models.CreateGameRequest) (models.Game, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.Game{}, apperror.Validation("Game name is required")
	}
	maxPlayers := req.MaxPlayers
	if maxPlayers == 0 {
		maxPlayers = models.DefaultMaxPlayers
	}
	turnHours := req.TurnDurationHours
	if turnHours == 0 {
		turnHours = models.DefaultTurnDurationHours
	}

	seed, err := utils.RandomToken(8)
	if err != nil {
		return models.Game{}, fmt.Errorf("world seed: %w", err)
	}

	game := models.Game{
		Name:              name,
		Slug:              slug.Make(name),
		CreatorID:         creatorID,
		Status:            models.GameStatusPending,
		MaxPlayers:        maxPlayers,
		TurnDurationHours: turnHours,
		GamePhase:         models.PhaseFoundation,
		WorldSeed:         seed,
	}
	if err := s.db.WithContext(ctx).Create(&game).Error; err != nil {
		return models.Game{}, fmt.Errorf("insert game: %w", err)
	}
	s.logger.Info("Game created", zap.Uint("gameID", game.ID), zap.Uint("creatorID", creatorID))
	return game, nil
}

// Details returns one game with its creator and every joined player.
func (s *Service) Details(ctx context.Context, gameID uint) (models.GameDetails, error) {
	db := s.db.WithContext(ctx)
	var details models.GameDetails
	result := summaries(db).Where("g.id = ?", gameID).Limit(1).Scan(&details.GameSummary)
	if result.Error != nil {
		return details, fmt.Errorf("load game %d: %w", gameID, result.Error)
	}
	if result.RowsAffected == 0 {
		return details, apperror.NotFound("Game not found")
	}

	details.Players = []models.PlayerSummary{}
	err := db.Table("players AS p").
		Select("p.*, u.username, c.name AS country_name, c.color_hex").
		Joins("JOIN users u ON u.id = p.user_id").
		Joins("JOIN countries c ON c.id = p.country_id").
		Where("p.game_id = ?", gameID).
		Order("p.id").
		Scan(&details.Players).Error
	if err != nil {
		return details, fmt.Errorf("load players of game %d: %w", gameID, err)
	}
	return details, nil
}

// Join adds the user to the game with the starting resources. プレイヤー作成・
// 初期資源・参加人数の更新はすべて同じトランザクションで行う
func (s *Service) Join(ctx context.Context, gameID, userID uint, req models.JoinGameRequest) (models.Player, error) {
	var player models.Player
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var game models.Game
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&game, gameID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Game not found")
		}
		if err != nil {
			return fmt.Errorf("lock game %d: %w", gameID, err)
		}

		var country models.Country
		err = tx.First(&country, req.CountryID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Country not found")
		}
		if err != nil {
			return fmt.Errorf("load country %d: %w", req.CountryID, err)
		}

		if game.CurrentPlayers >= game.MaxPlayers {
			return apperror.Validation("Game is full")
		}

		var existing int64
		if err := tx.Model(&models.Player{}).Where("user_id = ? AND game_id = ?", userID, gameID).
			Count(&existing).Error; err != nil {
			return fmt.Errorf("check membership: %w", err)
		}
		if existing > 0 {
			return apperror.Validation("You are already in this game")
		}

		player = models.Player{
			UserID:     userID,
			GameID:     gameID,
			CountryID:  country.ID,
			NationName: strings.TrimSpace(req.NationName),
			LeaderName: strings.TrimSpace(req.LeaderName),
			IsActive:   true,
		}
		if err := tx.Create(&player).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Validation("You are already in this game")
			}
			return fmt.Errorf("insert player: %w", err)
		}

		resources := models.NewPlayerResources(player.ID)
		if err := tx.Create(&resources).Error; err != nil {
			return fmt.Errorf("insert starting resources: %w", err)
		}

		if err := tx.Model(&models.Game{}).Where("id = ?", gameID).
			Updates(map[string]any{
				"current_players": gorm.Expr("current_players + 1"),
				"updated_at":      s.now(),
			}).Error; err != nil {
			return fmt.Errorf("increment player count: %w", err)
		}
		return nil
	})
	if err != nil {
		return player, err
	}
	s.logger.Info("Player joined game", zap.Uint("gameID", gameID), zap.Uint("userID", userID), zap.Uint("playerID", player.ID))
	return player, nil
}

// Start moves a pending game to active. Only the creator may start it and at
// least one player must have joined.
func (s *Service) Start(ctx context.Context, gameID, userID uint) (models.Game, error) {
	var game models.Game
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&game, gameID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("Game not found")
		}
		if err != nil {
			return fmt.Errorf("lock game %d: %w", gameID, err)
		}
		if game.CreatorID != userID {
			return apperror.Forbidden("Only the game creator can start the game")
		}
		if game.Status != models.GameStatusPending {
			return apperror.InvalidState("Game is not in a pending state")
		}

		var players []models.Player
		if err := tx.Where("game_id = ?", gameID).Find(&players).Error; err != nil {
			return fmt.Errorf("load players: %w", err)
		}
		if len(players) == 0 {
			return apperror.InvalidState("Cannot start a game with no players")
		}
		if s.requireAllReady {
			for _, p := range players {
				if !p.IsReady {
					return apperror.InvalidState("Not all players are ready")
				}
			}
		}

		now := s.now()
		game.Status = models.GameStatusActive
		game.GamePhase = models.PhaseFoundation
		game.CurrentTurn = 1
		game.StartedAt = &now
		game.UpdatedAt = now
		// pending 条件付きの更新でロック非対応のDBでも遷移は1回だけ
		result := tx.Model(&models.Game{}).
			Where("id = ? AND status = ?", gameID, models.GameStatusPending).
			Updates(map[string]any{
				"status":       game.Status,
				"game_phase":   game.GamePhase,
				"current_turn": game.CurrentTurn,
				"started_at":   now,
				"updated_at":   now,
			})
		if result.Error != nil {
			return fmt.Errorf("activate game %d: %w", gameID, result.Error)
		}
		if result.RowsAffected == 0 {
			return apperror.InvalidState("Game is not in a pending state")
		}
		return nil
	})
	if err != nil {
		return game, err
	}
	s.logger.Info("Game started", zap.Uint("gameID", gameID))
	return game, nil
}

// PlayerGames は利用者が参加しているゲームを新しい順に返す
func (s *Service) PlayerGames(ctx context.Context, userID uint) ([]models.PlayerGame, error) {
	games := []models.PlayerGame{}
	err := s.db.WithContext(ctx).Table("games AS g").
		Select("g.*, p.id AS player_id, p.nation_name, p.leader_name").
		Joins("JOIN players p ON p.game_id = g.id").
		Where("p.user_id = ?", userID).
		Order("g.created_at DESC, g.id DESC").
		Scan(&games).Error
	if err != nil {
		return nil, fmt.Errorf("list games of user %d: %w", userID, err)
	}
	return games, nil
}

func (s *Service) Countries(ctx context.Context) ([]models.Country, error) {
	countries := []models.Country{}
	if err := s.db.WithContext(ctx).Order("name").Find(&countries).Error; err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}
	return countries, nil
}
