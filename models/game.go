package models

import (
	"time"
)

const (
	GameStatusPending   = "pending"
	GameStatusWaiting   = "waiting"
	GameStatusActive    = "active"
	GameStatusCompleted = "completed"
)

const (
	PhaseFoundation  = "foundation"
	PhaseExpansion   = "expansion"
	PhaseCompetition = "competition"
	PhaseResolution  = "resolution"
)

const (
	DefaultMaxPlayers        = 10
	DefaultTurnDurationHours = 24
)

// Game モデルの定義
// status / game_phase はゲーム開始操作でのみ遷移する
type Game struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	Name              string     `gorm:"size:100;not null" json:"name"`
	Slug              string     `gorm:"size:120;index" json:"slug"`
	CreatorID         uint       `gorm:"not null;index" json:"creator_id"`
	Status            string     `gorm:"size:20;not null;default:'pending';index" json:"status"`
	MaxPlayers        int        `gorm:"not null;default:10" json:"max_players"`
	CurrentPlayers    int        `gorm:"not null;default:0" json:"current_players"`
	TurnDurationHours int        `gorm:"not null;default:24" json:"turn_duration_hours"`
	CurrentTurn       int        `gorm:"not null;default:0" json:"current_turn"`
	GamePhase         string     `gorm:"size:20;not null;default:'foundation'" json:"game_phase"`
	WorldSeed         string     `gorm:"size:64" json:"world_seed"`
	StartedAt         *time.Time `json:"started_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (Game) TableName() string { return "games" }

// TurnHours は経済計算に使う1ターンの長さ（時間）
func (g Game) TurnHours() int {
	if g.TurnDurationHours <= 0 {
		return DefaultTurnDurationHours
	}
	return g.TurnDurationHours
}

// GameSummary is a game row joined with its creator's username.
type GameSummary struct {
	Game
	CreatorUsername string `json:"creator_username"`
}

// GameDetails adds the joined players to a summary.
type GameDetails struct {
	GameSummary
	Players []PlayerSummary `gorm:"-" json:"players"`
}

// PlayerGame is one of the caller's games together with the nation they play in it.
type PlayerGame struct {
	Game
	PlayerID   uint   `json:"player_id"`
	NationName string `json:"nation_name"`
	LeaderName string `json:"leader_name"`
}
