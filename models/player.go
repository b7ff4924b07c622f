package models

import (
	"time"
)

// Player はUserとGameの組に1つだけ存在する
type Player struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;uniqueIndex:idx_players_user_game" json:"user_id"`
	GameID          uint      `gorm:"not null;uniqueIndex:idx_players_user_game;index" json:"game_id"`
	CountryID       uint      `gorm:"not null" json:"country_id"`
	NationName      string    `gorm:"size:100;not null" json:"nation_name"`
	LeaderName      string    `gorm:"size:100;not null" json:"leader_name"`
	IsReady         bool      `gorm:"not null;default:false" json:"is_ready"`
	IsActive        bool      `gorm:"not null;default:true" json:"is_active"`
	ReputationScore int       `gorm:"not null;default:0" json:"reputation_score"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Player) TableName() string { return "players" }

// PlayerSummary is a player joined with its username and country.
type PlayerSummary struct {
	Player
	Username    string `json:"username"`
	CountryName string `json:"country_name"`
	ColorHex    string `json:"color_hex"`
}

// Country は静的な参照データ（プレイヤーからは読み取り専用）
type Country struct {
	ID             uint    `gorm:"primaryKey" json:"id"`
	Name           string  `gorm:"size:100;not null" json:"name"`
	Code           string  `gorm:"size:3;uniqueIndex;not null" json:"code"`
	PositionX      float64 `gorm:"not null" json:"position_x"`
	PositionY      float64 `gorm:"not null" json:"position_y"`
	ColorHex       string  `gorm:"size:7;not null" json:"color_hex"`
	CapitalName    string  `gorm:"size:100" json:"capital_name"`
	GovernmentType string  `gorm:"size:50" json:"government_type"`
	Description    string  `json:"description"`
}

func (Country) TableName() string { return "countries" }
