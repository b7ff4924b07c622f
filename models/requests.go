package models

// RegisterRequest はユーザー登録リクエストのボディ
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest はログインリクエストのボディ
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateGameRequest 省略された値はデフォルト（10人、24時間）になる
type CreateGameRequest struct {
	Name              string `json:"name" binding:"required,max=100"`
	MaxPlayers        int    `json:"maxPlayers" binding:"omitempty,min=1,max=100"`
	TurnDurationHours int    `json:"turnDurationHours" binding:"omitempty,min=1,max=720"`
}

type JoinGameRequest struct {
	CountryID  uint   `json:"countryId" binding:"required"`
	NationName string `json:"nationName" binding:"required,max=100"`
	LeaderName string `json:"leaderName" binding:"required,max=100"`
}

type ConstructBuildingRequest struct {
	BuildingTypeID uint `json:"buildingTypeId" binding:"required"`
}

type StartResearchRequest struct {
	TechnologyID uint `json:"technologyId" binding:"required"`
}
