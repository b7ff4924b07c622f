package handlers

import (
	"net/http"

	"worldstage/models"
	"worldstage/realtime"
	"worldstage/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListGames godoc
// @Summary      Games that are waiting for players or running
// @Tags         Games
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /games [get]
func (h *Handler) ListGames(c *gin.Context) {
	games, err := h.lobby.List(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to fetch games")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"games": games})
}

// CreateGame godoc
// @Summary      Create a game owned by the caller
// @Tags         Games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        game  body      models.CreateGameRequest  true  "name, maxPlayers (default 10), turnDurationHours (default 24)"
// @Success      201   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]interface{}
// @Router       /games [post]
func (h *Handler) CreateGame(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	var req models.CreateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindingError(c, err, "Game name is required")
		return
	}
	game, err := h.lobby.Create(c.Request.Context(), claims.ID, req)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to create game")
		return
	}
	utils.SendSuccess(c, http.StatusCreated, "Game created successfully", gin.H{"game": game})
}

// GameDetails godoc
// @Summary      A game with its creator and players
// @Tags         Games
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Game not found"
// @Router       /games/{id} [get]
func (h *Handler) GameDetails(c *gin.Context) {
	gameID, ok := pathID(c, "id", "game")
	if !ok {
		return
	}
	game, err := h.lobby.Details(c.Request.Context(), gameID)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to fetch game details")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"game": game})
}

// JoinGame godoc
// @Summary      Join a game as a new nation
// @Tags         Games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      int                     true  "Game ID"
// @Param        nation  body      models.JoinGameRequest  true  "countryId, nationName, leaderName"
// @Success      200     {object}  map[string]interface{}
// @Failure      400     {object}  map[string]interface{}  "Game is full or already joined"
// @Failure      404     {object}  map[string]interface{}  "Game or country not found"
// @Router       /games/{id}/join [post]
func (h *Handler) JoinGame(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "id", "game")
	if !ok {
		return
	}
	var req models.JoinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindingError(c, err, "Country, nation name and leader name are required")
		return
	}

	player, err := h.lobby.Join(c.Request.Context(), gameID, claims.ID, req)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to join game")
		return
	}

	h.realtime.BroadcastToGame(gameID, realtime.EventPlayerJoinedGame, map[string]any{
		"gameId":     gameID,
		"playerId":   player.ID,
		"userId":     claims.ID,
		"username":   claims.Username,
		"nationName": player.NationName,
		"leaderName": player.LeaderName,
		"countryId":  player.CountryID,
	})
	utils.SendSuccess(c, http.StatusOK, "Successfully joined game", gin.H{"player": player})
}

// StartGame godoc
// @Summary      Start a pending game (creator only)
// @Tags         Games
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}  "Game is not pending or has no players"
// @Failure      403  {object}  map[string]interface{}  "Only the game creator can start the game"
// @Failure      404  {object}  map[string]interface{}  "Game not found"
// @Router       /games/{id}/start [post]
func (h *Handler) StartGame(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	gameID, ok := pathID(c, "id", "game")
	if !ok {
		return
	}

	game, err := h.lobby.Start(c.Request.Context(), gameID, claims.ID)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to start game")
		return
	}

	h.logger.Info("Game started", zap.Uint("gameID", game.ID), zap.Uint("creatorID", claims.ID))
	h.realtime.EmitToGame(gameID, realtime.EventGameStarted, game)
	utils.SendSuccess(c, http.StatusOK, "Game started successfully", gin.H{"game": game})
}
