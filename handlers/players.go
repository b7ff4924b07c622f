package handlers

import (
	"net/http"

	"worldstage/models"
	"worldstage/realtime"
	"worldstage/utils"

	"github.com/gin-gonic/gin"
)

// Countries godoc
// @Summary      Countries a nation can be founded in
// @Tags         Players
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /players/countries [get]
func (h *Handler) Countries(c *gin.Context) {
	countries, err := h.lobby.Countries(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to fetch countries")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"countries": countries})
}

// PlayerGames godoc
// @Summary      Games the caller plays in
// @Tags         Players
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /players/games [get]
func (h *Handler) PlayerGames(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	games, err := h.lobby.PlayerGames(c.Request.Context(), claims.ID)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to fetch player games")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"games": games})
}

// BuildingTypes godoc
// @Summary      Building catalog
// @Tags         Players
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /players/building-types [get]
func (h *Handler) BuildingTypes(c *gin.Context) {
	types, err := h.ledger.BuildingTypes(c.Request.Context())
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to fetch building types")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"building_types": types})
}

// Resources godoc
// @Summary      Resource balance and per-turn income of a player
// @Tags         Players
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Player ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Player not found or access denied"
// @Router       /players/{id}/resources [get]
func (h *Handler) Resources(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "id", "player")
	if !ok {
		return
	}
	resources, err := h.ledger.Resources(c.Request.Context(), playerID, claims.ID)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to fetch resources")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"resources": resources})
}

// Buildings godoc
// @Summary      Buildings owned by a player
// @Tags         Players
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Player ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Player not found or access denied"
// @Router       /players/{id}/buildings [get]
func (h *Handler) Buildings(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "id", "player")
	if !ok {
		return
	}
	buildings, err := h.ledger.Buildings(c.Request.Context(), playerID, claims.ID)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to fetch buildings")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"buildings": buildings})
}

// ConstructBuilding godoc
// @Summary      Construct a level 1 building
// @Tags         Players
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int                              true  "Player ID"
// @Param        building  body      models.ConstructBuildingRequest  true  "buildingTypeId"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  map[string]interface{}  "Insufficient resources"
// @Failure      404       {object}  map[string]interface{}  "Building type not found"
// @Router       /players/{id}/buildings [post]
func (h *Handler) ConstructBuilding(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "id", "player")
	if !ok {
		return
	}
	var req models.ConstructBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindingError(c, err, "Building type is required")
		return
	}
	building, err := h.ledger.Construct(c.Request.Context(), playerID, claims.ID, req.BuildingTypeID)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to construct building")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Building constructed successfully", gin.H{"building": building})
}

// UpgradeBuilding godoc
// @Summary      Raise a building one level (max 5)
// @Tags         Players
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Building ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}  "Max level or insufficient resources"
// @Failure      403  {object}  map[string]interface{}  "Access denied"
// @Failure      404  {object}  map[string]interface{}  "Building not found"
// @Router       /players/buildings/{id}/upgrade [post]
func (h *Handler) UpgradeBuilding(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	buildingID, ok := pathID(c, "id", "building")
	if !ok {
		return
	}
	building, err := h.ledger.Upgrade(c.Request.Context(), buildingID, claims.ID)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to upgrade building")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Building upgraded successfully", gin.H{"building": building})
}

// Technologies godoc
// @Summary      Technology tree with the player's research state
// @Tags         Players
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Player ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Player not found or access denied"
// @Router       /players/{id}/technologies [get]
func (h *Handler) Technologies(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "id", "player")
	if !ok {
		return
	}
	techs, err := h.ledger.Technologies(c.Request.Context(), playerID, claims.ID)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to fetch technologies")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "", gin.H{"technologies": techs})
}

// StartResearch godoc
// @Summary      Start researching a technology
// @Tags         Players
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id        path      int                           true  "Player ID"
// @Param        research  body      models.StartResearchRequest  true  "technologyId"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  map[string]interface{}  "Insufficient money, prerequisites not met or already researched"
// @Failure      404       {object}  map[string]interface{}  "Technology not found"
// @Router       /players/{id}/technologies/research [post]
func (h *Handler) StartResearch(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "id", "player")
	if !ok {
		return
	}
	var req models.StartResearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendBindingError(c, err, "Technology is required")
		return
	}
	tech, err := h.ledger.StartResearch(c.Request.Context(), playerID, claims.ID, req.TechnologyID)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to start research")
		return
	}
	utils.SendSuccess(c, http.StatusOK, "Research started successfully", gin.H{"technology": tech})
}

// ToggleReady godoc
// @Summary      Flip the player's ready flag
// @Tags         Players
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Player ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]interface{}  "Player not found or access denied"
// @Router       /players/{id}/ready [post]
func (h *Handler) ToggleReady(c *gin.Context) {
	claims, ok := authUser(c)
	if !ok {
		return
	}
	playerID, ok := pathID(c, "id", "player")
	if !ok {
		return
	}
	player, err := h.ledger.ToggleReady(c.Request.Context(), playerID, claims.ID)
	if err != nil {
		utils.SendAppError(c, h.logger, err, "Failed to update ready status")
		return
	}

	h.realtime.BroadcastToGame(player.GameID, realtime.EventPlayerReadyChanged, map[string]any{
		"playerId": player.ID,
		"userId":   claims.ID,
		"username": claims.Username,
		"is_ready": player.IsReady,
	})
	message := "Player is no longer ready"
	if player.IsReady {
		message = "Player is ready"
	}
	utils.SendSuccess(c, http.StatusOK, message, gin.H{"player": player})
}
