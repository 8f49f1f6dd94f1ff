package handler

import (
	"net/http"

	"boardshelf/backend/internal/models"
	"boardshelf/backend/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cast"
)

const dateLayout = "2006-01-02"

// region --- DTOs ---

// GameInput is the payload for importing a game into the catalog.
type GameInput struct {
	GameID       string `json:"gameId" example:"catan"`
	GameName     string `json:"gameName" binding:"required" example:"Catan"`
	Description  string `json:"description"`
	LeadDesigner string `json:"leadDesigner" example:"Klaus Teuber"`
	Publisher    string `json:"publisher" example:"KOSMOS"`
	BoxArtURL    string `json:"boxArtUrl" binding:"omitempty,url"`
	ReleaseDate  string `json:"releaseDate" example:"1995-01-01"`
	MinPlayers   int    `json:"minPlayers" binding:"required,min=1" example:"3"`
	MaxPlayers   int    `json:"maxPlayers" binding:"required,gtefield=MinPlayers" example:"4"`
	PlayTime     int    `json:"playTime" binding:"min=0" example:"90"`
	Age          int    `json:"age" binding:"min=0" example:"10"`
}

func (in GameInput) toModel() (*models.Game, error) {
	g := &models.Game{
		GameID:       in.GameID,
		GameName:     in.GameName,
		Description:  in.Description,
		LeadDesigner: in.LeadDesigner,
		Publisher:    in.Publisher,
		BoxArtURL:    in.BoxArtURL,
		MinPlayers:   in.MinPlayers,
		MaxPlayers:   in.MaxPlayers,
		PlayTime:     in.PlayTime,
		Age:          in.Age,
	}
	if in.ReleaseDate != "" {
		date, err := cast.ToTimeE(in.ReleaseDate)
		if err != nil {
			return nil, err
		}
		g.ReleaseDate = date
	}
	return g, nil
}

// GameResponse is a catalog game as returned by the API.
type GameResponse struct {
	GameID       string `json:"gameId"`
	GameName     string `json:"gameName"`
	Description  string `json:"description"`
	LeadDesigner string `json:"leadDesigner"`
	Publisher    string `json:"publisher"`
	BoxArtURL    string `json:"boxArtUrl"`
	ReleaseDate  string `json:"releaseDate,omitempty"`
	MinPlayers   int    `json:"minPlayers"`
	MaxPlayers   int    `json:"maxPlayers"`
	PlayTime     int    `json:"playTime"`
	Age          int    `json:"age"`
}

func newGameResponse(game models.Game) GameResponse {
	var released string
	if !game.ReleaseDate.IsZero() {
		released = game.ReleaseDate.UTC().Format(dateLayout)
	}
	return GameResponse{
		GameID:       game.GameID,
		GameName:     game.GameName,
		Description:  game.Description,
		LeadDesigner: game.LeadDesigner,
		Publisher:    game.Publisher,
		BoxArtURL:    game.BoxArtURL,
		ReleaseDate:  released,
		MinPlayers:   game.MinPlayers,
		MaxPlayers:   game.MaxPlayers,
		PlayTime:     game.PlayTime,
		Age:          game.Age,
	}
}

func newGameResponses(games []models.Game) []GameResponse {
	response := make([]GameResponse, 0, len(games))
	for _, game := range games {
		response = append(response, newGameResponse(game))
	}
	return response
}

// ImportResponse reports whether an import inserted a new game.
type ImportResponse struct {
	Created bool         `json:"created"`
	Game    GameResponse `json:"game"`
}

// endregion

// region --- Admin Handlers ---

// CreateGame godoc
// @Summary      Import a game
// @Description  Adds a game to the catalog. Re-importing an existing gameId leaves the stored game unchanged.
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body GameInput true "Game Info"
// @Success      201  {object}  ImportResponse "Game created"
// @Success      200  {object}  ImportResponse "Game already in catalog"
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse "Admin access required"
// @Router       /admin/games [post]
func (h *Handler) CreateGame(c *gin.Context) {
	var input GameInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := input.toModel()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "releaseDate must be a date (YYYY-MM-DD)"})
		return
	}

	created, err := h.Catalog.CreateGame(c.Request.Context(), game)
	if err != nil {
		respondError(c, err)
		return
	}

	status := http.StatusCreated
	if !created {
		status = http.StatusOK
		if game, err = h.Catalog.ReadGame(c.Request.Context(), game.GameID); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(status, ImportResponse{Created: created, Game: newGameResponse(*game)})
}

// UpdateGame godoc
// @Summary      Update one attribute of a game
// @Description  Sets a single allow-listed attribute (e.g. gameName, minPlayers, releaseDate).
// @Tags         admin-games
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string      true  "Game ID"
// @Param        input body      UpdateInput true  "Column and new value"
// @Success      200   {object}  GameResponse
// @Failure      400   {object}  ErrorResponse "Unknown column or invalid value"
// @Failure      403   {object}  ErrorResponse "Admin access required"
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Router       /admin/games/{id} [patch]
func (h *Handler) UpdateGame(c *gin.Context) {
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	game, err := h.Catalog.UpdateGame(c.Request.Context(), c.Param("id"), input.Column, input.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGameResponse(*game))
}

// DeleteGame godoc
// @Summary      Delete a game
// @Description  Deletes a game. Games still in a user's library cannot be deleted.
// @Tags         admin-games
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Game deleted"}"
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Failure      409 {object} ErrorResponse "Game is referenced by library entries"
// @Router       /admin/games/{id} [delete]
func (h *Handler) DeleteGame(c *gin.Context) {
	if err := h.Catalog.DeleteGame(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Game deleted"})
}

// endregion

// region --- Public Handlers ---

// GetGameByID godoc
// @Summary      Get a single game by ID
// @Tags         games
// @Produce      json
// @Param        id path string true "Game ID"
// @Success      200 {object} GameResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Router       /games/{id} [get]
func (h *Handler) GetGameByID(c *gin.Context) {
	game, err := h.Catalog.ReadGame(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGameResponse(*game))
}

// GetGames godoc
// @Summary      Get a list of games
// @Description  Retrieves a paginated list of games, optionally filtered by name.
// @Tags         games
// @Produce      json
// @Param        q       query     string  false  "Search query for game name"
// @Param        page    query     int     false  "Page number" default(1)
// @Param        limit   query     int     false  "Items per page" default(10)
// @Success      200 {object} PaginatedResponse[GameResponse]
// @Router       /games [get]
func (h *Handler) GetGames(c *gin.Context) {
	page, limit := pageParams(c)

	games, total, err := h.Catalog.ListGames(c.Request.Context(), store.GameQuery{
		Search: c.Query("q"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, NewPaginatedResponse(newGameResponses(games), total, page, limit))
}

// FilterGames godoc
// @Summary      Filter games by player count
// @Description  Returns games playable with at least minPlayers and at most maxPlayers.
// @Tags         games
// @Produce      json
// @Param        minPlayers query int true "Minimum players"
// @Param        maxPlayers query int true "Maximum players"
// @Success      200 {array}  GameResponse
// @Failure      400 {object} ErrorResponse "Invalid range"
// @Router       /games/filter [get]
func (h *Handler) FilterGames(c *gin.Context) {
	min, max, ok := parsePlayerRange(c)
	if !ok {
		return
	}

	games, err := h.Catalog.FilterByPlayerCount(c.Request.Context(), min, max)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGameResponses(games))
}

// endregion

