package handler

import (
	"net/http"
	"strings"
	"time"

	"boardshelf/backend/internal/models"
	"boardshelf/backend/internal/store"

	"github.com/gin-gonic/gin"
)

// region --- DTOs ---

// EntryInput is the payload for adding a game to the caller's library.
type EntryInput struct {
	GameID string `json:"gameId" binding:"required" example:"catan"`
	Status string `json:"status" binding:"required,oneof=owned wishlist" example:"wishlist"`
}

// EntryResponse is a library entry as returned by the API. GameName and
// BoxArtURL are the values captured when the entry was created or last refreshed.
type EntryResponse struct {
	OwnershipID uint      `json:"ownershipId"`
	UserID      string    `json:"userId"`
	GameID      string    `json:"gameId"`
	GameName    string    `json:"gameName"`
	BoxArtURL   string    `json:"boxArtUrl"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func newEntryResponse(entry models.LibraryEntry) EntryResponse {
	return EntryResponse{
		OwnershipID: entry.OwnershipID,
		UserID:      entry.UserID,
		GameID:      entry.GameID,
		GameName:    entry.GameName,
		BoxArtURL:   entry.BoxArtURL,
		Status:      string(entry.Status),
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
}

func newEntryResponses(entries []models.LibraryEntry) []EntryResponse {
	response := make([]EntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, newEntryResponse(entry))
	}
	return response
}

// endregion

// ownEntry loads entry :id and checks that it belongs to the caller.
// Entries of other users are reported as not found.
func (h *Handler) ownEntry(c *gin.Context) (*models.LibraryEntry, bool) {
	id, ok := parseOwnershipID(c)
	if !ok {
		return nil, false
	}

	entry, err := h.Library.ReadEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if entry.UserID != libraryUser(c) {
		respondError(c, store.ErrNotFound)
		return nil, false
	}
	return entry, true
}

// region --- Library Handlers ---

// GetLibrary godoc
// @Summary      Get the caller's library
// @Description  Lists the caller's entries. q filters by game name or status, ignoring case; * is a wildcard.
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        q     query     string  false  "Text filter"
// @Param        sort  query     string  false  "name, status or recent"
// @Success      200   {array}   EntryResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /library [get]
func (h *Handler) GetLibrary(c *gin.Context) {
	opts := store.ListOptions{Sort: c.Query("sort")}
	userID := libraryUser(c)

	var (
		entries []models.LibraryEntry
		err     error
	)
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		entries, err = h.Library.FilterEntries(c.Request.Context(), userID, q, opts)
	} else {
		entries, err = h.Library.ReadEntriesForUser(c.Request.Context(), userID, opts)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEntryResponses(entries))
}

// FilterLibraryByPlayers godoc
// @Summary      Filter the caller's library by player count
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        minPlayers query int true "Minimum players"
// @Param        maxPlayers query int true "Maximum players"
// @Success      200 {array}  GameResponse
// @Failure      400 {object} ErrorResponse "Invalid range"
// @Router       /library/filter [get]
func (h *Handler) FilterLibraryByPlayers(c *gin.Context) {
	min, max, ok := parsePlayerRange(c)
	if !ok {
		return
	}

	games, err := h.Library.FilterByPlayerCount(c.Request.Context(), libraryUser(c), min, max)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newGameResponses(games))
}

// EntryExists godoc
// @Summary      Check whether a game is in the caller's library
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        gameId path string true "Game ID"
// @Success      200 {object} map[string]bool "{"exists": true}"
// @Router       /library/exists/{gameId} [get]
func (h *Handler) EntryExists(c *gin.Context) {
	exists, err := h.Library.EntryExists(c.Request.Context(), libraryUser(c), c.Param("gameId"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// GetEntry godoc
// @Summary      Get one library entry
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Ownership ID"
// @Success      200 {object} EntryResponse
// @Failure      404 {object} ErrorResponse "Entry not found"
// @Router       /library/{id} [get]
func (h *Handler) GetEntry(c *gin.Context) {
	entry, ok := h.ownEntry(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newEntryResponse(*entry))
}

// CreateEntry godoc
// @Summary      Add a game to the caller's library
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        input body EntryInput true "Game and status"
// @Success      201 {object} EntryResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Game not found"
// @Failure      409 {object} ErrorResponse "Game already in library"
// @Router       /library [post]
func (h *Handler) CreateEntry(c *gin.Context) {
	var input EntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.Library.CreateEntry(c.Request.Context(), libraryUser(c), input.GameID, models.LibraryStatus(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newEntryResponse(*entry))
}

// UpdateEntry godoc
// @Summary      Update one attribute of a library entry
// @Description  Only status can be changed (owned or wishlist).
// @Tags         library
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path int         true "Ownership ID"
// @Param        input body UpdateInput true "Column and new value"
// @Success      200 {object} EntryResponse
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Entry not found"
// @Router       /library/{id} [patch]
func (h *Handler) UpdateEntry(c *gin.Context) {
	var input UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, ok := h.ownEntry(c)
	if !ok {
		return
	}

	updated, err := h.Library.UpdateEntry(c.Request.Context(), entry.OwnershipID, input.Column, input.Value)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEntryResponse(*updated))
}

// RefreshEntry godoc
// @Summary      Refresh an entry's game name and box art
// @Description  Copies the catalog's current name and box art into the entry.
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Ownership ID"
// @Success      200 {object} EntryResponse
// @Failure      404 {object} ErrorResponse "Entry or game not found"
// @Router       /library/{id}/refresh [post]
func (h *Handler) RefreshEntry(c *gin.Context) {
	entry, ok := h.ownEntry(c)
	if !ok {
		return
	}

	refreshed, err := h.Library.RefreshSnapshot(c.Request.Context(), entry.OwnershipID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEntryResponse(*refreshed))
}

// DeleteEntry godoc
// @Summary      Remove a library entry
// @Description  Removing an entry that does not exist succeeds.
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Ownership ID"
// @Success      200 {object} map[string]string "{"message": "Entry deleted"}"
// @Router       /library/{id} [delete]
func (h *Handler) DeleteEntry(c *gin.Context) {
	id, ok := parseOwnershipID(c)
	if !ok {
		return
	}

	entry, err := h.Library.ReadEntry(c.Request.Context(), id)
	switch {
	case err == nil && entry.UserID != libraryUser(c):
		// Someone else's entry: behave as if it were already gone.
	case err == nil:
		if err := h.Library.DeleteEntry(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
	case !isNotFound(err):
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// DeleteEntryByGame godoc
// @Summary      Remove a game from the caller's library
// @Tags         library
// @Produce      json
// @Security     BearerAuth
// @Param        gameId path string true "Game ID"
// @Success      200 {object} map[string]string "{"message": "Entry deleted"}"
// @Router       /library/games/{gameId} [delete]
func (h *Handler) DeleteEntryByGame(c *gin.Context) {
	if err := h.Library.DeleteEntryByUserAndGame(c.Request.Context(), libraryUser(c), c.Param("gameId")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// endregion

// region --- Admin Handlers ---

// GetAllEntries godoc
// @Summary      List every library entry
// @Tags         admin-library
// @Produce      json
// @Security     BearerAuth
// @Param        sort query string false "name, status or recent"
// @Success      200 {array}  EntryResponse
// @Failure      403 {object} ErrorResponse "Admin access required"
// @Router       /admin/library [get]
func (h *Handler) GetAllEntries(c *gin.Context) {
	entries, err := h.Library.ReadAllEntries(c.Request.Context(), store.ListOptions{Sort: c.Query("sort")})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newEntryResponses(entries))
}

// endregion
