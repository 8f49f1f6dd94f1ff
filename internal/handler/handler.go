package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"boardshelf/backend/internal/hub"
	"boardshelf/backend/internal/models"
	"boardshelf/backend/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Handler serves the catalog, library and account endpoints.
type Handler struct {
	DB      *gorm.DB
	Catalog *store.GameCatalog
	Library *store.UserLibrary
	Hub     *hub.Hub
}

// ErrorResponse represents a generic error response.
type ErrorResponse struct {
	Error string `json:"error" example:"An error message"`
}

// respondError maps store errors to HTTP status codes. Storage failures are
// logged and reported without driver detail.
func respondError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, store.ErrInvalidRange),
		errors.Is(err, store.ErrInvalidColumn),
		errors.Is(err, store.ErrInvalidAttribute):
		status = http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrGameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicateEntry),
		errors.Is(err, store.ErrGameReferenced):
		status = http.StatusConflict
	default:
		log.Printf("ERR: %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// libraryUser returns the library key of the authenticated user.
func libraryUser(c *gin.Context) string {
	userID, _ := c.Get("userID")
	id, _ := userID.(uint)
	return models.LibraryKey(id)
}

// parseOwnershipID reads the :id path parameter.
func parseOwnershipID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID"})
		return 0, false
	}
	return uint(id), true
}

// parsePlayerRange reads the minPlayers and maxPlayers query parameters.
func parsePlayerRange(c *gin.Context) (int, int, bool) {
	min, err := strconv.Atoi(c.Query("minPlayers"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "minPlayers must be an integer"})
		return 0, 0, false
	}
	max, err := strconv.Atoi(c.Query("maxPlayers"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "maxPlayers must be an integer"})
		return 0, 0, false
	}
	return min, max, true
}

// UpdateInput targets a single attribute of a record.
type UpdateInput struct {
	Column string      `json:"column" binding:"required" example:"status"`
	Value  interface{} `json:"value" binding:"required" swaggertype:"string" example:"owned"`
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
