package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "lift/internal/errors"
	"lift/internal/models"
	"lift/internal/pagination"
	"lift/internal/services"
)

// LocationHandler handles administrative-area lookup requests.
type LocationHandler struct {
	locationService services.LocationServicer
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(locationService services.LocationServicer) *LocationHandler {
	return &LocationHandler{locationService: locationService}
}

// GetLocationByID handles the retrieval of one area
// @Summary     Get location by ID
// @Description Get an administrative area with its parent
// @Tags        locations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "Location ID"
// @Success     200 {object} models.Location "Location details"
// @Failure     400 {object} ErrorResponse "Invalid location ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Location not found"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /locations/{id} [get]
func (h *LocationHandler) GetLocationByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	location, err := h.locationService.GetLocationByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"location": location})
}

// ListLocations handles the retrieval of areas
// @Summary     List locations
// @Description Get a paginated list of administrative areas with optional filters
// @Tags        locations
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int    false "Page number (default 1)"
// @Param       page_size query int    false "Items per page (default 20, max 100)"
// @Param       level     query string false "Filter by level (district, county, subcounty)"
// @Param       parent_id query int    false "Filter by parent area ID"
// @Param       q         query string false "Name prefix search (case-insensitive)"
// @Success     200 {object} pagination.PageResponse[models.Location] "Paginated locations"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /locations [get]
func (h *LocationHandler) ListLocations(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	var filter services.LocationFilter
	if v := c.Query("level"); v != "" {
		level := models.LocationLevel(v)
		switch level {
		case models.LocationLevelDistrict, models.LocationLevelCounty, models.LocationLevelSubcounty:
			filter.Level = &level
		default:
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid level, must be district, county, or subcounty"))
			return
		}
	}
	if v := c.Query("parent_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid parent_id"))
			return
		}
		parentID := uint(id)
		filter.ParentID = &parentID
	}
	filter.Query = c.Query("q")

	result, err := h.locationService.ListLocations(filter, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
