package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/asdscreen/asd-screening-api/internal/errors"
	"github.com/asdscreen/asd-screening-api/internal/places"
)

// HospitalFinder looks up hospitals near a coordinate
type HospitalFinder interface {
	NearbyHospitals(ctx context.Context, q places.Query) ([]byte, error)
}

// PlacesHandler proxies nearby-hospital searches
type PlacesHandler struct {
	finder HospitalFinder
}

// NewPlacesHandler creates a new places handler
func NewPlacesHandler(finder HospitalFinder) *PlacesHandler {
	return &PlacesHandler{finder: finder}
}

// Hospitals passes the provider's response through unchanged
func (h *PlacesHandler) Hospitals(c *gin.Context) {
	latitude := c.Query("latitude")
	longitude := c.Query("longitude")
	if latitude == "" || longitude == "" {
		writeError(c, apperrors.MissingField("Latitude and longitude are required"))
		return
	}

	body, err := h.finder.NearbyHospitals(c.Request.Context(), places.Query{
		Latitude:  latitude,
		Longitude: longitude,
		Radius:    c.DefaultQuery("radius", places.DefaultRadius),
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
