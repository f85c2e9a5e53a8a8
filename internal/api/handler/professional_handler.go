package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

type ProfessionalHandler struct {
	directory ports.DirectoryService
}

func NewProfessionalHandler(directory ports.DirectoryService) *ProfessionalHandler {
	return &ProfessionalHandler{directory: directory}
}

// Search handles GET /v1/professionals.
//
// @Summary      Search the professional directory
// @Description  Premium listings first, then by rating. Barrio requires city.
// @Tags         professionals
// @Produce      json
// @Param        q           query     string  false  "Free text over name, profession and city"
// @Param        category    query     string  false  "Profession"
// @Param        city        query     string  false  "City"
// @Param        barrio      query     string  false  "Barrio (requires city)"
// @Param        min_rating  query     number  false  "Minimum rating"
// @Success      200         {object}  listProfessionalsResponse
// @Failure      400         {object}  errorResponse
// @Router       /v1/professionals [get]
func (h *ProfessionalHandler) Search(c echo.Context) error {
	f := domain.DirectoryFilter{
		Search:   c.QueryParam("q"),
		Category: c.QueryParam("category"),
		City:     c.QueryParam("city"),
		Barrio:   c.QueryParam("barrio"),
	}
	if raw := c.QueryParam("min_rating"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "min_rating must be a number")
		}
		f.MinRating = v
	}

	pros, err := h.directory.Search(c.Request().Context(), f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListProfessionalsResponse(pros))
}
