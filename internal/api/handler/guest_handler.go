package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

// GuestHandler serves the unauthenticated contact flow.
type GuestHandler struct {
	service ports.GuestService
}

func NewGuestHandler(service ports.GuestService) *GuestHandler {
	return &GuestHandler{service: service}
}

// Professionals handles GET /v1/guest/professionals.
//
// @Summary      Match professionals for a category
// @Tags         guest
// @Produce      json
// @Param        category  query     string  true   "Service category"
// @Param        city      query     string  false  "City"
// @Success      200       {object}  listProfessionalsResponse
// @Failure      400       {object}  errorResponse
// @Router       /v1/guest/professionals [get]
func (h *GuestHandler) Professionals(c echo.Context) error {
	category := c.QueryParam("category")
	if category == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "category is required")
	}

	pros, err := h.service.MatchProfessionals(c.Request().Context(), category, c.QueryParam("city"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListProfessionalsResponse(pros))
}

// Contact handles POST /v1/guest/contact.
//
// @Summary      Contact a professional without an account
// @Description  Returns the review token the guest needs to confirm completion and review later. When nobody offers the category the response is 409 with next=register.
// @Tags         guest
// @Accept       json
// @Produce      json
// @Param        body  body      guestContactRequest  true  "Guest contact form"
// @Success      201   {object}  guestContactResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  noProfessionalsResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/guest/contact [post]
func (h *GuestHandler) Contact(c echo.Context) error {
	var req guestContactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Submit(c.Request().Context(), ports.GuestContactInput{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Category:         req.Category,
		Description:      req.Description,
		Department:       req.Department,
		City:             req.City,
		Barrio:           req.Barrio,
		TimingPreference: req.TimingPreference,
		ProfessionalID:   req.ProfessionalID,
	})
	if errors.Is(err, domain.ErrNoProfessionalsAvailable) {
		return c.JSON(http.StatusConflict, noProfessionalsResponse{Error: "no_professionals", Next: "register"})
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, guestContactResponse{
		HireID:      res.Hire.ID,
		Status:      string(res.Hire.Status),
		ReviewToken: res.ReviewToken,
	})
}

// PublishDraft handles POST /v1/guest/drafts/publish.
//
// @Summary      Publish a guest draft as an open request after sign-up
// @Tags         guest
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      publishDraftRequest  true  "Draft kept from the guest form"
// @Success      201   {object}  hireResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/guest/drafts/publish [post]
func (h *GuestHandler) PublishDraft(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req publishDraftRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	hire, err := h.service.PublishAfterRegistration(c.Request().Context(), actor, ports.GuestDraft{
		Category:    req.Category,
		Description: req.Description,
		Department:  req.Department,
		City:        req.City,
		Barrio:      req.Barrio,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toHireResponse(hire, nil))
}
