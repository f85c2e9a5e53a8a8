package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

// HireHandler exposes the hire lifecycle.
type HireHandler struct {
	service ports.HireService
}

func NewHireHandler(service ports.HireService) *HireHandler {
	return &HireHandler{service: service}
}

// Create handles POST /v1/hires.
//
// @Summary      Create a hire request
// @Description  Targeted at one professional when professional_id is set, otherwise published as an open request.
// @Tags         hires
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createHireRequest  true  "Hire request"
// @Success      201   {object}  hireResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/hires [post]
func (h *HireHandler) Create(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req createHireRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	hire, err := h.service.CreateHire(c.Request().Context(), actor, ports.CreateHireInput{
		ProfessionalID: req.ProfessionalID,
		Category:       req.Category,
		Description:    req.Description,
		Department:     req.Department,
		City:           req.City,
		Barrio:         req.Barrio,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toHireResponse(hire, nil))
}

// Get handles GET /v1/hires/:id.
//
// @Summary      Get a hire
// @Tags         hires
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Hire id"
// @Success      200  {object}  hireResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/hires/{id} [get]
func (h *HireHandler) Get(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	view, err := h.service.GetHire(c.Request().Context(), c.Param("id"), actor)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toHireResponse(view.Hire, view.Contact))
}

// ListMine handles GET /v1/hires.
//
// @Summary      List the caller's hires as client
// @Tags         hires
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listHiresResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/hires [get]
func (h *HireHandler) ListMine(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	hires, err := h.service.ListClientHires(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListHiresResponse(hires))
}

// ListOpen handles GET /v1/hires/open.
//
// @Summary      List open requests
// @Tags         hires
// @Produce      json
// @Security     BearerAuth
// @Param        category  query     string  false  "Service category"
// @Success      200       {object}  listHiresResponse
// @Failure      401       {object}  errorResponse
// @Failure      403       {object}  errorResponse
// @Router       /v1/hires/open [get]
func (h *HireHandler) ListOpen(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	hires, err := h.service.ListOpenRequests(c.Request().Context(), actor, c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListHiresResponse(hires))
}

// ListAssigned handles GET /v1/hires/assigned.
//
// @Summary      List hires assigned to the calling professional
// @Tags         hires
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listHiresResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/hires/assigned [get]
func (h *HireHandler) ListAssigned(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	hires, err := h.service.ListProfessionalHires(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toListHiresResponse(hires))
}

// Action handles POST /v1/hires/:id/:action for every status change.
//
// @Summary      Change a hire's status
// @Tags         hires
// @Produce      json
// @Security     BearerAuth
// @Param        id      path      string  true  "Hire id"
// @Param        action  path      string  true  "Action"  Enums(accept, reject, start, request-completion, confirm-completion, cancel)
// @Success      200     {object}  hireResponse
// @Failure      401     {object}  errorResponse
// @Failure      403     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Failure      409     {object}  errorResponse
// @Failure      422     {object}  errorResponse
// @Router       /v1/hires/{id}/{action} [post]
func (h *HireHandler) Action(c echo.Context) error {
	to, ok := domain.TargetForAction(c.Param("action"))
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "unknown action")
	}

	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	hire, err := h.service.Transition(c.Request().Context(), c.Param("id"), to, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHireResponse(hire, nil))
}

// GuestConfirmCompletion handles POST /v1/guest/hires/:id/confirm-completion.
//
// @Summary      Confirm completion as a guest
// @Tags         guest
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Hire id"
// @Param        body  body      guestTokenRequest  true  "Review token issued at contact time"
// @Success      200   {object}  hireResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/guest/hires/{id}/confirm-completion [post]
func (h *HireHandler) GuestConfirmCompletion(c echo.Context) error {
	var req guestTokenRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	hire, err := h.service.Transition(c.Request().Context(), c.Param("id"), domain.StatusCompleted,
		domain.Actor{GuestToken: req.ReviewToken})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toHireResponse(hire, nil))
}
