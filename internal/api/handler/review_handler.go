package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Submit handles POST /v1/hires/:id/review.
//
// @Summary      Review a completed hire
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Hire id"
// @Param        body  body      submitReviewRequest  true  "Rating and comment"
// @Success      201   {object}  reviewResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/hires/{id}/review [post]
func (h *ReviewHandler) Submit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req submitReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.service.Submit(c.Request().Context(), ports.SubmitReviewInput{
		HireID:  c.Param("id"),
		Rating:  req.Rating,
		Comment: req.Comment,
		Actor:   actor,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

// SubmitGuest handles POST /v1/guest/hires/:id/review.
//
// @Summary      Review a completed hire as a guest
// @Tags         guest
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Hire id"
// @Param        body  body      guestReviewRequest  true  "Review token, rating and comment"
// @Success      201   {object}  reviewResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/guest/hires/{id}/review [post]
func (h *ReviewHandler) SubmitGuest(c echo.Context) error {
	var req guestReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	review, err := h.service.Submit(c.Request().Context(), ports.SubmitReviewInput{
		HireID:  c.Param("id"),
		Rating:  req.Rating,
		Comment: req.Comment,
		Actor:   domain.Actor{GuestToken: req.ReviewToken},
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toReviewResponse(review))
}

// ListByProfessional handles GET /v1/professionals/:id/reviews.
//
// @Summary      List a professional's reviews
// @Tags         reviews
// @Produce      json
// @Param        id   path      string  true  "Professional id"
// @Success      200  {object}  listReviewsResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/professionals/{id}/reviews [get]
func (h *ReviewHandler) ListByProfessional(c echo.Context) error {
	reviews, err := h.service.ListProfessionalReviews(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}

	data := make([]reviewResponse, 0, len(reviews))
	for _, r := range reviews {
		data = append(data, toReviewResponse(r))
	}
	return c.JSON(http.StatusOK, listReviewsResponse{Data: data, Total: len(data)})
}
