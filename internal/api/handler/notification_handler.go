package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/oficiosya/hires-api/internal/core/ports"
)

type NotificationHandler struct {
	inbox ports.InboxService
}

func NewNotificationHandler(inbox ports.InboxService) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

// List handles GET /v1/notifications.
//
// @Summary      List the caller's in-app notifications
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Maximum items (default 50, max 100)"
// @Success      200    {object}  listNotificationsResponse
// @Failure      400    {object}  errorResponse
// @Failure      401    {object}  errorResponse
// @Router       /v1/notifications [get]
func (h *NotificationHandler) List(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
	}

	list, err := h.inbox.List(c.Request().Context(), actor, limit)
	if err != nil {
		return err
	}

	data := make([]notificationResponse, 0, len(list))
	for _, n := range list {
		data = append(data, toNotificationResponse(n))
	}
	return c.JSON(http.StatusOK, listNotificationsResponse{Data: data})
}
