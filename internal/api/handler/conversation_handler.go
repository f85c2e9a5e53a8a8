package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

// ConversationHandler ingests chat events produced by the messaging service.
type ConversationHandler struct {
	events ports.EventPublisher
	now    func() time.Time
}

func NewConversationHandler(events ports.EventPublisher, clock ports.Clock) *ConversationHandler {
	return &ConversationHandler{events: events, now: clock.Now}
}

// MessageCreated handles POST /v1/conversations/:id/message-events.
// The sender is the authenticated caller; resolving the recipient happens
// asynchronously. Repeating a message id does not notify twice.
//
// @Summary      Signal a new chat message
// @Tags         conversations
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true   "Conversation id"
// @Param        body  body      messageEventRequest  false  "Message reference"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /v1/conversations/{id}/message-events [post]
func (h *ConversationHandler) MessageCreated(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req messageEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	h.events.Publish(domain.TransitionEvent{
		Kind:           domain.EventMessageCreated,
		ConversationID: c.Param("id"),
		MessageID:      req.MessageID,
		SenderID:       actor.UserID,
		ActorID:        actor.UserID,
		OccurredAt:     h.now(),
	})
	return c.JSON(http.StatusAccepted, acceptedResponse{Message: "event accepted"})
}
