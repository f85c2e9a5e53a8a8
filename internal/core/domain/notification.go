package domain

import "time"

// NotificationType tags the in-app notification produced by an event.
type NotificationType string

const (
	NotifNewRequest         NotificationType = "nueva_solicitud"
	NotifGuestContact       NotificationType = "contacto_invitado"
	NotifRequestAccepted    NotificationType = "solicitud_aceptada"
	NotifRequestRejected    NotificationType = "solicitud_rechazada"
	NotifRequestCancelled   NotificationType = "solicitud_cancelada"
	NotifWorkCompleted      NotificationType = "trabajo_completado"
	NotifCompletionApproved NotificationType = "aprobacion_completado"
	NotifNewReview          NotificationType = "new_review"
	NotifNewMessage         NotificationType = "new_message"
)

// EmailType is the discriminator understood by the email function.
type EmailType string

const (
	EmailGuestContact        EmailType = "guest_contact"
	EmailCompletionRequested EmailType = "completion_requested"
	EmailWorkCompleted       EmailType = "work_completed"
	EmailNewReview           EmailType = "new_review"
	EmailNewMessage          EmailType = "new_message"
)

// Email audiences for fan-out sends.
const (
	AudienceClient       = "client"
	AudienceGuest        = "guest"
	AudienceProfessional = "professional"
)

// Related entity kinds.
const (
	RelatedHire         = "hire"
	RelatedReview       = "review"
	RelatedConversation = "conversation"
)

// Notification is an append-only in-app record. It is a side effect, not a
// source of truth.
type Notification struct {
	ID              string
	Type            NotificationType
	RecipientUserID string
	SenderID        string
	SenderName      string
	Title           string
	Message         string
	RelatedID       string
	RelatedType     string

	// SourceID identifies the occurrence that produced the notification: the
	// hire or review id, or the chat message id.
	SourceID  string
	CreatedAt time.Time
	Read      bool
}

// EmailRequest is what the email function needs to resolve recipient and
// content on its own.
type EmailRequest struct {
	Type           EmailType `json:"type"`
	HireID         string    `json:"hireId,omitempty"`
	ConversationID string    `json:"conversationId,omitempty"`
	UserID         string    `json:"userId,omitempty"`
	SenderID       string    `json:"senderId,omitempty"`
	MessageID      string    `json:"messageId,omitempty"`
	Audience       string    `json:"audience,omitempty"`
}
