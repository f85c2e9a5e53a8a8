package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/oficiosya/hires-api/internal/api/metrics"
	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

const (
	channelInApp = "in_app"
	channelEmail = "email"

	defaultDedupTTL = 7 * 24 * time.Hour
)

// inAppMessage is one planned in-app notification. Recipient is resolved at
// delivery time because professionals are addressed through their listing.
type inAppMessage struct {
	Type        domain.NotificationType
	Recipient   recipient
	Title       string
	Message     string
	RelatedID   string
	RelatedType string
	SourceID    string
}

type recipient struct {
	UserID         string
	ProfessionalID string
}

// plan is everything one event must produce.
type plan struct {
	InApp  []inAppMessage
	Emails []domain.EmailRequest
}

// Notifier turns committed events into in-app notifications and email
// requests. It never returns an error: delivery problems are logged, counted
// and dropped.
type Notifier struct {
	notifications ports.NotificationRepository
	conversations ports.ConversationRepository
	pros          ports.ProfessionalRepository
	users         ports.UserRepository
	email         ports.EmailSender
	dedup         ports.DedupStore
	dedupTTL      time.Duration
	clock         ports.Clock
	logger        zerolog.Logger
}

func NewNotifier(
	notifications ports.NotificationRepository,
	conversations ports.ConversationRepository,
	pros ports.ProfessionalRepository,
	users ports.UserRepository,
	email ports.EmailSender,
	dedup ports.DedupStore,
	dedupTTL time.Duration,
	clock ports.Clock,
	logger zerolog.Logger,
) *Notifier {
	if dedupTTL <= 0 {
		dedupTTL = defaultDedupTTL
	}
	return &Notifier{
		notifications: notifications,
		conversations: conversations,
		pros:          pros,
		users:         users,
		email:         email,
		dedup:         dedup,
		dedupTTL:      dedupTTL,
		clock:         clock,
		logger:        logger,
	}
}

// Dispatch delivers everything ev calls for, at most once per
// (source id, type, recipient).
func (n *Notifier) Dispatch(ctx context.Context, ev domain.TransitionEvent) {
	start := time.Now()
	defer func() {
		metrics.DispatchDuration.WithLabelValues(string(ev.Kind)).Observe(time.Since(start).Seconds())
	}()

	if ev.Kind == domain.EventMessageCreated {
		n.NotifyNewMessage(ctx, ev.ConversationID, ev.MessageID, ev.SenderID)
		return
	}

	p := planFor(ev)
	for _, m := range p.InApp {
		n.deliverInApp(ctx, m, ev.ActorID)
	}
	for _, e := range p.Emails {
		n.deliverEmail(ctx, e)
	}
}

// NotifyNewMessage tells the other participant of a conversation that a new
// message arrived. Each message id is delivered once; an empty id is treated
// as a message of its own. An unresolvable pair is logged and skipped.
func (n *Notifier) NotifyNewMessage(ctx context.Context, conversationID, messageID, senderID string) {
	if messageID == "" {
		messageID = uuid.NewString()
	}

	conv, err := n.conversations.FindByID(ctx, conversationID)
	if err != nil {
		n.logger.Warn().Err(err).Str("conversation_id", conversationID).Msg("cannot resolve conversation for message notification")
		metrics.NotificationsFailedTotal.WithLabelValues(channelInApp, string(domain.NotifNewMessage)).Inc()
		return
	}

	other, ok := conv.OtherParticipant(senderID)
	if !ok {
		n.logger.Warn().
			Str("conversation_id", conversationID).
			Str("sender", senderID).
			Msg("sender is not part of a valid conversation pair")
		metrics.NotificationsFailedTotal.WithLabelValues(channelInApp, string(domain.NotifNewMessage)).Inc()
		return
	}

	n.deliverInApp(ctx, inAppMessage{
		Type:        domain.NotifNewMessage,
		Recipient:   recipient{UserID: other},
		Title:       "Nuevo mensaje",
		Message:     "Tienes un nuevo mensaje.",
		RelatedID:   conv.ID,
		RelatedType: domain.RelatedConversation,
		SourceID:    messageID,
	}, senderID)

	n.deliverEmail(ctx, domain.EmailRequest{
		Type:           domain.EmailNewMessage,
		ConversationID: conv.ID,
		MessageID:      messageID,
		UserID:         other,
		SenderID:       senderID,
	})
}

// planFor maps an event onto its notifications and emails. It does no I/O.
func planFor(ev domain.TransitionEvent) plan {
	var p plan
	h := ev.Hire
	if h == nil {
		return p
	}
	clientID := h.AccountClientID()
	_, isGuest := h.Guest()
	toClient := recipient{UserID: clientID}
	toPro := recipient{ProfessionalID: h.ProfessionalID}

	switch ev.Kind {
	case domain.EventHireCreated:
		switch {
		case isGuest:
			p.InApp = append(p.InApp, inAppMessage{
				Type:      domain.NotifGuestContact,
				Recipient: toPro,
				Title:     "Nuevo contacto de invitado",
				Message:   fmt.Sprintf("Un cliente invitado solicita %s.", h.ServiceCategory),
			})
			p.Emails = append(p.Emails,
				domain.EmailRequest{Type: domain.EmailGuestContact, HireID: h.ID, Audience: domain.AudienceGuest},
				domain.EmailRequest{Type: domain.EmailGuestContact, HireID: h.ID, Audience: domain.AudienceProfessional},
			)
		case h.ProfessionalID != "":
			p.InApp = append(p.InApp, inAppMessage{
				Type:      domain.NotifNewRequest,
				Recipient: toPro,
				Title:     "Nueva solicitud",
				Message:   fmt.Sprintf("Tienes una nueva solicitud de %s.", h.ServiceCategory),
			})
		}

	case domain.EventHireTransition:
		switch ev.To {
		case domain.StatusAccepted:
			p.InApp = append(p.InApp, inAppMessage{
				Type:      domain.NotifRequestAccepted,
				Recipient: toClient,
				Title:     "Solicitud aceptada",
				Message:   "El profesional aceptó tu solicitud.",
			})
		case domain.StatusRejected:
			p.InApp = append(p.InApp, inAppMessage{
				Type:      domain.NotifRequestRejected,
				Recipient: toClient,
				Title:     "Solicitud rechazada",
				Message:   "El profesional rechazó tu solicitud.",
			})
		case domain.StatusWaitingClientApproval:
			p.InApp = append(p.InApp, inAppMessage{
				Type:      domain.NotifWorkCompleted,
				Recipient: toClient,
				Title:     "Trabajo completado",
				Message:   "El profesional marcó el trabajo como terminado. Confirma para cerrarlo.",
			})
			p.Emails = append(p.Emails, domain.EmailRequest{
				Type: domain.EmailCompletionRequested, HireID: h.ID, UserID: clientID, Audience: clientAudience(isGuest),
			})
		case domain.StatusCompleted:
			p.InApp = append(p.InApp, inAppMessage{
				Type:      domain.NotifCompletionApproved,
				Recipient: toPro,
				Title:     "Trabajo aprobado",
				Message:   "El cliente confirmó que el trabajo está completado.",
			})
			p.Emails = append(p.Emails, domain.EmailRequest{
				Type: domain.EmailWorkCompleted, HireID: h.ID, Audience: domain.AudienceProfessional,
			})
		case domain.StatusCancelled:
			if h.ProfessionalID != "" {
				p.InApp = append(p.InApp, inAppMessage{
					Type:      domain.NotifRequestCancelled,
					Recipient: toPro,
					Title:     "Solicitud cancelada",
					Message:   "El cliente canceló la solicitud.",
				})
			}
		}

	case domain.EventReviewCreated:
		if ev.Review == nil {
			return p
		}
		p.InApp = append(p.InApp, inAppMessage{
			Type:        domain.NotifNewReview,
			Recipient:   recipient{ProfessionalID: ev.Review.ProfessionalID},
			Title:       "Nueva reseña",
			Message:     fmt.Sprintf("Recibiste una calificación de %d estrellas.", ev.Review.Rating),
			RelatedID:   ev.Review.ID,
			RelatedType: domain.RelatedReview,
		})
		p.Emails = append(p.Emails, domain.EmailRequest{
			Type: domain.EmailNewReview, HireID: h.ID, Audience: domain.AudienceProfessional,
		})
	}

	for i := range p.InApp {
		if p.InApp[i].RelatedID == "" {
			p.InApp[i].RelatedID = h.ID
			p.InApp[i].RelatedType = domain.RelatedHire
		}
		p.InApp[i].SourceID = p.InApp[i].RelatedID
	}
	return p
}

func clientAudience(guest bool) string {
	if guest {
		return domain.AudienceGuest
	}
	return domain.AudienceClient
}

func (n *Notifier) deliverInApp(ctx context.Context, m inAppMessage, senderID string) {
	log := n.logger.With().Str("type", string(m.Type)).Str("related_id", m.RelatedID).Logger()

	userID, err := n.resolveRecipient(ctx, m.Recipient)
	if err != nil {
		log.Warn().Err(err).Msg("cannot resolve notification recipient")
		metrics.NotificationsFailedTotal.WithLabelValues(channelInApp, string(m.Type)).Inc()
		return
	}
	if userID == "" {
		// guests and unclaimed listings only get email
		return
	}

	key := fmt.Sprintf("notif:%s:%s:%s", m.SourceID, m.Type, userID)
	if !n.claim(ctx, key, log) {
		return
	}

	notif := &domain.Notification{
		ID:              uuid.NewString(),
		Type:            m.Type,
		RecipientUserID: userID,
		SenderID:        senderID,
		SenderName:      n.senderName(ctx, senderID),
		Title:           m.Title,
		Message:         m.Message,
		RelatedID:       m.RelatedID,
		RelatedType:     m.RelatedType,
		SourceID:        m.SourceID,
		CreatedAt:       n.clock.Now(),
	}
	if err := n.notifications.Insert(ctx, notif); err != nil {
		if errors.Is(err, domain.ErrNotificationExists) {
			metrics.NotificationsDedupTotal.WithLabelValues("hit").Inc()
			return
		}
		log.Warn().Err(err).Str("recipient", userID).Msg("failed to store notification")
		metrics.NotificationsFailedTotal.WithLabelValues(channelInApp, string(m.Type)).Inc()
		n.release(ctx, key, log)
		return
	}

	metrics.NotificationsSentTotal.WithLabelValues(channelInApp, string(m.Type)).Inc()
	log.Debug().Str("recipient", userID).Msg("notification stored")
}

func (n *Notifier) deliverEmail(ctx context.Context, req domain.EmailRequest) {
	related := req.HireID
	if related == "" {
		related = req.ConversationID
	}
	source := related
	if req.MessageID != "" {
		source = req.MessageID
	}
	target := req.Audience
	if req.UserID != "" {
		target = req.UserID
	}
	log := n.logger.With().Str("type", string(req.Type)).Str("related_id", related).Logger()

	key := fmt.Sprintf("email:%s:%s:%s", source, req.Type, target)
	if !n.claim(ctx, key, log) {
		return
	}

	if err := n.email.Send(ctx, req); err != nil {
		log.Warn().Err(err).Str("recipient", target).Msg("email delivery failed")
		metrics.NotificationsFailedTotal.WithLabelValues(channelEmail, string(req.Type)).Inc()
		n.release(ctx, key, log)
		return
	}

	metrics.NotificationsSentTotal.WithLabelValues(channelEmail, string(req.Type)).Inc()
	log.Debug().Str("recipient", target).Msg("email requested")
}

// claim reports whether this delivery should proceed. A failing dedup store
// lets it through and relies on the notifications unique index.
func (n *Notifier) claim(ctx context.Context, key string, log zerolog.Logger) bool {
	ok, err := n.dedup.Claim(ctx, key, n.dedupTTL)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("dedup store unavailable, delivering anyway")
		metrics.NotificationsDedupTotal.WithLabelValues("error").Inc()
		return true
	}
	if !ok {
		metrics.NotificationsDedupTotal.WithLabelValues("hit").Inc()
		return false
	}
	metrics.NotificationsDedupTotal.WithLabelValues("miss").Inc()
	return true
}

// release frees key after a failed delivery so a redelivered event can retry.
func (n *Notifier) release(ctx context.Context, key string, log zerolog.Logger) {
	if err := n.dedup.Release(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to release dedup key")
	}
}

func (n *Notifier) resolveRecipient(ctx context.Context, r recipient) (string, error) {
	if r.UserID != "" || r.ProfessionalID == "" {
		return r.UserID, nil
	}
	pro, err := n.pros.FindByID(ctx, r.ProfessionalID)
	if err != nil {
		return "", err
	}
	return pro.UserID, nil
}

func (n *Notifier) senderName(ctx context.Context, senderID string) string {
	if senderID == "" || n.users == nil {
		return ""
	}
	u, err := n.users.FindByID(ctx, senderID)
	if err != nil {
		return ""
	}
	return u.Name
}

// SyncPublisher dispatches inline. It is used where no worker pool runs.
type SyncPublisher struct {
	Notifier *Notifier
}

func (p SyncPublisher) Publish(ev domain.TransitionEvent) {
	p.Notifier.Dispatch(context.Background(), ev)
}
