package handler

import (
	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

// --- Service result → HTTP response ---

func toHireResponse(h *domain.Hire, contact *ports.ProfessionalContact) hireResponse {
	resp := hireResponse{
		ID:                 h.ID,
		Status:             string(h.Status),
		ProfessionalID:     h.ProfessionalID,
		ServiceCategory:    h.ServiceCategory,
		ServiceDescription: h.ServiceDescription,
		ServiceLocation:    h.ServiceLocation,
		CreatedAt:          h.CreatedAt.UTC(),
		UpdatedAt:          h.UpdatedAt.UTC(),
		StartedAt:          h.StartedAt,
		CompletedAt:        h.CompletedAt,
		Links:              hireLinks{Self: "/v1/hires/" + h.ID},
	}

	// the review token never leaves the guest contact response
	if g, ok := h.Guest(); ok {
		resp.ClientType = "guest"
		resp.Guest = &guestResponse{Name: g.Name, Email: g.Email, Phone: g.Phone}
	} else {
		resp.ClientType = "account"
		resp.ClientID = h.AccountClientID()
	}

	if contact != nil {
		resp.ProfessionalContact = &professionalContactResponse{
			DisplayName: contact.DisplayName,
			Phone:       contact.Phone,
			Email:       contact.Email,
		}
	}
	return resp
}

func toListHiresResponse(hires []*domain.Hire) listHiresResponse {
	data := make([]hireResponse, 0, len(hires))
	for _, h := range hires {
		data = append(data, toHireResponse(h, nil))
	}
	return listHiresResponse{Data: data, Total: len(data)}
}

func toProfessionalResponse(p domain.Professional) professionalResponse {
	return professionalResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		Profession:  p.Profession,
		City:        p.City,
		State:       p.State,
		Barrio:      p.Barrio,
		Bio:         p.Bio,
		HourlyRate:  p.HourlyRate,
		AvatarURL:   p.AvatarURL,
		Rating:      p.Rating,
		RatingCount: p.RatingCount,
		IsPremium:   p.PremiumEffective,
	}
}

func toListProfessionalsResponse(pros []domain.Professional) listProfessionalsResponse {
	data := make([]professionalResponse, 0, len(pros))
	for _, p := range pros {
		data = append(data, toProfessionalResponse(p))
	}
	return listProfessionalsResponse{Data: data, Total: len(data)}
}

func toReviewResponse(r *domain.Review) reviewResponse {
	return reviewResponse{
		ID:             r.ID,
		HireID:         r.HireID,
		ProfessionalID: r.ProfessionalID,
		ClientID:       r.ClientID,
		GuestName:      r.GuestName,
		Rating:         r.Rating,
		Comment:        r.Comment,
		CreatedAt:      r.CreatedAt.UTC(),
	}
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:          n.ID,
		Type:        string(n.Type),
		Title:       n.Title,
		Message:     n.Message,
		SenderName:  n.SenderName,
		RelatedID:   n.RelatedID,
		RelatedType: n.RelatedType,
		Read:        n.Read,
		CreatedAt:   n.CreatedAt.UTC(),
	}
}
