package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type acceptedResponse struct {
	Message string `json:"message"`
}

// --- Conversations ---

// messageEventRequest is optional; without a message id every call counts as
// a new message.
type messageEventRequest struct {
	MessageID string `json:"message_id" validate:"omitempty,max=128"`
}

// --- Hires ---

type createHireRequest struct {
	ProfessionalID string `json:"professional_id"`
	Category       string `json:"service_category"    validate:"required"`
	Description    string `json:"service_description" validate:"required,min=20,max=500"`
	Department     string `json:"department"          validate:"required"`
	City           string `json:"city"                validate:"required"`
	Barrio         string `json:"barrio"`
}

type guestTokenRequest struct {
	ReviewToken string `json:"review_token" validate:"required"`
}

type professionalContactResponse struct {
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone,omitempty"`
	Email       string `json:"email,omitempty"`
}

type guestResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type hireLinks struct {
	Self string `json:"self"`
}

type hireResponse struct {
	ID                  string                       `json:"id"`
	Status              string                       `json:"status"`
	ClientType          string                       `json:"client_type"`
	ClientID            string                       `json:"client_id,omitempty"`
	Guest               *guestResponse               `json:"guest,omitempty"`
	ProfessionalID      string                       `json:"professional_id,omitempty"`
	ServiceCategory     string                       `json:"service_category"`
	ServiceDescription  string                       `json:"service_description"`
	ServiceLocation     string                       `json:"service_location"`
	CreatedAt           time.Time                    `json:"created_at"`
	UpdatedAt           time.Time                    `json:"updated_at"`
	StartedAt           *time.Time                   `json:"started_at,omitempty"`
	CompletedAt         *time.Time                   `json:"completed_at,omitempty"`
	ProfessionalContact *professionalContactResponse `json:"professional_contact,omitempty"`
	Links               hireLinks                    `json:"_links"`
}

type listHiresResponse struct {
	Data  []hireResponse `json:"data"`
	Total int            `json:"total"`
}

// --- Guest flow ---

type guestContactRequest struct {
	Name             string `json:"name"                validate:"required"`
	Email            string `json:"email"               validate:"required,email"`
	Phone            string `json:"phone"               validate:"required"`
	Category         string `json:"service_category"    validate:"required"`
	Description      string `json:"service_description" validate:"required,min=20,max=500"`
	Department       string `json:"department"          validate:"required"`
	City             string `json:"city"                validate:"required"`
	Barrio           string `json:"barrio"`
	TimingPreference string `json:"timing_preference"`
	ProfessionalID   string `json:"professional_id"     validate:"required"`
}

type guestContactResponse struct {
	HireID      string `json:"hire_id"`
	Status      string `json:"status"`
	ReviewToken string `json:"review_token"`
}

// noProfessionalsResponse tells the client to send the visitor to sign-up
// with the draft preserved.
type noProfessionalsResponse struct {
	Error string `json:"error"`
	Next  string `json:"next"`
}

type publishDraftRequest struct {
	Category    string `json:"service_category"    validate:"required"`
	Description string `json:"service_description" validate:"required,min=20,max=500"`
	Department  string `json:"department"          validate:"required"`
	City        string `json:"city"                validate:"required"`
	Barrio      string `json:"barrio"`
}

// --- Directory ---

type professionalResponse struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	Profession  string  `json:"profession"`
	City        string  `json:"city"`
	State       string  `json:"state,omitempty"`
	Barrio      string  `json:"barrio,omitempty"`
	Bio         string  `json:"bio,omitempty"`
	HourlyRate  float64 `json:"hourly_rate,omitempty"`
	AvatarURL   string  `json:"avatar_url,omitempty"`
	Rating      float64 `json:"rating"`
	RatingCount int     `json:"rating_count"`
	IsPremium   bool    `json:"is_premium"`
}

type listProfessionalsResponse struct {
	Data  []professionalResponse `json:"data"`
	Total int                    `json:"total"`
}

// --- Reviews ---

type submitReviewRequest struct {
	Rating  int    `json:"rating"  validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=500"`
}

type guestReviewRequest struct {
	ReviewToken string `json:"review_token" validate:"required"`
	Rating      int    `json:"rating"       validate:"required,gte=1,lte=5"`
	Comment     string `json:"comment"      validate:"max=500"`
}

type reviewResponse struct {
	ID             string    `json:"id"`
	HireID         string    `json:"hire_id"`
	ProfessionalID string    `json:"professional_id"`
	ClientID       string    `json:"client_id,omitempty"`
	GuestName      string    `json:"guest_name,omitempty"`
	Rating         int       `json:"rating"`
	Comment        string    `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type listReviewsResponse struct {
	Data  []reviewResponse `json:"data"`
	Total int              `json:"total"`
}

// --- Notifications ---

type notificationResponse struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Message     string    `json:"message"`
	SenderName  string    `json:"sender_name,omitempty"`
	RelatedID   string    `json:"related_id"`
	RelatedType string    `json:"related_type"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

type listNotificationsResponse struct {
	Data []notificationResponse `json:"data"`
}
