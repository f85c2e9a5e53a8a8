package domain

import "time"

// Professional is a listing in the services directory.
type Professional struct {
	ID          string
	UserID      string // owning account; may be empty for unclaimed listings
	DisplayName string
	Profession  string
	City        string
	State       string
	Barrio      string
	Bio         string
	HourlyRate  float64
	AvatarURL   string
	Phone       string
	Email       string

	Rating      float64
	RatingCount int

	// IsPremiumFlag is the stored billing flag. It must never be read on its
	// own; use PremiumAt.
	IsPremiumFlag       bool
	SubscriptionEndDate *time.Time

	// PremiumEffective is derived by the ranking engine on every read and is
	// never persisted.
	PremiumEffective bool
}

// PremiumAt reports whether the listing is premium at instant now: the flag
// is set and the subscription end date is present and still in the future.
func (p Professional) PremiumAt(now time.Time) bool {
	return p.IsPremiumFlag && p.SubscriptionEndDate != nil && p.SubscriptionEndDate.After(now)
}

// DirectoryFilter carries the discovery filters.
type DirectoryFilter struct {
	Search    string
	Category  string
	City      string
	Barrio    string // only legal together with City
	MinRating float64
}
