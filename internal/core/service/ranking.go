package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/oficiosya/hires-api/internal/core/domain"
	"github.com/oficiosya/hires-api/internal/core/ports"
)

// Rank normalises, filters and orders professionals for discovery. It is pure:
// the input slice is not modified and the same input and instant always give
// the same output.
func Rank(pros []domain.Professional, f domain.DirectoryFilter, now time.Time) ([]domain.Professional, error) {
	if strings.TrimSpace(f.Barrio) != "" && strings.TrimSpace(f.City) == "" {
		return nil, fmt.Errorf("%w: barrio requires a city", domain.ErrInvalidFilter)
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	category := normalize(f.Category)
	city := normalize(f.City)
	barrio := normalize(f.Barrio)

	out := make([]domain.Professional, 0, len(pros))
	for _, p := range pros {
		p.PremiumEffective = p.PremiumAt(now)
		p.Rating = ratingOf(p)

		if search != "" && !matchesSearch(p, search) {
			continue
		}
		if category != "" && normalize(p.Profession) != category {
			continue
		}
		if city != "" && normalize(p.City) != city {
			continue
		}
		if barrio != "" && normalize(p.Barrio) != barrio {
			continue
		}
		if f.MinRating > 0 && p.Rating < f.MinRating {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := premiumRank(out[i]), premiumRank(out[j])
		if pi != pj {
			return pi > pj
		}
		return out[i].Rating > out[j].Rating
	})

	return out, nil
}

func premiumRank(p domain.Professional) int {
	if p.PremiumEffective {
		return 1
	}
	return 0
}

// ratingOf treats unknown or nonsensical ratings as 0.
func ratingOf(p domain.Professional) float64 {
	if math.IsNaN(p.Rating) || p.Rating < 0 {
		return 0
	}
	return p.Rating
}

func matchesSearch(p domain.Professional, q string) bool {
	return strings.Contains(strings.ToLower(p.DisplayName), q) ||
		strings.Contains(strings.ToLower(p.Profession), q) ||
		strings.Contains(strings.ToLower(p.City), q)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// DirectoryService serves the ranked discovery list.
type DirectoryService struct {
	repo   ports.ProfessionalRepository
	clock  ports.Clock
	logger zerolog.Logger
}

func NewDirectoryService(repo ports.ProfessionalRepository, clock ports.Clock, logger zerolog.Logger) *DirectoryService {
	return &DirectoryService{repo: repo, clock: clock, logger: logger}
}

// Search loads candidates and ranks them at the current instant.
func (s *DirectoryService) Search(ctx context.Context, f domain.DirectoryFilter) ([]domain.Professional, error) {
	if strings.TrimSpace(f.Barrio) != "" && strings.TrimSpace(f.City) == "" {
		return nil, fmt.Errorf("%w: barrio requires a city", domain.ErrInvalidFilter)
	}
	if f.MinRating < 0 || f.MinRating > domain.RatingMax {
		return nil, fmt.Errorf("%w: min_rating must be between 0 and %d", domain.ErrInvalidFilter, domain.RatingMax)
	}

	pros, err := s.repo.List(ctx, ports.ProfessionalQuery{Category: f.Category, City: f.City})
	if err != nil {
		return nil, fmt.Errorf("search professionals: %w", err)
	}
	return Rank(pros, f, s.clock.Now())
}
