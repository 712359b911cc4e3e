package listings

import (
	"context"
	"fmt"

	"carmod-backend/internal/domain"
	"carmod-backend/internal/pkg/constants"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// SampleListings are the fixed rows inserted by Seed, in insertion order.
var SampleListings = []CreateListingInput{
	sample("2020 Toyota Camry", "Excellent condition, low mileage, perfect for daily commute", 25000, constants.StatusPending),
	sample("2019 Honda Civic", "Well maintained, great fuel economy, reliable transportation", 22000, constants.StatusApproved),
	sample("2021 Ford Mustang", "Sporty performance car, premium features, leather interior", 35000, constants.StatusRejected),
	sample("2018 BMW 3 Series", "Luxury sedan, advanced technology, comfortable ride", 28000, constants.StatusPending),
	sample("2020 Tesla Model 3", "Electric vehicle, autopilot, zero emissions", 45000, constants.StatusApproved),
}

func sample(title, description string, price float64, status string) CreateListingInput {
	return CreateListingInput{Title: title, Description: &description, Price: &price, Status: status}
}

// Seed inserts SampleListings. It does not check for earlier seeds, so running it twice
// inserts the rows twice. No audit entries are written.
func (s *Service) Seed(ctx context.Context) (int, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, in := range SampleListings {
			l := &domain.Listing{Title: in.Title, Description: in.Description, Price: in.Price, Status: in.Status}
			if err := tx.Create(l).Error; err != nil {
				return fmt.Errorf("Failed to seed listing %q: %w", in.Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Info().Int("count", len(SampleListings)).Msg("Seeded sample listings")
	return len(SampleListings), nil
}
