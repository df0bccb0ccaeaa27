package smoke

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Pallinder/go-randomdata"
	"github.com/okian/contacts/pkg/logger"
)

// ContactInput is the body sent to create and update.
type ContactInput struct {
	Name        string `json:"Name"`
	CountryCode string `json:"CountryCode"`
	PhoneNumber string `json:"PhoneNumber"`
}

// Contact is the record returned by the service.
type Contact struct {
	ID          string `json:"Id"`
	Name        string `json:"Name"`
	CountryCode string `json:"CountryCode"`
	PhoneNumber string `json:"PhoneNumber"`
}

// Input returns the mutable fields of c.
func (c Contact) Input() ContactInput {
	return ContactInput{Name: c.Name, CountryCode: c.CountryCode, PhoneNumber: c.PhoneNumber}
}

// Matches reports whether c carries exactly the fields of in.
func (c Contact) Matches(in ContactInput) bool {
	return c.Input() == in
}

// randomContact builds one plausible contact.
func randomContact() ContactInput {
	name := randomdata.FirstName(randomdata.RandomGender) + " " + randomdata.LastName()
	return ContactInput{
		Name:        name,
		CountryCode: "+" + strconv.Itoa(randomdata.Number(minCountryCode, maxCountryCode)),
		PhoneNumber: strconv.Itoa(randomdata.Number(minSubscriber, maxSubscriber)),
	}
}

// generateContacts returns n random contacts.
func generateContacts(ctx context.Context, n int, stats *Stats, log logger.Logger) ([]ContactInput, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: contacts must be positive, got %d", ErrInvalidConfig, n)
	}

	out := make([]ContactInput, n)
	for i := range out {
		if i%1000 == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}
		out[i] = randomContact()
	}

	stats.Generated = n
	log.Info(ctx, "contacts generated", logger.Int("count", n))
	return out, nil
}
