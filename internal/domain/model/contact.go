// Package model contains domain models passed between layers.
package model

import "github.com/google/uuid"

// Contact is the only entity of the service. ID is assigned once, on
// creation, and never changes.
type Contact struct {
	ID          string `json:"Id"`
	Name        string `json:"Name"`
	CountryCode string `json:"CountryCode"`
	PhoneNumber string `json:"PhoneNumber"`
}

// Details holds the mutable part of a Contact.
type Details struct {
	Name        string
	CountryCode string
	PhoneNumber string
}

// NewContact builds a Contact with a freshly generated random UUID.
func NewContact(d Details) Contact {
	c := Contact{ID: uuid.NewString()}
	c.Apply(d)
	return c
}

// Apply overwrites every mutable field. There are no partial updates: a zero
// field in d clears the stored value.
func (c *Contact) Apply(d Details) {
	c.Name = d.Name
	c.CountryCode = d.CountryCode
	c.PhoneNumber = d.PhoneNumber
}

// Details returns the mutable fields of c.
func (c Contact) Details() Details {
	return Details{
		Name:        c.Name,
		CountryCode: c.CountryCode,
		PhoneNumber: c.PhoneNumber,
	}
}

// ParseID canonicalizes a contact identifier. It accepts every textual UUID
// form understood by uuid.Parse and returns the lowercase hyphenated form.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
