package entity

import "strings"

// Address is a postal address value object.
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
}

// NeedsEnrichment reports whether the address carries a postal code but is
// missing any of the fields an external lookup could fill in.
func (a Address) NeedsEnrichment() bool {
	return !isBlank(a.PostalCode) &&
		(isBlank(a.Street) || isBlank(a.Neighborhood) || isBlank(a.City) || isBlank(a.State))
}

// EnrichWith fills only the blank fields from looked-up values. Populated
// fields, number, complement and postal code are never touched.
func (a Address) EnrichWith(street, neighborhood, city, state string) Address {
	return Address{
		Street:       pick(a.Street, street),
		Number:       a.Number,
		Complement:   a.Complement,
		Neighborhood: pick(a.Neighborhood, neighborhood),
		City:         pick(a.City, city),
		State:        pick(a.State, state),
		PostalCode:   a.PostalCode,
	}
}

func pick(current, looked string) string {
	if isBlank(current) {
		return looked
	}
	return current
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
