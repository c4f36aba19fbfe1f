package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddress_NeedsEnrichment(t *testing.T) {
	tests := []struct {
		name string
		addr Address
		want bool
	}{
		{"no postal code", Address{Street: "Rua A"}, false},
		{"blank postal code", Address{PostalCode: "  "}, false},
		{"postal code and missing street", Address{PostalCode: "01001000", City: "São Paulo", State: "SP", Neighborhood: "Sé"}, true},
		{"postal code and missing city", Address{PostalCode: "01001000", Street: "Praça da Sé", State: "SP", Neighborhood: "Sé"}, true},
		{"fully populated", Address{PostalCode: "01001000", Street: "Praça da Sé", Neighborhood: "Sé", City: "São Paulo", State: "SP"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.addr.NeedsEnrichment())
		})
	}
}

func TestAddress_EnrichWith_FillsOnlyBlanks(t *testing.T) {
	addr := Address{
		Street:     "Rua das Flores",
		Number:     "42",
		Complement: "apto 7",
		PostalCode: "01001000",
	}

	enriched := addr.EnrichWith("Praça da Sé", "Sé", "São Paulo", "SP")

	// Populated fields are never overwritten.
	assert.Equal(t, "Rua das Flores", enriched.Street)
	// Blank fields are filled.
	assert.Equal(t, "Sé", enriched.Neighborhood)
	assert.Equal(t, "São Paulo", enriched.City)
	assert.Equal(t, "SP", enriched.State)
	// Number, complement and postal code are untouched.
	assert.Equal(t, "42", enriched.Number)
	assert.Equal(t, "apto 7", enriched.Complement)
	assert.Equal(t, "01001000", enriched.PostalCode)
}
