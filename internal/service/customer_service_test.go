package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenerp/backend/internal/entity"
	"github.com/goldenerp/backend/internal/repository/memory"
)

type stubLookup struct {
	addr  entity.Address
	err   error
	calls int
}

func (s *stubLookup) Lookup(_ context.Context, _ string) (entity.Address, error) {
	s.calls++
	return s.addr, s.err
}

func newCustomerService(lookup *stubLookup) (*CustomerService, *memory.CustomerRepository) {
	repo := memory.NewCustomerRepository()
	return NewCustomerService(repo, lookup), repo
}

func TestCustomerService_Create(t *testing.T) {
	svc, repo := newCustomerService(&stubLookup{})

	customer, err := svc.Create(context.Background(), CustomerInput{
		Name:  "Maria Silva",
		Email: "maria@example.com",
		CPF:   "11122233344",
	})
	require.NoError(t, err)
	assert.NotZero(t, customer.ID)

	stored, err := repo.FindByID(context.Background(), customer.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Maria Silva", stored.Name)
}

func TestCustomerService_Create_DuplicateEmail(t *testing.T) {
	svc, _ := newCustomerService(&stubLookup{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CustomerInput{Name: "Maria", Email: "maria@example.com", CPF: "111"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CustomerInput{Name: "Other", Email: "maria@example.com", CPF: "222"})

	var dup *entity.DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}

func TestCustomerService_Create_DuplicateCPF(t *testing.T) {
	svc, _ := newCustomerService(&stubLookup{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CustomerInput{Name: "Maria", Email: "maria@example.com", CPF: "111"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CustomerInput{Name: "Other", Email: "other@example.com", CPF: "111"})

	var dup *entity.DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "cpf", dup.Field)
}

func TestCustomerService_Create_EnrichesPartialAddress(t *testing.T) {
	lookup := &stubLookup{addr: entity.Address{
		Street:       "Praça da Sé",
		Neighborhood: "Sé",
		City:         "São Paulo",
		State:        "SP",
		PostalCode:   "01001000",
	}}
	svc, _ := newCustomerService(lookup)

	customer, err := svc.Create(context.Background(), CustomerInput{
		Name:  "Maria",
		Email: "maria@example.com",
		CPF:   "111",
		Address: &entity.Address{
			PostalCode: "01001000",
			Number:     "100",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, lookup.calls)
	require.NotNil(t, customer.Address)
	assert.Equal(t, "Praça da Sé", customer.Address.Street)
	assert.Equal(t, "São Paulo", customer.Address.City)
	assert.Equal(t, "100", customer.Address.Number)
}

func TestCustomerService_Create_SkipsLookupWhenComplete(t *testing.T) {
	lookup := &stubLookup{}
	svc, _ := newCustomerService(lookup)

	_, err := svc.Create(context.Background(), CustomerInput{
		Name:  "Maria",
		Email: "maria@example.com",
		CPF:   "111",
		Address: &entity.Address{
			Street:       "Rua das Flores",
			Neighborhood: "Centro",
			City:         "Curitiba",
			State:        "PR",
			PostalCode:   "80010000",
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 0, lookup.calls)
}

func TestCustomerService_Create_LookupFailurePropagates(t *testing.T) {
	lookupErr := &entity.LookupFailedError{CEP: "01001000", Err: errors.New("timeout")}
	svc, repo := newCustomerService(&stubLookup{err: lookupErr})

	_, err := svc.Create(context.Background(), CustomerInput{
		Name:    "Maria",
		Email:   "maria@example.com",
		CPF:     "111",
		Address: &entity.Address{PostalCode: "01001000"},
	})

	var failed *entity.LookupFailedError
	require.ErrorAs(t, err, &failed)

	// Customer must not be persisted when enrichment fails.
	all, findErr := repo.FindAll(context.Background(), "", "")
	require.NoError(t, findErr)
	assert.Empty(t, all)
}

func TestCustomerService_FindByID_NotFound(t *testing.T) {
	svc, _ := newCustomerService(&stubLookup{})

	_, err := svc.FindByID(context.Background(), 99)

	var notFound *entity.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "customer", notFound.Entity)
}

func TestCustomerService_Update(t *testing.T) {
	svc, _ := newCustomerService(&stubLookup{})
	ctx := context.Background()

	created, err := svc.Create(ctx, CustomerInput{Name: "Maria", Email: "maria@example.com", CPF: "111"})
	require.NoError(t, err)

	// Keeping her own email on update is not a duplicate.
	updated, err := svc.Update(ctx, created.ID, CustomerInput{Name: "Maria Souza", Email: "maria@example.com", CPF: "111"})
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", updated.Name)
}

func TestCustomerService_Update_DuplicateEmailOfOther(t *testing.T) {
	svc, _ := newCustomerService(&stubLookup{})
	ctx := context.Background()

	_, err := svc.Create(ctx, CustomerInput{Name: "Maria", Email: "maria@example.com", CPF: "111"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CustomerInput{Name: "João", Email: "joao@example.com", CPF: "222"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, second.ID, CustomerInput{Name: "João", Email: "maria@example.com", CPF: "222"})

	var dup *entity.DuplicateFieldError
	require.ErrorAs(t, err, &dup)
}

func TestCustomerService_Delete(t *testing.T) {
	svc, _ := newCustomerService(&stubLookup{})
	ctx := context.Background()

	created, err := svc.Create(ctx, CustomerInput{Name: "Maria", Email: "maria@example.com", CPF: "111"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	var notFound *entity.NotFoundError
	require.ErrorAs(t, svc.Delete(ctx, created.ID), &notFound)
}
