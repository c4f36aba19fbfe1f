package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goldenerp/backend/internal/entity"
	"github.com/goldenerp/backend/internal/repository"
)

// AddressLookup resolves a postal code to a full address via an external
// lookup service.
type AddressLookup interface {
	Lookup(ctx context.Context, cep string) (entity.Address, error)
}

// CustomerInput is the data for creating or updating a customer.
type CustomerInput struct {
	Name    string          `json:"name"`
	Email   string          `json:"email"`
	CPF     string          `json:"cpf"`
	Address *entity.Address `json:"address,omitempty"`
}

// CustomerService manages customers, enforcing email/CPF uniqueness and
// enriching partial addresses through the lookup port.
type CustomerService struct {
	customers repository.CustomerRepository
	addresses AddressLookup
}

func NewCustomerService(customers repository.CustomerRepository, addresses AddressLookup) *CustomerService {
	return &CustomerService{customers: customers, addresses: addresses}
}

func (s *CustomerService) Create(ctx context.Context, input CustomerInput) (*entity.Customer, error) {
	if err := s.checkUnique(ctx, input.Email, input.CPF, 0); err != nil {
		return nil, err
	}

	address, err := s.enrichIfNeeded(ctx, input.Address)
	if err != nil {
		return nil, err
	}

	customer := &entity.Customer{
		Name:    input.Name,
		Email:   input.Email,
		CPF:     input.CPF,
		Address: address,
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, fmt.Errorf("failed to persist customer: %w", err)
	}

	slog.Info("Customer created", "customer_id", customer.ID)
	return customer, nil
}

func (s *CustomerService) FindByID(ctx context.Context, id int64) (*entity.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	if customer == nil {
		return nil, &entity.NotFoundError{Entity: "customer", ID: id}
	}
	return customer, nil
}

func (s *CustomerService) List(ctx context.Context, name, email string) ([]entity.Customer, error) {
	return s.customers.FindAll(ctx, name, email)
}

func (s *CustomerService) Update(ctx context.Context, id int64, input CustomerInput) (*entity.Customer, error) {
	existing, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkUnique(ctx, input.Email, input.CPF, id); err != nil {
		return nil, err
	}

	address, err := s.enrichIfNeeded(ctx, input.Address)
	if err != nil {
		return nil, err
	}

	existing.Name = input.Name
	existing.Email = input.Email
	existing.CPF = input.CPF
	existing.Address = address

	if err := s.customers.Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to persist customer: %w", err)
	}

	slog.Info("Customer updated", "customer_id", existing.ID)
	return existing, nil
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.customers.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if !deleted {
		return &entity.NotFoundError{Entity: "customer", ID: id}
	}
	slog.Info("Customer deleted", "customer_id", id)
	return nil
}

func (s *CustomerService) checkUnique(ctx context.Context, email, cpf string, excludeID int64) error {
	taken, err := s.customers.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if taken {
		return &entity.DuplicateFieldError{Field: "email", Value: email}
	}

	taken, err = s.customers.ExistsByCPF(ctx, cpf, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check cpf uniqueness: %w", err)
	}
	if taken {
		return &entity.DuplicateFieldError{Field: "cpf", Value: cpf}
	}
	return nil
}

func (s *CustomerService) enrichIfNeeded(ctx context.Context, address *entity.Address) (*entity.Address, error) {
	if address == nil || !address.NeedsEnrichment() {
		return address, nil
	}

	looked, err := s.addresses.Lookup(ctx, address.PostalCode)
	if err != nil {
		return nil, err
	}

	enriched := address.EnrichWith(looked.Street, looked.Neighborhood, looked.City, looked.State)
	slog.Info("Address enriched from postal code", "postal_code", address.PostalCode)
	return &enriched, nil
}
