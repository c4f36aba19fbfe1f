package entity

import "fmt"

// DomainError is a business-rule violation with no more specific kind.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string { return e.Message }

// NotFoundError indicates an entity reference that does not exist.
type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id %v", e.Entity, e.ID)
}

// DuplicateFieldError indicates a unique-field collision (email, CPF, SKU).
type DuplicateFieldError struct {
	Field string
	Value string
}

func (e *DuplicateFieldError) Error() string {
	return fmt.Sprintf("a record already exists with %s: %s", e.Field, e.Value)
}

// InsufficientStockError indicates a requested quantity exceeding the
// available stock of a product.
type InsufficientStockError struct {
	Product   string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %q: available %d, requested %d",
		e.Product, e.Available, e.Requested)
}

// InvalidOrderStateError indicates a status transition not permitted from
// the order's current status.
type InvalidOrderStateError struct {
	Current Status
	Target  Status
}

func (e *InvalidOrderStateError) Error() string {
	return fmt.Sprintf("cannot change order status from %s to %s", e.Current, e.Target)
}

// InvalidInputError indicates malformed caller input, such as a postal code
// that does not normalize to 8 digits.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

// LookupFailedError indicates an external lookup that kept failing at the
// transport level after all retries were exhausted.
type LookupFailedError struct {
	CEP string
	Err error
}

func (e *LookupFailedError) Error() string {
	return fmt.Sprintf("postal code lookup failed for %s: %v", e.CEP, e.Err)
}

func (e *LookupFailedError) Unwrap() error { return e.Err }
