package service

import (
	"context"
	"time"

	"stockroom/internal/domain"
	"stockroom/internal/repository"

	"github.com/google/uuid"
)

// CustomerInput carries the writable fields of a customer record
type CustomerInput struct {
	Name         string
	Email        string
	MobileNumber string
	Address      domain.Address
}

// CustomerService defines the interface for customer business logic
type CustomerService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Customer, error)
}

type customerService struct {
	customers repository.CustomerRepository
}

// NewCustomerService creates a new instance of CustomerService
func NewCustomerService(customers repository.CustomerRepository) CustomerService {
	return &customerService{customers: customers}
}

// Create adds a customer record for the owner
func (s *customerService) Create(ctx context.Context, ownerID uuid.UUID, input CustomerInput) (*domain.Customer, error) {
	now := time.Now()
	customer := &domain.Customer{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         input.Name,
		Email:        input.Email,
		MobileNumber: input.MobileNumber,
		Address:      input.Address,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// Update overwrites a customer's attributes
func (s *customerService) Update(ctx context.Context, ownerID, id uuid.UUID, input CustomerInput) (*domain.Customer, error) {
	customer, err := s.customers.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	customer.Name = input.Name
	customer.Email = input.Email
	customer.MobileNumber = input.MobileNumber
	customer.Address = input.Address
	customer.UpdatedAt = time.Now()

	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// Delete removes a customer record
func (s *customerService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.customers.Delete(ctx, ownerID, id)
}

// GetByID retrieves one of the owner's customers
func (s *customerService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, ownerID, id)
}

// List retrieves all of the owner's customers
func (s *customerService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Customer, error) {
	return s.customers.List(ctx, ownerID)
}
