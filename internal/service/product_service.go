package service

import (
	"context"
	"errors"
	"time"

	"stockroom/internal/domain"
	"stockroom/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNegativeStock = errors.New("product quantity must not be negative")
	ErrNegativePrice = errors.New("product price must not be negative")
)

// CreateProductInput carries a new catalog entry
type CreateProductInput struct {
	Name        string
	Description string
	Quantity    int
	Price       float64
}

// ProductService defines the interface for catalog business logic
type ProductService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*domain.Product, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input CreateProductInput) (*domain.Product, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, ownerID uuid.UUID, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error)
	Search(ctx context.Context, ownerID uuid.UUID, query string, page, pageSize int) ([]*domain.Product, int, error)
}

type productService struct {
	products repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(products repository.ProductRepository) ProductService {
	return &productService{products: products}
}

// Create adds a product to the owner's catalog
func (s *productService) Create(ctx context.Context, ownerID uuid.UUID, input CreateProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &domain.Product{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        input.Name,
		Description: input.Description,
		Quantity:    input.Quantity,
		Price:       input.Price,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Update overwrites a product's attributes, including a direct stock edit
func (s *productService) Update(ctx context.Context, ownerID, id uuid.UUID, input CreateProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product, err := s.products.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.Quantity = input.Quantity
	product.Price = input.Price
	product.UpdatedAt = time.Now()

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product from the owner's catalog
func (s *productService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.products.Delete(ctx, ownerID, id)
}

// GetByID retrieves one of the owner's products
func (s *productService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Product, error) {
	return s.products.FindByID(ctx, ownerID, id)
}

// List retrieves the owner's catalog with pagination and sorting
func (s *productService) List(ctx context.Context, ownerID uuid.UUID, page, pageSize int, sortBy string, sortOrder repository.SortOrder) ([]*domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.products.List(ctx, ownerID, page, pageSize, sortBy, sortOrder)
}

// Search searches the owner's catalog by name or description
func (s *productService) Search(ctx context.Context, ownerID uuid.UUID, query string, page, pageSize int) ([]*domain.Product, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.products.Search(ctx, ownerID, query, page, pageSize)
}

func validateProductInput(input CreateProductInput) error {
	if input.Quantity < 0 {
		return ErrNegativeStock
	}
	if input.Price < 0 {
		return ErrNegativePrice
	}
	return nil
}
