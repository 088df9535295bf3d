package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockroom/internal/domain"
	"stockroom/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrEmptySale            = errors.New("sale must contain at least one line item")
	ErrInvalidQuantity      = errors.New("line item quantity must be positive")
	ErrInvalidLineItem      = errors.New("line item is missing a product reference")
	ErrInvalidPaymentMethod = errors.New("unknown payment method")
	ErrInvalidTotalPrice    = errors.New("total price must not be negative")
)

// SaleLineInput is one requested line item
type SaleLineInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateSaleInput carries everything needed to record a sale
type CreateSaleInput struct {
	Items         []SaleLineInput
	Customer      *domain.CustomerRef
	PaymentMethod domain.PaymentMethod
	TotalPrice    float64
}

// UpdateSaleInput replaces a sale's line items; payment method and total
// price are only overwritten when provided.
type UpdateSaleInput struct {
	Items         []SaleLineInput
	Customer      *domain.CustomerRef
	PaymentMethod *domain.PaymentMethod
	TotalPrice    *float64
}

// SaleService implements the sale workflow: recording a sale deducts
// product stock, replacing its line items restores the old quantities
// before deducting the new ones, and the whole adjustment runs inside a
// single transaction so a mid-loop failure leaves no partial mutation
// behind.
type SaleService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateSaleInput) (*domain.Sale, error)
	Update(ctx context.Context, ownerID, saleID uuid.UUID, input UpdateSaleInput) (*domain.Sale, error)
	Delete(ctx context.Context, ownerID, saleID uuid.UUID) error
	GetByID(ctx context.Context, ownerID, saleID uuid.UUID) (*domain.Sale, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Sale, error)
}

type saleService struct {
	txm       repository.TxManager
	sales     repository.SaleRepository
	customers repository.CustomerRepository

	// restoreStockOnDelete controls whether deleting a sale returns its
	// line item quantities to stock. Off by default: a deleted sale is
	// treated as a write-off.
	restoreStockOnDelete bool
}

// NewSaleService creates a new instance of SaleService
func NewSaleService(
	txm repository.TxManager,
	sales repository.SaleRepository,
	customers repository.CustomerRepository,
	restoreStockOnDelete bool,
) SaleService {
	return &saleService{
		txm:                  txm,
		sales:                sales,
		customers:            customers,
		restoreStockOnDelete: restoreStockOnDelete,
	}
}

// Create validates and records a new sale, deducting stock for each line
// item in input order. The stock check and decrement are a single
// conditional update, so concurrent sales over the same product cannot
// oversell it.
func (s *saleService) Create(ctx context.Context, ownerID uuid.UUID, input CreateSaleInput) (*domain.Sale, error) {
	if err := validateLineItems(input.Items); err != nil {
		return nil, err
	}
	if !input.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if input.TotalPrice < 0 {
		return nil, ErrInvalidTotalPrice
	}

	if err := s.resolveCustomer(ctx, ownerID, input.Customer); err != nil {
		return nil, err
	}

	now := time.Now()
	sale := &domain.Sale{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Items:         toDomainItems(input.Items),
		Customer:      input.Customer,
		PaymentMethod: input.PaymentMethod,
		TotalPrice:    input.TotalPrice,
		Date:          now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err := s.txm.Do(ctx, func(stores repository.Stores) error {
		for _, item := range sale.Items {
			if err := stores.Products.DeductStock(ctx, ownerID, item.ProductID, item.Quantity); err != nil {
				return stockError(err, item.ProductID)
			}
		}
		return stores.Sales.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.sales.FindByID(ctx, ownerID, sale.ID)
}

// Update replaces a sale's line items. Inside one transaction every old
// line item's quantity is restored, then the new list is validated and
// deducted exactly as in Create; any failure rolls the whole adjustment
// back, leaving both the sale and all product stocks untouched.
func (s *saleService) Update(ctx context.Context, ownerID, saleID uuid.UUID, input UpdateSaleInput) (*domain.Sale, error) {
	if err := validateLineItems(input.Items); err != nil {
		return nil, err
	}
	if input.PaymentMethod != nil && !input.PaymentMethod.Valid() {
		return nil, ErrInvalidPaymentMethod
	}
	if input.TotalPrice != nil && *input.TotalPrice < 0 {
		return nil, ErrInvalidTotalPrice
	}

	if err := s.resolveCustomer(ctx, ownerID, input.Customer); err != nil {
		return nil, err
	}

	err := s.txm.Do(ctx, func(stores repository.Stores) error {
		sale, err := stores.Sales.FindByID(ctx, ownerID, saleID)
		if err != nil {
			return err
		}

		// Restore phase: give every old line item's quantity back.
		for _, item := range sale.Items {
			if err := stores.Products.RestoreStock(ctx, ownerID, item.ProductID, item.Quantity); err != nil {
				// The referenced product may have been deleted since the
				// sale was recorded; its stock is gone with it.
				if errors.Is(err, repository.ErrProductNotFound) {
					continue
				}
				return err
			}
		}

		// Apply phase: validate and deduct the new list.
		for _, item := range input.Items {
			if err := stores.Products.DeductStock(ctx, ownerID, item.ProductID, item.Quantity); err != nil {
				return stockError(err, item.ProductID)
			}
		}

		sale.Items = toDomainItems(input.Items)
		if input.Customer != nil {
			sale.Customer = input.Customer
		}
		if input.PaymentMethod != nil {
			sale.PaymentMethod = *input.PaymentMethod
		}
		if input.TotalPrice != nil {
			sale.TotalPrice = *input.TotalPrice
		}
		sale.UpdatedAt = time.Now()

		return stores.Sales.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}

	return s.sales.FindByID(ctx, ownerID, saleID)
}

// Delete removes a sale. Stock restoration on delete is explicit
// configuration, not an accident of the workflow.
func (s *saleService) Delete(ctx context.Context, ownerID, saleID uuid.UUID) error {
	return s.txm.Do(ctx, func(stores repository.Stores) error {
		sale, err := stores.Sales.FindByID(ctx, ownerID, saleID)
		if err != nil {
			return err
		}

		if s.restoreStockOnDelete {
			for _, item := range sale.Items {
				if err := stores.Products.RestoreStock(ctx, ownerID, item.ProductID, item.Quantity); err != nil {
					if errors.Is(err, repository.ErrProductNotFound) {
						continue
					}
					return err
				}
			}
		}

		return stores.Sales.Delete(ctx, ownerID, saleID)
	})
}

// GetByID retrieves a sale with resolved references
func (s *saleService) GetByID(ctx context.Context, ownerID, saleID uuid.UUID) (*domain.Sale, error) {
	return s.sales.FindByID(ctx, ownerID, saleID)
}

// List retrieves the owner's sales with resolved references
func (s *saleService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Sale, error) {
	return s.sales.List(ctx, ownerID)
}

// resolveCustomer verifies the referenced customer belongs to the owner
// and attaches the resolved record.
func (s *saleService) resolveCustomer(ctx context.Context, ownerID uuid.UUID, ref *domain.CustomerRef) error {
	if ref == nil {
		return nil
	}

	customer, err := s.customers.FindByID(ctx, ownerID, ref.ID)
	if err != nil {
		return err
	}
	ref.Resolve(customer)
	return nil
}

func validateLineItems(items []SaleLineInput) error {
	if len(items) == 0 {
		return ErrEmptySale
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.ProductID == uuid.Nil {
			return ErrInvalidLineItem
		}
	}
	return nil
}

func toDomainItems(items []SaleLineInput) []domain.SaleItem {
	out := make([]domain.SaleItem, len(items))
	for i, item := range items {
		out[i] = domain.SaleItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return out
}

// stockError attaches the offending product id to a stock failure so the
// caller can report which line item was rejected.
func stockError(err error, productID uuid.UUID) error {
	if errors.Is(err, repository.ErrInsufficientStock) || errors.Is(err, repository.ErrProductNotFound) {
		return fmt.Errorf("%w: product %s", err, productID)
	}
	return err
}
