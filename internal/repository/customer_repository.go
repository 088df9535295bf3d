package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"stockroom/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrCustomerAlreadyExists = errors.New("customer with this email or mobile number already exists")
)

// CustomerRepository defines the interface for customer data access. Every
// method is scoped to the owning user.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Customer, error)
}

type customerRepository struct {
	db DBTX
}

// NewCustomerRepository creates a new instance of CustomerRepository
func NewCustomerRepository(db DBTX) CustomerRepository {
	return &customerRepository{db: db}
}

// Create inserts a new customer into the database using parameterized queries
func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, owner_id, name, email, mobile_number, street, city, state, zip_code, country, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.OwnerID,
		customer.Name,
		customer.Email,
		customer.MobileNumber,
		customer.Address.Street,
		customer.Address.City,
		customer.Address.State,
		customer.Address.ZipCode,
		customer.Address.Country,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrCustomerAlreadyExists
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

// Update updates an existing customer
func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $3, email = $4, mobile_number = $5, street = $6, city = $7,
		    state = $8, zip_code = $9, country = $10, updated_at = $11
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.OwnerID,
		customer.Name,
		customer.Email,
		customer.MobileNumber,
		customer.Address.Street,
		customer.Address.City,
		customer.Address.State,
		customer.Address.ZipCode,
		customer.Address.Country,
		customer.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrCustomerAlreadyExists
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// Delete removes a customer from the database
func (r *customerRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM customers WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}

// FindByID retrieves a customer by ID within the owner's records
func (r *customerRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, owner_id, name, email, mobile_number, street, city, state, zip_code, country, created_at, updated_at
		FROM customers
		WHERE id = $1 AND owner_id = $2
	`

	customer := &domain.Customer{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&customer.ID,
		&customer.OwnerID,
		&customer.Name,
		&customer.Email,
		&customer.MobileNumber,
		&customer.Address.Street,
		&customer.Address.City,
		&customer.Address.State,
		&customer.Address.ZipCode,
		&customer.Address.Country,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID: %w", err)
	}

	return customer, nil
}

// List retrieves all of the owner's customers ordered by name
func (r *customerRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Customer, error) {
	query := `
		SELECT id, owner_id, name, email, mobile_number, street, city, state, zip_code, country, created_at, updated_at
		FROM customers
		WHERE owner_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []*domain.Customer{}
	for rows.Next() {
		customer := &domain.Customer{}
		err := rows.Scan(
			&customer.ID,
			&customer.OwnerID,
			&customer.Name,
			&customer.Email,
			&customer.MobileNumber,
			&customer.Address.Street,
			&customer.Address.City,
			&customer.Address.State,
			&customer.Address.ZipCode,
			&customer.Address.Country,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, nil
}
