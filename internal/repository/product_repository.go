package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"stockroom/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrProductAlreadyExists = errors.New("product with this name already exists")
	ErrInsufficientStock    = errors.New("insufficient stock")
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

// ProductRepository defines the interface for product data access. Every
// method is scoped to the owning user.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, ownerID uuid.UUID, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error)
	ListAll(ctx context.Context, ownerID uuid.UUID) ([]*domain.Product, error)
	Search(ctx context.Context, ownerID uuid.UUID, query string, page, pageSize int) ([]*domain.Product, int, error)
	DeductStock(ctx context.Context, ownerID, id uuid.UUID, quantity int) error
	RestoreStock(ctx context.Context, ownerID, id uuid.UUID, quantity int) error
}

type productRepository struct {
	db DBTX
}

// NewProductRepository creates a new instance of ProductRepository
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

// Create inserts a new product into the database using parameterized queries
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, owner_id, name, description, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.OwnerID,
		product.Name,
		product.Description,
		product.Quantity,
		product.Price,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// Update updates an existing product, including a direct stock edit
func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET name = $3, description = $4, quantity = $5, price = $6, updated_at = $7
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		product.ID,
		product.OwnerID,
		product.Name,
		product.Description,
		product.Quantity,
		product.Price,
		product.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err) {
			return ErrProductAlreadyExists
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes a product from the database
func (r *productRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// FindByID retrieves a product by ID within the owner's catalog
func (r *productRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, owner_id, name, description, quantity, price, created_at, updated_at
		FROM products
		WHERE id = $1 AND owner_id = $2
	`

	product := &domain.Product{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&product.ID,
		&product.OwnerID,
		&product.Name,
		&product.Description,
		&product.Quantity,
		&product.Price,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// DeductStock atomically decrements a product's stock, but only when
// enough units are available. The condition lives in the UPDATE itself so
// two concurrent deductions can never drive the quantity negative.
func (r *productRepository) DeductStock(ctx context.Context, ownerID, id uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET quantity = quantity - $3, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2 AND quantity >= $3
	`

	result, err := r.db.ExecContext(ctx, query, id, ownerID, quantity)
	if err != nil {
		return fmt.Errorf("failed to deduct stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		// Zero rows means the product is missing or the stock check
		// failed; a follow-up read tells the two apart.
		if _, err := r.FindByID(ctx, ownerID, id); err != nil {
			return err
		}
		return ErrInsufficientStock
	}

	return nil
}

// RestoreStock atomically adds units back to a product's stock
func (r *productRepository) RestoreStock(ctx context.Context, ownerID, id uuid.UUID, quantity int) error {
	query := `
		UPDATE products
		SET quantity = quantity + $3, updated_at = NOW()
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, ownerID, quantity)
	if err != nil {
		return fmt.Errorf("failed to restore stock: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrProductNotFound
	}

	return nil
}

// List retrieves the owner's products with pagination and sorting
func (r *productRepository) List(ctx context.Context, ownerID uuid.UUID, page, pageSize int, sortBy string, sortOrder SortOrder) ([]*domain.Product, int, error) {
	// Validate sort field to prevent SQL injection
	validSortFields := map[string]bool{
		"name":       true,
		"price":      true,
		"quantity":   true,
		"created_at": true,
	}

	if !validSortFields[sortBy] {
		sortBy = "created_at"
	}

	if sortOrder != SortOrderAsc && sortOrder != SortOrderDesc {
		sortOrder = SortOrderDesc
	}

	countQuery := `SELECT COUNT(*) FROM products WHERE owner_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`
		SELECT id, owner_id, name, description, quantity, price, created_at, updated_at
		FROM products
		WHERE owner_id = $1
		ORDER BY %s %s
		LIMIT $2 OFFSET $3
	`, sortBy, sortOrder)

	rows, err := r.db.QueryContext(ctx, query, ownerID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListAll retrieves every product in the owner's catalog, for reports
func (r *productRepository) ListAll(ctx context.Context, ownerID uuid.UUID) ([]*domain.Product, error) {
	query := `
		SELECT id, owner_id, name, description, quantity, price, created_at, updated_at
		FROM products
		WHERE owner_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

// Search searches the owner's products by name or description
func (r *productRepository) Search(ctx context.Context, ownerID uuid.UUID, query string, page, pageSize int) ([]*domain.Product, int, error) {
	if strings.TrimSpace(query) == "" {
		return r.List(ctx, ownerID, page, pageSize, "created_at", SortOrderDesc)
	}

	searchPattern := "%" + query + "%"

	countQuery := `
		SELECT COUNT(*)
		FROM products
		WHERE owner_id = $1 AND (name ILIKE $2 OR description ILIKE $2)
	`
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, ownerID, searchPattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count search results: %w", err)
	}

	offset := (page - 1) * pageSize

	searchQuery := `
		SELECT id, owner_id, name, description, quantity, price, created_at, updated_at
		FROM products
		WHERE owner_id = $1 AND (name ILIKE $2 OR description ILIKE $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.QueryContext(ctx, searchQuery, ownerID, searchPattern, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func scanProducts(rows *sql.Rows) ([]*domain.Product, error) {
	products := []*domain.Product{}
	for rows.Next() {
		product := &domain.Product{}
		err := rows.Scan(
			&product.ID,
			&product.OwnerID,
			&product.Name,
			&product.Description,
			&product.Quantity,
			&product.Price,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
