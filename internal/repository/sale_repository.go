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
	ErrSaleNotFound = errors.New("sale not found")
)

// SaleRepository defines the interface for sale data access. Line items
// are stored in input order and every method is scoped to the owning
// user. Stock adjustments live in ProductRepository; the TxManager binds
// both stores to one transaction for the sale workflow.
type SaleRepository interface {
	Create(ctx context.Context, sale *domain.Sale) error
	Update(ctx context.Context, sale *domain.Sale) error
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Sale, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Sale, error)
}

type saleRepository struct {
	db DBTX
}

// NewSaleRepository creates a new instance of SaleRepository
func NewSaleRepository(db DBTX) SaleRepository {
	return &saleRepository{db: db}
}

// Create inserts a sale and its line items
func (r *saleRepository) Create(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sales (id, owner_id, customer_id, payment_method, total_price, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		sale.ID,
		sale.OwnerID,
		customerID(sale),
		string(sale.PaymentMethod),
		sale.TotalPrice,
		sale.Date,
		sale.CreatedAt,
		sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sale: %w", err)
	}

	if err := r.insertItems(ctx, sale); err != nil {
		return err
	}

	return nil
}

// Update overwrites a sale's fields and replaces its line items
func (r *saleRepository) Update(ctx context.Context, sale *domain.Sale) error {
	query := `
		UPDATE sales
		SET customer_id = $3, payment_method = $4, total_price = $5, updated_at = $6
		WHERE id = $1 AND owner_id = $2
	`

	result, err := r.db.ExecContext(
		ctx,
		query,
		sale.ID,
		sale.OwnerID,
		customerID(sale),
		string(sale.PaymentMethod),
		sale.TotalPrice,
		sale.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrSaleNotFound
	}

	if _, err := r.db.ExecContext(ctx, `DELETE FROM sale_items WHERE sale_id = $1`, sale.ID); err != nil {
		return fmt.Errorf("failed to clear sale items: %w", err)
	}

	return r.insertItems(ctx, sale)
}

// Delete removes a sale and, via cascade, its line items
func (r *saleRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	query := `DELETE FROM sales WHERE id = $1 AND owner_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrSaleNotFound
	}

	return nil
}

// FindByID retrieves a sale with its line items and resolved references
func (r *saleRepository) FindByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Sale, error) {
	query := saleSelect + ` WHERE s.id = $1 AND s.owner_id = $2`

	row := r.db.QueryRowContext(ctx, query, id, ownerID)
	sale, err := scanSale(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrSaleNotFound
		}
		return nil, fmt.Errorf("failed to find sale by ID: %w", err)
	}

	if err := r.loadItems(ctx, sale); err != nil {
		return nil, err
	}

	return sale, nil
}

// List retrieves the owner's sales, newest first, with line items and
// resolved references.
func (r *saleRepository) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Sale, error) {
	query := saleSelect + ` WHERE s.owner_id = $1 ORDER BY s.date DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	defer rows.Close()

	sales := []*domain.Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, sale)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sales: %w", err)
	}

	for _, sale := range sales {
		if err := r.loadItems(ctx, sale); err != nil {
			return nil, err
		}
	}

	return sales, nil
}

const saleSelect = `
	SELECT s.id, s.owner_id, s.customer_id, s.payment_method, s.total_price, s.date, s.created_at, s.updated_at,
	       c.id, c.owner_id, c.name, c.email, c.mobile_number, c.street, c.city, c.state, c.zip_code, c.country, c.created_at, c.updated_at
	FROM sales s
	LEFT JOIN customers c ON c.id = s.customer_id`

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSale(row scanner) (*domain.Sale, error) {
	sale := &domain.Sale{}
	var (
		customerRef uuid.NullUUID
		cID         uuid.NullUUID
		cOwner      uuid.NullUUID
		cName       sql.NullString
		cEmail      sql.NullString
		cMobile     sql.NullString
		cStreet     sql.NullString
		cCity       sql.NullString
		cState      sql.NullString
		cZip        sql.NullString
		cCountry    sql.NullString
		cCreated    sql.NullTime
		cUpdated    sql.NullTime
	)

	err := row.Scan(
		&sale.ID,
		&sale.OwnerID,
		&customerRef,
		&sale.PaymentMethod,
		&sale.TotalPrice,
		&sale.Date,
		&sale.CreatedAt,
		&sale.UpdatedAt,
		&cID,
		&cOwner,
		&cName,
		&cEmail,
		&cMobile,
		&cStreet,
		&cCity,
		&cState,
		&cZip,
		&cCountry,
		&cCreated,
		&cUpdated,
	)
	if err != nil {
		return nil, err
	}

	if customerRef.Valid {
		ref := domain.Ref(customerRef.UUID)
		if cID.Valid {
			ref.Resolve(&domain.Customer{
				ID:           cID.UUID,
				OwnerID:      cOwner.UUID,
				Name:         cName.String,
				Email:        cEmail.String,
				MobileNumber: cMobile.String,
				Address: domain.Address{
					Street:  cStreet.String,
					City:    cCity.String,
					State:   cState.String,
					ZipCode: cZip.String,
					Country: cCountry.String,
				},
				CreatedAt: cCreated.Time,
				UpdatedAt: cUpdated.Time,
			})
		}
		sale.Customer = ref
	}

	return sale, nil
}

// loadItems fetches a sale's line items in insertion order, with the
// referenced product resolved when it still exists.
func (r *saleRepository) loadItems(ctx context.Context, sale *domain.Sale) error {
	query := `
		SELECT i.product_id, i.quantity,
		       p.id, p.owner_id, p.name, p.description, p.quantity, p.price, p.created_at, p.updated_at
		FROM sale_items i
		LEFT JOIN products p ON p.id = i.product_id
		WHERE i.sale_id = $1
		ORDER BY i.position ASC
	`

	rows, err := r.db.QueryContext(ctx, query, sale.ID)
	if err != nil {
		return fmt.Errorf("failed to load sale items: %w", err)
	}
	defer rows.Close()

	items := []domain.SaleItem{}
	for rows.Next() {
		var (
			item  domain.SaleItem
			pID   uuid.NullUUID
			pOwn  uuid.NullUUID
			pName sql.NullString
			pDesc sql.NullString
			pQty  sql.NullInt64
			pPr   sql.NullFloat64
			pCr   sql.NullTime
			pUp   sql.NullTime
		)

		err := rows.Scan(
			&item.ProductID,
			&item.Quantity,
			&pID,
			&pOwn,
			&pName,
			&pDesc,
			&pQty,
			&pPr,
			&pCr,
			&pUp,
		)
		if err != nil {
			return fmt.Errorf("failed to scan sale item: %w", err)
		}

		if pID.Valid {
			item.Product = &domain.Product{
				ID:          pID.UUID,
				OwnerID:     pOwn.UUID,
				Name:        pName.String,
				Description: pDesc.String,
				Quantity:    int(pQty.Int64),
				Price:       pPr.Float64,
				CreatedAt:   pCr.Time,
				UpdatedAt:   pUp.Time,
			}
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return fmt.Errorf("error iterating sale items: %w", err)
	}

	sale.Items = items
	return nil
}

func (r *saleRepository) insertItems(ctx context.Context, sale *domain.Sale) error {
	query := `
		INSERT INTO sale_items (sale_id, position, product_id, quantity)
		VALUES ($1, $2, $3, $4)
	`

	for i, item := range sale.Items {
		if _, err := r.db.ExecContext(ctx, query, sale.ID, i, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("failed to insert sale item: %w", err)
		}
	}

	return nil
}

func customerID(sale *domain.Sale) uuid.NullUUID {
	if sale.Customer == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: sale.Customer.ID, Valid: true}
}
