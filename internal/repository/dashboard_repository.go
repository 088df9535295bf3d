package repository

import (
	"context"
	"fmt"

	"stockroom/internal/domain"

	"github.com/google/uuid"
)

// DashboardRepository runs the owner-scoped aggregation queries behind
// the dashboard endpoint. All queries are read-only.
type DashboardRepository interface {
	Counts(ctx context.Context, ownerID uuid.UUID) (customers, products, sales int, err error)
	TotalRevenue(ctx context.Context, ownerID uuid.UUID) (float64, error)
	MonthlySales(ctx context.Context, ownerID uuid.UUID) ([]domain.MonthlySales, error)
	TopProducts(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.TopProduct, error)
	TopCustomers(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.TopCustomer, error)
}

type dashboardRepository struct {
	db DBTX
}

// NewDashboardRepository creates a new instance of DashboardRepository
func NewDashboardRepository(db DBTX) DashboardRepository {
	return &dashboardRepository{db: db}
}

// Counts returns the owner's customer, product and sale record counts
func (r *dashboardRepository) Counts(ctx context.Context, ownerID uuid.UUID) (int, int, int, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM customers WHERE owner_id = $1),
			(SELECT COUNT(*) FROM products WHERE owner_id = $1),
			(SELECT COUNT(*) FROM sales WHERE owner_id = $1)
	`

	var customers, products, sales int
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&customers, &products, &sales); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count dashboard records: %w", err)
	}

	return customers, products, sales, nil
}

// TotalRevenue sums total_price across the owner's sales
func (r *dashboardRepository) TotalRevenue(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	query := `SELECT COALESCE(SUM(total_price), 0) FROM sales WHERE owner_id = $1`

	var revenue float64
	if err := r.db.QueryRowContext(ctx, query, ownerID).Scan(&revenue); err != nil {
		return 0, fmt.Errorf("failed to sum revenue: %w", err)
	}

	return revenue, nil
}

// MonthlySales buckets the owner's sales by calendar month
func (r *dashboardRepository) MonthlySales(ctx context.Context, ownerID uuid.UUID) ([]domain.MonthlySales, error) {
	query := `
		SELECT to_char(date, 'YYYY-MM') AS month, SUM(total_price), COUNT(*)
		FROM sales
		WHERE owner_id = $1
		GROUP BY month
		ORDER BY month ASC
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly sales: %w", err)
	}
	defer rows.Close()

	buckets := []domain.MonthlySales{}
	for rows.Next() {
		var bucket domain.MonthlySales
		if err := rows.Scan(&bucket.Month, &bucket.TotalSales, &bucket.TotalOrders); err != nil {
			return nil, fmt.Errorf("failed to scan monthly bucket: %w", err)
		}
		buckets = append(buckets, bucket)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating monthly sales: %w", err)
	}

	return buckets, nil
}

// TopProducts returns the owner's best-selling products by units sold
func (r *dashboardRepository) TopProducts(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.TopProduct, error) {
	query := `
		SELECT p.id, p.owner_id, p.name, p.description, p.quantity, p.price, p.created_at, p.updated_at,
		       SUM(i.quantity) AS total_sold
		FROM sale_items i
		JOIN sales s ON s.id = i.sale_id
		JOIN products p ON p.id = i.product_id
		WHERE s.owner_id = $1
		GROUP BY p.id
		ORDER BY total_sold DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top products: %w", err)
	}
	defer rows.Close()

	top := []domain.TopProduct{}
	for rows.Next() {
		var entry domain.TopProduct
		err := rows.Scan(
			&entry.Product.ID,
			&entry.Product.OwnerID,
			&entry.Product.Name,
			&entry.Product.Description,
			&entry.Product.Quantity,
			&entry.Product.Price,
			&entry.Product.CreatedAt,
			&entry.Product.UpdatedAt,
			&entry.TotalSold,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top product: %w", err)
		}
		top = append(top, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top products: %w", err)
	}

	return top, nil
}

// TopCustomers returns the owner's highest-spending customers
func (r *dashboardRepository) TopCustomers(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.TopCustomer, error) {
	query := `
		SELECT c.id, c.owner_id, c.name, c.email, c.mobile_number, c.street, c.city, c.state, c.zip_code, c.country, c.created_at, c.updated_at,
		       SUM(s.total_price) AS total_spent
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.owner_id = $1
		GROUP BY c.id
		ORDER BY total_spent DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top customers: %w", err)
	}
	defer rows.Close()

	top := []domain.TopCustomer{}
	for rows.Next() {
		var entry domain.TopCustomer
		err := rows.Scan(
			&entry.Customer.ID,
			&entry.Customer.OwnerID,
			&entry.Customer.Name,
			&entry.Customer.Email,
			&entry.Customer.MobileNumber,
			&entry.Customer.Address.Street,
			&entry.Customer.Address.City,
			&entry.Customer.Address.State,
			&entry.Customer.Address.ZipCode,
			&entry.Customer.Address.Country,
			&entry.Customer.CreatedAt,
			&entry.Customer.UpdatedAt,
			&entry.TotalSpent,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan top customer: %w", err)
		}
		top = append(top, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating top customers: %w", err)
	}

	return top, nil
}
