package service

import (
	"context"
	"fmt"

	"stockroom/internal/domain"
	"stockroom/internal/repository"

	"github.com/google/uuid"
)

// topEntryLimit caps the best-seller and best-customer lists
const topEntryLimit = 3

// DashboardService assembles the owner-scoped rollup
type DashboardService interface {
	Get(ctx context.Context, ownerID uuid.UUID) (*domain.Dashboard, error)
}

type dashboardService struct {
	dashboards repository.DashboardRepository
}

// NewDashboardService creates a new instance of DashboardService
func NewDashboardService(dashboards repository.DashboardRepository) DashboardService {
	return &dashboardService{dashboards: dashboards}
}

// Get runs every aggregation for the owner and derives the average order
// value from revenue and sale count.
func (s *dashboardService) Get(ctx context.Context, ownerID uuid.UUID) (*domain.Dashboard, error) {
	customers, products, sales, err := s.dashboards.Counts(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard counts: %w", err)
	}

	revenue, err := s.dashboards.TotalRevenue(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load total revenue: %w", err)
	}

	monthly, err := s.dashboards.MonthlySales(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly sales: %w", err)
	}

	topProducts, err := s.dashboards.TopProducts(ctx, ownerID, topEntryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top products: %w", err)
	}

	topCustomers, err := s.dashboards.TopCustomers(ctx, ownerID, topEntryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load top customers: %w", err)
	}

	averageOrderValue := 0.0
	if sales > 0 {
		averageOrderValue = revenue / float64(sales)
	}

	return &domain.Dashboard{
		TotalCustomers:    customers,
		TotalProducts:     products,
		TotalSales:        sales,
		TotalRevenue:      revenue,
		AverageOrderValue: averageOrderValue,
		MonthlySales:      monthly,
		TopProducts:       topProducts,
		TopCustomers:      topCustomers,
	}, nil
}
