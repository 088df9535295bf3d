package service

import (
	"context"
	"testing"

	"stockroom/internal/domain"

	"github.com/google/uuid"
)

type mockDashboardRepository struct {
	customers, products, sales int
	revenue                    float64
	monthly                    []domain.MonthlySales
	topProducts                []domain.TopProduct
	topCustomers               []domain.TopCustomer

	topProductLimit  int
	topCustomerLimit int
}

func (m *mockDashboardRepository) Counts(ctx context.Context, ownerID uuid.UUID) (int, int, int, error) {
	return m.customers, m.products, m.sales, nil
}

func (m *mockDashboardRepository) TotalRevenue(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	return m.revenue, nil
}

func (m *mockDashboardRepository) MonthlySales(ctx context.Context, ownerID uuid.UUID) ([]domain.MonthlySales, error) {
	return m.monthly, nil
}

func (m *mockDashboardRepository) TopProducts(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.TopProduct, error) {
	m.topProductLimit = limit
	return m.topProducts, nil
}

func (m *mockDashboardRepository) TopCustomers(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.TopCustomer, error) {
	m.topCustomerLimit = limit
	return m.topCustomers, nil
}

func TestDashboardService_AverageOrderValue(t *testing.T) {
	repo := &mockDashboardRepository{
		customers: 4,
		products:  12,
		sales:     8,
		revenue:   200.0,
		monthly:   []domain.MonthlySales{{Month: "2026-08", TotalSales: 200.0, TotalOrders: 8}},
	}
	svc := NewDashboardService(repo)

	dashboard, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if dashboard.AverageOrderValue != 25.0 {
		t.Errorf("expected AOV 25.0, got %f", dashboard.AverageOrderValue)
	}
	if dashboard.TotalCustomers != 4 || dashboard.TotalProducts != 12 || dashboard.TotalSales != 8 {
		t.Errorf("counts not carried: %+v", dashboard)
	}
	if dashboard.TotalRevenue != 200.0 {
		t.Errorf("revenue not carried: %f", dashboard.TotalRevenue)
	}
	if len(dashboard.MonthlySales) != 1 || dashboard.MonthlySales[0].Month != "2026-08" {
		t.Errorf("monthly buckets not carried: %+v", dashboard.MonthlySales)
	}
}

func TestDashboardService_ZeroSales(t *testing.T) {
	svc := NewDashboardService(&mockDashboardRepository{revenue: 0})

	dashboard, err := svc.Get(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	// No division by zero: an empty account reports a zero average.
	if dashboard.AverageOrderValue != 0 {
		t.Errorf("expected AOV 0 with no sales, got %f", dashboard.AverageOrderValue)
	}
}

func TestDashboardService_TopListsCappedAtThree(t *testing.T) {
	repo := &mockDashboardRepository{sales: 1, revenue: 10}
	svc := NewDashboardService(repo)

	if _, err := svc.Get(context.Background(), uuid.New()); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	if repo.topProductLimit != 3 || repo.topCustomerLimit != 3 {
		t.Errorf("expected top lists limited to 3, got products=%d customers=%d",
			repo.topProductLimit, repo.topCustomerLimit)
	}
}
