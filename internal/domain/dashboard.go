package domain

// Dashboard is the owner-scoped rollup returned by the dashboard endpoint
type Dashboard struct {
	TotalCustomers    int            `json:"total_customers"`
	TotalProducts     int            `json:"total_products"`
	TotalSales        int            `json:"total_sales"`
	TotalRevenue      float64        `json:"total_revenue"`
	AverageOrderValue float64        `json:"average_order_value"`
	MonthlySales      []MonthlySales `json:"monthly_sales"`
	TopProducts       []TopProduct   `json:"top_products"`
	TopCustomers      []TopCustomer  `json:"top_customers"`
}

// MonthlySales is one bucket of the month-keyed sales series
type MonthlySales struct {
	Month       string  `json:"month"` // YYYY-MM
	TotalSales  float64 `json:"total_sales"`
	TotalOrders int     `json:"total_orders"`
}

// TopProduct is a best-selling product with its units sold
type TopProduct struct {
	Product   Product `json:"product"`
	TotalSold int     `json:"total_sold"`
}

// TopCustomer is a highest-spending customer with their total spend
type TopCustomer struct {
	Customer   Customer `json:"customer"`
	TotalSpent float64  `json:"total_spent"`
}
