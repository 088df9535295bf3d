// Package report renders owner data to the HTML tables attached to
// emailed reports.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"stockroom/internal/domain"
)

var salesTemplate = template.Must(template.New("sales").Parse(`<h2>Sales Report</h2>
<p>Generated on: {{.GeneratedAt}}</p>
<table border="1" cellspacing="0" cellpadding="5">
<tr><th>Date</th><th>Product Name</th><th>Quantity</th><th>Payment Method</th><th>Total Price</th></tr>
{{range .Rows}}<tr><td>{{.Date}}</td><td>{{.ProductName}}</td><td>{{.Quantity}}</td><td>{{.PaymentMethod}}</td><td>{{.TotalPrice}}</td></tr>
{{end}}</table>`))

var productsTemplate = template.Must(template.New("products").Parse(`<h2>Product Report</h2>
<p>Generated on: {{.GeneratedAt}}</p>
<table border="1" cellspacing="0" cellpadding="5">
<tr><th>Name</th><th>Description</th><th>Quantity</th><th>Price</th></tr>
{{range .Rows}}<tr><td>{{.Name}}</td><td>{{.Description}}</td><td>{{.Quantity}}</td><td>{{.Price}}</td></tr>
{{end}}</table>`))

type salesRow struct {
	Date          string
	ProductName   string
	Quantity      int
	PaymentMethod domain.PaymentMethod
	TotalPrice    string
}

type productRow struct {
	Name        string
	Description string
	Quantity    int
	Price       string
}

// Sales renders one table row per sale line item, in sale order
func Sales(sales []*domain.Sale, generatedAt time.Time) (string, error) {
	rows := []salesRow{}
	for _, sale := range sales {
		for _, item := range sale.Items {
			name := "Unknown Product"
			if item.Product != nil {
				name = item.Product.Name
			}
			rows = append(rows, salesRow{
				Date:          sale.Date.Format("2006-01-02"),
				ProductName:   name,
				Quantity:      item.Quantity,
				PaymentMethod: sale.PaymentMethod,
				TotalPrice:    fmt.Sprintf("%.2f", sale.TotalPrice),
			})
		}
	}

	var buf bytes.Buffer
	err := salesTemplate.Execute(&buf, map[string]interface{}{
		"GeneratedAt": generatedAt.Format(time.RFC1123),
		"Rows":        rows,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render sales report: %w", err)
	}
	return buf.String(), nil
}

// Products renders one table row per catalog entry
func Products(products []*domain.Product, generatedAt time.Time) (string, error) {
	rows := make([]productRow, 0, len(products))
	for _, product := range products {
		rows = append(rows, productRow{
			Name:        product.Name,
			Description: product.Description,
			Quantity:    product.Quantity,
			Price:       fmt.Sprintf("%.2f", product.Price),
		})
	}

	var buf bytes.Buffer
	err := productsTemplate.Execute(&buf, map[string]interface{}{
		"GeneratedAt": generatedAt.Format(time.RFC1123),
		"Rows":        rows,
	})
	if err != nil {
		return "", fmt.Errorf("failed to render product report: %w", err)
	}
	return buf.String(), nil
}
