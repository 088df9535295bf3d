package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stockroom/internal/mail"
	"stockroom/internal/report"
	"stockroom/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrNothingToReport = errors.New("no records to report")
)

// ReportService renders an owner's data to an HTML report and hands it
// to the outbound mail transport.
type ReportService interface {
	SendSalesReport(ctx context.Context, ownerID uuid.UUID, recipient, subject, message string) error
	SendProductReport(ctx context.Context, ownerID uuid.UUID, recipient, subject, message string) error
}

type reportService struct {
	sales    repository.SaleRepository
	products repository.ProductRepository
	users    repository.UserRepository
	sender   mail.Sender
}

// NewReportService creates a new instance of ReportService
func NewReportService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	sender mail.Sender,
) ReportService {
	return &reportService{
		sales:    sales,
		products: products,
		users:    users,
		sender:   sender,
	}
}

// SendSalesReport emails an HTML table of the owner's sales
func (s *reportService) SendSalesReport(ctx context.Context, ownerID uuid.UUID, recipient, subject, message string) error {
	sales, err := s.sales.List(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load sales for report: %w", err)
	}
	if len(sales) == 0 {
		return ErrNothingToReport
	}

	html, err := report.Sales(sales, time.Now())
	if err != nil {
		return err
	}

	return s.send(ctx, ownerID, recipient, subject, message, html)
}

// SendProductReport emails an HTML table of the owner's catalog
func (s *reportService) SendProductReport(ctx context.Context, ownerID uuid.UUID, recipient, subject, message string) error {
	products, err := s.products.ListAll(ctx, ownerID)
	if err != nil {
		return fmt.Errorf("failed to load products for report: %w", err)
	}
	if len(products) == 0 {
		return ErrNothingToReport
	}

	html, err := report.Products(products, time.Now())
	if err != nil {
		return err
	}

	return s.send(ctx, ownerID, recipient, subject, message, html)
}

// send addresses the report from the owner's own account email
func (s *reportService) send(ctx context.Context, ownerID uuid.UUID, recipient, subject, message, html string) error {
	owner, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return err
	}

	msg := mail.Message{
		From:    owner.Email,
		To:      recipient,
		Subject: subject,
		Text:    message,
		HTML:    html,
	}

	if err := s.sender.Send(msg); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}
	return nil
}
