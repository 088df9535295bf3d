package transport

import (
	"net/http"

	"stockroom/internal/domain"
	"stockroom/internal/middleware"
	"stockroom/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleItemRequest is one requested line item
type SaleItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gt=0"`
}

// CreateSaleRequest represents the record-sale payload. The customer
// reference accepts either a bare id or an expanded customer object.
type CreateSaleRequest struct {
	Items         []SaleItemRequest   `json:"items" validate:"required,min=1,dive"`
	Customer      *domain.CustomerRef `json:"customer_id,omitempty"`
	PaymentMethod string              `json:"payment_method" validate:"required"`
	TotalPrice    float64             `json:"total_price" validate:"gte=0"`
}

// UpdateSaleRequest replaces a sale's line items; payment method and
// total price are only overwritten when present.
type UpdateSaleRequest struct {
	Items         []SaleItemRequest   `json:"items" validate:"required,min=1,dive"`
	Customer      *domain.CustomerRef `json:"customer_id,omitempty"`
	PaymentMethod *string             `json:"payment_method,omitempty"`
	TotalPrice    *float64            `json:"total_price,omitempty"`
}

// SaleHandler handles HTTP requests for the sale workflow
type SaleHandler struct {
	saleService   service.SaleService
	reportService service.ReportService
	logger        *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService service.SaleService, reportService service.ReportService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		saleService:   saleService,
		reportService: reportService,
		logger:        logger,
	}
}

// RegisterRoutes registers all sale routes behind auth
func (h *SaleHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Get("/", h.List)
		r.Post("/send-report", h.SendReport)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// Create records a new sale and deducts stock
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(w, r)
	if !ok {
		return
	}

	var req CreateSaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sale validation failed", zap.Error(err))
		decodeFailure(w, err)
		return
	}

	sale, err := h.saleService.Create(r.Context(), ownerID, service.CreateSaleInput{
		Items:         toLineInputs(req.Items),
		Customer:      req.Customer,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		TotalPrice:    req.TotalPrice,
	})
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.Int("line_items", len(sale.Items)),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, sale)
}

// List returns the owner's sales with resolved references
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(w, r)
	if !ok {
		return
	}

	sales, err := h.saleService.List(r.Context(), ownerID)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"sales": sales})
}

// Get returns one sale with resolved references
func (h *SaleHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	sale, err := h.saleService.GetByID(r.Context(), ownerID, id)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sale)
}

// Update replaces a sale's line items, restoring and re-deducting stock
func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req UpdateSaleRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sale validation failed", zap.Error(err))
		decodeFailure(w, err)
		return
	}

	input := service.UpdateSaleInput{
		Items:      toLineInputs(req.Items),
		Customer:   req.Customer,
		TotalPrice: req.TotalPrice,
	}
	if req.PaymentMethod != nil {
		method := domain.PaymentMethod(*req.PaymentMethod)
		input.PaymentMethod = &method
	}

	sale, err := h.saleService.Update(r.Context(), ownerID, id, input)
	if err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sale)
}

// Delete removes a sale
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.saleService.Delete(r.Context(), ownerID, id); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "sale deleted"})
}

// SendReport emails the owner's sales as an HTML report
func (h *SaleHandler) SendReport(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := ownerFromContext(w, r)
	if !ok {
		return
	}

	var req SendReportRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Report request validation failed", zap.Error(err))
		decodeFailure(w, err)
		return
	}

	if err := h.reportService.SendSalesReport(r.Context(), ownerID, req.Email, req.Subject, req.Message); err != nil {
		respondServiceError(w, h.logger, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "sales report sent"})
}

func toLineInputs(items []SaleItemRequest) []service.SaleLineInput {
	out := make([]service.SaleLineInput, len(items))
	for i, item := range items {
		out[i] = service.SaleLineInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return out
}
