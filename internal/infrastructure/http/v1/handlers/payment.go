package handlers

import (
	"github.com/gin-gonic/gin"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain/payments"
	"leafbook/internal/infrastructure/http/v1/dto"
)

// PaymentHandler serves the payment ledger.
type PaymentHandler struct {
	BaseHandler
	service *payments.Service
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service *payments.Service) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Record adds a ledger entry against a purchase.
func (h *PaymentHandler) Record(c *gin.Context) {
	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := req.ToModel()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Record(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, p.ID)
}

// Get retrieves a ledger entry.
func (h *PaymentHandler) Get(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Update edits a ledger entry.
func (h *PaymentHandler) Update(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), paymentID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.Apply(p); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Delete removes a ledger entry.
func (h *PaymentHandler) Delete(c *gin.Context) {
	paymentID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), paymentID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Ledger returns the payment view of one purchase.
func (h *PaymentHandler) Ledger(c *gin.Context) {
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	ledger, err := h.service.LedgerForPurchase(c.Request.Context(), purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, ledger)
}

// List retrieves ledger entries with filtering.
func (h *PaymentHandler) List(c *gin.Context) {
	var query struct {
		dto.ListQuery
		PurchaseID string `form:"purchaseId"`
		FarmerID   string `form:"farmerId"`
		Mode       string `form:"mode"`
	}
	if !h.BindQuery(c, &query) {
		return
	}

	common, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	filter := payments.ListFilter{ListFilter: common, Mode: payments.Mode(query.Mode)}
	if query.PurchaseID != "" {
		purchaseID, err := id.Parse(query.PurchaseID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid purchaseId").WithCause(err))
			return
		}
		filter.PurchaseID = &purchaseID
	}
	if query.FarmerID != "" {
		farmerID, err := id.Parse(query.FarmerID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid farmerId").WithCause(err))
			return
		}
		filter.FarmerID = &farmerID
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}
