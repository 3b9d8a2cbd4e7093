package handlers

import (
	"github.com/gin-gonic/gin"

	"leafbook/internal/domain/ewaybill"
)

// EwayBillHandler serves e-way bill generation and history.
type EwayBillHandler struct {
	BaseHandler
	service *ewaybill.Service
}

// NewEwayBillHandler creates a new e-way bill handler.
func NewEwayBillHandler(service *ewaybill.Service) *EwayBillHandler {
	return &EwayBillHandler{service: service}
}

// Generate requests an e-way bill from the portal for a lot shipment.
func (h *EwayBillHandler) Generate(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req ewaybill.Request
	if !h.BindJSON(c, &req) {
		return
	}

	b, err := h.service.Generate(c.Request.Context(), lotID, &req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, b)
}

// ListByLot returns all bill attempts for a lot, newest first.
func (h *EwayBillHandler) ListByLot(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	items, err := h.service.ListByLot(c.Request.Context(), lotID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"lotId": lotID, "bills": items})
}

// Get retrieves a stored bill.
func (h *EwayBillHandler) Get(c *gin.Context) {
	billID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), billID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, b)
}
