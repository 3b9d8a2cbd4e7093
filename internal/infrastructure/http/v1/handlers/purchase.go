package handlers

import (
	"github.com/gin-gonic/gin"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain/documents/purchase"
	"leafbook/internal/infrastructure/http/v1/dto"
)

// PurchaseHandler serves purchase documents.
type PurchaseHandler struct {
	BaseHandler
	service *purchase.Service
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(service *purchase.Service) *PurchaseHandler {
	return &PurchaseHandler{service: service}
}

// Create records a new purchase.
func (h *PurchaseHandler) Create(c *gin.Context) {
	var req dto.PurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := req.ToModel()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), p); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, p.ID)
}

// Get retrieves a purchase.
func (h *PurchaseHandler) Get(c *gin.Context) {
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Update edits a purchase.
func (h *PurchaseHandler) Update(c *gin.Context) {
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.PurchaseRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), purchaseID)
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

// Delete removes a purchase.
func (h *PurchaseHandler) Delete(c *gin.Context) {
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), purchaseID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// AvailableWeight reports the purchase's unallocated remainder.
func (h *PurchaseHandler) AvailableWeight(c *gin.Context) {
	purchaseID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, summary, err := h.service.AvailableWeight(c.Request.Context(), purchaseID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{
		"purchaseId": p.ID,
		"weight":     summary,
	})
}

// List retrieves purchases with filtering.
func (h *PurchaseHandler) List(c *gin.Context) {
	var query struct {
		dto.ListQuery
		FarmerID string `form:"farmerId"`
		Village  string `form:"village"`
	}
	if !h.BindQuery(c, &query) {
		return
	}

	common, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	filter := purchase.ListFilter{ListFilter: common, Village: query.Village}
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
