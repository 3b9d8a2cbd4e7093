package handlers

import (
	"github.com/gin-gonic/gin"

	"leafbook/internal/domain/documents/lot"
	"leafbook/internal/infrastructure/http/v1/dto"
)

// LotHandler serves lots and their purchase allocations.
type LotHandler struct {
	BaseHandler
	service *lot.Service
}

// NewLotHandler creates a new lot handler.
func NewLotHandler(service *lot.Service) *LotHandler {
	return &LotHandler{service: service}
}

// Create opens a new lot.
func (h *LotHandler) Create(c *gin.Context) {
	var req dto.LotRequest
	if !h.BindJSON(c, &req) {
		return
	}

	l, err := req.ToModel()
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Create(c.Request.Context(), l); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, l.ID)
}

// Get retrieves a lot.
func (h *LotHandler) Get(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), lotID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, l)
}

// Update edits a lot's date and remarks.
func (h *LotHandler) Update(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.LotRequest
	if !h.BindJSON(c, &req) {
		return
	}

	l, err := h.service.GetByID(c.Request.Context(), lotID)
	if err != nil {
		h.Error(c, err)
		return
	}

	if err := req.Apply(l); err != nil {
		h.Error(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), l); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, l)
}

// Delete removes a lot.
func (h *LotHandler) Delete(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), lotID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// List retrieves lots with filtering.
func (h *LotHandler) List(c *gin.Context) {
	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}

// Composition returns the lot's allocation rows.
func (h *LotHandler) Composition(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	items, err := h.service.Composition(c.Request.Context(), lotID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"lotId": lotID, "allocations": items})
}

// Allocate assigns a slice of a purchase to the lot.
func (h *LotHandler) Allocate(c *gin.Context) {
	lotID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AllocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a, err := h.service.Allocate(c.Request.Context(), lotID, req.PurchaseID, req.UsedWeight)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, a)
}

// UpdateAllocation changes an allocation's weight.
func (h *LotHandler) UpdateAllocation(c *gin.Context) {
	allocationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.AllocationUpdateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	a, err := h.service.UpdateAllocation(c.Request.Context(), allocationID, req.UsedWeight)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, a)
}

// Deallocate removes an allocation.
func (h *LotHandler) Deallocate(c *gin.Context) {
	allocationID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deallocate(c.Request.Context(), allocationID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}
