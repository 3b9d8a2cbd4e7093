package handlers

import (
	"github.com/gin-gonic/gin"

	"leafbook/internal/domain/catalogs/farmer"
	"leafbook/internal/infrastructure/http/v1/dto"
)

// FarmerHandler serves the farmer catalog.
type FarmerHandler struct {
	BaseHandler
	service *farmer.Service
}

// NewFarmerHandler creates a new farmer handler.
func NewFarmerHandler(service *farmer.Service) *FarmerHandler {
	return &FarmerHandler{service: service}
}

// Create registers a new farmer.
func (h *FarmerHandler) Create(c *gin.Context) {
	var req dto.FarmerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	f := req.ToModel()
	if err := h.service.Create(c.Request.Context(), f); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, f.ID)
}

// Get retrieves a farmer.
func (h *FarmerHandler) Get(c *gin.Context) {
	farmerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	f, err := h.service.GetByID(c.Request.Context(), farmerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, f)
}

// Update edits a farmer's profile.
func (h *FarmerHandler) Update(c *gin.Context) {
	farmerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.FarmerRequest
	if !h.BindJSON(c, &req) {
		return
	}

	f, err := h.service.GetByID(c.Request.Context(), farmerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(f)
	if err := h.service.Update(c.Request.Context(), f); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, f)
}

// AssessEfficacy records a field assessment score.
func (h *FarmerHandler) AssessEfficacy(c *gin.Context) {
	farmerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.EfficacyRequest
	if !h.BindJSON(c, &req) {
		return
	}

	f, err := h.service.AssessEfficacy(c.Request.Context(), farmerID, req.Score, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, f)
}

// Deactivate soft-deletes a farmer.
func (h *FarmerHandler) Deactivate(c *gin.Context) {
	farmerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), farmerID); err != nil {
		h.Error(c, err)
		return
	}

	h.NoContent(c)
}

// Reactivate clears the soft-delete flag.
func (h *FarmerHandler) Reactivate(c *gin.Context) {
	farmerID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Reactivate(c.Request.Context(), farmerID); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, dto.SuccessResponse{Success: true})
}

// List retrieves farmers with filtering.
func (h *FarmerHandler) List(c *gin.Context) {
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
