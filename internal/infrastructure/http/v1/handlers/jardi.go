package handlers

import (
	"github.com/gin-gonic/gin"

	"leafbook/internal/domain/documents/jardi"
	"leafbook/internal/infrastructure/http/v1/dto"
)

// JardiHandler serves jardi output records and yield figures.
type JardiHandler struct {
	BaseHandler
	service *jardi.Service
}

// NewJardiHandler creates a new jardi output handler.
func NewJardiHandler(service *jardi.Service) *JardiHandler {
	return &JardiHandler{service: service}
}

// Record stores the output of a completed process.
func (h *JardiHandler) Record(c *gin.Context) {
	var req dto.JardiOutputRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o := req.ToModel()
	if err := h.service.Record(c.Request.Context(), o); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, o.ID)
}

// Get retrieves an output record.
func (h *JardiHandler) Get(c *gin.Context) {
	outputID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), outputID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, o)
}

// Update edits an output record.
func (h *JardiHandler) Update(c *gin.Context) {
	outputID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.JardiOutputRequest
	if !h.BindJSON(c, &req) {
		return
	}

	o, err := h.service.GetByID(c.Request.Context(), outputID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.Apply(o)
	if err := h.service.Update(c.Request.Context(), o); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, o)
}

// List retrieves output records with filtering.
func (h *JardiHandler) List(c *gin.Context) {
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

// GetByProcess retrieves the output of a process.
func (h *JardiHandler) GetByProcess(c *gin.Context) {
	processID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	o, err := h.service.GetByProcessID(c.Request.Context(), processID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, o)
}

// Yield returns the loss figures for a process.
func (h *JardiHandler) Yield(c *gin.Context) {
	processID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	y, err := h.service.YieldForProcess(c.Request.Context(), processID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, y)
}
