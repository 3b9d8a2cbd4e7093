package handlers

import (
	"github.com/gin-gonic/gin"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain/documents/process"
	"leafbook/internal/infrastructure/http/v1/dto"
)

// ProcessHandler serves the process lifecycle.
type ProcessHandler struct {
	BaseHandler
	service *process.Service
}

// NewProcessHandler creates a new process handler.
func NewProcessHandler(service *process.Service) *ProcessHandler {
	return &ProcessHandler{service: service}
}

// Start begins processing a lot.
func (h *ProcessHandler) Start(c *gin.Context) {
	var req dto.ProcessStartRequest
	if !h.BindJSON(c, &req) {
		return
	}

	startDate, err := dto.ParseDate(req.StartDate)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid start date").
			WithDetail("field", "startDate").WithCause(err))
		return
	}

	p, err := h.service.Start(c.Request.Context(), req.LotID, startDate, req.Remarks)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, p.ID)
}

// Get retrieves a process.
func (h *ProcessHandler) Get(c *gin.Context) {
	processID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	p, err := h.service.GetByID(c.Request.Context(), processID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// Transition moves a process to a new status.
func (h *ProcessHandler) Transition(c *gin.Context) {
	processID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.TransitionRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.Transition(c.Request.Context(), processID, req.Status, req.Notes)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// UpdateWastage records wastage weights.
func (h *ProcessHandler) UpdateWastage(c *gin.Context) {
	processID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	var req dto.WastageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	p, err := h.service.UpdateWastage(c.Request.Context(), processID, req.KadiMatiWeight, req.DhasWeight)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, p)
}

// History returns the status change log, oldest first.
func (h *ProcessHandler) History(c *gin.Context) {
	processID, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	items, err := h.service.History(c.Request.Context(), processID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"processId": processID, "history": items})
}

// ListStatuses returns the status dictionary.
func (h *ProcessHandler) ListStatuses(c *gin.Context) {
	items, err := h.service.ListStatuses(c.Request.Context())
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, items)
}

// List retrieves processes with filtering.
func (h *ProcessHandler) List(c *gin.Context) {
	var query struct {
		dto.ListQuery
		Status string `form:"status"`
		LotID  string `form:"lotId"`
	}
	if !h.BindQuery(c, &query) {
		return
	}

	common, err := query.ToFilter()
	if err != nil {
		h.Error(c, err)
		return
	}

	filter := process.ListFilter{ListFilter: common, StatusCode: query.Status}
	if query.LotID != "" {
		lotID, err := id.Parse(query.LotID)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid lotId").WithCause(err))
			return
		}
		filter.LotID = &lotID
	}

	result, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, result)
}
