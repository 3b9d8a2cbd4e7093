package handlers

import (
	"github.com/gin-gonic/gin"

	"leafbook/internal/core/apperror"
	"leafbook/internal/domain/reports"
	"leafbook/internal/infrastructure/http/v1/dto"
)

// ReportHandler serves the aggregate reports.
type ReportHandler struct {
	BaseHandler
	service *reports.Service
}

// NewReportHandler creates a new report handler.
func NewReportHandler(service *reports.Service) *ReportHandler {
	return &ReportHandler{service: service}
}

type periodQuery struct {
	From string `form:"from"`
	To   string `form:"to"`
}

func (h *ReportHandler) bindPeriod(c *gin.Context) (reports.DateRange, bool) {
	var query periodQuery
	if !h.BindQuery(c, &query) {
		return reports.DateRange{}, false
	}

	from, err := dto.ParseDatePtr(query.From)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid from date").
			WithDetail("field", "from").WithCause(err))
		return reports.DateRange{}, false
	}
	to, err := dto.ParseDatePtr(query.To)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid to date").
			WithDetail("field", "to").WithCause(err))
		return reports.DateRange{}, false
	}

	return reports.DateRange{From: from, To: to}, true
}

// Dashboard returns the front-page summary.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	d, err := h.service.Dashboard(c.Request.Context(), period)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, d)
}

// Purchases returns purchase totals grouped by date, farmer or village.
func (h *ReportHandler) Purchases(c *gin.Context) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	groupBy := reports.GroupBy(c.DefaultQuery("groupBy", string(reports.GroupByDate)))

	items, err := h.service.PurchasesGrouped(c.Request.Context(), groupBy, period)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"groupBy": groupBy, "items": items})
}

// FarmerBalances returns per-farmer outstanding amounts.
func (h *ReportHandler) FarmerBalances(c *gin.Context) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	items, err := h.service.FarmerBalances(c.Request.Context(), period)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}

// ProcessYields returns loss figures for processes with recorded output.
func (h *ReportHandler) ProcessYields(c *gin.Context) {
	period, ok := h.bindPeriod(c)
	if !ok {
		return
	}

	items, err := h.service.ProcessYields(c.Request.Context(), period)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, gin.H{"items": items})
}
