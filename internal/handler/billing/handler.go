package billing

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/patient-registry/internal/billing"
	"github.com/jwalitptl/patient-registry/internal/model"
	"github.com/jwalitptl/patient-registry/pkg/errors"
	"github.com/jwalitptl/patient-registry/pkg/httputil"
)

type Service interface {
	AddBillingTerm(ctx context.Context, coefficient, exponent int) error
	CalculateBill(ctx context.Context, days int) int
	BillingTerms(ctx context.Context) []billing.Term
	ResetBilling(ctx context.Context)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	bills := r.Group("/billing")
	{
		bills.GET("/terms", h.ListTerms)
		bills.POST("/terms", h.AddTerm)
		bills.DELETE("/terms", h.ResetTerms)
		bills.GET("/total", h.CalculateBill)
	}
}

func (h *Handler) ListTerms(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.service.BillingTerms(c.Request.Context()))
}

func (h *Handler) AddTerm(c *gin.Context) {
	var req model.BillingTermRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	if err := h.service.AddBillingTerm(c.Request.Context(), req.Coefficient, *req.Exponent); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithStatus(c, http.StatusCreated, h.service.BillingTerms(c.Request.Context()))
}

func (h *Handler) ResetTerms(c *gin.Context) {
	h.service.ResetBilling(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// CalculateBill evaluates the billing polynomial at ?days=N.
func (h *Handler) CalculateBill(c *gin.Context) {
	days, err := strconv.Atoi(c.Query("days"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewBadRequest("days must be an integer", err))
		return
	}

	httputil.RespondWithSuccess(c, model.BillResponse{
		Days:  days,
		Total: h.service.CalculateBill(c.Request.Context(), days),
	})
}
