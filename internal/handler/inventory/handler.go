package inventory

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/patient-registry/internal/model"
	"github.com/jwalitptl/patient-registry/pkg/httputil"
)

type Service interface {
	EvaluateInventory(ctx context.Context, expr string) (int, error)
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/inventory/evaluate", h.Evaluate)
}

func (h *Handler) Evaluate(c *gin.Context) {
	var req model.InventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	value, err := h.service.EvaluateInventory(c.Request.Context(), req.Expression)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, model.InventoryResponse{
		Expression: req.Expression,
		Value:      value,
	})
}
