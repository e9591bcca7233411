package patient

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/patient-registry/internal/model"
	"github.com/jwalitptl/patient-registry/pkg/errors"
	"github.com/jwalitptl/patient-registry/pkg/httputil"
)

// Service is the part of the hospital service the patient routes drive.
type Service interface {
	Admit(ctx context.Context, id int, name, admissionDate, treatmentDetails string) (*model.Record, error)
	UndoLastAdmission(ctx context.Context) (*model.Record, error)
	ProcessEmergency(ctx context.Context) (*model.Record, error)
	PeekEmergency(ctx context.Context) (*model.Record, error)
	FindPatient(ctx context.Context, id int) (*model.Record, error)
	DischargePatient(ctx context.Context, id int) (*model.Record, error)
	ListPatients(ctx context.Context) []*model.Record
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.AdmitPatient)
		patients.GET("", h.ListPatients)
		patients.GET("/:id", h.GetPatient)
		patients.DELETE("/:id", h.DischargePatient)
	}

	r.POST("/admissions/undo", h.UndoLastAdmission)

	emergency := r.Group("/emergency")
	{
		emergency.GET("/next", h.PeekEmergency)
		emergency.POST("/next", h.ProcessEmergency)
	}
}

func (h *Handler) AdmitPatient(c *gin.Context) {
	var req model.AdmitPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithBindError(c, err)
		return
	}

	record, err := h.service.Admit(c.Request.Context(), *req.ID, req.Name, req.AdmissionDate, req.TreatmentDetails)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithStatus(c, http.StatusCreated, record)
}

func (h *Handler) ListPatients(c *gin.Context) {
	httputil.RespondWithSuccess(c, h.service.ListPatients(c.Request.Context()))
}

func (h *Handler) GetPatient(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	record, err := h.service.FindPatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) DischargePatient(c *gin.Context) {
	id, ok := patientID(c)
	if !ok {
		return
	}

	record, err := h.service.DischargePatient(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) UndoLastAdmission(c *gin.Context) {
	record, err := h.service.UndoLastAdmission(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) PeekEmergency(c *gin.Context) {
	record, err := h.service.PeekEmergency(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

func (h *Handler) ProcessEmergency(c *gin.Context) {
	record, err := h.service.ProcessEmergency(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, record)
}

func patientID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, errors.NewBadRequest("invalid patient ID", err))
		return 0, false
	}
	return id, true
}
