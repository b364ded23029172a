package export

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/handler"
	"github.com/jwalitptl/patient-api/internal/middleware"
	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/service/export"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	group := r.Group("/export")
	group.Use(auth.RequireRoles(model.RoleAdmin, model.RoleDoctor))
	{
		group.GET("/patients", h.ExportPatients)
		group.GET("/records", h.ExportRecords)
		group.GET("/patients/:id/records", h.ExportPatientRecords)
	}
}

func (h *Handler) ExportPatients(c *gin.Context) {
	setCSVHeaders(c, "patients")

	if err := h.svc.WritePatientsCSV(c.Request.Context(), c.Writer); err != nil {
		handler.RespondError(c, err)
		return
	}
}

func (h *Handler) ExportRecords(c *gin.Context) {
	setCSVHeaders(c, "medical_records")

	if err := h.svc.WriteRecordsCSV(c.Request.Context(), c.Writer); err != nil {
		handler.RespondError(c, err)
		return
	}
}

func (h *Handler) ExportPatientRecords(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return
	}

	setCSVHeaders(c, fmt.Sprintf("patient_%s_records", id))

	if err := h.svc.WritePatientRecordsCSV(c.Request.Context(), id, c.Writer); err != nil {
		handler.RespondError(c, err)
		return
	}
}

func setCSVHeaders(c *gin.Context, name string) {
	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)
}
