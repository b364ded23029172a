package patient

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/patient-api/internal/handler"
	"github.com/jwalitptl/patient-api/internal/middleware"
	"github.com/jwalitptl/patient-api/internal/model"
	"github.com/jwalitptl/patient-api/internal/service/medical"
	"github.com/jwalitptl/patient-api/internal/service/patient"
)

type Handler struct {
	patients patient.PatientService
	records  medical.MedicalRecordService
}

func NewHandler(patients patient.PatientService, records medical.MedicalRecordService) *Handler {
	return &Handler{
		patients: patients,
		records:  records,
	}
}

// RegisterRoutes wires the registry routes with their role requirements.
// Runs under Authenticate; RequireRoles with no roles means any active
// authenticated user.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, auth *middleware.AuthMiddleware) {
	group := r.Group("/patients")
	{
		group.POST("", auth.RequireRoles(model.RoleAdmin, model.RoleDoctor, model.RoleNurse), h.Create)
		group.GET("", auth.RequireRoles(), h.List)
		group.GET("/:id", auth.RequireRoles(), h.Get)
		group.PUT("/:id", auth.RequireRoles(model.RoleAdmin, model.RoleDoctor, model.RoleNurse), h.Update)
		group.DELETE("/:id", auth.RequireRoles(model.RoleAdmin), h.SoftDelete)
		group.POST("/:id/restore", auth.RequireRoles(model.RoleAdmin), h.Restore)
		group.DELETE("/:id/permanent", auth.RequireRoles(model.RoleAdmin), h.HardDelete)

		group.POST("/:id/records", auth.RequireRoles(model.RoleAdmin, model.RoleDoctor), h.CreateRecord)
		group.GET("/:id/records", auth.RequireRoles(), h.ListRecords)
	}
}

func (h *Handler) Create(c *gin.Context) {
	var req model.CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request body"))
		return
	}

	actor := middleware.CurrentUser(c).Email
	created, err := h.patients.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	found, err := h.patients.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) List(c *gin.Context) {
	var filters model.PatientFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid query parameters"))
		return
	}

	list, err := h.patients.List(c.Request.Context(), &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(list))
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request body"))
		return
	}

	actor := middleware.CurrentUser(c).Email
	updated, err := h.patients.Update(c.Request.Context(), id, actor, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) SoftDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	actor := middleware.CurrentUser(c).Email
	if err := h.patients.SoftDelete(c.Request.Context(), id, actor); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("patient deleted"))
}

func (h *Handler) Restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	actor := middleware.CurrentUser(c).Email
	if err := h.patients.Restore(c.Request.Context(), id, actor); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("patient restored"))
}

func (h *Handler) HardDelete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	actor := middleware.CurrentUser(c).Email
	if err := h.patients.HardDelete(c.Request.Context(), id, actor); err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("patient permanently deleted"))
}

func (h *Handler) CreateRecord(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.CreateMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid request body"))
		return
	}

	actor := middleware.CurrentUser(c).Email
	record, err := h.records.Create(c.Request.Context(), id, actor, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(record))
}

func (h *Handler) ListRecords(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	records, err := h.records.ListForPatient(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient ID"))
		return uuid.Nil, false
	}
	return id, true
}
