package resumes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"resume-maker/internal/generation"
	"resume-maker/internal/shared/server/middleware"
	"resume-maker/internal/shared/server/respond"
)

const (
	codeNotFound    = "RESUME_NOT_FOUND"
	codeNotEditable = "RESUME_NOT_EDITABLE"
	codeConflict    = "RESUME_CONFLICT"
	codeQuery       = "QUERY_VALIDATION_ERROR"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches resume routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/resumes")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.POST("/:id/regenerate", h.regenerate)
	g.DELETE("/:id", h.delete)

	rg.GET("/sessions/current/resumes", h.listSession)
}

func (h *Handler) list(c *gin.Context) {
	q := Query{
		SessionID:    middleware.SessionIDFromContext(c),
		UserID:       strings.TrimSpace(c.Query("userId")),
		TemplateType: generation.TemplateType(strings.TrimSpace(c.Query("templateType"))),
		SortBy:       strings.TrimSpace(c.Query("sortBy")),
		SortOrder:    strings.TrimSpace(c.Query("sortOrder")),
	}
	var ok bool
	if q.Page, ok = intQuery(c, "page"); !ok {
		respond.Error(c, http.StatusBadRequest, codeQuery, "page must be a positive integer", nil)
		return
	}
	if q.Limit, ok = intQuery(c, "limit"); !ok {
		respond.Error(c, http.StatusBadRequest, codeQuery, "limit must be a positive integer", nil)
		return
	}

	page, err := h.Svc.List(c.Request.Context(), q)
	if err != nil {
		h.fail(c, err, codeQuery)
		return
	}
	respond.Paginated(c, page.Items, respond.Pagination{
		Page:       page.Page,
		Limit:      page.Limit,
		Total:      page.Total,
		TotalPages: page.TotalPages,
		HasNext:    page.HasNext,
		HasPrev:    page.HasPrev,
	})
}

func (h *Handler) listSession(c *gin.Context) {
	items, err := h.Svc.ListBySession(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		h.fail(c, err, respond.CodeValidation)
		return
	}
	respond.OK(c, items)
}

func (h *Handler) create(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "Validation failed", bindingDetails(err))
		return
	}

	resume, err := h.Svc.Create(c.Request.Context(), req.input(middleware.SessionIDFromContext(c)))
	if err != nil {
		h.fail(c, err, respond.CodeValidation)
		return
	}
	c.Set("resumeId", resume.ID)
	respond.Created(c, resume, "Resume created successfully")
}

func (h *Handler) get(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	resume, err := h.Svc.Get(c.Request.Context(), middleware.SessionIDFromContext(c), id)
	if err != nil {
		h.fail(c, err, respond.CodeParamValidation)
		return
	}
	respond.OK(c, resume)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	var req updateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "Validation failed", bindingDetails(err))
		return
	}

	resume, err := h.Svc.Update(c.Request.Context(), middleware.SessionIDFromContext(c), id, req.input())
	if err != nil {
		h.fail(c, err, respond.CodeValidation)
		return
	}
	respond.Success(c, http.StatusOK, resume, "Resume updated successfully")
}

func (h *Handler) regenerate(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	resume, err := h.Svc.Regenerate(c.Request.Context(), middleware.SessionIDFromContext(c), id)
	if err != nil {
		h.fail(c, err, respond.CodeValidation)
		return
	}
	respond.Success(c, http.StatusOK, resume, "Resume regenerated successfully")
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := resumeID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.SessionIDFromContext(c), id); err != nil {
		h.fail(c, err, respond.CodeParamValidation)
		return
	}
	respond.NoContent(c)
}

func (h *Handler) fail(c *gin.Context, err error, invalidCode string) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, codeNotFound, "Resume not found", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, invalidCode, err.Error(), nil)
	case errors.Is(err, ErrNotEditable):
		respond.Error(c, http.StatusConflict, codeNotEditable, "Resume is locked for editing", nil)
	case errors.Is(err, ErrConflict):
		respond.Error(c, http.StatusConflict, codeConflict, "Resume was modified by another request, retry", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "Internal server error", nil)
	}
}

func resumeID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeParamValidation, "Parameter validation failed", []fieldError{{Field: "id", Message: "must be a valid UUID"}})
		return "", false
	}
	c.Set("resumeId", id)
	return id, true
}

func intQuery(c *gin.Context, key string) (int, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

func bindingDetails(err error) []fieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]fieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldError{Field: fe.Namespace(), Message: "failed on the '" + fe.Tag() + "' rule"})
	}
	return out
}
