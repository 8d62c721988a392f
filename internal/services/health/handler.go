package health

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-maker/internal/shared/server/respond"
)

//go:embed openapi.json
var openAPIDocument []byte

// Handler serves the health report and the API description.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches /health and /health/openapi.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.health)
	rg.GET("/health/openapi", h.openAPI)
}

func (h *Handler) health(c *gin.Context) {
	respond.Success(c, http.StatusOK, h.Svc.Check(c.Request.Context()), "Service health check completed")
}

func (h *Handler) openAPI(c *gin.Context) {
	c.Data(http.StatusOK, "application/json; charset=utf-8", openAPIDocument)
}
