package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/cliniclabs/clinic_billing_app/internal/core/ports/services"
	"github.com/cliniclabs/clinic_billing_app/internal/dto"
	"github.com/cliniclabs/clinic_billing_app/internal/middleware"
)

// revenueHandler handles HTTP requests for the revenue ledger.
type revenueHandler struct {
	revenueService portssvc.RevenueSvcFacade
}

func newRevenueHandler(revenueService portssvc.RevenueSvcFacade) *revenueHandler {
	return &revenueHandler{revenueService: revenueService}
}

// registerRevenueRoutes registers the revenue ledger routes.
func registerRevenueRoutes(rg *gin.RouterGroup, revenueService portssvc.RevenueSvcFacade) {
	h := newRevenueHandler(revenueService)

	revenues := rg.Group("/revenues")
	{
		revenues.GET("", h.listRevenues)
	}
}

// listRevenues godoc
// @Summary List revenue entries
// @Description Retrieves a paginated revenue listing ordered by received date.
// @Tags revenues
// @Produce json
// @Param limit query int false "Page size (default 20, max 100)"
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListRevenuesResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Router /revenues [get]
func (h *revenueHandler) listRevenues(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListRevenuesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	resp, err := h.revenueService.ListRevenues(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list revenues", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list revenues"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
