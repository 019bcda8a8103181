package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/cliniclabs/clinic_billing_app/internal/apperrors"
	portssvc "github.com/cliniclabs/clinic_billing_app/internal/core/ports/services"
	"github.com/cliniclabs/clinic_billing_app/internal/dto"
	"github.com/cliniclabs/clinic_billing_app/internal/middleware"
)

// paymentTypeHandler handles HTTP requests for the payment-type catalog.
type paymentTypeHandler struct {
	paymentTypeService portssvc.PaymentTypeSvcFacade
}

func newPaymentTypeHandler(paymentTypeService portssvc.PaymentTypeSvcFacade) *paymentTypeHandler {
	return &paymentTypeHandler{paymentTypeService: paymentTypeService}
}

// registerPaymentTypeRoutes registers all payment-type catalog routes.
func registerPaymentTypeRoutes(rg *gin.RouterGroup, paymentTypeService portssvc.PaymentTypeSvcFacade) {
	h := newPaymentTypeHandler(paymentTypeService)

	paymentTypes := rg.Group("/payment-types")
	{
		paymentTypes.POST("", h.createPaymentType)
		paymentTypes.GET("", h.listPaymentTypes)
		paymentTypes.GET("/:paymentTypeID", h.getPaymentType)
		paymentTypes.PUT("/:paymentTypeID", h.updatePaymentType)
	}
}

func parsePaymentTypeID(c *gin.Context) (int64, bool) {
	paymentTypeID, err := strconv.ParseInt(c.Param("paymentTypeID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment type ID"})
		return 0, false
	}
	return paymentTypeID, true
}

// createPaymentType godoc
// @Summary Create a payment type
// @Description Creates a new payment-type catalog entry.
// @Tags payment-types
// @Accept json
// @Produce json
// @Param paymentType body dto.CreatePaymentTypeRequest true "Payment type details"
// @Success 201 {object} dto.PaymentTypeResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Payment type name already exists"
// @Router /payment-types [post]
func (h *paymentTypeHandler) createPaymentType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreatePaymentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	paymentType, err := h.paymentTypeService.CreatePaymentType(c.Request.Context(), req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Payment type name already exists"})
			return
		}
		logger.Error("Failed to create payment type", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create payment type"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToPaymentTypeResponse(paymentType))
}

// listPaymentTypes godoc
// @Summary List payment types
// @Description Retrieves payment-type catalog entries, optionally only active ones.
// @Tags payment-types
// @Produce json
// @Param onlyActive query bool false "Only return active entries"
// @Success 200 {object} []dto.PaymentTypeResponse
// @Router /payment-types [get]
func (h *paymentTypeHandler) listPaymentTypes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	onlyActive, _ := strconv.ParseBool(c.DefaultQuery("onlyActive", "false"))

	paymentTypes, err := h.paymentTypeService.ListPaymentTypes(c.Request.Context(), onlyActive)
	if err != nil {
		logger.Error("Failed to list payment types", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list payment types"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentTypeResponses(paymentTypes))
}

// getPaymentType godoc
// @Summary Get a payment type
// @Description Retrieves a payment-type catalog entry by ID.
// @Tags payment-types
// @Produce json
// @Param paymentTypeID path int true "Payment type ID"
// @Success 200 {object} dto.PaymentTypeResponse
// @Failure 404 {object} map[string]string "Payment type not found"
// @Router /payment-types/{paymentTypeID} [get]
func (h *paymentTypeHandler) getPaymentType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	paymentTypeID, ok := parsePaymentTypeID(c)
	if !ok {
		return
	}

	paymentType, err := h.paymentTypeService.GetPaymentTypeByID(c.Request.Context(), paymentTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment type not found"})
			return
		}
		logger.Error("Failed to get payment type", slog.Int64("payment_type_id", paymentTypeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payment type"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentTypeResponse(paymentType))
}

// updatePaymentType godoc
// @Summary Update a payment type
// @Description Updates the name and/or active flag of a catalog entry. Deactivation does not affect exams already referencing the entry.
// @Tags payment-types
// @Accept json
// @Produce json
// @Param paymentTypeID path int true "Payment type ID"
// @Param paymentType body dto.UpdatePaymentTypeRequest true "Fields to update"
// @Success 200 {object} dto.PaymentTypeResponse
// @Failure 404 {object} map[string]string "Payment type not found"
// @Router /payment-types/{paymentTypeID} [put]
func (h *paymentTypeHandler) updatePaymentType(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	paymentTypeID, ok := parsePaymentTypeID(c)
	if !ok {
		return
	}

	var req dto.UpdatePaymentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	paymentType, err := h.paymentTypeService.UpdatePaymentType(c.Request.Context(), paymentTypeID, req, actorID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Payment type not found"})
			return
		}
		logger.Error("Failed to update payment type", slog.Int64("payment_type_id", paymentTypeID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update payment type"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPaymentTypeResponse(paymentType))
}
