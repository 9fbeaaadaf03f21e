package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/enrollment/internal/app/models/dto"
	"github.com/yigit/enrollment/internal/app/services"
	"github.com/yigit/enrollment/internal/middleware"
	"github.com/yigit/enrollment/internal/pkg/apperrors"
	"github.com/yigit/enrollment/internal/pkg/netcash"
)

// webhookBodyLimit caps the notification body read from the gateway
const webhookBodyLimit = 1 << 20

// PaymentController handles hosted payments and gateway notifications
type PaymentController struct {
	paymentService *services.PaymentService
}

// NewPaymentController creates a new PaymentController
func NewPaymentController(paymentService *services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// CreatePayment starts a hosted payment
// @Summary Create payment
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.PaymentRequest true "Payment"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentResponse} "Payment created"
// @Failure 400 {object} dto.ErrorResponse "Invalid payment"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 500 {object} dto.ErrorResponse "Payment gateway not configured"
// @Failure 502 {object} dto.ErrorResponse "Netcash error"
// @Router /payment/create-payment [post]
func (c *PaymentController) CreatePayment(ctx *gin.Context) {
	var req dto.PaymentRequest
	if !middleware.BindJSONOnly(ctx, &req) {
		return
	}

	resp, err := c.paymentService.CreatePayment(ctx.Request.Context(), middleware.UserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Status returns the state of a payment
// @Summary Get payment status
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param reference path string true "Payment reference"
// @Success 200 {object} dto.APIResponse{data=dto.PaymentStatusResponse} "Payment status"
// @Failure 403 {object} dto.ErrorResponse "Access denied"
// @Failure 404 {object} dto.ErrorResponse "Payment not found"
// @Router /payment/payment-status/{reference} [get]
func (c *PaymentController) Status(ctx *gin.Context) {
	resp, err := c.paymentService.Status(ctx.Request.Context(), middleware.UserID(ctx), ctx.Param("reference"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.APIResponse{Data: resp})
}

// Webhook receives signed payment notifications
// @Summary Payment webhook
// @Description Verifies the HMAC-SHA256 signature of the raw body and applies the reported payment status.
// @Tags payments
// @Accept json
// @Produce plain
// @Param X-Netcash-Signature header string true "Hex HMAC-SHA256 of the body"
// @Success 200 {string} string "OK"
// @Failure 403 {object} dto.ErrorResponse "Invalid signature"
// @Router /payment/webhook [post]
func (c *PaymentController) Webhook(ctx *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(ctx.Request.Body, webhookBodyLimit))
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("Failed to read request body"))
		return
	}

	if err := c.paymentService.HandleWebhook(ctx.Request.Context(), body, ctx.GetHeader(netcash.SignatureHeader)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.String(http.StatusOK, "OK")
}
