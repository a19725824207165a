package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hiringbull/server/services"
	"github.com/hiringbull/server/utils/response"
	"github.com/hiringbull/server/utils/validation"
)

// PaymentHandler exposes the order-initiation and verification endpoints.
type PaymentHandler struct {
	service   *services.PaymentService
	validator *validation.Validator
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(service *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateOrderRequest represents the request body for initiating an order.
// Amount is in major currency units (rupees).
type CreateOrderRequest struct {
	Amount int64  `json:"amount" validate:"required,gt=0"`
	UserID string `json:"userId" validate:"required,uuid"`
}

// VerifyPaymentRequest carries the gateway's checkout confirmation. Field
// names follow the gateway's client callback payload.
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature" validate:"required"`
	UserID            string `json:"userId" validate:"required,uuid"`
}

// CreateOrder handles POST /api/payment/order
func (h *PaymentHandler) CreateOrder(c *fiber.Ctx) error {
	var req CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	order, err := h.service.CreateOrder(c.Context(), req.Amount, req.UserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrGatewayNotConfigured):
			return response.Error(c, fiber.StatusInternalServerError,
				"Razorpay is not configured on the server.", "GATEWAY_NOT_CONFIGURED")
		case errors.Is(err, services.ErrInvalidAmount):
			return response.BadRequest(c, "Amount is required")
		default:
			return response.InternalServerError(c, "Failed to create payment order")
		}
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// VerifyPayment handles POST /api/payment/verify
func (h *PaymentHandler) VerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	err := h.service.VerifyPayment(c.Context(),
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature, req.UserID)

	switch {
	case err == nil:
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "Payment Verified",
			"success": true,
		})
	case errors.Is(err, services.ErrSignatureMismatch):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid Signature",
			"success": false,
		})
	case errors.Is(err, services.ErrPaymentAlreadyFailed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Payment already marked as failed",
			"success": false,
		})
	case errors.Is(err, services.ErrPaymentNotFound):
		return response.NotFound(c, "No payment found for this order")
	case errors.Is(err, services.ErrVerificationInProgress):
		return response.Conflict(c, "Verification already in progress for this order")
	case errors.Is(err, services.ErrGatewayNotConfigured):
		return response.Error(c, fiber.StatusInternalServerError,
			"Razorpay is not configured on the server.", "GATEWAY_NOT_CONFIGURED")
	default:
		return response.InternalServerError(c, "Failed to verify payment")
	}
}
