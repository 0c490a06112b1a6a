package handlers

import (
	"Prescripto/middlewares"
	"Prescripto/payments"
	"Prescripto/services"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreateOrder opens a gateway session for an appointment's amount.
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req struct {
		AppointmentID string `json:"appointmentId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	order, err := h.paymentService.CreateOrder(c.Request.Context(), userID, req.AppointmentID)
	if err != nil {
		if errors.Is(err, payments.ErrGatewayUnavailable) {
			middlewares.RespondError(c, http.StatusServiceUnavailable, "Online payment is not available", nil)
			return
		}
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"order": order})
}

// VerifyPayment validates the gateway callback. Which appointment gets
// marked paid is decided by the verified order, not the request body.
func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	userID, err := middlewares.ExtractUserIDFromContext(c.Request.Context())
	if err != nil {
		middlewares.RespondError(c, http.StatusUnauthorized, "Unauthorized", err)
		return
	}

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id"`
		RazorpayPaymentID string `json:"razorpay_payment_id"`
		RazorpaySignature string `json:"razorpay_signature"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.RespondError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	err = h.paymentService.VerifyPayment(c.Request.Context(), userID,
		req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		if errors.Is(err, payments.ErrGatewayUnavailable) {
			middlewares.RespondError(c, http.StatusServiceUnavailable, "Online payment is not available", nil)
			return
		}
		respondServiceError(c, err)
		return
	}

	middlewares.RespondOK(c, gin.H{"message": "Payment Successful"})
}
