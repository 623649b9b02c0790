package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"learnhub-backend/internal/payments/stripe"
	"learnhub-backend/internal/service"
	"learnhub-backend/pkg/logger"
)

// maxWebhookBodyBytes caps provider webhook payloads.
const maxWebhookBodyBytes = 1 << 20

// webhookTimestampTolerance bounds how old a signed webhook may be.
const webhookTimestampTolerance = 5 * time.Minute

type PurchaseHandler struct {
	purchaseService *service.PurchaseService
	webhookSecret   string
}

func NewPurchaseHandler(purchaseService *service.PurchaseService, webhookSecret string) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
		webhookSecret:   webhookSecret,
	}
}

// Purchase opens a payment session for a paid course.
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	session, err := h.purchaseService.Initiate(c.Request.Context(), userID, courseID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListOrders returns the user's order history.
func (h *PurchaseHandler) ListOrders(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	orders, err := h.purchaseService.ListOrders(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// GetOrder returns one of the user's orders, typically polled after checkout.
func (h *PurchaseHandler) GetOrder(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	order, err := h.purchaseService.GetOrderForUser(userID, orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Refund marks a completed order refunded. Admin only.
func (h *PurchaseHandler) Refund(c *gin.Context) {
	orderID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	order, err := h.purchaseService.Refund(orderID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Webhook receives payment provider notifications. Signature failures are
// rejected; everything past verification answers 200 so the provider does
// not retry events this system chooses to ignore.
func (h *PurchaseHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read payload"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := stripe.VerifyWebhookSignature(payload, signature, h.webhookSecret, webhookTimestampTolerance); err != nil {
		logger.Warn("Webhook signature verification failed", map[string]interface{}{
			"error": err.Error(),
		})
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid signature"})
		return
	}

	event, err := stripe.ParseEvent(payload)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event"})
		return
	}

	if err := h.purchaseService.HandleProviderEvent(event); err != nil {
		logger.Error(err, "Webhook processing failed", map[string]interface{}{
			"payment_ref": event.PaymentRef,
		})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "event processing failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
