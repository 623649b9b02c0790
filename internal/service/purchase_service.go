package service

import (
	"context"
	"fmt"
	"strconv"

	"gorm.io/gorm"

	"learnhub-backend/internal/models"
	"learnhub-backend/internal/payments"
	"learnhub-backend/internal/repository"
	"learnhub-backend/pkg/logger"
)

// PurchaseService coordinates paid enrollments: it opens payment sessions
// with the configured provider and settles orders from provider webhooks.
type PurchaseService struct {
	orderRepo         repository.OrderRepository
	courseRepo        repository.CourseRepository
	enrollmentService *EnrollmentService
	provider          payments.Provider
	currency          string
}

// NewPurchaseService wires the purchase flow. A nil provider disables
// purchases; initiation then fails with ErrPaymentUnavailable.
func NewPurchaseService(
	orderRepo repository.OrderRepository,
	courseRepo repository.CourseRepository,
	enrollmentService *EnrollmentService,
	provider payments.Provider,
	currency string,
) *PurchaseService {
	return &PurchaseService{
		orderRepo:         orderRepo,
		courseRepo:        courseRepo,
		enrollmentService: enrollmentService,
		provider:          provider,
		currency:          currency,
	}
}

// Initiate opens a payment session for a paid course and records a pending
// order. The returned session carries the provider client secret and the
// order id the client polls for settlement.
func (s *PurchaseService) Initiate(ctx context.Context, userID, courseID uint) (*models.PurchaseSession, error) {
	course, err := s.courseRepo.GetByID(courseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.enrollmentService.GetForUserAndCourse(userID, courseID); err == nil {
		return nil, ErrAlreadyEnrolled
	} else if !IsNotFound(err) {
		return nil, err
	}

	if course.PriceCents <= 0 {
		return nil, newValidationError("course is free, enroll directly instead")
	}

	if s.provider == nil {
		return nil, ErrPaymentUnavailable
	}

	intent, err := s.provider.CreatePaymentIntent(ctx, payments.IntentParams{
		AmountCents: course.PriceCents,
		Currency:    s.currency,
		Metadata: map[string]string{
			"user_id":   strconv.FormatUint(uint64(userID), 10),
			"course_id": strconv.FormatUint(uint64(courseID), 10),
		},
	})
	if err != nil {
		logger.Error(err, "Payment intent creation failed", map[string]interface{}{
			"user_id":   userID,
			"course_id": courseID,
		})
		return nil, fmt.Errorf("%w: %v", ErrPaymentInitiation, err)
	}

	order := &models.Order{
		UserID:        userID,
		CourseID:      courseID,
		AmountCents:   course.PriceCents,
		Status:        models.OrderStatusPending,
		PaymentMethod: "stripe",
		PaymentID:     intent.ID,
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	logger.Info("Purchase initiated", map[string]interface{}{
		"order_id":  order.ID,
		"user_id":   userID,
		"course_id": courseID,
		"amount":    course.PriceCents,
	})

	return &models.PurchaseSession{ClientSecret: intent.ClientSecret, OrderID: order.ID}, nil
}

// HandleProviderEvent settles an order from a provider notification.
// Unknown references and repeated deliveries are logged no-ops so the
// provider can retry freely.
func (s *PurchaseService) HandleProviderEvent(event *payments.Event) error {
	if event == nil || event.Type == payments.EventIgnored {
		return nil
	}
	if event.PaymentRef == "" {
		logger.Warn("Payment event without reference ignored", nil)
		return nil
	}

	order, err := s.orderRepo.GetByPaymentID(event.PaymentRef)
	if err != nil {
		if IsNotFound(err) {
			logger.Warn("Payment event for unknown order ignored", map[string]interface{}{
				"payment_ref": event.PaymentRef,
			})
			return nil
		}
		return err
	}

	switch event.Type {
	case payments.EventPaymentSucceeded:
		return s.settleSuccess(order)
	case payments.EventPaymentFailed:
		return s.settleFailure(order)
	default:
		return nil
	}
}

func (s *PurchaseService) settleSuccess(order *models.Order) error {
	if order.Status == models.OrderStatusPending {
		order.Status = models.OrderStatusCompleted
		if err := s.orderRepo.Update(order); err != nil {
			return err
		}
		logger.Info("Order completed", map[string]interface{}{
			"order_id":  order.ID,
			"user_id":   order.UserID,
			"course_id": order.CourseID,
		})
	}

	// Enrollment creation is idempotent, so a redelivered success event
	// after a crash between the two writes still converges.
	if _, err := s.enrollmentService.EnrollFromPurchase(order.UserID, order.CourseID); err != nil {
		return err
	}

	return nil
}

func (s *PurchaseService) settleFailure(order *models.Order) error {
	if order.Status != models.OrderStatusPending {
		return nil
	}

	order.Status = models.OrderStatusFailed
	if err := s.orderRepo.Update(order); err != nil {
		return err
	}

	logger.Warn("Order failed", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
	})

	return nil
}

// Refund marks a completed order refunded. The enrollment is left in place;
// revoking access is an explicit admin decision, not a side effect.
func (s *PurchaseService) Refund(orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}

	if order.Status != models.OrderStatusCompleted {
		return nil, newValidationError("only completed orders can be refunded")
	}

	order.Status = models.OrderStatusRefunded
	if err := s.orderRepo.Update(order); err != nil {
		return nil, err
	}

	logger.Info("Order refunded", map[string]interface{}{"order_id": order.ID})

	return order, nil
}

// GetOrderForUser returns an order only if it belongs to the user.
func (s *PurchaseService) GetOrderForUser(userID, orderID uint) (*models.Order, error) {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		// Other users' orders look like missing records, not forbidden ones.
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

// ListOrders returns the user's order history, newest first.
func (s *PurchaseService) ListOrders(userID uint) ([]models.Order, error) {
	return s.orderRepo.ListByUser(userID)
}
