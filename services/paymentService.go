package services

import (
	"Prescripto/payments"
	"Prescripto/utils"
	"context"
)

// PaymentGateway is the checkout surface the payment flow depends on.
// Production uses the Razorpay gateway; tests substitute a fake.
type PaymentGateway interface {
	CreateOrder(amount float64, receipt string) (*payments.Order, error)
	FetchOrder(orderID string) (*payments.Order, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// PaymentService runs the checkout flow on top of the booking service.
type PaymentService struct {
	gateway  PaymentGateway
	bookings *BookingService
}

func NewPaymentService(gateway PaymentGateway, bookings *BookingService) *PaymentService {
	return &PaymentService{gateway: gateway, bookings: bookings}
}

// CreateOrder opens a gateway session for an appointment's amount. The
// order receipt carries the appointment id, and verification reads the
// appointment back from there.
func (s *PaymentService) CreateOrder(ctx context.Context, userID, appointmentID string) (*payments.Order, error) {
	appointment, err := s.bookings.GetAppointment(ctx, userID, utils.RolePatient, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment.Cancelled {
		return nil, ErrAppointmentCancelled
	}

	return s.gateway.CreateOrder(appointment.Amount, appointment.ID)
}

// VerifyPayment validates the checkout callback and flips the payment
// flag. The appointment is taken from the verified order's receipt, never
// from the client, so a signature can only pay for the appointment its
// order was opened for.
func (s *PaymentService) VerifyPayment(ctx context.Context, userID, orderID, paymentID, signature string) error {
	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		return ErrPaymentVerification
	}

	order, err := s.gateway.FetchOrder(orderID)
	if err != nil {
		return err
	}

	return s.bookings.MarkPaid(ctx, userID, order.Receipt)
}
