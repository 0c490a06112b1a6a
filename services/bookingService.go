package services

import (
	"Prescripto/models"
	"Prescripto/repositories"
	"Prescripto/utils"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

const (
	slotLockTTL        = 10 * time.Second
	slotLockRetries    = 3
	slotLockRetryDelay = 200 * time.Millisecond
)

// SlotLocker is the mutual-exclusion scope around a (doctor, date) pair.
// Production uses the Redis SetNX lock; tests substitute an in-process one.
type SlotLocker interface {
	Acquire(ctx context.Context, key, value string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key, value string) error
}

// Notifier sends appointment mail. Implementations must not block.
type Notifier interface {
	BookingConfirmed(to, patientName, doctorName, slotDate, slotTime string)
	BookingCancelled(to, patientName, doctorName, slotDate, slotTime string)
}

// BookingService orchestrates the slot ledger and the appointment store.
// Every write path that touches a slot runs under the per-(doctor, date)
// lock, so check-then-reserve and cancel-then-release behave as single
// logical transactions; the ledger's unique index backstops the lock.
type BookingService struct {
	users        repositories.UserRepository
	doctors      repositories.DoctorRepository
	ledger       repositories.SlotLedgerRepository
	appointments repositories.AppointmentRepository
	locker       SlotLocker
	notifier     Notifier
}

func NewBookingService(
	users repositories.UserRepository,
	doctors repositories.DoctorRepository,
	ledger repositories.SlotLedgerRepository,
	appointments repositories.AppointmentRepository,
	locker SlotLocker,
	notifier Notifier,
) *BookingService {
	return &BookingService{
		users:        users,
		doctors:      doctors,
		ledger:       ledger,
		appointments: appointments,
		locker:       locker,
		notifier:     notifier,
	}
}

// BookSlot reserves (doctorID, slotDate, slotTime) for the patient and
// creates the appointment with a point-in-time snapshot of both parties.
// At most one booking can ever hold a given triple.
func (s *BookingService) BookSlot(ctx context.Context, userID, doctorID, slotDate, slotTime string) (*models.Appointment, error) {
	if doctorID == "" || slotDate == "" || slotTime == "" || !utils.ValidSlotDate(slotDate) {
		return nil, ErrInvalidInput
	}

	unlock, err := s.lockSlot(ctx, doctorID, slotDate)
	if err != nil {
		return nil, err
	}
	defer unlock()

	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.Available {
		return nil, ErrDoctorUnavailable
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	if err := s.ledger.Reserve(ctx, doctorID, slotDate, slotTime); err != nil {
		if errors.Is(err, repositories.ErrSlotTaken) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	appointment := &models.Appointment{
		ID:       uuid.New().String(),
		UserID:   user.ID,
		DoctorID: doctor.ID,
		SlotDate: slotDate,
		SlotTime: slotTime,
		Amount:   doctor.Fees,
		UserData: models.UserSnapshot{
			Name:  user.Name,
			Email: user.Email,
			Phone: user.Phone,
		},
		DoctorData: models.DoctorSnapshot{
			Name:       doctor.Name,
			Speciality: doctor.Speciality,
			Image:      doctor.Image,
			Fees:       doctor.Fees,
		},
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		// A failed booking must leave no trace in the ledger.
		if relErr := s.ledger.Release(ctx, doctorID, slotDate, slotTime); relErr != nil {
			log.Printf("Failed to roll back slot reservation: %v", relErr)
		}
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.BookingConfirmed(user.Email, user.Name, doctor.Name, slotDate, slotTime)
	}

	return appointment, nil
}

// CancelAppointment sets the cancelled flag and frees the slot. The caller
// must be the booking patient, the appointment's doctor, or the admin.
// Cancelling an already-cancelled appointment is a no-op success.
func (s *BookingService) CancelAppointment(ctx context.Context, callerID, role, appointmentID string) error {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}

	switch role {
	case utils.RolePatient:
		if appointment.UserID != callerID {
			return ErrUnauthorized
		}
	case utils.RoleDoctor:
		if appointment.DoctorID != callerID {
			return ErrUnauthorized
		}
	case utils.RoleAdmin:
	default:
		return ErrUnauthorized
	}

	if appointment.Cancelled {
		return nil
	}

	unlock, err := s.lockSlot(ctx, appointment.DoctorID, appointment.SlotDate)
	if err != nil {
		return err
	}
	defer unlock()

	if err := s.appointments.SetCancelled(ctx, appointmentID); err != nil {
		return err
	}
	if err := s.ledger.Release(ctx, appointment.DoctorID, appointment.SlotDate, appointment.SlotTime); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.BookingCancelled(appointment.UserData.Email, appointment.UserData.Name,
			appointment.DoctorData.Name, appointment.SlotDate, appointment.SlotTime)
	}

	return nil
}

// CompleteAppointment marks the visit fulfilled. Only the owning doctor
// may complete, and a cancelled appointment can no longer be completed.
func (s *BookingService) CompleteAppointment(ctx context.Context, doctorID, appointmentID string) error {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.DoctorID != doctorID {
		return ErrUnauthorized
	}
	if appointment.Cancelled {
		return ErrAppointmentCancelled
	}

	return s.appointments.SetCompleted(ctx, appointmentID)
}

// MarkPaid flips the payment flag after gateway verification. Payment on a
// cancelled appointment is refused.
func (s *BookingService) MarkPaid(ctx context.Context, userID, appointmentID string) error {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.UserID != userID {
		return ErrUnauthorized
	}
	if appointment.Cancelled {
		return ErrAppointmentCancelled
	}

	return s.appointments.SetPaid(ctx, appointmentID)
}

// GetAppointment returns one appointment if the caller may see it.
func (s *BookingService) GetAppointment(ctx context.Context, callerID, role, appointmentID string) (*models.Appointment, error) {
	appointment, err := s.appointments.GetByID(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if role == utils.RolePatient && appointment.UserID != callerID {
		return nil, ErrUnauthorized
	}
	if role == utils.RoleDoctor && appointment.DoctorID != callerID {
		return nil, ErrUnauthorized
	}
	return appointment, nil
}

func (s *BookingService) ListForUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return s.appointments.ListByUser(ctx, userID)
}

func (s *BookingService) ListForDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return s.appointments.ListByDoctor(ctx, doctorID)
}

func (s *BookingService) ListAll(ctx context.Context) ([]models.Appointment, error) {
	return s.appointments.ListAll(ctx)
}

// lockSlot serialises ledger writes for one (doctor, date) pair. The
// returned func releases the lock and is safe to defer.
func (s *BookingService) lockSlot(ctx context.Context, doctorID, slotDate string) (func(), error) {
	lockKey := fmt.Sprintf("slot_lock:%s_%s", doctorID, slotDate)
	lockValue := uuid.New().String()

	var locked bool
	var err error
	for i := 0; i < slotLockRetries; i++ {
		locked, err = s.locker.Acquire(ctx, lockKey, lockValue, slotLockTTL)
		if err == nil && locked {
			break
		}
		if i < slotLockRetries-1 {
			time.Sleep(slotLockRetryDelay)
		}
	}
	if !locked {
		if err != nil {
			return nil, fmt.Errorf("failed to acquire slot lock after retries: %w", err)
		}
		// Contended without errors: another booking holds the lock.
		return nil, ErrSlotBusy
	}

	return func() {
		if err := s.locker.Release(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release slot lock: %v", err)
		}
	}, nil
}
