package repositories

import (
	"Prescripto/cache"
	"Prescripto/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	ListByUser(ctx context.Context, userID string) ([]models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error)
	ListAll(ctx context.Context) ([]models.Appointment, error)
	SetCancelled(ctx context.Context, id string) error
	SetCompleted(ctx context.Context, id string) error
	SetPaid(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}

type appointmentRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewAppointmentRepository(db *gorm.DB, cache *cache.Cache) AppointmentRepository {
	return &appointmentRepository{db: db, cache: cache}
}

func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	if err := r.db.WithContext(ctx).Create(appointment).Error; err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).First(&appointment, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

// Listings are newest first. They are not cached: booking state changes
// too often for the cache to pay for itself.
func (r *appointmentRepository) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return r.list(ctx, "user_id = ?", userID)
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	return r.list(ctx, "doctor_id = ?", doctorID)
}

func (r *appointmentRepository) ListAll(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) list(ctx context.Context, query string, arg string) ([]models.Appointment, error) {
	var appointments []models.Appointment
	err := r.db.WithContext(ctx).Where(query, arg).Order("created_at DESC").Find(&appointments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) SetCancelled(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "cancelled")
}

func (r *appointmentRepository) SetCompleted(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "completed")
}

func (r *appointmentRepository) SetPaid(ctx context.Context, id string) error {
	return r.setFlag(ctx, id, "payment")
}

func (r *appointmentRepository) setFlag(ctx context.Context, id, column string) error {
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).
		Update(column, true).Error
	if err != nil {
		return fmt.Errorf("failed to set appointment %s: %w", column, err)
	}
	return nil
}

func (r *appointmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).Count(&count).Error
	return count, err
}
