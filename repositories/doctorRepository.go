package repositories

import (
	"Prescripto/cache"
	"Prescripto/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// All doctor cache entries share one prefix so a single pattern delete
// clears the keyspace on writes.
const (
	DoctorCacheExpiry = 24 * time.Hour

	doctorCachePattern = "doctor_cache:*"
	doctorListCacheKey = "doctor_cache:list"
)

type DoctorRepository interface {
	Create(ctx context.Context, doctor *models.Doctor) error
	GetByID(ctx context.Context, id string) (*models.Doctor, error)
	GetByEmail(ctx context.Context, email string) (*models.Doctor, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]models.Doctor, error)
	SetAvailability(ctx context.Context, id string, available bool) error
	UpdateProfile(ctx context.Context, id string, fees float64, address string, available bool) error
	Count(ctx context.Context) (int64, error)
}

type doctorRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewDoctorRepository(db *gorm.DB, cache *cache.Cache) DoctorRepository {
	return &doctorRepository{db: db, cache: cache}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *models.Doctor) error {
	if err := r.db.WithContext(ctx).Create(doctor).Error; err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return r.invalidate(ctx)
}

func (r *doctorRepository) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getDoctorCacheKey(id)
	cachedDoctor, err := r.cache.Get(ctx, cacheKey)
	if err == nil {
		var doctor models.Doctor
		if err := json.Unmarshal([]byte(cachedDoctor), &doctor); err == nil {
			return &doctor, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get doctor from cache: %v", err)
	}

	var doctor models.Doctor
	err = r.db.WithContext(ctx).First(&doctor, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	doctorJSON, err := json.Marshal(doctor)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, cacheKey, doctorJSON, DoctorCacheExpiry); err != nil {
		log.Printf("Failed to set doctor in cache: %v", err)
	}

	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&doctor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Doctor{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check doctor email existence: %w", err)
	}
	return count > 0, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]models.Doctor, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cachedList, err := r.cache.Get(ctx, doctorListCacheKey)
	if err == nil {
		var doctors []models.Doctor
		if err := json.Unmarshal([]byte(cachedList), &doctors); err == nil {
			return doctors, nil
		}
	} else if err != redis.Nil {
		log.Printf("Failed to get doctor list from cache: %v", err)
	}

	var doctors []models.Doctor
	err = r.db.WithContext(ctx).Order("created_at DESC").Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	doctorsJSON, err := json.Marshal(doctors)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, doctorListCacheKey, doctorsJSON, DoctorCacheExpiry); err != nil {
		log.Printf("Failed to set doctor list in cache: %v", err)
	}

	return doctors, nil
}

func (r *doctorRepository) SetAvailability(ctx context.Context, id string, available bool) error {
	err := r.db.WithContext(ctx).Model(&models.Doctor{}).Where("id = ?", id).
		Update("available", available).Error
	if err != nil {
		return fmt.Errorf("failed to update doctor availability: %w", err)
	}
	return r.invalidate(ctx)
}

func (r *doctorRepository) UpdateProfile(ctx context.Context, id string, fees float64, address string, available bool) error {
	err := r.db.WithContext(ctx).Model(&models.Doctor{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"fees":      fees,
			"address":   address,
			"available": available,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update doctor profile: %w", err)
	}
	return r.invalidate(ctx)
}

func (r *doctorRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Doctor{}).Count(&count).Error
	return count, err
}

func (r *doctorRepository) invalidate(ctx context.Context) error {
	return r.cache.DeleteAll(ctx, doctorCachePattern)
}

func (r *doctorRepository) getDoctorCacheKey(id string) string {
	return fmt.Sprintf("doctor_cache:%s", id)
}
