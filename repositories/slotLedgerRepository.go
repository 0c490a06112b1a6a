package repositories

import (
	"Prescripto/cache"
	"Prescripto/models"
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSlotTaken is returned when a reservation already holds the
// (doctor, date, time) triple.
var ErrSlotTaken = errors.New("slot already reserved")

// SlotLedgerRepository owns the per-doctor slot ledger. The ledger must
// only ever hold slots backed by a non-cancelled appointment; the booking
// service maintains that invariant.
type SlotLedgerRepository interface {
	// Reserve inserts the triple, or fails with ErrSlotTaken if it is
	// already present. The insert is conditional at the database, so
	// concurrent conflicting reservations commit at most once.
	Reserve(ctx context.Context, doctorID, slotDate, slotTime string) error
	// Release removes the triple. Releasing an absent triple is a no-op.
	Release(ctx context.Context, doctorID, slotDate, slotTime string) error
	IsReserved(ctx context.Context, doctorID, slotDate, slotTime string) (bool, error)
	// MapForDoctor reassembles the date -> booked times map clients expect.
	MapForDoctor(ctx context.Context, doctorID string) (map[string][]string, error)
	MapAll(ctx context.Context) (map[string]map[string][]string, error)
}

type slotLedgerRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewSlotLedgerRepository(db *gorm.DB, cache *cache.Cache) SlotLedgerRepository {
	return &slotLedgerRepository{db: db, cache: cache}
}

func (r *slotLedgerRepository) Reserve(ctx context.Context, doctorID, slotDate, slotTime string) error {
	reservation := models.SlotReservation{
		DoctorID: doctorID,
		SlotDate: slotDate,
		SlotTime: slotTime,
	}

	// ON CONFLICT DO NOTHING against the composite unique index: zero rows
	// affected means somebody else holds the slot.
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&reservation)
	if result.Error != nil {
		return fmt.Errorf("failed to reserve slot: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrSlotTaken
	}
	return r.invalidateDoctorList(ctx)
}

func (r *slotLedgerRepository) Release(ctx context.Context, doctorID, slotDate, slotTime string) error {
	err := r.db.WithContext(ctx).
		Where("doctor_id = ? AND slot_date = ? AND slot_time = ?", doctorID, slotDate, slotTime).
		Delete(&models.SlotReservation{}).Error
	if err != nil {
		return fmt.Errorf("failed to release slot: %w", err)
	}
	return r.invalidateDoctorList(ctx)
}

func (r *slotLedgerRepository) IsReserved(ctx context.Context, doctorID, slotDate, slotTime string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SlotReservation{}).
		Where("doctor_id = ? AND slot_date = ? AND slot_time = ?", doctorID, slotDate, slotTime).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check slot: %w", err)
	}
	return count > 0, nil
}

func (r *slotLedgerRepository) MapForDoctor(ctx context.Context, doctorID string) (map[string][]string, error) {
	var reservations []models.SlotReservation
	err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order("slot_date, slot_time").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load slot ledger: %w", err)
	}

	booked := make(map[string][]string)
	for _, res := range reservations {
		booked[res.SlotDate] = append(booked[res.SlotDate], res.SlotTime)
	}
	return booked, nil
}

func (r *slotLedgerRepository) MapAll(ctx context.Context) (map[string]map[string][]string, error) {
	var reservations []models.SlotReservation
	err := r.db.WithContext(ctx).Order("slot_date, slot_time").Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load slot ledger: %w", err)
	}

	booked := make(map[string]map[string][]string)
	for _, res := range reservations {
		if booked[res.DoctorID] == nil {
			booked[res.DoctorID] = make(map[string][]string)
		}
		booked[res.DoctorID][res.SlotDate] = append(booked[res.DoctorID][res.SlotDate], res.SlotTime)
	}
	return booked, nil
}

// The public doctor list embeds the booked-slot map, so ledger writes
// invalidate that cache entry.
func (r *slotLedgerRepository) invalidateDoctorList(ctx context.Context) error {
	if err := r.cache.Delete(ctx, doctorListCacheKey); err != nil {
		log.Printf("Failed to invalidate doctor list cache: %v", err)
	}
	return nil
}
