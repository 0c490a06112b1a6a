package services

import (
	"Prescripto/models"
	"Prescripto/repositories"
	"Prescripto/utils"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

// In-memory fakes backing the booking service tests. They mirror the
// persistence semantics the real repositories provide, including the
// ledger's at-most-once reservation guarantee.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	u, err := r.GetByEmail(ctx, email)
	return u != nil, err
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.New("user not found")
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.users)), nil
}

type fakeDoctorRepo struct {
	mu      sync.Mutex
	doctors map[string]*models.Doctor
}

func newFakeDoctorRepo() *fakeDoctorRepo {
	return &fakeDoctorRepo{doctors: make(map[string]*models.Doctor)}
}

func (r *fakeDoctorRepo) Create(ctx context.Context, doctor *models.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doctors[doctor.ID] = doctor
	return nil
}

func (r *fakeDoctorRepo) GetByID(ctx context.Context, id string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.doctors[id]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeDoctorRepo) GetByEmail(ctx context.Context, email string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.doctors {
		if d.Email == email {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeDoctorRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	d, err := r.GetByEmail(ctx, email)
	return d != nil, err
}

func (r *fakeDoctorRepo) List(ctx context.Context) ([]models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Doctor, 0, len(r.doctors))
	for _, d := range r.doctors {
		out = append(out, *d)
	}
	return out, nil
}

func (r *fakeDoctorRepo) SetAvailability(ctx context.Context, id string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return errors.New("doctor not found")
	}
	d.Available = available
	return nil
}

func (r *fakeDoctorRepo) UpdateProfile(ctx context.Context, id string, fees float64, address string, available bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return errors.New("doctor not found")
	}
	d.Fees = fees
	d.Address = address
	d.Available = available
	return nil
}

func (r *fakeDoctorRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.doctors)), nil
}

// fakeSlotLedger enforces the same at-most-once semantics the composite
// unique index gives the real ledger.
type fakeSlotLedger struct {
	mu       sync.Mutex
	reserved map[string]bool
}

func newFakeSlotLedger() *fakeSlotLedger {
	return &fakeSlotLedger{reserved: make(map[string]bool)}
}

func ledgerKey(doctorID, slotDate, slotTime string) string {
	return fmt.Sprintf("%s|%s|%s", doctorID, slotDate, slotTime)
}

func (l *fakeSlotLedger) Reserve(ctx context.Context, doctorID, slotDate, slotTime string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := ledgerKey(doctorID, slotDate, slotTime)
	if l.reserved[key] {
		return repositories.ErrSlotTaken
	}
	l.reserved[key] = true
	return nil
}

func (l *fakeSlotLedger) Release(ctx context.Context, doctorID, slotDate, slotTime string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.reserved, ledgerKey(doctorID, slotDate, slotTime))
	return nil
}

func (l *fakeSlotLedger) IsReserved(ctx context.Context, doctorID, slotDate, slotTime string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reserved[ledgerKey(doctorID, slotDate, slotTime)], nil
}

func (l *fakeSlotLedger) MapForDoctor(ctx context.Context, doctorID string) (map[string][]string, error) {
	out := make(map[string][]string)
	for doc, dates := range l.byDoctor() {
		if doc == doctorID {
			out = dates
		}
	}
	return out, nil
}

func (l *fakeSlotLedger) MapAll(ctx context.Context) (map[string]map[string][]string, error) {
	return l.byDoctor(), nil
}

func (l *fakeSlotLedger) byDoctor() map[string]map[string][]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]map[string][]string)
	for key := range l.reserved {
		parts := strings.SplitN(key, "|", 3)
		doc, date, tm := parts[0], parts[1], parts[2]
		if out[doc] == nil {
			out[doc] = make(map[string][]string)
		}
		out[doc][date] = append(out[doc][date], tm)
	}
	return out
}

type fakeAppointmentRepo struct {
	mu           sync.Mutex
	appointments map[string]*models.Appointment
	createErr    error
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[string]*models.Appointment)}
}

func (r *fakeAppointmentRepo) Create(ctx context.Context, appointment *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	copied := *appointment
	r.appointments[appointment.ID] = &copied
	return nil
}

func (r *fakeAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.appointments[id]; ok {
		copied := *a
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeAppointmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appointments {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListByDoctor(ctx context.Context, doctorID string) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appointments {
		if a.DoctorID == doctorID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAppointmentRepo) ListAll(ctx context.Context) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appointments {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAppointmentRepo) setFlag(id string, set func(*models.Appointment)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appointments[id]
	if !ok {
		return errors.New("appointment not found")
	}
	set(a)
	return nil
}

func (r *fakeAppointmentRepo) SetCancelled(ctx context.Context, id string) error {
	return r.setFlag(id, func(a *models.Appointment) { a.Cancelled = true })
}

func (r *fakeAppointmentRepo) SetCompleted(ctx context.Context, id string) error {
	return r.setFlag(id, func(a *models.Appointment) { a.Completed = true })
}

func (r *fakeAppointmentRepo) SetPaid(ctx context.Context, id string) error {
	return r.setFlag(id, func(a *models.Appointment) { a.Payment = true })
}

func (r *fakeAppointmentRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.appointments)), nil
}

// fakeLocker mimics the Redis SetNX lock with compare-and-delete release.
type fakeLocker struct {
	mu    sync.Mutex
	locks map[string]string
}

func newFakeLocker() *fakeLocker {
	return &fakeLocker{locks: make(map[string]string)}
}

func (l *fakeLocker) Acquire(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, held := l.locks[key]; held {
		return false, nil
	}
	l.locks[key] = value
	return true, nil
}

func (l *fakeLocker) Release(ctx context.Context, key, value string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.locks[key] == value {
		delete(l.locks, key)
	}
	return nil
}

type bookingFixture struct {
	users        *fakeUserRepo
	doctors      *fakeDoctorRepo
	ledger       *fakeSlotLedger
	appointments *fakeAppointmentRepo
	service      *BookingService
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()

	f := &bookingFixture{
		users:        newFakeUserRepo(),
		doctors:      newFakeDoctorRepo(),
		ledger:       newFakeSlotLedger(),
		appointments: newFakeAppointmentRepo(),
	}
	f.service = NewBookingService(f.users, f.doctors, f.ledger, f.appointments, newFakeLocker(), nil)

	f.users.users["user-1"] = &models.User{
		ID:    "user-1",
		Name:  "Asha Patel",
		Email: "asha@example.com",
		Phone: "555-0101",
	}
	f.users.users["user-2"] = &models.User{
		ID:    "user-2",
		Name:  "Ben Okafor",
		Email: "ben@example.com",
		Phone: "555-0102",
	}
	f.doctors.doctors["doc-1"] = &models.Doctor{
		ID:         "doc-1",
		Name:       "Dr. Richard James",
		Email:      "richard@example.com",
		Speciality: "General physician",
		Available:  true,
		Fees:       500,
		Image:      "http://localhost:4000/uploads/doc1.png",
	}
	return f
}

func TestBookSlotCreatesAppointmentWithSnapshot(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointment, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("BookSlot returned error: %v", err)
	}

	if appointment.UserID != "user-1" || appointment.DoctorID != "doc-1" {
		t.Errorf("unexpected parties: user=%q doctor=%q", appointment.UserID, appointment.DoctorID)
	}
	if appointment.Amount != 500 {
		t.Errorf("expected amount 500, got %v", appointment.Amount)
	}
	if appointment.UserData.Name != "Asha Patel" || appointment.UserData.Email != "asha@example.com" {
		t.Errorf("user snapshot not captured: %+v", appointment.UserData)
	}
	if appointment.DoctorData.Name != "Dr. Richard James" || appointment.DoctorData.Fees != 500 {
		t.Errorf("doctor snapshot not captured: %+v", appointment.DoctorData)
	}

	reserved, err := f.ledger.IsReserved(ctx, "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("IsReserved returned error: %v", err)
	}
	if !reserved {
		t.Error("slot not present in the ledger after booking")
	}
}

func TestBookSlotRejectsDoubleBooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	if _, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM"); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	_, err := f.service.BookSlot(ctx, "user-2", "doc-1", "20_01_2026", "10:00 AM")
	if !errors.Is(err, ErrSlotUnavailable) {
		t.Fatalf("expected ErrSlotUnavailable, got %v", err)
	}

	count, _ := f.appointments.Count(ctx)
	if count != 1 {
		t.Errorf("expected exactly 1 appointment, got %d", count)
	}
}

func TestBookSlotDifferentTimesSameDay(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	if _, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM"); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if _, err := f.service.BookSlot(ctx, "user-2", "doc-1", "20_01_2026", "10:30 AM"); err != nil {
		t.Fatalf("second booking at a free time failed: %v", err)
	}
}

func TestBookSlotValidation(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		doctorID string
		slotDate string
		slotTime string
	}{
		{"empty doctor", "", "20_01_2026", "10:00 AM"},
		{"empty date", "doc-1", "", "10:00 AM"},
		{"empty time", "doc-1", "20_01_2026", ""},
		{"malformed date", "doc-1", "2026-01-20", "10:00 AM"},
		{"month out of range", "doc-1", "20_13_2026", "10:00 AM"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.BookSlot(ctx, "user-1", tc.doctorID, tc.slotDate, tc.slotTime)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestBookSlotUnknownDoctor(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.service.BookSlot(context.Background(), "user-1", "doc-missing", "20_01_2026", "10:00 AM")
	if !errors.Is(err, ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestBookSlotUnavailableDoctor(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	f.doctors.doctors["doc-1"].Available = false

	_, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if !errors.Is(err, ErrDoctorUnavailable) {
		t.Fatalf("expected ErrDoctorUnavailable, got %v", err)
	}

	reserved, _ := f.ledger.IsReserved(ctx, "doc-1", "20_01_2026", "10:00 AM")
	if reserved {
		t.Error("refused booking must not reserve the slot")
	}
}

func TestBookSlotRollsBackLedgerOnCreateFailure(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	f.appointments.createErr = errors.New("insert failed")

	if _, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM"); err == nil {
		t.Fatal("expected booking to fail")
	}

	reserved, _ := f.ledger.IsReserved(ctx, "doc-1", "20_01_2026", "10:00 AM")
	if reserved {
		t.Error("failed booking left the slot reserved")
	}

	// The slot must be bookable again once the store recovers.
	f.appointments.createErr = nil
	if _, err := f.service.BookSlot(ctx, "user-2", "doc-1", "20_01_2026", "10:00 AM"); err != nil {
		t.Fatalf("rebooking after rollback failed: %v", err)
	}
}

func TestConcurrentBookingsOnlyOneWins(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	const attempts = 16
	for i := 0; i < attempts; i++ {
		id := fmt.Sprintf("racer-%d", i)
		f.users.users[id] = &models.User{ID: id, Name: "Racer", Email: id + "@example.com"}
	}

	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.service.BookSlot(ctx, fmt.Sprintf("racer-%d", i), "doc-1", "21_01_2026", "11:00 AM")
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var successes, conflicts, others int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotUnavailable):
			conflicts++
		default:
			others++
		}
	}

	if successes != 1 {
		t.Errorf("expected exactly 1 winning booking, got %d", successes)
	}
	if others != 0 {
		t.Errorf("expected losers to see ErrSlotUnavailable only, got %d other errors", others)
	}
	count, _ := f.appointments.Count(ctx)
	if count != 1 {
		t.Errorf("expected 1 stored appointment, got %d", count)
	}
}

// heldLocker simulates a lock another process never lets go of.
type heldLocker struct{}

func (heldLocker) Acquire(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	return false, nil
}

func (heldLocker) Release(ctx context.Context, key, value string) error {
	return nil
}

func TestBookSlotContendedLock(t *testing.T) {
	f := newBookingFixture(t)
	svc := NewBookingService(f.users, f.doctors, f.ledger, f.appointments, heldLocker{}, nil)
	ctx := context.Background()

	_, err := svc.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if !errors.Is(err, ErrSlotBusy) {
		t.Fatalf("expected ErrSlotBusy when the lock never frees, got %v", err)
	}

	reserved, _ := f.ledger.IsReserved(ctx, "doc-1", "20_01_2026", "10:00 AM")
	if reserved {
		t.Error("contended booking must not reserve the slot")
	}
	count, _ := f.appointments.Count(ctx)
	if count != 0 {
		t.Errorf("expected no appointments, got %d", count)
	}
}

func TestCancelFreesSlotForRebooking(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	first, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := f.service.CancelAppointment(ctx, "user-1", utils.RolePatient, first.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	reserved, _ := f.ledger.IsReserved(ctx, "doc-1", "20_01_2026", "10:00 AM")
	if reserved {
		t.Fatal("cancelled slot still reserved")
	}

	second, err := f.service.BookSlot(ctx, "user-2", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("rebooking a freed slot failed: %v", err)
	}
	if second.ID == first.ID {
		t.Error("rebooking must create a fresh appointment")
	}

	stored, _ := f.appointments.GetByID(ctx, first.ID)
	if !stored.Cancelled {
		t.Error("original appointment should stay cancelled")
	}
}

func TestCancelByWrongPatientRejected(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointment, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	err = f.service.CancelAppointment(ctx, "user-2", utils.RolePatient, appointment.ID)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}

	stored, _ := f.appointments.GetByID(ctx, appointment.ID)
	if stored.Cancelled {
		t.Error("rejected cancel must not change the appointment")
	}
	reserved, _ := f.ledger.IsReserved(ctx, "doc-1", "20_01_2026", "10:00 AM")
	if !reserved {
		t.Error("rejected cancel must not free the slot")
	}
}

func TestCancelByDoctorAndAdmin(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	byDoctor, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if err := f.service.CancelAppointment(ctx, "doc-1", utils.RoleDoctor, byDoctor.ID); err != nil {
		t.Errorf("doctor cancel of own appointment failed: %v", err)
	}

	byAdmin, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "11:00 AM")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if err := f.service.CancelAppointment(ctx, "admin@example.com", utils.RoleAdmin, byAdmin.ID); err != nil {
		t.Errorf("admin cancel failed: %v", err)
	}

	other, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "12:00 PM")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if err := f.service.CancelAppointment(ctx, "doc-other", utils.RoleDoctor, other.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for foreign doctor, got %v", err)
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointment, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if err := f.service.CancelAppointment(ctx, "user-1", utils.RolePatient, appointment.ID); err != nil {
		t.Fatalf("first cancel failed: %v", err)
	}

	// A second booking now owns the slot; the repeated cancel of the old
	// appointment must succeed without touching it.
	rebooked, err := f.service.BookSlot(ctx, "user-2", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("rebooking failed: %v", err)
	}

	if err := f.service.CancelAppointment(ctx, "user-1", utils.RolePatient, appointment.ID); err != nil {
		t.Fatalf("repeated cancel should be a no-op success, got %v", err)
	}

	reserved, _ := f.ledger.IsReserved(ctx, "doc-1", "20_01_2026", "10:00 AM")
	if !reserved {
		t.Error("repeated cancel must not free the new booking's slot")
	}
	stored, _ := f.appointments.GetByID(ctx, rebooked.ID)
	if stored.Cancelled {
		t.Error("repeated cancel must not affect the new booking")
	}
}

func TestCancelUnknownAppointment(t *testing.T) {
	f := newBookingFixture(t)

	err := f.service.CancelAppointment(context.Background(), "user-1", utils.RolePatient, "missing")
	if !errors.Is(err, ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound, got %v", err)
	}
}

func TestCompleteAppointment(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointment, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := f.service.CompleteAppointment(ctx, "doc-other", appointment.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for foreign doctor, got %v", err)
	}

	if err := f.service.CompleteAppointment(ctx, "doc-1", appointment.ID); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	stored, _ := f.appointments.GetByID(ctx, appointment.ID)
	if !stored.Completed {
		t.Error("appointment not marked completed")
	}
}

func TestCompleteCancelledAppointmentRefused(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointment, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if err := f.service.CancelAppointment(ctx, "user-1", utils.RolePatient, appointment.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if err := f.service.CompleteAppointment(ctx, "doc-1", appointment.ID); !errors.Is(err, ErrAppointmentCancelled) {
		t.Fatalf("expected ErrAppointmentCancelled, got %v", err)
	}
}

func TestMarkPaid(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointment, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if err := f.service.MarkPaid(ctx, "user-2", appointment.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for foreign patient, got %v", err)
	}

	if err := f.service.MarkPaid(ctx, "user-1", appointment.ID); err != nil {
		t.Fatalf("MarkPaid failed: %v", err)
	}
	stored, _ := f.appointments.GetByID(ctx, appointment.ID)
	if !stored.Payment {
		t.Error("payment flag not set")
	}
}

func TestMarkPaidOnCancelledRefused(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointment, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}
	if err := f.service.CancelAppointment(ctx, "user-1", utils.RolePatient, appointment.ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	if err := f.service.MarkPaid(ctx, "user-1", appointment.ID); !errors.Is(err, ErrAppointmentCancelled) {
		t.Fatalf("expected ErrAppointmentCancelled, got %v", err)
	}
}

func TestGetAppointmentScoping(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	appointment, err := f.service.BookSlot(ctx, "user-1", "doc-1", "20_01_2026", "10:00 AM")
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	if _, err := f.service.GetAppointment(ctx, "user-1", utils.RolePatient, appointment.ID); err != nil {
		t.Errorf("owner read failed: %v", err)
	}
	if _, err := f.service.GetAppointment(ctx, "user-2", utils.RolePatient, appointment.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized for foreign patient, got %v", err)
	}
	if _, err := f.service.GetAppointment(ctx, "doc-1", utils.RoleDoctor, appointment.ID); err != nil {
		t.Errorf("doctor read failed: %v", err)
	}
	if _, err := f.service.GetAppointment(ctx, "admin@example.com", utils.RoleAdmin, appointment.ID); err != nil {
		t.Errorf("admin read failed: %v", err)
	}
}

// The ledger must contain exactly the slots of non-cancelled appointments.
func TestLedgerMatchesActiveAppointments(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	slots := []string{"09:00 AM", "10:00 AM", "11:00 AM", "12:00 PM"}
	var booked []*models.Appointment
	for _, slot := range slots {
		a, err := f.service.BookSlot(ctx, "user-1", "doc-1", "22_01_2026", slot)
		if err != nil {
			t.Fatalf("booking %s failed: %v", slot, err)
		}
		booked = append(booked, a)
	}

	if err := f.service.CancelAppointment(ctx, "user-1", utils.RolePatient, booked[1].ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if err := f.service.CancelAppointment(ctx, "user-1", utils.RolePatient, booked[3].ID); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	all, _ := f.appointments.ListAll(ctx)
	for _, a := range all {
		reserved, _ := f.ledger.IsReserved(ctx, a.DoctorID, a.SlotDate, a.SlotTime)
		if a.Cancelled && reserved {
			t.Errorf("cancelled appointment %s still holds its slot", a.ID)
		}
		if !a.Cancelled && !reserved {
			t.Errorf("active appointment %s lost its slot", a.ID)
		}
	}
}
