package services

import (
	"Prescripto/models"
	"Prescripto/repositories"
	"Prescripto/utils"
	"context"
)

type DoctorService struct {
	doctors      repositories.DoctorRepository
	ledger       repositories.SlotLedgerRepository
	appointments repositories.AppointmentRepository
	maker        *utils.TokenMaker
}

func NewDoctorService(
	doctors repositories.DoctorRepository,
	ledger repositories.SlotLedgerRepository,
	appointments repositories.AppointmentRepository,
	maker *utils.TokenMaker,
) *DoctorService {
	return &DoctorService{doctors: doctors, ledger: ledger, appointments: appointments, maker: maker}
}

// Login authenticates a doctor and returns a session token.
func (s *DoctorService) Login(ctx context.Context, email, password string) (string, error) {
	doctor, err := s.doctors.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if doctor == nil {
		return "", ErrDoctorNotFound
	}
	if !utils.CheckPassword(doctor.Password, password) {
		return "", ErrInvalidCredentials
	}

	return s.maker.Issue(doctor.ID, utils.RoleDoctor)
}

// List returns every doctor with the booked-slot map attached. This is the
// public catalogue; passwords never leave the model thanks to json:"-".
func (s *DoctorService) List(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.doctors.List(ctx)
	if err != nil {
		return nil, err
	}

	booked, err := s.ledger.MapAll(ctx)
	if err != nil {
		return nil, err
	}

	for i := range doctors {
		slots := booked[doctors[i].ID]
		if slots == nil {
			slots = map[string][]string{}
		}
		doctors[i].BookedSlots = slots
	}
	return doctors, nil
}

func (s *DoctorService) Profile(ctx context.Context, doctorID string) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	booked, err := s.ledger.MapForDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	doctor.BookedSlots = booked
	return doctor, nil
}

// ChangeAvailability toggles whether the doctor accepts new bookings.
// Existing appointments are unaffected.
func (s *DoctorService) ChangeAvailability(ctx context.Context, doctorID string) error {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}

	return s.doctors.SetAvailability(ctx, doctorID, !doctor.Available)
}

func (s *DoctorService) UpdateProfile(ctx context.Context, doctorID string, fees float64, address string, available bool) error {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}
	if fees < 0 {
		return ErrInvalidInput
	}

	return s.doctors.UpdateProfile(ctx, doctorID, fees, address, available)
}

// DoctorDashboard aggregates a doctor's earnings, patient count, and
// latest bookings.
type DoctorDashboard struct {
	Earnings           float64              `json:"earnings"`
	Appointments       int                  `json:"appointments"`
	Patients           int                  `json:"patients"`
	LatestAppointments []models.Appointment `json:"latestAppointments"`
}

func (s *DoctorService) Dashboard(ctx context.Context, doctorID string) (*DoctorDashboard, error) {
	appointments, err := s.appointments.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	dash := &DoctorDashboard{Appointments: len(appointments)}
	patients := make(map[string]struct{})
	for _, a := range appointments {
		// Earnings count paid or fulfilled visits only.
		if a.Payment || a.Completed {
			dash.Earnings += a.Amount
		}
		patients[a.UserID] = struct{}{}
	}
	dash.Patients = len(patients)

	if len(appointments) > 5 {
		dash.LatestAppointments = appointments[:5]
	} else {
		dash.LatestAppointments = appointments
	}
	return dash, nil
}
