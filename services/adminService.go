package services

import (
	"Prescripto/config"
	"Prescripto/models"
	"Prescripto/repositories"
	"Prescripto/utils"
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/google/uuid"
)

type AdminService struct {
	cfg          *config.AppConfig
	doctors      repositories.DoctorRepository
	users        repositories.UserRepository
	appointments repositories.AppointmentRepository
	maker        *utils.TokenMaker
}

func NewAdminService(
	cfg *config.AppConfig,
	doctors repositories.DoctorRepository,
	users repositories.UserRepository,
	appointments repositories.AppointmentRepository,
	maker *utils.TokenMaker,
) *AdminService {
	return &AdminService{cfg: cfg, doctors: doctors, users: users, appointments: appointments, maker: maker}
}

// Login checks the submitted credentials against the configured admin
// identity in constant time and issues an admin token on success.
func (s *AdminService) Login(ctx context.Context, email, password string) (string, error) {
	emailOK := secureCompare(email, s.cfg.AdminEmail)
	passwordOK := secureCompare(password, s.cfg.AdminPassword)
	if !emailOK || !passwordOK {
		return "", ErrInvalidCredentials
	}

	return s.maker.Issue(s.cfg.AdminEmail, utils.RoleAdmin)
}

// NewDoctorInput is the admin add-doctor form.
type NewDoctorInput struct {
	Name       string
	Email      string
	Password   string
	Speciality string
	Degree     string
	Experience string
	About      string
	Fees       float64
	Address    string
	ImageURL   string
}

// AddDoctor registers a doctor the admin entered. Doctors start available.
func (s *AdminService) AddDoctor(ctx context.Context, input NewDoctorInput) (*models.Doctor, error) {
	if err := utils.ValidateNewDoctor(input.Name, input.Email, input.Password, input.Speciality, input.Fees); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	exists, err := s.doctors.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	doctor := &models.Doctor{
		ID:         uuid.New().String(),
		Name:       input.Name,
		Email:      input.Email,
		Password:   hashedPassword,
		Speciality: input.Speciality,
		Degree:     input.Degree,
		Experience: input.Experience,
		About:      input.About,
		Fees:       input.Fees,
		Address:    input.Address,
		Image:      input.ImageURL,
		Available:  true,
	}
	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

// AdminDashboard aggregates panel-wide counts and the latest bookings.
type AdminDashboard struct {
	Doctors            int64                `json:"doctors"`
	Patients           int64                `json:"patients"`
	Appointments       int64                `json:"appointments"`
	LatestAppointments []models.Appointment `json:"latestAppointments"`
}

func (s *AdminService) Dashboard(ctx context.Context) (*AdminDashboard, error) {
	doctorCount, err := s.doctors.Count(ctx)
	if err != nil {
		return nil, err
	}
	patientCount, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	appointmentCount, err := s.appointments.Count(ctx)
	if err != nil {
		return nil, err
	}

	latest, err := s.appointments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(latest) > 5 {
		latest = latest[:5]
	}

	return &AdminDashboard{
		Doctors:            doctorCount,
		Patients:           patientCount,
		Appointments:       appointmentCount,
		LatestAppointments: latest,
	}, nil
}

// secureCompare performs a constant-time comparison to mitigate timing
// attacks on the fixed admin credentials.
func secureCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
