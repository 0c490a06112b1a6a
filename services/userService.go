package services

import (
	"Prescripto/models"
	"Prescripto/repositories"
	"Prescripto/utils"
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Profile fields default to the placeholders clients expect before the
// user fills them in.
const profileNotSelected = "Not Selected"

type UserService struct {
	users repositories.UserRepository
	maker *utils.TokenMaker
}

func NewUserService(users repositories.UserRepository, maker *utils.TokenMaker) *UserService {
	return &UserService{users: users, maker: maker}
}

// Register creates a patient account and returns a session token.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	if err := utils.ValidateRegistration(name, email, password); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrDuplicateEmail
	}

	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Name:     name,
		Email:    email,
		Password: hashedPassword,
		Phone:    "000000000",
		Dob:      profileNotSelected,
		Gender:   profileNotSelected,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return "", err
	}

	return s.maker.Issue(user.ID, utils.RolePatient)
}

// Login authenticates a patient and returns a session token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUserNotFound
	}
	if !utils.CheckPassword(user.Password, password) {
		return "", ErrInvalidCredentials
	}

	return s.maker.Issue(user.ID, utils.RolePatient)
}

func (s *UserService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateProfile edits the live user record. Snapshots embedded in past
// appointments are untouched.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, phone, address, dob, gender, imageURL string) error {
	if name == "" || phone == "" {
		return ErrInvalidInput
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	user.Name = name
	user.Phone = phone
	user.Address = address
	user.Dob = dob
	user.Gender = gender
	if imageURL != "" {
		user.Image = imageURL
	}

	return s.users.UpdateProfile(ctx, user)
}
