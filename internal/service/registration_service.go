package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/chiaview/backend/internal/model"
	"github.com/chiaview/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// RegisterInput carries the fields of the public registration form.
type RegisterInput struct {
	Name             string
	Email            string
	Phone            string
	Password         string
	ConfirmPassword  string
	RegistrationType string
	DateOfBirth      string
	Address          string
	City             string
	State            string
	Country          string
	PostalCode       string
	IPAddress        string
	UserAgent        string
}

// RegistrationService defines the business logic for member registrations.
type RegistrationService interface {
	// Register validates the input, hashes the password, and creates the
	// account. Returns ErrEmailTaken when the email is already registered
	// (pre-check or constraint violation) and *ValidationError for
	// caller-fixable input problems.
	Register(ctx context.Context, input RegisterInput) (*model.Registration, error)

	List(ctx context.Context, opts model.RegistrationListOptions) ([]*model.RegistrationSummary, error)
	Get(ctx context.Context, id string) (*model.Registration, error)
	Patch(ctx context.Context, id string, patch model.RegistrationPatch) (*model.Registration, error)
	Delete(ctx context.Context, id string) error
}

// registrationServiceImpl is the production implementation of RegistrationService.
type registrationServiceImpl struct {
	repo repository.RegistrationRepository
}

// NewRegistrationService creates a RegistrationService backed by the given repository.
func NewRegistrationService(repo repository.RegistrationRepository) RegistrationService {
	return &registrationServiceImpl{repo: repo}
}

func (s *registrationServiceImpl) Register(ctx context.Context, input RegisterInput) (*model.Registration, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if name == "" || email == "" || input.Password == "" {
		return nil, NewValidationError("Missing required fields: name, email, password")
	}
	if !emailPattern.MatchString(email) {
		return nil, NewValidationError("Invalid email format")
	}
	if len(input.Password) < minPasswordLength {
		return nil, NewValidationError("Password must be at least 8 characters long")
	}
	if input.Password != input.ConfirmPassword {
		return nil, NewValidationError("Passwords do not match")
	}

	// Pre-check for a friendly error; the unique constraint on email still
	// backstops the check-then-insert race below.
	exists, err := s.repo.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("email lookup: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	registrationType := strings.TrimSpace(input.RegistrationType)
	if registrationType == "" {
		registrationType = "member"
	}

	reg := &model.Registration{
		Name:             name,
		Email:            email,
		Phone:            strings.TrimSpace(input.Phone),
		PasswordHash:     string(hash),
		RegistrationType: registrationType,
		Status:           "active",
		EmailVerified:    false,
		DateOfBirth:      strings.TrimSpace(input.DateOfBirth),
		Address:          strings.TrimSpace(input.Address),
		City:             strings.TrimSpace(input.City),
		State:            strings.TrimSpace(input.State),
		Country:          strings.TrimSpace(input.Country),
		PostalCode:       strings.TrimSpace(input.PostalCode),
		IPAddress:        input.IPAddress,
		UserAgent:        input.UserAgent,
	}

	if err := s.repo.Create(ctx, reg); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

func (s *registrationServiceImpl) List(ctx context.Context, opts model.RegistrationListOptions) ([]*model.RegistrationSummary, error) {
	return s.repo.List(ctx, opts)
}

func (s *registrationServiceImpl) Get(ctx context.Context, id string) (*model.Registration, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *registrationServiceImpl) Patch(ctx context.Context, id string, patch model.RegistrationPatch) (*model.Registration, error) {
	return s.repo.Patch(ctx, id, patch)
}

func (s *registrationServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
