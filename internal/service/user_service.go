package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/H0M10/NovaGuardianBackend/internal/domain"
	"github.com/H0M10/NovaGuardianBackend/internal/repository"
)

// UserService CRUD over monitored users.
type UserService interface {
	ListUsers(ctx context.Context, req ListUsersRequest) ([]*domain.User, error)
	GetUser(ctx context.Context, userID int64) (*domain.User, error)
	CreateUser(ctx context.Context, req UserParamsRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, userID int64, req UserParamsRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, userID int64) error
}

type userService struct {
	usersRepo repository.UsersRepository
	logger    *zap.Logger
}

func NewUserService(usersRepo repository.UsersRepository, logger *zap.Logger) UserService {
	return &userService{
		usersRepo: usersRepo,
		logger:    logger,
	}
}

// ListUsersRequest list filters. Search matches name and email,
// case-insensitive.
type ListUsersRequest struct {
	Search string
	Limit  int
	Offset int
}

// UserParamsRequest writable user fields, shared by create and update.
// Update overwrites the whole row, so omitted optional fields become NULL.
type UserParamsRequest struct {
	FullName                  string
	Email                     *string
	Phone                     *string
	BirthDate                 *string
	EmergencyContact1Name     *string
	EmergencyContact1Phone    *string
	EmergencyContact1Relation *string
	EmergencyContact2Name     *string
	EmergencyContact2Phone    *string
	EmergencyContact2Relation *string
	MedicalConditions         *string
	Status                    string
}

func (s *userService) ListUsers(ctx context.Context, req ListUsersRequest) ([]*domain.User, error) {
	users, err := s.usersRepo.ListUsers(ctx, strings.TrimSpace(req.Search), req.Limit, req.Offset)
	if err != nil {
		s.logger.Error("ListUsers failed", zap.Error(err))
		return nil, domain.NewPersistence("failed to list users", err)
	}
	return users, nil
}

func (s *userService) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.usersRepo.GetUser(ctx, userID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.NewNotFound("user not found")
		}
		s.logger.Error("GetUser failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, domain.NewPersistence("failed to get user", err)
	}
	return user, nil
}

func (s *userService) CreateUser(ctx context.Context, req UserParamsRequest) (*domain.User, error) {
	params, err := validateUserParams(req)
	if err != nil {
		return nil, err
	}
	// Creation requires at least one reachable emergency contact.
	if req.EmergencyContact1Name == nil || *req.EmergencyContact1Name == "" ||
		req.EmergencyContact1Phone == nil || *req.EmergencyContact1Phone == "" {
		return nil, domain.NewFieldValidation("emergency_contact_1", "at least one emergency contact is required")
	}

	id, err := s.usersRepo.CreateUser(ctx, params)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.NewConflict("email already registered")
		}
		s.logger.Error("CreateUser failed", zap.Error(err))
		return nil, domain.NewPersistence("failed to create user", err)
	}

	s.logger.Info("User created", zap.Int64("user_id", id), zap.String("full_name", params.FullName))
	return s.GetUser(ctx, id)
}

func (s *userService) UpdateUser(ctx context.Context, userID int64, req UserParamsRequest) (*domain.User, error) {
	params, err := validateUserParams(req)
	if err != nil {
		return nil, err
	}

	found, err := s.usersRepo.UpdateUser(ctx, userID, params)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, domain.NewConflict("email already registered")
		}
		s.logger.Error("UpdateUser failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil, domain.NewPersistence("failed to update user", err)
	}
	if !found {
		return nil, domain.NewNotFound("user not found")
	}
	return s.GetUser(ctx, userID)
}

func (s *userService) DeleteUser(ctx context.Context, userID int64) error {
	found, err := s.usersRepo.DeleteUser(ctx, userID)
	if err != nil {
		s.logger.Error("DeleteUser failed", zap.Int64("user_id", userID), zap.Error(err))
		return domain.NewPersistence("failed to delete user", err)
	}
	if !found {
		return domain.NewNotFound("user not found")
	}

	s.logger.Info("User deleted", zap.Int64("user_id", userID))
	return nil
}

func validateUserParams(req UserParamsRequest) (repository.UserParams, error) {
	name := strings.TrimSpace(req.FullName)
	if name == "" {
		return repository.UserParams{}, domain.NewFieldValidation("full_name", "full_name is required")
	}
	status := req.Status
	if status == "" {
		status = "active"
	}
	if status != "active" && status != "inactive" {
		return repository.UserParams{}, domain.NewFieldValidation("status", "status must be active or inactive")
	}
	if req.Email != nil && !strings.Contains(*req.Email, "@") {
		return repository.UserParams{}, domain.NewFieldValidation("email", "email is not valid")
	}
	if req.BirthDate != nil {
		if _, err := time.Parse(dateLayout, *req.BirthDate); err != nil {
			return repository.UserParams{}, domain.NewFieldValidation("birth_date", "birth_date must be YYYY-MM-DD")
		}
	}

	return repository.UserParams{
		FullName:                  name,
		Email:                     req.Email,
		Phone:                     req.Phone,
		BirthDate:                 req.BirthDate,
		EmergencyContact1Name:     req.EmergencyContact1Name,
		EmergencyContact1Phone:    req.EmergencyContact1Phone,
		EmergencyContact1Relation: req.EmergencyContact1Relation,
		EmergencyContact2Name:     req.EmergencyContact2Name,
		EmergencyContact2Phone:    req.EmergencyContact2Phone,
		EmergencyContact2Relation: req.EmergencyContact2Relation,
		MedicalConditions:         req.MedicalConditions,
		Status:                    status,
	}, nil
}
