package service

import (
	"context"
	"strings"

	"foodstack-pos/internal/apperr"
	"foodstack-pos/internal/model"
	"foodstack-pos/internal/repository"
	"foodstack-pos/pkg/cpf"
	"foodstack-pos/pkg/validator"

	"github.com/google/uuid"
)

type UserService interface {
	Register(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.User, error)
	Update(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error)
	Delete(ctx context.Context, userID uuid.UUID, deleterID string) error
	List(ctx context.Context) ([]model.User, error)
	Search(ctx context.Context, term string) ([]model.User, error)
	// GetByID returns (nil, nil) when no such user exists.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	// FindByCPF accepts formatted or digit-only input and returns (nil, nil) when absent.
	FindByCPF(ctx context.Context, rawCPF string) (*model.User, error)
	ResetSecret(ctx context.Context, rawCPF, newSecret string) error
}

type CreateUserRequest struct {
	Name   string `json:"name" validate:"required"`
	CPF    string `json:"cpf" validate:"required,cpf"`
	Secret string `json:"secret" validate:"required,min=4"`
	Email  string `json:"email" validate:"omitempty,email"`
	Phone  string `json:"phone"`
	Login  string `json:"login"`
}

type UpdateUserRequest struct {
	Name   string  `json:"name" validate:"required"`
	CPF    string  `json:"cpf" validate:"required,cpf"`
	Secret *string `json:"secret,omitempty"` // Optional, blank keeps the current one
	Email  string  `json:"email" validate:"omitempty,email"`
	Phone  string  `json:"phone"`
	Login  string  `json:"login"`
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Register(ctx context.Context, req *CreateUserRequest, creatorID string) (*model.User, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.Message(errs))
	}
	digits := cpf.Normalize(req.CPF)

	// 2. Check if CPF already belongs to someone
	if err := s.ensureCPFFree(ctx, digits, uuid.Nil); err != nil {
		return nil, err
	}

	// 3. Create user
	user := &model.User{
		Name:  strings.TrimSpace(req.Name),
		CPF:   digits,
		Email: strings.TrimSpace(req.Email),
		Phone: strings.TrimSpace(req.Phone),
		Login: strings.TrimSpace(req.Login),
	}
	user.CreatedBy = creatorID
	user.UpdatedBy = creatorID

	// 4. Hash secret
	if err := user.SetSecret(req.Secret); err != nil {
		return nil, apperr.New(apperr.KindInternal, "failed to hash secret")
	}

	// 5. Save to database
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrCPFTaken
		}
		return nil, apperr.Unavailable("create user", err)
	}

	return user, nil
}

func (s *userService) Update(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest, updaterID string) (*model.User, error) {
	// 1. Validate request
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return nil, apperr.Validation("%s", validator.Message(errs))
	}

	// 2. Find existing user
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr("user", "get user", err)
	}

	// 3. Check if CPF is being changed and already taken
	digits := cpf.Normalize(req.CPF)
	if digits != user.CPF {
		if err := s.ensureCPFFree(ctx, digits, user.ID); err != nil {
			return nil, err
		}
	}

	// 4. Update user fields
	user.Name = strings.TrimSpace(req.Name)
	user.CPF = digits
	user.Email = strings.TrimSpace(req.Email)
	user.Phone = strings.TrimSpace(req.Phone)
	user.Login = strings.TrimSpace(req.Login)
	user.UpdatedBy = updaterID

	// 5. Update secret if provided
	if req.Secret != nil && *req.Secret != "" {
		if err := user.SetSecret(*req.Secret); err != nil {
			return nil, apperr.New(apperr.KindInternal, "failed to hash secret")
		}
	}

	// 6. Save to database
	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsDuplicate(err) {
			return nil, ErrCPFTaken
		}
		return nil, apperr.Unavailable("update user", err)
	}

	return user, nil
}

func (s *userService) Delete(ctx context.Context, userID uuid.UUID, deleterID string) error {
	rows, err := s.userRepo.Delete(ctx, userID, deleterID)
	if err != nil {
		return apperr.Unavailable("delete user", err)
	}
	if rows == 0 {
		return apperr.NotFound("user")
	}
	return nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Unavailable("list users", err)
	}
	return users, nil
}

// Search matches the name case-insensitively. A term made only of digits and CPF
// punctuation also matches the CPF.
func (s *userService) Search(ctx context.Context, term string) ([]model.User, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}

	users, err := s.userRepo.Search(ctx, term, cpfTerm(term))
	if err != nil {
		return nil, apperr.Unavailable("search users", err)
	}
	return users, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperr.Unavailable("get user", err)
	}
	return user, nil
}

func (s *userService) FindByCPF(ctx context.Context, rawCPF string) (*model.User, error) {
	digits := cpf.Normalize(rawCPF)
	if digits == "" {
		return nil, nil
	}
	user, err := s.userRepo.FindByCPF(ctx, digits)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, apperr.Unavailable("find user by cpf", err)
	}
	return user, nil
}

// ResetSecret replaces a staff member's secret. Used by the reset-password command.
func (s *userService) ResetSecret(ctx context.Context, rawCPF, newSecret string) error {
	if len(newSecret) < 4 {
		return apperr.Validation("secret must have at least 4 characters")
	}

	user, err := s.FindByCPF(ctx, rawCPF)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user")
	}

	if err := user.SetSecret(newSecret); err != nil {
		return apperr.New(apperr.KindInternal, "failed to hash secret")
	}
	if _, err := s.userRepo.UpdateSecret(ctx, user.ID, user.Secret); err != nil {
		return apperr.Unavailable("reset secret", err)
	}
	return nil
}

func (s *userService) ensureCPFFree(ctx context.Context, digits string, self uuid.UUID) error {
	existing, err := s.userRepo.FindByCPF(ctx, digits)
	switch {
	case err == nil && existing.ID != self:
		return ErrCPFTaken
	case err != nil && !repository.IsNotFound(err):
		return apperr.Unavailable("check cpf", err)
	}
	return nil
}

// cpfTerm returns the digits of term when it looks like a (partial) CPF, otherwise "".
func cpfTerm(term string) string {
	stripped := strings.NewReplacer(".", "", "-", "", " ", "").Replace(term)
	if stripped == "" {
		return ""
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return ""
		}
	}
	return stripped
}
