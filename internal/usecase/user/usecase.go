package user

import (
	"context"

	"go.uber.org/zap"

	domain "user-auth-service/internal/domain/user"
	pkgerrors "user-auth-service/pkg/errors"
)

// Repository defines the interface for user data access operations.
// It abstracts the data layer, allowing different implementations
// (e.g., PostgreSQL, MongoDB) to be used interchangeably.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (string, error)         // Create a new user, returns the generated ID
	GetByID(ctx context.Context, id string) (*domain.User, error)       // Retrieve user by ID
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // Retrieve user by email, nil if absent
}

// ProfileUsecase serves read-only profile lookups for authenticated users.
type ProfileUsecase struct {
	repo Repository
	log  *zap.Logger
}

// New creates a new instance of ProfileUsecase.
func New(r Repository, log *zap.Logger) *ProfileUsecase {
	return &ProfileUsecase{repo: r, log: log}
}

// GetProfile retrieves a user by ID. The password hash never leaves this layer.
func (uc *ProfileUsecase) GetProfile(ctx context.Context, in GetProfileRequest) (*GetProfileResponse, error) {
	if in.ID == "" {
		uc.log.Warn("get profile validation failed", zap.String("reason", "empty id"))
		return nil, pkgerrors.NewValidationError("id", "invalid user id")
	}

	u, err := uc.repo.GetByID(ctx, in.ID)
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindNotFound {
			return nil, err
		}
		uc.log.Error("failed to get user", zap.String("id", in.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to get user", err)
	}

	return &GetProfileResponse{
		ID:          u.ID,
		Name:        u.Name,
		Address:     u.Address,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
	}, nil
}
