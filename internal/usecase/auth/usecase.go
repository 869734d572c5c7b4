package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "user-auth-service/internal/domain/user"
	"user-auth-service/internal/usecase/user"
	pkgerrors "user-auth-service/pkg/errors"
	"user-auth-service/pkg/security"
)

// Messages returned to clients for each rejection.
const (
	MsgPasswordMismatch   = "Passwords don't match"
	MsgUserExists         = "User already exists"
	MsgUserNotFound       = "User not found"
	MsgInvalidCredentials = "Invalid credentials"
)

// AuthUsecase implements signup and signin. Each call is a linear sequence
// of checks ending in a token, one typed rejection, or an internal error.
type AuthUsecase struct {
	repo     user.Repository         // Store for user records
	hasher   security.PasswordHasher // One-way password hashing
	tokens   TokenIssuer             // Session token signing
	log      *zap.Logger             // Logger for structured logging
	validate *validator.Validate     // Validator for request validation
}

// New creates a new AuthUsecase from its collaborators.
func New(r user.Repository, h security.PasswordHasher, t TokenIssuer, log *zap.Logger) *AuthUsecase {
	return &AuthUsecase{repo: r, hasher: h, tokens: t, log: log, validate: validator.New()}
}

// formatValidationError converts validator.ValidationErrors into a human-readable error message.
func formatValidationError(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return pkgerrors.NewInternalError("failed to validate request", err)
	}

	var messages []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", e.Field()))
		}
	}
	field := ""
	if len(validationErrors) == 1 {
		field = validationErrors[0].Field()
	}
	return pkgerrors.NewValidationError(field, strings.Join(messages, ", "))
}

// Signup creates an account and returns a session token for it.
//
// Email uniqueness is checked before insert; the store's unique index
// catches the concurrent case and surfaces as the same conflict. If
// signing fails after the insert, the record is kept.
func (uc *AuthUsecase) Signup(ctx context.Context, in SignupRequest) (*TokenResponse, error) {
	uc.log.Info("signing up user", zap.String("email", in.Email))

	if in.Password != in.ConfirmPassword {
		uc.log.Warn("password confirmation mismatch", zap.String("email", in.Email))
		return nil, pkgerrors.NewValidationError("confirmPassword", MsgPasswordMismatch)
	}

	if err := uc.validate.Struct(in); err != nil {
		uc.log.Warn("validate failed", zap.Error(err))
		return nil, formatValidationError(err)
	}

	existing, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to check existing email", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to check existing email", err)
	}
	if existing != nil {
		uc.log.Warn("email already exists", zap.String("email", in.Email))
		return nil, pkgerrors.NewConflictError("user", MsgUserExists)
	}

	hash, err := uc.hasher.Hash(in.Password)
	if err != nil {
		uc.log.Error("failed to hash password", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to hash password", err)
	}

	id, err := uc.repo.Create(ctx, &domain.User{
		Name:         in.Name,
		Address:      in.Address,
		Email:        in.Email,
		PhoneNumber:  in.PhoneNumber,
		PasswordHash: hash,
	})
	if err != nil {
		if pkgerrors.KindOf(err) == pkgerrors.KindConflict {
			uc.log.Warn("email claimed concurrently", zap.String("email", in.Email))
			return nil, pkgerrors.NewConflictError("user", MsgUserExists)
		}
		uc.log.Error("failed to create user", zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to create user", err)
	}

	tok, err := uc.tokens.Issue(id)
	if err != nil {
		uc.log.Error("failed to issue token, user record kept", zap.String("id", id), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to issue token", err)
	}

	uc.log.Info("user signed up", zap.String("id", id))
	return &TokenResponse{UserID: id, Token: tok}, nil
}

// Signin verifies an email/password pair and returns a session token.
func (uc *AuthUsecase) Signin(ctx context.Context, in SigninRequest) (*TokenResponse, error) {
	uc.log.Info("signing in user", zap.String("email", in.Email))

	u, err := uc.repo.GetByEmail(ctx, in.Email)
	if err != nil {
		uc.log.Error("failed to look up user", zap.String("email", in.Email), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to look up user", err)
	}
	if u == nil {
		uc.log.Warn("signin for unknown email", zap.String("email", in.Email))
		return nil, pkgerrors.NewNotFoundError("user", MsgUserNotFound)
	}

	ok, err := uc.hasher.Compare(u.PasswordHash, in.Password)
	if err != nil {
		uc.log.Error("failed to verify password", zap.String("id", u.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to verify password", err)
	}
	if !ok {
		uc.log.Warn("invalid credentials", zap.String("id", u.ID))
		return nil, pkgerrors.NewInvalidCredentialsError(MsgInvalidCredentials)
	}

	tok, err := uc.tokens.Issue(u.ID)
	if err != nil {
		uc.log.Error("failed to issue token", zap.String("id", u.ID), zap.Error(err))
		return nil, pkgerrors.NewInternalError("failed to issue token", err)
	}

	uc.log.Info("user signed in", zap.String("id", u.ID))
	return &TokenResponse{UserID: u.ID, Token: tok}, nil
}
