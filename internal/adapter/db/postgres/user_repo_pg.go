package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-auth-service/internal/domain/user"
	pkgerrors "user-auth-service/pkg/errors"
)

// UserRepoPG implements the user Repository with GORM. It runs against
// PostgreSQL in production and SQLite for local runs and tests.
type UserRepoPG struct {
	db  *gorm.DB    // GORM database connection
	log *zap.Logger // Structured logger for database operations
}

// NewUserRepoPG creates a new instance of UserRepoPG.
func NewUserRepoPG(db *gorm.DB, log *zap.Logger) *UserRepoPG {
	return &UserRepoPG{db: db, log: log}
}

// UserSchema represents the database schema for the users table.
type UserSchema struct {
	ID           string `gorm:"primaryKey;size:36"`       // UUID assigned on insert
	Name         string `gorm:"not null;default:''"`      // User's full name
	Address      string `gorm:"not null;default:''"`      // Postal address
	Email        string `gorm:"not null;uniqueIndex"`     // Unique email address
	PhoneNumber  string `gorm:"not null;default:''"`      // Contact number
	PasswordHash string `gorm:"column:password;not null"` // bcrypt hash
}

// TableName specifies the table name for the UserSchema model.
func (UserSchema) TableName() string {
	return "users"
}

// Migrate creates or updates the users table, including the unique email index.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&UserSchema{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

// Create inserts a new user and returns its generated ID.
// A unique-index violation on email is reported as a ConflictError.
func (r *UserRepoPG) Create(ctx context.Context, u *user.User) (string, error) {
	if u == nil {
		return "", errors.New("user cannot be nil")
	}

	model := UserSchema{
		ID:           uuid.NewString(),
		Name:         u.Name,
		Address:      u.Address,
		Email:        u.Email,
		PhoneNumber:  u.PhoneNumber,
		PasswordHash: u.PasswordHash,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		if isDuplicateKey(err) {
			r.log.Warn("duplicate email rejected by unique index", zap.String("email", u.Email))
			return "", pkgerrors.NewConflictError("user", "User already exists")
		}
		r.log.Error("failed to create user in db", zap.Error(err), zap.String("email", u.Email))
		return "", fmt.Errorf("failed to create user: %w", err)
	}

	r.log.Info("user created in db", zap.String("id", model.ID))
	return model.ID, nil
}

// GetByID retrieves a user from the database by their unique ID.
func (r *UserRepoPG) GetByID(ctx context.Context, id string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Warn("user not found", zap.String("id", id))
			return nil, pkgerrors.NewNotFoundError("user", "User not found")
		}
		r.log.Error("failed to get user from db", zap.Error(err), zap.String("id", id))
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toDomain(model), nil
}

// GetByEmail retrieves a user by email address. A missing user is (nil, nil).
func (r *UserRepoPG) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserSchema
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.log.Debug("user not found by email", zap.String("email", email))
			return nil, nil
		}
		r.log.Error("failed to get user by email from db", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return toDomain(model), nil
}

// Ping checks the underlying connection.
func (r *UserRepoPG) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// isDuplicateKey covers drivers opened without gorm's TranslateError.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func toDomain(m UserSchema) *user.User {
	return &user.User{
		ID:           m.ID,
		Name:         m.Name,
		Address:      m.Address,
		Email:        m.Email,
		PhoneNumber:  m.PhoneNumber,
		PasswordHash: m.PasswordHash,
	}
}
