package auth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	domain "user-auth-service/internal/domain/user"
	pkgerrors "user-auth-service/pkg/errors"
	"user-auth-service/pkg/security"
	"user-auth-service/pkg/token"
)

// MockRepository is a mock implementation of user.Repository
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, u *domain.User) (string, error) {
	args := m.Called(ctx, u)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) Issue(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

// setupTestUsecase wires a mock store with a real low-cost bcrypt hasher and
// a real JWT issuer.
func setupTestUsecase(t *testing.T) (*AuthUsecase, *MockRepository, *token.Issuer) {
	mockRepo := new(MockRepository)
	issuer, err := token.NewIssuer("test-secret", token.DefaultTTL)
	require.NoError(t, err)
	uc := New(mockRepo, security.NewBcryptHasher(bcrypt.MinCost), issuer, zaptest.NewLogger(t))
	return uc, mockRepo, issuer
}

func validSignup() SignupRequest {
	return SignupRequest{
		Name:            "A",
		Address:         "X",
		Email:           "a@b.com",
		PhoneNumber:     "1",
		Password:        "p1",
		ConfirmPassword: "p1",
	}
}

// ==================== SIGNUP TESTS ====================

func TestSignup_Success(t *testing.T) {
	uc, mockRepo, issuer := setupTestUsecase(t)
	ctx := context.Background()
	req := validSignup()

	var stored *domain.User
	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		stored = u
		return u.Name == "A" && u.Address == "X" && u.Email == "a@b.com" && u.PhoneNumber == "1"
	})).Return("u-1", nil)

	resp, err := uc.Signup(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "u-1", resp.UserID)

	claims, err := issuer.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)

	// The stored credential is a hash of the plaintext, never the plaintext itself
	require.NotNil(t, stored)
	assert.NotEqual(t, req.Password, stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(req.Password)))

	mockRepo.AssertExpectations(t)
}

func TestSignup_PasswordMismatch(t *testing.T) {
	inputs := []SignupRequest{
		{Email: "a@b.com", Password: "p1", ConfirmPassword: "p2"},
		{Email: "", Password: "p1", ConfirmPassword: ""},
		{Email: "not-an-email", Password: "", ConfirmPassword: "x"},
	}

	for _, in := range inputs {
		uc, mockRepo, _ := setupTestUsecase(t)

		resp, err := uc.Signup(context.Background(), in)

		assert.Nil(t, resp)
		require.Error(t, err)
		assert.Equal(t, pkgerrors.KindValidation, pkgerrors.KindOf(err))
		assert.Equal(t, MsgPasswordMismatch, err.Error())
		mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestSignup_ValidationError_PasswordTooLong(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	req := validSignup()
	req.Password = strings.Repeat("a", 73)
	req.ConfirmPassword = req.Password

	resp, err := uc.Signup(context.Background(), req)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindValidation, pkgerrors.KindOf(err))
	assert.Equal(t, "Password must be at most 72 characters", err.Error())
	mockRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_AcceptsFreeFormEmailAndEmptyPassword(t *testing.T) {
	tests := []struct {
		name            string
		email           string
		password        string
		confirmPassword string
	}{
		{name: "email without domain", email: "alice", password: "p1", confirmPassword: "p1"},
		{name: "empty password confirmed", email: "bob@example.com", password: "", confirmPassword: ""},
		{name: "empty email", email: "", password: "p1", confirmPassword: "p1"},
		{name: "password at bcrypt limit", email: "carol@example.com", password: strings.Repeat("a", 72), confirmPassword: strings.Repeat("a", 72)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, mockRepo, issuer := setupTestUsecase(t)
			ctx := context.Background()
			req := validSignup()
			req.Email, req.Password, req.ConfirmPassword = tt.email, tt.password, tt.confirmPassword

			mockRepo.On("GetByEmail", ctx, tt.email).Return(nil, nil)
			mockRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
				return u.Email == tt.email && bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(tt.password)) == nil
			})).Return("u-1", nil)

			resp, err := uc.Signup(ctx, req)

			require.NoError(t, err)
			assert.Equal(t, "u-1", resp.UserID)
			claims, err := issuer.Parse(resp.Token)
			require.NoError(t, err)
			assert.Equal(t, "u-1", claims.UserID)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestSignup_EmailAlreadyExists(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()
	req := validSignup()

	mockRepo.On("GetByEmail", ctx, req.Email).Return(&domain.User{ID: "u-0", Email: req.Email}, nil)

	resp, err := uc.Signup(ctx, req)

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindConflict, pkgerrors.KindOf(err))
	assert.Equal(t, MsgUserExists, err.Error())
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignup_ConcurrentDuplicateRejectedByStore(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()
	req := validSignup()

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.Anything).Return("", pkgerrors.NewConflictError("user", "duplicate key"))

	_, err := uc.Signup(ctx, req)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindConflict, pkgerrors.KindOf(err))
	assert.Equal(t, MsgUserExists, err.Error())
}

func TestSignup_LookupFailure(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()
	req := validSignup()

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, errors.New("connection refused"))

	_, err := uc.Signup(ctx, req)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindInternal, pkgerrors.KindOf(err))
	assert.Equal(t, "connection refused", pkgerrors.Cause(err))
}

func TestSignup_CreateFailure(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()
	req := validSignup()

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.Anything).Return("", errors.New("disk full"))

	_, err := uc.Signup(ctx, req)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindInternal, pkgerrors.KindOf(err))
	assert.Equal(t, "disk full", pkgerrors.Cause(err))
}

func TestSignup_TokenFailureKeepsRecord(t *testing.T) {
	mockRepo := new(MockRepository)
	mockIssuer := new(MockTokenIssuer)
	uc := New(mockRepo, security.NewBcryptHasher(bcrypt.MinCost), mockIssuer, zaptest.NewLogger(t))
	ctx := context.Background()
	req := validSignup()

	mockRepo.On("GetByEmail", ctx, req.Email).Return(nil, nil)
	mockRepo.On("Create", ctx, mock.Anything).Return("u-1", nil)
	mockIssuer.On("Issue", "u-1").Return("", errors.New("signing failed"))

	_, err := uc.Signup(ctx, req)

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindInternal, pkgerrors.KindOf(err))
	// Nothing compensates the insert
	mockRepo.AssertNumberOfCalls(t, "Create", 1)
	mockRepo.AssertExpectations(t)
	mockIssuer.AssertExpectations(t)
}

// ==================== SIGNIN TESTS ====================

func storedUser(t *testing.T, password string) *domain.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &domain.User{ID: "u-1", Email: "a@b.com", PasswordHash: string(hash)}
}

func TestSignin_Success(t *testing.T) {
	uc, mockRepo, issuer := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "a@b.com").Return(storedUser(t, "p1"), nil)

	resp, err := uc.Signin(ctx, SigninRequest{Email: "a@b.com", Password: "p1"})

	require.NoError(t, err)
	claims, err := issuer.Parse(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
}

func TestSignin_UnknownEmail(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "nobody@b.com").Return(nil, nil)

	resp, err := uc.Signin(ctx, SigninRequest{Email: "nobody@b.com", Password: "p1"})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindNotFound, pkgerrors.KindOf(err))
	assert.Equal(t, MsgUserNotFound, err.Error())
}

func TestSignin_WrongPassword(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "a@b.com").Return(storedUser(t, "p1"), nil)

	resp, err := uc.Signin(ctx, SigninRequest{Email: "a@b.com", Password: "wrong"})

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindInvalidCredentials, pkgerrors.KindOf(err))
	assert.Equal(t, MsgInvalidCredentials, err.Error())
}

func TestSignin_CorruptHash(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "a@b.com").Return(&domain.User{ID: "u-1", PasswordHash: "plain"}, nil)

	_, err := uc.Signin(ctx, SigninRequest{Email: "a@b.com", Password: "plain"})

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindInternal, pkgerrors.KindOf(err))
}

func TestSignin_LookupFailure(t *testing.T) {
	uc, mockRepo, _ := setupTestUsecase(t)
	ctx := context.Background()

	mockRepo.On("GetByEmail", ctx, "a@b.com").Return(nil, errors.New("timeout"))

	_, err := uc.Signin(ctx, SigninRequest{Email: "a@b.com", Password: "p1"})

	require.Error(t, err)
	assert.Equal(t, pkgerrors.KindInternal, pkgerrors.KindOf(err))
	assert.Equal(t, "timeout", pkgerrors.Cause(err))
}

// ==================== VALIDATION HELPER TESTS ====================

func TestFormatValidationError_NonValidationError(t *testing.T) {
	err := formatValidationError(errors.New("some other error"))

	assert.Equal(t, pkgerrors.KindInternal, pkgerrors.KindOf(err))
}
