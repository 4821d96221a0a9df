package services_test

import (
	"log"
	"os"
	"testing"
	"time"

	"kritika/internal/apperrors"
	"kritika/internal/models"
	"kritika/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// TestMain is used to set up the test environment.
func TestMain(m *testing.M) {
	log.SetOutput(os.Stdout)
	code := m.Run()
	os.Exit(code)
}

func newAuthService(users *MockUserRepository, codes *MockCodeRepository, sender *MockCodeSender) *services.AuthService {
	return services.NewAuthService(users, codes, sender, "test_jwt_secret")
}

func TestAuthService_RequestSignup_NewUser(t *testing.T) {
	users := new(MockUserRepository)
	codes := new(MockCodeRepository)
	sender := new(MockCodeSender)
	authService := newAuthService(users, codes, sender)

	users.On("GetByUsername", "newuser").Return(nil, apperrors.NewNotFound("user", "newuser")).Once()
	users.On("GetByEmail", "new@example.com").Return(nil, apperrors.NewNotFound("user", "new@example.com")).Once()
	users.On("Create", mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.User).ID = "user-1"
	}).Return(nil).Once()
	codes.On("ConsumeAllForUser", "user-1").Return(nil).Once()
	codes.On("Create", mock.AnythingOfType("*models.ConfirmationCode")).Return(nil).Once()
	sender.On("SendConfirmationCode", "new@example.com", "newuser", mock.AnythingOfType("string")).Return(nil).Once()

	user, err := authService.RequestSignup("newuser", "new@example.com")
	assert.NoError(t, err)
	assert.Equal(t, "newuser", user.Username)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEmpty(t, sender.LastCode)
	users.AssertExpectations(t)
	codes.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestAuthService_RequestSignup_ReusesExactPair(t *testing.T) {
	users := new(MockUserRepository)
	codes := new(MockCodeRepository)
	sender := new(MockCodeSender)
	authService := newAuthService(users, codes, sender)

	existing := &models.User{ID: "user-1", Username: "repeat", Email: "repeat@example.com", Role: models.RoleUser}
	users.On("GetByUsername", "repeat").Return(existing, nil).Twice()
	users.On("GetByEmail", "repeat@example.com").Return(existing, nil).Twice()
	codes.On("ConsumeAllForUser", "user-1").Return(nil).Twice()
	codes.On("Create", mock.AnythingOfType("*models.ConfirmationCode")).Return(nil).Twice()
	sender.On("SendConfirmationCode", "repeat@example.com", "repeat", mock.AnythingOfType("string")).Return(nil).Twice()

	user, err := authService.RequestSignup("repeat", "repeat@example.com")
	assert.NoError(t, err)
	firstCode := sender.LastCode

	// The same pair reuses the user and issues a fresh code; no second
	// account is created.
	again, err := authService.RequestSignup("repeat", "repeat@example.com")
	assert.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.NotEqual(t, firstCode, sender.LastCode)
	users.AssertNotCalled(t, "Create", mock.Anything)
	users.AssertExpectations(t)
}

func TestAuthService_RequestSignup_AmbiguousCollision(t *testing.T) {
	users := new(MockUserRepository)
	codes := new(MockCodeRepository)
	sender := new(MockCodeSender)
	authService := newAuthService(users, codes, sender)

	existing := &models.User{ID: "user-1", Username: "taken", Email: "taken@example.com"}
	users.On("GetByUsername", "taken").Return(existing, nil).Once()
	users.On("GetByEmail", "other@example.com").Return(nil, apperrors.NewNotFound("user", "other@example.com")).Once()

	_, err := authService.RequestSignup("taken", "other@example.com")
	var conflict *apperrors.ConflictError
	assert.ErrorAs(t, err, &conflict)
	codes.AssertNotCalled(t, "Create", mock.Anything)
	sender.AssertNotCalled(t, "SendConfirmationCode", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthService_RequestSignup_ReservedUsername(t *testing.T) {
	authService := newAuthService(new(MockUserRepository), new(MockCodeRepository), new(MockCodeSender))

	_, err := authService.RequestSignup("me", "me@example.com")
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "username")

	_, err = authService.RequestSignup("Me", "me@example.com")
	assert.ErrorAs(t, err, &validation)
}

func TestAuthService_RequestSignup_BadUsernamePattern(t *testing.T) {
	authService := newAuthService(new(MockUserRepository), new(MockCodeRepository), new(MockCodeSender))

	_, err := authService.RequestSignup("bad name!", "ok@example.com")
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "username")
}

func TestAuthService_RequestSignup_MailFailureFailsLoudly(t *testing.T) {
	users := new(MockUserRepository)
	codes := new(MockCodeRepository)
	sender := new(MockCodeSender)
	authService := newAuthService(users, codes, sender)

	existing := &models.User{ID: "user-1", Username: "bob", Email: "bob@example.com"}
	users.On("GetByUsername", "bob").Return(existing, nil).Once()
	users.On("GetByEmail", "bob@example.com").Return(existing, nil).Once()
	codes.On("ConsumeAllForUser", "user-1").Return(nil).Once()
	codes.On("Create", mock.AnythingOfType("*models.ConfirmationCode")).Return(nil).Once()
	sender.On("SendConfirmationCode", "bob@example.com", "bob", mock.AnythingOfType("string")).
		Return(assert.AnError).Once()

	_, err := authService.RequestSignup("bob", "bob@example.com")
	assert.Error(t, err)
	// The credential stays persisted; only the request fails.
	codes.AssertExpectations(t)
}

func TestAuthService_ConfirmSignup(t *testing.T) {
	users := new(MockUserRepository)
	codes := new(MockCodeRepository)
	authService := newAuthService(users, codes, new(MockCodeSender))

	user := &models.User{ID: "user-1", Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	hash, _ := bcrypt.GenerateFromPassword([]byte("code-123"), bcrypt.DefaultCost)
	record := &models.ConfirmationCode{ID: "code-1", UserID: "user-1", CodeHash: string(hash), IssuedAt: time.Now()}

	users.On("GetByUsername", "alice").Return(user, nil).Once()
	codes.On("ActiveByUserID", "user-1").Return(record, nil).Once()
	codes.On("Consume", "code-1").Return(nil).Once()

	token, err := authService.ConfirmSignup("alice", "code-123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// The token resolves back to the same identity with its current role.
	users.On("GetByID", "user-1").Return(user, nil).Once()
	caller, err := authService.ResolveCaller(token)
	assert.NoError(t, err)
	assert.Equal(t, "alice", caller.Username)
	assert.Equal(t, models.RoleUser, caller.Role)

	// Single use: the record is consumed, so the same code fails now.
	users.On("GetByUsername", "alice").Return(user, nil).Once()
	codes.On("ActiveByUserID", "user-1").Return(nil, apperrors.NewNotFound("confirmation code", "user-1")).Once()
	_, err = authService.ConfirmSignup("alice", "code-123")
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
	assert.Contains(t, validation.Fields, "confirmation_code")

	users.AssertExpectations(t)
	codes.AssertExpectations(t)
}

func TestAuthService_ConfirmSignup_WrongCode(t *testing.T) {
	users := new(MockUserRepository)
	codes := new(MockCodeRepository)
	authService := newAuthService(users, codes, new(MockCodeSender))

	user := &models.User{ID: "user-1", Username: "alice"}
	hash, _ := bcrypt.GenerateFromPassword([]byte("code-123"), bcrypt.DefaultCost)
	record := &models.ConfirmationCode{ID: "code-1", UserID: "user-1", CodeHash: string(hash)}

	users.On("GetByUsername", "alice").Return(user, nil).Once()
	codes.On("ActiveByUserID", "user-1").Return(record, nil).Once()

	_, err := authService.ConfirmSignup("alice", "wrong")
	var validation *apperrors.ValidationError
	assert.ErrorAs(t, err, &validation)
	codes.AssertNotCalled(t, "Consume", mock.Anything)
}

func TestAuthService_ConfirmSignup_UnknownUser(t *testing.T) {
	users := new(MockUserRepository)
	authService := newAuthService(users, new(MockCodeRepository), new(MockCodeSender))

	users.On("GetByUsername", "ghost").Return(nil, apperrors.NewNotFound("user", "ghost")).Once()

	_, err := authService.ConfirmSignup("ghost", "whatever")
	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAuthService_ResolveCaller_InvalidToken(t *testing.T) {
	authService := newAuthService(new(MockUserRepository), new(MockCodeRepository), new(MockCodeSender))

	_, err := authService.ResolveCaller("not-a-token")
	var authErr *apperrors.AuthorizationError
	assert.ErrorAs(t, err, &authErr)
	assert.False(t, authErr.Authenticated)
}
