package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"kritika/internal/apperrors"
	"kritika/internal/models"
	"kritika/internal/permissions"
	"kritika/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// CodeSender dispatches a signup confirmation code to a user's mailbox.
// Implemented by mailbus.Client in production and by mocks in tests.
type CodeSender interface {
	SendConfirmationCode(to, username, code string) error
}

// AuthService handles the signup/confirmation flow and token issuance.
type AuthService struct {
	users      repositories.UserRepository
	codes      repositories.ConfirmationCodeRepository
	sender     CodeSender
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(
	users repositories.UserRepository,
	codes repositories.ConfirmationCodeRepository,
	sender CodeSender,
	jwtSecret string,
) *AuthService {
	return &AuthService{
		users:      users,
		codes:      codes,
		sender:     sender,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour,
	}
}

// RequestSignup resolves the (username, email) pair to a user, issues a
// fresh confirmation code and mails it. When the exact pair matches an
// existing user that user is reused; when neither value is taken a new
// account is created; any other combination is an ambiguous collision.
// The code itself is never returned to the caller.
func (s *AuthService) RequestSignup(username, email string) (*models.User, error) {
	if err := models.ValidateUsername(username); err != nil {
		return nil, apperrors.NewValidation("username", err.Error())
	}
	if email == "" {
		return nil, apperrors.NewValidation("email", "email is required")
	}
	if len(email) > 254 {
		return nil, apperrors.NewValidation("email", "email must be at most 254 characters")
	}

	byUsername, err := s.users.GetByUsername(username)
	if err != nil && !isNotFound(err) {
		return nil, err
	}
	byEmail, err := s.users.GetByEmail(email)
	if err != nil && !isNotFound(err) {
		return nil, err
	}

	var user *models.User
	switch {
	case byUsername != nil && byEmail != nil && byUsername.ID == byEmail.ID:
		// Re-requesting a code for an existing account.
		user = byUsername
	case byUsername == nil && byEmail == nil:
		user = &models.User{
			Username: username,
			Email:    email,
			Role:     models.RoleUser,
		}
		if err := s.users.Create(user); err != nil {
			return nil, err
		}
	default:
		return nil, apperrors.NewConflict("username or email is already taken by another account")
	}

	code := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash confirmation code: %w", err)
	}
	if err := s.codes.ConsumeAllForUser(user.ID); err != nil {
		return nil, err
	}
	record := &models.ConfirmationCode{
		UserID:   user.ID,
		CodeHash: string(hash),
		IssuedAt: time.Now(),
	}
	if err := s.codes.Create(record); err != nil {
		return nil, err
	}

	// The credential is already persisted at this point; a dispatch failure
	// fails the request without rolling it back.
	if err := s.sender.SendConfirmationCode(user.Email, user.Username, code); err != nil {
		return nil, fmt.Errorf("failed to dispatch confirmation code: %w", err)
	}

	return user, nil
}

// ConfirmSignup exchanges a confirmation code for an access token. The code
// is single-use: a consumed or missing record fails validation, so a repeat
// exchange with the same code fails rather than silently re-succeeding.
func (s *AuthService) ConfirmSignup(username, code string) (string, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return "", err
	}

	record, err := s.codes.ActiveByUserID(user.ID)
	if err != nil {
		if isNotFound(err) {
			return "", apperrors.NewValidation("confirmation_code", "confirmation code is invalid")
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(record.CodeHash), []byte(code)) != nil {
		return "", apperrors.NewValidation("confirmation_code", "confirmation code is invalid")
	}
	if err := s.codes.Consume(record.ID); err != nil {
		return "", err
	}

	return s.IssueToken(user)
}

// IssueToken signs a JWT bound to the user's identity and role.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"role":     string(user.Role),
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ResolveCaller validates a JWT and loads the caller's current identity.
// The role comes from the store, not the token, so a role change is
// effective on the caller's very next request.
func (s *AuthService) ResolveCaller(tokenString string) (*permissions.Caller, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, apperrors.NewUnauthenticated("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, apperrors.NewUnauthenticated("invalid token")
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, apperrors.NewUnauthenticated("invalid token")
	}

	user, err := s.users.GetByID(userID)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewUnauthenticated("token refers to an unknown user")
		}
		return nil, err
	}

	return &permissions.Caller{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		Superuser: user.Superuser,
	}, nil
}

func isNotFound(err error) bool {
	var nf *apperrors.NotFoundError
	return errors.As(err, &nf)
}
