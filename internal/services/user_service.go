package services

import (
	"kritika/internal/apperrors"
	"kritika/internal/models"
	"kritika/internal/permissions"
	"kritika/internal/repositories"
)

// UserInput is the payload for administrative user creation.
type UserInput struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Bio       string
	Role      string
}

// UserPatch is a partial user update; nil fields are left untouched.
type UserPatch struct {
	Email     *string
	FirstName *string
	LastName  *string
	Bio       *string
	Role      *string
}

// UserService handles user management, both the administrative surface and
// the caller's own profile.
type UserService struct {
	users repositories.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(users repositories.UserRepository) *UserService {
	return &UserService{users: users}
}

// List retrieves all users.
func (s *UserService) List() ([]models.User, error) {
	return s.users.GetAll()
}

// GetByUsername retrieves a single user.
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	return s.users.GetByUsername(username)
}

// Create creates a user on behalf of an admin. Unlike signup, the role may
// be set directly.
func (s *UserService) Create(input UserInput) (*models.User, error) {
	if err := models.ValidateUsername(input.Username); err != nil {
		return nil, apperrors.NewValidation("username", err.Error())
	}
	role := models.RoleUser
	if input.Role != "" {
		parsed, err := models.ParseRole(input.Role)
		if err != nil {
			return nil, apperrors.NewValidation("role", err.Error())
		}
		role = parsed
	}
	user := &models.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Bio:       input.Bio,
		Role:      role,
	}
	if err := s.users.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Update applies an administrative patch to the named user, role included.
func (s *UserService) Update(username string, patch UserPatch) (*models.User, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if patch.Role != nil {
		role, err := models.ParseRole(*patch.Role)
		if err != nil {
			return nil, apperrors.NewValidation("role", err.Error())
		}
		user.Role = role
	}
	applyProfilePatch(user, patch)
	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Delete removes the named user. Their reviews and comments cascade away
// at the store.
func (s *UserService) Delete(username string) error {
	return s.users.Delete(username)
}

// GetSelf retrieves the caller's own profile.
func (s *UserService) GetSelf(caller *permissions.Caller) (*models.User, error) {
	return s.users.GetByID(caller.ID)
}

// UpdateSelf applies a patch to the caller's own profile. A role change
// submitted by a non-admin is silently reverted to the current role; the
// rest of the patch still applies.
func (s *UserService) UpdateSelf(caller *permissions.Caller, patch UserPatch) (*models.User, error) {
	user, err := s.users.GetByID(caller.ID)
	if err != nil {
		return nil, err
	}
	if patch.Role != nil && user.IsAdmin() {
		role, err := models.ParseRole(*patch.Role)
		if err != nil {
			return nil, apperrors.NewValidation("role", err.Error())
		}
		user.Role = role
	}
	applyProfilePatch(user, patch)
	if err := s.users.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func applyProfilePatch(user *models.User, patch UserPatch) {
	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = *patch.LastName
	}
	if patch.Bio != nil {
		user.Bio = *patch.Bio
	}
}
