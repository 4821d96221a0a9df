package repositories

import (
	"errors"
	"fmt"

	"kritika/internal/apperrors"
	"kritika/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{db: db}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict("a user with this username or email already exists")
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Update saves all fields of an existing user.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict("a user with this username or email already exists")
		}
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("user", user.Username)
	}
	return nil
}

// Delete removes a user by username.
func (r *GORMUserRepository) Delete(username string) error {
	res := r.db.Delete(&models.User{}, "username = ?", username)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user %s: %w", username, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("user", username)
	}
	return nil
}

// GetAll retrieves all users ordered by username.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("username").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	return r.getOne("id = ?", id)
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getOne("username = ?", username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne("email = ?", email)
}

func (r *GORMUserRepository) getOne(query, arg string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user", arg)
		}
		return nil, fmt.Errorf("failed to get user by %q: %w", query, err)
	}
	return &user, nil
}

// GORMConfirmationCodeRepository is a GORM implementation of
// ConfirmationCodeRepository.
type GORMConfirmationCodeRepository struct {
	db *gorm.DB
}

// NewGORMConfirmationCodeRepository creates a new instance of
// GORMConfirmationCodeRepository.
func NewGORMConfirmationCodeRepository(db *gorm.DB) *GORMConfirmationCodeRepository {
	return &GORMConfirmationCodeRepository{db: db}
}

// Create persists a new confirmation code record.
func (r *GORMConfirmationCodeRepository) Create(code *models.ConfirmationCode) error {
	if code.ID == "" {
		code.ID = uuid.New().String()
	}
	if err := r.db.Create(code).Error; err != nil {
		return fmt.Errorf("failed to create confirmation code: %w", err)
	}
	return nil
}

// ActiveByUserID returns the most recently issued unconsumed record for the
// user.
func (r *GORMConfirmationCodeRepository) ActiveByUserID(userID string) (*models.ConfirmationCode, error) {
	var code models.ConfirmationCode
	err := r.db.Where("user_id = ? AND consumed = ?", userID, false).
		Order("issued_at DESC").
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("confirmation code", userID)
		}
		return nil, fmt.Errorf("failed to get confirmation code for user %s: %w", userID, err)
	}
	return &code, nil
}

// Consume marks a single record as spent.
func (r *GORMConfirmationCodeRepository) Consume(id string) error {
	res := r.db.Model(&models.ConfirmationCode{}).
		Where("id = ? AND consumed = ?", id, false).
		Update("consumed", true)
	if res.Error != nil {
		return fmt.Errorf("failed to consume confirmation code %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.NewNotFound("confirmation code", id)
	}
	return nil
}

// ConsumeAllForUser invalidates every outstanding record for the user.
// A user with no outstanding records is not an error.
func (r *GORMConfirmationCodeRepository) ConsumeAllForUser(userID string) error {
	err := r.db.Model(&models.ConfirmationCode{}).
		Where("user_id = ? AND consumed = ?", userID, false).
		Update("consumed", true).Error
	if err != nil {
		return fmt.Errorf("failed to consume confirmation codes for user %s: %w", userID, err)
	}
	return nil
}
