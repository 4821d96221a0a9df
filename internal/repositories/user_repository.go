package repositories

import "kritika/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	Update(user *models.User) error
	Delete(username string) error
	GetAll() ([]models.User, error)
	GetByID(id string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// ConfirmationCodeRepository defines the interface for signup credential
// records.
type ConfirmationCodeRepository interface {
	Create(code *models.ConfirmationCode) error
	// ActiveByUserID returns the unconsumed record for the user, or a
	// not-found error when none exists.
	ActiveByUserID(userID string) (*models.ConfirmationCode, error)
	// Consume marks a record as spent.
	Consume(id string) error
	// ConsumeAllForUser invalidates every outstanding record for the user.
	ConsumeAllForUser(userID string) error
}
