package userRepo

import (
	"finbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address.
	GetByEmail(email string) (*models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update modifies an existing user record.
	Update(user *models.User) error
	// Delete removes a user record by its ID.
	Delete(id string) error
	// GetByIDWithProjection retrieves a user by its unique ID with a projection.
	GetByIDWithProjection(id string, projection bson.M) (*models.User, error)
	// GetLocale returns the user's preferred locale, or "" when unset.
	GetLocale(id string) (string, error)
	// GetDeviceTokens returns all non-empty FCM tokens registered for the user.
	GetDeviceTokens(id string) ([]string, error)
	// GetVerifiedEmail returns the user's email, or "" when missing or unverified.
	GetVerifiedEmail(id string) (string, error)
	// SetEmailVerified marks the user's email address as verified.
	SetEmailVerified(id string) error
	// UpsertDevice registers or refreshes one of the user's devices.
	UpsertDevice(id string, device models.Device) error
}
