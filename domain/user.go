package domain

import (
	"context"
	"io"
	"time"
)

// User represents a user entity in the system.
// A user can register, login, and perform actions like writing articles.
type User struct {
	ID          int64     // Unique identifier
	Username    string    // Login username (unique)
	Email       string    // Unique email address
	Password    string    // Bcrypt hashed password
	Slug        string    // Routing identifier derived from Username
	DisplayName string    // Display name
	Description string    // Bio
	Avatar      string    // Media reference of the avatar image
	CreatedAt   time.Time // Account creation timestamp
	UpdatedAt   time.Time // Last profile update timestamp
}

// Profile is a user together with its follow graph.
type Profile struct {
	User      User
	Followers []User
	Following []User
}

// Registration carries the fields submitted on sign up.
type Registration struct {
	Username  string
	Email     string
	Password  string
	Password2 string
}

// ProfileUpdate carries a partial profile update. Nil fields are left unchanged.
type ProfileUpdate struct {
	DisplayName *string
	Description *string
	Avatar      io.Reader
	AvatarName  string
}

// UserRepository defines the contract for user data persistence.
type UserRepository interface {
	// GetByID retrieves a user by their ID.
	// Returns ErrNotFound if the user doesn't exist.
	GetByID(ctx context.Context, id int64) (User, error)

	// GetByIDs retrieves users in no particular order. Unknown ids are skipped.
	GetByIDs(ctx context.Context, ids []int64) ([]User, error)

	// GetBySlug retrieves a user by routing slug.
	GetBySlug(ctx context.Context, slug string) (User, error)

	// GetByUsername retrieves a user by their username.
	// Used during login to verify credentials.
	GetByUsername(ctx context.Context, username string) (User, error)

	ExistsUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)

	// Fetch lists users ordered by id.
	Fetch(ctx context.Context) ([]User, error)

	// Insert creates a new user account.
	// Backfills the ID and Slug in the provided User object upon success.
	Insert(ctx context.Context, u *User) error

	// Update modifies an existing user's information. The slug follows the username.
	Update(ctx context.Context, u *User) error

	// Delete removes the user and everything the user owns.
	Delete(ctx context.Context, id int64) error
}

// TokenRepository keeps the set of revoked tokens until they expire on their own.
type TokenRepository interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Claims are the authenticated facts carried by a bearer token.
type Claims struct {
	UserID    int64
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// UserUsecase defines the business logic contract for user operations.
// Handles authentication, registration, and user management.
type UserUsecase interface {
	// Register creates a new user account and returns a bearer token.
	Register(ctx context.Context, r Registration) (string, error)

	// Login verifies user credentials and returns a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// Logout revokes the token described by claims.
	Logout(ctx context.Context, claims Claims) error

	// Authenticate validates a bearer token and returns its claims.
	Authenticate(ctx context.Context, token string) (Claims, error)

	// ChangePassword sets a new password after checking both entries match.
	ChangePassword(ctx context.Context, id int64, newPassword1, newPassword2 string) error

	GetByID(ctx context.Context, id int64) (User, error)
	UpdateUsername(ctx context.Context, id int64, username string) (User, error)

	Fetch(ctx context.Context) ([]User, error)
	GetProfile(ctx context.Context, slug string) (Profile, error)
	UpdateProfile(ctx context.Context, id int64, p ProfileUpdate) (User, error)
	Delete(ctx context.Context, id int64) error

	Follow(ctx context.Context, actorID int64, slug string) error
	Unfollow(ctx context.Context, actorID int64, slug string) error
}
