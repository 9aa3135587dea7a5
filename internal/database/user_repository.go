package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/phrasebot/pkg/models"
)

// ErrInvalidLogin is returned when name/password don't match a user.
var ErrInvalidLogin = fmt.Errorf("invalid credentials")

// UserRepository handles database operations for users
type UserRepository struct{}

// NewUserRepository creates a new repository instance
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	query := "SELECT * FROM users WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var user models.User
	if err := DB.Get(&user, query, id); err != nil {
		return nil, fmt.Errorf("failed to get user by ID: %v", err)
	}
	return &user, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	err := DB.Select(&users, "SELECT * FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %v", err)
	}
	return users, nil
}

// Create inserts a new user
func (r *UserRepository) Create(user *models.User) error {
	if DB.DriverName() == "postgres" {
		query := `
			INSERT INTO users (name, password, branch_id, is_admin)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at, updated_at
		`
		return DB.QueryRow(
			query,
			user.Name,
			user.Password,
			user.BranchID,
			user.IsAdmin,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	}

	// SQLite doesn't support RETURNING, so we need two separate queries
	query := `
		INSERT INTO users (name, password, branch_id, is_admin, created_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`
	result, err := DB.Exec(query, user.Name, user.Password, user.BranchID, user.IsAdmin)
	if err != nil {
		return fmt.Errorf("failed to create user: %v", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert ID: %v", err)
	}
	user.ID = id

	err = DB.QueryRow("SELECT created_at, updated_at FROM users WHERE id = ?", user.ID).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to get timestamps: %v", err)
	}
	return nil
}

// Authenticate returns the user matching name and password, or
// ErrInvalidLogin. Passwords are compared as stored.
// TODO: hash passwords once existing client installs can be migrated.
func (r *UserRepository) Authenticate(name, password string) (*models.User, error) {
	query := "SELECT * FROM users WHERE name = ? AND password = ?"
	if DB.DriverName() == "postgres" {
		query = "SELECT * FROM users WHERE name = $1 AND password = $2"
	}

	var user models.User
	err := DB.Get(&user, query, name, password)
	if err == sql.ErrNoRows {
		return nil, ErrInvalidLogin
	}
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %v", err)
	}
	return &user, nil
}

// GetPoints returns the user's current point balance
func (r *UserRepository) GetPoints(userID int64) (int, error) {
	query := "SELECT points FROM users WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	var points int
	if err := DB.Get(&points, query, userID); err != nil {
		return 0, fmt.Errorf("failed to get points: %v", err)
	}
	return points, nil
}

// Delete removes a user
func (r *UserRepository) Delete(id int64) error {
	query := "DELETE FROM users WHERE id = ?"
	if DB.DriverName() == "postgres" {
		query = strings.Replace(query, "?", "$1", -1)
	}

	_, err := DB.Exec(query, id)
	return err
}
