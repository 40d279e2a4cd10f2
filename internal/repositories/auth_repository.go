package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tableorder_backend/internal/models"

	"github.com/lib/pq"
)

// AuthRepository defines user-account persistence.
type AuthRepository interface {
	CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error)
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(userID int64) (*models.User, error)
}

type authRepository struct {
	db *sql.DB
}

// NewAuthRepository creates a new Postgres-backed AuthRepository.
func NewAuthRepository(db *sql.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(executor SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	query := `INSERT INTO users (email, role, password_hash, is_active, created_at, updated_at)
	          VALUES ($1, $2, $3, TRUE, $4, $5)
	          RETURNING id`
	now := time.Now()

	err := executor.QueryRow(query, user.Email, user.Role, hashedPassword, now, now).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return 0, fmt.Errorf("%w (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating user: %v", ErrDatabaseError, err)
	}
	return user.ID, nil
}

func (r *authRepository) FindUserByEmail(email string) (*models.User, error) {
	return r.findUser(`SELECT id, email, role, password_hash, is_active, created_at, updated_at
	                   FROM users WHERE email = $1`, email)
}

func (r *authRepository) FindUserByID(userID int64) (*models.User, error) {
	return r.findUser(`SELECT id, email, role, password_hash, is_active, created_at, updated_at
	                   FROM users WHERE id = $1`, userID)
}

func (r *authRepository) findUser(query string, arg interface{}) (*models.User, error) {
	u := &models.User{}
	err := r.db.QueryRow(query, arg).Scan(
		&u.ID, &u.Email, &u.Role, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: finding user: %v", ErrDatabaseError, err)
	}
	return u, nil
}
