package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/edufin/finboard-backend/internal/model"
	"github.com/edufin/finboard-backend/internal/policy"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrDuplicateUsername is returned when the username is already taken.
var ErrDuplicateUsername = errors.New("user with this username already exists")

// UserRepository handles dashboard account data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `u.id, u.username, u.name, u.password_hash, u.role,
	COALESCE(u.campus_id, ''), COALESCE(c.name, ''), COALESCE(u.class_ids, '{}')`

func (r *UserRepository) scanUser(row pgx.Row) (*model.User, error) {
	u := &model.User{}
	var role string
	err := row.Scan(&u.ID, &u.Username, &u.Name, &u.PasswordHash, &role,
		&u.CampusID, &u.CampusName, &u.ClassIDs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if u.Role, err = policy.ParseRole(role); err != nil {
		return nil, err
	}
	return u, nil
}

// GetByUsername retrieves a user by their unique username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u LEFT JOIN campuses c ON c.id = u.campus_id
		 WHERE u.username = $1`, username))
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u LEFT JOIN campuses c ON c.id = u.campus_id
		 WHERE u.id = $1`, id))
}

// Create inserts a new user account.
func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	var campusID interface{}
	if u.CampusID != "" {
		campusID = u.CampusID
	}
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, name, password_hash, role, campus_id, class_ids)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		u.Username, u.Name, u.PasswordHash, string(u.Role), campusID, u.ClassIDs,
	).Scan(&u.ID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateUsername
		}
		return err
	}
	return nil
}
