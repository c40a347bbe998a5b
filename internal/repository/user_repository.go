package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guidely/guidely-backend/internal/model"
)

var ErrDuplicateEmail = errors.New("user with this email already exists")

// UserRepository handles user profile data access.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// GetByID retrieves a user profile by ID.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.UserProfile, error) {
	u := &model.UserProfile{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, first_name, last_name, user_type, password_hash, created_at, updated_at
		 FROM user_profiles WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.UserType, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetByEmail retrieves a user profile by their unique email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.UserProfile, error) {
	u := &model.UserProfile{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, first_name, last_name, user_type, password_hash, created_at, updated_at
		 FROM user_profiles WHERE lower(email) = lower($1)`, email,
	).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.UserType, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a new user profile.
func (r *UserRepository) Create(ctx context.Context, u *model.UserProfile) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO user_profiles (email, first_name, last_name, user_type, password_hash)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		u.Email, u.FirstName, u.LastName, u.UserType, u.PasswordHash,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// SearchStudents retrieves student profiles whose first name, last name, or
// email contains the query, case-insensitively.
func (r *UserRepository) SearchStudents(ctx context.Context, query string, limit int) ([]model.UserProfile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, email, first_name, last_name, user_type, password_hash, created_at, updated_at
		 FROM user_profiles
		 WHERE user_type = $1
		   AND (first_name ILIKE '%' || $2 || '%'
		     OR last_name ILIKE '%' || $2 || '%'
		     OR email ILIKE '%' || $2 || '%')
		 ORDER BY last_name, first_name
		 LIMIT $3`,
		model.UserTypeStudent, query, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProfiles(rows)
}

// ListStudentFollowers retrieves the student profiles following a teacher,
// in follow order. This is the candidate pool for the suggestion matcher.
func (r *UserRepository) ListStudentFollowers(ctx context.Context, teacherID uuid.UUID) ([]model.UserProfile, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT u.id, u.email, u.first_name, u.last_name, u.user_type, u.password_hash, u.created_at, u.updated_at
		 FROM user_profiles u
		 JOIN teacher_follows f ON f.follower_id = u.id
		 WHERE f.teacher_id = $1 AND u.user_type = $2
		 ORDER BY f.created_at`,
		teacherID, model.UserTypeStudent,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanProfiles(rows)
}

func scanProfiles(rows pgx.Rows) ([]model.UserProfile, error) {
	var users []model.UserProfile
	for rows.Next() {
		var u model.UserProfile
		if err := rows.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.UserType, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
