package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guidely/guidely-backend/internal/model"
)

var ErrDuplicateFollow = errors.New("follow edge already exists")

// FollowRepository handles follow edge data access.
type FollowRepository struct {
	pool *pgxpool.Pool
}

// NewFollowRepository creates a new FollowRepository.
func NewFollowRepository(pool *pgxpool.Pool) *FollowRepository {
	return &FollowRepository{pool: pool}
}

// Exists reports whether the follower already follows the teacher.
func (r *FollowRepository) Exists(ctx context.Context, followerID, teacherID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM teacher_follows WHERE follower_id = $1 AND teacher_id = $2)`,
		followerID, teacherID,
	).Scan(&exists)
	return exists, err
}

// Create inserts a new follow edge.
func (r *FollowRepository) Create(ctx context.Context, f *model.Follow) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO teacher_follows (follower_id, teacher_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at`,
		f.FollowerID, f.TeacherID,
	).Scan(&f.ID, &f.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateFollow
		}
		return err
	}
	return nil
}

// Delete removes a follow edge. Deleting an absent edge is not an error;
// unfollow is idempotent at the data layer.
func (r *FollowRepository) Delete(ctx context.Context, followerID, teacherID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM teacher_follows WHERE follower_id = $1 AND teacher_id = $2`,
		followerID, teacherID,
	)
	return err
}

// ListFollowedTeacherIDs retrieves the teacher IDs a student follows.
func (r *FollowRepository) ListFollowedTeacherIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT teacher_id FROM teacher_follows WHERE follower_id = $1 ORDER BY created_at`,
		followerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
