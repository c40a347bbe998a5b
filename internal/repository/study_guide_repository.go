package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guidely/guidely-backend/internal/model"
)

// StudyGuideRepository handles study guide data access.
type StudyGuideRepository struct {
	pool *pgxpool.Pool
}

// NewStudyGuideRepository creates a new StudyGuideRepository.
func NewStudyGuideRepository(pool *pgxpool.Pool) *StudyGuideRepository {
	return &StudyGuideRepository{pool: pool}
}

// GetByID retrieves a study guide by its UUID.
func (r *StudyGuideRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StudyGuide, error) {
	g := &model.StudyGuide{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, title, subject, content, is_published, published_at, created_at, updated_at
		 FROM study_guides WHERE id = $1`, id,
	).Scan(&g.ID, &g.UserID, &g.Title, &g.Subject, &g.Content, &g.IsPublished, &g.PublishedAt, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// ListByOwner retrieves all guides owned by a user, newest first.
func (r *StudyGuideRepository) ListByOwner(ctx context.Context, userID uuid.UUID) ([]model.StudyGuide, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, subject, content, is_published, published_at, created_at, updated_at
		 FROM study_guides WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guides []model.StudyGuide
	for rows.Next() {
		var g model.StudyGuide
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Subject, &g.Content, &g.IsPublished, &g.PublishedAt, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		guides = append(guides, g)
	}
	return guides, rows.Err()
}

// ListPublished retrieves all published guides. Used for cache prewarm.
func (r *StudyGuideRepository) ListPublished(ctx context.Context) ([]model.StudyGuide, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, title, subject, content, is_published, published_at, created_at, updated_at
		 FROM study_guides WHERE is_published = TRUE ORDER BY published_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guides []model.StudyGuide
	for rows.Next() {
		var g model.StudyGuide
		if err := rows.Scan(&g.ID, &g.UserID, &g.Title, &g.Subject, &g.Content, &g.IsPublished, &g.PublishedAt, &g.CreatedAt, &g.UpdatedAt); err != nil {
			return nil, err
		}
		guides = append(guides, g)
	}
	return guides, rows.Err()
}

// ListFeedForStudent retrieves published guides authored by the teachers the
// student follows, newest publish first.
func (r *StudyGuideRepository) ListFeedForStudent(ctx context.Context, studentID uuid.UUID) ([]model.FeedItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT g.id, g.title, g.subject, u.first_name || ' ' || u.last_name, g.published_at
		 FROM study_guides g
		 JOIN teacher_follows f ON f.teacher_id = g.user_id
		 JOIN user_profiles u ON u.id = g.user_id
		 WHERE f.follower_id = $1 AND g.is_published = TRUE
		 ORDER BY g.published_at DESC`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.FeedItem
	for rows.Next() {
		var it model.FeedItem
		if err := rows.Scan(&it.ID, &it.Title, &it.Subject, &it.TeacherName, &it.PublishedAt); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// Create inserts a new unpublished guide.
func (r *StudyGuideRepository) Create(ctx context.Context, g *model.StudyGuide) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO study_guides (user_id, title, subject, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, is_published, created_at, updated_at`,
		g.UserID, g.Title, g.Subject, g.Content,
	).Scan(&g.ID, &g.IsPublished, &g.CreatedAt, &g.UpdatedAt)
}

// MarkPublished flips the guide to published with a server-generated
// timestamp. The WHERE clause guards the one-way transition at the data
// layer: an already-published row is never touched.
func (r *StudyGuideRepository) MarkPublished(ctx context.Context, id uuid.UUID) (*model.StudyGuide, error) {
	g := &model.StudyGuide{}
	err := r.pool.QueryRow(ctx,
		`UPDATE study_guides
		 SET is_published = TRUE, published_at = CURRENT_TIMESTAMP, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $1 AND is_published = FALSE
		 RETURNING id, user_id, title, subject, content, is_published, published_at, created_at, updated_at`,
		id,
	).Scan(&g.ID, &g.UserID, &g.Title, &g.Subject, &g.Content, &g.IsPublished, &g.PublishedAt, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Delete removes a study guide by ID.
func (r *StudyGuideRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM study_guides WHERE id = $1`, id)
	return err
}
