package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository handles teacher dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// GetSummaryCounts retrieves the high-level metrics for one teacher.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context, teacherID uuid.UUID) (totalGuides, publishedGuides, followers, reports int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM study_guides WHERE user_id = $1),
			(SELECT COUNT(*) FROM study_guides WHERE user_id = $1 AND is_published = TRUE),
			(SELECT COUNT(*) FROM teacher_follows WHERE teacher_id = $1),
			(SELECT COUNT(*) FROM grading_results WHERE user_id = $1)`,
		teacherID,
	).Scan(&totalGuides, &publishedGuides, &followers, &reports)
	return
}

// DashboardActivity is a recent entry from the activity log.
type DashboardActivity struct {
	Verb       string    `json:"verb"`
	ObjectType string    `json:"object_type"`
	ObjectID   string    `json:"object_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// GetRecentActivity retrieves the teacher's last N logged actions.
func (r *DashboardRepository) GetRecentActivity(ctx context.Context, teacherID uuid.UUID, limit int) ([]DashboardActivity, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT verb, object_type, object_id, occurred_at
		 FROM activity_log
		 WHERE actor_id = $1
		 ORDER BY occurred_at DESC
		 LIMIT $2`,
		teacherID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []DashboardActivity
	for rows.Next() {
		var a DashboardActivity
		if err := rows.Scan(&a.Verb, &a.ObjectType, &a.ObjectID, &a.OccurredAt); err != nil {
			return nil, err
		}
		entries = append(entries, a)
	}
	if entries == nil {
		entries = []DashboardActivity{}
	}
	return entries, rows.Err()
}
