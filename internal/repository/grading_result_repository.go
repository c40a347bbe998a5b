package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guidely/guidely-backend/internal/model"
)

// GradingResultRepository handles grading result data access.
type GradingResultRepository struct {
	pool *pgxpool.Pool
}

// NewGradingResultRepository creates a new GradingResultRepository.
func NewGradingResultRepository(pool *pgxpool.Pool) *GradingResultRepository {
	return &GradingResultRepository{pool: pool}
}

// GetByID retrieves a grading result by ID.
func (r *GradingResultRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.GradingResult, error) {
	g := &model.GradingResult{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, student_user_id, student_name, exam_title, subject, exam_date,
		        total_marks, obtained_marks, percentage, grade, created_at
		 FROM grading_results WHERE id = $1`, id,
	).Scan(&g.ID, &g.UserID, &g.StudentUserID, &g.StudentName, &g.ExamTitle, &g.Subject, &g.ExamDate,
		&g.TotalMarks, &g.ObtainedMarks, &g.Percentage, &g.Grade, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Create inserts a new grading result. Results are immutable after creation.
func (r *GradingResultRepository) Create(ctx context.Context, g *model.GradingResult) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO grading_results
		   (user_id, student_user_id, student_name, exam_title, subject, exam_date,
		    total_marks, obtained_marks, percentage, grade)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 RETURNING id, created_at`,
		g.UserID, g.StudentUserID, g.StudentName, g.ExamTitle, g.Subject, g.ExamDate,
		g.TotalMarks, g.ObtainedMarks, g.Percentage, g.Grade,
	).Scan(&g.ID, &g.CreatedAt)
}

// ListByTeacherAndStudent retrieves the results a teacher recorded for one
// student account, newest first.
func (r *GradingResultRepository) ListByTeacherAndStudent(ctx context.Context, teacherID, studentID uuid.UUID) ([]model.GradingResult, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, student_user_id, student_name, exam_title, subject, exam_date,
		        total_marks, obtained_marks, percentage, grade, created_at
		 FROM grading_results
		 WHERE user_id = $1 AND student_user_id = $2
		 ORDER BY created_at DESC`,
		teacherID, studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []model.GradingResult
	for rows.Next() {
		var g model.GradingResult
		if err := rows.Scan(&g.ID, &g.UserID, &g.StudentUserID, &g.StudentName, &g.ExamTitle, &g.Subject, &g.ExamDate,
			&g.TotalMarks, &g.ObtainedMarks, &g.Percentage, &g.Grade, &g.CreatedAt); err != nil {
			return nil, err
		}
		results = append(results, g)
	}
	return results, rows.Err()
}

// ListForStudent retrieves a student's own reports with each grading teacher
// embedded.
func (r *GradingResultRepository) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]model.StudentGradeReport, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT g.id, g.user_id, g.student_user_id, g.student_name, g.exam_title, g.subject, g.exam_date,
		        g.total_marks, g.obtained_marks, g.percentage, g.grade, g.created_at,
		        t.id, t.email, t.first_name, t.last_name, t.user_type
		 FROM grading_results g
		 JOIN user_profiles t ON t.id = g.user_id
		 WHERE g.student_user_id = $1
		 ORDER BY g.created_at DESC`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.StudentGradeReport
	for rows.Next() {
		var rep model.StudentGradeReport
		if err := rows.Scan(&rep.ID, &rep.UserID, &rep.StudentUserID, &rep.StudentName, &rep.ExamTitle, &rep.Subject, &rep.ExamDate,
			&rep.TotalMarks, &rep.ObtainedMarks, &rep.Percentage, &rep.Grade, &rep.CreatedAt,
			&rep.Teacher.ID, &rep.Teacher.Email, &rep.Teacher.FirstName, &rep.Teacher.LastName, &rep.Teacher.UserType); err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, rows.Err()
}

// Delete removes a grading result by ID.
func (r *GradingResultRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM grading_results WHERE id = $1`, id)
	return err
}
