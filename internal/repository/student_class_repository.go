package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/guidely/guidely-backend/internal/model"
)

var ErrDuplicateAssignment = errors.New("student already assigned to this class")

// StudentClassRepository handles class assignment data access.
type StudentClassRepository struct {
	pool *pgxpool.Pool
}

// NewStudentClassRepository creates a new StudentClassRepository.
func NewStudentClassRepository(pool *pgxpool.Pool) *StudentClassRepository {
	return &StudentClassRepository{pool: pool}
}

// GetByID retrieves an assignment by ID.
func (r *StudentClassRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.StudentClass, error) {
	sc := &model.StudentClass{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, student_id, teacher_id, class_name, class_period, created_at
		 FROM student_classes WHERE id = $1`, id,
	).Scan(&sc.ID, &sc.StudentID, &sc.TeacherID, &sc.ClassName, &sc.ClassPeriod, &sc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return sc, nil
}

// ListByStudentAndTeacher retrieves a student's assignments under one teacher.
func (r *StudentClassRepository) ListByStudentAndTeacher(ctx context.Context, studentID, teacherID uuid.UUID) ([]model.StudentClass, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, teacher_id, class_name, class_period, created_at
		 FROM student_classes
		 WHERE student_id = $1 AND teacher_id = $2
		 ORDER BY class_name`,
		studentID, teacherID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []model.StudentClass
	for rows.Next() {
		var sc model.StudentClass
		if err := rows.Scan(&sc.ID, &sc.StudentID, &sc.TeacherID, &sc.ClassName, &sc.ClassPeriod, &sc.CreatedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, sc)
	}
	return assignments, rows.Err()
}

// Create inserts a new class assignment.
func (r *StudentClassRepository) Create(ctx context.Context, sc *model.StudentClass) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO student_classes (student_id, teacher_id, class_name, class_period)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		sc.StudentID, sc.TeacherID, sc.ClassName, sc.ClassPeriod,
	).Scan(&sc.ID, &sc.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateAssignment
		}
		return err
	}
	return nil
}

// Delete removes a class assignment by ID.
func (r *StudentClassRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM student_classes WHERE id = $1`, id)
	return err
}
