package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/guidely/guidely-backend/internal/model"
	"github.com/guidely/guidely-backend/internal/repository"
)

// Domain errors.
var (
	// ErrStudentNotFollowed covers both "no such student" and "not in this
	// teacher's list". The two are intentionally indistinguishable so the
	// endpoint does not leak which accounts exist.
	ErrStudentNotFollowed  = errors.New("student not found in your list")
	ErrDuplicateAssignment = errors.New("student already assigned to this class")
	ErrAssignmentNotFound  = errors.New("assignment not found")
	ErrNotAssignmentOwner  = errors.New("not the owner of this assignment")
)

// ClassService handles student-class assignments.
type ClassService struct {
	classRepo  *repository.StudentClassRepository
	followRepo *repository.FollowRepository
	log        zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(
	classRepo *repository.StudentClassRepository,
	followRepo *repository.FollowRepository,
	log zerolog.Logger,
) *ClassService {
	return &ClassService{
		classRepo:  classRepo,
		followRepo: followRepo,
		log:        log.With().Str("component", "class_service").Logger(),
	}
}

// ListForStudent retrieves the teacher's assignments for one student. The
// student must be in the teacher's follower list.
func (s *ClassService) ListForStudent(ctx context.Context, teacherID, studentID uuid.UUID) ([]model.StudentClass, error) {
	if err := s.requireFollowed(ctx, teacherID, studentID); err != nil {
		return nil, err
	}

	assignments, err := s.classRepo.ListByStudentAndTeacher(ctx, studentID, teacherID)
	if err != nil {
		return nil, err
	}
	if assignments == nil {
		assignments = []model.StudentClass{}
	}
	return assignments, nil
}

// Assign places a followed student into one of the teacher's classes.
// The follow check and the insert are separate statements; a concurrent
// unfollow between the two at worst leaves one stale assignment, which is
// acceptable. Uniqueness is enforced by the database.
func (s *ClassService) Assign(ctx context.Context, teacherID uuid.UUID, req *model.AssignClassRequest) (*model.StudentClass, error) {
	if err := s.requireFollowed(ctx, teacherID, req.StudentID); err != nil {
		return nil, err
	}

	assignment := &model.StudentClass{
		StudentID:   req.StudentID,
		TeacherID:   teacherID,
		ClassName:   req.ClassName,
		ClassPeriod: req.ClassPeriod,
	}

	if err := s.classRepo.Create(ctx, assignment); err != nil {
		if errors.Is(err, repository.ErrDuplicateAssignment) {
			return nil, ErrDuplicateAssignment
		}
		return nil, err
	}

	s.log.Info().
		Str("teacher_id", teacherID.String()).
		Str("student_id", req.StudentID.String()).
		Str("class_name", req.ClassName).
		Msg("Student assigned to class")
	return assignment, nil
}

// Remove deletes an assignment owned by the teacher.
func (s *ClassService) Remove(ctx context.Context, teacherID, assignmentID uuid.UUID) error {
	assignment, err := s.classRepo.GetByID(ctx, assignmentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrAssignmentNotFound
		}
		return err
	}
	if assignment.TeacherID != teacherID {
		return ErrNotAssignmentOwner
	}
	return s.classRepo.Delete(ctx, assignmentID)
}

func (s *ClassService) requireFollowed(ctx context.Context, teacherID, studentID uuid.UUID) error {
	followed, err := s.followRepo.Exists(ctx, studentID, teacherID)
	if err != nil {
		return err
	}
	if !followed {
		return ErrStudentNotFollowed
	}
	return nil
}
