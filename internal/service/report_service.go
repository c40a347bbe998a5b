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
	ErrReportNotFound = errors.New("grading result not found")
	ErrNotReportOwner = errors.New("not the owner of this grading result")
)

// ReportService handles grading results and grade reports.
type ReportService struct {
	reportRepo *repository.GradingResultRepository
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
	activity   *ActivityPublisher
	log        zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(
	reportRepo *repository.GradingResultRepository,
	userRepo *repository.UserRepository,
	followRepo *repository.FollowRepository,
	activity *ActivityPublisher,
	log zerolog.Logger,
) *ReportService {
	return &ReportService{
		reportRepo: reportRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		activity:   activity,
		log:        log.With().Str("component", "report_service").Logger(),
	}
}

// Create records a new grading result for the teacher.
func (s *ReportService) Create(ctx context.Context, teacherID uuid.UUID, req *model.CreateGradingResultRequest) (*model.GradingResult, error) {
	result := &model.GradingResult{
		UserID:        teacherID,
		StudentUserID: req.StudentUserID,
		StudentName:   req.StudentName,
		ExamTitle:     req.ExamTitle,
		Subject:       req.Subject,
		ExamDate:      req.ExamDate,
		TotalMarks:    req.TotalMarks,
		ObtainedMarks: req.ObtainedMarks,
		Percentage:    req.Percentage,
		Grade:         req.Grade,
	}

	if err := s.reportRepo.Create(ctx, result); err != nil {
		return nil, err
	}

	s.activity.Publish(ctx, teacherID, "graded", "grading_result", result.ID.String())
	return result, nil
}

// ListForTeacher retrieves the reports a teacher recorded for one followed
// student, together with that student's profile. An unfollowed or unknown
// student is reported as not found; the two cases are indistinguishable.
func (s *ReportService) ListForTeacher(ctx context.Context, teacherID, studentID uuid.UUID) (*model.PublicProfile, []model.GradingResult, error) {
	followed, err := s.followRepo.Exists(ctx, studentID, teacherID)
	if err != nil {
		return nil, nil, err
	}
	if !followed {
		return nil, nil, ErrStudentNotFollowed
	}

	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, ErrStudentNotFollowed
		}
		return nil, nil, err
	}

	reports, err := s.reportRepo.ListByTeacherAndStudent(ctx, teacherID, studentID)
	if err != nil {
		return nil, nil, err
	}
	if reports == nil {
		reports = []model.GradingResult{}
	}

	profile := student.Public()
	return &profile, reports, nil
}

// ListForStudent retrieves the caller's own reports with teachers embedded.
func (s *ReportService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]model.StudentGradeReport, error) {
	reports, err := s.reportRepo.ListForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []model.StudentGradeReport{}
	}
	return reports, nil
}

// Delete removes a grading result. Only the recording teacher may delete;
// a mismatched caller leaves the row untouched.
func (s *ReportService) Delete(ctx context.Context, resultID, callerID uuid.UUID) error {
	result, err := s.reportRepo.GetByID(ctx, resultID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrReportNotFound
		}
		return err
	}

	if result.UserID != callerID {
		return ErrNotReportOwner
	}

	if err := s.reportRepo.Delete(ctx, resultID); err != nil {
		return err
	}

	s.activity.Publish(ctx, callerID, "deleted", "grading_result", resultID.String())
	return nil
}
