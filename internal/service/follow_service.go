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
	ErrTeacherNotFound  = errors.New("teacher not found")
	ErrAlreadyFollowing = errors.New("already following this teacher")
)

// FollowService handles the student → teacher follow edge.
type FollowService struct {
	followRepo *repository.FollowRepository
	userRepo   *repository.UserRepository
	activity   *ActivityPublisher
	log        zerolog.Logger
}

// NewFollowService creates a new FollowService.
func NewFollowService(
	followRepo *repository.FollowRepository,
	userRepo *repository.UserRepository,
	activity *ActivityPublisher,
	log zerolog.Logger,
) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
		activity:   activity,
		log:        log.With().Str("component", "follow_service").Logger(),
	}
}

// IsFollowing reports whether the user follows the teacher.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, teacherID uuid.UUID) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, teacherID)
}

// Follow creates the follow edge. The target must be an existing teacher
// account; anything else is reported as not found so callers cannot probe
// which IDs exist.
func (s *FollowService) Follow(ctx context.Context, followerID, teacherID uuid.UUID) (*model.Follow, error) {
	target, err := s.userRepo.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}
	if target.UserType != model.UserTypeTeacher {
		return nil, ErrTeacherNotFound
	}

	follow := &model.Follow{FollowerID: followerID, TeacherID: teacherID}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		if errors.Is(err, repository.ErrDuplicateFollow) {
			return nil, ErrAlreadyFollowing
		}
		return nil, err
	}

	s.activity.Publish(ctx, followerID, "followed", "teacher", teacherID.String())
	return follow, nil
}

// ListFollowedTeachers retrieves the profiles of the teachers a student
// follows, in follow order.
func (s *FollowService) ListFollowedTeachers(ctx context.Context, followerID uuid.UUID) ([]model.PublicProfile, error) {
	ids, err := s.followRepo.ListFollowedTeacherIDs(ctx, followerID)
	if err != nil {
		return nil, err
	}

	teachers := make([]model.PublicProfile, 0, len(ids))
	for _, id := range ids {
		teacher, err := s.userRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				continue
			}
			return nil, err
		}
		teachers = append(teachers, teacher.Public())
	}
	return teachers, nil
}

// Unfollow removes the follow edge. Idempotent: removing an edge that does
// not exist still succeeds.
func (s *FollowService) Unfollow(ctx context.Context, followerID, teacherID uuid.UUID) error {
	if err := s.followRepo.Delete(ctx, followerID, teacherID); err != nil {
		return err
	}
	s.activity.Publish(ctx, followerID, "unfollowed", "teacher", teacherID.String())
	return nil
}
