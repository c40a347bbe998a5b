package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/guidely/guidely-backend/internal/config"
	"github.com/guidely/guidely-backend/internal/model"
	"github.com/guidely/guidely-backend/internal/repository"
)

// Domain errors.
var (
	ErrGuideNotFound     = errors.New("study guide not found")
	ErrNotGuideOwner     = errors.New("not the owner of this study guide")
	ErrAlreadyPublished  = errors.New("study guide already published")
	ErrGuideNotPublished = errors.New("study guide is not published")
)

// GuideService handles study guide business logic and the Redis payload
// cache for published guides.
type GuideService struct {
	guideRepo  *repository.StudyGuideRepository
	userRepo   *repository.UserRepository
	followRepo *repository.FollowRepository
	rdb        *redis.Client
	activity   *ActivityPublisher
	log        zerolog.Logger
}

// NewGuideService creates a new GuideService.
func NewGuideService(
	guideRepo *repository.StudyGuideRepository,
	userRepo *repository.UserRepository,
	followRepo *repository.FollowRepository,
	rdb *redis.Client,
	activity *ActivityPublisher,
	log zerolog.Logger,
) *GuideService {
	return &GuideService{
		guideRepo:  guideRepo,
		userRepo:   userRepo,
		followRepo: followRepo,
		rdb:        rdb,
		activity:   activity,
		log:        log.With().Str("component", "guide_service").Logger(),
	}
}

// Create inserts a new draft guide owned by the teacher.
func (s *GuideService) Create(ctx context.Context, guide *model.StudyGuide) error {
	if err := s.guideRepo.Create(ctx, guide); err != nil {
		return err
	}
	s.activity.Publish(ctx, guide.UserID, "created", "study_guide", guide.ID.String())
	return nil
}

// ListOwned retrieves the caller's guides.
func (s *GuideService) ListOwned(ctx context.Context, userID uuid.UUID) ([]model.StudyGuide, error) {
	guides, err := s.guideRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if guides == nil {
		guides = []model.StudyGuide{}
	}
	return guides, nil
}

// Get retrieves a guide for the caller. Owners always see their guide; a
// student sees it only when it is published and they follow the author.
// For students the Redis payload cache is consulted before PostgreSQL.
func (s *GuideService) Get(ctx context.Context, callerID uuid.UUID, callerType model.UserType, guideID uuid.UUID) (*model.StudyGuide, error) {
	guide, err := s.guideRepo.GetByID(ctx, guideID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGuideNotFound
		}
		return nil, err
	}

	if guide.UserID == callerID {
		return guide, nil
	}

	if callerType != model.UserTypeStudent || !guide.IsPublished {
		// Non-owners never learn whether an unpublished guide exists.
		return nil, ErrGuideNotFound
	}

	following, err := s.followRepo.Exists(ctx, callerID, guide.UserID)
	if err != nil {
		return nil, err
	}
	if !following {
		return nil, ErrGuideNotFound
	}

	return guide, nil
}

// GetPublishedPayload retrieves the cached payload of a published guide,
// falling back to a database read (and re-warming the cache) on a miss.
func (s *GuideService) GetPublishedPayload(ctx context.Context, guideID uuid.UUID) (*model.GuidePayload, error) {
	key := config.CacheKey.GuidePayloadKey(guideID.String())
	data, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		payload := &model.GuidePayload{}
		if err := json.Unmarshal(data, payload); err == nil {
			return payload, nil
		}
		// Unreadable cache entry: fall through to the database.
	} else if !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get payload: %w", err)
	}

	guide, err := s.guideRepo.GetByID(ctx, guideID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGuideNotFound
		}
		return nil, err
	}
	if !guide.IsPublished {
		return nil, ErrGuideNotPublished
	}

	if err := s.warmGuideCache(ctx, guide); err != nil {
		s.log.Warn().Err(err).Str("guide_id", guideID.String()).Msg("Cache rewarm failed")
	}

	return s.buildPayload(ctx, guide)
}

// Publish flips a guide to published. The transition is one-way: publishing
// an already-published guide is rejected and never touches the row.
func (s *GuideService) Publish(ctx context.Context, guideID, callerID uuid.UUID) (*model.StudyGuide, error) {
	guide, err := s.guideRepo.GetByID(ctx, guideID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGuideNotFound
		}
		return nil, err
	}

	if guide.UserID != callerID {
		return nil, ErrNotGuideOwner
	}
	if guide.IsPublished {
		return nil, ErrAlreadyPublished
	}

	published, err := s.guideRepo.MarkPublished(ctx, guideID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost a publish race: the row flipped between the read and
			// the guarded update.
			return nil, ErrAlreadyPublished
		}
		return nil, fmt.Errorf("mark published: %w", err)
	}

	if err := s.warmGuideCache(ctx, published); err != nil {
		s.log.Warn().Err(err).Str("guide_id", guideID.String()).Msg("Cache warm failed after publish")
	}

	s.activity.Publish(ctx, callerID, "published", "study_guide", guideID.String())
	s.log.Info().Str("guide_id", guideID.String()).Msg("Study guide published")
	return published, nil
}

// Delete removes a guide owned by the caller and evicts its cached payload.
func (s *GuideService) Delete(ctx context.Context, guideID, callerID uuid.UUID) error {
	guide, err := s.guideRepo.GetByID(ctx, guideID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrGuideNotFound
		}
		return err
	}

	if guide.UserID != callerID {
		return ErrNotGuideOwner
	}

	if err := s.guideRepo.Delete(ctx, guideID); err != nil {
		return err
	}

	if err := s.rdb.Del(ctx, config.CacheKey.GuidePayloadKey(guideID.String())).Err(); err != nil {
		s.log.Warn().Err(err).Str("guide_id", guideID.String()).Msg("Cache eviction failed")
	}

	s.activity.Publish(ctx, callerID, "deleted", "study_guide", guideID.String())
	return nil
}

// Feed retrieves the published guides from teachers the student follows.
func (s *GuideService) Feed(ctx context.Context, studentID uuid.UUID) ([]model.FeedItem, error) {
	items, err := s.guideRepo.ListFeedForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.FeedItem{}
	}
	return items, nil
}

// PrewarmAllCaches loads all published guides into Redis on startup so the
// first reader never races a lazy load.
func (s *GuideService) PrewarmAllCaches(ctx context.Context) error {
	guides, err := s.guideRepo.ListPublished(ctx)
	if err != nil {
		return fmt.Errorf("list published guides: %w", err)
	}

	if len(guides) == 0 {
		s.log.Info().Msg("No published guides to prewarm")
		return nil
	}

	warmed := 0
	for i := range guides {
		if err := s.warmGuideCache(ctx, &guides[i]); err != nil {
			s.log.Warn().
				Err(err).
				Str("guide_id", guides[i].ID.String()).
				Msg("Failed to warm guide, skipping")
			continue
		}
		warmed++
	}

	s.log.Info().
		Int("warmed", warmed).
		Int("total", len(guides)).
		Msg("Prewarming complete")
	return nil
}

func (s *GuideService) buildPayload(ctx context.Context, guide *model.StudyGuide) (*model.GuidePayload, error) {
	author, err := s.userRepo.GetByID(ctx, guide.UserID)
	if err != nil {
		return nil, fmt.Errorf("get author: %w", err)
	}

	payload := &model.GuidePayload{
		GuideID:    guide.ID,
		Title:      guide.Title,
		Subject:    guide.Subject,
		Content:    guide.Content,
		AuthorID:   guide.UserID,
		AuthorName: author.FirstName + " " + author.LastName,
	}
	if guide.PublishedAt != nil {
		payload.PublishedAt = *guide.PublishedAt
	}
	return payload, nil
}

func (s *GuideService) warmGuideCache(ctx context.Context, guide *model.StudyGuide) error {
	payload, err := s.buildPayload(ctx, guide)
	if err != nil {
		return err
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	key := config.CacheKey.GuidePayloadKey(guide.ID.String())
	if err := s.rdb.Set(ctx, key, raw, 0).Err(); err != nil {
		return fmt.Errorf("cache to redis: %w", err)
	}

	s.log.Debug().Str("guide_id", guide.ID.String()).Msg("Cache warmed")
	return nil
}
