package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// StudyGuide is a content artifact owned by a teacher. Its publish state is
// mutable in one direction only: unpublished → published, exactly once.
type StudyGuide struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Title       string          `json:"title"`
	Subject     string          `json:"subject"`
	Content     json.RawMessage `json:"content"`
	IsPublished bool            `json:"is_published"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateGuideRequest is the payload for creating a new draft guide.
type CreateGuideRequest struct {
	Title   string          `json:"title" binding:"required,notblank,max=255"`
	Subject string          `json:"subject" binding:"required,min=1,max=100"`
	Content json.RawMessage `json:"content" binding:"required"`
}

// ShareGuideRequest is the payload for sharing a guide by email.
type ShareGuideRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"omitempty,max=1000"`
}

// GuidePayload is the Redis-cached representation of a published guide,
// served to following students without a database round trip.
type GuidePayload struct {
	GuideID     uuid.UUID       `json:"guide_id"`
	Title       string          `json:"title"`
	Subject     string          `json:"subject"`
	Content     json.RawMessage `json:"content"`
	AuthorID    uuid.UUID       `json:"author_id"`
	AuthorName  string          `json:"author_name"`
	PublishedAt time.Time       `json:"published_at"`
}

// FeedItem is a published guide summary in a student's feed.
type FeedItem struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Subject     string    `json:"subject"`
	TeacherName string    `json:"teacher_name"`
	PublishedAt time.Time `json:"published_at"`
}
