package model

import (
	"time"

	"github.com/google/uuid"
)

// Follow is the directed edge created when a student opts in to a teacher's
// published content. Unique per (follower, teacher).
type Follow struct {
	ID         uuid.UUID `json:"id"`
	FollowerID uuid.UUID `json:"follower_id"`
	TeacherID  uuid.UUID `json:"teacher_id"`
	CreatedAt  time.Time `json:"created_at"`
}
