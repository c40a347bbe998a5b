package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentClass assigns a followed student to one of the teacher's classes.
// Unique per (student, teacher, class_name).
type StudentClass struct {
	ID          uuid.UUID `json:"id"`
	StudentID   uuid.UUID `json:"student_id"`
	TeacherID   uuid.UUID `json:"teacher_id"`
	ClassName   string    `json:"class_name"`
	ClassPeriod string    `json:"class_period"`
	CreatedAt   time.Time `json:"created_at"`
}

// AssignClassRequest is the payload for assigning a student to a class.
type AssignClassRequest struct {
	StudentID   uuid.UUID `json:"student_id" binding:"required"`
	ClassName   string    `json:"class_name" binding:"required,notblank,max=100"`
	ClassPeriod string    `json:"class_period" binding:"omitempty,max=50"`
}
