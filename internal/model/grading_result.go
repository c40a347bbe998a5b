package model

import (
	"time"

	"github.com/google/uuid"
)

// GradingResult is an immutable record of a graded exam. It is created by a
// teacher, optionally linked to a student account, and only ever deleted.
type GradingResult struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"` // grading teacher
	StudentUserID *uuid.UUID `json:"student_user_id,omitempty"`
	StudentName   string     `json:"student_name"`
	ExamTitle     string     `json:"exam_title"`
	Subject       string     `json:"subject"`
	ExamDate      *time.Time `json:"exam_date,omitempty"`
	TotalMarks    int        `json:"total_marks"`
	ObtainedMarks int        `json:"obtained_marks"`
	Percentage    float64    `json:"percentage"`
	Grade         string     `json:"grade"`
	CreatedAt     time.Time  `json:"created_at"`
}

// CreateGradingResultRequest is the payload for recording a graded exam.
type CreateGradingResultRequest struct {
	StudentUserID *uuid.UUID `json:"student_user_id" binding:"omitempty"`
	StudentName   string     `json:"student_name" binding:"required,min=1,max=200"`
	ExamTitle     string     `json:"exam_title" binding:"required,min=1,max=255"`
	Subject       string     `json:"subject" binding:"required,min=1,max=100"`
	ExamDate      *time.Time `json:"exam_date" binding:"omitempty"`
	TotalMarks    int        `json:"total_marks" binding:"required,min=1"`
	ObtainedMarks int        `json:"obtained_marks" binding:"min=0"`
	Percentage    float64    `json:"percentage" binding:"min=0,max=100"`
	Grade         string     `json:"grade" binding:"required,min=1,max=5"`
}

// StudentGradeReport is a grading result with its teacher embedded, as
// returned to students viewing their own reports.
type StudentGradeReport struct {
	GradingResult
	Teacher PublicProfile `json:"teacher"`
}

// DeleteGradingResultRequest carries the optional body-supplied owner ID.
// The cookie/header-resolved identity wins when both are present.
type DeleteGradingResultRequest struct {
	UserID *uuid.UUID `json:"user_id" binding:"omitempty"`
}
