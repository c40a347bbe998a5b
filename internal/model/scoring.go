package model

// ScoreShortAnswerRequest carries the four inputs of the AI grading prompt.
// All fields must be present and non-empty.
type ScoreShortAnswerRequest struct {
	Question      string `json:"question" binding:"required,notblank"`
	SampleAnswer  string `json:"sample_answer" binding:"required,notblank"`
	StudentAnswer string `json:"student_answer" binding:"required,notblank"`
	Subject       string `json:"subject" binding:"required,notblank"`
}

// ScoreResult is the parsed outcome of a short-answer scoring call.
// Score is an integer in [0,100]; IsCorrect is derived from the contractual
// 80-point pass threshold.
type ScoreResult struct {
	Score     int    `json:"score"`
	Feedback  string `json:"feedback"`
	IsCorrect bool   `json:"is_correct"`
}
