package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/guidely/guidely-backend/internal/model"
)

// Scoring errors.
var (
	ErrCompletionUpstream = errors.New("completion service call failed")
	ErrCompletionParse    = errors.New("completion reply did not match the expected format")
)

const (
	// PassThreshold is contractual: a score at or above it marks the answer
	// correct. Clients depend on the exact value; do not change it.
	PassThreshold = 80

	scoringMaxTokens   = 300
	scoringTemperature = 0.1
)

// The model is instructed to reply in exactly two lines. Anything the
// patterns cannot read is rejected outright; a score is never guessed.
var (
	scorePattern    = regexp.MustCompile(`SCORE:\s*(\d+)`)
	feedbackPattern = regexp.MustCompile(`(?s)FEEDBACK:\s*(.+?)(?:\n\s*\n|\z)`)
)

// CompletionClient is the completion-service surface the scorer needs.
// *openai.Client satisfies it.
type CompletionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ScoringService grades short answers through the completion service.
type ScoringService struct {
	client CompletionClient
	model  string
	log    zerolog.Logger
}

// NewScoringService creates a new ScoringService.
func NewScoringService(client CompletionClient, model string, log zerolog.Logger) *ScoringService {
	return &ScoringService{
		client: client,
		model:  model,
		log:    log.With().Str("component", "scoring_service").Logger(),
	}
}

// Score sends the grading prompt and parses the constrained reply. The call
// is made once; transient upstream failures are surfaced, not retried.
func (s *ScoringService) Score(ctx context.Context, req *model.ScoreShortAnswerRequest) (*model.ScoreResult, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		MaxTokens:   scoringMaxTokens,
		Temperature: scoringTemperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a strict but fair grader of short-answer exam questions. Reply only in the requested format.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildScoringPrompt(req),
			},
		},
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Completion call failed")
		return nil, fmt.Errorf("%w: %v", ErrCompletionUpstream, err)
	}
	if len(resp.Choices) == 0 {
		s.log.Error().Msg("Completion returned no choices")
		return nil, ErrCompletionUpstream
	}

	result, err := parseScoringReply(resp.Choices[0].Message.Content)
	if err != nil {
		s.log.Error().
			Err(err).
			Str("reply", resp.Choices[0].Message.Content).
			Msg("Unparseable completion reply")
		return nil, err
	}

	s.log.Debug().
		Int("score", result.Score).
		Bool("is_correct", result.IsCorrect).
		Msg("Short answer scored")
	return result, nil
}

// buildScoringPrompt embeds the four inputs in the fixed grading prompt.
func buildScoringPrompt(req *model.ScoreShortAnswerRequest) string {
	var b strings.Builder
	b.WriteString("Grade the student's short answer for the following ")
	b.WriteString(req.Subject)
	b.WriteString(" question on a 0-100 scale, comparing it against the sample answer.\n\n")
	b.WriteString("Question: ")
	b.WriteString(req.Question)
	b.WriteString("\n\nSample answer: ")
	b.WriteString(req.SampleAnswer)
	b.WriteString("\n\nStudent answer: ")
	b.WriteString(req.StudentAnswer)
	b.WriteString("\n\nReply in exactly this format:\nSCORE: <number between 0 and 100>\nFEEDBACK: <one or two sentences for the student>")
	return b.String()
}

// parseScoringReply extracts the score and feedback. Both patterns must
// match and the score must land in [0,100]; otherwise no partial result is
// returned.
func parseScoringReply(reply string) (*model.ScoreResult, error) {
	scoreMatch := scorePattern.FindStringSubmatch(reply)
	if scoreMatch == nil {
		return nil, fmt.Errorf("%w: missing SCORE line", ErrCompletionParse)
	}

	score, err := strconv.Atoi(scoreMatch[1])
	if err != nil || score < 0 || score > 100 {
		return nil, fmt.Errorf("%w: score out of range", ErrCompletionParse)
	}

	feedbackMatch := feedbackPattern.FindStringSubmatch(reply)
	if feedbackMatch == nil {
		return nil, fmt.Errorf("%w: missing FEEDBACK line", ErrCompletionParse)
	}
	feedback := strings.TrimSpace(feedbackMatch[1])
	if feedback == "" {
		return nil, fmt.Errorf("%w: empty feedback", ErrCompletionParse)
	}

	return &model.ScoreResult{
		Score:     score,
		Feedback:  feedback,
		IsCorrect: score >= PassThreshold,
	}, nil
}
