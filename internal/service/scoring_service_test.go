package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/guidely/guidely-backend/internal/model"
)

type fakeCompletionClient struct {
	reply string
	err   error
}

func (f *fakeCompletionClient) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func newTestScoringService(client CompletionClient) *ScoringService {
	return NewScoringService(client, "test-model", zerolog.Nop())
}

func scoringRequest() *model.ScoreShortAnswerRequest {
	return &model.ScoreShortAnswerRequest{
		Question:      "What causes tides?",
		SampleAnswer:  "The gravitational pull of the moon and sun.",
		StudentAnswer: "The moon's gravity pulls on the ocean.",
		Subject:       "Earth Science",
	}
}

func TestScoreParsesWellFormedReply(t *testing.T) {
	svc := newTestScoringService(&fakeCompletionClient{
		reply: "SCORE: 85\nFEEDBACK: Good answer, but mention the sun as well.",
	})

	result, err := svc.Score(context.Background(), scoringRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 85 {
		t.Errorf("score = %d, want 85", result.Score)
	}
	if !result.IsCorrect {
		t.Error("expected IsCorrect for score 85")
	}
	if result.Feedback != "Good answer, but mention the sun as well." {
		t.Errorf("feedback = %q", result.Feedback)
	}
}

func TestScorePassThresholdBoundary(t *testing.T) {
	tests := []struct {
		score   string
		correct bool
	}{
		{"80", true},
		{"79", false},
		{"100", true},
		{"0", false},
	}

	for _, tt := range tests {
		svc := newTestScoringService(&fakeCompletionClient{
			reply: "SCORE: " + tt.score + "\nFEEDBACK: noted.",
		})
		result, err := svc.Score(context.Background(), scoringRequest())
		if err != nil {
			t.Fatalf("score %s: unexpected error: %v", tt.score, err)
		}
		if result.IsCorrect != tt.correct {
			t.Errorf("score %s: IsCorrect = %t, want %t", tt.score, result.IsCorrect, tt.correct)
		}
	}
}

func TestScoreRejectsUnparseableReplies(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"missing score line", "The answer is decent.\nFEEDBACK: ok."},
		{"missing feedback line", "SCORE: 70"},
		{"score above range", "SCORE: 150\nFEEDBACK: impossible."},
		{"four digit score", "SCORE: 1000\nFEEDBACK: impossible."},
		{"empty feedback", "SCORE: 70\nFEEDBACK:   "},
		{"empty reply", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestScoringService(&fakeCompletionClient{reply: tt.reply})
			_, err := svc.Score(context.Background(), scoringRequest())
			if !errors.Is(err, ErrCompletionParse) {
				t.Errorf("err = %v, want ErrCompletionParse", err)
			}
		})
	}
}

func TestScoreNeverTruncatesOutOfRangeScore(t *testing.T) {
	// A four-digit reply must be read as a whole and rejected, not read as
	// its three-digit prefix and marked correct.
	svc := newTestScoringService(&fakeCompletionClient{
		reply: "SCORE: 1000\nFEEDBACK: way off the scale.",
	})

	result, err := svc.Score(context.Background(), scoringRequest())
	if !errors.Is(err, ErrCompletionParse) {
		t.Errorf("err = %v, want ErrCompletionParse", err)
	}
	if result != nil {
		t.Errorf("result = %+v, want no partial result", result)
	}
}

func TestScoreToleratesSurroundingProse(t *testing.T) {
	svc := newTestScoringService(&fakeCompletionClient{
		reply: "Here is my assessment.\nSCORE: 62\nFEEDBACK: Partially right.\n\nLet me know if you need more.",
	})

	result, err := svc.Score(context.Background(), scoringRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Score != 62 {
		t.Errorf("score = %d, want 62", result.Score)
	}
	if result.Feedback != "Partially right." {
		t.Errorf("feedback = %q, want the text up to the blank line", result.Feedback)
	}
	if result.IsCorrect {
		t.Error("score 62 must not be marked correct")
	}
}

func TestScoreSurfacesUpstreamFailure(t *testing.T) {
	svc := newTestScoringService(&fakeCompletionClient{err: errors.New("connection refused")})

	_, err := svc.Score(context.Background(), scoringRequest())
	if !errors.Is(err, ErrCompletionUpstream) {
		t.Errorf("err = %v, want ErrCompletionUpstream", err)
	}
}

func TestScoreRejectsEmptyChoices(t *testing.T) {
	svc := NewScoringService(emptyChoicesClient{}, "test-model", zerolog.Nop())

	_, err := svc.Score(context.Background(), scoringRequest())
	if !errors.Is(err, ErrCompletionUpstream) {
		t.Errorf("err = %v, want ErrCompletionUpstream", err)
	}
}

type emptyChoicesClient struct{}

func (emptyChoicesClient) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	return openai.ChatCompletionResponse{}, nil
}

func TestBuildScoringPromptEmbedsAllInputs(t *testing.T) {
	req := scoringRequest()
	prompt := buildScoringPrompt(req)

	for _, want := range []string{req.Question, req.SampleAnswer, req.StudentAnswer, req.Subject, "SCORE:", "FEEDBACK:"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
