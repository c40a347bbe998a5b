package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/guidely/guidely-backend/internal/response"
	"github.com/guidely/guidely-backend/internal/service"
	"github.com/guidely/guidely-backend/internal/validator"
)

type stubCompletionClient struct {
	reply string
	err   error
}

func (s *stubCompletionClient) CreateChatCompletion(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	if s.err != nil {
		return openai.ChatCompletionResponse{}, s.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: s.reply}},
		},
	}, nil
}

func newScoringRouter(client service.CompletionClient) *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.Setup()

	svc := service.NewScoringService(client, "test-model", zerolog.Nop())
	h := NewScoringHandler(svc)

	r := gin.New()
	r.POST("/score-short-answer", h.ScoreShortAnswer)
	return r
}

func postScore(t *testing.T, r *gin.Engine, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/score-short-answer", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validScorePayload() map[string]string {
	return map[string]string{
		"question":       "What causes tides?",
		"sample_answer":  "The moon's gravity.",
		"student_answer": "Gravity from the moon.",
		"subject":        "Earth Science",
	}
}

func TestScoreShortAnswerSuccess(t *testing.T) {
	r := newScoringRouter(&stubCompletionClient{reply: "SCORE: 90\nFEEDBACK: Well put."})

	w := postScore(t, r, validScorePayload())
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Score     int    `json:"score"`
			Feedback  string `json:"feedback"`
			IsCorrect bool   `json:"is_correct"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success {
		t.Error("expected success envelope")
	}
	if body.Data.Score != 90 || !body.Data.IsCorrect {
		t.Errorf("data = %+v", body.Data)
	}
	if body.Data.Feedback != "Well put." {
		t.Errorf("feedback = %q", body.Data.Feedback)
	}
}

func TestScoreShortAnswerMissingFieldIs400(t *testing.T) {
	r := newScoringRouter(&stubCompletionClient{reply: "SCORE: 90\nFEEDBACK: unused."})

	payload := validScorePayload()
	delete(payload, "subject")

	w := postScore(t, r, payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}

	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Success {
		t.Error("expected failure envelope")
	}
	if body.Code != response.ErrValidation {
		t.Errorf("code = %q, want %q", body.Code, response.ErrValidation)
	}
	if _, ok := body.Fields["subject"]; !ok {
		t.Errorf("fields = %v, want a subject entry", body.Fields)
	}
}

func TestScoreShortAnswerBlankFieldIs400(t *testing.T) {
	r := newScoringRouter(&stubCompletionClient{reply: "SCORE: 90\nFEEDBACK: unused."})

	payload := validScorePayload()
	payload["subject"] = "   "

	w := postScore(t, r, payload)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}

	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body.Fields["subject"]; !ok {
		t.Errorf("fields = %v, want a subject entry", body.Fields)
	}
}

func TestScoreShortAnswerUnparseableReplyIs500(t *testing.T) {
	r := newScoringRouter(&stubCompletionClient{reply: "I think it deserves high marks."})

	w := postScore(t, r, validScorePayload())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500: %s", w.Code, w.Body.String())
	}

	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != response.ErrUpstreamParse {
		t.Errorf("code = %q, want %q", body.Code, response.ErrUpstreamParse)
	}
}

func TestScoreShortAnswerUpstreamFailureIs500(t *testing.T) {
	r := newScoringRouter(&stubCompletionClient{err: errors.New("timeout")})

	w := postScore(t, r, validScorePayload())
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500: %s", w.Code, w.Body.String())
	}

	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != response.ErrUpstream {
		t.Errorf("code = %q, want %q", body.Code, response.ErrUpstream)
	}
}
