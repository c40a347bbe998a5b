package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/guidely/guidely-backend/internal/response"
	"github.com/guidely/guidely-backend/internal/service"
	"github.com/guidely/guidely-backend/internal/validator"
)

// The repository is never reached on the validation paths, so a nil one is
// enough to exercise the handler.
func newStudentRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validator.Setup()

	h := NewStudentHandler(service.NewUserService(nil))

	r := gin.New()
	r.GET("/students/search", h.Search)
	return r
}

func getSearch(t *testing.T, r *gin.Engine, rawQuery string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/students/search?"+rawQuery, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchRequiresQuery(t *testing.T) {
	r := newStudentRouter()

	w := getSearch(t, r, "q=%20%20")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}

	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != response.ErrValidation {
		t.Errorf("code = %q, want %q", body.Code, response.ErrValidation)
	}
}

func TestSearchRejectsNonNumericLimit(t *testing.T) {
	r := newStudentRouter()

	w := getSearch(t, r, "q=jane&limit=abc")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400: %s", w.Code, w.Body.String())
	}

	var body response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != response.ErrValidation {
		t.Errorf("code = %q, want %q", body.Code, response.ErrValidation)
	}
	if _, ok := body.Fields["limit"]; !ok {
		t.Errorf("fields = %v, want a limit entry", body.Fields)
	}
}
