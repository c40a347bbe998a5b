package validator

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

type titledInput struct {
	Title string `json:"title" binding:"required,notblank"`
}

func bindJSON(t *testing.T, payload string, dst interface{}) map[string]string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	Setup()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	c.Request.Header.Set("Content-Type", "application/json")

	return Bind(c, dst)
}

func TestBindRejectsBlankStrings(t *testing.T) {
	var in titledInput
	fields := bindJSON(t, `{"title":"   "}`, &in)
	if fields == nil {
		t.Fatal("expected a validation failure for a blank title")
	}
	if msg, ok := fields["title"]; !ok || msg == "" {
		t.Errorf("fields = %v, want a title message", fields)
	}
}

func TestBindAcceptsNonBlankStrings(t *testing.T) {
	var in titledInput
	fields := bindJSON(t, `{"title":"Photosynthesis"}`, &in)
	if fields != nil {
		t.Errorf("unexpected validation failure: %v", fields)
	}
}

func TestBindReportsMissingFieldsByJSONName(t *testing.T) {
	var in titledInput
	fields := bindJSON(t, `{}`, &in)
	if fields == nil {
		t.Fatal("expected a validation failure for a missing title")
	}
	if _, ok := fields["title"]; !ok {
		t.Errorf("fields = %v, want the json tag name as key", fields)
	}
}
