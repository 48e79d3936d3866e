package uistatic

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandlerServesForm(t *testing.T) {
	for _, target := range []string{"/", "/index.html", "/some/deep/link"} {
		rr := httptest.NewRecorder()
		Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", target, rr.Code)
		}
		if !strings.Contains(rr.Body.String(), "Ask Chinook") {
			t.Fatalf("%s: body missing form title", target)
		}
	}
}

func TestHandlerServesAssets(t *testing.T) {
	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "/generate") {
		t.Fatal("app.js should post to /generate")
	}
}
