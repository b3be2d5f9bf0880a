package stream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mayeul-docq/univia/internal/config"
	"github.com/mayeul-docq/univia/internal/model/catalog"
	surveyservice "github.com/mayeul-docq/univia/internal/service/survey"
)

func setup() (*chi.Mux, *surveyservice.Service) {
	students := catalog.NewMemoryStudentStore(catalog.SeedStudents())
	unis := catalog.NewMemoryUniversityStore(catalog.SeedUniversities())
	svc := surveyservice.NewService(students, unis, config.AIConfig{})

	r := chi.NewRouter()
	New(svc).RegisterRoutes(r)
	return r, svc
}

func TestStreamUnknownSession(t *testing.T) {
	r, _ := setup()

	req := httptest.NewRequest(http.MethodGet, "/stream/ghost", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before init, got %d", resp.Code)
	}
}

func TestStreamSendsInitialState(t *testing.T) {
	r, svc := setup()

	sid, _, err := svc.Init(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Init err: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/stream/"+sid, nil).WithContext(ctx)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if ct := resp.Header().Get("Content-Type"); !strings.Contains(ct, "text/event-stream") {
		t.Fatalf("expected SSE content type, got %q", ct)
	}
	body := resp.Body.String()
	if !strings.Contains(body, "event: state") {
		t.Fatalf("expected a state event, got %q", body)
	}
	if !strings.Contains(body, "triplet") {
		t.Fatalf("state payload should carry the triplet, got %q", body)
	}
}
