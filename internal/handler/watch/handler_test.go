package watch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/mayeul-docq/univia/internal/config"
	"github.com/mayeul-docq/univia/internal/model/catalog"
	surveymodel "github.com/mayeul-docq/univia/internal/model/survey"
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

func TestWatchUnknownSession(t *testing.T) {
	r, _ := setup()
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/watch/ghost")
	if err != nil {
		t.Fatalf("request err: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 before init, got %d", resp.StatusCode)
	}
}

func TestWatchPushesSnapshots(t *testing.T) {
	r, svc := setup()
	srv := httptest.NewServer(r)
	defer srv.Close()

	sid, state, err := svc.Init(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Init err: %v", err)
	}

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/watch/" + sid
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial err: %v", err)
	}
	defer conn.Close()

	if _, _, err := svc.Comment(context.Background(), sid, state.Triplet[0], "watching over ws"); err != nil {
		t.Fatalf("Comment err: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var snapshot surveymodel.StateSnapshot
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("read snapshot err: %v", err)
	}
	if len(snapshot.Triplet) != 3 {
		t.Fatalf("snapshot should carry the triplet, got %v", snapshot.Triplet)
	}
}
