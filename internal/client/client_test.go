package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mayeul-docq/univia/internal/model/survey"
)

func TestNewNormalizesBaseURL(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"http://localhost:8000/", "http://localhost:8000"},
		{"http://localhost:8000///", "http://localhost:8000"},
		{"  http://localhost:8000 ", "http://localhost:8000"},
		{"", DefaultBaseURL},
	}
	for _, tc := range cases {
		if got := New(tc.in).BaseURL(); got != tc.want {
			t.Fatalf("New(%q): got %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestInitSendsOptionalFields(t *testing.T) {
	var got survey.InitRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/init" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(survey.InitResponse{OK: true, StudentID: "demo"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Init(context.Background(), nil, nil); err != nil {
		t.Fatalf("Init err: %v", err)
	}
	if got.StudentID != nil || got.OpenAIAPIKey != nil {
		t.Fatalf("nil arguments should marshal as null, got %+v", got)
	}

	sid, key := "alice", "sk-test"
	if _, err := c.Init(context.Background(), &sid, &key); err != nil {
		t.Fatalf("Init err: %v", err)
	}
	if got.StudentID == nil || *got.StudentID != "alice" {
		t.Fatalf("student id not sent: %+v", got.StudentID)
	}
	if got.OpenAIAPIKey == nil || *got.OpenAIAPIKey != "sk-test" {
		t.Fatal("api key not sent")
	}
}

func TestCommentPostsPayload(t *testing.T) {
	var got survey.CommentRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/comment" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(survey.QuestionsResponse{OK: true})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if _, err := c.Comment(context.Background(), "demo", "uk-bath", "lovely campus"); err != nil {
		t.Fatalf("Comment err: %v", err)
	}
	if got.StudentID != "demo" || got.UniID != "uk-bath" || got.Text != "lovely campus" {
		t.Fatalf("payload mismatch: %+v", got)
	}
}

func TestStateSendsQueryParameter(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/state" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("student_id") != "demo" {
			t.Errorf("missing student_id query, got %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(survey.StateResponse{OK: true})
	}))
	defer srv.Close()

	if _, err := New(srv.URL).State(context.Background(), "demo"); err != nil {
		t.Fatalf("State err: %v", err)
	}
}

func TestNonSuccessBecomesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"session not found. Call /api/init first"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Ranking(context.Background(), "ghost")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound {
		t.Fatalf("status: got %d", apiErr.Status)
	}
	if apiErr.Error() != `{"error":"session not found. Call /api/init first"}` {
		t.Fatalf("error should carry the raw body, got %q", apiErr.Error())
	}
}

func TestEmptyErrorBodyFallsBackToStatusText(t *testing.T) {
	err := &APIError{Status: http.StatusBadGateway}
	if err.Error() != http.StatusText(http.StatusBadGateway) {
		t.Fatalf("got %q", err.Error())
	}
}

func TestContextCancellationPropagates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(srv.URL).State(ctx, "demo"); err == nil {
		t.Fatal("expected error from canceled context")
	}
}
