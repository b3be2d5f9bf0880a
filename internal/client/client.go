package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mayeul-docq/univia/internal/model/survey"
)

// DefaultBaseURL is used when no api_base is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// APIError carries the raw response body of a non-success response. The
// body text is the error message; the backend does not format its errors
// for display and neither does this layer.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Body) != "" {
		return e.Body
	}
	return http.StatusText(e.Status)
}

// Client calls the survey backend. It performs no retries and no response
// caching; every method returns the backend's answer or an error verbatim.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client for the given base URL, stripping trailing slashes.
// An empty URL falls back to DefaultBaseURL.
func New(baseURL string) *Client {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// BaseURL returns the normalized backend address.
func (c *Client) BaseURL() string { return c.baseURL }

// Init starts or restarts the survey session. Both arguments may be nil.
func (c *Client) Init(ctx context.Context, studentID, apiKey *string) (survey.InitResponse, error) {
	var out survey.InitResponse
	err := c.postJSON(ctx, "/api/init", survey.InitRequest{StudentID: studentID, OpenAIAPIKey: apiKey}, &out)
	return out, err
}

// Comment submits a free-text comment about one university.
func (c *Client) Comment(ctx context.Context, studentID, uniID, text string) (survey.QuestionsResponse, error) {
	var out survey.QuestionsResponse
	err := c.postJSON(ctx, "/api/comment", survey.CommentRequest{StudentID: studentID, UniID: uniID, Text: text}, &out)
	return out, err
}

// Answer submits a structured answer for a question slot.
func (c *Client) Answer(ctx context.Context, studentID, uniID, slot, value string) (survey.QuestionsResponse, error) {
	var out survey.QuestionsResponse
	err := c.postJSON(ctx, "/api/answer", survey.AnswerRequest{StudentID: studentID, UniID: uniID, Slot: slot, Value: value}, &out)
	return out, err
}

// Pairwise records that the student prefers one university over another.
func (c *Client) Pairwise(ctx context.Context, studentID, betterID, worseID string) (survey.StateResponse, error) {
	var out survey.StateResponse
	err := c.postJSON(ctx, "/api/pairwise", survey.PairwiseRequest{StudentID: studentID, BetterID: betterID, WorseID: worseID}, &out)
	return out, err
}

// State re-fetches the authoritative session state.
func (c *Client) State(ctx context.Context, studentID string) (survey.StateResponse, error) {
	var out survey.StateResponse
	err := c.getJSON(ctx, "/api/state", url.Values{"student_id": {studentID}}, &out)
	return out, err
}

// Ranking fetches the current ranking table and stop indicator.
func (c *Client) Ranking(ctx context.Context, studentID string) (survey.RankingResponse, error) {
	var out survey.RankingResponse
	err := c.getJSON(ctx, "/api/ranking", url.Values{"student_id": {studentID}}, &out)
	return out, err
}

func (c *Client) postJSON(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: string(bodyBytes)}
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(bodyBytes, out)
}
