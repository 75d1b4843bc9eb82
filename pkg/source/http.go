package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mholzen/treegrid/pkg/hierarchy"
)

// HTTPSource fetches a JSON array of records with a GET request.
type HTTPSource struct {
	url  string
	http *http.Client
	auth func(r *http.Request) // injects auth headers
}

type HTTPOption func(*HTTPSource)

// WithBearerToken sets up Bearer token authentication
func WithBearerToken(token string) HTTPOption {
	return func(s *HTTPSource) {
		s.auth = func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+token)
		}
	}
}

func WithHTTPClient(client *http.Client) HTTPOption {
	return func(s *HTTPSource) {
		s.http = client
	}
}

func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:  url,
		http: &http.Client{Timeout: 10 * time.Second}, // always set timeouts
		auth: func(*http.Request) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *HTTPSource) Records(ctx context.Context) ([]hierarchy.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	s.auth(req)

	slog.Debug("fetching records", "url", s.url)
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot fetch records: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		return nil, &APIError{Status: resp.StatusCode, Body: string(b), RetryAfter: resp.Header.Get("Retry-After")}
	}

	records, err := DecodeRecords(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cannot decode records: %w", err)
	}
	return records, nil
}

type APIError struct {
	Status     int
	Body       string
	RetryAfter string
}

func (e *APIError) Error() string { return fmt.Sprintf("api %d: %s", e.Status, e.Body) }
