package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
)

const maxDocumentBytes = 8 << 20

// HTTPSource fetches {baseURL}/data/{category}.json.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPSource builds an HTTP dataset source. A zero timeout defaults to 10s.
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name implements catalog.Source.
func (s *HTTPSource) Name() string { return "http" }

// Fetch implements catalog.Source.
func (s *HTTPSource) Fetch(ctx context.Context, category catalog.Category) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/data/%s.json", s.baseURL, category)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build dataset request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataset request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, fmt.Errorf("dataset request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
	if err != nil {
		return nil, fmt.Errorf("read dataset response: %w", err)
	}
	return body, nil
}

var _ catalog.Source = (*HTTPSource)(nil)
