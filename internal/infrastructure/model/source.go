package model

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kirillkom/fake-news-detector/internal/core/domain"
	"github.com/kirillkom/fake-news-detector/internal/infrastructure/resilience"
)

const maxArtifactBytes = 1 << 30

// Source reads artifact bytes from a local path or an http(s) URL.
type Source struct {
	httpClient *http.Client
	executor   *resilience.Executor
}

func NewSource(timeout time.Duration, executor *resilience.Executor) *Source {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig(), nil)
	}
	return &Source{
		httpClient: &http.Client{Timeout: timeout},
		executor:   executor,
	}
}

func (s *Source) Read(ctx context.Context, location string) ([]byte, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, domain.WrapError(domain.ErrArtifactMissing, "read artifact", errors.New("location is empty"))
	}
	if isRemote(location) {
		return s.fetch(ctx, location)
	}

	raw, err := os.ReadFile(location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.WrapError(domain.ErrArtifactMissing, "read artifact "+location, err)
		}
		return nil, domain.WrapError(domain.ErrArtifactInvalid, "read artifact "+location, err)
	}
	return raw, nil
}

func (s *Source) fetch(ctx context.Context, location string) ([]byte, error) {
	raw, err := s.executor.Fetch(ctx, "artifact_fetch", func(ctx context.Context) ([]byte, error) {
		return s.get(ctx, location)
	}, resilience.ClassifyHTTPError)
	if err != nil {
		var statusErr *resilience.HTTPStatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode != http.StatusNotFound && !resilience.IsRetryableHTTPStatus(statusErr.StatusCode) {
			return nil, domain.WrapError(domain.ErrArtifactInvalid, "fetch artifact "+location, err)
		}
		return nil, domain.WrapError(domain.ErrArtifactMissing, "fetch artifact "+location, err)
	}
	return raw, nil
}

func (s *Source) get(ctx context.Context, location string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("create artifact request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("artifact request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, &resilience.HTTPStatusError{
			Operation:  "artifact fetch",
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxArtifactBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read artifact response: %w", err)
	}
	if len(raw) > maxArtifactBytes {
		return nil, fmt.Errorf("artifact exceeds %d bytes", maxArtifactBytes)
	}
	return raw, nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Close releases idle connections left over from remote fetches.
func (s *Source) Close() {
	s.httpClient.CloseIdleConnections()
}
