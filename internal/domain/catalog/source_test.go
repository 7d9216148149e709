package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/critter-checklist/pkg/errors"
)

type stubSource struct {
	name  string
	body  string
	err   error
	calls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(_ context.Context, _ Category) ([]byte, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.body), nil
}

func TestLoaderFirstSuccessWins(t *testing.T) {
	failing := &stubSource{name: "http", err: errors.New("connection refused")}
	malformed := &stubSource{name: "object", body: `{not json`}
	good := &stubSource{name: "bundled", body: `[{"id":"sea-001","no":1,"name":"Seaweed"}]`}
	unused := &stubSource{name: "spare", body: `[]`}

	loader := NewLoader(newTestLogger(), failing, malformed, good, unused)
	items, err := loader.Load(context.Background(), CategorySea)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, 1, failing.calls)
	require.Equal(t, 1, malformed.calls)
	require.Equal(t, 1, good.calls)
	require.Zero(t, unused.calls)
}

func TestLoaderAggregatesFailures(t *testing.T) {
	loader := NewLoader(newTestLogger(),
		&stubSource{name: "http", err: errors.New("timeout")},
		&stubSource{name: "bundled", err: errors.New("missing")},
	)
	_, err := loader.Load(context.Background(), CategoryFish)
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeDatasetUnavailable))
	require.Contains(t, err.Error(), "http: timeout")
	require.Contains(t, err.Error(), "bundled: missing")
}

func TestLoaderWithoutSources(t *testing.T) {
	_, err := NewLoader(newTestLogger()).Load(context.Background(), CategoryBugs)
	require.True(t, apperrors.IsCode(err, apperrors.CodeDatasetUnavailable))
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
