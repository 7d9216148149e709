package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/yanqian/critter-checklist/pkg/errors"
)

// Source provides the raw JSON document for a category.
type Source interface {
	Name() string
	Fetch(ctx context.Context, category Category) ([]byte, error)
}

// Loader tries its sources in order; the first one that yields a valid
// document wins. Nothing is retried.
type Loader struct {
	sources []Source
	logger  *slog.Logger
}

// NewLoader builds a loader over the given sources.
func NewLoader(logger *slog.Logger, sources ...Source) *Loader {
	return &Loader{sources: sources, logger: logger.With("component", "catalog.loader")}
}

// Load returns the category's items or a dataset_unavailable error carrying
// every source's failure.
func (l *Loader) Load(ctx context.Context, category Category) ([]Item, error) {
	if len(l.sources) == 0 {
		return nil, apperrors.Wrap(apperrors.CodeDatasetUnavailable, "no dataset sources configured", nil)
	}
	var errs []error
	for _, src := range l.sources {
		raw, err := src.Fetch(ctx, category)
		if err != nil {
			l.logger.Warn("dataset source failed", "source", src.Name(), "category", category, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		items, err := DecodeItems(raw)
		if err != nil {
			l.logger.Warn("dataset source returned malformed data", "source", src.Name(), "category", category, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		l.logger.Info("dataset loaded", "source", src.Name(), "category", category, "items", len(items))
		return items, nil
	}
	return nil, apperrors.Wrap(apperrors.CodeDatasetUnavailable, fmt.Sprintf("%s dataset could not be loaded", category), errors.Join(errs...))
}
