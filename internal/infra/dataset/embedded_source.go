package dataset

import (
	"context"
	"embed"
	"fmt"

	"github.com/yanqian/critter-checklist/internal/domain/catalog"
)

//go:embed data/*.json
var bundled embed.FS

// EmbeddedSource serves the copy of each dataset compiled into the binary.
type EmbeddedSource struct{}

// NewEmbeddedSource returns the bundled source.
func NewEmbeddedSource() *EmbeddedSource { return &EmbeddedSource{} }

// Name implements catalog.Source.
func (EmbeddedSource) Name() string { return "bundled" }

// Fetch implements catalog.Source.
func (EmbeddedSource) Fetch(_ context.Context, category catalog.Category) ([]byte, error) {
	raw, err := bundled.ReadFile("data/" + string(category) + ".json")
	if err != nil {
		return nil, fmt.Errorf("bundled %s dataset: %w", category, err)
	}
	return raw, nil
}

var _ catalog.Source = EmbeddedSource{}
