package loaders

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/retriva-labs/retriva/internal/core/domain"
	"github.com/retriva-labs/retriva/internal/core/ports/driven"
	"github.com/retriva-labs/retriva/internal/loaders/csvfile"
	"github.com/retriva-labs/retriva/internal/loaders/docx"
	"github.com/retriva-labs/retriva/internal/loaders/eml"
	"github.com/retriva-labs/retriva/internal/loaders/markdown"
	"github.com/retriva-labs/retriva/internal/loaders/pdf"
	"github.com/retriva-labs/retriva/internal/loaders/plaintext"
	"github.com/retriva-labs/retriva/internal/loaders/xlsx"
)

// Ensure Registry implements the interface.
var _ driven.LoaderRegistry = (*Registry)(nil)

// Registry maps file extensions to loaders.
type Registry struct {
	byExt map[string]driven.Loader
}

// NewRegistry creates a registry over the given loaders.
// Later loaders win when extensions collide.
func NewRegistry(ls ...driven.Loader) *Registry {
	r := &Registry{byExt: make(map[string]driven.Loader)}
	for _, l := range ls {
		for _, ext := range l.Extensions() {
			r.byExt[strings.ToLower(ext)] = l
		}
	}
	return r
}

// Defaults returns a registry with every built-in loader registered.
// The runner is used by loaders that shell out (PDF).
func Defaults(runner driven.CommandRunner) *Registry {
	return NewRegistry(
		plaintext.New(),
		markdown.New(),
		csvfile.New(),
		xlsx.New(),
		docx.New(),
		eml.New(),
		pdf.New(runner),
	)
}

// Load extracts text using the loader registered for the path's
// extension.
func (r *Registry) Load(ctx context.Context, path string, content []byte) (*driven.LoadResult, error) {
	loader, ok := r.byExt[normalisedExt(path)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}
	return loader.Load(ctx, path, content)
}

// Supported reports whether any loader handles the path's extension.
func (r *Registry) Supported(path string) bool {
	_, ok := r.byExt[normalisedExt(path)]
	return ok
}

func normalisedExt(path string) string {
	return strings.ToLower(filepath.Ext(path))
}
