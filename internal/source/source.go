// Package source loads rectangular datasets from files, databases and HTTP
// APIs behind a single registry.
package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/KaramelBytes/reportloom-cli/internal/dataset"
)

// Descriptor identifies a tabular source plus the loader-specific options.
type Descriptor struct {
	// Source is a file path, URL, or connection string.
	Source string
	// Type selects a loader: auto|csv|excel|json|sql|api. Auto detects from
	// the source string.
	Type string
	// Excel options.
	Sheet string
	// SQL options: exactly one of Table or Query.
	Table string
	Query string
	// API options.
	Headers  map[string]string
	Params   map[string]string
	JSONPath string
}

// Loader loads one kind of tabular source.
type Loader interface {
	// Type is the descriptor type this loader serves.
	Type() string
	// Detect reports whether the raw source string looks like this type.
	Detect(source string) bool
	Load(ctx context.Context, d Descriptor) (*dataset.Dataset, error)
}

var registry []Loader

// Register adds a loader implementation to the registry.
func Register(l Loader) {
	registry = append(registry, l)
}

// Load resolves the descriptor to a loader and loads the dataset. An
// unresolvable or unreadable source is a fatal error for the report run;
// there is nothing to chart without data.
func Load(ctx context.Context, d Descriptor) (*dataset.Dataset, error) {
	typ := strings.ToLower(strings.TrimSpace(d.Type))
	if typ == "" || typ == "auto" {
		for _, l := range registry {
			if l.Detect(d.Source) {
				return l.Load(ctx, d)
			}
		}
		return nil, fmt.Errorf("could not detect source type for %q; set data.source_type", d.Source)
	}
	for _, l := range registry {
		if l.Type() == typ {
			return l.Load(ctx, d)
		}
	}
	return nil, fmt.Errorf("unsupported source type %q", typ)
}

func init() {
	Register(csvLoader{})
	Register(excelLoader{})
	Register(jsonLoader{})
	Register(sqlLoader{})
	Register(apiLoader{})
}
