package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrUnavailable means the catalog document could not be read or did not
// have the expected shape. Handlers surface it as a server error.
var ErrUnavailable = errors.New("catalog unavailable")

// Loader is the catalog source seen by handlers and the sync job.
type Loader interface {
	Load(ctx context.Context) ([]Product, error)
}

// FileLoader reads the catalog JSON document from disk on every call.
// The file is immutable at request time, so there is nothing to lock;
// caching it is a known possible improvement, not current behavior.
type FileLoader struct {
	Path string
}

func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

type catalogDoc struct {
	Products *[]Product `json:"products"`
}

func (l *FileLoader) Load(ctx context.Context) ([]Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var doc catalogDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: parse: %v", ErrUnavailable, err)
	}
	if doc.Products == nil {
		return nil, fmt.Errorf("%w: missing products key", ErrUnavailable)
	}

	return *doc.Products, nil
}
