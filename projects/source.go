package projects

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no tier knows a project.
var ErrNotFound = errors.New("project not found")

// Source is a place project records are read from.
type Source interface {
	// Name labels the source in logs and metrics.
	Name() string
	// Records lists every project in the source's natural order.
	Records(ctx context.Context) ([]Record, error)
	// Record returns one project, or nil and no error when it is absent.
	Record(ctx context.Context, id string) (*Record, error)
}
