package assets

import (
	"context"

	"github.com/SignorelliLorenzo/portfolio/locale"
	"github.com/SignorelliLorenzo/portfolio/metrics"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/SignorelliLorenzo/portfolio/projects"
)

// ProjectGetter resolves a single project.
type ProjectGetter interface {
	Get(ctx context.Context, id string, loc locale.Locale) (models.Project, error)
}

// StaticStore points clients at files served from the public tree.
type StaticStore struct {
	projects ProjectGetter
	metrics  *metrics.Metrics
}

func NewStaticStore(projects ProjectGetter, m *metrics.Metrics) *StaticStore {
	return &StaticStore{projects: projects, metrics: m}
}

// Asset always redirects; the locale is not part of the static layout.
func (s *StaticStore) Asset(_ context.Context, projectID, slug, _ string) (Resolved, error) {
	s.metrics.AssetRequest("redirect")
	return Resolved{Location: projects.AssetPath(projectID, slug)}, nil
}

func (s *StaticStore) Cover(ctx context.Context, projectID string) (Resolved, error) {
	p, err := s.projects.Get(ctx, projectID, locale.Default)
	if err != nil || p.Image == nil || *p.Image == "" {
		s.metrics.AssetRequest("missing")
		return Resolved{}, ErrNotFound
	}
	s.metrics.AssetRequest("redirect")
	return Resolved{Location: *p.Image}, nil
}
