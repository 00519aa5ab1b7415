package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/SignorelliLorenzo/portfolio/images"
	"github.com/SignorelliLorenzo/portfolio/metrics"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/SignorelliLorenzo/portfolio/projects"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type AssetFinder interface {
	FindForLocale(ctx context.Context, projectID, slug, locale string) (*models.Asset, error)
}

type ImageFinder interface {
	FindImage(ctx context.Context, id string) (*models.ProjectImage, error)
}

// DatabaseStore serves blobs stored in the database. Covers missing from the
// database are read from the public tree using the bundled dataset's path.
type DatabaseStore struct {
	assets  AssetFinder
	images  ImageFinder
	dataset *projects.Dataset
	public  fs.FS
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

func NewDatabaseStore(assets AssetFinder, images ImageFinder, dataset *projects.Dataset, public fs.FS, m *metrics.Metrics) *DatabaseStore {
	return &DatabaseStore{
		assets:  assets,
		images:  images,
		dataset: dataset,
		public:  public,
		metrics: m,
		logger:  log.With().Str("component", "assetStore").Logger(),
	}
}

func (s *DatabaseStore) Asset(ctx context.Context, projectID, slug, loc string) (Resolved, error) {
	asset, err := s.assets.FindForLocale(ctx, projectID, slug, loc)
	if err != nil {
		s.logger.Error().Err(err).Str("projectID", projectID).Str("slug", slug).Msg("asset query failed")
		staticPath := projects.AssetPath(projectID, slug)
		if images.Exists(s.public, staticPath) {
			s.metrics.AssetRequest("redirect")
			return Resolved{Location: staticPath}, nil
		}
		s.metrics.AssetRequest("error")
		return Resolved{}, fmt.Errorf("fetching asset %s/%s: %w", projectID, slug, err)
	}
	if asset == nil {
		s.metrics.AssetRequest("missing")
		return Resolved{}, ErrNotFound
	}

	data, err := models.NormalizeBytes([]byte(asset.Blob))
	if err != nil {
		s.metrics.AssetRequest("error")
		return Resolved{}, fmt.Errorf("decoding asset %s: %w", asset.ID, err)
	}
	if len(data) == 0 {
		s.metrics.AssetRequest("empty")
		return Resolved{}, ErrEmptyBlob
	}

	mimeType := asset.MimeType
	if mimeType == "" {
		mimeType = images.MimeTypeOf(slug)
	}
	s.metrics.AssetRequest("served")
	return Resolved{Data: data, MimeType: mimeType, CacheControl: AssetCacheControl}, nil
}

func (s *DatabaseStore) Cover(ctx context.Context, projectID string) (Resolved, error) {
	img, err := s.images.FindImage(ctx, projectID)
	if err != nil {
		s.logger.Warn().Err(err).Str("projectID", projectID).Msg("cover query failed, using bundled image")
	}
	if img != nil && len(img.ImageBlob) > 0 && img.ImageMime != nil && *img.ImageMime != "" {
		s.metrics.AssetRequest("served")
		return Resolved{Data: []byte(img.ImageBlob), MimeType: *img.ImageMime, CacheControl: CoverCacheControl}, nil
	}

	rec, ok := s.dataset.Lookup(projectID)
	if !ok || rec.Image == nil || *rec.Image == "" {
		s.metrics.AssetRequest("missing")
		return Resolved{}, ErrNotFound
	}
	data, mimeType, err := images.ReadFile(s.public, *rec.Image)
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, images.ErrExternal) {
		s.metrics.AssetRequest("missing")
		return Resolved{}, ErrNotFound
	}
	if err != nil {
		s.metrics.AssetRequest("error")
		return Resolved{}, fmt.Errorf("reading cover of %s: %w", projectID, err)
	}
	s.metrics.AssetRequest("served")
	return Resolved{Data: data, MimeType: mimeType, CacheControl: CoverCacheControl}, nil
}
