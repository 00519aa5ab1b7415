// Package publish loads authored project content into the database.
package publish

import (
	"context"
	"encoding/json"
	"io/fs"
	"path"
	"strings"

	"github.com/SignorelliLorenzo/portfolio/assets"
	"github.com/SignorelliLorenzo/portfolio/database"
	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/SignorelliLorenzo/portfolio/images"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/SignorelliLorenzo/portfolio/projects"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

const (
	englishFile  = "en.md"
	italianFile  = "it.md"
	metaFile     = "meta.json"
	assetsSubdir = "assets"
)

// ProjectStore is the slice of the project repository publishing writes to.
type ProjectStore interface {
	Exists(ctx context.Context, id string) (bool, error)
	Upsert(ctx context.Context, row *models.ProjectRow) error
	UpdateTranslations(ctx context.Context, id string, t database.Translations) error
	UpdateMarkdown(ctx context.Context, id string, markdown string, markdownIt *string) error
}

// AssetStore replaces asset rows by id.
type AssetStore interface {
	Replace(ctx context.Context, asset *models.Asset) error
}

// Publisher reads a content tree laid out as <id>/{en.md,it.md,meta.json,assets/*}.
type Publisher struct {
	projects ProjectStore
	assets   AssetStore
	content  fs.FS
	logger   zerolog.Logger
}

// Result summarizes one published project.
type Result struct {
	ProjectID string
	Created   bool
	Assets    int
}

func New(projectStore ProjectStore, assetStore AssetStore, content fs.FS) *Publisher {
	return &Publisher{
		projects: projectStore,
		assets:   assetStore,
		content:  content,
		logger:   log.With().Str("component", "publisher").Logger(),
	}
}

// PublishProject writes the markdown, Italian metadata and assets of one
// project. A project missing from the database is created from meta.json when
// it carries a title; otherwise it has to be seeded first.
func (p *Publisher) PublishProject(ctx context.Context, id string) (Result, error) {
	result := Result{ProjectID: id}
	logger := p.logger.With().Str("projectID", id).Logger()

	if !validProjectID(id) {
		return result, errors.Errorf("invalid project id %q", id)
	}
	if info, err := fs.Stat(p.content, id); err != nil || !info.IsDir() {
		return result, errors.Errorf("project directory not found: %s", id)
	}

	markdown, err := fs.ReadFile(p.content, path.Join(id, englishFile))
	if err != nil {
		return result, errors.Wrapf(err, "reading %s/%s", id, englishFile)
	}
	markdownIt, err := p.readOptional(path.Join(id, italianFile))
	if err != nil {
		return result, err
	}
	if markdownIt == nil {
		logger.Info().Msg("no it.md found, skipping Italian markdown")
	}
	meta := p.readMeta(id, logger)

	exists, err := p.projects.Exists(ctx, id)
	if err != nil {
		return result, errors.Wrapf(err, "looking up project %s", id)
	}
	if !exists {
		if strings.TrimSpace(meta.Title) == "" {
			return result, errors.Errorf("project %q not found in database and meta.json has no title; seed it first", id)
		}
		if err := p.projects.Upsert(ctx, metaRow(id, meta)); err != nil {
			return result, errors.Wrapf(err, "creating project %s", id)
		}
		result.Created = true
		logger.Info().Msg("project created from meta.json")
	}

	err = p.projects.UpdateTranslations(ctx, id, database.Translations{
		Markdown:           string(markdown),
		MarkdownIt:         markdownIt,
		ShortDescriptionIt: nonBlank(meta.ShortDescriptionIt),
		FeaturesIt:         meta.FeaturesIt,
	})
	if err != nil {
		return result, errors.Wrapf(err, "updating markdown of %s", id)
	}
	logger.Info().Msg("markdown and metadata updated")

	uploaded, err := p.publishAssets(ctx, id, logger)
	result.Assets = uploaded
	if err != nil {
		return result, err
	}

	logger.Info().Int("assets", uploaded).Msg("project published")
	return result, nil
}

func (p *Publisher) publishAssets(ctx context.Context, id string, logger zerolog.Logger) (int, error) {
	dir := path.Join(id, assetsSubdir)
	entries, err := fs.ReadDir(p.content, dir)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info().Msg("no assets directory found, skipping asset upload")
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "listing %s", dir)
	}

	uploaded := 0
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		data, err := fs.ReadFile(p.content, path.Join(dir, name))
		if err != nil {
			return uploaded, errors.Wrapf(err, "reading asset %s/%s", dir, name)
		}

		slug, loc := assets.ParseFilename(name)
		asset := &models.Asset{
			ID:        assets.ID(id, slug, loc),
			ProjectID: id,
			Slug:      slug,
			MimeType:  images.MimeTypeOf(name),
			Blob:      data,
		}
		if loc != "" {
			asset.Locale = &loc
		}
		if err := p.assets.Replace(ctx, asset); err != nil {
			return uploaded, errors.Wrapf(err, "uploading asset %s", asset.ID)
		}
		logger.Info().Str("asset", name).Str("locale", loc).Msg("asset uploaded")
		uploaded++
	}
	return uploaded, nil
}

// PublishAll publishes every project directory in name order and stops at
// the first failure.
func (p *Publisher) PublishAll(ctx context.Context) ([]Result, error) {
	ids, err := p.projectIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		p.logger.Info().Msg("no project directories found")
		return nil, nil
	}
	p.logger.Info().Strs("projects", ids).Msg("publishing projects")

	results := make([]Result, 0, len(ids))
	for _, id := range ids {
		result, err := p.PublishProject(ctx, id)
		if err != nil {
			return results, errors.Wrapf(err, "publishing %s", id)
		}
		results = append(results, result)
	}
	return results, nil
}

// Seed upserts every dataset project together with its cover image read from
// the public tree. Italian columns are left to PublishProject.
func (p *Publisher) Seed(ctx context.Context, dataset *projects.Dataset, public fs.FS) (int, error) {
	seeded := 0
	for _, rec := range dataset.All() {
		row := &models.ProjectRow{
			ID:               rec.ID,
			Title:            rec.Title,
			ShortDescription: rec.ShortDescription,
			Tags:             datatypes.JSONSlice[string](nonNilSlice(rec.Tags)),
			Markdown:         rec.Markdown,
			Github:           rec.Github,
			Demo:             rec.Demo,
			Features:         datatypes.JSONSlice[string](rec.Features),
			Featured:         rec.Featured,
		}
		if rec.Image != nil {
			row.Image = *rec.Image
			data, mimeType, err := images.ReadFile(public, *rec.Image)
			switch {
			case errors.Is(err, images.ErrExternal):
				p.logger.Warn().Str("projectID", rec.ID).Str("image", *rec.Image).Msg("external cover is not stored")
			case err != nil:
				return seeded, errors.Wrapf(err, "reading cover of %s", rec.ID)
			default:
				row.ImageBlob = data
				row.ImageMime = &mimeType
			}
		}

		if err := p.projects.Upsert(ctx, row); err != nil {
			return seeded, errors.Wrapf(err, "seeding %s", rec.ID)
		}
		p.logger.Info().Str("projectID", rec.ID).Msg("project seeded")
		seeded++
	}
	return seeded, nil
}

// SyncMarkdown rewrites only the markdown columns of every project directory.
// Directories without en.md and projects missing from the database are
// skipped.
func (p *Publisher) SyncMarkdown(ctx context.Context) (int, error) {
	ids, err := p.projectIDs()
	if err != nil {
		return 0, err
	}

	synced := 0
	for _, id := range ids {
		logger := p.logger.With().Str("projectID", id).Logger()

		markdown, err := fs.ReadFile(p.content, path.Join(id, englishFile))
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn().Msg("no en.md, skipping")
			continue
		}
		if err != nil {
			return synced, errors.Wrapf(err, "reading %s/%s", id, englishFile)
		}
		markdownIt, err := p.readOptional(path.Join(id, italianFile))
		if err != nil {
			return synced, err
		}

		err = p.projects.UpdateMarkdown(ctx, id, string(markdown), markdownIt)
		if errs.IsNotFound(err) {
			logger.Warn().Msg("project not in database, skipping")
			continue
		}
		if err != nil {
			return synced, errors.Wrapf(err, "syncing markdown of %s", id)
		}
		logger.Info().Msg("markdown synced")
		synced++
	}
	return synced, nil
}

func (p *Publisher) projectIDs() ([]string, error) {
	entries, err := fs.ReadDir(p.content, ".")
	if err != nil {
		return nil, errors.Wrap(err, "listing content directory")
	}
	// fs.ReadDir returns entries sorted by name.
	var ids []string
	for _, entry := range entries {
		if entry.IsDir() && validProjectID(entry.Name()) {
			ids = append(ids, entry.Name())
		}
	}
	return ids, nil
}

// readOptional returns nil when the file does not exist.
func (p *Publisher) readOptional(name string) (*string, error) {
	data, err := fs.ReadFile(p.content, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	s := string(data)
	return &s, nil
}

// readMeta decodes meta.json leniently: a missing or broken file yields the
// zero Meta so markdown still publishes.
func (p *Publisher) readMeta(id string, logger zerolog.Logger) projects.Meta {
	var meta projects.Meta
	data, err := fs.ReadFile(p.content, path.Join(id, metaFile))
	if err != nil {
		logger.Info().Msg("no meta.json found, using defaults")
		return meta
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		logger.Warn().Err(err).Msg("meta.json is not valid JSON, using defaults")
		return projects.Meta{}
	}
	return meta
}

func metaRow(id string, meta projects.Meta) *models.ProjectRow {
	row := &models.ProjectRow{
		ID:               id,
		Title:            meta.Title,
		ShortDescription: meta.ShortDescription,
		Tags:             datatypes.JSONSlice[string](nonNilSlice(meta.Tags)),
		Github:           meta.Github,
		Demo:             meta.Demo,
		Features:         datatypes.JSONSlice[string](meta.Features),
		Featured:         meta.Featured,
	}
	if meta.Cover != "" {
		row.Image = projects.AssetPath(id, meta.Cover)
	}
	return row
}

func validProjectID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`) && !strings.HasPrefix(id, ".")
}

func nonBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
