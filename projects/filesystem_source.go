package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/SignorelliLorenzo/portfolio/images"
	"github.com/rs/zerolog/log"
)

// ProjectsDir is where project directories live inside the public tree.
const ProjectsDir = "projects"

// coverBasenames are probed in order when meta.json names no cover.
var coverBasenames = []string{"cover", "hero", "thumbnail", "image"}

var errMalformedMeta = errors.New("malformed meta.json")

// Meta is the content of a project's meta.json.
type Meta struct {
	Title              string   `json:"title"`
	ShortDescription   string   `json:"shortDescription"`
	ShortDescriptionIt *string  `json:"shortDescriptionIt"`
	Tags               []string `json:"tags"`
	Github             *string  `json:"github"`
	Demo               *string  `json:"demo"`
	Features           []string `json:"features"`
	FeaturesIt         []string `json:"featuresIt"`
	Featured           bool     `json:"featured"`
	Cover              string   `json:"cover"`
	Order              *int     `json:"order"`
}

// ParseMeta decodes meta.json. A document without a title is malformed.
func ParseMeta(data []byte) (Meta, error) {
	var meta Meta
	if err := json.Unmarshal(data, &meta); err != nil {
		return Meta{}, fmt.Errorf("%w: %v", errMalformedMeta, err)
	}
	if strings.TrimSpace(meta.Title) == "" {
		return Meta{}, fmt.Errorf("%w: missing title", errMalformedMeta)
	}
	return meta, nil
}

// FilesystemSource reads projects laid out as
// projects/<id>/{meta.json,en.md,it.md,assets/*} in a public file tree.
type FilesystemSource struct {
	fsys fs.FS
}

func NewFilesystemSource(public fs.FS) *FilesystemSource {
	return &FilesystemSource{fsys: public}
}

func (s *FilesystemSource) Name() string { return "filesystem" }

// Records loads every project directory in listing order. Directories whose
// metadata is missing or malformed are skipped.
func (s *FilesystemSource) Records(ctx context.Context) ([]Record, error) {
	entries, err := fs.ReadDir(s.fsys, ProjectsDir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ProjectsDir, err)
	}

	var records []Record
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !entry.IsDir() {
			continue
		}
		r, err := s.load(entry.Name())
		if err != nil {
			log.Warn().Err(err).Str("projectID", entry.Name()).Msg("skipping project")
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// Record loads one project. A missing or malformed project is absent.
func (s *FilesystemSource) Record(ctx context.Context, id string) (*Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, nil
	}
	r, err := s.load(id)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("projectID", id).Msg("project unreadable")
		}
		return nil, nil
	}
	return &r, nil
}

func validID(id string) bool {
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func (s *FilesystemSource) load(id string) (Record, error) {
	dir := path.Join(ProjectsDir, id)

	raw, err := fs.ReadFile(s.fsys, path.Join(dir, "meta.json"))
	if err != nil {
		return Record{}, err
	}
	meta, err := ParseMeta(raw)
	if err != nil {
		return Record{}, err
	}

	var markdown *string
	if en, err := fs.ReadFile(s.fsys, path.Join(dir, "en.md")); err == nil {
		md := string(en)
		markdown = &md
	}
	var markdownIt string
	if it, err := fs.ReadFile(s.fsys, path.Join(dir, "it.md")); err == nil {
		markdownIt = string(it)
	}

	return Record{
		ID:                 id,
		Title:              meta.Title,
		ShortDescription:   meta.ShortDescription,
		ShortDescriptionIt: nonEmpty(meta.ShortDescriptionIt),
		Image:              s.cover(id, meta),
		Tags:               meta.Tags,
		Markdown:           markdown,
		MarkdownIt:         markdownIt,
		Github:             meta.Github,
		Demo:               meta.Demo,
		Features:           meta.Features,
		FeaturesIt:         meta.FeaturesIt,
		Featured:           meta.Featured,
		Order:              meta.Order,
	}, nil
}

// AssetPath is the public URL of a file in a project's assets directory.
func AssetPath(id, name string) string {
	return "/" + path.Join(ProjectsDir, id, "assets", name)
}

// cover picks the project image: meta.cover, then a conventional basename,
// then the first image in the assets directory.
func (s *FilesystemSource) cover(id string, meta Meta) *string {
	if meta.Cover != "" {
		p := AssetPath(id, meta.Cover)
		return &p
	}

	entries, err := fs.ReadDir(s.fsys, path.Join(ProjectsDir, id, "assets"))
	if err != nil {
		return nil
	}

	for _, base := range coverBasenames {
		for _, e := range entries {
			name := e.Name()
			if !images.IsImage(name) {
				continue
			}
			if strings.EqualFold(strings.TrimSuffix(name, path.Ext(name)), base) {
				p := AssetPath(id, name)
				return &p
			}
		}
	}
	for _, e := range entries {
		if images.IsImage(e.Name()) {
			p := AssetPath(id, e.Name())
			return &p
		}
	}
	return nil
}
