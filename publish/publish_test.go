package publish_test

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/SignorelliLorenzo/portfolio/assets"
	"github.com/SignorelliLorenzo/portfolio/database"
	"github.com/SignorelliLorenzo/portfolio/database/dbtest"
	"github.com/SignorelliLorenzo/portfolio/locale"
	"github.com/SignorelliLorenzo/portfolio/projects"
	"github.com/SignorelliLorenzo/portfolio/publish"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	pngEnglish = []byte{0x89, 'P', 'N', 'G', 'e', 'n'}
	pngItalian = []byte{0x89, 'P', 'N', 'G', 'i', 't'}
	coverBytes = []byte{0x89, 'P', 'N', 'G', 'c'}
)

func contentFS() fstest.MapFS {
	return fstest.MapFS{
		"seeded/en.md":     {Data: []byte("# Seeded")},
		"seeded/it.md":     {Data: []byte("# Seminato")},
		"seeded/meta.json": {Data: []byte(`{"shortDescriptionIt": "Descrizione", "featuresIt": ["uno", "due"]}`)},

		"seeded/assets/diagram.png":     {Data: pngEnglish},
		"seeded/assets/diagram.it.png":  {Data: pngItalian},
		"seeded/assets/clip.mp4":        {Data: []byte{0, 0, 0, 1}},
		"seeded/assets/nested/skip.png": {Data: []byte{9}},

		"fresh/en.md":     {Data: []byte("# Fresh")},
		"fresh/meta.json": {Data: []byte(`{"title": "Fresh", "shortDescription": "New one", "tags": ["go"], "cover": "cover.png"}`)},
	}
}

func seedDataset(t *testing.T) *projects.Dataset {
	t.Helper()
	d, err := projects.LoadDataset([]byte(`[
		{"id":"seeded","title":"Seeded","shortDescription":"From JSON","image":"/images/seeded.png","tags":["json"],"featured":true},
		{"id":"remote","title":"Remote","shortDescription":"Hosted cover","image":"https://cdn.example.com/r.png"}
	]`))
	require.NoError(t, err)
	return d
}

func publicFS() fstest.MapFS {
	return fstest.MapFS{"images/seeded.png": {Data: coverBytes}}
}

type env struct {
	db        database.Database
	publisher *publish.Publisher
}

func newEnv(t *testing.T, content fstest.MapFS) env {
	t.Helper()
	db := database.New(dbtest.Open(t))
	return env{
		db:        db,
		publisher: publish.New(db.ProjectRepo(), db.AssetRepo(), content),
	}
}

func TestSeed(t *testing.T) {
	e := newEnv(t, contentFS())
	ctx := context.Background()

	n, err := e.publisher.Seed(ctx, seedDataset(t), publicFS())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	row, err := e.db.ProjectRepo().FindByID(ctx, "seeded")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "From JSON", row.ShortDescription)
	assert.True(t, row.Featured)

	img, err := e.db.ProjectRepo().FindImage(ctx, "seeded")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Equal(t, coverBytes, []byte(img.ImageBlob))
	require.NotNil(t, img.ImageMime)
	assert.Equal(t, "image/png", *img.ImageMime)

	img, err = e.db.ProjectRepo().FindImage(ctx, "remote")
	require.NoError(t, err)
	require.NotNil(t, img)
	assert.Empty(t, img.ImageBlob)
}

func TestSeed_MissingCoverFails(t *testing.T) {
	e := newEnv(t, contentFS())
	_, err := e.publisher.Seed(context.Background(), seedDataset(t), fstest.MapFS{})
	assert.ErrorContains(t, err, "reading cover of seeded")
}

func TestPublishProject_UpdatesSeededProjectAndAssets(t *testing.T) {
	e := newEnv(t, contentFS())
	ctx := context.Background()
	_, err := e.publisher.Seed(ctx, seedDataset(t), publicFS())
	require.NoError(t, err)

	result, err := e.publisher.PublishProject(ctx, "seeded")
	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, 3, result.Assets)

	row, err := e.db.ProjectRepo().FindByID(ctx, "seeded")
	require.NoError(t, err)
	require.NotNil(t, row.Markdown)
	assert.Equal(t, "# Seeded", *row.Markdown)
	require.NotNil(t, row.MarkdownIt)
	assert.Equal(t, "# Seminato", *row.MarkdownIt)
	require.NotNil(t, row.ShortDescriptionIt)
	assert.Equal(t, "Descrizione", *row.ShortDescriptionIt)
	assert.Equal(t, []string{"uno", "due"}, []string(row.FeaturesIt))

	// Publishing twice replaces rows instead of duplicating them.
	_, err = e.publisher.PublishProject(ctx, "seeded")
	require.NoError(t, err)
	stored, err := e.db.AssetRepo().FindByProject(ctx, "seeded")
	require.NoError(t, err)
	assert.Len(t, stored, 3)

	store := assets.NewDatabaseStore(e.db.AssetRepo(), e.db.ProjectRepo(), seedDataset(t), publicFS(), nil)

	it, err := store.Asset(ctx, "seeded", "diagram.png", string(locale.Italian))
	require.NoError(t, err)
	assert.Equal(t, pngItalian, it.Data)
	assert.Equal(t, "image/png", it.MimeType)

	en, err := store.Asset(ctx, "seeded", "diagram.png", string(locale.English))
	require.NoError(t, err)
	assert.Equal(t, pngEnglish, en.Data)

	clip, err := store.Asset(ctx, "seeded", "clip.mp4", "")
	require.NoError(t, err)
	assert.Equal(t, "video/mp4", clip.MimeType)

	// The seeded base columns survive a publish.
	resolver := projects.NewResolver(projects.NewDatabaseSource(e.db.ProjectRepo()), seedDataset(t), projects.WithTranslationDonor())
	p, err := resolver.Get(ctx, "seeded", locale.Italian)
	require.NoError(t, err)
	assert.Equal(t, "Seeded", p.Title)
	assert.Equal(t, "Descrizione", p.ShortDescription)
	assert.True(t, p.HasItalianTranslation)
}

func TestPublishProject_CreatesFromMeta(t *testing.T) {
	e := newEnv(t, contentFS())
	ctx := context.Background()

	result, err := e.publisher.PublishProject(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Zero(t, result.Assets)

	row, err := e.db.ProjectRepo().FindByID(ctx, "fresh")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Fresh", row.Title)
	assert.Equal(t, "/projects/fresh/assets/cover.png", row.Image)
	assert.Nil(t, row.MarkdownIt)
	assert.Nil(t, row.ShortDescriptionIt)
}

func TestPublishProject_Errors(t *testing.T) {
	content := contentFS()
	content["untitled/en.md"] = &fstest.MapFile{Data: []byte("# Untitled")}
	content["nomarkdown/meta.json"] = &fstest.MapFile{Data: []byte(`{"title": "No markdown"}`)}
	e := newEnv(t, content)
	ctx := context.Background()

	_, err := e.publisher.PublishProject(ctx, "missing")
	assert.ErrorContains(t, err, "project directory not found")

	_, err = e.publisher.PublishProject(ctx, "../etc")
	assert.ErrorContains(t, err, "invalid project id")

	_, err = e.publisher.PublishProject(ctx, "untitled")
	assert.ErrorContains(t, err, "seed it first")

	_, err = e.publisher.PublishProject(ctx, "nomarkdown")
	assert.ErrorContains(t, err, "reading nomarkdown/en.md")
}

func TestPublishAll_StopsAtFirstFailure(t *testing.T) {
	e := newEnv(t, contentFS())
	ctx := context.Background()

	// "fresh" sorts first and succeeds; "seeded" is not in the database and
	// its meta.json has no title.
	results, err := e.publisher.PublishAll(ctx)
	require.Error(t, err)
	assert.ErrorContains(t, err, "publishing seeded")
	require.Len(t, results, 1)
	assert.Equal(t, "fresh", results[0].ProjectID)

	_, err = e.publisher.Seed(ctx, seedDataset(t), publicFS())
	require.NoError(t, err)
	results, err = e.publisher.PublishAll(ctx)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSyncMarkdown(t *testing.T) {
	e := newEnv(t, contentFS())
	ctx := context.Background()
	_, err := e.publisher.Seed(ctx, seedDataset(t), publicFS())
	require.NoError(t, err)

	n, err := e.publisher.SyncMarkdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	row, err := e.db.ProjectRepo().FindByID(ctx, "seeded")
	require.NoError(t, err)
	assert.Equal(t, "# Seminato", *row.MarkdownIt)
	assert.Nil(t, row.ShortDescriptionIt)

	missing, err := e.db.ProjectRepo().FindByID(ctx, "fresh")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
