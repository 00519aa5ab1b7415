// Command publish loads authored project content into the database.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SignorelliLorenzo/portfolio/config"
	"github.com/SignorelliLorenzo/portfolio/database"
	"github.com/SignorelliLorenzo/portfolio/errs"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/SignorelliLorenzo/portfolio/projects"
	"github.com/SignorelliLorenzo/portfolio/publish"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	contentDir  string
	publicDir   string
	datasetPath string
	envFile     string
)

var rootCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish portfolio project content to the database",
	Long: `Publish reads project content authored as markdown, meta.json and asset
files and writes it to the database configured by DATABASE_URL.

Content layout:
  <content>/<id>/en.md        English markdown (required)
  <content>/<id>/it.md        Italian markdown
  <content>/<id>/meta.json    title, descriptions, tags, Italian metadata
  <content>/<id>/assets/*     images and videos; name.it.png is the Italian variant`,
	SilenceUsage: true,
}

var projectCmd = &cobra.Command{
	Use:   "project <id>",
	Short: "Publish one project",
	Args:  cobra.ExactArgs(1),
	RunE:  runProject,
}

var allCmd = &cobra.Command{
	Use:   "all",
	Short: "Publish every project directory, stopping at the first failure",
	Args:  cobra.NoArgs,
	RunE:  runAll,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the schema and upsert the bundled project dataset with cover images",
	Args:  cobra.NoArgs,
	RunE:  runSeed,
}

var syncMarkdownCmd = &cobra.Command{
	Use:   "sync-markdown",
	Short: "Rewrite only the markdown of every project already in the database",
	Args:  cobra.NoArgs,
	RunE:  runSyncMarkdown,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the projects, project_assets and contact_requests tables",
	Args:  cobra.NoArgs,
	RunE:  runMigrate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&contentDir, "content", "content/projects", "content directory holding one folder per project")
	rootCmd.PersistentFlags().StringVar(&publicDir, "public", "public", "public directory the dataset image paths are relative to")
	rootCmd.PersistentFlags().StringVar(&datasetPath, "dataset", "", "project dataset JSON (defaults to FALLBACK_DATA_PATH, then the bundled dataset)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(projectCmd, allCmd, seedCmd, syncMarkdownCmd, migrateCmd)
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).With().Timestamp().Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Msgf("%+v", err)
		os.Exit(1)
	}
}

// openDatabase loads configuration and connects. Publishing has no use
// without a database, so a missing DATABASE_URL is an error here.
func openDatabase(ctx context.Context) (*gorm.DB, map[string]string, error) {
	if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
		return nil, nil, errors.Wrapf(err, "loading %s", envFile)
	}
	c, err := config.Load(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading configuration")
	}
	db, err := database.Open(c)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening database")
	}
	if db == nil {
		return nil, nil, errs.NewDatabaseDisabledError("publish")
	}
	return db, c, nil
}

func withPublisher(cmd *cobra.Command, fn func(ctx context.Context, p *publish.Publisher, db *gorm.DB, c map[string]string) error) error {
	ctx := cmd.Context()
	db, c, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close(db)

	repos := database.New(db)
	p := publish.New(repos.ProjectRepo(), repos.AssetRepo(), os.DirFS(contentDir))
	return fn(ctx, p, db, c)
}

func runProject(cmd *cobra.Command, args []string) error {
	return withPublisher(cmd, func(ctx context.Context, p *publish.Publisher, _ *gorm.DB, _ map[string]string) error {
		result, err := p.PublishProject(ctx, args[0])
		if err != nil {
			return errors.Wrapf(err, "publishing %s", args[0])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "published %s (%d assets, created=%t)\n", result.ProjectID, result.Assets, result.Created)
		return nil
	})
}

func runAll(cmd *cobra.Command, _ []string) error {
	return withPublisher(cmd, func(ctx context.Context, p *publish.Publisher, _ *gorm.DB, _ map[string]string) error {
		results, err := p.PublishAll(ctx)
		for _, result := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "published %s (%d assets)\n", result.ProjectID, result.Assets)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d project(s) published\n", len(results))
		return nil
	})
}

func runSeed(cmd *cobra.Command, _ []string) error {
	return withPublisher(cmd, func(ctx context.Context, p *publish.Publisher, db *gorm.DB, c map[string]string) error {
		if err := models.Migrate(db); err != nil {
			return err
		}
		dataset, err := loadDataset(c)
		if err != nil {
			return err
		}
		n, err := p.Seed(ctx, dataset, os.DirFS(publicDir))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d project(s) seeded\n", n)
		return nil
	})
}

func runSyncMarkdown(cmd *cobra.Command, _ []string) error {
	return withPublisher(cmd, func(ctx context.Context, p *publish.Publisher, _ *gorm.DB, _ map[string]string) error {
		n, err := p.SyncMarkdown(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d project(s) synced\n", n)
		return nil
	})
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	return withPublisher(cmd, func(_ context.Context, _ *publish.Publisher, db *gorm.DB, _ map[string]string) error {
		if err := models.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema migrated")
		return nil
	})
}

func loadDataset(c map[string]string) (*projects.Dataset, error) {
	p := datasetPath
	if p == "" {
		p = config.GetString(c, "FALLBACK_DATA_PATH", "")
	}
	if p == "" {
		return projects.DefaultDataset(), nil
	}
	dataset, err := projects.LoadDatasetFile(p)
	return dataset, errors.Wrapf(err, "loading dataset %s", p)
}
