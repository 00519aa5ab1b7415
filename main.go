package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/SignorelliLorenzo/portfolio/api"
	"github.com/SignorelliLorenzo/portfolio/assets"
	"github.com/SignorelliLorenzo/portfolio/config"
	"github.com/SignorelliLorenzo/portfolio/contact"
	"github.com/SignorelliLorenzo/portfolio/database"
	"github.com/SignorelliLorenzo/portfolio/images"
	"github.com/SignorelliLorenzo/portfolio/metrics"
	"github.com/SignorelliLorenzo/portfolio/models"
	"github.com/SignorelliLorenzo/portfolio/projects"
	"github.com/SignorelliLorenzo/portfolio/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c, err := config.Load(context.Background())
	if err != nil {
		fmt.Printf("Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	setupLogger(c)
	log.Info().Msg("Initializing app...")

	db, err := database.Open(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}
	defer database.Close(db)

	if db != nil {
		// If generating models, run generation and exit
		if config.GetBool(c, "GENERATE_MODELS", false) {
			log.Info().Msg("Generating models and query helpers...")
			if err := models.GenerateModels(db); err != nil {
				log.Fatal().Err(err).Msg("Model generation failed")
			}
			return
		}

		// If generating column mismatch report, run report and exit
		if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
			log.Info().Msg("Generating column mismatch report...")
			if _, err := models.GenerateColumnMismatchReport(db); err != nil {
				log.Fatal().Err(err).Msg("Column report failed")
			}
			return
		}
	}

	deps, err := buildDependencies(c, db)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing dependencies")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(c, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(config.GetString(c, "LOG_LEVEL", "info"))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if config.GetBool(c, "LOG_PRETTY", false) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// buildDependencies picks the content source once for the process lifetime:
// the database when one is configured, the public directory otherwise.
func buildDependencies(c map[string]string, db *gorm.DB) (api.Dependencies, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	dataset := projects.DefaultDataset()
	if path := config.GetString(c, "FALLBACK_DATA_PATH", ""); path != "" {
		loaded, err := projects.LoadDatasetFile(path)
		if err != nil {
			return api.Dependencies{}, err
		}
		dataset = loaded
	}

	public := os.DirFS(config.GetString(c, "PUBLIC_DIR", "public"))

	var (
		resolver    *projects.Resolver
		store       assets.Store
		contactOpts = []contact.Option{contact.WithMetrics(m)}
		lister      api.ContactLister
	)
	if db != nil {
		repos := database.New(db)
		resolver = projects.NewResolver(projects.NewDatabaseSource(repos.ProjectRepo()), dataset,
			projects.WithTranslationDonor(), projects.WithMetrics(m))
		store = assets.NewDatabaseStore(repos.AssetRepo(), repos.ProjectRepo(), dataset, public, m)
		contactOpts = append(contactOpts, contact.WithStore(repos.ContactRepo()))
		lister = repos.ContactRepo()
	} else {
		log.Warn().Msg("DATABASE_URL not set, serving projects from the public directory")
		resolver = projects.NewResolver(projects.NewFilesystemSource(public), dataset, projects.WithMetrics(m))
		store = assets.NewStaticStore(resolver, m)
	}
	log.Info().Str("source", resolver.SourceName()).Int("datasetProjects", dataset.Len()).Msg("content source selected")

	if email := services.NewEmailNotifierFromConfig(c); email != nil {
		contactOpts = append(contactOpts, contact.WithNotifiers(email))
	}
	if sms := services.NewSMSNotifierFromConfig(c); sms != nil {
		contactOpts = append(contactOpts, contact.WithNotifiers(sms))
	}

	limiter := contact.NewWindowLimiter(
		config.GetInt(c, "CONTACT_RATE_LIMIT", contact.DefaultLimit),
		time.Duration(config.GetInt(c, "CONTACT_RATE_WINDOW_MINUTES", 60))*time.Minute,
	)

	return api.Dependencies{
		Resolver:        resolver,
		Assets:          store,
		Contact:         contact.NewService(limiter, contactOpts...),
		Inliner:         images.NewInliner(public),
		ContactRequests: lister,
		Public:          public,
		Metrics:         m,
		Gatherer:        registry,
	}, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
