package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/SignorelliLorenzo/portfolio/config"
	zlog "github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// Open connects to the database named by DATABASE_URL. It returns a nil
// handle and no error when DATABASE_URL is unset, which callers treat as
// "no database configured". The connection is not pinged: the first query
// is the first round trip.
func Open(c map[string]string) (*gorm.DB, error) {
	dsn := strings.TrimSpace(config.GetString(c, "DATABASE_URL", ""))
	if dsn == "" {
		return nil, nil
	}

	dbType := strings.ToLower(config.GetString(c, "DB_TYPE", TypePostgres))
	dialector, err := dialectorFor(dbType, dsn)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		PrepareStmt:            false,
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
		Logger:                 newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", dbType, err)
	}

	replicas := config.GetList(c, "DATABASE_REPLICA_URLS")
	if len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, replica := range replicas {
			d, err := dialectorFor(dbType, replica)
			if err != nil {
				return nil, err
			}
			dialectors = append(dialectors, d)
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("registering read replicas: %w", err)
		}
		zlog.Info().Int("replicas", len(dialectors)).Msg("read replicas registered")
	}

	zlog.Info().Str("dbType", dbType).Msg("database configured")
	return db, nil
}

func dialectorFor(dbType, dsn string) (gorm.Dialector, error) {
	switch dbType {
	case TypePostgres, "postgresql", "supa":
		return postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), nil
	case TypeSQLite:
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

func newGormLogger() logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

// Close releases the pool behind db. A nil db is a no-op.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
