package bootstrap

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appMigrations "github.com/campusware/degreeplanner/internal/app/migrations"
	appRepos "github.com/campusware/degreeplanner/internal/app/repositories"
	appServices "github.com/campusware/degreeplanner/internal/app/services"
	"github.com/campusware/degreeplanner/internal/config"
	"github.com/campusware/degreeplanner/internal/db"
	"github.com/campusware/degreeplanner/internal/pkg/logger"
	"github.com/campusware/degreeplanner/internal/seed"
)

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// loads the sample catalog.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.ApplyDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateSampleCatalog(context.Background(), dbPool, lgr); err != nil {
		// Sample data is a convenience, not a startup requirement
		lgr.Error().Err(err).Msg("Failed to create sample catalog, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildPlanner wires the repositories into a ready planner service
func BuildPlanner(cfg *config.Config, dbPool *pgxpool.Pool) *appServices.PlannerService {
	repos := appRepos.NewRepositories(dbPool)
	return appServices.NewPlannerService(
		repos.CourseRepository,
		repos.OfferingRepository,
		repos.DegreeRepository,
		repos.StudentRepository,
		cfg.Planner,
	)
}
