package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carebook/carebook/internal/assist"
	"github.com/carebook/carebook/internal/cache"
	"github.com/carebook/carebook/internal/config"
	"github.com/carebook/carebook/internal/service"
	"github.com/carebook/carebook/internal/storage"
	"github.com/carebook/carebook/internal/store"
	"github.com/carebook/carebook/internal/store/airtable"
	"github.com/carebook/carebook/internal/store/relational"
	"github.com/carebook/carebook/internal/store/unconfigured"
)

type App struct {
	Cfg      *config.Config
	DB       *sqlx.DB
	Store    *store.Store
	Cache    *cache.Cache
	Files    *storage.Attachments
	Assist   *assist.Client
	Services *service.Services
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	app := &App{Cfg: cfg}

	// Backend selection happens once, from config. Everything downstream
	// works against the store interfaces.
	switch cfg.SelectedBackend() {
	case config.BackendRelational:
		driver, connection := cfg.DBDriver, cfg.DBConnection
		if cfg.DatabaseURL != "" {
			driver, connection = "pgx", cfg.DatabaseURL
		}

		database, err := relational.Open(driver, connection)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %v", err)
		}
		if err := relational.RunMigrations(database.DB, driver); err != nil {
			return nil, fmt.Errorf("failed to run migrations: %v", err)
		}
		app.DB = database
		app.Store = relational.New(database, driver)

	case config.BackendAirtable:
		app.Store = airtable.New(airtable.Options{
			APIKey: cfg.AirtableAPIKey,
			BaseID: cfg.AirtableBaseID,
			Tables: airtable.Tables{
				Days:    cfg.AirtableTableDays,
				Weight:  cfg.AirtableTableWeight,
				Sleep:   cfg.AirtableTableSleep,
				Meal:    cfg.AirtableTableMeal,
				Workout: cfg.AirtableTableWorkout,
				Journal: cfg.AirtableTableJournal,
			},
		})

	default:
		app.Store = unconfigured.New(cfg.BackendHint())
	}

	app.Cache = cache.New(cfg.CacheTTL)

	app.Assist = assist.New(assist.Options{
		APIKey: cfg.GeminiAPIKey,
		Model:  cfg.GeminiModel,
	})

	files, err := storage.New(ctx, storage.Options{
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		Endpoint:      cfg.S3Endpoint,
		PresignExpiry: cfg.S3PresignExpiry,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}
	app.Files = files

	app.Services = service.New(app.Store, app.Cache, service.Options{
		DefaultOwner: cfg.OwnerKey,
		Location:     cfg.Location,
	}, app.Assist, app.Files)

	return app, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
