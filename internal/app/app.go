package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/andy/billfold/internal/config"
	"github.com/andy/billfold/internal/domain"
	"github.com/andy/billfold/internal/logger"
	"github.com/andy/billfold/internal/repository"
	"github.com/andy/billfold/internal/service"
)

// App is the dependency injection container for all application components
type App struct {
	Config *config.Config
	Log    zerolog.Logger

	Blob        repository.BlobStore
	InvoiceRepo repository.InvoiceRepository
	Invoices    *service.InvoiceStore

	logCloser io.Closer
}

// New creates a new App instance from the default config path
func New(ctx context.Context) (*App, error) {
	cfg, err := config.LoadDefault()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return NewWithConfig(ctx, cfg)
}

// NewWithConfig creates an App with a provided config (useful for testing).
// A fresh data directory gets populated from the configured seed file.
func NewWithConfig(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	log, closer, err := logger.Setup(logger.Config{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	blob := repository.NewFileStore(cfg.Storage.Dir)
	invoiceRepo := repository.NewInvoiceRepo(blob, logger.WithComponent(log, "repository"))
	store := service.NewInvoiceStore(invoiceRepo, logger.WithComponent(log, "store"))

	a := &App{
		Config:      cfg,
		Log:         log,
		Blob:        blob,
		InvoiceRepo: invoiceRepo,
		Invoices:    store,
		logCloser:   closer,
	}

	store.Subscribe(auditObserver{log: logger.WithComponent(log, "audit")})

	if err := a.seedIfEmpty(ctx); err != nil {
		log.Warn().Err(err).Msg("seeding skipped")
	}

	return a, nil
}

// seedIfEmpty loads the configured seed file into an empty store. A
// missing seed file is normal and not an error.
func (a *App) seedIfEmpty(ctx context.Context) error {
	if a.Invoices.Count() > 0 || a.Config.Storage.SeedPath == "" {
		return nil
	}
	if _, err := os.Stat(a.Config.Storage.SeedPath); os.IsNotExist(err) {
		return nil
	}

	invoices, err := repository.LoadSeed(a.Config.Storage.SeedPath)
	if err != nil {
		return err
	}
	return a.Invoices.Seed(ctx, invoices)
}

// Close cleanly shuts down the application
func (a *App) Close() error {
	if a.logCloser != nil {
		return a.logCloser.Close()
	}
	return nil
}

// SaveConfig saves the current configuration to disk
func (a *App) SaveConfig() error {
	return a.Config.Save(config.DefaultConfigPath())
}

// auditObserver writes store mutations to the log as an audit trail
type auditObserver struct {
	log zerolog.Logger
}

func (o auditObserver) InvoiceRemoved(id string) {
	o.log.Info().Str("id", id).Msg("invoice removed")
}

func (o auditObserver) InvoiceStatusChanged(id string, status domain.Status) {
	o.log.Info().Str("id", id).Str("status", string(status)).Msg("invoice status changed")
}
