// Package server wires the sealbox server together: configuration, the
// repository backend, the object store, the services and the gRPC
// endpoint, plus signal-driven graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/sealbox/internal/logging"
	"github.com/dmitrijs2005/sealbox/internal/server/config"
	"github.com/dmitrijs2005/sealbox/internal/server/objectstore"
	"github.com/dmitrijs2005/sealbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/sealbox/internal/server/services"

	gs "github.com/dmitrijs2005/sealbox/internal/server/grpc"
)

// Test seams.
var (
	openPostgres = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.OpenPostgres(ctx, dsn)
	}
	openBadger = func(dir string, l logging.Logger) (repomanager.RepositoryManager, error) {
		return repomanager.OpenBadger(dir, l)
	}
	newObjectStore = func(ctx context.Context, c *config.Config) (objectstore.Store, error) {
		return objectstore.NewS3Store(ctx, c)
	}
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	repositories repomanager.RepositoryManager
	userService  *services.UserService
	fileService  *services.FileService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	return newApp(ctx, c, logging.NewJSONLogger(os.Stdout, level))
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	m, err := openRepositories(ctx, c, logger)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newObjectStore(ctx, c)
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	us := services.NewUserService(m, c)
	fs := services.NewFileService(m, store, us, c, logger)

	return &App{config: c, logger: logger, repositories: m, userService: us, fileService: fs}, nil
}

func openRepositories(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	switch c.StorageBackend {
	case config.BackendBadger:
		logger.Info(ctx, "Using badger backend", "dir", c.BadgerDir)
		return openBadger(c.BadgerDir, logger.With("module", "badger"))
	default:
		logger.Info(ctx, "Using postgres backend")
		return openPostgres(ctx, c.DatabaseDSN)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// releases the repository backend.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.userService, app.fileService,
		app.config.SecretKey, app.config.MaxUploadBytes)

	err := s.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	if cerr := app.repositories.Close(); cerr != nil {
		app.logger.Error(ctx, "closing repositories", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
