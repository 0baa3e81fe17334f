// Package node assembles the flipkeeper node: the flip index in PostgreSQL,
// payloads in object storage, the FlipNode gRPC service and the admin API.
package node

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/dmitrijs2005/flipkeeper/internal/logging"
	"github.com/dmitrijs2005/flipkeeper/internal/node/admin"
	"github.com/dmitrijs2005/flipkeeper/internal/node/config"
	"github.com/dmitrijs2005/flipkeeper/internal/node/repositories/repomanager"
	"github.com/dmitrijs2005/flipkeeper/internal/node/services"
	"github.com/dmitrijs2005/flipkeeper/internal/node/storage"

	gs "github.com/dmitrijs2005/flipkeeper/internal/node/grpc"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	authService     *services.AuthService
	flipService     *services.FlipService
	epochService    *services.EpochService
	identityService *services.IdentityService
}

// NewApp connects to the database, applies migrations and opens the object
// store.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := openStore(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return newApp(c, logger, db, rm, store), nil
}

func openStore(ctx context.Context, c *config.Config, logger logging.Logger) (storage.ObjectStore, error) {
	if c.S3BaseEndpoint == "" {
		logger.Warn(ctx, "No S3 endpoint configured, flip payloads are kept in memory")
		return storage.NewMemoryStore(), nil
	}
	store, err := storage.NewS3Store(ctx, storage.S3Config{
		RootUser:     c.S3RootUser,
		RootPassword: c.S3RootPassword,
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 init error: %w", err)
	}
	return store, nil
}

func newApp(c *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager, store storage.ObjectStore) *App {
	return &App{
		config:          c,
		logger:          logger,
		db:              db,
		authService:     services.NewAuthService(db, rm, c),
		flipService:     services.NewFlipService(db, rm, store),
		epochService:    services.NewEpochService(db, rm, c),
		identityService: services.NewIdentityService(db, rm),
	}
}

// Run serves gRPC and, when configured, the admin API until ctx is done or
// one of them fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting node...")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.authService, app.flipService, app.epochService, app.config.SecretKey)
	run("grpc", grpcServer.Run)

	if app.config.AdminAddr != "" {
		adminServer := admin.NewServer(app.config.AdminAddr, app.logger, app.identityService, app.epochService)
		run("admin", adminServer.Run)
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "Node stopped")
	return firstErr
}
