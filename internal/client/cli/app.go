package cli

import (
	"bufio"
	"context"
	"crypto/ed25519"
	"database/sql"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/flipkeeper/internal/client/client"
	"github.com/dmitrijs2005/flipkeeper/internal/client/config"
	"github.com/dmitrijs2005/flipkeeper/internal/client/flips"
	"github.com/dmitrijs2005/flipkeeper/internal/client/models"
	"github.com/dmitrijs2005/flipkeeper/internal/client/services"
	"github.com/dmitrijs2005/flipkeeper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// hostView is the part of services.HostWatcher the CLI reads.
type hostView interface {
	SetKey(ctx context.Context, key ed25519.PrivateKey)
	Identity() models.Identity
	Epoch() (models.Epoch, bool)
}

// flipList is the part of *flips.Orchestrator the CLI drives.
type flipList interface {
	Send(ev flips.Event) bool
	SendTo(id string, cmd flips.Command) error
	Snapshot() flips.Snapshot
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	authService services.AuthService
	orch        *flips.Orchestrator
	flips       flipList
	watcher     *services.HostWatcher
	host        hostView

	mu   sync.RWMutex
	key  ed25519.PrivateKey
	Mode Mode

	reader *bufio.Reader
	out    io.Writer
	now    func() time.Time
	newID  func() string
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	logger := logging.NewTextLogger(os.Stderr, c.LogLevel)

	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient, err := client.NewGRPCClient(c.NodeEndpointAddr, c.RequestTimeout)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	repos := client.NewRepositories(db)

	a := &App{
		config:      c,
		logger:      logger,
		db:          db,
		authService: services.NewAuthService(apiClient, db),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		now:         time.Now,
		newID:       newFlipID,
	}

	a.orch = flips.NewOrchestrator(flips.Deps{
		Store:       services.NewFlipStore(repos.Flips, logger),
		Network:     services.NewFlipGateway(apiClient),
		Preferences: repos.Metadata,
		Notifier:    flips.NotifierFunc(a.notifyError),
		Logger:      logger,
	})
	a.flips = a.orch
	a.watcher = services.NewHostWatcher(apiClient, a.orch, c.SyncInterval, logger)
	a.host = a.watcher

	return a, nil
}

func (a *App) notifyError(_ context.Context, message string) {
	printlnFn("Error:", message)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.Mode != mode
	a.Mode = mode
	a.mu.Unlock()
	if changed {
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) mode() Mode {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.Mode
}

func (a *App) isLoggedIn() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.key != nil
}

func (a *App) currentKey() ed25519.PrivateKey {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.key
}

// resume signs in again after the node comes back.
func (a *App) resume(ctx context.Context) {
	key := a.currentKey()
	if key == nil {
		return
	}
	if err := a.authService.SignIn(ctx, key); err != nil {
		a.logger.Warn(ctx, "sign in after reconnect failed", "error", err)
	}
}

func (a *App) setKey(key ed25519.PrivateKey) {
	a.mu.Lock()
	a.key = key
	a.mu.Unlock()
}

// Run starts the background loops and blocks in the REPL until the user
// exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := a.orch.Run(ctx); err != nil && ctx.Err() == nil {
			a.logger.Error(ctx, "flip list stopped", "error", err)
		}
	}()
	go func() {
		defer wg.Done()
		_ = a.watcher.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		a.StartOnlineStatusWatcher(ctx, a.config.SyncInterval)
	}()

	a.Root(ctx)

	cancel()
	wg.Wait()
	_ = a.authService.Close(ctx)
	_ = a.db.Close()
}

// StartOnlineStatusWatcher pings the node every interval and switches Mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
				continue
			}
			if a.mode() == ModeOffline {
				a.resume(ctx)
			}
			a.setMode(ModeOnline)

		case <-ctx.Done():
			return
		}
	}
}
