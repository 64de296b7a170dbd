package system

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KevinKickass/OpenPanelIO/internal/api/rest"
	"github.com/KevinKickass/OpenPanelIO/internal/api/websocket"
	"github.com/KevinKickass/OpenPanelIO/internal/catalog"
	"github.com/KevinKickass/OpenPanelIO/internal/config"
	"github.com/KevinKickass/OpenPanelIO/internal/extract"
	"github.com/KevinKickass/OpenPanelIO/internal/interfaces"
	"github.com/KevinKickass/OpenPanelIO/internal/session"
	"github.com/KevinKickass/OpenPanelIO/internal/storage"
	"go.uber.org/zap"
)

type LifecycleManager struct {
	config *config.Config
	logger *zap.Logger

	// storage is only set when the catalog lives in Postgres.
	storage   *storage.PostgresClient
	catalog   *catalog.Catalog
	extractor *extract.Extractor
	sessions  *session.Store

	wsHub      *websocket.Hub
	restServer *rest.Server

	stateMu      sync.RWMutex
	currentState SystemState

	shutdownOnce sync.Once
}

func NewLifecycleManager(cfg *config.Config, logger *zap.Logger) *LifecycleManager {
	return &LifecycleManager{
		config:       cfg,
		logger:       logger,
		sessions:     session.NewStore(cfg.Sessions.MaxSessions, logger),
		wsHub:        websocket.NewHub(logger),
		currentState: StateInitializing,
	}
}

// Start loads the component catalog and brings up the hub and the REST API.
func (lm *LifecycleManager) Start(ctx context.Context) error {
	lm.logger.Info("Starting OpenPanelIO",
		zap.String("catalog_source", lm.config.Catalog.Source))

	cat, err := lm.loadCatalog(ctx)
	if err != nil {
		lm.setState(StateError)
		return fmt.Errorf("failed to load component catalog: %w", err)
	}

	lm.stateMu.Lock()
	lm.catalog = cat
	lm.extractor = extract.NewExtractor(cat, lm.config.Extraction, lm.logger)
	lm.stateMu.Unlock()

	go lm.wsHub.Run()

	lm.restServer = rest.NewServer(lm.config, lm, lm.logger, lm.wsHub)
	if err := lm.restServer.Start(); err != nil {
		lm.setState(StateError)
		return fmt.Errorf("failed to start REST API: %w", err)
	}

	lm.setState(StateRunning)

	lm.logger.Info("System started successfully",
		zap.Int("http_port", lm.config.Server.HTTPPort),
		zap.Int("components", cat.Len()))

	return nil
}

func (lm *LifecycleManager) loadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	loader, err := catalog.NewLoader(lm.logger)
	if err != nil {
		return nil, err
	}

	switch lm.config.Catalog.Source {
	case config.CatalogSourcePostgres:
		db, err := storage.NewPostgresClient(ctx, lm.config.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		lm.storage = db
		return loader.LoadSource(ctx, db)
	default:
		return loader.LoadFile(lm.config.Catalog.Path)
	}
}

// Shutdown gracefully shuts down the system
func (lm *LifecycleManager) Shutdown(ctx context.Context) error {
	var shutdownErr error

	lm.shutdownOnce.Do(func() {
		lm.logger.Info("Shutting down system")

		lm.setState(StateStopping)

		timeout := lm.config.Server.ShutdownTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		shutdownErr = lm.gracefulShutdown(shutdownCtx)

		if shutdownErr != nil {
			lm.setState(StateError)
		} else {
			lm.setState(StateStopped)
		}
	})

	return shutdownErr
}

func (lm *LifecycleManager) gracefulShutdown(ctx context.Context) error {
	var err error
	if lm.restServer != nil {
		if shutdownErr := lm.restServer.Shutdown(ctx); shutdownErr != nil {
			err = fmt.Errorf("rest api shutdown failed: %w", shutdownErr)
		}
	}

	lm.wsHub.Stop()

	if lm.storage != nil {
		lm.storage.Close()
	}

	if err != nil {
		return err
	}
	lm.logger.Info("Graceful shutdown completed")
	return nil
}

func (lm *LifecycleManager) setState(state SystemState) {
	lm.stateMu.Lock()
	previous := lm.currentState
	if err := ValidateTransition(previous, state); err != nil {
		lm.logger.Warn("Unexpected state transition", zap.Error(err))
	}
	lm.currentState = state
	lm.stateMu.Unlock()

	lm.logger.Info("System state changed",
		zap.String("from", previous.String()),
		zap.String("to", state.String()))

	lm.wsHub.Broadcast(websocket.NewSystemStatusMessage(state.String(), previous.String()))
}

func (lm *LifecycleManager) State() SystemState {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()
	return lm.currentState
}

func (lm *LifecycleManager) Config() *config.Config {
	return lm.config
}

func (lm *LifecycleManager) Catalog() *catalog.Catalog {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()
	return lm.catalog
}

func (lm *LifecycleManager) Extractor() *extract.Extractor {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()
	return lm.extractor
}

func (lm *LifecycleManager) Sessions() *session.Store {
	return lm.sessions
}

// GetCurrentStatus returns current system status (Interface implementation)
func (lm *LifecycleManager) GetCurrentStatus() interfaces.SystemStatus {
	lm.stateMu.RLock()
	defer lm.stateMu.RUnlock()

	components := 0
	if lm.catalog != nil {
		components = lm.catalog.Len()
	}

	return interfaces.SystemStatus{
		State:      lm.currentState.String(),
		Components: components,
		Sessions:   lm.sessions.Count(),
		Clients:    lm.wsHub.GetClientCount(),
	}
}
