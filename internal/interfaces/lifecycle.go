package interfaces

import (
	"context"

	"github.com/KevinKickass/OpenPanelIO/internal/catalog"
	"github.com/KevinKickass/OpenPanelIO/internal/config"
	"github.com/KevinKickass/OpenPanelIO/internal/extract"
	"github.com/KevinKickass/OpenPanelIO/internal/session"
)

// SystemStatus represents the current system state
type SystemStatus struct {
	State      string `json:"state"`
	Components int    `json:"components"`
	Sessions   int    `json:"sessions"`
	Clients    int    `json:"ws_clients"`
}

type LifecycleManager interface {
	Config() *config.Config
	Catalog() *catalog.Catalog
	Sessions() *session.Store
	Extractor() *extract.Extractor
	GetCurrentStatus() SystemStatus
	Shutdown(ctx context.Context) error
}
