package storage

import (
	"time"

	"github.com/KevinKickass/OpenPanelIO/internal/types"
)

// ComponentRecord is one row of the components table. The descriptor is
// stored as JSONB.
type ComponentRecord struct {
	Key        string                    `json:"component_key"`
	Descriptor types.ComponentDescriptor `json:"descriptor"`
	CreatedAt  time.Time                 `json:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}
