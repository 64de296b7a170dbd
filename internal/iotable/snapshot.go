package iotable

import (
	"errors"
	"fmt"

	"github.com/KevinKickass/OpenPanelIO/internal/types"
)

var ErrDeviceNotFound = errors.New("device not found")

// Snapshot is one immutable state of a session: device inventory, channel
// table and the key index over that table. Operations return new snapshots;
// callers must not mutate the slices they read from one.
type Snapshot struct {
	devices  []types.Device
	channels []types.ChannelAssignment
	index    *Index
}

// NewSnapshot takes ownership of devices and channels and indexes them.
func NewSnapshot(devices []types.Device, channels []types.ChannelAssignment) *Snapshot {
	if devices == nil {
		devices = []types.Device{}
	}
	if channels == nil {
		channels = []types.ChannelAssignment{}
	}
	return &Snapshot{
		devices:  devices,
		channels: channels,
		index:    BuildIndex(channels),
	}
}

func (s *Snapshot) Devices() []types.Device {
	return s.devices
}

func (s *Snapshot) Channels() []types.ChannelAssignment {
	return s.channels
}

func (s *Snapshot) Index() *Index {
	return s.index
}

func (s *Snapshot) Device(i int) (types.Device, error) {
	if i < 0 || i >= len(s.devices) {
		return types.Device{}, fmt.Errorf("%w: index %d of %d", ErrDeviceNotFound, i, len(s.devices))
	}
	return s.devices[i], nil
}

// RowsForDevice is the indexed form of the package-level RowsForDevice.
func (s *Snapshot) RowsForDevice(d types.Device) []types.ChannelAssignment {
	return s.index.Rows(DeviceKey(d), s.channels)
}

func (s *Snapshot) DeviceChannels(i int) (DeviceChannels, error) {
	d, err := s.Device(i)
	if err != nil {
		return DeviceChannels{}, err
	}
	return BindSignals(d, s.RowsForDevice(d)), nil
}
