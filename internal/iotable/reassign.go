package iotable

import (
	"strconv"
	"strings"

	"github.com/KevinKickass/OpenPanelIO/internal/types"
)

// Outcome describes what a re-assignment changed.
type Outcome struct {
	DeviceIndex      int    `json:"device_index"`
	DeviceKey        string `json:"device_key"`
	ControllerNumber int    `json:"controller_number"`
	Previous         int    `json:"previous_controller_number"`
	RowsRewritten    int    `json:"rows_rewritten"`
	Defaulted        bool   `json:"defaulted"`
}

// ParseControllerNumber converts a raw edit value. Anything that is not a
// non-negative integer becomes 0; the second result reports that fallback.
func ParseControllerNumber(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return 0, true
	}
	return n, false
}

// Reassign sets a new controller number on the device at deviceIndex and
// rewrites the channel id of every row keyed to that device. s is left
// untouched; the returned snapshot shares s's index.
func Reassign(s *Snapshot, deviceIndex int, raw string) (*Snapshot, Outcome, error) {
	device, err := s.Device(deviceIndex)
	if err != nil {
		return nil, Outcome{}, err
	}

	controller, defaulted := ParseControllerNumber(raw)
	key := DeviceKey(device)

	devices := make([]types.Device, len(s.devices))
	copy(devices, s.devices)
	devices[deviceIndex].ControllerNumber = controller

	channels := make([]types.ChannelAssignment, len(s.channels))
	copy(channels, s.channels)

	positions := s.index.Positions(key)
	for _, p := range positions {
		channels[p].ChannelID = ExpectedChannelID(channels[p], controller)
	}

	next := &Snapshot{
		devices:  devices,
		channels: channels,
		index:    s.index,
	}

	return next, Outcome{
		DeviceIndex:      deviceIndex,
		DeviceKey:        key,
		ControllerNumber: controller,
		Previous:         device.ControllerNumber,
		RowsRewritten:    len(positions),
		Defaulted:        defaulted,
	}, nil
}

// Consistent reports whether every row of every device carries the channel id
// implied by that device's controller number.
func Consistent(s *Snapshot) bool {
	for _, d := range s.devices {
		for _, p := range s.index.Positions(DeviceKey(d)) {
			row := s.channels[p]
			if row.ChannelID != ExpectedChannelID(row, d.ControllerNumber) {
				return false
			}
		}
	}
	return true
}
