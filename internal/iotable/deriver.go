package iotable

import "github.com/KevinKickass/OpenPanelIO/internal/types"

// RowsForDevice returns the rows of table that belong to d, in table order.
// No match yields an empty, non-nil slice.
func RowsForDevice(d types.Device, table []types.ChannelAssignment) []types.ChannelAssignment {
	key := DeviceKey(d)

	rows := make([]types.ChannelAssignment, 0)
	for _, row := range table {
		if row.DeviceKey == key {
			rows = append(rows, row)
		}
	}
	return rows
}

// SignalBinding pairs one device signal with the channel row configuring it.
// Row is nil when no wiring data exists for the signal.
type SignalBinding struct {
	Signal string                   `json:"signal"`
	Row    *types.ChannelAssignment `json:"channel,omitempty"`
}

// DeviceChannels is the expandable detail view of one device.
type DeviceChannels struct {
	DeviceKey string                    `json:"device_key"`
	Rows      []types.ChannelAssignment `json:"rows"`
	Inputs    []SignalBinding           `json:"inputs"`
	Outputs   []SignalBinding           `json:"outputs"`
}

// BindSignals pairs a device's signals with its rows: inputs by ordinal among
// the input rows, outputs by exact signal name.
func BindSignals(d types.Device, rows []types.ChannelAssignment) DeviceChannels {
	view := DeviceChannels{
		DeviceKey: DeviceKey(d),
		Rows:      rows,
		Inputs:    make([]SignalBinding, 0, len(d.Inputs)),
		Outputs:   make([]SignalBinding, 0, len(d.Outputs)),
	}

	inputRows := make([]int, 0, len(rows))
	for i, row := range rows {
		if row.Direction.IsInput() {
			inputRows = append(inputRows, i)
		}
	}

	for i, name := range d.Inputs {
		binding := SignalBinding{Signal: name}
		if i < len(inputRows) {
			row := rows[inputRows[i]]
			binding.Row = &row
		}
		view.Inputs = append(view.Inputs, binding)
	}

	for _, name := range d.Outputs {
		binding := SignalBinding{Signal: name}
		for i := range rows {
			if !rows[i].Direction.IsInput() && rows[i].SignalName == name {
				row := rows[i]
				binding.Row = &row
				break
			}
		}
		view.Outputs = append(view.Outputs, binding)
	}

	return view
}
