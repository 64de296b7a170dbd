package iotable

import (
	"testing"

	"github.com/KevinKickass/OpenPanelIO/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(key string, dir types.Direction, controller, port int, name string) types.ChannelAssignment {
	return types.ChannelAssignment{
		DeviceKey:  key,
		Direction:  dir,
		PortNumber: port,
		PinNumber:  2,
		SignalName: name,
		ChannelID:  FormatChannelID(dir, controller, port),
		CableType:  "M12 4-pin",
	}
}

func sampleSnapshot() *Snapshot {
	devices := []types.Device{
		{Position: "1.2", Component: "Sensor", Subtype: "standard", ControllerNumber: 1,
			Inputs: types.SignalList{"B12_a", "B12_b"}},
		{Position: "1.3", Component: "Valve", Subtype: FieldIOSubtype, ControllerNumber: 2,
			Inputs: types.SignalList{"Y13_fb"}, Outputs: types.SignalList{"Y13_open"}},
		{Position: "9.9", Component: "Spare", Subtype: "standard", ControllerNumber: 4},
	}
	channels := []types.ChannelAssignment{
		row("io12", types.DirectionInput, 1, 0, "B12_a"),
		row("fio13", types.DirectionInput, 2, 0, "Y13_fb"),
		row("io12", types.DirectionInput, 1, 1, "B12_b"),
		row("fio13", types.DirectionOutput, 2, 0, "Y13_open"),
	}
	return NewSnapshot(devices, channels)
}

func TestDeviceKey(t *testing.T) {
	tests := []struct {
		name   string
		device types.Device
		want   string
	}{
		{"standard", types.Device{Position: "1.2", Subtype: "standard"}, "io12"},
		{"field io", types.Device{Position: "1.2", Subtype: FieldIOSubtype}, "fio12"},
		{"empty subtype", types.Device{Position: "01.05500"}, "io0105500"},
		{"no separator", types.Device{Position: "42", Subtype: "x"}, "io42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeviceKey(tt.device))
			assert.Equal(t, DeviceKey(tt.device), DeviceKey(tt.device))
		})
	}
}

func TestStripSeparatorIdempotent(t *testing.T) {
	for _, pos := range []string{"1.2", "01.05500", "12", ""} {
		once := StripSeparator(pos)
		assert.Equal(t, once, StripSeparator(once), pos)
		assert.NotContains(t, once, PositionSeparator)
	}
}

func TestChannelIDRoundTrip(t *testing.T) {
	id := FormatChannelID(types.Direction("q"), 318, 7)
	assert.Equal(t, "Q318.7", id)

	parsed, err := ParseChannelID(id)
	require.NoError(t, err)
	assert.Equal(t, ChannelID{Direction: types.DirectionOutput, Controller: 318, Port: 7}, parsed)
	assert.Equal(t, id, parsed.String())

	for _, bad := range []string{"", "12.3", "I3", "Ix.1", "I3.x"} {
		_, err := ParseChannelID(bad)
		assert.ErrorIs(t, err, ErrInvalidChannelID, bad)
	}
}

func TestRowsForDevice(t *testing.T) {
	s := sampleSnapshot()

	rows := RowsForDevice(s.Devices()[0], s.Channels())
	require.Len(t, rows, 2)
	assert.Equal(t, "B12_a", rows[0].SignalName)
	assert.Equal(t, "B12_b", rows[1].SignalName)
	for _, r := range rows {
		assert.Equal(t, DeviceKey(s.Devices()[0]), r.DeviceKey)
	}

	assert.Equal(t, rows, s.RowsForDevice(s.Devices()[0]))
}

func TestRowsForDeviceNoMatch(t *testing.T) {
	s := sampleSnapshot()

	rows := RowsForDevice(s.Devices()[2], s.Channels())
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Empty(t, s.RowsForDevice(s.Devices()[2]))
}

func TestIndex(t *testing.T) {
	s := sampleSnapshot()
	idx := s.Index()

	assert.Equal(t, []int{0, 2}, idx.Positions("io12"))
	assert.Equal(t, []int{1, 3}, idx.Positions("fio13"))
	assert.Nil(t, idx.Positions("io99"))
	assert.Equal(t, 2, idx.Keys())
	assert.True(t, idx.Covers(s.Channels()))
}

func TestBindSignals(t *testing.T) {
	s := sampleSnapshot()

	view, err := s.DeviceChannels(1)
	require.NoError(t, err)
	assert.Equal(t, "fio13", view.DeviceKey)

	require.Len(t, view.Inputs, 1)
	require.NotNil(t, view.Inputs[0].Row)
	assert.Equal(t, "I2.0", view.Inputs[0].Row.ChannelID)

	require.Len(t, view.Outputs, 1)
	require.NotNil(t, view.Outputs[0].Row)
	assert.Equal(t, "Q2.0", view.Outputs[0].Row.ChannelID)

	_, err = s.DeviceChannels(7)
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestBindSignalsMissingRows(t *testing.T) {
	d := types.Device{Position: "3.1", Inputs: types.SignalList{"a", "b"}, Outputs: types.SignalList{"c"}}

	view := BindSignals(d, RowsForDevice(d, nil))
	require.Len(t, view.Inputs, 2)
	assert.Nil(t, view.Inputs[0].Row)
	assert.Nil(t, view.Inputs[1].Row)
	assert.Nil(t, view.Outputs[0].Row)
}

func TestParseControllerNumber(t *testing.T) {
	tests := []struct {
		raw       string
		want      int
		defaulted bool
	}{
		{"3", 3, false},
		{" 12 ", 12, false},
		{"0", 0, false},
		{"abc", 0, true},
		{"", 0, true},
		{"-4", 0, true},
		{"2.5", 0, true},
	}

	for _, tt := range tests {
		got, defaulted := ParseControllerNumber(tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.Equal(t, tt.defaulted, defaulted, tt.raw)
	}
}

func TestReassignRewritesDeviceRows(t *testing.T) {
	s := sampleSnapshot()

	next, out, err := Reassign(s, 0, "3")
	require.NoError(t, err)

	assert.Equal(t, 3, next.Devices()[0].ControllerNumber)
	assert.Equal(t, "io12", out.DeviceKey)
	assert.Equal(t, 2, out.RowsRewritten)
	assert.Equal(t, 1, out.Previous)
	assert.False(t, out.Defaulted)

	rows := next.RowsForDevice(next.Devices()[0])
	require.Len(t, rows, 2)
	assert.Equal(t, "I3.0", rows[0].ChannelID)
	assert.Equal(t, "I3.1", rows[1].ChannelID)
	assert.Equal(t, 0, rows[0].PortNumber)
	assert.Equal(t, 1, rows[1].PortNumber)

	// the source snapshot is not modified
	assert.Equal(t, 1, s.Devices()[0].ControllerNumber)
	assert.Equal(t, "I1.0", s.Channels()[0].ChannelID)
}

func TestReassignOnlyMatchesFamilyKey(t *testing.T) {
	devices := []types.Device{{Position: "1.2", Subtype: FieldIOSubtype, ControllerNumber: 1}}
	channels := []types.ChannelAssignment{
		row("io12", types.DirectionInput, 1, 0, "x"),
		row("fio12", types.DirectionInput, 1, 0, "y"),
	}
	s := NewSnapshot(devices, channels)

	next, out, err := Reassign(s, 0, "5")
	require.NoError(t, err)
	assert.Equal(t, "fio12", out.DeviceKey)
	assert.Equal(t, 1, out.RowsRewritten)
	assert.Equal(t, "I1.0", next.Channels()[0].ChannelID)
	assert.Equal(t, "I5.0", next.Channels()[1].ChannelID)
}

func TestReassignUnparseableDefaultsToZero(t *testing.T) {
	s := sampleSnapshot()

	next, out, err := Reassign(s, 0, "abc")
	require.NoError(t, err)
	assert.True(t, out.Defaulted)
	assert.Equal(t, 0, next.Devices()[0].ControllerNumber)
	for _, r := range next.RowsForDevice(next.Devices()[0]) {
		parsed, err := ParseChannelID(r.ChannelID)
		require.NoError(t, err)
		assert.Equal(t, 0, parsed.Controller)
	}
}

func TestReassignWithoutWiring(t *testing.T) {
	s := sampleSnapshot()

	next, out, err := Reassign(s, 2, "8")
	require.NoError(t, err)
	assert.Equal(t, 0, out.RowsRewritten)
	assert.Equal(t, 8, next.Devices()[2].ControllerNumber)
	assert.Equal(t, s.Channels(), next.Channels())
}

func TestReassignIsolationAndIdempotence(t *testing.T) {
	s := sampleSnapshot()

	once, _, err := Reassign(s, 1, "6")
	require.NoError(t, err)
	twice, _, err := Reassign(once, 1, "6")
	require.NoError(t, err)

	assert.Equal(t, once.Channels(), twice.Channels())
	assert.Equal(t, once.Devices(), twice.Devices())

	key := DeviceKey(s.Devices()[1])
	for i, r := range once.Channels() {
		if r.DeviceKey != key {
			assert.Equal(t, s.Channels()[i], r)
			continue
		}
		parsed, err := ParseChannelID(r.ChannelID)
		require.NoError(t, err)
		assert.Equal(t, r.Direction, parsed.Direction)
		assert.Equal(t, 6, parsed.Controller)
		assert.Equal(t, s.Channels()[i].PortNumber, parsed.Port)
		assert.Equal(t, s.Channels()[i].PinNumber, r.PinNumber)
		assert.Equal(t, s.Channels()[i].CableType, r.CableType)
		assert.Equal(t, s.Channels()[i].SignalName, r.SignalName)
	}
	assert.True(t, Consistent(once))
}

func TestReassignLowercaseDirection(t *testing.T) {
	devices := []types.Device{{Position: "2.0", ControllerNumber: 1}}
	channels := []types.ChannelAssignment{row("io20", types.Direction("q"), 1, 3, "out")}
	channels[0].ChannelID = "q1.3"

	next, _, err := Reassign(NewSnapshot(devices, channels), 0, "4")
	require.NoError(t, err)
	assert.Equal(t, "Q4.3", next.Channels()[0].ChannelID)
}

func TestReassignUnknownDevice(t *testing.T) {
	_, _, err := Reassign(sampleSnapshot(), -1, "1")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestConsistent(t *testing.T) {
	s := sampleSnapshot()
	assert.True(t, Consistent(s))

	channels := append([]types.ChannelAssignment(nil), s.Channels()...)
	channels[2].ChannelID = "I9.1"
	assert.False(t, Consistent(NewSnapshot(s.Devices(), channels)))
}
