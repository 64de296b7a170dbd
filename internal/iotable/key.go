package iotable

import (
	"strings"

	"github.com/KevinKickass/OpenPanelIO/internal/types"
)

const (
	// FieldIOSubtype marks a device as part of the field I/O family.
	FieldIOSubtype = "fio"

	PrefixIO      = "io"
	PrefixFieldIO = "fio"

	// PositionSeparator splits the two halves of a drawn position ("01.05500").
	PositionSeparator = "."
)

// FamilyPrefix selects the channel-table namespace for a subtype.
func FamilyPrefix(subtype string) string {
	if subtype == FieldIOSubtype {
		return PrefixFieldIO
	}
	return PrefixIO
}

// StripSeparator removes the first separator from a position.
func StripSeparator(position string) string {
	return strings.Replace(position, PositionSeparator, "", 1)
}

// DeviceKey joins a device back to its channel rows. It depends only on
// subtype and position.
func DeviceKey(d types.Device) string {
	return FamilyPrefix(d.Subtype) + StripSeparator(d.Position)
}
