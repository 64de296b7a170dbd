package iotable

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/KevinKickass/OpenPanelIO/internal/types"
)

var ErrInvalidChannelID = errors.New("invalid channel id")

// ChannelID is the decoded form of "<DIR><controller>.<port>".
type ChannelID struct {
	Direction  types.Direction
	Controller int
	Port       int
}

func (c ChannelID) String() string {
	return FormatChannelID(c.Direction, c.Controller, c.Port)
}

func FormatChannelID(dir types.Direction, controller, port int) string {
	return fmt.Sprintf("%s%d.%d", dir.Tag(), controller, port)
}

// ParseChannelID decodes a channel identifier such as "I3.7" or "Q318.0".
func ParseChannelID(id string) (ChannelID, error) {
	split := strings.IndexFunc(id, func(r rune) bool {
		return r >= '0' && r <= '9'
	})
	if split <= 0 {
		return ChannelID{}, fmt.Errorf("%w: %q", ErrInvalidChannelID, id)
	}

	numbers := strings.SplitN(id[split:], ".", 2)
	if len(numbers) != 2 {
		return ChannelID{}, fmt.Errorf("%w: %q has no port", ErrInvalidChannelID, id)
	}

	controller, err := strconv.Atoi(numbers[0])
	if err != nil {
		return ChannelID{}, fmt.Errorf("%w: controller in %q: %v", ErrInvalidChannelID, id, err)
	}
	port, err := strconv.Atoi(numbers[1])
	if err != nil {
		return ChannelID{}, fmt.Errorf("%w: port in %q: %v", ErrInvalidChannelID, id, err)
	}

	return ChannelID{
		Direction:  types.Direction(strings.ToUpper(id[:split])),
		Controller: controller,
		Port:       port,
	}, nil
}

// ExpectedChannelID recomputes the identifier a row must carry for a given
// controller number.
func ExpectedChannelID(row types.ChannelAssignment, controller int) string {
	return FormatChannelID(row.Direction, controller, row.PortNumber)
}
