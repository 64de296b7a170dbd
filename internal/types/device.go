package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// SignalSeparator joins signal names in the wire representation of a device.
const SignalSeparator = ", "

// Direction is the I/O direction tag carried in channel identifiers.
type Direction string

const (
	DirectionInput  Direction = "I"
	DirectionOutput Direction = "Q"
)

// Tag returns the uppercase form used when building channel identifiers.
func (d Direction) Tag() string {
	return strings.ToUpper(string(d))
}

func (d Direction) IsInput() bool {
	return d.Tag() == string(DirectionInput)
}

// Device is one physical component placed on the drawing ("Total IO List" row).
type Device struct {
	Sequence         int        `json:"Sequence,omitempty"`
	Position         string     `json:"Position"`
	Component        string     `json:"Component"`
	Subtype          string     `json:"Subtype"`
	ControllerNumber int        `json:"IO Device"`
	Inputs           SignalList `json:"Inputs"`
	Outputs          SignalList `json:"Outputs,omitempty"`
	TotalIO          int        `json:"Total IO,omitempty"`
	InputCable       string     `json:"Input_Cable,omitempty"`
	OutputCable      string     `json:"Output_Cable,omitempty"`
}

// ChannelAssignment is one row of the "IO Configuration" table.
type ChannelAssignment struct {
	DeviceKey   string    `json:"IO device"`
	Splitter    string    `json:"Splitter used?,omitempty"`
	PinNumber   PinNumber `json:"Pin number"`
	PortNumber  int       `json:"Port number"`
	SignalName  string    `json:"I/O name"`
	Direction   Direction `json:"I/O"`
	ChannelID   string    `json:"I/O Number"`
	CableType   string    `json:"Cable type"`
	CableLength string    `json:"CABLE LENGTH,omitempty"`
}

// SignalList is an ordered list of signal names. On the wire it is a single
// delimited string; arrays are accepted on input as well.
type SignalList []string

func ParseSignalList(s string) SignalList {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	signals := make(SignalList, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			signals = append(signals, name)
		}
	}
	return signals
}

func (l SignalList) String() string {
	return strings.Join(l, SignalSeparator)
}

func (l SignalList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *SignalList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if len(data) > 0 && data[0] == '[' {
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return fmt.Errorf("invalid signal list: %w", err)
		}
		*l = ParseSignalList(strings.Join(names, ","))
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid signal list: %w", err)
	}
	*l = ParseSignalList(s)
	return nil
}

// PinNumber is the terminal pin. Extraction output historically spelled it
// "Pin 2"; both that form and plain numbers decode.
type PinNumber int

func (p *PinNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = 0
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*p = PinNumber(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid pin number: %s", string(data))
	}

	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "Pin"))
	if s == "" {
		*p = 0
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid pin number %q: %w", s, err)
	}
	*p = PinNumber(n)
	return nil
}
