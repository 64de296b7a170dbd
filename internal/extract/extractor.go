package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/KevinKickass/OpenPanelIO/internal/catalog"
	"github.com/KevinKickass/OpenPanelIO/internal/config"
	"github.com/KevinKickass/OpenPanelIO/internal/dxf"
	"github.com/KevinKickass/OpenPanelIO/internal/iotable"
	"github.com/KevinKickass/OpenPanelIO/internal/types"
	"go.uber.org/zap"
)

// Extractor builds the device inventory and channel table of a drawing.
type Extractor struct {
	catalog *catalog.Catalog
	cfg     config.ExtractionConfig
	logger  *zap.Logger
	now     func() time.Time
}

func NewExtractor(c *catalog.Catalog, cfg config.ExtractionConfig, logger *zap.Logger) *Extractor {
	return &Extractor{
		catalog: c,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

func (e *Extractor) ExtractFile(path string) (*types.IOResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open drawing: %w", err)
	}
	defer f.Close()

	return e.Extract(f, filepath.Base(path))
}

// Extract reads a DXF drawing from r. sourceFile is recorded in the result.
func (e *Extractor) Extract(r io.Reader, sourceFile string) (*types.IOResult, error) {
	drawing, err := dxf.Read(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read drawing %s: %w", sourceFile, err)
	}

	skip := make(map[string]bool, len(e.cfg.SkipLayers))
	for _, layer := range e.cfg.SkipLayers {
		skip[layer] = true
	}

	result := &types.IOResult{
		Devices:    make([]types.Device, 0),
		Channels:   make([]types.ChannelAssignment, 0),
		Timestamp:  e.now(),
		SourceFile: sourceFile,
	}

	matched := 0
	positions := make(map[string]bool)
	for _, insert := range drawing.Inserts {
		if skip[insert.Layer] {
			continue
		}

		for _, attr := range insert.Attribs {
			text := strings.TrimSpace(attr.Text)
			if text == "" {
				continue
			}

			key, desc, ok := e.catalog.Match(text)
			if !ok {
				continue
			}

			device := e.buildDevice(text, key, desc, len(result.Devices)+1)
			if positions[device.Position] {
				e.logger.Warn("Duplicate position, component skipped",
					zap.String("text", text),
					zap.String("position", device.Position))
				continue
			}
			positions[device.Position] = true

			result.Devices = append(result.Devices, device)
			result.Channels = append(result.Channels, e.buildChannels(device)...)
			matched++

			e.logger.Debug("Component matched",
				zap.String("layer", insert.Layer),
				zap.String("block", insert.Block),
				zap.String("text", text),
				zap.String("position", device.Position),
				zap.String("component", device.Component),
				zap.Int("inputs", len(device.Inputs)),
				zap.Int("outputs", len(device.Outputs)))
		}
	}

	sort.SliceStable(result.Devices, func(i, j int) bool {
		return naturalLess(result.Devices[i].Position, result.Devices[j].Position)
	})

	e.logger.Info("Drawing extracted",
		zap.String("source_file", sourceFile),
		zap.String("dxf_version", drawing.Version),
		zap.Int("inserts", len(drawing.Inserts)),
		zap.Int("matched_components", matched),
		zap.Int("channels", len(result.Channels)))

	return result, nil
}

func (e *Extractor) buildDevice(text, key string, desc types.ComponentDescriptor, sequence int) types.Device {
	position := CleanPosition(text, key)

	num := "1"
	if i := strings.Index(text, "_"); i >= 0 {
		num = text[i+1:]
		if j := strings.Index(num, "_"); j >= 0 {
			num = num[:j]
		}
	}

	replacer := strings.NewReplacer(
		"{full_text}", text,
		"{position}", positionSuffix(position),
		"{num}", num,
	)

	inputs := make(types.SignalList, 0, len(desc.Inputs))
	for _, pattern := range desc.Inputs {
		inputs = append(inputs, replacer.Replace(pattern))
	}
	outputs := make(types.SignalList, 0, len(desc.Outputs))
	for _, pattern := range desc.Outputs {
		outputs = append(outputs, replacer.Replace(pattern))
	}

	device := types.Device{
		Sequence:         sequence,
		Position:         position,
		Component:        desc.Component,
		Subtype:          desc.Subtype,
		ControllerNumber: desc.IOType,
		Inputs:           inputs,
		Outputs:          outputs,
		TotalIO:          len(inputs) + len(outputs),
		InputCable:       desc.InputCable,
	}
	if len(outputs) > 0 {
		device.OutputCable = desc.OutputCable
	}
	return device
}

// buildChannels lays out one row per signal. Signal i sits on port
// i % ports_per_module; inputs and outputs with the same index share a port.
func (e *Extractor) buildChannels(d types.Device) []types.ChannelAssignment {
	key := iotable.DeviceKey(d)
	rows := make([]types.ChannelAssignment, 0, d.TotalIO)

	n := len(d.Inputs)
	if len(d.Outputs) > n {
		n = len(d.Outputs)
	}

	for i := 0; i < n; i++ {
		port := i % e.cfg.PortsPerModule

		if i < len(d.Inputs) {
			rows = append(rows, types.ChannelAssignment{
				DeviceKey:  key,
				Splitter:   e.cfg.Splitter,
				PinNumber:  types.PinNumber(e.cfg.InputPin),
				PortNumber: port,
				SignalName: d.Inputs[i],
				Direction:  types.DirectionInput,
				ChannelID:  iotable.FormatChannelID(types.DirectionInput, d.ControllerNumber, port),
				CableType:  d.InputCable,
			})
		}

		if i < len(d.Outputs) {
			rows = append(rows, types.ChannelAssignment{
				DeviceKey:  key,
				Splitter:   e.cfg.Splitter,
				PinNumber:  types.PinNumber(e.cfg.OutputPin),
				PortNumber: port,
				SignalName: d.Outputs[i],
				Direction:  types.DirectionOutput,
				ChannelID:  iotable.FormatChannelID(types.DirectionOutput, d.ControllerNumber, port),
				CableType:  d.OutputCable,
			})
		}
	}
	return rows
}
