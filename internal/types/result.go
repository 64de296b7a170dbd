package types

import (
	"strings"
	"time"
)

// DXFExtension is the only file extension accepted on the upload path.
const DXFExtension = ".dxf"

// IsDXFFilename reports whether name carries the literal .dxf extension.
func IsDXFFilename(name string) bool {
	return strings.HasSuffix(name, DXFExtension)
}

// IOResult is the output of one extraction run.
type IOResult struct {
	Devices    []Device            `json:"Total IO List"`
	Channels   []ChannelAssignment `json:"IO Configuration"`
	Timestamp  time.Time           `json:"timestamp"`
	SourceFile string              `json:"source_file"`
}

type ResultStats struct {
	TotalComponents int `json:"total_components"`
	TotalIO         int `json:"total_io"`
}

func (r *IOResult) Stats() ResultStats {
	stats := ResultStats{TotalComponents: len(r.Devices)}
	for _, d := range r.Devices {
		stats.TotalIO += d.TotalIO
	}
	return stats
}
