package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/KevinKickass/OpenPanelIO/internal/catalog"
	"github.com/KevinKickass/OpenPanelIO/internal/client"
	"github.com/KevinKickass/OpenPanelIO/internal/extract"
	"github.com/KevinKickass/OpenPanelIO/internal/types"
	"github.com/spf13/cobra"
)

var (
	catalogPath string
	summaryOnly bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file.dxf>",
	Short: "Extract the I/O configuration of a drawing locally",
	Long: `Read a DXF drawing, match its block attributes against the component
catalog and print the device inventory and channel table as JSON.

Examples:
  opio extract panel.dxf
  opio extract --catalog my_components.yaml panel.dxf
  opio extract --summary panel.dxf`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&catalogPath, "catalog", "",
		"component catalog file (overrides catalog.path)")
	extractCmd.Flags().BoolVarP(&summaryOnly, "summary", "s", false,
		"print a device summary instead of JSON")
}

func runExtract(cmd *cobra.Command, args []string) error {
	path := args[0]
	if err := client.ValidateFilename(path); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if catalogPath != "" {
		cfg.Catalog.Path = catalogPath
	}

	logger := newLogger()
	defer logger.Sync()

	loader, err := catalog.NewLoader(logger)
	if err != nil {
		return err
	}
	cat, err := loader.LoadFile(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	result, err := extract.NewExtractor(cat, cfg.Extraction, logger).ExtractFile(path)
	if err != nil {
		return err
	}

	if summaryOnly {
		printSummary(result)
		return nil
	}
	return printJSON(result)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printSummary(result *types.IOResult) {
	stats := result.Stats()
	fmt.Printf("Source: %s\n", result.SourceFile)
	fmt.Printf("Components: %d  I/O: %d  Channels: %d\n\n",
		stats.TotalComponents, stats.TotalIO, len(result.Channels))

	fmt.Printf("%-4s %-12s %-22s %-6s %-10s %s\n", "#", "Position", "Component", "Type", "IO Device", "Total IO")
	for i, d := range result.Devices {
		fmt.Printf("%-4d %-12s %-22s %-6s %-10d %d\n", i, d.Position, d.Component, d.Subtype, d.ControllerNumber, d.TotalIO)
	}
}
