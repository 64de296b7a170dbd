package cmd

import (
	"fmt"
	"os"

	"github.com/KevinKickass/OpenPanelIO/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "opio",
	Short: "Panel drawing I/O configuration tool",
	Long: `Derive the device inventory and channel table of a control panel
from its DXF drawing, locally or through a running OpenPanelIO server.

Examples:
  opio extract panel.dxf                       # Extract locally, print JSON
  opio upload panel.dxf                        # Upload to the server
  opio results                                 # Fetch the latest result
  opio catalog import configs/component_db.json`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (defaults plus OPIO_* environment when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger() *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
