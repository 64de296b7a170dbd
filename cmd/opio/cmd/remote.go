package cmd

import (
	"context"
	"fmt"

	"github.com/KevinKickass/OpenPanelIO/internal/client"
	"github.com/spf13/cobra"
)

var serverURL string

var uploadCmd = &cobra.Command{
	Use:   "upload <file.dxf>",
	Short: "Upload a drawing to the server",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Fetch the latest result from the server",
	Args:  cobra.NoArgs,
	RunE:  runResults,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(resultsCmd)

	for _, c := range []*cobra.Command{uploadCmd, resultsCmd} {
		c.Flags().StringVar(&serverURL, "server", "", "server base URL (overrides client.base_url)")
		c.Flags().BoolVarP(&summaryOnly, "summary", "s", false, "print a device summary instead of JSON")
	}
}

func newClient() (*client.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if serverURL != "" {
		cfg.Client.BaseURL = serverURL
	}
	return client.New(cfg.Client, newLogger()), nil
}

func runUpload(cmd *cobra.Command, args []string) error {
	// checked before any config or network access
	if err := client.ValidateFilename(args[0]); err != nil {
		return err
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	resp, err := c.Upload(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	if verbose {
		fmt.Printf("Session: %s\n", resp.SessionID)
	}
	return printResponse(resp)
}

func runResults(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	resp, err := c.Results(context.Background())
	if err != nil {
		return err
	}
	return printResponse(resp)
}

func printResponse(resp *client.Response) error {
	if summaryOnly && resp.Data != nil {
		printSummary(resp.Data)
		return nil
	}
	return printJSON(resp)
}
