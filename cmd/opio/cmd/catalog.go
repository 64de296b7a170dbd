package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/KevinKickass/OpenPanelIO/internal/catalog"
	"github.com/KevinKickass/OpenPanelIO/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the component catalog stored in PostgreSQL",
}

var catalogImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Validate a JSON or YAML catalog file and upsert it into the database",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogImport,
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored components",
	Args:  cobra.NoArgs,
	RunE:  runCatalogList,
}

var catalogDeleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete one component",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatalogDelete,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogImportCmd, catalogListCmd, catalogDeleteCmd)
}

func openDatabase(ctx context.Context) (*storage.PostgresClient, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	db, err := storage.NewPostgresClient(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func runCatalogImport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	logger := newLogger()
	defer logger.Sync()

	loader, err := catalog.NewLoader(logger)
	if err != nil {
		return err
	}
	cat, err := loader.LoadFile(args[0])
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.UpsertComponents(ctx, cat.All()); err != nil {
		return err
	}

	fmt.Printf("Imported %d components from %s\n", cat.Len(), args[0])
	return nil
}

func runCatalogList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.ListComponents(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("%-8s %-24s %-6s %-8s %s\n", "Key", "Component", "Type", "IO_Type", "Updated")
	for _, r := range records {
		fmt.Printf("%-8s %-24s %-6s %-8d %s\n", r.Key, r.Descriptor.Component, r.Descriptor.Subtype,
			r.Descriptor.IOType, r.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func runCatalogDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	db, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteComponent(ctx, args[0]); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("component %s not found", args[0])
		}
		return err
	}

	fmt.Printf("Deleted component %s\n", args[0])
	return nil
}
