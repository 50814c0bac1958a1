package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	app "github.com/mohammadpnp/instituto-import/internal/application/training"
	"github.com/mohammadpnp/instituto-import/internal/bootstrap"
	"github.com/mohammadpnp/instituto-import/internal/config"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/db"
	"github.com/mohammadpnp/instituto-import/internal/infrastructure/repository"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var kind string

func main() {
	config.LoadEnv()

	rootCmd := &cobra.Command{
		Use:          "importer",
		Short:        "Load training spreadsheets into the instituto database",
		SilenceUsage: true,
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and seed the module catalog",
		Args:  cobra.NoArgs,
		RunE:  runMigrate,
	}

	runCmd := &cobra.Command{
		Use:   "run [file.xlsx]",
		Short: "Import a workbook synchronously and print the summary",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}
	runCmd.Flags().StringVar(&kind, "kind", "", "Import kind: transcript, org_planning, assignments (default: detect from headers)")

	enqueueCmd := &cobra.Command{
		Use:   "enqueue [file.xlsx]",
		Short: "Queue a workbook for the API workers",
		Args:  cobra.ExactArgs(1),
		RunE:  runEnqueue,
	}
	enqueueCmd.Flags().StringVar(&kind, "kind", "", "Import kind: transcript, org_planning, assignments (default: detect from headers)")

	rootCmd.AddCommand(migrateCmd, runCmd, enqueueCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func openDB(ctx context.Context) (config.Config, *gorm.DB, *pgxpool.Pool, error) {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return cfg, nil, nil, fmt.Errorf("DATABASE_URL is required")
	}

	gdb, pool, err := db.Open(ctx, cfg.DatabaseURL, cfg.LogSQL)
	if err != nil {
		return cfg, nil, nil, err
	}
	return cfg, gdb, pool, nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	_, gdb, pool, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(cmd.Context(), gdb); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, gdb, pool, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(cmd.Context(), gdb); err != nil {
			return err
		}
	}

	path, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve %s: %w", args[0], err)
	}

	out, err := bootstrap.NewImportWorkbook(pool, cfg).Execute(cmd.Context(), app.ImportWorkbookInput{
		SourcePath: path,
		Kind:       kind,
	})
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	w := cmd.OutOrStdout()
	s := out.Summary
	fmt.Fprintf(w, "kind=%s processed=%d imported=%d updated=%d skipped=%d failed=%d\n",
		out.Kind, s.ProcessedCount, s.ImportedCount, s.UpdatedCount, s.SkippedCount, s.FailedCount)
	for _, failure := range s.Failures {
		fmt.Fprintf(w, "  row %d: %s\n", failure.RowNumber, failure.Reason)
	}
	return nil
}

func runEnqueue(cmd *cobra.Command, args []string) error {
	cfg, gdb, pool, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	startImport := app.NewStartImport(repository.NewImportJobRepository(gdb, cfg.ImportMaxAttempts))
	out, err := startImport.Execute(cmd.Context(), app.StartImportInput{SourcePath: args[0], Kind: kind})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "job %s %s\n", out.JobID, out.Status)
	return nil
}
