package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"model-notes-be/internal/bootstrap"
	"model-notes-be/internal/config"
	"model-notes-be/internal/pkg/logger"
	"model-notes-be/pkg/database"
	"model-notes-be/pkg/modeltype"

	"github.com/spf13/cobra"
)

var (
	verbose   bool
	dbPath    string
	modelsDir string

	cfg       *config.Config
	conn      *database.Conn
	container *bootstrap.Container
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "modelnotes",
	Short: "Notes for Stable Diffusion model files, keyed by content hash",
	Long: `modelnotes keeps one note per model file (checkpoint, hypernetwork, LoRA or
textual inversion embedding), fills notes from Civitai and moves them in and
out of plain files.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg = config.Load()
		if dbPath != "" {
			cfg.Database.Connection = dbPath
		}
		if modelsDir != "" {
			cfg.Models = modelsUnder(modelsDir)
		}

		var err error
		conn, err = openStore(cmd.Context(), cfg.Database.Connection)
		if err != nil {
			return err
		}

		var sysLogger logger.ILogger = logger.NewFileLogger(cfg.App.LogFilePath)
		if verbose {
			sysLogger = logger.NewZapLogger(cfg.App.LogFilePath, false)
		}
		container = bootstrap.NewContainerWithLogger(conn, cfg, sysLogger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if container != nil {
			container.Close()
			_ = container.Logger.Sync()
		}
		if conn != nil {
			_ = conn.Close()
		}
	},
}

// openStore opens and migrates the note database. The handle is closed again
// when migration fails.
func openStore(ctx context.Context, dsn string) (*database.Conn, error) {
	c, err := database.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open note database: %w", err)
	}
	if err := database.Migrate(ctx, c, database.DefaultMigrations()); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("migrate note database: %w", err)
	}
	return c, nil
}

// modelsUnder lays the per-kind directories out the way the web UI does.
func modelsUnder(root string) config.ModelsConfig {
	return config.ModelsConfig{
		RootDir:         root,
		CheckpointDir:   filepath.Join(root, modeltype.Checkpoint.Dir()),
		HypernetworkDir: filepath.Join(root, modeltype.Hypernetwork.Dir()),
		LoraDir:         filepath.Join(root, modeltype.LoRA.Dir()),
		EmbeddingsDir:   filepath.Join(root, modeltype.TextualInversion.Dir()),
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Also write log lines to the console")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "Note database (sqlite path or postgres DSN); overrides DB_CONNECTION_STRING")
	rootCmd.PersistentFlags().StringVar(&modelsDir, "models-dir", "", "Models root laid out like the web UI; overrides MODELS_DIR and the per-kind directories")
}
