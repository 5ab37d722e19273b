package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/balrog57/chireaders/pkg/app"
	"github.com/balrog57/chireaders/pkg/backup"
	"github.com/balrog57/chireaders/pkg/config"
	"github.com/balrog57/chireaders/pkg/data"
	"github.com/balrog57/chireaders/pkg/store"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "chireaders",
	Short: "A reading tracker for translated web novels",
	Long:  "Track your favorite series, reading progress and new chapter releases with a TUI and CLI",
	Run: func(cmd *cobra.Command, args []string) {
		// Launch TUI by default
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		a := app.NewApp(e.store)
		if err := a.Run(); err != nil {
			cobra.CheckErr(err)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath(), "path to the config file")

	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(readCmd)
	rootCmd.AddCommand(unreadCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(settingsCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// env bundles the opened backing, the loaded store and the optional backup
// service for one command invocation.
type env struct {
	cfg     config.Config
	backing *data.BadgerBacking
	store   *store.Store
	backups *backup.Service
}

func newEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	backing, err := data.OpenBacking(data.DefaultBackingConfig(filepath.Join(cfg.DataDir, "db")))
	if err != nil {
		return nil, err
	}

	st := store.New(backing, slog.Default())
	if err := st.Load(ctx); err != nil {
		backing.Close()
		return nil, err
	}

	e := &env{cfg: cfg, backing: backing, store: st}

	if cfg.BackupConfigured() {
		folder, err := backup.NewLocalFolder(cfg.BackupDir)
		if err != nil {
			backing.Close()
			return nil, err
		}
		e.backups = backup.NewService(folder, slog.Default())
	}

	return e, nil
}

func (e *env) close() {
	if err := e.backing.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "warning: closing database:", err)
	}
}

// autoBackup mirrors the current state to the configured backup folder. A
// failed backup never fails the command that triggered it.
func (e *env) autoBackup(ctx context.Context) {
	if e.backups == nil {
		return
	}
	if err := e.backups.AutoBackup(ctx, e.store.Snapshot()); err != nil {
		fmt.Println("⚠️  Auto-backup failed:", err)
	}
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
