package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/balrog57/chireaders/pkg/services"
	"github.com/balrog57/chireaders/pkg/sources"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Check favorites for new chapters",
	Long:  "Fetch the chapter list of every favorite with notifications enabled and record newly released chapters",
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		reconciler := services.NewReconciler(
			e.backing,
			sources.NewChiReads(),
			&services.LogNotifier{Logger: slog.Default()},
			services.ReconcilerConfig{ScanTimeout: e.cfg.ScanTimeout},
		)

		fmt.Println("🔍 Checking favorites for new chapters...")
		result, err := reconciler.Run(cmd.Context())
		cobra.CheckErr(err)

		fmt.Printf("✅ Scanned %d favorites: %d new chapters, %d updated, %d failed\n",
			result.Scanned, result.Notified, result.Updated, result.Failed)

		// the reconciler wrote to the backing behind the store's back
		cobra.CheckErr(e.store.Load(cmd.Context()))
		e.autoBackup(cmd.Context())
	},
}
