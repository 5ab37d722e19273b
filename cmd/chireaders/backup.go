package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balrog57/chireaders/pkg/backup"
)

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a backup of your reading data",
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		if e.backups == nil {
			fmt.Println("⚠️  No backup folder configured. Set backup_dir in", cfgPath)
			return
		}

		cobra.CheckErr(e.backups.AutoBackup(cmd.Context(), e.store.Snapshot()))
		fmt.Printf("💾 Backup written to %s/%s\n", e.cfg.BackupDir, backup.FileName)
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore",
	Short: "Restore reading data from the backup folder",
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		if e.backups == nil {
			fmt.Println("⚠️  No backup folder configured. Set backup_dir in", cfgPath)
			return
		}

		payload, found, err := e.backups.Restore(cmd.Context())
		if !found {
			fmt.Println("📭 No backup file found in", e.cfg.BackupDir)
			return
		}

		var vErr *backup.ValidationError
		switch {
		case errors.As(err, &vErr):
			fmt.Println("❌ Backup rejected:", vErr.Reason)
			return
		case errors.Is(err, backup.ErrCorruptBackup):
			fmt.Println("❌ Backup file is corrupted and cannot be restored")
			return
		case err != nil:
			cobra.CheckErr(err)
		}

		cobra.CheckErr(e.store.ApplyBackup(cmd.Context(), payload))

		restored := []string{}
		if payload.Favorites != nil {
			restored = append(restored, fmt.Sprintf("%d favorites", len(*payload.Favorites)))
		}
		if payload.ReadChapters != nil {
			restored = append(restored, fmt.Sprintf("read history for %d series", len(*payload.ReadChapters)))
		}
		if payload.Settings != nil {
			restored = append(restored, "settings")
		}
		if len(restored) == 0 {
			fmt.Println("✅ Backup restored (it was empty)")
			return
		}

		fmt.Print("✅ Restored ")
		for i, part := range restored {
			if i > 0 {
				fmt.Print(", ")
			}
			fmt.Print(part)
		}
		fmt.Println()
	},
}
