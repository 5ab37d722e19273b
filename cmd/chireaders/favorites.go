package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/balrog57/chireaders/pkg/data"
)

var favoritesCmd = &cobra.Command{
	Use:   "favorites",
	Short: "Manage your favorite series",
	Long:  "List favorites, add or remove series, and toggle per-series notifications",
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		favorites := e.store.Favorites()
		if len(favorites) == 0 {
			fmt.Println("📖 No favorites yet. Use 'chireaders favorites add <url> <title>' to follow a series.")
			return
		}

		columns := []table.Column{
			{Title: "Title", Width: 40},
			{Title: "Last read", Width: 30},
			{Title: "New", Width: 5},
			{Title: "Notify", Width: 8},
			{Title: "Added", Width: 12},
		}

		rows := []table.Row{}
		for _, fav := range favorites {
			lastRead := "-"
			hasNew := ""
			if fav.LastChapterRead != nil {
				lastRead = truncateString(fav.LastChapterRead.Title, 28)
			}
			if fav.LatestKnownChapterURL != "" &&
				(fav.LastChapterRead == nil || fav.LastChapterRead.URL != fav.LatestKnownChapterURL) {
				hasNew = "●"
			}
			notify := "on"
			if !fav.NotificationsEnabled {
				notify = "off"
			}

			rows = append(rows, table.Row{
				truncateString(fav.Title, 38),
				lastRead,
				hasNew,
				notify,
				time.UnixMilli(fav.DateAdded).Format("2006-01-02"),
			})
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithFocused(false),
			table.WithHeight(len(rows)),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			BorderBottom(true).
			Bold(true)
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
		t.SetStyles(s)

		fmt.Printf("\n📖 Favorites (%d series)\n\n", len(favorites))
		fmt.Println(t.View())
	},
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <url> <title>",
	Short: "Follow a series",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		series := data.Series{URL: args[0], Title: args[1]}
		cobra.CheckErr(e.store.AddFavorite(cmd.Context(), series))
		e.autoBackup(cmd.Context())

		fmt.Printf("✅ Added '%s' to favorites\n", series.Title)
	},
}

var favoritesRemoveCmd = &cobra.Command{
	Use:   "remove <url>",
	Short: "Stop following a series",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		if !e.store.IsFavorite(args[0]) {
			fmt.Println("📖 That series is not in your favorites.")
			return
		}

		cobra.CheckErr(e.store.RemoveFavorite(cmd.Context(), args[0]))
		e.autoBackup(cmd.Context())

		fmt.Println("🗑️  Removed from favorites")
	},
}

var favoritesNotifyCmd = &cobra.Command{
	Use:   "notify <url>",
	Short: "Toggle new-chapter notifications for a series",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		cobra.CheckErr(e.store.ToggleFavoriteNotification(cmd.Context(), args[0]))
		e.autoBackup(cmd.Context())

		for _, fav := range e.store.Favorites() {
			if fav.URL == args[0] {
				state := "off"
				if fav.NotificationsEnabled {
					state = "on"
				}
				fmt.Printf("🔔 Notifications for '%s' are now %s\n", fav.Title, state)
				return
			}
		}
	},
}

func init() {
	favoritesCmd.AddCommand(favoritesAddCmd)
	favoritesCmd.AddCommand(favoritesRemoveCmd)
	favoritesCmd.AddCommand(favoritesNotifyCmd)
}
