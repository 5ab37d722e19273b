package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show your reading history",
	Long:  "Display every chapter you have read, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		entries := e.store.AllHistory()
		if len(entries) == 0 {
			fmt.Println("🕘 Nothing read yet.")
			return
		}
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[:historyLimit]
		}

		columns := []table.Column{
			{Title: "Series", Width: 30},
			{Title: "Chapter", Width: 35},
			{Title: "Read", Width: 18},
		}

		rows := []table.Row{}
		for _, entry := range entries {
			rows = append(rows, table.Row{
				truncateString(entry.SeriesTitle, 28),
				truncateString(entry.Title, 33),
				time.UnixMilli(entry.DateRead).Format("2006-01-02 15:04"),
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

		fmt.Printf("\n🕘 Reading history (%d chapters)\n\n", len(rows))
		fmt.Println(t.View())
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "show at most this many entries (0 for all)")
}
