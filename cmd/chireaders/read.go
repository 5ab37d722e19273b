package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balrog57/chireaders/pkg/data"
)

var readTitle string

var readCmd = &cobra.Command{
	Use:   "read <series-url> <chapter-url>",
	Short: "Mark a chapter as read",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		chapter := data.Chapter{URL: args[1], Title: readTitle, Number: -1}
		if chapter.Title == "" {
			chapter.Title = chapter.URL
		}

		cobra.CheckErr(e.store.MarkChapterAsRead(cmd.Context(), args[0], chapter))
		e.autoBackup(cmd.Context())

		fmt.Printf("✅ Marked '%s' as read\n", chapter.Title)
	},
}

var unreadCmd = &cobra.Command{
	Use:   "unread <series-url> <chapter-url>",
	Short: "Mark a chapter as unread",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		if !e.store.IsChapterRead(args[0], args[1]) {
			fmt.Println("📖 That chapter is not marked as read.")
			return
		}

		cobra.CheckErr(e.store.MarkChapterAsUnread(cmd.Context(), args[0], args[1]))
		e.autoBackup(cmd.Context())

		fmt.Println("↩️  Marked as unread")
	},
}

func init() {
	readCmd.Flags().StringVar(&readTitle, "title", "", "chapter title to record")
}
