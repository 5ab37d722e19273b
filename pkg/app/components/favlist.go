package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/balrog57/chireaders/pkg/app/styles"
	"github.com/balrog57/chireaders/pkg/data"
)

type FavoriteListItem struct {
	Favorite  data.Favorite
	ReadCount int
}

// HasNewChapter reports whether the latest chapter the system knows about is
// newer than the one the user last read.
func (i FavoriteListItem) HasNewChapter() bool {
	latest := i.Favorite.LatestKnownChapterURL
	if latest == "" {
		return false
	}
	if i.Favorite.LastChapterRead == nil {
		return true
	}
	return i.Favorite.LastChapterRead.URL != latest
}

type FavoriteList struct {
	Items         []FavoriteListItem
	SelectedIndex int
	Width         int
	Height        int
}

func NewFavoriteList() *FavoriteList {
	return &FavoriteList{
		Items:  []FavoriteListItem{},
		Width:  80,
		Height: 20,
	}
}

func (l *FavoriteList) SetItems(items []FavoriteListItem) {
	l.Items = items
	if l.SelectedIndex >= len(items) && len(items) > 0 {
		l.SelectedIndex = len(items) - 1
	}
	if len(items) == 0 {
		l.SelectedIndex = 0
	}
}

func (l *FavoriteList) Next() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex++
	if l.SelectedIndex >= len(l.Items) {
		l.SelectedIndex = 0
	}
}

func (l *FavoriteList) Prev() {
	if len(l.Items) == 0 {
		return
	}
	l.SelectedIndex--
	if l.SelectedIndex < 0 {
		l.SelectedIndex = len(l.Items) - 1
	}
}

func (l *FavoriteList) Selected() *FavoriteListItem {
	if len(l.Items) == 0 || l.SelectedIndex >= len(l.Items) {
		return nil
	}
	return &l.Items[l.SelectedIndex]
}

func (l *FavoriteList) View() string {
	if len(l.Items) == 0 {
		emptyMsg := styles.MutedStyle.Render("No favorites yet")
		return lipgloss.Place(l.Width, l.Height, lipgloss.Center, lipgloss.Center, emptyMsg)
	}

	var b strings.Builder

	for i, item := range l.Items {
		cardStyle := styles.CardStyle
		if i == l.SelectedIndex {
			cardStyle = styles.ActiveCardStyle
		}

		fav := item.Favorite
		title := styles.TitleStyle.Render(fav.Title)
		if item.HasNewChapter() {
			title += "  " + styles.NewChapterStyle.Render("● new chapter")
		}
		if !fav.NotificationsEnabled {
			title += "  " + styles.MutedBellStyle.Render("muted")
		}

		lastRead := "Not started"
		if fav.LastChapterRead != nil {
			lastRead = fmt.Sprintf("Last read: %s (%s)",
				fav.LastChapterRead.Title,
				relativeTime(fav.LastChapterRead.Date),
			)
		}

		lines := []string{
			title,
			styles.TextStyle.Render(lastRead),
			styles.MutedStyle.Render(fmt.Sprintf("%d chapters read", item.ReadCount)),
		}
		if fav.Author != "" {
			lines = append(lines, styles.MutedStyle.Render("by "+fav.Author))
		}

		card := cardStyle.Width(l.Width - 4).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
		b.WriteString(card)
		b.WriteString("\n")
	}

	return b.String()
}

func relativeTime(millis int64) string {
	elapsed := time.Since(time.UnixMilli(millis))
	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return fmt.Sprintf("%dm ago", int(elapsed.Minutes()))
	case elapsed < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(elapsed.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(elapsed.Hours()/24))
	}
}
