package screens

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/balrog57/chireaders/pkg/app/components"
	"github.com/balrog57/chireaders/pkg/app/styles"
	"github.com/balrog57/chireaders/pkg/store"
)

type FavoritesScreen struct {
	store   *store.Store
	favList *components.FavoriteList
	width   int
	height  int
	err     error
}

func NewFavoritesScreen(st *store.Store) *FavoritesScreen {
	return &FavoritesScreen{
		store:   st,
		favList: components.NewFavoriteList(),
	}
}

func (s *FavoritesScreen) Init() tea.Cmd {
	return s.loadFavorites
}

func (s *FavoritesScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
		s.favList.Width = msg.Width - 4
		s.favList.Height = msg.Height - 10

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			s.favList.Prev()
		case "down", "j":
			s.favList.Next()
		case "r":
			return s, s.loadFavorites
		case "n":
			selected := s.favList.Selected()
			if selected != nil {
				return s, s.toggleNotification(selected.Favorite.URL)
			}
		case "d":
			selected := s.favList.Selected()
			if selected != nil {
				return s, s.removeFavorite(selected.Favorite.URL)
			}
		}

	case favoritesLoadedMsg:
		s.favList.SetItems(msg.items)
		s.err = msg.err

	case favoriteChangedMsg:
		if msg.err != nil {
			s.err = msg.err
		}
		return s, s.loadFavorites
	}

	return s, nil
}

func (s *FavoritesScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("📖 Favorites")

	var errorMsg string
	if s.err != nil {
		errorMsg = styles.StatusError.Render(fmt.Sprintf("Error: %s", s.err))
		errorMsg += "\n\n"
	}

	listView := s.favList.View()

	help := styles.HelpStyle.Render(
		"↑/k: up • ↓/j: down • n: toggle notifications • d: remove • r: refresh • tab: switch view • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s%s\n%s", header, errorMsg, listView, help)
}

// Messages
type favoritesLoadedMsg struct {
	items []components.FavoriteListItem
	err   error
}

type favoriteChangedMsg struct {
	err error
}

// Commands
func (s *FavoritesScreen) loadFavorites() tea.Msg {
	favorites := s.store.Favorites()

	items := make([]components.FavoriteListItem, len(favorites))
	for i, fav := range favorites {
		items[i] = components.FavoriteListItem{
			Favorite:  fav,
			ReadCount: len(s.store.SeriesProgress(fav.URL)),
		}
	}

	return favoritesLoadedMsg{items: items}
}

func (s *FavoritesScreen) toggleNotification(seriesURL string) tea.Cmd {
	return func() tea.Msg {
		err := s.store.ToggleFavoriteNotification(context.Background(), seriesURL)
		return favoriteChangedMsg{err: err}
	}
}

func (s *FavoritesScreen) removeFavorite(seriesURL string) tea.Cmd {
	return func() tea.Msg {
		err := s.store.RemoveFavorite(context.Background(), seriesURL)
		return favoriteChangedMsg{err: err}
	}
}
