package screens

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balrog57/chireaders/pkg/app/styles"
	"github.com/balrog57/chireaders/pkg/store"
)

type screenType int

const (
	favoritesView screenType = iota
	historyView
)

type RootScreen struct {
	store *store.Store

	currentView screenType
	favorites   *FavoritesScreen
	history     *HistoryScreen

	width  int
	height int
}

func NewRootScreen(st *store.Store) *RootScreen {
	return &RootScreen{
		store:       st,
		currentView: favoritesView,
		favorites:   NewFavoritesScreen(st),
		history:     NewHistoryScreen(st),
	}
}

func (r *RootScreen) Init() tea.Cmd {
	return r.favorites.Init()
}

func (r *RootScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.width = msg.Width
		r.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return r, tea.Quit
		case "tab":
			r.currentView = (r.currentView + 1) % 2
			if r.currentView == historyView {
				cmd = r.history.Init()
			} else {
				cmd = r.favorites.Init()
			}
			return r, cmd
		}
	}

	// Forward message to active screen
	switch r.currentView {
	case favoritesView:
		newModel, newCmd := r.favorites.Update(msg)
		r.favorites = newModel.(*FavoritesScreen)
		return r, newCmd
	case historyView:
		newModel, newCmd := r.history.Update(msg)
		r.history = newModel.(*HistoryScreen)
		return r, newCmd
	}

	return r, cmd
}

func (r *RootScreen) View() string {
	tabs := r.renderTabs()

	var content string
	switch r.currentView {
	case favoritesView:
		content = r.favorites.View()
	case historyView:
		content = r.history.View()
	}

	return fmt.Sprintf("%s\n\n%s", tabs, content)
}

func (r *RootScreen) renderTabs() string {
	favoritesTab := "Favorites"
	historyTab := "History"

	if r.currentView == favoritesView {
		favoritesTab = styles.ActiveTabStyle.Render(favoritesTab)
		historyTab = styles.InactiveTabStyle.Render(historyTab)
	} else {
		favoritesTab = styles.InactiveTabStyle.Render(favoritesTab)
		historyTab = styles.ActiveTabStyle.Render(historyTab)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, favoritesTab, historyTab)
}
