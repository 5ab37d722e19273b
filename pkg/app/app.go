package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/balrog57/chireaders/pkg/app/screens"
	"github.com/balrog57/chireaders/pkg/store"
)

type App struct {
	store *store.Store
}

func NewApp(st *store.Store) *App {
	return &App{store: st}
}

func (a *App) Run() error {
	model := screens.NewRootScreen(a.store)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
