package screens

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/balrog57/chireaders/pkg/app/styles"
	"github.com/balrog57/chireaders/pkg/data"
	"github.com/balrog57/chireaders/pkg/store"
)

type HistoryScreen struct {
	store   *store.Store
	entries []data.HistoryEntry
	offset  int
	width   int
	height  int
}

func NewHistoryScreen(st *store.Store) *HistoryScreen {
	return &HistoryScreen{store: st}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return s.loadHistory
}

func (s *HistoryScreen) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
		case "down", "j":
			if s.offset < len(s.entries)-1 {
				s.offset++
			}
		case "r":
			return s, s.loadHistory
		}

	case historyLoadedMsg:
		s.entries = msg.entries
		if s.offset >= len(s.entries) {
			s.offset = 0
		}
	}

	return s, nil
}

func (s *HistoryScreen) View() string {
	if s.width == 0 {
		return "Loading..."
	}

	header := styles.TitleStyle.Render("🕘 Reading History")

	if len(s.entries) == 0 {
		empty := styles.MutedStyle.Render("Nothing read yet")
		return fmt.Sprintf("%s\n\n%s", header, empty)
	}

	visible := s.height - 8
	if visible < 1 {
		visible = 1
	}
	end := s.offset + visible
	if end > len(s.entries) {
		end = len(s.entries)
	}

	var b strings.Builder
	for _, entry := range s.entries[s.offset:end] {
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			styles.SubtitleStyle.Render(entry.SeriesTitle),
			styles.TextStyle.Render("  "+entry.Title),
			styles.MutedStyle.Render("  "+time.UnixMilli(entry.DateRead).Format("2006-01-02 15:04")),
		)
		b.WriteString(line)
		b.WriteString("\n")
	}

	help := styles.HelpStyle.Render(
		"↑/k: up • ↓/j: down • r: refresh • tab: switch view • q: quit",
	)

	return fmt.Sprintf("%s\n\n%s\n%s", header, b.String(), help)
}

type historyLoadedMsg struct {
	entries []data.HistoryEntry
}

func (s *HistoryScreen) loadHistory() tea.Msg {
	return historyLoadedMsg{entries: s.store.AllHistory()}
}
