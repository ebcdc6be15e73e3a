package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"

	"github.com/MrJamesThe3rd/utang/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/utang/internal/auth"
	"github.com/MrJamesThe3rd/utang/internal/config"
	"github.com/MrJamesThe3rd/utang/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/utang/internal/ledger/store"
)

type model struct {
	ledgerService *ledger.Service
	viewer        auth.Viewer
	amount        view.AmountFormatter

	currentView View

	pairView view.PairModel
}

type View int

const (
	ViewMenu View = 0
	ViewPair View = 1
)

func initialModel() (model, func()) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	viewer, err := auth.NewVerifier(cfg.Auth.Secret, cfg.Auth.Issuer).Verify(cfg.Auth.Token)
	if err != nil {
		slog.Error("AUTH_TOKEN is not a valid session", "error", err)
		os.Exit(1)
	}

	repo, closeRepo, err := ledgerStore.Open(cfg)
	if err != nil {
		slog.Error("failed to open ledger storage", "error", err)
		os.Exit(1)
	}

	svc := ledger.NewService(repo)
	amount := view.NewAmountFormatter(language.Indonesian)

	return model{
		ledgerService: svc,
		viewer:        viewer,
		amount:        amount,
		currentView:   ViewMenu,
		pairView:      view.NewPairModel(svc, viewer, amount),
	}, closeRepo
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewPair
				m.pairView = view.NewPairModel(m.ledgerService, m.viewer, m.amount)

				return m, m.pairView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	if m.currentView == ViewPair {
		var newModel tea.Model
		newModel, cmd = m.pairView.Update(msg)
		m.pairView = newModel.(view.PairModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Utang TUI\n\n" +
				"Signed in as " + m.viewer.Email + "\n\n" +
				"1. Pair History\n\n" +
				"q. Quit",
		)
	case ViewPair:
		return m.pairView.View()
	}

	return "Unknown View"
}

func main() {
	m, closeRepo := initialModel()
	defer closeRepo()

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
