package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/utang/internal/auth"
	"github.com/MrJamesThe3rd/utang/internal/ledger"
)

type BackMsg struct{}

func Back() tea.Msg {
	return BackMsg{}
}

// minTableHeight keeps a few rows visible on very short terminals.
const minTableHeight = 5

type pairState int

const (
	pairStateForm pairState = iota
	pairStateLoading
	pairStateResult
)

// PairModel asks for a user pair and shows its reconciled history.
type PairModel struct {
	svc    *ledger.Service
	viewer auth.Viewer
	amount AmountFormatter

	state   pairState
	form    *huh.Form
	spinner spinner.Model
	table   table.Model

	viewpoint   string
	counterpart string

	history *ledger.History
	err     error
}

func NewPairModel(svc *ledger.Service, viewer auth.Viewer, amount AmountFormatter) PairModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 10},
		{Title: "Amount", Width: 14},
		{Title: "Paid By", Width: 18},
		{Title: "Description", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := PairModel{
		svc:     svc,
		viewer:  viewer,
		amount:  amount,
		spinner: sp,
		table:   t,
	}
	m.form = m.buildForm()

	return m
}

func (m PairModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m PairModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case pairLoadedMsg:
		m.state = pairStateResult
		m.err = msg.err
		m.history = msg.history
		m.refreshTable()

		return m, nil

	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, minTableHeight))
		return m, nil
	}

	switch m.state {
	case pairStateForm:
		return m.updateForm(msg)
	case pairStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case pairStateResult:
		return m.updateResult(msg)
	}

	return m, nil
}

func (m PairModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.viewpoint = m.form.GetString("viewpoint")
	m.counterpart = m.form.GetString("counterpart")
	m.state = pairStateLoading

	return m, tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m PairModel) updateResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.state = pairStateLoading
			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		case "s":
			// Look at the same pair from the other side.
			m.viewpoint, m.counterpart = m.counterpart, m.viewpoint
			m.state = pairStateLoading

			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		case "n":
			m.state = pairStateForm
			m.history = nil
			m.err = nil
			m.form = m.buildForm()

			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *PairModel) refreshTable() {
	if m.history == nil {
		m.table.SetRows(nil)
		return
	}

	rows := make([]table.Row, len(m.history.Transactions))
	for i, c := range m.history.Transactions {
		payer := c.Payer.Name
		if payer == "" {
			payer = c.PayerID.String()[:8]
		}

		rows[i] = table.Row{
			FormatDate(c.Date),
			KindLabel(c.Kind),
			m.amount.Format(c.Amount),
			payer,
			c.Description,
		}
	}

	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m PairModel) View() string {
	switch m.state {
	case pairStateForm:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())

	case pairStateLoading:
		return lipgloss.NewStyle().Padding(2).Render(
			fmt.Sprintf("%s Reconciling history...", m.spinner.View()),
		)

	case pairStateResult:
		return m.viewResult()
	}

	return ""
}

func (m PairModel) viewResult() string {
	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(fmt.Sprintf("Error: %v", m.err)) +
				"\n\n(n: new pair, r: retry, Esc: back)",
		)
	}

	balanceColor := lipgloss.Color("46")
	if m.history.Total < 0 {
		balanceColor = lipgloss.Color("203")
	}

	header := lipgloss.NewStyle().PaddingBottom(1).Render(
		fmt.Sprintf("Viewpoint %s  |  Counterpart %s", short(m.viewpoint), short(m.counterpart)),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if len(m.history.Transactions) == 0 {
		tableView = lipgloss.NewStyle().Padding(1).Render("No transfers between these users.")
	}

	balance := lipgloss.NewStyle().
		Bold(true).
		Foreground(balanceColor).
		PaddingTop(1).
		Render(BalanceLabel(m.amount, m.history.Total))

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("s: swap sides | r: refresh | n: new pair | Esc: back")

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, tableView, balance, help),
	)
}

// buildForm prefills the inputs with the current pair. Results are read back
// through the form keys once it completes.
func (m PairModel) buildForm() *huh.Form {
	viewpoint, counterpart := m.viewpoint, m.counterpart

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("viewpoint").
				Title("Viewpoint user ID").
				Placeholder("00000000-0000-0000-0000-000000000000").
				Value(&viewpoint).
				Validate(validateUserID),

			huh.NewInput().
				Key("counterpart").
				Title("Counterpart user ID").
				Value(&counterpart).
				Validate(validateUserID),
		),
	).WithWidth(50).WithShowHelp(false)
}

func validateUserID(s string) error {
	if _, err := uuid.Parse(s); err != nil {
		return fmt.Errorf("not a valid user id")
	}

	return nil
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}

	return id
}

type pairLoadedMsg struct {
	history *ledger.History
	err     error
}

func (m PairModel) loadCmd() tea.Cmd {
	viewpoint, counterpart := m.viewpoint, m.counterpart

	return func() tea.Msg {
		viewpointID, err := uuid.Parse(viewpoint)
		if err != nil {
			return pairLoadedMsg{err: err}
		}

		counterpartID, err := uuid.Parse(counterpart)
		if err != nil {
			return pairLoadedMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		history, err := m.svc.PairHistory(ctx, m.viewer, viewpointID, counterpartID)

		return pairLoadedMsg{history: history, err: err}
	}
}
