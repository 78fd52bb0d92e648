package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/sunless-engine/pkg/adventure"
	"github.com/jwebster45206/sunless-engine/pkg/progress"
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	api          *apiClient
	adventureID  uuid.UUID
	location     *adventure.LocationView
	consequence  *adventure.ConsequenceView
	report       *progress.Report
	sceneVp      viewport.Model
	metaViewport viewport.Model
	ready        bool
	width        int
	height       int
	err          error
	status       string
	loading      bool

	// Quit confirmation state
	showQuitModal bool
}

type sceneMsg struct {
	location    *adventure.LocationView
	consequence *adventure.ConsequenceView
	err         error
}

type progressMsg struct {
	report *progress.Report
	err    error
}

type copiedMsg struct {
	err error
}

var (
	scenePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	actionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	exitStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	detailStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(api *apiClient, adventureID uuid.UUID) ConsoleUI {
	sceneVp := viewport.New(50, 20)
	sceneVp.MouseWheelEnabled = true

	return ConsoleUI{
		api:          api,
		adventureID:  adventureID,
		sceneVp:      sceneVp,
		metaViewport: viewport.New(20, 20),
		loading:      true,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(m.fetchScene(), m.fetchProgress())
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.sceneVp, vpCmd = m.sceneVp.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		sceneWidth, metaWidth := m.panelWidths()
		m.sceneVp.Width = sceneWidth - 2
		m.sceneVp.Height = m.height - 5
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.ready = true
		m.refresh()

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			m.showQuitModal = true
			return m, nil
		}
		if m.loading {
			return m, nil
		}
		return m.handleKey(msg)

	case sceneMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.location = msg.location
			m.consequence = msg.consequence
		}
		m.refresh()
		m.sceneVp.GotoTop()
		return m, m.fetchProgress()

	case progressMsg:
		if msg.err == nil {
			m.report = msg.report
		}
		m.refresh()

	case copiedMsg:
		if msg.err != nil {
			m.status = "Copy failed: " + msg.err.Error()
		} else {
			m.status = "Scene copied to clipboard"
		}
		m.refresh()
	}

	m.sceneVp, vpCmd = m.sceneVp.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(vpCmd, mvCmd)
}

func (m ConsoleUI) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch key := msg.String(); {
	case msg.Type == tea.KeyEnter:
		if m.consequence == nil {
			return m, nil
		}
		return m.act(func() error { return m.api.resolve(m.adventureID) })

	case len(key) == 1 && key[0] >= '1' && key[0] <= '9':
		if m.location == nil {
			return m, nil
		}
		index := int(key[0] - '1')
		return m.act(func() error { return m.api.performAction(m.adventureID, index) })

	case key == "x":
		if m.location == nil || m.location.Exit == nil {
			return m, nil
		}
		return m.act(func() error { return m.api.leave(m.adventureID) })

	case key == "p":
		return m, m.fetchProgress()

	case key == "y":
		return m, copyToClipboard(plainScene(m.location, m.consequence))
	}

	var cmd tea.Cmd
	m.sceneVp, cmd = m.sceneVp.Update(msg)
	return m, cmd
}

// act runs a mutating call and then reloads the scene.
func (m ConsoleUI) act(call func() error) (tea.Model, tea.Cmd) {
	m.loading = true
	m.refresh()
	api, id := m.api, m.adventureID
	return m, func() tea.Msg {
		if err := call(); err != nil {
			return sceneMsg{err: err}
		}
		loc, cons, err := api.scene(id)
		return sceneMsg{location: loc, consequence: cons, err: err}
	}
}

func (m ConsoleUI) fetchScene() tea.Cmd {
	api, id := m.api, m.adventureID
	return func() tea.Msg {
		loc, cons, err := api.scene(id)
		return sceneMsg{location: loc, consequence: cons, err: err}
	}
}

func (m ConsoleUI) fetchProgress() tea.Cmd {
	api, id := m.api, m.adventureID
	return func() tea.Msg {
		report, err := api.progressReport(id)
		return progressMsg{report: report, err: err}
	}
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(text)}
	}
}

func (m ConsoleUI) panelWidths() (int, int) {
	sceneWidth := int(float64(m.width)*0.75) - 4
	return sceneWidth, m.width - sceneWidth - 6
}

// refresh re-renders both panels for the current size and state.
func (m *ConsoleUI) refresh() {
	if !m.ready {
		return
	}
	width := max(m.sceneVp.Width-6, 20)

	var content strings.Builder
	switch {
	case m.location != nil:
		content.WriteString(renderLocation(m.location, width))
	case m.consequence != nil:
		content.WriteString(renderConsequence(m.consequence, width))
	}
	if m.loading {
		content.WriteString("\n" + loadingStyle.Render("..."))
	}
	if m.err != nil {
		content.WriteString("\n" + errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	if m.status != "" {
		content.WriteString("\n" + promptStyle.Render(m.status) + "\n")
	}

	m.sceneVp.SetContent(content.String())
	m.metaViewport.SetContent(writeMetadata(m.adventureID, m.report, m.consequence != nil))
}

func renderLocation(loc *adventure.LocationView, width int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(loc.Depiction.Title)) + "\n\n")
	content.WriteString(wordwrap.String(loc.Depiction.Description, width) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for i, action := range loc.Actions {
		content.WriteString(actionStyle.Render(fmt.Sprintf("%d. %s", i+1, action.Name)))
		if action.Depiction.Title != "" {
			content.WriteString(" - " + action.Depiction.Title)
		}
		content.WriteString("\n")
		if action.Depiction.Description != "" {
			content.WriteString(detailStyle.Render(wordwrap.String(action.Depiction.Description, width-3)) + "\n")
		}
		content.WriteString("\n")
	}
	if loc.Exit != nil {
		content.WriteString(exitStyle.Render("x. "+*loc.Exit) + "\n")
	}
	return content.String()
}

func renderConsequence(cons *adventure.ConsequenceView, width int) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(cons.Depiction.Title)) + "\n\n")
	content.WriteString(wordwrap.String(cons.Depiction.Description, width) + "\n\n")
	for _, d := range cons.Details {
		content.WriteString(detailStyle.Render("• "+wordwrap.String(d.Description, width-2)) + "\n")
	}
	if len(cons.Details) > 0 {
		content.WriteString("\n")
	}
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")
	content.WriteString(actionStyle.Render("Enter. "+cons.Resolution) + "\n")
	return content.String()
}

// plainScene is the unstyled scene text used for the clipboard.
func plainScene(loc *adventure.LocationView, cons *adventure.ConsequenceView) string {
	var b strings.Builder
	switch {
	case loc != nil:
		fmt.Fprintf(&b, "%s\n\n%s\n", loc.Depiction.Title, loc.Depiction.Description)
		for i, action := range loc.Actions {
			fmt.Fprintf(&b, "\n%d. %s", i+1, action.Name)
		}
		if loc.Exit != nil {
			fmt.Fprintf(&b, "\nx. %s", *loc.Exit)
		}
		b.WriteString("\n")
	case cons != nil:
		fmt.Fprintf(&b, "%s\n\n%s\n", cons.Depiction.Title, cons.Depiction.Description)
		for _, d := range cons.Details {
			fmt.Fprintf(&b, "\n- %s", d.Description)
		}
		fmt.Fprintf(&b, "\n\n> %s\n", cons.Resolution)
	}
	return b.String()
}

func writeMetadata(id uuid.UUID, report *progress.Report, inConsequence bool) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("ADVENTURE") + "\n\n")

	content.WriteString("Adventure ID:\n")
	content.WriteString(id.String()[:8] + "...\n\n")

	if report != nil {
		content.WriteString("Progress:\n")
		content.WriteString(fmt.Sprintf("• Explored: %.0f%%\n", report.Locations))
		content.WriteString(fmt.Sprintf("• Competences: %.0f%%\n", report.Competences))
		if report.Watch > 0 {
			content.WriteString("• You are being watched\n")
		}
		if report.Distrust > 0 {
			content.WriteString("• You are distrusted\n")
		}
		content.WriteString("\n")
	}

	content.WriteString("Commands:\n")
	if inConsequence {
		content.WriteString("• Enter: Continue\n")
	} else {
		content.WriteString("• 1-9: Act\n")
		content.WriteString("• x: Leave\n")
	}
	content.WriteString("• p: Progress\n")
	content.WriteString("• y: Copy scene\n")
	content.WriteString("• Ctrl+C: Quit\n")

	return content.String()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to leave the adventure?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	sceneWidth, metaWidth := m.panelWidths()

	scenePanel := scenePanelStyle.Width(sceneWidth).Height(m.height - 3).Render(
		m.sceneVp.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, scenePanel, metaPanel)
}
