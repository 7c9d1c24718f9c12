package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docsearch/internal/domain"
	"docsearch/internal/engine"
	"docsearch/internal/preview"
)

// EnginePort is the TUI-facing subset of the query engine.
type EnginePort interface {
	Search(ctx context.Context, query string) engine.Outcome
	GoBack() engine.Outcome
	GoForward() engine.Outcome
	ShowHistory() []string
	PendingRedo() []string
	Open(ctx context.Context, id string) (string, error)
}

type view int

const (
	viewResults view = iota
	viewDocument
	viewHistory
)

const helpText = "enter: search/open  ↑/↓: select  ctrl+b: back  ctrl+f: forward  ctrl+r: history  esc: results  ctrl+c: quit\n" +
	"commands: :back  :forward  :show  :open N  :quit"

type searchDoneMsg struct {
	out engine.Outcome
}

type openedMsg struct {
	id   string
	text string
	err  error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	engine    EnginePort
	input     textinput.Model
	viewport  viewport.Model
	results   []domain.SearchResult
	history   []string
	redo      []string
	summary   string
	status    string
	cursor    int
	ready     bool
	busy      bool
	view      view
	lastQuery string
	docID     string
	docText   string
}

// New creates a new TUI model instance.
func New(eng EnginePort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a query and press Enter (:back, :forward, :show)"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{engine: eng, input: ti, viewport: vp, summary: summary, status: "Loaded. Type to search."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around result and query boxes
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 3                                    // status + help
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, msg.Height-reserved-rh)
		m.refresh()
		return m, nil
	case searchDoneMsg:
		m.busy = false
		m.applyOutcome(msg.out, "search")
		return m, nil
	case openedMsg:
		m.busy = false
		if msg.err != nil {
			if errors.Is(msg.err, domain.ErrDocumentNotFound) {
				m.status = "File not found: " + msg.id
			} else {
				m.status = "Error: " + msg.err.Error()
			}
			return m, nil
		}
		m.view = viewDocument
		m.docID = msg.id
		m.docText = msg.text
		m.status = fmt.Sprintf("Opened %s (esc to return)", msg.id)
		m.refresh()
		m.viewport.GotoTop()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "enter":
			return m.submit()
		case "ctrl+b":
			m.applyOutcome(m.engine.GoBack(), "back")
			return m, nil
		case "ctrl+f":
			m.applyOutcome(m.engine.GoForward(), "forward")
			return m, nil
		case "ctrl+r":
			m.showHistory()
			return m, nil
		case "esc":
			m.view = viewResults
			m.refresh()
			return m, nil
		case "down":
			if m.view == viewResults && len(m.results) > 0 {
				m.cursor = (m.cursor + 1) % len(m.results)
				m.refresh()
				return m, nil
			}
		case "up":
			if m.view == viewResults && len(m.results) > 0 {
				m.cursor = (m.cursor - 1 + len(m.results)) % len(m.results)
				m.refresh()
				return m, nil
			}
		}
		if m.view == viewDocument {
			switch msg.String() {
			case "up", "down", "pgup", "pgdown":
				var cmd tea.Cmd
				m.viewport, cmd = m.viewport.Update(msg)
				return m, cmd
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	q := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if q == "" {
		if m.view == viewResults && len(m.results) > 0 {
			return m.open(m.results[m.cursor].DocumentID)
		}
		return m, nil
	}
	if strings.HasPrefix(q, ":") {
		return m.command(strings.Fields(strings.ToLower(q[1:])))
	}
	m.busy = true
	m.status = fmt.Sprintf("Searching for %q…", q)
	eng := m.engine
	return m, func() tea.Msg {
		return searchDoneMsg{out: eng.Search(context.Background(), q)}
	}
}

func (m Model) command(args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.status = helpText
		return m, nil
	}
	switch args[0] {
	case "back":
		m.applyOutcome(m.engine.GoBack(), "back")
	case "forward", "next":
		m.applyOutcome(m.engine.GoForward(), "forward")
	case "show", "history":
		m.showHistory()
	case "open":
		if len(args) < 2 {
			m.status = "Usage: :open N"
			return m, nil
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 || n > len(m.results) {
			m.status = "Invalid number."
			return m, nil
		}
		return m.open(m.results[n-1].DocumentID)
	case "quit", "q":
		return m, tea.Quit
	default:
		m.status = "Unknown command. " + helpText
	}
	return m, nil
}

func (m Model) open(id string) (tea.Model, tea.Cmd) {
	m.busy = true
	eng := m.engine
	return m, func() tea.Msg {
		text, err := eng.Open(context.Background(), id)
		return openedMsg{id: id, text: text, err: err}
	}
}

func (m *Model) applyOutcome(out engine.Outcome, kind string) {
	switch out.Status {
	case engine.StatusNothingToGoBack:
		m.status = "No previous search available."
		return
	case engine.StatusNothingToRedo:
		m.status = "Nothing to redo."
		return
	}
	m.view = viewResults
	m.results = out.Results
	m.cursor = 0
	m.lastQuery = out.Query
	switch {
	case out.Fallback:
		m.status = fmt.Sprintf("No local match for %q; answer saved as %s", out.Query, out.Results[0].DocumentID)
	case kind == "back":
		m.status = fmt.Sprintf("Back to: %q (%d found)", out.Query, len(out.Results))
	case kind == "forward":
		m.status = fmt.Sprintf("Forward to: %q (%d found)", out.Query, len(out.Results))
	case len(out.Results) == 0:
		m.status = fmt.Sprintf("No matches found for %q", out.Query)
	default:
		m.status = fmt.Sprintf("Found %d document(s) for %q", len(out.Results), out.Query)
	}
	m.refresh()
}

func (m *Model) showHistory() {
	m.history = m.engine.ShowHistory()
	m.redo = m.engine.PendingRedo()
	m.view = viewHistory
	m.status = fmt.Sprintf("History: %d queries (esc to return)", len(m.history))
	m.refresh()
}

func (m *Model) refresh() {
	switch m.view {
	case viewDocument:
		m.viewport.SetContent(m.renderDocument())
	case viewHistory:
		m.viewport.SetContent(m.renderHistory())
	default:
		m.viewport.SetContent(m.renderResults())
	}
}

// View renders the TUI layout and current result.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Document Search")
	summary := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(m.summary)
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	help := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(helpText)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + summary + "\n" + results + "\n" + input + "\n" + status + "\n" + help
}

func (m Model) renderResults() string {
	if len(m.results) == 0 {
		if m.lastQuery == "" {
			return "No results yet."
		}
		return "No matches found."
	}
	var b strings.Builder
	for i, r := range m.results {
		line := fmt.Sprintf("%d. %s | Score: %d", i+1, r.DocumentID, r.Score)
		if i == m.cursor {
			line = selectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderDocument() string {
	title := titleStyle.Render("--- " + m.docID + " ---")
	sentences, best := preview.BestSentence(m.docText, m.lastQuery)
	if len(sentences) == 0 {
		return title + "\n\n(empty document)"
	}
	for i := range sentences {
		if i == best {
			sentences[i] = highlightStyle.Render(sentences[i])
		}
	}
	return title + "\n\n" + strings.Join(sentences, " ")
}

func (m Model) renderHistory() string {
	if len(m.history) == 0 {
		return "History is empty."
	}
	var b strings.Builder
	b.WriteString("Current stack (top → bottom):\n")
	for i, q := range m.history {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	if len(m.redo) > 0 {
		b.WriteString("\nForward:\n")
		for i, q := range m.redo {
			fmt.Fprintf(&b, "%d. %s\n", i+1, q)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	selectedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true)
)
