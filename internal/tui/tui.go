package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Zuo-Peng/prompt-history/internal/index"
	"github.com/Zuo-Peng/prompt-history/internal/render"
	"github.com/Zuo-Peng/prompt-history/internal/search"
)

const debounceDelay = 200 * time.Millisecond

type tuiMode int

const (
	modeSearch tuiMode = iota
	modeList
)

type searchResultMsg struct {
	query   string
	agent   string
	results []search.Result
	err     error
}

type debounceTickMsg struct {
	query string
}

type agentsLoadedMsg struct {
	agents []string
	err    error
}

type model struct {
	db    *index.DB
	opts  search.Options // opts.Agent is the active agent filter
	mode  tuiMode
	query string

	results    []search.Result
	cursor     int
	listOffset int
	input      textinput.Model

	preview    viewport.Model
	view       render.TerminalView // turn anchors of the shown preview
	previewKey string              // "id:line" of the shown preview

	agents []string // declared agents, cycled by keys.Agent

	width    int
	height   int
	ready    bool
	quitting bool
	chosen   *search.Result
}

func newModel(db *index.DB, mode tuiMode, query string, opts search.Options) model {
	ti := textinput.New()
	ti.Placeholder = "Search..."
	if mode == modeList {
		ti.Placeholder = "Filter..."
	}
	ti.Focus()
	ti.SetValue(query)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		db:      db,
		opts:    opts,
		mode:    mode,
		query:   query,
		input:   ti,
		preview: viewport.New(0, 0),
	}
}

// Run starts the TUI on a full-text search for query and blocks until it
// exits. Choosing a result copies its export command to the clipboard.
func Run(db *index.DB, query string, opts search.Options) error {
	return run(db, newModel(db, modeSearch, query, opts))
}

// RunList starts the TUI on every transcript card in manifest order.
// Typing switches to a full-text search over the transcripts.
func RunList(db *index.DB, opts search.Options) error {
	return run(db, newModel(db, modeList, "", opts))
}

func run(db *index.DB, m model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.chosen != nil {
		return copyExportCmd(db, fm.chosen.ID)
	}
	return nil
}

// exportCommand is the shell command that renders id to an HTML file.
func exportCommand(id string) string {
	return fmt.Sprintf("phist export %s -o %s.html", id, strings.ReplaceAll(id, "/", "_"))
}

func copyExportCmd(db *index.DB, id string) error {
	row, err := db.GetTranscript(id)
	if err != nil {
		return fmt.Errorf("get transcript: %w", err)
	}
	if row == nil {
		return fmt.Errorf("transcript not found: %s", id)
	}

	cmd := exportCommand(row.ID)
	if err := clipboard.WriteAll(cmd); err != nil {
		fmt.Println(cmd)
		return nil
	}
	fmt.Printf("Copied to clipboard: %s\n", cmd)
	return nil
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadAgents(), m.refresh())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		// width changed, so the preview has to be wrapped again
		m.previewKey = ""
		return m, m.loadCurrentPreview()

	case tea.KeyMsg:
		return m.updateKey(msg)

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case debounceTickMsg:
		if msg.query != m.query {
			return m, nil
		}
		return m, m.refresh()

	case agentsLoadedMsg:
		if msg.err == nil {
			m.agents = msg.agents
		}
		return m, nil

	case searchResultMsg:
		return m.applyResults(msg)

	case previewRenderedMsg:
		return m.applyPreview(msg), nil
	}
	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	half := m.panelHeight() / 2

	switch {
	case key.Matches(msg, keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, keys.Enter):
		if r, ok := m.selected(); ok {
			m.chosen = &r
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case key.Matches(msg, keys.Up):
		cmd := m.moveCursor(-1)
		return m, cmd

	case key.Matches(msg, keys.Down):
		cmd := m.moveCursor(1)
		return m, cmd

	case key.Matches(msg, keys.PrevTurn):
		m.jumpTurn(-1)
		return m, nil

	case key.Matches(msg, keys.NextTurn):
		m.jumpTurn(1)
		return m, nil

	case key.Matches(msg, keys.Agent):
		cmd := m.cycleAgent()
		return m, cmd

	case key.Matches(msg, keys.PreviewUp):
		m.preview.LineUp(half)
		return m, nil

	case key.Matches(msg, keys.PreviewDn):
		m.preview.LineDown(half)
		return m, nil

	case key.Matches(msg, keys.PageUp):
		m.preview.LineUp(m.panelHeight())
		return m, nil

	case key.Matches(msg, keys.PageDown):
		m.preview.LineDown(m.panelHeight())
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	if q := m.input.Value(); q != m.query {
		m.query = q
		cmds = append(cmds, m.scheduleDebouncedSearch(q))
	}
	return m, tea.Batch(cmds...)
}

func (m model) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !m.ready || len(m.results) == 0 {
		return m, nil
	}

	region, item := m.hitTest(msg.X, msg.Y)
	wheel := msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown

	switch region {
	case regionList:
		switch {
		case msg.Button == tea.MouseButtonWheelUp:
			m.scrollList(-1)
		case msg.Button == tea.MouseButtonWheelDown:
			m.scrollList(1)
		case msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			cmd := m.moveCursor(item - m.cursor)
			return m, cmd
		}
	case regionPreview:
		if wheel {
			var cmd tea.Cmd
			m.preview, cmd = m.preview.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// applyResults installs a finished search unless the query or agent
// filter moved on while it ran.
func (m model) applyResults(msg searchResultMsg) (tea.Model, tea.Cmd) {
	if msg.query != m.query || msg.agent != m.opts.Agent {
		return m, nil
	}

	m.cursor, m.listOffset = 0, 0
	m.previewKey = ""
	m.view = render.TerminalView{}
	if msg.err != nil {
		m.results = nil
		m.preview.SetContent("Error: " + msg.err.Error())
		return m, nil
	}

	m.results = msg.results
	if len(m.results) == 0 {
		m.preview.SetContent("")
		return m, nil
	}
	return m, m.loadCurrentPreview()
}

// applyPreview shows a rendered preview if it still belongs to the
// selected result.
func (m model) applyPreview(msg previewRenderedMsg) model {
	k := previewCacheKey(msg.id, msg.line)
	if k == m.previewKey {
		return m
	}
	if r, ok := m.selected(); ok && previewCacheKey(r.ID, r.Line) != k {
		return m
	}

	m.previewKey = k
	if msg.err != nil {
		m.view = render.TerminalView{}
		m.preview.SetContent("Preview error: " + msg.err.Error())
		return m
	}

	m.view = msg.view
	m.preview.SetContent(msg.view.Content)
	if msg.view.HitLine > 0 {
		m.preview.SetYOffset(msg.view.HitLine)
	} else {
		m.preview.GotoTop()
	}
	return m
}

func (m model) selected() (search.Result, bool) {
	if m.cursor < 0 || m.cursor >= len(m.results) {
		return search.Result{}, false
	}
	return m.results[m.cursor], true
}

// moveCursor moves the selection by delta results and loads its preview.
func (m *model) moveCursor(delta int) tea.Cmd {
	next := m.cursor + delta
	if delta == 0 || next < 0 || next >= len(m.results) {
		return nil
	}
	m.cursor = next
	m.adjustListScroll(m.panelHeight())
	return m.loadCurrentPreview()
}

func (m *model) scrollList(delta int) {
	maxOffset := len(m.results) - m.panelHeight()/linesPerItem
	if maxOffset < 0 {
		maxOffset = 0
	}
	m.listOffset += delta
	if m.listOffset < 0 {
		m.listOffset = 0
	}
	if m.listOffset > maxOffset {
		m.listOffset = maxOffset
	}
}

// jumpTurn scrolls the preview to the start of a neighbouring turn. Going
// back from inside a turn lands on that turn's own header first.
func (m *model) jumpTurn(delta int) {
	turns := m.view.Turns
	if len(turns) == 0 {
		return
	}

	y := m.preview.YOffset
	cur := m.view.TurnAt(y)
	target := cur + delta
	if delta < 0 && cur >= 0 && y > turns[cur] {
		target = cur
	}
	if target < 0 {
		target = 0
	}
	if target >= len(turns) {
		target = len(turns) - 1
	}
	m.preview.SetYOffset(turns[target])
}

// currentTurn is the 1-based turn at the top of the preview, 0 when the
// preview is above the first turn or empty.
func (m model) currentTurn() int {
	return m.view.TurnAt(m.preview.YOffset) + 1
}

// cycleAgent steps the agent filter through all, then each declared agent,
// and reruns the current query.
func (m *model) cycleAgent() tea.Cmd {
	choices := append([]string{""}, m.agents...)
	i := 0
	for j, a := range choices {
		if a == m.opts.Agent {
			i = j
			break
		}
	}
	m.opts.Agent = choices[(i+1)%len(choices)]
	return m.refresh()
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW, previewW, panelH := m.listWidth(), m.previewWidth(), m.panelHeight()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	return lipgloss.JoinVertical(lipgloss.Left, m.input.View(), panels, m.statusBar())
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	return max(m.width*40/100-4, 20)
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	return max(m.width*60/100-4, 20)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// input row + status bar + top and bottom borders
	return max(m.height-6, 5)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	top := 2 // input row + top border
	if y < top || y >= top+m.panelHeight() {
		return regionNone, -1
	}

	lw := m.listWidth()
	switch {
	case x >= 1 && x <= lw:
		return regionList, m.listOffset + (y-top)/linesPerItem
	case x > lw+2:
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	agent := "all"
	if m.opts.Agent != "" {
		agent = m.opts.Agent
	}
	parts := []string{
		fmt.Sprintf("%d transcripts", len(m.results)),
		"agent " + agent,
	}
	if n := len(m.view.Turns); n > 0 {
		parts = append(parts, fmt.Sprintf("turn %d/%d", m.currentTurn(), n))
	}
	for _, b := range []key.Binding{keys.PrevTurn, keys.NextTurn, keys.Agent, keys.Enter, keys.Quit} {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return styleTitle.Render("phist") + styleStatusBar.Render(strings.Join(parts, " | "))
}

// refresh reruns the current query: cards in list mode with an empty
// filter, full-text search otherwise.
func (m model) refresh() tea.Cmd {
	db, opts, query := m.db, m.opts, m.query
	opts.Query = query
	listAll := m.mode == modeList && query == ""

	return func() tea.Msg {
		msg := searchResultMsg{query: query, agent: opts.Agent}
		switch {
		case listAll:
			msg.results, msg.err = search.ListAll(db, opts)
		case query != "":
			msg.results, msg.err = search.Search(db, opts)
		}
		return msg
	}
}

func (m model) loadAgents() tea.Cmd {
	db := m.db
	return func() tea.Msg {
		agents, err := db.Agents()
		return agentsLoadedMsg{agents: agents, err: err}
	}
}

func (m model) scheduleDebouncedSearch(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	r, ok := m.selected()
	if !ok || previewCacheKey(r.ID, r.Line) == m.previewKey {
		return nil
	}
	return loadPreviewCmd(m.db, r, m.query, m.previewWidth())
}

func previewCacheKey(id string, line int) string {
	return fmt.Sprintf("%s:%d", id, line)
}
