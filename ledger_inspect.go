package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/slangcast/slangcast/internal/ledger"
)

// LedgerInspectCmd opens an interactive TUI to browse and delete ledger entries.
type LedgerInspectCmd struct{}

func (cmd *LedgerInspectCmd) Run(globals *Globals) error {
	// JSON mode: fall back to ledger show --json (TUI not meaningful for scripts).
	if globals.JSON {
		return (&LedgerShowCmd{}).Run(globals)
	}

	selectLedger(globals)

	entries, err := ledger.Load()
	if err != nil {
		return newCLIError(ExitRuntimeError, "ledger_error",
			fmt.Sprintf("Failed to load ledger: %s", err))
	}

	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "Ledger is empty.")
		return nil
	}

	// Most recent first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	m := newInspectModel(entries)
	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("inspect TUI: %w", err)
	}

	fm := finalModel.(inspectModel)
	if fm.deleted > 0 {
		fmt.Fprintf(os.Stdout, "Removed %d entry(ies) from ledger.\n", fm.deleted)
	}
	return nil
}

const (
	inspectLeftPaneWidth = 30 // width of the list pane
	inspectSepWidth      = 3  // " │ " separator between panes
	minSplitWidth        = 64 // minimum terminal width for horizontal split
)

// inspectModel is the Bubble Tea model for the ledger inspector.
type inspectModel struct {
	entries         []ledger.Entry
	renderedContent []string // pre-cached glamour output per entry
	cursor          int
	deleted         int
	width, height   int
	message         string // transient status message
	detailViewport  viewport.Model
	focusDetail     bool
	confirmDelete   bool
	listOffset      int
}

func newInspectModel(entries []ledger.Entry) inspectModel {
	vp := viewport.New(80, 10)
	// Remove "d" from half-page-down (conflicts with delete key).
	vp.KeyMap.HalfPageDown = key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("ctrl+d", "½ page down"),
	)
	vp.KeyMap.Left.SetEnabled(false)
	vp.KeyMap.Right.SetEnabled(false)

	return inspectModel{
		entries:        entries,
		detailViewport: vp,
	}
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// 1. Delete confirmation takes priority over everything.
		if m.confirmDelete {
			switch msg.String() {
			case "y":
				return m.doDelete()
			default:
				m.confirmDelete = false
			}
			return m, nil
		}

		// 2. Global keys.
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit

		case "tab":
			if m.width >= minSplitWidth && len(m.entries) > 0 {
				m.focusDetail = !m.focusDetail
			}
			return m, nil

		case "d", "backspace", "delete":
			if !m.focusDetail && len(m.entries) > 0 {
				m.confirmDelete = true
			}
			return m, nil
		}

		// 3. Route to focused pane (viewport handles its own keys).
		if m.focusDetail {
			var cmd tea.Cmd
			m.detailViewport, cmd = m.detailViewport.Update(msg)
			return m, cmd
		}

		// 4. List navigation.
		switch msg.String() {
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.message = ""
				m.syncDetailContent()
				m.syncListScroll()
			}
		case "down", "j":
			if m.cursor < len(m.entries)-1 {
				m.cursor++
				m.message = ""
				m.syncDetailContent()
				m.syncListScroll()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.renderAllContent()
		m.updateViewportSize()
		m.syncDetailContent()
		m.syncListScroll()
	}

	return m, nil
}

// doDelete removes the currently selected entry and adjusts model state.
// Removing a ledger entry means the bot may post that slang again.
func (m inspectModel) doDelete() (tea.Model, tea.Cmd) {
	m.confirmDelete = false
	if m.cursor >= len(m.entries) {
		return m, nil
	}

	entry := m.entries[m.cursor]
	found, err := ledger.Remove(entry.ID)
	if err != nil {
		m.message = fmt.Sprintf("Delete failed: %s", err)
		return m, nil
	}
	if !found {
		m.message = fmt.Sprintf("Entry %s is no longer in the ledger", entry.ID)
		return m, nil
	}

	m.entries = append(m.entries[:m.cursor], m.entries[m.cursor+1:]...)
	if m.renderedContent != nil {
		m.renderedContent = append(m.renderedContent[:m.cursor], m.renderedContent[m.cursor+1:]...)
	}
	m.deleted++
	m.message = fmt.Sprintf("Deleted: %s", truncate(entry.Slang, 40))

	if len(m.entries) == 0 {
		return m, tea.Quit
	}
	if m.cursor >= len(m.entries) {
		m.cursor = len(m.entries) - 1
	}
	m.syncDetailContent()
	m.syncListScroll()
	return m, nil
}

// contentRows returns the number of rows available for the content area.
func (m inspectModel) contentRows() int {
	overhead := 2 // title + help
	if m.width >= minSplitWidth {
		overhead += 2 // top border + bottom border
	}
	if m.message != "" {
		overhead++
	}
	return max(m.height-overhead, 1)
}

// rightPaneWidth returns the width available for the detail pane.
func (m inspectModel) rightPaneWidth() int {
	return max(m.width-inspectLeftPaneWidth-inspectSepWidth, 1)
}

// renderAllContent pre-renders all posts via glamour for the detail pane.
func (m *inspectModel) renderAllContent() {
	if m.width < minSplitWidth {
		m.renderedContent = nil
		return
	}
	rightW := m.rightPaneWidth()
	m.renderedContent = make([]string, len(m.entries))
	for i, e := range m.entries {
		m.renderedContent[i] = renderPost(e.Post, max(rightW-2, 20))
	}
}

// updateViewportSize recalculates the detail viewport dimensions.
func (m *inspectModel) updateViewportSize() {
	if m.width < minSplitWidth {
		return
	}
	rows := m.contentRows()
	vpHeight := max(rows-2, 1) // subtract header + divider in right pane
	m.detailViewport.Width = m.rightPaneWidth()
	m.detailViewport.Height = vpHeight
}

// syncDetailContent sets the viewport to the currently selected entry's post.
func (m *inspectModel) syncDetailContent() {
	if len(m.renderedContent) == 0 || m.cursor >= len(m.renderedContent) {
		m.detailViewport.SetContent("")
		return
	}
	m.detailViewport.SetContent(m.renderedContent[m.cursor])
	m.detailViewport.GotoTop()
}

// syncListScroll ensures the cursor is visible within the list pane.
func (m *inspectModel) syncListScroll() {
	rows := m.contentRows()
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+rows {
		m.listOffset = m.cursor - rows + 1
	}
}

// --- View styles ---

var (
	inspectTitleStyle = lipgloss.NewStyle().Bold(true)
	inspectDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	inspectHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	inspectMsgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

func (m inspectModel) View() string {
	var b strings.Builder

	// Title.
	b.WriteString(inspectTitleStyle.Render(
		fmt.Sprintf("Posted slang (%d entries)", len(m.entries))))
	b.WriteString("\n")

	if len(m.entries) == 0 {
		b.WriteString(inspectHelpStyle.Render("q: quit"))
		return b.String()
	}

	if m.width < minSplitWidth {
		m.viewNarrow(&b)
	} else {
		m.viewSplit(&b)
	}

	// Transient status message.
	if m.message != "" {
		b.WriteString(inspectMsgStyle.Render(m.message))
		b.WriteString("\n")
	}

	// Help bar.
	b.WriteString(inspectHelpStyle.Render(m.helpText()))

	return b.String()
}

// viewNarrow renders a simple list without a detail pane (for narrow terminals).
func (m inspectModel) viewNarrow(b *strings.Builder) {
	rows := m.contentRows()
	end := min(m.listOffset+rows, len(m.entries))
	for i := m.listOffset; i < end; i++ {
		e := m.entries[i]
		slang := truncate(e.Slang, max(m.width-16, 10))

		line := fmt.Sprintf("  %-10s  %s", formatPostedAt(e.PostedAt), slang)
		if i == m.cursor {
			sel := "> " + line[2:]
			if m.confirmDelete {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true).Render(sel))
			} else {
				b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true).Render(sel))
			}
		} else {
			b.WriteString(inspectDimStyle.Render(line))
		}
		b.WriteString("\n")
	}
	// Pad remaining rows so the alt screen fills.
	for i := end - m.listOffset; i < rows; i++ {
		b.WriteString("\n")
	}
}

// viewSplit renders the horizontal split layout: list | separator | detail.
func (m inspectModel) viewSplit(b *strings.Builder) {
	rows := m.contentRows()
	rightW := m.rightPaneWidth()

	// Top border: ─────┬─────
	b.WriteString(inspectDimStyle.Render(
		strings.Repeat("─", inspectLeftPaneWidth) + "─┬─" + strings.Repeat("─", rightW)))
	b.WriteString("\n")

	// Build left pane (list items padded to leftPaneWidth).
	leftStyle := lipgloss.NewStyle().Width(inspectLeftPaneWidth)
	leftLines := make([]string, rows)
	for i := range rows {
		idx := m.listOffset + i
		if idx < len(m.entries) {
			leftLines[i] = m.renderListItem(idx, leftStyle)
		} else {
			leftLines[i] = leftStyle.Render("")
		}
	}

	// Build separator column.
	sepColor := lipgloss.Color("240")
	if m.focusDetail {
		sepColor = lipgloss.Color("212")
	}
	sep := lipgloss.NewStyle().Foreground(sepColor).Render(" │ ")

	// Right pane: fixed header + divider + viewport lines.
	e := m.entries[m.cursor]
	header := inspectDimStyle.Render(
		fmt.Sprintf("%s · %s · %s", e.Slang, formatPostedAt(e.PostedAt), e.ID))
	divider := inspectDimStyle.Render(strings.Repeat("─", rightW))

	vpLines := strings.Split(m.detailViewport.View(), "\n")

	// Compose rows: left | sep | right.
	for i := range rows {
		b.WriteString(leftLines[i])
		b.WriteString(sep)
		switch i {
		case 0:
			b.WriteString(header)
		case 1:
			b.WriteString(divider)
		default:
			vpIdx := i - 2
			if vpIdx < len(vpLines) {
				b.WriteString(vpLines[vpIdx])
			}
		}
		b.WriteString("\n")
	}

	// Bottom border: ─────┴─────
	b.WriteString(inspectDimStyle.Render(
		strings.Repeat("─", inspectLeftPaneWidth) + "─┴─" + strings.Repeat("─", rightW)))
	b.WriteString("\n")
}

// renderListItem renders a single list entry for the left pane.
func (m inspectModel) renderListItem(idx int, baseStyle lipgloss.Style) string {
	e := m.entries[idx]
	content := fmt.Sprintf("%s  %s", formatPostedAt(e.PostedAt), truncate(e.Slang, 16))

	if idx == m.cursor {
		color := lipgloss.Color("212")
		if m.confirmDelete {
			color = lipgloss.Color("214")
		}
		return baseStyle.Foreground(color).Bold(true).Render("> " + content)
	}
	return baseStyle.Foreground(lipgloss.Color("240")).Render("  " + content)
}

func (m inspectModel) helpText() string {
	if m.confirmDelete {
		return "y: confirm   n: cancel"
	}
	if m.width < minSplitWidth {
		return "↑↓: navigate   d: delete   q: quit"
	}
	if m.focusDetail {
		return "↑↓: scroll   tab: list   d: delete   q: quit"
	}
	return "↑↓: navigate   tab: detail   d: delete   q: quit"
}
