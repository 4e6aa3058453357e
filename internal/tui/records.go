package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-joker/joker/internal/tui/components"
	"github.com/go-joker/joker/internal/tui/styles"
	"github.com/go-joker/joker/zone"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// --- Messages ---

type recordsLoadedMsg struct {
	records []zone.Record
}

type recordsErrorMsg struct {
	err error
}

// --- Record browser model ---

// recordBrowserModel is a read-only viewer over a domain's zone. Writes go
// through the dns set/del commands; the browser only lists and refreshes.
type recordBrowserModel struct {
	account string
	domain  string
	load    func(ctx context.Context) ([]zone.Record, error)

	records   []zone.Record
	filtered  []zone.Record
	cursor    int
	listStart int // for scrolling

	typeFilter string // e.g. "A", "TXT", "" for all
	typeCycle  []string

	width  int
	height int

	loading       bool
	spinner       spinner.Model
	err           error
	status        string
	statusIsError bool
}

func newRecordBrowserModel(account, domainName string, load func(ctx context.Context) ([]zone.Record, error)) recordBrowserModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Blue)

	return recordBrowserModel{
		account:   account,
		domain:    domainName,
		load:      load,
		typeCycle: []string{"", "A", "AAAA", "CNAME", "MX", "TXT", "NS"},
		loading:   true,
		spinner:   s,
	}
}

// RunRecordBrowser starts the interactive zone browser for domainName.
// load is called once at startup and again on every refresh, so the
// browser always shows the zone as the server currently has it.
func RunRecordBrowser(account, domainName string, load func(ctx context.Context) ([]zone.Record, error)) error {
	m := newRecordBrowserModel(account, domainName, load)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m recordBrowserModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m recordBrowserModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		records, err := m.load(context.Background())
		if err != nil {
			return recordsErrorMsg{err}
		}
		return recordsLoadedMsg{records}
	}
}

func (m *recordBrowserModel) applyFilter() {
	m.filtered = make([]zone.Record, 0)
	for _, r := range m.records {
		if m.typeFilter == "" || strings.EqualFold(string(r.Type), m.typeFilter) {
			m.filtered = append(m.filtered, r)
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = len(m.filtered) - 1
		if m.cursor < 0 {
			m.cursor = 0
		}
	}
	if m.listStart >= len(m.filtered) {
		m.listStart = 0
	}
}

func (m *recordBrowserModel) cycleFilter() {
	idx := 0
	for i, t := range m.typeCycle {
		if t == m.typeFilter {
			idx = i
			break
		}
	}
	m.typeFilter = m.typeCycle[(idx+1)%len(m.typeCycle)]
	m.applyFilter()
}

func (m recordBrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
		case "f":
			m.cycleFilter()
		case "r":
			m.loading = true
			m.err = nil
			m.status = ""
			m.statusIsError = false
			// Restart the spinner tick: it stops once loading finishes.
			return m, tea.Batch(m.spinner.Tick, m.loadCmd())
		}

	case recordsLoadedMsg:
		m.loading = false
		m.records = msg.records
		m.applyFilter()
		m.status = fmt.Sprintf("%d records in %s.", len(m.records), m.domain)
		m.statusIsError = false

	case recordsErrorMsg:
		m.loading = false
		m.err = msg.err
		m.status = msg.err.Error()
		m.statusIsError = true

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

func (m recordBrowserModel) View() string {
	header := components.Header(m.width, "dns > "+m.domain, m.account)

	footer := components.Footer(m.width, []components.KeyBinding{
		{Key: "j/k", Desc: "nav"},
		{Key: "f", Desc: "filter"},
		{Key: "r", Desc: "refresh"},
		{Key: "q", Desc: "quit"},
	})

	statusBar := components.StatusBar(m.width, m.status, m.statusIsError)

	headerH := lipgloss.Height(header)
	footerH := lipgloss.Height(footer)
	statusH := lipgloss.Height(statusBar)
	contentH := m.height - headerH - footerH - statusH
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case m.loading:
		content = fmt.Sprintf("\n  %s Loading zone...", m.spinner.View())
	case m.err != nil:
		content = fmt.Sprintf("\n  %s", styles.ErrorText.Render(m.err.Error()))
	case len(m.records) == 0:
		content = "\n  Zone is empty."
	default:
		content = m.renderFilterBar() + "\n" + m.renderTable(contentH-2)
	}

	lines := lipgloss.Height(content)
	if lines < contentH {
		content += lipgloss.NewStyle().Height(contentH - lines).Render("")
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar, footer)
}

func (m recordBrowserModel) renderFilterBar() string {
	var parts []string
	parts = append(parts, "  Filter: ")

	for _, t := range m.typeCycle {
		label := t
		if t == "" {
			label = "All"
		}

		if t == m.typeFilter {
			parts = append(parts, fmt.Sprintf("[%s]", styles.AccentText.Render(label)))
		} else {
			parts = append(parts, fmt.Sprintf(" %s ", styles.MutedText.Render(label)))
		}
	}

	return strings.Join(parts, "")
}

func (m recordBrowserModel) renderTable(height int) string {
	if len(m.filtered) == 0 {
		return "\n  No records match current filter."
	}

	// Column widths for TYPE, LABEL, PRI, VALUE, TTL, matching the zone
	// text column order.
	cols := []int{7, 24, 4, 38, 6}

	header := styles.TableHeader.Render(
		fmt.Sprintf("  %-*s %-*s %*s %-*s %*s",
			cols[0], "TYPE",
			cols[1], "LABEL",
			cols[2], "PRI",
			cols[3], "VALUE",
			cols[4], "TTL",
		),
	)

	var rows []string
	rows = append(rows, header)

	if m.cursor < m.listStart {
		m.listStart = m.cursor
	} else if m.cursor >= m.listStart+(height-1) {
		m.listStart = m.cursor - (height - 2)
	}

	end := m.listStart + height - 1
	if end > len(m.filtered) {
		end = len(m.filtered)
	}

	for i := m.listStart; i < end; i++ {
		r := m.filtered[i]

		cursor := " "
		rowStyle := styles.TableCell
		if i == m.cursor {
			cursor = styles.AccentText.Render(">")
			rowStyle = styles.TableSelectedRow
		}

		value := r.Value
		if len(value) > cols[3] {
			value = value[:cols[3]-3] + "..."
		}

		// Pad before styling so the escape codes don't count toward the
		// column width. The selected row keeps a single uniform style.
		typeCell := fmt.Sprintf("%-*s", cols[0], string(r.Type))
		if i != m.cursor {
			typeCell = styles.TypeStyle(string(r.Type)).Render(typeCell)
		}

		row := fmt.Sprintf("%s %s %-*s %*s %-*s %*s",
			cursor,
			typeCell,
			cols[1], r.Label,
			cols[2], formatOptInt(r.Priority),
			cols[3], value,
			cols[4], formatOptInt(r.TTL),
		)
		rows = append(rows, rowStyle.Render(row))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

// formatOptInt renders an optional numeric column, "-" when unset.
func formatOptInt(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}
