package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"murmur/binding"
	"murmur/keys"
	"murmur/portal"
)

// TUI message types
type SessionStartedMsg struct{ ID string }
type SessionCommittedMsg struct {
	ID    string
	Combo string
}
type SessionCanceledMsg struct{ ID string }
type SessionFailedMsg struct {
	ID  string
	Err error
}
type HotkeyActiveMsg struct {
	ID     string
	Toggle bool
}
type HotkeyInactiveMsg struct{ ID string }
type PortalMsg struct{ Infos []portal.ShortcutInfo }
type tickMsg time.Time

var (
	tuiProgram *tea.Program
	tuiMu      sync.Mutex
)

// tuiSink forwards events into the running program. Safe to call before
// the program starts; events from that window are dropped.
type tuiSink struct{}

var _ EventSink = tuiSink{}

func (tuiSink) send(msg tea.Msg) {
	tuiMu.Lock()
	p := tuiProgram
	tuiMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func (s tuiSink) SessionStarted(id string) { s.send(SessionStartedMsg{ID: id}) }
func (s tuiSink) SessionCommitted(id, combo string) {
	s.send(SessionCommittedMsg{ID: id, Combo: combo})
}
func (s tuiSink) SessionCanceled(id string) { s.send(SessionCanceledMsg{ID: id}) }
func (s tuiSink) SessionFailed(id string, err error) {
	s.send(SessionFailedMsg{ID: id, Err: err})
}
func (s tuiSink) HotkeyActive(id string, toggle bool) {
	s.send(HotkeyActiveMsg{ID: id, Toggle: toggle})
}
func (s tuiSink) HotkeyInactive(id string) { s.send(HotkeyInactiveMsg{ID: id}) }
func (s tuiSink) PortalUpdate(infos []portal.ShortcutInfo) { s.send(PortalMsg{Infos: infos}) }

type bindingRow struct {
	ID      string
	Combo   string
	Default string
}

type tuiModel struct {
	store   binding.Store
	rec     *binding.Recorder
	coord   *binding.Coordinator
	osName  keys.OS
	wayland bool

	rows          []bindingRow
	cursor        int
	recording     bool
	recordingID   string
	activeID      string
	activeToggle  bool
	flash         string
	portalInfos   map[string]portal.ShortcutInfo
	frame         int
	width, height int
}

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("231")).Background(lipgloss.Color("24"))
	rowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	comboStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	recStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	warnStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("239"))
)

func NewTUIProgram(store binding.Store, rec *binding.Recorder, coord *binding.Coordinator, osName keys.OS) *tea.Program {
	m := tuiModel{
		store:       store,
		rec:         rec,
		coord:       coord,
		osName:      osName,
		wayland:     portal.IsWaylandSession(),
		portalInfos: make(map[string]portal.ShortcutInfo),
	}
	m.loadRows()
	return tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
}

func (m *tuiModel) loadRows() {
	all, err := m.store.Bindings()
	if err != nil {
		m.flash = warnStyle.Render(fmt.Sprintf("cannot read bindings: %v", err))
		return
	}
	rows := make([]bindingRow, 0, len(all))
	for _, b := range all {
		rows = append(rows, bindingRow{ID: b.ID, Combo: b.CurrentBinding, Default: b.DefaultBinding})
	}
	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = 0
	}
}

func tuiTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m tuiModel) Init() tea.Cmd {
	return tuiTick()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		m.frame++
		return m, tuiTick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		// Any click while recording counts as clicking away.
		if m.recording && msg.Action == tea.MouseActionPress {
			m.rec.Cancel()
		}

	case SessionStartedMsg:
		m.recording = true
		m.recordingID = msg.ID
		m.flash = ""

	case SessionCommittedMsg:
		m.recording = false
		m.recordingID = ""
		m.loadRows()
		m.flash = okStyle.Render(fmt.Sprintf("%s → %s", msg.ID, keys.Format(keys.Split(msg.Combo), m.osName)))
		if m.wayland {
			if key, ok := portal.PrintableKeyIn(msg.Combo); ok {
				m.flash += "  " + warnStyle.Render(fmt.Sprintf("⚠ %q is printable and may leak into the focused window", key))
			}
		}

	case SessionCanceledMsg:
		m.recording = false
		m.recordingID = ""
		m.flash = dimStyle.Render("recording canceled")

	case SessionFailedMsg:
		m.recording = false
		m.recordingID = ""
		m.loadRows()
		m.flash = warnStyle.Render(fmt.Sprintf("change failed: %v", msg.Err))

	case HotkeyActiveMsg:
		m.activeID = msg.ID
		m.activeToggle = msg.Toggle

	case HotkeyInactiveMsg:
		if m.activeID == msg.ID {
			m.activeID = ""
		}

	case PortalMsg:
		// The registry owns this view: replace it wholesale so an entry
		// removed out-of-band loses its badge too.
		infos := make(map[string]portal.ShortcutInfo, len(msg.Infos))
		for _, info := range msg.Infos {
			infos[info.ID] = info
		}
		m.portalInfos = infos
	}
	return m, nil
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.recording {
		// The raw capture stream owns the keyboard during a session;
		// terminal keys are ignored so they cannot race it.
		return m, nil
	}
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "enter":
		if len(m.rows) == 0 {
			break
		}
		id := m.rows[m.cursor].ID
		if err := m.rec.Start(id); err != nil {
			m.flash = warnStyle.Render(fmt.Sprintf("cannot record: %v", err))
		}
	case "r":
		if len(m.rows) == 0 {
			break
		}
		id := m.rows[m.cursor].ID
		if err := m.coord.Reset(id); err != nil {
			m.flash = warnStyle.Render(fmt.Sprintf("reset failed: %v", err))
		} else {
			m.loadRows()
			m.flash = dimStyle.Render(id + " reset to default")
		}
	}
	return m, nil
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

func (m tuiModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("murmur — shortcut bindings") + "\n\n")

	for i, row := range m.rows {
		line := fmt.Sprintf("  %-10s %s", row.ID, comboStyle.Render(keys.Format(keys.Split(row.Combo), m.osName)))
		if m.wayland {
			if info, ok := m.portalInfos[row.ID]; ok && info.HasPrintableKey {
				line += "  " + warnStyle.Render("⚠ printable")
			}
		}
		if m.activeID == row.ID {
			mode := "hold"
			if m.activeToggle {
				mode = "toggle"
			}
			line += "  " + recStyle.Render("● "+mode)
		}
		if m.recording && m.recordingID == row.ID {
			spinner := spinnerFrames[m.frame%len(spinnerFrames)]
			_, _, recorded := m.rec.Snapshot()
			live := "press keys…"
			if len(recorded) > 0 {
				live = keys.Format(recorded, m.osName)
			}
			line = fmt.Sprintf("  %-10s %s %s", row.ID, recStyle.Render(spinner+" "+live), dimStyle.Render("(esc or click to cancel)"))
		}
		if i == m.cursor && !m.recording {
			line = selectedStyle.Render(line)
		} else {
			line = rowStyle.Render(line)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	if m.flash != "" {
		b.WriteString(m.flash + "\n")
	}
	if m.wayland {
		b.WriteString(dimStyle.Render("wayland session: shortcuts routed through the desktop portal") + "\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select · enter rebind · r reset · q quit") + "\n")
	b.WriteString(helpStyle.Render("murmur " + version))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
