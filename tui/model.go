// Package tui renders the guest list as a small terminal popover.
package tui

import (
	"context"
	"fmt"
	"strings"

	"proxpeek/controllers"
	"proxpeek/models"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minWidth    = 44
	placeholder = "Please check your configuration"
)

type snapshotMsg controllers.Snapshot

type operationDoneMsg struct {
	err error
}

// Model is the bubbletea model of the popover.
type Model struct {
	manager *controllers.Manager
	updates <-chan controllers.Snapshot
	cancel  func()

	snap    controllers.Snapshot
	rows    []models.VM
	cursor  int
	pending int

	keys    keyMap
	help    help.Model
	spinner spinner.Model
	width   int
}

func New(manager *controllers.Manager) *Model {
	updates, cancel := manager.Subscribe()
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = RunningStyle

	m := &Model{
		manager: manager,
		updates: updates,
		cancel:  cancel,
		keys:    defaultKeys,
		help:    help.New(),
		spinner: s,
		width:   minWidth,
	}
	m.apply(manager.Snapshot())
	return m
}

// Run shows the popover until the user quits.
func Run(manager *controllers.Manager) error {
	m := New(manager)
	defer m.cancel()
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	// Refresh on appear, as a menu popover does when opened.
	m.pending++
	return tea.Batch(m.waitForSnapshot(), m.run(m.manager.Refresh()), m.spinner.Tick)
}

func (m *Model) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(<-m.updates)
	}
}

func (m *Model) run(op *controllers.Operation) tea.Cmd {
	return func() tea.Msg {
		return operationDoneMsg{err: op.Wait(context.Background())}
	}
}

// apply switches to snap, keeping the cursor on the same guest when possible.
func (m *Model) apply(snap controllers.Snapshot) {
	var selected string
	if m.cursor < len(m.rows) {
		selected = m.rows[m.cursor].ID
	}
	m.snap = snap
	m.rows = rowsOf(snap.VMs)
	m.cursor = 0
	if i := models.Find(m.rows, selected); i >= 0 {
		m.cursor = i
	}
}

// rowsOf flattens the sections in display order.
func rowsOf(vms []models.VM) []models.VM {
	var rows []models.VM
	for _, section := range models.Group(vms) {
		rows = append(rows, section.VMs...)
	}
	return rows
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(minWidth, min(msg.Width-4, 72))
		m.help.Width = m.width
		return m, nil

	case snapshotMsg:
		m.apply(controllers.Snapshot(msg))
		return m, m.waitForSnapshot()

	case operationDoneMsg:
		if m.pending > 0 {
			m.pending--
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Refresh):
			m.pending++
			return m, m.run(m.manager.Refresh())
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor >= len(m.rows) {
				return m, nil
			}
			vm := m.rows[m.cursor]
			m.pending++
			return m, m.run(m.manager.Toggle(vm.ID, vm.Status, vm.Type))
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	}
	return m, nil
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Width(m.width).Render("ProxPeek"))
	b.WriteString("\n")

	if !m.snap.Ready {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, placeholder))
		b.WriteString("\n")
	} else {
		row := 0
		for _, section := range models.Group(m.snap.VMs) {
			b.WriteString(SectionStyle.Render(section.Title))
			b.WriteString("\n")
			for _, vm := range section.VMs {
				b.WriteString(m.renderRow(vm, row == m.cursor))
				b.WriteString("\n")
				row++
			}
		}
	}

	b.WriteString(DividerStyle.Render(strings.Repeat("─", m.width)))
	b.WriteString("\n")
	if m.pending > 0 {
		b.WriteString(m.spinner.View() + " working…\n")
	}
	if m.snap.Error != "" {
		b.WriteString(ErrorStyle.Width(m.width).Render("⚠ " + m.snap.Error))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))

	return WindowStyle.Render(b.String())
}

func (m *Model) renderRow(vm models.VM, selected bool) string {
	icon := "▣"
	if vm.Type == models.LXC {
		icon = "◫"
	}
	label := fmt.Sprintf("%s %d - %s", icon, vm.VMID, vm.Name)

	status := IdleStyle.Render(vm.DisplayStatus())
	if vm.IsRunning() {
		status = RunningStyle.Render(vm.DisplayStatus())
	}

	style := ItemStyle
	if selected {
		style = SelectedItemStyle
	}
	left := style.Render(label)
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + status
}
