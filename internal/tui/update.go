package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(typed), nil

	case tea.KeyMsg:
		return m.handleKeyMsg(typed)

	case persistedTabMsg:
		if active, _ := m.ctrl.Active(); typed.name != active && m.ctrl.Has(typed.name) {
			m.selectTab(typed.name)
			m.status = "Switched to " + m.title(typed.name) + " from another session"
		}
		return m, m.waitPersisted()

	case copyDoneMsg:
		if typed.err != nil {
			m.errMsg = "Copy failed: " + typed.err.Error()
			m.logger.Warn("clipboard write failed", "err", typed.err)
			return m, nil
		}
		m.status = typed.title + " copied to clipboard"
		return m, nil

	case statusMsg:
		if typed.note != "" {
			m.status = typed.note
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleResize rewraps the shown section for the new width.
func (m model) handleResize(msg tea.WindowSizeMsg) model {
	m.width, m.height = msg.Width, msg.Height
	m.viewport.Width = max(msg.Width-2, 1)
	m.viewport.Height = max(msg.Height-chromeHeight, 3)
	if m.renderer != nil && m.wrapWidth() != m.rendererWrap {
		m.renderer = nil
	}
	m.shown = ""
	m.syncViewport()
	return m
}

func (m model) handleKeyMsg(msg tea.KeyMsg) (model, tea.Cmd) {
	mPtr := &m
	for _, act := range mPtr.keys.Actions(msg) {
		if handled, cmd := mPtr.handleAction(act); handled {
			return *mPtr, cmd
		}
	}
	return *mPtr, nil
}

func (m *model) handleAction(act Action) (bool, tea.Cmd) {
	if m.showHelp {
		switch act {
		case ActHelp, ActQuit, ActInterrupt:
		default:
			// the overlay swallows everything but closing it
			return true, nil
		}
	}

	switch act {
	case ActQuit, ActInterrupt:
		return true, tea.Quit
	case ActHelp:
		m.showHelp = !m.showHelp
		return true, nil
	case ActNextTab:
		m.cycle(1)
		return true, nil
	case ActPrevTab:
		m.cycle(-1)
		return true, nil
	case ActScrollUp:
		m.viewport.LineUp(1)
		return true, nil
	case ActScrollDown:
		m.viewport.LineDown(1)
		return true, nil
	case ActPageUp:
		m.viewport.ViewUp()
		return true, nil
	case ActPageDown:
		m.viewport.ViewDown()
		return true, nil
	case ActScrollTop:
		m.viewport.GotoTop()
		return true, nil
	case ActScrollBottom:
		m.viewport.GotoBottom()
		return true, nil
	case ActCopySection:
		return true, m.copySection()
	}

	if idx, ok := tabIndexFromAction(act); ok {
		return m.selectIndex(idx), nil
	}
	return false, nil
}

func (m model) copySection() tea.Cmd {
	sec := m.doc.Section(m.shown)
	if sec == nil {
		return func() tea.Msg { return statusMsg{note: "Nothing to copy"} }
	}
	title := m.title(m.ownerOf(sec.ID))
	body := sec.Body
	copyFn := m.copy
	return func() tea.Msg {
		return copyDoneMsg{title: title, err: copyFn(body)}
	}
}

func (m model) ownerOf(regionID string) string {
	for _, b := range m.bindings {
		if b.RegionID == regionID {
			return b.Name
		}
	}
	return ""
}

func (m model) title(name string) string {
	b, ok := m.binding(name)
	if !ok {
		return name
	}
	if b.Title != "" {
		return b.Title
	}
	return b.Name
}
