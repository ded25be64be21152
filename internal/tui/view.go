package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const dashboardTitle = "Portfolio Dashboard"

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(dashboardTitle) + "\n")
	b.WriteString(m.renderTabBar() + "\n")

	if m.showHelp {
		b.WriteString(buildHelpOverlayContent(m) + "\n")
	} else {
		renderSection(&b, m)
	}

	renderStatus(&b, m)
	b.WriteString(helpStyle.Render(m.footer()))
	return b.String()
}

func tabShortcutLabel(keys KeyMap, idx int) string {
	if act, ok := gotoTabAction(idx); ok {
		if combos := keys.Global[act]; len(combos) > 0 {
			return combos[0].Display()
		}
	}
	return fmt.Sprintf("%d", idx+1)
}

// renderTabBar draws one entry per tab button. Tabs whose markup has no
// button are left out of the bar but keep their shortcut number.
func (m model) renderTabBar() string {
	parts := make([]string, 0, len(m.bindings))
	for i, bd := range m.bindings {
		btn := m.doc.Button(bd.ControlID)
		if btn == nil {
			continue
		}
		label := fmt.Sprintf("%s %s", tabShortcutLabel(m.keys, i), btn.Label)
		if btn.Active() {
			parts = append(parts, tabActive.Render(label))
		} else {
			parts = append(parts, tabInactive.Render(label))
		}
	}
	return strings.Join(parts, tabSeparator)
}

func renderSection(b *strings.Builder, m model) {
	if m.shown == "" {
		if active, ok := m.ctrl.Active(); ok {
			b.WriteString(helpStyle.Render(m.title(active)+" has no section to show.") + "\n")
			return
		}
		hint := fmt.Sprintf("Select a tab with 1-%d or ←/→ to show its section.", len(m.bindings))
		b.WriteString(helpStyle.Render(hint) + "\n")
		return
	}
	b.WriteString(sectionTitle.Render(m.title(m.ownerOf(m.shown))) + "\n")
	b.WriteString(m.viewport.View() + "\n")
}

func renderStatus(b *strings.Builder, m model) {
	switch {
	case m.errMsg != "":
		b.WriteString(errorStyle.Render(m.errMsg) + "\n")
	case m.status != "":
		b.WriteString(okStyle.Render(m.status) + "\n")
	}
}

func (m model) footer() string {
	parts := []string{
		fmt.Sprintf("1-%d switch", len(m.bindings)),
		"←/→ cycle",
		"↑/↓ scroll",
		"y copy",
		"? help",
		"q quit",
	}
	if m.logPath != "" {
		parts = append(parts, "log "+abbreviatePath(m.logPath))
	}
	return strings.Join(parts, " · ")
}

// buildHelpOverlayContent builds the help overlay panel content.
func buildHelpOverlayContent(m model) string {
	entries := m.keys.HelpEntries(len(m.bindings))
	if len(entries) == 0 {
		return ""
	}
	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		combos := make([]string, 0, len(entry.Combos))
		for _, combo := range entry.Combos {
			combos = append(combos, combo.Display())
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Left,
			helpKeyStyle.Render(strings.Join(combos, " / ")),
			" ",
			helpLabelStyle.Render(entry.Label),
		))
	}
	return helpBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		helpBoxTitle.Render("Keys"),
		lipgloss.JoinVertical(lipgloss.Left, lines...),
	))
}
