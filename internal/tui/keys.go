package tui

import (
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type Action string

const (
	ActQuit      Action = "quit"
	ActInterrupt Action = "interrupt"
	ActHelp      Action = "help"

	ActGotoTab1 Action = "goto_tab_1"
	ActGotoTab2 Action = "goto_tab_2"
	ActGotoTab3 Action = "goto_tab_3"
	ActGotoTab4 Action = "goto_tab_4"
	ActGotoTab5 Action = "goto_tab_5"
	ActGotoTab6 Action = "goto_tab_6"
	ActGotoTab7 Action = "goto_tab_7"
	ActGotoTab8 Action = "goto_tab_8"
	ActGotoTab9 Action = "goto_tab_9"

	ActNextTab      Action = "next_tab"
	ActPrevTab      Action = "prev_tab"
	ActScrollUp     Action = "scroll_up"
	ActScrollDown   Action = "scroll_down"
	ActPageUp       Action = "page_up"
	ActPageDown     Action = "page_down"
	ActScrollTop    Action = "scroll_top"
	ActScrollBottom Action = "scroll_bottom"
	ActCopySection  Action = "copy_section"
)

var tabActions = []Action{
	ActGotoTab1, ActGotoTab2, ActGotoTab3,
	ActGotoTab4, ActGotoTab5, ActGotoTab6,
	ActGotoTab7, ActGotoTab8, ActGotoTab9,
}

func gotoTabAction(index int) (Action, bool) {
	if index < 0 || index >= len(tabActions) {
		return "", false
	}
	return tabActions[index], true
}

func tabIndexFromAction(act Action) (int, bool) {
	for i, tabAction := range tabActions {
		if tabAction == act {
			return i, true
		}
	}
	return 0, false
}

type KeyCombo struct {
	Key   string
	Alt   bool
	Ctrl  bool
	Shift bool
}

func (kc KeyCombo) String() string {
	parts := make([]string, 0, 4)
	if kc.Ctrl {
		parts = append(parts, "ctrl")
	}
	if kc.Alt {
		parts = append(parts, "alt")
	}
	if kc.Shift {
		parts = append(parts, "shift")
	}
	parts = append(parts, strings.ToLower(kc.Key))
	return strings.Join(parts, "+")
}

// Display renders the combo for help text.
func (kc KeyCombo) Display() string {
	parts := make([]string, 0, 4)
	if kc.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if kc.Alt {
		parts = append(parts, "Alt")
	}
	if kc.Shift {
		parts = append(parts, "Shift")
	}
	base := strings.ToLower(kc.Key)
	switch base {
	case "pgup":
		base = "PgUp"
	case "pgdown":
		base = "PgDn"
	case "home":
		base = "Home"
	case "end":
		base = "End"
	case "tab":
		base = "Tab"
	case " ":
		base = "Space"
	case "up":
		base = "↑"
	case "down":
		base = "↓"
	case "left":
		base = "←"
	case "right":
		base = "→"
	default:
		if len(base) == 1 {
			base = strings.ToUpper(base)
		} else if base != "" {
			base = strings.ToUpper(base[:1]) + base[1:]
		}
	}
	if len(parts) == 0 {
		return base
	}
	parts = append(parts, base)
	return strings.Join(parts, "+")
}

func (kc KeyCombo) Matches(msg tea.KeyMsg) bool {
	return strings.EqualFold(kc.String(), msg.String())
}

type KeyMap struct {
	Global map[Action][]KeyCombo
	labels map[Action]string
}

type HelpEntry struct {
	Action Action
	Label  string
	Combos []KeyCombo
}

// Actions returns every action bound to msg, in a stable order.
func (km KeyMap) Actions(msg tea.KeyMsg) []Action {
	var matches []Action
	for act, combos := range km.Global {
		for _, combo := range combos {
			if combo.Matches(msg) {
				matches = append(matches, act)
				break
			}
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return string(matches[i]) < string(matches[j])
	})
	return matches
}

func (km KeyMap) Label(act Action) string {
	if label, ok := km.labels[act]; ok {
		return label
	}
	return string(act)
}

// HelpEntries lists bound actions sorted by label. Goto actions beyond
// tabCount are left out.
func (km KeyMap) HelpEntries(tabCount int) []HelpEntry {
	entries := make([]HelpEntry, 0, len(km.Global))
	for act, combos := range km.Global {
		if len(combos) == 0 {
			continue
		}
		if idx, ok := tabIndexFromAction(act); ok && idx >= tabCount {
			continue
		}
		entries = append(entries, HelpEntry{
			Action: act,
			Label:  km.Label(act),
			Combos: append([]KeyCombo(nil), combos...),
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// DefaultKeyMap returns the dashboard key bindings.
func DefaultKeyMap() KeyMap {
	ctrl := func(key string) KeyCombo {
		return KeyCombo{Key: key, Ctrl: true}
	}
	alt := func(key string) KeyCombo {
		return KeyCombo{Key: key, Alt: true}
	}
	key := func(k string) KeyCombo {
		return KeyCombo{Key: k}
	}

	global := map[Action][]KeyCombo{
		ActQuit:         {key("q")},
		ActInterrupt:    {ctrl("c")},
		ActHelp:         {key("?"), key("f1")},
		ActNextTab:      {key("right"), key("tab"), key("l")},
		ActPrevTab:      {key("left"), KeyCombo{Key: "tab", Shift: true}, key("h")},
		ActScrollUp:     {key("up"), key("k")},
		ActScrollDown:   {key("down"), key("j")},
		ActPageUp:       {key("pgup")},
		ActPageDown:     {key("pgdown"), key(" ")},
		ActScrollTop:    {key("home"), key("g")},
		ActScrollBottom: {key("end")},
		ActCopySection:  {key("y")},
	}
	labels := map[Action]string{
		ActQuit:         "Quit",
		ActInterrupt:    "Interrupt",
		ActHelp:         "Toggle help overlay",
		ActNextTab:      "Next tab",
		ActPrevTab:      "Previous tab",
		ActScrollUp:     "Scroll up",
		ActScrollDown:   "Scroll down",
		ActPageUp:       "Page up",
		ActPageDown:     "Page down",
		ActScrollTop:    "Scroll to top",
		ActScrollBottom: "Scroll to bottom",
		ActCopySection:  "Copy section text",
	}
	for i, act := range tabActions {
		n := string(rune('1' + i))
		global[act] = []KeyCombo{key(n), alt(n)}
		labels[act] = "Switch to tab " + n
	}

	return KeyMap{Global: global, labels: labels}
}
