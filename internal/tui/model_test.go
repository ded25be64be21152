package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/SimoKiihamaki/dashtabs/internal/config"
	"github.com/SimoKiihamaki/dashtabs/internal/tabs"
)

func testConfig() config.Config {
	cfg := config.Defaults()
	cfg.UI.MarkdownStyle = "notty"
	return cfg
}

func newTestModel(t *testing.T, cfg config.Config, opts Options) model {
	t.Helper()
	m, err := New(cfg, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m model, keys ...tea.KeyMsg) model {
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(model)
	}
	return m
}

func activeTab(t *testing.T, m model) string {
	t.Helper()
	name, ok := m.ctrl.Active()
	if !ok {
		t.Fatalf("expected an active tab")
	}
	return name
}

func TestStartupShowsDefaultTab(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, testConfig(), Options{})

	if got := activeTab(t, m); got != "visual" {
		t.Fatalf("active tab = %q, want visual", got)
	}
	if m.shown != "visual-section" {
		t.Fatalf("shown section = %q, want visual-section", m.shown)
	}
	if !m.doc.Button("visual").Active() {
		t.Fatalf("visual button should carry the active class")
	}
}

func TestNumberKeySwitchesTab(t *testing.T) {
	t.Parallel()
	store := tabs.NewMemoryStore()
	m := newTestModel(t, testConfig(), Options{Store: store})

	m = press(m, runeKey("3"))

	if got := activeTab(t, m); got != "compare" {
		t.Fatalf("active tab = %q, want compare", got)
	}
	if m.shown != "compare-section" {
		t.Fatalf("shown section = %q, want compare-section", m.shown)
	}
	for _, id := range []string{"visual", "metric", "summary"} {
		if m.doc.Button(id).Active() {
			t.Fatalf("button %q should not be active", id)
		}
	}
	if saved, _ := store.Get(tabs.DefaultStorageKey); saved != "compare" {
		t.Fatalf("stored tab = %q, want compare", saved)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2"), Alt: true})
	if got := activeTab(t, m); got != "metrics" {
		t.Fatalf("alt+2 should select metrics, got %q", got)
	}
}

func TestNumberKeyBeyondTabsIsIgnored(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, testConfig(), Options{})
	m = press(m, runeKey("9"))
	if got := activeTab(t, m); got != "visual" {
		t.Fatalf("active tab = %q, want visual", got)
	}
}

func TestArrowKeysCycle(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, testConfig(), Options{})

	m = press(m, tea.KeyMsg{Type: tea.KeyLeft})
	if got := activeTab(t, m); got != "summary" {
		t.Fatalf("left from first tab = %q, want summary", got)
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	if got := activeTab(t, m); got != "metrics" {
		t.Fatalf("two rights from summary = %q, want metrics", got)
	}
}

func TestRestoresPersistedTab(t *testing.T) {
	t.Parallel()
	store := tabs.NewMemoryStore()
	if err := store.Set(tabs.DefaultStorageKey, "summary"); err != nil {
		t.Fatal(err)
	}
	m := newTestModel(t, testConfig(), Options{Store: store})
	if got := activeTab(t, m); got != "summary" {
		t.Fatalf("active tab = %q, want summary", got)
	}
}

func TestLitePresetStartsWithoutSelection(t *testing.T) {
	t.Parallel()
	cfg, ok := config.Preset(config.PresetLite)
	if !ok {
		t.Fatal("lite preset missing")
	}
	cfg.UI.MarkdownStyle = "notty"
	store := tabs.NewMemoryStore()
	m := newTestModel(t, cfg, Options{Store: store})

	if _, ok := m.ctrl.Active(); ok {
		t.Fatalf("lite preset should not activate a tab on startup")
	}
	if view := m.View(); !strings.Contains(view, "Select a tab with 1-3") {
		t.Fatalf("expected selection hint, got:\n%s", view)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if got := activeTab(t, m); got != "visual" {
		t.Fatalf("first right = %q, want visual", got)
	}
	if _, ok := store.Get(tabs.DefaultStorageKey); ok {
		t.Fatalf("lite preset must not persist the selection")
	}
}

func TestTabWithoutSectionShowsHint(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Tabs[3].Region = ""
	m := newTestModel(t, cfg, Options{})

	m = press(m, runeKey("4"))
	if got := activeTab(t, m); got != "summary" {
		t.Fatalf("active tab = %q, want summary", got)
	}
	if m.doc.Section("visual-section").Visible() {
		t.Fatalf("visual section should be hidden")
	}
	if view := m.View(); !strings.Contains(view, "Summary has no section") {
		t.Fatalf("expected missing section hint, got:\n%s", view)
	}
}

func TestTabWithoutButtonIsReachableByNumber(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.Tabs[1].Control = ""
	m := newTestModel(t, cfg, Options{})

	if strings.Contains(m.renderTabBar(), "Metrics") {
		t.Fatalf("tab bar should leave out tabs without a button")
	}
	m = press(m, runeKey("2"))
	if got := activeTab(t, m); got != "metrics" {
		t.Fatalf("active tab = %q, want metrics", got)
	}
	if m.shown != "metrics-section" {
		t.Fatalf("shown section = %q, want metrics-section", m.shown)
	}
}

func TestPersistedTabFromAnotherSession(t *testing.T) {
	t.Parallel()
	updates := make(chan string, 1)
	m := newTestModel(t, testConfig(), Options{Updates: updates})

	next, cmd := m.Update(persistedTabMsg{name: "summary"})
	m = next.(model)
	if got := activeTab(t, m); got != "summary" {
		t.Fatalf("active tab = %q, want summary", got)
	}
	if !strings.Contains(m.status, "another session") {
		t.Fatalf("unexpected status %q", m.status)
	}
	if cmd == nil {
		t.Fatalf("expected the dashboard to keep listening for updates")
	}

	next, _ = m.Update(persistedTabMsg{name: "bogus"})
	m = next.(model)
	if got := activeTab(t, m); got != "summary" {
		t.Fatalf("unknown persisted tab changed selection to %q", got)
	}
}

func TestCopySection(t *testing.T) {
	t.Parallel()
	var copied string
	cfg := testConfig()
	m := newTestModel(t, cfg, Options{Copy: func(s string) error {
		copied = s
		return nil
	}})

	next, cmd := m.Update(runeKey("y"))
	m = next.(model)
	if cmd == nil {
		t.Fatal("expected copy command")
	}
	next, _ = m.Update(cmd())
	m = next.(model)

	if copied != cfg.Tabs[0].Body {
		t.Fatalf("copied text does not match the visual section body")
	}
	if m.status != "Visual copied to clipboard" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestCopyFailureIsReported(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, testConfig(), Options{Copy: func(string) error {
		return errors.New("no clipboard")
	}})

	next, cmd := m.Update(runeKey("y"))
	m = next.(model)
	next, _ = m.Update(cmd())
	m = next.(model)

	if !strings.Contains(m.errMsg, "no clipboard") {
		t.Fatalf("unexpected error message %q", m.errMsg)
	}
}

func TestHelpOverlayBlocksTabKeys(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, testConfig(), Options{})

	m = press(m, runeKey("?"), runeKey("2"))
	if got := activeTab(t, m); got != "visual" {
		t.Fatalf("tab keys should be ignored while help is open, got %q", got)
	}
	view := m.View()
	for _, want := range []string{"Keys", "Switch to tab 4", "Copy section text"} {
		if !strings.Contains(view, want) {
			t.Fatalf("help overlay missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Switch to tab 5") {
		t.Fatalf("help overlay should only list shortcuts for existing tabs")
	}

	m = press(m, runeKey("?"), runeKey("2"))
	if got := activeTab(t, m); got != "metrics" {
		t.Fatalf("active tab = %q, want metrics", got)
	}
}

func TestQuit(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, testConfig(), Options{})
	for _, k := range []tea.KeyMsg{runeKey("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: expected quit command", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: expected tea.QuitMsg", k)
		}
	}
}

func TestResizeRewrapsSection(t *testing.T) {
	t.Parallel()
	m := newTestModel(t, testConfig(), Options{})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 30})
	m = next.(model)

	if m.viewport.Width != 38 || m.viewport.Height != 30-chromeHeight {
		t.Fatalf("viewport = %dx%d", m.viewport.Width, m.viewport.Height)
	}
	if m.wrapWidth() != 36 {
		t.Fatalf("wrap width = %d, want 36", m.wrapWidth())
	}
	if m.shown != "visual-section" {
		t.Fatalf("resize lost the shown section: %q", m.shown)
	}
	for _, key := range []string{"visual-section@76", "visual-section@36"} {
		if !m.rendered.Contains(key) {
			t.Fatalf("render cache missing %q, has %v", key, m.rendered.Keys())
		}
	}
}
