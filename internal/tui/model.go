package tui

import (
	"fmt"
	"io"

	clipboard "github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/SimoKiihamaki/dashtabs/internal/config"
	"github.com/SimoKiihamaki/dashtabs/internal/page"
	"github.com/SimoKiihamaki/dashtabs/internal/tabs"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	chromeHeight  = 8
	minWrap       = 20

	// Rendered sections are kept per wrap width so resizing back and forth
	// does not re-render.
	renderCacheSize = 32
)

// Options carries the collaborators the dashboard needs beyond its config.
type Options struct {
	Store   tabs.Store // nil keeps the selection in memory
	Logger  *log.Logger
	Updates <-chan string      // tabs persisted by other sessions
	Copy    func(string) error // defaults to the system clipboard
	LogPath string
}

type model struct {
	cfg     config.Config
	keys    KeyMap
	logger  *log.Logger
	copy    func(string) error
	updates <-chan string
	logPath string

	doc      *page.Document
	bindings []page.Binding
	ctrl     *tabs.Controller

	viewport     viewport.Model
	renderer     *glamour.TermRenderer
	rendererWrap int
	rendered     *lru.Cache[string, string]
	shown        string

	width    int
	height   int
	showHelp bool
	status   string
	errMsg   string
}

// New builds the dashboard, wires the tab controller to it and applies the
// startup policy, so the first frame already shows the restored tab.
func New(cfg config.Config, opts Options) (model, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	bindings := cfg.Bindings()
	doc, registry := page.Build(bindings)
	ctrl, err := tabs.New(registry,
		tabs.WithPolicy(cfg.Policy()),
		tabs.WithStore(opts.Store),
		tabs.WithLogger(logger.WithPrefix("tabs")),
	)
	if err != nil {
		return model{}, err
	}
	rendered, err := lru.New[string, string](renderCacheSize)
	if err != nil {
		return model{}, err
	}

	m := model{
		cfg:      cfg.Clone(),
		keys:     DefaultKeyMap(),
		logger:   logger.WithPrefix("tui"),
		copy:     copyFn,
		updates:  opts.Updates,
		logPath:  opts.LogPath,
		doc:      doc,
		bindings: bindings,
		ctrl:     ctrl,
		viewport: viewport.New(defaultWidth-2, defaultHeight-chromeHeight),
		rendered: rendered,
		width:    defaultWidth,
		height:   defaultHeight,
	}

	page.Mount(doc, ctrl)
	doc.Load()
	m.syncViewport()
	active, _ := ctrl.Active()
	logger.Debug("dashboard ready", "tab", active, "startup", ctrl.Policy().Startup)
	return m, nil
}

func (m model) Init() tea.Cmd {
	return m.waitPersisted()
}

func (m model) binding(name string) (page.Binding, bool) {
	for _, b := range m.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return page.Binding{}, false
}

// selectTab goes through the tab's button when the markup has one, so the
// terminal takes the same path as a mouse click. Tabs without a button are
// activated directly.
func (m *model) selectTab(name string) {
	b, ok := m.binding(name)
	if !ok {
		return
	}
	m.errMsg = ""
	if btn := m.doc.Button(b.ControlID); btn != nil {
		btn.Click()
	} else if err := m.ctrl.Activate(name); err != nil {
		m.errMsg = err.Error()
	}
	m.syncViewport()
}

func (m *model) selectIndex(idx int) bool {
	if idx < 0 || idx >= len(m.bindings) {
		return false
	}
	m.selectTab(m.bindings[idx].Name)
	return true
}

func (m *model) cycle(delta int) {
	if name, ok := m.ctrl.Next(delta); ok {
		m.selectTab(name)
	}
}

// visibleRegion returns the ID of the section currently shown, or "" while
// the markup default applies or the active tab has no section.
func (m model) visibleRegion() string {
	for _, b := range m.bindings {
		if sec := m.doc.Section(b.RegionID); sec != nil && sec.Visible() {
			return sec.ID
		}
	}
	return ""
}

func (m *model) syncViewport() {
	id := m.visibleRegion()
	if id == m.shown {
		return
	}
	m.shown = id
	if id == "" {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderedSection(id))
	m.viewport.GotoTop()
}

func (m *model) renderedSection(id string) string {
	key := fmt.Sprintf("%s@%d", id, m.wrapWidth())
	if out, ok := m.rendered.Get(key); ok {
		return out
	}
	sec := m.doc.Section(id)
	if sec == nil {
		return ""
	}
	out := m.renderMarkdown(sec.Body)
	m.rendered.Add(key, out)
	return out
}

func (m *model) renderMarkdown(body string) string {
	if m.renderer == nil {
		r, err := newRenderer(m.cfg.UI.MarkdownStyle, m.wrapWidth())
		if err != nil {
			m.logger.Warn("markdown renderer unavailable", "style", m.cfg.UI.MarkdownStyle, "err", err)
			return body
		}
		m.renderer = r
		m.rendererWrap = m.wrapWidth()
	}
	out, err := m.renderer.Render(body)
	if err != nil {
		m.logger.Warn("render section", "err", err)
		return body
	}
	return out
}

func (m model) wrapWidth() int {
	w := config.DefaultWordWrap
	if m.cfg.UI.WordWrap != nil {
		w = *m.cfg.UI.WordWrap
	}
	if m.width > 0 && m.width-4 < w {
		w = m.width - 4
	}
	if w < minWrap {
		w = minWrap
	}
	return w
}

func newRenderer(style string, wrap int) (*glamour.TermRenderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if style != "" && style != "auto" {
		styleOpt = glamour.WithStandardStyle(style)
	}
	return glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wrap))
}

func (m model) waitPersisted() tea.Cmd {
	if m.updates == nil {
		return nil
	}
	ch := m.updates
	return func() tea.Msg {
		name, ok := <-ch
		if !ok {
			return nil
		}
		return persistedTabMsg{name: name}
	}
}
