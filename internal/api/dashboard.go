package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/SimoKiihamaki/dashtabs/internal/config"
	"github.com/SimoKiihamaki/dashtabs/internal/page"
	"github.com/SimoKiihamaki/dashtabs/internal/tabs"
)

const dashboardTitle = "Portfolio Dashboard"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// dashboard renders the tab page. Each request builds its own document and
// controller; the selection lives in a cookie, the browser's equivalent of
// local storage.
type dashboard struct {
	cfg      config.Config
	bindings []page.Binding
	bodies   map[string]template.HTML
	logger   *log.Logger
	maxAge   int
	metrics  *metrics
}

func newDashboard(cfg config.Config, logger *log.Logger, m *metrics) (*dashboard, error) {
	bindings := cfg.Bindings()
	_, registry := page.Build(bindings)
	if _, err := tabs.New(registry); err != nil {
		return nil, fmt.Errorf("dashboard tabs: %w", err)
	}

	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	bodies := make(map[string]template.HTML, len(bindings))
	for _, b := range bindings {
		if b.RegionID == "" {
			continue
		}
		var buf bytes.Buffer
		if err := md.Convert([]byte(b.Body), &buf); err != nil {
			return nil, fmt.Errorf("render %s body: %w", b.Name, err)
		}
		// goldmark omits raw HTML from bodies unless WithUnsafe is set.
		bodies[b.RegionID] = template.HTML(buf.String())
	}

	days := config.DefaultCookieDays
	if cfg.API.CookieDays != nil {
		days = *cfg.API.CookieDays
	}

	return &dashboard{
		cfg:      cfg.Clone(),
		bindings: bindings,
		bodies:   bodies,
		logger:   logger,
		maxAge:   days * 24 * 60 * 60,
		metrics:  m,
	}, nil
}

func (d *dashboard) binding(name string) (page.Binding, bool) {
	for _, b := range d.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return page.Binding{}, false
}

func (d *dashboard) persists() bool {
	return d.cfg.Policy().Persist
}

// cookieStore adapts request cookies to tabs.Store for a single request.
// Values set during the request are visible to later Gets.
type cookieStore struct {
	r      *http.Request
	w      http.ResponseWriter
	maxAge int
	set    map[string]string
}

func (s *cookieStore) Get(key string) (string, bool) {
	if v, ok := s.set[key]; ok {
		return v, true
	}
	c, err := s.r.Cookie(key)
	if err != nil {
		return "", false
	}
	return c.Value, true
}

func (s *cookieStore) Set(key, value string) error {
	if cur, ok := s.Get(key); ok && cur == value {
		return nil
	}
	s.set[key] = value
	http.SetCookie(s.w, &http.Cookie{
		Name:     key,
		Value:    value,
		Path:     "/",
		MaxAge:   s.maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// session is one page view: a document wired to its own controller.
type session struct {
	d    *dashboard
	doc  *page.Document
	ctrl *tabs.Controller
}

// open builds the page for r and runs the startup policy. Cookies are only
// written while headers are still unsent, so callers must open before
// writing the response.
func (d *dashboard) open(w http.ResponseWriter, r *http.Request) (*session, error) {
	doc, registry := page.Build(d.bindings)
	store := &cookieStore{r: r, w: w, maxAge: d.maxAge, set: map[string]string{}}
	ctrl, err := tabs.New(registry,
		tabs.WithPolicy(d.cfg.Policy()),
		tabs.WithStore(store),
		tabs.WithLogger(d.logger),
	)
	if err != nil {
		return nil, err
	}
	page.Mount(doc, ctrl)
	doc.Load()
	return &session{d: d, doc: doc, ctrl: ctrl}, nil
}

// click selects name the way a visitor would, through the tab's button when
// the markup has one.
func (s *session) click(name string) error {
	b, ok := s.d.binding(name)
	if !ok {
		return fmt.Errorf("%w: %q", tabs.ErrUnknownTab, name)
	}
	if btn := s.doc.Button(b.ControlID); btn != nil {
		btn.Click()
		return nil
	}
	return s.ctrl.Activate(name)
}

type buttonView struct {
	Name   string
	ID     string
	Label  string
	Class  string
	Active bool
}

type sectionView struct {
	ID      string
	Display string
	HTML    template.HTML
}

type pageView struct {
	Title    string
	Buttons  []buttonView
	Sections []sectionView
}

func (s *session) view() pageView {
	v := pageView{Title: dashboardTitle}
	for _, b := range s.d.bindings {
		if btn := s.doc.Button(b.ControlID); btn != nil {
			v.Buttons = append(v.Buttons, buttonView{
				Name:   b.Name,
				ID:     btn.ID,
				Label:  btn.Label,
				Class:  strings.Join(btn.Classes(), " "),
				Active: btn.Active(),
			})
		}
		if sec := s.doc.Section(b.RegionID); sec != nil {
			v.Sections = append(v.Sections, sectionView{
				ID:      sec.ID,
				Display: sec.Display,
				HTML:    s.d.bodies[sec.ID],
			})
		}
	}
	return v
}

func (s *session) render(w http.ResponseWriter, status int) {
	active, _ := s.ctrl.Active()
	s.d.metrics.viewed(active)
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, s.view()); err != nil {
		s.d.logger.Error("render dashboard", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to render dashboard")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type tabState struct {
	Name   string `json:"name"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

type tabsResponse struct {
	Tabs   []tabState `json:"tabs"`
	Active string     `json:"active"`
}

func (s *session) state() tabsResponse {
	active, _ := s.ctrl.Active()
	resp := tabsResponse{Active: active, Tabs: make([]tabState, 0, len(s.d.bindings))}
	for _, b := range s.d.bindings {
		resp.Tabs = append(resp.Tabs, tabState{Name: b.Name, Title: b.Title, Active: b.Name == active})
	}
	return resp
}
