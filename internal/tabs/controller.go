package tabs

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Controller maintains the single-active-tab invariant over a fixed registry
// and optionally persists the selection through a Store.
//
// A Controller is not safe for concurrent use. Front ends drive it from a
// single goroutine, the same way a page drives its handlers from the UI thread.
type Controller struct {
	tabs   []Tab
	index  map[string]int
	policy Policy
	store  Store
	logger *log.Logger

	active int
	wired  bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy sets the persistence and startup policy.
func WithPolicy(p Policy) Option {
	return func(c *Controller) { c.policy = p }
}

// WithStore sets the persistence port.
func WithStore(s Store) Option {
	return func(c *Controller) { c.store = s }
}

// WithLogger sets the logger used for fallbacks and failed writes.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// New builds a controller over registry. The registry is copied; names must be
// non-empty and unique.
func New(registry []Tab, opts ...Option) (*Controller, error) {
	if len(registry) == 0 {
		return nil, ErrEmptyRegistry
	}
	c := &Controller{
		tabs:   append([]Tab(nil), registry...),
		index:  make(map[string]int, len(registry)),
		policy: PersistingPolicy(""),
		active: -1,
	}
	for i, t := range c.tabs {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: position %d", ErrEmptyName, i)
		}
		if _, dup := c.index[t.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateTab, t.Name)
		}
		c.index[t.Name] = i
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	if c.policy.StorageKey == "" {
		c.policy.StorageKey = DefaultStorageKey
	}
	if c.policy.Startup == "" {
		c.policy.Startup = StartupRestore
	}
	if _, ok := c.index[c.policy.DefaultTab]; !ok {
		if c.policy.DefaultTab != "" {
			c.logger.Warn("default tab not registered, using first tab", "tab", c.policy.DefaultTab)
		}
		c.policy.DefaultTab = c.tabs[0].Name
	}
	if c.policy.Persist && c.store == nil {
		c.logger.Debug("persistence enabled without a store, keeping selection in memory")
		c.store = NewMemoryStore()
	}
	return c, nil
}

// Activate hides every region, clears every active marker, then shows the
// named tab and marks its control. Unknown names are rejected with
// ErrUnknownTab and leave all state untouched.
func (c *Controller) Activate(name string) error {
	idx, ok := c.index[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTab, name)
	}

	for _, t := range c.tabs {
		if t.Region != nil {
			t.Region.SetVisible(false)
		}
		if t.Control != nil {
			t.Control.SetActive(false)
		}
	}

	target := c.tabs[idx]
	if target.Region != nil {
		target.Region.SetVisible(true)
	}
	if target.Control != nil {
		target.Control.SetActive(true)
	}
	c.active = idx

	if c.policy.Persist {
		if err := c.store.Set(c.policy.StorageKey, name); err != nil {
			c.logger.Warn("persisting active tab failed", "tab", name, "err", err)
		}
	}
	return nil
}

// Initialize wires a click listener to every present control and applies the
// startup policy. Listeners are wired once; calling Initialize again only
// re-applies the startup selection, the way a reload would.
func (c *Controller) Initialize() {
	if !c.wired {
		for _, t := range c.tabs {
			if t.Control == nil {
				continue
			}
			name := t.Name
			t.Control.OnClick(func(e Event) {
				if e != nil {
					e.PreventDefault()
				}
				_ = c.Activate(name)
			})
		}
		c.wired = true
	}

	if name, ok := c.startupTab(); ok {
		_ = c.Activate(name)
	}
}

func (c *Controller) startupTab() (string, bool) {
	switch c.policy.Startup {
	case StartupNone:
		return "", false
	case StartupDefault:
		return c.policy.DefaultTab, true
	}

	if !c.policy.Persist {
		return c.policy.DefaultTab, true
	}
	saved, ok := c.store.Get(c.policy.StorageKey)
	if !ok {
		return c.policy.DefaultTab, true
	}
	if _, known := c.index[saved]; !known {
		c.logger.Debug("persisted tab not registered, using default", "saved", saved, "default", c.policy.DefaultTab)
		return c.policy.DefaultTab, true
	}
	return saved, true
}

// Active reports the current tab, if any has been activated.
func (c *Controller) Active() (string, bool) {
	if c.active < 0 {
		return "", false
	}
	return c.tabs[c.active].Name, true
}

// Has reports whether name is registered.
func (c *Controller) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Names lists the registered tabs in registry order.
func (c *Controller) Names() []string {
	names := make([]string, len(c.tabs))
	for i, t := range c.tabs {
		names[i] = t.Name
	}
	return names
}

// Policy returns the effective policy after defaults were applied.
func (c *Controller) Policy() Policy {
	return c.policy
}

// Next returns the tab delta steps away from the active one, wrapping at both
// ends. With no active tab, Next(1) is the first tab and Next(-1) the last.
func (c *Controller) Next(delta int) (string, bool) {
	n := len(c.tabs)
	cur := c.active
	if cur < 0 {
		cur = 0
		if delta > 0 {
			delta--
		}
	}
	idx, ok := wrapIndex(cur, delta, n)
	if !ok {
		return "", false
	}
	return c.tabs[idx].Name, true
}

// wrapIndex moves current by delta within [0, n), wrapping in both directions.
func wrapIndex(current, delta, n int) (int, bool) {
	if n <= 0 {
		return 0, false
	}
	cur := current % n
	if cur < 0 {
		cur += n
	}
	next := (cur + delta%n) % n
	if next < 0 {
		next += n
	}
	return next, true
}
