// Package tabs implements the tab-activation controller shared by the terminal
// and HTTP dashboards. A Controller owns a fixed registry of named tabs, each
// pairing an activation control with a content region, and keeps exactly one
// of them visible once a tab has been activated.
package tabs

import "errors"

// DefaultStorageKey is the key the persisted selection is stored under.
const DefaultStorageKey = "activeTab"

var (
	ErrUnknownTab    = errors.New("unknown tab")
	ErrEmptyRegistry = errors.New("tab registry is empty")
	ErrDuplicateTab  = errors.New("duplicate tab name")
	ErrEmptyName     = errors.New("tab name is empty")
)

// Event is handed to click listeners. Listeners call PreventDefault to stop
// the control's default navigation.
type Event interface {
	PreventDefault()
}

// Control is a clickable element that can carry the active marker.
type Control interface {
	SetActive(active bool)
	OnClick(fn func(Event))
}

// Region is a content area whose visibility can be toggled.
type Region interface {
	SetVisible(visible bool)
}

// Store is the synchronous key/value port the persisted selection lives in.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Tab pairs a name with its handles. Either handle may be nil when the
// surrounding markup does not provide it; callers must leave the interface
// unset rather than storing a typed nil pointer.
type Tab struct {
	Name    string
	Control Control
	Region  Region
}

// Startup selects what Initialize activates.
type Startup string

const (
	// StartupRestore activates the persisted tab, falling back to the default.
	StartupRestore Startup = "restore"
	// StartupDefault always activates the default tab.
	StartupDefault Startup = "default"
	// StartupNone activates nothing; the markup decides what is visible
	// until the first click.
	StartupNone Startup = "none"
)

// ParseStartup maps a config string onto a Startup value.
func ParseStartup(s string) (Startup, bool) {
	switch Startup(s) {
	case StartupRestore, StartupDefault, StartupNone:
		return Startup(s), true
	default:
		return "", false
	}
}

// Policy unifies the persisting and non-persisting dashboard variants.
type Policy struct {
	Persist    bool
	DefaultTab string
	Startup    Startup
	StorageKey string
}

// PersistingPolicy mirrors the four-tab dashboard: the last tab survives a
// reload and one tab is always active after startup.
func PersistingPolicy(defaultTab string) Policy {
	return Policy{
		Persist:    true,
		DefaultTab: defaultTab,
		Startup:    StartupRestore,
		StorageKey: DefaultStorageKey,
	}
}

// TransientPolicy mirrors the three-tab dashboard: nothing is stored and
// nothing is activated until the first click.
func TransientPolicy() Policy {
	return Policy{Startup: StartupNone, StorageKey: DefaultStorageKey}
}
