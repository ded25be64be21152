package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/SimoKiihamaki/dashtabs/internal/page"
	"github.com/SimoKiihamaki/dashtabs/internal/tabs"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "DASHTABS_CONFIG"

const (
	ConfigVersion     = "1.0.0" // Increment when schema changes require migration
	DefaultAPIAddr    = ":8080"
	DefaultRatePerMin = 120
	DefaultRateBurst  = 20
	DefaultWordWrap   = 80
	DefaultCookieDays = 365
)

// Preset names for the two historical dashboard variants.
const (
	PresetFull = "full"
	PresetLite = "lite"
)

type TabSpec struct {
	ID      string `yaml:"id"`
	Title   string `yaml:"title"`
	Control string `yaml:"control"`
	Region  string `yaml:"region"`
	Body    string `yaml:"body,omitempty"`
}

type Persistence struct {
	Enabled    *bool  `yaml:"enabled"`
	StorageKey string `yaml:"storage_key"`
	StatePath  string `yaml:"state_path"`
	SyncTabs   bool   `yaml:"sync_tabs"`
}

type API struct {
	Addr          string `yaml:"addr"`
	RatePerMinute *int   `yaml:"rate_per_minute"`
	Burst         *int   `yaml:"burst"`
	CookieDays    *int   `yaml:"cookie_days"`
}

// UI configures the terminal dashboard.
type UI struct {
	MarkdownStyle string `yaml:"markdown_style"` // glamour style name, "auto" detects
	WordWrap      *int   `yaml:"word_wrap"`
}

type Config struct {
	Version     string      `yaml:"version,omitempty"`
	Preset      string      `yaml:"preset"`
	LogLevel    string      `yaml:"log_level"`
	Tabs        []TabSpec   `yaml:"tabs"`
	EnabledTabs []string    `yaml:"enabled_tabs,omitempty"`
	DefaultTab  string      `yaml:"default_tab"`
	Startup     string      `yaml:"startup"`
	Persistence Persistence `yaml:"persistence"`
	API         API         `yaml:"api"`
	UI          UI          `yaml:"ui"`
}

func dashboardTabs() []TabSpec {
	return []TabSpec{
		{ID: "visual", Title: "Visual", Control: "visual", Region: "visual-section", Body: visualBody},
		{ID: "metrics", Title: "Metrics", Control: "metric", Region: "metrics-section", Body: metricsBody},
		{ID: "compare", Title: "Compare", Control: "compare", Region: "compare-section", Body: compareBody},
		{ID: "summary", Title: "Summary", Control: "summary", Region: "summary-section", Body: summaryBody},
	}
}

// Defaults returns the full preset: four tabs, persisted selection, restored
// on startup.
func Defaults() Config {
	return Config{
		Version:    ConfigVersion,
		Preset:     PresetFull,
		LogLevel:   "info",
		Tabs:       dashboardTabs(),
		DefaultTab: "visual",
		Startup:    string(tabs.StartupRestore),
		Persistence: Persistence{
			Enabled:    boolPtr(true),
			StorageKey: tabs.DefaultStorageKey,
		},
		API: API{
			Addr:          DefaultAPIAddr,
			RatePerMinute: intPtr(DefaultRatePerMin),
			Burst:         intPtr(DefaultRateBurst),
			CookieDays:    intPtr(DefaultCookieDays),
		},
		UI: UI{
			MarkdownStyle: "auto",
			WordWrap:      intPtr(DefaultWordWrap),
		},
	}
}

// Preset returns the named preset. The lite preset is the three-tab dashboard
// that neither persists nor activates anything before the first click.
func Preset(name string) (Config, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PresetFull:
		return Defaults(), true
	case PresetLite:
		c := Defaults()
		c.Preset = PresetLite
		all := dashboardTabs()
		c.Tabs = []TabSpec{all[0], all[1], all[3]}
		c.Startup = string(tabs.StartupNone)
		c.Persistence.Enabled = boolPtr(false)
		return c, true
	default:
		return Config{}, false
	}
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "dashtabs"), nil
}

// Path is the config file location: $DASHTABS_CONFIG, else
// ~/.config/dashtabs/config.yaml.
func Path() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureDir creates the config directory with owner-only permissions.
func EnsureDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	if err := os.Chmod(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

// StatePath resolves where the persisted selection is stored.
func (c Config) StatePath() (string, error) {
	if c.Persistence.StatePath != "" {
		return c.Persistence.StatePath, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "state.yaml"), nil
}

// migrateConfig brings older configs up to ConfigVersion.
func migrateConfig(c Config) (Config, []string) {
	var warnings []string
	if c.Version == "" {
		c.Version = ConfigVersion
		warnings = append(warnings, "config upgraded to version "+ConfigVersion)
	} else if compareVersions(c.Version, ConfigVersion) < 0 {
		warnings = append(warnings, fmt.Sprintf("config upgraded from %s to %s", c.Version, ConfigVersion))
		c.Version = ConfigVersion
	}
	return c, warnings
}

// compareVersions compares two semantic version strings.
// Returns -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2. Malformed parts count as 0.
func compareVersions(v1, v2 string) int {
	parse := func(v string) [3]int {
		var out [3]int
		for i, part := range strings.SplitN(v, ".", 3) {
			_, _ = fmt.Sscanf(part, "%d", &out[i])
		}
		return out
	}
	a, b := parse(v1), parse(v2)
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// LoadResult holds the loaded configuration and any warnings raised on the way.
type LoadResult struct {
	Config   Config
	Warnings []string
}

// Load reads the configuration, logging warnings. It never fails; anything
// unreadable falls back to defaults.
func Load() Config {
	result := LoadWithWarnings()
	for _, warning := range result.Warnings {
		log.Warn(warning)
	}
	return result.Config
}

// LoadWithWarnings reads the config file and environment, returning warnings
// instead of logging them.
func LoadWithWarnings() LoadResult {
	p, err := Path()
	if err != nil {
		res := LoadFrom("", nil)
		res.Warnings = append([]string{"could not determine config path: " + err.Error()}, res.Warnings...)
		return res
	}
	return LoadFrom(p, nil)
}

// LoadFrom reads the config at p (empty means none) and applies overrides from
// environ, or from the process environment when environ is nil.
func LoadFrom(p string, environ map[string]string) LoadResult {
	var warnings []string
	overrides, err := readEnvOverrides(environ)
	if err != nil {
		warnings = append(warnings, "ignoring environment overrides: "+err.Error())
	}

	var c Config
	if p != "" {
		b, err := os.ReadFile(p)
		switch {
		case errors.Is(err, os.ErrNotExist):
			c = Config{Version: ConfigVersion}
		case err != nil:
			warnings = append(warnings, "could not read config file: "+err.Error())
			c = Config{Version: ConfigVersion}
		default:
			if err := yaml.Unmarshal(b, &c); err != nil {
				warnings = append(warnings, fmt.Sprintf("config file corrupt (using defaults): %v", err))
				c = Config{Version: ConfigVersion}
			}
		}
	} else {
		c.Version = ConfigVersion
	}

	c, migrationWarnings := migrateConfig(c)
	warnings = append(warnings, migrationWarnings...)

	if overrides.Preset != "" {
		c.Preset = overrides.Preset
	}
	base, ok := Preset(c.Preset)
	if !ok {
		warnings = append(warnings, fmt.Sprintf("unknown preset %q; using %q", c.Preset, PresetFull))
		base = Defaults()
		c.Preset = PresetFull
	}
	if c.Preset == "" {
		c.Preset = base.Preset
	}

	setStringDefault := func(field *string, value string) {
		if strings.TrimSpace(*field) == "" {
			*field = value
		}
	}
	setStringDefault(&c.LogLevel, base.LogLevel)
	setStringDefault(&c.DefaultTab, base.DefaultTab)
	setStringDefault(&c.Startup, base.Startup)
	setStringDefault(&c.Persistence.StorageKey, base.Persistence.StorageKey)
	setStringDefault(&c.API.Addr, base.API.Addr)
	setStringDefault(&c.UI.MarkdownStyle, base.UI.MarkdownStyle)

	if len(c.Tabs) == 0 {
		c.Tabs = base.Tabs
	}
	if c.Persistence.Enabled == nil {
		c.Persistence.Enabled = boolPtr(*base.Persistence.Enabled)
	}
	if c.API.RatePerMinute == nil {
		c.API.RatePerMinute = intPtr(*base.API.RatePerMinute)
	}
	if c.API.Burst == nil {
		c.API.Burst = intPtr(*base.API.Burst)
	}
	if c.API.CookieDays == nil {
		c.API.CookieDays = intPtr(*base.API.CookieDays)
	}
	if c.UI.WordWrap == nil {
		c.UI.WordWrap = intPtr(*base.UI.WordWrap)
	}

	c, envWarnings := overrides.apply(c)
	warnings = append(warnings, envWarnings...)

	c.LogLevel = normalizeLogLevel(c.LogLevel)
	c.Startup = strings.ToLower(strings.TrimSpace(c.Startup))

	return LoadResult{Config: c, Warnings: warnings}
}

func normalizeLogLevel(level string) string {
	switch l := strings.ToLower(strings.TrimSpace(level)); l {
	case "":
		return "info"
	case "warning":
		return "warn"
	default:
		return l
	}
}

// DefaultSaveTimeout bounds a config save on slow filesystems.
const DefaultSaveTimeout = 5 * time.Second

// Save writes the configuration to disk.
func Save(c Config) error {
	return SaveWithTimeout(c, DefaultSaveTimeout)
}

// SaveWithTimeout writes the configuration, giving up after timeout.
func SaveWithTimeout(c Config, timeout time.Duration) error {
	p, err := Path()
	if err != nil {
		return err
	}
	if os.Getenv(EnvConfigPath) == "" {
		if _, err := EnsureDir(); err != nil {
			return err
		}
	}
	return SaveTo(p, c, timeout)
}

// SaveTo writes the configuration to p, creating its directory.
func SaveTo(p string, c Config, timeout time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return err
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- os.WriteFile(p, b, 0o600)
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return errors.New("config save timed out after " + timeout.String())
	}
}

// ActiveTabSpecs returns the tabs the dashboard registers: all configured tabs,
// or the enabled subset in the enabled order. Unknown enabled IDs are skipped.
func (c Config) ActiveTabSpecs() []TabSpec {
	if len(c.EnabledTabs) == 0 {
		return append([]TabSpec(nil), c.Tabs...)
	}
	byID := make(map[string]TabSpec, len(c.Tabs))
	for _, spec := range c.Tabs {
		byID[spec.ID] = spec
	}
	specs := make([]TabSpec, 0, len(c.EnabledTabs))
	seen := make(map[string]bool, len(c.EnabledTabs))
	for _, id := range c.EnabledTabs {
		spec, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		specs = append(specs, spec)
	}
	return specs
}

// Policy maps the config onto the controller policy.
func (c Config) Policy() tabs.Policy {
	startup, ok := tabs.ParseStartup(c.Startup)
	if !ok {
		startup = tabs.StartupRestore
	}
	return tabs.Policy{
		Persist:    c.PersistEnabled(),
		DefaultTab: c.DefaultTab,
		Startup:    startup,
		StorageKey: c.Persistence.StorageKey,
	}
}

// PersistEnabled reports whether the selected tab is stored between runs.
func (c Config) PersistEnabled() bool {
	return c.Persistence.Enabled != nil && *c.Persistence.Enabled
}

// Clone returns a deep copy so callers can mutate slices and pointers freely.
func (c Config) Clone() Config {
	out := c
	out.Tabs = append([]TabSpec(nil), c.Tabs...)
	out.EnabledTabs = append([]string(nil), c.EnabledTabs...)
	if c.Persistence.Enabled != nil {
		out.Persistence.Enabled = boolPtr(*c.Persistence.Enabled)
	}
	if c.API.RatePerMinute != nil {
		out.API.RatePerMinute = intPtr(*c.API.RatePerMinute)
	}
	if c.API.Burst != nil {
		out.API.Burst = intPtr(*c.API.Burst)
	}
	if c.API.CookieDays != nil {
		out.API.CookieDays = intPtr(*c.API.CookieDays)
	}
	if c.UI.WordWrap != nil {
		out.UI.WordWrap = intPtr(*c.UI.WordWrap)
	}
	return out
}

// Equal reports whether two configs hold the same values. Version is ignored
// and nil and empty slices compare equal.
func (c Config) Equal(other Config) bool {
	if c.Preset != other.Preset ||
		c.LogLevel != other.LogLevel ||
		c.DefaultTab != other.DefaultTab ||
		c.Startup != other.Startup {
		return false
	}
	if len(c.Tabs) != len(other.Tabs) {
		return false
	}
	for i := range c.Tabs {
		if c.Tabs[i] != other.Tabs[i] {
			return false
		}
	}
	if !equalStringSlices(c.EnabledTabs, other.EnabledTabs) {
		return false
	}
	if !equalBoolPointers(c.Persistence.Enabled, other.Persistence.Enabled) ||
		c.Persistence.StorageKey != other.Persistence.StorageKey ||
		c.Persistence.StatePath != other.Persistence.StatePath ||
		c.Persistence.SyncTabs != other.Persistence.SyncTabs {
		return false
	}
	if c.API.Addr != other.API.Addr ||
		!equalIntPointers(c.API.RatePerMinute, other.API.RatePerMinute) ||
		!equalIntPointers(c.API.Burst, other.API.Burst) ||
		!equalIntPointers(c.API.CookieDays, other.API.CookieDays) {
		return false
	}
	return c.UI.MarkdownStyle == other.UI.MarkdownStyle &&
		equalIntPointers(c.UI.WordWrap, other.UI.WordWrap)
}

func equalStringSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func intPtr(i int) *int { return &i }

func boolPtr(b bool) *bool { return &b }

func equalIntPointers(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalBoolPointers(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// Bindings maps the active tab specs onto the element bindings the front ends
// build their documents from.
func (c Config) Bindings() []page.Binding {
	specs := c.ActiveTabSpecs()
	out := make([]page.Binding, len(specs))
	for i, s := range specs {
		out[i] = page.Binding{
			Name:      s.ID,
			Title:     s.Title,
			ControlID: s.Control,
			RegionID:  s.Region,
			Body:      s.Body,
		}
	}
	return out
}
