package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/SimoKiihamaki/dashtabs/internal/tabs"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return p
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	res := LoadFrom(filepath.Join(t.TempDir(), "absent.yaml"), map[string]string{})
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", res.Warnings)
	}
	if !res.Config.Equal(Defaults()) {
		t.Fatalf("expected defaults, got %+v", res.Config)
	}
	policy := res.Config.Policy()
	if !policy.Persist || policy.Startup != tabs.StartupRestore || policy.DefaultTab != "visual" || policy.StorageKey != "activeTab" {
		t.Fatalf("unexpected default policy %+v", policy)
	}
}

func TestLoadFromCorruptFileFallsBack(t *testing.T) {
	p := writeConfig(t, "tabs: [unterminated\n")
	res := LoadFrom(p, map[string]string{})
	if len(res.Warnings) == 0 || !strings.Contains(res.Warnings[0], "corrupt") {
		t.Fatalf("expected corrupt warning, got %v", res.Warnings)
	}
	if len(res.Config.Tabs) != 4 {
		t.Fatalf("expected default tabs, got %d", len(res.Config.Tabs))
	}
}

func TestLoadFromLitePreset(t *testing.T) {
	p := writeConfig(t, "version: 1.0.0\npreset: lite\n")
	res := LoadFrom(p, map[string]string{})
	if len(res.Warnings) != 0 {
		t.Fatalf("unexpected warnings %v", res.Warnings)
	}
	cfg := res.Config
	var ids []string
	for _, spec := range cfg.ActiveTabSpecs() {
		ids = append(ids, spec.ID)
	}
	if strings.Join(ids, ",") != "visual,metrics,summary" {
		t.Fatalf("unexpected lite tabs %v", ids)
	}
	policy := cfg.Policy()
	if policy.Persist || policy.Startup != tabs.StartupNone {
		t.Fatalf("lite preset should neither persist nor activate on startup: %+v", policy)
	}
}

func TestLoadFromKeepsExplicitValues(t *testing.T) {
	p := writeConfig(t, `version: 1.0.0
default_tab: metrics
startup: DEFAULT
log_level: WARNING
persistence:
  enabled: false
  storage_key: lastTab
tabs:
  - id: visual
    title: Chart
    control: visual
    region: visual-section
  - id: metrics
    title: Numbers
    control: metric
    region: metrics-section
`)
	res := LoadFrom(p, map[string]string{})
	cfg := res.Config
	if cfg.DefaultTab != "metrics" || cfg.Startup != "default" || cfg.LogLevel != "warn" {
		t.Fatalf("explicit values not preserved: %+v", cfg)
	}
	if cfg.PersistEnabled() {
		t.Fatal("explicit persistence.enabled=false was overwritten")
	}
	if cfg.Persistence.StorageKey != "lastTab" {
		t.Fatalf("storage key = %q", cfg.Persistence.StorageKey)
	}
	if len(cfg.Tabs) != 2 || cfg.Tabs[0].Title != "Chart" {
		t.Fatalf("tabs not taken from file: %+v", cfg.Tabs)
	}
	if *cfg.API.RatePerMinute != DefaultRatePerMin {
		t.Fatalf("unset rate limit should default, got %d", *cfg.API.RatePerMinute)
	}
}

func TestLoadFromMigratesUnversionedConfig(t *testing.T) {
	p := writeConfig(t, "default_tab: compare\n")
	res := LoadFrom(p, map[string]string{})
	if res.Config.Version != ConfigVersion {
		t.Fatalf("version = %q", res.Config.Version)
	}
	found := false
	for _, w := range res.Warnings {
		if strings.Contains(w, "upgraded") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected migration warning, got %v", res.Warnings)
	}
}

func TestLoadFromEnvironmentOverrides(t *testing.T) {
	environ := map[string]string{
		"DASHTABS_PRESET":      "lite",
		"DASHTABS_PERSIST":     "true",
		"DASHTABS_STARTUP":     "restore",
		"DASHTABS_DEFAULT_TAB": "summary",
		"DASHTABS_TABS":        `summary "visual"`,
		"DASHTABS_ADDR":        "127.0.0.1:9999",
	}
	res := LoadFrom("", environ)
	cfg := res.Config
	if cfg.Preset != PresetLite {
		t.Fatalf("preset = %q", cfg.Preset)
	}
	if !cfg.PersistEnabled() || cfg.Startup != "restore" || cfg.DefaultTab != "summary" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	specs := cfg.ActiveTabSpecs()
	if len(specs) != 2 || specs[0].ID != "summary" || specs[1].ID != "visual" {
		t.Fatalf("unexpected enabled tabs %+v", specs)
	}
	if cfg.API.Addr != "127.0.0.1:9999" {
		t.Fatalf("addr = %q", cfg.API.Addr)
	}
}

func TestLoadFromUnknownPresetWarns(t *testing.T) {
	res := LoadFrom("", map[string]string{"DASHTABS_PRESET": "classic"})
	if res.Config.Preset != PresetFull {
		t.Fatalf("preset = %q", res.Config.Preset)
	}
	if len(res.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", res.Warnings)
	}
}

func TestParseTabList(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		in   string
		want []string
	}{
		{in: "visual metrics", want: []string{"visual", "metrics"}},
		{in: "visual,metrics, summary", want: []string{"visual", "metrics", "summary"}},
		{in: `'compare' "summary"`, want: []string{"compare", "summary"}},
		{in: "   ", want: []string{}},
	}
	for _, tc := range tcs {
		got, err := ParseTabList(tc.in)
		if err != nil {
			t.Fatalf("ParseTabList(%q): %v", tc.in, err)
		}
		if !equalStringSlices(got, tc.want) {
			t.Fatalf("ParseTabList(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if _, err := ParseTabList(`"unterminated`); err == nil {
		t.Fatal("expected error for unterminated quote")
	}
}

func TestActiveTabSpecsSkipsUnknownAndDuplicates(t *testing.T) {
	cfg := Defaults()
	cfg.EnabledTabs = []string{"compare", "bogus", "compare", "visual"}
	specs := cfg.ActiveTabSpecs()
	if len(specs) != 2 || specs[0].ID != "compare" || specs[1].ID != "visual" {
		t.Fatalf("unexpected specs %+v", specs)
	}
}

func TestConfigCloneIndependence(t *testing.T) {
	base := Defaults()
	base.EnabledTabs = []string{"visual"}

	clone := base.Clone()
	if !base.Equal(clone) {
		t.Fatalf("expected clone to be equal to original")
	}

	clone.Tabs[0].Title = "Changed"
	clone.EnabledTabs[0] = "summary"
	*clone.Persistence.Enabled = false

	if base.Tabs[0].Title != "Visual" {
		t.Fatalf("original tabs mutated by clone change")
	}
	if base.EnabledTabs[0] != "visual" {
		t.Fatalf("original enabled tabs mutated by clone change")
	}
	if !base.PersistEnabled() {
		t.Fatalf("original persistence flag mutated by clone change")
	}
}

func TestConfigEqual(t *testing.T) {
	base := Defaults()
	if !base.Equal(base.Clone()) {
		t.Fatalf("expected equal configs to report true")
	}

	modified := base.Clone()
	modified.Persistence.SyncTabs = true
	if base.Equal(modified) {
		t.Fatalf("expected differing sync_tabs to report inequality")
	}

	modified = base.Clone()
	modified.Tabs[2].Region = "other"
	if base.Equal(modified) {
		t.Fatalf("expected differing tab region to report inequality")
	}

	modified = base.Clone()
	modified.Version = "0.9.0"
	if !base.Equal(modified) {
		t.Fatalf("version should not affect equality")
	}

	base.EnabledTabs = nil
	modified = base.Clone()
	modified.EnabledTabs = []string{}
	if !base.Equal(modified) {
		t.Fatalf("nil vs empty slices should be considered equal")
	}
}

func TestCompareVersions(t *testing.T) {
	t.Parallel()
	cases := []struct {
		a, b string
		want int
	}{
		{"1.0.0", "1.0.0", 0},
		{"0.9.9", "1.0.0", -1},
		{"1.2", "1.1.9", 1},
		{"garbage", "0.0.0", 0},
	}
	for _, c := range cases {
		if got := compareVersions(c.a, c.b); got != c.want {
			t.Errorf("compareVersions(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	p := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv(EnvConfigPath, p)

	cfg := Defaults()
	cfg.DefaultTab = "summary"
	cfg.Persistence.SyncTabs = true
	if err := Save(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	res := LoadFrom(p, map[string]string{})
	if !res.Config.Equal(cfg) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", res.Config, cfg)
	}
}

func TestBindingsFollowEnabledOrder(t *testing.T) {
	t.Parallel()
	cfg := Defaults()
	cfg.EnabledTabs = []string{"summary", "visual"}

	bindings := cfg.Bindings()
	if len(bindings) != 2 {
		t.Fatalf("expected 2 bindings, got %d", len(bindings))
	}
	if bindings[0].Name != "summary" || bindings[0].ControlID != "summary" || bindings[0].RegionID != "summary-section" {
		t.Fatalf("unexpected first binding %+v", bindings[0])
	}
	if bindings[1].Name != "visual" || bindings[1].Title != "Visual" || bindings[1].Body == "" {
		t.Fatalf("unexpected second binding %+v", bindings[1])
	}
}
