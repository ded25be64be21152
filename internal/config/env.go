package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/google/shlex"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "DASHTABS_"

// envOverrides are applied on top of the config file. Empty values leave the
// file's value alone.
type envOverrides struct {
	Preset     string `env:"PRESET"`
	LogLevel   string `env:"LOG_LEVEL"`
	DefaultTab string `env:"DEFAULT_TAB"`
	Startup    string `env:"STARTUP"`
	Persist    *bool  `env:"PERSIST"`
	StorageKey string `env:"STORAGE_KEY"`
	StatePath  string `env:"STATE_PATH"`
	SyncTabs   *bool  `env:"SYNC_TABS"`
	Addr       string `env:"ADDR"`
	Style      string `env:"MARKDOWN_STYLE"`
	// Tabs is a shell-quoted list of tab IDs, e.g. `visual "metrics" summary`.
	Tabs string `env:"TABS"`
}

func readEnvOverrides(environ map[string]string) (envOverrides, error) {
	var o envOverrides
	opts := env.Options{Prefix: EnvPrefix}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&o, opts); err != nil {
		return envOverrides{}, err
	}
	return o, nil
}

func (o envOverrides) apply(c Config) (Config, []string) {
	var warnings []string
	set := func(field *string, value string) {
		if value != "" {
			*field = value
		}
	}
	set(&c.LogLevel, o.LogLevel)
	set(&c.DefaultTab, o.DefaultTab)
	set(&c.Startup, o.Startup)
	set(&c.Persistence.StorageKey, o.StorageKey)
	set(&c.Persistence.StatePath, o.StatePath)
	set(&c.API.Addr, o.Addr)
	set(&c.UI.MarkdownStyle, o.Style)
	if o.Persist != nil {
		c.Persistence.Enabled = boolPtr(*o.Persist)
	}
	if o.SyncTabs != nil {
		c.Persistence.SyncTabs = *o.SyncTabs
	}
	if strings.TrimSpace(o.Tabs) != "" {
		ids, err := ParseTabList(o.Tabs)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("ignoring %sTABS: %v", EnvPrefix, err))
		} else {
			c.EnabledTabs = ids
		}
	}
	return c, warnings
}

// ParseTabList splits a shell-quoted list of tab IDs. Commas are accepted as
// separators too.
func ParseTabList(s string) ([]string, error) {
	parts, err := shlex.Split(strings.ReplaceAll(s, ",", " "))
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids, nil
}
