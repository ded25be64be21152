package config

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/SimoKiihamaki/dashtabs/internal/tabs"
)

// ValidationIssue represents a configuration validation issue.
type ValidationIssue struct {
	Field    string
	Message  string
	Severity string // "error", "warning", "info"
}

func (i ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", i.Field, i.Message)
}

// ValidationResult holds the results of inter-field validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

func (v *ValidationResult) AddError(field, message string) {
	v.Issues = append(v.Issues, ValidationIssue{Field: field, Message: message, Severity: "error"})
	v.Valid = false
}

func (v *ValidationResult) AddWarning(field, message string) {
	v.Issues = append(v.Issues, ValidationIssue{Field: field, Message: message, Severity: "warning"})
}

func (v *ValidationResult) AddInfo(field, message string) {
	v.Issues = append(v.Issues, ValidationIssue{Field: field, Message: message, Severity: "info"})
}

// Errors returns the issues that block startup.
func (v *ValidationResult) Errors() []ValidationIssue {
	return v.bySeverity("error")
}

// Warnings returns the issues that fall back to defaults.
func (v *ValidationResult) Warnings() []ValidationIssue {
	return v.bySeverity("warning")
}

func (v *ValidationResult) bySeverity(severity string) []ValidationIssue {
	var out []ValidationIssue
	for _, issue := range v.Issues {
		if issue.Severity == severity {
			out = append(out, issue)
		}
	}
	return out
}

// ValidateInterField checks the tab registry and policy for inconsistencies.
// Registry problems are errors since the controller refuses to start with
// them; policy mismatches only degrade to fallbacks and are warnings.
func (c Config) ValidateInterField() ValidationResult {
	result := ValidationResult{Valid: true}

	specs := c.ActiveTabSpecs()
	if len(specs) == 0 {
		result.AddError("tabs", "at least one tab must be configured")
	}

	ids := make(map[string]bool, len(c.Tabs))
	controls := make(map[string]string, len(c.Tabs))
	regions := make(map[string]string, len(c.Tabs))
	for i, spec := range c.Tabs {
		field := fmt.Sprintf("tabs[%d]", i)
		if spec.ID == "" {
			result.AddError(field+".id", "must not be empty")
			continue
		}
		if ids[spec.ID] {
			result.AddError(field+".id", fmt.Sprintf("duplicate tab id %q", spec.ID))
		}
		ids[spec.ID] = true

		if spec.Control == "" {
			result.AddInfo(field+".control", fmt.Sprintf("tab %q has no control; it can only be activated programmatically", spec.ID))
		} else if other, dup := controls[spec.Control]; dup {
			result.AddError(field+".control", fmt.Sprintf("control %q already used by tab %q", spec.Control, other))
		} else {
			controls[spec.Control] = spec.ID
		}

		if spec.Region == "" {
			result.AddInfo(field+".region", fmt.Sprintf("tab %q has no region", spec.ID))
		} else if other, dup := regions[spec.Region]; dup {
			result.AddError(field+".region", fmt.Sprintf("region %q already used by tab %q", spec.Region, other))
		} else {
			regions[spec.Region] = spec.ID
		}
	}

	for _, id := range c.EnabledTabs {
		if !ids[id] {
			result.AddWarning("enabled_tabs", fmt.Sprintf("unknown tab %q is ignored", id))
		}
	}

	startup, ok := tabs.ParseStartup(c.Startup)
	if !ok {
		result.AddError("startup", "must be one of: restore, default, none")
	}

	defaultKnown := false
	for _, spec := range specs {
		if spec.ID == c.DefaultTab {
			defaultKnown = true
			break
		}
	}
	if !defaultKnown && len(specs) > 0 {
		result.AddWarning("default_tab", fmt.Sprintf("%q is not a registered tab; the first tab %q is used", c.DefaultTab, specs[0].ID))
	}

	if ok && startup == tabs.StartupRestore && !c.PersistEnabled() {
		result.AddWarning("startup", "restore has nothing to restore when persistence is disabled; the default tab is used")
	}
	if c.Persistence.SyncTabs && !c.PersistEnabled() {
		result.AddInfo("persistence.sync_tabs", "has no effect when persistence is disabled")
	}
	if c.PersistEnabled() && c.Persistence.StorageKey == "" {
		result.AddWarning("persistence.storage_key", "empty; "+tabs.DefaultStorageKey+" is used")
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		result.AddError("log_level", "must be one of: debug, info, warn, error, fatal")
	}

	if c.API.RatePerMinute != nil && *c.API.RatePerMinute <= 0 {
		result.AddError("api.rate_per_minute", "must be > 0")
	}
	if c.API.Burst != nil && *c.API.Burst <= 0 {
		result.AddError("api.burst", "must be > 0")
	}
	if c.UI.WordWrap != nil && *c.UI.WordWrap < 20 {
		result.AddWarning("ui.word_wrap", "below 20 columns section bodies become hard to read")
	}

	return result
}
