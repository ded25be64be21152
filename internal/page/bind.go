package page

import "github.com/SimoKiihamaki/dashtabs/internal/tabs"

// Binding names the elements a tab is wired to. An empty ControlID or
// RegionID means the markup has no such element.
type Binding struct {
	Name      string
	Title     string
	ControlID string
	RegionID  string
	Body      string
}

// Build renders bindings into a fresh document and returns the tab registry
// bound to it.
func Build(bindings []Binding) (*Document, []tabs.Tab) {
	d := New()
	for _, b := range bindings {
		if b.ControlID != "" {
			label := b.Title
			if label == "" {
				label = b.Name
			}
			d.AddButton(b.ControlID, label)
		}
		if b.RegionID != "" {
			d.AddSection(b.RegionID, b.Body)
		}
	}
	return d, Bind(d, bindings)
}

// Bind looks up each binding's elements in d. Absent elements leave the
// corresponding handle unset so the controller treats them as no-ops.
func Bind(d *Document, bindings []Binding) []tabs.Tab {
	registry := make([]tabs.Tab, 0, len(bindings))
	for _, b := range bindings {
		t := tabs.Tab{Name: b.Name}
		if btn := d.Button(b.ControlID); btn != nil {
			t.Control = btn
		}
		if sec := d.Section(b.RegionID); sec != nil {
			t.Region = sec
		}
		registry = append(registry, t)
	}
	return registry
}

// Mount wires ctrl to the document's ready signal, the way the dashboard
// script waits for the page to be constructed before touching it.
func Mount(d *Document, ctrl *tabs.Controller) {
	d.Ready(ctrl.Initialize)
}
