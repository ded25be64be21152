// Package page models the dashboard markup the tab controller is wired to:
// buttons and sections looked up by element ID, click dispatch, and the
// document-ready signal that starts everything.
package page

import (
	"slices"

	"github.com/SimoKiihamaki/dashtabs/internal/tabs"
)

// ActiveClass is the class that marks the selected tab button.
const ActiveClass = "active"

// Display values a section can carry. An empty display means the markup
// default applies.
const (
	DisplayBlock = "block"
	DisplayNone  = "none"
)

// Event is a click event. It satisfies tabs.Event.
type Event struct {
	defaultPrevented bool
}

// PreventDefault stops the button from following its navigation.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether a listener called PreventDefault.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// Button is a clickable tab control.
type Button struct {
	ID    string
	Label string

	classes   []string
	listeners []func(tabs.Event)
	followed  int
}

// SetActive adds or removes the active class.
func (b *Button) SetActive(active bool) {
	if active {
		b.AddClass(ActiveClass)
		return
	}
	b.RemoveClass(ActiveClass)
}

// OnClick registers fn to run on every click.
func (b *Button) OnClick(fn func(tabs.Event)) {
	b.listeners = append(b.listeners, fn)
}

// Click dispatches a click to every listener in registration order. It returns
// false when a listener prevented the default navigation.
func (b *Button) Click() bool {
	ev := &Event{}
	for _, fn := range b.listeners {
		fn(ev)
	}
	if ev.DefaultPrevented() {
		return false
	}
	b.followed++
	return true
}

// Followed counts clicks whose default navigation was not prevented.
func (b *Button) Followed() int { return b.followed }

// Active reports whether the button carries the active class.
func (b *Button) Active() bool { return b.HasClass(ActiveClass) }

// HasClass reports whether class is in the button's class list.
func (b *Button) HasClass(class string) bool {
	return slices.Contains(b.classes, class)
}

// AddClass appends class unless it is already present.
func (b *Button) AddClass(class string) {
	if !b.HasClass(class) {
		b.classes = append(b.classes, class)
	}
}

// RemoveClass drops every occurrence of class.
func (b *Button) RemoveClass(class string) {
	b.classes = slices.DeleteFunc(b.classes, func(c string) bool { return c == class })
}

// Classes returns a copy of the class list in markup order.
func (b *Button) Classes() []string {
	return append([]string(nil), b.classes...)
}

// Section is a content region toggled through its display value.
type Section struct {
	ID      string
	Body    string
	Display string
}

// SetVisible sets the display to block or none.
func (s *Section) SetVisible(visible bool) {
	if visible {
		s.Display = DisplayBlock
		return
	}
	s.Display = DisplayNone
}

// Visible reports whether the section is explicitly shown.
func (s *Section) Visible() bool { return s.Display == DisplayBlock }

// Document holds the elements of one page view.
type Document struct {
	buttons  map[string]*Button
	sections map[string]*Section
	order    []string

	ready  []func()
	loaded bool
}

// New returns an empty, not yet loaded document.
func New() *Document {
	return &Document{
		buttons:  map[string]*Button{},
		sections: map[string]*Section{},
	}
}

// AddButton adds or replaces the button with the given element ID.
func (d *Document) AddButton(id, label string) *Button {
	b := &Button{ID: id, Label: label}
	if _, exists := d.buttons[id]; !exists {
		d.order = append(d.order, id)
	}
	d.buttons[id] = b
	return b
}

// AddSection adds or replaces the section with the given element ID.
func (d *Document) AddSection(id, body string) *Section {
	s := &Section{ID: id, Body: body}
	d.sections[id] = s
	return s
}

// Button looks up a button; nil when the markup has none with that ID.
func (d *Document) Button(id string) *Button {
	return d.buttons[id]
}

// Section looks up a section; nil when the markup has none with that ID.
func (d *Document) Section(id string) *Section {
	return d.sections[id]
}

// Buttons returns the buttons in the order they were added.
func (d *Document) Buttons() []*Button {
	out := make([]*Button, 0, len(d.order))
	for _, id := range d.order {
		out = append(out, d.buttons[id])
	}
	return out
}

// Ready queues fn to run when the document finishes loading. Callbacks
// registered after Load run immediately.
func (d *Document) Ready(fn func()) {
	if d.loaded {
		fn()
		return
	}
	d.ready = append(d.ready, fn)
}

// Load signals that the document structure is complete. Only the first call
// fires the ready callbacks.
func (d *Document) Load() {
	if d.loaded {
		return
	}
	d.loaded = true
	queued := d.ready
	d.ready = nil
	for _, fn := range queued {
		fn()
	}
}

// Loaded reports whether Load has run.
func (d *Document) Loaded() bool { return d.loaded }
