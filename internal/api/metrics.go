package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Selection sources.
const (
	sourceForm = "form"
	sourceAPI  = "api"
	sourceLink = "link"
)

type metrics struct {
	selections *prometheus.CounterVec
	pageViews  *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		selections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashtabs",
			Name:      "tab_selections_total",
			Help:      "The total number of tab selections",
		}, []string{"tab", "source"}),
		pageViews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "dashtabs",
			Name:      "page_views_total",
			Help:      "The total number of rendered dashboard pages by shown tab",
		}, []string{"tab"}),
	}
}

func (m *metrics) selected(tab, source string) {
	m.selections.WithLabelValues(tab, source).Inc()
}

func (m *metrics) viewed(tab string) {
	if tab == "" {
		tab = "none"
	}
	m.pageViews.WithLabelValues(tab).Inc()
}
