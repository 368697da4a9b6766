package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"geoedit/internal/edit"
)

// Metrics counts what an edit service does. Each instance owns its
// registry so tests and several sessions do not share counters.
type Metrics struct {
	Registry *prometheus.Registry

	Operations   *prometheus.CounterVec
	Coordinates  *prometheus.CounterVec
	ShapeChanges *prometheus.CounterVec
	ChangeSize   prometheus.Histogram
	Sessions     prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoedit",
			Subsystem: "edit",
			Name:      "operations_total",
			Help:      "Elementary insert, move and remove changes applied",
		}, []string{"kind"}),
		Coordinates: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoedit",
			Subsystem: "edit",
			Name:      "coordinates_total",
			Help:      "Coordinates inserted or removed",
		}, []string{"kind"}),
		ShapeChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "geoedit",
			Subsystem: "edit",
			Name:      "shape_changes_total",
			Help:      "Completed logical edits, by edit, undo or redo",
		}, []string{"kind"}),
		ChangeSize: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "geoedit",
			Subsystem: "edit",
			Name:      "shape_change_indices",
			Help:      "Number of indices touched by one logical edit",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		Sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "geoedit",
			Subsystem: "edit",
			Name:      "sessions_active",
			Help:      "Edit sessions currently started",
		}),
	}
}

// Attach registers handlers on svc and returns a function removing them.
func (m *Metrics) Attach(svc *edit.Service) (detach func()) {
	regs := []edit.HandlerRegistration{
		svc.AddInsertHandler(func(e edit.InsertEvent) {
			m.Operations.WithLabelValues("insert").Inc()
			m.Coordinates.WithLabelValues("insert").Add(float64(len(e.Coordinates)))
		}),
		svc.AddMoveHandler(func(edit.MoveEvent) {
			m.Operations.WithLabelValues("move").Inc()
		}),
		svc.AddRemoveHandler(func(e edit.RemoveEvent) {
			m.Operations.WithLabelValues("remove").Inc()
			m.Coordinates.WithLabelValues("remove").Add(float64(len(e.Coordinates)))
		}),
		svc.AddShapeChangedHandler(func(e edit.ShapeChangedEvent) {
			m.ShapeChanges.WithLabelValues(e.Kind.String()).Inc()
			m.ChangeSize.Observe(float64(len(e.Indices)))
		}),
		svc.AddSessionHandler(func(e edit.SessionEvent) {
			if e.Started {
				m.Sessions.Inc()
			} else {
				m.Sessions.Dec()
			}
		}),
	}
	return func() {
		for _, r := range regs {
			r.Remove()
		}
	}
}

// WriteFile dumps the registry in the text exposition format. An empty
// path is a no-op.
func (m *Metrics) WriteFile(path string) error {
	if path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}
