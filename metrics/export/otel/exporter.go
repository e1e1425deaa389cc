package otel

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/metric"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/metrics/export/internaldefs"
)

var (
	ErrNilMeter  = errors.New("nil meter")
	ErrNilSource = errors.New("nil metrics source")
)

// Source is what the callback reads. [campusdesk.Desk] satisfies it.
type Source interface {
	MetricsSnapshot() campusdesk.MetricsSnapshot
	NoticesDropped() uint64
	SessionUpdatesDropped() uint64
}

type observedCounter struct {
	id         campusdesk.MetricID
	instrument metric.Int64ObservableCounter
}

type observedHistogram struct {
	id      campusdesk.MetricID
	buckets [8]metric.Int64ObservableGauge
	count   metric.Int64ObservableGauge
}

// Exporter holds the callback registration.
type Exporter struct {
	source                Source
	registration          metric.Registration
	counters              []observedCounter
	histograms            []observedHistogram
	noticesDropped        metric.Int64ObservableCounter
	sessionUpdatesDropped metric.Int64ObservableCounter
}

// NewExporter registers the instruments on meter.
func NewExporter(meter metric.Meter, source Source) (*Exporter, error) {
	if meter == nil {
		return nil, ErrNilMeter
	}
	if source == nil {
		return nil, ErrNilSource
	}

	exporter := &Exporter{
		source:     source,
		counters:   make([]observedCounter, 0, len(internaldefs.CounterDefs)),
		histograms: make([]observedHistogram, 0, len(internaldefs.HistogramDefs)),
	}

	observables := make([]metric.Observable, 0, len(internaldefs.CounterDefs)+len(internaldefs.HistogramDefs)*9+2)

	for _, def := range internaldefs.CounterDefs {
		ins, err := meter.Int64ObservableCounter(def.Name, metric.WithDescription(def.Help))
		if err != nil {
			return nil, fmt.Errorf("create observable counter %s: %w", def.Name, err)
		}
		exporter.counters = append(exporter.counters, observedCounter{id: def.ID, instrument: ins})
		observables = append(observables, ins)
	}

	for _, def := range internaldefs.HistogramDefs {
		h := observedHistogram{id: def.ID}
		for i := 0; i < len(internaldefs.HistogramBoundSuffix); i++ {
			name := def.Name + "_bucket_le_" + internaldefs.HistogramBoundSuffix[i]
			ins, err := meter.Int64ObservableGauge(name, metric.WithDescription("Cumulative histogram bucket count."))
			if err != nil {
				return nil, fmt.Errorf("create histogram bucket gauge %s: %w", name, err)
			}
			h.buckets[i] = ins
			observables = append(observables, ins)
		}
		countName := def.Name + "_count"
		countIns, err := meter.Int64ObservableGauge(countName, metric.WithDescription("Histogram total sample count."))
		if err != nil {
			return nil, fmt.Errorf("create histogram count gauge %s: %w", countName, err)
		}
		h.count = countIns
		observables = append(observables, countIns)
		exporter.histograms = append(exporter.histograms, h)
	}

	noticesDropped, err := meter.Int64ObservableCounter(
		internaldefs.NoticesDroppedName,
		metric.WithDescription(internaldefs.NoticesDroppedHelp),
	)
	if err != nil {
		return nil, fmt.Errorf("create notices dropped counter: %w", err)
	}
	exporter.noticesDropped = noticesDropped
	observables = append(observables, noticesDropped)

	sessionDropped, err := meter.Int64ObservableCounter(
		internaldefs.SessionUpdatesDroppedName,
		metric.WithDescription(internaldefs.SessionUpdatesDroppedHelp),
	)
	if err != nil {
		return nil, fmt.Errorf("create session updates dropped counter: %w", err)
	}
	exporter.sessionUpdatesDropped = sessionDropped
	observables = append(observables, sessionDropped)

	registration, err := meter.RegisterCallback(func(_ context.Context, observer metric.Observer) error {
		snapshot := exporter.source.MetricsSnapshot()
		for _, c := range exporter.counters {
			observer.ObserveInt64(c.instrument, int64(snapshot.Counters[c.id]))
		}
		for _, h := range exporter.histograms {
			cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(snapshot.Histograms[h.id]))
			for i := 0; i < len(cumulative); i++ {
				observer.ObserveInt64(h.buckets[i], int64(cumulative[i]))
			}
			observer.ObserveInt64(h.count, int64(cumulative[len(cumulative)-1]))
		}
		observer.ObserveInt64(exporter.noticesDropped, int64(exporter.source.NoticesDropped()))
		observer.ObserveInt64(exporter.sessionUpdatesDropped, int64(exporter.source.SessionUpdatesDropped()))
		return nil
	}, observables...)
	if err != nil {
		return nil, fmt.Errorf("register callback: %w", err)
	}

	exporter.registration = registration
	return exporter, nil
}

// Close unregisters the callback.
func (e *Exporter) Close() error {
	if e == nil || e.registration == nil {
		return nil
	}
	return e.registration.Unregister()
}
