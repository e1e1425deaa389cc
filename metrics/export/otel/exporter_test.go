package otel

import (
	"context"
	"sync"
	"testing"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/MrEthical07/campusdesk"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot campusdesk.MetricsSnapshot
	dropped  uint64
}

func (f *fakeSource) MetricsSnapshot() campusdesk.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := campusdesk.MetricsSnapshot{
		Counters:   make(map[campusdesk.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms: make(map[campusdesk.MetricID][]uint64, len(f.snapshot.Histograms)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		out.Histograms[k] = append([]uint64(nil), buckets...)
	}
	return out
}

func (f *fakeSource) NoticesDropped() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.dropped
}

func (f *fakeSource) SessionUpdatesDropped() uint64 { return 0 }

func newMeter() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()
	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func findSum(rm metricdata.ResourceMetrics, name string) (int64, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok && len(sum.DataPoints) > 0 {
				return sum.DataPoints[0].Value, true
			}
		}
	}
	return 0, false
}

func findGauge(rm metricdata.ResourceMetrics, name string) (int64, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			if g, ok := m.Data.(metricdata.Gauge[int64]); ok && len(g.DataPoints) > 0 {
				return g.DataPoints[0].Value, true
			}
		}
	}
	return 0, false
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader, provider := newMeter()
	meter := provider.Meter("campusdesk-test")

	src := &fakeSource{
		snapshot: campusdesk.MetricsSnapshot{
			Counters: map[campusdesk.MetricID]uint64{
				campusdesk.MetricLoginSuccess: 3,
			},
			Histograms: map[campusdesk.MetricID][]uint64{
				campusdesk.MetricAPILatency: {1, 1, 1, 1, 1, 1, 1, 1},
			},
		},
		dropped: 1,
	}

	exp, err := NewExporter(meter, src)
	if err != nil {
		t.Fatalf("NewExporter failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if v, ok := findSum(rm, "campusdesk_login_success_total"); !ok || v != 3 {
		t.Fatalf("expected login counter 3, got %d (found=%v)", v, ok)
	}
	if v, ok := findSum(rm, "campusdesk_notices_dropped_total"); !ok || v != 1 {
		t.Fatalf("expected notices dropped 1, got %d (found=%v)", v, ok)
	}
	if v, ok := findGauge(rm, "campusdesk_api_latency_seconds_count"); !ok || v != 8 {
		t.Fatalf("expected latency count 8, got %d (found=%v)", v, ok)
	}
}

func TestExporterRejectsNil(t *testing.T) {
	_, provider := newMeter()

	if _, err := NewExporter(provider.Meter("campusdesk-test"), nil); err != ErrNilSource {
		t.Fatalf("expected ErrNilSource, got %v", err)
	}
	if _, err := NewExporter(nil, &fakeSource{}); err != ErrNilMeter {
		t.Fatalf("expected ErrNilMeter, got %v", err)
	}
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader, provider := newMeter()
	meter := provider.Meter("campusdesk-test")

	src := &fakeSource{
		snapshot: campusdesk.MetricsSnapshot{
			Counters: map[campusdesk.MetricID]uint64{
				campusdesk.MetricPollTick: 1,
			},
			Histograms: map[campusdesk.MetricID][]uint64{
				campusdesk.MetricAPILatency: {1, 0, 0, 0, 0, 0, 0, 0},
			},
		},
	}

	exp, err := NewExporter(meter, src)
	if err != nil {
		t.Fatalf("NewExporter failed: %v", err)
	}
	defer func() {
		if err := exp.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[campusdesk.MetricPollTick] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
