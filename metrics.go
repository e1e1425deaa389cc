package campusdesk

import (
	"net/http"
	"sync/atomic"
	"time"
)

// MetricID identifies one counter of [Metrics].
type MetricID uint16

const (
	// MetricAPIRequest counts completed backend requests.
	MetricAPIRequest MetricID = iota
	// MetricAPIFailure counts transport failures and non-2xx responses.
	MetricAPIFailure
	// MetricAPIUnauthorized counts 401 responses, each of which ends the session.
	MetricAPIUnauthorized
	// MetricValidationRejected counts forms and payloads refused before any request.
	MetricValidationRejected
	MetricLoginSuccess
	MetricLoginFailure
	MetricRegisterSuccess
	MetricRegisterFailure
	MetricResetSuccess
	MetricResetFailure
	MetricForgotPassword
	MetricLogout
	MetricForcedLogout
	MetricSessionRestored
	MetricSessionExpired
	MetricComplaintCreated
	MetricComplaintStatusUpdated
	MetricInviteCreated
	MetricMealChosen
	MetricScheduleUploaded
	MetricFeedbackSubmitted
	MetricFeedbackPrompted
	MetricChatMessage
	MetricPollTick
	MetricNoticeEmitted
	// MetricAPILatency is the only histogram: backend round-trip latency.
	MetricAPILatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds lock-free counters and the API latency histogram. A nil or disabled
// Metrics ignores every update.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of [Metrics]. Histogram buckets are not
// cumulative.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

// NewMetrics returns Metrics configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters are recorded.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the latency histogram is recorded.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Observe records d in the histogram of id. Only [MetricAPILatency] has one.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricAPILatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

// ObserveRequest records one backend round trip. It satisfies api.Observer.
func (m *Metrics) ObserveRequest(_, _ string, status int, elapsed time.Duration) {
	m.Inc(MetricAPIRequest)
	if status == 0 || status >= 400 {
		m.Inc(MetricAPIFailure)
	}
	if status == http.StatusUnauthorized {
		m.Inc(MetricAPIUnauthorized)
	}
	m.Observe(MetricAPILatency, elapsed)
}

// Value returns the current count of id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter, and the latency histogram when enabled.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricAPILatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricAPILatency].buckets[i])
		}
		s.Histograms[MetricAPILatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
