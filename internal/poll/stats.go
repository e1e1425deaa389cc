package poll

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/session"
)

// DefaultStatsInterval is the live headcount refresh period.
const DefaultStatsInterval = 30 * time.Second

// StatsViewers are the roles whose dashboards show the live headcount.
var StatsViewers = role.Of(role.MessAdmin, role.SuperAdmin, role.Admin)

// StatsDesk is the part of the desk the stats poller reads.
type StatsDesk interface {
	Session() session.Session
	TodayMealStats(ctx context.Context) (campus.MealStats, error)
	Metrics() *campusdesk.Metrics
}

// StatsPoller keeps today's headcount fresh.
type StatsPoller struct {
	desk     StatsDesk
	interval time.Duration
	log      *zap.Logger

	mu      sync.RWMutex
	latest  campus.MealStats
	updated time.Time
	lastErr error

	// OnStats, when set, receives every successful fetch.
	OnStats func(campus.MealStats)
}

// NewStatsPoller returns a poller fetching every interval. A non-positive interval means
// [DefaultStatsInterval].
func NewStatsPoller(desk StatsDesk, interval time.Duration, log *zap.Logger) *StatsPoller {
	if interval <= 0 {
		interval = DefaultStatsInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &StatsPoller{desk: desk, interval: interval, log: log}
}

// Run fetches immediately and then on every tick until ctx is done.
func (p *StatsPoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	_ = p.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			_ = p.Refresh(ctx)
		}
	}
}

// Refresh fetches once. A failure keeps the previous stats. Nothing is fetched unless a
// [StatsViewers] role is signed in.
func (p *StatsPoller) Refresh(ctx context.Context) error {
	if sess := p.desk.Session(); !sess.Authenticated() || !StatsViewers.Contains(string(sess.Role)) {
		return nil
	}
	p.desk.Metrics().Inc(campusdesk.MetricPollTick)

	stats, err := p.desk.TodayMealStats(ctx)
	p.mu.Lock()
	p.lastErr = err
	if err == nil {
		p.latest = stats
		p.updated = time.Now()
	}
	p.mu.Unlock()

	if err != nil {
		p.log.Debug("refresh meal stats", zap.Error(err))
		return err
	}
	if p.OnStats != nil {
		p.OnStats(stats)
	}
	return nil
}

// Latest returns the last fetched stats and when they were fetched.
func (p *StatsPoller) Latest() (campus.MealStats, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append(campus.MealStats(nil), p.latest...), p.updated
}

// Err returns the error of the last fetch.
func (p *StatsPoller) Err() error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastErr
}
