package poll

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/session"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type notice struct {
	level   campusdesk.NoticeLevel
	op      string
	message string
}

type fakeDesk struct {
	mu      sync.Mutex
	sess    session.Session
	now     time.Time
	windows []campus.MealWindow
	notices []notice
	metrics *campusdesk.Metrics

	stats     campus.MealStats
	statsErr  error
	statCalls atomic.Int64
}

func newFakeDesk(r role.Role, now time.Time) *fakeDesk {
	return &fakeDesk{
		sess:    session.Session{Token: "tok", Role: r},
		now:     now,
		windows: campus.DefaultMealWindows,
		metrics: campusdesk.NewMetrics(campusdesk.MetricsConfig{Enabled: true}),
	}
}

func (d *fakeDesk) Session() session.Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sess
}

func (d *fakeDesk) Now() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.now
}

func (d *fakeDesk) setNow(t time.Time) {
	d.mu.Lock()
	d.now = t
	d.mu.Unlock()
}

func (d *fakeDesk) MealWindows() []campus.MealWindow { return d.windows }

func (d *fakeDesk) Notify(_ context.Context, level campusdesk.NoticeLevel, op, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.notices = append(d.notices, notice{level: level, op: op, message: message})
}

func (d *fakeDesk) Metrics() *campusdesk.Metrics { return d.metrics }

func (d *fakeDesk) TodayMealStats(context.Context) (campus.MealStats, error) {
	d.statCalls.Add(1)
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats, d.statsErr
}

func (d *fakeDesk) noticeCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.notices)
}

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 3, day, hour, minute, 0, 0, time.UTC)
}

func TestFeedbackPromptOncePerMealPerDay(t *testing.T) {
	desk := newFakeDesk(role.Student, at(2, 13, 0))
	p := NewFeedbackPrompter(desk, NewLedger(session.NewMemoryStorage(), time.UTC), time.Minute, nil)
	ctx := context.Background()

	meal, ok := p.Check(ctx)
	require.True(t, ok)
	assert.Equal(t, campus.Lunch, meal)

	desk.setNow(at(2, 14, 50))
	_, ok = p.Check(ctx)
	assert.False(t, ok, "lunch already prompted today")

	desk.setNow(at(2, 20, 0))
	meal, ok = p.Check(ctx)
	require.True(t, ok)
	assert.Equal(t, campus.Dinner, meal)

	desk.setNow(at(3, 13, 0))
	meal, ok = p.Check(ctx)
	require.True(t, ok, "a new day prompts again")
	assert.Equal(t, campus.Lunch, meal)

	assert.Equal(t, 3, desk.noticeCount())
	assert.Equal(t, uint64(3), desk.metrics.Value(campusdesk.MetricFeedbackPrompted))
	assert.Equal(t, uint64(4), desk.metrics.Value(campusdesk.MetricPollTick))
	assert.Equal(t, PromptMessage(campus.Lunch), desk.notices[0].message)
	assert.Equal(t, campusdesk.NoticeInfo, desk.notices[0].level)
}

func TestFeedbackPromptOutsideWindows(t *testing.T) {
	desk := newFakeDesk(role.Student, at(2, 11, 0))
	p := NewFeedbackPrompter(desk, NewLedger(session.NewMemoryStorage(), time.UTC), 0, nil)

	_, ok := p.Check(context.Background())
	assert.False(t, ok)
	assert.Zero(t, desk.noticeCount())
}

func TestFeedbackPromptOnlyForStudents(t *testing.T) {
	for _, r := range []role.Role{role.HostelAdmin, role.MessAdmin, role.SuperAdmin, ""} {
		desk := newFakeDesk(r, at(2, 9, 0))
		p := NewFeedbackPrompter(desk, NewLedger(session.NewMemoryStorage(), time.UTC), 0, nil)
		_, ok := p.Check(context.Background())
		assert.False(t, ok, "role %q", r)
	}
}

func TestFeedbackDismissSuppresses(t *testing.T) {
	desk := newFakeDesk(role.Student, at(2, 8, 5))
	p := NewFeedbackPrompter(desk, NewLedger(session.NewMemoryStorage(), time.UTC), 0, nil)

	require.NoError(t, p.Dismiss(context.Background(), campus.Breakfast))
	_, ok := p.Check(context.Background())
	assert.False(t, ok)
}

func TestLedgerExpiresAtMidnight(t *testing.T) {
	storage := session.NewMemoryStorage()
	now := at(2, 21, 0)
	storage.SetClock(func() time.Time { return now })
	l := NewLedger(storage, time.UTC)
	ctx := context.Background()

	require.NoError(t, l.Mark(ctx, now, campus.Dinner))
	seen, err := l.Seen(ctx, now, campus.Dinner)
	require.NoError(t, err)
	assert.True(t, seen)

	now = at(3, 0, 1)
	seen, err = l.Seen(ctx, at(2, 21, 0), campus.Dinner)
	require.NoError(t, err)
	assert.False(t, seen, "entry must expire at midnight")
}

func TestFeedbackPrompterRunStops(t *testing.T) {
	desk := newFakeDesk(role.Student, at(2, 13, 0))
	p := NewFeedbackPrompter(desk, NewLedger(session.NewMemoryStorage(), time.UTC), 5*time.Millisecond, nil)
	prompted := make(chan campus.MealType, 1)
	p.OnPrompt = func(_ context.Context, meal campus.MealType) { prompted <- meal }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	select {
	case meal := <-prompted:
		assert.Equal(t, campus.Lunch, meal)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate prompt")
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestStatsPollerRefresh(t *testing.T) {
	desk := newFakeDesk(role.MessAdmin, at(2, 13, 0))
	desk.stats = campus.MealStats{{MealType: campus.Lunch, Veg: 40, NonVeg: 25}}
	p := NewStatsPoller(desk, 0, nil)

	var got campus.MealStats
	p.OnStats = func(s campus.MealStats) { got = s }
	require.NoError(t, p.Refresh(context.Background()))
	assert.Equal(t, 65, got.For(campus.Lunch).Total())

	latest, updated := p.Latest()
	assert.Len(t, latest, 1)
	assert.False(t, updated.IsZero())
}

func TestStatsPollerKeepsPreviousOnFailure(t *testing.T) {
	desk := newFakeDesk(role.MessAdmin, at(2, 13, 0))
	desk.stats = campus.MealStats{{MealType: campus.Dinner, Veg: 10}}
	p := NewStatsPoller(desk, 0, nil)
	require.NoError(t, p.Refresh(context.Background()))

	boom := errors.New("backend down")
	desk.mu.Lock()
	desk.statsErr = boom
	desk.mu.Unlock()

	assert.ErrorIs(t, p.Refresh(context.Background()), boom)
	assert.ErrorIs(t, p.Err(), boom)
	latest, _ := p.Latest()
	assert.Equal(t, 10, latest.For(campus.Dinner).Veg)
}

func TestStatsPollerSkipsNonStaff(t *testing.T) {
	for _, r := range []role.Role{role.Student, role.HostelAdmin, role.Warden} {
		desk := newFakeDesk(r, at(2, 13, 0))
		p := NewStatsPoller(desk, 0, nil)

		require.NoError(t, p.Refresh(context.Background()))
		assert.Zero(t, desk.statCalls.Load(), "role %s", r)
	}

	desk := newFakeDesk(role.MessAdmin, at(2, 13, 0))
	desk.mu.Lock()
	desk.sess = session.Session{}
	desk.mu.Unlock()
	require.NoError(t, NewStatsPoller(desk, 0, nil).Refresh(context.Background()))
	assert.Zero(t, desk.statCalls.Load(), "signed out")
}

func TestStatsPollerRunTicks(t *testing.T) {
	desk := newFakeDesk(role.MessAdmin, at(2, 13, 0))
	p := NewStatsPoller(desk, 2*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	require.Eventually(t, func() bool { return desk.statCalls.Load() >= 3 }, 2*time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
