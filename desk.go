package campusdesk

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MrEthical07/campusdesk/api"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/jwt"
	"github.com/MrEthical07/campusdesk/middleware"
	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/session"
	"github.com/MrEthical07/campusdesk/validate"
	"go.uber.org/zap"
)

// SessionExpiredMessage is the notice shown when a 401 ends the session.
const SessionExpiredMessage = "Your session has expired. Please log in again."

// Navigator receives every destination the portals move the user to.
type Navigator interface {
	Navigate(ctx context.Context, path string)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(ctx context.Context, path string)

// Navigate calls f.
func (f NavigatorFunc) Navigate(ctx context.Context, path string) { f(ctx, path) }

// Desk is the client facade: it owns the session store, the API client and the local
// copies of complaints and meal choices. Methods are safe for concurrent use after
// [Builder.Build].
type Desk struct {
	config  Config
	store   *session.Store
	client  *api.Client
	tokens  *jwt.Reader
	notices *noticeDispatcher
	metrics *Metrics
	log     *zap.Logger
	nav     Navigator
	now     func() time.Time

	board   *campus.Board
	choices *campus.ChoiceBook
	loc     *time.Location
	windows []campus.MealWindow

	location atomic.Value
	closed   atomic.Bool
	stopMu   sync.Mutex
	stops    []context.CancelFunc
}

// Close stops the storage watcher and flushes pending notices. It is idempotent.
func (d *Desk) Close() {
	if d == nil || !d.closed.CompareAndSwap(false, true) {
		return
	}
	d.stopMu.Lock()
	for _, stop := range d.stops {
		stop()
	}
	d.stops = nil
	d.stopMu.Unlock()
	if d.notices != nil {
		d.notices.Close()
	}
}

func (d *Desk) onClose(stop context.CancelFunc) {
	d.stopMu.Lock()
	defer d.stopMu.Unlock()
	d.stops = append(d.stops, stop)
}

// Config returns a copy of the configuration the desk was built with.
func (d *Desk) Config() Config {
	return cloneConfig(d.config)
}

// Store returns the session store, for guards and subscribers.
func (d *Desk) Store() *session.Store {
	return d.store
}

// Client returns the API client.
func (d *Desk) Client() *api.Client {
	return d.client
}

// TokenReader returns the reader used to decode session tokens.
func (d *Desk) TokenReader() *jwt.Reader {
	return d.tokens
}

// Session returns the current session.
func (d *Desk) Session() session.Session {
	return d.store.Snapshot()
}

// Subscribe streams session snapshots; see [session.Store.Subscribe].
func (d *Desk) Subscribe() (<-chan session.Session, func()) {
	return d.store.Subscribe(d.config.Session.SubscriberBuffer)
}

// Location returns the last destination the desk navigated to.
func (d *Desk) Location() string {
	loc, _ := d.location.Load().(string)
	return loc
}

// Board returns the local complaint board, filled by the complaint listings.
func (d *Desk) Board() *campus.Board {
	return d.board
}

// Choices returns the local meal-choice book.
func (d *Desk) Choices() *campus.ChoiceBook {
	return d.choices
}

// MealWindows returns the configured feedback windows.
func (d *Desk) MealWindows() []campus.MealWindow {
	return append([]campus.MealWindow(nil), d.windows...)
}

// TimeZone returns the campus time zone.
func (d *Desk) TimeZone() *time.Location {
	return d.loc
}

// Now returns the desk clock in the campus time zone.
func (d *Desk) Now() time.Time {
	return d.now().In(d.loc)
}

// NoticesDropped returns how many notices were dropped by a full queue.
func (d *Desk) NoticesDropped() uint64 {
	if d == nil || d.notices == nil {
		return 0
	}
	return d.notices.Dropped()
}

// SessionUpdatesDropped returns how many session snapshots slow subscribers missed.
func (d *Desk) SessionUpdatesDropped() uint64 {
	if d == nil || d.store == nil {
		return 0
	}
	return d.store.Dropped()
}

// Metrics returns the live counters.
func (d *Desk) Metrics() *Metrics {
	return d.metrics
}

// MetricsSnapshot copies the counters.
func (d *Desk) MetricsSnapshot() MetricsSnapshot {
	if d == nil || d.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return d.metrics.Snapshot()
}

func (d *Desk) metricInc(id MetricID) {
	if d == nil || d.metrics == nil {
		return
	}
	d.metrics.Inc(id)
}

// Notify emits a notice on behalf of a caller outside the desk, such as a poller.
func (d *Desk) Notify(ctx context.Context, level NoticeLevel, op, message string) {
	d.emit(ctx, level, op, message)
}

func (d *Desk) emit(ctx context.Context, level NoticeLevel, op, message string) {
	if d.notices == nil || message == "" {
		return
	}
	n := newNotice(level, op, message, d.now())
	n.Origin = requestOriginFromContext(ctx)
	d.metricInc(MetricNoticeEmitted)
	d.notices.Emit(ctx, n)
}

func (d *Desk) navigate(ctx context.Context, path string) {
	d.location.Store(path)
	if d.nav != nil {
		d.nav.Navigate(ctx, path)
	}
}

func (d *Desk) ready() error {
	if d == nil || d.closed.Load() {
		return ErrDeskClosed
	}
	return nil
}

// requireRole fails with ErrNotAuthenticated without a session and ErrForbidden when
// the session role is outside allowed. An empty set admits any signed-in role.
func (d *Desk) requireRole(allowed role.Set) (session.Session, error) {
	if err := d.ready(); err != nil {
		return session.Session{}, err
	}
	s := d.store.Snapshot()
	if !s.Authenticated() {
		return s, ErrNotAuthenticated
	}
	if !allowed.Empty() && !allowed.Contains(string(s.Role)) {
		return s, ErrForbidden
	}
	return s, nil
}

// reject reports a locally refused request: a validation metric and an error notice.
func (d *Desk) reject(ctx context.Context, op string, err error) error {
	d.metricInc(MetricValidationRejected)
	d.emit(ctx, NoticeError, op, RuleMessage(err))
	return err
}

// fail reports a failed request with the backend message or fallback.
func (d *Desk) fail(ctx context.Context, op string, err error, fallback string) error {
	d.emit(ctx, NoticeError, op, api.Message(err, fallback))
	return err
}

// handleUnauthorized ends the session after any 401: storage is cleared and the user is
// sent to the portal selection.
func (d *Desk) handleUnauthorized(ctx context.Context, apiErr *api.Error) {
	if ctx == nil {
		ctx = context.Background()
	}
	wasAuthenticated := d.store.Snapshot().Authenticated()
	if _, err := d.store.Dispatch(ctx, session.Logout()); err != nil {
		d.log.Warn("clear session after 401", zap.Error(err))
	}
	d.metricInc(MetricForcedLogout)
	d.log.Info("session invalidated by backend",
		zap.String("path", apiErr.Path),
		zap.String("request_id", apiErr.RequestID),
		zap.Bool("was_authenticated", wasAuthenticated))
	if wasAuthenticated {
		d.emit(ctx, NoticeError, "session", SessionExpiredMessage)
	}
	d.navigate(ctx, middleware.SelectPortalPath)
}

// watchStorage reloads the session whenever another process rewrites the session file.
func (d *Desk) watchStorage(fs *session.FileStorage) error {
	ctx, cancel := context.WithCancel(context.Background())
	err := fs.Watch(ctx, func() {
		if _, err := d.store.Reload(ctx, d.acceptIdentity); err != nil && !errors.Is(err, context.Canceled) {
			d.log.Debug("reload session", zap.Error(err))
		}
	})
	if err != nil {
		cancel()
		return err
	}
	d.onClose(cancel)
	return nil
}

// RuleMessage returns the text shown for a request refused by a local rule.
func RuleMessage(err error) string {
	var verrs validate.Errors
	switch {
	case errors.As(err, &verrs):
		return verrs.First()
	case errors.Is(err, campus.ErrRemarkRequired):
		return campus.RemarkRequiredMessage
	case errors.Is(err, campus.ErrWeekStartRequired):
		return campus.WeekStartRequiredMessage
	case errors.Is(err, campus.ErrRatingRequired):
		return campus.RatingRequiredMessage
	case errors.Is(err, campus.ErrInviteEmailRequired):
		return campus.InviteEmailMessage
	default:
		return err.Error()
	}
}
