package poll

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MrEthical07/campusdesk"
	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/role"
	"github.com/MrEthical07/campusdesk/session"
)

// DefaultFeedbackInterval is how often the meal windows are checked.
const DefaultFeedbackInterval = 10 * time.Minute

// FeedbackDesk is the part of the desk the prompter reads.
type FeedbackDesk interface {
	Session() session.Session
	Now() time.Time
	MealWindows() []campus.MealWindow
	Notify(ctx context.Context, level campusdesk.NoticeLevel, op, message string)
	Metrics() *campusdesk.Metrics
}

// PromptMessage is the notice text asking for feedback on meal.
func PromptMessage(meal campus.MealType) string {
	return fmt.Sprintf("How was your %s? Rate it from the feedback page.", meal.Label())
}

// FeedbackPrompter asks a signed-in student to rate the meal whose window is open, at
// most once per meal per day.
type FeedbackPrompter struct {
	desk     FeedbackDesk
	ledger   *Ledger
	interval time.Duration
	log      *zap.Logger

	// OnPrompt, when set, is called after the prompt notice.
	OnPrompt func(ctx context.Context, meal campus.MealType)
}

// NewFeedbackPrompter returns a prompter checking every interval. A non-positive interval
// means [DefaultFeedbackInterval].
func NewFeedbackPrompter(desk FeedbackDesk, ledger *Ledger, interval time.Duration, log *zap.Logger) *FeedbackPrompter {
	if interval <= 0 {
		interval = DefaultFeedbackInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &FeedbackPrompter{desk: desk, ledger: ledger, interval: interval, log: log}
}

// Run checks immediately and then on every tick until ctx is done.
func (p *FeedbackPrompter) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.Check(ctx)
		}
	}
}

// Check prompts for the open meal if the session is a student and the meal was not
// prompted for today. It returns the prompted meal.
func (p *FeedbackPrompter) Check(ctx context.Context) (campus.MealType, bool) {
	p.desk.Metrics().Inc(campusdesk.MetricPollTick)

	s := p.desk.Session()
	if !s.Authenticated() || s.Role != role.Student {
		return "", false
	}
	now := p.desk.Now()
	meal, ok := campus.ActiveMeal(now, p.desk.MealWindows())
	if !ok {
		return "", false
	}
	seen, err := p.ledger.Seen(ctx, now, meal)
	if err != nil {
		p.log.Debug("read feedback ledger", zap.Error(err))
		return "", false
	}
	if seen {
		return "", false
	}
	if err := p.ledger.Mark(ctx, now, meal); err != nil {
		// No prompt without a ledger entry.
		p.log.Warn("write feedback ledger", zap.String("meal", string(meal)), zap.Error(err))
		return "", false
	}

	p.desk.Metrics().Inc(campusdesk.MetricFeedbackPrompted)
	p.desk.Notify(ctx, campusdesk.NoticeInfo, "feedback.prompt", PromptMessage(meal))
	if p.OnPrompt != nil {
		p.OnPrompt(ctx, meal)
	}
	return meal, true
}

// Dismiss suppresses the prompt for meal for the rest of today, as submitting or
// closing the feedback form does.
func (p *FeedbackPrompter) Dismiss(ctx context.Context, meal campus.MealType) error {
	return p.ledger.Mark(ctx, p.desk.Now(), meal)
}
