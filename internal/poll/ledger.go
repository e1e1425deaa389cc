package poll

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/campusdesk/campus"
	"github.com/MrEthical07/campusdesk/session"
)

const ledgerPrefix = "feedback-prompt:"

// Ledger remembers which meals were already prompted for on which day. Entries live in
// the session storage and expire at the next local midnight.
type Ledger struct {
	storage session.Storage
	loc     *time.Location
}

// NewLedger returns a Ledger over storage in loc. A nil loc means time.Local.
func NewLedger(storage session.Storage, loc *time.Location) *Ledger {
	if loc == nil {
		loc = time.Local
	}
	return &Ledger{storage: storage, loc: loc}
}

func (l *Ledger) key(day time.Time, meal campus.MealType) string {
	return ledgerPrefix + day.In(l.loc).Format(time.DateOnly) + ":" + string(meal)
}

// Seen reports whether meal was prompted for on day.
func (l *Ledger) Seen(ctx context.Context, day time.Time, meal campus.MealType) (bool, error) {
	_, err := l.storage.Get(ctx, l.key(day, meal))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, session.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Mark records meal as prompted for on day.
func (l *Ledger) Mark(ctx context.Context, day time.Time, meal campus.MealType) error {
	local := day.In(l.loc)
	y, m, d := local.Date()
	midnight := time.Date(y, m, d+1, 0, 0, 0, 0, l.loc)
	ttl := midnight.Sub(local)
	if ttl <= 0 {
		ttl = time.Second
	}
	return l.storage.Set(ctx, l.key(day, meal), []byte{1}, ttl)
}
