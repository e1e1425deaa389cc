package campus

import (
	"sync"
	"time"
)

// Board is the client's working copy of a complaint list. Status changes confirmed by
// the backend are applied in place so the list reflects them before the next refresh.
type Board struct {
	mu    sync.RWMutex
	items []Complaint
	index map[string]int
}

// NewBoard returns a board holding items.
func NewBoard(items []Complaint) *Board {
	b := &Board{}
	b.Replace(items)
	return b
}

// Replace swaps the whole list, as a refresh does.
func (b *Board) Replace(items []Complaint) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append([]Complaint(nil), items...)
	b.index = make(map[string]int, len(items))
	for i, c := range b.items {
		b.index[c.ID] = i
	}
}

// Upsert puts c at the top of the board, replacing a complaint with the same ID.
func (b *Board) Upsert(c Complaint) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if i, ok := b.index[c.ID]; ok && c.ID != "" {
		b.items[i] = c
		return
	}
	b.items = append([]Complaint{c}, b.items...)
	b.index = make(map[string]int, len(b.items))
	for i, item := range b.items {
		b.index[item.ID] = i
	}
}

// Items returns a copy of the list.
func (b *Board) Items() []Complaint {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Complaint(nil), b.items...)
}

// Get returns the complaint with id.
func (b *Board) Get(id string) (Complaint, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	i, ok := b.index[id]
	if !ok {
		return Complaint{}, false
	}
	return b.items[i], true
}

// Apply records change on the matching complaint. It reports false when the complaint
// is not on the board.
func (b *Board) Apply(change StatusChange, at time.Time) (Complaint, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, ok := b.index[change.ComplaintID]
	if !ok {
		return Complaint{}, false
	}
	c := b.items[i]
	c.History = append([]HistoryEntry(nil), c.History...)
	c.Apply(change, at)
	b.items[i] = c
	return c, true
}

// Counts returns the number of complaints per status.
func (b *Board) Counts() map[Status]int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[Status]int, len(Statuses))
	for _, c := range b.items {
		out[c.Status]++
	}
	return out
}

// Filter returns the complaints in status s, or all of them when s is empty.
func (b *Board) Filter(s Status) []Complaint {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]Complaint, 0, len(b.items))
	for _, c := range b.items {
		if s == "" || c.Status == s {
			out = append(out, c)
		}
	}
	return out
}

// Len returns the number of complaints on the board.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.items)
}
