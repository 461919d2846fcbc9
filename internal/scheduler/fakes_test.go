package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/notexe/reminder/internal/notify"
	"github.com/notexe/reminder/internal/reminder"
)

// memStore is an in-memory Store with hooks for simulating races.
type memStore struct {
	mu     sync.Mutex
	recs   map[int64]reminder.Reminder
	nextID int64

	listErr   error
	updateErr error
	beforeGet func(id int64)
}

func newMemStore(rs ...reminder.Reminder) *memStore {
	m := &memStore{recs: make(map[int64]reminder.Reminder)}
	for _, r := range rs {
		m.add(r)
	}
	return m
}

func (m *memStore) add(r reminder.Reminder) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	r.ID = m.nextID
	if r.Status == "" {
		r.Status = reminder.StatusPending
	}
	if r.Recurrence == "" {
		r.Recurrence = reminder.RecurNone
	}
	m.recs[r.ID] = r
	return r.ID
}

func (m *memStore) get(id int64) reminder.Reminder {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recs[id]
}

func (m *memStore) mutate(id int64, fn func(*reminder.Reminder)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := m.recs[id]
	fn(&r)
	m.recs[id] = r
}

func (m *memStore) remove(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.recs, id)
}

func (m *memStore) ListPending(ctx context.Context) ([]reminder.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []reminder.Reminder
	for _, r := range m.recs {
		if r.IsPending() {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].DueAt.Equal(out[j].DueAt) {
			return out[i].DueAt.Before(out[j].DueAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) Get(ctx context.Context, id int64) (reminder.Reminder, error) {
	if m.beforeGet != nil {
		m.beforeGet(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.recs[id]
	if !ok {
		return reminder.Reminder{}, fmt.Errorf("reminder %d: %w", id, reminder.ErrNotFound)
	}
	return r, nil
}

func (m *memStore) Update(ctx context.Context, id int64, f reminder.UpdateFields) (reminder.Reminder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return reminder.Reminder{}, m.updateErr
	}
	r, ok := m.recs[id]
	if !ok {
		return reminder.Reminder{}, fmt.Errorf("reminder %d: %w", id, reminder.ErrNotFound)
	}
	if (f.IfDueAt != nil && !r.DueAt.Equal(*f.IfDueAt)) || (f.IfPending && !r.IsPending()) {
		return reminder.Reminder{}, fmt.Errorf("reminder %d: %w", id, reminder.ErrConflict)
	}
	if f.DueAt != nil {
		r.DueAt = *f.DueAt
		r.MainFired, r.AdvanceFired = false, false
	}
	if f.MainFired != nil {
		r.MainFired = *f.MainFired
	}
	if f.AdvanceFired != nil {
		r.AdvanceFired = *f.AdvanceFired
	}
	if f.Status != nil {
		r.Status = *f.Status
	}
	m.recs[id] = r
	return r, nil
}

type delivery struct {
	Kind    notify.Kind
	Title   string
	Message string
}

// fakeSink records deliveries. err fails every call; hook runs before the
// call is recorded.
type fakeSink struct {
	mu    sync.Mutex
	calls []delivery
	err   error
	hook  func(kind notify.Kind)
	sent  chan delivery
}

func (f *fakeSink) Notify(ctx context.Context, kind notify.Kind, title, message string) error {
	if f.hook != nil {
		f.hook(kind)
	}
	f.mu.Lock()
	err := f.err
	d := delivery{Kind: kind, Title: title, Message: message}
	if err == nil {
		f.calls = append(f.calls, d)
	}
	f.mu.Unlock()
	if err != nil {
		return err
	}
	if f.sent != nil {
		f.sent <- d
	}
	return nil
}

func (f *fakeSink) deliveries() []delivery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]delivery(nil), f.calls...)
}

func (f *fakeSink) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// fakeClock is a settable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
