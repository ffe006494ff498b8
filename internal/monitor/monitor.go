package monitor

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// CountFunc asks the analysis collaborator how many outstanding issues the
// given text has.
type CountFunc func(ctx context.Context, text string) (int, error)

// Phase is the per-field state of the monitor.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDebouncing
	PhaseAwaitingCount
)

const (
	// DefaultDebounce is the input inactivity window before a count is
	// requested.
	DefaultDebounce = 1500 * time.Millisecond
	// DefaultMinLength is the trimmed content length, in runes, at or below
	// which the indicator is suppressed instead of requesting a count.
	DefaultMinLength = 5
	// DefaultRequestTimeout bounds a single collaborator call.
	DefaultRequestTimeout = 30 * time.Second
)

// Monitor observes text-input fields, debounces keystrokes, and maintains a
// per-field issue-count indicator backed by a per-field content cache.
//
// A response is applied to the indicator only when the content it was
// computed for still matches the field's current trimmed content; anything
// else is a stale response and is discarded at debug log level. At most one
// collaborator request is in flight per field: a debounce firing while a
// request is outstanding queues its content and is dispatched when the
// response lands.
type Monitor struct {
	mu        sync.Mutex
	count     CountFunc
	fields    map[string]*field
	debounce  time.Duration
	minLength int
	timeout   time.Duration
	logger    *slog.Logger
	afterFunc func(d time.Duration, f func()) *time.Timer
}

type field struct {
	phase   Phase
	current string // current trimmed content
	gen     uint64 // bumped on every Change and Blur; stale fires carry an older value

	cachedText  string
	cachedCount int
	hasCached   bool

	timer    *time.Timer
	inflight bool

	queued    string
	hasQueued bool

	visible bool
	shown   int
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithDebounce sets the inactivity window before a count is requested.
func WithDebounce(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.debounce = d
		}
	}
}

// WithMinLength sets the trimmed rune count at or below which no count is
// requested.
func WithMinLength(n int) Option {
	return func(m *Monitor) {
		if n >= 0 {
			m.minLength = n
		}
	}
}

// WithRequestTimeout bounds each collaborator call.
func WithRequestTimeout(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Monitor) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithAfterFunc replaces the debounce timer source. Tests use this to fire
// timers deterministically.
func WithAfterFunc(fn func(d time.Duration, f func()) *time.Timer) Option {
	return func(m *Monitor) {
		if fn != nil {
			m.afterFunc = fn
		}
	}
}

// New creates a Monitor that obtains counts through count.
func New(count CountFunc, opts ...Option) *Monitor {
	m := &Monitor{
		count:     count,
		fields:    make(map[string]*field),
		debounce:  DefaultDebounce,
		minLength: DefaultMinLength,
		timeout:   DefaultRequestTimeout,
		logger:    slog.Default(),
		afterFunc: time.AfterFunc,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *Monitor) field(id string) *field {
	f, ok := m.fields[id]
	if !ok {
		f = &field{}
		m.fields[id] = f
	}
	return f
}

// Change records a content-change event for a field. Any pending debounce
// timer is cancelled and a new one started; an in-flight request is left to
// finish and its effect superseded by the stale-response guard.
func (m *Monitor) Change(fieldID, content string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.field(fieldID)
	f.current = strings.TrimSpace(content)
	if f.timer != nil {
		f.timer.Stop()
	}
	f.gen++
	gen := f.gen
	f.phase = PhaseDebouncing
	f.timer = m.afterFunc(m.debounce, func() {
		m.fire(fieldID, gen)
	})
}

// Blur cancels any pending timer and hides the indicator immediately. The
// per-field content cache survives, so refocusing the same content costs no
// collaborator call.
func (m *Monitor) Blur(fieldID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.field(fieldID)
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.gen++
	f.visible = false
	f.phase = PhaseIdle
}

// Indicator returns the current indicator state for a field. Capping the
// displayed label ("9+") is the caller's concern.
func (m *Monitor) Indicator(fieldID string) (visible bool, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f, ok := m.fields[fieldID]
	if !ok {
		return false, 0
	}
	return f.visible, f.shown
}

// fire runs when a field's debounce timer expires. A callback whose timer
// expired before Stop took effect arrives with an older generation and must
// not touch the field: Change may already have replaced f.timer.
func (m *Monitor) fire(fieldID string, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.field(fieldID)
	if gen != f.gen {
		return
	}
	f.timer = nil
	text := f.current

	if utf8.RuneCountInString(text) <= m.minLength {
		f.visible = false
		f.phase = PhaseIdle
		return
	}

	if f.hasCached && text == f.cachedText {
		f.shown = f.cachedCount
		f.visible = f.cachedCount > 0
		f.phase = PhaseIdle
		return
	}

	if f.inflight {
		f.queued = text
		f.hasQueued = true
		f.phase = PhaseAwaitingCount
		return
	}

	m.dispatch(fieldID, f, text)
}

// dispatch starts the asynchronous collaborator call. Caller holds m.mu.
func (m *Monitor) dispatch(fieldID string, f *field, text string) {
	f.inflight = true
	f.phase = PhaseAwaitingCount
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
		defer cancel()
		n, err := m.count(ctx, text)
		m.complete(fieldID, text, n, err)
	}()
}

// complete applies a collaborator response, guarding against staleness.
func (m *Monitor) complete(fieldID, text string, n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := m.field(fieldID)
	f.inflight = false

	if err != nil {
		m.logger.Warn("issue count failed", "field", fieldID, "error", err)
		f.visible = false
	} else {
		f.cachedText = text
		f.cachedCount = n
		f.hasCached = true
		if text == f.current {
			f.shown = n
			f.visible = n > 0
		} else {
			m.logger.Debug("stale issue count discarded",
				"field", fieldID, "count", n)
		}
	}

	if f.hasQueued {
		queued := f.queued
		f.queued = ""
		f.hasQueued = false
		// Only worth dispatching if the queued content is still what the
		// field shows and was not just answered.
		if queued == f.current && !(f.hasCached && queued == f.cachedText) {
			m.dispatch(fieldID, f, queued)
			return
		}
	}
	if f.timer != nil {
		f.phase = PhaseDebouncing
	} else {
		f.phase = PhaseIdle
	}
}
