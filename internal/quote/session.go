package quote

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Lead validation errors.
var (
	ErrNameRequired  = errors.New("name is required")
	ErrCityRequired  = errors.New("city is required")
	ErrMobileInvalid = errors.New("mobile must be at least 10 digits")
)

// LeadInfo is the contact record captured once per session.
type LeadInfo struct {
	Name   string `json:"name"`
	City   string `json:"city"`
	Mobile string `json:"mobile"`
	Email  string `json:"email,omitempty"`
}

// Validate applies the local form rules. Passing validation is what
// flips the session to exact-price mode, not delivery success.
func (l LeadInfo) Validate() error {
	if l.Name == "" {
		return ErrNameRequired
	}
	if l.City == "" {
		return ErrCityRequired
	}
	if len(l.Mobile) < 10 {
		return ErrMobileInvalid
	}
	return nil
}

// LastQuote keeps the most recent computed amounts for a product so
// the lead summary reflects what the user last saw.
type LastQuote struct {
	ProductID string
	Total     float64
	Low       float64
	High      float64
	At        time.Time
}

type session struct {
	id           string
	leadCaptured bool
	lead         LeadInfo
	inFlight     bool
	lastQuotes   map[string]LastQuote
	lastSeen     time.Time
}

// defaultSessionTTL bounds how long an idle session is kept before the
// registry drops it.
const defaultSessionTTL = 30 * time.Minute

// Sessions tracks per-session lead state and the submission in-flight
// guard. Safe for concurrent use.
type Sessions struct {
	mu          sync.Mutex
	guardWindow time.Duration
	ttl         time.Duration
	sessions    map[string]*session
}

// NewSessions builds a session registry. guardWindow bounds how long a
// submission blocks the next one; zero falls back to ten seconds.
func NewSessions(guardWindow time.Duration) *Sessions {
	if guardWindow <= 0 {
		guardWindow = 10 * time.Second
	}
	return &Sessions{
		guardWindow: guardWindow,
		ttl:         defaultSessionTTL,
		sessions:    make(map[string]*session),
	}
}

// Ensure returns the session id, creating a fresh session when the id
// is empty or unknown.
func (st *Sessions) Ensure(id string) string {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.ensureLocked(id).id
}

func (st *Sessions) ensureLocked(id string) *session {
	now := time.Now()
	if id != "" {
		if s, ok := st.sessions[id]; ok {
			s.lastSeen = now
			return s
		}
	}
	st.evictExpiredLocked(now)
	s := &session{
		id:         uuid.New().String(),
		lastQuotes: make(map[string]LastQuote),
		lastSeen:   now,
	}
	st.sessions[s.id] = s
	return s
}

// evictExpiredLocked drops sessions idle beyond the TTL so the registry
// stays bounded. Runs whenever a new session is allocated.
func (st *Sessions) evictExpiredLocked(now time.Time) {
	for id, s := range st.sessions {
		if now.Sub(s.lastSeen) > st.ttl {
			delete(st.sessions, id)
		}
	}
}

// LeadCaptured reports whether the session has a captured lead.
func (st *Sessions) LeadCaptured(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	return ok && s.leadCaptured
}

// CaptureLead validates and records the lead, flipping the session to
// exact-price mode. The transition is one-way for the session's life.
func (st *Sessions) CaptureLead(id string, lead LeadInfo) (string, error) {
	if err := lead.Validate(); err != nil {
		return "", err
	}
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.ensureLocked(id)
	if !s.leadCaptured {
		s.leadCaptured = true
		s.lead = lead
	}
	return s.id, nil
}

// Lead returns the captured lead, if any.
func (st *Sessions) Lead(id string) (LeadInfo, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok || !s.leadCaptured {
		return LeadInfo{}, false
	}
	return s.lead, true
}

// RecordQuote remembers the last computed amounts for a product in the
// session; last write wins.
func (st *Sessions) RecordQuote(id string, q LastQuote) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.ensureLocked(id)
	q.At = time.Now()
	s.lastQuotes[q.ProductID] = q
}

// LastQuoteFor returns the most recent amounts recorded for a product.
func (st *Sessions) LastQuoteFor(id, productID string) (LastQuote, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return LastQuote{}, false
	}
	q, ok := s.lastQuotes[productID]
	return q, ok
}

// BeginSubmission sets the in-flight guard for the session. It returns
// false when a submission is already outstanding. The guard self-clears
// after the guard window regardless of delivery outcome, so a hung
// channel cannot block future submissions.
func (st *Sessions) BeginSubmission(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.ensureLocked(id)
	if s.inFlight {
		return false
	}
	s.inFlight = true
	sid := s.id
	time.AfterFunc(st.guardWindow, func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		if sess, ok := st.sessions[sid]; ok {
			sess.inFlight = false
		}
	})
	return true
}

// Presented renders a cost under the session's current mode.
func (st *Sessions) Presented(id string, cost, variance float64) Display {
	return Presented(cost, st.LeadCaptured(id), variance)
}
