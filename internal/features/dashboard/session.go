package dashboard

import (
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Session holds one dashboard's state. The mutex serializes all state
// transitions, preserving the one-mutator event-loop model even though
// HTTP requests arrive concurrently.
type Session struct {
	ID        string
	CreatedAt time.Time
	UpdatedAt time.Time

	mu    sync.Mutex
	state *State
}

// Do runs one state transition under the session lock.
func (s *Session) Do(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
	s.UpdatedAt = time.Now()
}

// View reads the state under the lock without bumping UpdatedAt.
func (s *Session) View(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// ReportRef identifies the bound report in a snapshot.
type ReportRef struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Snapshot is a deep copy of a session's state, safe to marshal after
// the lock is released.
type Snapshot struct {
	SessionID string     `json:"session_id"`
	Phase     Phase      `json:"phase"`
	Dirty     bool       `json:"dirty"`
	Report    *ReportRef `json:"report,omitempty"`
	Fields    []Field    `json:"fields"`
	Filters   []Filter   `json:"filters"`
	Segments  []Segment  `json:"segments"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Snapshot copies the session state under the lock.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state
	snap := &Snapshot{
		SessionID: s.ID,
		Phase:     st.Phase(),
		Dirty:     st.Dirty,
		Fields:    make([]Field, 0, len(st.Fields)),
		Filters:   make([]Filter, 0, len(st.Filters)),
		Segments:  make([]Segment, 0, len(st.Segments)),
		UpdatedAt: s.UpdatedAt,
	}

	if st.Report != nil {
		snap.Report = &ReportRef{
			ID:          st.Report.ID.Hex(),
			Title:       st.Report.Title,
			Description: st.Report.Description,
		}
	}

	for _, f := range st.Fields {
		cp := *f
		cp.Categories = append([]Category(nil), f.Categories...)
		cp.Series = make([]Series, len(f.Series))
		for i, series := range f.Series {
			cp.Series[i] = Series{
				Label:      series.Label,
				Categories: append([]Category(nil), series.Categories...),
			}
		}
		snap.Fields = append(snap.Fields, cp)
	}
	for _, f := range st.Filters {
		cp := *f
		cp.Categories = append([]Category(nil), f.Categories...)
		snap.Filters = append(snap.Filters, cp)
	}
	for _, seg := range st.Segments {
		cp := *seg
		cp.Categories = append([]Category(nil), seg.Categories...)
		snap.Segments = append(snap.Segments, cp)
	}

	return snap
}

// SessionManager owns the live dashboard sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

func (m *SessionManager) Create() *Session {
	now := time.Now()
	session := &Session{
		ID:        primitive.NewObjectID().Hex(),
		CreatedAt: now,
		UpdatedAt: now,
		state:     NewState(),
	}

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	return session
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	return session, ok
}

func (m *SessionManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}
