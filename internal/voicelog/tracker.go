package voicelog

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"voicelog/internal/models"
)

// sessionWriteRetries bounds durable write attempts before the tracker
// degrades to memory-only for that session.
const sessionWriteRetries = 3

// SessionStore is the durable side of the session tracker.
type SessionStore interface {
	InsertSession(s models.Session) error
	CloseSession(id string, leaveTime time.Time, durationSeconds int64) error
	CountOpenSessions() (int64, error)
}

// Tracker owns the authoritative map of open voice sessions, mirrored
// write-through to the session store. At most one open session exists
// per user at any time, across all guilds.
//
// The map mutex is never held across store writes: one user's slow or
// retrying write must not stall every other user's open/close. Per-user
// ordering of the writes themselves is the caller's job; the router
// serializes all processing per user.
type Tracker struct {
	mu    sync.Mutex
	store SessionStore
	open  map[string]*models.Session // userID -> open session
}

// NewTracker creates a tracker with an empty session map.
func NewTracker(store SessionStore) *Tracker {
	return &Tracker{
		store: store,
		open:  make(map[string]*models.Session),
	}
}

// Open starts a new session for the user. It returns ErrSessionExists,
// along with a copy of the existing session, if one is already open.
func (t *Tracker) Open(guildID, userID, username, channelID, channelName string, joinTime time.Time) (models.Session, error) {
	session := &models.Session{
		ID:          uuid.NewString(),
		GuildID:     guildID,
		UserID:      userID,
		Username:    username,
		ChannelID:   channelID,
		ChannelName: channelName,
		JoinTime:    joinTime,
	}

	t.mu.Lock()
	if existing, ok := t.open[userID]; ok {
		copied := *existing
		t.mu.Unlock()
		return copied, ErrSessionExists
	}
	t.open[userID] = session
	opened := *session
	t.mu.Unlock()

	if err := t.writeWithRetry("insert session", func() error {
		return t.store.InsertSession(opened)
	}); err != nil {
		// Memory-only from here: the close update will find no row, and
		// this session's duration is lost to the stats. Better than
		// dropping live tracking entirely.
		log.Printf("Warning: session tracking degraded to memory-only for user %s: %v", userID, err)
	}

	return opened, nil
}

// Close ends the user's open session at leaveTime, persists the update,
// and returns the closed session. Returns ErrNoOpenSession if nothing
// is tracked for the user.
func (t *Tracker) Close(userID string, leaveTime time.Time) (models.Session, error) {
	closed, err := t.detach(userID, leaveTime)
	if err != nil {
		return models.Session{}, err
	}
	t.persistClose(closed)
	return closed, nil
}

// detach removes the user's session from the map and stamps its closing
// fields. The durable update happens afterwards, off the map lock.
func (t *Tracker) detach(userID string, leaveTime time.Time) (models.Session, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	session, ok := t.open[userID]
	if !ok {
		return models.Session{}, ErrNoOpenSession
	}
	delete(t.open, userID)
	stampClosed(session, leaveTime)
	return *session, nil
}

func (t *Tracker) persistClose(session models.Session) {
	if err := t.writeWithRetry("close session", func() error {
		return t.store.CloseSession(session.ID, session.LeaveTime, session.DurationSeconds)
	}); err != nil {
		log.Printf("Warning: failed to persist session close for user %s: %v", session.UserID, err)
	}
}

// stampClosed fills the closing fields, clamping the duration at zero
// against clock skew.
func stampClosed(session *models.Session, leaveTime time.Time) {
	duration := int64(leaveTime.Sub(session.JoinTime).Seconds())
	if duration < 0 {
		duration = 0
	}
	session.LeaveTime = leaveTime
	session.DurationSeconds = duration
	session.Closed = true
}

// Peek returns a copy of the user's open session without closing it.
func (t *Tracker) Peek(userID string) (models.Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	session, ok := t.open[userID]
	if !ok {
		return models.Session{}, false
	}
	return *session, true
}

// OpenCount returns the number of in-memory open sessions.
func (t *Tracker) OpenCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.open)
}

// ReconcileOnStartup checks the store for open sessions left over from
// an unclean shutdown. They are not loaded into memory: channel
// membership may have changed while the process was down and their true
// leave time is unknowable, so they stay untouched in the store and
// fresh sessions are opened on the next observed transition.
func (t *Tracker) ReconcileOnStartup() {
	count, err := t.store.CountOpenSessions()
	if err != nil {
		log.Printf("Warning: failed to count stale open sessions: %v", err)
		return
	}
	if count > 0 {
		log.Printf("Found %d stale open session(s) from a previous run; leaving them unclosed", count)
	}
}

// FlushOnShutdown closes every in-memory session using the current time
// as the leave time, bounding duration drift across restarts.
func (t *Tracker) FlushOnShutdown() {
	now := time.Now().UTC()

	t.mu.Lock()
	closed := make([]models.Session, 0, len(t.open))
	for _, session := range t.open {
		stampClosed(session, now)
		closed = append(closed, *session)
	}
	t.open = make(map[string]*models.Session)
	t.mu.Unlock()

	for _, session := range closed {
		t.persistClose(session)
	}
}

func (t *Tracker) writeWithRetry(op string, write func() error) error {
	var err error
	for attempt := 1; attempt <= sessionWriteRetries; attempt++ {
		if err = write(); err == nil {
			return nil
		}
		if attempt < sessionWriteRetries {
			time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
		}
	}
	return &StorageError{Op: op, Err: err}
}
