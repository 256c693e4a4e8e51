package voicelog

import (
	"errors"
	"sync"
	"time"

	"voicelog/internal/models"
)

var errStoreDown = errors.New("store down")

// memStore is an in-memory stand-in for the database repository,
// mirroring its row semantics closely enough for the core tests.
type memStore struct {
	mu       sync.Mutex
	sessions []*models.Session
	logs     []models.LogEntry
	settings map[string]models.GuildSettings

	failInsertSession bool
	failCloseSession  bool
	failInsertLog     bool

	insertSessionCalls int
}

func newMemStore() *memStore {
	return &memStore{settings: make(map[string]models.GuildSettings)}
}

func (s *memStore) InsertSession(session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insertSessionCalls++
	if s.failInsertSession {
		return errStoreDown
	}
	copied := session
	s.sessions = append(s.sessions, &copied)
	return nil
}

func (s *memStore) CloseSession(id string, leaveTime time.Time, durationSeconds int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failCloseSession {
		return errStoreDown
	}
	for _, session := range s.sessions {
		if session.ID == id && !session.Closed {
			session.LeaveTime = leaveTime
			session.DurationSeconds = durationSeconds
			session.Closed = true
			return nil
		}
	}
	// An UPDATE matching no rows is not an error.
	return nil
}

func (s *memStore) CountOpenSessions() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, session := range s.sessions {
		if !session.Closed {
			count++
		}
	}
	return count, nil
}

func (s *memStore) InsertLog(entry models.LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failInsertLog {
		return errStoreDown
	}
	s.logs = append(s.logs, entry)
	return nil
}

func (s *memStore) RecentLogs(guildID, userID string, limit int) ([]models.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var entries []models.LogEntry
	for i := len(s.logs) - 1; i >= 0 && len(entries) < limit; i-- {
		if s.logs[i].GuildID == guildID && s.logs[i].UserID == userID {
			entries = append(entries, s.logs[i])
		}
	}
	return entries, nil
}

func (s *memStore) UserTotals(guildID, userID string) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sessions, seconds int64
	for _, session := range s.sessions {
		if session.GuildID == guildID && session.UserID == userID && session.Closed {
			sessions++
			seconds += session.DurationSeconds
		}
	}
	return sessions, seconds, nil
}

func (s *memStore) MemberTotals(guildID string) ([]models.MemberTotals, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byUser := make(map[string]*models.MemberTotals)
	var order []string
	for _, session := range s.sessions {
		if session.GuildID != guildID || !session.Closed {
			continue
		}
		totals, ok := byUser[session.UserID]
		if !ok {
			totals = &models.MemberTotals{UserID: session.UserID, Username: session.Username}
			byUser[session.UserID] = totals
			order = append(order, session.UserID)
		}
		totals.TotalSeconds += session.DurationSeconds
		totals.Sessions++
	}
	var members []models.MemberTotals
	for _, userID := range order {
		members = append(members, *byUser[userID])
	}
	return members, nil
}

func (s *memStore) CountClosedSessions(guildID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, session := range s.sessions {
		if session.GuildID == guildID && session.Closed {
			count++
		}
	}
	return count, nil
}

func (s *memStore) GetGuildSettings(guildID string) (models.GuildSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if settings, ok := s.settings[guildID]; ok {
		return settings, nil
	}
	return models.DefaultGuildSettings(guildID), nil
}

func (s *memStore) UpdateGuildSettings(guildID string, update models.SettingsUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	settings, ok := s.settings[guildID]
	if !ok {
		settings = models.DefaultGuildSettings(guildID)
	}
	if update.LogChannelID != nil {
		settings.LogChannelID = *update.LogChannelID
	}
	if update.Enabled != nil {
		settings.Enabled = *update.Enabled
	}
	if update.LogJoin != nil {
		settings.LogJoin = *update.LogJoin
	}
	if update.LogLeave != nil {
		settings.LogLeave = *update.LogLeave
	}
	if update.LogMove != nil {
		settings.LogMove = *update.LogMove
	}
	if update.LogMute != nil {
		settings.LogMute = *update.LogMute
	}
	if update.LogDeaf != nil {
		settings.LogDeaf = *update.LogDeaf
	}
	if update.LogStream != nil {
		settings.LogStream = *update.LogStream
	}
	if update.LogVideo != nil {
		settings.LogVideo = *update.LogVideo
	}
	s.settings[guildID] = settings
	return nil
}

func (s *memStore) openSessions() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	var open []models.Session
	for _, session := range s.sessions {
		if !session.Closed {
			open = append(open, *session)
		}
	}
	return open
}

func (s *memStore) closedSessions() []models.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	var closed []models.Session
	for _, session := range s.sessions {
		if session.Closed {
			closed = append(closed, *session)
		}
	}
	return closed
}

func (s *memStore) allLogs() []models.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.LogEntry(nil), s.logs...)
}
