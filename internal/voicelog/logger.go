package voicelog

import (
	"log"
	"sort"

	"voicelog/internal/models"
)

// recentEntryLimit caps the recent-activity list in user stats.
const recentEntryLimit = 10

// ActivityStore is the durable side of the activity logger: the
// append-only log plus the aggregate reads over closed sessions.
type ActivityStore interface {
	InsertLog(entry models.LogEntry) error
	RecentLogs(guildID, userID string, limit int) ([]models.LogEntry, error)
	UserTotals(guildID, userID string) (sessions int64, seconds int64, err error)
	MemberTotals(guildID string) ([]models.MemberTotals, error)
	CountClosedSessions(guildID string) (int64, error)
}

// ActivityLogger appends voice events to the durable log and serves the
// statistics read path. Appends are best-effort: a failed write is
// reported on the error channel but never unwinds session state, since
// a lost log line matters less than lost duration accounting.
type ActivityLogger struct {
	store ActivityStore
	errs  chan error
}

// NewActivityLogger creates a logger over the given store.
func NewActivityLogger(store ActivityStore) *ActivityLogger {
	return &ActivityLogger{
		store: store,
		errs:  make(chan error, 16),
	}
}

// Errors exposes append failures for whoever wants to observe them.
func (l *ActivityLogger) Errors() <-chan error {
	return l.errs
}

// Append writes one log entry. Failures are reported, not returned.
func (l *ActivityLogger) Append(entry models.LogEntry) {
	if err := l.store.InsertLog(entry); err != nil {
		l.report(&StorageError{Op: "insert log", Err: err})
	}
}

func (l *ActivityLogger) report(err error) {
	select {
	case l.errs <- err:
	default:
		// Nobody is draining fast enough; don't lose the signal entirely.
		log.Printf("Error appending voice log: %v", err)
	}
}

// UserStats returns closed-session totals and recent activity for one
// user in one guild. Open sessions are excluded from the totals.
func (l *ActivityLogger) UserStats(guildID, userID string) (models.UserStats, error) {
	sessions, seconds, err := l.store.UserTotals(guildID, userID)
	if err != nil {
		return models.UserStats{}, &StorageError{Op: "user totals", Err: err}
	}

	recent, err := l.store.RecentLogs(guildID, userID, recentEntryLimit)
	if err != nil {
		return models.UserStats{}, &StorageError{Op: "recent logs", Err: err}
	}

	return models.UserStats{
		TotalSessions: sessions,
		TotalSeconds:  seconds,
		RecentEntries: recent,
	}, nil
}

// GuildStats returns the closed-session count and the topN members by
// total voice time, longest first, ties broken by ascending user id.
func (l *ActivityLogger) GuildStats(guildID string, topN int) (models.GuildStats, error) {
	members, err := l.store.MemberTotals(guildID)
	if err != nil {
		return models.GuildStats{}, &StorageError{Op: "member totals", Err: err}
	}

	sort.Slice(members, func(i, j int) bool {
		if members[i].TotalSeconds != members[j].TotalSeconds {
			return members[i].TotalSeconds > members[j].TotalSeconds
		}
		return members[i].UserID < members[j].UserID
	})
	if topN > 0 && len(members) > topN {
		members = members[:topN]
	}

	total, err := l.store.CountClosedSessions(guildID)
	if err != nil {
		return models.GuildStats{}, &StorageError{Op: "count sessions", Err: err}
	}

	return models.GuildStats{
		TotalSessions: total,
		TopMembers:    members,
	}, nil
}
