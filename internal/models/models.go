package models

import "time"

// VoiceState is one snapshot of a user's voice presence, built by the
// transport layer from a gateway update. An empty ChannelID means the
// user is not in any voice channel.
type VoiceState struct {
	UserID      string
	GuildID     string
	Username    string
	ChannelID   string
	ChannelName string
	Muted       bool
	Deafened    bool
	Streaming   bool
	Video       bool
}

// InChannel reports whether the snapshot places the user in a voice channel.
func (v VoiceState) InChannel() bool {
	return v.ChannelID != ""
}

// Session represents one continuous stay in a single voice channel.
// LeaveTime and DurationSeconds are set together when the session closes;
// a session is never mutated after that.
type Session struct {
	ID              string
	GuildID         string
	UserID          string
	Username        string
	ChannelID       string
	ChannelName     string
	JoinTime        time.Time
	LeaveTime       time.Time
	DurationSeconds int64
	Closed          bool
}

// LogEntry represents one row in the voice activity log. Entries are
// write-once; Details carries action-specific extras (duration on leave,
// from/to on move).
type LogEntry struct {
	GuildID     string
	UserID      string
	Username    string
	ChannelID   string
	ChannelName string
	Action      Action
	Timestamp   time.Time
	Details     map[string]string
}

// GuildSettings holds per-guild voice logger configuration. LogChannelID
// empty means no sink channel is configured.
type GuildSettings struct {
	GuildID      string
	LogChannelID string
	Enabled      bool
	LogJoin      bool
	LogLeave     bool
	LogMove      bool
	LogMute      bool
	LogDeaf      bool
	LogStream    bool
	LogVideo     bool
}

// DefaultGuildSettings returns the settings used before a guild has a
// stored row: everything enabled, no sink channel.
func DefaultGuildSettings(guildID string) GuildSettings {
	return GuildSettings{
		GuildID:   guildID,
		Enabled:   true,
		LogJoin:   true,
		LogLeave:  true,
		LogMove:   true,
		LogMute:   true,
		LogDeaf:   true,
		LogStream: true,
		LogVideo:  true,
	}
}

// CategoryEnabled returns the flag for one event category.
func (s GuildSettings) CategoryEnabled(c Category) bool {
	switch c {
	case CategoryJoin:
		return s.LogJoin
	case CategoryLeave:
		return s.LogLeave
	case CategoryMove:
		return s.LogMove
	case CategoryMute:
		return s.LogMute
	case CategoryDeaf:
		return s.LogDeaf
	case CategoryStream:
		return s.LogStream
	case CategoryVideo:
		return s.LogVideo
	}
	return false
}

// SettingsUpdate is a partial update of GuildSettings. Nil fields keep
// their stored value.
type SettingsUpdate struct {
	LogChannelID *string
	Enabled      *bool
	LogJoin      *bool
	LogLeave     *bool
	LogMove      *bool
	LogMute      *bool
	LogDeaf      *bool
	LogStream    *bool
	LogVideo     *bool
}

// Empty reports whether the update carries no fields.
func (u SettingsUpdate) Empty() bool {
	return u.LogChannelID == nil && u.Enabled == nil &&
		u.LogJoin == nil && u.LogLeave == nil && u.LogMove == nil &&
		u.LogMute == nil && u.LogDeaf == nil && u.LogStream == nil &&
		u.LogVideo == nil
}

// MemberTotals is one guild member's aggregate over closed sessions.
type MemberTotals struct {
	UserID       string
	Username     string
	TotalSeconds int64
	Sessions     int64
}

// UserStats is the per-user statistics bundle served by the stats command.
type UserStats struct {
	TotalSessions int64
	TotalSeconds  int64
	RecentEntries []LogEntry
}

// GuildStats is the per-guild statistics bundle served by the stats command.
type GuildStats struct {
	TotalSessions int64
	TopMembers    []MemberTotals
}
