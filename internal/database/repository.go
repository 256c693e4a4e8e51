package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"voicelog/internal/models"
)

// Repository handles database operations. It backs the voicelog core's
// session, activity, and settings stores.
type Repository struct {
	db *DB
}

// NewRepository creates a new repository
func NewRepository(db *DB) *Repository {
	return &Repository{db: db}
}

// InsertSession writes a new open session row
func (r *Repository) InsertSession(s models.Session) error {
	_, err := r.db.conn.Exec(`
		INSERT INTO voice_sessions (id, guild_id, user_id, username, channel_id, channel_name, join_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.GuildID, s.UserID, s.Username, s.ChannelID, s.ChannelName, s.JoinTime)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// CloseSession fills in the leave time and duration of an open session
func (r *Repository) CloseSession(id string, leaveTime time.Time, durationSeconds int64) error {
	_, err := r.db.conn.Exec(`
		UPDATE voice_sessions
		SET leave_time = $1, duration = $2
		WHERE id = $3 AND leave_time IS NULL`,
		leaveTime, durationSeconds, id)
	if err != nil {
		return fmt.Errorf("failed to close session: %w", err)
	}
	return nil
}

// CountOpenSessions counts session rows without a leave time
func (r *Repository) CountOpenSessions() (int64, error) {
	var count int64
	err := r.db.conn.QueryRow(
		"SELECT COUNT(*) FROM voice_sessions WHERE leave_time IS NULL").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count open sessions: %w", err)
	}
	return count, nil
}

// InsertLog appends one activity log row
func (r *Repository) InsertLog(entry models.LogEntry) error {
	var details sql.NullString
	if len(entry.Details) > 0 {
		raw, err := json.Marshal(entry.Details)
		if err != nil {
			return fmt.Errorf("failed to encode log details: %w", err)
		}
		details = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := r.db.conn.Exec(`
		INSERT INTO voice_logs (guild_id, user_id, username, channel_id, channel_name, action, timestamp, details)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.GuildID, entry.UserID, entry.Username, entry.ChannelID, entry.ChannelName,
		string(entry.Action), entry.Timestamp, details)
	if err != nil {
		return fmt.Errorf("failed to insert log: %w", err)
	}
	return nil
}

// RecentLogs returns the newest log entries for a user in a guild
func (r *Repository) RecentLogs(guildID, userID string, limit int) ([]models.LogEntry, error) {
	rows, err := r.db.conn.Query(`
		SELECT guild_id, user_id, username, COALESCE(channel_id, ''), COALESCE(channel_name, ''), action, timestamp, details
		FROM voice_logs
		WHERE guild_id = $1 AND user_id = $2
		ORDER BY timestamp DESC, id DESC
		LIMIT $3`,
		guildID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent logs: %w", err)
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var entry models.LogEntry
		var action string
		var details sql.NullString
		if err := rows.Scan(&entry.GuildID, &entry.UserID, &entry.Username,
			&entry.ChannelID, &entry.ChannelName, &action, &entry.Timestamp, &details); err != nil {
			log.Printf("Error scanning log row: %v", err)
			continue
		}
		entry.Action = models.Action(action)
		if details.Valid {
			if err := json.Unmarshal([]byte(details.String), &entry.Details); err != nil {
				log.Printf("Error decoding log details: %v", err)
			}
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// UserTotals aggregates a user's closed sessions in a guild
func (r *Repository) UserTotals(guildID, userID string) (int64, int64, error) {
	var sessions, seconds int64
	err := r.db.conn.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(duration), 0)
		FROM voice_sessions
		WHERE guild_id = $1 AND user_id = $2 AND leave_time IS NOT NULL`,
		guildID, userID).Scan(&sessions, &seconds)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get user totals: %w", err)
	}
	return sessions, seconds, nil
}

// MemberTotals aggregates closed sessions per member of a guild
func (r *Repository) MemberTotals(guildID string) ([]models.MemberTotals, error) {
	rows, err := r.db.conn.Query(`
		SELECT user_id, MAX(username), COALESCE(SUM(duration), 0), COUNT(*)
		FROM voice_sessions
		WHERE guild_id = $1 AND leave_time IS NOT NULL
		GROUP BY user_id`,
		guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member totals: %w", err)
	}
	defer rows.Close()

	var members []models.MemberTotals
	for rows.Next() {
		var m models.MemberTotals
		if err := rows.Scan(&m.UserID, &m.Username, &m.TotalSeconds, &m.Sessions); err != nil {
			log.Printf("Error scanning member totals row: %v", err)
			continue
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// CountClosedSessions counts a guild's closed sessions
func (r *Repository) CountClosedSessions(guildID string) (int64, error) {
	var count int64
	err := r.db.conn.QueryRow(`
		SELECT COUNT(*) FROM voice_sessions
		WHERE guild_id = $1 AND leave_time IS NOT NULL`,
		guildID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count closed sessions: %w", err)
	}
	return count, nil
}

// GetGuildSettings returns a guild's logger settings, or the defaults
// if the guild has no stored row yet
func (r *Repository) GetGuildSettings(guildID string) (models.GuildSettings, error) {
	settings := models.GuildSettings{GuildID: guildID}
	var logChannel sql.NullString
	err := r.db.conn.QueryRow(`
		SELECT log_channel_id, enabled, log_join, log_leave, log_move, log_mute, log_deaf, log_stream, log_video
		FROM voice_logger_settings
		WHERE guild_id = $1`,
		guildID).Scan(&logChannel, &settings.Enabled,
		&settings.LogJoin, &settings.LogLeave, &settings.LogMove, &settings.LogMute,
		&settings.LogDeaf, &settings.LogStream, &settings.LogVideo)
	if err == sql.ErrNoRows {
		return models.DefaultGuildSettings(guildID), nil
	}
	if err != nil {
		return models.GuildSettings{}, fmt.Errorf("failed to get guild settings: %w", err)
	}
	settings.LogChannelID = logChannel.String
	return settings, nil
}

// UpdateGuildSettings upserts only the fields present in the update,
// leaving the rest of the row untouched
func (r *Repository) UpdateGuildSettings(guildID string, update models.SettingsUpdate) error {
	if update.Empty() {
		return nil
	}

	columns := []string{"guild_id"}
	values := []interface{}{guildID}

	add := func(column string, value interface{}) {
		columns = append(columns, column)
		values = append(values, value)
	}
	if update.LogChannelID != nil {
		add("log_channel_id", *update.LogChannelID)
	}
	if update.Enabled != nil {
		add("enabled", *update.Enabled)
	}
	if update.LogJoin != nil {
		add("log_join", *update.LogJoin)
	}
	if update.LogLeave != nil {
		add("log_leave", *update.LogLeave)
	}
	if update.LogMove != nil {
		add("log_move", *update.LogMove)
	}
	if update.LogMute != nil {
		add("log_mute", *update.LogMute)
	}
	if update.LogDeaf != nil {
		add("log_deaf", *update.LogDeaf)
	}
	if update.LogStream != nil {
		add("log_stream", *update.LogStream)
	}
	if update.LogVideo != nil {
		add("log_video", *update.LogVideo)
	}

	placeholders := make([]string, len(columns))
	assignments := make([]string, 0, len(columns)-1)
	for i, column := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		if i > 0 {
			assignments = append(assignments, fmt.Sprintf("%s = EXCLUDED.%s", column, column))
		}
	}

	query := fmt.Sprintf(`
		INSERT INTO voice_logger_settings (%s)
		VALUES (%s)
		ON CONFLICT (guild_id) DO UPDATE SET %s`,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(assignments, ", "))

	if _, err := r.db.conn.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to update guild settings: %w", err)
	}
	return nil
}
