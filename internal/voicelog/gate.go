package voicelog

import (
	"log"

	"voicelog/internal/models"
)

// SettingsStore reads and writes per-guild logger configuration.
type SettingsStore interface {
	GetGuildSettings(guildID string) (models.GuildSettings, error)
	UpdateGuildSettings(guildID string, update models.SettingsUpdate) error
}

// Gate decides whether a classified event may be delivered to a guild's
// log channel, based on that guild's stored settings.
type Gate struct {
	store SettingsStore
}

// NewGate creates a settings gate over the given store.
func NewGate(store SettingsStore) *Gate {
	return &Gate{store: store}
}

// settings fetches the guild's settings, falling back to defaults when
// the row is missing or unreadable. A guild without a stored row is a
// guild that never ran setup: everything enabled, no sink.
func (g *Gate) settings(guildID string) models.GuildSettings {
	settings, err := g.store.GetGuildSettings(guildID)
	if err != nil {
		log.Printf("Warning: failed to load settings for guild %s, using defaults: %v", guildID, err)
		return models.DefaultGuildSettings(guildID)
	}
	return settings
}

// Enabled reports whether voice logging is globally enabled for the guild.
// Session accounting does not consult this; only log output does.
func (g *Gate) Enabled(guildID string) bool {
	return g.settings(guildID).Enabled
}

// ShouldEmit reports whether an event of the given action may be posted
// to the guild's log channel: requires logging enabled, a configured
// sink channel, and the action's category flag.
func (g *Gate) ShouldEmit(guildID string, action models.Action) bool {
	settings := g.settings(guildID)
	if !settings.Enabled || settings.LogChannelID == "" {
		return false
	}
	return settings.CategoryEnabled(action.Category())
}

// SinkChannel returns the guild's configured log channel, or "" if none.
func (g *Gate) SinkChannel(guildID string) string {
	return g.settings(guildID).LogChannelID
}
