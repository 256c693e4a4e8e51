package discord

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"voicelog/internal/models"
	"voicelog/pkg/utils"
)

// messageCreate dispatches the prefix commands
func (b *Bot) messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.Bot || m.GuildID == "" {
		return
	}

	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, b.prefix+"voicelog") {
		return
	}

	args := strings.Fields(strings.TrimPrefix(content, b.prefix+"voicelog"))
	if len(args) == 0 {
		b.handleHelp(s, m)
		return
	}

	switch args[0] {
	case "setup":
		b.handleSetup(s, m, args[1:])
	case "toggle":
		b.handleToggle(s, m, args[1:])
	case "settings":
		b.handleSettings(s, m, args[1:])
	case "stats":
		b.handleStats(s, m, args[1:])
	default:
		b.handleHelp(s, m)
	}
}

func (b *Bot) handleHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	p := b.prefix
	msg := "🎤 **Voice Logger**\n" +
		fmt.Sprintf("`%svoicelog setup #channel` - choose the log channel\n", p) +
		fmt.Sprintf("`%svoicelog toggle on|off` - enable or disable logging\n", p) +
		fmt.Sprintf("`%svoicelog settings [join=off ...]` - show or change event toggles\n", p) +
		fmt.Sprintf("`%svoicelog stats [@user]` - voice statistics", p)
	s.ChannelMessageSend(m.ChannelID, msg)
}

// handleSetup points the guild's voice log at a text channel and
// enables logging
func (b *Bot) handleSetup(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 || !utils.IsChannelMention(args[0]) {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Format: %svoicelog setup #channel", b.prefix))
		return
	}

	channelID := utils.ExtractChannelIDFromMention(args[0])
	channel, err := s.Channel(channelID)
	if err != nil || channel.Type != discordgo.ChannelTypeGuildText || channel.GuildID != m.GuildID {
		s.ChannelMessageSend(m.ChannelID, "❌ That is not a text channel in this server.")
		return
	}

	enabled := true
	err = b.repository.UpdateGuildSettings(m.GuildID, models.SettingsUpdate{
		LogChannelID: &channelID,
		Enabled:      &enabled,
	})
	if err != nil {
		log.Printf("Error updating guild settings: %v", err)
		s.ChannelMessageSend(m.ChannelID, "❌ Failed to save settings.")
		return
	}

	s.ChannelMessageSend(m.ChannelID,
		fmt.Sprintf("✅ Voice activity logs will be sent to %s. Use `%svoicelog settings` to customize which events are logged.",
			utils.FormatChannelMention(channelID), b.prefix))
}

// handleToggle flips the guild's global logging switch. Enabling
// requires a configured log channel first.
func (b *Bot) handleToggle(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) == 0 {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Format: %svoicelog toggle on|off", b.prefix))
		return
	}

	enabled, ok := parseToggle(args[0])
	if !ok {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Format: %svoicelog toggle on|off", b.prefix))
		return
	}

	settings, err := b.repository.GetGuildSettings(m.GuildID)
	if err != nil {
		log.Printf("Error getting guild settings: %v", err)
		s.ChannelMessageSend(m.ChannelID, "❌ Failed to load settings.")
		return
	}
	if enabled && settings.LogChannelID == "" {
		s.ChannelMessageSend(m.ChannelID,
			fmt.Sprintf("❌ Voice logging is not set up yet! Use `%svoicelog setup` first.", b.prefix))
		return
	}

	if err := b.repository.UpdateGuildSettings(m.GuildID, models.SettingsUpdate{Enabled: &enabled}); err != nil {
		log.Printf("Error updating guild settings: %v", err)
		s.ChannelMessageSend(m.ChannelID, "❌ Failed to save settings.")
		return
	}

	if enabled {
		s.ChannelMessageSend(m.ChannelID, "✅ Voice logging enabled.")
	} else {
		s.ChannelMessageSend(m.ChannelID, "❌ Voice logging disabled.")
	}
}

// handleSettings shows the current event toggles, or applies key=value
// updates like "join=off stream=on"
func (b *Bot) handleSettings(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) > 0 {
		update, err := parseSettingsArgs(args)
		if err != nil {
			s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("❌ %v", err))
			return
		}
		if err := b.repository.UpdateGuildSettings(m.GuildID, update); err != nil {
			log.Printf("Error updating guild settings: %v", err)
			s.ChannelMessageSend(m.ChannelID, "❌ Failed to save settings.")
			return
		}
	}

	settings, err := b.repository.GetGuildSettings(m.GuildID)
	if err != nil {
		log.Printf("Error getting guild settings: %v", err)
		s.ChannelMessageSend(m.ChannelID, "❌ Failed to load settings.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Color: 0x0099ff,
		Title: "⚙️ Voice Logger Settings",
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Join/Leave",
				Value: flagLine(settings.LogJoin, "Join") +
					flagLine(settings.LogLeave, "Leave") +
					flagLine(settings.LogMove, "Move"),
				Inline: true,
			},
			{
				Name: "Audio State",
				Value: flagLine(settings.LogMute, "Mute/Unmute") +
					flagLine(settings.LogDeaf, "Deaf/Undeaf"),
				Inline: true,
			},
			{
				Name: "Streaming",
				Value: flagLine(settings.LogStream, "Stream") +
					flagLine(settings.LogVideo, "Video"),
				Inline: true,
			},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if settings.LogChannelID == "" {
		embed.Description = fmt.Sprintf("Logging is not set up. Use `%svoicelog setup #channel`.", b.prefix)
	} else {
		status := "enabled"
		if !settings.Enabled {
			status = "disabled"
		}
		embed.Description = fmt.Sprintf("Logging is **%s**, channel: %s",
			status, utils.FormatChannelMention(settings.LogChannelID))
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		log.Printf("Error sending settings embed: %v", err)
	}
}

// handleStats shows per-user stats when a user is mentioned, otherwise
// the guild leaderboard
func (b *Bot) handleStats(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) > 0 && utils.IsUserMention(args[0]) {
		b.sendUserStats(s, m, utils.ExtractUserIDFromMention(args[0]))
		return
	}
	b.sendGuildStats(s, m)
}

func (b *Bot) sendUserStats(s *discordgo.Session, m *discordgo.MessageCreate, userID string) {
	stats, err := b.logger.UserStats(m.GuildID, userID)
	if err != nil {
		log.Printf("Error getting user stats: %v", err)
		s.ChannelMessageSend(m.ChannelID, "❌ Failed to load statistics.")
		return
	}

	average := "N/A"
	if stats.TotalSessions > 0 {
		average = utils.FormatDuration(stats.TotalSeconds / stats.TotalSessions)
	}

	embed := &discordgo.MessageEmbed{
		Color: 0x0099ff,
		Title: "🎤 Voice Statistics for " + utils.FormatUserMention(userID),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📊 Total Sessions", Value: fmt.Sprintf("%d", stats.TotalSessions), Inline: true},
			{Name: "⏱️ Total Time", Value: utils.FormatDuration(stats.TotalSeconds), Inline: true},
			{Name: "📈 Average Session", Value: average, Inline: true},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if len(stats.RecentEntries) > 0 {
		var lines []string
		for i, entry := range stats.RecentEntries {
			if i == 5 {
				break
			}
			lines = append(lines, fmt.Sprintf("%s **%s** <t:%d:R>",
				entry.Action.Emoji(), entry.Action.Label(), entry.Timestamp.Unix()))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "📝 Recent Activity",
			Value: strings.Join(lines, "\n"),
		})
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		log.Printf("Error sending stats embed: %v", err)
	}
}

func (b *Bot) sendGuildStats(s *discordgo.Session, m *discordgo.MessageCreate) {
	stats, err := b.logger.GuildStats(m.GuildID, 10)
	if err != nil {
		log.Printf("Error getting guild stats: %v", err)
		s.ChannelMessageSend(m.ChannelID, "❌ Failed to load statistics.")
		return
	}

	leaderboard := "No data available yet"
	if len(stats.TopMembers) > 0 {
		var lines []string
		for i, member := range stats.TopMembers {
			entry := utils.FormatLeaderboardEntry(i+1,
				utils.FormatUserMention(member.UserID),
				utils.FormatDuration(member.TotalSeconds))
			lines = append(lines, fmt.Sprintf("%s (%d sessions)", entry, member.Sessions))
		}
		leaderboard = strings.Join(lines, "\n")
	}

	embed := &discordgo.MessageEmbed{
		Color: 0x0099ff,
		Title: "🎤 Voice Statistics",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📊 Total Sessions", Value: fmt.Sprintf("%d", stats.TotalSessions), Inline: true},
			{Name: "🔊 Currently In Voice", Value: fmt.Sprintf("%d", b.tracker.OpenCount()), Inline: true},
			{Name: "🏆 Most Active Users", Value: leaderboard},
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		log.Printf("Error sending stats embed: %v", err)
	}
}

func parseToggle(arg string) (bool, bool) {
	switch strings.ToLower(arg) {
	case "on", "true", "yes", "enable", "enabled":
		return true, true
	case "off", "false", "no", "disable", "disabled":
		return false, true
	}
	return false, false
}

// parseSettingsArgs parses "join=off stream=on" style toggles into a
// partial settings update
func parseSettingsArgs(args []string) (models.SettingsUpdate, error) {
	var update models.SettingsUpdate
	for _, arg := range args {
		key, rawValue, found := strings.Cut(arg, "=")
		if !found {
			return models.SettingsUpdate{}, fmt.Errorf("expected key=on|off, got %q", arg)
		}
		value, ok := parseToggle(rawValue)
		if !ok {
			return models.SettingsUpdate{}, fmt.Errorf("expected on or off for %q, got %q", key, rawValue)
		}

		v := value
		switch strings.ToLower(key) {
		case "join":
			update.LogJoin = &v
		case "leave":
			update.LogLeave = &v
		case "move":
			update.LogMove = &v
		case "mute":
			update.LogMute = &v
		case "deaf":
			update.LogDeaf = &v
		case "stream":
			update.LogStream = &v
		case "video":
			update.LogVideo = &v
		default:
			return models.SettingsUpdate{}, fmt.Errorf("unknown setting %q", key)
		}
	}
	return update, nil
}

func flagLine(enabled bool, label string) string {
	if enabled {
		return "✅ " + label + "\n"
	}
	return "❌ " + label + "\n"
}
