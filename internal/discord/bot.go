package discord

import (
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"voicelog/internal/database"
	"voicelog/internal/models"
	"voicelog/internal/voicelog"
	"voicelog/pkg/utils"
)

// Bot wires the Discord gateway to the voicelog core: voice state
// updates flow in through the router, filtered events flow back out as
// embeds in each guild's configured log channel.
type Bot struct {
	session    *discordgo.Session
	repository *database.Repository
	tracker    *voicelog.Tracker
	logger     *voicelog.ActivityLogger
	router     *voicelog.Router
	prefix     string
}

// New creates a new Discord bot
func New(token, prefix string, repository *database.Repository, tracker *voicelog.Tracker, logger *voicelog.ActivityLogger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	bot := &Bot{
		session:    session,
		repository: repository,
		tracker:    tracker,
		logger:     logger,
		prefix:     prefix,
	}
	bot.router = voicelog.NewRouter(tracker, logger, voicelog.NewGate(repository), bot.sendEvent)

	session.AddHandler(bot.voiceStateUpdate)
	session.AddHandler(bot.messageCreate)

	return bot, nil
}

// Start starts the bot
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	fmt.Println("✅ Voice logger is running...")
	return nil
}

// Stop stops the bot
func (b *Bot) Stop() error {
	return b.session.Close()
}

// voiceStateUpdate converts one gateway update into a before/after
// snapshot pair and hands it to the router. discordgo's state cache
// fills BeforeUpdate; a nil BeforeUpdate means the user was not in
// voice before, which the zero-value snapshot already expresses.
func (b *Bot) voiceStateUpdate(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
	if vs.Member != nil && vs.Member.User != nil && vs.Member.User.Bot {
		return
	}

	cur := b.snapshot(s, vs.VoiceState)
	prev := models.VoiceState{UserID: cur.UserID, GuildID: cur.GuildID, Username: cur.Username}
	if vs.BeforeUpdate != nil {
		prev = b.snapshot(s, vs.BeforeUpdate)
	}

	b.router.HandleTransition(prev, cur, time.Now().UTC())
}

// snapshot flattens a discordgo voice state into the core's model.
// Server and self mute/deafen collapse into single flags; the core does
// not care who flipped the switch.
func (b *Bot) snapshot(s *discordgo.Session, vs *discordgo.VoiceState) models.VoiceState {
	username := vs.UserID
	if vs.Member != nil && vs.Member.User != nil {
		username = vs.Member.User.Username
	}

	return models.VoiceState{
		UserID:      vs.UserID,
		GuildID:     vs.GuildID,
		Username:    username,
		ChannelID:   vs.ChannelID,
		ChannelName: b.channelName(s, vs.ChannelID),
		Muted:       vs.Mute || vs.SelfMute,
		Deafened:    vs.Deaf || vs.SelfDeaf,
		Streaming:   vs.SelfStream,
		Video:       vs.SelfVideo,
	}
}

// channelName resolves a channel id to its name, preferring the state
// cache over a REST call.
func (b *Bot) channelName(s *discordgo.Session, channelID string) string {
	if channelID == "" {
		return ""
	}
	if channel, err := s.State.Channel(channelID); err == nil {
		return channel.Name
	}
	if channel, err := s.Channel(channelID); err == nil {
		return channel.Name
	}
	return "Unknown Channel"
}

// sendEvent is the router's sink: it renders one permitted event as an
// embed and posts it to the guild's log channel.
func (b *Bot) sendEvent(channelID string, entry models.LogEntry) {
	embed := &discordgo.MessageEmbed{
		Color: actionColor(entry.Action),
		Author: &discordgo.MessageEmbedAuthor{
			Name: entry.Username,
		},
		Description: fmt.Sprintf("%s **%s**", entry.Action.Emoji(), entry.Action.Label()),
		Timestamp:   entry.Timestamp.Format(time.RFC3339),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "User ID: " + entry.UserID,
		},
	}

	switch entry.Action {
	case models.ActionMove:
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "From", Value: "🔊 " + entry.Details["from"], Inline: true},
			{Name: "To", Value: "🔊 " + entry.Details["to"], Inline: true},
		}
	case models.ActionLeave:
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: "🔊 " + entry.ChannelName, Inline: true},
			{Name: "Duration", Value: "⏱️ " + leaveDuration(entry), Inline: true},
		}
	default:
		embed.Fields = []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: "🔊 " + entry.ChannelName, Inline: true},
		}
	}

	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		fmt.Printf("Failed to send voice log to channel %s: %v\n", channelID, err)
	}
}

// leaveDuration renders the duration carried in a leave entry. Entries
// without one (session lost across a restart) show as unknown.
func leaveDuration(entry models.LogEntry) string {
	raw, ok := entry.Details["duration"]
	if !ok {
		return "Unknown"
	}
	seconds, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return "Unknown"
	}
	return utils.FormatDuration(seconds)
}

func actionColor(action models.Action) int {
	switch action {
	case models.ActionJoin:
		return 0x00ff00
	case models.ActionLeave:
		return 0xff0000
	case models.ActionMove:
		return 0xffaa00
	default:
		return 0x0099ff
	}
}
