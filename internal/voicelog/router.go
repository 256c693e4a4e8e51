package voicelog

import (
	"errors"
	"hash/fnv"
	"log"
	"strconv"
	"sync"
	"time"

	"voicelog/internal/models"
)

// lockShards sizes the per-user lock table. Updates for the same user
// always hash to the same shard, so the open/close pair can never race
// with itself; updates for different users usually run in parallel.
const lockShards = 64

// Sink receives filtered events for presentation, together with the
// guild's configured log channel.
type Sink func(channelID string, entry models.LogEntry)

// Router turns raw voice state transitions into tracker mutations, log
// entries, and sink deliveries.
type Router struct {
	tracker *Tracker
	logger  *ActivityLogger
	gate    *Gate
	sink    Sink
	locks   [lockShards]sync.Mutex
}

// NewRouter wires the core components together. The sink may be nil,
// in which case events are classified and recorded but never delivered.
func NewRouter(tracker *Tracker, logger *ActivityLogger, gate *Gate, sink Sink) *Router {
	return &Router{
		tracker: tracker,
		logger:  logger,
		gate:    gate,
		sink:    sink,
	}
}

type delivery struct {
	channelID string
	entry     models.LogEntry
}

// HandleTransition processes one raw before/after snapshot pair for a
// single user. The transport delivers updates for one user in order;
// the shard lock keeps their processing in that order. Sink sends hit
// the Discord API and run after the lock is released, so a rate-limited
// send never stalls other users on the same shard.
func (r *Router) HandleTransition(prev, cur models.VoiceState, now time.Time) {
	lock := &r.locks[shardFor(cur.UserID)]
	lock.Lock()

	var deliveries []delivery

	// Session accounting runs regardless of the logging toggle; only
	// log writes and sink delivery honour it.
	enabled := r.gate.Enabled(cur.GuildID)

	for _, action := range Classify(prev, cur) {
		entry := models.LogEntry{
			GuildID:     cur.GuildID,
			UserID:      cur.UserID,
			Username:    cur.Username,
			ChannelID:   cur.ChannelID,
			ChannelName: cur.ChannelName,
			Action:      action,
			Timestamp:   now,
		}

		switch action {
		case models.ActionJoin:
			r.openSession(cur, now)
		case models.ActionLeave:
			// The current snapshot has no channel; report the one left.
			entry.ChannelID = prev.ChannelID
			entry.ChannelName = prev.ChannelName
			session, err := r.tracker.Close(cur.UserID, now)
			if err != nil {
				// Expected when the session predates a restart.
				log.Printf("No session to close for user %s: %v", cur.UserID, err)
			} else {
				entry.Details = map[string]string{
					"duration": strconv.FormatInt(session.DurationSeconds, 10),
				}
			}
		case models.ActionMove:
			if _, err := r.tracker.Close(cur.UserID, now); err != nil {
				log.Printf("No session to close on move for user %s: %v", cur.UserID, err)
			}
			r.openSession(cur, now)
			entry.Details = map[string]string{
				"from": prev.ChannelName,
				"to":   cur.ChannelName,
			}
		}

		if !enabled {
			continue
		}
		r.logger.Append(entry)
		if r.sink != nil && r.gate.ShouldEmit(cur.GuildID, action) {
			deliveries = append(deliveries, delivery{
				channelID: r.gate.SinkChannel(cur.GuildID),
				entry:     entry,
			})
		}
	}

	lock.Unlock()

	for _, d := range deliveries {
		r.sink(d.channelID, d.entry)
	}
}

// openSession opens a session for the current snapshot. A conflicting
// open session indicates a missed leave (ordering bug or lost update);
// it is force-closed so tracking can continue from known-good state.
func (r *Router) openSession(cur models.VoiceState, now time.Time) {
	_, err := r.tracker.Open(cur.GuildID, cur.UserID, cur.Username, cur.ChannelID, cur.ChannelName, now)
	if !errors.Is(err, ErrSessionExists) {
		return
	}

	log.Printf("Warning: user %s already has an open session; force-closing it", cur.UserID)
	if _, err := r.tracker.Close(cur.UserID, now); err != nil {
		log.Printf("Error force-closing session for user %s: %v", cur.UserID, err)
	}
	if _, err := r.tracker.Open(cur.GuildID, cur.UserID, cur.Username, cur.ChannelID, cur.ChannelName, now); err != nil {
		log.Printf("Error reopening session for user %s: %v", cur.UserID, err)
	}
}

func shardFor(userID string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(userID))
	return h.Sum32() % lockShards
}
