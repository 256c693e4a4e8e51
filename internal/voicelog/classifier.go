package voicelog

import "voicelog/internal/models"

// Classify compares two voice state snapshots for one user and returns
// the semantic events in emission order. Presence changes (join, leave,
// move) are mutually exclusive and take priority; attribute changes
// (mute, deafen, stream, video) are only reported while the user stays
// in the same channel, so a user who joins already muted produces just
// a join.
func Classify(prev, cur models.VoiceState) []models.Action {
	switch {
	case !prev.InChannel() && cur.InChannel():
		return []models.Action{models.ActionJoin}
	case prev.InChannel() && !cur.InChannel():
		return []models.Action{models.ActionLeave}
	case prev.ChannelID != cur.ChannelID:
		return []models.Action{models.ActionMove}
	case !cur.InChannel():
		// Not in a channel before or after; nothing to report.
		return nil
	}

	var actions []models.Action
	if prev.Muted != cur.Muted {
		if cur.Muted {
			actions = append(actions, models.ActionMute)
		} else {
			actions = append(actions, models.ActionUnmute)
		}
	}
	if prev.Deafened != cur.Deafened {
		if cur.Deafened {
			actions = append(actions, models.ActionDeafen)
		} else {
			actions = append(actions, models.ActionUndeafen)
		}
	}
	if prev.Streaming != cur.Streaming {
		if cur.Streaming {
			actions = append(actions, models.ActionStreamStart)
		} else {
			actions = append(actions, models.ActionStreamStop)
		}
	}
	if prev.Video != cur.Video {
		if cur.Video {
			actions = append(actions, models.ActionVideoOn)
		} else {
			actions = append(actions, models.ActionVideoOff)
		}
	}
	return actions
}
