package models

// Action identifies one semantic voice event.
type Action string

const (
	ActionJoin        Action = "join"
	ActionLeave       Action = "leave"
	ActionMove        Action = "move"
	ActionMute        Action = "mute"
	ActionUnmute      Action = "unmute"
	ActionDeafen      Action = "deaf"
	ActionUndeafen    Action = "undeaf"
	ActionStreamStart Action = "stream_start"
	ActionStreamStop  Action = "stream_stop"
	ActionVideoOn     Action = "video_on"
	ActionVideoOff    Action = "video_off"
)

// Category groups actions for the per-guild settings toggles. Paired
// actions (mute/unmute, deaf/undeaf, stream, video) share one flag.
type Category string

const (
	CategoryJoin   Category = "join"
	CategoryLeave  Category = "leave"
	CategoryMove   Category = "move"
	CategoryMute   Category = "mute"
	CategoryDeaf   Category = "deaf"
	CategoryStream Category = "stream"
	CategoryVideo  Category = "video"
)

// Category returns the settings category an action belongs to.
func (a Action) Category() Category {
	switch a {
	case ActionJoin:
		return CategoryJoin
	case ActionLeave:
		return CategoryLeave
	case ActionMove:
		return CategoryMove
	case ActionMute, ActionUnmute:
		return CategoryMute
	case ActionDeafen, ActionUndeafen:
		return CategoryDeaf
	case ActionStreamStart, ActionStreamStop:
		return CategoryStream
	case ActionVideoOn, ActionVideoOff:
		return CategoryVideo
	}
	return ""
}

// Label returns a human-readable description for embeds and stats output.
func (a Action) Label() string {
	switch a {
	case ActionJoin:
		return "Joined voice channel"
	case ActionLeave:
		return "Left voice channel"
	case ActionMove:
		return "Moved voice channels"
	case ActionMute:
		return "Muted"
	case ActionUnmute:
		return "Unmuted"
	case ActionDeafen:
		return "Deafened"
	case ActionUndeafen:
		return "Undeafened"
	case ActionStreamStart:
		return "Started streaming"
	case ActionStreamStop:
		return "Stopped streaming"
	case ActionVideoOn:
		return "Camera on"
	case ActionVideoOff:
		return "Camera off"
	}
	return string(a)
}

// Emoji returns the marker used in embeds and recent-activity lists.
func (a Action) Emoji() string {
	switch a {
	case ActionJoin:
		return "🟢"
	case ActionLeave:
		return "🔴"
	case ActionMove:
		return "🔄"
	case ActionMute, ActionDeafen:
		return "🔇"
	case ActionUnmute, ActionUndeafen:
		return "🔊"
	case ActionStreamStart:
		return "📹"
	case ActionStreamStop:
		return "⏹️"
	case ActionVideoOn, ActionVideoOff:
		return "📷"
	}
	return "📝"
}
