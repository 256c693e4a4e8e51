package voicelog

import (
	"reflect"
	"testing"

	"voicelog/internal/models"
)

func state(channelID string, muted, deafened, streaming, video bool) models.VoiceState {
	return models.VoiceState{
		UserID:    "user-1",
		GuildID:   "guild-1",
		ChannelID: channelID,
		Muted:     muted,
		Deafened:  deafened,
		Streaming: streaming,
		Video:     video,
	}
}

func TestClassifyPresenceTransitions(t *testing.T) {
	tcs := []struct {
		name string
		prev models.VoiceState
		cur  models.VoiceState
		want []models.Action
	}{
		{
			name: "join",
			prev: state("", false, false, false, false),
			cur:  state("vc-1", false, false, false, false),
			want: []models.Action{models.ActionJoin},
		},
		{
			name: "leave",
			prev: state("vc-1", false, false, false, false),
			cur:  state("", false, false, false, false),
			want: []models.Action{models.ActionLeave},
		},
		{
			name: "move",
			prev: state("vc-1", false, false, false, false),
			cur:  state("vc-2", false, false, false, false),
			want: []models.Action{models.ActionMove},
		},
		{
			name: "no change",
			prev: state("vc-1", false, false, false, false),
			cur:  state("vc-1", false, false, false, false),
			want: nil,
		},
		{
			name: "absent before and after",
			prev: state("", false, false, false, false),
			cur:  state("", false, false, false, false),
			want: nil,
		},
	}

	for _, tc := range tcs {
		got := Classify(tc.prev, tc.cur)
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("%s: Classify = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// TestClassifyJoinSuppressesAttributes ensures a user joining already
// muted and deafened produces only a join event.
func TestClassifyJoinSuppressesAttributes(t *testing.T) {
	prev := state("", false, false, false, false)
	cur := state("vc-1", true, true, false, false)

	got := Classify(prev, cur)
	want := []models.Action{models.ActionJoin}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Classify = %v, want %v", got, want)
	}
}

// TestClassifyLeaveSuppressesAttributes ensures attribute flips carried
// on a leave update are not reported separately.
func TestClassifyLeaveSuppressesAttributes(t *testing.T) {
	prev := state("vc-1", true, false, true, false)
	cur := state("", false, false, false, false)

	got := Classify(prev, cur)
	want := []models.Action{models.ActionLeave}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Classify = %v, want %v", got, want)
	}
}

func TestClassifySingleAttributeFlip(t *testing.T) {
	tcs := []struct {
		name string
		prev models.VoiceState
		cur  models.VoiceState
		want models.Action
	}{
		{"mute", state("vc-1", false, false, false, false), state("vc-1", true, false, false, false), models.ActionMute},
		{"unmute", state("vc-1", true, false, false, false), state("vc-1", false, false, false, false), models.ActionUnmute},
		{"deafen", state("vc-1", false, false, false, false), state("vc-1", false, true, false, false), models.ActionDeafen},
		{"undeafen", state("vc-1", false, true, false, false), state("vc-1", false, false, false, false), models.ActionUndeafen},
		{"stream start", state("vc-1", false, false, false, false), state("vc-1", false, false, true, false), models.ActionStreamStart},
		{"stream stop", state("vc-1", false, false, true, false), state("vc-1", false, false, false, false), models.ActionStreamStop},
		{"video on", state("vc-1", false, false, false, false), state("vc-1", false, false, false, true), models.ActionVideoOn},
		{"video off", state("vc-1", false, false, false, true), state("vc-1", false, false, false, false), models.ActionVideoOff},
	}

	for _, tc := range tcs {
		got := Classify(tc.prev, tc.cur)
		if len(got) != 1 || got[0] != tc.want {
			t.Fatalf("%s: Classify = %v, want exactly [%s]", tc.name, got, tc.want)
		}
	}
}

// TestClassifyStackedAttributeFlips ensures simultaneous attribute
// changes come out in the fixed field order: mute, deafen, stream, video.
func TestClassifyStackedAttributeFlips(t *testing.T) {
	prev := state("vc-1", false, false, false, false)
	cur := state("vc-1", true, true, false, false)

	got := Classify(prev, cur)
	want := []models.Action{models.ActionMute, models.ActionDeafen}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Classify = %v, want %v", got, want)
	}

	prev = state("vc-1", true, false, false, true)
	cur = state("vc-1", false, true, true, false)
	got = Classify(prev, cur)
	want = []models.Action{
		models.ActionUnmute,
		models.ActionDeafen,
		models.ActionStreamStart,
		models.ActionVideoOff,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Classify = %v, want %v", got, want)
	}
}
