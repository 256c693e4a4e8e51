package models

import "testing"

func TestActionCategories(t *testing.T) {
	tcs := []struct {
		action Action
		want   Category
	}{
		{ActionJoin, CategoryJoin},
		{ActionLeave, CategoryLeave},
		{ActionMove, CategoryMove},
		{ActionMute, CategoryMute},
		{ActionUnmute, CategoryMute},
		{ActionDeafen, CategoryDeaf},
		{ActionUndeafen, CategoryDeaf},
		{ActionStreamStart, CategoryStream},
		{ActionStreamStop, CategoryStream},
		{ActionVideoOn, CategoryVideo},
		{ActionVideoOff, CategoryVideo},
	}

	for _, tc := range tcs {
		if got := tc.action.Category(); got != tc.want {
			t.Fatalf("%s.Category() = %s, want %s", tc.action, got, tc.want)
		}
	}
}

func TestDefaultGuildSettings(t *testing.T) {
	settings := DefaultGuildSettings("guild-1")
	if !settings.Enabled {
		t.Fatal("defaults must be enabled")
	}
	if settings.LogChannelID != "" {
		t.Fatal("defaults must not have a sink channel")
	}
	for _, category := range []Category{
		CategoryJoin, CategoryLeave, CategoryMove,
		CategoryMute, CategoryDeaf, CategoryStream, CategoryVideo,
	} {
		if !settings.CategoryEnabled(category) {
			t.Fatalf("default category %s disabled", category)
		}
	}
}
